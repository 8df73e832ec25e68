package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("205")
	colorMuted   = lipgloss.Color("241")
	colorOnline  = lipgloss.Color("42")
	colorOffline = lipgloss.Color("244")
	colorPending = lipgloss.Color("214")
	colorError   = lipgloss.Color("196")
)

func headingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
}

func statusStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorMuted)
}

func errorStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorError)
}

func noticeStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(colorOnline)
}

func tabStyle(selected bool) lipgloss.Style {
	if selected {
		return lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Padding(0, 1)
	}
	return lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
}

func runStatusStyle(transient bool, online bool) lipgloss.Style {
	switch {
	case transient:
		return lipgloss.NewStyle().Foreground(colorPending)
	case online:
		return lipgloss.NewStyle().Foreground(colorOnline)
	default:
		return lipgloss.NewStyle().Foreground(colorOffline)
	}
}

func modalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorPrimary).
		Padding(1, 3)
}
