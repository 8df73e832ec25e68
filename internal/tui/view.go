package tui

import (
	"fmt"
	"strings"

	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const minWidth = 60

func (c *Console) View() string {
	if c.width == 0 {
		return "Loading fleet console..."
	}
	width := maxInt(minWidth, c.width)

	sections := []string{
		c.renderTitle(),
		c.renderTabs(),
		c.renderSearch(),
		c.renderTable(width),
		c.renderFooter(),
	}
	if c.showDetail {
		if sel := c.selected(); sel != nil {
			sections = append(sections, c.renderDetail(sel, width))
		}
	}
	body := lipgloss.JoinVertical(lipgloss.Left, sections...)

	if c.mode == modeConfirmDelete && c.pendingDelete != nil {
		modal := modalStyle().Render(fmt.Sprintf(
			"Delete server %q?\nThis cannot be undone.\n\n[y] delete   [any other key] cancel",
			c.pendingDelete.Name,
		))
		return lipgloss.Place(c.width, c.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return body
}

func (c *Console) renderTitle() string {
	title := headingStyle().Render("Fleet Console")
	total := ""
	if c.result != nil {
		total = statusStyle().Render(fmt.Sprintf("  %d servers", c.result.CountsByStatus[models.StatusFilterAll]))
	}
	if c.loading {
		total += statusStyle().Render("  loading...")
	}
	return title + total
}

func (c *Console) renderTabs() string {
	parts := make([]string, 0, len(statusTabs))
	for i, tab := range statusTabs {
		count := 0
		if c.result != nil {
			count = c.result.CountsByStatus[tab.Value]
		}
		label := fmt.Sprintf("%s (%d)", tab.Label, count)
		parts = append(parts, tabStyle(i == c.statusIdx).Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (c *Console) renderSearch() string {
	if c.searchFocused {
		return c.searchInput.View()
	}
	if c.appliedSearch != "" {
		return statusStyle().Render("search: ") + c.appliedSearch
	}
	return statusStyle().Render("press / to search")
}

func (c *Console) renderTable(width int) string {
	if c.result == nil {
		return ""
	}
	if len(c.result.Servers) == 0 {
		return "\n" + statusStyle().Render("No servers match the current filter") + "\n"
	}

	nameW := maxInt(20, (width-46)/2)
	rows := make([]string, 0, len(c.result.Servers)+1)
	header := fmt.Sprintf("  %-*s %-9s %-14s %-14s %-8s", nameW, "NAME", "KIND", "STATUS", "VISIBILITY", "AGENTS")
	rows = append(rows, statusStyle().Render(header))

	for i := range c.result.Servers {
		s := &c.result.Servers[i]
		prefix := "  "
		if i == c.cursor {
			prefix = "> "
		}
		name := truncate.StringWithTail(s.Name, uint(nameW), "...")
		status := runStatusStyle(s.RunStatus.IsTransient(), s.RunStatus == models.RunStatusOnline).
			Render(fmt.Sprintf("%-14s", formatRunStatus(s.RunStatus)))
		row := fmt.Sprintf("%s%-*s %-9s %s %-14s %-8s",
			prefix, nameW, name, s.Kind, status, formatVisibility(s), fmt.Sprintf("%d/%d", s.AgentsRunning, s.MaxAgents))
		if i == c.cursor {
			row = lipgloss.NewStyle().Bold(true).Render(row)
		}
		rows = append(rows, row)
	}
	return "\n" + strings.Join(rows, "\n") + "\n"
}

func (c *Console) renderDetail(s *models.ServerRecord, width int) string {
	var sb strings.Builder
	sb.WriteString(headingStyle().Render(s.Name))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("endpoint: %s (%s)\n", s.Endpoint, s.Transport))
	sb.WriteString(fmt.Sprintf("created by %s, modified %s\n", s.CreatedBy, s.LastModified.Format("2006-01-02 15:04")))
	if s.Command != "" {
		sb.WriteString("command: " + s.Command + "\n")
	}
	for _, tool := range s.Tools {
		args := make([]string, 0, len(tool.Args))
		for _, a := range tool.Args {
			args = append(args, a.Name)
		}
		sb.WriteString(fmt.Sprintf("tool %s(%s): %s\n", tool.Name, strings.Join(args, ", "), tool.Description))
	}
	for _, f := range s.SourceFiles {
		sb.WriteString("file: " + f.Path + "\n")
	}
	return "\n" + wordwrap.String(sb.String(), width-2)
}

func (c *Console) renderFooter() string {
	pageInfo := ""
	if c.result != nil && c.result.Metadata.TotalPages > 0 {
		pageInfo = fmt.Sprintf("page %d/%d (%d matching)  ", c.result.Metadata.Page, c.result.Metadata.TotalPages, c.result.Metadata.TotalCount)
	}
	help := statusStyle().Render(pageInfo + "[/]search [tab]filter [[ ]]page [s]tart/stop [v]isibility [d]elete [enter]detail [r]efresh [q]uit")

	extra := ""
	if c.errMsg != "" {
		extra = "\n" + errorStyle().Render(truncateLine(c.errMsg, maxInt(minWidth, c.width)-2))
	} else if c.notice != "" {
		extra = "\n" + noticeStyle().Render(c.notice)
	}
	return "\n" + help + extra
}

func formatRunStatus(status models.RunStatus) string {
	switch status {
	case models.RunStatusOnline:
		return "Online"
	case models.RunStatusOffline:
		return "Offline"
	case models.RunStatusStarting:
		return "Starting..."
	case models.RunStatusStopping:
		return "Stopping..."
	}
	return string(status)
}

func formatVisibility(s *models.ServerRecord) string {
	switch s.VisibilityStatus {
	case models.VisibilityPublishing:
		return "Publishing..."
	case models.VisibilityUnpublishing:
		return "Unpublishing..."
	}
	if s.IsPublic {
		return "Public"
	}
	return "Private"
}

func truncateLine(s string, width int) string {
	return truncate.StringWithTail(strings.ReplaceAll(s, "\n", " "), uint(width), "...")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
