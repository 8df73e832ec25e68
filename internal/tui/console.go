// Package tui implements the interactive fleet console: a single-screen
// terminal UI for browsing, filtering and managing agent servers.
package tui

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/agentfleet/fleetconsole/internal/client"
	v0 "github.com/agentfleet/fleetconsole/internal/console/api/handlers/v0"
	"github.com/agentfleet/fleetconsole/pkg/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// statusTabs lists the filter tabs in display order. Values match the query
// filter, labels are what the tab bar shows.
var statusTabs = []struct {
	Value string
	Label string
}{
	{models.StatusFilterAll, "All"},
	{string(models.RunStatusOnline), "Online"},
	{string(models.RunStatusOffline), "Offline"},
	{string(models.RunStatusStarting), "Starting"},
	{string(models.RunStatusStopping), "Stopping"},
}

// refreshInterval drives polling while a lifecycle transition is in flight.
const refreshInterval = 500 * time.Millisecond

type consoleMode int

const (
	modeBrowse consoleMode = iota
	modeConfirmDelete
)

type serversMsg struct {
	result *v0.ServerListBody
	err    error
}

type actionMsg struct {
	notice string
	err    error
	// confirmID is set when a delete was rejected pending confirmation
	confirmID string
}

type refreshTickMsg time.Time

// Console is the Bubble Tea model for the fleet console screen.
type Console struct {
	client *client.Client
	width  int
	height int

	statusIdx int
	page      int
	cursor    int

	searchInput   textinput.Model
	searchFocused bool
	appliedSearch string

	result  *v0.ServerListBody
	loading bool
	errMsg  string
	notice  string

	mode          consoleMode
	pendingDelete *models.ServerRecord

	showDetail bool
	polling    bool
}

// NewConsole builds the console model around an API client.
func NewConsole(c *client.Client) *Console {
	si := textinput.New()
	si.Prompt = "/ "
	si.Placeholder = "search name, command, endpoint, public/private"
	si.Width = 50
	return &Console{
		client:      c,
		page:        1,
		loading:     true,
		searchInput: si,
	}
}

// Run starts the console in the alternate screen until the user quits.
func Run(c *client.Client) error {
	p := tea.NewProgram(NewConsole(c), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (c *Console) Init() tea.Cmd {
	return c.loadServers()
}

// loadServers fetches the current page with the active filter state.
func (c *Console) loadServers() tea.Cmd {
	status := statusTabs[c.statusIdx].Value
	search := c.appliedSearch
	page := c.page
	return func() tea.Msg {
		result, err := c.client.ListServers(status, search, page)
		return serversMsg{result: result, err: err}
	}
}

func (c *Console) toggleRunStatus(id string) tea.Cmd {
	return func() tea.Msg {
		server, err := c.client.ToggleRunStatus(id)
		if err != nil {
			return actionMsg{err: err}
		}
		verb := "Starting"
		if server.RunStatus == models.RunStatusStopping {
			verb = "Stopping"
		}
		return actionMsg{notice: fmt.Sprintf("%s %q", verb, server.Name)}
	}
}

func (c *Console) toggleVisibility(id string) tea.Cmd {
	return func() tea.Msg {
		server, err := c.client.ToggleVisibility(id)
		if err != nil {
			return actionMsg{err: err}
		}
		verb := "Publishing"
		if server.VisibilityStatus == models.VisibilityUnpublishing {
			verb = "Unpublishing"
		}
		return actionMsg{notice: fmt.Sprintf("%s %q", verb, server.Name)}
	}
}

// deleteServer first attempts a delete without confirmation so an active
// skip-confirmation window is honored. A 412 means the server wants an
// explicit confirmation and the modal is shown.
func (c *Console) deleteServer(server *models.ServerRecord, confirmed bool) tea.Cmd {
	id := server.ID
	name := server.Name
	return func() tea.Msg {
		err := c.client.DeleteServer(id, confirmed)
		if err == nil {
			return actionMsg{notice: fmt.Sprintf("Deleted %q", name)}
		}
		var statusErr *client.StatusError
		if !confirmed && errors.As(err, &statusErr) && statusErr.Code == http.StatusPreconditionFailed {
			return actionMsg{confirmID: id}
		}
		return actionMsg{err: err}
	}
}

func refreshTick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

// hasTransient reports whether any visible record is mid-transition.
func (c *Console) hasTransient() bool {
	if c.result == nil {
		return false
	}
	for i := range c.result.Servers {
		s := &c.result.Servers[i]
		if s.RunStatus.IsTransient() || s.VisibilityStatus != models.VisibilityIdle {
			return true
		}
	}
	return false
}

func (c *Console) selected() *models.ServerRecord {
	if c.result == nil || len(c.result.Servers) == 0 {
		return nil
	}
	if c.cursor >= len(c.result.Servers) {
		c.cursor = len(c.result.Servers) - 1
	}
	return &c.result.Servers[c.cursor]
}

func (c *Console) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m := msg.(type) {
	case tea.WindowSizeMsg:
		c.width, c.height = m.Width, m.Height
		return c, nil

	case serversMsg:
		c.loading = false
		if m.err != nil {
			c.errMsg = m.err.Error()
			return c, nil
		}
		c.errMsg = ""
		c.result = m.result
		// snap back when the current page emptied, e.g. after a delete
		if len(m.result.Servers) == 0 && c.page > 1 {
			c.page = 1
			return c, c.loadServers()
		}
		if c.cursor >= len(m.result.Servers) && len(m.result.Servers) > 0 {
			c.cursor = len(m.result.Servers) - 1
		}
		if c.hasTransient() && !c.polling {
			c.polling = true
			return c, refreshTick()
		}
		return c, nil

	case actionMsg:
		if m.confirmID != "" {
			if sel := c.selected(); sel != nil && sel.ID == m.confirmID {
				c.pendingDelete = sel
				c.mode = modeConfirmDelete
			}
			return c, nil
		}
		if m.err != nil {
			c.errMsg = m.err.Error()
			return c, c.loadServers()
		}
		c.errMsg = ""
		c.notice = m.notice
		return c, c.loadServers()

	case refreshTickMsg:
		c.polling = false
		if c.hasTransient() {
			c.polling = true
			return c, tea.Batch(c.loadServers(), refreshTick())
		}
		return c, c.loadServers()

	case tea.KeyMsg:
		return c.handleKey(m)
	}

	if c.searchFocused {
		var cmd tea.Cmd
		c.searchInput, cmd = c.searchInput.Update(msg)
		return c, cmd
	}
	return c, nil
}

func (c *Console) handleKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.String() == "ctrl+c" {
		return c, tea.Quit
	}

	if c.mode == modeConfirmDelete {
		return c.handleConfirmKey(m)
	}

	if c.searchFocused {
		return c.handleSearchKey(m)
	}

	switch m.String() {
	case "q", "esc":
		return c, tea.Quit
	case "/":
		c.searchFocused = true
		c.searchInput.Focus()
		return c, textinput.Blink
	case "tab", "right", "l":
		c.statusIdx = (c.statusIdx + 1) % len(statusTabs)
		c.page = 1
		c.cursor = 0
		return c, c.loadServers()
	case "shift+tab", "left", "h":
		c.statusIdx = (c.statusIdx - 1 + len(statusTabs)) % len(statusTabs)
		c.page = 1
		c.cursor = 0
		return c, c.loadServers()
	case "up", "k":
		if c.cursor > 0 {
			c.cursor--
		}
		return c, nil
	case "down", "j":
		if c.result != nil && c.cursor < len(c.result.Servers)-1 {
			c.cursor++
		}
		return c, nil
	case "[", "pgup":
		if c.page > 1 {
			c.page--
			c.cursor = 0
			return c, c.loadServers()
		}
		return c, nil
	case "]", "pgdown":
		if c.result != nil && c.page < c.result.Metadata.TotalPages {
			c.page++
			c.cursor = 0
			return c, c.loadServers()
		}
		return c, nil
	case "enter":
		c.showDetail = !c.showDetail
		return c, nil
	case "s":
		if sel := c.selected(); sel != nil {
			c.notice = ""
			return c, c.toggleRunStatus(sel.ID)
		}
		return c, nil
	case "v":
		if sel := c.selected(); sel != nil {
			c.notice = ""
			return c, c.toggleVisibility(sel.ID)
		}
		return c, nil
	case "d":
		if sel := c.selected(); sel != nil {
			c.notice = ""
			return c, c.deleteServer(sel, false)
		}
		return c, nil
	case "r":
		c.loading = true
		return c, c.loadServers()
	}
	return c, nil
}

func (c *Console) handleSearchKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "enter":
		c.searchFocused = false
		c.searchInput.Blur()
		c.appliedSearch = strings.TrimSpace(c.searchInput.Value())
		c.page = 1
		c.cursor = 0
		return c, c.loadServers()
	case "esc":
		c.searchFocused = false
		c.searchInput.Blur()
		c.searchInput.SetValue("")
		if c.appliedSearch != "" {
			c.appliedSearch = ""
			c.page = 1
			c.cursor = 0
			return c, c.loadServers()
		}
		return c, nil
	}
	var cmd tea.Cmd
	c.searchInput, cmd = c.searchInput.Update(m)
	return c, cmd
}

func (c *Console) handleConfirmKey(m tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.String() {
	case "y", "Y":
		server := c.pendingDelete
		c.pendingDelete = nil
		c.mode = modeBrowse
		return c, c.deleteServer(server, true)
	default:
		c.pendingDelete = nil
		c.mode = modeBrowse
		return c, nil
	}
}
