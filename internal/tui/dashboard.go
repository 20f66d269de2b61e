package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/storage"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// tickMsg is sent when the timer ticks.
type tickMsg time.Time

// refreshMsg is sent when data needs to be refreshed.
type refreshMsg struct{}

// syncDoneMsg is sent when a manual push or pull finishes.
type syncDoneMsg struct {
	err error
}

// DashboardModel is the main bubbletea model for the dashboard.
type DashboardModel struct {
	// Data
	state  model.AppState
	status sync.Status

	// Collaborators
	engine *sync.Engine
	local  *storage.LocalStore

	// UI state
	width      int
	height     int
	err        error
	message    string
	messageExp time.Time

	// Configuration
	refreshInterval time.Duration
	maxRecentShifts int
}

// DashboardConfig holds configuration for the dashboard.
type DashboardConfig struct {
	Engine          *sync.Engine
	Local           *storage.LocalStore
	RefreshInterval time.Duration
	MaxRecentShifts int
}

// NewDashboardModel creates a new dashboard model.
func NewDashboardModel(config DashboardConfig) *DashboardModel {
	if config.RefreshInterval == 0 {
		config.RefreshInterval = time.Second
	}
	if config.MaxRecentShifts == 0 {
		config.MaxRecentShifts = 5
	}

	return &DashboardModel{
		engine:          config.Engine,
		local:           config.Local,
		refreshInterval: config.RefreshInterval,
		maxRecentShifts: config.MaxRecentShifts,
	}
}

// Init initializes the model.
func (m *DashboardModel) Init() tea.Cmd {
	return tea.Batch(
		m.tickCmd(),
		m.refreshCmd(),
	)
}

// Update handles messages and updates the model.
func (m *DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tickMsg:
		// Clear expired messages
		if !m.messageExp.IsZero() && time.Now().After(m.messageExp) {
			m.message = ""
			m.messageExp = time.Time{}
		}
		m.loadData()
		return m, m.tickCmd()

	case refreshMsg:
		m.loadData()
		return m, nil

	case syncDoneMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.err = nil
			m.setMessage("Synced", 2*time.Second)
		}
		m.loadData()
		return m, nil
	}

	return m, nil
}

// handleKeyPress handles keyboard input.
func (m *DashboardModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "p":
		// Push pending changes now
		m.setMessage("Pushing...", 2*time.Second)
		return m, m.pushCmd()

	case "l":
		// Pull the remote copy
		m.setMessage("Pulling...", 2*time.Second)
		return m, m.pullCmd()

	case "r":
		// Refresh data
		m.loadData()
		m.setMessage("Refreshed", time.Second)
		return m, nil
	}

	return m, nil
}

// View renders the dashboard.
func (m *DashboardModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var sections []string

	// Header
	sections = append(sections, m.renderHeader())

	// Error message
	if m.err != nil {
		sections = append(sections, StyleError.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	// Status message
	if m.message != "" {
		sections = append(sections, StyleWarning.Render(m.message))
	}

	// Sync status
	sections = append(sections, NewSyncComponent(m.status, m.width).View())

	// Roster with totals
	sections = append(sections, NewRosterComponent(m.state, m.width).View())

	// Recent shifts
	sections = append(sections, NewShiftsComponent(m.state, m.width, m.maxRecentShifts).View())

	// Help bar
	sections = append(sections, HelpBar())

	return joinVertical(sections...)
}

// renderHeader renders the dashboard header.
func (m *DashboardModel) renderHeader() string {
	title := StyleTitle.Render("WageTrack Dashboard")
	now := time.Now().Format("Mon Jan 2, 15:04:05")
	return title + "  " + StyleSubtitle.Render(now) + "\n"
}

// loadData reloads the account state and sync status.
func (m *DashboardModel) loadData() {
	m.status = m.engine.Status()
	if m.status.Account != "" {
		m.state = m.local.Load(m.status.Account)
	} else {
		m.state = model.AppState{}
	}
}

// setMessage sets a temporary message.
func (m *DashboardModel) setMessage(msg string, duration time.Duration) {
	m.message = msg
	m.messageExp = time.Now().Add(duration)
}

// tickCmd returns a command that sends a tick message.
func (m *DashboardModel) tickCmd() tea.Cmd {
	return tea.Tick(m.refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshCmd returns a command that sends a refresh message.
func (m *DashboardModel) refreshCmd() tea.Cmd {
	return func() tea.Msg {
		return refreshMsg{}
	}
}

// pushCmd flushes pending local changes in the background.
func (m *DashboardModel) pushCmd() tea.Cmd {
	return func() tea.Msg {
		return syncDoneMsg{err: m.engine.Flush(context.Background())}
	}
}

// pullCmd fetches and reconciles the remote copy in the background.
func (m *DashboardModel) pullCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := m.engine.Pull(context.Background())
		return syncDoneMsg{err: err}
	}
}

// Run starts the dashboard TUI.
func Run(config DashboardConfig) error {
	model := NewDashboardModel(config)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
