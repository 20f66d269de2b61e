package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/remote"
	"github.com/wagetrack/wagetrack/internal/storage"
	"github.com/wagetrack/wagetrack/internal/sync"
)

func sampleState() model.AppState {
	return model.AppState{
		Employees: []model.Employee{
			{ID: "e1", Name: "Alex Rivera", Role: "Team Lead", HourlyRate: 25},
			{ID: "e2", Name: "Jordan Smith", Role: "Staff", HourlyRate: 18},
		},
		Shifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2025-03-03", ClockIn: "09:00", ClockOut: "17:00", TotalHours: 8, EarnedWage: 200},
			{ID: "s2", EmployeeID: "e2", Date: "2025-03-04", ClockIn: "10:00"},
		},
		Version: 3,
	}
}

func TestFormatEmployeeRole(t *testing.T) {
	t.Run("name_only", func(t *testing.T) {
		result := FormatEmployeeRole("Alex Rivera", "")
		assert.Contains(t, result, "Alex Rivera")
		assert.NotContains(t, result, "(")
	})

	t.Run("name_and_role", func(t *testing.T) {
		result := FormatEmployeeRole("Alex Rivera", "Team Lead")
		assert.Contains(t, result, "Alex Rivera")
		assert.Contains(t, result, "Team Lead")
	})
}

func TestSyncComponent(t *testing.T) {
	t.Run("synced", func(t *testing.T) {
		view := NewSyncComponent(sync.Status{
			Account:      "maya@example.com",
			State:        sync.StateSynced,
			LocalVersion: 3,
			LastSyncedAt: time.Now(),
		}, 80).View()
		assert.Contains(t, view, "SYNCED")
		assert.Contains(t, view, "maya@example.com")
		assert.Contains(t, view, "Version 3")
	})

	t.Run("dirty", func(t *testing.T) {
		view := NewSyncComponent(sync.Status{
			Account: "maya@example.com",
			State:   sync.StateUnsynced,
			Dirty:   true,
		}, 80).View()
		assert.Contains(t, view, "UNSYNCED")
		assert.Contains(t, view, "pending")
	})

	t.Run("conflict", func(t *testing.T) {
		view := NewSyncComponent(sync.Status{
			Account: "maya@example.com",
			State:   sync.StateConflict,
		}, 80).View()
		assert.Contains(t, view, "CONFLICT")
	})
}

func TestRosterComponent(t *testing.T) {
	view := NewRosterComponent(sampleState(), 80).View()
	assert.Contains(t, view, "Alex Rivera")
	assert.Contains(t, view, "Team Lead")
	assert.Contains(t, view, "$200.00")

	empty := NewRosterComponent(model.AppState{}, 80).View()
	assert.Contains(t, empty, "No employees yet")
}

func TestShiftsComponent(t *testing.T) {
	view := NewShiftsComponent(sampleState(), 80, 5).View()
	assert.Contains(t, view, "Recent Shifts")
	// Newest date renders first.
	assert.Less(t, strings.Index(view, "2025-03-04"), strings.Index(view, "2025-03-03"))
	assert.Contains(t, view, "(open)")
}

func TestShiftsComponentLimit(t *testing.T) {
	state := sampleState()
	shifts := recentShifts(state, 1)
	require.Len(t, shifts, 1)
	assert.Equal(t, "2025-03-04", shifts[0].Date)
}

func TestHelpBar(t *testing.T) {
	bar := HelpBar()
	for _, key := range []string{"p", "l", "r", "q"} {
		assert.Contains(t, bar, key)
	}
}

func setupDashboard(t *testing.T) *DashboardModel {
	t.Helper()

	localDB, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { localDB.Close() })

	remoteDB, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { remoteDB.Close() })

	local := storage.NewLocalStore(localDB)
	engine := sync.NewEngine(local, remote.NewSimulator(remoteDB, 0), sync.Options{
		DebounceWindow: time.Hour,
		PushTimeout:    time.Second,
	})
	return NewDashboardModel(DashboardConfig{Engine: engine, Local: local})
}

func TestDashboardView(t *testing.T) {
	m := setupDashboard(t)

	// Zero width renders the loading placeholder.
	assert.Equal(t, "Loading...", m.View())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = updated.(*DashboardModel)
	updated, _ = m.Update(refreshMsg{})
	m = updated.(*DashboardModel)

	view := m.View()
	assert.Contains(t, view, "WageTrack Dashboard")
	assert.Contains(t, view, "Roster")
	assert.Contains(t, view, "Recent Shifts")
}

func TestDashboardQuitKey(t *testing.T) {
	m := setupDashboard(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
