package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/output"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// SyncComponent displays the sync engine status.
type SyncComponent struct {
	Status sync.Status
	Width  int
}

// NewSyncComponent creates a new sync status component.
func NewSyncComponent(st sync.Status, width int) *SyncComponent {
	return &SyncComponent{Status: st, Width: width}
}

// View renders the sync status component.
func (sc *SyncComponent) View() string {
	var content strings.Builder

	st := sc.Status
	switch {
	case st.State == sync.StateSynced && !st.Dirty:
		content.WriteString(StyleSynced.Render("● SYNCED"))
	case st.State == sync.StateSyncing:
		content.WriteString(StyleUnsynced.Render("◌ SYNCING"))
	case st.State == sync.StateConflict:
		content.WriteString(StyleWarning.Render("⚠ CONFLICT"))
	default:
		content.WriteString(StyleUnsynced.Render("○ UNSYNCED"))
	}

	content.WriteString("\n\n")
	content.WriteString(StyleEmployee.Render(st.Account))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render(fmt.Sprintf("Version %d", st.LocalVersion)))
	content.WriteString("\n")
	content.WriteString(StyleSubtitle.Render("Last synced: " + output.FormatAge(st.LastSyncedAt)))

	if st.Dirty {
		content.WriteString("\n")
		content.WriteString(StyleWarning.Render("Local changes pending"))
	}
	if st.LastError != "" {
		content.WriteString("\n")
		content.WriteString(StyleError.Render(st.LastError))
	}

	box := StyleSyncBox
	if st.State == sync.StateSynced && !st.Dirty {
		box = StyleSyncedBox
	}
	return box.Width(sc.Width - 4).Render(content.String())
}

// RosterComponent displays the employee roster with period totals.
type RosterComponent struct {
	State model.AppState
	Width int
}

// NewRosterComponent creates a new roster component.
func NewRosterComponent(state model.AppState, width int) *RosterComponent {
	return &RosterComponent{State: state, Width: width}
}

// View renders the roster component.
func (rc *RosterComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Roster"))
	content.WriteString("\n")

	if len(rc.State.Employees) == 0 {
		content.WriteString(StyleMuted.Render("No employees yet"))
	} else {
		for i, e := range rc.State.Employees {
			if i > 0 {
				content.WriteString("\n")
			}
			hours, wage := totalsFor(rc.State, e.ID)
			content.WriteString(FormatEmployeeRole(e.Name, e.Role))
			content.WriteString("\n")
			content.WriteString(StyleSubtitle.Render(fmt.Sprintf("  %s • ", output.FormatRate(e.HourlyRate))))
			content.WriteString(StyleHours.Render(output.FormatHours(hours)))
			content.WriteString(StyleSubtitle.Render(" worth "))
			content.WriteString(StyleMoney.Render(output.FormatMoney(wage)))
		}
	}

	return StyleRosterBox.Width(rc.Width - 4).Render(content.String())
}

// totalsFor sums logged hours and wages for one employee.
func totalsFor(state model.AppState, employeeID string) (hours, wage float64) {
	for _, s := range state.Shifts {
		if s.EmployeeID == employeeID {
			hours = model.Round2(hours + s.TotalHours)
			wage = model.Round2(wage + s.EarnedWage)
		}
	}
	return hours, wage
}

// ShiftsComponent displays the most recent shifts.
type ShiftsComponent struct {
	State model.AppState
	Width int
	Limit int
}

// NewShiftsComponent creates a new shifts component.
func NewShiftsComponent(state model.AppState, width, limit int) *ShiftsComponent {
	return &ShiftsComponent{State: state, Width: width, Limit: limit}
}

// View renders the shifts component.
func (sh *ShiftsComponent) View() string {
	var content strings.Builder

	content.WriteString(StyleTitle.Render("Recent Shifts"))
	content.WriteString("\n")

	shifts := recentShifts(sh.State, sh.Limit)
	if len(shifts) == 0 {
		content.WriteString(StyleMuted.Render("No shifts yet"))
	} else {
		for i, s := range shifts {
			if i > 0 {
				content.WriteString("\n")
			}
			content.WriteString(sh.renderShift(s))
		}
	}

	return StyleShiftsBox.Width(sh.Width - 4).Render(content.String())
}

func (sh *ShiftsComponent) renderShift(s model.Shift) string {
	var sb strings.Builder

	name := s.EmployeeID
	role := ""
	if emp, ok := sh.State.Employee(s.EmployeeID); ok {
		name = emp.Name
		role = emp.Role
	}

	sb.WriteString(FormatEmployeeRole(name, role))
	sb.WriteString("  ")
	sb.WriteString(StyleMoney.Render(output.FormatMoney(s.EarnedWage)))
	sb.WriteString("\n")
	if s.IsOpen() {
		sb.WriteString(StyleSubtitle.Render(fmt.Sprintf("  %s  %s - (open)", s.Date, s.ClockIn)))
	} else {
		sb.WriteString(StyleSubtitle.Render(fmt.Sprintf("  %s  %s - %s (%s)",
			s.Date, s.ClockIn, s.ClockOut, output.FormatHours(s.TotalHours))))
	}
	return sb.String()
}

// recentShifts returns up to limit shifts, newest date first.
func recentShifts(state model.AppState, limit int) []model.Shift {
	shifts := make([]model.Shift, len(state.Shifts))
	copy(shifts, state.Shifts)
	sort.SliceStable(shifts, func(i, j int) bool {
		return shifts[i].Date > shifts[j].Date
	})
	if limit > 0 && len(shifts) > limit {
		shifts = shifts[:limit]
	}
	return shifts
}

// HelpBar renders the help bar at the bottom.
func HelpBar() string {
	keys := []struct {
		key  string
		desc string
	}{
		{"p", "push now"},
		{"l", "pull"},
		{"r", "refresh"},
		{"q", "quit"},
	}

	var parts []string
	for _, k := range keys {
		part := StyleHelpKey.Render(k.key) + " " + StyleHelpDesc.Render(k.desc)
		parts = append(parts, part)
	}

	return StyleHelp.Render(strings.Join(parts, "  •  "))
}

// joinVertical stacks sections for the dashboard view.
func joinVertical(sections ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
