package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/parser"
	"github.com/wagetrack/wagetrack/internal/report"
	"github.com/wagetrack/wagetrack/internal/sync"
)

func plainCLI() (*CLIFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, Format: FormatCLI, ColorMode: ColorNever}
	return NewCLIFormatter(f), &buf
}

func jsonOut() (*JSONFormatter, *bytes.Buffer) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, Format: FormatJSON, ColorMode: ColorNever}
	return NewJSONFormatter(f), &buf
}

func sampleState() model.AppState {
	return model.AppState{
		Employees: []model.Employee{
			{ID: "e1", Name: "Alex Rivera", Role: "Team Lead", HourlyRate: 25, Emoji: "🌟"},
			{ID: "e2", Name: "Jordan Smith", Role: "Staff", HourlyRate: 18},
		},
		Shifts: []model.Shift{
			{ID: "s1", EmployeeID: "e1", Date: "2025-03-03", ClockIn: "09:00", ClockOut: "17:00", TotalHours: 8, EarnedWage: 200},
			{ID: "s2", EmployeeID: "e2", Date: "2025-03-04", ClockIn: "10:00"},
		},
		Version: 3,
	}
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "$200.00", FormatMoney(200))
	assert.Equal(t, "4.50h", FormatHours(4.5))
	assert.Equal(t, "$25.00/h", FormatRate(25))
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "never", FormatAge(time.Time{}))
	assert.Contains(t, FormatAge(time.Now().Add(-30*time.Second)), "s ago")
	assert.Contains(t, FormatAge(time.Now().Add(-5*time.Minute)), "m ago")
	assert.Contains(t, FormatAge(time.Now().Add(-3*time.Hour)), "h ")
}

func TestColorModes(t *testing.T) {
	var buf bytes.Buffer
	f := &Formatter{Writer: &buf, ColorMode: ColorAlways}
	assert.True(t, f.IsColorEnabled())

	f.ColorMode = ColorNever
	assert.False(t, f.IsColorEnabled())

	// Auto with a non-file writer means no color.
	f.ColorMode = ColorAuto
	assert.False(t, f.IsColorEnabled())
}

func TestPrintEmployees(t *testing.T) {
	c, buf := plainCLI()
	c.PrintEmployees(sampleState().Employees)

	out := buf.String()
	assert.Contains(t, out, "Alex Rivera")
	assert.Contains(t, out, "Team Lead")
	assert.Contains(t, out, "$25.00/h")
}

func TestPrintEmployeesEmpty(t *testing.T) {
	c, buf := plainCLI()
	c.PrintEmployees(nil)
	assert.Contains(t, buf.String(), "No employees yet")
}

func TestPrintShifts(t *testing.T) {
	state := sampleState()
	c, buf := plainCLI()
	c.PrintShifts(state, state.Shifts)

	out := buf.String()
	assert.Contains(t, out, "Alex Rivera")
	assert.Contains(t, out, "2025-03-03")
	assert.Contains(t, out, "8.00h")
	// Open shift shows "open" instead of a clock-out.
	assert.Contains(t, out, "open")
}

func TestPrintShiftSaved(t *testing.T) {
	state := sampleState()
	c, buf := plainCLI()
	c.PrintShiftSaved(state, state.Shifts[0])

	out := buf.String()
	assert.Contains(t, out, "Shift saved for Alex Rivera")
	assert.Contains(t, out, "09:00 - 17:00")
	assert.Contains(t, out, "$200.00")
}

func TestPrintSyncStatus(t *testing.T) {
	c, buf := plainCLI()
	c.PrintSyncStatus(sync.Status{
		Account:      "maya@example.com",
		State:        sync.StateSynced,
		LocalVersion: 3,
		LastSyncedAt: time.Now().Add(-time.Minute),
	})

	out := buf.String()
	assert.Contains(t, out, "maya@example.com")
	assert.Contains(t, out, "synced")
	assert.Contains(t, out, "Local version: 3")
}

func TestPrintSyncStatusLoggedOut(t *testing.T) {
	c, buf := plainCLI()
	c.PrintSyncStatus(sync.Status{})
	assert.Contains(t, buf.String(), "Not logged in")
}

func TestPrintReport(t *testing.T) {
	state := sampleState()
	rng := parser.Range{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
	c, buf := plainCLI()
	c.PrintReport(report.Build(state, rng))

	out := buf.String()
	assert.Contains(t, out, "Payroll")
	assert.Contains(t, out, "Alex Rivera")
	assert.Contains(t, out, "Total:")
}

func TestJSONEmployees(t *testing.T) {
	j, buf := jsonOut()
	require.NoError(t, j.PrintEmployees(sampleState().Employees))

	var resp EmployeesResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "Alex Rivera", resp.Employees[0].Name)
}

func TestJSONShifts(t *testing.T) {
	state := sampleState()
	j, buf := jsonOut()
	require.NoError(t, j.PrintShifts(state, state.Shifts))

	var resp ShiftsResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "Alex Rivera", resp.Shifts[0].EmployeeName)
	assert.False(t, resp.Shifts[0].Open)
	assert.True(t, resp.Shifts[1].Open)
}

func TestJSONSyncStatus(t *testing.T) {
	j, buf := jsonOut()
	require.NoError(t, j.PrintSyncStatus(sync.Status{
		Account:      "maya@example.com",
		State:        sync.StateUnsynced,
		Dirty:        true,
		LocalVersion: 2,
	}))

	var resp SyncStatusResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "unsynced", resp.State)
	assert.True(t, resp.Dirty)
	assert.Empty(t, resp.LastSyncedAt)
}

func TestJSONError(t *testing.T) {
	j, buf := jsonOut()
	require.NoError(t, j.PrintError("error", "invalid input", "name must not be empty"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "invalid input", resp.Error)
}

func TestPrintTableAlignment(t *testing.T) {
	c, buf := plainCLI()
	c.PrintTable([]string{"A", "Long Header"}, []TableRow{
		{Columns: []string{"x", "y"}},
		{Columns: []string{"wider-cell", "z"}},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	// Header and separator pad to the widest cell.
	assert.True(t, strings.HasPrefix(lines[1], strings.Repeat("─", len("wider-cell"))))
}
