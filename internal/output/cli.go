package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/report"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// Styles for CLI output.
var (
	// Colors
	colorPrimary = lipgloss.Color("#7C3AED") // Purple
	colorMoney   = lipgloss.Color("#10B981") // Green
	colorMuted   = lipgloss.Color("#6B7280") // Gray
	colorWarning = lipgloss.Color("#F59E0B") // Yellow
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Green

	// Styles
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleSuccess = lipgloss.NewStyle().
			Foreground(colorSuccess)

	styleWarning = lipgloss.NewStyle().
			Foreground(colorWarning)

	styleError = lipgloss.NewStyle().
			Foreground(colorError)

	styleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

	styleBold = lipgloss.NewStyle().
			Bold(true)

	styleEmployee = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	styleMoney = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMoney)
)

// CLIFormatter provides CLI-specific formatting.
type CLIFormatter struct {
	*Formatter
}

// NewCLIFormatter creates a new CLI formatter.
func NewCLIFormatter(f *Formatter) *CLIFormatter {
	return &CLIFormatter{Formatter: f}
}

// Title prints a title.
func (c *CLIFormatter) Title(text string) {
	if c.IsColorEnabled() {
		c.Println(styleTitle.Render(text))
	} else {
		c.Println(text)
	}
}

// Success prints a success message.
func (c *CLIFormatter) Success(text string) {
	if c.IsColorEnabled() {
		c.Println(styleSuccess.Render("✓ " + text))
	} else {
		c.Println("✓ " + text)
	}
}

// Warning prints a warning message.
func (c *CLIFormatter) Warning(text string) {
	if c.IsColorEnabled() {
		c.Println(styleWarning.Render("⚠ " + text))
	} else {
		c.Println("⚠ " + text)
	}
}

// Error prints an error message.
func (c *CLIFormatter) Error(text string) {
	if c.IsColorEnabled() {
		c.Println(styleError.Render("✗ " + text))
	} else {
		c.Println("✗ " + text)
	}
}

// Muted prints muted text.
func (c *CLIFormatter) Muted(text string) {
	if c.IsColorEnabled() {
		c.Println(styleMuted.Render(text))
	} else {
		c.Println(text)
	}
}

// EmployeeName formats an employee name.
func (c *CLIFormatter) EmployeeName(name string) string {
	if c.IsColorEnabled() {
		return styleEmployee.Render(name)
	}
	return name
}

// Money formats a currency amount.
func (c *CLIFormatter) Money(v float64) string {
	text := FormatMoney(v)
	if c.IsColorEnabled() {
		return styleMoney.Render(text)
	}
	return text
}

// PrintEmployees prints the roster as a table.
func (c *CLIFormatter) PrintEmployees(employees []model.Employee) {
	if len(employees) == 0 {
		c.Muted("No employees yet.")
		c.Muted("Use 'wagetrack employee add' to create one.")
		return
	}

	rows := make([]TableRow, 0, len(employees))
	for _, e := range employees {
		emoji := e.Emoji
		if emoji == "" {
			emoji = "-"
		}
		rows = append(rows, TableRow{Columns: []string{
			e.ID, e.Name, e.Role, FormatRate(e.HourlyRate), emoji,
		}})
	}
	c.PrintTable([]string{"ID", "Name", "Role", "Rate", "Emoji"}, rows)
}

// PrintShifts prints a shift list, resolving employee names from state.
func (c *CLIFormatter) PrintShifts(state model.AppState, shifts []model.Shift) {
	if len(shifts) == 0 {
		c.Muted("No shifts recorded.")
		return
	}

	rows := make([]TableRow, 0, len(shifts))
	for _, s := range shifts {
		name := s.EmployeeID
		if emp, ok := state.Employee(s.EmployeeID); ok {
			name = emp.Name
		}
		out := s.ClockOut
		if out == "" {
			out = "open"
		}
		rows = append(rows, TableRow{Columns: []string{
			s.ID, name, s.Date, s.ClockIn, out,
			FormatHours(s.TotalHours), FormatMoney(s.EarnedWage),
		}})
	}
	c.PrintTable([]string{"ID", "Employee", "Date", "In", "Out", "Hours", "Wage"}, rows)
}

// PrintShiftSaved prints a confirmation for a created or updated shift.
func (c *CLIFormatter) PrintShiftSaved(state model.AppState, shift model.Shift) {
	name := shift.EmployeeID
	if emp, ok := state.Employee(shift.EmployeeID); ok {
		name = emp.Name
	}
	c.Success(fmt.Sprintf("Shift saved for %s", c.EmployeeName(name)))
	c.Printf("  Date: %s\n", shift.Date)
	if shift.IsOpen() {
		c.Printf("  Clocked in: %s (still open)\n", shift.ClockIn)
		return
	}
	c.Printf("  Worked: %s - %s (%s)\n", shift.ClockIn, shift.ClockOut, FormatHours(shift.TotalHours))
	c.Printf("  Earned: %s\n", c.Money(shift.EarnedWage))
}

// PrintSyncStatus prints the sync engine status block.
func (c *CLIFormatter) PrintSyncStatus(st sync.Status) {
	if st.Account == "" {
		c.Muted("Not logged in.")
		c.Muted("Use 'wagetrack login' to start a session.")
		return
	}

	c.Printf("Account: %s\n", st.Account)
	c.Printf("  State: %s\n", st.State.String())
	c.Printf("  Local version: %d\n", st.LocalVersion)
	c.Printf("  Last synced: %s\n", FormatAge(st.LastSyncedAt))
	if st.Dirty {
		c.Warning("Unsynced local changes pending.")
	}
	if st.LastError != "" {
		c.Error("Last sync error: " + st.LastError)
	}
}

// PrintReport prints a payroll report with per-employee totals.
func (c *CLIFormatter) PrintReport(rep report.Report) {
	c.Title(fmt.Sprintf("Payroll %s to %s",
		FormatDate(rep.Range.Start), FormatDate(rep.Range.End.AddDate(0, 0, -1))))

	if len(rep.Rows) == 0 {
		c.Muted("No shifts in this period.")
		return
	}

	rows := make([]TableRow, 0, len(rep.Totals))
	for _, tot := range rep.Totals {
		rows = append(rows, TableRow{Columns: []string{
			tot.EmployeeName, tot.Role,
			fmt.Sprintf("%d", tot.ShiftCount),
			FormatHours(tot.TotalHours), FormatMoney(tot.TotalWage),
		}})
	}
	c.PrintTable([]string{"Employee", "Role", "Shifts", "Hours", "Wage"}, rows)

	c.Println()
	c.Printf("Total: %s over %s\n", c.Money(rep.GrandWage), FormatHours(rep.GrandHours))
}

// Table helpers for CLI output.
type TableRow struct {
	Columns []string
}

// PrintTable prints a simple table.
func (c *CLIFormatter) PrintTable(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	// Calculate column widths
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, col := range row.Columns {
			if i < len(widths) && len(col) > widths[i] {
				widths[i] = len(col)
			}
		}
	}

	// Print headers
	var headerLine strings.Builder
	for i, h := range headers {
		headerLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], h))
	}
	if c.IsColorEnabled() {
		c.Println(styleBold.Render(headerLine.String()))
	} else {
		c.Println(headerLine.String())
	}

	// Print separator
	var sep strings.Builder
	for _, w := range widths {
		sep.WriteString(strings.Repeat("─", w) + "  ")
	}
	c.Println(sep.String())

	// Print rows
	for _, row := range rows {
		var rowLine strings.Builder
		for i, col := range row.Columns {
			if i < len(widths) {
				rowLine.WriteString(fmt.Sprintf("%-*s  ", widths[i], col))
			}
		}
		c.Println(rowLine.String())
	}
}
