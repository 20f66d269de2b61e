// Package tui provides the terminal dashboard for WageTrack.
package tui

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI dashboard.
var (
	ColorPrimary = lipgloss.Color("#7C3AED") // Purple
	ColorMoney   = lipgloss.Color("#10B981") // Green
	ColorMuted   = lipgloss.Color("#6B7280") // Gray
	ColorWarning = lipgloss.Color("#F59E0B") // Yellow
	ColorError   = lipgloss.Color("#EF4444") // Red
	ColorSuccess = lipgloss.Color("#10B981") // Green
	ColorActive  = lipgloss.Color("#3B82F6") // Blue
	ColorBorder  = lipgloss.Color("#4B5563") // Dark gray
)

// Base styles for the TUI.
var (
	// StyleTitle is used for section titles.
	StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			MarginBottom(1)

	// StyleSubtitle is used for subtitles and secondary information.
	StyleSubtitle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleEmployee is used for employee names.
	StyleEmployee = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	// StyleRole is used for role labels.
	StyleRole = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleMoney is used for wage amounts.
	StyleMoney = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMoney)

	// StyleHours is used for hour totals.
	StyleHours = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorActive)

	// StyleSynced is used for the synced state.
	StyleSynced = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSuccess)

	// StyleUnsynced is used for pending/unsynced states.
	StyleUnsynced = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleWarning is used for warning messages.
	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// StyleError is used for error messages.
	StyleError = lipgloss.NewStyle().
			Foreground(ColorError)

	// StyleMuted is used for muted text.
	StyleMuted = lipgloss.NewStyle().
			Foreground(ColorMuted)

	// StyleHelp is used for help text at the bottom.
	StyleHelp = lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1)

	// StyleHelpKey is used for keyboard shortcut keys.
	StyleHelpKey = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMoney)

	// StyleHelpDesc is used for keyboard shortcut descriptions.
	StyleHelpDesc = lipgloss.NewStyle().
			Foreground(ColorMuted)
)

// Box styles for different sections.
var (
	// StyleSyncBox is used for the sync status section.
	StyleSyncBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleSyncedBox is used when the account is fully synced.
	StyleSyncedBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorSuccess).
			Padding(1, 2).
			MarginBottom(1)

	// StyleRosterBox is used for the employee roster section.
	StyleRosterBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)

	// StyleShiftsBox is used for the recent shifts section.
	StyleShiftsBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2).
			MarginBottom(1)
)

// FormatEmployeeRole formats "name (role)" notation with styles.
func FormatEmployeeRole(name, role string) string {
	if role == "" {
		return StyleEmployee.Render(name)
	}
	return StyleEmployee.Render(name) + " " + StyleRole.Render("("+role+")")
}
