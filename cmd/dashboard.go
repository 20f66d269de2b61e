package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/tui"
)

// dashboardCmd represents the dashboard command.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"dash", "ui"},
	Short:   "Open the live terminal dashboard",
	Long: `Open a terminal dashboard showing sync state, the roster with
per-employee totals, and recent shifts. Refreshes as changes sync.

Keys: p push now, l pull, r refresh, q quit.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if _, ok := ctx.RestoreSession(); !ok {
		return errors.ErrNoSession
	}

	return tui.Run(tui.DashboardConfig{
		Engine: ctx.Engine,
		Local:  ctx.Local,
	})
}
