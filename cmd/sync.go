package cmd

import (
	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/errors"
)

// syncCmd represents the sync command.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Inspect and drive synchronization",
	Long: `Show sync status, push pending changes immediately, or pull the
remote copy.

Examples:
  wt sync status
  wt sync now
  wt sync pull`,
	RunE: runSyncStatus,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the sync state for the current session",
	Args:  cobra.NoArgs,
	RunE:  runSyncStatus,
}

var syncNowCmd = &cobra.Command{
	Use:   "now",
	Short: "Push pending changes without waiting for the debounce window",
	Args:  cobra.NoArgs,
	RunE:  runSyncNow,
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Adopt the remote copy if it is newer",
	Args:  cobra.NoArgs,
	RunE:  runSyncPull,
}

func init() {
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncNowCmd)
	syncCmd.AddCommand(syncPullCmd)
	rootCmd.AddCommand(syncCmd)
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	// Status is meaningful without a live session too.
	ctx.RestoreSession()
	st := ctx.Engine.Status()

	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintSyncStatus(st)
	}
	ctx.CLIFormatter().PrintSyncStatus(st)
	return nil
}

func runSyncNow(cmd *cobra.Command, args []string) error {
	if _, ok := ctx.RestoreSession(); !ok {
		return errors.ErrNoSession
	}

	c, cancel := commandContext()
	defer cancel()
	if err := ctx.Engine.Flush(c); err != nil {
		return err
	}

	st := ctx.Engine.Status()
	if ctx.IsJSON() {
		return ctx.JSONFormatter().PrintSyncStatus(st)
	}

	cli := ctx.CLIFormatter()
	cli.Success("Sync complete.")
	cli.Printf("  Local version %d, state %s.\n", st.LocalVersion, st.State)
	return nil
}

func runSyncPull(cmd *cobra.Command, args []string) error {
	if _, ok := ctx.RestoreSession(); !ok {
		return errors.ErrNoSession
	}

	c, cancel := commandContext()
	defer cancel()
	state, err := ctx.Engine.Pull(c)
	if err != nil {
		return err
	}

	if ctx.IsJSON() {
		return ctx.Formatter.JSON(map[string]interface{}{
			"status":    "pulled",
			"version":   state.Version,
			"employees": len(state.Employees),
			"shifts":    len(state.Shifts),
		})
	}

	cli := ctx.CLIFormatter()
	cli.Success("Pulled remote copy.")
	cli.Printf("  Version %d with %d employees and %d shifts.\n", state.Version, len(state.Employees), len(state.Shifts))
	return nil
}
