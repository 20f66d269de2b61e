// Package cmd provides the CLI commands for WageTrack.
package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
	"github.com/wagetrack/wagetrack/internal/output"
	"github.com/wagetrack/wagetrack/internal/parser"
	"github.com/wagetrack/wagetrack/internal/runtime"
)

// Version information (set at build time via ldflags).
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Global flags.
var (
	flagFormat string
	flagColor  string
	flagDebug  bool
)

// ctx is the shared runtime context.
var ctx *runtime.Context

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "wt",
	Short: "Track employee shifts and wages from the command line",
	Long: `WageTrack is a local-first wage tracker for small teams. Shifts and
wages live on this device and sync to your account in the background.

Examples:
  wt register pat@example.com
  wt employee add "Alex Rivera" --role "Team Lead" --rate 25
  wt shift add --employee <id> --date today --in 09:00 --out 17:00
  wt report this month --csv payroll.csv
  wt sync status`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for completion and help commands
		if cmd.Name() == "completion" || cmd.Name() == "help" {
			return nil
		}

		// Agent control commands must not hold the database: the agent
		// process (or a spawned child) owns it while running.
		if cmd.Parent() != nil && cmd.Parent().Name() == "agent" {
			switch cmd.Name() {
			case "stop", "status", "logs", "install", "uninstall":
				return nil
			case "start":
				if !agentStartFlagForeground {
					return nil
				}
			}
		}

		var format output.Format
		switch flagFormat {
		case "json":
			format = output.FormatJSON
		case "plain":
			format = output.FormatPlain
		default:
			format = output.FormatCLI
		}

		var colorMode output.ColorMode
		switch flagColor {
		case "always":
			colorMode = output.ColorAlways
		case "never":
			colorMode = output.ColorNever
		default:
			colorMode = output.ColorAuto
		}

		opts := runtime.DefaultOptions()
		opts.Format = format
		opts.ColorMode = colorMode
		opts.Debug = flagDebug

		var err error
		ctx, err = runtime.New(opts)
		if err != nil {
			return err
		}

		maybePrintUpgradeNotice()
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if ctx != nil {
			return ctx.Close()
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: show sync status
		return runSyncStatus(cmd, args)
	},
}

// maybePrintUpgradeNotice surfaces a one-line notice on the first run
// after the binary changes, then records the running build.
func maybePrintUpgradeNotice() {
	seen := ctx.Local.LastSeenBuild()
	if seen == Version {
		return
	}
	if seen != "" && ctx.IsCLI() {
		ctx.CLIFormatter().Muted("Updated to wagetrack " + Version + ".")
	}
	if err := ctx.Local.SetLastSeenBuild(Version); err != nil {
		ctx.Debugf("could not record build version: %v", err)
	}
}

// requireSession resumes the persisted session and loads its state.
func requireSession() (string, model.AppState, error) {
	account, ok := ctx.RestoreSession()
	if !ok {
		return "", model.AppState{}, errors.ErrNoSession
	}
	return account, ctx.Local.Load(account), nil
}

// userFacing converts parse failures into user errors with examples.
func userFacing(err error) error {
	var perr *parser.ParseError
	if errors.As(err, &perr) {
		return perr.ToUserError()
	}
	return err
}

// commandContext returns a context bounded by the push timeout.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), config.Global.Sync.PushTimeout)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "cli",
		"Output format: cli, json, plain")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto",
		"Color output: auto, always, never")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false,
		"Enable debug output")

	rootCmd.AddCommand(versionCmd)
}

// versionCmd shows version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("wagetrack %s\n", Version)
		cmd.Printf("  commit: %s\n", Commit)
		cmd.Printf("  built: %s\n", BuildTime)
	},
}

// Die prints an error and exits.
func Die(err error) {
	if ctx != nil && ctx.IsJSON() {
		ctx.JSONFormatter().PrintError("error", err.Error(), runtime.GetSuggestion(err))
	} else {
		os.Stderr.WriteString("Error: " + runtime.FormatError(err) + "\n")
		var cerr *errors.ContextError
		if flagDebug && errors.As(err, &cerr) && len(cerr.Stack) > 0 {
			os.Stderr.WriteString(cerr.StackTrace())
		}
	}
	os.Exit(1)
}
