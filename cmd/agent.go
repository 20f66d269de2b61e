package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wagetrack/wagetrack/internal/daemon"
)

// Agent command flags.
var (
	agentStartFlagForeground bool
	agentLogsFlagTail        int
	agentInstallFlagForce    bool
)

// agentCmd represents the agent command.
var agentCmd = &cobra.Command{
	Use:   "agent [command]",
	Short: "Manage the background sync agent",
	Long: `Manage the background agent that sweeps pending changes to the
remote store and probes its reachability.

Examples:
  wt agent start
  wt agent status
  wt agent stop
  wt agent logs --tail 20`,
	RunE: runAgentStatus,
}

var agentStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the background sync agent",
	Long: `Start the sync agent. It holds the database while running, so CLI
commands that write data should be issued after stopping it.

Examples:
  wt agent start           # Start in background
  wt agent start -f        # Start in foreground (for debugging)`,
	RunE: runAgentStart,
}

var agentStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the background sync agent",
	RunE:  runAgentStop,
}

var agentStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show agent status",
	RunE:  runAgentStatus,
}

var agentLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View agent logs",
	RunE:  runAgentLogs,
}

var agentInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the agent as a system service",
	Long: `Install the sync agent as a system service that starts on login.

On macOS this creates a launchd agent in ~/Library/LaunchAgents.
On Linux this creates a systemd user service in ~/.config/systemd/user.`,
	RunE: runAgentInstall,
}

var agentUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the agent system service",
	RunE:  runAgentUninstall,
}

func init() {
	agentStartCmd.Flags().BoolVarP(&agentStartFlagForeground, "foreground", "F", false,
		"Run in foreground (don't daemonize)")
	agentLogsCmd.Flags().IntVarP(&agentLogsFlagTail, "tail", "n", 20,
		"Number of lines to show")
	agentInstallCmd.Flags().BoolVar(&agentInstallFlagForce, "force", false,
		"Force reinstall if already installed")

	agentCmd.AddCommand(agentStartCmd)
	agentCmd.AddCommand(agentStopCmd)
	agentCmd.AddCommand(agentStatusCmd)
	agentCmd.AddCommand(agentLogsCmd)
	agentCmd.AddCommand(agentInstallCmd)
	agentCmd.AddCommand(agentUninstallCmd)

	rootCmd.AddCommand(agentCmd)
}

func runAgentStart(cmd *cobra.Command, args []string) error {
	if !agentStartFlagForeground {
		d := daemon.NewDaemon(nil, nil)
		d.SetDebug(flagDebug)

		if d.IsRunning() {
			status := d.GetStatus()
			return fmt.Errorf("agent is already running (PID: %d)", status.PID)
		}

		pid, err := d.StartBackground()
		if err != nil {
			return err
		}

		fmt.Println("Starting wagetrack agent...")
		fmt.Printf("Agent started (PID: %d)\n", pid)
		return nil
	}

	// Foreground mode: attach the persisted session so sweeps have
	// something to push.
	if account, ok := ctx.RestoreSession(); ok {
		ctx.Debugf("agent resumed session for %s", account)
	} else {
		ctx.CLIFormatter().Warning("No saved session; the agent will idle until one exists.")
	}

	d := daemon.NewDaemon(ctx.Engine, ctx.Remote)
	d.SetDebug(ctx.Debug)

	if d.IsRunning() {
		status := d.GetStatus()
		return fmt.Errorf("agent is already running (PID: %d)", status.PID)
	}

	if !ctx.IsJSON() {
		ctx.Formatter.Printf("Starting wagetrack agent (foreground mode)...\n")
	}
	return d.Start(context.Background())
}

func runAgentStop(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil, nil)

	if !d.IsRunning() {
		fmt.Println("Agent is not running")
		return nil
	}

	status := d.GetStatus()
	pid := status.PID

	fmt.Println("Stopping wagetrack agent...")
	if err := d.Stop(); err != nil {
		return err
	}

	fmt.Printf("Agent stopped (was PID: %d)\n", pid)
	return nil
}

func runAgentStatus(cmd *cobra.Command, args []string) error {
	d := daemon.NewDaemon(nil, nil)
	status := d.GetStatus()

	if ctx != nil && ctx.IsJSON() {
		return ctx.Formatter.JSON(status)
	}

	fmt.Println("WageTrack Agent Status")
	fmt.Println("")

	if !status.Running {
		fmt.Printf("  Status:    stopped\n")
		fmt.Println("")
		fmt.Println("Start with: wt agent start")
		return nil
	}

	fmt.Printf("  Status:    running\n")
	fmt.Printf("  PID:       %d\n", status.PID)
	fmt.Printf("  Uptime:    %s\n", status.Uptime)

	if s := status.Sync; s != nil {
		fmt.Println("")
		if s.Account != "" {
			fmt.Printf("  Account:   %s\n", s.Account)
		}
		fmt.Printf("  Sync:      %s (version %d)\n", s.EngineState, s.LocalVersion)
		if s.Dirty {
			fmt.Printf("  Pending:   changes waiting for the next sweep\n")
		}
		if !s.Reachable {
			fmt.Printf("  Remote:    unreachable, working locally\n")
		}
	}
	return nil
}

func runAgentLogs(cmd *cobra.Command, args []string) error {
	logPath := daemon.GetLogPath()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		fmt.Println("No log file found.")
		fmt.Printf("Log path: %s\n", logPath)
		return nil
	}

	lines, err := tailFile(logPath, agentLogsFlagTail)
	if err != nil {
		return err
	}
	for _, line := range lines {
		fmt.Println(line)
	}
	return nil
}

// tailFile reads the last n lines from a file.
func tailFile(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func runAgentInstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(flagDebug)

	if mgr.IsInstalled() && !agentInstallFlagForce {
		fmt.Println("Service is already installed.")
		fmt.Println("Use --force to reinstall.")
		return nil
	}

	if mgr.IsInstalled() && agentInstallFlagForce {
		fmt.Println("Removing existing service...")
		if err := mgr.Uninstall(); err != nil {
			return fmt.Errorf("failed to remove existing service: %w", err)
		}
	}

	fmt.Println("Installing wagetrack agent as system service...")
	if err := mgr.Install(); err != nil {
		return err
	}

	fmt.Println("Service installed")
	fmt.Println("The agent will start automatically when you log in.")
	fmt.Println("To start it now: wt agent start")
	return nil
}

func runAgentUninstall(cmd *cobra.Command, args []string) error {
	mgr, err := daemon.NewServiceManager()
	if err != nil {
		return err
	}
	mgr.SetDebug(flagDebug)

	if !mgr.IsInstalled() {
		fmt.Println("Service is not installed.")
		return nil
	}

	d := daemon.NewDaemon(nil, nil)
	if d.IsRunning() {
		fmt.Println("Stopping running agent...")
		if err := d.Stop(); err != nil {
			fmt.Printf("Warning: could not stop agent: %v\n", err)
		}
	}

	if err := mgr.Uninstall(); err != nil {
		return err
	}

	fmt.Println("Service uninstalled")
	return nil
}
