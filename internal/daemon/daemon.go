package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/wagetrack/wagetrack/internal/config"
	"github.com/wagetrack/wagetrack/internal/logging"
	"github.com/wagetrack/wagetrack/internal/remote"
	"github.com/wagetrack/wagetrack/internal/scheduler"
	"github.com/wagetrack/wagetrack/internal/sync"
)

// Daemon manages the background sync agent process.
type Daemon struct {
	pidFile   *PIDFile
	agent     *scheduler.Agent
	engine    *sync.Engine
	remote    remote.Client
	metrics   *Metrics
	health    *HealthChecker
	startedAt time.Time
	debug     bool
}

// Status represents the agent process status.
type Status struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid,omitempty"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Uptime    string    `json:"uptime,omitempty"`

	// Published sync state, if the agent has written one.
	Sync *AgentState `json:"sync,omitempty"`
}

// AgentState is the status the running agent publishes for the CLI.
// The CLI cannot open the database while the agent holds it, so the
// agent mirrors the interesting numbers into a plain file.
type AgentState struct {
	StartedAt    time.Time `json:"started_at"`
	Account      string    `json:"account,omitempty"`
	EngineState  string    `json:"engine_state"`
	LocalVersion int64     `json:"local_version"`
	Dirty        bool      `json:"dirty"`
	Reachable    bool      `json:"reachable"`
	LastSweepAt  time.Time `json:"last_sweep_at,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewDaemon creates a new agent manager. Engine and remote client may
// be nil for control operations (status, stop, background start) that
// never run the agent loop in this process.
func NewDaemon(engine *sync.Engine, remoteClient remote.Client) *Daemon {
	return &Daemon{
		pidFile: NewPIDFile(),
		engine:  engine,
		remote:  remoteClient,
		metrics: NewMetrics(),
	}
}

// SetDebug enables debug mode.
func (d *Daemon) SetDebug(debug bool) {
	d.debug = debug
}

// Metrics returns the agent metrics tracker.
func (d *Daemon) Metrics() *Metrics {
	return d.metrics
}

// GetStatus returns the current agent status.
func (d *Daemon) GetStatus() *Status {
	status := &Status{}

	pid := d.pidFile.GetRunningPID()
	if pid > 0 {
		status.Running = true
		status.PID = pid

		if state, err := readState(); err == nil {
			status.StartedAt = state.StartedAt
			status.Uptime = formatUptime(time.Since(state.StartedAt))
			status.Sync = state
		}
	}

	return status
}

// IsRunning returns true if the agent is running.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// Start runs the agent in the foreground until a shutdown signal.
func (d *Daemon) Start(ctx context.Context) error {
	if d.IsRunning() {
		return ErrAlreadyRunning
	}
	if d.engine == nil || d.remote == nil {
		return fmt.Errorf("agent requires an engine and a remote client")
	}

	if err := d.pidFile.Write(); err != nil {
		return err
	}
	d.startedAt = time.Now()

	d.health = NewHealthChecker("")
	d.health.AddCheck("remote", func() error {
		if d.agent != nil && !d.agent.Reachable() {
			return fmt.Errorf("remote unreachable")
		}
		return nil
	})

	d.agent = scheduler.NewAgent(d.engine, d.remote)
	if err := d.agent.Start(); err != nil {
		d.pidFile.Remove()
		return err
	}

	if err := d.publishState(); err != nil {
		logging.Warn("could not publish agent state", logging.KeyError, err.Error())
	}

	statusDone := make(chan struct{})
	go d.statusLoop(statusDone)

	sigCh, releaseSignals := notifyShutdown()
	defer releaseSignals()

	if d.debug {
		logging.DebugLog("agent started", "pid", os.Getpid())
	}

	sig := awaitShutdown(ctx, sigCh)
	if d.debug && sig != nil {
		logging.DebugLog("received signal", "signal", sig.String())
	}

	close(statusDone)
	d.agent.Stop()
	d.engine.Wait()
	d.pidFile.Remove()
	removeState()

	return nil
}

// statusLoop republishes the agent state on a fixed interval and keeps
// the sweep counter current.
func (d *Daemon) statusLoop(done <-chan struct{}) {
	ticker := time.NewTicker(config.Global.Agent.StatusInterval)
	defer ticker.Stop()

	var lastSeen time.Time
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if sweep := d.agent.LastSweep(); sweep.After(lastSeen) {
				d.metrics.RecordSweep(sweep)
				lastSeen = sweep
			}
			if st := d.engine.Status(); st.LastError != "" {
				d.metrics.RecordError("sync", errors.New(st.LastError))
			}
			if err := d.publishState(); err != nil {
				logging.Warn("could not publish agent state", logging.KeyError, err.Error())
			}
		}
	}
}

// publishState writes the current sync status to the state file.
func (d *Daemon) publishState() error {
	st := d.engine.Status()
	state := &AgentState{
		StartedAt:    d.startedAt,
		Account:      st.Account,
		EngineState:  st.State.String(),
		LocalVersion: st.LocalVersion,
		Dirty:        st.Dirty,
		Reachable:    d.agent.Reachable(),
		LastSweepAt:  d.agent.LastSweep(),
		UpdatedAt:    time.Now(),
	}
	return writeState(state)
}

// StartBackground starts the agent in a detached child process.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.GetRunningPID(), ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	args := []string{"agent", "start", "--foreground"}
	if d.debug {
		args = append(args, "--debug")
	}

	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil

	logPath := GetLogPath()
	if logFile, err := openLogFile(); err == nil {
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start agent: %w", err)
	}

	// Give the child a moment to write its PID
	time.Sleep(config.Global.Agent.StartupWait)

	if !d.pidFile.IsRunning() {
		if errMsg := readLastLogError(); errMsg != "" {
			return 0, fmt.Errorf("agent failed to start: %s", errMsg)
		}
		return 0, fmt.Errorf("agent failed to start (check logs: %s)", logPath)
	}

	return cmd.Process.Pid, nil
}

// Stop stops the running agent.
func (d *Daemon) Stop() error {
	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}

	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop agent: %w", err)
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := process.Wait()
		done <- err
	}()

	select {
	case <-done:
	case <-time.After(config.Global.Agent.KillTimeout):
		process.Kill()
	}

	d.pidFile.Remove()
	removeState()
	return nil
}

// readLastLogError scans the tail of the log file for an error message.
func readLastLogError() string {
	data, err := os.ReadFile(GetLogPath())
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	start := len(lines) - 10
	if start < 0 {
		start = 0
	}

	for i := len(lines) - 1; i >= start; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.Contains(strings.ToLower(line), "error") ||
			strings.Contains(line, "cannot access database") ||
			strings.Contains(line, "failed to") {
			return line
		}
	}
	return ""
}

// getStatePath returns the path to the published state file.
func getStatePath() string {
	return filepath.Join(xdg.StateHome, AppName, "agent.json")
}

func writeState(state *AgentState) error {
	path := getStatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readState() (*AgentState, error) {
	data, err := os.ReadFile(getStatePath())
	if err != nil {
		return nil, err
	}

	var state AgentState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func removeState() {
	if err := os.Remove(getStatePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove agent state file", logging.KeyError, err.Error(), "path", getStatePath())
	}
}

// formatUptime formats a duration as uptime.
func formatUptime(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % 60
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}

	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	if hours > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dd", days)
}
