package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempState points the XDG state directory at a temp dir so tests
// never touch the real agent files.
func useTempState(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Cleanup(xdg.Reload)
}

func TestPIDFileRoundTrip(t *testing.T) {
	useTempState(t)
	p := NewPIDFile()

	_, err := p.Read()
	assert.ErrorIs(t, err, ErrNotRunning)

	require.NoError(t, p.WritePID(12345))
	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, 12345, pid)

	require.NoError(t, p.Remove())
	_, err = p.Read()
	assert.ErrorIs(t, err, ErrNotRunning)

	// Removing twice is fine
	require.NoError(t, p.Remove())
}

func TestPIDFileIsRunning(t *testing.T) {
	useTempState(t)
	p := NewPIDFile()

	// Our own process is certainly running
	require.NoError(t, p.Write())
	assert.True(t, p.IsRunning())
	assert.Equal(t, os.Getpid(), p.GetRunningPID())

	// A long-dead PID is not
	require.NoError(t, p.WritePID(99999999))
	assert.False(t, p.IsRunning())
	assert.Zero(t, p.GetRunningPID())
}

func TestIsProcessRunning(t *testing.T) {
	assert.True(t, IsProcessRunning(os.Getpid()))
	assert.False(t, IsProcessRunning(0))
	assert.False(t, IsProcessRunning(-1))
}

func TestAgentStateRoundTrip(t *testing.T) {
	useTempState(t)

	started := time.Now().Add(-time.Hour).Truncate(time.Second)
	require.NoError(t, writeState(&AgentState{
		StartedAt:    started,
		Account:      "maya@example.com",
		EngineState:  "synced",
		LocalVersion: 7,
		Reachable:    true,
		UpdatedAt:    time.Now(),
	}))

	state, err := readState()
	require.NoError(t, err)
	assert.Equal(t, "maya@example.com", state.Account)
	assert.Equal(t, "synced", state.EngineState)
	assert.EqualValues(t, 7, state.LocalVersion)
	assert.True(t, state.Reachable)
	assert.True(t, started.Equal(state.StartedAt))

	removeState()
	_, err = readState()
	assert.Error(t, err)
}

func TestGetStatusNotRunning(t *testing.T) {
	useTempState(t)

	d := NewDaemon(nil, nil)
	status := d.GetStatus()
	assert.False(t, status.Running)
	assert.Zero(t, status.PID)
	assert.Nil(t, status.Sync)
}

func TestStartRequiresEngine(t *testing.T) {
	useTempState(t)

	d := NewDaemon(nil, nil)
	err := d.Start(context.Background())
	assert.Error(t, err)
	assert.False(t, d.pidFile.IsRunning())
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	sweepAt := time.Now()
	m.RecordSweep(sweepAt)
	m.RecordSweep(sweepAt.Add(30 * time.Second))
	m.RecordPushAccepted()
	m.RecordPushRejected()
	m.RecordProbe()
	m.RecordError("sync", errors.New("remote store unavailable"))

	snap := m.Snapshot()
	assert.EqualValues(t, 2, snap.SweepsRunTotal)
	assert.EqualValues(t, 1, snap.PushesAcceptedTotal)
	assert.EqualValues(t, 1, snap.PushesRejectedTotal)
	assert.EqualValues(t, 1, snap.ProbesRunTotal)
	assert.EqualValues(t, 1, snap.ErrorsTotal)
	assert.Equal(t, "remote store unavailable", snap.LastError)
	assert.EqualValues(t, 1, snap.ErrorsByCategory["sync"])
	require.NotNil(t, snap.LastSweepAt)

	data, err := m.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "sweeps_run_total")

	m.Reset()
	assert.Zero(t, m.SweepsRun())
	assert.Zero(t, m.ErrorsTotal())
}

func TestHealthChecker(t *testing.T) {
	h := NewHealthChecker("1.2.3")
	assert.True(t, h.IsHealthy())

	status := h.Check()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.2.3", status.Version)
	assert.Positive(t, status.Goroutines)

	h.AddCheck("remote", func() error { return errors.New("unreachable") })
	assert.False(t, h.IsHealthy())
	assert.Equal(t, "unhealthy", h.Check().Status)

	h.RemoveCheck("remote")
	assert.True(t, h.IsHealthy())
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{2 * time.Hour, "2h"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{49 * time.Hour, "2d 1h"},
		{48 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d))
	}
}

func TestRotateLogIfLarge(t *testing.T) {
	useTempState(t)

	path := GetLogPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))

	require.NoError(t, os.WriteFile(path, []byte("small"), 0644))
	require.NoError(t, rotateLogIfLarge(path))
	assert.FileExists(t, path)
	assert.NoFileExists(t, path+".old")

	require.NoError(t, os.WriteFile(path, make([]byte, maxLogSize), 0644))
	require.NoError(t, rotateLogIfLarge(path))
	assert.FileExists(t, path+".old")
	assert.NoFileExists(t, path)
}
