// Package daemon runs the WageTrack sync agent as a background process:
// PID file management, a status file the CLI can read without opening
// the locked database, and system service installation.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/adrg/xdg"
)

// AppName names the agent's runtime directories.
const AppName = "wagetrack"

var (
	ErrNotRunning     = fmt.Errorf("agent is not running")
	ErrAlreadyRunning = fmt.Errorf("agent is already running")
)

// PIDFile manages the agent PID file.
type PIDFile struct {
	path string
}

// NewPIDFile creates a new PID file manager.
func NewPIDFile() *PIDFile {
	return &PIDFile{path: GetPIDFilePath()}
}

// GetPIDFilePath returns the path to the PID file. The XDG state
// directory is used because the runtime dir may not exist on macOS.
func GetPIDFilePath() string {
	return filepath.Join(xdg.StateHome, AppName, "agent.pid")
}

// Write writes the current process PID to the file.
func (p *PIDFile) Write() error {
	return p.WritePID(os.Getpid())
}

// WritePID writes a specific PID to the file.
func (p *PIDFile) WritePID(pid int) error {
	if err := os.MkdirAll(filepath.Dir(p.path), 0755); err != nil {
		return fmt.Errorf("create pid directory: %w", err)
	}
	return os.WriteFile(p.path, []byte(strconv.Itoa(pid)), 0644)
}

// Read reads the PID from the file.
func (p *PIDFile) Read() (int, error) {
	data, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return 0, ErrNotRunning
	}
	if err != nil {
		return 0, fmt.Errorf("read pid file: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed pid file: %w", err)
	}
	return pid, nil
}

// Remove deletes the PID file. A missing file is not an error.
func (p *PIDFile) Remove() error {
	if err := os.Remove(p.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// IsRunning checks if the agent is currently running.
func (p *PIDFile) IsRunning() bool {
	pid, err := p.Read()
	if err != nil {
		return false
	}
	return IsProcessRunning(pid)
}

// GetRunningPID returns the PID if the agent is running, or 0 if not.
func (p *PIDFile) GetRunningPID() int {
	pid, err := p.Read()
	if err != nil || !IsProcessRunning(pid) {
		return 0
	}
	return pid
}

// Path returns the PID file path.
func (p *PIDFile) Path() string {
	return p.path
}

// IsProcessRunning reports whether a process with the given PID exists.
// On Unix FindProcess always succeeds; signal 0 does the real check.
func IsProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	return process.Signal(syscall.Signal(0)) == nil
}
