package daemon

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// maxLogSize caps agent.log before it is rotated aside.
const maxLogSize = 5 << 20

// GetLogDir returns the directory holding agent log files.
func GetLogDir() string {
	return filepath.Join(xdg.StateHome, AppName)
}

// GetLogPath returns the agent log file path. The agent logs through
// the process's stderr, which background starts and service units
// redirect here.
func GetLogPath() string {
	return filepath.Join(GetLogDir(), "agent.log")
}

// rotateLogIfLarge moves an oversized log aside before a new agent run
// appends to it. One .old generation is kept.
func rotateLogIfLarge(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() < maxLogSize {
		return nil
	}

	backup := path + ".old"
	os.Remove(backup)
	return os.Rename(path, backup)
}

// openLogFile opens the agent log for appending, creating the state
// directory on first run and rotating an oversized log aside.
func openLogFile() (*os.File, error) {
	path := GetLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}
	if err := rotateLogIfLarge(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
