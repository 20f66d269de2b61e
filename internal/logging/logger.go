// Package logging wraps log/slog with a process-wide logger and
// masking of sensitive fields. All output goes to stderr so stdout
// stays clean for command output.
package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

// Field keys shared across packages so log lines stay greppable.
const (
	KeyOperation  = "op"
	KeyError      = "error"
	KeyAccount    = "account"
	KeyEmployeeID = "employee_id"
	KeyShiftID    = "shift_id"
	KeyVersion    = "version"
	KeyStatus     = "status"
	KeyCount      = "count"
	KeyDuration   = "duration_ms"
)

// Debug reports whether the logger was initialized at debug level.
var Debug bool

var (
	mu     sync.RWMutex
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
)

// Config selects the handler for the process logger.
type Config struct {
	Level     slog.Level
	JSON      bool
	Output    io.Writer
	AddSource bool
}

// Init replaces the process logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var h slog.Handler
	if cfg.JSON {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}

	mu.Lock()
	logger = slog.New(h)
	Debug = cfg.Level <= slog.LevelDebug
	mu.Unlock()
}

// InitDebug switches to debug-level JSON logging with source locations.
func InitDebug() {
	Init(Config{Level: slog.LevelDebug, JSON: true, AddSource: true})
}

// Logger returns the process logger.
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// DebugLog logs at DEBUG level. Named to avoid shadowing the Debug flag.
func DebugLog(msg string, args ...any) {
	Logger().Debug(msg, MaskArgs(args)...)
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Logger().Info(msg, MaskArgs(args)...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, MaskArgs(args)...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	Logger().Error(msg, MaskArgs(args)...)
}
