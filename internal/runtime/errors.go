package runtime

import (
	"errors"
	"fmt"
	"strings"
	"syscall"

	apperrors "github.com/wagetrack/wagetrack/internal/errors"
)

// Suggestions provides helpful suggestions for common errors.
var Suggestions = map[error]string{
	apperrors.ErrNoSession:          "Use 'wt login <email>' or 'wt register <email>' first.",
	apperrors.ErrEmployeeNotFound:   "Use 'wt employee list' to see available employees.",
	apperrors.ErrShiftNotFound:      "Use 'wt shift list' to see recorded shifts.",
	apperrors.ErrEmployeeLimit:      "Delete an employee before adding another.",
	apperrors.ErrDuplicateEmail:     "Use 'wt login <email>' to sign in to the existing account.",
	apperrors.ErrInvalidCredentials: "Check the email and password and try again.",
	apperrors.ErrInvalidBundle:      "Export a fresh access key with 'wt access export' on the source device.",
	apperrors.ErrInvalidTimeOfDay:   "Use 24-hour HH:MM format, like '09:00' or '17:30'.",
	apperrors.ErrRemoteUnavailable:  "Changes were saved locally and will sync when the remote is reachable.",
	apperrors.ErrDiskFull:           "Free up disk space and try again. Your data is preserved.",
}

// GetSuggestion returns a suggestion for an error, if available.
func GetSuggestion(err error) string {
	var userErr *apperrors.UserError
	if errors.As(err, &userErr) && userErr.Suggestion != "" {
		return userErr.Suggestion
	}
	for knownErr, suggestion := range Suggestions {
		if errors.Is(err, knownErr) {
			return suggestion
		}
	}
	return ""
}

// FormatError formats an error with optional suggestion.
func FormatError(err error) string {
	msg := err.Error()
	if suggestion := GetSuggestion(err); suggestion != "" {
		msg += "\n" + suggestion
	}
	return msg
}

// DiskFullError represents a disk full condition with additional context.
type DiskFullError struct {
	Op      string // The operation that failed (e.g., "write", "sync")
	Path    string // The path involved, if known
	wrapped error  // The underlying error
}

func (e *DiskFullError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("disk full during %s on %s: %v", e.Op, e.Path, e.wrapped)
	}
	return fmt.Sprintf("disk full during %s: %v", e.Op, e.wrapped)
}

func (e *DiskFullError) Unwrap() error {
	return apperrors.ErrDiskFull
}

// NewDiskFullError creates a new DiskFullError.
func NewDiskFullError(op, path string, err error) *DiskFullError {
	return &DiskFullError{
		Op:      op,
		Path:    path,
		wrapped: err,
	}
}

// IsDiskFullError checks if an error indicates a disk full condition.
// It checks for ENOSPC (Linux/macOS) and common disk full error patterns.
func IsDiskFullError(err error) bool {
	if err == nil {
		return false
	}

	var diskFullErr *DiskFullError
	if errors.As(err, &diskFullErr) {
		return true
	}

	if errors.Is(err, apperrors.ErrDiskFull) {
		return true
	}

	// ENOSPC: no space left on device
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ENOSPC {
			return true
		}
	}

	errStr := strings.ToLower(err.Error())
	diskFullPatterns := []string{
		"no space left on device",
		"disk full",
		"enospc",
		"not enough space",
		"insufficient disk space",
		"out of disk space",
	}

	for _, pattern := range diskFullPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}

// WrapDiskFullError wraps an error as a DiskFullError if it indicates disk full.
// If the error is not a disk full error, it returns the original error unchanged.
func WrapDiskFullError(err error, op, path string) error {
	if err == nil {
		return nil
	}
	if IsDiskFullError(err) {
		return NewDiskFullError(op, path, err)
	}
	return err
}

// wrapOpenError attaches the failing operation to a store-open error.
// Debug runs capture the call stack so `wt --debug` can show where the
// open failed.
func wrapOpenError(err error, op string, debug bool) error {
	if debug {
		return apperrors.WithStack(err, op)
	}
	return apperrors.WithContext(err, op)
}
