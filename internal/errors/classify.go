package errors

import (
	"context"
	"errors"
	"strings"
	"syscall"
)

// Category represents the type of error for display and handling purposes.
type Category int

const (
	// CategoryUnknown is the default for unclassified errors.
	CategoryUnknown Category = iota
	// CategoryUser indicates an error the user can fix (bad input, missing args).
	CategoryUser
	// CategorySystem indicates a system-level error (disk full, storage down).
	CategorySystem
	// CategoryRecoverable indicates an error that can be automatically retried.
	CategoryRecoverable
)

// String returns the string representation of the category.
func (c Category) String() string {
	switch c {
	case CategoryUser:
		return "user"
	case CategorySystem:
		return "system"
	case CategoryRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// Classify determines the category of an error.
func Classify(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	if IsUserError(err) {
		return CategoryUser
	}
	if IsSystemError(err) {
		return CategorySystem
	}
	if IsRecoverableError(err) {
		return CategoryRecoverable
	}

	// Credential and bundle problems are always the user's to fix.
	if errors.Is(err, ErrInvalidCredentials) ||
		errors.Is(err, ErrDuplicateEmail) ||
		errors.Is(err, ErrInvalidBundle) ||
		errors.Is(err, ErrInvalidTimeOfDay) ||
		errors.Is(err, ErrEmployeeLimit) {
		return CategoryUser
	}

	if isSystemLevel(err) {
		return CategorySystem
	}

	if isRecoverablePattern(err) {
		return CategoryRecoverable
	}

	return CategoryUnknown
}

// isSystemLevel checks if an error is a system-level error.
func isSystemLevel(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ENOSPC, syscall.EACCES, syscall.EPERM, syscall.ENOENT, syscall.EIO, syscall.EROFS:
			return true
		}
	}

	return errors.Is(err, ErrDiskFull) ||
		errors.Is(err, ErrDatabaseCorrupted) ||
		errors.Is(err, ErrPermissionDenied)
}

// isRecoverablePattern checks if an error matches recoverable patterns.
// A rejected push and an unreachable remote both resolve themselves on the
// next sync cycle, so they classify as retryable rather than fatal.
func isRecoverablePattern(err error) bool {
	if errors.Is(err, ErrPushConflict) ||
		errors.Is(err, ErrRemoteUnavailable) ||
		errors.Is(err, ErrTimeout) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"temporarily", "timeout", "connection refused", "try again"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
