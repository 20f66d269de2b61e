// Package errors defines the error taxonomy for WageTrack. Errors fall
// into three kinds: user errors the caller can fix, system errors the
// environment caused, and recoverable errors the next sync attempt may
// clear.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions callers branch on.
var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrShiftNotFound      = errors.New("shift not found")
	ErrEmployeeLimit      = errors.New("employee limit reached")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidBundle      = errors.New("access link or key is invalid or expired")
	ErrPushConflict       = errors.New("remote holds newer data")
	ErrNoSession          = errors.New("not logged in")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
	ErrDatabaseCorrupted  = errors.New("database corrupted")
	ErrRemoteUnavailable  = errors.New("remote store unavailable")
	ErrDiskFull           = errors.New("disk full")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrTimeout            = errors.New("operation timed out")
)

// UserError is a problem the user can fix: bad input, a missing
// argument, a malformed value. Suggestion tells them how.
type UserError struct {
	Message    string
	Suggestion string
	Field      string
	Value      string
}

// NewUserError creates a UserError.
func NewUserError(message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion}
}

// NewUserErrorWithField creates a UserError naming the offending input.
func NewUserErrorWithField(field, value, message, suggestion string) *UserError {
	return &UserError{Message: message, Suggestion: suggestion, Field: field, Value: value}
}

func (e *UserError) Error() string {
	if e.Field != "" && e.Value != "" {
		return fmt.Sprintf("%s: '%s'", e.Message, e.Value)
	}
	return e.Message
}

// SystemError is an environment failure the user cannot fix directly,
// like a full disk or a corrupt database.
type SystemError struct {
	Message string
	Cause   error
	Op      string
}

// NewSystemError creates a SystemError.
func NewSystemError(message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause}
}

// NewSystemErrorWithOp creates a SystemError naming the failed operation.
func NewSystemErrorWithOp(op, message string, cause error) *SystemError {
	return &SystemError{Message: message, Cause: cause, Op: op}
}

func (e *SystemError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s during %s", e.Message, e.Op)
	}
	return e.Message
}

func (e *SystemError) Unwrap() error { return e.Cause }

// RecoverableError marks a failure that a later sync attempt may
// clear, like a push against a temporarily unreachable remote. Local
// state stays intact and the next mutation or sweep retries.
type RecoverableError struct {
	Message string
	Cause   error
}

// NewRecoverableError creates a RecoverableError.
func NewRecoverableError(message string, cause error) *RecoverableError {
	return &RecoverableError{Message: message, Cause: cause}
}

func (e *RecoverableError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RecoverableError) Unwrap() error { return e.Cause }

// IsUserError reports whether err's chain holds a UserError.
func IsUserError(err error) bool {
	var ue *UserError
	return errors.As(err, &ue)
}

// IsSystemError reports whether err's chain holds a SystemError.
func IsSystemError(err error) bool {
	var se *SystemError
	return errors.As(err, &se)
}

// IsRecoverableError reports whether err's chain holds a RecoverableError.
func IsRecoverableError(err error) bool {
	var re *RecoverableError
	return errors.As(err, &re)
}

// AsUserError extracts the UserError from err's chain.
func AsUserError(err error) (*UserError, bool) {
	var ue *UserError
	ok := errors.As(err, &ue)
	return ue, ok
}

// Wrap prefixes err with message, preserving the chain. Nil in, nil out.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a format string.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is, As, and New are re-exported so callers need only this package.

func Is(err, target error) bool { return errors.Is(err, target) }

func As(err error, target interface{}) bool { return errors.As(err, target) }

func New(text string) error { return errors.New(text) }
