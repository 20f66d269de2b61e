// Package validate provides input validation helpers for the WageTrack CLI.
package validate

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/wagetrack/wagetrack/internal/errors"
	"github.com/wagetrack/wagetrack/internal/model"
)

const (
	// MaxNameLength is the maximum length for an employee name.
	MaxNameLength = 128
	// MaxRoleLength is the maximum length for a role label.
	MaxRoleLength = 64
	// MaxHourlyRate is a sanity cap on hourly rates.
	MaxHourlyRate = 10000
	// MinPasswordLength is the minimum accepted password length.
	MinPasswordLength = 8
)

// emailRegex is a permissive shape check; real validation happens when
// the address is used as an account key.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// EmployeeName validates an employee display name.
func EmployeeName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.NewUserError("Employee name cannot be empty", "Provide a display name")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return errors.NewUserErrorWithField("name", name,
			"Employee name too long",
			"Names must be 128 characters or fewer")
	}
	return nil
}

// Role validates a role label.
func Role(role string) error {
	role = strings.TrimSpace(role)
	if role == "" {
		return errors.NewUserError("Role cannot be empty", "Provide a role label, e.g. 'Staff'")
	}
	if utf8.RuneCountInString(role) > MaxRoleLength {
		return errors.NewUserErrorWithField("role", role,
			"Role too long",
			"Roles must be 64 characters or fewer")
	}
	return nil
}

// HourlyRate validates an hourly wage rate.
func HourlyRate(rate float64) error {
	if rate <= 0 {
		return errors.NewUserError("Hourly rate must be greater than zero", "Provide a positive rate")
	}
	if rate > MaxHourlyRate {
		return errors.NewUserError("Hourly rate is implausibly high", "Provide a rate below 10000")
	}
	return nil
}

// TimeOfDay validates an HH:MM clock time.
func TimeOfDay(value string) error {
	if _, err := model.ParseClock(value); err != nil {
		return errors.NewUserErrorWithField("time", value,
			"Invalid time of day",
			"Use 24-hour HH:MM, e.g. 09:00 or 22:30")
	}
	return nil
}

// ShiftDate validates a YYYY-MM-DD work date.
func ShiftDate(value string) error {
	if _, err := model.ParseShiftDate(value); err != nil {
		return errors.NewUserErrorWithField("date", value,
			"Invalid shift date",
			"Use YYYY-MM-DD, e.g. 2025-03-14")
	}
	return nil
}

// Email validates an account email address.
func Email(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.NewUserError("Email cannot be empty", "Provide your work email")
	}
	if !emailRegex.MatchString(email) {
		return errors.NewUserErrorWithField("email", email,
			"Invalid email address",
			"Use a full address like manager@business.com")
	}
	return nil
}

// Password validates a new password. Existing passwords are never
// inspected here; this gate applies only at registration and change.
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return errors.NewUserError("Password too short", "Use at least 8 characters")
	}
	return nil
}

// SanitizeName trims whitespace and strips control characters from a
// user-entered name or role before storage.
func SanitizeName(s string) string {
	s = strings.TrimSpace(s)
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
