package parser

import (
	"fmt"
	"strings"

	"github.com/wagetrack/wagetrack/internal/errors"
)

// ParseError represents a date or period parsing error with helpful
// suggestions for the command line.
type ParseError struct {
	Input    string
	Field    string
	Message  string
	Examples []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid %s '%s': %s", e.Field, e.Input, e.Message)
}

// FormatWithExamples returns the error message with example inputs.
func (e *ParseError) FormatWithExamples() string {
	var sb strings.Builder
	sb.WriteString(e.Error())

	if len(e.Examples) > 0 {
		sb.WriteString("\n\nValid examples:\n")
		for _, ex := range e.Examples {
			sb.WriteString("  - ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// RangeExamples provides example reporting period formats.
var RangeExamples = []string{
	"today",
	"this week",
	"last month",
	"2025-03",
	"2025-03-01..2025-03-15",
}

// DateExamples provides example shift date formats.
var DateExamples = []string{
	"2025-03-14",
	"today",
	"yesterday",
	"last friday",
}

// NewRangeError creates a period parse error with standard examples.
func NewRangeError(input string) *ParseError {
	return &ParseError{
		Input:    input,
		Field:    "period",
		Message:  "could not parse reporting period",
		Examples: RangeExamples,
	}
}

// NewDateError creates a shift date parse error with standard examples.
func NewDateError(input string) *ParseError {
	return &ParseError{
		Input:    input,
		Field:    "date",
		Message:  "could not parse date",
		Examples: DateExamples,
	}
}

// ToUserError converts a ParseError to a UserError for consistent
// handling in command output.
func (e *ParseError) ToUserError() *errors.UserError {
	suggestion := ""
	if len(e.Examples) > 0 {
		n := len(e.Examples)
		if n > 3 {
			n = 3
		}
		suggestion = fmt.Sprintf("Try: %s", strings.Join(e.Examples[:n], ", "))
	}
	return errors.NewUserErrorWithField(e.Field, e.Input, e.Message, suggestion)
}
