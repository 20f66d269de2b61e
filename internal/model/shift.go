package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Shift represents one logged work period for an employee.
//
// TotalHours and EarnedWage are computed when the shift is created or
// edited. The wage is frozen at that moment: later changes to the
// employee's hourly rate do not rewrite history.
type Shift struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	ClockIn    string  `json:"clock_in"`
	ClockOut   string  `json:"clock_out,omitempty"`
	TotalHours float64 `json:"total_hours"`
	EarnedWage float64 `json:"earned_wage"`
}

// IsOpen returns true if the shift has no clock-out yet.
func (s *Shift) IsOpen() bool {
	return s.ClockOut == ""
}

// ParseClock parses an "HH:MM" time-of-day string into minutes since midnight.
func ParseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed time %q", value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", value)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", value)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q out of range", value)
	}
	return h*60 + m, nil
}

// HoursBetween computes decimal hours between two clock times,
// wrapping past midnight when the shift ends on the next day.
func HoursBetween(clockIn, clockOut string) (float64, error) {
	in, err := ParseClock(clockIn)
	if err != nil {
		return 0, err
	}
	out, err := ParseClock(clockOut)
	if err != nil {
		return 0, err
	}

	hours := float64(out-in) / 60
	if hours < 0 {
		hours += 24 // overnight shift
	}
	return Round2(hours), nil
}

// Round2 rounds a value to two decimal places, matching the precision
// the app uses for hours and currency amounts.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ParseShiftDate validates a shift date in YYYY-MM-DD form.
func ParseShiftDate(value string) (time.Time, error) {
	return time.Parse("2006-01-02", value)
}
