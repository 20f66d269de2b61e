// Package parser turns human date and period expressions into the
// concrete ranges and dates reports and shift entry work with.
package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/markusmobius/go-dateparser"
)

// Range is a half-open [Start, End) reporting window.
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a shift date string (YYYY-MM-DD) falls
// inside the range.
func (r Range) Contains(date string) bool {
	t, err := time.ParseInLocation("2006-01-02", date, r.Start.Location())
	if err != nil {
		return false
	}
	return !t.Before(r.Start) && t.Before(r.End)
}

// periodRegex matches period expressions like "this week", "last month".
var periodRegex = regexp.MustCompile(`(?i)^(this|current|last|previous)\s+(week|month|quarter|year)$`)

// monthRegex matches an explicit month like "2025-03".
var monthRegex = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// clock used by tests to pin "now".
var timeNow = time.Now

// ParseRange parses a reporting period expression. Accepted forms:
// "today", "yesterday", "this week", "last month", an explicit month
// "2025-03", an explicit day "2025-03-14", or a "start..end" pair of
// explicit days. The zero input defaults to the current month, which
// is what the report command shows when given nothing.
func ParseRange(input string) (Range, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	now := timeNow()

	switch input {
	case "", "this month", "current month":
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case "today":
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case "yesterday":
		start := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: start.AddDate(0, 0, 1)}, nil
	}

	if match := periodRegex.FindStringSubmatch(input); match != nil {
		return periodRange(now, match[1], match[2]), nil
	}

	if match := monthRegex.FindStringSubmatch(input); match != nil {
		start, err := time.ParseInLocation("2006-01", input, now.Location())
		if err != nil {
			return Range{}, NewRangeError(input)
		}
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, nil
	}

	if from, to, ok := strings.Cut(input, ".."); ok {
		start, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(from), now.Location())
		if err != nil {
			return Range{}, NewRangeError(input)
		}
		end, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(to), now.Location())
		if err != nil || end.Before(start) {
			return Range{}, NewRangeError(input)
		}
		return Range{Start: start, End: end.AddDate(0, 0, 1)}, nil
	}

	if start, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return Range{Start: start, End: start.AddDate(0, 0, 1)}, nil
	}

	return Range{}, NewRangeError(input)
}

// periodRange resolves a modifier+period pair to a calendar window.
func periodRange(now time.Time, modifier, period string) Range {
	previous := modifier == "last" || modifier == "previous"

	var start time.Time
	var months, days int

	switch period {
	case "week":
		// Weeks start on Monday.
		weekday := int(now.Weekday())
		if weekday == 0 {
			weekday = 7
		}
		start = time.Date(now.Year(), now.Month(), now.Day()-weekday+1, 0, 0, 0, 0, now.Location())
		days = 7
		if previous {
			start = start.AddDate(0, 0, -7)
		}

	case "month":
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		months = 1
		if previous {
			start = start.AddDate(0, -1, 0)
		}

	case "quarter":
		quarter := (int(now.Month()) - 1) / 3
		start = time.Date(now.Year(), time.Month(quarter*3+1), 1, 0, 0, 0, 0, now.Location())
		months = 3
		if previous {
			start = start.AddDate(0, -3, 0)
		}

	case "year":
		start = time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		months = 12
		if previous {
			start = start.AddDate(-1, 0, 0)
		}
	}

	return Range{Start: start, End: start.AddDate(0, months, days)}
}

// ParseShiftDate parses a shift date given either as YYYY-MM-DD or as
// natural language ("yesterday", "last friday"). Returns the canonical
// YYYY-MM-DD string the data model stores.
func ParseShiftDate(input string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" || strings.EqualFold(input, "today") {
		return timeNow().Format("2006-01-02"), nil
	}

	if t, err := time.Parse("2006-01-02", input); err == nil {
		return t.Format("2006-01-02"), nil
	}

	cfg := &dateparser.Configuration{CurrentTime: timeNow()}
	result, err := dateparser.Parse(cfg, input)
	if err != nil {
		return "", NewDateError(input)
	}
	return result.Time.Format("2006-01-02"), nil
}
