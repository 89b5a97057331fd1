// Package duedate computes creative submission deadlines from flight start dates.
package duedate

import (
	"strings"
	"time"

	"mediabrief/internal/domain"
)

// ISOLayout is the output format of every computed due date.
const ISOLayout = "2006-01-02"

// dateLayouts are tried in order. Day-first forms precede month-first ones
// because publisher schedules in this market are day-first.
var dateLayouts = []string{
	ISOLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2 Jan 2006",
	"02 Jan 2006",
	"2 January 2006",
	"Mon 2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
	"02-Jan-06",
}

// ParseDate parses a schedule date. The second return is false for empty or
// unparsable input, including impossible calendar dates such as 2024-02-30.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Calculate returns startDate minus bufferDays calendar days as an ISO date.
// It returns "" when startDate is missing or unparsable or bufferDays is negative.
func Calculate(startDate string, bufferDays int) string {
	if bufferDays < 0 {
		return ""
	}
	start, ok := ParseDate(startDate)
	if !ok {
		return ""
	}
	return start.AddDate(0, 0, -bufferDays).Format(ISOLayout)
}

// Recompute returns a copy of candidates with every due date recalculated.
// No other field is touched and the input slice is not modified.
func Recompute(candidates []domain.ImportCandidate, bufferDays int) []domain.ImportCandidate {
	out := make([]domain.ImportCandidate, len(candidates))
	for i, c := range candidates {
		c.DueDate = Calculate(c.StartDate, bufferDays)
		out[i] = c
	}
	return out
}
