package core

import (
	"fmt"
	"strings"
	"time"
)

// explicitDateLayouts are tried first, in order: YYYY-MM-DD, YYYY/M/D, M/D/YYYY.
var explicitDateLayouts = []string{
	"2006-01-02",
	"2006/1/2",
	"1/2/2006",
}

// fallbackDateLayouts cover the other shapes spreadsheet exports commonly produce.
var fallbackDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-1-2",
	"1/2/2006 15:04:05",
	"1-2-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
	"Mon Jan 2 2006",
}

// ParseDate parses a row date in the given location (local time by default) so
// that month boundaries are not shifted by a UTC conversion.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range explicitDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	for _, layout := range fallbackDateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			// Timestamps carrying their own offset are moved into loc before keying.
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// MonthKey returns the zero-padded YYYY-MM key of t in its own location.
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousMonth returns the month key before the given one.
func PreviousMonth(month string) (string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", err
	}
	return MonthKey(t.AddDate(0, -1, 0)), nil
}
