package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// Location is the business timezone used for display timestamps.
var Location = time.Local

// SetLocation switches the business timezone. An empty or unknown name
// keeps the process-local zone.
func SetLocation(name string) error {
	if name == "" {
		Location = time.Local
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return err
	}
	Location = loc
	return nil
}

// Now returns the current time in the business timezone
func Now() time.Time {
	return time.Now().In(Location)
}

// Display formats t the way order documents and emails print it,
// e.g. "3/14/2025, 9:05:00 AM".
func Display(t time.Time) string {
	return t.In(Location).Format(DisplayLayout)
}

// ParseDate accepts a calendar date (YYYY-MM-DD) or a full RFC3339 timestamp.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(DateLayout, value, Location); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
}

// StartOfDay returns the start of day (00:00:00) in the business timezone
func StartOfDay(t time.Time) time.Time {
	l := t.In(Location)
	return time.Date(l.Year(), l.Month(), l.Day(), 0, 0, 0, 0, Location)
}

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "1/2/2006, 3:04:05 PM"
)
