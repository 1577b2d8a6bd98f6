package util

import (
	"fmt"
	"strings"
	"time"
)

// DateKeyLayout is the local calendar-day format stored in the notification ledger.
const DateKeyLayout = "2006-01-02"

// Layouts accepted for dates coming out of Notion formulas. Date properties use the
// ISO forms; formula strings depend on how the formula was written.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000",
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006/01/02",
	"02/01/2006",
}

// ParseDate parses a Notion date or formula string. Dates without a zone are read
// in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format: %q", s)
}

// DateKey formats the calendar day of t in its own location.
func DateKey(t time.Time) string {
	return t.Format(DateKeyLayout)
}

// SameDay reports whether a and b fall on the same calendar day in a's location.
func SameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// DaysUntil counts calendar days from now until t. Negative when t is in the past.
func DaysUntil(now, t time.Time) int {
	from := StartOfDay(now)
	to := StartOfDay(t.In(now.Location()))
	// Dates are compared at UTC midnight so DST shifts do not eat a day.
	fromUTC := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toUTC := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toUTC.Sub(fromUTC).Hours() / 24)
}

// Plural returns suffix when n > 1.
func Plural(n int, suffix string) string {
	if n > 1 {
		return suffix
	}
	return ""
}
