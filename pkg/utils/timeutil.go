// Package utils provides date helpers shared by the views and the CLI.
package utils

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts lists the timestamp shapes the backend is known to emit:
// ISO dates with and without zone, and the RFC 1123 form Flask's jsonify
// uses for datetimes.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses a backend timestamp in any of the known layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Day is a calendar day with no time-of-day or zone.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// DayOf returns the calendar day of t as written, in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// ParseDay parses s and returns its calendar day.
func ParseDay(s string) (Day, bool) {
	t, err := ParseDate(s)
	if err != nil {
		return Day{}, false
	}
	return DayOf(t), true
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// SameDay reports whether two backend timestamps fall on the same calendar
// day. Unparseable input never matches.
func SameDay(a, b string) bool {
	da, ok := ParseDay(a)
	if !ok {
		return false
	}
	db, ok := ParseDay(b)
	if !ok {
		return false
	}
	return da == db
}

// FormatDay renders a backend timestamp as YYYY-MM-DD. Input that cannot be
// parsed is returned unchanged.
func FormatDay(s string) string {
	if d, ok := ParseDay(s); ok {
		return d.String()
	}
	return s
}

// FormatDateTime formats t as "2006-01-02 15:04:05 MST".
func FormatDateTime(t time.Time) string {
	return t.Format("2006-01-02 15:04:05 MST")
}
