// Package calendar compares calendar dates and formats wall-clock times
// without going through timestamp parsing, so a date-only string never
// shifts by a day when read in a timezone west or east of UTC.
package calendar

import (
	"strconv"
	"strings"
	"time"
)

const layout = "2006-01-02"

// Day is a calendar date with no time or location attached.
type Day struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDay reads "YYYY-MM-DD" component-wise. An RFC 3339 timestamp is read
// by its leading date part as written. ok is false for anything else,
// including out-of-range components such as "2025-02-30".
func ParseDay(s string) (Day, bool) {
	s = strings.TrimSpace(s)
	if len(s) > len(layout) && s[len(layout)] == 'T' {
		s = s[:len(layout)]
	}

	parts := strings.Split(s, "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Day{}, false
	}

	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Day{}, false
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return Day{}, false
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil || day < 1 {
		return Day{}, false
	}

	d := Day{Year: year, Month: time.Month(month), Day: day}
	if !d.valid() {
		return Day{}, false
	}
	return d, true
}

// DayOf returns the calendar date of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, Day: d}
}

// In returns midnight of the day in loc.
func (d Day) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

func (d Day) IsZero() bool {
	return d == Day{}
}

func (d Day) Before(o Day) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Day) After(o Day) bool {
	return o.Before(d)
}

func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return d.In(time.UTC).Format(layout)
}

// valid rejects dates that time.Date would normalize, e.g. Feb 30.
func (d Day) valid() bool {
	return DayOf(d.In(time.UTC)) == d
}

// SameDay reports whether the date string s names the calendar day of t,
// reading t in its own location. Malformed strings never match.
func SameDay(s string, t time.Time) bool {
	d, ok := ParseDay(s)
	if !ok {
		return false
	}
	return d == DayOf(t)
}

// SameDate reports whether a and b fall on the same calendar day, reading a
// in b's location.
func SameDate(a, b time.Time) bool {
	return DayOf(a.In(b.Location())) == DayOf(b)
}
