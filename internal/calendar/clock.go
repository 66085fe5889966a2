package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// To12Hour turns "HH:MM" into a 12-hour label such as "1:05 PM". Minutes are
// passed through as written. Empty or unreadable input yields "".
func To12Hour(time24 string) string {
	time24 = strings.TrimSpace(time24)
	if time24 == "" {
		return ""
	}

	hourStr, minute, ok := strings.Cut(time24, ":")
	if !ok || minute == "" {
		return ""
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}

	ampm := "AM"
	if hour >= 12 {
		ampm = "PM"
	}
	hour %= 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%s %s", hour, minute, ampm)
}

// At combines a date string and an "HH:MM" time in loc. An empty time means
// midnight. ok is false when either part cannot be read.
func At(date, clock string, loc *time.Location) (time.Time, bool) {
	d, ok := ParseDay(date)
	if !ok {
		return time.Time{}, false
	}

	clock = strings.TrimSpace(clock)
	if clock == "" {
		clock = "00:00"
	}
	hourStr, minuteStr, ok := strings.Cut(clock, ":")
	if !ok {
		return time.Time{}, false
	}
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour < 0 || hour > 23 {
		return time.Time{}, false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute < 0 || minute > 59 {
		return time.Time{}, false
	}

	return time.Date(d.Year, d.Month, d.Day, hour, minute, 0, 0, loc), true
}
