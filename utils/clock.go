package utils

import (
	"fmt"
	"time"
)

// Layouts for the wire formats used throughout the booking surface: dates are
// "YYYY-MM-DD", wall-clock times "HH:MM", both provider-local.
const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// ParseClock parses an "HH:MM" string into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock renders minutes from midnight back to "HH:MM".
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate parses a "YYYY-MM-DD" string in the given location.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// ClockRangeValid reports whether both strings parse and start precedes end.
func ClockRangeValid(start, end string) error {
	s, err := ParseClock(start)
	if err != nil {
		return err
	}
	e, err := ParseClock(end)
	if err != nil {
		return err
	}
	if s >= e {
		return fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return nil
}

// IntervalsOverlap reports whether [aStart,aEnd) and [bStart,bEnd) intersect.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
