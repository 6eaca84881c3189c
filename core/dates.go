package core

import (
	"fmt"
	"strings"
	"time"
)

var dateLayouts = []string{DateLayout, "2006-1-2", time.RFC3339}

// ParseDate reads a calendar date and returns it at UTC midnight.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			return DateOf(t), nil
		}
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
}

// NormalizeDate rewrites a date string as YYYY-MM-DD. Unparseable input is
// returned trimmed so that equality checks still behave predictably.
func NormalizeDate(value string) string {
	t, err := ParseDate(value)
	if err != nil {
		return strings.TrimSpace(value)
	}

	return FormatDate(t)
}

func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DateOf drops the clock and location of t, keeping its calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseClock reads a HH:MM time of day and returns minutes since midnight.
func ParseClock(value string) (int, error) {
	// "15" also accepts single digit hours, e.g. "9:30"
	t, err := time.Parse(ClockLayout, strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, value)
	}

	return t.Hour()*60 + t.Minute(), nil
}

// NormalizeClock rewrites a time of day as zero-padded HH:MM. Unparseable
// input is returned trimmed.
func NormalizeClock(value string) string {
	m, err := ParseClock(value)
	if err != nil {
		return strings.TrimSpace(value)
	}

	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// clockMinutes is ParseClock for ordering purposes; bad values sort first.
func clockMinutes(value string) int {
	m, err := ParseClock(value)
	if err != nil {
		return -1
	}

	return m
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
