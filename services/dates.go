package services

import (
	"fmt"
	"time"

	"sitebook/calc"
)

// ParseDate validates a YYYY-MM-DD string.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(calc.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseMonth validates a YYYY-MM string and returns the first day of it.
func ParseMonth(s string) (time.Time, error) {
	m, err := time.Parse(calc.MonthLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q: expected YYYY-MM", s)
	}
	return m, nil
}

// MonthBounds returns the first and last YYYY-MM-DD dates of the month
// containing t. Dates are stored as text so lexical comparison works.
func MonthBounds(t time.Time) (first, last string) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return start.Format(calc.DateLayout), end.Format(calc.DateLayout)
}

// DateOrToday returns s if it is a valid date, otherwise today's date.
func DateOrToday(s string, now time.Time) string {
	if _, err := ParseDate(s); err == nil {
		return s
	}
	return now.Format(calc.DateLayout)
}

// MonthOrCurrent returns the month named by s, or the month containing now.
func MonthOrCurrent(s string, now time.Time) time.Time {
	if m, err := ParseMonth(s); err == nil {
		return m
	}
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}
