package calendar

import (
	"fmt"
	"strings"
	"time"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	// NONE treats every weekday as a business day.
	NONE   CalendarID = "NONE"
	TARGET CalendarID = "TARGET"
	USD    CalendarID = "USD"
)

// Parse maps a config/JSON string onto a CalendarID.
func Parse(s string) (CalendarID, error) {
	switch CalendarID(strings.ToUpper(strings.TrimSpace(s))) {
	case "", NONE:
		return NONE, nil
	case TARGET:
		return TARGET, nil
	case USD:
		return USD, nil
	}
	return "", fmt.Errorf("unknown calendar %q", s)
}

func isHoliday(cal CalendarID, t time.Time) bool {
	switch cal {
	case TARGET:
		return isTargetHoliday(t)
	case USD:
		return isUSDHoliday(t)
	default:
		return false
	}
}

// TARGET2 closing days: New Year, Good Friday, Easter Monday, Labour Day, Christmas, Boxing Day.
func isTargetHoliday(t time.Time) bool {
	m, d := t.Month(), t.Day()
	switch {
	case m == time.January && d == 1,
		m == time.May && d == 1,
		m == time.December && (d == 25 || d == 26):
		return true
	}
	easter := easterSunday(t.Year())
	return sameDay(t, easter.AddDate(0, 0, -2)) || sameDay(t, easter.AddDate(0, 0, 1))
}

// Federal Reserve holidays with Sunday→Monday observance.
func isUSDHoliday(t time.Time) bool {
	y := t.Year()
	fixed := []time.Time{
		observed(time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC)),
		observed(time.Date(y, time.June, 19, 0, 0, 0, 0, time.UTC)),
		observed(time.Date(y, time.July, 4, 0, 0, 0, 0, time.UTC)),
		observed(time.Date(y, time.November, 11, 0, 0, 0, 0, time.UTC)),
		observed(time.Date(y, time.December, 25, 0, 0, 0, 0, time.UTC)),
		nthWeekday(y, time.January, time.Monday, 3),
		nthWeekday(y, time.February, time.Monday, 3),
		lastWeekday(y, time.May, time.Monday),
		nthWeekday(y, time.September, time.Monday, 1),
		nthWeekday(y, time.October, time.Monday, 2),
		nthWeekday(y, time.November, time.Thursday, 4),
	}
	for _, h := range fixed {
		if sameDay(t, h) {
			return true
		}
	}
	return false
}

func observed(t time.Time) time.Time {
	if t.Weekday() == time.Sunday {
		return t.AddDate(0, 0, 1)
	}
	return t
}

func nthWeekday(year int, month time.Month, wd time.Weekday, n int) time.Time {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != wd {
		t = t.AddDate(0, 0, 1)
	}
	return t.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(year int, month time.Month, wd time.Weekday) time.Time {
	t := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC)
	for t.Weekday() != wd {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// easterSunday uses the anonymous Gregorian algorithm.
func easterSunday(year int) time.Time {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// IsBusinessDay checks weekends and holiday sets.
func IsBusinessDay(cal CalendarID, t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !isHoliday(cal, t)
}

// Adjust applies Modified Following.
func Adjust(cal CalendarID, t time.Time) time.Time {
	origMonth := t.Month()
	for !IsBusinessDay(cal, t) {
		t = t.AddDate(0, 0, 1)
	}
	if t.Month() != origMonth {
		t = t.AddDate(0, 0, -1)
		for !IsBusinessDay(cal, t) {
			t = t.AddDate(0, 0, -1)
		}
	}
	return t
}
