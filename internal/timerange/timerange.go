// Package timerange works with "HH:MM" wall-clock times on a single calendar day.
package timerange

import (
	"errors"
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

var (
	ErrInvalidClock = errors.New("time must be in HH:MM format")
	ErrInvalidDate  = errors.New("date must be in YYYY-MM-DD format")
)

// ParseClock converts a strict "HH:MM" value (00:00-23:59) to minutes since midnight.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrInvalidClock
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrInvalidClock
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrInvalidClock
	}
	return h*60 + m, nil
}

func ValidClock(s string) bool {
	_, err := ParseClock(s)
	return err == nil
}

// Minutes returns end - start in minutes.
func Minutes(start, end string) (int, error) {
	s, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return e - s, nil
}

// Overlaps reports whether [start1,end1) and [start2,end2) intersect.
// Touching ranges (one ends exactly when the other starts) do not overlap.
// Inputs must already be valid HH:MM values.
func Overlaps(start1, end1, start2, end2 string) bool {
	s1, _ := ParseClock(start1)
	e1, _ := ParseClock(end1)
	s2, _ := ParseClock(start2)
	e2, _ := ParseClock(end2)
	return s1 < e2 && s2 < e1
}

// ParseDate accepts "YYYY-MM-DD" or RFC3339 and returns midnight UTC of that day.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return StartOfDay(t), nil
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
