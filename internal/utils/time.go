package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/liftlit/internal/constants"
)

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ParseDateInLocation parses a date string (YYYY-MM-DD) as midnight in loc.
func ParseDateInLocation(dateStr string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse(constants.DateFormat, dateStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc), nil
}

// ParseSince turns a history filter into the earliest instant it admits.
// Accepted forms are "today", "yesterday", a date (YYYY-MM-DD) or a
// relative span such as "10d" or "2w", counted back from the start of
// today in now's location.
func ParseSince(value string, now time.Time) (time.Time, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	today := StartOfDay(now)

	switch v {
	case "":
		return time.Time{}, fmt.Errorf("empty date")
	case "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if t, err := ParseDateInLocation(v, now.Location()); err == nil {
		return t, nil
	}

	unit := v[len(v)-1]
	n, err := strconv.Atoi(v[:len(v)-1])
	if err != nil || n < 0 {
		return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, today, yesterday, Nd or Nw", value)
	}
	switch unit {
	case 'd':
		return today.AddDate(0, 0, -n), nil
	case 'w':
		return today.AddDate(0, 0, -7*n), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use YYYY-MM-DD, today, yesterday, Nd or Nw", value)
}
