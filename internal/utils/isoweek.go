package utils

import (
	"fmt"
	"strconv"
	"time"
)

const DateFormat = "2006-01-02"

// FormatWeekID renders the ISO-8601 week identifier ("2024-W01") for a time.
func FormatWeekID(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// CurrentWeekID returns the identifier of the ISO week containing today.
func CurrentWeekID() string {
	return FormatWeekID(time.Now().UTC())
}

// ParseWeekID parses a "YYYY-Www" identifier. It reports ok=false for
// malformed input instead of returning an error; callers fall back to the
// current week since identifiers can come from user-edited pickers.
func ParseWeekID(weekID string) (year, week int, ok bool) {
	if len(weekID) != 8 || weekID[4] != '-' || weekID[5] != 'W' {
		return 0, 0, false
	}

	year, err := strconv.Atoi(weekID[:4])
	if err != nil || year < 1 {
		return 0, 0, false
	}

	week, err = strconv.Atoi(weekID[6:])
	if err != nil || week < 1 || week > 53 {
		return 0, 0, false
	}

	return year, week, true
}

// Week1Monday returns the Monday of ISO week 1 for the given year: the
// Monday on or before January 4th (the week containing the first Thursday).
func Week1Monday(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	daysSinceMonday := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -daysSinceMonday)
}

// WeekDayDate resolves a week identifier and day index (Monday=0) to a
// calendar date at UTC midnight. Malformed identifiers resolve against the
// current ISO week; out-of-range day indexes are clamped into [0,6].
func WeekDayDate(weekID string, dayID int) time.Time {
	year, week, ok := ParseWeekID(weekID)
	if !ok {
		year, week = time.Now().UTC().ISOWeek()
	}

	if dayID < 0 {
		dayID = 0
	}
	if dayID > 6 {
		dayID = 6
	}

	return Week1Monday(year).AddDate(0, 0, (week-1)*7+dayID)
}

// NormalizeWeekID canonicalizes a week identifier, zero-padding the week
// number. Malformed input resolves to the current week, matching the
// date-derivation fallback.
func NormalizeWeekID(weekID string) string {
	year, week, ok := ParseWeekID(weekID)
	if !ok {
		return CurrentWeekID()
	}
	return fmt.Sprintf("%04d-W%02d", year, week)
}

// FormatDate renders a date as ISO "YYYY-MM-DD".
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}
