package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseWeekID(t *testing.T) {
	t.Run("Parses a well-formed identifier", func(t *testing.T) {
		year, week, ok := ParseWeekID("2024-W01")
		assert.True(t, ok)
		assert.Equal(t, 2024, year)
		assert.Equal(t, 1, week)
	})

	t.Run("Parses week 53", func(t *testing.T) {
		year, week, ok := ParseWeekID("2020-W53")
		assert.True(t, ok)
		assert.Equal(t, 2020, year)
		assert.Equal(t, 53, week)
	})

	t.Run("Rejects malformed identifiers", func(t *testing.T) {
		cases := []string{
			"",
			"2024W01",
			"2024-w01",
			"24-W01",
			"2024-W1",
			"2024-W00",
			"2024-W54",
			"2024-W0a",
			"abcd-W01",
			"2024-W01X",
		}
		for _, weekID := range cases {
			_, _, ok := ParseWeekID(weekID)
			assert.False(t, ok, "expected %q to be rejected", weekID)
		}
	})
}

func TestWeek1Monday(t *testing.T) {
	t.Run("2024 week 1 starts January 1st", func(t *testing.T) {
		monday := Week1Monday(2024)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), monday)
		assert.Equal(t, time.Monday, monday.Weekday())
	})

	t.Run("2021 week 1 starts January 4th", func(t *testing.T) {
		monday := Week1Monday(2021)
		assert.Equal(t, time.Date(2021, 1, 4, 0, 0, 0, 0, time.UTC), monday)
	})

	t.Run("2020 week 1 starts December 30th 2019", func(t *testing.T) {
		monday := Week1Monday(2020)
		assert.Equal(t, time.Date(2019, 12, 30, 0, 0, 0, 0, time.UTC), monday)
	})
}

func TestWeekDayDate(t *testing.T) {
	t.Run("Monday of 2024-W01 is January 1st", func(t *testing.T) {
		date := WeekDayDate("2024-W01", 0)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), date)
	})

	t.Run("Thursday of 2026-W02 resolves correctly", func(t *testing.T) {
		date := WeekDayDate("2026-W02", 3)
		assert.Equal(t, time.Date(2026, 1, 8, 0, 0, 0, 0, time.UTC), date)
		assert.Equal(t, time.Thursday, date.Weekday())
	})

	t.Run("Sunday of 2020-W53 crosses the year boundary", func(t *testing.T) {
		date := WeekDayDate("2020-W53", 6)
		assert.Equal(t, time.Date(2021, 1, 3, 0, 0, 0, 0, time.UTC), date)
	})

	t.Run("Malformed identifier falls back to the current week", func(t *testing.T) {
		date := WeekDayDate("garbage", 0)
		year, week := time.Now().UTC().ISOWeek()
		assert.Equal(t, Week1Monday(year).AddDate(0, 0, (week-1)*7), date)
	})

	t.Run("Out-of-range day indexes are clamped", func(t *testing.T) {
		assert.Equal(t, WeekDayDate("2024-W10", 0), WeekDayDate("2024-W10", -5))
		assert.Equal(t, WeekDayDate("2024-W10", 6), WeekDayDate("2024-W10", 42))
	})

	t.Run("Every resolved date falls inside its own ISO week", func(t *testing.T) {
		for day := range 7 {
			date := WeekDayDate("2025-W30", day)
			year, week := date.ISOWeek()
			assert.Equal(t, 2025, year)
			assert.Equal(t, 30, week)
		}
	})
}

func TestNormalizeWeekID(t *testing.T) {
	t.Run("Valid identifiers pass through", func(t *testing.T) {
		assert.Equal(t, "2024-W07", NormalizeWeekID("2024-W07"))
	})

	t.Run("Malformed identifiers resolve to the current week", func(t *testing.T) {
		assert.Equal(t, CurrentWeekID(), NormalizeWeekID("not-a-week"))
		assert.Equal(t, CurrentWeekID(), NormalizeWeekID(""))
	})
}

func TestFormatWeekID(t *testing.T) {
	t.Run("Pads single-digit weeks", func(t *testing.T) {
		assert.Equal(t, "2024-W01", FormatWeekID(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("Late December can belong to next year's week 1", func(t *testing.T) {
		assert.Equal(t, "2026-W01", FormatWeekID(time.Date(2025, 12, 29, 0, 0, 0, 0, time.UTC)))
	})
}
