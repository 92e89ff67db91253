package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func TestDayPlanNormalize(t *testing.T) {
	t.Run("Free text wins over a recipe reference", func(t *testing.T) {
		day := DayPlan{DayID: 2, RecipeID: intPtr(7), FreeText: strPtr("leftovers")}.Normalize()
		assert.Nil(t, day.RecipeID)
		assert.Equal(t, "leftovers", *day.FreeText)
	})

	t.Run("Whitespace-only text is treated as absent", func(t *testing.T) {
		day := DayPlan{DayID: 2, RecipeID: intPtr(7), FreeText: strPtr("   ")}.Normalize()
		assert.Nil(t, day.FreeText)
		assert.Equal(t, 7, *day.RecipeID)
	})

	t.Run("Text is trimmed", func(t *testing.T) {
		day := DayPlan{DayID: 0, FreeText: strPtr("  takeout  ")}.Normalize()
		assert.Equal(t, "takeout", *day.FreeText)
	})
}

func TestDayPlanIsAssigned(t *testing.T) {
	assert.True(t, DayPlan{DayID: 0, RecipeID: intPtr(1)}.IsAssigned())
	assert.True(t, DayPlan{DayID: 0, FreeText: strPtr("pizza night")}.IsAssigned())
	assert.False(t, DayPlan{DayID: 0}.IsAssigned())
	assert.False(t, DayPlan{DayID: 0, FreeText: strPtr("  ")}.IsAssigned())
}

func TestNormalizeActiveDays(t *testing.T) {
	t.Run("Nil defaults to the whole week", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, NormalizeActiveDays(nil))
	})

	t.Run("Explicitly empty stays empty", func(t *testing.T) {
		assert.Empty(t, NormalizeActiveDays([]int{}))
	})

	t.Run("Fully invalid input defaults to the whole week", func(t *testing.T) {
		assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, NormalizeActiveDays([]int{-1, 9, 42}))
	})

	t.Run("Drops out-of-range and duplicate entries, sorts the rest", func(t *testing.T) {
		assert.Equal(t, []int{1, 3, 5}, NormalizeActiveDays([]int{5, 3, 1, 3, 7, -2}))
	})
}

func TestNormalizeDays(t *testing.T) {
	t.Run("Drops out-of-range days and duplicates", func(t *testing.T) {
		days := NormalizeDays([]DayPlan{
			{DayID: 3, RecipeID: intPtr(1)},
			{DayID: 3, RecipeID: intPtr(2)},
			{DayID: 8, RecipeID: intPtr(3)},
			{DayID: -1, RecipeID: intPtr(4)},
			{DayID: 0, RecipeID: intPtr(5)},
		})
		assert.Len(t, days, 2)
		assert.Equal(t, 0, days[0].DayID)
		assert.Equal(t, 3, days[1].DayID)
		assert.Equal(t, 1, *days[1].RecipeID)
	})

	t.Run("Normalizes each entry", func(t *testing.T) {
		days := NormalizeDays([]DayPlan{
			{DayID: 1, RecipeID: intPtr(9), FreeText: strPtr("soup night")},
		})
		assert.Nil(t, days[0].RecipeID)
		assert.Equal(t, "soup night", *days[0].FreeText)
	})
}

func TestWeekPlanHelpers(t *testing.T) {
	plan := NewWeekPlan(uuid.New(), "2025-W10")

	t.Run("New plans activate every day", func(t *testing.T) {
		assert.Equal(t, AllWeekDays(), []int(plan.ActiveDays))
		assert.Empty(t, plan.Days)
	})

	t.Run("Day lookup", func(t *testing.T) {
		plan.Days = append(plan.Days, DayPlan{DayID: 4, RecipeID: intPtr(11)})
		day, found := plan.Day(4)
		assert.True(t, found)
		assert.Equal(t, 11, *day.RecipeID)

		_, found = plan.Day(5)
		assert.False(t, found)
	})

	t.Run("IsActiveDay", func(t *testing.T) {
		plan.ActiveDays = []int{0, 2}
		assert.True(t, plan.IsActiveDay(2))
		assert.False(t, plan.IsActiveDay(3))
	})
}
