package services

import (
	"testing"

	. "mealweek/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int {
	return &i
}

func strPtr(s string) *string {
	return &s
}

func TestApplyDayRecipe(t *testing.T) {
	t.Run("Assigns a recipe to an empty day", func(t *testing.T) {
		days := ApplyDayRecipe(nil, 2, intPtr(5))
		require.Len(t, days, 1)
		assert.Equal(t, 2, days[0].DayID)
		assert.Equal(t, 5, *days[0].RecipeID)
	})

	t.Run("Replaces an existing free-text entry", func(t *testing.T) {
		days := []DayPlan{{DayID: 2, FreeText: strPtr("takeout")}}
		days = ApplyDayRecipe(days, 2, intPtr(5))
		require.Len(t, days, 1)
		assert.Nil(t, days[0].FreeText)
		assert.Equal(t, 5, *days[0].RecipeID)
	})

	t.Run("A nil recipe id clears the day", func(t *testing.T) {
		days := []DayPlan{{DayID: 2, RecipeID: intPtr(5)}}
		days = ApplyDayRecipe(days, 2, nil)
		assert.Empty(t, days)
	})

	t.Run("Other days are untouched and the result stays sorted", func(t *testing.T) {
		days := []DayPlan{
			{DayID: 4, RecipeID: intPtr(9)},
			{DayID: 0, FreeText: strPtr("soup night")},
		}
		days = ApplyDayRecipe(days, 2, intPtr(5))
		require.Len(t, days, 3)
		assert.Equal(t, 0, days[0].DayID)
		assert.Equal(t, 2, days[1].DayID)
		assert.Equal(t, 4, days[2].DayID)
	})
}

func TestApplyDayFreeText(t *testing.T) {
	t.Run("Assigns trimmed text", func(t *testing.T) {
		days := ApplyDayFreeText(nil, 3, "  pizza night  ")
		require.Len(t, days, 1)
		assert.Equal(t, "pizza night", *days[0].FreeText)
		assert.Nil(t, days[0].RecipeID)
	})

	t.Run("Replaces an existing recipe assignment", func(t *testing.T) {
		days := []DayPlan{{DayID: 3, RecipeID: intPtr(5)}}
		days = ApplyDayFreeText(days, 3, "leftovers")
		require.Len(t, days, 1)
		assert.Nil(t, days[0].RecipeID)
		assert.Equal(t, "leftovers", *days[0].FreeText)
	})

	t.Run("Empty text clears the day", func(t *testing.T) {
		days := []DayPlan{{DayID: 3, RecipeID: intPtr(5)}}
		days = ApplyDayFreeText(days, 3, "")
		assert.Empty(t, days)
	})

	t.Run("Whitespace-only text behaves like a clear", func(t *testing.T) {
		days := []DayPlan{{DayID: 3, FreeText: strPtr("old")}}
		days = ApplyDayFreeText(days, 3, "   \n  ")
		assert.Empty(t, days)
	})
}

func TestToggleActiveDay(t *testing.T) {
	t.Run("Removes a present day", func(t *testing.T) {
		assert.Equal(t, []int{0, 2}, ToggleActiveDay([]int{0, 1, 2}, 1))
	})

	t.Run("Adds an absent day in sorted position", func(t *testing.T) {
		assert.Equal(t, []int{0, 3, 5}, ToggleActiveDay([]int{0, 5}, 3))
	})

	t.Run("Double toggle restores the original set", func(t *testing.T) {
		original := []int{1, 3, 5}
		assert.Equal(t, original, ToggleActiveDay(ToggleActiveDay(original, 3), 3))
		assert.Equal(t, original, ToggleActiveDay(ToggleActiveDay(original, 6), 6))
	})

	t.Run("Toggling off the last active day leaves an empty set", func(t *testing.T) {
		assert.Empty(t, ToggleActiveDay([]int{4}, 4))
	})
}
