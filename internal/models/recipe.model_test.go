package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCategory(t *testing.T) {
	assert.Equal(t, CategoryFish, NormalizeCategory("fish"))
	assert.Equal(t, CategoryOther, NormalizeCategory("dessert"))
	assert.Equal(t, CategoryOther, NormalizeCategory(""))
	assert.Equal(t, CategoryOther, NormalizeCategory("Meat"))
}

func TestScaledIngredients(t *testing.T) {
	recipe := &Recipe{
		BaseServings: 4,
		Ingredients: []Ingredient{
			{Name: "flour", Quantity: decimal.RequireFromString("500"), Unit: "g"},
			{Name: "milk", Quantity: decimal.RequireFromString("0.3"), Unit: "l"},
		},
	}

	t.Run("Scales up exactly", func(t *testing.T) {
		scaled := recipe.ScaledIngredients(6)
		require.Len(t, scaled, 2)
		assert.True(t, decimal.RequireFromString("750").Equal(scaled[0].Quantity))
		assert.True(t, decimal.RequireFromString("0.45").Equal(scaled[1].Quantity))
	})

	t.Run("Scales down exactly", func(t *testing.T) {
		scaled := recipe.ScaledIngredients(2)
		assert.True(t, decimal.RequireFromString("250").Equal(scaled[0].Quantity))
	})

	t.Run("Base servings returns ingredients unchanged", func(t *testing.T) {
		scaled := recipe.ScaledIngredients(4)
		assert.True(t, recipe.Ingredients[0].Quantity.Equal(scaled[0].Quantity))
	})

	t.Run("Non-positive servings fall back to the base quantities", func(t *testing.T) {
		scaled := recipe.ScaledIngredients(0)
		assert.True(t, recipe.Ingredients[0].Quantity.Equal(scaled[0].Quantity))
	})

	t.Run("Original ingredients are not mutated", func(t *testing.T) {
		_ = recipe.ScaledIngredients(8)
		assert.True(t, decimal.RequireFromString("500").Equal(recipe.Ingredients[0].Quantity))
	})
}

func TestMarkCooked(t *testing.T) {
	day := func(value string) time.Time {
		parsed, err := time.Parse("2006-01-02", value)
		require.NoError(t, err)
		return parsed
	}

	t.Run("Sets the date on a never-cooked recipe", func(t *testing.T) {
		recipe := &Recipe{}
		assert.True(t, recipe.MarkCooked(day("2025-03-10")))
		assert.Equal(t, day("2025-03-10"), *recipe.LastCooked)
	})

	t.Run("A later date advances the stamp", func(t *testing.T) {
		recipe := &Recipe{}
		recipe.MarkCooked(day("2025-03-10"))
		assert.True(t, recipe.MarkCooked(day("2025-03-14")))
		assert.Equal(t, day("2025-03-14"), *recipe.LastCooked)
	})

	t.Run("An earlier date never overwrites a later one", func(t *testing.T) {
		recipe := &Recipe{}
		recipe.MarkCooked(day("2025-03-14"))
		assert.False(t, recipe.MarkCooked(day("2025-03-10")))
		assert.Equal(t, day("2025-03-14"), *recipe.LastCooked)
	})

	t.Run("The same date is a no-op", func(t *testing.T) {
		recipe := &Recipe{}
		recipe.MarkCooked(day("2025-03-14"))
		assert.False(t, recipe.MarkCooked(day("2025-03-14")))
	})
}
