package services

import (
	"testing"
	"time"

	. "mealweek/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecipe(id int, category RecipeCategory, lastCooked *time.Time) *Recipe {
	return &Recipe{
		BaseModel:    BaseModel{ID: id},
		Name:         "recipe",
		Category:     category,
		BaseServings: 4,
		LastCooked:   lastCooked,
	}
}

func daysAgo(now time.Time, days int) *time.Time {
	t := now.AddDate(0, 0, -days)
	return &t
}

func TestScoreRecipe(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Never-cooked recipes get the full bonus", func(t *testing.T) {
		score := scoreRecipe(testRecipe(1, CategoryPasta, nil), newUsedSets(), now)
		assert.Equal(t, baseScore+neverCookedBonus, score)
	})

	t.Run("Cooked today earns no freshness bonus", func(t *testing.T) {
		score := scoreRecipe(testRecipe(1, CategoryPasta, daysAgo(now, 0)), newUsedSets(), now)
		assert.Equal(t, baseScore, score)
	})

	t.Run("Freshness bonus is capped", func(t *testing.T) {
		score := scoreRecipe(testRecipe(1, CategoryPasta, daysAgo(now, 365)), newUsedSets(), now)
		assert.Equal(t, baseScore+freshnessBonusCap, score)
	})

	t.Run("A future cooked date counts as zero days", func(t *testing.T) {
		score := scoreRecipe(testRecipe(1, CategoryPasta, daysAgo(now, -3)), newUsedSets(), now)
		assert.Equal(t, baseScore, score)
	})

	t.Run("A repeated recipe always scores below a fresh one", func(t *testing.T) {
		used := newUsedSets()
		used.add(testRecipe(1, CategoryPasta, nil))

		repeated := scoreRecipe(testRecipe(1, CategoryFish, daysAgo(now, 365)), used, now)
		fresh := scoreRecipe(testRecipe(2, CategorySoup, daysAgo(now, 0)), used, now)
		assert.Less(t, repeated, fresh)
	})

	t.Run("A repeated category is penalized but less than a repeated recipe", func(t *testing.T) {
		used := newUsedSets()
		used.add(testRecipe(1, CategoryPasta, nil))

		sameCategory := scoreRecipe(testRecipe(2, CategoryPasta, nil), used, now)
		sameRecipe := scoreRecipe(testRecipe(1, CategoryFish, nil), used, now)
		assert.Greater(t, sameCategory, sameRecipe)
	})

	t.Run("Scores never drop below the floor", func(t *testing.T) {
		used := newUsedSets()
		used.add(testRecipe(1, CategoryPasta, nil))

		score := scoreRecipe(testRecipe(1, CategoryPasta, daysAgo(now, 0)), used, now)
		assert.Equal(t, minScore, score)
	})
}

func TestPickRecipe(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Empty candidate list yields nil", func(t *testing.T) {
		assert.Nil(t, pickRecipe(nil, newUsedSets(), now))
	})

	t.Run("A single candidate is always picked", func(t *testing.T) {
		recipe := testRecipe(1, CategoryPasta, nil)
		assert.Equal(t, recipe, pickRecipe([]*Recipe{recipe}, newUsedSets(), now))
	})

	t.Run("Five candidates reduce to the single best", func(t *testing.T) {
		// Top slice of five is one, so the never-cooked standout must win
		// every time.
		recipes := []*Recipe{
			testRecipe(1, CategoryPasta, daysAgo(now, 0)),
			testRecipe(2, CategoryFish, daysAgo(now, 0)),
			testRecipe(3, CategorySoup, daysAgo(now, 0)),
			testRecipe(4, CategoryPoultry, daysAgo(now, 0)),
			testRecipe(5, CategoryVegetarian, nil),
		}
		for range 25 {
			picked := pickRecipe(recipes, newUsedSets(), now)
			require.NotNil(t, picked)
			assert.Equal(t, 5, picked.ID)
		}
	})

	t.Run("Picks stay within the top fifth", func(t *testing.T) {
		// Ten candidates, two clearly ahead of the rest.
		recipes := make([]*Recipe, 0, 10)
		for id := 1; id <= 8; id++ {
			recipes = append(recipes, testRecipe(id, CategoryOther, daysAgo(now, 0)))
		}
		recipes = append(recipes,
			testRecipe(9, CategoryPasta, nil),
			testRecipe(10, CategoryFish, nil),
		)
		for range 25 {
			picked := pickRecipe(recipes, newUsedSets(), now)
			require.NotNil(t, picked)
			assert.Contains(t, []int{9, 10}, picked.ID)
		}
	})
}

func TestRandomizeWeekDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	catalog := func(size int) []*Recipe {
		recipes := make([]*Recipe, 0, size)
		for id := 1; id <= size; id++ {
			recipes = append(recipes, testRecipe(id, CategoryOther, nil))
		}
		return recipes
	}

	t.Run("Empty catalog leaves the plan untouched", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		plan.Days = []DayPlan{{DayID: 2, FreeText: strPtr("pizza")}}
		assert.Equal(t, []DayPlan(plan.Days), RandomizeWeekDays(nil, plan, now))
	})

	t.Run("Every active day gets an assignment", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		days := RandomizeWeekDays(catalog(20), plan, now)

		require.Len(t, days, DaysPerWeek)
		for i, day := range days {
			assert.Equal(t, i, day.DayID)
			assert.NotNil(t, day.RecipeID)
		}
	})

	t.Run("A large catalog yields no duplicate recipes", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		for range 10 {
			days := RandomizeWeekDays(catalog(20), plan, now)
			seen := make(map[int]bool)
			for _, day := range days {
				require.NotNil(t, day.RecipeID)
				assert.False(t, seen[*day.RecipeID], "recipe %d assigned twice", *day.RecipeID)
				seen[*day.RecipeID] = true
			}
		}
	})

	t.Run("Inactive days keep their assignments", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		plan.ActiveDays = []int{0, 1, 2}
		plan.Days = []DayPlan{
			{DayID: 5, RecipeID: intPtr(3)},
			{DayID: 6, FreeText: strPtr("eating out")},
		}

		days := RandomizeWeekDays(catalog(20), plan, now)
		require.Len(t, days, 5)

		byDay := make(map[int]DayPlan, len(days))
		for _, day := range days {
			byDay[day.DayID] = day
		}
		assert.Equal(t, 3, *byDay[5].RecipeID)
		assert.Equal(t, "eating out", *byDay[6].FreeText)
		for _, dayID := range []int{0, 1, 2} {
			assert.NotNil(t, byDay[dayID].RecipeID)
		}
	})

	t.Run("Inactive assignments count against reuse", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		plan.ActiveDays = []int{0}
		plan.Days = []DayPlan{{DayID: 6, RecipeID: intPtr(1)}}

		// Two recipes: the one parked on the inactive day must lose.
		recipes := []*Recipe{
			testRecipe(1, CategoryPasta, nil),
			testRecipe(2, CategoryFish, nil),
		}
		for range 10 {
			days := RandomizeWeekDays(recipes, plan, now)
			byDay := make(map[int]DayPlan, len(days))
			for _, day := range days {
				byDay[day.DayID] = day
			}
			assert.Equal(t, 2, *byDay[0].RecipeID)
		}
	})
}

func TestRandomizeSingleDay(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("Empty catalog reports no change", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		days, changed := RandomizeSingleDay(nil, plan, 0, now)
		assert.False(t, changed)
		assert.Equal(t, []DayPlan(plan.Days), days)
	})

	t.Run("Out-of-range day reports no change", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		recipes := []*Recipe{testRecipe(1, CategoryPasta, nil)}
		_, changed := RandomizeSingleDay(recipes, plan, 7, now)
		assert.False(t, changed)
	})

	t.Run("Other days are left untouched", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		plan.Days = []DayPlan{
			{DayID: 0, RecipeID: intPtr(1)},
			{DayID: 1, FreeText: strPtr("leftovers")},
		}

		recipes := []*Recipe{
			testRecipe(1, CategoryPasta, nil),
			testRecipe(2, CategoryFish, nil),
			testRecipe(3, CategorySoup, nil),
		}
		days, changed := RandomizeSingleDay(recipes, plan, 3, now)
		require.True(t, changed)
		require.Len(t, days, 3)
		assert.Equal(t, 1, *days[0].RecipeID)
		assert.Equal(t, "leftovers", *days[1].FreeText)
		assert.NotNil(t, days[2].RecipeID)
	})

	t.Run("The day's own assignment does not count against it", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		plan.Days = []DayPlan{{DayID: 2, RecipeID: intPtr(1)}}

		// Single-recipe catalog: re-rolling the day may pick the same
		// recipe again because only other days block reuse.
		recipes := []*Recipe{testRecipe(1, CategoryPasta, nil)}
		days, changed := RandomizeSingleDay(recipes, plan, 2, now)
		require.True(t, changed)
		require.Len(t, days, 1)
		assert.Equal(t, 1, *days[0].RecipeID)
	})

	t.Run("Assignments elsewhere steer the pick away", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), "2025-W20")
		plan.Days = []DayPlan{{DayID: 0, RecipeID: intPtr(1)}}

		recipes := []*Recipe{
			testRecipe(1, CategoryPasta, nil),
			testRecipe(2, CategoryFish, nil),
		}
		for range 10 {
			days, changed := RandomizeSingleDay(recipes, plan, 1, now)
			require.True(t, changed)
			byDay := make(map[int]DayPlan, len(days))
			for _, day := range days {
				byDay[day.DayID] = day
			}
			assert.Equal(t, 2, *byDay[1].RecipeID)
		}
	})
}
