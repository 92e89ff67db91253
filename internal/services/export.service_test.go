package services

import (
	"strings"
	"testing"
	"time"

	. "mealweek/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2025-W10 runs Monday March 3rd through Sunday March 9th.
const exportTestWeek = "2025-W10"

func exportTestDate(dayID int) time.Time {
	return time.Date(2025, 3, 3+dayID, 0, 0, 0, 0, time.UTC)
}

func TestBuildCookedUpdates(t *testing.T) {
	t.Run("One update per distinct recipe on active days", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.Days = []DayPlan{
			{DayID: 1, RecipeID: intPtr(7)},
			{DayID: 2, RecipeID: intPtr(9)},
			{DayID: 3, FreeText: strPtr("takeout")},
		}

		updates := BuildCookedUpdates(plan)
		require.Len(t, updates, 2)
		assert.Equal(t, 7, updates[0].RecipeID)
		assert.Equal(t, exportTestDate(1), updates[0].Date)
		assert.Equal(t, 9, updates[1].RecipeID)
		assert.Equal(t, exportTestDate(2), updates[1].Date)
	})

	t.Run("A recipe on several days keeps only the latest date", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.Days = []DayPlan{
			{DayID: 1, RecipeID: intPtr(7)},
			{DayID: 4, RecipeID: intPtr(7)},
		}

		updates := BuildCookedUpdates(plan)
		require.Len(t, updates, 1)
		assert.Equal(t, 7, updates[0].RecipeID)
		assert.Equal(t, exportTestDate(4), updates[0].Date)
	})

	t.Run("Inactive days contribute nothing", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.ActiveDays = []int{0, 1}
		plan.Days = []DayPlan{
			{DayID: 1, RecipeID: intPtr(7)},
			{DayID: 5, RecipeID: intPtr(11)},
		}

		updates := BuildCookedUpdates(plan)
		require.Len(t, updates, 1)
		assert.Equal(t, 7, updates[0].RecipeID)
	})

	t.Run("An empty plan yields no updates", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		assert.Empty(t, BuildCookedUpdates(plan))
	})
}

func TestBuildCalendar(t *testing.T) {
	source := "family cookbook p. 12"
	recipes := map[int]*Recipe{
		7: {BaseModel: BaseModel{ID: 7}, Name: "Roast Chicken", Category: CategoryPoultry, Source: &source},
		9: {BaseModel: BaseModel{ID: 9}, Name: "Mac & Cheese; spicy, hot", Category: CategoryPasta},
	}

	t.Run("A week with no eligible days produces nothing", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		content, count := BuildCalendar(plan, recipes)
		assert.Empty(t, content)
		assert.Zero(t, count)
	})

	t.Run("Inactive and unassigned days are skipped", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.ActiveDays = []int{0, 1}
		plan.Days = []DayPlan{
			{DayID: 0, RecipeID: intPtr(7)},
			{DayID: 5, RecipeID: intPtr(9)},
		}

		_, count := BuildCalendar(plan, recipes)
		assert.Equal(t, 1, count)
	})

	t.Run("Renders a complete document", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.Days = []DayPlan{
			{DayID: 0, RecipeID: intPtr(7)},
			{DayID: 2, FreeText: strPtr("pizza night")},
		}

		content, count := BuildCalendar(plan, recipes)
		require.Equal(t, 2, count)

		assert.True(t, strings.HasPrefix(content, "BEGIN:VCALENDAR\r\n"))
		assert.True(t, strings.HasSuffix(content, "END:VCALENDAR\r\n"))
		assert.Contains(t, content, "VERSION:2.0\r\n")
		assert.Equal(t, 2, strings.Count(content, "BEGIN:VEVENT"))

		assert.Contains(t, content, "UID:2025-W10-0-7@mealweek\r\n")
		assert.Contains(t, content, "DTSTART:20250303T180000\r\n")
		assert.Contains(t, content, "DTEND:20250303T190000\r\n")
		assert.Contains(t, content, "SUMMARY:Roast Chicken\r\n")
		assert.Contains(t, content, "DESCRIPTION:family cookbook p. 12\r\n")

		assert.Contains(t, content, "UID:2025-W10-2-text@mealweek\r\n")
		assert.Contains(t, content, "SUMMARY:pizza night\r\n")
	})

	t.Run("Escapes reserved calendar characters", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.Days = []DayPlan{{DayID: 0, RecipeID: intPtr(9)}}

		content, _ := BuildCalendar(plan, recipes)
		assert.Contains(t, content, `SUMMARY:Mac & Cheese\; spicy\, hot`)
	})

	t.Run("A deleted recipe falls back to the generic title", func(t *testing.T) {
		plan := NewWeekPlan(uuid.New(), exportTestWeek)
		plan.Days = []DayPlan{{DayID: 0, RecipeID: intPtr(999)}}

		content, count := BuildCalendar(plan, recipes)
		require.Equal(t, 1, count)
		assert.Contains(t, content, "SUMMARY:Dinner\r\n")
		assert.Contains(t, content, "UID:2025-W10-0-999@mealweek\r\n")
		assert.NotContains(t, content, "DESCRIPTION:")
	})
}

func TestEscapeCalendarText(t *testing.T) {
	assert.Equal(t, `a\\b`, escapeCalendarText(`a\b`))
	assert.Equal(t, `a\;b\,c`, escapeCalendarText("a;b,c"))
	assert.Equal(t, `line one\nline two`, escapeCalendarText("line one\nline two"))
	assert.Equal(t, `line one\nline two`, escapeCalendarText("line one\r\nline two"))
}

func TestCalendarFilename(t *testing.T) {
	assert.Equal(t, "meal-plan-2025-W10.ics", CalendarFilename(exportTestWeek))
}
