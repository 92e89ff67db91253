package models

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DaysPerWeek = 7

// DayPlan assigns a single day of a week either a catalog recipe or a
// free-text entry. The two are mutually exclusive; Normalize enforces it.
type DayPlan struct {
	DayID    int     `json:"dayId"`
	RecipeID *int    `json:"recipeId,omitempty"`
	FreeText *string `json:"freeText,omitempty"`
}

// Normalize resolves conflicting entries coming from external data. Free text
// wins over a recipe reference, matching the write path where saving text
// clears the recipe. Empty trimmed text is treated as absent.
func (d DayPlan) Normalize() DayPlan {
	if d.FreeText != nil {
		text := strings.TrimSpace(*d.FreeText)
		if text == "" {
			d.FreeText = nil
		} else {
			d.FreeText = &text
			d.RecipeID = nil
		}
	}
	return d
}

// IsAssigned reports whether the day carries either a recipe or free text.
func (d DayPlan) IsAssigned() bool {
	return d.RecipeID != nil || (d.FreeText != nil && strings.TrimSpace(*d.FreeText) != "")
}

// WeekPlan holds one user's assignments for one ISO week. Days and
// ActiveDays are stored as JSON list columns.
type WeekPlan struct {
	BaseUUIDModel
	UserID     uuid.UUID                    `gorm:"type:uuid;not null;uniqueIndex:idx_user_week,composite:0" json:"userId"`
	User       User                         `gorm:"foreignKey:UserID"                                        json:"-"`
	WeekID     string                       `gorm:"type:varchar(8);not null;uniqueIndex:idx_user_week,composite:1" json:"weekId"`
	Days       datatypes.JSONSlice[DayPlan] `gorm:"type:jsonb" json:"days"`
	ActiveDays datatypes.JSONSlice[int]     `gorm:"type:jsonb" json:"activeDays"`
}

// AllWeekDays returns 0..6, the default active set.
func AllWeekDays() []int {
	days := make([]int, DaysPerWeek)
	for i := range days {
		days[i] = i
	}
	return days
}

// NormalizeActiveDays coerces an untrusted active-day list into a sorted,
// de-duplicated subset of [0,6]. Absent or fully invalid input defaults to
// the whole week; an explicitly empty set stays empty (the user opted every
// day out).
func NormalizeActiveDays(days []int) []int {
	if days == nil {
		return AllWeekDays()
	}

	seen := make(map[int]bool, DaysPerWeek)
	normalized := make([]int, 0, DaysPerWeek)
	for _, day := range days {
		if day < 0 || day >= DaysPerWeek || seen[day] {
			continue
		}
		seen[day] = true
		normalized = append(normalized, day)
	}

	if len(days) > 0 && len(normalized) == 0 {
		return AllWeekDays()
	}

	sort.Ints(normalized)
	return normalized
}

// NormalizeDays drops out-of-range or duplicate day entries, resolves the
// recipe/free-text conflict per entry, and returns the result sorted by day.
func NormalizeDays(days []DayPlan) []DayPlan {
	seen := make(map[int]bool, DaysPerWeek)
	normalized := make([]DayPlan, 0, len(days))
	for _, day := range days {
		if day.DayID < 0 || day.DayID >= DaysPerWeek || seen[day.DayID] {
			continue
		}
		seen[day.DayID] = true
		normalized = append(normalized, day.Normalize())
	}

	sort.Slice(normalized, func(i, j int) bool {
		return normalized[i].DayID < normalized[j].DayID
	})
	return normalized
}

// Normalize returns the plan with its day and active-day collections cleaned
// up. External rows may not respect the invariants, so every read path goes
// through here.
func (w WeekPlan) Normalize() WeekPlan {
	w.Days = NormalizeDays(w.Days)
	w.ActiveDays = NormalizeActiveDays(w.ActiveDays)
	return w
}

// Day returns the plan entry for the given day, if present.
func (w *WeekPlan) Day(dayID int) (DayPlan, bool) {
	for _, day := range w.Days {
		if day.DayID == dayID {
			return day, true
		}
	}
	return DayPlan{}, false
}

// IsActiveDay reports whether the given day is in the active set.
func (w *WeekPlan) IsActiveDay(dayID int) bool {
	for _, day := range w.ActiveDays {
		if day == dayID {
			return true
		}
	}
	return false
}

// NewWeekPlan creates an empty plan for the given user and week with the
// default active-day set.
func NewWeekPlan(userID uuid.UUID, weekID string) *WeekPlan {
	return &WeekPlan{
		UserID:     userID,
		WeekID:     weekID,
		Days:       datatypes.NewJSONSlice([]DayPlan{}),
		ActiveDays: datatypes.NewJSONSlice(AllWeekDays()),
	}
}
