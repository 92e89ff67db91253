package services

import (
	"context"
	"fmt"
	"strings"

	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/logger"
	. "mealweek/internal/models"
	"mealweek/internal/repositories"
	"mealweek/internal/utils"

	"gorm.io/gorm"
)

// Dinner slot exported for every planned day: a fixed one-hour window in
// local wall-clock time.
const (
	dinnerStartHour = 18
	dinnerEndHour   = 19

	calendarProdID     = "-//mealweek//meal planner//EN"
	fallbackEventTitle = "Dinner"
)

// ExportService turns a finalized week plan into calendar content and
// cooked-date updates for the catalog.
type ExportService struct {
	recipeRepo   repositories.RecipeRepository
	weekPlanRepo repositories.WeekPlanRepository
	eventBus     *events.EventBus
	db           database.DB
	log          logger.Logger
}

func NewExportService(
	repos repositories.Repository,
	db database.DB,
	eventBus *events.EventBus,
) *ExportService {
	return &ExportService{
		recipeRepo:   repos.Recipe,
		weekPlanRepo: repos.WeekPlan,
		eventBus:     eventBus,
		db:           db,
		log:          logger.New("exportService"),
	}
}

// BuildCookedUpdates derives the mark-cooked batch from a plan: one entry
// per distinct recipe assigned to an active day, dated by the day's
// calendar date. A recipe on several days keeps only the latest date.
func BuildCookedUpdates(plan *WeekPlan) []CookedUpdate {
	latest := make(map[int]int) // recipeID -> latest dayID
	for _, day := range plan.Days {
		if day.RecipeID == nil || !plan.IsActiveDay(day.DayID) {
			continue
		}
		if existing, ok := latest[*day.RecipeID]; !ok || day.DayID > existing {
			latest[*day.RecipeID] = day.DayID
		}
	}

	updates := make([]CookedUpdate, 0, len(latest))
	for _, day := range plan.Days {
		if day.RecipeID == nil {
			continue
		}
		if dayID, ok := latest[*day.RecipeID]; ok && dayID == day.DayID {
			updates = append(updates, CookedUpdate{
				RecipeID: *day.RecipeID,
				Date:     utils.WeekDayDate(plan.WeekID, day.DayID),
			})
		}
	}

	return updates
}

// exportableDays filters the plan to days eligible for calendar export:
// active and carrying either a recipe or non-empty free text.
func exportableDays(plan *WeekPlan) []DayPlan {
	eligible := make([]DayPlan, 0, len(plan.Days))
	for _, day := range plan.Days {
		if plan.IsActiveDay(day.DayID) && day.IsAssigned() {
			eligible = append(eligible, day)
		}
	}
	return eligible
}

// BuildCalendar renders the plan as an iCalendar document. It returns the
// content and the number of events; zero events means nothing to export and
// the content should be discarded.
func BuildCalendar(plan *WeekPlan, recipes map[int]*Recipe) (string, int) {
	eligible := exportableDays(plan)
	if len(eligible) == 0 {
		return "", 0
	}

	var b strings.Builder
	writeLine := func(line string) {
		b.WriteString(line)
		b.WriteString("\r\n")
	}

	writeLine("BEGIN:VCALENDAR")
	writeLine("VERSION:2.0")
	writeLine("PRODID:" + calendarProdID)
	writeLine("CALSCALE:GREGORIAN")
	writeLine("METHOD:PUBLISH")

	for _, day := range eligible {
		date := utils.WeekDayDate(plan.WeekID, day.DayID)
		stamp := date.Format("20060102")

		title := fallbackEventTitle
		description := ""
		uidRef := "text"
		if day.RecipeID != nil {
			uidRef = fmt.Sprintf("%d", *day.RecipeID)
			if recipe, ok := recipes[*day.RecipeID]; ok {
				title = recipe.Name
				if recipe.Source != nil {
					description = *recipe.Source
				}
			}
		} else if day.FreeText != nil {
			title = *day.FreeText
		}

		writeLine("BEGIN:VEVENT")
		writeLine(fmt.Sprintf("UID:%s-%d-%s@mealweek", plan.WeekID, day.DayID, uidRef))
		writeLine(fmt.Sprintf("DTSTAMP:%sT000000Z", stamp))
		writeLine(fmt.Sprintf("DTSTART:%sT%02d0000", stamp, dinnerStartHour))
		writeLine(fmt.Sprintf("DTEND:%sT%02d0000", stamp, dinnerEndHour))
		writeLine("SUMMARY:" + escapeCalendarText(title))
		if description != "" {
			writeLine("DESCRIPTION:" + escapeCalendarText(description))
		}
		writeLine("END:VEVENT")
	}

	writeLine("END:VCALENDAR")

	return b.String(), len(eligible)
}

// CalendarFilename names the download for a week's export.
func CalendarFilename(weekID string) string {
	return fmt.Sprintf("meal-plan-%s.ics", weekID)
}

func escapeCalendarText(text string) string {
	replacer := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
	)
	return replacer.Replace(text)
}

// ExportWeek produces the calendar payload for a week. A week with no
// eligible days returns empty content and no error; the handler turns that
// into "nothing to export".
func (s *ExportService) ExportWeek(
	ctx context.Context,
	user *User,
	weekID string,
) (filename string, content string, err error) {
	log := s.log.Function("ExportWeek")

	weekID = utils.NormalizeWeekID(weekID)

	plan, err := s.weekPlanRepo.GetByWeekID(ctx, s.db.SQLWithContext(ctx), user.ID, weekID)
	if err != nil {
		if err == repositories.ErrWeekPlanNotFound {
			return "", "", nil
		}
		return "", "", log.Err("failed to load week plan", err, "userID", user.ID, "weekID", weekID)
	}

	recipes, err := s.recipeRepo.GetUserRecipes(ctx, s.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return "", "", log.Err("failed to load recipes", err, "userID", user.ID)
	}

	byID := make(map[int]*Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}

	calendar, eventCount := BuildCalendar(plan, byID)
	if eventCount == 0 {
		log.Info("no eligible days to export", "userID", user.ID, "weekID", weekID)
		return "", "", nil
	}

	log.Info("exported week", "userID", user.ID, "weekID", weekID, "events", eventCount)
	return CalendarFilename(weekID), calendar, nil
}

// MarkWeekCooked applies the plan's cooked-date batch to the catalog.
// Returns the applied updates.
func (s *ExportService) MarkWeekCooked(
	ctx context.Context,
	user *User,
	weekID string,
	sessionID string,
) ([]CookedUpdate, error) {
	log := s.log.Function("MarkWeekCooked")

	weekID = utils.NormalizeWeekID(weekID)

	plan, err := s.weekPlanRepo.GetByWeekID(ctx, s.db.SQLWithContext(ctx), user.ID, weekID)
	if err != nil {
		if err == repositories.ErrWeekPlanNotFound {
			return nil, nil
		}
		return nil, log.Err("failed to load week plan", err, "userID", user.ID, "weekID", weekID)
	}

	updates := BuildCookedUpdates(plan)
	if len(updates) == 0 {
		return nil, nil
	}

	err = s.db.SQL.Transaction(func(tx *gorm.DB) error {
		return s.recipeRepo.MarkCooked(ctx, tx, user.ID, updates)
	})
	if err != nil {
		return nil, log.Err("failed to apply cooked updates", err, "userID", user.ID, "weekID", weekID)
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishEntityChange(
			events.RECIPE_CHANNEL,
			events.RECIPES_CHANGED,
			user.ID,
			sessionID,
			map[string]any{"weekId": weekID, "count": len(updates)},
		); err != nil {
			log.Warn("failed to publish recipes change", "userID", user.ID, "error", err)
		}
	}

	log.Info("marked week cooked", "userID", user.ID, "weekID", weekID, "recipes", len(updates))
	return updates, nil
}
