package services

import (
	"context"

	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/logger"
	. "mealweek/internal/models"
	"mealweek/internal/repositories"
	"mealweek/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlanService applies single-day edits and active-day toggles to week plans.
// Only the addressed day (or the active set) is ever touched; everything
// else in the plan is preserved as-is.
type PlanService struct {
	weekPlanRepo repositories.WeekPlanRepository
	eventBus     *events.EventBus
	db           database.DB
	log          logger.Logger
}

func NewPlanService(
	repos repositories.Repository,
	db database.DB,
	eventBus *events.EventBus,
) *PlanService {
	return &PlanService{
		weekPlanRepo: repos.WeekPlan,
		eventBus:     eventBus,
		db:           db,
		log:          logger.New("planService"),
	}
}

// ApplyDayRecipe upserts a recipe assignment for one day, clearing any free
// text. A nil recipe id clears the day entirely.
func ApplyDayRecipe(days []DayPlan, dayID int, recipeID *int) []DayPlan {
	return upsertDay(days, DayPlan{DayID: dayID, RecipeID: recipeID})
}

// ApplyDayFreeText upserts a free-text entry for one day, clearing any
// recipe reference. Text is trimmed; an empty result clears the day, so an
// empty save behaves exactly like an explicit clear.
func ApplyDayFreeText(days []DayPlan, dayID int, text string) []DayPlan {
	cleaned := utils.CleanFreeText(text)
	entry := DayPlan{DayID: dayID}
	if cleaned != "" {
		entry.FreeText = &cleaned
	}
	return upsertDay(days, entry)
}

func upsertDay(days []DayPlan, entry DayPlan) []DayPlan {
	result := make([]DayPlan, 0, len(days)+1)
	for _, day := range days {
		if day.DayID != entry.DayID {
			result = append(result, day)
		}
	}
	if entry.IsAssigned() {
		result = append(result, entry)
	}
	return NormalizeDays(result)
}

// ToggleActiveDay flips one day's membership in the active set and
// normalizes the result. Day entries are never dropped by a toggle, so a
// deactivated day keeps its assignment dormant.
func ToggleActiveDay(activeDays []int, dayID int) []int {
	toggled := make([]int, 0, len(activeDays)+1)
	removed := false
	for _, day := range activeDays {
		if day == dayID {
			removed = true
			continue
		}
		toggled = append(toggled, day)
	}
	if !removed {
		toggled = append(toggled, dayID)
	}

	return NormalizeActiveDays(toggled)
}

// GetWeek returns the user's plan for the week, or a fresh default plan if
// none is stored yet. The default is not persisted until first mutation.
func (s *PlanService) GetWeek(ctx context.Context, user *User, weekID string) (*WeekPlan, error) {
	log := s.log.Function("GetWeek")

	weekID = utils.NormalizeWeekID(weekID)

	plan, err := s.weekPlanRepo.GetByWeekID(ctx, s.db.SQLWithContext(ctx), user.ID, weekID)
	if err != nil {
		if err == repositories.ErrWeekPlanNotFound {
			return NewWeekPlan(user.ID, weekID), nil
		}
		return nil, log.Err("failed to load week plan", err, "userID", user.ID, "weekID", weekID)
	}

	return plan, nil
}

// GetRecentWeeks lists the user's most recently planned weeks.
func (s *PlanService) GetRecentWeeks(ctx context.Context, user *User, limit int) ([]*WeekPlan, error) {
	log := s.log.Function("GetRecentWeeks")

	if limit <= 0 || limit > 52 {
		limit = 12
	}

	plans, err := s.weekPlanRepo.GetRecent(ctx, s.db.SQLWithContext(ctx), user.ID, limit)
	if err != nil {
		return nil, log.Err("failed to list recent week plans", err, "userID", user.ID)
	}

	return plans, nil
}

// SetDayRecipe assigns a catalog recipe (or clears the day when recipeID is
// nil), creating the week plan if it does not exist yet.
func (s *PlanService) SetDayRecipe(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	recipeID *int,
	sessionID string,
) (*WeekPlan, error) {
	log := s.log.Function("SetDayRecipe")

	plan, err := s.GetWeek(ctx, user, weekID)
	if err != nil {
		return nil, err
	}

	plan.Days = ApplyDayRecipe(plan.Days, dayID, recipeID)

	if err := s.savePlan(ctx, user.ID, sessionID, plan); err != nil {
		return nil, err
	}

	log.Info("set day recipe", "userID", user.ID, "weekID", plan.WeekID, "dayID", dayID)
	return plan, nil
}

// SetDayFreeText assigns free text to a day. Empty text clears the day.
func (s *PlanService) SetDayFreeText(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	text string,
	sessionID string,
) (*WeekPlan, error) {
	log := s.log.Function("SetDayFreeText")

	plan, err := s.GetWeek(ctx, user, weekID)
	if err != nil {
		return nil, err
	}

	plan.Days = ApplyDayFreeText(plan.Days, dayID, text)

	if err := s.savePlan(ctx, user.ID, sessionID, plan); err != nil {
		return nil, err
	}

	log.Info("set day free text", "userID", user.ID, "weekID", plan.WeekID, "dayID", dayID)
	return plan, nil
}

// ToggleActive flips one day in the week's active set and persists
// immediately. Day entries are untouched.
func (s *PlanService) ToggleActive(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	sessionID string,
) (*WeekPlan, error) {
	log := s.log.Function("ToggleActive")

	plan, err := s.GetWeek(ctx, user, weekID)
	if err != nil {
		return nil, err
	}

	plan.ActiveDays = ToggleActiveDay(plan.ActiveDays, dayID)

	if err := s.savePlan(ctx, user.ID, sessionID, plan); err != nil {
		return nil, err
	}

	log.Info("toggled active day", "userID", user.ID, "weekID", plan.WeekID, "dayID", dayID)
	return plan, nil
}

func (s *PlanService) savePlan(
	ctx context.Context,
	userID uuid.UUID,
	sessionID string,
	plan *WeekPlan,
) error {
	log := s.log.Function("savePlan")

	err := s.db.SQL.Transaction(func(tx *gorm.DB) error {
		return s.weekPlanRepo.Save(ctx, tx, plan)
	})
	if err != nil {
		return log.Err("failed to save week plan", err, "userID", userID, "weekID", plan.WeekID)
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishEntityChange(
			events.WEEK_PLAN_CHANNEL,
			events.WEEK_PLAN_CHANGED,
			userID,
			sessionID,
			map[string]any{"weekId": plan.WeekID},
		); err != nil {
			log.Warn("failed to publish week plan change", "userID", userID, "error", err)
		}
	}

	return nil
}
