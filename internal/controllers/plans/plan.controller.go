package planController

import (
	"context"
	"errors"

	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/logger"
	. "mealweek/internal/models"
	"mealweek/internal/repositories"
	"mealweek/internal/services"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrUnknownRecipe = errors.New("recipe not found in catalog")
)

// PlanController handles week plan reads, single-day edits, active-day
// toggles and randomization.
type PlanController struct {
	planService           *services.PlanService
	recommendationService *services.RecommendationService
	recipeRepo            repositories.RecipeRepository
	guards                *events.GuardSet
	db                    database.DB
	log                   logger.Logger
}

type PlanControllerInterface interface {
	GetWeek(ctx context.Context, user *User, weekID string) (*WeekPlan, error)
	GetRecentWeeks(ctx context.Context, user *User, limit int) ([]*WeekPlan, error)
	RandomizeWeek(ctx context.Context, user *User, weekID string, sessionID string) (*WeekPlan, error)
	RandomizeDay(ctx context.Context, user *User, weekID string, dayID int, sessionID string) (*WeekPlan, error)
	SetDayRecipe(ctx context.Context, user *User, weekID string, dayID int, recipeID *int, sessionID string) (*WeekPlan, error)
	SetDayFreeText(ctx context.Context, user *User, weekID string, dayID int, text string, sessionID string) (*WeekPlan, error)
	ToggleActiveDay(ctx context.Context, user *User, weekID string, dayID int, sessionID string) (*WeekPlan, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	guards *events.GuardSet,
	db database.DB,
) PlanControllerInterface {
	return &PlanController{
		planService:           services.Plan,
		recommendationService: services.Recommendation,
		recipeRepo:            repos.Recipe,
		guards:                guards,
		db:                    db,
		log:                   logger.New("planController"),
	}
}

func (c *PlanController) GetWeek(ctx context.Context, user *User, weekID string) (*WeekPlan, error) {
	return c.planService.GetWeek(ctx, user, weekID)
}

func (c *PlanController) GetRecentWeeks(ctx context.Context, user *User, limit int) ([]*WeekPlan, error) {
	return c.planService.GetRecentWeeks(ctx, user, limit)
}

func (c *PlanController) RandomizeWeek(
	ctx context.Context,
	user *User,
	weekID string,
	sessionID string,
) (*WeekPlan, error) {
	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	return c.recommendationService.RandomizeWeek(ctx, user, weekID, sessionID)
}

func (c *PlanController) RandomizeDay(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	sessionID string,
) (*WeekPlan, error) {
	if dayID < 0 || dayID >= DaysPerWeek {
		return nil, ErrValidation
	}

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	return c.recommendationService.RandomizeDay(ctx, user, weekID, dayID, sessionID)
}

func (c *PlanController) SetDayRecipe(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	recipeID *int,
	sessionID string,
) (*WeekPlan, error) {
	log := c.log.Function("SetDayRecipe")

	if dayID < 0 || dayID >= DaysPerWeek {
		return nil, ErrValidation
	}

	// Assignments must reference the user's own catalog; clears pass through.
	if recipeID != nil {
		if _, err := c.recipeRepo.GetByID(ctx, c.db.SQLWithContext(ctx), user.ID, *recipeID); err != nil {
			log.Info("assignment references unknown recipe", "userID", user.ID, "recipeID", *recipeID)
			return nil, ErrUnknownRecipe
		}
	}

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	return c.planService.SetDayRecipe(ctx, user, weekID, dayID, recipeID, sessionID)
}

func (c *PlanController) SetDayFreeText(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	text string,
	sessionID string,
) (*WeekPlan, error) {
	if dayID < 0 || dayID >= DaysPerWeek {
		return nil, ErrValidation
	}

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	return c.planService.SetDayFreeText(ctx, user, weekID, dayID, text, sessionID)
}

func (c *PlanController) ToggleActiveDay(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	sessionID string,
) (*WeekPlan, error) {
	if dayID < 0 || dayID >= DaysPerWeek {
		return nil, ErrValidation
	}

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	return c.planService.ToggleActive(ctx, user, weekID, dayID, sessionID)
}
