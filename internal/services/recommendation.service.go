package services

import (
	"context"
	"math/rand"
	"sort"
	"time"

	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/logger"
	. "mealweek/internal/models"
	"mealweek/internal/repositories"
	"mealweek/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scoring tunables. The ratios matter more than the absolute values: a
// repeated recipe is effectively disqualified, a repeated category is heavily
// deprioritized, and freshness adds up to a month's worth of bonus.
const (
	baseScore           = 100
	usedRecipePenalty   = 95
	usedCategoryPenalty = 80
	neverCookedBonus    = 20
	freshnessBonusCap   = 30
	minScore            = 1
)

type RecommendationService struct {
	recipeRepo   repositories.RecipeRepository
	weekPlanRepo repositories.WeekPlanRepository
	eventBus     *events.EventBus
	db           database.DB
	log          logger.Logger
}

func NewRecommendationService(
	repos repositories.Repository,
	db database.DB,
	eventBus *events.EventBus,
) *RecommendationService {
	return &RecommendationService{
		recipeRepo:   repos.Recipe,
		weekPlanRepo: repos.WeekPlan,
		eventBus:     eventBus,
		db:           db,
		log:          logger.New("recommendationService"),
	}
}

// usedSets tracks the recipe ids and categories already consumed elsewhere
// in the week so the picker can bias away from duplicates.
type usedSets struct {
	ids        map[int]bool
	categories map[RecipeCategory]bool
}

func newUsedSets() usedSets {
	return usedSets{
		ids:        make(map[int]bool),
		categories: make(map[RecipeCategory]bool),
	}
}

func (u usedSets) add(recipe *Recipe) {
	u.ids[recipe.ID] = true
	u.categories[recipe.Category] = true
}

func (u usedSets) addDay(day DayPlan, recipesByID map[int]*Recipe) {
	if day.RecipeID == nil {
		return
	}
	if recipe, ok := recipesByID[*day.RecipeID]; ok {
		u.add(recipe)
	} else {
		// Recipe was deleted from the catalog; its id still blocks reuse.
		u.ids[*day.RecipeID] = true
	}
}

// collectUsedSets builds the used sets from every day the skip predicate
// does not exclude.
func collectUsedSets(days []DayPlan, recipesByID map[int]*Recipe, skip func(dayID int) bool) usedSets {
	used := newUsedSets()
	for _, day := range days {
		if skip != nil && skip(day.DayID) {
			continue
		}
		used.addDay(day, recipesByID)
	}
	return used
}

func recipesByID(recipes []*Recipe) map[int]*Recipe {
	byID := make(map[int]*Recipe, len(recipes))
	for _, recipe := range recipes {
		byID[recipe.ID] = recipe
	}
	return byID
}

// scoreRecipe rates one candidate against the week's used sets. Scores are
// clamped positive so every recipe stays eligible when nothing better exists.
func scoreRecipe(recipe *Recipe, used usedSets, now time.Time) int {
	score := baseScore

	if used.ids[recipe.ID] {
		score -= usedRecipePenalty
	}

	if used.categories[recipe.Category] {
		score -= usedCategoryPenalty
	}

	if recipe.LastCooked == nil {
		score += neverCookedBonus
	} else {
		daysSince := int(now.Sub(*recipe.LastCooked).Hours() / 24)
		if daysSince < 0 {
			daysSince = 0
		}
		score += min(daysSince, freshnessBonusCap)
	}

	return max(score, minScore)
}

type scoredRecipe struct {
	recipe *Recipe
	score  int
}

// pickRecipe scores every candidate, keeps the top 20% (at least one), and
// chooses uniformly within that slice. Pure argmax would be predictable
// across repeated randomizations; uniform over everything would ignore the
// freshness signal.
func pickRecipe(recipes []*Recipe, used usedSets, now time.Time) *Recipe {
	if len(recipes) == 0 {
		return nil
	}

	scored := make([]scoredRecipe, 0, len(recipes))
	for _, recipe := range recipes {
		scored = append(scored, scoredRecipe{
			recipe: recipe,
			score:  scoreRecipe(recipe, used, now),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	topSlice := (len(scored) + 4) / 5
	if topSlice < 1 {
		topSlice = 1
	}

	return scored[rand.Intn(topSlice)].recipe
}

// RandomizeWeekDays fills every active day of the plan with a scored-random
// pick, preserving inactive days untouched. The used sets start from the
// inactive days' assignments and grow with each pick so diversity is
// enforced day by day. Returns the replacement day collection.
func RandomizeWeekDays(recipes []*Recipe, plan *WeekPlan, now time.Time) []DayPlan {
	if len(recipes) == 0 {
		return plan.Days
	}

	byID := recipesByID(recipes)

	active := make(map[int]bool, len(plan.ActiveDays))
	for _, day := range plan.ActiveDays {
		active[day] = true
	}

	used := collectUsedSets(plan.Days, byID, func(dayID int) bool {
		return active[dayID]
	})

	merged := make([]DayPlan, 0, DaysPerWeek)
	for _, day := range plan.Days {
		if !active[day.DayID] {
			merged = append(merged, day)
		}
	}

	for _, dayID := range plan.ActiveDays {
		recipe := pickRecipe(recipes, used, now)
		if recipe == nil {
			continue
		}
		used.add(recipe)

		id := recipe.ID
		merged = append(merged, DayPlan{DayID: dayID, RecipeID: &id})
	}

	return NormalizeDays(merged)
}

// RandomizeSingleDay reassigns one day with a scored-random pick. The target
// day's own current assignment does not count against it; every other day
// does. All other days are left untouched.
func RandomizeSingleDay(recipes []*Recipe, plan *WeekPlan, dayID int, now time.Time) ([]DayPlan, bool) {
	if len(recipes) == 0 || dayID < 0 || dayID >= DaysPerWeek {
		return plan.Days, false
	}

	byID := recipesByID(recipes)
	used := collectUsedSets(plan.Days, byID, func(d int) bool {
		return d == dayID
	})

	recipe := pickRecipe(recipes, used, now)
	if recipe == nil {
		return plan.Days, false
	}

	id := recipe.ID
	replaced := false
	days := make([]DayPlan, 0, len(plan.Days)+1)
	for _, day := range plan.Days {
		if day.DayID == dayID {
			days = append(days, DayPlan{DayID: dayID, RecipeID: &id})
			replaced = true
		} else {
			days = append(days, day)
		}
	}
	if !replaced {
		days = append(days, DayPlan{DayID: dayID, RecipeID: &id})
	}

	return NormalizeDays(days), true
}

// RandomizeWeek replaces every active day of the user's plan for the given
// week with fresh picks and persists the result. An empty catalog is a
// no-op, never an error.
func (s *RecommendationService) RandomizeWeek(
	ctx context.Context,
	user *User,
	weekID string,
	sessionID string,
) (*WeekPlan, error) {
	log := s.log.Function("RandomizeWeek")

	weekID = utils.NormalizeWeekID(weekID)

	recipes, err := s.recipeRepo.GetUserRecipes(ctx, s.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return nil, log.Err("failed to get user recipes", err, "userID", user.ID)
	}

	plan, err := s.loadOrCreatePlan(ctx, user.ID, weekID)
	if err != nil {
		return nil, err
	}

	if len(recipes) == 0 {
		log.Info("no recipes in catalog, leaving plan unchanged", "userID", user.ID, "weekID", weekID)
		return plan, nil
	}

	plan.Days = RandomizeWeekDays(recipes, plan, time.Now().UTC())

	if err := s.savePlan(ctx, user.ID, sessionID, plan); err != nil {
		return nil, err
	}

	log.Info("randomized week", "userID", user.ID, "weekID", weekID, "assignedDays", len(plan.ActiveDays))
	return plan, nil
}

// RandomizeDay reassigns a single day of the user's plan.
func (s *RecommendationService) RandomizeDay(
	ctx context.Context,
	user *User,
	weekID string,
	dayID int,
	sessionID string,
) (*WeekPlan, error) {
	log := s.log.Function("RandomizeDay")

	weekID = utils.NormalizeWeekID(weekID)

	recipes, err := s.recipeRepo.GetUserRecipes(ctx, s.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return nil, log.Err("failed to get user recipes", err, "userID", user.ID)
	}

	plan, err := s.loadOrCreatePlan(ctx, user.ID, weekID)
	if err != nil {
		return nil, err
	}

	days, changed := RandomizeSingleDay(recipes, plan, dayID, time.Now().UTC())
	if !changed {
		log.Info("no candidate for day, leaving plan unchanged", "userID", user.ID, "weekID", weekID, "dayID", dayID)
		return plan, nil
	}

	plan.Days = days

	if err := s.savePlan(ctx, user.ID, sessionID, plan); err != nil {
		return nil, err
	}

	log.Info("randomized day", "userID", user.ID, "weekID", weekID, "dayID", dayID)
	return plan, nil
}

// SeedWeekIfAbsent pre-fills a week for the auto-plan job. Existing plans
// are never overwritten.
func (s *RecommendationService) SeedWeekIfAbsent(
	ctx context.Context,
	user *User,
	weekID string,
) error {
	log := s.log.Function("SeedWeekIfAbsent")

	weekID = utils.NormalizeWeekID(weekID)

	_, err := s.weekPlanRepo.GetByWeekID(ctx, s.db.SQLWithContext(ctx), user.ID, weekID)
	if err == nil {
		return nil
	}
	if err != repositories.ErrWeekPlanNotFound {
		return log.Err("failed to check for existing week plan", err, "userID", user.ID, "weekID", weekID)
	}

	if _, err := s.RandomizeWeek(ctx, user, weekID, ""); err != nil {
		return log.Err("failed to seed week plan", err, "userID", user.ID, "weekID", weekID)
	}

	if s.eventBus != nil {
		if err := s.eventBus.PublishEntityChange(
			events.WEEK_PLAN_CHANNEL,
			events.WEEK_PLAN_SEEDED,
			user.ID,
			"",
			map[string]any{"weekId": weekID},
		); err != nil {
			log.Warn("failed to publish seed event", "userID", user.ID, "error", err)
		}
	}

	return nil
}

func (s *RecommendationService) loadOrCreatePlan(
	ctx context.Context,
	userID uuid.UUID,
	weekID string,
) (*WeekPlan, error) {
	log := s.log.Function("loadOrCreatePlan")

	plan, err := s.weekPlanRepo.GetByWeekID(ctx, s.db.SQLWithContext(ctx), userID, weekID)
	if err != nil {
		if err == repositories.ErrWeekPlanNotFound {
			return NewWeekPlan(userID, weekID), nil
		}
		return nil, log.Err("failed to load week plan", err, "userID", userID, "weekID", weekID)
	}

	return plan, nil
}

func (s *RecommendationService) savePlan(
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
