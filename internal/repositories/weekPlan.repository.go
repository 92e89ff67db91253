package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mealweek/internal/database"
	"mealweek/internal/logger"
	. "mealweek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WEEK_PLAN_CACHE_PREFIX = "week_plan"
	WEEK_PLAN_CACHE_EXPIRY = 12 * time.Hour
)

var ErrWeekPlanNotFound = errors.New("week plan not found")

type WeekPlanRepository interface {
	GetByWeekID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, weekID string) (*WeekPlan, error)
	GetRecent(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*WeekPlan, error)
	Save(ctx context.Context, tx *gorm.DB, plan *WeekPlan) error
	ClearWeekPlanCache(ctx context.Context, userID uuid.UUID, weekID string) error
}

type weekPlanRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewWeekPlanRepository(cache database.CacheClient) WeekPlanRepository {
	return &weekPlanRepository{
		cache: cache,
		log:   logger.New("weekPlanRepository"),
	}
}

func weekPlanCacheKey(userID uuid.UUID, weekID string) string {
	return fmt.Sprintf("%s:%s", userID.String(), weekID)
}

// GetByWeekID loads one user's plan for one ISO week. Plans are normalized
// on the way out because stored rows may predate the current invariants.
func (r *weekPlanRepository) GetByWeekID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	weekID string,
) (*WeekPlan, error) {
	log := r.log.Function("GetByWeekID")

	var cached WeekPlan
	found, err := database.NewCacheBuilder(r.cache, weekPlanCacheKey(userID, weekID)).
		WithContext(ctx).
		WithHash(WEEK_PLAN_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get week plan from cache", "userID", userID, "weekID", weekID, "error", err)
	}

	if found {
		normalized := cached.Normalize()
		return &normalized, nil
	}

	plan, err := gorm.G[WeekPlan](tx).
		Where(WeekPlan{UserID: userID, WeekID: weekID}).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWeekPlanNotFound
		}
		return nil, log.Err("failed to get week plan", err, "userID", userID, "weekID", weekID)
	}

	normalized := plan.Normalize()

	err = database.NewCacheBuilder(r.cache, weekPlanCacheKey(userID, weekID)).
		WithContext(ctx).
		WithHash(WEEK_PLAN_CACHE_PREFIX).
		WithStruct(normalized).
		WithTTL(WEEK_PLAN_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set week plan in cache", "userID", userID, "weekID", weekID, "error", err)
	}

	return &normalized, nil
}

func (r *weekPlanRepository) GetRecent(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	limit int,
) ([]*WeekPlan, error) {
	log := r.log.Function("GetRecent")

	plans, err := gorm.G[*WeekPlan](tx).
		Where(WeekPlan{UserID: userID}).
		Order("week_id DESC").
		Limit(limit).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get recent week plans", err, "userID", userID)
	}

	for i, plan := range plans {
		normalized := plan.Normalize()
		plans[i] = &normalized
	}

	return plans, nil
}

// Save upserts the plan row keyed by (user, week). The days and active-day
// collections are replaced wholesale, matching the merge-then-persist flow.
func (r *weekPlanRepository) Save(ctx context.Context, tx *gorm.DB, plan *WeekPlan) error {
	log := r.log.Function("Save")

	normalized := plan.Normalize()
	*plan = normalized

	if plan.ID == uuid.Nil {
		existing, err := gorm.G[WeekPlan](tx).
			Where(WeekPlan{UserID: plan.UserID, WeekID: plan.WeekID}).
			First(ctx)
		if err == nil {
			plan.ID = existing.ID
			plan.CreatedAt = existing.CreatedAt
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("failed to check existing week plan", err, "weekID", plan.WeekID)
		}
	}

	if plan.ID == uuid.Nil {
		if err := gorm.G[WeekPlan](tx).Create(ctx, plan); err != nil {
			return log.Err("failed to create week plan", err, "userID", plan.UserID, "weekID", plan.WeekID)
		}
	} else {
		result := tx.Model(&WeekPlan{}).Where("id = ?", plan.ID).Updates(map[string]any{
			"days":        plan.Days,
			"active_days": plan.ActiveDays,
		})
		if result.Error != nil {
			return log.Err("failed to update week plan", result.Error, "weekID", plan.WeekID)
		}
	}

	if err := r.ClearWeekPlanCache(ctx, plan.UserID, plan.WeekID); err != nil {
		log.Warn("failed to clear week plan cache", "userID", plan.UserID, "weekID", plan.WeekID, "error", err)
	}

	return nil
}

func (r *weekPlanRepository) ClearWeekPlanCache(
	ctx context.Context,
	userID uuid.UUID,
	weekID string,
) error {
	return database.NewCacheBuilder(r.cache, weekPlanCacheKey(userID, weekID)).
		WithContext(ctx).
		WithHash(WEEK_PLAN_CACHE_PREFIX).
		Delete()
}
