package repositories

import (
	"context"
	"fmt"
	"time"

	"mealweek/internal/database"
	"mealweek/internal/logger"
	. "mealweek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RECIPE_CACHE_PREFIX = "recipes"
	RECIPE_CACHE_EXPIRY = 12 * time.Hour
)

type RecipeRepository interface {
	GetUserRecipes(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*Recipe, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeID int) (*Recipe, error)
	Create(ctx context.Context, tx *gorm.DB, recipe *Recipe) error
	Update(ctx context.Context, tx *gorm.DB, recipe *Recipe) error
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recipeID int) error
	MarkCooked(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates []CookedUpdate) error
	ClearUserRecipeCache(ctx context.Context, userID uuid.UUID) error
}

type recipeRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewRecipeRepository(cache database.CacheClient) RecipeRepository {
	return &recipeRepository{
		cache: cache,
		log:   logger.New("recipeRepository"),
	}
}

func (r *recipeRepository) GetUserRecipes(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) ([]*Recipe, error) {
	log := r.log.Function("GetUserRecipes")

	var cached []*Recipe
	found, err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(RECIPE_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get recipes from cache", "userID", userID, "error", err)
	}

	if found {
		return cached, nil
	}

	recipes, err := gorm.G[*Recipe](tx).
		Preload("Ingredients", nil).
		Preload("Steps", nil).
		Where(Recipe{UserID: userID}).
		Order("name ASC").
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get user recipes", err, "userID", userID)
	}

	err = database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(RECIPE_CACHE_PREFIX).
		WithStruct(recipes).
		WithTTL(RECIPE_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set recipes in cache", "userID", userID, "error", err)
	}

	return recipes, nil
}

func (r *recipeRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	recipeID int,
) (*Recipe, error) {
	log := r.log.Function("GetByID")

	recipe, err := gorm.G[*Recipe](tx).
		Preload("Ingredients", nil).
		Preload("Steps", nil).
		Where("user_id = ? AND id = ?", userID, recipeID).
		First(ctx)
	if err != nil {
		return nil, log.Err("failed to get recipe", err, "userID", userID, "recipeID", recipeID)
	}

	return recipe, nil
}

func (r *recipeRepository) Create(ctx context.Context, tx *gorm.DB, recipe *Recipe) error {
	log := r.log.Function("Create")

	err := gorm.G[Recipe](tx).Create(ctx, recipe)
	if err != nil {
		return log.Err("failed to create recipe", err, "userID", recipe.UserID, "name", recipe.Name)
	}

	r.clearUserRecipeCache(ctx, recipe.UserID)

	return nil
}

func (r *recipeRepository) Update(ctx context.Context, tx *gorm.DB, recipe *Recipe) error {
	log := r.log.Function("Update")

	// Full save keeps the ingredient and step collections in sync
	if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(recipe).Error; err != nil {
		return log.Err("failed to update recipe", err, "recipeID", recipe.ID)
	}

	r.clearUserRecipeCache(ctx, recipe.UserID)

	return nil
}

func (r *recipeRepository) Delete(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	recipeID int,
) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[*Recipe](tx).
		Where("user_id = ? AND id = ?", userID, recipeID).
		Delete(ctx)
	if err != nil {
		return log.Err("failed to delete recipe", err, "userID", userID, "recipeID", recipeID)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("recipe not found or not owned by user")
	}

	r.clearUserRecipeCache(ctx, userID)

	return nil
}

// MarkCooked advances last_cooked for each recipe in the batch. The WHERE
// clause keeps the update monotonic: an older date never wins.
func (r *recipeRepository) MarkCooked(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	updates []CookedUpdate,
) error {
	log := r.log.Function("MarkCooked")

	for _, update := range updates {
		result := tx.Model(&Recipe{}).
			Where("user_id = ? AND id = ? AND (last_cooked IS NULL OR last_cooked < ?)",
				userID, update.RecipeID, update.Date).
			Update("last_cooked", update.Date)
		if result.Error != nil {
			return log.Err(
				"failed to mark recipe cooked",
				result.Error,
				"userID", userID,
				"recipeID", update.RecipeID,
			)
		}
	}

	r.clearUserRecipeCache(ctx, userID)

	return nil
}

func (r *recipeRepository) ClearUserRecipeCache(ctx context.Context, userID uuid.UUID) error {
	return database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(RECIPE_CACHE_PREFIX).
		Delete()
}

func (r *recipeRepository) clearUserRecipeCache(ctx context.Context, userID uuid.UUID) {
	if err := r.ClearUserRecipeCache(ctx, userID); err != nil {
		r.log.Warn("failed to clear user recipe cache", "userID", userID, "error", err)
	}
}
