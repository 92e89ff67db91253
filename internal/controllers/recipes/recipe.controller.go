package recipeController

import (
	"context"
	"errors"
	"strings"

	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/logger"
	. "mealweek/internal/models"
	"mealweek/internal/repositories"
	"mealweek/internal/services"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("recipe not found")
	ErrValidation = errors.New("validation failed")
)

// RecipeController handles catalog business logic
type RecipeController struct {
	recipeRepo         repositories.RecipeRepository
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	guards             *events.GuardSet
	db                 database.DB
	log                logger.Logger
}

type RecipeControllerInterface interface {
	ListRecipes(ctx context.Context, user *User) ([]*Recipe, error)
	GetRecipe(ctx context.Context, user *User, recipeID int, servings int) (*RecipeResponse, error)
	CreateRecipe(ctx context.Context, user *User, req RecipeRequest, sessionID string) (*Recipe, error)
	UpdateRecipe(ctx context.Context, user *User, recipeID int, req RecipeRequest, sessionID string) (*Recipe, error)
	DeleteRecipe(ctx context.Context, user *User, recipeID int, sessionID string) error
}

type IngredientRequest struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

type StepRequest struct {
	Instruction string `json:"instruction"`
}

type RecipeRequest struct {
	Name         string              `json:"name"`
	Category     string              `json:"category"`
	Source       *string             `json:"source,omitempty"`
	BaseServings int                 `json:"baseServings"`
	Ingredients  []IngredientRequest `json:"ingredients"`
	Steps        []StepRequest       `json:"steps"`
}

// RecipeResponse carries the recipe with its ingredient quantities scaled to
// the requested serving count.
type RecipeResponse struct {
	Recipe      *Recipe      `json:"recipe"`
	Servings    int          `json:"servings"`
	Ingredients []Ingredient `json:"ingredients"`
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	guards *events.GuardSet,
	db database.DB,
) RecipeControllerInterface {
	return &RecipeController{
		recipeRepo:         repos.Recipe,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		guards:             guards,
		db:                 db,
		log:                logger.New("recipeController"),
	}
}

func (c *RecipeController) ListRecipes(ctx context.Context, user *User) ([]*Recipe, error) {
	log := c.log.Function("ListRecipes")

	recipes, err := c.recipeRepo.GetUserRecipes(ctx, c.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return nil, log.Err("failed to list recipes", err, "userID", user.ID)
	}

	return recipes, nil
}

func (c *RecipeController) GetRecipe(
	ctx context.Context,
	user *User,
	recipeID int,
	servings int,
) (*RecipeResponse, error) {
	log := c.log.Function("GetRecipe")

	recipe, err := c.recipeRepo.GetByID(ctx, c.db.SQLWithContext(ctx), user.ID, recipeID)
	if err != nil {
		log.Info("recipe not found", "userID", user.ID, "recipeID", recipeID)
		return nil, ErrNotFound
	}

	if servings <= 0 {
		servings = recipe.BaseServings
	}

	return &RecipeResponse{
		Recipe:      recipe,
		Servings:    servings,
		Ingredients: recipe.ScaledIngredients(servings),
	}, nil
}

func (c *RecipeController) CreateRecipe(
	ctx context.Context,
	user *User,
	req RecipeRequest,
	sessionID string,
) (*Recipe, error) {
	log := c.log.Function("CreateRecipe")

	recipe, err := c.buildRecipe(user, req)
	if err != nil {
		return nil, err
	}

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	err = c.transactionService.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		return c.recipeRepo.Create(txCtx, tx, recipe)
	})
	if err != nil {
		return nil, log.Err("failed to create recipe", err, "userID", user.ID)
	}

	c.publishChange(user, sessionID, recipe.ID)

	log.Info("recipe created", "userID", user.ID, "recipeID", recipe.ID)
	return recipe, nil
}

func (c *RecipeController) UpdateRecipe(
	ctx context.Context,
	user *User,
	recipeID int,
	req RecipeRequest,
	sessionID string,
) (*Recipe, error) {
	log := c.log.Function("UpdateRecipe")

	existing, err := c.recipeRepo.GetByID(ctx, c.db.SQLWithContext(ctx), user.ID, recipeID)
	if err != nil {
		log.Info("recipe not found", "userID", user.ID, "recipeID", recipeID)
		return nil, ErrNotFound
	}

	recipe, err := c.buildRecipe(user, req)
	if err != nil {
		return nil, err
	}
	recipe.ID = existing.ID
	recipe.CreatedAt = existing.CreatedAt
	recipe.LastCooked = existing.LastCooked

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	err = c.transactionService.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		return c.recipeRepo.Update(txCtx, tx, recipe)
	})
	if err != nil {
		return nil, log.Err("failed to update recipe", err, "userID", user.ID, "recipeID", recipeID)
	}

	c.publishChange(user, sessionID, recipe.ID)

	log.Info("recipe updated", "userID", user.ID, "recipeID", recipe.ID)
	return recipe, nil
}

func (c *RecipeController) DeleteRecipe(
	ctx context.Context,
	user *User,
	recipeID int,
	sessionID string,
) error {
	log := c.log.Function("DeleteRecipe")

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	err := c.transactionService.Execute(ctx, func(txCtx context.Context, tx *gorm.DB) error {
		return c.recipeRepo.Delete(txCtx, tx, user.ID, recipeID)
	})
	if err != nil {
		log.Info("recipe delete failed", "userID", user.ID, "recipeID", recipeID, "error", err)
		return ErrNotFound
	}

	c.publishChange(user, sessionID, recipeID)

	log.Info("recipe deleted", "userID", user.ID, "recipeID", recipeID)
	return nil
}

func (c *RecipeController) buildRecipe(user *User, req RecipeRequest) (*Recipe, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrValidation
	}

	baseServings := req.BaseServings
	if baseServings <= 0 {
		baseServings = DefaultBaseServings
	}

	var source *string
	if req.Source != nil {
		trimmed := strings.TrimSpace(*req.Source)
		if trimmed != "" {
			source = &trimmed
		}
	}

	ingredients := make([]Ingredient, 0, len(req.Ingredients))
	for _, ingredient := range req.Ingredients {
		ingredientName := strings.TrimSpace(ingredient.Name)
		if ingredientName == "" {
			continue
		}
		ingredients = append(ingredients, Ingredient{
			Name:     ingredientName,
			Quantity: ingredient.Quantity,
			Unit:     strings.TrimSpace(ingredient.Unit),
		})
	}

	steps := make([]RecipeStep, 0, len(req.Steps))
	for i, step := range req.Steps {
		instruction := strings.TrimSpace(step.Instruction)
		if instruction == "" {
			continue
		}
		steps = append(steps, RecipeStep{
			Position:    i + 1,
			Instruction: instruction,
		})
	}

	return &Recipe{
		UserID:       user.ID,
		Name:         name,
		Category:     NormalizeCategory(req.Category),
		Source:       source,
		BaseServings: baseServings,
		Ingredients:  ingredients,
		Steps:        steps,
	}, nil
}

func (c *RecipeController) publishChange(user *User, sessionID string, recipeID int) {
	if c.eventBus == nil {
		return
	}
	if err := c.eventBus.PublishEntityChange(
		events.RECIPE_CHANNEL,
		events.RECIPES_CHANGED,
		user.ID,
		sessionID,
		map[string]any{"recipeId": recipeID},
	); err != nil {
		c.log.Warn("failed to publish recipe change", "userID", user.ID, "error", err)
	}
}
