package handlers

import (
	"errors"

	"mealweek/internal/app"
	"mealweek/internal/handlers/middleware"
	"mealweek/internal/logger"
	"mealweek/internal/services"

	recipeController "mealweek/internal/controllers/recipes"

	"github.com/gofiber/fiber/v2"
)

type RecipeHandler struct {
	Handler
	recipeController recipeController.RecipeControllerInterface
	tokenService     *services.TokenService
}

func NewRecipeHandler(app app.App, router fiber.Router) *RecipeHandler {
	log := logger.New("handlers").File("recipe_handler")
	return &RecipeHandler{
		recipeController: app.Controllers.Recipe,
		tokenService:     app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *RecipeHandler) Register() {
	recipes := h.router.Group("/recipes", h.middleware.RequireAuth(h.tokenService))

	recipes.Get("/", h.listRecipes)
	recipes.Post("/", h.createRecipe)
	recipes.Get("/:id", h.getRecipe)
	recipes.Put("/:id", h.updateRecipe)
	recipes.Delete("/:id", h.deleteRecipe)
}

func (h *RecipeHandler) listRecipes(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	recipes, err := h.recipeController.ListRecipes(c.UserContext(), user)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list recipes",
		})
	}

	return c.JSON(fiber.Map{"recipes": recipes})
}

func (h *RecipeHandler) getRecipe(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	recipeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe id",
		})
	}

	// ?servings=N scales ingredient quantities; defaults to the base count.
	servings := c.QueryInt("servings", 0)

	resp, err := h.recipeController.GetRecipe(c.UserContext(), user, recipeID, servings)
	if err != nil {
		if errors.Is(err, recipeController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load recipe",
		})
	}

	return c.JSON(resp)
}

func (h *RecipeHandler) createRecipe(c *fiber.Ctx) error {
	log := h.log.Function("createRecipe")

	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	var req recipeController.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid recipe payload", "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	recipe, err := h.recipeController.CreateRecipe(c.UserContext(), user, req, sessionID)
	if err != nil {
		if errors.Is(err, recipeController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Recipe name is required",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create recipe",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"recipe": recipe})
}

func (h *RecipeHandler) updateRecipe(c *fiber.Ctx) error {
	log := h.log.Function("updateRecipe")

	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	recipeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe id",
		})
	}

	var req recipeController.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid recipe payload", "userID", user.ID, "recipeID", recipeID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	recipe, err := h.recipeController.UpdateRecipe(c.UserContext(), user, recipeID, req, sessionID)
	if err != nil {
		switch {
		case errors.Is(err, recipeController.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		case errors.Is(err, recipeController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Recipe name is required",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update recipe",
			})
		}
	}

	return c.JSON(fiber.Map{"recipe": recipe})
}

func (h *RecipeHandler) deleteRecipe(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	recipeID, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid recipe id",
		})
	}

	if err := h.recipeController.DeleteRecipe(c.UserContext(), user, recipeID, sessionID); err != nil {
		if errors.Is(err, recipeController.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete recipe",
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
