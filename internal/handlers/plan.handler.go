package handlers

import (
	"errors"

	"mealweek/internal/app"
	"mealweek/internal/handlers/middleware"
	"mealweek/internal/logger"
	"mealweek/internal/services"

	planController "mealweek/internal/controllers/plans"

	"github.com/gofiber/fiber/v2"
)

type PlanHandler struct {
	Handler
	planController planController.PlanControllerInterface
	tokenService   *services.TokenService
}

func NewPlanHandler(app app.App, router fiber.Router) *PlanHandler {
	log := logger.New("handlers").File("plan_handler")
	return &PlanHandler{
		planController: app.Controllers.Plan,
		tokenService:   app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *PlanHandler) Register() {
	weeks := h.router.Group("/weeks", h.middleware.RequireAuth(h.tokenService))

	weeks.Get("/", h.getRecentWeeks)
	weeks.Get("/:weekId", h.getWeek)
	weeks.Post("/:weekId/randomize", h.randomizeWeek)
	weeks.Post("/:weekId/days/:dayId/randomize", h.randomizeDay)
	weeks.Put("/:weekId/days/:dayId/recipe", h.setDayRecipe)
	weeks.Put("/:weekId/days/:dayId/text", h.setDayFreeText)
	weeks.Post("/:weekId/days/:dayId/toggle", h.toggleActiveDay)
}

type setDayRecipeRequest struct {
	RecipeID *int `json:"recipeId"`
}

type setDayFreeTextRequest struct {
	Text string `json:"text"`
}

func (h *PlanHandler) getRecentWeeks(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	limit := c.QueryInt("limit", 0)

	plans, err := h.planController.GetRecentWeeks(c.UserContext(), user, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to list weeks",
		})
	}

	return c.JSON(fiber.Map{"weeks": plans})
}

func (h *PlanHandler) getWeek(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	plan, err := h.planController.GetWeek(c.UserContext(), user, c.Params("weekId"))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load week",
		})
	}

	return c.JSON(fiber.Map{"week": plan})
}

func (h *PlanHandler) randomizeWeek(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	plan, err := h.planController.RandomizeWeek(c.UserContext(), user, c.Params("weekId"), sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to randomize week",
		})
	}

	return c.JSON(fiber.Map{"week": plan})
}

func (h *PlanHandler) randomizeDay(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	dayID, err := c.ParamsInt("dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day id",
		})
	}

	plan, err := h.planController.RandomizeDay(c.UserContext(), user, c.Params("weekId"), dayID, sessionID)
	if err != nil {
		if errors.Is(err, planController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Day id must be between 0 and 6",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to randomize day",
		})
	}

	return c.JSON(fiber.Map{"week": plan})
}

func (h *PlanHandler) setDayRecipe(c *fiber.Ctx) error {
	log := h.log.Function("setDayRecipe")

	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	dayID, err := c.ParamsInt("dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day id",
		})
	}

	var req setDayRecipeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid day recipe payload", "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := h.planController.SetDayRecipe(
		c.UserContext(),
		user,
		c.Params("weekId"),
		dayID,
		req.RecipeID,
		sessionID,
	)
	if err != nil {
		switch {
		case errors.Is(err, planController.ErrValidation):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Day id must be between 0 and 6",
			})
		case errors.Is(err, planController.ErrUnknownRecipe):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Recipe not found",
			})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to set day recipe",
			})
		}
	}

	return c.JSON(fiber.Map{"week": plan})
}

func (h *PlanHandler) setDayFreeText(c *fiber.Ctx) error {
	log := h.log.Function("setDayFreeText")

	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	dayID, err := c.ParamsInt("dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day id",
		})
	}

	var req setDayFreeTextRequest
	if err := c.BodyParser(&req); err != nil {
		log.Info("invalid day text payload", "userID", user.ID)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	plan, err := h.planController.SetDayFreeText(
		c.UserContext(),
		user,
		c.Params("weekId"),
		dayID,
		req.Text,
		sessionID,
	)
	if err != nil {
		if errors.Is(err, planController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Day id must be between 0 and 6",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to set day text",
		})
	}

	return c.JSON(fiber.Map{"week": plan})
}

func (h *PlanHandler) toggleActiveDay(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	dayID, err := c.ParamsInt("dayId")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid day id",
		})
	}

	plan, err := h.planController.ToggleActiveDay(
		c.UserContext(),
		user,
		c.Params("weekId"),
		dayID,
		sessionID,
	)
	if err != nil {
		if errors.Is(err, planController.ErrValidation) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Day id must be between 0 and 6",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to toggle day",
		})
	}

	return c.JSON(fiber.Map{"week": plan})
}
