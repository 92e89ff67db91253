package handlers

import (
	"errors"

	"mealweek/internal/app"
	"mealweek/internal/handlers/middleware"
	"mealweek/internal/logger"
	"mealweek/internal/services"

	exportController "mealweek/internal/controllers/exports"

	"github.com/gofiber/fiber/v2"
)

type ExportHandler struct {
	Handler
	exportController exportController.ExportControllerInterface
	tokenService     *services.TokenService
}

func NewExportHandler(app app.App, router fiber.Router) *ExportHandler {
	log := logger.New("handlers").File("export_handler")
	return &ExportHandler{
		exportController: app.Controllers.Export,
		tokenService:     app.Services.Token,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *ExportHandler) Register() {
	weeks := h.router.Group("/weeks", h.middleware.RequireAuth(h.tokenService))

	weeks.Get("/:weekId/export.ics", h.exportWeek)
	weeks.Post("/:weekId/cooked", h.markWeekCooked)
}

func (h *ExportHandler) exportWeek(c *fiber.Ctx) error {
	user := middleware.GetUser(c)

	export, err := h.exportController.ExportWeek(c.UserContext(), user, c.Params("weekId"))
	if err != nil {
		if errors.Is(err, exportController.ErrNothingToExport) {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export week",
		})
	}

	c.Set(fiber.HeaderContentType, "text/calendar; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+export.Filename+`"`)
	return c.SendString(export.Content)
}

func (h *ExportHandler) markWeekCooked(c *fiber.Ctx) error {
	user := middleware.GetUser(c)
	sessionID := middleware.GetSessionID(c)

	resp, err := h.exportController.MarkWeekCooked(c.UserContext(), user, c.Params("weekId"), sessionID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to mark week cooked",
		})
	}

	return c.JSON(resp)
}
