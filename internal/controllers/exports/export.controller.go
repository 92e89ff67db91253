package exportController

import (
	"context"
	"errors"

	"mealweek/internal/events"
	"mealweek/internal/logger"
	. "mealweek/internal/models"
	"mealweek/internal/services"
)

var ErrNothingToExport = errors.New("no eligible days in week")

// ExportController handles the week finalization flow: calendar download and
// the mark-cooked batch.
type ExportController struct {
	exportService *services.ExportService
	guards        *events.GuardSet
	log           logger.Logger
}

type ExportControllerInterface interface {
	ExportWeek(ctx context.Context, user *User, weekID string) (*CalendarExport, error)
	MarkWeekCooked(ctx context.Context, user *User, weekID string, sessionID string) (*MarkCookedResponse, error)
}

type CalendarExport struct {
	Filename string
	Content  string
}

type MarkCookedResponse struct {
	WeekID  string         `json:"weekId"`
	Updates []CookedUpdate `json:"updates"`
}

func New(services services.Service, guards *events.GuardSet) ExportControllerInterface {
	return &ExportController{
		exportService: services.Export,
		guards:        guards,
		log:           logger.New("exportController"),
	}
}

func (c *ExportController) ExportWeek(
	ctx context.Context,
	user *User,
	weekID string,
) (*CalendarExport, error) {
	filename, content, err := c.exportService.ExportWeek(ctx, user, weekID)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return nil, ErrNothingToExport
	}

	return &CalendarExport{Filename: filename, Content: content}, nil
}

func (c *ExportController) MarkWeekCooked(
	ctx context.Context,
	user *User,
	weekID string,
	sessionID string,
) (*MarkCookedResponse, error) {
	log := c.log.Function("MarkWeekCooked")

	guard := c.guards.Guard(sessionID)
	guard.BeginWrite()
	defer guard.EndWrite()

	updates, err := c.exportService.MarkWeekCooked(ctx, user, weekID, sessionID)
	if err != nil {
		return nil, err
	}

	if updates == nil {
		updates = []CookedUpdate{}
	}

	log.Info("week marked cooked", "userID", user.ID, "weekID", weekID, "updates", len(updates))
	return &MarkCookedResponse{WeekID: weekID, Updates: updates}, nil
}
