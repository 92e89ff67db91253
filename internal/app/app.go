package app

import (
	"context"
	"time"

	"mealweek/config"
	"mealweek/internal/controllers"
	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/handlers/middleware"
	"mealweek/internal/jobs"
	"mealweek/internal/logger"
	"mealweek/internal/repositories"
	"mealweek/internal/services"
	"mealweek/internal/websockets"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Guards      *events.GuardSet
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	guards := events.NewGuardSet(time.Duration(config.WriteGuardWindowMS) * time.Millisecond)

	repos := repositories.New(db)

	service, err := services.New(db, config, eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	websocket, err := websockets.New(db, eventBus, config, service.Token, guards)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(db, eventBus, config, repos)
	controllers := controllers.New(service, repos, eventBus, guards, config, db)

	if config.SchedulerEnabled {
		weeklyPlanJob := jobs.NewWeeklyPlanJob(
			service.Recommendation,
			repos.User,
			db,
			services.Weekly,
		)
		if err := service.Scheduler.AddJob(weeklyPlanJob); err != nil {
			return &App{}, log.Err("failed to register weekly plan job", err)
		}
		log.Info("Registered weekly plan job with scheduler")
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Guards:      guards,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Guards,
		a.Services.Token,
		a.Services.Transaction,
		a.Services.Scheduler,
		a.Services.Recommendation,
		a.Services.Plan,
		a.Services.Export,
		a.Controllers.Auth,
		a.Controllers.Recipe,
		a.Controllers.Plan,
		a.Controllers.Export,
		a.Repos.User,
		a.Repos.Recipe,
		a.Repos.WeekPlan,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
