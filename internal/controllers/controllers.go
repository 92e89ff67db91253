package controllers

import (
	"mealweek/config"
	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/repositories"
	"mealweek/internal/services"

	authController "mealweek/internal/controllers/auth"
	exportController "mealweek/internal/controllers/exports"
	planController "mealweek/internal/controllers/plans"
	recipeController "mealweek/internal/controllers/recipes"
)

type Controllers struct {
	Auth   authController.AuthControllerInterface
	Recipe recipeController.RecipeControllerInterface
	Plan   planController.PlanControllerInterface
	Export exportController.ExportControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	guards *events.GuardSet,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		Auth:   authController.New(services, repos, db),
		Recipe: recipeController.New(repos, services, eventBus, guards, db),
		Plan:   planController.New(repos, services, guards, db),
		Export: exportController.New(services, guards),
	}
}
