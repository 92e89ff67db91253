package repositories

import (
	"mealweek/internal/database"
)

type Repository struct {
	User     UserRepository
	Recipe   RecipeRepository
	WeekPlan WeekPlanRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:     NewUserRepository(db.Cache.User),
		Recipe:   NewRecipeRepository(db.Cache.User),
		WeekPlan: NewWeekPlanRepository(db.Cache.User),
	}
}
