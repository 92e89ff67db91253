package services

import (
	"mealweek/config"
	"mealweek/internal/database"
	"mealweek/internal/events"
	"mealweek/internal/repositories"
)

type Service struct {
	Token          *TokenService
	Transaction    *TransactionService
	Scheduler      *SchedulerService
	Recommendation *RecommendationService
	Plan           *PlanService
	Export         *ExportService
}

func New(db database.DB, config config.Config, eventBus *events.EventBus) (Service, error) {
	repos := repositories.New(db)

	tokenService := NewTokenService(config)
	transactionService := NewTransactionService(db)
	schedulerService := NewSchedulerService()
	recommendationService := NewRecommendationService(repos, db, eventBus)
	planService := NewPlanService(repos, db, eventBus)
	exportService := NewExportService(repos, db, eventBus)

	return Service{
		Token:          tokenService,
		Transaction:    transactionService,
		Scheduler:      schedulerService,
		Recommendation: recommendationService,
		Plan:           planService,
		Export:         exportService,
	}, nil
}
