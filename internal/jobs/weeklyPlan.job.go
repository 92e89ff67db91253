package jobs

import (
	"context"
	"time"

	"mealweek/internal/database"
	"mealweek/internal/logger"
	"mealweek/internal/repositories"
	"mealweek/internal/services"
	"mealweek/internal/utils"
)

// WeeklyPlanJob seeds the upcoming week for every user who opted into
// automatic planning. Weeks that already have a plan are left alone.
type WeeklyPlanJob struct {
	recommendationService *services.RecommendationService
	userRepo              repositories.UserRepository
	db                    database.DB
	log                   logger.Logger
	schedule              services.Schedule
}

func NewWeeklyPlanJob(
	recommendationService *services.RecommendationService,
	userRepo repositories.UserRepository,
	db database.DB,
	schedule services.Schedule,
) *WeeklyPlanJob {
	log := logger.New("weeklyPlanJob")
	log.Info("Creating new weekly plan job", "schedule", schedule)

	return &WeeklyPlanJob{
		recommendationService: recommendationService,
		userRepo:              userRepo,
		db:                    db,
		log:                   log,
		schedule:              schedule,
	}
}

func (j *WeeklyPlanJob) Name() string {
	return "WeeklyPlanSeeding"
}

func (j *WeeklyPlanJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	weekID := utils.FormatWeekID(time.Now().UTC().AddDate(0, 0, 7))

	users, err := j.userRepo.GetAutoPlanUsers(ctx, j.db.SQLWithContext(ctx))
	if err != nil {
		return log.Err("failed to get auto-plan users", err)
	}

	log.Info("Starting weekly plan seeding", "weekID", weekID, "userCount", len(users))

	seeded := 0
	for _, user := range users {
		if err := j.recommendationService.SeedWeekIfAbsent(ctx, user, weekID); err != nil {
			log.Warn("failed to seed week for user", "userID", user.ID, "weekID", weekID, "error", err)
			continue
		}
		seeded++
	}

	log.Info("Weekly plan seeding completed", "weekID", weekID, "seeded", seeded)
	return nil
}

func (j *WeeklyPlanJob) Schedule() services.Schedule {
	return j.schedule
}
