package repositories

import (
	"context"
	"time"

	"mealweek/internal/database"
	"mealweek/internal/logger"
	. "mealweek/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	USER_CACHE_PREFIX = "user"
	USER_CACHE_EXPIRY = 24 * time.Hour
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	Update(ctx context.Context, tx *gorm.DB, userID uuid.UUID, updates map[string]any) (*User, error)
	GetAutoPlanUsers(ctx context.Context, tx *gorm.DB) ([]*User, error)
	ClearUserCache(ctx context.Context, userID uuid.UUID) error
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

func (r *userRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
) (*User, error) {
	log := r.log.Function("GetByID")

	var cached User
	found, err := database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Get(&cached)
	if err != nil {
		log.Warn("failed to get user from cache", "userID", userID, "error", err)
	}

	if found {
		return &cached, nil
	}

	user, err := gorm.G[*User](tx).
		Where(User{BaseUUIDModel: BaseUUIDModel{ID: userID}}).
		First(ctx)
	if err != nil {
		return nil, log.Err("failed to get user", err, "userID", userID)
	}

	err = database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		WithStruct(user).
		WithTTL(USER_CACHE_EXPIRY).
		Set()
	if err != nil {
		log.Warn("failed to set user in cache", "userID", userID, "error", err)
	}

	return user, nil
}

func (r *userRepository) GetByEmail(
	ctx context.Context,
	tx *gorm.DB,
	email string,
) (*User, error) {
	log := r.log.Function("GetByEmail")

	user, err := gorm.G[*User](tx).
		Where(User{Email: email}).
		First(ctx)
	if err != nil {
		return nil, log.Err("failed to get user by email", err, "email", email)
	}

	return user, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	err := gorm.G[User](tx).Create(ctx, user)
	if err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	updates map[string]any,
) (*User, error) {
	log := r.log.Function("Update")

	result := tx.Model(&User{}).Where("id = ?", userID).Updates(updates)
	if result.Error != nil {
		return nil, log.Err("failed to update user", result.Error, "userID", userID)
	}

	if err := r.ClearUserCache(ctx, userID); err != nil {
		log.Warn("failed to clear user cache", "userID", userID, "error", err)
	}

	user, err := gorm.G[*User](tx).
		Where(User{BaseUUIDModel: BaseUUIDModel{ID: userID}}).
		First(ctx)
	if err != nil {
		return nil, log.Err("failed to retrieve updated user", err, "userID", userID)
	}

	return user, nil
}

func (r *userRepository) GetAutoPlanUsers(ctx context.Context, tx *gorm.DB) ([]*User, error) {
	log := r.log.Function("GetAutoPlanUsers")

	users, err := gorm.G[*User](tx).
		Where("auto_plan_week = ? AND is_active = ?", true, true).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to get auto-plan users", err)
	}

	return users, nil
}

func (r *userRepository) ClearUserCache(ctx context.Context, userID uuid.UUID) error {
	return database.NewCacheBuilder(r.cache, userID).
		WithContext(ctx).
		WithHash(USER_CACHE_PREFIX).
		Delete()
}
