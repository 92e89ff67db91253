package authController

import (
	"context"
	"errors"
	"strings"
	"time"

	"mealweek/internal/database"
	"mealweek/internal/logger"
	"mealweek/internal/models"
	"mealweek/internal/repositories"
	"mealweek/internal/services"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrValidation         = errors.New("validation failed")
)

// AuthController handles registration, login and session issuance
type AuthController struct {
	tokenService *services.TokenService
	userRepo     repositories.UserRepository
	db           database.DB
	log          logger.Logger
}

type AuthControllerInterface interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	GetProfile(ctx context.Context, user *models.User) (*ProfileResponse, error)
	UpdateProfile(ctx context.Context, user *models.User, req UpdateProfileRequest) (*ProfileResponse, error)
}

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UpdateProfileRequest struct {
	DisplayName  *string `json:"displayName,omitempty"`
	AutoPlanWeek *bool   `json:"autoPlanWeek,omitempty"`
}

type AuthResponse struct {
	Token     string             `json:"token"`
	SessionID string             `json:"sessionId"`
	User      models.UserProfile `json:"user"`
}

type ProfileResponse struct {
	User models.UserProfile `json:"user"`
}

func New(
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) AuthControllerInterface {
	return &AuthController{
		tokenService: services.Token,
		userRepo:     repos.User,
		db:           db,
		log:          logger.New("authController"),
	}
}

func (c *AuthController) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	log := c.log.Function("Register")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrValidation
	}
	if len(req.Password) < 8 {
		return nil, ErrValidation
	}

	if _, err := c.userRepo.GetByEmail(ctx, c.db.SQLWithContext(ctx), email); err == nil {
		log.Info("registration attempt with existing email", "email", email)
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &models.User{
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := c.userRepo.Create(ctx, c.db.SQLWithContext(ctx), user); err != nil {
		return nil, log.Err("failed to create user", err, "email", email)
	}

	log.Info("user registered", "userID", user.ID, "email", email)
	return c.issueSession(ctx, user)
}

func (c *AuthController) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	log := c.log.Function("Login")

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := c.userRepo.GetByEmail(ctx, c.db.SQLWithContext(ctx), email)
	if err != nil {
		log.Info("login attempt for unknown email", "email", email)
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		log.Info("login attempt for inactive user", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		log.Info("password mismatch", "userID", user.ID)
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if _, err := c.userRepo.Update(ctx, c.db.SQLWithContext(ctx), user.ID, map[string]any{
		"last_login_at": now,
	}); err != nil {
		log.Warn("failed to record login time", "userID", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	log.Info("user logged in", "userID", user.ID)
	return c.issueSession(ctx, user)
}

func (c *AuthController) GetProfile(ctx context.Context, user *models.User) (*ProfileResponse, error) {
	return &ProfileResponse{User: user.ToProfile()}, nil
}

func (c *AuthController) UpdateProfile(
	ctx context.Context,
	user *models.User,
	req UpdateProfileRequest,
) (*ProfileResponse, error) {
	log := c.log.Function("UpdateProfile")

	updates := make(map[string]any)
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, ErrValidation
		}
		updates["display_name"] = name
	}
	if req.AutoPlanWeek != nil {
		updates["auto_plan_week"] = *req.AutoPlanWeek
	}

	if len(updates) == 0 {
		return &ProfileResponse{User: user.ToProfile()}, nil
	}

	updated, err := c.userRepo.Update(ctx, c.db.SQLWithContext(ctx), user.ID, updates)
	if err != nil {
		return nil, log.Err("failed to update profile", err, "userID", user.ID)
	}

	log.Info("profile updated", "userID", user.ID)
	return &ProfileResponse{User: updated.ToProfile()}, nil
}

func (c *AuthController) issueSession(ctx context.Context, user *models.User) (*AuthResponse, error) {
	log := c.log.Function("issueSession")

	token, sessionID, err := c.tokenService.IssueToken(user.ID)
	if err != nil {
		return nil, log.Err("failed to issue session token", err, "userID", user.ID)
	}

	return &AuthResponse{
		Token:     token,
		SessionID: sessionID,
		User:      user.ToProfile(),
	}, nil
}
