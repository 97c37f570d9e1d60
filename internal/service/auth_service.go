package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"questlog/internal/middleware"
	"questlog/internal/models"
	"questlog/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const tokenTTL = 7 * 24 * time.Hour

// AuthService issues session tokens. Identity is established upstream by
// the school's SSO; this service only exchanges a verified email for an
// API token.
type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret string
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecret: jwtSecret}
}

// Login looks the user up by email and returns a signed token carrying
// their ID and role. Suspended accounts are rejected.
func (s *AuthService) Login(ctx context.Context, email string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, models.NewValidationError("email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewUnauthorizedError("unknown account")
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, models.NewForbiddenError("account is suspended")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	if err := s.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; last_login_at is advisory.
		middleware.Logger.WarnContext(ctx, "failed to update last login", "user_id", user.ID, "error", err)
	}

	return &LoginResult{User: user, Token: token}, nil
}
