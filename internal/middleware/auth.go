// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"fmt"
	"strings"

	"questlog/internal/config"
	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var cfg *config.Config

// InitMiddleware initializes authentication middleware with the given config.
func InitMiddleware(c *config.Config) {
	cfg = c
}

// Locals keys set by the auth middlewares.
const (
	LocalUserID   = "userID"
	LocalUserRole = "userRole"
)

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	userID, role, err := parseBearerToken(c)
	if err != nil {
		return models.RespondWithError(c, models.NewUnauthorizedError(err.Error()))
	}

	c.Locals(LocalUserID, userID)
	c.Locals(LocalUserRole, role)
	return c.Next()
}

// OptionalAuth resolves the caller's identity when an Authorization header
// is present but lets anonymous requests through. Used on public read
// routes where a logged-in viewer gets their own stamp echoed back.
func OptionalAuth(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Next()
	}
	userID, role, err := parseBearerToken(c)
	if err != nil {
		// A malformed token on a public route is still rejected, so a
		// client cannot mistake a broken session for being logged out.
		return models.RespondWithError(c, models.NewUnauthorizedError(err.Error()))
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalUserRole, role)
	return c.Next()
}

// ModeratorRequired allows only moderator and admin tokens through. Must
// run after AuthRequired.
func ModeratorRequired(c *fiber.Ctx) error {
	role, _ := c.Locals(LocalUserRole).(string)
	if role != models.RoleModerator && role != models.RoleAdmin {
		return models.RespondWithError(c, models.NewForbiddenError("moderator access required"))
	}
	return c.Next()
}

func parseBearerToken(c *fiber.Ctx) (userID, role string, err error) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", "", fmt.Errorf("authorization header required")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", "", fmt.Errorf("invalid authorization header format")
	}

	token, err := jwt.Parse(parts[1], func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", fmt.Errorf("invalid token claims")
	}

	// User ID travels in "sub" (subject claim per RFC 7519).
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", fmt.Errorf("invalid token subject")
	}

	role, _ = claims["role"].(string)
	return sub, role, nil
}
