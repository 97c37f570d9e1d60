package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questlog/internal/config"
	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

func generateToken(t *testing.T, userID, role string, exp time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  userID,
		"role": role,
		"exp":  time.Now().Add(exp).Unix(),
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func echoIdentity(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"userID": c.Locals(LocalUserID),
		"role":   c.Locals(LocalUserRole),
	})
}

func TestAuthRequired(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app := fiber.New()
	app.Get("/test", AuthRequired, echoIdentity)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedUserID string
	}{
		{
			name:           "happy path",
			authHeader:     "Bearer " + generateToken(t, "user-1", models.RoleStudent, time.Hour),
			expectedStatus: http.StatusOK,
			expectedUserID: "user-1",
		},
		{
			name:           "missing header",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "malformed header",
			authHeader:     "Token abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer " + generateToken(t, "user-1", models.RoleStudent, -time.Hour),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authHeader:     "Bearer not.a.jwt",
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)

			if tt.expectedStatus == http.StatusOK {
				var body map[string]string
				require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
				assert.Equal(t, tt.expectedUserID, body["userID"])
				assert.Equal(t, models.RoleStudent, body["role"])
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app := fiber.New()
	app.Get("/test", OptionalAuth, echoIdentity)

	t.Run("anonymous passes through", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("valid token resolves identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer "+generateToken(t, "user-2", models.RoleStudent, time.Hour))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "user-2", body["userID"])
	})

	t.Run("broken token still rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestModeratorRequired(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app := fiber.New()
	app.Get("/mod", AuthRequired, ModeratorRequired, echoIdentity)

	tests := []struct {
		role           string
		expectedStatus int
	}{
		{models.RoleStudent, http.StatusForbidden},
		{models.RoleModerator, http.StatusOK},
		{models.RoleAdmin, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/mod", nil)
			req.Header.Set("Authorization", "Bearer "+generateToken(t, "user-1", tt.role, time.Hour))
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
		})
	}
}
