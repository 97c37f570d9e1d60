package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"questlog/internal/middleware"
	"questlog/internal/models"
	"questlog/internal/repository"
	"questlog/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestServer(t *testing.T) (*Server, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Stamp{},
		&models.PostLimit{},
		&models.Follow{},
	))

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)
	stampRepo := repository.NewStampRepository(db)
	limitRepo := repository.NewPostLimitRepository(db)
	followRepo := repository.NewFollowRepository(db)

	s := &Server{
		db:            db,
		userRepo:      userRepo,
		postRepo:      postRepo,
		stampRepo:     stampRepo,
		limitRepo:     limitRepo,
		followRepo:    followRepo,
		authService:   service.NewAuthService(userRepo, "test-secret"),
		postService:   service.NewPostService(postRepo, limitRepo),
		stampService:  service.NewStampService(stampRepo, postRepo),
		followService: service.NewFollowService(followRepo, userRepo),
	}
	return s, db
}

// asUser sets the authenticated identity the way the auth middleware would.
func asUser(userID, role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.LocalUserID, userID)
		c.Locals(middleware.LocalUserRole, role)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// envelope mirrors the API response wrapper.
type envelope struct {
	Success bool `json:"success"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Post   json.RawMessage `json:"post"`
	Posts  json.RawMessage `json:"posts"`
	Action string          `json:"action"`
	Stamps *struct {
		Clap  int `json:"clap"`
		Heart int `json:"heart"`
		Eye   int `json:"eye"`
		Total int `json:"total"`
	} `json:"stamps"`
	MyStamp *string         `json:"my_stamp"`
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), "body: %s", raw)
	return env
}

func createUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Nickname: email, Role: role, Status: models.StatusActive}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createPost(t *testing.T, db *gorm.DB, userID string, isPublic bool) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:          userID,
		QuestID:         "quest-1",
		Title:           "report",
		Body:            "body",
		EffortScore:     3,
		ExcitementScore: 4,
		IsPublic:        isPublic,
		CreatedAt:       time.Now(),
	}
	require.NoError(t, db.Create(post).Error)
	return post
}
