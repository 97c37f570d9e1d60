package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleStampHandler(t *testing.T) {
	t.Parallel()
	s, db := setupTestServer(t)

	author := createUser(t, db, "author@example.com", models.RoleStudent)
	viewer := createUser(t, db, "viewer@example.com", models.RoleStudent)
	post := createPost(t, db, author.ID, true)

	app := fiber.New()
	app.Post("/posts/:id/stamps", asUser(viewer.ID, viewer.Role), s.ToggleStamp)

	toggle := func(stampType string) envelope {
		req := jsonRequest(t, http.MethodPost, "/posts/"+post.ID+"/stamps",
			fiber.Map{"stamp_type": stampType})
		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return decodeEnvelope(t, resp)
	}

	env := toggle(models.StampClap)
	assert.True(t, env.Success)
	assert.Equal(t, "added", env.Action)
	assert.Equal(t, 1, env.Stamps.Clap)

	env = toggle(models.StampHeart)
	assert.Equal(t, "replaced", env.Action)
	assert.Equal(t, 0, env.Stamps.Clap)
	assert.Equal(t, 1, env.Stamps.Heart)

	env = toggle(models.StampHeart)
	assert.Equal(t, "removed", env.Action)
	assert.Equal(t, 0, env.Stamps.Total)
}

func TestToggleStampHandlerErrors(t *testing.T) {
	t.Parallel()
	s, db := setupTestServer(t)

	author := createUser(t, db, "author@example.com", models.RoleStudent)
	viewer := createUser(t, db, "viewer@example.com", models.RoleStudent)
	post := createPost(t, db, author.ID, true)
	hidden := createPost(t, db, author.ID, false)

	app := fiber.New()
	app.Post("/posts/:id/stamps", asUser(viewer.ID, viewer.Role), s.ToggleStamp)

	t.Run("invalid stamp type", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts/"+post.ID+"/stamps",
			fiber.Map{"stamp_type": "like"})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		assert.False(t, env.Success)
		assert.Equal(t, models.CodeValidation, env.Error.Code)
	})

	t.Run("missing post", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts/no-such-post/stamps",
			fiber.Map{"stamp_type": models.StampClap})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, models.CodeNotFound, env.Error.Code)
	})

	t.Run("hidden post", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/posts/"+hidden.ID+"/stamps",
			fiber.Map{"stamp_type": models.StampClap})
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestGetStampsHandler(t *testing.T) {
	t.Parallel()
	s, db := setupTestServer(t)

	author := createUser(t, db, "author@example.com", models.RoleStudent)
	viewer := createUser(t, db, "viewer@example.com", models.RoleStudent)
	post := createPost(t, db, author.ID, true)
	require.NoError(t, db.Create(&models.Stamp{
		PostID: post.ID, UserID: viewer.ID, StampType: models.StampEye,
	}).Error)

	app := fiber.New()
	app.Get("/anon/posts/:id/stamps", s.GetStamps)
	app.Get("/posts/:id/stamps", asUser(viewer.ID, viewer.Role), s.GetStamps)

	t.Run("anonymous", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/anon/posts/"+post.ID+"/stamps", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		assert.Equal(t, 1, env.Stamps.Eye)
		assert.Nil(t, env.MyStamp)
	})

	t.Run("logged-in viewer", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/posts/"+post.ID+"/stamps", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		env := decodeEnvelope(t, resp)
		require.NotNil(t, env.MyStamp)
		assert.Equal(t, models.StampEye, *env.MyStamp)
	})
}
