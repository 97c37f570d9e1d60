package repository

import (
	"testing"
	"time"

	"questlog/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Nickname: email, Role: models.RoleStudent, Status: models.StatusActive}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestPost(t *testing.T, db *gorm.DB, userID string, createdAt time.Time, overrides ...func(*models.Post)) *models.Post {
	t.Helper()
	post := &models.Post{
		UserID:          userID,
		QuestID:         "quest-1",
		Title:           "report",
		Body:            "body",
		EffortScore:     3,
		ExcitementScore: 3,
		IsPublic:        true,
	}
	for _, override := range overrides {
		override(post)
	}
	require.NoError(t, db.Create(post).Error)
	// Create applies gorm's own timestamp; pin it explicitly so ordering
	// assertions are deterministic.
	require.NoError(t, db.Model(post).Update("created_at", createdAt).Error)
	post.CreatedAt = createdAt
	return post
}

func stampPost(t *testing.T, db *gorm.DB, postID, userID, stampType string) {
	t.Helper()
	require.NoError(t, db.Create(&models.Stamp{PostID: postID, UserID: userID, StampType: stampType}).Error)
}
