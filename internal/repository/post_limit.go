package repository

import (
	"context"
	"time"

	"questlog/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostLimitRepository gates post creation to one per user per calendar
// day. Reserve is the narrow seam the post lifecycle depends on, so the
// gate can change storage strategy without touching validation logic.
type PostLimitRepository interface {
	// Reserve atomically claims the (user, date) slot. It returns false
	// when the slot is already taken, meaning the user has posted today.
	Reserve(ctx context.Context, userID, date string) (bool, error)
	// Release frees a reservation, used to roll back when the post
	// insert itself fails after the slot was claimed.
	Release(ctx context.Context, userID, date string) error
	Get(ctx context.Context, userID, date string) (*models.PostLimit, error)
}

type postLimitRepository struct {
	db *gorm.DB
}

// NewPostLimitRepository creates a new post limit repository.
func NewPostLimitRepository(db *gorm.DB) PostLimitRepository {
	return &postLimitRepository{db: db}
}

// Reserve inserts the day's counter row with ON CONFLICT DO NOTHING on
// the (user_id, date) key. Zero rows affected means another request
// already holds the slot; the check and the claim are a single statement,
// so concurrent submissions cannot both pass.
func (r *postLimitRepository) Reserve(ctx context.Context, userID, date string) (bool, error) {
	limit := models.PostLimit{
		UserID:    userID,
		Date:      date,
		PostCount: 1,
		CreatedAt: time.Now().UTC(),
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "date"}},
			DoNothing: true,
		}).
		Create(&limit)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *postLimitRepository) Release(ctx context.Context, userID, date string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		Delete(&models.PostLimit{}).Error
}

func (r *postLimitRepository) Get(ctx context.Context, userID, date string) (*models.PostLimit, error) {
	var limit models.PostLimit
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND date = ?", userID, date).
		First(&limit).Error
	if err != nil {
		return nil, err
	}
	return &limit, nil
}
