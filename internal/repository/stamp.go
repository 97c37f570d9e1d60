package repository

import (
	"context"
	"errors"

	"questlog/internal/models"

	"gorm.io/gorm"
)

// StampRepository defines the interface for stamp data operations.
// Counts are always recomputed from the table; nothing here caches them.
type StampRepository interface {
	GetForPostAndUser(ctx context.Context, postID, userID string) (*models.Stamp, error)
	Create(ctx context.Context, stamp *models.Stamp) error
	Delete(ctx context.Context, id string) error
	CountsForPost(ctx context.Context, postID string) (*models.StampCounts, error)
}

type stampRepository struct {
	db *gorm.DB
}

// NewStampRepository creates a new stamp repository.
func NewStampRepository(db *gorm.DB) StampRepository {
	return &stampRepository{db: db}
}

// GetForPostAndUser returns the user's current stamp on the post, or
// (nil, nil) when they have none.
func (r *stampRepository) GetForPostAndUser(ctx context.Context, postID, userID string) (*models.Stamp, error) {
	var stamp models.Stamp
	err := r.db.WithContext(ctx).
		Where("post_id = ? AND user_id = ?", postID, userID).
		First(&stamp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stamp, nil
}

func (r *stampRepository) Create(ctx context.Context, stamp *models.Stamp) error {
	return r.db.WithContext(ctx).Create(stamp).Error
}

func (r *stampRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Stamp{}).Error
}

// CountsForPost recomputes the aggregate by scanning the stamp rows for
// the post. Deliberately authoritative: no cached counters to drift.
func (r *stampRepository) CountsForPost(ctx context.Context, postID string) (*models.StampCounts, error) {
	var rows []struct {
		StampType string
		N         int
	}
	err := r.db.WithContext(ctx).
		Model(&models.Stamp{}).
		Select("stamp_type, COUNT(*) AS n").
		Where("post_id = ?", postID).
		Group("stamp_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &models.StampCounts{}
	for _, row := range rows {
		switch row.StampType {
		case models.StampClap:
			counts.Clap = row.N
		case models.StampHeart:
			counts.Heart = row.N
		case models.StampEye:
			counts.Eye = row.N
		}
		counts.Total += row.N
	}
	return counts, nil
}
