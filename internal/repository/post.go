// Package repository provides data access layer implementations for the application.
package repository

import (
	"context"

	"questlog/internal/cache"
	"questlog/internal/models"

	"gorm.io/gorm"
)

// PostFeedQuery holds the parameters for listing the community feed.
type PostFeedQuery struct {
	ViewerID     string
	FollowedOnly bool
	Sort         string
	Limit        int
	Offset       int
}

// PostRepository defines the interface for post data operations.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id string, viewerID string) (*models.Post, error)
	Exists(ctx context.Context, id string) (bool, error)
	List(ctx context.Context, q PostFeedQuery) ([]*models.Post, error)
	GetByQuestID(ctx context.Context, questID string, limit, offset int, viewerID string) ([]*models.Post, error)
	GetByUserID(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error)
	UpdateVisibility(ctx context.Context, id string, isPublic bool) error
	Delete(ctx context.Context, id string) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	err := r.db.WithContext(ctx).Create(post).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

func (r *postRepository) GetByID(ctx context.Context, id string, viewerID string) (*models.Post, error) {
	var post models.Post
	err := r.applyStampDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.id = ?", id).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	finalizePosts(&post)
	return &post, nil
}

func (r *postRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *postRepository) List(ctx context.Context, q PostFeedQuery) ([]*models.Post, error) {
	var posts []*models.Post
	base := r.applyStampDetails(r.db.WithContext(ctx), q.ViewerID).
		Preload("User").
		Where("posts.is_public = ?", true)

	if q.FollowedOnly && q.ViewerID != "" {
		followed := r.db.Table("follows").
			Select("followee_id").
			Where("follower_id = ?", q.ViewerID)
		base = base.Where("posts.user_id IN (?)", followed)
	}

	err := applySort(base, q.Sort).
		Limit(q.Limit).
		Offset(q.Offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	finalizePosts(posts...)
	return posts, nil
}

func (r *postRepository) GetByQuestID(ctx context.Context, questID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyStampDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.quest_id = ? AND posts.is_public = ?", questID, true).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	finalizePosts(posts...)
	return posts, nil
}

func (r *postRepository) GetByUserID(ctx context.Context, userID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.applyStampDetails(r.db.WithContext(ctx), viewerID).
		Preload("User").
		Where("posts.user_id = ?", userID).
		Order("posts.created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	finalizePosts(posts...)
	return posts, nil
}

func (r *postRepository) UpdateVisibility(ctx context.Context, id string, isPublic bool) error {
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("is_public", isPublic).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Post{}).Error
	if err == nil {
		cache.InvalidateFeed(ctx)
	}
	return err
}

// applyStampDetails adds per-type stamp count subqueries, and the viewer's
// own stamp type, so a feed page is a single query.
func (r *postRepository) applyStampDetails(db *gorm.DB, viewerID string) *gorm.DB {
	selectQuery := "posts.*, " +
		"(SELECT COUNT(*) FROM stamps WHERE stamps.post_id = posts.id AND stamps.stamp_type = 'clap') AS clap_count, " +
		"(SELECT COUNT(*) FROM stamps WHERE stamps.post_id = posts.id AND stamps.stamp_type = 'heart') AS heart_count, " +
		"(SELECT COUNT(*) FROM stamps WHERE stamps.post_id = posts.id AND stamps.stamp_type = 'eye') AS eye_count"

	if viewerID != "" {
		return db.Select(selectQuery+", (SELECT stamp_type FROM stamps WHERE stamps.post_id = posts.id AND stamps.user_id = ?) AS my_stamp", viewerID)
	}
	return db.Select(selectQuery + ", NULL AS my_stamp")
}

// applySort appends the ORDER BY clause for the requested feed sort.
// clap_count/heart_count/eye_count are SELECT aliases from
// applyStampDetails; both PostgreSQL and SQLite allow referencing them in
// ORDER BY at the same query level.
func applySort(db *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case "clap":
		return db.Order("clap_count DESC, posts.created_at DESC")
	case "heart":
		return db.Order("heart_count DESC, posts.created_at DESC")
	case "eye":
		return db.Order("eye_count DESC, posts.created_at DESC")
	default: // "newest" and anything unrecognized
		return db.Order("posts.created_at DESC")
	}
}

// finalizePosts maps raw column values into their API shapes: the
// delimited image_urls column becomes a slice and the count aliases fold
// into a StampCounts. Domain code never touches the raw forms.
func finalizePosts(posts ...*models.Post) {
	for _, p := range posts {
		p.ImageURLList = models.SplitImageURLs(p.ImageURLs)
		p.Stamps = &models.StampCounts{
			Clap:  p.ClapCount,
			Heart: p.HeartCount,
			Eye:   p.EyeCount,
			Total: p.ClapCount + p.HeartCount + p.EyeCount,
		}
	}
}
