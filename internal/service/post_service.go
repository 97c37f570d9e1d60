package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"questlog/internal/cache"
	"questlog/internal/middleware"
	"questlog/internal/models"
	"questlog/internal/observability"
	"questlog/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

const (
	maxTitleLen = 200
	maxBodyLen  = 10000

	defaultFeedLimit = 20
	maxFeedLimit     = 50
)

// Feed filter and sort values accepted by ListFeed.
const (
	FeedFilterAll    = "all"
	FeedFilterFollow = "follow"

	FeedSortNewest = "newest"
	FeedSortClap   = "clap"
	FeedSortHeart  = "heart"
	FeedSortEye    = "eye"
)

// PostService owns the post lifecycle: creation under the daily limit,
// visibility changes, feeds and deletion.
type PostService struct {
	postRepo  repository.PostRepository
	limitRepo repository.PostLimitRepository
}

// CreatePostInput carries a new post submission. Scores and IsPublic are
// pointers so a missing field is distinguishable from a zero value.
type CreatePostInput struct {
	UserID          string
	QuestID         string
	Title           string
	Body            string
	ImageURLs       []string
	EffortScore     *int
	ExcitementScore *int
	IsPublic        *bool
	AllowPromotion  bool
}

// FeedInput holds the parameters for the community feed.
type FeedInput struct {
	ViewerID string
	Filter   string
	Sort     string
	Limit    int
	Offset   int
}

func NewPostService(postRepo repository.PostRepository, limitRepo repository.PostLimitRepository) *PostService {
	return &PostService{postRepo: postRepo, limitRepo: limitRepo}
}

// CreatePost validates the submission, claims the author's daily slot and
// inserts the post. The slot is claimed before the insert; if the insert
// fails the claim is released so the author can retry.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	ctx, span := observability.StartSpan(ctx, "PostService.CreatePost",
		attribute.String("quest.id", in.QuestID))
	defer span.End()

	if err := validateCreatePost(in); err != nil {
		return nil, err
	}

	date := models.LimitDate(time.Now())
	reserved, err := s.limitRepo.Reserve(ctx, in.UserID, date)
	if err != nil {
		return nil, err
	}
	if !reserved {
		middleware.PostLimitRejections.Inc()
		return nil, models.NewLimitExceededError("you can only post once per day")
	}

	post := &models.Post{
		UserID:          in.UserID,
		QuestID:         in.QuestID,
		Title:           strings.TrimSpace(in.Title),
		ImageURLList:    in.ImageURLs,
		EffortScore:     *in.EffortScore,
		ExcitementScore: *in.ExcitementScore,
		IsPublic:        true,
		AllowPromotion:  in.AllowPromotion,
		Body:            in.Body,
	}
	if in.IsPublic != nil {
		post.IsPublic = *in.IsPublic
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		// Give the slot back so a transient failure does not burn the
		// author's post for the day.
		if relErr := s.limitRepo.Release(ctx, in.UserID, date); relErr != nil {
			middleware.Logger.ErrorContext(ctx, "failed to release daily post slot",
				"user_id", in.UserID, "date", date, "error", relErr)
		}
		return nil, err
	}

	middleware.PostsCreated.Inc()
	return s.getPost(ctx, post.ID, in.UserID)
}

func validateCreatePost(in CreatePostInput) error {
	if strings.TrimSpace(in.QuestID) == "" {
		return models.NewValidationError("quest_id is required")
	}
	// Title is optional; only its length is bounded.
	if len(in.Title) > maxTitleLen {
		return models.NewValidationError(fmt.Sprintf("title too long (max %d characters)", maxTitleLen))
	}
	if len(in.Body) > maxBodyLen {
		return models.NewValidationError(fmt.Sprintf("body too long (max %d characters)", maxBodyLen))
	}
	if len(in.ImageURLs) > models.MaxPostImages {
		return models.NewValidationError(fmt.Sprintf("at most %d images are allowed", models.MaxPostImages))
	}
	for _, u := range in.ImageURLs {
		if strings.TrimSpace(u) == "" {
			return models.NewValidationError("image URLs must not be empty")
		}
	}
	if in.EffortScore == nil {
		return models.NewValidationError("effort_score is required")
	}
	if in.ExcitementScore == nil {
		return models.NewValidationError("excitement_score is required")
	}
	if *in.EffortScore < models.MinScore || *in.EffortScore > models.MaxScore {
		return models.NewValidationError(fmt.Sprintf("effort_score must be between %d and %d", models.MinScore, models.MaxScore))
	}
	if *in.ExcitementScore < models.MinScore || *in.ExcitementScore > models.MaxScore {
		return models.NewValidationError(fmt.Sprintf("excitement_score must be between %d and %d", models.MinScore, models.MaxScore))
	}
	return nil
}

// ListFeed returns a page of public posts. Anonymous first pages of the
// default feed are served cache-aside; everything else goes to the
// database directly because my_stamp makes the result viewer-specific.
func (s *PostService) ListFeed(ctx context.Context, in FeedInput) ([]*models.Post, error) {
	filter := in.Filter
	if filter == "" {
		filter = FeedFilterAll
	}
	switch filter {
	case FeedFilterAll:
	case FeedFilterFollow:
		if in.ViewerID == "" {
			return nil, models.NewUnauthorizedError("login required for the follow feed")
		}
	default:
		return nil, models.NewValidationError("filter must be all or follow")
	}

	sort := in.Sort
	if sort == "" {
		sort = FeedSortNewest
	}
	switch sort {
	case FeedSortNewest, FeedSortClap, FeedSortHeart, FeedSortEye:
	default:
		return nil, models.NewValidationError("sort must be one of newest, clap, heart, eye")
	}

	limit := in.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	offset := in.Offset
	if offset < 0 {
		offset = 0
	}

	q := repository.PostFeedQuery{
		ViewerID:     in.ViewerID,
		FollowedOnly: filter == FeedFilterFollow,
		Sort:         sort,
		Limit:        limit,
		Offset:       offset,
	}

	if in.ViewerID == "" && filter == FeedFilterAll {
		var posts []*models.Post
		key := cache.FeedKey(ctx, sort, limit, offset)
		err := cache.CacheAside(ctx, key, &posts, cache.FeedTTL, func() error {
			var fetchErr error
			posts, fetchErr = s.postRepo.List(ctx, q)
			return fetchErr
		})
		return posts, err
	}

	return s.postRepo.List(ctx, q)
}

// GetQuestPosts lists the public posts attached to one quest, newest first.
func (s *PostService) GetQuestPosts(ctx context.Context, questID string, limit, offset int, viewerID string) ([]*models.Post, error) {
	if strings.TrimSpace(questID) == "" {
		return nil, models.NewValidationError("quest_id is required")
	}
	limit, offset = clampPage(limit, offset)
	return s.postRepo.GetByQuestID(ctx, questID, limit, offset, viewerID)
}

// GetMyPosts lists the caller's own posts, hidden ones included.
func (s *PostService) GetMyPosts(ctx context.Context, userID string, limit, offset int) ([]*models.Post, error) {
	limit, offset = clampPage(limit, offset)
	return s.postRepo.GetByUserID(ctx, userID, limit, offset, userID)
}

// GetPost returns a single post. Hidden posts answer not-found for
// everyone but their owner.
func (s *PostService) GetPost(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := s.getPost(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if !post.IsPublic && post.UserID != viewerID {
		return nil, models.NewNotFoundError("post")
	}
	return post, nil
}

// UpdateVisibility lets the owner publish or hide their post.
func (s *PostService) UpdateVisibility(ctx context.Context, postID, userID string, isPublic bool) (*models.Post, error) {
	post, err := s.getPost(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post.UserID != userID {
		return nil, models.NewForbiddenError("you can only change visibility of your own posts")
	}

	if err := s.postRepo.UpdateVisibility(ctx, postID, isPublic); err != nil {
		return nil, err
	}
	return s.getPost(ctx, postID, userID)
}

// ForceHide hides a post regardless of its current state. Idempotent:
// hiding an already hidden post succeeds. Callers are expected to have
// passed a moderator check already.
func (s *PostService) ForceHide(ctx context.Context, postID string) (*models.Post, error) {
	if _, err := s.getPost(ctx, postID, ""); err != nil {
		return nil, err
	}
	if err := s.postRepo.UpdateVisibility(ctx, postID, false); err != nil {
		return nil, err
	}
	return s.getPost(ctx, postID, "")
}

// DeletePost removes a post. Owners can delete their own; moderators and
// admins can delete any.
func (s *PostService) DeletePost(ctx context.Context, postID, userID, role string) error {
	post, err := s.getPost(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post.UserID != userID && role != models.RoleModerator && role != models.RoleAdmin {
		return models.NewForbiddenError("you can only delete your own posts")
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *PostService) getPost(ctx context.Context, id, viewerID string) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.NewNotFoundError("post")
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
