// Package service contains the application's business logic.
package service

import (
	"context"
	"errors"
	"hash/fnv"
	"sync"

	"questlog/internal/middleware"
	"questlog/internal/models"
	"questlog/internal/observability"
	"questlog/internal/repository"

	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"
)

// Toggle result actions.
const (
	StampActionAdded    = "added"
	StampActionRemoved  = "removed"
	StampActionReplaced = "replaced"
)

// ToggleResult reports what a toggle did and the post's counts afterward.
type ToggleResult struct {
	Action string              `json:"action"`
	Stamps *models.StampCounts `json:"stamps"`
}

// StampSummary is the read-side view of a post's stamps.
type StampSummary struct {
	Stamps  *models.StampCounts `json:"stamps"`
	MyStamp *string             `json:"my_stamp"`
}

// StampService implements the one-stamp-per-user toggle on posts.
type StampService struct {
	stampRepo repository.StampRepository
	postRepo  repository.PostRepository
	locks     toggleLocks
}

func NewStampService(stampRepo repository.StampRepository, postRepo repository.PostRepository) *StampService {
	return &StampService{stampRepo: stampRepo, postRepo: postRepo}
}

// toggleLocks serializes toggles per (post, user) pair so a double-tap
// cannot interleave the read-delete-insert sequence. Sharded so the lock
// table stays a fixed size.
type toggleLocks struct {
	shards [64]sync.Mutex
}

func (l *toggleLocks) lock(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	m := &l.shards[h.Sum32()%uint32(len(l.shards))]
	m.Lock()
	return m
}

// Toggle applies one press of a stamp button:
//   - no current stamp: the stamp is added
//   - same stamp already set: it is removed
//   - a different stamp set: it is replaced
//
// The returned counts are recomputed after the write.
func (s *StampService) Toggle(ctx context.Context, postID, userID, stampType string) (*ToggleResult, error) {
	ctx, span := observability.StartSpan(ctx, "StampService.Toggle",
		attribute.String("post.id", postID),
		attribute.String("stamp.type", stampType))
	defer span.End()

	if userID == "" {
		return nil, models.NewUnauthorizedError("login required to stamp a post")
	}
	if !models.IsValidStampType(stampType) {
		return nil, models.NewValidationError("stamp_type must be one of clap, heart, eye")
	}

	if err := s.ensureStampable(ctx, postID, userID); err != nil {
		return nil, err
	}

	mu := s.locks.lock(postID + ":" + userID)
	defer mu.Unlock()

	existing, err := s.stampRepo.GetForPostAndUser(ctx, postID, userID)
	if err != nil {
		return nil, err
	}

	var action string
	switch {
	case existing == nil:
		err = s.stampRepo.Create(ctx, &models.Stamp{PostID: postID, UserID: userID, StampType: stampType})
		action = StampActionAdded
	case existing.StampType == stampType:
		err = s.stampRepo.Delete(ctx, existing.ID)
		action = StampActionRemoved
	default:
		if err = s.stampRepo.Delete(ctx, existing.ID); err == nil {
			err = s.stampRepo.Create(ctx, &models.Stamp{PostID: postID, UserID: userID, StampType: stampType})
		}
		action = StampActionReplaced
	}
	if err != nil {
		return nil, err
	}

	counts, err := s.stampRepo.CountsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	middleware.StampToggles.WithLabelValues(action).Inc()
	return &ToggleResult{Action: action, Stamps: counts}, nil
}

// GetStamps returns the post's counts and, for a logged-in viewer, which
// stamp they have set.
func (s *StampService) GetStamps(ctx context.Context, postID, viewerID string) (*StampSummary, error) {
	if err := s.ensureStampable(ctx, postID, viewerID); err != nil {
		return nil, err
	}

	counts, err := s.stampRepo.CountsForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	summary := &StampSummary{Stamps: counts}
	if viewerID != "" {
		existing, err := s.stampRepo.GetForPostAndUser(ctx, postID, viewerID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			summary.MyStamp = &existing.StampType
		}
	}
	return summary, nil
}

// ensureStampable checks the post exists and is visible to the caller.
// Hidden posts answer not-found for everyone but their owner, so the
// stamp endpoints do not reveal that a hidden post exists.
func (s *StampService) ensureStampable(ctx context.Context, postID, userID string) error {
	post, err := s.postRepo.GetByID(ctx, postID, "")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError("post")
	}
	if err != nil {
		return err
	}
	if !post.IsPublic && post.UserID != userID {
		return models.NewNotFoundError("post")
	}
	return nil
}
