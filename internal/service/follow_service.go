package service

import (
	"context"
	"errors"

	"questlog/internal/models"
	"questlog/internal/repository"

	"gorm.io/gorm"
)

// FollowService manages follow relationships between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow adds a follow edge. Following an already-followed user succeeds
// without change.
func (s *FollowService) Follow(ctx context.Context, followerID, followeeID string) error {
	if followerID == followeeID {
		return models.NewValidationError("you cannot follow yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, followeeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("user")
		}
		return err
	}

	return s.followRepo.Follow(ctx, followerID, followeeID)
}

// Unfollow removes a follow edge. Removing an absent edge succeeds.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	return s.followRepo.Unfollow(ctx, followerID, followeeID)
}

// IsFollowing reports whether follower currently follows followee.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return s.followRepo.IsFollowing(ctx, followerID, followeeID)
}
