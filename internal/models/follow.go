package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Follow represents one user following another.
// The (follower_id, followee_id) pair is unique.
type Follow struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	FollowerID string    `gorm:"size:36;not null;uniqueIndex:idx_follow_pair" json:"follower_id"`
	FolloweeID string    `gorm:"size:36;not null;uniqueIndex:idx_follow_pair" json:"followee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// BeforeCreate assigns an opaque UUID primary key when one is not set.
func (f *Follow) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
