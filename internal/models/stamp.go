package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Stamp types. A user holds at most one stamp per post at any time.
const (
	StampClap  = "clap"
	StampHeart = "heart"
	StampEye   = "eye"
)

// IsValidStampType reports whether t is one of the known stamp types.
func IsValidStampType(t string) bool {
	switch t {
	case StampClap, StampHeart, StampEye:
		return true
	}
	return false
}

// Stamp represents a user's reaction on a post.
// The (post_id, user_id) pair is unique; switching stamp type replaces the
// row, and un-reacting removes it outright (no soft delete).
type Stamp struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	PostID    string    `gorm:"size:36;not null;uniqueIndex:idx_stamp_post_user" json:"post_id"`
	UserID    string    `gorm:"size:36;not null;uniqueIndex:idx_stamp_post_user" json:"user_id"`
	StampType string    `gorm:"size:16;not null" json:"stamp_type"`
	CreatedAt time.Time `json:"created_at"`
}

// BeforeCreate assigns an opaque UUID primary key when one is not set.
func (s *Stamp) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// StampCounts aggregates the reactions on a single post.
type StampCounts struct {
	Clap  int `json:"clap"`
	Heart int `json:"heart"`
	Eye   int `json:"eye"`
	Total int `json:"total"`
}
