// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles. Moderators and admins may force-hide posts.
const (
	RoleStudent   = "student"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User statuses.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// User represents an account in the Questlog application. There is no
// password column: identity is established by email lookup and carried in
// a signed token afterwards.
type User struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Email       string         `gorm:"unique;not null" json:"email"`
	Role        string         `gorm:"not null;default:student" json:"role"`
	Status      string         `gorm:"not null;default:active" json:"status"`
	Nickname    string         `json:"nickname"`
	CreatedAt   time.Time      `json:"created_at"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque UUID primary key when one is not set.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

// CanModerate reports whether the user may perform moderator actions
// such as force-hiding a post.
func (u *User) CanModerate() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
