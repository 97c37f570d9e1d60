package models

import "time"

// LimitDateLayout is the calendar-day key format used by the daily post
// limit, derived from the UTC date portion of an ISO timestamp.
const LimitDateLayout = "2006-01-02"

// PostLimit tracks how many posts a user made on a calendar day. One row
// per (user_id, date); its existence is what gates the one-post-per-day
// rule, so post_count stays at 1 in practice.
type PostLimit struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"user_id"`
	Date      string    `gorm:"primaryKey;size:10" json:"date"`
	PostCount int       `gorm:"not null;default:0" json:"post_count"`
	CreatedAt time.Time `json:"created_at"`
}

// LimitDate returns t's UTC calendar day in the row-key format.
func LimitDate(t time.Time) string {
	return t.UTC().Format(LimitDateLayout)
}
