package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxPostImages is the maximum number of image URLs a post may carry.
const MaxPostImages = 4

// Bounds for effort_score and excitement_score.
const (
	MinScore = 1
	MaxScore = 5
)

// Post represents a quest reflection published by a student.
//
// ImageURLs is persisted as a single comma-delimited column (the row store
// is flat); ImageURLList is the expanded form that handlers serialize.
// The stamp count and my_stamp fields are not persisted; they are SELECT
// aliases computed per query and folded into Stamps by the repository.
type Post struct {
	ID              string `gorm:"primaryKey;size:36" json:"id"`
	UserID          string `gorm:"size:36;not null;index" json:"user_id"`
	User            *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	QuestID         string `gorm:"size:36;not null;index" json:"quest_id"`
	Title           string `json:"title"`
	Body            string `gorm:"type:text" json:"body"`
	ImageURLs       string `gorm:"column:image_urls" json:"-"`
	EffortScore     int    `gorm:"not null" json:"effort_score"`
	ExcitementScore int    `gorm:"not null" json:"excitement_score"`
	IsPublic        bool   `gorm:"not null;default:true" json:"is_public"`
	AllowPromotion  bool   `gorm:"not null;default:false" json:"allow_promotion"`

	ImageURLList []string `gorm:"-" json:"image_urls"`

	ClapCount  int          `gorm:"->;-:migration" json:"-"`
	HeartCount int          `gorm:"->;-:migration" json:"-"`
	EyeCount   int          `gorm:"->;-:migration" json:"-"`
	MyStamp    *string      `gorm:"->;-:migration" json:"my_stamp"`
	Stamps     *StampCounts `gorm:"-" json:"stamps,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns an opaque UUID primary key when one is not set.
func (p *Post) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// BeforeSave folds the expanded image URL list back into the delimited
// column so callers only ever deal with the slice form.
func (p *Post) BeforeSave(tx *gorm.DB) error {
	if p.ImageURLList != nil {
		p.ImageURLs = JoinImageURLs(p.ImageURLList)
	}
	return nil
}

// SplitImageURLs expands the delimited image_urls column into an ordered
// slice, dropping empty entries. It always returns a non-nil slice so the
// JSON form is [] rather than null.
func SplitImageURLs(s string) []string {
	urls := []string{}
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			urls = append(urls, trimmed)
		}
	}
	return urls
}

// JoinImageURLs is the inverse of SplitImageURLs.
func JoinImageURLs(urls []string) string {
	cleaned := make([]string, 0, len(urls))
	for _, u := range urls {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
