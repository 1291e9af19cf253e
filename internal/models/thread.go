package models

import "time"

// Thread is a titled discussion inside one category. The category is fixed
// at creation time.
//
// PostCount counts every post ever published in the thread, including ones
// that were later soft-deleted. Deletes intentionally do not decrement it so
// reply numbering stays stable for permalinks.
type Thread struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	CategoryID     uint      `gorm:"not null;index" json:"category_id"`
	Category       *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	AuthorID       uint      `gorm:"not null;index" json:"author_id"`
	Author         *User     `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Title          string    `gorm:"size:300;not null" json:"title"`
	Slug           string    `gorm:"size:320;not null;uniqueIndex" json:"slug"`
	IsPinned       bool      `gorm:"not null;default:false" json:"is_pinned"`
	IsLocked       bool      `gorm:"not null;default:false" json:"is_locked"`
	PostCount      int       `gorm:"not null;default:0" json:"post_count"`
	ViewCount      int       `gorm:"not null;default:0" json:"view_count"`
	LastActivityAt time.Time `gorm:"index" json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Thread) TableName() string {
	return "forum_threads"
}
