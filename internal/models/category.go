package models

import "time"

// Category is an admin-managed grouping of threads. Categories are
// soft-deactivated, never hard-deleted, once threads reference them.
type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:120;not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Slug         string    `gorm:"size:140;not null;uniqueIndex" json:"slug"`
	DisplayOrder int       `gorm:"not null;default:0" json:"display_order"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// ThreadCount is not persisted; computed at query time
	ThreadCount int `gorm:"->;-:migration" json:"thread_count"`
	// PostCount is not persisted; computed at query time
	PostCount int `gorm:"->;-:migration" json:"post_count"`
}

// TableName specifies the table name for GORM.
func (Category) TableName() string {
	return "forum_categories"
}
