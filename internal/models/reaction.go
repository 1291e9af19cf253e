package models

import "time"

// Reaction is an existence-based marker: at most one row may exist per
// (user, post, reaction type). Counts are always derived by grouping rows,
// never stored.
type Reaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"not null;uniqueIndex:idx_reaction_identity" json:"user_id"`
	PostID       uint      `gorm:"not null;uniqueIndex:idx_reaction_identity;index" json:"post_id"`
	ReactionType string    `gorm:"size:40;not null;uniqueIndex:idx_reaction_identity" json:"reaction_type"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Reaction) TableName() string {
	return "forum_reactions"
}
