package models

import "time"

// PostStatus is the lifecycle state of a post.
type PostStatus string

const (
	// PostStatusPublished indicates a post is visible.
	PostStatusPublished PostStatus = "published"
	// PostStatusHidden indicates a post was hidden by an admin override.
	PostStatusHidden PostStatus = "hidden"
	// PostStatusDeleted indicates a soft-deleted post. The row is kept so
	// thread numbering stays stable.
	PostStatusDeleted PostStatus = "deleted"
)

// DeletedPostPlaceholder replaces the content of soft-deleted posts.
const DeletedPostPlaceholder = "[This post has been deleted]"

// Post is a single contribution to a thread. ParentID is nil for top-level
// posts; replies nest exactly one level deep, enforced at write time.
type Post struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	ThreadID   uint       `gorm:"not null;index" json:"thread_id"`
	Thread     *Thread    `gorm:"foreignKey:ThreadID" json:"thread,omitempty"`
	AuthorID   uint       `gorm:"not null;index" json:"author_id"`
	Author     *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content    string     `gorm:"type:text;not null" json:"content"`
	Status     PostStatus `gorm:"type:varchar(20);not null;default:'published';index" json:"status"`
	IsSolution bool       `gorm:"not null;default:false" json:"is_solution"`
	ParentID   *uint      `gorm:"index" json:"parent_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	// ReplyCount is not persisted; computed at query time
	ReplyCount int `gorm:"->;-:migration" json:"reply_count"`
}

// TableName specifies the table name for GORM.
func (Post) TableName() string {
	return "forum_posts"
}
