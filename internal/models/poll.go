package models

import "time"

// ThreadPoll is an optional poll attached to a thread.
type ThreadPoll struct {
	ID        uint         `gorm:"primaryKey" json:"id"`
	ThreadID  uint         `gorm:"not null;uniqueIndex" json:"thread_id"`
	Question  string       `gorm:"size:300;not null" json:"question"`
	Options   []PollOption `gorm:"foreignKey:PollID" json:"options,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (ThreadPoll) TableName() string {
	return "forum_polls"
}

// PollOption is one selectable answer of a poll.
type PollOption struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;index" json:"poll_id"`
	Label     string    `gorm:"size:200;not null" json:"label"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`

	// VoteCount is not persisted; computed at query time
	VoteCount int `gorm:"->;-:migration" json:"vote_count"`
}

// TableName specifies the table name for GORM.
func (PollOption) TableName() string {
	return "forum_poll_options"
}

// PollVote records a user's single choice in a poll. Re-voting moves the
// vote; at most one row exists per (poll, user).
type PollVote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PollID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote_identity" json:"poll_id"`
	OptionID  uint      `gorm:"not null;index" json:"option_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_poll_vote_identity" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for GORM.
func (PollVote) TableName() string {
	return "forum_poll_votes"
}
