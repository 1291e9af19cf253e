package models

import "time"

// ForumStats is a derived, forum-wide read model. It is always recomputed
// from the stores and is never a source of truth.
type ForumStats struct {
	CategoryCount      int64     `json:"category_count"`
	ThreadCount        int64     `json:"thread_count"`
	PostCount          int64     `json:"post_count"`
	UserCount          int64     `json:"user_count"`
	LatestUser         *User     `json:"latest_user,omitempty"`
	MostActiveCategory *Category `json:"most_active_category,omitempty"`
}

// UserForumStats is a derived, per-user read model. Reputation is an
// externally-defined score that the engine only reports.
type UserForumStats struct {
	UserID        uint      `json:"user_id"`
	PostCount     int64     `json:"post_count"`
	ThreadCount   int64     `json:"thread_count"`
	ReactionCount int64     `json:"reaction_count"`
	SolutionCount int64     `json:"solution_count"`
	JoinDate      time.Time `json:"join_date"`
	Reputation    int       `json:"reputation"`
}

// SearchResults holds thread and post matches with independent pagination
// windows, never a merged result set.
type SearchResults struct {
	Threads     []*Thread `json:"threads"`
	ThreadTotal int64     `json:"thread_total"`
	Posts       []*Post   `json:"posts"`
	PostTotal   int64     `json:"post_total"`
}
