package repository

import (
	"context"

	"guildhall/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	Create(ctx context.Context, poll *models.ThreadPoll) error
	GetByThread(ctx context.Context, threadID uint) (*models.ThreadPoll, error)
	Vote(ctx context.Context, pollID, optionID, userID uint) error
	UserVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error)
	OptionBelongsToPoll(ctx context.Context, pollID, optionID uint) (bool, error)
}

type pollRepository struct {
	db *gorm.DB
}

// NewPollRepository creates a new poll repository
func NewPollRepository(db *gorm.DB) PollRepository {
	return &pollRepository{db: db}
}

// Create inserts the poll and its options in one transaction. The unique
// index on thread_id rejects a second poll for the same thread.
func (r *pollRepository) Create(ctx context.Context, poll *models.ThreadPoll) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(poll).Error
	})
}

func (r *pollRepository) GetByThread(ctx context.Context, threadID uint) (*models.ThreadPoll, error) {
	var poll models.ThreadPoll
	err := r.db.WithContext(ctx).
		Preload("Options", func(db *gorm.DB) *gorm.DB {
			return db.Select("forum_poll_options.*, " +
				"(SELECT COUNT(*) FROM forum_poll_votes WHERE forum_poll_votes.option_id = forum_poll_options.id) as vote_count").
				Order("forum_poll_options.position ASC")
		}).
		Where("thread_id = ?", threadID).
		First(&poll).Error
	if err != nil {
		return nil, err
	}
	return &poll, nil
}

// Vote upserts the user's choice. A re-vote moves the vote to the new option
// instead of adding a second row.
func (r *pollRepository) Vote(ctx context.Context, pollID, optionID, userID uint) error {
	vote := models.PollVote{
		PollID:   pollID,
		OptionID: optionID,
		UserID:   userID,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "poll_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"option_id"}),
		}).
		Create(&vote).Error
}

func (r *pollRepository) UserVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error) {
	var vote models.PollVote
	err := r.db.WithContext(ctx).
		Where("poll_id = ? AND user_id = ?", pollID, userID).
		First(&vote).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

func (r *pollRepository) OptionBelongsToPoll(ctx context.Context, pollID, optionID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.PollOption{}).
		Where("id = ? AND poll_id = ?", optionID, pollID).
		Count(&count).Error
	return count > 0, err
}
