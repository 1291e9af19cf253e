package service

import (
	"context"
	"errors"
	"strings"

	"guildhall/internal/models"
	"guildhall/internal/repository"

	"gorm.io/gorm"
)

const (
	minPollOptions = 2
	maxPollOptions = 10
)

type PollService struct {
	pollRepo   repository.PollRepository
	threadRepo repository.ThreadRepository
}

type CreatePollInput struct {
	Actor    models.Actor
	ThreadID uint
	Question string
	Options  []string
}

func NewPollService(
	pollRepo repository.PollRepository,
	threadRepo repository.ThreadRepository,
) *PollService {
	return &PollService{
		pollRepo:   pollRepo,
		threadRepo: threadRepo,
	}
}

// CreatePoll attaches a poll to a thread. Only the thread author (or an
// admin) can do so, only once per thread, and only while the thread is open.
func (s *PollService) CreatePoll(ctx context.Context, in CreatePollInput) (*models.ThreadPoll, error) {
	question := strings.TrimSpace(in.Question)
	if question == "" {
		return nil, models.NewValidationError("Poll question is required")
	}
	if len(question) > maxTitleLen {
		return nil, models.NewValidationError("Poll question too long (max 300 characters)")
	}

	var options []string
	for _, opt := range in.Options {
		if trimmed := strings.TrimSpace(opt); trimmed != "" {
			options = append(options, trimmed)
		}
	}
	if len(options) < minPollOptions {
		return nil, models.NewValidationError("Poll must have at least two non-empty options")
	}
	if len(options) > maxPollOptions {
		return nil, models.NewValidationError("Poll cannot have more than 10 options")
	}

	thread, err := s.threadRepo.GetByID(ctx, in.ThreadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", in.ThreadID)
		}
		return nil, err
	}
	if !in.Actor.CanModify(thread.AuthorID) {
		return nil, models.NewPermissionDeniedError("Only the thread author can attach a poll")
	}
	if thread.IsLocked {
		return nil, models.NewConflictError("Thread is locked")
	}

	if existing, err := s.pollRepo.GetByThread(ctx, in.ThreadID); err == nil && existing != nil {
		return nil, models.NewConflictError("Thread already has a poll")
	} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	poll := &models.ThreadPoll{
		ThreadID: in.ThreadID,
		Question: question,
	}
	for i, label := range options {
		poll.Options = append(poll.Options, models.PollOption{Label: label, Position: i})
	}
	if err := s.pollRepo.Create(ctx, poll); err != nil {
		return nil, err
	}
	return poll, nil
}

// GetPollResults returns the poll with per-option vote counts and, when
// userID is non-zero, that user's current choice.
func (s *PollService) GetPollResults(ctx context.Context, threadID, userID uint) (*models.ThreadPoll, *models.PollVote, error) {
	poll, err := s.pollRepo.GetByThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, models.NewNotFoundError("Poll for thread", threadID)
		}
		return nil, nil, err
	}

	var vote *models.PollVote
	if userID != 0 {
		vote, err = s.pollRepo.UserVote(ctx, poll.ID, userID)
		if err != nil {
			return nil, nil, err
		}
	}
	return poll, vote, nil
}

// Vote records the user's choice. Voting again moves the vote to the new
// option; the per-(poll, user) unique index guarantees a single row.
func (s *PollService) Vote(ctx context.Context, actor models.Actor, threadID, optionID uint) (*models.ThreadPoll, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", threadID)
		}
		return nil, err
	}
	if thread.IsLocked {
		return nil, models.NewConflictError("Thread is locked")
	}

	poll, err := s.pollRepo.GetByThread(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Poll for thread", threadID)
		}
		return nil, err
	}

	belongs, err := s.pollRepo.OptionBelongsToPoll(ctx, poll.ID, optionID)
	if err != nil {
		return nil, err
	}
	if !belongs {
		return nil, models.NewValidationError("Invalid poll option")
	}

	if err := s.pollRepo.Vote(ctx, poll.ID, optionID, actor.UserID); err != nil {
		return nil, err
	}
	return s.pollRepo.GetByThread(ctx, threadID)
}
