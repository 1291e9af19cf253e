package service

import (
	"context"
	"errors"
	"strings"

	"guildhall/internal/models"
	"guildhall/internal/repository"

	"gorm.io/gorm"
)

const maxReactionTypeLen = 32

type ReactionService struct {
	reactionRepo repository.ReactionRepository
	postRepo     repository.PostRepository
}

// ToggleResult reports the net effect of a toggle call.
type ToggleResult struct {
	Applied bool             `json:"applied"`
	Counts  map[string]int64 `json:"counts"`
}

func NewReactionService(
	reactionRepo repository.ReactionRepository,
	postRepo repository.PostRepository,
) *ReactionService {
	return &ReactionService{
		reactionRepo: reactionRepo,
		postRepo:     postRepo,
	}
}

// ToggleReaction is the single reaction primitive: it adds the reaction when
// absent and removes it when present. Callers never add or remove directly.
func (s *ReactionService) ToggleReaction(ctx context.Context, userID, postID uint, reactionType string) (*ToggleResult, error) {
	reactionType = strings.ToLower(strings.TrimSpace(reactionType))
	if reactionType == "" {
		return nil, models.NewValidationError("Reaction type is required")
	}
	if len(reactionType) > maxReactionTypeLen {
		return nil, models.NewValidationError("Reaction type too long (max 32 characters)")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if post.Status != models.PostStatusPublished {
		return nil, models.NewConflictError("Post cannot be reacted to")
	}

	applied, err := s.reactionRepo.Toggle(ctx, userID, postID, reactionType)
	if err != nil {
		return nil, err
	}

	counts, err := s.reactionRepo.CountsByType(ctx, postID)
	if err != nil {
		return nil, err
	}
	return &ToggleResult{Applied: applied, Counts: counts}, nil
}

func (s *ReactionService) CountsByType(ctx context.Context, postID uint) (map[string]int64, error) {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	return s.reactionRepo.CountsByType(ctx, postID)
}
