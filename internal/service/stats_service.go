package service

import (
	"context"
	"errors"

	"guildhall/internal/cache"
	"guildhall/internal/models"
	"guildhall/internal/observability"
	"guildhall/internal/repository"

	"gorm.io/gorm"
)

// StatsService aggregates forum-wide and per-user counters. Results are
// served through a short Redis cache (60s TTL), so readers can observe stats
// up to one minute stale. Without Redis every call recomputes.
type StatsService struct {
	categoryRepo repository.CategoryRepository
	threadRepo   repository.ThreadRepository
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	userRepo     repository.UserRepository
}

func NewStatsService(
	categoryRepo repository.CategoryRepository,
	threadRepo repository.ThreadRepository,
	postRepo repository.PostRepository,
	reactionRepo repository.ReactionRepository,
	userRepo repository.UserRepository,
) *StatsService {
	return &StatsService{
		categoryRepo: categoryRepo,
		threadRepo:   threadRepo,
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		userRepo:     userRepo,
	}
}

func (s *StatsService) ForumStats(ctx context.Context) (*models.ForumStats, error) {
	var stats models.ForumStats
	hit, err := cache.Aside(ctx, cache.ForumStatsKey, &stats, cache.StatsTTL, func() error {
		fetched, fetchErr := s.computeForumStats(ctx)
		if fetchErr != nil {
			return fetchErr
		}
		stats = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		observability.StatsCacheHits.Inc()
	}
	return &stats, nil
}

func (s *StatsService) computeForumStats(ctx context.Context) (*models.ForumStats, error) {
	defer observability.TrackQuery("aggregate", "forum_stats")()

	stats := &models.ForumStats{}
	var err error

	if stats.CategoryCount, err = s.categoryRepo.CountActive(ctx); err != nil {
		return nil, err
	}
	if stats.ThreadCount, err = s.threadRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PostCount, err = s.postRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.UserCount, err = s.userRepo.Count(ctx); err != nil {
		return nil, err
	}
	if stats.LatestUser, err = s.userRepo.Latest(ctx); err != nil {
		return nil, err
	}
	if stats.MostActiveCategory, err = s.categoryRepo.MostActive(ctx); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *StatsService) UserStats(ctx context.Context, userID uint) (*models.UserForumStats, error) {
	var stats models.UserForumStats
	hit, err := cache.Aside(ctx, cache.UserStatsKey(userID), &stats, cache.UserStatsTTL, func() error {
		fetched, fetchErr := s.computeUserStats(ctx, userID)
		if fetchErr != nil {
			return fetchErr
		}
		stats = *fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	if hit {
		observability.StatsCacheHits.Inc()
	}
	return &stats, nil
}

func (s *StatsService) computeUserStats(ctx context.Context, userID uint) (*models.UserForumStats, error) {
	defer observability.TrackQuery("aggregate", "user_stats")()

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("User", userID)
		}
		return nil, err
	}

	stats := &models.UserForumStats{
		UserID:     userID,
		JoinDate:   user.CreatedAt,
		Reputation: user.Reputation,
	}
	if stats.PostCount, err = s.postRepo.CountByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.ThreadCount, err = s.threadRepo.CountByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.ReactionCount, err = s.reactionRepo.CountReceivedByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	if stats.SolutionCount, err = s.postRepo.CountSolutionsByAuthor(ctx, userID); err != nil {
		return nil, err
	}
	return stats, nil
}
