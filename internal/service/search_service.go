package service

import (
	"context"
	"strings"

	"guildhall/internal/models"
	"guildhall/internal/repository"
)

// SearchService runs case-insensitive substring matching over thread titles
// and published post bodies. Threads and posts page independently; the two
// result sets are never merged or ranked against each other.
type SearchService struct {
	threadRepo repository.ThreadRepository
	postRepo   repository.PostRepository
}

type SearchInput struct {
	Query        string
	ThreadLimit  int
	ThreadOffset int
	PostLimit    int
	PostOffset   int
}

func NewSearchService(
	threadRepo repository.ThreadRepository,
	postRepo repository.PostRepository,
) *SearchService {
	return &SearchService{
		threadRepo: threadRepo,
		postRepo:   postRepo,
	}
}

func (s *SearchService) Search(ctx context.Context, in SearchInput) (*models.SearchResults, error) {
	query := strings.TrimSpace(in.Query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	if len(query) > 200 {
		return nil, models.NewValidationError("Search query too long (max 200 characters)")
	}

	results := &models.SearchResults{
		Threads: []*models.Thread{},
		Posts:   []*models.Post{},
	}

	threads, threadTotal, err := s.threadRepo.SearchByTitle(ctx, query, in.ThreadLimit, in.ThreadOffset)
	if err != nil {
		return nil, err
	}
	posts, postTotal, err := s.postRepo.SearchByContent(ctx, query, in.PostLimit, in.PostOffset)
	if err != nil {
		return nil, err
	}

	if threads != nil {
		results.Threads = threads
	}
	results.ThreadTotal = threadTotal
	if posts != nil {
		results.Posts = posts
	}
	results.PostTotal = postTotal
	return results, nil
}
