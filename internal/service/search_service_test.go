package service

import (
	"context"
	"strings"
	"testing"

	"guildhall/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService_Search_Validation(t *testing.T) {
	t.Parallel()

	svc := NewSearchService(noopThreadRepo(), noopPostRepo())

	_, err := svc.Search(context.Background(), SearchInput{Query: "  "})
	assertValidationError(t, err)

	_, err = svc.Search(context.Background(), SearchInput{Query: strings.Repeat("x", 201)})
	assertValidationError(t, err)
}

func TestSearchService_Search(t *testing.T) {
	t.Parallel()

	threadRepo := noopThreadRepo()
	threadRepo.searchByTitleFn = func(_ context.Context, query string, limit, offset int) ([]*models.Thread, int64, error) {
		assert.Equal(t, "leaky", query)
		assert.Equal(t, 20, limit)
		assert.Equal(t, 0, offset)
		return []*models.Thread{{ID: 1, Title: "Leaky faucet advice?"}}, 1, nil
	}
	postRepo := noopPostRepo()
	postRepo.searchByContentFn = func(_ context.Context, query string, limit, offset int) ([]*models.Post, int64, error) {
		assert.Equal(t, "leaky", query)
		assert.Equal(t, 10, limit)
		assert.Equal(t, 10, offset)
		return nil, 0, nil
	}

	svc := NewSearchService(threadRepo, postRepo)
	results, err := svc.Search(context.Background(), SearchInput{
		Query:        " leaky ",
		ThreadLimit:  20,
		ThreadOffset: 0,
		PostLimit:    10,
		PostOffset:   10,
	})
	require.NoError(t, err)

	require.Len(t, results.Threads, 1)
	assert.Equal(t, int64(1), results.ThreadTotal)
	assert.NotNil(t, results.Posts, "no matches yields an empty slice, not null")
	assert.Empty(t, results.Posts)
	assert.Zero(t, results.PostTotal)
}
