package service

import (
	"context"
	"strings"
	"testing"

	"guildhall/internal/models"
	"guildhall/internal/rewards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	svc := NewPostService(noopPostRepo(), noopThreadRepo(), rewards.NopHook{})
	ctx := context.Background()

	tests := []struct {
		name  string
		input CreatePostInput
	}{
		{
			name:  "empty content",
			input: CreatePostInput{Actor: models.Actor{UserID: 1}, ThreadID: 1},
		},
		{
			name:  "whitespace only content",
			input: CreatePostInput{Actor: models.Actor{UserID: 1}, ThreadID: 1, Content: "   "},
		},
		{
			name:  "content too long",
			input: CreatePostInput{Actor: models.Actor{UserID: 1}, ThreadID: 1, Content: strings.Repeat("x", 50001)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.CreatePost(ctx, tc.input)
			assertValidationError(t, err)
		})
	}
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()

	hook := &recordingHook{}
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, post *models.Post) error {
		post.ID = 11
		return nil
	}
	svc := NewPostService(postRepo, noopThreadRepo(), hook)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{
		Actor:    models.Actor{UserID: 3},
		ThreadID: 1,
		Content:  "Try the shutoff valve first",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(3), post.AuthorID)
	assert.Nil(t, post.ParentID)

	events := hook.recorded()
	require.Len(t, events, 1)
	assert.Equal(t, recordedEvent{UserID: 3, Kind: rewards.EventPostCreation, SubjectID: 11}, events[0])
}

func TestPostService_CreatePost_LockedThread(t *testing.T) {
	t.Parallel()

	threadRepo := noopThreadRepo()
	threadRepo.getByIDFn = func(_ context.Context, id uint) (*models.Thread, error) {
		return &models.Thread{ID: id, IsLocked: true}, nil
	}
	created := false
	postRepo := noopPostRepo()
	postRepo.createFn = func(_ context.Context, _ *models.Post) error {
		created = true
		return nil
	}
	svc := NewPostService(postRepo, threadRepo, rewards.NopHook{})

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Actor: models.Actor{UserID: 1}, ThreadID: 1, Content: "too late",
	})
	assertConflictError(t, err)
	assert.False(t, created, "locked thread must not gain posts")
}

func TestPostService_CreatePost_MissingThread(t *testing.T) {
	t.Parallel()

	threadRepo := noopThreadRepo()
	threadRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Thread, error) {
		return nil, gorm.ErrRecordNotFound
	}
	svc := NewPostService(noopPostRepo(), threadRepo, rewards.NopHook{})

	_, err := svc.CreatePost(context.Background(), CreatePostInput{
		Actor: models.Actor{UserID: 1}, ThreadID: 404, Content: "hello there",
	})
	assertNotFoundError(t, err)
}

func TestPostService_CreatePost_ReplyDepth(t *testing.T) {
	t.Parallel()

	parentOfParent := uint(1)

	tests := []struct {
		name   string
		parent *models.Post
		check  func(*testing.T, error)
	}{
		{
			name:   "reply to top-level post allowed",
			parent: &models.Post{ID: 5, ThreadID: 1, Status: models.PostStatusPublished},
			check:  func(t *testing.T, err error) { require.NoError(t, err) },
		},
		{
			name:   "reply to a reply rejected",
			parent: &models.Post{ID: 5, ThreadID: 1, ParentID: &parentOfParent, Status: models.PostStatusPublished},
			check:  assertValidationError,
		},
		{
			name:   "parent in different thread rejected",
			parent: &models.Post{ID: 5, ThreadID: 2, Status: models.PostStatusPublished},
			check:  assertValidationError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			postRepo := noopPostRepo()
			postRepo.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
				return tc.parent, nil
			}
			svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})

			parentID := tc.parent.ID
			_, err := svc.CreatePost(context.Background(), CreatePostInput{
				Actor: models.Actor{UserID: 1}, ThreadID: 1, Content: "a reply", ParentID: &parentID,
			})
			tc.check(t, err)
		})
	}
}

func TestPostService_UpdatePost(t *testing.T) {
	t.Parallel()

	t.Run("non author denied", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, ThreadID: 1, AuthorID: 2, Status: models.PostStatusPublished}, nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			Actor: models.Actor{UserID: 1}, PostID: 1, Content: "edited",
		})
		assertPermissionDeniedError(t, err)
	})

	t.Run("locked thread blocks edit", func(t *testing.T) {
		t.Parallel()
		threadRepo := noopThreadRepo()
		threadRepo.getByIDFn = func(_ context.Context, id uint) (*models.Thread, error) {
			return &models.Thread{ID: id, IsLocked: true}, nil
		}
		svc := NewPostService(noopPostRepo(), threadRepo, rewards.NopHook{})
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			Actor: models.Actor{UserID: 1}, PostID: 1, Content: "edited",
		})
		assertConflictError(t, err)
	})

	t.Run("deleted post not editable", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, ThreadID: 1, AuthorID: 1, Status: models.PostStatusDeleted}, nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		_, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			Actor: models.Actor{UserID: 1}, PostID: 1, Content: "edited",
		})
		assertConflictError(t, err)
	})

	t.Run("author updates content", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		updated := false
		postRepo.updateFn = func(_ context.Context, _ *models.Post) error {
			updated = true
			return nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		post, err := svc.UpdatePost(context.Background(), UpdatePostInput{
			Actor: models.Actor{UserID: 1}, PostID: 1, Content: "  edited content  ",
		})
		require.NoError(t, err)
		assert.True(t, updated)
		assert.Equal(t, "edited content", post.Content)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()

	t.Run("author soft deletes", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		softDeleted := false
		postRepo.softDeleteFn = func(_ context.Context, _ uint) error {
			softDeleted = true
			return nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		require.NoError(t, svc.DeletePost(context.Background(), models.Actor{UserID: 1}, 1))
		assert.True(t, softDeleted)
	})

	t.Run("non author denied", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 2, Status: models.PostStatusPublished}, nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		err := svc.DeletePost(context.Background(), models.Actor{UserID: 1}, 1)
		assertPermissionDeniedError(t, err)
	})

	t.Run("double delete conflicts", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, AuthorID: 1, Status: models.PostStatusDeleted}, nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		err := svc.DeletePost(context.Background(), models.Actor{UserID: 1}, 1)
		assertConflictError(t, err)
	})
}

func TestPostService_Moderation(t *testing.T) {
	t.Parallel()

	t.Run("non admin denied", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopThreadRepo(), rewards.NopHook{})
		assertPermissionDeniedError(t, svc.HidePost(context.Background(), models.Actor{UserID: 1}, 1))
		assertPermissionDeniedError(t, svc.UnhidePost(context.Background(), models.Actor{UserID: 1}, 1))
	})

	t.Run("admin hides and unhides", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		var statuses []models.PostStatus
		postRepo.setStatusFn = func(_ context.Context, _ uint, status models.PostStatus) error {
			statuses = append(statuses, status)
			return nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		admin := models.Actor{UserID: 1, IsAdmin: true}

		require.NoError(t, svc.HidePost(context.Background(), admin, 1))
		require.NoError(t, svc.UnhidePost(context.Background(), admin, 1))
		assert.Equal(t, []models.PostStatus{models.PostStatusHidden, models.PostStatusPublished}, statuses)
	})

	t.Run("deleted post not moderatable", func(t *testing.T) {
		t.Parallel()
		postRepo := noopPostRepo()
		postRepo.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, Status: models.PostStatusDeleted}, nil
		}
		svc := NewPostService(postRepo, noopThreadRepo(), rewards.NopHook{})
		err := svc.HidePost(context.Background(), models.Actor{UserID: 1, IsAdmin: true}, 1)
		assertConflictError(t, err)
	})
}
