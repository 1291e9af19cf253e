package service

import (
	"context"
	"errors"
	"strings"

	"guildhall/internal/models"
	"guildhall/internal/repository"
	"guildhall/internal/rewards"

	"gorm.io/gorm"
)

type PostService struct {
	postRepo   repository.PostRepository
	threadRepo repository.ThreadRepository
	rewardHook rewards.Hook
}

type CreatePostInput struct {
	Actor    models.Actor
	ThreadID uint
	Content  string
	ParentID *uint
}

type ListPostsInput struct {
	ThreadID uint
	Limit    int
	Offset   int
}

type UpdatePostInput struct {
	Actor   models.Actor
	PostID  uint
	Content string
}

func NewPostService(
	postRepo repository.PostRepository,
	threadRepo repository.ThreadRepository,
	rewardHook rewards.Hook,
) *PostService {
	return &PostService{
		postRepo:   postRepo,
		threadRepo: threadRepo,
		rewardHook: rewardHook,
	}
}

func validateContent(content string) error {
	if content == "" {
		return models.NewValidationError("Content is required")
	}
	if len(content) > maxContentLen {
		return models.NewValidationError("Content too long (max 50000 characters)")
	}
	return nil
}

// CreatePost adds a post to a thread. Replies nest exactly one level: a
// parent must itself be a top-level post in the same thread. Posting to a
// locked thread is a conflict, not a permission failure, because the lock is
// thread state rather than an authorization rule.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	content := strings.TrimSpace(in.Content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	thread, err := s.threadRepo.GetByID(ctx, in.ThreadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", in.ThreadID)
		}
		return nil, err
	}
	if thread.IsLocked {
		return nil, models.NewConflictError("Thread is locked")
	}

	if in.ParentID != nil {
		parent, err := s.postRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, models.NewNotFoundError("Post", *in.ParentID)
			}
			return nil, err
		}
		if parent.ThreadID != in.ThreadID {
			return nil, models.NewValidationError("Parent post belongs to a different thread")
		}
		if parent.ParentID != nil {
			return nil, models.NewValidationError("Replies cannot be nested more than one level deep")
		}
	}

	post := &models.Post{
		ThreadID: in.ThreadID,
		AuthorID: in.Actor.UserID,
		Content:  content,
		ParentID: in.ParentID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}

	s.rewardHook.Notify(ctx, in.Actor.UserID, rewards.EventPostCreation, post.ID)
	return post, nil
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", id)
		}
		return nil, err
	}
	return post, nil
}

// ListPosts returns the thread's top-level posts in posting order, each
// carrying its reply count.
func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, int64, error) {
	if _, err := s.threadRepo.GetByID(ctx, in.ThreadID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, models.NewNotFoundError("Thread", in.ThreadID)
		}
		return nil, 0, err
	}
	return s.postRepo.ListTopLevel(ctx, in.ThreadID, in.Limit, in.Offset)
}

// ListReplies is unpaginated; one-level nesting keeps reply volumes small.
func (s *PostService) ListReplies(ctx context.Context, postID uint) ([]*models.Post, error) {
	if _, err := s.GetPost(ctx, postID); err != nil {
		return nil, err
	}
	return s.postRepo.ListReplies(ctx, postID)
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.GetPost(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if !in.Actor.CanModify(post.AuthorID) {
		return nil, models.NewPermissionDeniedError("You can only update your own posts")
	}
	if post.Status != models.PostStatusPublished {
		return nil, models.NewConflictError("Post is not editable")
	}

	thread, err := s.threadRepo.GetByID(ctx, post.ThreadID)
	if err != nil {
		return nil, err
	}
	if thread.IsLocked {
		return nil, models.NewConflictError("Thread is locked")
	}

	content := strings.TrimSpace(in.Content)
	if err := validateContent(content); err != nil {
		return nil, err
	}

	post.Content = content
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost soft-deletes: the row survives with placeholder content so
// thread numbering and the thread's post_count are untouched.
func (s *PostService) DeletePost(ctx context.Context, actor models.Actor, postID uint) error {
	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}

	if !actor.CanModify(post.AuthorID) {
		return models.NewPermissionDeniedError("You can only delete your own posts")
	}
	if post.Status == models.PostStatusDeleted {
		return models.NewConflictError("Post is already deleted")
	}

	return s.postRepo.SoftDelete(ctx, postID)
}

// HidePost is an admin moderation override. Hidden posts disappear from
// listings and search but keep their original content for a later unhide.
func (s *PostService) HidePost(ctx context.Context, actor models.Actor, postID uint) error {
	return s.setModerationStatus(ctx, actor, postID, models.PostStatusHidden)
}

// UnhidePost restores a hidden post to published.
func (s *PostService) UnhidePost(ctx context.Context, actor models.Actor, postID uint) error {
	return s.setModerationStatus(ctx, actor, postID, models.PostStatusPublished)
}

func (s *PostService) setModerationStatus(ctx context.Context, actor models.Actor, postID uint, status models.PostStatus) error {
	if !actor.IsAdmin {
		return models.NewPermissionDeniedError("Only admins can moderate posts")
	}

	post, err := s.GetPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusDeleted {
		return models.NewConflictError("Deleted posts cannot be moderated")
	}

	return s.postRepo.SetStatus(ctx, postID, status)
}
