package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"guildhall/internal/middleware"
	"guildhall/internal/models"
	"guildhall/internal/repository"
	"guildhall/internal/rewards"
	"guildhall/internal/validation"

	"gorm.io/gorm"
)

const (
	minTitleLen   = 5
	maxTitleLen   = 300
	minContentLen = 10
	maxContentLen = 50000 // 50K characters
)

// slugRetries bounds create attempts when the random slug suffix collides.
const slugRetries = 3

type ThreadService struct {
	threadRepo   repository.ThreadRepository
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
	rewardHook   rewards.Hook
}

type CreateThreadInput struct {
	Actor      models.Actor
	CategoryID uint
	Title      string
	Content    string
}

type ListThreadsInput struct {
	CategoryID uint
	Limit      int
	Offset     int
}

type UpdateThreadInput struct {
	Actor    models.Actor
	ThreadID uint
	Title    string
}

func NewThreadService(
	threadRepo repository.ThreadRepository,
	categoryRepo repository.CategoryRepository,
	postRepo repository.PostRepository,
	rewardHook rewards.Hook,
) *ThreadService {
	return &ThreadService{
		threadRepo:   threadRepo,
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
		rewardHook:   rewardHook,
	}
}

func validateTitle(title string) error {
	if len(title) < minTitleLen {
		return models.NewValidationError("Title must be at least 5 characters")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 300 characters)")
	}
	return nil
}

// CreateThread creates a thread together with its opening post. The reward
// notification is best-effort: a failed delivery never rolls back the thread.
func (s *ThreadService) CreateThread(ctx context.Context, in CreateThreadInput) (*models.Thread, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if err := validateTitle(title); err != nil {
		return nil, err
	}
	if len(content) < minContentLen {
		return nil, models.NewValidationError("Content must be at least 10 characters")
	}
	if len(content) > maxContentLen {
		return nil, models.NewValidationError("Content too long (max 50000 characters)")
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", in.CategoryID)
		}
		return nil, err
	}
	if !category.IsActive {
		return nil, models.NewValidationError("Category is not accepting new threads")
	}

	thread := &models.Thread{
		CategoryID: in.CategoryID,
		AuthorID:   in.Actor.UserID,
		Title:      title,
	}

	// The random slug suffix makes collisions rare but not impossible;
	// regenerate and retry instead of checking with an extra query.
	for attempt := 0; ; attempt++ {
		thread.Slug = validation.Slugify(title)
		root := &models.Post{Content: content}
		err = s.threadRepo.CreateWithRootPost(ctx, thread, root)
		if err == nil {
			break
		}
		if attempt+1 >= slugRetries {
			return nil, err
		}
	}

	s.rewardHook.Notify(ctx, in.Actor.UserID, rewards.EventThreadCreation, thread.ID)
	return thread, nil
}

// GetThreadBySlug fetches a thread for display and bumps its view counter.
// The counter bump is best-effort.
func (s *ThreadService) GetThreadBySlug(ctx context.Context, slug string) (*models.Thread, error) {
	thread, err := s.threadRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", slug)
		}
		return nil, err
	}

	if err := s.threadRepo.IncrementViewCount(ctx, thread.ID); err != nil {
		middleware.Logger.WarnContext(ctx, "view count increment failed",
			slog.Uint64("thread_id", uint64(thread.ID)),
			slog.String("error", err.Error()),
		)
	} else {
		thread.ViewCount++
	}
	return thread, nil
}

func (s *ThreadService) GetThread(ctx context.Context, id uint) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", id)
		}
		return nil, err
	}
	return thread, nil
}

func (s *ThreadService) ListThreads(ctx context.Context, in ListThreadsInput) ([]*models.Thread, int64, error) {
	if _, err := s.categoryRepo.GetByID(ctx, in.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, models.NewNotFoundError("Category", in.CategoryID)
		}
		return nil, 0, err
	}
	return s.threadRepo.ListByCategory(ctx, in.CategoryID, in.Limit, in.Offset)
}

func (s *ThreadService) UpdateThread(ctx context.Context, in UpdateThreadInput) (*models.Thread, error) {
	thread, err := s.threadRepo.GetByID(ctx, in.ThreadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", in.ThreadID)
		}
		return nil, err
	}

	if !in.Actor.CanModify(thread.AuthorID) {
		return nil, models.NewPermissionDeniedError("You can only update your own threads")
	}

	title := strings.TrimSpace(in.Title)
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	if title != thread.Title {
		thread.Title = title
		thread.Slug = validation.Slugify(title)
	}

	if err := s.threadRepo.Update(ctx, thread); err != nil {
		return nil, err
	}
	return thread, nil
}

// DeleteThread hard-deletes the thread and cascades to its posts, reactions
// and poll. Distinct from post soft-deletion.
func (s *ThreadService) DeleteThread(ctx context.Context, actor models.Actor, threadID uint) error {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Thread", threadID)
		}
		return err
	}

	if !actor.CanModify(thread.AuthorID) {
		return models.NewPermissionDeniedError("You can only delete your own threads")
	}

	return s.threadRepo.Delete(ctx, threadID)
}

// PinThread toggles the pinned flag. Admin capability only.
func (s *ThreadService) PinThread(ctx context.Context, actor models.Actor, threadID uint, pinned bool) error {
	if !actor.IsAdmin {
		return models.NewPermissionDeniedError("Only admins can pin threads")
	}
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}
	return s.threadRepo.SetPinned(ctx, threadID, pinned)
}

// LockThread toggles the locked flag. Admin capability only. Locking is not
// retroactive: a post submission already past its lock check proceeds.
func (s *ThreadService) LockThread(ctx context.Context, actor models.Actor, threadID uint, locked bool) error {
	if !actor.IsAdmin {
		return models.NewPermissionDeniedError("Only admins can lock threads")
	}
	if _, err := s.GetThread(ctx, threadID); err != nil {
		return err
	}
	return s.threadRepo.SetLocked(ctx, threadID, locked)
}

// MarkSolution flags a post as the thread's accepted answer. Any previously
// flagged post loses the flag in the same transaction, so a reader never sees
// two solutions. The post's author gets the reward credit, not the marker.
func (s *ThreadService) MarkSolution(ctx context.Context, actor models.Actor, threadID, postID uint) (*models.Post, error) {
	thread, err := s.threadRepo.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Thread", threadID)
		}
		return nil, err
	}

	if !actor.CanModify(thread.AuthorID) {
		return nil, models.NewPermissionDeniedError("Only the thread author can mark a solution")
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Post", postID)
		}
		return nil, err
	}
	if post.ThreadID != threadID {
		return nil, models.NewValidationError("Post does not belong to this thread")
	}
	if post.Status != models.PostStatusPublished {
		return nil, models.NewValidationError("Only published posts can be marked as solution")
	}

	if err := s.postRepo.MarkSolution(ctx, threadID, postID); err != nil {
		return nil, err
	}
	post.IsSolution = true

	s.rewardHook.Notify(ctx, post.AuthorID, rewards.EventSolutionMarked, post.ID)
	return post, nil
}
