package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"guildhall/internal/models"
	"guildhall/internal/rewards"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	createFn      func(context.Context, *models.Category) error
	getByIDFn     func(context.Context, uint) (*models.Category, error)
	getBySlugFn   func(context.Context, string) (*models.Category, error)
	listActiveFn  func(context.Context) ([]*models.Category, error)
	updateFn      func(context.Context, *models.Category) error
	countActiveFn func(context.Context) (int64, error)
	mostActiveFn  func(context.Context) (*models.Category, error)
}

func (s *categoryRepoStub) Create(ctx context.Context, c *models.Category) error {
	return s.createFn(ctx, c)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *categoryRepoStub) ListActive(ctx context.Context) ([]*models.Category, error) {
	return s.listActiveFn(ctx)
}
func (s *categoryRepoStub) Update(ctx context.Context, c *models.Category) error {
	return s.updateFn(ctx, c)
}
func (s *categoryRepoStub) CountActive(ctx context.Context) (int64, error) {
	return s.countActiveFn(ctx)
}
func (s *categoryRepoStub) MostActive(ctx context.Context) (*models.Category, error) {
	return s.mostActiveFn(ctx)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		createFn: func(_ context.Context, _ *models.Category) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) {
			return &models.Category{ID: id, IsActive: true}, nil
		},
		getBySlugFn: func(_ context.Context, _ string) (*models.Category, error) {
			return &models.Category{ID: 1, IsActive: true}, nil
		},
		listActiveFn:  func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Category) error { return nil },
		countActiveFn: func(_ context.Context) (int64, error) { return 0, nil },
		mostActiveFn:  func(_ context.Context) (*models.Category, error) { return nil, nil },
	}
}

// threadRepoStub is a stub for repository.ThreadRepository.
type threadRepoStub struct {
	createWithRootPostFn func(context.Context, *models.Thread, *models.Post) error
	getByIDFn            func(context.Context, uint) (*models.Thread, error)
	getBySlugFn          func(context.Context, string) (*models.Thread, error)
	listByCategoryFn     func(context.Context, uint, int, int) ([]*models.Thread, int64, error)
	updateFn             func(context.Context, *models.Thread) error
	deleteFn             func(context.Context, uint) error
	setPinnedFn          func(context.Context, uint, bool) error
	setLockedFn          func(context.Context, uint, bool) error
	incrementViewCountFn func(context.Context, uint) error
	searchByTitleFn      func(context.Context, string, int, int) ([]*models.Thread, int64, error)
	countFn              func(context.Context) (int64, error)
	countByAuthorFn      func(context.Context, uint) (int64, error)
}

func (s *threadRepoStub) CreateWithRootPost(ctx context.Context, thread *models.Thread, post *models.Post) error {
	return s.createWithRootPostFn(ctx, thread, post)
}
func (s *threadRepoStub) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	return s.getByIDFn(ctx, id)
}
func (s *threadRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Thread, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *threadRepoStub) ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Thread, int64, error) {
	return s.listByCategoryFn(ctx, categoryID, limit, offset)
}
func (s *threadRepoStub) Update(ctx context.Context, thread *models.Thread) error {
	return s.updateFn(ctx, thread)
}
func (s *threadRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}
func (s *threadRepoStub) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return s.setPinnedFn(ctx, id, pinned)
}
func (s *threadRepoStub) SetLocked(ctx context.Context, id uint, locked bool) error {
	return s.setLockedFn(ctx, id, locked)
}
func (s *threadRepoStub) IncrementViewCount(ctx context.Context, id uint) error {
	return s.incrementViewCountFn(ctx, id)
}
func (s *threadRepoStub) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]*models.Thread, int64, error) {
	return s.searchByTitleFn(ctx, query, limit, offset)
}
func (s *threadRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *threadRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}

func noopThreadRepo() *threadRepoStub {
	return &threadRepoStub{
		createWithRootPostFn: func(_ context.Context, thread *models.Thread, _ *models.Post) error {
			thread.ID = 1
			thread.PostCount = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Thread, error) {
			return &models.Thread{ID: id, AuthorID: 1, CategoryID: 1}, nil
		},
		getBySlugFn: func(_ context.Context, slug string) (*models.Thread, error) {
			return &models.Thread{ID: 1, AuthorID: 1, CategoryID: 1, Slug: slug}, nil
		},
		listByCategoryFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Thread, int64, error) {
			return nil, 0, nil
		},
		updateFn:             func(_ context.Context, _ *models.Thread) error { return nil },
		deleteFn:             func(_ context.Context, _ uint) error { return nil },
		setPinnedFn:          func(_ context.Context, _ uint, _ bool) error { return nil },
		setLockedFn:          func(_ context.Context, _ uint, _ bool) error { return nil },
		incrementViewCountFn: func(_ context.Context, _ uint) error { return nil },
		searchByTitleFn: func(_ context.Context, _ string, _, _ int) ([]*models.Thread, int64, error) {
			return nil, 0, nil
		},
		countFn:         func(_ context.Context) (int64, error) { return 0, nil },
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn                 func(context.Context, *models.Post) error
	getByIDFn                func(context.Context, uint) (*models.Post, error)
	listTopLevelFn           func(context.Context, uint, int, int) ([]*models.Post, int64, error)
	listRepliesFn            func(context.Context, uint) ([]*models.Post, error)
	updateFn                 func(context.Context, *models.Post) error
	softDeleteFn             func(context.Context, uint) error
	setStatusFn              func(context.Context, uint, models.PostStatus) error
	markSolutionFn           func(context.Context, uint, uint) error
	searchByContentFn        func(context.Context, string, int, int) ([]*models.Post, int64, error)
	countFn                  func(context.Context) (int64, error)
	countByAuthorFn          func(context.Context, uint) (int64, error)
	countSolutionsByAuthorFn func(context.Context, uint) (int64, error)
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) ListTopLevel(ctx context.Context, threadID uint, limit, offset int) ([]*models.Post, int64, error) {
	return s.listTopLevelFn(ctx, threadID, limit, offset)
}
func (s *postRepoStub) ListReplies(ctx context.Context, parentID uint) ([]*models.Post, error) {
	return s.listRepliesFn(ctx, parentID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}
func (s *postRepoStub) SetStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return s.setStatusFn(ctx, id, status)
}
func (s *postRepoStub) MarkSolution(ctx context.Context, threadID, postID uint) error {
	return s.markSolutionFn(ctx, threadID, postID)
}
func (s *postRepoStub) SearchByContent(ctx context.Context, query string, limit, offset int) ([]*models.Post, int64, error) {
	return s.searchByContentFn(ctx, query, limit, offset)
}
func (s *postRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) CountSolutionsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countSolutionsByAuthorFn(ctx, authorID)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn: func(_ context.Context, post *models.Post) error {
			post.ID = 1
			return nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) {
			return &models.Post{ID: id, ThreadID: 1, AuthorID: 1, Status: models.PostStatusPublished}, nil
		},
		listTopLevelFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		listRepliesFn:  func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Post) error { return nil },
		softDeleteFn:   func(_ context.Context, _ uint) error { return nil },
		setStatusFn:    func(_ context.Context, _ uint, _ models.PostStatus) error { return nil },
		markSolutionFn: func(_ context.Context, _, _ uint) error { return nil },
		searchByContentFn: func(_ context.Context, _ string, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		countFn:                  func(_ context.Context) (int64, error) { return 0, nil },
		countByAuthorFn:          func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countSolutionsByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// reactionRepoStub is a stub for repository.ReactionRepository.
type reactionRepoStub struct {
	toggleFn                func(context.Context, uint, uint, string) (bool, error)
	countsByTypeFn          func(context.Context, uint) (map[string]int64, error)
	listByPostFn            func(context.Context, uint) ([]*models.Reaction, error)
	countReceivedByAuthorFn func(context.Context, uint) (int64, error)
	deleteByPostFn          func(context.Context, uint) error
}

func (s *reactionRepoStub) Toggle(ctx context.Context, userID, postID uint, reactionType string) (bool, error) {
	return s.toggleFn(ctx, userID, postID, reactionType)
}
func (s *reactionRepoStub) CountsByType(ctx context.Context, postID uint) (map[string]int64, error) {
	return s.countsByTypeFn(ctx, postID)
}
func (s *reactionRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Reaction, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *reactionRepoStub) CountReceivedByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countReceivedByAuthorFn(ctx, authorID)
}
func (s *reactionRepoStub) DeleteByPost(ctx context.Context, postID uint) error {
	return s.deleteByPostFn(ctx, postID)
}

func noopReactionRepo() *reactionRepoStub {
	return &reactionRepoStub{
		toggleFn: func(_ context.Context, _, _ uint, _ string) (bool, error) { return true, nil },
		countsByTypeFn: func(_ context.Context, _ uint) (map[string]int64, error) {
			return map[string]int64{}, nil
		},
		listByPostFn:            func(_ context.Context, _ uint) ([]*models.Reaction, error) { return nil, nil },
		countReceivedByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		deleteByPostFn:          func(_ context.Context, _ uint) error { return nil },
	}
}

// pollRepoStub is a stub for repository.PollRepository.
type pollRepoStub struct {
	createFn              func(context.Context, *models.ThreadPoll) error
	getByThreadFn         func(context.Context, uint) (*models.ThreadPoll, error)
	voteFn                func(context.Context, uint, uint, uint) error
	userVoteFn            func(context.Context, uint, uint) (*models.PollVote, error)
	optionBelongsToPollFn func(context.Context, uint, uint) (bool, error)
}

func (s *pollRepoStub) Create(ctx context.Context, poll *models.ThreadPoll) error {
	return s.createFn(ctx, poll)
}
func (s *pollRepoStub) GetByThread(ctx context.Context, threadID uint) (*models.ThreadPoll, error) {
	return s.getByThreadFn(ctx, threadID)
}
func (s *pollRepoStub) Vote(ctx context.Context, pollID, optionID, userID uint) error {
	return s.voteFn(ctx, pollID, optionID, userID)
}
func (s *pollRepoStub) UserVote(ctx context.Context, pollID, userID uint) (*models.PollVote, error) {
	return s.userVoteFn(ctx, pollID, userID)
}
func (s *pollRepoStub) OptionBelongsToPoll(ctx context.Context, pollID, optionID uint) (bool, error) {
	return s.optionBelongsToPollFn(ctx, pollID, optionID)
}

func noopPollRepo() *pollRepoStub {
	return &pollRepoStub{
		createFn: func(_ context.Context, poll *models.ThreadPoll) error {
			poll.ID = 1
			return nil
		},
		getByThreadFn: func(_ context.Context, _ uint) (*models.ThreadPoll, error) {
			return nil, gorm.ErrRecordNotFound
		},
		voteFn:                func(_ context.Context, _, _, _ uint) error { return nil },
		userVoteFn:            func(_ context.Context, _, _ uint) (*models.PollVote, error) { return nil, nil },
		optionBelongsToPollFn: func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn func(context.Context, uint) (*models.User, error)
	latestFn  func(context.Context) (*models.User, error)
	countFn   func(context.Context) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) Latest(ctx context.Context) (*models.User, error) {
	return s.latestFn(ctx)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		latestFn: func(_ context.Context) (*models.User, error) { return nil, nil },
		countFn:  func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// recordingHook captures reward notifications for assertions.
type recordingHook struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	UserID    uint
	Kind      rewards.EventKind
	SubjectID uint
}

func (h *recordingHook) Notify(_ context.Context, userID uint, kind rewards.EventKind, subjectID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, recordedEvent{UserID: userID, Kind: kind, SubjectID: subjectID})
}

func (h *recordingHook) recorded() []recordedEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]recordedEvent(nil), h.events...)
}

func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}

func assertNotFoundError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeNotFound)
}

func assertPermissionDeniedError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodePermissionDenied)
}

func assertConflictError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeConflict)
}
