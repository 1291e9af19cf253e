package repository

import (
	"context"
	"time"

	"guildhall/internal/models"

	"gorm.io/gorm"
)

// ThreadRepository defines the interface for thread data operations
type ThreadRepository interface {
	CreateWithRootPost(ctx context.Context, thread *models.Thread, rootPost *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Thread, error)
	GetBySlug(ctx context.Context, slug string) (*models.Thread, error)
	ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Thread, int64, error)
	Update(ctx context.Context, thread *models.Thread) error
	Delete(ctx context.Context, id uint) error
	SetPinned(ctx context.Context, id uint, pinned bool) error
	SetLocked(ctx context.Context, id uint, locked bool) error
	IncrementViewCount(ctx context.Context, id uint) error
	SearchByTitle(ctx context.Context, query string, limit, offset int) ([]*models.Thread, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type threadRepository struct {
	db *gorm.DB
}

// NewThreadRepository creates a new thread repository
func NewThreadRepository(db *gorm.DB) ThreadRepository {
	return &threadRepository{db: db}
}

// CreateWithRootPost inserts the thread and its opening post in one
// transaction. The thread starts with post_count=1 so a thread can never be
// observed without its body.
func (r *threadRepository) CreateWithRootPost(ctx context.Context, thread *models.Thread, rootPost *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		thread.PostCount = 1
		thread.LastActivityAt = time.Now().UTC()
		if err := tx.Create(thread).Error; err != nil {
			return err
		}
		rootPost.ThreadID = thread.ID
		rootPost.AuthorID = thread.AuthorID
		rootPost.Status = models.PostStatusPublished
		return tx.Create(rootPost).Error
	})
}

func (r *threadRepository) GetByID(ctx context.Context, id uint) (*models.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		First(&thread, id).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) GetBySlug(ctx context.Context, slug string) (*models.Thread, error) {
	var thread models.Thread
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Author").
		Where("slug = ?", slug).
		First(&thread).Error
	if err != nil {
		return nil, err
	}
	return &thread, nil
}

func (r *threadRepository) ListByCategory(ctx context.Context, categoryID uint, limit, offset int) ([]*models.Thread, int64, error) {
	var total int64
	base := r.db.WithContext(ctx).Model(&models.Thread{}).Where("category_id = ?", categoryID)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []*models.Thread
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("category_id = ?", categoryID).
		Order("is_pinned DESC, last_activity_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	return threads, total, err
}

func (r *threadRepository) Update(ctx context.Context, thread *models.Thread) error {
	return r.db.WithContext(ctx).Select("*").Save(thread).Error
}

// Delete hard-deletes the thread and everything hanging off it: posts,
// reactions on those posts, and the poll with its options and votes.
func (r *threadRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id IN (SELECT id FROM forum_posts WHERE thread_id = ?)", id).
			Delete(&models.Reaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id IN (SELECT id FROM forum_polls WHERE thread_id = ?)", id).
			Delete(&models.PollVote{}).Error; err != nil {
			return err
		}
		if err := tx.Where("poll_id IN (SELECT id FROM forum_polls WHERE thread_id = ?)", id).
			Delete(&models.PollOption{}).Error; err != nil {
			return err
		}
		if err := tx.Where("thread_id = ?", id).Delete(&models.ThreadPoll{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Thread{}, id).Error
	})
}

func (r *threadRepository) SetPinned(ctx context.Context, id uint, pinned bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		Update("is_pinned", pinned).Error
}

func (r *threadRepository) SetLocked(ctx context.Context, id uint, locked bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		Update("is_locked", locked).Error
}

// IncrementViewCount bumps view_count atomically in the database so
// concurrent readers never lose an increment.
func (r *threadRepository) IncrementViewCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// SearchByTitle matches thread titles case-insensitively. LOWER(...) LIKE is
// used instead of ILIKE so the query runs on both postgres and sqlite.
func (r *threadRepository) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]*models.Thread, int64, error) {
	pattern := "%" + query + "%"

	var total int64
	base := r.db.WithContext(ctx).Model(&models.Thread{}).Where("LOWER(title) LIKE LOWER(?)", pattern)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var threads []*models.Thread
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Where("LOWER(title) LIKE LOWER(?)", pattern).
		Order("last_activity_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&threads).Error
	return threads, total, err
}

func (r *threadRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Thread{}).Count(&count).Error
	return count, err
}

func (r *threadRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Thread{}).
		Where("author_id = ?", authorID).
		Count(&count).Error
	return count, err
}
