package repository

import (
	"context"
	"time"

	"guildhall/internal/models"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	ListTopLevel(ctx context.Context, threadID uint, limit, offset int) ([]*models.Post, int64, error)
	ListReplies(ctx context.Context, parentID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SoftDelete(ctx context.Context, id uint) error
	SetStatus(ctx context.Context, id uint, status models.PostStatus) error
	MarkSolution(ctx context.Context, threadID, postID uint) error
	SearchByContent(ctx context.Context, query string, limit, offset int) ([]*models.Post, int64, error)
	Count(ctx context.Context) (int64, error)
	CountByAuthor(ctx context.Context, authorID uint) (int64, error)
	CountSolutionsByAuthor(ctx context.Context, authorID uint) (int64, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create inserts the post and bumps the parent thread's post_count and
// last_activity_at in the same transaction. The counter update runs in the
// database so concurrent replies cannot clobber each other.
func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if post.Status == "" {
			post.Status = models.PostStatusPublished
		}
		if err := tx.Create(post).Error; err != nil {
			return err
		}
		return tx.Model(&models.Thread{}).
			Where("id = ?", post.ThreadID).
			UpdateColumns(map[string]interface{}{
				"post_count":       gorm.Expr("post_count + 1"),
				"last_activity_at": time.Now().UTC(),
			}).Error
	})
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListTopLevel returns paginated top-level posts for a thread in posting
// order. Soft-deleted posts are included (their content is the placeholder)
// so numbering stays stable; hidden posts are excluded.
func (r *postRepository) ListTopLevel(ctx context.Context, threadID uint, limit, offset int) ([]*models.Post, int64, error) {
	visible := []models.PostStatus{models.PostStatusPublished, models.PostStatusDeleted}

	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("thread_id = ? AND parent_id IS NULL AND status IN ?", threadID, visible).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err = r.db.WithContext(ctx).
		Select("forum_posts.*, " +
			"(SELECT COUNT(*) FROM forum_posts r WHERE r.parent_id = forum_posts.id AND r.status IN ('published','deleted')) as reply_count").
		Preload("Author").
		Where("thread_id = ? AND parent_id IS NULL AND status IN ?", threadID, visible).
		Order("created_at ASC, id ASC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) ListReplies(ctx context.Context, parentID uint) ([]*models.Post, error) {
	visible := []models.PostStatus{models.PostStatusPublished, models.PostStatusDeleted}

	var posts []*models.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("parent_id = ? AND status IN ?", parentID, visible).
		Order("created_at ASC, id ASC").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).
		Model(post).
		Updates(map[string]interface{}{
			"content":    post.Content,
			"updated_at": time.Now().UTC(),
		}).Error
}

// SoftDelete replaces the content with the placeholder and flips the status.
// The row stays so thread numbering is preserved; the parent thread's
// post_count is deliberately not decremented.
func (r *postRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":     models.DeletedPostPlaceholder,
			"status":      models.PostStatusDeleted,
			"is_solution": false,
		}).Error
}

func (r *postRepository) SetStatus(ctx context.Context, id uint, status models.PostStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// MarkSolution clears any existing solution flag in the thread and sets the
// new one in a single transaction, so at most one post per thread is ever
// flagged.
func (r *postRepository) MarkSolution(ctx context.Context, threadID, postID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Post{}).
			Where("thread_id = ? AND is_solution = ?", threadID, true).
			Update("is_solution", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).
			Where("id = ? AND thread_id = ?", postID, threadID).
			Update("is_solution", true).Error
	})
}

// SearchByContent matches post bodies case-insensitively. Only published
// posts are searchable.
func (r *postRepository) SearchByContent(ctx context.Context, query string, limit, offset int) ([]*models.Post, int64, error) {
	pattern := "%" + query + "%"

	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("LOWER(content) LIKE LOWER(?) AND status = ?", pattern, models.PostStatusPublished).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var posts []*models.Post
	err = r.db.WithContext(ctx).
		Preload("Author").
		Preload("Thread").
		Where("LOWER(content) LIKE LOWER(?) AND status = ?", pattern, models.PostStatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&posts).Error
	return posts, total, err
}

func (r *postRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("status = ?", models.PostStatusPublished).
		Count(&count).Error
	return count, err
}

func (r *postRepository) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND status = ?", authorID, models.PostStatusPublished).
		Count(&count).Error
	return count, err
}

func (r *postRepository) CountSolutionsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("author_id = ? AND is_solution = ?", authorID, true).
		Count(&count).Error
	return count, err
}
