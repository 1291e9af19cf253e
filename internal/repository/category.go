// Package repository provides data access layer implementations for the forum engine.
package repository

import (
	"context"

	"guildhall/internal/models"

	"gorm.io/gorm"
)

// CategoryRepository defines the interface for category data operations
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	ListActive(ctx context.Context) ([]*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	CountActive(ctx context.Context) (int64, error)
	MostActive(ctx context.Context) (*models.Category, error)
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// applyCategoryCounts adds subqueries for derived thread and post counts.
func (r *categoryRepository) applyCategoryCounts(db *gorm.DB) *gorm.DB {
	return db.Select("forum_categories.*, " +
		"(SELECT COUNT(*) FROM forum_threads WHERE forum_threads.category_id = forum_categories.id) as thread_count, " +
		"(SELECT COUNT(*) FROM forum_posts JOIN forum_threads t ON forum_posts.thread_id = t.id WHERE t.category_id = forum_categories.id) as post_count")
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := r.applyCategoryCounts(r.db.WithContext(ctx)).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.applyCategoryCounts(r.db.WithContext(ctx)).
		Where("slug = ? AND is_active = ?", slug, true).
		First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) ListActive(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.applyCategoryCounts(r.db.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("display_order ASC, id ASC").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	// Save writes all fields, including is_active=false for deactivation.
	return r.db.WithContext(ctx).Select("*").Omit("thread_count", "post_count").Save(category).Error
}

func (r *categoryRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("is_active = ?", true).
		Count(&count).Error
	return count, err
}

// MostActive returns the active category with the most threads, or nil when
// no category has any thread yet.
func (r *categoryRepository) MostActive(ctx context.Context) (*models.Category, error) {
	var category models.Category
	err := r.applyCategoryCounts(r.db.WithContext(ctx)).
		Where("is_active = ?", true).
		Order("thread_count DESC, forum_categories.id ASC").
		First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	if category.ThreadCount == 0 {
		return nil, nil
	}
	return &category, nil
}
