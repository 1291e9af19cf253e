// Package service contains the forum engine's business logic.
package service

import (
	"context"
	"errors"
	"strings"

	"guildhall/internal/cache"
	"guildhall/internal/models"
	"guildhall/internal/repository"
	"guildhall/internal/validation"

	"gorm.io/gorm"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
}

type CreateCategoryInput struct {
	Actor        models.Actor
	Name         string
	Description  string
	Slug         string
	DisplayOrder int
}

type UpdateCategoryInput struct {
	Actor        models.Actor
	CategoryID   uint
	Name         string
	Description  string
	DisplayOrder *int
}

func NewCategoryService(categoryRepo repository.CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// ListCategories returns active categories with derived counts, cached
// briefly to keep the landing page off the database.
func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	var categories []*models.Category
	_, err := cache.Aside(ctx, cache.CategoriesKey, &categories, cache.CategoriesTTL, func() error {
		var fetchErr error
		categories, fetchErr = s.categoryRepo.ListActive(ctx)
		return fetchErr
	})
	if err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", slug)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, in CreateCategoryInput) (*models.Category, error) {
	if !in.Actor.IsAdmin {
		return nil, models.NewPermissionDeniedError("Only admins can manage categories")
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Category name is required")
	}
	if len(name) > 120 {
		return nil, models.NewValidationError("Category name too long (max 120 characters)")
	}

	slug := strings.TrimSpace(in.Slug)
	if err := validation.ValidateCategorySlug(slug); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	category := &models.Category{
		Name:         name,
		Description:  in.Description,
		Slug:         slug,
		DisplayOrder: in.DisplayOrder,
		IsActive:     true,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, cache.CategoriesKey)
	return category, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (*models.Category, error) {
	if !in.Actor.IsAdmin {
		return nil, models.NewPermissionDeniedError("Only admins can manage categories")
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Category", in.CategoryID)
		}
		return nil, err
	}

	if name := strings.TrimSpace(in.Name); name != "" {
		if len(name) > 120 {
			return nil, models.NewValidationError("Category name too long (max 120 characters)")
		}
		category.Name = name
	}
	if in.Description != "" {
		category.Description = in.Description
	}
	if in.DisplayOrder != nil {
		category.DisplayOrder = *in.DisplayOrder
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	cache.Invalidate(ctx, cache.CategoriesKey)
	return category, nil
}

// DeactivateCategory soft-retires a category. Existing threads stay readable
// through direct links; the category stops appearing in listings.
func (s *CategoryService) DeactivateCategory(ctx context.Context, actor models.Actor, categoryID uint) error {
	if !actor.IsAdmin {
		return models.NewPermissionDeniedError("Only admins can manage categories")
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("Category", categoryID)
		}
		return err
	}

	category.IsActive = false
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return err
	}

	cache.Invalidate(ctx, cache.CategoriesKey)
	return nil
}
