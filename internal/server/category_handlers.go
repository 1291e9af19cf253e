package server

import (
	"guildhall/internal/middleware"
	"guildhall/internal/models"
	"guildhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories returns all active categories with derived counts.
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	if categories == nil {
		categories = []*models.Category{}
	}
	return c.JSON(categories)
}

// GetCategoryBySlug returns one active category.
func (s *Server) GetCategoryBySlug(c *fiber.Ctx) error {
	category, err := s.categoryService.GetCategoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

type createCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Slug         string `json:"slug"`
	DisplayOrder int    `json:"display_order"`
}

// CreateCategory creates a category. Admin only.
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req createCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.CreateCategory(c.UserContext(), service.CreateCategoryInput{
		Actor:        middleware.ActorFromCtx(c),
		Name:         req.Name,
		Description:  req.Description,
		Slug:         req.Slug,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

type updateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder *int   `json:"display_order"`
}

// UpdateCategory updates category metadata. Admin only.
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	categoryID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.categoryService.UpdateCategory(c.UserContext(), service.UpdateCategoryInput{
		Actor:        middleware.ActorFromCtx(c),
		CategoryID:   categoryID,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(category)
}

// DeactivateCategory retires a category from listings. Admin only.
func (s *Server) DeactivateCategory(c *fiber.Ctx) error {
	categoryID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeactivateCategory(c.UserContext(), middleware.ActorFromCtx(c), categoryID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
