package server

import (
	"context"

	"guildhall/internal/middleware"
	"guildhall/internal/models"
	"guildhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetThreads lists a category's threads, pinned first then by activity.
func (s *Server) GetThreads(c *fiber.Ctx) error {
	category, err := s.categoryService.GetCategoryBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}

	p := parsePagination(c)
	threads, total, err := s.threadService.ListThreads(c.UserContext(), service.ListThreadsInput{
		CategoryID: category.ID,
		Limit:      p.Limit(),
		Offset:     p.Offset(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if threads == nil {
		threads = []*models.Thread{}
	}
	return c.JSON(listResponse{Items: threads, Total: total, Page: p.Page, PageSize: p.PageSize})
}

// GetThreadBySlug returns one thread and counts the view.
func (s *Server) GetThreadBySlug(c *fiber.Ctx) error {
	thread, err := s.threadService.GetThreadBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

type createThreadRequest struct {
	CategoryID uint   `json:"category_id"`
	Title      string `json:"title"`
	Content    string `json:"content"`
}

// CreateThread creates a thread with its opening post.
func (s *Server) CreateThread(c *fiber.Ctx) error {
	var req createThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.CreateThread(c.UserContext(), service.CreateThreadInput{
		Actor:      middleware.ActorFromCtx(c),
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(thread)
}

type updateThreadRequest struct {
	Title string `json:"title"`
}

// UpdateThread retitles a thread. Author or admin only.
func (s *Server) UpdateThread(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updateThreadRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	thread, err := s.threadService.UpdateThread(c.UserContext(), service.UpdateThreadInput{
		Actor:    middleware.ActorFromCtx(c),
		ThreadID: threadID,
		Title:    req.Title,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(thread)
}

// DeleteThread hard-deletes a thread and everything in it. Author or admin only.
func (s *Server) DeleteThread(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.threadService.DeleteThread(c.UserContext(), middleware.ActorFromCtx(c), threadID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type markSolutionRequest struct {
	PostID uint `json:"post_id"`
}

// MarkSolution flags a post as the thread's accepted answer.
func (s *Server) MarkSolution(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req markSolutionRequest
	if err := c.BodyParser(&req); err != nil || req.PostID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("post_id is required"))
	}

	post, err := s.threadService.MarkSolution(c.UserContext(), middleware.ActorFromCtx(c), threadID, req.PostID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

type threadFlagRequest struct {
	Value *bool `json:"value"`
}

// PinThread sets or clears the pinned flag. Admin only.
func (s *Server) PinThread(c *fiber.Ctx) error {
	return s.setThreadFlag(c, s.threadService.PinThread)
}

// LockThread sets or clears the locked flag. Admin only.
func (s *Server) LockThread(c *fiber.Ctx) error {
	return s.setThreadFlag(c, s.threadService.LockThread)
}

func (s *Server) setThreadFlag(c *fiber.Ctx, set func(ctx context.Context, actor models.Actor, threadID uint, value bool) error) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req threadFlagRequest
	if err := c.BodyParser(&req); err != nil || req.Value == nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("value is required"))
	}

	if err := set(c.UserContext(), middleware.ActorFromCtx(c), threadID, *req.Value); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
