package server

import (
	"guildhall/internal/middleware"
	"guildhall/internal/models"
	"guildhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts lists a thread's top-level posts in posting order.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	p := parsePagination(c)
	posts, total, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		ThreadID: threadID,
		Limit:    p.Limit(),
		Offset:   p.Offset(),
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	if posts == nil {
		posts = []*models.Post{}
	}
	return c.JSON(listResponse{Items: posts, Total: total, Page: p.Page, PageSize: p.PageSize})
}

// GetReplies lists all replies to a post. Not paginated.
func (s *Server) GetReplies(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	replies, err := s.postService.ListReplies(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	if replies == nil {
		replies = []*models.Post{}
	}
	return c.JSON(replies)
}

type createPostRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id"`
}

// CreatePost adds a post (or a one-level reply) to a thread.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		Actor:    middleware.ActorFromCtx(c),
		ThreadID: threadID,
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

type updatePostRequest struct {
	Content string `json:"content"`
}

// UpdatePost edits a post's content. Author or admin only.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req updatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		Actor:   middleware.ActorFromCtx(c),
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(post)
}

// DeletePost soft-deletes a post. Author or admin only.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), middleware.ActorFromCtx(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HidePost hides a post from listings and search. Admin only.
func (s *Server) HidePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.HidePost(c.UserContext(), middleware.ActorFromCtx(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UnhidePost restores a hidden post. Admin only.
func (s *Server) UnhidePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.UnhidePost(c.UserContext(), middleware.ActorFromCtx(c), postID); err != nil {
		return respondServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
