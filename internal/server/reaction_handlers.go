package server

import (
	"guildhall/internal/middleware"
	"guildhall/internal/models"

	"github.com/gofiber/fiber/v2"
)

type toggleReactionRequest struct {
	ReactionType string `json:"reaction_type"`
}

// ToggleReaction adds or removes the caller's reaction on a post.
func (s *Server) ToggleReaction(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req toggleReactionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	actor := middleware.ActorFromCtx(c)
	result, err := s.reactionService.ToggleReaction(c.UserContext(), actor.UserID, postID, req.ReactionType)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(result)
}

// GetReactions returns reaction counts for a post, grouped by type.
func (s *Server) GetReactions(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	counts, err := s.reactionService.CountsByType(c.UserContext(), postID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(fiber.Map{"counts": counts})
}
