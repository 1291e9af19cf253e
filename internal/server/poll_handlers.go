package server

import (
	"guildhall/internal/middleware"
	"guildhall/internal/models"
	"guildhall/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPoll returns a thread's poll with per-option vote counts. When the
// request carries a valid token, the caller's own vote is included.
func (s *Server) GetPoll(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	actor := middleware.ActorFromCtx(c)
	poll, vote, err := s.pollService.GetPollResults(c.UserContext(), threadID, actor.UserID)
	if err != nil {
		return respondServiceError(c, err)
	}

	resp := fiber.Map{"poll": poll}
	if vote != nil {
		resp["user_vote"] = vote.OptionID
	}
	return c.JSON(resp)
}

type createPollRequest struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

// CreatePoll attaches a poll to a thread. Thread author or admin only.
func (s *Server) CreatePoll(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req createPollRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	poll, err := s.pollService.CreatePoll(c.UserContext(), service.CreatePollInput{
		Actor:    middleware.ActorFromCtx(c),
		ThreadID: threadID,
		Question: req.Question,
		Options:  req.Options,
	})
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(poll)
}

type votePollRequest struct {
	OptionID uint `json:"option_id"`
}

// VotePoll records or moves the caller's vote and returns refreshed counts.
func (s *Server) VotePoll(c *fiber.Ctx) error {
	threadID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req votePollRequest
	if err := c.BodyParser(&req); err != nil || req.OptionID == 0 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("option_id is required"))
	}

	poll, err := s.pollService.Vote(c.UserContext(), middleware.ActorFromCtx(c), threadID, req.OptionID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(poll)
}
