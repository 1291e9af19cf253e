package server

import (
	"github.com/gofiber/fiber/v2"
)

// GetForumStats returns the forum-wide aggregate snapshot.
func (s *Server) GetForumStats(c *fiber.Ctx) error {
	stats, err := s.statsService.ForumStats(c.UserContext())
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}

// GetUserStats returns per-user participation counters.
func (s *Server) GetUserStats(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	stats, err := s.statsService.UserStats(c.UserContext(), userID)
	if err != nil {
		return respondServiceError(c, err)
	}
	return c.JSON(stats)
}
