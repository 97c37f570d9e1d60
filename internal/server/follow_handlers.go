package server

import (
	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser adds the target to the caller's follow feed.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	err := s.followService.Follow(c.UserContext(), currentUserID(c), c.Params("userId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"following": true})
}

// UnfollowUser removes the target from the caller's follow feed.
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	err := s.followService.Unfollow(c.UserContext(), currentUserID(c), c.Params("userId"))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"following": false})
}
