package server

import (
	"questlog/internal/middleware"
	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// ForceHidePost hides a post regardless of its current visibility.
// Idempotent, so moderators can act on stale views of the feed.
func (s *Server) ForceHidePost(c *fiber.Ctx) error {
	post, err := s.postService.ForceHide(c.UserContext(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	middleware.Logger.InfoContext(c.UserContext(), "post force-hidden",
		"post_id", post.ID, "moderator_id", currentUserID(c))

	return models.Respond(c, fiber.StatusOK, fiber.Map{"post": post})
}
