package server

import (
	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type toggleStampRequest struct {
	StampType string `json:"stamp_type"`
}

// ToggleStamp applies one press of a stamp button on a post: set, unset,
// or switch to a different stamp.
func (s *Server) ToggleStamp(c *fiber.Ctx) error {
	var req toggleStampRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError("invalid request body"))
	}

	result, err := s.stampService.Toggle(c.UserContext(),
		c.Params("id"), currentUserID(c), req.StampType)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"action": result.Action,
		"stamps": result.Stamps,
	})
}

// GetStamps returns a post's stamp counts and, for a logged-in viewer,
// their own stamp.
func (s *Server) GetStamps(c *fiber.Ctx) error {
	summary, err := s.stampService.GetStamps(c.UserContext(),
		c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"stamps":   summary.Stamps,
		"my_stamp": summary.MyStamp,
	})
}
