package server

import (
	"questlog/internal/models"

	"github.com/gofiber/fiber/v2"
)

type loginRequest struct {
	Email string `json:"email"`
}

// Login exchanges a verified school email for an API token.
func (s *Server) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError("invalid request body"))
	}

	result, err := s.authService.Login(c.UserContext(), req.Email)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{
		"user":  result.User,
		"token": result.Token,
	})
}
