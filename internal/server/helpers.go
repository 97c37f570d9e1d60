package server

import (
	"strconv"

	"questlog/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// currentUserID returns the authenticated user's ID, or "" for anonymous
// requests on routes using OptionalAuth.
func currentUserID(c *fiber.Ctx) string {
	uid, _ := c.Locals(middleware.LocalUserID).(string)
	return uid
}

// currentUserRole returns the authenticated user's role claim.
func currentUserRole(c *fiber.Ctx) string {
	role, _ := c.Locals(middleware.LocalUserRole).(string)
	return role
}

// pageParams reads limit/offset query parameters. Out-of-range values are
// normalized by the service layer.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit, _ = strconv.Atoi(c.Query("limit", "20"))
	offset, _ = strconv.Atoi(c.Query("offset", "0"))
	return limit, offset
}
