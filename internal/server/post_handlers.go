package server

import (
	"questlog/internal/models"
	"questlog/internal/service"

	"github.com/gofiber/fiber/v2"
)

type createPostRequest struct {
	QuestID         string   `json:"quest_id"`
	Title           string   `json:"title"`
	Body            string   `json:"body"`
	ImageURLs       []string `json:"image_urls"`
	EffortScore     *int     `json:"effort_score"`
	ExcitementScore *int     `json:"excitement_score"`
	IsPublic        *bool    `json:"is_public"`
	AllowPromotion  bool     `json:"allow_promotion"`
}

// CreatePost submits a quest report. Each user can post once per day.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req createPostRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError("invalid request body"))
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:          currentUserID(c),
		QuestID:         req.QuestID,
		Title:           req.Title,
		Body:            req.Body,
		ImageURLs:       req.ImageURLs,
		EffortScore:     req.EffortScore,
		ExcitementScore: req.ExcitementScore,
		IsPublic:        req.IsPublic,
		AllowPromotion:  req.AllowPromotion,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusCreated, fiber.Map{"post": post})
}

// GetFeed returns a page of public posts, filtered and sorted by query
// parameters.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	posts, err := s.postService.ListFeed(c.UserContext(), service.FeedInput{
		ViewerID: currentUserID(c),
		Filter:   c.Query("filter"),
		Sort:     c.Query("sort"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"posts": posts})
}

// GetQuestPosts lists public posts attached to one quest.
func (s *Server) GetQuestPosts(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	posts, err := s.postService.GetQuestPosts(c.UserContext(),
		c.Params("questId"), limit, offset, currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"posts": posts})
}

// GetMyPosts lists the caller's own posts, hidden ones included.
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	posts, err := s.postService.GetMyPosts(c.UserContext(), currentUserID(c), limit, offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"posts": posts})
}

// GetPost returns a single post.
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.UserContext(), c.Params("id"), currentUserID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"post": post})
}

type updateVisibilityRequest struct {
	IsPublic *bool `json:"is_public"`
}

// UpdateVisibility lets the owner publish or hide their post.
func (s *Server) UpdateVisibility(c *fiber.Ctx) error {
	var req updateVisibilityRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewInvalidRequestError("invalid request body"))
	}
	if req.IsPublic == nil {
		return models.RespondWithError(c, models.NewValidationError("is_public is required"))
	}

	post, err := s.postService.UpdateVisibility(c.UserContext(),
		c.Params("id"), currentUserID(c), *req.IsPublic)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"post": post})
}

// DeletePost removes a post, for its owner or a moderator.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	err := s.postService.DeletePost(c.UserContext(),
		c.Params("id"), currentUserID(c), currentUserRole(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}

	return models.Respond(c, fiber.StatusOK, fiber.Map{"deleted": true})
}
