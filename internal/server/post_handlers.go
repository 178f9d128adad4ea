package server

import (
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /post (protected)
func (s *Server) CreatePost(c *fiber.Ctx) error {
	identity := currentIdentity(c)

	var req struct {
		Title   string `json:"title"`
		Summary string `json:"summary"`
		Content string `json:"content"`
		Cover   string `json:"cover"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:  identity.UserID,
		Title:   req.Title,
		Summary: req.Summary,
		Content: req.Content,
		Cover:   req.Cover,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// ListRecentPosts handles GET /post (public)
func (s *Server) ListRecentPosts(c *fiber.Ctx) error {
	posts, err := s.postService.ListRecent(c.Context())
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(posts)
}

// GetPost handles GET /post/:id (public)
func (s *Server) GetPost(c *fiber.Ctx) error {
	post, err := s.postService.GetPost(c.Context(), c.Params("id"))
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}
	return c.JSON(post)
}
