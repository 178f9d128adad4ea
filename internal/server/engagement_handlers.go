package server

import (
	"context"

	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Comment handles PUT /comment (protected)
func (s *Server) Comment(c *fiber.Ctx) error {
	identity := currentIdentity(c)

	var req struct {
		PostID string `json:"postId"`
		Text   string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.engagementService.Comment(c.Context(), service.CommentInput{
		PostID: req.PostID,
		UserID: identity.UserID,
		Text:   req.Text,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(post)
}

// Like handles PUT /like (protected)
func (s *Server) Like(c *fiber.Ctx) error {
	return s.react(c, s.engagementService.Like)
}

// Dislike handles PUT /dislike (protected)
func (s *Server) Dislike(c *fiber.Ctx) error {
	return s.react(c, s.engagementService.Dislike)
}

func (s *Server) react(c *fiber.Ctx, action func(ctx context.Context, postID, userID string) (*models.Post, error)) error {
	identity := currentIdentity(c)

	var req struct {
		PostID string `json:"postId"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := action(c.Context(), req.PostID, identity.UserID)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(post)
}
