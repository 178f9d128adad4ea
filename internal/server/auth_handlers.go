package server

import (
	"errors"
	"time"

	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/service"

	"github.com/gofiber/fiber/v2"
)

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /register
func (s *Server) Register(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userService.Register(c.Context(), req.Username, req.Password)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":       user.ID,
		"username": user.Username,
	})
}

// Login handles POST /login. A credential mismatch returns the structured
// {msg, status:false} body with no cookie set; it is not a server error.
func (s *Server) Login(c *fiber.Ctx) error {
	var req credentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	token, _, err := s.userService.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrBadCredentials) {
			return c.JSON(fiber.Map{
				"msg":    "Incorrect Username or Password",
				"status": false,
			})
		}
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	c.Cookie(s.newSessionCookie(token, 0))
	return c.JSON("ok")
}

// Profile handles GET /profile (protected). A present but invalid token
// fails loud in AuthRequired before this handler runs.
func (s *Server) Profile(c *fiber.Ctx) error {
	identity := currentIdentity(c)
	return c.JSON(fiber.Map{
		"id":       identity.UserID,
		"username": identity.Username,
	})
}

// Logout handles POST /logout by overwriting the session cookie with an
// invalidated value. This is the only revocation mechanism.
func (s *Server) Logout(c *fiber.Ctx) error {
	cookie := s.newSessionCookie("", -time.Hour)
	c.Cookie(cookie)
	return c.JSON("ok")
}

// newSessionCookie builds the HTTP-only session cookie. A zero ttl leaves the
// cookie as a session cookie matching the non-expiring token.
func (s *Server) newSessionCookie(value string, ttl time.Duration) *fiber.Cookie {
	cookie := &fiber.Cookie{
		Name:     sessionCookie,
		Value:    value,
		HTTPOnly: true,
		Secure:   true,
		SameSite: fiber.CookieSameSiteNoneMode,
		Path:     "/",
	}
	if ttl != 0 {
		cookie.Expires = time.Now().Add(ttl)
	}
	return cookie
}
