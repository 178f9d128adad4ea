// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Keyur200/blogappapi/internal/auth"
	"github.com/Keyur200/blogappapi/internal/cache"
	"github.com/Keyur200/blogappapi/internal/config"
	"github.com/Keyur200/blogappapi/internal/database"
	"github.com/Keyur200/blogappapi/internal/middleware"
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/repository"
	"github.com/Keyur200/blogappapi/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"go.mongodb.org/mongo-driver/mongo"
)

// sessionCookie is the cookie carrying the signed session token.
const sessionCookie = "token"

// Identity is the authenticated caller stored in the request context.
type Identity struct {
	UserID   string
	Username string
}

// Server holds all dependencies and provides handlers
type Server struct {
	config            *config.Config
	mongoClient       *mongo.Client
	tokens            *auth.TokenCodec
	userRepo          repository.UserRepository
	postRepo          repository.PostRepository
	userService       *service.UserService
	postService       *service.PostService
	engagementService *service.EngagementService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	client, db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	userRepo := repository.NewUserRepository(db)
	postRepo := repository.NewPostRepository(db)

	srv, err := NewServerWithDeps(cfg, userRepo, postRepo)
	if err != nil {
		return nil, err
	}
	srv.mongoClient = client
	return srv, nil
}

// NewServerWithDeps creates a Server using already-initialized repositories.
// Use this in tests or when a bootstrap layer establishes the store.
func NewServerWithDeps(cfg *config.Config, userRepo repository.UserRepository, postRepo repository.PostRepository) (*Server, error) {
	tokens, err := auth.NewTokenCodec(cfg.JWTSecret)
	if err != nil {
		return nil, err
	}

	return &Server{
		config:            cfg,
		tokens:            tokens,
		userRepo:          userRepo,
		postRepo:          postRepo,
		userService:       service.NewUserService(userRepo, tokens),
		postService:       service.NewPostService(postRepo, userRepo),
		engagementService: service.NewEngagementService(postRepo),
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(requestid.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowMethods:     "GET, POST, PUT, DELETE",
		AllowCredentials: true,
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health", s.HealthCheck)
	app.Get("/metrics", monitor.New(monitor.Config{Title: "Blog App Metrics"}))

	// Auth
	app.Post("/register", s.Register)
	app.Post("/login", s.Login)
	app.Post("/logout", s.Logout)
	app.Get("/profile", s.AuthRequired(), s.Profile)

	// Public reads never invoke token verification
	app.Get("/post", s.ListRecentPosts)
	app.Get("/post/:id", s.GetPost)

	// Protected engagement routes
	app.Post("/post", s.AuthRequired(), s.CreatePost)
	app.Put("/comment", s.AuthRequired(), s.Comment)
	app.Put("/like", s.AuthRequired(), s.Like)
	app.Put("/dislike", s.AuthRequired(), s.Dislike)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.mongoClient != nil {
		if err := s.mongoClient.Ping(ctx, nil); err != nil {
			dbStatus = "unhealthy"
		}
	} else {
		dbStatus = "unavailable"
	}

	redisStatus := "healthy"
	if rdb := cache.GetClient(); rdb != nil {
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"status": "ok",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// resolveIdentity reads the session cookie and verifies it. An absent
// cookie yields (nil, nil): anonymous, not an error. A present but invalid
// token is an error the caller must surface, never silently anonymous.
func (s *Server) resolveIdentity(c *fiber.Ctx) (*Identity, error) {
	raw := c.Cookies(sessionCookie)
	if raw == "" {
		return nil, nil
	}

	claims, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: claims.UserID, Username: claims.Username}, nil
}

// AuthRequired enforces authentication for protected routes. It rejects
// before any handler runs, so unauthenticated requests never reach the store.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := s.resolveIdentity(c)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired token"))
			}
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		}
		if identity == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Please login first."))
		}

		c.Locals("identity", identity)
		c.Locals("userID", identity.UserID)
		return c.Next()
	}
}

// currentIdentity returns the identity stored by AuthRequired.
func currentIdentity(c *fiber.Ctx) *Identity {
	identity, _ := c.Locals("identity").(*Identity)
	return identity
}

// Shutdown releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if rdb := cache.GetClient(); rdb != nil {
		if err := rdb.Close(); err != nil {
			log.Printf("error closing redis: %v", err)
		}
	}

	if s.mongoClient != nil {
		if err := s.mongoClient.Disconnect(ctx); err != nil {
			log.Printf("error closing mongo client: %v", err)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
