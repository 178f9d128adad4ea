package service

import (
	"context"
	"errors"

	"github.com/Keyur200/blogappapi/internal/auth"
	"github.com/Keyur200/blogappapi/internal/models"
	"github.com/Keyur200/blogappapi/internal/repository"
)

// ErrBadCredentials is returned by Login for an unknown username or a
// password mismatch. The two cases are deliberately indistinguishable.
var ErrBadCredentials = errors.New("incorrect username or password")

// UserService handles registration and login.
type UserService struct {
	userRepo repository.UserRepository
	tokens   *auth.TokenCodec
}

func NewUserService(userRepo repository.UserRepository, tokens *auth.TokenCodec) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens}
}

// Register creates a new user with a hashed secret.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, models.NewValidationError("Username and password are required")
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	return s.userRepo.Create(ctx, &models.User{
		Username: username,
		Password: hashed,
	})
}

// Login verifies credentials and issues a session token.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, err
	}
	if user == nil {
		return "", nil, ErrBadCredentials
	}

	if !auth.CheckPassword(password, user.Password) {
		return "", nil, ErrBadCredentials
	}

	token, err := s.tokens.Issue(user.ID.Hex(), user.Username)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}
