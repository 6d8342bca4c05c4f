package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/franciscosanchezn/gin-appointment-api/internal/auth"
	"github.com/franciscosanchezn/gin-appointment-api/internal/models"
)

// AuthService registers users, exchanges credentials for bearer tokens and
// resolves a presented token back to a live user.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	// VerifyCredentials returns the user when password matches, ErrInvalidCredentials otherwise
	VerifyCredentials(ctx context.Context, username, password string) (*models.User, error)
	// Authenticate returns the caller for token; the user must still exist
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

type authService struct {
	users  UserService
	tokens *auth.TokenManager
}

func NewAuthService(users UserService, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", ErrInvalidInput)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleUser,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *authService) VerifyCredentials(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		burnPasswordCheck(password)
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			burnPasswordCheck(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPasswordHash(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.VerifyCredentials(ctx, username, password)
	if err != nil {
		return "", err
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, fmt.Errorf("%w: %w", auth.ErrTokenInvalid, ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}
