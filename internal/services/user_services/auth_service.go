// File: internal/services/user_services/auth_service.go
package user_services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iyunix/go-saber/internal/auth"
	"github.com/iyunix/go-saber/internal/domain"
	"github.com/iyunix/go-saber/internal/repository/user"
)

type AuthService struct {
	userRepo     user.UserRepository
	jwtSecretKey []byte
	tokenTTL     time.Duration
	logger       Logger
}

func NewAuthService(userRepo user.UserRepository, jwtSecretKey string, tokenTTL time.Duration, logger Logger) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		jwtSecretKey: []byte(jwtSecretKey),
		tokenTTL:     tokenTTL,
		logger:       logger,
	}
}

// Register creates an account. The email is normalized before storage.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*domain.User, error) {
	u := &domain.User{
		Name:  strings.TrimSpace(name),
		Email: domain.NormalizeEmail(email),
	}
	if err := u.IsValid(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if len(password) < domain.MinPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, domain.MinPasswordLength)
	}

	s.logger.Info("user registration attempt", "email", maskEmail(u.Email))

	if err := u.HashPassword(password); err != nil {
		s.logger.Error("password hashing failed", "error", err, "email", maskEmail(u.Email))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.userRepo.Create(ctx, u)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			s.logger.Warn("registration failed - email already exists", "email", maskEmail(u.Email))
			return nil, ErrEmailTaken
		}
		s.logger.Error("user creation failed", "error", err, "email", maskEmail(u.Email))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered successfully", "user_id", created.ID)
	return created, nil
}

// Login authenticates a user and returns a JWT token
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		s.logger.Warn("login attempt with empty credentials",
			"has_email", email != "",
			"has_password", password != "")
		return nil, "", ErrInvalidCredentials
	}

	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			s.logger.Warn("login failed - user not found", "email", maskEmail(email))
			return nil, "", ErrInvalidCredentials
		}
		s.logger.Error("login lookup failed", "error", err)
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := u.ValidatePassword(password); err != nil {
		s.logger.Warn("login failed - invalid password", "user_id", u.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := auth.GenerateJWT(u.ID, u.Email, u.Name, s.jwtSecretKey, s.tokenTTL)
	if err != nil {
		s.logger.Error("JWT token generation failed", "error", err, "user_id", u.ID)
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("login successful", "user_id", u.ID)
	return u, token, nil
}

// VerifyToken returns the claims of a valid token. Missing tokens yield
// ErrMissingToken; anything else unusable yields an auth error.
func (s *AuthService) VerifyToken(tokenString string) (*auth.Claims, error) {
	if tokenString == "" {
		return nil, ErrMissingToken
	}
	claims, err := auth.ValidateToken(tokenString, s.jwtSecretKey)
	if err != nil {
		s.logger.Debug("JWT token validation failed", "error", err)
		return nil, err
	}
	return claims, nil
}
