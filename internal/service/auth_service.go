package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/event-registration-service/internal/auth"
	"github.com/spec-kit/event-registration-service/internal/config"
	"github.com/spec-kit/event-registration-service/internal/domain"
	"github.com/spec-kit/event-registration-service/internal/repository"
	apperrors "github.com/spec-kit/event-registration-service/pkg/util"
)

// AuthService handles account signup and login.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// AuthResult bundles a signed token with its subject.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// RegisterUser creates an attendee account and signs it in.
func (s *AuthService) RegisterUser(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(strings.ToLower(email))
	if name == "" || email == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.NewValidationError("invalid email", nil)
	}
	if len(password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters", nil)
	}

	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperrors.NewConflict("EMAIL_TAKEN", "email already registered", nil)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.UserRoleAttendee,
		Status:       domain.UserStatusActive,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return s.issueToken(user)
}

// Login verifies credentials and issues a token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewForbidden("account suspended")
	}
	return s.issueToken(user)
}

func (s *AuthService) issueToken(user *domain.User) (*AuthResult, error) {
	token, meta, err := s.tokens.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: meta.ExpiresAt}, nil
}
