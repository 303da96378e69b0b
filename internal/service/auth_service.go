package service

import (
	"context"
	"errors"
	"time"

	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

// AuthService coordinates login and the seeded user directory.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
	now        func() time.Time
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		tokenMgr:   auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		bcryptCost: cfg.BcryptCost,
		now:        time.Now,
	}
}

// TokenManager exposes the token manager for middleware wiring.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

// SeedUsers creates the default agent and admin accounts when missing.
func (s *AuthService) SeedUsers(ctx context.Context, cfg config.AuthConfig) error {
	seeds := []struct {
		user     domain.User
		password string
	}{
		{
			user: domain.User{
				ID:         "user-000",
				Email:      "admin@housing.gov",
				Name:       "System Administrator",
				Role:       domain.UserRoleAdmin,
				Department: "Housing Affairs",
			},
			password: cfg.AdminPassword,
		},
		{
			user: domain.User{
				ID:         "user-001",
				Email:      "agent@housing.gov",
				Name:       "Sarah Johnson",
				Role:       domain.UserRoleAgent,
				Department: "Housing Affairs",
			},
			password: cfg.AgentPassword,
		},
	}

	for _, seed := range seeds {
		if _, err := s.users.GetByID(ctx, seed.user.ID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrUserNotFound) {
			return err
		}
		if _, err := s.RegisterUser(ctx, seed.user, seed.password); err != nil {
			return err
		}
	}
	return nil
}

// RegisterUser hashes the password and stores the user.
func (s *AuthService) RegisterUser(ctx context.Context, user domain.User, password string) (*domain.User, error) {
	if password == "" {
		return nil, apperrors.NewValidationError("password required", nil)
	}
	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	if user.CreatedAt.IsZero() {
		user.CreatedAt = s.now().UTC()
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return nil, apperrors.NewConflict(err.Error(), nil)
	}
	return &user, nil
}

// Login authenticates a user and issues an access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); errors.Is(err, auth.ErrInvalidCredentials) {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	} else if err != nil {
		return nil, "", time.Time{}, apperrors.NewInternalError(err)
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}
