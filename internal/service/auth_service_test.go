package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
		AdminPassword:         "admin-pass",
		AgentPassword:         "agent-pass",
	}
}

func TestAuthService_SeedUsersAndLogin(t *testing.T) {
	cfg := testAuthConfig()
	users := repository.NewMemoryUserRepository()
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: users})
	ctx := context.Background()

	require.NoError(t, svc.SeedUsers(ctx, cfg))
	require.NoError(t, svc.SeedUsers(ctx, cfg))

	all, err := users.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	user, token, _, err := svc.Login(ctx, "AGENT@housing.gov", "agent-pass")
	require.NoError(t, err)
	assert.Equal(t, "user-001", user.ID)
	assert.Equal(t, "Sarah Johnson", user.Name)
	assert.Equal(t, domain.UserRoleAgent, user.Role)

	claims, err := svc.TokenManager().ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.SubjectID)
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	cfg := testAuthConfig()
	svc := NewAuthService(cfg, AuthDependencies{UserRepo: repository.NewMemoryUserRepository()})
	ctx := context.Background()
	require.NoError(t, svc.SeedUsers(ctx, cfg))

	_, _, _, err := svc.Login(ctx, "admin@housing.gov", "wrong")
	requireCode(t, err, apperrors.CodeUnauthorized)

	_, _, _, err = svc.Login(ctx, "nobody@housing.gov", "admin-pass")
	requireCode(t, err, apperrors.CodeUnauthorized)
}
