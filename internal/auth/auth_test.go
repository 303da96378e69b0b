package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/repository"
	apperrors "github.com/spec-kit/case-service/pkg/util"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)

	token, exp, err := tm.GenerateToken("user-001", domain.UserRoleAgent)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(5*time.Minute), exp, 5*time.Second)

	claims, err := tm.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-001", claims.SubjectID)
	assert.Equal(t, domain.UserRoleAgent, claims.Role)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", 5).GenerateToken("user-001", domain.UserRoleAgent)
	require.NoError(t, err)

	_, err = NewTokenManager("two", 5).ParseToken(token)
	assert.Error(t, err)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := tm.GenerateToken("user-001", domain.UserRoleAgent)
	require.NoError(t, err)

	_, err = tm.ParseToken(token)
	assert.Error(t, err)
}

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NoError(t, ComparePassword(hash, "s3cret"))
	assert.ErrorIs(t, ComparePassword(hash, "wrong"), ErrInvalidCredentials)
}

func TestPassword_OutOfRangeCostUsesDefault(t *testing.T) {
	hash, err := HashPassword("s3cret", 0)
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}

func TestPassword_CompareMalformedHash(t *testing.T) {
	err := ComparePassword("not-a-hash", "s3cret")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func newAuthApp(t *testing.T) (*fiber.App, *TokenManager) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	require.NoError(t, users.Create(context.Background(), &domain.User{ID: "user-000", Email: "admin@housing.gov", Role: domain.UserRoleAdmin}))
	require.NoError(t, users.Create(context.Background(), &domain.User{ID: "user-001", Email: "agent@housing.gov", Role: domain.UserRoleAgent}))

	tm := NewTokenManager("secret", 5)
	mw := NewAuthMiddleware(tm, users)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			domainErr := apperrors.ToDomainError(err)
			return c.Status(domainErr.HTTPStatus).SendString(domainErr.Code)
		},
	})
	app.Get("/me", mw.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.ActorID())
	})
	app.Get("/admin", mw.Handle, RequireRole(domain.UserRoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})
	return app, tm
}

func bearer(t *testing.T, tm *TokenManager, id string, role domain.UserRole) string {
	t.Helper()
	token, _, err := tm.GenerateToken(id, role)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthMiddleware_Handle(t *testing.T) {
	app, tm := newAuthApp(t)

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{name: "missing header", path: "/me", status: http.StatusUnauthorized},
		{name: "malformed header", path: "/me", header: "Token abc", status: http.StatusUnauthorized},
		{name: "garbage token", path: "/me", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "unknown user", path: "/me", header: bearer(t, tm, "user-999", domain.UserRoleAgent), status: http.StatusUnauthorized},
		{name: "agent", path: "/me", header: bearer(t, tm, "user-001", domain.UserRoleAgent), status: http.StatusOK},
		{name: "agent on admin route", path: "/admin", header: bearer(t, tm, "user-001", domain.UserRoleAgent), status: http.StatusForbidden},
		{name: "admin on admin route", path: "/admin", header: bearer(t, tm, "user-000", domain.UserRoleAdmin), status: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestAuthMiddleware_RoleComesFromStoredUser(t *testing.T) {
	app, tm := newAuthApp(t)

	// A token claiming admin for an agent account does not unlock admin routes.
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set(fiber.HeaderAuthorization, bearer(t, tm, "user-001", domain.UserRoleAdmin))
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
