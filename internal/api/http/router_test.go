package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/case-service/internal/api/http/handlers"
	"github.com/spec-kit/case-service/internal/auth"
	"github.com/spec-kit/case-service/internal/config"
	"github.com/spec-kit/case-service/internal/domain"
	"github.com/spec-kit/case-service/internal/events"
	"github.com/spec-kit/case-service/internal/observability"
	"github.com/spec-kit/case-service/internal/repository"
	"github.com/spec-kit/case-service/internal/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
}

type testServer struct {
	app        *fiber.App
	agentToken string
	adminToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	metrics := observability.NewMetrics("cases_http_test")

	caseRepo := repository.NewMemoryCaseRepository()
	_, err := repository.Seed(ctx, caseRepo)
	require.NoError(t, err)
	users := repository.NewMemoryUserRepository()
	dispatcher := events.NewInMemoryDispatcher()

	authCfg := config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		BcryptCost:            bcrypt.MinCost,
		AdminPassword:         "admin-pass",
		AgentPassword:         "agent-pass",
	}
	authService := service.NewAuthService(authCfg, service.AuthDependencies{UserRepo: users})
	require.NoError(t, authService.SeedUsers(ctx, authCfg))

	caseService := service.NewCaseService(config.CasesConfig{
		NumberPrefix:    "HC-2024-",
		NumberWidth:     3,
		DefaultPageSize: 10,
		MaxPageSize:     100,
		ResolutionMode:  config.ResolutionComputed,
	}, service.CaseDependencies{CaseRepo: caseRepo, Dispatcher: dispatcher, Logger: logger})
	activityService := service.NewActivityService(dispatcher, repository.NewMemoryActivityRepository(100), logger)
	activityService.RegisterHandlers()

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger, metrics)})
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("cases", "test", nil),
		Users:          handlers.NewUsersHandler(authService),
		Cases:          handlers.NewCasesHandler(caseService, activityService),
		Admin:          handlers.NewAdminHandler(caseService, activityService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), users),
		Registry:       metrics.Registry(),
	})

	agentToken, _, err := authService.TokenManager().GenerateToken("user-001", domain.UserRoleAgent)
	require.NoError(t, err)
	adminToken, _, err := authService.TokenManager().GenerateToken("user-000", domain.UserRoleAdmin)
	require.NoError(t, err)

	return &testServer{app: app, agentToken: agentToken, adminToken: adminToken}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func TestRoutes_ListCases(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/api/cases?page=1&pageSize=50&status=open", s.agentToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.True(t, env.Success)
	assert.NotEmpty(t, env.Timestamp)

	var page struct {
		Data     []domain.Case `json:"data"`
		Total    int           `json:"total"`
		Page     int           `json:"page"`
		PageSize int           `json:"pageSize"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, "HC-2024-001", page.Data[0].CaseNumber)
	assert.Equal(t, 50, page.PageSize)
}

func TestRoutes_ListCasesPastTheEnd(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/api/cases?page=9223372036854775807&pageSize=10", s.agentToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	assert.True(t, env.Success)

	var page struct {
		Data  []domain.Case `json:"data"`
		Total int           `json:"total"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Empty(t, page.Data)
	assert.Equal(t, 4, page.Total)
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/api/cases", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestRoutes_GetCaseNotFound(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/api/cases/missing", s.agentToken, nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "CASE_NOT_FOUND", env.Error.Code)
	assert.Equal(t, "Case with ID missing not found", env.Error.Message)
	assert.Empty(t, env.Data)
}

func TestRoutes_CaseLifecycle(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodPost, "/api/cases", s.agentToken, map[string]any{
		"clientName":  "Ana Lopez",
		"clientEmail": "ana@example.com",
		"issueType":   "Repairs",
		"priority":    "high",
	})
	require.Equal(t, nethttp.StatusCreated, status)
	var created domain.Case
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "HC-2024-005", created.CaseNumber)
	assert.Equal(t, domain.CaseStatusOpen, created.Status)
	assert.Equal(t, "user-001", created.CreatedBy)

	status, env = s.do(t, nethttp.MethodPatch, "/api/cases/"+created.ID, s.adminToken, map[string]any{"status": "closed"})
	require.Equal(t, nethttp.StatusOK, status)
	var updated domain.Case
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, domain.CaseStatusClosed, updated.Status)
	assert.Equal(t, "user-000", updated.LastModifiedBy)
	assert.Equal(t, created.ClientName, updated.ClientName)

	status, env = s.do(t, nethttp.MethodDelete, "/api/cases/"+created.ID, s.agentToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var msg struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, "Case archived successfully", msg.Message)

	status, env = s.do(t, nethttp.MethodGet, "/api/cases/"+created.ID, s.agentToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var archived domain.Case
	require.NoError(t, json.Unmarshal(env.Data, &archived))
	assert.Equal(t, domain.CaseStatusArchived, archived.Status)

	status, env = s.do(t, nethttp.MethodGet, "/api/cases/"+created.ID+"/activity", s.agentToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var trail struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &trail))
	assert.Equal(t, 3, trail.Count)
}

func TestRoutes_InvalidPayload(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/cases", strings.NewReader("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+s.agentToken)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestRoutes_DashboardStats(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/api/dashboard/stats", s.agentToken, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var stats domain.DashboardStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 4, stats.TotalCases)
	assert.Equal(t, 1, stats.CriticalCases)
	assert.Equal(t, 45.0, stats.AverageResolutionTime)
}

func TestRoutes_AdminOnly(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/reports/cases", "/api/admin/activity"} {
		status, env := s.do(t, nethttp.MethodGet, path, s.agentToken, nil)
		assert.Equal(t, nethttp.StatusForbidden, status, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "FORBIDDEN", env.Error.Code, path)

		status, env = s.do(t, nethttp.MethodGet, path, s.adminToken, nil)
		assert.Equal(t, nethttp.StatusOK, status, path)
		assert.True(t, env.Success, path)
	}
}

func TestRoutes_LoginAndMe(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "agent@housing.gov",
		"password": "agent-pass",
	})
	require.Equal(t, nethttp.StatusOK, status)
	var login struct {
		User domain.User `json:"user"`
		Auth struct {
			Token string `json:"token"`
		} `json:"auth"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &login))
	assert.Equal(t, "Sarah Johnson", login.User.Name)
	require.NotEmpty(t, login.Auth.Token)
	assert.NotContains(t, string(env.Data), "passwordHash")

	status, env = s.do(t, nethttp.MethodGet, "/api/auth/me", login.Auth.Token, nil)
	require.Equal(t, nethttp.StatusOK, status)
	var me domain.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "user-001", me.ID)

	status, _ = s.do(t, nethttp.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "agent@housing.gov",
		"password": "nope",
	})
	assert.Equal(t, nethttp.StatusUnauthorized, status)
}

func TestRoutes_UnknownRoute(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/nope", "", nil)
	assert.Equal(t, nethttp.StatusNotFound, status)
	assert.False(t, env.Success)
}

func TestRoutes_Health(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, nethttp.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, nethttp.StatusOK, status)
	assert.True(t, env.Success)
}

func TestRoutes_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(t, nethttp.MethodGet, "/health/live", "", nil)

	resp, err := s.app.Test(httptest.NewRequest(nethttp.MethodGet, "/metrics", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "cases_http_test_")
}
