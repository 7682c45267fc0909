package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/workspace-service/internal/api/http/handlers"
	"github.com/spec-kit/workspace-service/internal/auth"
	"github.com/spec-kit/workspace-service/internal/config"
	"github.com/spec-kit/workspace-service/internal/observability"
	"github.com/spec-kit/workspace-service/internal/persistence"
	"github.com/spec-kit/workspace-service/internal/query"
	"github.com/spec-kit/workspace-service/internal/ratelimit"
	"github.com/spec-kit/workspace-service/internal/repository"
	"github.com/spec-kit/workspace-service/internal/service"
)

func testConfig(maxRequests int) *config.Config {
	return &config.Config{
		App: config.AppConfig{Name: "workspace-service", Env: "test", Version: "test"},
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTLHours: 1,
			BcryptCost:    4,
		},
		RateLimit: config.RateLimitConfig{Enabled: true, MaxRequests: maxRequests, WindowMinutes: 15},
		Cache:     config.CacheConfig{TTLSeconds: 60},
		CORS:      config.CORSConfig{Enabled: true, AllowedOrigins: "http://localhost:3000"},
	}
}

// newTestApp assembles the full pipeline over the in-memory backend, the same
// wiring the binary uses minus postgres and the notification worker.
func newTestApp(t *testing.T, cfg *config.Config) *fiber.App {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	limiter := ratelimit.NewSlidingWindow(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window())
	cache := query.NewResultCache(cfg.Cache.TTL())

	userRepo := repository.NewMemoryUserRepository()
	authService := service.NewAuthService(*cfg, userRepo, nil)
	taskService := service.NewTaskService(repository.NewMemoryTaskRepository(), cache, nil)
	projectService := service.NewProjectService(repository.NewMemoryProjectRepository(), cache, nil)
	categoryService := service.NewCategoryService(repository.NewMemoryCategoryRepository(), cache)
	pageService := service.NewPageService(repository.NewMemoryPageRepository(), cache, nil)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, limiter, cfg)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, &persistence.Postgres{}),
		Auth:           handlers.NewAuthHandler(authService, false),
		Tasks:          handlers.NewTasksHandler(taskService),
		Projects:       handlers.NewProjectsHandler(projectService),
		Categories:     handlers.NewCategoriesHandler(categoryService),
		Pages:          handlers.NewPagesHandler(pageService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), userRepo),
	})
	return app
}

type errorEnvelope struct {
	Error struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, payload any) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, raw
}

func registerAndLogin(t *testing.T, app *fiber.App, name, email, role string) string {
	t.Helper()

	resp, raw := doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": "secret1", "role": role,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))

	var parsed struct {
		Data struct {
			Auth struct {
				Token string `json:"token"`
			} `json:"auth"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	require.NotEmpty(t, parsed.Data.Auth.Token)
	return parsed.Data.Auth.Token
}

func TestRegisterLoginMeFlow(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	token := registerAndLogin(t, app, "Alice", "a@x.com", "user")

	resp, raw := doJSON(t, app, fiber.MethodGet, "/auth/me", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var parsed struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Equal(t, "Alice", parsed.Data["name"])
	assert.Equal(t, "a@x.com", parsed.Data["email"])
	assert.NotContains(t, string(raw), "password")
}

func TestRegisterDuplicateEmailEnvelope(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	registerAndLogin(t, app, "Alice", "a@x.com", "user")

	resp, raw := doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Other", "email": "a@x.com", "password": "secret2",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
	assert.NotEmpty(t, envelope.Error.Message)
}

func TestUnknownRoleRejected(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	resp, raw := doJSON(t, app, fiber.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Bob", "email": "b@x.com", "password": "secret1", "role": "warlock",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "VALIDATION_FAILED", envelope.Error.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	resp, raw := doJSON(t, app, fiber.MethodGet, "/tasks/", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "UNAUTHORIZED", envelope.Error.Code)

	resp, _ = doJSON(t, app, fiber.MethodGet, "/tasks/", "not-a-token", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestViewerCannotMutate(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	token := registerAndLogin(t, app, "Watcher", "viewer@x.com", "viewer")

	resp, raw := doJSON(t, app, fiber.MethodPost, "/tasks/", token, fiber.Map{"title": "nope"})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "FORBIDDEN", envelope.Error.Code)

	// Reads remain allowed.
	resp, _ = doJSON(t, app, fiber.MethodGet, "/tasks/", token, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestManageUsersCapabilityGatesUserRoutes(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	userToken := registerAndLogin(t, app, "Alice", "a@x.com", "user")
	adminToken := registerAndLogin(t, app, "Root", "root@x.com", "admin")

	resp, _ := doJSON(t, app, fiber.MethodGet, "/users/", userToken, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, app, fiber.MethodGet, "/users/", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))
}

func TestTaskListPagination(t *testing.T) {
	app := newTestApp(t, testConfig(1000))
	token := registerAndLogin(t, app, "Alice", "a@x.com", "user")

	for i := 0; i < 12; i++ {
		resp, raw := doJSON(t, app, fiber.MethodPost, "/tasks/", token, fiber.Map{
			"title":  fmt.Sprintf("task %02d", i),
			"status": "completed",
		})
		require.Equal(t, fiber.StatusCreated, resp.StatusCode, string(raw))
	}

	resp, raw := doJSON(t, app, fiber.MethodGet, "/tasks/?status=completed&page=2&limit=5", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode, string(raw))

	var parsed struct {
		Data       []map[string]any `json:"data"`
		Pagination struct {
			Page  int `json:"page"`
			Limit int `json:"limit"`
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(raw, &parsed))
	assert.Len(t, parsed.Data, 5)
	assert.Equal(t, 2, parsed.Pagination.Page)
	assert.Equal(t, 5, parsed.Pagination.Limit)
	assert.Equal(t, 12, parsed.Pagination.Total)
	assert.Equal(t, 3, parsed.Pagination.Pages)
}

func TestRateLimiterThrottlesOverCeiling(t *testing.T) {
	app := newTestApp(t, testConfig(3))

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode, "request %d should pass", i+1)
	}

	resp, raw := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)

	var envelope errorEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	assert.Equal(t, "RATE_LIMITED", envelope.Error.Code)
}

func TestCORSHeadersOnResponses(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	req := httptest.NewRequest(fiber.MethodGet, "/health/live", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t, testConfig(1000))

	resp, raw := doJSON(t, app, fiber.MethodGet, "/health/live", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "alive")

	// The in-memory backend is always ready.
	resp, _ = doJSON(t, app, fiber.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestTokenCookieFallback(t *testing.T) {
	app := newTestApp(t, testConfig(1000))
	token := registerAndLogin(t, app, "Alice", "a@x.com", "user")

	req := httptest.NewRequest(fiber.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
