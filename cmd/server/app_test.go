package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/api"
	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/mocks"
	"github.com/Shreytangani17/Task-Mangement-System/internal/service/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const adminPassword = "admin-password"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{Port: 8080, LogLevel: "error"},
		Database: config.DatabaseConfig{URL: "postgres://localhost/unused"},
		Auth: config.AuthConfig{
			JWTSecret:            "test-secret-that-is-at-least-32-bytes-long",
			TokenLifetimeMinutes: 60,
			BcryptCost:           bcrypt.MinCost,
			LoginCacheTTL:        time.Minute,
			PrincipalCacheTTL:    time.Minute,
			StoreTimeout:         time.Second,
			RehashTimeout:        time.Second,
		},
		Task:   config.TaskConfig{WorkerCount: 2, QueueSize: 16, TaskTimeout: 5 * time.Second},
		Notify: config.NotifyConfig{DeliveryTimeout: time.Second, ListLimit: 50},
	}
}

type testServer struct {
	handler       http.Handler
	users         *mocks.MockUserStore
	notifications *mocks.MockNotificationStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	digest, err := hasher.Hash(adminPassword)
	require.NoError(t, err)
	admin, err := domain.NewUser("Admin", "admin@example.com", domain.RoleAdmin, digest)
	require.NoError(t, err)

	ts := &testServer{
		users:         mocks.NewMockUserStore(admin),
		notifications: mocks.NewMockNotificationStore(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	app, err := buildApplication(testConfig(), logger, appStores{
		users:         ts.users,
		tasks:         mocks.NewMockTaskStore(),
		notifications: ts.notifications,
	})
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	ts.handler = app.setupRouter()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T, email, password string) (string, int) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/auth/login", "", api.LoginRequest{Email: email, Password: password})
	if rec.Code != http.StatusOK {
		return "", rec.Code
	}
	var resp api.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Token, rec.Code
}

func TestHealth(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Trace-ID"))
}

func TestRoutes_RequireAuthentication(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	for _, path := range []string{"/api/users/me", "/api/tasks/mine", "/api/notifications"} {
		rec := ts.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestRoutes_AdminOnly(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name: "Emp", Email: "emp@example.com", Password: "employee-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var reg api.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reg))

	rec = ts.do(t, http.MethodPost, "/api/tasks", reg.Token, api.CreateTaskRequest{
		Title: "Sneaky", DueDate: time.Now().Add(time.Hour),
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/api/users"},
		{http.MethodGet, "/api/users/employees"},
		{http.MethodGet, "/api/tasks"},
		{http.MethodGet, "/api/tasks/stats"},
		{http.MethodGet, "/api/tasks/employee-stats"},
		{http.MethodDelete, "/api/tasks/" + uuid.NewString()},
	} {
		rec = ts.do(t, route.method, route.path, reg.Token, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code, route.method+" "+route.path)
	}

	adminToken, code := ts.login(t, "admin@example.com", adminPassword)
	require.Equal(t, http.StatusOK, code)

	rec = ts.do(t, http.MethodGet, "/api/tasks/stats", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats api.TaskStatsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&stats))
	assert.Zero(t, stats.Total)
}

func TestFlow_AssignmentNotifiesAssignee(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	adminToken, code := ts.login(t, "admin@example.com", adminPassword)
	require.Equal(t, http.StatusOK, code)

	rec := ts.do(t, http.MethodPost, "/api/users", adminToken, api.CreateUserRequest{
		Name: "Emp", Email: "emp@example.com", Password: "employee-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var emp api.UserResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&emp))

	rec = ts.do(t, http.MethodPost, "/api/tasks", adminToken, api.CreateTaskRequest{
		Title:      "Write report",
		Priority:   "High",
		DueDate:    time.Now().Add(24 * time.Hour),
		AssignedTo: &emp.ID,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	empToken, code := ts.login(t, "emp@example.com", "employee-pass")
	require.Equal(t, http.StatusOK, code)

	rec = ts.do(t, http.MethodGet, "/api/notifications", empToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []api.NotificationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list, 1)
	assert.Equal(t, "New task assigned: Write report", list[0].Message)

	assert.Eventually(t, func() bool {
		all := ts.notifications.All()
		return len(all) == 1 && all[0].DeliveryAttempted
	}, 2*time.Second, 10*time.Millisecond, "delivery runs in the background")
}

func TestFlow_PasswordChangeClearsLoginCache(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	token, code := ts.login(t, "admin@example.com", adminPassword)
	require.Equal(t, http.StatusOK, code)

	// Second login is served from the cache.
	_, code = ts.login(t, "admin@example.com", adminPassword)
	require.Equal(t, http.StatusOK, code)

	rec := ts.do(t, http.MethodPost, "/api/users/me/password", token, api.ChangePasswordRequest{
		CurrentPassword: adminPassword,
		NewPassword:     "a-brand-new-password",
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	_, code = ts.login(t, "admin@example.com", adminPassword)
	assert.Equal(t, http.StatusUnauthorized, code, "old password rejected after change")

	_, code = ts.login(t, "admin@example.com", "a-brand-new-password")
	assert.Equal(t, http.StatusOK, code)
}

func TestFlow_RoleChangeEvictsPrincipal(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	adminToken, _ := ts.login(t, "admin@example.com", adminPassword)

	rec := ts.do(t, http.MethodPost, "/api/auth/register", "", api.RegisterRequest{
		Name: "Emp", Email: "emp@example.com", Password: "employee-pass",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var reg api.AuthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&reg))

	// Caches the employee principal.
	rec = ts.do(t, http.MethodGet, "/api/users/employees", reg.Token, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPut, "/api/users/"+reg.User.ID.String()+"/role", adminToken,
		api.ChangeRoleRequest{Role: "admin"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/users/employees", reg.Token, nil)
	assert.Equal(t, http.StatusOK, rec.Code, "promotion visible without waiting for the cache TTL")
}

func TestBuildApplication_InvalidCost(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Auth.BcryptCost = 99
	_, err := buildApplication(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), appStores{})
	assert.ErrorIs(t, err, auth.ErrInvalidCost)
}
