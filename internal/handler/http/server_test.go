package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/attendance-backend-go/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/attendance-backend-go/internal/service/attendance"
	authService "github.com/cmlabs-hris/attendance-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/attendance-backend-go/internal/service/dashboard"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

var wib = time.FixedZone("WIB", 7*60*60)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *testClock) get() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

type testServer struct {
	t      *testing.T
	server *httptest.Server
	clock  *testClock
}

// newTestServer wires the full router over an in-memory SQLite store.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.NewSQLiteDB(dsn)
	require.NoError(t, err)

	employees, err := sqlite.NewEmployeeRepository(db, wib)
	require.NoError(t, err)
	records, err := sqlite.NewAttendanceRepository(db, wib)
	require.NoError(t, err)

	policy := attendance.DefaultPolicy()
	policy.Location = wib

	// 2025-03-03 is a Monday
	clock := &testClock{now: time.Date(2025, time.March, 3, 8, 30, 0, 0, wib)}

	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	router := NewRouter(
		RouterConfig{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		jwtSvc,
		NewAuthHandler(authService.NewAuthService(employees, jwtSvc)),
		NewAttendanceHandler(attendanceService.NewAttendanceService(records, employees, policy, 0, 0), clock.get),
		NewDashboardHandler(dashboardService.NewDashboardService(records, employees, policy), clock.get),
	)

	srv := httptest.NewServer(router)
	t.Cleanup(func() {
		srv.Close()
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return &testServer{t: t, server: srv, clock: clock}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    *struct {
		Count     int  `json:"count"`
		Limit     int  `json:"limit"`
		Truncated bool `json:"truncated"`
	} `json:"meta"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func (s *testServer) do(method, path, token string, body interface{}) *http.Response {
	s.t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.server.Client().Do(req)
	require.NoError(s.t, err)
	s.t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, data interface{}) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	if data != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

// register creates an account and returns its access token.
func (s *testServer) register(name, email, role string) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":       name,
		"email":      email,
		"password":   "secret123",
		"role":       role,
		"department": "Engineering",
	})
	require.Equal(s.t, http.StatusCreated, resp.StatusCode)

	var token struct {
		AccessToken string `json:"access_token"`
	}
	decode(s.t, resp, &token)
	require.NotEmpty(s.t, token.AccessToken)
	return token.AccessToken
}
