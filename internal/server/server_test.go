package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ironhold/internal/config"
	"ironhold/internal/database"
)

func setupServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	return setupServerWith(t, func(*config.Config) {})
}

func setupServerWith(t *testing.T, configure func(*config.Config)) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Port:            "0",
		Development:     true,
		AuthServiceURL:  "http://127.0.0.1:1",
		CORSOrigins:     []string{"*"},
		ProviderTimeout: time.Second,
		RateLimitRPS:    0.001,
		RateLimitBurst:  1,
		AdminEmail:      "coach@ironhold.test",
	}
	configure(cfg)
	return New(cfg, zap.NewNop(), database.NewPostgres(db), nil), mock
}

func TestRoutes(t *testing.T) {
	testCases := []struct {
		name           string
		method         string
		path           string
		setupMocks     func(mock sqlmock.Sqlmock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Banner",
			method:         http.MethodGet,
			path:           "/api/",
			setupMocks:     func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"message":"Iron Hold Wrestling API"}`,
		},
		{
			name:   "Health",
			method: http.MethodGet,
			path:   "/health",
			setupMocks: func(mock sqlmock.Sqlmock) {
				mock.ExpectPing()
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"ok"}`,
		},
		{
			name:           "Me requires login",
			method:         http.MethodGet,
			path:           "/api/auth/me",
			setupMocks:     func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:           "Checkout requires login",
			method:         http.MethodPost,
			path:           "/api/payments/create-checkout",
			setupMocks:     func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"detail":"Not authenticated"}`,
		},
		{
			name:           "Provider login disabled",
			method:         http.MethodGet,
			path:           "/api/auth/google",
			setupMocks:     func(mock sqlmock.Sqlmock) {},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv, mock := setupServer(t)
			tc.setupMocks(mock)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tc.method, tc.path, nil)
			srv.ServeHTTP(w, req)

			assert.Equal(t, tc.expectedStatus, w.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, w.Body.String())
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSessionEndpointIsRateLimited(t *testing.T) {
	srv, _ := setupServer(t)

	do := func() int {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodPost, "/api/auth/session", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "192.0.2.1:5555"
		srv.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusBadRequest, do())
	assert.Equal(t, http.StatusTooManyRequests, do())
}

func postSession(srv *Server, remoteAddr, forwardedFor string) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/api/auth/session", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = remoteAddr
	if forwardedFor != "" {
		req.Header.Set("X-Forwarded-For", forwardedFor)
	}
	srv.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	srv, _ := setupServer(t)

	assert.Equal(t, http.StatusBadRequest, postSession(srv, "192.0.2.1:5555", "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, postSession(srv, "192.0.2.1:5555", "203.0.113.2"))
}

func TestRateLimitUsesForwardedForFromTrustedProxy(t *testing.T) {
	srv, _ := setupServerWith(t, func(cfg *config.Config) {
		cfg.TrustedProxies = []string{"192.0.2.0/24"}
	})

	assert.Equal(t, http.StatusBadRequest, postSession(srv, "192.0.2.1:5555", "203.0.113.1"))
	assert.Equal(t, http.StatusBadRequest, postSession(srv, "192.0.2.1:5555", "203.0.113.2"))
	assert.Equal(t, http.StatusTooManyRequests, postSession(srv, "192.0.2.1:5555", "203.0.113.1"))
}

func TestInvalidTrustedProxiesFallsBackToPeer(t *testing.T) {
	srv, _ := setupServerWith(t, func(cfg *config.Config) {
		cfg.TrustedProxies = []string{"not-an-ip"}
	})

	assert.Equal(t, http.StatusBadRequest, postSession(srv, "192.0.2.1:5555", "203.0.113.1"))
	assert.Equal(t, http.StatusTooManyRequests, postSession(srv, "192.0.2.1:5555", "203.0.113.2"))
}

func TestRunStopsOnCancel(t *testing.T) {
	srv, _ := setupServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
