// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api_test

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishjaiswal09/portal-sub005/internal/api"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/config"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/metrics"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
	"github.com/krishjaiswal09/portal-sub005/internal/portal"
	"github.com/krishjaiswal09/portal-sub005/internal/users/auth"
)

// newBackend fakes the business API, answering logins by email.
func newBackend(t *testing.T, users map[string]string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		body, _ := io.ReadAll(request.Body)
		for email, payload := range users {
			if strings.Contains(string(body), `"`+email+`"`) {
				writer.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(writer, payload)
				return
			}
		}
		writer.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(writer, `{"message":"Invalid email or password"}`)
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T, checks ...api.DependencyCheck) http.Handler {
	t.Helper()

	backend := newBackend(t, map[string]string{
		"sam@x.com":    `{"user":{"id":1,"email":"sam@x.com","roles":["student"]}}`,
		"ada@x.com":    `{"user":{"id":2,"email":"ada@x.com","roles":["super_admin"]}}`,
		"nobody@x.com": `{"token":"abc"}`,
	})

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	tokens := sec.NewTokenServiceFromKeys(key, &key.PublicKey, constants.AuthIssuer)

	sink := metrics.New()
	store := auth.NewMemorySessionStore(time.Hour, time.Minute)
	service := auth.NewService(auth.NewBackendClient(backend.URL, 5*time.Second), store, tokens, sink, time.Hour)

	liveness, readiness := api.NewHealthHandlers(append([]api.DependencyCheck{{Name: "sessions", Check: service.Ping}}, checks...)...)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	router := api.NewRouter(ctx, &config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)), api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(service, auth.HandlerOptions{}),
		Portal:    portal.NewHandler(),
		Tokens:    tokens,
		Sessions:  service,
		Metrics:   sink,
	})
	return router
}

func serve(router http.Handler, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func login(t *testing.T, router http.Handler, email string) *http.Cookie {
	t.Helper()

	recorder := serve(router, http.MethodPost, "/api/v1/auth/login", `{"email":"`+email+`","password":"secret"}`)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatal("login set no session cookie")
	return nil
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health", "").Code)

	ready := serve(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusOK, ready.Code)
	assert.Contains(t, ready.Body.String(), `"ready"`)
}

func TestReady_Degraded(t *testing.T) {
	router := newTestRouter(t, api.DependencyCheck{
		Name:  "postgres",
		Check: func(context.Context) error { return errors.New("connection refused") },
	})

	recorder := serve(router, http.MethodGet, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"degraded"`)
	assert.Contains(t, recorder.Body.String(), "connection refused")
}

func TestPages_AnonymousGoesToLogin(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/", "/student", "/instructor/classes", "/reports"} {
		recorder := serve(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusFound, recorder.Code, path)
		assert.Equal(t, "/login", recorder.Header().Get("Location"), path)
	}

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/login", "").Code)
}

func TestPages_StudentConfined(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router, "sam@x.com")

	tests := []struct {
		path     string
		code     int
		location string
	}{
		{"/student", http.StatusOK, ""},
		{"/student/classes", http.StatusOK, ""},
		{"/instructor", http.StatusFound, "/student"},
		{"/", http.StatusFound, "/student"},
		{"/login", http.StatusFound, "/student"},
	}

	for _, tt := range tests {
		recorder := serve(router, http.MethodGet, tt.path, "", cookie)
		assert.Equal(t, tt.code, recorder.Code, tt.path)
		assert.Equal(t, tt.location, recorder.Header().Get("Location"), tt.path)
	}
}

func TestPages_AdminKeptOutOfScopedPortals(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router, "ada@x.com")

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/", "", cookie).Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/students", "", cookie).Code)

	recorder := serve(router, http.MethodGet, "/parent/kids", "", cookie)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/", recorder.Header().Get("Location"))
}

func TestLogin_Refused(t *testing.T) {
	router := newTestRouter(t)

	refused := serve(router, http.MethodPost, "/api/v1/auth/login", `{"email":"eve@x.com","password":"guess"}`)
	assert.Equal(t, http.StatusUnauthorized, refused.Code)

	noUser := serve(router, http.MethodPost, "/api/v1/auth/login", `{"email":"nobody@x.com","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.Empty(t, noUser.Result().Cookies())
}

func TestLogout_ReturnsToLogin(t *testing.T) {
	router := newTestRouter(t)
	cookie := login(t, router, "sam@x.com")

	assert.Equal(t, http.StatusNoContent, serve(router, http.MethodPost, "/api/v1/auth/logout", "", cookie).Code)

	// The old cookie still verifies but its session is gone.
	recorder := serve(router, http.MethodGet, "/student", "", cookie)
	assert.Equal(t, http.StatusFound, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

func TestReports_RequireSession(t *testing.T) {
	router := newTestRouter(t)

	assert.Equal(t, http.StatusUnauthorized, serve(router, http.MethodGet, "/api/v1/reports", "").Code)

	cookie := login(t, router, "ada@x.com")
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/api/v1/reports", "", cookie).Code)
}

func TestMetrics_Exposed(t *testing.T) {
	router := newTestRouter(t)
	serve(router, http.MethodGet, "/student", "")

	recorder := serve(router, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "portal_route_guard_decisions_total")
}
