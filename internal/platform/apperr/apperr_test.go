// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/apperr"
)

func TestConstructors(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")

	tests := []struct {
		name   string
		err    *apperr.AppError
		status int
		code   string
		client bool
	}{
		{"unauthorized", apperr.Unauthorized("Invalid email or password"), http.StatusUnauthorized, "UNAUTHORIZED", true},
		{"forbidden", apperr.Forbidden("Missing permission"), http.StatusForbidden, "FORBIDDEN", true},
		{"validation", apperr.ValidationError("Invalid JSON payload"), http.StatusBadRequest, "VALIDATION_ERROR", true},
		{"rate limited", apperr.RateLimited(time.Minute), http.StatusTooManyRequests, "RATE_LIMITED", true},
		{"internal", apperr.Internal(cause), http.StatusInternalServerError, "INTERNAL_ERROR", false},
		{"bad gateway", apperr.BadGateway("Login service unavailable", cause), http.StatusBadGateway, "BAD_GATEWAY", false},
		{"unavailable", apperr.ServiceUnavailable("Session storage unavailable", cause), http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, tt.err.HTTPStatus)
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.client, tt.err.IsClientError())
		})
	}
}

func TestRateLimited_RoundsUpToOneSecond(t *testing.T) {
	err := apperr.RateLimited(200 * time.Millisecond)
	assert.Equal(t, time.Second, err.RetryAfter)
	assert.Equal(t, "Too many requests. Try again in 1s.", err.Message)
}

func TestAs_ThroughWrapping(t *testing.T) {
	cause := errors.New("backend_login_status: 500 Internal Server Error")
	wrapped := fmt.Errorf("auth_service_relay_failed: %w", apperr.BadGateway("Login service unavailable", cause))

	appErr := apperr.As(wrapped)
	require.NotNil(t, appErr)
	assert.Equal(t, "BAD_GATEWAY", appErr.Code)
	assert.ErrorIs(t, wrapped, cause)

	assert.False(t, apperr.IsAppError(cause))
	assert.Nil(t, apperr.As(nil))
}
