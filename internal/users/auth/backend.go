// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/apperr"
)

// loginPath is the backend endpoint that authenticates credentials.
const loginPath = "/auth/login"

// Backend authenticates credentials against the business API.
type Backend interface {
	// Login returns the raw login payload for valid credentials.
	Login(ctx context.Context, email, password string) ([]byte, error)
}

// BackendClient relays logins to the business API over HTTP.
type BackendClient struct {
	client  *http.Client
	baseURL string
}

// NewBackendClient creates a relay for baseURL with a per-request timeout.
func NewBackendClient(baseURL string, timeout time.Duration) *BackendClient {
	return &BackendClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

/*
Login posts the credentials to the backend.

Description: The request inherits the caller's context, so a client that goes away
aborts the relay. 400, 401 and 403 mean the credentials were refused; every other
non-2xx status is a gateway failure.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - []byte: Raw response body
  - error: apperr.Unauthorized, apperr.BadGateway or transport errors
*/
func (backend *BackendClient) Login(ctx context.Context, email, password string) ([]byte, error) {
	payload, err := json.Marshal(map[string]string{
		FieldEmail:    email,
		FieldPassword: password,
	})
	if err != nil {
		return nil, fmt.Errorf("backend_login_marshal_failed: %w", err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, backend.baseURL+loginPath, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("backend_login_request_failed: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Accept", "application/json")

	response, err := backend.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("backend_login_transport_failed: %w", err)
	}
	defer drainAndClose(response.Body)

	body, err := io.ReadAll(io.LimitReader(response.Body, MaxLoginResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("backend_login_read_failed: %w", err)
	}

	switch {
	case response.StatusCode >= 200 && response.StatusCode < 300:
		return body, nil
	case response.StatusCode == http.StatusBadRequest,
		response.StatusCode == http.StatusUnauthorized,
		response.StatusCode == http.StatusForbidden:
		return nil, apperr.Unauthorized(backendMessage(body, "Invalid email or password"))
	default:
		return nil, apperr.BadGateway("Login service unavailable",
			fmt.Errorf("backend_login_status: %s", response.Status))
	}
}

// backendMessage pulls a "message" out of an error body, else returns fallback.
func backendMessage(body []byte, fallback string) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fallback
	}

	var message string
	if err := json.Unmarshal(envelope[FieldMessage], &message); err != nil || strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
