// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/apperr"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/metrics"
	"github.com/krishjaiswal09/portal-sub005/pkg/uuid"
)

// # Contracts & Types

// TokenIssuer signs the session cookie value.
type TokenIssuer interface {
	GenerateSessionToken(sessionID string, timeToLive time.Duration) (string, error)
}

// Service implements the portal session use cases.
type Service struct {
	backend    Backend
	sessions   SessionStore
	tokens     TokenIssuer
	metrics    *metrics.Metrics
	sessionTTL time.Duration
	newID      func() string
}

// NewService constructs a new [Service]. A nil metrics sink is allowed.
func NewService(backend Backend, sessions SessionStore, tokens TokenIssuer, sink *metrics.Metrics, sessionTTL time.Duration) *Service {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &Service{
		backend:    backend,
		sessions:   sessions,
		tokens:     tokens,
		metrics:    sink,
		sessionTTL: sessionTTL,
		newID:      uuid.New,
	}
}

// LoginInput carries the credentials typed into the login form.
type LoginInput struct {
	Email    string
	Password string
}

// LoginSession is a freshly established session.
type LoginSession struct {
	SessionID string
	Token     string
	ExpiresAt time.Time
	State     *State
}

// # Login Flow

/*
Login relays credentials to the backend and opens a session for the returned user.

Description: The backend payload is parsed at the boundary. A payload with no user
is refused. The session id is a fresh UUIDv7 and the token is only issued once
storage holds the session.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *LoginSession: Session id, signed token and the populated State
  - error: apperr.Unauthorized, apperr.BadGateway or storage errors
*/
func (service *Service) Login(context context.Context, input LoginInput) (*LoginSession, error) {
	logger := ctxutil.GetLogger(context)

	raw, err := service.backend.Login(context, input.Email, input.Password)
	if err != nil {
		if appErr := apperr.As(err); appErr != nil && appErr.IsClientError() {
			service.metrics.ObserveLogin(LoginOutcomeRejected)
			return nil, err
		}
		service.metrics.ObserveLogin(failureOutcome(context, LoginOutcomeError))
		return nil, fmt.Errorf("auth_service_relay_failed: %w", err)
	}

	response, err := ParseLoginResponse(raw)
	if err != nil {
		service.metrics.ObserveLogin(LoginOutcomeBadPayload)
		return nil, apperr.BadGateway("Login service returned an invalid response", err)
	}

	sessionID := service.newID()
	state := NewState(service.sessions.Scope(sessionID))

	ok, err := state.Login(context, response)
	if err != nil {
		service.metrics.ObserveLogin(failureOutcome(context, LoginOutcomeStorageError))
		return nil, fmt.Errorf("auth_service_login_failed: %w", err)
	}
	if !ok {
		service.metrics.ObserveLogin(LoginOutcomeMissingUser)
		return nil, apperr.Unauthorized("Login response did not include a user")
	}

	token, err := service.tokens.GenerateSessionToken(sessionID, service.sessionTTL)
	if err != nil {
		if logoutErr := state.Logout(context); logoutErr != nil {
			logger.Warn("auth_login_rollback_failed", slog.Any("error", logoutErr))
		}
		service.metrics.ObserveLogin(LoginOutcomeError)
		return nil, fmt.Errorf("auth_service_token_failed: %w", err)
	}

	service.metrics.ObserveLogin(LoginOutcomeSuccess)
	logger.Info("auth_login_succeeded",
		slog.String("session_id", sessionID),
		slog.String("role", string(state.Role())),
	)

	return &LoginSession{
		SessionID: sessionID,
		Token:     token,
		ExpiresAt: time.Now().Add(service.sessionTTL),
		State:     state,
	}, nil
}

// failureOutcome labels a failed login, preferring cancellation over fallback.
func failureOutcome(context context.Context, fallback string) string {
	if context.Err() != nil {
		return LoginOutcomeCancelled
	}
	return fallback
}

// # Restore & Logout

/*
Restore rebuilds the State of a session from storage.

Description: A session that is absent or expired yields an unauthenticated State,
not an error. A stored record that no longer decodes is cleared and treated the
same way.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - *State: Authenticated or not
  - error: Storage failures
*/
func (service *Service) Restore(context context.Context, sessionID string) (*State, error) {
	state := NewState(service.sessions.Scope(sessionID))

	restored, err := state.RestoreSession(context)
	switch {
	case errors.Is(err, ErrCorruptSession):
		ctxutil.GetLogger(context).Warn("auth_session_corrupt_cleared",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
		service.metrics.ObserveRestore("corrupt")
		if logoutErr := state.Logout(context); logoutErr != nil {
			return nil, fmt.Errorf("auth_service_restore_failed: %w", logoutErr)
		}
		return state, nil
	case err != nil:
		service.metrics.ObserveRestore("error")
		return nil, fmt.Errorf("auth_service_restore_failed: %w", err)
	case !restored:
		service.metrics.ObserveRestore("miss")
	default:
		service.metrics.ObserveRestore("hit")
	}

	return state, nil
}

// LoadSession adapts [Service.Restore] for the session middleware.
func (service *Service) LoadSession(context context.Context, sessionID string) (access.Session, error) {
	state, err := service.Restore(context, sessionID)
	if err != nil {
		return nil, err
	}
	return state, nil
}

/*
Logout clears a session from storage.

Parameters:
  - context: context.Context
  - sessionID: string

Returns:
  - error: Storage failures
*/
func (service *Service) Logout(context context.Context, sessionID string) error {
	if err := NewState(service.sessions.Scope(sessionID)).Logout(context); err != nil {
		return fmt.Errorf("auth_service_logout_failed: %w", err)
	}
	return nil
}

// Ping reports whether session storage is reachable.
func (service *Service) Ping(context context.Context) error {
	return service.sessions.Ping(context)
}
