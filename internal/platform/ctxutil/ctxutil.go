// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Sessions

// WithSession attaches the request's session view and its id.
func WithSession(ctx context.Context, sessionID string, session access.Session) context.Context {
	ctx = context.WithValue(ctx, ctxkey.KeySessionID, sessionID)
	return context.WithValue(ctx, ctxkey.KeySession, session)
}

// GetSession returns the request's session, or [access.Anonymous] when none was loaded.
func GetSession(ctx context.Context) access.Session {
	session, ok := ctx.Value(ctxkey.KeySession).(access.Session)
	if !ok || session == nil {
		return access.Anonymous
	}
	return session
}

// GetSessionID returns the verified session id, or "" for anonymous requests.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeySessionID).(string)
	return id
}
