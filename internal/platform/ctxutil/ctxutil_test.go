// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	requestID := "test-request-id"

	// 1. Initially should be empty
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithRequestID(ctx, requestID)
	assert.Equal(t, requestID, ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

type staticSession struct {
	access.Session
	role sec.UserRole
}

func (s staticSession) IsAuthenticated() bool { return true }
func (s staticSession) Role() sec.UserRole    { return s.role }

/*
TestContext_Session verifies the anonymous fallback and session injection.
*/
func TestContext_Session(t *testing.T) {
	ctx := context.Background()

	// 1. Initially anonymous
	assert.Equal(t, access.Anonymous, ctxutil.GetSession(ctx))
	assert.Empty(t, ctxutil.GetSessionID(ctx))

	// 2. Inject and retrieve
	ctx = ctxutil.WithSession(ctx, "sid-1", staticSession{role: sec.RoleParent})
	session := ctxutil.GetSession(ctx)

	assert.True(t, session.IsAuthenticated())
	assert.Equal(t, sec.RoleParent, session.Role())
	assert.Equal(t, "sid-1", ctxutil.GetSessionID(ctx))
}
