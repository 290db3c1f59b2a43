// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/apperr"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/metrics"
	requestutil "github.com/krishjaiswal09/portal-sub005/internal/platform/request"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/respond"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
)

// TokenVerifier checks a session cookie and yields its claims.
//
// Defined here so the middleware does not depend on the token implementation.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*sec.SessionClaims, error)
}

// SessionLoader restores the Auth State of a session id.
type SessionLoader interface {
	LoadSession(ctx context.Context, sessionID string) (access.Session, error)
}

// # Session Loading

// LoadSession attaches the request's Auth State to the context.
//
// # Flow
//  1. No cookie: the request proceeds as [access.Anonymous].
//  2. Bad or expired token: anonymous as well; the cookie is left for login to replace.
//  3. Valid token: the State is restored from storage and the request logger gains
//     the session id and role.
//  4. Storage failure: 503, since the portal cannot tell who is calling.
func LoadSession(verifier TokenVerifier, loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := requestutil.SessionToken(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			logger := ctxutil.GetLogger(request.Context())

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("session_token_rejected", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			session, err := loader.LoadSession(request.Context(), claims.SessionID)
			if err != nil {
				logger.Error("session_load_failed", slog.Any("error", err))
				respond.Error(writer, request, apperr.ServiceUnavailable("Session storage unavailable", err))
				return
			}

			ctx := ctxutil.WithSession(request.Context(), claims.SessionID, session)
			if session.IsAuthenticated() {
				ctx = ctxutil.WithLogger(ctx, logger.With(
					slog.String("session_id", claims.SessionID),
					slog.String("role", string(session.Role())),
				))
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Navigation Guard

// RouteGuard applies the portal's namespace rules to page navigations.
// Refused navigations get a 302 to the decision's target.
func RouteGuard(sink *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			decision := access.DecideFor(ctxutil.GetSession(request.Context()), request.URL.Path)
			sink.ObserveGuard(string(access.NamespaceOf(request.URL.Path)), string(decision.Outcome))

			if !decision.Allow {
				ctxutil.GetLogger(request.Context()).Debug("route_guard_redirect",
					slog.String("outcome", string(decision.Outcome)),
					slog.String("target", decision.Redirect),
				)
				http.Redirect(writer, request, decision.Redirect, http.StatusFound)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # API Guards

// RequireAuth blocks API requests that carry no authenticated session.
//
// # Usage
//
// Must be registered in the router AFTER [LoadSession].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if !ctxutil.GetSession(request.Context()).IsAuthenticated() {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks requests whose user lacks the grant code.
// It implies [RequireAuth].
func RequirePermission(code string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			session := ctxutil.GetSession(request.Context())

			if !session.IsAuthenticated() {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}
			if !session.HasPermission(code) {
				respond.Error(writer, request, apperr.Forbidden("Missing permission: "+code))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequireReportCapability blocks requests whose role lacks a report capability.
// It implies [RequireAuth].
func RequireReportCapability(capability sec.ReportCapability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			session := ctxutil.GetSession(request.Context())

			if !session.IsAuthenticated() {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}
			if !session.ReportPermissions().Allows(capability) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient report permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
