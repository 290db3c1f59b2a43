// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/apperr"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/middleware"
	requestutil "github.com/krishjaiswal09/portal-sub005/internal/platform/request"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/respond"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/validate"
)

// # Definitions & Constructors

// HandlerOptions tunes transport details of the auth endpoints.
type HandlerOptions struct {
	// LoginRatePerMinute throttles login attempts per client IP. Zero disables it.
	LoginRatePerMinute int
	// SecureCookie marks the session cookie HTTPS-only.
	SecureCookie bool
}

// Handler implements the portal's session endpoints.
type Handler struct {
	authService *Service
	options     HandlerOptions
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service, options HandlerOptions) *Handler {
	return &Handler{authService: service, options: options}
}

// Routes returns a [chi.Router] configured with the session routes.
//
// # Endpoints
//   - POST /login                     : Relays credentials and opens a session.
//   - POST /logout                    : Closes the session.
//   - GET  /me                        : Current user.
//   - GET  /report-permissions        : Report capability triple.
//   - GET  /permissions/{code}        : Whether the user holds a grant.
//   - GET  /permission-groups/{group} : Whether the user holds any grant in a group.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Group(func(r chi.Router) {
		if handler.options.LoginRatePerMinute > 0 {
			r.Use(httprate.Limit(
				handler.options.LoginRatePerMinute,
				time.Minute,
				httprate.WithKeyFuncs(httprate.KeyByIP),
				httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
					respond.Error(writer, request, apperr.RateLimited(time.Minute))
				}),
			))
		}
		r.Post("/login", handler.login)
	})

	router.Post("/logout", handler.logout)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
		r.Get("/report-permissions", handler.reportPermissions)
		r.Get("/permissions/{code}", handler.permission)
		r.Get("/permission-groups/{group}", handler.permissionGroup)
	})

	return router
}

// # Request & Response Payloads

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	User              *User                 `json:"user"`
	Home              string                `json:"home"`
	ReportPermissions sec.ReportPermissions `json:"report_permissions"`
}

type permissionResponse struct {
	Code    string `json:"code"`
	Granted bool   `json:"granted"`
}

type permissionGroupResponse struct {
	Group   string `json:"group"`
	Granted bool   `json:"granted"`
}

/*
Login relays credentials to the backend and opens a portal session.

POST /api/v1/auth/login

Request:
  - Body: loginRequest (Email, Password)

Response:
  - 200: sessionResponse, plus the portal_session cookie
  - 400: Validation failure
  - 401: Credentials refused, or no user in the backend response
  - 502: Backend unreachable or answered with an invalid payload
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest

	if err := requestutil.DecodeJSON(writer, request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, 254).
		Required(FieldPassword, input.Password).
		MaxLen(FieldPassword, input.Password, 512)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.Login(request.Context(), LoginInput{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    session.Token,
		Path:     constants.SessionCookiePath,
		Expires:  session.ExpiresAt,
		Secure:   handler.options.SecureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.OK(writer, newSessionResponse(session.State))
}

/*
Logout closes the current session.

POST /api/v1/auth/logout

Description: Always expires the cookie. Calling it without a session is a no-op.

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	if sessionID := ctxutil.GetSessionID(request.Context()); sessionID != "" {
		if err := handler.authService.Logout(request.Context(), sessionID); err != nil {
			ctxutil.GetLogger(request.Context()).Warn("auth_logout_incomplete", slog.Any("error", err))
		}
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     constants.SessionCookiePath,
		MaxAge:   -1,
		Secure:   handler.options.SecureCookie,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	respond.NoContent(writer)
}

/*
Me returns the restored user of the session.

GET /api/v1/auth/me

Response:
  - 200: sessionResponse
  - 401: Not logged in
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	state, err := currentState(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, newSessionResponse(state))
}

// GET /api/v1/auth/report-permissions
func (handler *Handler) reportPermissions(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, requestutil.Session(request).ReportPermissions())
}

/*
Permission answers whether the user holds a grant code.

GET /api/v1/auth/permissions/{code}

Response:
  - 200: permissionResponse
  - 400: Malformed code
*/
func (handler *Handler) permission(writer http.ResponseWriter, request *http.Request) {
	code := requestutil.Param(request, "code")

	if err := (&validate.Validator{}).PermissionCode("code", code).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, permissionResponse{
		Code:    code,
		Granted: requestutil.Session(request).HasPermission(code),
	})
}

/*
PermissionGroup answers whether the user holds any grant of a group, which is
how dashboards decide to show a whole section.

GET /api/v1/auth/permission-groups/{group}

Response:
  - 200: permissionGroupResponse
  - 400: Malformed group
*/
func (handler *Handler) permissionGroup(writer http.ResponseWriter, request *http.Request) {
	group := requestutil.Param(request, "group")

	if err := (&validate.Validator{}).PermissionCode("group", group).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, permissionGroupResponse{
		Group:   group,
		Granted: requestutil.Session(request).HasAnyPermission(group),
	})
}

// # Helpers

// currentState returns the concrete State loaded by the session middleware.
func currentState(request *http.Request) (*State, error) {
	session, err := requestutil.RequiredSession(request)
	if err != nil {
		return nil, err
	}
	state, ok := session.(*State)
	if !ok {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return state, nil
}

func newSessionResponse(state *State) sessionResponse {
	return sessionResponse{
		User:              state.User(),
		Home:              access.HomeFor(state.Role()),
		ReportPermissions: state.ReportPermissions(),
	}
}
