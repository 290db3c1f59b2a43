// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil provides utilities for extracting data from HTTP requests.

It hides the router's parameter extraction, the body decoding rules and the
session lookup behind a few helpers so handlers stay short.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/apperr"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/validate"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - writer: http.ResponseWriter (used to cap the body size)
  - request: *http.Request
  - target: any (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(writer http.ResponseWriter, request *http.Request, target any) error {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBodyBytes)
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param retrieves a named URL parameter from the request.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

// SessionToken returns the raw session cookie value, or "".
func SessionToken(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Session returns the session loaded for this request. It is never nil.
func Session(request *http.Request) access.Session {
	return ctxutil.GetSession(request.Context())
}

/*
RequiredSession ensures the request belongs to a logged-in session.

Returns:
  - access.Session: The authenticated session
  - error: apperr.Unauthorized if nobody is logged in
*/
func RequiredSession(request *http.Request) (access.Session, error) {
	session := Session(request)
	if !session.IsAuthenticated() {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return session, nil
}
