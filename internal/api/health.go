// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/respond"
)

// readinessTimeout bounds a single dependency check.
const readinessTimeout = 2 * time.Second

// DependencyCheck is one named probe run by /ready.
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type healthHandler struct {
	checks []DependencyCheck
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(checks ...DependencyCheck) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: checks}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	logger := ctxutil.GetLogger(request.Context())

	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, dependency := range handler.checks {
		context, cancel := context.WithTimeout(request.Context(), readinessTimeout)
		err := dependency.Check(context)
		cancel()

		result := checkResult{Name: dependency.Name, IsOK: err == nil}
		if err != nil {
			result.Error = err.Error()
			isSystemReady = false
			logger.Error("readiness_check_failed", slog.String("dependency", dependency.Name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	httpStatus := http.StatusOK
	if !isSystemReady {
		responseStatus = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respond.Status(writer, httpStatus, map[string]any{
		"status": responseStatus,
		"checks": results,
	})
}
