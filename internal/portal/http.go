// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package portal serves the dashboard shell: page descriptors for every guarded
navigation and the report catalog endpoints.

Pages are mounted behind the route guard, so a handler here only runs for a
navigation the guard allowed.
*/
package portal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/access"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/ctxutil"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/middleware"
	requestutil "github.com/krishjaiswal09/portal-sub005/internal/platform/request"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/respond"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
	"github.com/krishjaiswal09/portal-sub005/pkg/slice"
)

// Page is what the dashboard shell needs to render a navigation.
type Page struct {
	Path              string                `json:"path"`
	Namespace         access.Namespace      `json:"namespace"`
	Role              sec.UserRole          `json:"role,omitempty"`
	Home              string                `json:"home"`
	ReportPermissions sec.ReportPermissions `json:"report_permissions"`
}

// Handler implements the page and report endpoints.
type Handler struct{}

// NewHandler constructs a new [Handler].
func NewHandler() *Handler {
	return &Handler{}
}

// LoginPage serves GET /login. It is mounted outside the route guard.
//
// An authenticated caller has nothing to do here and is sent home.
func (handler *Handler) LoginPage(writer http.ResponseWriter, request *http.Request) {
	session := requestutil.Session(request)
	if session.IsAuthenticated() {
		http.Redirect(writer, request, access.HomeFor(session.Role()), http.StatusFound)
		return
	}

	respond.OK(writer, Page{
		Path:      access.LoginPath,
		Namespace: access.NamespaceOf(access.LoginPath),
		Home:      access.LoginPath,
	})
}

// Page serves any guarded navigation.
func (handler *Handler) Page(writer http.ResponseWriter, request *http.Request) {
	session := requestutil.Session(request)

	respond.OK(writer, Page{
		Path:              access.Clean(request.URL.Path),
		Namespace:         access.NamespaceOf(request.URL.Path),
		Role:              session.Role(),
		Home:              access.HomeFor(session.Role()),
		ReportPermissions: session.ReportPermissions(),
	})
}

// ReportRoutes returns the report API.
//
// # Endpoints
//   - GET /        : Catalog visible to the caller (canViewReports).
//   - GET /export  : CSV export (canExportReports and reports.export).
func (handler *Handler) ReportRoutes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequireReportCapability(sec.ReportView)).Get("/", handler.listReports)

	router.With(
		middleware.RequireReportCapability(sec.ReportExport),
		middleware.RequirePermission(ExportPermission),
	).Get("/export", handler.exportReports)

	return router
}

// GET /api/v1/reports
func (handler *Handler) listReports(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, VisibleReports(requestutil.Session(request).ReportPermissions()))
}

// GET /api/v1/reports/export
func (handler *Handler) exportReports(writer http.ResponseWriter, request *http.Request) {
	reports := VisibleReports(requestutil.Session(request).ReportPermissions())

	rows := slice.Map(reports, func(report Report) []string {
		return []string{report.ID, report.Title, report.Scope}
	})

	if err := respond.CSV(writer, "reports.csv", []string{"id", "title", "scope"}, rows); err != nil {
		ctxutil.GetLogger(request.Context()).Warn("report_export_write_failed", slog.Any("error", err))
	}
}
