// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package portal

import (
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
	"github.com/krishjaiswal09/portal-sub005/pkg/slice"
)

// # Report Catalog

// Report scopes.
const (
	ScopeOwn = "own"
	ScopeAll = "all"
)

// ExportPermission is the grant required on top of the export capability.
const ExportPermission = "reports.export"

// Report describes one dashboard report. The data itself lives in the backend.
type Report struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Scope string `json:"scope"`
}

// catalog lists the reports the dashboards offer, own-scope first.
var catalog = []Report{
	{ID: "my-classes", Title: "My classes", Scope: ScopeOwn},
	{ID: "my-attendance", Title: "My attendance", Scope: ScopeOwn},
	{ID: "my-credits", Title: "Credit balance", Scope: ScopeOwn},
	{ID: "attendance", Title: "Attendance across all classes", Scope: ScopeAll},
	{ID: "demo-bookings", Title: "Demo bookings", Scope: ScopeAll},
	{ID: "payments", Title: "Payments and credits", Scope: ScopeAll},
}

// VisibleReports filters the catalog by a capability triple.
func VisibleReports(permissions sec.ReportPermissions) []Report {
	if !permissions.CanViewReports {
		return []Report{}
	}
	return slice.Filter(catalog, func(report Report) bool {
		return report.Scope == ScopeOwn || permissions.CanViewAllData
	})
}
