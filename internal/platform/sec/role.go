// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import "fmt"

// # User Roles

// UserRole is the closed set of principal categories known to the portal.
//
// The zero value is not a role; it is what an anonymous session reports.
type UserRole string

const (
	// Owner of the business, every dashboard and every report
	RoleSuperAdmin UserRole = "super-admin"

	// Operations staff managing classes, courses and bookings
	RoleAdmin UserRole = "admin"

	// Support and sales staff working inside the admin dashboard
	RoleSupportStaff UserRole = "support-staff"

	// Teaches classes, sees only the instructor portal
	RoleInstructor UserRole = "instructor"

	// Guardian of one or more students
	RoleParent UserRole = "parent"

	// Default role for every account
	RoleStudent UserRole = "student"
)

// # Role Precedence

// rolePrecedence maps backend role strings to roles, highest precedence first.
var rolePrecedence = []struct {
	raw  string
	role UserRole
}{
	{"super_admin", RoleSuperAdmin},
	{"admin", RoleAdmin},
	{"support_and_sales", RoleSupportStaff},
	{"instructor", RoleInstructor},
	{"parent", RoleParent},
	{"student", RoleStudent},
}

// ResolveRole picks the highest-precedence role present in the backend role list.
//
// Matching is exact and case-sensitive. Unknown strings are ignored and an empty
// or unrecognised list resolves to [RoleStudent].
func ResolveRole(raw []string) UserRole {
	present := make(map[string]struct{}, len(raw))
	for _, value := range raw {
		present[value] = struct{}{}
	}

	for _, entry := range rolePrecedence {
		if _, ok := present[entry.raw]; ok {
			return entry.role
		}
	}

	return RoleStudent
}

// Valid reports whether r is one of the declared roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// IsStaff reports whether the role works inside the admin dashboard.
func (r UserRole) IsStaff() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupportStaff:
		return true
	default:
		return false
	}
}

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// level follows the precedence table so that AtLeast and ResolveRole agree.
func (r UserRole) level() int {
	for index, entry := range rolePrecedence {
		if entry.role == r {
			return len(rolePrecedence) - index
		}
	}
	return 0
}

// MarshalText implements [encoding.TextMarshaler].
func (r UserRole) MarshalText() ([]byte, error) {
	return []byte(r), nil
}

// UnmarshalText rejects anything outside the closed role set.
func (r *UserRole) UnmarshalText(text []byte) error {
	role := UserRole(text)
	if !role.Valid() {
		return fmt.Errorf("sec: unknown role %q", string(text))
	}
	*r = role
	return nil
}

// # Report Capabilities

// ReportPermissions is the report capability triple derived from a role.
type ReportPermissions struct {
	CanViewReports   bool `json:"can_view_reports"`
	CanExportReports bool `json:"can_export_reports"`
	CanViewAllData   bool `json:"can_view_all_data"`
}

// ReportCapability names one member of [ReportPermissions].
type ReportCapability string

const (
	ReportView    ReportCapability = "view_reports"
	ReportExport  ReportCapability = "export_reports"
	ReportViewAll ReportCapability = "view_all_data"
)

// Allows reports whether the triple grants the capability.
func (p ReportPermissions) Allows(capability ReportCapability) bool {
	switch capability {
	case ReportView:
		return p.CanViewReports
	case ReportExport:
		return p.CanExportReports
	case ReportViewAll:
		return p.CanViewAllData
	default:
		return false
	}
}

// ReportPermissions returns the static capability triple for the role.
// Anything that is not a declared role gets no capabilities.
func (r UserRole) ReportPermissions() ReportPermissions {
	switch {
	case r == RoleSuperAdmin:
		return ReportPermissions{CanViewReports: true, CanExportReports: true, CanViewAllData: true}
	case r.IsStaff():
		return ReportPermissions{CanViewReports: true, CanViewAllData: true}
	case r.Valid():
		return ReportPermissions{CanViewReports: true}
	default:
		return ReportPermissions{}
	}
}
