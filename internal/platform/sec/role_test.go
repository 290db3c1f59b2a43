// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
)

/*
TestResolveRole checks the precedence table and the student default.
*/
func TestResolveRole(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want sec.UserRole
	}{
		{"nil_list", nil, sec.RoleStudent},
		{"empty_list", []string{}, sec.RoleStudent},
		{"unknown_only", []string{"tutor", "ADMIN"}, sec.RoleStudent},
		{"single_admin", []string{"admin"}, sec.RoleAdmin},
		{"instructor_and_support", []string{"instructor", "support_and_sales"}, sec.RoleSupportStaff},
		{"parent_beats_student", []string{"student", "parent"}, sec.RoleParent},
		{"instructor_beats_parent", []string{"parent", "instructor"}, sec.RoleInstructor},
		{"unknown_mixed_with_known", []string{"owner", "instructor"}, sec.RoleInstructor},
		{"super_admin_last", []string{"student", "admin", "super_admin"}, sec.RoleSuperAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sec.ResolveRole(tt.raw))
		})
	}
}

/*
TestResolveRole_SuperAdminDominates checks that super_admin wins whatever else is present.
*/
func TestResolveRole_SuperAdminDominates(t *testing.T) {
	others := []string{"admin", "support_and_sales", "instructor", "parent", "student", "unknown"}

	for i := range others {
		for j := i; j <= len(others); j++ {
			raw := append([]string{}, others[i:j]...)
			raw = append(raw, "super_admin")
			assert.Equal(t, sec.RoleSuperAdmin, sec.ResolveRole(raw), "roles: %v", raw)

			reversed := append([]string{"super_admin"}, others[i:j]...)
			assert.Equal(t, sec.RoleSuperAdmin, sec.ResolveRole(reversed), "roles: %v", reversed)
		}
	}
}

/*
TestUserRole_AtLeast checks that the hierarchy follows the precedence table.
*/
func TestUserRole_AtLeast(t *testing.T) {
	assert.True(t, sec.RoleSuperAdmin.AtLeast(sec.RoleAdmin))
	assert.True(t, sec.RoleAdmin.AtLeast(sec.RoleSupportStaff))
	assert.True(t, sec.RoleInstructor.AtLeast(sec.RoleParent))
	assert.True(t, sec.RoleStudent.AtLeast(sec.RoleStudent))
	assert.False(t, sec.RoleStudent.AtLeast(sec.RoleParent))
	assert.False(t, sec.UserRole("").AtLeast(sec.RoleStudent))
}

/*
TestUserRole_UnmarshalText rejects unknown roles read back from storage.
*/
func TestUserRole_UnmarshalText(t *testing.T) {
	var holder struct {
		Role sec.UserRole `json:"role"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"role":"support-staff"}`), &holder))
	assert.Equal(t, sec.RoleSupportStaff, holder.Role)

	assert.Error(t, json.Unmarshal([]byte(`{"role":"super_admin"}`), &holder))
	assert.Error(t, json.Unmarshal([]byte(`{"role":""}`), &holder))
}

/*
TestUserRole_ReportPermissions checks the static capability table.
*/
func TestUserRole_ReportPermissions(t *testing.T) {
	tests := []struct {
		role sec.UserRole
		want sec.ReportPermissions
	}{
		{sec.RoleSuperAdmin, sec.ReportPermissions{CanViewReports: true, CanExportReports: true, CanViewAllData: true}},
		{sec.RoleAdmin, sec.ReportPermissions{CanViewReports: true, CanViewAllData: true}},
		{sec.RoleSupportStaff, sec.ReportPermissions{CanViewReports: true, CanViewAllData: true}},
		{sec.RoleInstructor, sec.ReportPermissions{CanViewReports: true}},
		{sec.RoleStudent, sec.ReportPermissions{CanViewReports: true}},
		{sec.RoleParent, sec.ReportPermissions{CanViewReports: true}},
		{sec.UserRole(""), sec.ReportPermissions{}},
		{sec.UserRole("tutor"), sec.ReportPermissions{}},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.ReportPermissions())
		})
	}
}

func TestUserRole_IsStaff(t *testing.T) {
	for _, role := range []sec.UserRole{sec.RoleSuperAdmin, sec.RoleAdmin, sec.RoleSupportStaff} {
		assert.True(t, role.IsStaff(), role)
	}
	for _, role := range []sec.UserRole{sec.RoleInstructor, sec.RoleStudent, sec.RoleParent, ""} {
		assert.False(t, role.IsStaff(), role)
	}
}

func TestReportPermissions_Allows(t *testing.T) {
	admin := sec.RoleAdmin.ReportPermissions()

	assert.True(t, admin.Allows(sec.ReportView))
	assert.True(t, admin.Allows(sec.ReportViewAll))
	assert.False(t, admin.Allows(sec.ReportExport))
	assert.False(t, admin.Allows(sec.ReportCapability("delete_reports")))
}
