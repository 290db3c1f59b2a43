// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "github.com/krishjaiswal09/portal-sub005/internal/platform/sec"

// Session is the read-only view of an Auth State that guards and handlers consume.
type Session interface {
	IsAuthenticated() bool
	Role() sec.UserRole
	HasPermission(code string) bool
	HasAnyPermission(group string) bool
	ReportPermissions() sec.ReportPermissions
}

// Anonymous is the session of a request that carries no valid session cookie.
var Anonymous Session = anonymous{}

type anonymous struct{}

func (anonymous) IsAuthenticated() bool                    { return false }
func (anonymous) Role() sec.UserRole                       { return "" }
func (anonymous) HasPermission(string) bool                { return false }
func (anonymous) HasAnyPermission(string) bool             { return false }
func (anonymous) ReportPermissions() sec.ReportPermissions { return sec.ReportPermissions{} }
