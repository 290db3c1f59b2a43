// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access holds the navigation rules of the portal.

It partitions the URL space into role namespaces, decides whether a session may
see a path, and defines the read-only [Session] view that guards consume.

Every function here is pure. The HTTP middleware in platform/middleware applies
the decisions; nothing in this package touches storage or the network.
*/
package access

import (
	"path"
	"strings"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
)

// # Portal Paths

const (
	LoginPath          = "/login"
	RootPath           = "/"
	StudentHomePath    = "/student"
	InstructorHomePath = "/instructor"
	ParentHomePath     = "/parent"
)

// # Namespaces

// Namespace is one bucket of the URL partition.
type Namespace string

const (
	NamespaceStudent    Namespace = "student"
	NamespaceInstructor Namespace = "instructor"
	NamespaceParent     Namespace = "parent"

	// NamespaceAdmin is the "everything else" bucket.
	NamespaceAdmin Namespace = "admin"
)

// scopedNamespaces lists the prefixed buckets. Anything outside them is admin.
var scopedNamespaces = []struct {
	namespace Namespace
	home      string
}{
	{NamespaceStudent, StudentHomePath},
	{NamespaceInstructor, InstructorHomePath},
	{NamespaceParent, ParentHomePath},
}

// Clean resolves dot segments and duplicate slashes into a rooted path, so
// "/student/../reports" is judged as "/reports".
func Clean(raw string) string {
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return path.Clean(raw)
}

// NamespaceOf returns the single bucket the cleaned path belongs to.
//
// A path is in a prefixed bucket when it equals the bucket home or continues it
// with a slash, so "/students" is admin while "/student/classes" is student.
func NamespaceOf(target string) Namespace {
	target = Clean(target)
	for _, scoped := range scopedNamespaces {
		if target == scoped.home || strings.HasPrefix(target, scoped.home+"/") {
			return scoped.namespace
		}
	}
	return NamespaceAdmin
}

// Home returns the landing path of the namespace.
func (n Namespace) Home() string {
	for _, scoped := range scopedNamespaces {
		if scoped.namespace == n {
			return scoped.home
		}
	}
	return RootPath
}

// NamespaceFor maps a role to the namespace it is confined to.
// The second result is false for values outside the role enum.
func NamespaceFor(role sec.UserRole) (Namespace, bool) {
	switch role {
	case sec.RoleStudent:
		return NamespaceStudent, true
	case sec.RoleInstructor:
		return NamespaceInstructor, true
	case sec.RoleParent:
		return NamespaceParent, true
	case sec.RoleSuperAdmin, sec.RoleAdmin, sec.RoleSupportStaff:
		return NamespaceAdmin, true
	default:
		return "", false
	}
}

// HomeFor returns where a freshly logged-in user of the role lands.
func HomeFor(role sec.UserRole) string {
	namespace, ok := NamespaceFor(role)
	if !ok {
		return RootPath
	}
	return namespace.Home()
}
