// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access

import "github.com/krishjaiswal09/portal-sub005/internal/platform/sec"

// # Route Guard

// Outcome labels a guard decision for logs and metrics.
type Outcome string

const (
	OutcomeAllow        Outcome = "allow"
	OutcomeLogin        Outcome = "redirect_login"
	OutcomeWrongPortal  Outcome = "redirect_home"
	OutcomeOutsideAdmin Outcome = "redirect_root"
)

// Decision is the result of evaluating one navigation.
type Decision struct {
	Allow    bool
	Redirect string
	Outcome  Outcome
}

func allow() Decision {
	return Decision{Allow: true, Outcome: OutcomeAllow}
}

func redirect(target string, outcome Outcome) Decision {
	return Decision{Redirect: target, Outcome: outcome}
}

/*
Decide evaluates a navigation to path for the given session facts.

Rules, first match wins:
 1. Not authenticated: go to the login page.
 2. Student, instructor, parent: stay inside the own namespace, else go to its home.
 3. Admin, super-admin, support-staff: stay outside the three scoped namespaces, else go to root.
 4. Anything else: render the page.
*/
func Decide(authenticated bool, role sec.UserRole, path string) Decision {
	if !authenticated {
		return redirect(LoginPath, OutcomeLogin)
	}

	namespace, ok := NamespaceFor(role)
	if !ok {
		return allow()
	}

	requested := NamespaceOf(path)

	if namespace == NamespaceAdmin {
		if requested != NamespaceAdmin {
			return redirect(RootPath, OutcomeOutsideAdmin)
		}
		return allow()
	}

	if requested != namespace {
		return redirect(namespace.Home(), OutcomeWrongPortal)
	}

	return allow()
}

// DecideFor evaluates a navigation for a [Session].
func DecideFor(session Session, path string) Decision {
	return Decide(session.IsAuthenticated(), session.Role(), path)
}
