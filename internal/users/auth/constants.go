// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Session Constraints

const (
	// DefaultSessionTTL bounds how long a stored Auth State survives without a login.
	// Restores never revalidate against the backend, so this is also the staleness bound.
	DefaultSessionTTL = 30 * 24 * time.Hour

	// MaxLoginResponseBytes caps how much of a backend login payload is read.
	MaxLoginResponseBytes = 1 << 20

	// authenticatedFlag is the stored value of the authenticated key.
	authenticatedFlag = "true"
)

// # Login Outcomes

// Labels used for login logs and metrics.
const (
	LoginOutcomeSuccess      = "success"
	LoginOutcomeRejected     = "rejected"
	LoginOutcomeMissingUser  = "missing_user"
	LoginOutcomeBadPayload   = "bad_payload"
	LoginOutcomeCancelled    = "cancelled"
	LoginOutcomeStorageError = "storage_error"
	LoginOutcomeError        = "error"
)
