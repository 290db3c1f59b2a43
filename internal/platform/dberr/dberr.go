// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies low-level database errors for the session stores.
package dberr

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// IsNoRows reports whether a query matched nothing.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Wrap tags a database error with the failing action, keeping the cause
// reachable through errors.Is / errors.As. A nil error stays nil.
func Wrap(err error, action string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", action, err)
}
