// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
)

// ErrCorruptSession marks a stored user record that no longer decodes.
var ErrCorruptSession = errors.New("auth_session_corrupt")

// # Auth State

// State is the Auth State of one session: who is logged in, and whether they are.
//
// Memory and storage move together. Writers hold the lock across their storage
// calls, so readers never see a user that storage does not also hold.
type State struct {
	mu            sync.RWMutex
	storage       Storage
	user          *User
	authenticated bool
}

// NewState creates an unauthenticated State over storage.
func NewState(storage Storage) *State {
	return &State{storage: storage}
}

/*
Login installs the user carried by a validated login payload.

Description: Computes email, display name and role, writes the record then the
authenticated flag to storage, and only then updates memory. A payload without a
user object is refused without touching anything.

Parameters:
  - context: context.Context
  - response: *LoginResponse

Returns:
  - bool: false when the payload has no user or nothing was stored
  - error: Cancellation or storage failures
*/
func (state *State) Login(context context.Context, response *LoginResponse) (bool, error) {
	if response == nil || response.User == nil {
		return false, nil
	}

	user := newUser(response.User)

	encoded, err := json.Marshal(user)
	if err != nil {
		return false, fmt.Errorf("auth_login_encode_failed: %w", err)
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	// A caller that gave up before the write must not leave a session behind.
	if err := context.Err(); err != nil {
		return false, fmt.Errorf("auth_login_cancelled: %w", err)
	}

	if err := state.storage.SetItem(context, constants.StorageKeyUser, string(encoded)); err != nil {
		return false, fmt.Errorf("auth_login_store_user_failed: %w", err)
	}
	if err := state.storage.SetItem(context, constants.StorageKeyAuthenticated, authenticatedFlag); err != nil {
		return false, fmt.Errorf("auth_login_store_flag_failed: %w", err)
	}

	state.user = user
	state.authenticated = true
	return true, nil
}

/*
Logout forgets the session.

Description: Memory is always cleared. Both storage keys are removed; failures are
joined and returned but never leave the State authenticated.

Returns:
  - error: Storage failures
*/
func (state *State) Logout(context context.Context) error {
	state.mu.Lock()
	defer state.mu.Unlock()

	state.user = nil
	state.authenticated = false

	flagErr := state.storage.RemoveItem(context, constants.StorageKeyAuthenticated)
	userErr := state.storage.RemoveItem(context, constants.StorageKeyUser)

	if err := errors.Join(flagErr, userErr); err != nil {
		return fmt.Errorf("auth_logout_storage_failed: %w", err)
	}
	return nil
}

/*
RestoreSession rebuilds memory from storage.

Description: Succeeds only when the flag reads "true" and a user record is present
and decodes. The record is trusted as stored, with no call to the backend.

Returns:
  - bool: Whether a session was restored
  - error: Storage failures or an undecodable record
*/
func (state *State) RestoreSession(context context.Context) (bool, error) {
	state.mu.Lock()
	defer state.mu.Unlock()

	flag, found, err := state.storage.GetItem(context, constants.StorageKeyAuthenticated)
	if err != nil {
		return false, fmt.Errorf("auth_restore_flag_failed: %w", err)
	}
	if !found || flag != authenticatedFlag {
		return false, nil
	}

	raw, found, err := state.storage.GetItem(context, constants.StorageKeyUser)
	if err != nil {
		return false, fmt.Errorf("auth_restore_user_failed: %w", err)
	}
	if !found {
		return false, nil
	}

	var user User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return false, fmt.Errorf("%w: %w", ErrCorruptSession, err)
	}

	state.user = &user
	state.authenticated = true
	return true, nil
}

// # Read Side

// IsAuthenticated reports whether a user is logged in.
func (state *State) IsAuthenticated() bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.authenticated
}

// Role returns the resolved role, or "" when unauthenticated.
func (state *State) Role() sec.UserRole {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if !state.authenticated || state.user == nil {
		return ""
	}
	return state.user.Role
}

// User returns a copy of the current user, or nil.
func (state *State) User() *User {
	state.mu.RLock()
	defer state.mu.RUnlock()
	if !state.authenticated {
		return nil
	}
	return state.user.Clone()
}

// ReportPermissions returns the capability triple of the current role.
// An unauthenticated State gets none.
func (state *State) ReportPermissions() sec.ReportPermissions {
	return state.Role().ReportPermissions()
}

// HasPermission reports whether the current user holds a grant with code.
func (state *State) HasPermission(code string) bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.authenticated && state.user.HasPermission(code)
}

// HasAnyPermission reports whether the current user holds any grant in group.
func (state *State) HasAnyPermission(group string) bool {
	state.mu.RLock()
	defer state.mu.RUnlock()
	return state.authenticated && state.user.HasAnyPermission(group)
}

// newUser merges the server fields with the portal's computed email, name and role.
func newUser(source *LoginUser) *User {
	roles := source.Roles
	if roles == nil {
		roles = []string{}
	}
	permissions := source.Permissions
	if permissions == nil {
		permissions = []PermissionGrant{}
	}

	return &User{
		ID:          source.ID,
		Email:       source.Email,
		Name:        DeriveDisplayName(source.FirstName, source.LastName, source.Email),
		FirstName:   source.FirstName,
		LastName:    source.LastName,
		Role:        sec.ResolveRole(roles),
		Phone:       source.Phone,
		Country:     source.Country,
		Timezone:    source.Timezone,
		AvatarURL:   source.AvatarURL,
		Permissions: permissions,
		Roles:       roles,
		Extra:       source.Extra,
	}
}
