// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the portal's session layer.

It relays logins to the business backend, keeps the resulting Auth State in
durable session storage, and answers role and permission questions for the
route guard and the dashboards.

# Architecture

  - Entities: User, PermissionGrant, LoginResponse (validated backend payload).
  - State: the per-session container, built on an injected [Storage].
  - Stores: Redis, PostgreSQL and in-memory implementations of [SessionStore].
  - Service: orchestrates backend relay, state and token issuance.
*/
package auth

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
)

// # Domain Entities

// PermissionGrant is one server-issued capability. The portal only reads it.
type PermissionGrant struct {
	Code        string `json:"code"`
	Group       string `json:"group"`
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// User is the logged-in principal as stored for a session.
//
// Fields the portal does not model are kept in Extra and written back verbatim,
// so the stored record carries everything the backend sent.
type User struct {
	ID          int64             `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name"`
	FirstName   string            `json:"first_name,omitempty"`
	LastName    string            `json:"last_name,omitempty"`
	Role        sec.UserRole      `json:"role"`
	Phone       string            `json:"phone,omitempty"`
	Country     string            `json:"country,omitempty"`
	Timezone    string            `json:"timezone,omitempty"`
	AvatarURL   string            `json:"avatar_url,omitempty"`
	Permissions []PermissionGrant `json:"permissions"`
	Roles       []string          `json:"roles"`

	Extra map[string]json.RawMessage `json:"-"`
}

// userKeys are the JSON keys owned by the typed fields of [User].
var userKeys = map[string]struct{}{
	FieldID: {}, FieldEmail: {}, FieldName: {}, FieldFirstName: {}, FieldLastName: {},
	FieldRole: {}, FieldPhone: {}, FieldCountry: {}, FieldTimezone: {}, FieldAvatarURL: {},
	FieldPermissions: {}, FieldRoles: {},
}

// plainUser drops the custom (un)marshalers to avoid recursion.
type plainUser User

// MarshalJSON writes the typed fields plus any extra backend fields.
func (u User) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(plainUser(u))
	if err != nil {
		return nil, err
	}
	if len(u.Extra) == 0 {
		return typed, nil
	}

	merged := make(map[string]json.RawMessage, len(u.Extra)+len(userKeys))
	for key, value := range u.Extra {
		if _, owned := userKeys[key]; !owned {
			merged[key] = value
		}
	}
	if err := json.Unmarshal(typed, &merged); err != nil {
		return nil, err
	}
	return json.Marshal(merged)
}

// UnmarshalJSON reads the typed fields and collects the rest into Extra.
func (u *User) UnmarshalJSON(data []byte) error {
	var typed plainUser
	if err := json.Unmarshal(data, &typed); err != nil {
		return err
	}

	extra, err := extraFields(data, userKeys)
	if err != nil {
		return err
	}

	typed.Extra = extra
	*u = User(typed)
	return nil
}

// Clone returns a deep copy so callers never share slices with the State.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}

	clone := *u
	clone.Permissions = append([]PermissionGrant{}, u.Permissions...)
	clone.Roles = append([]string{}, u.Roles...)
	if u.Extra != nil {
		clone.Extra = make(map[string]json.RawMessage, len(u.Extra))
		for key, value := range u.Extra {
			clone.Extra[key] = append(json.RawMessage{}, value...)
		}
	}
	return &clone
}

// # Permission Lookups

// HasPermission reports whether any grant carries the code.
func (u *User) HasPermission(code string) bool {
	if u == nil {
		return false
	}
	for _, grant := range u.Permissions {
		if grant.Code == code {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether any grant belongs to the group.
func (u *User) HasAnyPermission(group string) bool {
	if u == nil {
		return false
	}
	for _, grant := range u.Permissions {
		if grant.Group == group {
			return true
		}
	}
	return false
}

// # Login Payload

// LoginResponse is the validated shape of the backend login payload.
// User is nil when the payload carries no user object.
type LoginResponse struct {
	User *LoginUser
}

// LoginUser holds the server-supplied user fields before the portal computes
// email, display name and role.
type LoginUser struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	Phone       string
	Country     string
	Timezone    string
	AvatarURL   string
	Roles       []string
	Permissions []PermissionGrant
	Extra       map[string]json.RawMessage
}

// loginUserWire mirrors the backend JSON. Every field may be absent or null.
type loginUserWire struct {
	ID          int64             `json:"id"`
	Email       *string           `json:"email"`
	FirstName   *string           `json:"first_name"`
	LastName    *string           `json:"last_name"`
	Phone       *string           `json:"phone"`
	Country     *string           `json:"country"`
	Timezone    *string           `json:"timezone"`
	AvatarURL   *string           `json:"avatar_url"`
	Roles       []string          `json:"roles"`
	Permissions []PermissionGrant `json:"permissions"`
}

// ParseLoginResponse validates a raw backend payload.
//
// A missing or null "user" is not an error: it yields a response whose User is
// nil, which [State.Login] rejects. Malformed JSON or wrongly typed fields are
// errors. Server-sent "name" and "role" are dropped because the portal computes
// both.
func ParseLoginResponse(data []byte) (*LoginResponse, error) {
	var envelope struct {
		User json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("auth_login_response_invalid: %w", err)
	}

	trimmed := bytes.TrimSpace(envelope.User)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return &LoginResponse{}, nil
	}

	var wire loginUserWire
	if err := json.Unmarshal(trimmed, &wire); err != nil {
		return nil, fmt.Errorf("auth_login_user_invalid: %w", err)
	}

	extra, err := extraFields(trimmed, userKeys)
	if err != nil {
		return nil, fmt.Errorf("auth_login_user_invalid: %w", err)
	}

	return &LoginResponse{User: &LoginUser{
		ID:          wire.ID,
		Email:       deref(wire.Email),
		FirstName:   deref(wire.FirstName),
		LastName:    deref(wire.LastName),
		Phone:       deref(wire.Phone),
		Country:     deref(wire.Country),
		Timezone:    deref(wire.Timezone),
		AvatarURL:   deref(wire.AvatarURL),
		Roles:       wire.Roles,
		Permissions: wire.Permissions,
		Extra:       extra,
	}}, nil
}

// extraFields returns the compacted values of every key not in owned.
// The result is nil when there is nothing extra.
func extraFields(data []byte, owned map[string]struct{}) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	var extra map[string]json.RawMessage
	for key, value := range raw {
		if _, ok := owned[key]; ok {
			continue
		}

		var compacted bytes.Buffer
		if err := json.Compact(&compacted, value); err != nil {
			return nil, err
		}

		// Same escaping json.Marshal applies to RawMessage, so a stored
		// record decodes back to identical bytes.
		var escaped bytes.Buffer
		json.HTMLEscape(&escaped, compacted.Bytes())

		if extra == nil {
			extra = make(map[string]json.RawMessage)
		}
		extra[key] = json.RawMessage(escaped.Bytes())
	}
	return extra, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

// # Field Identifiers

const (
	FieldID          = "id"
	FieldEmail       = "email"
	FieldName        = "name"
	FieldFirstName   = "first_name"
	FieldLastName    = "last_name"
	FieldRole        = "role"
	FieldPhone       = "phone"
	FieldCountry     = "country"
	FieldTimezone    = "timezone"
	FieldAvatarURL   = "avatar_url"
	FieldPermissions = "permissions"
	FieldRoles       = "roles"
	FieldPassword    = "password"
	FieldMessage     = "message"
)
