// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "context"

// # Durable Storage

// Storage is the durable key-value area of one session.
//
// It plays the part of the browser's local storage: string keys, string values,
// and no knowledge of what the values mean.
type Storage interface {

	/*
		GetItem reads a key.

		Returns:
		  - string: Stored value
		  - bool: false if the key is absent or expired
		  - error: Backend failures only
	*/
	GetItem(context context.Context, key string) (string, bool, error)

	/*
		SetItem writes a key, refreshing its expiry.

		Returns:
		  - error: Backend failures
	*/
	SetItem(context context.Context, key, value string) error

	/*
		RemoveItem deletes a key. Removing an absent key is not an error.

		Returns:
		  - error: Backend failures
	*/
	RemoveItem(context context.Context, key string) error
}

// SessionStore hands out the [Storage] area of a session id.
type SessionStore interface {

	// Scope returns the storage area for sessionID. It performs no I/O.
	Scope(sessionID string) Storage

	// Ping checks that the backing service is reachable.
	Ping(context context.Context) error
}
