// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// # In-Memory Session Store

// MemorySessionStore implements SessionStore in process memory.
// Sessions do not survive a restart; it suits development and tests.
type MemorySessionStore struct {
	cache *cache.Cache
}

// NewMemorySessionStore creates a store whose entries expire after ttl.
func NewMemorySessionStore(ttl, cleanupInterval time.Duration) *MemorySessionStore {
	return &MemorySessionStore{cache: cache.New(ttl, cleanupInterval)}
}

// Scope implements SessionStore.
func (store *MemorySessionStore) Scope(sessionID string) Storage {
	return &memoryStorage{cache: store.cache, prefix: sessionID + ":"}
}

// Ping implements SessionStore. Memory is always reachable.
func (store *MemorySessionStore) Ping(context.Context) error {
	return nil
}

// ItemCount reports how many unexpired entries are held.
func (store *MemorySessionStore) ItemCount() int {
	return store.cache.ItemCount()
}

type memoryStorage struct {
	cache  *cache.Cache
	prefix string
}

func (storage *memoryStorage) GetItem(_ context.Context, key string) (string, bool, error) {
	value, found := storage.cache.Get(storage.prefix + key)
	if !found {
		return "", false, nil
	}
	text, _ := value.(string)
	return text, true, nil
}

func (storage *memoryStorage) SetItem(_ context.Context, key, value string) error {
	storage.cache.Set(storage.prefix+key, value, cache.DefaultExpiration)
	return nil
}

func (storage *memoryStorage) RemoveItem(_ context.Context, key string) error {
	storage.cache.Delete(storage.prefix + key)
	return nil
}
