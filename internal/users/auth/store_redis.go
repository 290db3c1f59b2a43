// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	redisclient "github.com/krishjaiswal09/portal-sub005/internal/platform/redis"
)

// # Redis Session Store

// RedisSessionStore implements SessionStore using Redis.
//
// Each entry is a plain string key: portal:session:<session id>:<entry key>.
// Every write refreshes the entry TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisSessionStore creates a new Redis-backed SessionStore.
func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

// Scope implements SessionStore.
func (store *RedisSessionStore) Scope(sessionID string) Storage {
	return &redisStorage{store: store, sessionID: sessionID}
}

// Ping implements SessionStore.
func (store *RedisSessionStore) Ping(context context.Context) error {
	return redisclient.Ping(context, store.client)
}

// redisStorage is one session's view of the Redis keyspace.
type redisStorage struct {
	store     *RedisSessionStore
	sessionID string
}

func (storage *redisStorage) key(entry string) string {
	return constants.RedisPrefixSession + storage.sessionID + ":" + entry
}

/*
GetItem retrieves an entry.

Description: Absent or expired keys are reported through the bool, not as errors.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Stored value
  - bool: Presence
  - error: Connectivity errors
*/
func (storage *redisStorage) GetItem(context context.Context, key string) (string, bool, error) {

	value, err := storage.store.client.Get(context, storage.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("redis_session_get_failed: %w", err)
	}

	return value, true, nil
}

/*
SetItem stores an entry with the store TTL.

Parameters:
  - context: context.Context
  - key: string
  - value: string

Returns:
  - error: Storage failures
*/
func (storage *redisStorage) SetItem(context context.Context, key, value string) error {
	if err := storage.store.client.Set(context, storage.key(key), value, storage.store.ttl).Err(); err != nil {
		return fmt.Errorf("redis_session_set_failed: %w", err)
	}
	return nil
}

/*
RemoveItem deletes an entry.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - error: Deletion failures
*/
func (storage *redisStorage) RemoveItem(context context.Context, key string) error {
	if err := storage.store.client.Del(context, storage.key(key)).Err(); err != nil {
		return fmt.Errorf("redis_session_delete_failed: %w", err)
	}
	return nil
}
