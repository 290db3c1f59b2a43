// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis provides the managed client behind the Redis session store.

Session entries are small strings with a TTL, so the pool is tuned for many
short round trips rather than large payloads.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Timeouts for session round trips.
const (
	dialTimeout  = 3 * time.Second
	readTimeout  = 2 * time.Second
	writeTimeout = 2 * time.Second
	pingTimeout  = 2 * time.Second
)

// Options sizes the client for the session store.
type Options struct {
	// PoolSize caps concurrent session round trips. Zero means 20.
	PoolSize int
}

// Config turns a Redis URL and options into client options without connecting.
func Config(redisURL string, options Options) (*redis.Options, error) {
	parsed, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	parsed.PoolSize = options.PoolSize
	if parsed.PoolSize <= 0 {
		parsed.PoolSize = 20
	}
	parsed.MinIdleConns = min(2, parsed.PoolSize)
	parsed.MaxIdleConns = max(parsed.MinIdleConns, parsed.PoolSize/2)

	parsed.DialTimeout = dialTimeout
	parsed.ReadTimeout = readTimeout
	parsed.WriteTimeout = writeTimeout

	return parsed, nil
}

// NewClient parses a Redis URL and returns a client that has answered a ping.
//
// # Parameters
//   - context: Context for the initial ping.
//   - redisURL: Redis connection URL.
//   - options: Pool sizing.
//   - logger: Structured logger for connection events.
func NewClient(context stdctx.Context, redisURL string, options Options, logger *slog.Logger) (*redis.Client, error) {
	clientOptions, err := Config(redisURL, options)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(clientOptions)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", clientOptions.Addr),
		slog.Int("db", clientOptions.DB),
		slog.Int("pool_size", clientOptions.PoolSize),
	)

	return client, nil
}

// Ping verifies that the Redis client is healthy.
func Ping(context stdctx.Context, client *redis.Client) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}

	return nil
}
