// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package redis_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisclient "github.com/krishjaiswal09/portal-sub005/internal/platform/redis"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		name     string
		options  redisclient.Options
		poolSize int
		minIdle  int
		maxIdle  int
	}{
		{"defaults", redisclient.Options{}, 20, 2, 10},
		{"sized", redisclient.Options{PoolSize: 40}, 40, 2, 20},
		{"tiny", redisclient.Options{PoolSize: 1}, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			options, err := redisclient.Config("redis://cache.internal:6379/3", tt.options)
			require.NoError(t, err)

			assert.Equal(t, "cache.internal:6379", options.Addr)
			assert.Equal(t, 3, options.DB)
			assert.Equal(t, tt.poolSize, options.PoolSize)
			assert.Equal(t, tt.minIdle, options.MinIdleConns)
			assert.Equal(t, tt.maxIdle, options.MaxIdleConns)
		})
	}
}

func TestNewClient(t *testing.T) {
	server := miniredis.RunT(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	client, err := redisclient.NewClient(context.Background(), "redis://"+server.Addr()+"/0", redisclient.Options{}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, redisclient.Ping(context.Background(), client))
}

func TestNewClient_Errors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := redisclient.NewClient(context.Background(), "http://not-redis", redisclient.Options{}, logger)
	assert.ErrorContains(t, err, "invalid URL")

	server := miniredis.RunT(t)
	addr := server.Addr()
	server.Close()

	_, err = redisclient.NewClient(context.Background(), "redis://"+addr, redisclient.Options{}, logger)
	assert.ErrorContains(t, err, "ping failed")
}
