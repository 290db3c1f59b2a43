// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the portal HTTP server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the session store selected by SESSION_BACKEND (Redis, PostgreSQL or memory).
//  4. Load the session token keys.
//  5. Wire the backend relay, auth service and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/krishjaiswal09/portal-sub005/internal/api"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/config"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/constants"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/metrics"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/migration"
	pgstore "github.com/krishjaiswal09/portal-sub005/internal/platform/postgres"
	redisstore "github.com/krishjaiswal09/portal-sub005/internal/platform/redis"
	"github.com/krishjaiswal09/portal-sub005/internal/platform/sec"
	"github.com/krishjaiswal09/portal-sub005/internal/portal"
	"github.com/krishjaiswal09/portal-sub005/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("session_backend", cfg.SessionBackend),
	)

	// Root context for background workers; cancelled on shutdown.
	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	// Use a 30s deadline so misconfiguration is caught quickly rather than hanging.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	// ── 3. Session Store ──────────────────────────────────────────────────
	sessions, closeStore := openSessionStore(rootCtx, startupCtx, cfg, log)
	defer closeStore()

	// ── 4. Session Tokens ─────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize token service")

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	sink := metrics.New()
	backend := auth.NewBackendClient(cfg.BackendURL, cfg.BackendTimeout)
	authService := auth.NewService(backend, sessions, tokens, sink, cfg.SessionTTL)

	liveness, readiness := api.NewHealthHandlers(api.DependencyCheck{
		Name:  cfg.SessionBackend,
		Check: authService.Ping,
	})

	authHandler := auth.NewHandler(authService, auth.HandlerOptions{
		LoginRatePerMinute: cfg.LoginRatePerMinute,
		SecureCookie:       cfg.CookieSecure,
	})

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Portal:    portal.NewHandler(),
		Tokens:    tokens,
		Sessions:  authService,
		Metrics:   sink,
	}

	server := api.NewServer(rootCtx, cfg, log, handlers)

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("server_shutting_down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})).With(slog.String("app", constants.AppName))
}

// openSessionStore connects the configured backend and returns it with its closer.
func openSessionStore(rootCtx, startupCtx context.Context, cfg *config.Config, log *slog.Logger) (auth.SessionStore, func()) {
	switch cfg.SessionBackend {
	case config.SessionBackendPostgres:
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, pgstore.Options{MaxConns: cfg.PostgresMaxConns}, log)
		must(log, err, "connect to postgres")

		store := auth.NewPostgresSessionStore(pool, cfg.SessionTTL)
		go store.RunJanitor(rootCtx, constants.SessionJanitorInterval, log)

		return store, func() {
			log.Info("closing_postgres_pool")
			pool.Close()
		}

	case config.SessionBackendMemory:
		log.Warn("session_store_in_memory", slog.String("reason", "sessions are lost on restart"))
		return auth.NewMemorySessionStore(cfg.SessionTTL, constants.SessionJanitorInterval), func() {}

	default:
		client, err := redisstore.NewClient(startupCtx, cfg.RedisURL, redisstore.Options{PoolSize: cfg.RedisPoolSize}, log)
		must(log, err, "connect to redis")

		return auth.NewRedisSessionStore(client, cfg.SessionTTL), func() {
			log.Info("closing_redis_client")
			if cerr := client.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned and
// handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
