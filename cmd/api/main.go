// Copyright (c) 2026 LegitExchange. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the LegitExchange web server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load and validate configuration from environment variables.
//  3. Connect to PostgreSQL and run migrations, or fall back to the in-memory identity store.
//  4. Connect to Redis, or fall back to the in-memory sign-in throttle.
//  5. Build the session token service and the access policy.
//  6. Wire HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
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

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/legitexchange/internal/access"
	"github.com/taibuivan/legitexchange/internal/api"
	"github.com/taibuivan/legitexchange/internal/platform/config"
	"github.com/taibuivan/legitexchange/internal/platform/constants"
	"github.com/taibuivan/legitexchange/internal/platform/migration"
	pgstore "github.com/taibuivan/legitexchange/internal/platform/postgres"
	redisstore "github.com/taibuivan/legitexchange/internal/platform/redis"
	"github.com/taibuivan/legitexchange/internal/platform/sec"
	"github.com/taibuivan/legitexchange/internal/users/auth"
	"github.com/taibuivan/legitexchange/internal/web"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	logLevel := new(slog.LevelVar)
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})).With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		logLevel.Set(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("postgres", cfg.UsesPostgres()),
		slog.Bool("redis", cfg.UsesRedis()),
	)

	// Root context for the process lifetime, cancelled on SIGINT/SIGTERM.
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	// Startup gets a 30s deadline so misconfiguration is caught quickly
	// rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(rootCtx, 30*time.Second)
	defer startupCancel()

	var health api.HealthDependencies

	// ── 3. Identity Store ─────────────────────────────────────────────────
	var identities auth.IdentityRepository
	if cfg.UsesPostgres() {
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("postgres_pool_closing")
			pool.Close()
		}()

		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		identities = auth.NewPostgresIdentityRepository(pool)
		health.CheckDatabase = func(context context.Context) error {
			return pgstore.Ping(context, pool)
		}
	} else {
		if cfg.IsProduction() {
			log.Warn("identity_store_in_memory", slog.String("reason", "DATABASE_URL is empty"))
		}
		identities = auth.NewMemoryIdentityRepository()
	}

	// ── 4. Sign-in Throttle ───────────────────────────────────────────────
	var attempts auth.AttemptLimiter
	if cfg.UsesRedis() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("redis_client_closing")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		attempts = auth.NewRedisAttemptLimiter(rdb, cfg.SignInMaxAttempts, cfg.SignInWindow)
		health.CheckCache = func(context context.Context) error {
			return redisstore.Ping(context, rdb)
		}
	} else {
		attempts = auth.NewMemoryAttemptLimiter(cfg.SignInMaxAttempts, cfg.SignInWindow)
	}

	// ── 5. Sessions & Policy ──────────────────────────────────────────────
	tokens, err := sec.NewTokenService([]byte(cfg.SessionSecret), constants.AuthIssuer, cfg.SessionTTL)
	must(log, err, "initialize session token service")

	policy := access.DefaultPolicy()

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(identities, tokens, attempts, cfg.BcryptCost)
	if cfg.SeedDemoUser {
		must(log, authService.SeedDemo(startupCtx), "seed demo user")
		log.Info("demo_user_seeded", slog.String("email", auth.DemoEmail))
	}

	renderer, err := web.NewRenderer()
	must(log, err, "parse page templates")

	liveness, readiness := api.NewHealthHandlers(health, log)
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService, access.NewGuard(policy), cfg.SessionCookieSecure),
		Pages:     web.NewHandler(renderer, policy),
	}

	server := api.NewServer(rootCtx, cfg, log, policy, tokens, handlers)

	// ── 7. Serve & Graceful Shutdown ──────────────────────────────────────
	group, groupCtx := errgroup.WithContext(rootCtx)

	group.Go(func() error {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-groupCtx.Done()
		log.Info("shutdown_started", slog.Duration("timeout", constants.ShutdownTimeout))
		return server.Shutdown(constants.ShutdownTimeout)
	})

	if err := group.Wait(); err != nil {
		log.Error("server_stopped_with_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
