// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

// Package main is the entry point for the Tablescout server.
//
// Tablescout is a self-hosted restaurant-recommendation CMS: a public listing
// page backed by Postgres, managed by a single admin through a JSON API.
//
// The server initializes components in the following order:
//
//  1. Configuration: koanf v2 layered sources (defaults, config file, env)
//  2. Logging: zerolog, JSON by default
//  3. Database: Postgres via lib/pq, schema bootstrap on startup
//  4. Authentication: session manager with login throttle
//  5. HTTP server: chi router with the public and admin API
//
// Required configuration:
//   - DATABASE_URL: postgres:// connection string
//   - SESSION_SECRET: 16+ character secret for session token signing
//   - ADMIN_USERNAME / ADMIN_PASSWORD: the admin credentials (login is
//     disabled but the server still starts when they are unset)
//
// The server handles graceful shutdown on SIGINT and SIGTERM: it stops
// accepting new connections and waits up to 10 seconds for in-flight
// requests.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tablescout/tablescout/internal/api"
	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/config"
	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/store"
)

func main() {
	// A missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Tablescout")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := store.Open(ctx, cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	if err := db.InitSchema(ctx); err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize schema")
	}
	logging.Info().Msg("Database ready")

	throttle := auth.NewMemoryThrottle(auth.ThrottleConfig{
		MaxFailures:   cfg.Security.ThrottleMaxFailures,
		Window:        cfg.Security.ThrottleWindow,
		BlockDuration: cfg.Security.ThrottleBlock,
	})
	throttle.StartSweep(ctx)

	sessions := auth.NewSessionManager(
		cfg.Security.SessionSecret,
		cfg.Security.AdminUsername,
		cfg.Security.AdminPassword,
		throttle,
	)

	router := api.NewRouter(db, sessions, cfg)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("HTTP server failed")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Forced shutdown after timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
