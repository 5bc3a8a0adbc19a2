// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

// Package main is the one-shot legacy import tool. It parses the data
// embedded in the old static page and replays it through the same create
// path the server uses:
//
//	import-legacy /absolute/path/to/index.html
//
// Re-runs are safe: places already present (same city, name, and URL) are
// skipped.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"github.com/tablescout/tablescout/internal/config"
	"github.com/tablescout/tablescout/internal/importer"
	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/store"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		logging.Fatal().Msg("Usage: import-legacy /absolute/path/to/index.html")
	}
	legacyPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	ctx := context.Background()

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

	stats, err := importer.New(db).Run(ctx, legacyPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("Legacy import failed")
	}

	logging.Info().
		Int("countries", stats.CreatedCountries).
		Int("cities", stats.CreatedCities).
		Int("types", stats.CreatedTypes).
		Int("restaurants", stats.CreatedRestaurants).
		Int("skipped", stats.SkippedRestaurants).
		Msg("Import finished")
}
