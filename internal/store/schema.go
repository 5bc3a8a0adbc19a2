// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package store

import (
	"context"
	"fmt"

	"github.com/tablescout/tablescout/internal/logging"
)

// schemaStatements creates the tables in dependency order. Statements are
// idempotent so startup can always run them.
//
// Referential rules: cities cascade away with their country, restaurant child
// rows cascade away with their restaurant; restaurants block city deletion and
// type links block type deletion (RESTRICT), backstopping the application
// pre-checks.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS countries (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS cities (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		country_id UUID NOT NULL REFERENCES countries(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (country_id, name)
	)`,

	// At most one default city across the whole dataset.
	`CREATE UNIQUE INDEX IF NOT EXISTS cities_single_default
		ON cities (is_default) WHERE is_default`,

	`CREATE TABLE IF NOT EXISTS restaurant_types (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		name TEXT NOT NULL UNIQUE,
		emoji TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS restaurants (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		city_id UUID NOT NULL REFERENCES cities(id) ON DELETE RESTRICT,
		name TEXT NOT NULL,
		notes TEXT NOT NULL,
		referred_by TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		status TEXT NOT NULL CHECK (status IN ('untried', 'liked', 'disliked')),
		tried_at TIMESTAMPTZ,
		disliked_reason TEXT,
		deleted_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,

	`CREATE TABLE IF NOT EXISTS restaurant_areas (
		restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		area TEXT NOT NULL,
		PRIMARY KEY (restaurant_id, area)
	)`,

	`CREATE TABLE IF NOT EXISTS restaurant_meals (
		restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		meal_type TEXT NOT NULL CHECK (meal_type IN ('snack', 'breakfast', 'lunch', 'dinner')),
		PRIMARY KEY (restaurant_id, meal_type)
	)`,

	`CREATE TABLE IF NOT EXISTS restaurant_to_types (
		restaurant_id UUID NOT NULL REFERENCES restaurants(id) ON DELETE CASCADE,
		type_id UUID NOT NULL REFERENCES restaurant_types(id) ON DELETE RESTRICT,
		PRIMARY KEY (restaurant_id, type_id)
	)`,

	`CREATE INDEX IF NOT EXISTS restaurants_city_idx ON restaurants (city_id)`,
	`CREATE INDEX IF NOT EXISTS restaurants_deleted_idx ON restaurants (deleted_at)`,
}

// InitSchema creates all tables and indexes if they do not exist.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	logging.Info().Msg("Database schema ready")
	return nil
}
