// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tablescout/tablescout/internal/models"
)

// ListTypes returns all restaurant types ordered by name.
func (s *Store) ListTypes(ctx context.Context) ([]models.RestaurantType, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, emoji, created_at, updated_at FROM restaurant_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurant types: %w", err)
	}
	defer rows.Close()

	types := []models.RestaurantType{}
	for rows.Next() {
		var t models.RestaurantType
		if err := rows.Scan(&t.ID, &t.Name, &t.Emoji, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant type: %w", err)
		}
		types = append(types, t)
	}

	return types, rows.Err()
}

// CreateType inserts a restaurant type.
func (s *Store) CreateType(ctx context.Context, input models.RestaurantTypeInput) (*models.RestaurantType, error) {
	var t models.RestaurantType
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO restaurant_types (name, emoji) VALUES ($1, $2)
		 RETURNING id, name, emoji, created_at, updated_at`,
		input.Name, input.Emoji,
	).Scan(&t.ID, &t.Name, &t.Emoji, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return &t, nil
}

// UpdateType renames a restaurant type or changes its emoji.
func (s *Store) UpdateType(ctx context.Context, id string, input models.RestaurantTypeInput) (*models.RestaurantType, error) {
	var t models.RestaurantType
	err := s.db.QueryRowContext(ctx,
		`UPDATE restaurant_types SET name = $2, emoji = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, emoji, created_at, updated_at`,
		id, input.Name, input.Emoji,
	).Scan(&t.ID, &t.Name, &t.Emoji, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateError(err)
	}

	return &t, nil
}

// DeleteType removes a restaurant type after checking no restaurant links to
// it. The RESTRICT constraint on restaurant_to_types.type_id backstops the
// check.
func (s *Store) DeleteType(ctx context.Context, id string) error {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM restaurant_to_types WHERE type_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check type references: %w", err)
	}
	if inUse {
		return ErrTypeInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM restaurant_types WHERE id = $1`, id)
	if err != nil {
		return translateError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	return nil
}
