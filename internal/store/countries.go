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

// ListCountries returns all countries ordered by name.
func (s *Store) ListCountries(ctx context.Context) ([]models.Country, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM countries ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}
	defer rows.Close()

	countries := []models.Country{}
	for rows.Next() {
		var c models.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan country: %w", err)
		}
		countries = append(countries, c)
	}

	return countries, rows.Err()
}

// CreateCountry inserts a country and returns it.
func (s *Store) CreateCountry(ctx context.Context, input models.CountryInput) (*models.Country, error) {
	var c models.Country
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO countries (name) VALUES ($1)
		 RETURNING id, name, created_at, updated_at`,
		input.Name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return &c, nil
}

// UpdateCountry renames a country.
func (s *Store) UpdateCountry(ctx context.Context, id string, input models.CountryInput) (*models.Country, error) {
	var c models.Country
	err := s.db.QueryRowContext(ctx,
		`UPDATE countries SET name = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, name, created_at, updated_at`,
		id, input.Name,
	).Scan(&c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateError(err)
	}

	return &c, nil
}

// DeleteCountry removes a country after checking no city references it.
func (s *Store) DeleteCountry(ctx context.Context, id string) error {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cities WHERE country_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check country references: %w", err)
	}
	if inUse {
		return ErrCountryInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM countries WHERE id = $1`, id)
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
