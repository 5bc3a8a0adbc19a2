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

// ListCities returns all cities with their country names, ordered by country
// then city name.
func (s *Store) ListCities(ctx context.Context) ([]models.City, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.country_id, c.name, c.is_default, c.created_at, c.updated_at, co.name
		 FROM cities c
		 JOIN countries co ON co.id = c.country_id
		 ORDER BY co.name, c.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list cities: %w", err)
	}
	defer rows.Close()

	cities := []models.City{}
	for rows.Next() {
		var c models.City
		if err := rows.Scan(&c.ID, &c.CountryID, &c.Name, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt, &c.CountryName); err != nil {
			return nil, fmt.Errorf("failed to scan city: %w", err)
		}
		cities = append(cities, c)
	}

	return cities, rows.Err()
}

// countryExists reports whether a country id resolves.
func countryExists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}, id string) (bool, error) {
	var exists bool
	err := q.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM countries WHERE id = $1)`, id,
	).Scan(&exists)
	return exists, err
}

// CreateCity inserts a city after resolving its country.
func (s *Store) CreateCity(ctx context.Context, input models.CityInput) (*models.City, error) {
	exists, err := countryExists(ctx, s.db, input.CountryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve country: %w", err)
	}
	if !exists {
		return nil, ErrCountryNotFound
	}

	var c models.City
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO cities (country_id, name) VALUES ($1, $2)
		 RETURNING id, country_id, name, is_default, created_at, updated_at`,
		input.CountryID, input.Name,
	).Scan(&c.ID, &c.CountryID, &c.Name, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err)
	}

	return &c, nil
}

// UpdateCity renames or re-parents a city after resolving the country.
func (s *Store) UpdateCity(ctx context.Context, id string, input models.CityInput) (*models.City, error) {
	exists, err := countryExists(ctx, s.db, input.CountryID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve country: %w", err)
	}
	if !exists {
		return nil, ErrCountryNotFound
	}

	var c models.City
	err = s.db.QueryRowContext(ctx,
		`UPDATE cities SET country_id = $2, name = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, country_id, name, is_default, created_at, updated_at`,
		id, input.CountryID, input.Name,
	).Scan(&c.ID, &c.CountryID, &c.Name, &c.IsDefault, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, translateError(err)
	}

	return &c, nil
}

// DeleteCity removes a city after checking no restaurant references it. The
// RESTRICT constraint on restaurants.city_id backstops the check.
func (s *Store) DeleteCity(ctx context.Context, id string) error {
	var inUse bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM restaurants WHERE city_id = $1)`, id,
	).Scan(&inUse)
	if err != nil {
		return fmt.Errorf("failed to check city references: %w", err)
	}
	if inUse {
		return ErrCityInUse
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM cities WHERE id = $1`, id)
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

// SetDefaultCity clears every default flag and sets the one city, in a single
// transaction so no window exists with zero or two defaults observable by a
// committed reader.
func (s *Store) SetDefaultCity(ctx context.Context, id string) error {
	return s.withTx(ctx, "set_default_city", func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE cities SET is_default = FALSE, updated_at = now() WHERE is_default`); err != nil {
			return fmt.Errorf("failed to clear default city: %w", err)
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE cities SET is_default = TRUE, updated_at = now() WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to set default city: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read affected rows: %w", err)
		}
		if affected == 0 {
			return ErrCityNotFound
		}

		return nil
	})
}
