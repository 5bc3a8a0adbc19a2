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
	"time"

	"github.com/lib/pq"

	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/models"
)

// nextTriedAt computes the tried_at value for a write.
//
// Rules: an untried restaurant has no tried_at; the first transition out of
// untried stamps it with now; later edits preserve the existing stamp,
// defaulting to now only if it was unexpectedly absent.
func nextTriedAt(newStatus, prevStatus models.RestaurantStatus, prevTriedAt *time.Time, now time.Time) *time.Time {
	if newStatus == models.StatusUntried {
		return nil
	}
	if prevStatus == models.StatusUntried || prevTriedAt == nil {
		return &now
	}
	return prevTriedAt
}

// dislikedReasonValue returns the disliked_reason column value: set only when
// the status is disliked. Validation guarantees the reason is present then.
func dislikedReasonValue(status models.RestaurantStatus, reason string) *string {
	if status == models.StatusDisliked {
		return &reason
	}
	return nil
}

// uniqueStrings collapses duplicates preserving first-seen order.
func uniqueStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		unique = append(unique, v)
	}
	return unique
}

// resolveTypeIDs verifies every id exists, returning an InvalidTypeIDsError
// listing all misses at once.
func resolveTypeIDs(ctx context.Context, tx *sql.Tx, ids []string) error {
	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM restaurant_types WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to resolve type ids: %w", err)
	}
	defer rows.Close()

	found := make(map[string]struct{}, len(ids))
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan type id: %w", err)
		}
		found[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		return &InvalidTypeIDsError{IDs: missing}
	}

	return nil
}

// cityExistsTx verifies a city id inside the transaction.
func cityExistsTx(ctx context.Context, tx *sql.Tx, id string) error {
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM cities WHERE id = $1)`, id,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to resolve city: %w", err)
	}
	if !exists {
		return ErrCityNotFound
	}
	return nil
}

// insertChildren writes the area, meal, and type-link rows for a restaurant.
func insertChildren(ctx context.Context, tx *sql.Tx, restaurantID string, input models.RestaurantInput, typeIDs []string) error {
	for _, area := range uniqueStrings(input.Areas) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO restaurant_areas (restaurant_id, area) VALUES ($1, $2)`,
			restaurantID, area); err != nil {
			return fmt.Errorf("failed to insert area: %w", err)
		}
	}

	for _, meal := range input.MealTypes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO restaurant_meals (restaurant_id, meal_type) VALUES ($1, $2)`,
			restaurantID, meal); err != nil {
			return fmt.Errorf("failed to insert meal type: %w", err)
		}
	}

	for _, typeID := range typeIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO restaurant_to_types (restaurant_id, type_id) VALUES ($1, $2)`,
			restaurantID, typeID); err != nil {
			return fmt.Errorf("failed to insert type link: %w", err)
		}
	}

	return nil
}

// deleteChildren removes every child row for a restaurant. Used by Update to
// fully replace the child sets so they exactly mirror the submitted form.
func deleteChildren(ctx context.Context, tx *sql.Tx, restaurantID string) error {
	for _, table := range []string{"restaurant_areas", "restaurant_meals", "restaurant_to_types"} {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE restaurant_id = $1`, restaurantID); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}

// CreateRestaurant resolves foreign references and inserts the restaurant
// with all its child rows in one transaction. Input must already be
// validated.
func (s *Store) CreateRestaurant(ctx context.Context, input models.RestaurantInput) (string, error) {
	status := models.RestaurantStatus(input.Status)
	typeIDs := uniqueStrings(input.TypeIDs)

	var id string
	err := s.withTx(ctx, "create_restaurant", func(tx *sql.Tx) error {
		if err := cityExistsTx(ctx, tx, input.CityID); err != nil {
			return err
		}
		if err := resolveTypeIDs(ctx, tx, typeIDs); err != nil {
			return err
		}

		now := time.Now().UTC()
		triedAt := nextTriedAt(status, models.StatusUntried, nil, now)

		err := tx.QueryRowContext(ctx,
			`INSERT INTO restaurants (city_id, name, notes, referred_by, url, status, tried_at, disliked_reason)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 RETURNING id`,
			input.CityID, input.Name, input.Notes, input.ReferredBy, input.URL,
			input.Status, triedAt, dislikedReasonValue(status, input.DislikedReason),
		).Scan(&id)
		if err != nil {
			return translateError(err)
		}

		return insertChildren(ctx, tx, id, input, typeIDs)
	})
	if err != nil {
		return "", err
	}

	logging.Info().Str("restaurant_id", id).Str("name", input.Name).Msg("Restaurant created")
	return id, nil
}

// UpdateRestaurant updates the restaurant row and fully replaces its child
// sets in one transaction.
func (s *Store) UpdateRestaurant(ctx context.Context, id string, input models.RestaurantInput) error {
	status := models.RestaurantStatus(input.Status)
	typeIDs := uniqueStrings(input.TypeIDs)

	err := s.withTx(ctx, "update_restaurant", func(tx *sql.Tx) error {
		var prevStatus models.RestaurantStatus
		var prevTriedAt *time.Time
		err := tx.QueryRowContext(ctx,
			`SELECT status, tried_at FROM restaurants WHERE id = $1 FOR UPDATE`, id,
		).Scan(&prevStatus, &prevTriedAt)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load restaurant: %w", err)
		}

		if err := cityExistsTx(ctx, tx, input.CityID); err != nil {
			return err
		}
		if err := resolveTypeIDs(ctx, tx, typeIDs); err != nil {
			return err
		}

		now := time.Now().UTC()
		triedAt := nextTriedAt(status, prevStatus, prevTriedAt, now)

		if _, err := tx.ExecContext(ctx,
			`UPDATE restaurants
			 SET city_id = $2, name = $3, notes = $4, referred_by = $5, url = $6,
			     status = $7, tried_at = $8, disliked_reason = $9, updated_at = now()
			 WHERE id = $1`,
			id, input.CityID, input.Name, input.Notes, input.ReferredBy, input.URL,
			input.Status, triedAt, dislikedReasonValue(status, input.DislikedReason),
		); err != nil {
			return translateError(err)
		}

		if err := deleteChildren(ctx, tx, id); err != nil {
			return err
		}

		return insertChildren(ctx, tx, id, input, typeIDs)
	})
	if err != nil {
		return err
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant updated")
	return nil
}

// SoftDeleteRestaurant stamps deleted_at, only if currently null. Deleting an
// already deleted restaurant fails with ErrNotFound rather than silently
// succeeding, surfacing double-submission bugs.
func (s *Store) SoftDeleteRestaurant(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET deleted_at = now(), updated_at = now()
		 WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete restaurant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant soft-deleted")
	return nil
}

// RestoreRestaurant clears deleted_at, only if currently set.
func (s *Store) RestoreRestaurant(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE restaurants SET deleted_at = NULL, updated_at = now()
		 WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to restore restaurant: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant restored")
	return nil
}

// HardDeleteRestaurant permanently removes a restaurant; child rows cascade.
func (s *Store) HardDeleteRestaurant(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
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

	logging.Info().Str("restaurant_id", id).Msg("Restaurant hard-deleted")
	return nil
}

// GetRestaurant loads a single restaurant with children and joined names,
// including soft-deleted ones (the admin page shows them for restore).
func (s *Store) GetRestaurant(ctx context.Context, id string) (*models.RestaurantDetail, error) {
	details, err := s.queryRestaurants(ctx,
		`WHERE r.id = $1`, id)
	if err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return nil, ErrNotFound
	}
	return &details[0], nil
}
