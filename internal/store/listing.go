// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package store

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"github.com/tablescout/tablescout/internal/models"
)

// queryRestaurants loads restaurant rows matching the WHERE clause, then
// stitches in the child sets with one query per child table. The dataset is
// a personal collection, so batched stitching beats N+1 queries without
// needing array aggregation in SQL.
func (s *Store) queryRestaurants(ctx context.Context, where string, args ...interface{}) ([]models.RestaurantDetail, error) {
	query := `SELECT r.id, r.city_id, r.name, r.notes, r.referred_by, r.url,
		r.status, r.tried_at, r.disliked_reason, r.deleted_at, r.created_at, r.updated_at,
		c.name, co.name
	 FROM restaurants r
	 JOIN cities c ON c.id = r.city_id
	 JOIN countries co ON co.id = c.country_id
	 ` + where + `
	 ORDER BY r.name`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list restaurants: %w", err)
	}
	defer rows.Close()

	details := []models.RestaurantDetail{}
	index := map[string]int{}
	ids := []string{}

	for rows.Next() {
		var d models.RestaurantDetail
		if err := rows.Scan(
			&d.ID, &d.CityID, &d.Name, &d.Notes, &d.ReferredBy, &d.URL,
			&d.Status, &d.TriedAt, &d.DislikedReason, &d.DeletedAt, &d.CreatedAt, &d.UpdatedAt,
			&d.CityName, &d.CountryName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan restaurant: %w", err)
		}

		d.Areas = []string{}
		d.MealTypes = []models.MealType{}
		d.Types = []models.RestaurantType{}

		index[d.ID] = len(details)
		ids = append(ids, d.ID)
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(details) == 0 {
		return details, nil
	}

	if err := s.attachAreas(ctx, details, index, ids); err != nil {
		return nil, err
	}
	if err := s.attachMeals(ctx, details, index, ids); err != nil {
		return nil, err
	}
	if err := s.attachTypes(ctx, details, index, ids); err != nil {
		return nil, err
	}

	return details, nil
}

func (s *Store) attachAreas(ctx context.Context, details []models.RestaurantDetail, index map[string]int, ids []string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT restaurant_id, area FROM restaurant_areas
		 WHERE restaurant_id = ANY($1) ORDER BY area`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load areas: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var restaurantID, area string
		if err := rows.Scan(&restaurantID, &area); err != nil {
			return fmt.Errorf("failed to scan area: %w", err)
		}
		if i, ok := index[restaurantID]; ok {
			details[i].Areas = append(details[i].Areas, area)
		}
	}
	return rows.Err()
}

func (s *Store) attachMeals(ctx context.Context, details []models.RestaurantDetail, index map[string]int, ids []string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT restaurant_id, meal_type FROM restaurant_meals
		 WHERE restaurant_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load meal types: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var restaurantID string
		var meal models.MealType
		if err := rows.Scan(&restaurantID, &meal); err != nil {
			return fmt.Errorf("failed to scan meal type: %w", err)
		}
		if i, ok := index[restaurantID]; ok {
			details[i].MealTypes = append(details[i].MealTypes, meal)
		}
	}
	return rows.Err()
}

func (s *Store) attachTypes(ctx context.Context, details []models.RestaurantDetail, index map[string]int, ids []string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT l.restaurant_id, t.id, t.name, t.emoji, t.created_at, t.updated_at
		 FROM restaurant_to_types l
		 JOIN restaurant_types t ON t.id = l.type_id
		 WHERE l.restaurant_id = ANY($1)
		 ORDER BY t.name`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to load type links: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var restaurantID string
		var t models.RestaurantType
		if err := rows.Scan(&restaurantID, &t.ID, &t.Name, &t.Emoji, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("failed to scan type link: %w", err)
		}
		if i, ok := index[restaurantID]; ok {
			details[i].Types = append(details[i].Types, t)
		}
	}
	return rows.Err()
}

// ListRestaurants returns every restaurant for the admin page, including
// soft-deleted ones so they can be restored.
func (s *Store) ListRestaurants(ctx context.Context) ([]models.RestaurantDetail, error) {
	return s.queryRestaurants(ctx, "")
}

// ListEats returns the public listing: all restaurants not soft-deleted.
func (s *Store) ListEats(ctx context.Context) ([]models.RestaurantDetail, error) {
	return s.queryRestaurants(ctx, `WHERE r.deleted_at IS NULL`)
}

// GetCMSData gathers every listing table for the admin page as a small fixed
// batch of parallel reads.
func (s *Store) GetCMSData(ctx context.Context) (*models.CMSData, error) {
	data := &models.CMSData{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		data.Countries, err = s.ListCountries(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Cities, err = s.ListCities(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Types, err = s.ListTypes(gctx)
		return err
	})
	g.Go(func() (err error) {
		data.Restaurants, err = s.ListRestaurants(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return data, nil
}
