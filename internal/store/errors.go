// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when the addressed record does not exist. It
	// also covers idempotency-guard failures: soft-deleting an already
	// deleted restaurant, or restoring one that is not deleted.
	ErrNotFound = errors.New("record not found")

	// ErrCountryNotFound is returned when a referenced country id does not
	// resolve.
	ErrCountryNotFound = errors.New("country not found")

	// ErrCityNotFound is returned when a referenced city id does not
	// resolve.
	ErrCityNotFound = errors.New("city not found")

	// ErrCountryInUse blocks deleting a country while cities reference it.
	ErrCountryInUse = errors.New("country has cities and cannot be deleted")

	// ErrCityInUse blocks deleting a city while restaurants reference it.
	ErrCityInUse = errors.New("city has restaurants and cannot be deleted")

	// ErrTypeInUse blocks deleting a type while restaurants reference it.
	ErrTypeInUse = errors.New("restaurant type is in use and cannot be deleted")

	// ErrDuplicateName is returned when a unique-name constraint trips.
	ErrDuplicateName = errors.New("name already exists")
)

// InvalidTypeIDsError reports every submitted type id that did not resolve.
type InvalidTypeIDsError struct {
	IDs []string
}

func (e *InvalidTypeIDsError) Error() string {
	return fmt.Sprintf("invalid type ids: %s", strings.Join(e.IDs, ", "))
}

// Postgres error codes used for sentinel translation.
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// translateError converts driver-level constraint violations into the
// package's sentinel errors so callers never inspect pq internals.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch pqErr.Code {
	case pqUniqueViolation:
		return ErrDuplicateName
	case pqForeignKeyViolation:
		// The restrict constraints are the backstop behind the
		// application-level pre-checks.
		switch {
		case strings.Contains(pqErr.Constraint, "restaurants_city_id"):
			return ErrCityInUse
		case strings.Contains(pqErr.Constraint, "restaurant_to_types_type_id"):
			return ErrTypeInUse
		}
	}

	return err
}
