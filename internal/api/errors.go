// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"errors"
	"net/http"

	"github.com/tablescout/tablescout/internal/models"
	"github.com/tablescout/tablescout/internal/store"
)

// respondStoreError translates store sentinel errors into HTTP responses.
// Unknown errors are reported as a generic database failure without leaking
// driver internals to the caller.
func respondStoreError(w http.ResponseWriter, err error) {
	var invalidTypes *store.InvalidTypeIDsError

	switch {
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Record not found", nil)
	case errors.Is(err, store.ErrCountryNotFound):
		respondError(w, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced country does not exist", nil)
	case errors.Is(err, store.ErrCityNotFound):
		respondError(w, http.StatusBadRequest, "INVALID_REFERENCE", "Referenced city does not exist", nil)
	case errors.As(err, &invalidTypes):
		respondAPIError(w, http.StatusBadRequest, &models.APIError{
			Code:    "INVALID_REFERENCE",
			Message: "One or more referenced restaurant types do not exist",
			Details: map[string]interface{}{
				"type_ids": invalidTypes.IDs,
			},
		})
	case errors.Is(err, store.ErrCountryInUse):
		respondError(w, http.StatusConflict, "CONFLICT", "Country has cities and cannot be deleted", nil)
	case errors.Is(err, store.ErrCityInUse):
		respondError(w, http.StatusConflict, "CONFLICT", "City has restaurants and cannot be deleted", nil)
	case errors.Is(err, store.ErrTypeInUse):
		respondError(w, http.StatusConflict, "CONFLICT", "Restaurant type is in use and cannot be deleted", nil)
	case errors.Is(err, store.ErrDuplicateName):
		respondError(w, http.StatusConflict, "CONFLICT", "Name already exists", nil)
	default:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "A database error occurred", err)
	}
}
