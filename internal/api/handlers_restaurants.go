// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"net/http"

	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/models"
	"github.com/tablescout/tablescout/internal/validation"
)

// Restaurants lists every restaurant for the admin, including soft-deleted
// ones.
func (h *Handler) Restaurants(w http.ResponseWriter, r *http.Request) {
	restaurants, err := h.store.ListRestaurants(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, restaurants)
}

// Restaurant returns a single restaurant with its joined detail.
func (h *Handler) Restaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	restaurant, err := h.store.GetRestaurant(r.Context(), id)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, restaurant)
}

// CreateRestaurant validates and creates a restaurant with its child sets in
// one transaction.
func (h *Handler) CreateRestaurant(w http.ResponseWriter, r *http.Request) {
	var input models.RestaurantInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateRestaurant(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	id, err := h.store.CreateRestaurant(r.Context(), input)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	logging.Info().Str("restaurant_id", id).Str("name", sanitizeLogValue(input.Name)).Msg("Restaurant created")
	respondSuccess(w, http.StatusCreated, map[string]string{"id": id})
}

// UpdateRestaurant validates and rewrites a restaurant and its child sets in
// one transaction.
func (h *Handler) UpdateRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input models.RestaurantInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateRestaurant(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	if err := h.store.UpdateRestaurant(r.Context(), id, input); err != nil {
		respondStoreError(w, err)
		return
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant updated")
	respondSuccess(w, http.StatusOK, map[string]string{"id": id})
}

// SoftDeleteRestaurant hides a restaurant from the public listing. Deleting
// an already-deleted restaurant is rejected.
func (h *Handler) SoftDeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.SoftDeleteRestaurant(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant soft-deleted")
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// RestoreRestaurant brings a soft-deleted restaurant back. Restoring a
// restaurant that is not deleted is rejected.
func (h *Handler) RestoreRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.RestoreRestaurant(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant restored")
	respondSuccess(w, http.StatusOK, map[string]string{"status": "restored"})
}

// HardDeleteRestaurant permanently removes a restaurant and its child rows.
func (h *Handler) HardDeleteRestaurant(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.HardDeleteRestaurant(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	logging.Info().Str("restaurant_id", id).Msg("Restaurant permanently deleted")
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
