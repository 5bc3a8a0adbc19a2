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
	"github.com/tablescout/tablescout/internal/validation"
)

// Countries lists all countries ordered by name.
func (h *Handler) Countries(w http.ResponseWriter, r *http.Request) {
	countries, err := h.store.ListCountries(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, countries)
}

// CreateCountry creates a country.
func (h *Handler) CreateCountry(w http.ResponseWriter, r *http.Request) {
	var input models.CountryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateCountry(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	country, err := h.store.CreateCountry(r.Context(), input)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, country)
}

// UpdateCountry renames a country.
func (h *Handler) UpdateCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input models.CountryInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateCountry(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	country, err := h.store.UpdateCountry(r.Context(), id, input)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, country)
}

// DeleteCountry hard-deletes a country after checking no city references it.
func (h *Handler) DeleteCountry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCountry(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Cities lists all cities with their country names.
func (h *Handler) Cities(w http.ResponseWriter, r *http.Request) {
	cities, err := h.store.ListCities(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, cities)
}

// CreateCity creates a city under an existing country.
func (h *Handler) CreateCity(w http.ResponseWriter, r *http.Request) {
	var input models.CityInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateCity(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	city, err := h.store.CreateCity(r.Context(), input)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, city)
}

// UpdateCity renames a city or moves it to another country.
func (h *Handler) UpdateCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input models.CityInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateCity(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	city, err := h.store.UpdateCity(r.Context(), id, input)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, city)
}

// DeleteCity hard-deletes a city after checking no restaurant references it.
func (h *Handler) DeleteCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteCity(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// SetDefaultCity marks one city as the default, clearing any previous default
// in the same transaction.
func (h *Handler) SetDefaultCity(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.SetDefaultCity(r.Context(), id); err != nil {
		// Here the city is the addressed resource, not a payload reference.
		if errors.Is(err, store.ErrCityNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "City not found", nil)
			return
		}
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "default_set"})
}

// Types lists all restaurant types ordered by name.
func (h *Handler) Types(w http.ResponseWriter, r *http.Request) {
	types, err := h.store.ListTypes(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, types)
}

// CreateType creates a restaurant type.
func (h *Handler) CreateType(w http.ResponseWriter, r *http.Request) {
	var input models.RestaurantTypeInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateType(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	restaurantType, err := h.store.CreateType(r.Context(), input)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusCreated, restaurantType)
}

// UpdateType renames a restaurant type or changes its emoji.
func (h *Handler) UpdateType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input models.RestaurantTypeInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if verr := validation.ValidateType(&input); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	restaurantType, err := h.store.UpdateType(r.Context(), id, input)
	if err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, restaurantType)
}

// DeleteType hard-deletes a restaurant type after checking it is unused.
func (h *Handler) DeleteType(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteType(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]string{"status": "deleted"})
}
