// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"context"
	"net/http"

	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/models"
)

// DataStore is the persistence surface the handlers depend on. The concrete
// implementation is *store.Store; tests substitute fakes.
type DataStore interface {
	Ping(ctx context.Context) error

	GetCMSData(ctx context.Context) (*models.CMSData, error)
	ListEats(ctx context.Context) ([]models.RestaurantDetail, error)

	ListCountries(ctx context.Context) ([]models.Country, error)
	CreateCountry(ctx context.Context, input models.CountryInput) (*models.Country, error)
	UpdateCountry(ctx context.Context, id string, input models.CountryInput) (*models.Country, error)
	DeleteCountry(ctx context.Context, id string) error

	ListCities(ctx context.Context) ([]models.City, error)
	CreateCity(ctx context.Context, input models.CityInput) (*models.City, error)
	UpdateCity(ctx context.Context, id string, input models.CityInput) (*models.City, error)
	DeleteCity(ctx context.Context, id string) error
	SetDefaultCity(ctx context.Context, id string) error

	ListTypes(ctx context.Context) ([]models.RestaurantType, error)
	CreateType(ctx context.Context, input models.RestaurantTypeInput) (*models.RestaurantType, error)
	UpdateType(ctx context.Context, id string, input models.RestaurantTypeInput) (*models.RestaurantType, error)
	DeleteType(ctx context.Context, id string) error

	ListRestaurants(ctx context.Context) ([]models.RestaurantDetail, error)
	GetRestaurant(ctx context.Context, id string) (*models.RestaurantDetail, error)
	CreateRestaurant(ctx context.Context, input models.RestaurantInput) (string, error)
	UpdateRestaurant(ctx context.Context, id string, input models.RestaurantInput) error
	SoftDeleteRestaurant(ctx context.Context, id string) error
	RestoreRestaurant(ctx context.Context, id string) error
	HardDeleteRestaurant(ctx context.Context, id string) error
}

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	store        DataStore
	sessions     *auth.SessionManager
	cookieSecure bool
}

// NewHandler creates the handler set.
func NewHandler(store DataStore, sessions *auth.SessionManager, cookieSecure bool) *Handler {
	return &Handler{
		store:        store,
		sessions:     sessions,
		cookieSecure: cookieSecure,
	}
}

// Health reports liveness plus database reachability.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	code := http.StatusOK

	if err := h.store.Ping(r.Context()); err != nil {
		logging.Warn().Err(err).Msg("Health check: database unreachable")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	respondSuccess(w, code, map[string]string{"status": status})
}

// Eats returns the public restaurant listing: every restaurant that is not
// soft-deleted, with its joined city, country, areas, meal types, and types.
func (h *Handler) Eats(w http.ResponseWriter, r *http.Request) {
	eats, err := h.store.ListEats(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, eats)
}

// CMS returns the complete admin dataset in one payload: all reference
// entities plus all restaurants including soft-deleted ones.
func (h *Handler) CMS(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.GetCMSData(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, data)
}
