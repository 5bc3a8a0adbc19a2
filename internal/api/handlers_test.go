// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/models"
	"github.com/tablescout/tablescout/internal/store"
)

const (
	testCityID       = "a2c1f7de-5b3a-4e6f-9d2b-8c4e1f0a7b6d"
	testTypeID       = "f4b8d2a1-7c3e-4f5a-b6d9-0e1c2a3b4d5e"
	testRestaurantID = "0b9d6c3e-2f4a-4b8c-a1d7-5e6f7a8b9c0d"
)

// fakeStore implements DataStore with per-method hooks. Unset hooks return
// zero values so tests only wire what they exercise.
type fakeStore struct {
	pingErr error

	cmsData *models.CMSData
	cmsErr  error

	eats    []models.RestaurantDetail
	eatsErr error

	createRestaurantID  string
	createRestaurantErr error
	updateRestaurantErr error
	softDeleteErr       error
	restoreErr          error
	hardDeleteErr       error

	createCountry    *models.Country
	createCountryErr error
	deleteCityErr    error
	setDefaultErr    error
	deleteTypeErr    error

	lastInput   *models.RestaurantInput
	lastCountry *models.CountryInput
}

func (f *fakeStore) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeStore) GetCMSData(ctx context.Context) (*models.CMSData, error) {
	return f.cmsData, f.cmsErr
}

func (f *fakeStore) ListEats(ctx context.Context) ([]models.RestaurantDetail, error) {
	return f.eats, f.eatsErr
}

func (f *fakeStore) ListCountries(ctx context.Context) ([]models.Country, error) { return nil, nil }

func (f *fakeStore) CreateCountry(ctx context.Context, input models.CountryInput) (*models.Country, error) {
	f.lastCountry = &input
	return f.createCountry, f.createCountryErr
}

func (f *fakeStore) UpdateCountry(ctx context.Context, id string, input models.CountryInput) (*models.Country, error) {
	return nil, nil
}
func (f *fakeStore) DeleteCountry(ctx context.Context, id string) error { return nil }

func (f *fakeStore) ListCities(ctx context.Context) ([]models.City, error) { return nil, nil }
func (f *fakeStore) CreateCity(ctx context.Context, input models.CityInput) (*models.City, error) {
	return nil, nil
}
func (f *fakeStore) UpdateCity(ctx context.Context, id string, input models.CityInput) (*models.City, error) {
	return nil, nil
}
func (f *fakeStore) DeleteCity(ctx context.Context, id string) error     { return f.deleteCityErr }
func (f *fakeStore) SetDefaultCity(ctx context.Context, id string) error { return f.setDefaultErr }

func (f *fakeStore) ListTypes(ctx context.Context) ([]models.RestaurantType, error) {
	return nil, nil
}
func (f *fakeStore) CreateType(ctx context.Context, input models.RestaurantTypeInput) (*models.RestaurantType, error) {
	return nil, nil
}
func (f *fakeStore) UpdateType(ctx context.Context, id string, input models.RestaurantTypeInput) (*models.RestaurantType, error) {
	return nil, nil
}
func (f *fakeStore) DeleteType(ctx context.Context, id string) error { return f.deleteTypeErr }

func (f *fakeStore) ListRestaurants(ctx context.Context) ([]models.RestaurantDetail, error) {
	return nil, nil
}
func (f *fakeStore) GetRestaurant(ctx context.Context, id string) (*models.RestaurantDetail, error) {
	return nil, store.ErrNotFound
}

func (f *fakeStore) CreateRestaurant(ctx context.Context, input models.RestaurantInput) (string, error) {
	f.lastInput = &input
	return f.createRestaurantID, f.createRestaurantErr
}

func (f *fakeStore) UpdateRestaurant(ctx context.Context, id string, input models.RestaurantInput) error {
	f.lastInput = &input
	return f.updateRestaurantErr
}

func (f *fakeStore) SoftDeleteRestaurant(ctx context.Context, id string) error { return f.softDeleteErr }
func (f *fakeStore) RestoreRestaurant(ctx context.Context, id string) error    { return f.restoreErr }
func (f *fakeStore) HardDeleteRestaurant(ctx context.Context, id string) error { return f.hardDeleteErr }

func newTestHandler(fs *fakeStore) *Handler {
	sessions := auth.NewSessionManager("test-secret-at-least-16", "admin", "hunter22", auth.NewMemoryThrottle(auth.DefaultThrottleConfig()))
	return NewHandler(fs, sessions, false)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return resp
}

func validRestaurantBody() map[string]interface{} {
	return map[string]interface{}{
		"city_id":    testCityID,
		"areas":      []string{"Old Town"},
		"meal_types": []string{"dinner"},
		"name":       "Golden Fork",
		"notes":      "Great pasta",
		"type_ids":   []string{testTypeID},
		"url":        "https://maps.app.goo.gl/abc123",
		"status":     "untried",
	}
}

// requestWithID builds a request carrying {id} in the chi route context, the
// way the router delivers it to a handler.
func requestWithID(method, path, id string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func postJSON(t *testing.T, handler http.HandlerFunc, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler(rec, req)
	return rec
}

func TestHealthDegradedWhenDatabaseDown(t *testing.T) {
	h := newTestHandler(&fakeStore{pingErr: errors.New("connection refused")})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestHealthHealthy(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestEatsReturnsListing(t *testing.T) {
	fs := &fakeStore{
		eats: []models.RestaurantDetail{
			{Restaurant: models.Restaurant{Name: "Golden Fork"}},
		},
	}
	h := newTestHandler(fs)

	rec := httptest.NewRecorder()
	h.Eats(rec, httptest.NewRequest(http.MethodGet, "/api/v1/eats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Status != "success" {
		t.Fatalf("expected success envelope, got %q", resp.Status)
	}
}

func TestCreateRestaurantRejectsInvalidInput(t *testing.T) {
	fs := &fakeStore{}
	h := newTestHandler(fs)

	body := validRestaurantBody()
	body["meal_types"] = []string{}

	rec := postJSON(t, h.CreateRestaurant, "/api/v1/admin/restaurants", body)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "VALIDATION_ERROR" {
		t.Fatalf("expected VALIDATION_ERROR, got %+v", resp.Error)
	}
	if fs.lastInput != nil {
		t.Fatal("store should not be called on validation failure")
	}
}

func TestCreateRestaurantRejectsMalformedJSON(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/restaurants", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	h.CreateRestaurant(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCreateRestaurantSuccess(t *testing.T) {
	fs := &fakeStore{createRestaurantID: "new-id"}
	h := newTestHandler(fs)

	rec := postJSON(t, h.CreateRestaurant, "/api/v1/admin/restaurants", validRestaurantBody())

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if fs.lastInput == nil {
		t.Fatal("store was not called")
	}
	if fs.lastInput.Name != "Golden Fork" {
		t.Fatalf("unexpected input name %q", fs.lastInput.Name)
	}
}

func TestCreateRestaurantReportsInvalidTypeIDs(t *testing.T) {
	fs := &fakeStore{
		createRestaurantErr: &store.InvalidTypeIDsError{IDs: []string{testTypeID}},
	}
	h := newTestHandler(fs)

	rec := postJSON(t, h.CreateRestaurant, "/api/v1/admin/restaurants", validRestaurantBody())

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "INVALID_REFERENCE" {
		t.Fatalf("expected INVALID_REFERENCE, got %+v", resp.Error)
	}
	if resp.Error.Details == nil {
		t.Fatal("expected missing type ids in details")
	}
}

func TestCreateRestaurantNormalizesBeforeStore(t *testing.T) {
	fs := &fakeStore{createRestaurantID: "new-id"}
	h := newTestHandler(fs)

	body := validRestaurantBody()
	body["name"] = "  Golden Fork  "
	body["areas"] = []string{" Old Town ", "   "}

	rec := postJSON(t, h.CreateRestaurant, "/api/v1/admin/restaurants", body)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if fs.lastInput.Name != "Golden Fork" {
		t.Fatalf("expected trimmed name, got %q", fs.lastInput.Name)
	}
	if len(fs.lastInput.Areas) != 1 || fs.lastInput.Areas[0] != "Old Town" {
		t.Fatalf("expected blank areas dropped, got %v", fs.lastInput.Areas)
	}
}

func TestSoftDeleteAlreadyDeleted(t *testing.T) {
	fs := &fakeStore{softDeleteErr: store.ErrNotFound}
	h := newTestHandler(fs)

	req := requestWithID(http.MethodDelete, "/api/v1/admin/restaurants/"+testRestaurantID, testRestaurantID)
	rec := httptest.NewRecorder()
	h.SoftDeleteRestaurant(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteTypeInUse(t *testing.T) {
	fs := &fakeStore{deleteTypeErr: store.ErrTypeInUse}
	h := newTestHandler(fs)

	req := requestWithID(http.MethodDelete, "/api/v1/admin/types/"+testTypeID, testTypeID)
	rec := httptest.NewRecorder()
	h.DeleteType(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSetDefaultCityMissing(t *testing.T) {
	fs := &fakeStore{setDefaultErr: store.ErrCityNotFound}
	h := newTestHandler(fs)

	req := requestWithID(http.MethodPost, "/api/v1/admin/cities/"+testCityID+"/default", testCityID)
	rec := httptest.NewRecorder()
	h.SetDefaultCity(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestMalformedPathIDShortCircuits(t *testing.T) {
	// The store would answer 409 here; a malformed id must never reach it.
	fs := &fakeStore{deleteTypeErr: store.ErrTypeInUse}
	h := newTestHandler(fs)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"delete type", h.DeleteType},
		{"delete country", h.DeleteCountry},
		{"delete city", h.DeleteCity},
		{"get restaurant", h.Restaurant},
		{"hard delete restaurant", h.HardDeleteRestaurant},
		{"restore restaurant", h.RestoreRestaurant},
		{"set default city", h.SetDefaultCity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := requestWithID(http.MethodDelete, "/api/v1/admin/x/abc", "abc")
			rec := httptest.NewRecorder()
			tt.handler(rec, req)

			if rec.Code != http.StatusNotFound {
				t.Fatalf("expected 404 for malformed id, got %d", rec.Code)
			}
			resp := decodeEnvelope(t, rec)
			if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
				t.Fatalf("expected NOT_FOUND, got %+v", resp.Error)
			}
		})
	}
}

func TestCreateCountryValidation(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	for _, name := range []string{"", "   ", "\t\n"} {
		rec := postJSON(t, h.CreateCountry, "/api/v1/admin/countries", map[string]string{"name": name})

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("name %q: expected 400, got %d", name, rec.Code)
		}
	}
}

func TestCreateCountryTrimsName(t *testing.T) {
	fs := &fakeStore{createCountry: &models.Country{Name: "France"}}
	h := newTestHandler(fs)

	rec := postJSON(t, h.CreateCountry, "/api/v1/admin/countries", map[string]string{"name": "  France  "})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if fs.lastCountry == nil || fs.lastCountry.Name != "France" {
		t.Fatalf("expected trimmed name stored, got %+v", fs.lastCountry)
	}
}

func TestCreateCountryDuplicate(t *testing.T) {
	fs := &fakeStore{createCountryErr: store.ErrDuplicateName}
	h := newTestHandler(fs)

	rec := postJSON(t, h.CreateCountry, "/api/v1/admin/countries", map[string]string{"name": "Japan"})

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}
