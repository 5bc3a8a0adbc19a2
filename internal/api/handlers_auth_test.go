// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/models"
)

func TestLoginSuccessSetsCookie(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "hunter22",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("session cookie not set")
	}
	if !cookie.HttpOnly {
		t.Fatal("session cookie must be HTTP-only")
	}
	if cookie.Value == "" {
		t.Fatal("session cookie is empty")
	}

	resp := decodeEnvelope(t, rec)
	payload, err := json.Marshal(resp.Data)
	if err != nil {
		t.Fatalf("re-marshal data: %v", err)
	}
	var login models.LoginResponse
	if err := json.Unmarshal(payload, &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	if login.Token != cookie.Value {
		t.Fatal("body token does not match cookie token")
	}
	if login.Username != "admin" {
		t.Fatalf("unexpected username %q", login.Username)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "wrong",
	})

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	resp := decodeEnvelope(t, rec)
	if resp.Error == nil || resp.Error.Code != "INVALID_CREDENTIALS" {
		t.Fatalf("expected INVALID_CREDENTIALS, got %+v", resp.Error)
	}
}

func TestLoginMissingFields(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{"username": "admin"})

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestLoginThrottledAfterRepeatedFailures(t *testing.T) {
	throttle := auth.NewMemoryThrottle(auth.ThrottleConfig{
		MaxFailures:   2,
		Window:        auth.DefaultThrottleConfig().Window,
		BlockDuration: auth.DefaultThrottleConfig().BlockDuration,
	})
	sessions := auth.NewSessionManager("test-secret-at-least-16", "admin", "hunter22", throttle)
	h := NewHandler(&fakeStore{}, sessions, false)

	bad := map[string]string{"username": "admin", "password": "wrong"}
	for i := 0; i < 2; i++ {
		rec := postJSON(t, h.Login, "/api/v1/auth/login", bad)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %d", i, rec.Code)
		}
	}

	// The address is now blocked; even correct credentials are refused.
	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "hunter22",
	})
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestLoginMisconfigured(t *testing.T) {
	sessions := auth.NewSessionManager("test-secret-at-least-16", "", "", auth.NewMemoryThrottle(auth.DefaultThrottleConfig()))
	h := NewHandler(&fakeStore{}, sessions, false)

	rec := postJSON(t, h.Login, "/api/v1/auth/login", map[string]string{
		"username": "admin",
		"password": "hunter22",
	})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newTestHandler(&fakeStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
	rec := httptest.NewRecorder()
	h.Logout(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.SessionCookieName {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("logout did not touch the session cookie")
	}
	if cookie.MaxAge >= 0 || cookie.Value != "" {
		t.Fatalf("cookie not cleared: MaxAge=%d Value=%q", cookie.MaxAge, cookie.Value)
	}
}
