// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireSession(t *testing.T) {
	manager := newTestManager(t)
	session, err := manager.Issue("10.0.0.1", testUsername, testPassword)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	var gotUsername string
	handler := RequireSession(manager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if identity := IdentityFromContext(r.Context()); identity != nil {
			gotUsername = identity.Username
		}
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		setup      func(*http.Request)
		wantStatus int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"valid cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.Token})
		}, http.StatusOK},
		{"valid bearer", func(r *http.Request) {
			r.Header.Set("Authorization", "Bearer "+session.Token)
		}, http.StatusOK},
		{"garbage cookie", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "junk"})
		}, http.StatusUnauthorized},
		{"non-bearer header", func(r *http.Request) {
			r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		}, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUsername = ""
			req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/cms", nil)
			tt.setup(req)

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotUsername != testUsername {
				t.Errorf("identity username = %q, want %q", gotUsername, testUsername)
			}
			if tt.wantStatus == http.StatusUnauthorized {
				if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("unauthorized Content-Type = %q, want application/json", ct)
				}
			}
		})
	}
}
