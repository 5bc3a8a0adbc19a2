// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/models"
)

// SessionCookieName is the HTTP-only cookie carrying the session token.
const SessionCookieName = "tablescout_session"

type identityContextKey struct{}

// ContextWithIdentity returns a context carrying a verified identity.
func ContextWithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityContextKey{}, identity)
}

// IdentityFromContext returns the verified identity, or nil if the request
// was not authenticated.
func IdentityFromContext(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(identityContextKey{}).(*Identity); ok {
		return identity
	}
	return nil
}

// TokenFromRequest extracts the session token from the session cookie or,
// failing that, a bearer Authorization header. Returns "" if neither is set.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}

	return ""
}

// RequireSession returns middleware that rejects requests without a valid
// session token and stores the verified identity in the request context.
func RequireSession(manager *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := manager.Verify(TokenFromRequest(r))
			if identity == nil {
				writeUnauthorized(w)
				return
			}

			ctx := ContextWithIdentity(r.Context(), identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeUnauthorized writes the standard envelope for a failed session check.
func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	response := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    "UNAUTHORIZED",
			Message: "Authentication required",
		},
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.Error().Err(err).Msg("Error encoding unauthorized response")
	}
}
