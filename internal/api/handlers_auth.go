// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tablescout/tablescout/internal/auth"
	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/metrics"
	"github.com/tablescout/tablescout/internal/models"
	"github.com/tablescout/tablescout/internal/validation"
)

// Login authenticates the admin credentials and issues a session token. The
// token is returned in the body and set as an HTTP-only cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if verr := validation.ValidateStruct(&req); verr != nil {
		respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
		return
	}

	addr := clientAddr(r)
	session, err := h.sessions.Issue(addr, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrRateLimited):
			metrics.RecordLoginAttempt("throttled")
			logging.Warn().Str("addr", sanitizeLogValue(addr)).Msg("Login blocked by throttle")
			respondError(w, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many failed login attempts; try again later", nil)
		case errors.Is(err, auth.ErrInvalidCredentials):
			metrics.RecordLoginAttempt("invalid")
			logging.Warn().Str("addr", sanitizeLogValue(addr)).Msg("Login failed: invalid credentials")
			respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		case errors.Is(err, auth.ErrMisconfigured):
			metrics.RecordLoginAttempt("misconfigured")
			respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Login is not configured on this server", nil)
		default:
			respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to issue session", err)
		}
		return
	}

	metrics.RecordLoginAttempt("success")
	logging.Info().Str("username", sanitizeLogValue(req.Username)).Msg("Admin login")

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	respondSuccess(w, http.StatusOK, models.LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt.UTC().Format(time.RFC3339),
		Username:  req.Username,
	})
}

// Logout clears the session cookie. Tokens are not tracked server-side, so
// there is nothing further to revoke.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	respondSuccess(w, http.StatusOK, map[string]string{"status": "logged_out"})
}
