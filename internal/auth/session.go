// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

// Package auth implements admin authentication: HMAC-signed session tokens,
// constant-time credential comparison, and a per-address login throttle.
//
// Sessions are stateless. There is no server-side revocation list; a token
// stays valid until its expiry or until the client discards it.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tablescout/tablescout/internal/logging"
)

const (
	// SessionTTL is the fixed lifetime of an issued session token.
	SessionTTL = 30 * 24 * time.Hour

	// SessionSubject is the required subject claim on every session token.
	SessionSubject = "admin"

	// issuedAtSkew is how far in the future an issuedAt claim may sit
	// before the token is rejected.
	issuedAtSkew = 60 * time.Second
)

var (
	// ErrMisconfigured means the admin credentials or signing secret are
	// not configured; no login can succeed until they are.
	ErrMisconfigured = errors.New("admin credentials are not configured")

	// ErrRateLimited means the caller's address is blocked by the login
	// throttle.
	ErrRateLimited = errors.New("too many failed login attempts")

	// ErrInvalidCredentials means the submitted username/password pair did
	// not match.
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// Claims is the session token payload.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Identity describes a verified admin session.
type Identity struct {
	Username  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Session is an issued token plus its expiry, for the caller to store as a
// credential.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

// SessionManager issues and verifies admin session tokens and applies the
// login throttle.
type SessionManager struct {
	secret      []byte
	credentials Credentials
	configured  bool
	throttle    Throttle

	// now is swapped in tests to control time.
	now func() time.Time
}

// NewSessionManager builds a session manager. An empty secret, username, or
// password leaves the manager in a misconfigured state where every Issue
// fails with ErrMisconfigured; construction itself never fails so the server
// can still start and serve public pages.
func NewSessionManager(secret, username, password string, throttle Throttle) *SessionManager {
	configured := secret != "" && username != "" && password != ""
	if !configured {
		logging.Warn().Msg("Admin credentials incomplete; login is disabled")
	}

	return &SessionManager{
		secret:      []byte(secret),
		credentials: NewCredentials(username, password),
		configured:  configured,
		throttle:    throttle,
		now:         time.Now,
	}
}

// Issue authenticates the submitted credentials from addr and mints a session
// token.
//
// The throttle check runs before the credential comparison; a blocked address
// fails with ErrRateLimited without touching the credentials, so repeated
// attempts cannot reset or extend the block window's failure count.
func (m *SessionManager) Issue(addr, username, password string) (*Session, error) {
	if !m.configured {
		return nil, ErrMisconfigured
	}

	if blocked, _ := m.throttle.Check(addr); blocked {
		return nil, ErrRateLimited
	}

	if !m.credentials.Match(username, password) {
		m.throttle.RecordFailure(addr)
		return nil, ErrInvalidCredentials
	}

	m.throttle.Clear(addr)

	now := m.now()
	expiresAt := now.Add(SessionTTL)

	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   SessionSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Verify validates a session token and returns the identity it carries, or
// nil for any invalid, expired, malformed, or mis-signed token. It never
// returns an error; callers treat nil as "not authenticated".
func (m *SessionManager) Verify(tokenString string) *Identity {
	if !m.configured || tokenString == "" {
		return nil
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil
	}

	if claims.Subject != SessionSubject || claims.Username == "" {
		return nil
	}
	if claims.IssuedAt == nil || claims.ExpiresAt == nil {
		return nil
	}

	now := m.now()
	if claims.IssuedAt.Time.After(now.Add(issuedAtSkew)) {
		return nil
	}
	if !claims.ExpiresAt.Time.After(now) {
		return nil
	}

	return &Identity{
		Username:  claims.Username,
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}
}
