// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testSecret   = "test-session-secret-0123456789abcdef"
	testUsername = "admin"
	testPassword = "correct horse battery staple"
)

func newTestManager(t *testing.T) *SessionManager {
	t.Helper()
	return NewSessionManager(testSecret, testUsername, testPassword, NewMemoryThrottle(ThrottleConfig{}))
}

// signClaims manufactures a token outside the manager so tests can produce
// shapes Issue never would.
func signClaims(t *testing.T, secret string, claims *Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return signed
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	manager := newTestManager(t)

	session, err := manager.Issue("10.0.0.1", testUsername, testPassword)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}
	if session.Token == "" {
		t.Fatal("Issue() returned empty token")
	}

	wantExpiry := time.Now().Add(SessionTTL)
	if diff := session.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
		t.Errorf("ExpiresAt = %v, want about %v", session.ExpiresAt, wantExpiry)
	}

	identity := manager.Verify(session.Token)
	if identity == nil {
		t.Fatal("Verify() rejected a freshly issued token")
	}
	if identity.Username != testUsername {
		t.Errorf("Username = %q, want %q", identity.Username, testUsername)
	}
}

func TestIssueMisconfigured(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		username string
		password string
	}{
		{"no secret", "", testUsername, testPassword},
		{"no username", testSecret, "", testPassword},
		{"no password", testSecret, testUsername, ""},
		{"nothing", "", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manager := NewSessionManager(tt.secret, tt.username, tt.password, NewMemoryThrottle(ThrottleConfig{}))
			if _, err := manager.Issue("10.0.0.1", testUsername, testPassword); !errors.Is(err, ErrMisconfigured) {
				t.Errorf("Issue() error = %v, want ErrMisconfigured", err)
			}
		})
	}
}

func TestIssueInvalidCredentials(t *testing.T) {
	manager := newTestManager(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", testUsername, "nope"},
		{"wrong username", "root", testPassword},
		{"both wrong", "root", "nope"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := manager.Issue("10.0.0.1", tt.username, tt.password); !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Issue() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestIssueRateLimited(t *testing.T) {
	throttle := NewMemoryThrottle(ThrottleConfig{MaxFailures: 3})
	manager := NewSessionManager(testSecret, testUsername, testPassword, throttle)

	const addr = "203.0.113.7"
	for i := 0; i < 3; i++ {
		if _, err := manager.Issue(addr, testUsername, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("attempt %d: error = %v, want ErrInvalidCredentials", i, err)
		}
	}

	// Blocked now, even with the right credentials.
	if _, err := manager.Issue(addr, testUsername, testPassword); !errors.Is(err, ErrRateLimited) {
		t.Errorf("Issue() after block error = %v, want ErrRateLimited", err)
	}

	// A different address is unaffected.
	if _, err := manager.Issue("198.51.100.9", testUsername, testPassword); err != nil {
		t.Errorf("Issue() from clean address error: %v", err)
	}
}

func TestIssueSuccessClearsThrottle(t *testing.T) {
	throttle := NewMemoryThrottle(ThrottleConfig{MaxFailures: 3})
	manager := NewSessionManager(testSecret, testUsername, testPassword, throttle)

	const addr = "203.0.113.8"
	manager.Issue(addr, testUsername, "wrong")
	manager.Issue(addr, testUsername, "wrong")

	if _, err := manager.Issue(addr, testUsername, testPassword); err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	// The failure count restarted, so two more misses do not block.
	manager.Issue(addr, testUsername, "wrong")
	manager.Issue(addr, testUsername, "wrong")
	if blocked, _ := throttle.Check(addr); blocked {
		t.Error("expected throttle record to have been cleared on success")
	}
}

func TestVerifyRejects(t *testing.T) {
	manager := newTestManager(t)
	now := time.Now()

	valid := func() *Claims {
		return &Claims{
			Username: testUsername,
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   SessionSubject,
				IssuedAt:  jwt.NewNumericDate(now),
				ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
			},
		}
	}

	tests := []struct {
		name  string
		token func() string
	}{
		{"empty", func() string { return "" }},
		{"garbage", func() string { return "not.a.token" }},
		{"wrong secret", func() string {
			return signClaims(t, "some-other-secret-0123456789abcdef", valid())
		}},
		{"tampered payload", func() string {
			token := signClaims(t, testSecret, valid())
			return token[:len(token)-40] + "AAAAAAAA" + token[len(token)-32:]
		}},
		{"alg none", func() string {
			token := jwt.NewWithClaims(jwt.SigningMethodNone, valid())
			signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
			if err != nil {
				t.Fatalf("failed to sign none token: %v", err)
			}
			return signed
		}},
		{"expired", func() string {
			claims := valid()
			claims.IssuedAt = jwt.NewNumericDate(now.Add(-2 * SessionTTL))
			claims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))
			return signClaims(t, testSecret, claims)
		}},
		{"expires exactly now", func() string {
			claims := valid()
			claims.ExpiresAt = jwt.NewNumericDate(now)
			return signClaims(t, testSecret, claims)
		}},
		{"issued too far in the future", func() string {
			claims := valid()
			claims.IssuedAt = jwt.NewNumericDate(now.Add(5 * time.Minute))
			return signClaims(t, testSecret, claims)
		}},
		{"missing expiry", func() string {
			claims := valid()
			claims.ExpiresAt = nil
			return signClaims(t, testSecret, claims)
		}},
		{"missing issued-at", func() string {
			claims := valid()
			claims.IssuedAt = nil
			return signClaims(t, testSecret, claims)
		}},
		{"wrong subject", func() string {
			claims := valid()
			claims.Subject = "user"
			return signClaims(t, testSecret, claims)
		}},
		{"missing username", func() string {
			claims := valid()
			claims.Username = ""
			return signClaims(t, testSecret, claims)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if identity := manager.Verify(tt.token()); identity != nil {
				t.Errorf("Verify() accepted %s token: %+v", tt.name, identity)
			}
		})
	}
}

func TestVerifyAllowsSmallClockSkew(t *testing.T) {
	manager := newTestManager(t)
	now := time.Now()

	claims := &Claims{
		Username: testUsername,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   SessionSubject,
			IssuedAt:  jwt.NewNumericDate(now.Add(30 * time.Second)),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionTTL)),
		},
	}

	if identity := manager.Verify(signClaims(t, testSecret, claims)); identity == nil {
		t.Error("Verify() rejected a token within the 60s clock-skew allowance")
	}
}
