// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package auth

import (
	"crypto/sha256"
	"crypto/subtle"

	"golang.org/x/text/unicode/norm"
)

// Credentials holds the configured admin reference values as fixed-length
// digests so comparisons run in constant time regardless of input length.
type Credentials struct {
	usernameHash [sha256.Size]byte
	passwordHash [sha256.Size]byte
}

// NewCredentials digests the configured admin username and password.
func NewCredentials(username, password string) Credentials {
	return Credentials{
		usernameHash: hashCredential(username),
		passwordHash: hashCredential(password),
	}
}

// hashCredential normalizes to NFKC before hashing so unicode variants of
// the same text compare equal.
func hashCredential(value string) [sha256.Size]byte {
	return sha256.Sum256([]byte(norm.NFKC.String(value)))
}

// Match compares submitted credentials against the configured values in
// constant time. Both fields are always compared; the results are combined
// with a non-short-circuiting AND so a username mismatch does not change
// the timing profile.
func (c Credentials) Match(username, password string) bool {
	userHash := hashCredential(username)
	passHash := hashCredential(password)

	userOK := subtle.ConstantTimeCompare(userHash[:], c.usernameHash[:])
	passOK := subtle.ConstantTimeCompare(passHash[:], c.passwordHash[:])

	return userOK&passOK == 1
}
