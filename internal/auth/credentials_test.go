// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package auth

import "testing"

func TestCredentialsMatch(t *testing.T) {
	creds := NewCredentials("admin", "s3cret-pass")

	tests := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"exact match", "admin", "s3cret-pass", true},
		{"wrong password", "admin", "s3cret-past", false},
		{"wrong username", "admni", "s3cret-pass", false},
		{"both wrong", "root", "toor", false},
		{"empty both", "", "", false},
		{"case sensitive", "Admin", "s3cret-pass", false},
		{"password prefix", "admin", "s3cret", false},
		{"password with suffix", "admin", "s3cret-pass ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := creds.Match(tt.username, tt.password); got != tt.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tt.username, tt.password, got, tt.want)
			}
		})
	}
}

func TestCredentialsUnicodeNormalization(t *testing.T) {
	// U+00E9 (precomposed) vs U+0065 U+0301 (combining acute): the same
	// text in two encodings must compare equal after NFKC.
	precomposedUser := "caf\u00e9"
	decomposedUser := "cafe\u0301"
	precomposedPass := "r\u00e9sum\u00e9"
	decomposedPass := "re\u0301sume\u0301"

	creds := NewCredentials(precomposedUser, precomposedPass)

	if !creds.Match(decomposedUser, decomposedPass) {
		t.Error("decomposed form should match precomposed credentials")
	}
	if !creds.Match(precomposedUser, precomposedPass) {
		t.Error("precomposed form should match itself")
	}
	if creds.Match("cafe", "resume") {
		t.Error("unaccented form must not match")
	}
}

func TestCredentialsCompatibilityNormalization(t *testing.T) {
	// NFKC folds compatibility variants: fullwidth letters collapse to
	// their ASCII counterparts.
	creds := NewCredentials("admin", "pass")

	fullwidth := "\uff41\uff44\uff4d\uff49\uff4e" // "admin" in fullwidth forms
	if !creds.Match(fullwidth, "pass") {
		t.Error("fullwidth username should normalize to ascii and match")
	}
}
