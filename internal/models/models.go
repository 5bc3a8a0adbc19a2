// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

// Package models defines the domain entities persisted by the store and the
// request/response shapes exchanged with the HTTP layer.
package models

import "time"

// RestaurantStatus tracks whether a restaurant has been visited and how it went.
type RestaurantStatus string

const (
	StatusUntried  RestaurantStatus = "untried"
	StatusLiked    RestaurantStatus = "liked"
	StatusDisliked RestaurantStatus = "disliked"
)

// RestaurantStatuses lists all valid statuses in display order.
var RestaurantStatuses = []RestaurantStatus{StatusUntried, StatusLiked, StatusDisliked}

// IsValid reports whether s is a known status.
func (s RestaurantStatus) IsValid() bool {
	switch s {
	case StatusUntried, StatusLiked, StatusDisliked:
		return true
	}
	return false
}

// MealType is one of the fixed meal slots a restaurant can serve.
type MealType string

const (
	MealSnack     MealType = "snack"
	MealBreakfast MealType = "breakfast"
	MealLunch     MealType = "lunch"
	MealDinner    MealType = "dinner"
)

// MealTypes lists all valid meal types in display order.
var MealTypes = []MealType{MealSnack, MealBreakfast, MealLunch, MealDinner}

// IsValid reports whether m is a known meal type.
func (m MealType) IsValid() bool {
	switch m {
	case MealSnack, MealBreakfast, MealLunch, MealDinner:
		return true
	}
	return false
}

// Country is a top-level reference entity. Name is unique.
type Country struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// City belongs to a country. At most one city in the whole dataset may have
// IsDefault set; the store enforces this with a clear-and-set transaction.
type City struct {
	ID        string    `json:"id"`
	CountryID string    `json:"country_id"`
	Name      string    `json:"name"`
	IsDefault bool      `json:"is_default"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// CountryName is populated by listing joins; empty elsewhere.
	CountryName string `json:"country_name,omitempty"`
}

// RestaurantType is a cuisine/category tag. Name is unique; Emoji must
// contain at least one emoji glyph.
type RestaurantType struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Emoji     string    `json:"emoji"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Restaurant is the central record.
//
// Invariants maintained by the write coordinator:
//   - DislikedReason is non-nil iff Status is disliked.
//   - TriedAt is nil iff Status is untried; the first transition out of
//     untried stamps it, later edits preserve it.
//   - DeletedAt marks a soft delete; soft-deleted rows are excluded from the
//     public listing and can be restored.
type Restaurant struct {
	ID             string           `json:"id"`
	CityID         string           `json:"city_id"`
	Name           string           `json:"name"`
	Notes          string           `json:"notes"`
	ReferredBy     string           `json:"referred_by"`
	URL            string           `json:"url"`
	Status         RestaurantStatus `json:"status"`
	TriedAt        *time.Time       `json:"tried_at"`
	DislikedReason *string          `json:"disliked_reason"`
	DeletedAt      *time.Time       `json:"deleted_at"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// RestaurantDetail is a restaurant with its child sets and joined reference
// names, as served to the admin and public pages.
type RestaurantDetail struct {
	Restaurant

	CityName    string           `json:"city_name"`
	CountryName string           `json:"country_name"`
	Areas       []string         `json:"areas"`
	MealTypes   []MealType       `json:"meal_types"`
	Types       []RestaurantType `json:"types"`
}

// CMSData bundles every listing table for the admin page, gathered as a small
// fixed batch of reads.
type CMSData struct {
	Countries   []Country          `json:"countries"`
	Cities      []City             `json:"cities"`
	Types       []RestaurantType   `json:"types"`
	Restaurants []RestaurantDetail `json:"restaurants"`
}
