// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package models

// CountryInput is a validated country submission.
type CountryInput struct {
	Name string `json:"name" validate:"required"`
}

// CityInput is a validated city submission.
type CityInput struct {
	Name      string `json:"name" validate:"required"`
	CountryID string `json:"country_id" validate:"required,uuid4"`
}

// RestaurantTypeInput is a validated restaurant-type submission.
type RestaurantTypeInput struct {
	Name  string `json:"name" validate:"required"`
	Emoji string `json:"emoji" validate:"required,emoji"`
}

// RestaurantInput is a restaurant submission as received from the admin form.
// Per-field rules are expressed as validate tags; the cross-field rules
// (disliked reason, map-URL vs. area count) live in validation.Restaurant.
type RestaurantInput struct {
	CityID         string   `json:"city_id" validate:"required,uuid4"`
	Areas          []string `json:"areas" validate:"max=20,dive,required"`
	MealTypes      []string `json:"meal_types" validate:"required,min=1,max=4,unique,dive,mealtype"`
	Name           string   `json:"name" validate:"required"`
	Notes          string   `json:"notes" validate:"required"`
	ReferredBy     string   `json:"referred_by" validate:"omitempty,attribution"`
	TypeIDs        []string `json:"type_ids" validate:"required,min=1,dive,uuid4"`
	URL            string   `json:"url" validate:"required,http_url"`
	Status         string   `json:"status" validate:"required,restaurantstatus"`
	DislikedReason string   `json:"disliked_reason"`
}

// LoginRequest carries admin credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is returned after a successful login. The token is also set
// as an HTTP-only cookie; the body copy exists for non-browser clients.
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	Username  string `json:"username"`
}
