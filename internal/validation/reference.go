// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package validation

import (
	"strings"

	"github.com/tablescout/tablescout/internal/models"
)

// NormalizeCountryInput trims the submitted name in place. A whitespace-only
// name reduces to empty and fails the required rule.
func NormalizeCountryInput(input *models.CountryInput) {
	input.Name = strings.TrimSpace(input.Name)
}

// ValidateCountry normalizes then validates a country submission.
func ValidateCountry(input *models.CountryInput) *RequestValidationError {
	NormalizeCountryInput(input)
	return ValidateStruct(input)
}

// NormalizeCityInput trims the submitted fields in place.
func NormalizeCityInput(input *models.CityInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.CountryID = strings.TrimSpace(input.CountryID)
}

// ValidateCity normalizes then validates a city submission.
func ValidateCity(input *models.CityInput) *RequestValidationError {
	NormalizeCityInput(input)
	return ValidateStruct(input)
}

// NormalizeTypeInput trims the submitted fields in place.
func NormalizeTypeInput(input *models.RestaurantTypeInput) {
	input.Name = strings.TrimSpace(input.Name)
	input.Emoji = strings.TrimSpace(input.Emoji)
}

// ValidateType normalizes then validates a restaurant-type submission.
func ValidateType(input *models.RestaurantTypeInput) *RequestValidationError {
	NormalizeTypeInput(input)
	return ValidateStruct(input)
}
