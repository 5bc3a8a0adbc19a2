// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package validation

import (
	"testing"

	"github.com/tablescout/tablescout/internal/models"
)

func TestValidateCountryTrimsBeforeChecking(t *testing.T) {
	input := models.CountryInput{Name: "  France  "}
	if err := ValidateCountry(&input); err != nil {
		t.Fatalf("expected valid country, got: %v", err)
	}
	if input.Name != "France" {
		t.Errorf("expected trimmed name, got %q", input.Name)
	}
}

func TestValidateCountryRejectsWhitespaceOnlyName(t *testing.T) {
	for _, name := range []string{"   ", "\t", "\n\n"} {
		if err := ValidateCountry(&models.CountryInput{Name: name}); err == nil {
			t.Errorf("name %q: expected validation error", name)
		}
	}
}

func TestValidateCityTrimsFields(t *testing.T) {
	input := models.CityInput{Name: " Osaka ", CountryID: " " + testCityID + " "}
	if err := ValidateCity(&input); err != nil {
		t.Fatalf("expected valid city, got: %v", err)
	}
	if input.Name != "Osaka" || input.CountryID != testCityID {
		t.Errorf("expected trimmed fields, got %+v", input)
	}

	if err := ValidateCity(&models.CityInput{Name: "  ", CountryID: testCityID}); err == nil {
		t.Error("expected validation error for whitespace-only city name")
	}
}

func TestValidateTypeTrimsFields(t *testing.T) {
	input := models.RestaurantTypeInput{Name: " Pizza ", Emoji: " 🍕 "}
	if err := ValidateType(&input); err != nil {
		t.Fatalf("expected valid type, got: %v", err)
	}
	if input.Name != "Pizza" || input.Emoji != "🍕" {
		t.Errorf("expected trimmed fields, got %+v", input)
	}

	if err := ValidateType(&models.RestaurantTypeInput{Name: "\t", Emoji: "🍕"}); err == nil {
		t.Error("expected validation error for whitespace-only type name")
	}
}
