// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package validation

import (
	"net/url"
	"strings"

	"github.com/tablescout/tablescout/internal/models"
)

// mapServiceHosts are the hostnames recognized as map-provider links. A host
// matches when it equals an entry or is a subdomain of one.
var mapServiceHosts = []string{
	"google.com",
	"www.google.com",
	"maps.google.com",
	"maps.app.goo.gl",
}

// IsMapServiceURL reports whether rawURL points at a recognized map service.
// Shortlink hosts qualify on host alone; full hosts additionally need a
// /maps path.
func IsMapServiceURL(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	path := strings.ToLower(parsed.Path)

	matched := false
	for _, candidate := range mapServiceHosts {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}

	return host == "maps.app.goo.gl" || path == "/maps" || strings.HasPrefix(path, "/maps/")
}

// NormalizeRestaurantInput trims all free-text fields in place and drops
// empty area entries, mirroring what the admin form submits.
func NormalizeRestaurantInput(input *models.RestaurantInput) {
	input.CityID = strings.TrimSpace(input.CityID)
	input.Name = strings.TrimSpace(input.Name)
	input.Notes = strings.TrimSpace(input.Notes)
	input.ReferredBy = strings.TrimSpace(input.ReferredBy)
	input.URL = strings.TrimSpace(input.URL)
	input.Status = strings.TrimSpace(input.Status)
	input.DislikedReason = strings.TrimSpace(input.DislikedReason)

	areas := input.Areas[:0]
	for _, area := range input.Areas {
		if trimmed := strings.TrimSpace(area); trimmed != "" {
			areas = append(areas, trimmed)
		}
	}
	input.Areas = areas
}

// ValidateRestaurant normalizes then validates a restaurant submission,
// applying the per-field tag rules followed by the cross-field rules:
//
//   - DislikedReason is required exactly when Status is disliked, and must
//     be absent otherwise.
//   - With fewer than two areas the URL must be a map-service URL; with two
//     or more it must not be.
//
// All violations accumulate into one RequestValidationError.
func ValidateRestaurant(input *models.RestaurantInput) *RequestValidationError {
	NormalizeRestaurantInput(input)

	verr := ValidateStruct(input)
	if verr == nil {
		verr = &RequestValidationError{}
	}

	if input.Status == string(models.StatusDisliked) && input.DislikedReason == "" {
		verr.add("DislikedReason", "required_if", input.DislikedReason,
			"DislikedReason is required when status is disliked")
	}
	if input.Status != string(models.StatusDisliked) && input.DislikedReason != "" {
		verr.add("DislikedReason", "excluded_unless", input.DislikedReason,
			"DislikedReason can only be set when status is disliked")
	}

	// The URL rule only makes sense once the URL itself parsed; skip it when
	// a per-field URL error is already queued.
	if input.URL != "" && !hasFieldError(verr, "URL") {
		isMapURL := IsMapServiceURL(input.URL)
		switch {
		case len(input.Areas) < 2 && !isMapURL:
			verr.add("URL", "mapsurl", input.URL,
				"URL must be a map-service URL when there are fewer than two areas")
		case len(input.Areas) >= 2 && isMapURL:
			verr.add("URL", "mapsurl", input.URL,
				"URL must not be a map-service URL when there are two or more areas")
		}
	}

	if len(verr.errors) == 0 {
		return nil
	}
	return verr
}

func hasFieldError(ve *RequestValidationError, field string) bool {
	for _, err := range ve.errors {
		if err.field == field {
			return true
		}
	}
	return false
}
