// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

// Package importer replays the data embedded in the legacy static page
// through the same create path the API uses. It is a one-shot tool: re-runs
// skip everything already imported.
package importer

import (
	"fmt"

	"github.com/goccy/go-json"
)

// stringList decodes a legacy field that may be a single string or an array
// of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = stringList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or string array: %w", err)
	}
	*l = stringList(many)
	return nil
}

// legacyPlace is one restaurant entry as it appears in the legacy page.
type legacyPlace struct {
	Area        stringList `json:"area"`
	MealType    stringList `json:"mealType"`
	Name        string     `json:"name"`
	Notes       string     `json:"notes"`
	ReferrerURL string     `json:"referrerUrl"`
	Type        stringList `json:"type"`
	URL         string     `json:"url"`
}

// legacyPlaces is the country -> city -> places nesting of the legacy page.
type legacyPlaces map[string]map[string][]legacyPlace

// mealTypeMap translates the legacy page's informal meal labels.
var mealTypeMap = map[string]string{
	"snacc":       "snack",
	"breakfast":   "breakfast",
	"lunch":       "lunch",
	"sopper time": "dinner",
}

// Stats summarizes one import run.
type Stats struct {
	CreatedCountries   int
	CreatedCities      int
	CreatedTypes       int
	CreatedRestaurants int
	SkippedRestaurants int
}
