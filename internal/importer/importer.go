// Tablescout - Restaurant Recommendation CMS
// Copyright 2026 Tablescout Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tablescout/tablescout

package importer

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tablescout/tablescout/internal/logging"
	"github.com/tablescout/tablescout/internal/models"
)

var jsonUnmarshal = json.Unmarshal

// Store is the subset of the persistence layer the importer drives. The
// importer is just another caller of the same create operations the API uses.
type Store interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	CreateCountry(ctx context.Context, input models.CountryInput) (*models.Country, error)
	ListCities(ctx context.Context) ([]models.City, error)
	CreateCity(ctx context.Context, input models.CityInput) (*models.City, error)
	ListTypes(ctx context.Context) ([]models.RestaurantType, error)
	CreateType(ctx context.Context, input models.RestaurantTypeInput) (*models.RestaurantType, error)
	ListRestaurants(ctx context.Context) ([]models.RestaurantDetail, error)
	CreateRestaurant(ctx context.Context, input models.RestaurantInput) (string, error)
}

// Importer replays legacy page data into the store.
type Importer struct {
	store Store

	countriesByName map[string]string
	citiesByKey     map[string]string
	typesByName     map[string]string
	seenRestaurants map[string]struct{}
	emojisByType    map[string]string

	stats Stats
}

// New creates an importer over the given store.
func New(store Store) *Importer {
	return &Importer{
		store:           store,
		countriesByName: make(map[string]string),
		citiesByKey:     make(map[string]string),
		typesByName:     make(map[string]string),
		seenRestaurants: make(map[string]struct{}),
	}
}

var globalPlaceRef = regexp.MustCompile(`globalPlaces\.([A-Za-z_$][A-Za-z0-9_$]*)`)

// Run imports the legacy page at path. Places already present in the store
// (same city, name, and URL) are skipped, so re-runs are safe.
func (imp *Importer) Run(ctx context.Context, path string) (Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to read legacy page: %w", err)
	}
	source := string(raw)

	if err := parseLegacyObject(source, "emojisByType", &imp.emojisByType); err != nil {
		return Stats{}, err
	}

	// Shared place entries are declared once in globalPlaces and referenced
	// from the per-city lists; inline them before decoding those lists.
	var globalPlaces map[string]legacyPlace
	if err := parseLegacyObject(source, "globalPlaces", &globalPlaces); err != nil {
		return Stats{}, err
	}

	tried, err := parsePlaces(source, "triedPlaces", globalPlaces)
	if err != nil {
		return Stats{}, err
	}
	wanted, err := parsePlaces(source, "wantedPlaces", globalPlaces)
	if err != nil {
		return Stats{}, err
	}

	if err := imp.loadExisting(ctx); err != nil {
		return Stats{}, err
	}

	if err := imp.importCollection(ctx, tried, models.StatusLiked); err != nil {
		return imp.stats, err
	}
	if err := imp.importCollection(ctx, wanted, models.StatusUntried); err != nil {
		return imp.stats, err
	}

	logging.Info().
		Int("countries", imp.stats.CreatedCountries).
		Int("cities", imp.stats.CreatedCities).
		Int("types", imp.stats.CreatedTypes).
		Int("restaurants", imp.stats.CreatedRestaurants).
		Int("skipped", imp.stats.SkippedRestaurants).
		Msg("Legacy import complete")

	return imp.stats, nil
}

// parsePlaces extracts a country->city->places literal, inlining any
// globalPlaces references first.
func parsePlaces(source, name string, globalPlaces map[string]legacyPlace) (legacyPlaces, error) {
	literal, err := extractObjectLiteral(source, name)
	if err != nil {
		return nil, err
	}

	// Inline globalPlaces references before JSON conversion so only plain
	// literals remain; the injected JSON passes through jsToJSON untouched.
	var substErr error
	substituted := globalPlaceRef.ReplaceAllStringFunc(replaceFunctions(literal), func(match string) string {
		key := strings.TrimPrefix(match, "globalPlaces.")
		place, ok := globalPlaces[key]
		if !ok {
			substErr = fmt.Errorf("unknown globalPlaces reference %q in %q", key, name)
			return match
		}
		encoded, err := json.Marshal(place)
		if err != nil {
			substErr = err
			return match
		}
		return string(encoded)
	})
	if substErr != nil {
		return nil, substErr
	}

	var places legacyPlaces
	if err := jsonUnmarshal([]byte(jsToJSON(substituted)), &places); err != nil {
		return nil, fmt.Errorf("failed to decode %q from legacy source: %w", name, err)
	}
	return places, nil
}

// loadExisting primes the lookup maps from the current database contents.
func (imp *Importer) loadExisting(ctx context.Context) error {
	countries, err := imp.store.ListCountries(ctx)
	if err != nil {
		return err
	}
	for _, c := range countries {
		imp.countriesByName[strings.ToLower(c.Name)] = c.ID
	}

	cities, err := imp.store.ListCities(ctx)
	if err != nil {
		return err
	}
	for _, c := range cities {
		imp.citiesByKey[cityKey(c.CountryID, c.Name)] = c.ID
	}

	types, err := imp.store.ListTypes(ctx)
	if err != nil {
		return err
	}
	for _, t := range types {
		imp.typesByName[strings.ToLower(t.Name)] = t.ID
	}

	restaurants, err := imp.store.ListRestaurants(ctx)
	if err != nil {
		return err
	}
	for _, r := range restaurants {
		imp.seenRestaurants[restaurantKey(r.CityID, r.Name, r.URL)] = struct{}{}
	}

	return nil
}

func cityKey(countryID, cityName string) string {
	return countryID + "::" + strings.ToLower(cityName)
}

func restaurantKey(cityID, name, url string) string {
	return cityID + "::" + strings.ToLower(name) + "::" + strings.ToLower(url)
}

func (imp *Importer) ensureCountry(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := imp.countriesByName[key]; ok {
		return id, nil
	}

	country, err := imp.store.CreateCountry(ctx, models.CountryInput{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to create country %q: %w", name, err)
	}

	imp.countriesByName[key] = country.ID
	imp.stats.CreatedCountries++
	return country.ID, nil
}

func (imp *Importer) ensureCity(ctx context.Context, countryID, name string) (string, error) {
	key := cityKey(countryID, name)
	if id, ok := imp.citiesByKey[key]; ok {
		return id, nil
	}

	city, err := imp.store.CreateCity(ctx, models.CityInput{Name: name, CountryID: countryID})
	if err != nil {
		return "", fmt.Errorf("failed to create city %q: %w", name, err)
	}

	imp.citiesByKey[key] = city.ID
	imp.stats.CreatedCities++
	return city.ID, nil
}

func (imp *Importer) ensureType(ctx context.Context, name string) (string, error) {
	key := strings.ToLower(name)
	if id, ok := imp.typesByName[key]; ok {
		return id, nil
	}

	emoji, ok := imp.emojisByType[name]
	if !ok {
		return "", fmt.Errorf("missing emoji mapping for type %q", name)
	}

	restaurantType, err := imp.store.CreateType(ctx, models.RestaurantTypeInput{Name: name, Emoji: emoji})
	if err != nil {
		return "", fmt.Errorf("failed to create type %q: %w", name, err)
	}

	imp.typesByName[key] = restaurantType.ID
	imp.stats.CreatedTypes++
	return restaurantType.ID, nil
}

// importCollection walks one country->city->places nesting and creates every
// place that passes the minimum shape checks and is not already present.
func (imp *Importer) importCollection(ctx context.Context, collection legacyPlaces, status models.RestaurantStatus) error {
	for countryName, countryCities := range collection {
		countryID, err := imp.ensureCountry(ctx, countryName)
		if err != nil {
			return err
		}

		for cityName, places := range countryCities {
			cityID, err := imp.ensureCity(ctx, countryID, cityName)
			if err != nil {
				return err
			}

			for _, place := range places {
				if err := imp.importPlace(ctx, cityID, place, status); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (imp *Importer) importPlace(ctx context.Context, cityID string, place legacyPlace, status models.RestaurantStatus) error {
	name := strings.TrimSpace(place.Name)
	notes := strings.TrimSpace(place.Notes)
	url := strings.TrimSpace(place.URL)
	mealTypes := normalizeMealTypes(place.MealType)
	typeNames := dedupeTrimmed(place.Type)

	if name == "" || notes == "" || url == "" || len(mealTypes) == 0 || len(typeNames) == 0 {
		imp.stats.SkippedRestaurants++
		logging.Warn().Str("name", name).Msg("Skipping incomplete legacy place")
		return nil
	}

	key := restaurantKey(cityID, name, url)
	if _, seen := imp.seenRestaurants[key]; seen {
		imp.stats.SkippedRestaurants++
		return nil
	}

	typeIDs := make([]string, 0, len(typeNames))
	for _, typeName := range typeNames {
		id, err := imp.ensureType(ctx, typeName)
		if err != nil {
			return err
		}
		typeIDs = append(typeIDs, id)
	}

	input := models.RestaurantInput{
		CityID:     cityID,
		Areas:      dedupeTrimmed(place.Area),
		MealTypes:  mealTypes,
		Name:       name,
		Notes:      notes,
		ReferredBy: strings.TrimSpace(place.ReferrerURL),
		TypeIDs:    typeIDs,
		URL:        url,
		Status:     string(status),
	}

	if _, err := imp.store.CreateRestaurant(ctx, input); err != nil {
		return fmt.Errorf("failed to create restaurant %q: %w", name, err)
	}

	imp.seenRestaurants[key] = struct{}{}
	imp.stats.CreatedRestaurants++
	return nil
}

// normalizeMealTypes maps the legacy labels onto the canonical meal types,
// dropping anything unrecognized.
func normalizeMealTypes(raw stringList) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(raw))
	for _, entry := range raw {
		mapped, ok := mealTypeMap[strings.ToLower(strings.TrimSpace(entry))]
		if !ok {
			continue
		}
		if _, dup := seen[mapped]; dup {
			continue
		}
		seen[mapped] = struct{}{}
		result = append(result, mapped)
	}
	return result
}

// dedupeTrimmed trims entries, drops empties, and removes duplicates while
// preserving order.
func dedupeTrimmed(raw stringList) []string {
	seen := make(map[string]struct{})
	result := make([]string, 0, len(raw))
	for _, entry := range raw {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	return result
}
