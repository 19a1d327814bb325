package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"googlemaps.github.io/maps"

	"property-assistant/internal/model"
)

const (
	// DefaultPlacesRadius is the search radius in meters
	DefaultPlacesRadius = 2000
	maxNearbyResults    = 8
)

// placeTypes translates user-facing categories to Places API types
var placeTypes = map[string]maps.PlaceType{
	"school":     maps.PlaceTypeSchool,
	"hospital":   maps.PlaceTypeHospital,
	"mall":       maps.PlaceTypeShoppingMall,
	"shopping":   maps.PlaceTypeShoppingMall,
	"restaurant": maps.PlaceTypeRestaurant,
	"bank":       maps.PlaceTypeBank,
	"pharmacy":   maps.PlaceTypePharmacy,
	"gym":        maps.PlaceTypeGym,
	"park":       maps.PlaceTypePark,
	"airport":    maps.PlaceTypeAirport,
	"bus":        maps.PlaceTypeBusStation,
	"railway":    maps.PlaceTypeTrainStation,
	"temple":     maps.PlaceTypeHinduTemple,
	"church":     maps.PlaceTypeChurch,
	"mosque":     maps.PlaceTypeMosque,
}

// ResolvePlaceType maps a category to a Places API type. Unknown
// categories are passed through lower-cased.
func ResolvePlaceType(category string) maps.PlaceType {
	c := strings.ToLower(strings.TrimSpace(category))
	if t, ok := placeTypes[c]; ok {
		return t
	}
	return maps.PlaceType(c)
}

// PlacesClient looks up points of interest around a coordinate
type PlacesClient interface {
	FindNearby(ctx context.Context, lat, lng float64, category string, radius int) model.NearbyResult
}

// GooglePlaces is a PlacesClient backed by the Google Maps Places API
type GooglePlaces struct {
	client *maps.Client
	logger *zap.Logger
	err    error
}

// NewGooglePlaces creates a Places client. baseURL overrides the API host
// when non-empty. A missing key does not fail construction; every lookup
// then reports it in NearbyResult.Error.
func NewGooglePlaces(apiKey, baseURL string, logger *zap.Logger) *GooglePlaces {
	g := &GooglePlaces{logger: logger}
	if apiKey == "" {
		g.err = fmt.Errorf("Google Maps %w", ErrMissingAPIKey)
		logger.Warn("GOOGLE_MAPS_API_KEY not set, nearby lookups disabled")
		return g
	}

	opts := []maps.ClientOption{maps.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}
	client, err := maps.NewClient(opts...)
	if err != nil {
		g.err = fmt.Errorf("failed to create maps client: %w", err)
		return g
	}
	g.client = client
	return g
}

// FindNearby implements PlacesClient
func (g *GooglePlaces) FindNearby(ctx context.Context, lat, lng float64, category string, radius int) model.NearbyResult {
	if g.err != nil {
		placesLookups.WithLabelValues("unconfigured").Inc()
		return model.NearbyResult{Places: []model.Place{}, Error: g.err.Error()}
	}
	if radius <= 0 {
		radius = DefaultPlacesRadius
	}

	resp, err := g.client.NearbySearch(ctx, &maps.NearbySearchRequest{
		Location: &maps.LatLng{Lat: lat, Lng: lng},
		Radius:   uint(radius),
		Type:     ResolvePlaceType(category),
	})
	if err != nil {
		placesLookups.WithLabelValues("error").Inc()
		g.logger.Warn("nearby search failed",
			zap.String("category", category),
			zap.Error(err))
		return model.NearbyResult{Places: []model.Place{}, Error: fmt.Sprintf("Places API error: %v", err)}
	}

	places := make([]model.Place, 0, maxNearbyResults)
	for _, r := range resp.Results {
		if len(places) == maxNearbyResults {
			break
		}
		place := model.Place{
			Name:       r.Name,
			Vicinity:   r.Vicinity,
			Rating:     r.Rating,
			Types:      r.Types,
			Location:   model.LatLng{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			PriceLevel: r.PriceLevel,
		}
		for _, p := range r.Photos {
			place.PhotoRefs = append(place.PhotoRefs, p.PhotoReference)
		}
		places = append(places, place)
	}

	placesLookups.WithLabelValues("ok").Inc()
	return model.NearbyResult{Places: places, Count: len(places)}
}
