package service

import (
	"context"
	"fmt"
	"strings"

	"property-assistant/internal/model"
)

// PropertyService answers catalog lookups outside of a conversation
type PropertyService struct {
	catalogs      *CatalogStore
	places        PlacesClient
	defaultRadius int
}

// NewPropertyService creates a new property service
func NewPropertyService(catalogs *CatalogStore, places PlacesClient, defaultRadius int) *PropertyService {
	if defaultRadius <= 0 {
		defaultRadius = DefaultPlacesRadius
	}
	return &PropertyService{
		catalogs:      catalogs,
		places:        places,
		defaultRadius: defaultRadius,
	}
}

// List returns every property in catalog order
func (s *PropertyService) List() []model.Property {
	return s.catalogs.Current().Properties()
}

// MapProperties returns properties with coordinates
func (s *PropertyService) MapProperties() []model.MapProperty {
	return s.catalogs.Current().MapProperties()
}

// Get returns a property by ID
func (s *PropertyService) Get(id int) (model.Property, error) {
	return s.catalogs.Current().Get(id)
}

// Search ranks properties by building name
func (s *PropertyService) Search(name string, limit int) []NameCandidate {
	return s.catalogs.Current().SearchByName(name, limit)
}

// Details returns the first property whose name contains name together with
// a formatted description
func (s *PropertyService) Details(name string) (model.Property, string, error) {
	p, err := s.catalogs.Current().FindFirstByName(name)
	if err != nil {
		return model.Property{}, "", err
	}
	return p, FormatDetails(&p), nil
}

// Nearby finds places around explicit coordinates, or around the property
// named by ID or name. Lookup failures of the places API are reported in
// the result, not as an error.
func (s *PropertyService) Nearby(ctx context.Context, req model.NearbyRequest) (model.NearbyResult, error) {
	radius := req.Radius
	if radius <= 0 {
		radius = s.defaultRadius
	}

	if req.Lat != nil && req.Lng != nil {
		return s.places.FindNearby(ctx, *req.Lat, *req.Lng, req.PlaceType, radius), nil
	}

	catalog := s.catalogs.Current()
	var (
		p   model.Property
		err error
	)
	switch {
	case req.PropertyID > 0:
		p, err = catalog.Get(req.PropertyID)
	case strings.TrimSpace(req.Name) != "":
		p, err = catalog.FindFirstByName(req.Name)
	default:
		return model.NearbyResult{}, fmt.Errorf("lat/lng, property_id or name is required")
	}
	if err != nil {
		return model.NearbyResult{}, err
	}
	if !p.HasCoordinates() {
		return model.NearbyResult{}, fmt.Errorf("%s: %w", p.BuildingName, ErrNoCoordinates)
	}

	return s.places.FindNearby(ctx, *p.Latitude, *p.Longitude, req.PlaceType, radius), nil
}

// FormatDetails renders a property as a readable block of text
func FormatDetails(p *model.Property) string {
	orNA := func(s string) string {
		if strings.TrimSpace(s) == "" {
			return "Not specified"
		}
		return s
	}

	location := p.Location
	if p.StreetName != "" {
		location += ", " + p.StreetName
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", p.BuildingName)
	fmt.Fprintf(&b, "📍 Location: %s\n", location)
	fmt.Fprintf(&b, "🏢 Types: %s\n", orNA(p.ApartmentTypes))
	fmt.Fprintf(&b, "📐 Sizes: %s\n", orNA(p.ApartmentSizes))
	fmt.Fprintf(&b, "💰 Price: ₹%s lakhs\n", orNA(p.PriceRange))
	fmt.Fprintf(&b, "🎯 Status: %s\n", orNA(p.Availability))
	fmt.Fprintf(&b, "🏗️ Builder: %s\n", orNA(p.BuilderName))
	fmt.Fprintf(&b, "📞 Contact: %s\n\n", orNA(p.BuilderContact))
	fmt.Fprintf(&b, "🏊 Amenities:\n%s\n\n", orNA(p.Amenities))
	fmt.Fprintf(&b, "🗺️ Nearby Locations:\n%s\n\n", orNA(p.NearbyLocations))
	fmt.Fprintf(&b, "🚗 Commute Times:\n%s", orNA(p.CommuteTimes))
	return b.String()
}
