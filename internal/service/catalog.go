package service

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"property-assistant/internal/model"
	"property-assistant/internal/utils"
)

// PropertySource loads the raw property records
type PropertySource interface {
	LoadProperties(ctx context.Context) ([]model.Property, error)
}

// Catalog is an immutable snapshot of the property listings
type Catalog struct {
	properties []model.Property
	byID       map[int]int
	locations  []string
	names      []string
}

// NewCatalog builds a catalog, assigning IDs in load order starting at 1
func NewCatalog(properties []model.Property) *Catalog {
	c := &Catalog{
		properties: make([]model.Property, len(properties)),
		byID:       make(map[int]int, len(properties)),
		names:      make([]string, len(properties)),
	}

	seenLoc := make(map[string]bool)
	for i, p := range properties {
		p.ID = i + 1
		c.properties[i] = p
		c.byID[p.ID] = i
		c.names[i] = p.BuildingName

		loc := strings.TrimSpace(p.Location)
		if loc != "" && !seenLoc[loc] {
			seenLoc[loc] = true
			c.locations = append(c.locations, loc)
		}
	}

	return c
}

// Len returns the number of properties
func (c *Catalog) Len() int {
	return len(c.properties)
}

// Properties returns the listings in catalog order. Callers must not modify it.
func (c *Catalog) Properties() []model.Property {
	return c.properties
}

// Locations returns the distinct non-empty locations in catalog order
func (c *Catalog) Locations() []string {
	return c.locations
}

// Names returns the building names in catalog order
func (c *Catalog) Names() []string {
	return c.names
}

// Get returns the property with the given ID
func (c *Catalog) Get(id int) (model.Property, error) {
	idx, ok := c.byID[id]
	if !ok {
		return model.Property{}, fmt.Errorf("property %d: %w", id, ErrPropertyNotFound)
	}
	return c.properties[idx], nil
}

// FindFirstByName returns the first property, in catalog order, whose
// building name contains name case-insensitively. With overlapping names
// ("Palm Residency" and "Palm Residency Phase 2") the earlier entry wins;
// use SearchByName to see every candidate.
func (c *Catalog) FindFirstByName(name string) (model.Property, error) {
	idx := utils.FirstContaining(name, c.names)
	if idx < 0 {
		return model.Property{}, fmt.Errorf("property %q: %w", name, ErrPropertyNotFound)
	}
	return c.properties[idx], nil
}

// NameCandidate is a property proposed by SearchByName
type NameCandidate struct {
	Property model.Property `json:"property"`
	Match    string         `json:"match"`
	Score    int            `json:"score"`
}

// SearchByName ranks properties by how well their building name matches
func (c *Catalog) SearchByName(name string, limit int) []NameCandidate {
	matches := utils.RankNames(name, c.names, limit)
	out := make([]NameCandidate, 0, len(matches))
	for _, m := range matches {
		out = append(out, NameCandidate{
			Property: c.properties[m.Index],
			Match:    m.Kind,
			Score:    m.Score,
		})
	}
	return out
}

// MapProperties returns the properties that have coordinates in map form
func (c *Catalog) MapProperties() []model.MapProperty {
	out := make([]model.MapProperty, 0, len(c.properties))
	for _, p := range c.properties {
		if !p.HasCoordinates() {
			continue
		}
		out = append(out, model.MapProperty{
			ID:        p.ID,
			Name:      p.BuildingName,
			Location:  p.Location,
			Lat:       *p.Latitude,
			Lng:       *p.Longitude,
			Price:     p.PriceRange,
			Types:     p.ApartmentTypes,
			Amenities: p.Amenities,
			Contact:   p.BuilderContact,
			Builder:   p.BuilderName,
			Status:    p.Availability,
		})
	}
	return out
}

// CatalogStore holds the current catalog and swaps it wholesale on reload
type CatalogStore struct {
	source  PropertySource
	current atomic.Pointer[Catalog]
	logger  *zap.Logger
}

// NewCatalogStore creates a store with an empty catalog
func NewCatalogStore(source PropertySource, logger *zap.Logger) *CatalogStore {
	s := &CatalogStore{source: source, logger: logger}
	s.current.Store(NewCatalog(nil))
	return s
}

// Current returns the catalog in effect
func (s *CatalogStore) Current() *Catalog {
	return s.current.Load()
}

// Reload re-reads the source and replaces the catalog. On failure the
// previous catalog stays in place.
func (s *CatalogStore) Reload(ctx context.Context) (int, error) {
	properties, err := s.source.LoadProperties(ctx)
	if err != nil {
		catalogReloads.WithLabelValues("error").Inc()
		return 0, fmt.Errorf("failed to load properties: %w", err)
	}

	c := NewCatalog(properties)
	s.current.Store(c)
	catalogReloads.WithLabelValues("ok").Inc()
	catalogSize.Set(float64(c.Len()))

	s.logger.Info("catalog loaded",
		zap.Int("properties", c.Len()),
		zap.Int("locations", len(c.Locations())))
	return c.Len(), nil
}
