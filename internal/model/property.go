package model

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Source field names as they appear in the apartments data file
const (
	FieldBuildingName   = "Building Name"
	FieldLocation       = "Location"
	FieldStreetName     = "Street Name"
	FieldApartmentTypes = "Apartment Types"
	FieldApartmentSizes = "Apartment Sizes"
	FieldPriceRange     = "Price Range (Lakhs)"
	FieldAmenities      = "Amenities"
	FieldNearby         = "Nearby Locations"
	FieldCommuteTimes   = "Commute Times"
	FieldAvailability   = "Availability Status"
	FieldBuilderName    = "Builder Name"
	FieldBuilderContact = "Builder Contact"
	FieldLatitude       = "Latitude"
	FieldLongitude      = "Longitude"
	FieldPhotoURL       = "Building Photo URL"
)

// Property represents a single listing in the catalog
type Property struct {
	// ID is the stable catalog key assigned at load time
	ID              int      `json:"id" db:"id"`
	BuildingName    string   `json:"Building Name" db:"building_name"`
	Location        string   `json:"Location" db:"location"`
	StreetName      string   `json:"Street Name,omitempty" db:"street_name"`
	ApartmentTypes  string   `json:"Apartment Types" db:"apartment_types"`
	ApartmentSizes  string   `json:"Apartment Sizes,omitempty" db:"apartment_sizes"`
	PriceRange      string   `json:"Price Range (Lakhs)" db:"price_range"`
	Amenities       string   `json:"Amenities" db:"amenities"`
	NearbyLocations string   `json:"Nearby Locations" db:"nearby_locations"`
	CommuteTimes    string   `json:"Commute Times" db:"commute_times"`
	Availability    string   `json:"Availability Status" db:"availability_status"`
	BuilderName     string   `json:"Builder Name" db:"builder_name"`
	BuilderContact  string   `json:"Builder Contact" db:"builder_contact"`
	Latitude        *float64 `json:"Latitude,omitempty" db:"latitude"`
	Longitude       *float64 `json:"Longitude,omitempty" db:"longitude"`
	PhotoURL        *string  `json:"Building Photo URL,omitempty" db:"photo_url"`
}

// HasCoordinates reports whether both latitude and longitude are known
func (p *Property) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}

// UnmarshalJSON decodes a record exported from a spreadsheet, where text
// columns may arrive as numbers and numeric columns as strings or null.
func (p *Property) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*p = Property{
		BuildingName:    rawText(raw[FieldBuildingName]),
		Location:        rawText(raw[FieldLocation]),
		StreetName:      rawText(raw[FieldStreetName]),
		ApartmentTypes:  rawText(raw[FieldApartmentTypes]),
		ApartmentSizes:  rawText(raw[FieldApartmentSizes]),
		PriceRange:      rawText(raw[FieldPriceRange]),
		Amenities:       rawText(raw[FieldAmenities]),
		NearbyLocations: rawText(raw[FieldNearby]),
		CommuteTimes:    rawText(raw[FieldCommuteTimes]),
		Availability:    rawText(raw[FieldAvailability]),
		BuilderName:     rawText(raw[FieldBuilderName]),
		BuilderContact:  rawText(raw[FieldBuilderContact]),
		Latitude:        rawFloat(raw[FieldLatitude]),
		Longitude:       rawFloat(raw[FieldLongitude]),
	}
	if id, ok := raw["id"]; ok {
		_ = json.Unmarshal(id, &p.ID)
	}
	if photo := rawText(raw[FieldPhotoURL]); photo != "" {
		p.PhotoURL = &photo
	}
	return nil
}

// rawText renders a JSON scalar as text. Integral numbers lose their ".0".
func rawText(raw json.RawMessage) string {
	s := bytes.TrimSpace(raw)
	if len(s) == 0 || bytes.Equal(s, []byte("null")) {
		return ""
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(s, &v); err != nil {
			return ""
		}
		return strings.TrimSpace(v)
	}
	if f, err := strconv.ParseFloat(string(s), 64); err == nil {
		if f == math.Trunc(f) && math.Abs(f) < 1e15 {
			return strconv.FormatInt(int64(f), 10)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return string(s)
}

// rawFloat parses a JSON number or numeric string; anything else is missing
func rawFloat(raw json.RawMessage) *float64 {
	s := bytes.TrimSpace(raw)
	if len(s) == 0 || bytes.Equal(s, []byte("null")) {
		return nil
	}
	text := string(s)
	if s[0] == '"' {
		if err := json.Unmarshal(s, &text); err != nil {
			return nil
		}
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// MapProperty is the compact shape used by map views
type MapProperty struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Location  string  `json:"location"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Price     string  `json:"price"`
	Types     string  `json:"types"`
	Amenities string  `json:"amenities"`
	Contact   string  `json:"contact"`
	Builder   string  `json:"builder"`
	Status    string  `json:"status"`
}

// RankedProperty is a property with its relevance score
type RankedProperty struct {
	Property
	Score          int      `json:"score"`
	MatchedReasons []string `json:"matched_reasons"`
}

// UnmarshalJSON decodes the listing fields and the score annotations
func (r *RankedProperty) UnmarshalJSON(data []byte) error {
	if err := r.Property.UnmarshalJSON(data); err != nil {
		return err
	}
	var extra struct {
		Score          int      `json:"score"`
		MatchedReasons []string `json:"matched_reasons"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	r.Score = extra.Score
	r.MatchedReasons = extra.MatchedReasons
	return nil
}
