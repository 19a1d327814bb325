package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPreference is returned by Normalize for a value outside the
// allowed domain of a preference field
var ErrInvalidPreference = errors.New("invalid preference")

// NearCategory is a proximity tag the user asked to be close to
type NearCategory string

const (
	NearAirport  NearCategory = "airport"
	NearSchool   NearCategory = "school"
	NearHospital NearCategory = "hospital"
	NearMall     NearCategory = "mall"
	NearBeach    NearCategory = "beach"
	NearRailway  NearCategory = "railway"
	NearCollege  NearCategory = "college"
)

// NearCategories lists every proximity tag in matching order
var NearCategories = []NearCategory{
	NearAirport, NearSchool, NearHospital, NearMall, NearBeach, NearRailway, NearCollege,
}

// Valid reports whether c is one of NearCategories
func (c NearCategory) Valid() bool {
	for _, known := range NearCategories {
		if c == known {
			return true
		}
	}
	return false
}

// BudgetRange is an inclusive price window in lakhs, kept in the order written
type BudgetRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// PreferenceSet accumulates search criteria across the turns of one session
type PreferenceSet struct {
	BHK               *int          `json:"bhk,omitempty"`
	MaxBudget         *int          `json:"max_budget,omitempty"`
	BudgetRange       *BudgetRange  `json:"budget_range,omitempty"`
	PreferredLocation *string       `json:"preferred_location,omitempty"`
	Near              *NearCategory `json:"near,omitempty"`
	Amenities         []string      `json:"amenities,omitempty"`
}

// IsEmpty reports whether no preference has been extracted yet
func (p *PreferenceSet) IsEmpty() bool {
	return p.BHK == nil && p.MaxBudget == nil && p.BudgetRange == nil &&
		p.PreferredLocation == nil && p.Near == nil && len(p.Amenities) == 0
}

// HasAmenity reports whether tag is already in the amenity set
func (p *PreferenceSet) HasAmenity(tag string) bool {
	for _, a := range p.Amenities {
		if a == tag {
			return true
		}
	}
	return false
}

// AddAmenity appends the lower-cased tag unless present or blank
func (p *PreferenceSet) AddAmenity(tag string) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag != "" && !p.HasAmenity(tag) {
		p.Amenities = append(p.Amenities, tag)
	}
}

// Normalize returns a copy of p that satisfies the field invariants.
// PreferredLocation is resolved case-insensitively to one of locations,
// Near must be a known category, amenities are lower-cased and deduplicated.
// Counts and budgets must be positive and a range must not be inverted.
func (p *PreferenceSet) Normalize(locations []string) (PreferenceSet, error) {
	out := p.Clone()
	out.Amenities = nil
	for _, a := range p.Amenities {
		out.AddAmenity(a)
	}

	if out.BHK != nil && *out.BHK <= 0 {
		return PreferenceSet{}, fmt.Errorf("bhk %d: %w", *out.BHK, ErrInvalidPreference)
	}
	if out.MaxBudget != nil && *out.MaxBudget <= 0 {
		return PreferenceSet{}, fmt.Errorf("max_budget %d: %w", *out.MaxBudget, ErrInvalidPreference)
	}
	if r := out.BudgetRange; r != nil && (r.Min < 0 || r.Max < r.Min) {
		return PreferenceSet{}, fmt.Errorf("budget_range %d-%d: %w", r.Min, r.Max, ErrInvalidPreference)
	}

	if out.Near != nil {
		near := NearCategory(strings.ToLower(strings.TrimSpace(string(*out.Near))))
		if !near.Valid() {
			return PreferenceSet{}, fmt.Errorf("near %q: %w", *out.Near, ErrInvalidPreference)
		}
		out.Near = &near
	}

	if out.PreferredLocation != nil {
		want := strings.TrimSpace(*out.PreferredLocation)
		var resolved *string
		for _, loc := range locations {
			if strings.EqualFold(loc, want) {
				v := loc
				resolved = &v
				break
			}
		}
		if resolved == nil {
			return PreferenceSet{}, fmt.Errorf("preferred_location %q is not a catalog location: %w", want, ErrInvalidPreference)
		}
		out.PreferredLocation = resolved
	}

	return out, nil
}

// Clone returns a deep copy
func (p *PreferenceSet) Clone() PreferenceSet {
	out := PreferenceSet{}
	if p.BHK != nil {
		v := *p.BHK
		out.BHK = &v
	}
	if p.MaxBudget != nil {
		v := *p.MaxBudget
		out.MaxBudget = &v
	}
	if p.BudgetRange != nil {
		v := *p.BudgetRange
		out.BudgetRange = &v
	}
	if p.PreferredLocation != nil {
		v := *p.PreferredLocation
		out.PreferredLocation = &v
	}
	if p.Near != nil {
		v := *p.Near
		out.Near = &v
	}
	if len(p.Amenities) > 0 {
		out.Amenities = append([]string(nil), p.Amenities...)
	}
	return out
}

// Summary renders the preferences as one line for prompts and logs
func (p *PreferenceSet) Summary() string {
	if p.IsEmpty() {
		return "No specific preferences identified yet."
	}

	var parts []string
	if p.BHK != nil {
		parts = append(parts, fmt.Sprintf("Looking for: %dBHK", *p.BHK))
	}
	if p.MaxBudget != nil {
		parts = append(parts, fmt.Sprintf("Budget: Under %d lakhs", *p.MaxBudget))
	}
	if p.BudgetRange != nil {
		parts = append(parts, fmt.Sprintf("Budget: %d-%d lakhs", p.BudgetRange.Min, p.BudgetRange.Max))
	}
	if p.PreferredLocation != nil {
		parts = append(parts, "Preferred location: "+*p.PreferredLocation)
	}
	if p.Near != nil {
		parts = append(parts, "Near: "+string(*p.Near))
	}
	if len(p.Amenities) > 0 {
		parts = append(parts, "Wants: "+strings.Join(p.Amenities, ", "))
	}
	return strings.Join(parts, " | ")
}
