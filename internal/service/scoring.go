package service

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"property-assistant/internal/model"
)

// Match reason constants
const (
	ReasonLocationMatch  = "Location match"
	ReasonBHKMatch       = "BHK match"
	ReasonWithinBudget   = "Price within budget"
	ReasonBudgetOverlap  = "Price overlaps budget range"
	ReasonAmenityPrefix  = "Has "
	ReasonProximityMatch = "Near "
	ReasonKeywordMatch   = "Keyword match"
)

var digitRun = regexp.MustCompile(`\d+`)

// RankingWeights are the points awarded per signal
type RankingWeights struct {
	Location  int
	BHK       int
	Budget    int
	Amenity   int
	Proximity int
	Text      int
}

// DefaultWeights returns the standard weight table
func DefaultWeights() RankingWeights {
	return RankingWeights{
		Location:  10,
		BHK:       8,
		Budget:    6,
		Amenity:   3,
		Proximity: 12,
		Text:      1,
	}
}

// ScoringEngine computes additive relevance scores
type ScoringEngine struct {
	weights RankingWeights
}

// NewScoringEngine creates a scoring engine with the given weights
func NewScoringEngine(weights RankingWeights) *ScoringEngine {
	return &ScoringEngine{weights: weights}
}

// Score returns the relevance of property to prefs and the lower-cased query
func (e *ScoringEngine) Score(p *model.Property, prefs *model.PreferenceSet, queryLower string) int {
	score, _ := e.evaluate(p, prefs, queryLower, false)
	return score
}

// Explain returns the score along with human-readable matched reasons
func (e *ScoringEngine) Explain(p *model.Property, prefs *model.PreferenceSet, queryLower string) (int, []string) {
	return e.evaluate(p, prefs, queryLower, true)
}

func (e *ScoringEngine) evaluate(p *model.Property, prefs *model.PreferenceSet, queryLower string, explain bool) (int, []string) {
	score := 0
	var reasons []string
	reason := func(r string) {
		if explain {
			reasons = append(reasons, r)
		}
	}

	if prefs.PreferredLocation != nil &&
		strings.Contains(strings.ToLower(p.Location), strings.ToLower(*prefs.PreferredLocation)) {
		score += e.weights.Location
		reason(ReasonLocationMatch)
	}

	if prefs.BHK != nil &&
		strings.Contains(strings.ToLower(p.ApartmentTypes), fmt.Sprintf("%dbhk", *prefs.BHK)) {
		score += e.weights.BHK
		reason(ReasonBHKMatch)
	}

	if lo, hi, ok := PriceBounds(p.PriceRange); ok {
		if prefs.MaxBudget != nil && hi <= *prefs.MaxBudget {
			score += e.weights.Budget
			reason(ReasonWithinBudget)
		}
		if r := prefs.BudgetRange; r != nil && lo <= r.Max && hi >= r.Min {
			score += e.weights.Budget
			reason(ReasonBudgetOverlap)
		}
	}

	if len(prefs.Amenities) > 0 {
		amenities := strings.ToLower(p.Amenities)
		for _, a := range prefs.Amenities {
			if strings.Contains(amenities, a) {
				score += e.weights.Amenity
				reason(ReasonAmenityPrefix + a)
			}
		}
	}

	if prefs.Near != nil {
		near := string(*prefs.Near)
		if strings.Contains(strings.ToLower(p.CommuteTimes), near) ||
			strings.Contains(strings.ToLower(p.NearbyLocations), near) {
			score += e.weights.Proximity
			reason(ReasonProximityMatch + near)
		}
	}

	searchable := strings.ToLower(strings.Join([]string{p.BuildingName, p.Location, p.ApartmentTypes, p.Amenities}, " "))
	keywordHits := 0
	for _, tok := range strings.Fields(queryLower) {
		if len([]rune(tok)) > 2 && strings.Contains(searchable, tok) {
			score += e.weights.Text
			keywordHits++
		}
	}
	if keywordHits > 0 {
		reason(ReasonKeywordMatch)
	}

	return score, reasons
}

// PriceBounds extracts every digit run from a price-range string and
// returns their min and max. ok is false when no number can be parsed.
func PriceBounds(priceRange string) (lo, hi int, ok bool) {
	for _, tok := range digitRun.FindAllString(priceRange, -1) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			continue
		}
		if !ok {
			lo, hi, ok = n, n, true
			continue
		}
		if n < lo {
			lo = n
		}
		if n > hi {
			hi = n
		}
	}
	return lo, hi, ok
}
