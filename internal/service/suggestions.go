package service

import (
	"fmt"
	"strings"

	"property-assistant/internal/model"
)

// DefaultSuggestionLimit caps the suggestions returned per turn
const DefaultSuggestionLimit = 3

var fallbackSuggestions = []string{
	"Tell me about RERA approval status",
	"What are the maintenance charges?",
	"Show virtual tour links",
	"Explain loan eligibility",
	"What documents do I need?",
}

var stageSuggestions = map[model.Stage][]string{
	model.StageEvaluation: {
		"Would you like me to compare your shortlisted properties?",
		"Show me pros and cons of each property",
	},
	model.StageDecision: {
		"Schedule a property visit",
		"Check loan eligibility and EMI calculator",
		"What documents do I need for booking?",
	},
}

// SuggestionInput is everything a suggestion pass reads
type SuggestionInput struct {
	Query    string
	Response string
	Prefs    *model.PreferenceSet
	Stage    model.Stage
	Catalog  *Catalog
}

// SuggestionGenerator derives follow-up prompts for the user
type SuggestionGenerator struct {
	limit int
}

// NewSuggestionGenerator creates a generator returning at most limit items
func NewSuggestionGenerator(limit int) *SuggestionGenerator {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	return &SuggestionGenerator{limit: limit}
}

// Suggest returns unique follow-ups in priority order, padded from the
// fallback pool so callers always get limit items.
func (g *SuggestionGenerator) Suggest(in SuggestionInput) []string {
	q := strings.ToLower(in.Query)
	prefs := in.Prefs
	if prefs == nil {
		prefs = &model.PreferenceSet{}
	}

	var candidates []string

	// Context: what the user asked about crossed with what is still unknown
	if strings.Contains(q, "bhk") && prefs.MaxBudget == nil && prefs.BudgetRange == nil {
		candidates = append(candidates, "What's your budget range?")
	}
	if containsAny(q, "budget", "price", "cost") && prefs.BHK == nil {
		candidates = append(candidates, "How many bedrooms do you need?")
	}
	if containsAny(q, "near", "close to") {
		candidates = append(candidates, "Tell me about commute times", "What amenities are important to you?")
	}
	if containsAny(q, "amenities", "facilities", "gym", "pool") {
		candidates = append(candidates, "Compare these properties", "Show builder information")
	}
	if strings.Contains(q, "compare") {
		candidates = append(candidates, "Which property has better connectivity?", "Show detailed floor plans")
	}

	// Preferences the user already gave
	if prefs.PreferredLocation != nil {
		loc := *prefs.PreferredLocation
		candidates = append(candidates,
			fmt.Sprintf("Show all properties in %s", loc),
			fmt.Sprintf("What's special about %s area?", loc))
	}
	if prefs.BHK != nil {
		candidates = append(candidates, fmt.Sprintf("Compare all %dBHK options", *prefs.BHK))
	}

	// Response naming several properties
	if in.Catalog != nil && countNamed(in.Response, in.Catalog) > 1 {
		candidates = append(candidates, "Which property has better connectivity?", "Show detailed floor plans")
	}

	candidates = append(candidates, stageSuggestions[in.Stage]...)
	candidates = append(candidates, fallbackSuggestions...)

	return dedupe(candidates, g.limit)
}

// countNamed counts catalog building names appearing in text
func countNamed(text string, catalog *Catalog) int {
	lower := strings.ToLower(text)
	if lower == "" {
		return 0
	}
	n := 0
	for _, name := range catalog.Names() {
		if name != "" && strings.Contains(lower, strings.ToLower(name)) {
			n++
		}
	}
	return n
}

func dedupe(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, limit)
	for _, s := range items {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
