package service

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"property-assistant/internal/model"
)

var (
	bhkPattern         = regexp.MustCompile(`(\d+)\s*bhk`)
	maxBudgetPattern   = regexp.MustCompile(`(?:under|below|within|max|maximum)\s*(\d+)\s*(?:lakhs?|l)\b`)
	budgetRangePattern = regexp.MustCompile(`(\d+)\s*(?:-|to)\s*(\d+)\s*(?:lakhs?|l)\b`)
	genericBudget      = regexp.MustCompile(`(?:budget|price).*?(\d+)\s*(?:lakhs?|l)\b`)
)

// proximityRule maps query keywords to a near category
type proximityRule struct {
	category model.NearCategory
	keywords []string
}

// proximityTable is evaluated in order; the first category with a matching
// keyword wins.
var proximityTable = []proximityRule{
	{model.NearAirport, []string{"airport", "mangalore airport"}},
	{model.NearSchool, []string{"school", "schools", "education"}},
	{model.NearHospital, []string{"hospital", "medical", "healthcare"}},
	{model.NearMall, []string{"mall", "shopping", "market"}},
	{model.NearBeach, []string{"beach", "seaside", "coast"}},
	{model.NearRailway, []string{"railway", "train", "station"}},
	{model.NearCollege, []string{"college", "university"}},
}

// amenityKeywords are the amenity tags recognised in queries
var amenityKeywords = []string{
	"gym", "pool", "swimming", "parking", "garden", "playground", "security", "elevator", "lift",
}

// PreferenceExtractor turns free text into structured preferences
type PreferenceExtractor struct{}

// NewPreferenceExtractor creates a new extractor
func NewPreferenceExtractor() *PreferenceExtractor {
	return &PreferenceExtractor{}
}

// Extract updates prefs in place from query. locations are the catalog's
// distinct locations in catalog order. Unmatched input leaves fields as
// they were.
func (e *PreferenceExtractor) Extract(query string, prefs *model.PreferenceSet, locations []string) {
	q := strings.ToLower(query)

	// BHK
	if m := bhkPattern.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			prefs.BHK = &n
		}
	}

	e.extractBudget(q, prefs)

	// Location
	for _, loc := range locations {
		if strings.Contains(q, strings.ToLower(loc)) {
			v := loc
			prefs.PreferredLocation = &v
			break
		}
	}

	// Proximity
	if near, ok := matchProximity(q); ok {
		prefs.Near = &near
	}

	// Amenities
	tokens := make(map[string]bool)
	for _, tok := range strings.FieldsFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		tokens[tok] = true
	}
	for _, kw := range amenityKeywords {
		if tokens[kw] {
			prefs.AddAmenity(kw)
		}
	}
}

// extractBudget applies the three budget forms. The generic form only fires
// when neither a max budget nor a range is populated.
func (e *PreferenceExtractor) extractBudget(q string, prefs *model.PreferenceSet) {
	if m := maxBudgetPattern.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			prefs.MaxBudget = &n
		}
	}

	if m := budgetRangePattern.FindStringSubmatch(q); m != nil {
		lo, errLo := strconv.Atoi(m[1])
		hi, errHi := strconv.Atoi(m[2])
		if errLo == nil && errHi == nil {
			prefs.BudgetRange = &model.BudgetRange{Min: lo, Max: hi}
		}
	}

	if prefs.MaxBudget != nil || prefs.BudgetRange != nil {
		return
	}
	if m := genericBudget.FindStringSubmatch(q); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			prefs.MaxBudget = &n
		}
	}
}

func matchProximity(q string) (model.NearCategory, bool) {
	for _, rule := range proximityTable {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.category, true
			}
		}
	}
	return "", false
}
