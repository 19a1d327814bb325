package service

import (
	"sort"
	"strings"

	"property-assistant/internal/model"
)

// DefaultTopK is the maximum number of ranked properties returned
const DefaultTopK = 4

// Ranker scores the catalog and returns the best matches
type Ranker struct {
	engine *ScoringEngine
	topK   int
}

// NewRanker creates a new ranker
func NewRanker(engine *ScoringEngine, topK int) *Ranker {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Ranker{engine: engine, topK: topK}
}

// Rank returns at most topK properties with a positive score, ordered by
// score descending and then by ID ascending.
func (r *Ranker) Rank(catalog *Catalog, prefs *model.PreferenceSet, query string) []model.RankedProperty {
	queryLower := strings.ToLower(query)
	properties := catalog.Properties()

	results := make([]model.RankedProperty, 0, r.topK)
	for i := range properties {
		score, reasons := r.engine.Explain(&properties[i], prefs, queryLower)
		if score <= 0 {
			continue
		}
		if reasons == nil {
			reasons = []string{}
		}
		results = append(results, model.RankedProperty{
			Property:       properties[i],
			Score:          score,
			MatchedReasons: reasons,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].ID < results[j].ID
	})

	if len(results) > r.topK {
		results = results[:r.topK]
	}

	rankedResults.Observe(float64(len(results)))
	return results
}
