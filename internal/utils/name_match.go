package utils

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// NameMatch is a candidate returned by RankNames
type NameMatch struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Kind  string `json:"kind"` // exact, substring or fuzzy
	Score int    `json:"score"`
}

// RankNames orders names by how well they match query. Exact matches come
// first, then substring matches in input order, then fuzzy subsequence
// matches by descending score. Each name appears at most once.
func RankNames(query string, names []string, limit int) []NameMatch {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" || len(names) == 0 {
		return nil
	}

	var results []NameMatch
	seen := make(map[int]bool)

	add := func(m NameMatch) bool {
		if seen[m.Index] {
			return true
		}
		seen[m.Index] = true
		results = append(results, m)
		return limit <= 0 || len(results) < limit
	}

	// Exact match
	for i, name := range names {
		if strings.ToLower(strings.TrimSpace(name)) == q {
			if !add(NameMatch{Index: i, Name: name, Kind: "exact", Score: 1000}) {
				return results
			}
		}
	}

	// Contains match
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), q) {
			if !add(NameMatch{Index: i, Name: name, Kind: "substring", Score: 500}) {
				return results
			}
		}
	}

	lowered := make([]string, len(names))
	for i, name := range names {
		lowered[i] = strings.ToLower(name)
	}
	for _, m := range fuzzy.Find(q, lowered) {
		if !add(NameMatch{Index: m.Index, Name: names[m.Index], Kind: "fuzzy", Score: m.Score}) {
			return results
		}
	}

	return results
}

// FirstContaining returns the index of the first name containing query
// case-insensitively, or -1.
func FirstContaining(query string, names []string) int {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return -1
	}
	for i, name := range names {
		if strings.Contains(strings.ToLower(name), q) {
			return i
		}
	}
	return -1
}
