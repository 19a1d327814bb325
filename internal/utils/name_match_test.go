package utils

import (
	"testing"
)

func TestRankNames(t *testing.T) {
	names := []string{"Palm Residency Phase 2", "Palm Residency", "Sea Breeze", "Prestige Palms"}

	got := RankNames("palm residency", names, 0)
	if len(got) < 2 {
		t.Fatalf("RankNames() returned %d matches, want at least 2", len(got))
	}
	if got[0].Name != "Palm Residency" || got[0].Kind != "exact" {
		t.Errorf("first match = %+v, want exact Palm Residency", got[0])
	}
	if got[1].Name != "Palm Residency Phase 2" || got[1].Kind != "substring" {
		t.Errorf("second match = %+v, want substring Palm Residency Phase 2", got[1])
	}

	seen := map[int]bool{}
	for _, m := range got {
		if seen[m.Index] {
			t.Errorf("duplicate candidate %q", m.Name)
		}
		seen[m.Index] = true
	}
}

func TestRankNames_FuzzyAndLimit(t *testing.T) {
	names := []string{"Sea Breeze", "Skyline Heights", "Silver Bay"}

	got := RankNames("sbrz", names, 0)
	if len(got) != 1 || got[0].Name != "Sea Breeze" || got[0].Kind != "fuzzy" {
		t.Errorf("RankNames(sbrz) = %+v", got)
	}

	got = RankNames("s", names, 2)
	if len(got) != 2 {
		t.Errorf("limit not applied, got %d", len(got))
	}

	if got := RankNames("", names, 0); got != nil {
		t.Errorf("empty query should yield nil, got %+v", got)
	}
}

func TestFirstContaining(t *testing.T) {
	names := []string{"Palm Residency Phase 2", "Palm Residency"}

	tests := []struct {
		query string
		want  int
	}{
		{"palm residency", 0},
		{"PHASE", 0},
		{"breeze", -1},
		{"", -1},
	}

	for _, tt := range tests {
		if got := FirstContaining(tt.query, names); got != tt.want {
			t.Errorf("FirstContaining(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}
