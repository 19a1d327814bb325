package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-assistant/internal/model"
)

func TestBuildGreeting(t *testing.T) {
	catalog := NewCatalog(sampleProperties())
	greeting := BuildGreeting(catalog)

	assert.True(t, strings.HasPrefix(greeting, "Hello! I'm your AI property assistant for Mangalore real estate."))
	assert.Contains(t, greeting, "• 4 Properties across 3 locations")
	assert.Contains(t, greeting, "• Locations: Kadri, Bejai, Kankanady")
	assert.Contains(t, greeting, `"2BHK in Kadri under 150 lakhs"`)

	empty := BuildGreeting(NewCatalog(nil))
	assert.Contains(t, empty, "• 0 Properties across 0 locations")
}

func TestBuildPropertyContext_Empty(t *testing.T) {
	assert.Equal(t, "No matching properties found.", BuildPropertyContext(nil, &model.PreferenceSet{}))
}

func TestBuildPropertyContext_Fields(t *testing.T) {
	props := sampleProperties()
	props[0].Amenities = strings.Repeat("a", 180)
	ranked := []model.RankedProperty{{Property: props[0], Score: 10}}

	tests := []struct {
		name        string
		prefs       model.PreferenceSet
		wantCommute bool
		wantAmenity bool
	}{
		{name: "plain", prefs: model.PreferenceSet{}},
		{name: "near", prefs: model.PreferenceSet{Near: nearPtr(model.NearAirport)}, wantCommute: true},
		{name: "amenities", prefs: model.PreferenceSet{Amenities: []string{"gym"}}, wantAmenity: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := BuildPropertyContext(ranked, &tt.prefs)

			var items []map[string]string
			require.NoError(t, json.Unmarshal([]byte(out), &items))
			require.Len(t, items, 1)

			item := items[0]
			assert.Equal(t, "Sea Breeze", item["name"])
			assert.Equal(t, "Kadri", item["location"])
			assert.Equal(t, "120-180", item["price"])
			assert.Equal(t, "9876500001", item["contact"])

			_, hasCommute := item["commute_times"]
			assert.Equal(t, tt.wantCommute, hasCommute)

			amenities, hasAmenities := item["amenities"]
			assert.Equal(t, tt.wantAmenity, hasAmenities)
			if tt.wantAmenity {
				assert.Equal(t, strings.Repeat("a", 150)+"...", amenities)
			}
		})
	}
}

func TestBuildMemoryContext(t *testing.T) {
	assert.Empty(t, BuildMemoryContext(nil, &model.PreferenceSet{BHK: intPtr(2)}))

	history := []model.Turn{
		{Query: "2bhk in kadri", Response: "Sea Breeze is available."},
		{Query: "any gym?", Response: strings.Repeat("y", 250)},
	}
	out := BuildMemoryContext(history, &model.PreferenceSet{BHK: intPtr(2)})

	assert.True(t, strings.HasPrefix(out, "CONVERSATION MEMORY:\n"))
	assert.Contains(t, out, "User Preferences: Looking for: 2BHK")
	assert.Contains(t, out, "User: 2bhk in kadri\nAssistant: Sea Breeze is available.")
	assert.Contains(t, out, "Assistant: "+strings.Repeat("y", 200)+"...")
	assert.Less(t, strings.Index(out, "2bhk in kadri"), strings.Index(out, "any gym?"))

	noPrefs := BuildMemoryContext(history, &model.PreferenceSet{})
	assert.NotContains(t, noPrefs, "User Preferences")
}

func TestBuildPrompt(t *testing.T) {
	catalog := NewCatalog(sampleProperties())
	prompt := BuildPrompt("3bhk near school", "[]", "CONVERSATION MEMORY:\nUser: hi\n", catalog)

	assert.Contains(t, prompt, "CURRENT QUERY: 3bhk near school")
	assert.Contains(t, prompt, "RELEVANT PROPERTIES: []")
	assert.Contains(t, prompt, "reply with the single word GREETING")
	assert.Contains(t, prompt, "CATALOG: 4 properties across Kadri, Bejai, Kankanady")
	assert.Less(t, strings.Index(prompt, "CONVERSATION MEMORY"), strings.Index(prompt, "CURRENT QUERY"))
}

func nearPtr(c model.NearCategory) *model.NearCategory {
	return &c
}
