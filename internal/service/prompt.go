package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"property-assistant/internal/model"
	"property-assistant/internal/utils"
)

// GreetingMarker is the literal a model may reply with to request the canned greeting
const GreetingMarker = "GREETING"

const (
	amenityContextLimit   = 150
	assistantContextLimit = 200
)

// propertyContext is the minimal view of a ranked property sent to the model
type propertyContext struct {
	Name            string `json:"name"`
	Location        string `json:"location"`
	Types           string `json:"types"`
	Price           string `json:"price"`
	Status          string `json:"status"`
	Builder         string `json:"builder"`
	Contact         string `json:"contact"`
	CommuteTimes    string `json:"commute_times,omitempty"`
	NearbyLocations string `json:"nearby_locations,omitempty"`
	Amenities       string `json:"amenities,omitempty"`
}

// BuildGreeting returns the canned greeting for a catalog
func BuildGreeting(catalog *Catalog) string {
	locations := catalog.Locations()

	var b strings.Builder
	b.WriteString("Hello! I'm your AI property assistant for Mangalore real estate.\n\n")
	b.WriteString("I help you find properties efficiently. Here's what's available:\n")
	fmt.Fprintf(&b, "• %d Properties across %d locations\n", catalog.Len(), len(locations))
	fmt.Fprintf(&b, "• Locations: %s\n", strings.Join(locations, ", "))
	b.WriteString("• Price range: ₹100-200 lakhs\n\n")
	b.WriteString("Try asking:\n")
	b.WriteString("• \"2BHK in Kadri under 150 lakhs\"\n")
	b.WriteString("• \"Properties with gym\"\n")
	b.WriteString("• \"Compare builders\"")
	return b.String()
}

// BuildPropertyContext renders ranked properties as compact JSON. Commute
// and nearby fields are added when a proximity preference exists, amenities
// when amenities were requested.
func BuildPropertyContext(ranked []model.RankedProperty, prefs *model.PreferenceSet) string {
	if len(ranked) == 0 {
		return "No matching properties found."
	}

	items := make([]propertyContext, 0, len(ranked))
	for _, r := range ranked {
		item := propertyContext{
			Name:     r.BuildingName,
			Location: r.Location,
			Types:    r.ApartmentTypes,
			Price:    r.PriceRange,
			Status:   r.Availability,
			Builder:  r.BuilderName,
			Contact:  r.BuilderContact,
		}
		if prefs.Near != nil {
			item.CommuteTimes = r.CommuteTimes
			item.NearbyLocations = r.NearbyLocations
		}
		if len(prefs.Amenities) > 0 {
			item.Amenities = utils.Truncate(r.Amenities, amenityContextLimit)
		}
		items = append(items, item)
	}

	data, err := json.MarshalIndent(items, "", " ")
	if err != nil {
		return "No matching properties found."
	}
	return string(data)
}

// BuildMemoryContext renders preferences and the latest exchanges
func BuildMemoryContext(history []model.Turn, prefs *model.PreferenceSet) string {
	if len(history) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("CONVERSATION MEMORY:\n")
	if !prefs.IsEmpty() {
		fmt.Fprintf(&b, "User Preferences: %s\n\n", prefs.Summary())
	}
	for _, turn := range history {
		fmt.Fprintf(&b, "User: %s\n", turn.Query)
		fmt.Fprintf(&b, "Assistant: %s\n\n", utils.Truncate(turn.Response, assistantContextLimit))
	}
	return b.String()
}

// BuildPrompt assembles the full instruction prompt for one turn
func BuildPrompt(query, propertyCtx, memoryCtx string, catalog *Catalog) string {
	locations := catalog.Locations()

	var b strings.Builder
	b.WriteString("You are an AI property assistant for Mangalore real estate. You remember the conversation and the buyer's preferences.\n\n")
	b.WriteString("RULES:\n")
	b.WriteString("- Never say that you are tailoring answers to the user's preferences.\n")
	b.WriteString("- No asterisks or markdown bold. Use • for lists and <b> tags for bold text.\n")
	b.WriteString("- Open with two or three conversational sentences, then the relevant property details.\n")
	b.WriteString("- Mention prices only when the user asks about budget.\n")
	b.WriteString("- For commute or nearby questions, lead with Commute Times and Nearby Locations.\n")
	b.WriteString("- When comparing, highlight the key differences.\n")
	b.WriteString("- If the user focuses on one property, do not describe others.\n")
	b.WriteString("- If the user wants a visit, give the builder contact and say the office is open 10AM-7PM.\n")
	b.WriteString("- If the user replies with 1, 2 or 3, answer the matching follow-up you suggested earlier.\n")
	fmt.Fprintf(&b, "- If the message is only a greeting, reply with the single word %s.\n\n", GreetingMarker)

	if memoryCtx != "" {
		b.WriteString(memoryCtx)
	}
	fmt.Fprintf(&b, "CURRENT QUERY: %s\n\n", query)
	fmt.Fprintf(&b, "RELEVANT PROPERTIES: %s\n\n", propertyCtx)
	fmt.Fprintf(&b, "CATALOG: %d properties across %s\n", catalog.Len(), strings.Join(locations, ", "))
	return b.String()
}
