package model

// LatLng is a geographic coordinate
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is one result of a nearby-places lookup
type Place struct {
	Name       string   `json:"name"`
	Vicinity   string   `json:"vicinity"`
	Rating     float32  `json:"rating"`
	Types      []string `json:"types"`
	Location   LatLng   `json:"location"`
	PriceLevel int      `json:"price_level,omitempty"`
	PhotoRefs  []string `json:"photos,omitempty"`
}

// NearbyResult carries places or a structured error, never both
type NearbyResult struct {
	Places []Place `json:"places"`
	Count  int     `json:"count"`
	Error  string  `json:"error,omitempty"`
}
