package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-assistant/internal/model"
)

func TestPropertyHandler_List(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router, http.MethodGet, "/api/v1/properties", nil)
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Properties []model.Property `json:"properties"`
		Count      int              `json:"count"`
	}](t, w)
	assert.Equal(t, 2, all.Count)
	assert.Equal(t, 1, all.Properties[0].ID)
	assert.Nil(t, all.Properties[1].Latitude)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties?view=map", nil)
	require.Equal(t, http.StatusOK, w.Code)
	mapped := decode[struct {
		Properties []model.MapProperty `json:"properties"`
	}](t, w)
	require.Len(t, mapped.Properties, 1)
	assert.Equal(t, "Sea Breeze", mapped.Properties[0].Name)
}

func TestPropertyHandler_Get(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router, http.MethodGet, "/api/v1/properties/2", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Palm Residency", decode[model.Property](t, w).BuildingName)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPropertyHandler_Search(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router, http.MethodGet, "/api/v1/properties/search?name=breeze", nil)
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[struct {
		Count   int `json:"count"`
		Results []struct {
			Match string `json:"match"`
		} `json:"results"`
	}](t, w)
	require.Equal(t, 1, res.Count)
	assert.Equal(t, "substring", res.Results[0].Match)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(env.router, http.MethodGet, "/api/v1/properties/search?name=palm&limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPropertyHandler_Details(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router, http.MethodPost, "/api/v1/properties/details", model.PropertyDetailsRequest{Name: "palm"})
	require.Equal(t, http.StatusOK, w.Code)
	res := decode[struct {
		Property model.Property `json:"property"`
		Details  string         `json:"details"`
	}](t, w)
	assert.Equal(t, "Palm Residency", res.Property.BuildingName)
	assert.Contains(t, res.Details, "📍 Location: Bejai")

	w = performRequest(env.router, http.MethodPost, "/api/v1/properties/details", model.PropertyDetailsRequest{Name: "castle"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(env.router, http.MethodPost, "/api/v1/properties/details", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPropertyHandler_Nearby(t *testing.T) {
	env := newTestEnv(t)

	w := performRequest(env.router, http.MethodPost, "/api/v1/properties/nearby", model.NearbyRequest{PropertyID: 1, PlaceType: "park"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	res := decode[model.NearbyResult](t, w)
	assert.Equal(t, 1, res.Count)
	assert.InDelta(t, 12.8856, res.Places[0].Location.Lat, 1e-9)

	w = performRequest(env.router, http.MethodPost, "/api/v1/properties/nearby", model.NearbyRequest{PropertyID: 2, PlaceType: "park"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = performRequest(env.router, http.MethodPost, "/api/v1/properties/nearby", model.NearbyRequest{Name: "castle", PlaceType: "park"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = performRequest(env.router, http.MethodPost, "/api/v1/properties/nearby", map[string]int{"property_id": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
