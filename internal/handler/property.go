package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"property-assistant/internal/model"
	"property-assistant/internal/service"
)

const defaultSearchLimit = 5

// PropertyHandler handles catalog HTTP requests
type PropertyHandler struct {
	propertyService *service.PropertyService
}

// NewPropertyHandler creates a new property handler
func NewPropertyHandler(propertyService *service.PropertyService) *PropertyHandler {
	return &PropertyHandler{propertyService: propertyService}
}

// List handles GET /api/v1/properties. With ?view=map only properties with
// coordinates are returned, in map form.
func (h *PropertyHandler) List(c *gin.Context) {
	if c.Query("view") == "map" {
		props := h.propertyService.MapProperties()
		c.JSON(http.StatusOK, gin.H{"properties": props, "count": len(props)})
		return
	}

	props := h.propertyService.List()
	c.JSON(http.StatusOK, gin.H{"properties": props, "count": len(props)})
}

// Get handles GET /api/v1/properties/:id
func (h *PropertyHandler) Get(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid property ID"})
		return
	}

	p, err := h.propertyService.Get(id)
	if err != nil {
		propertyError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Search handles GET /api/v1/properties/search?name=
func (h *PropertyHandler) Search(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	limit := defaultSearchLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	results := h.propertyService.Search(name, limit)
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}

// Details handles POST /api/v1/properties/details
func (h *PropertyHandler) Details(c *gin.Context) {
	var req model.PropertyDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	p, details, err := h.propertyService.Details(req.Name)
	if err != nil {
		propertyError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"property": p,
		"details":  details,
	})
}

// Nearby handles POST /api/v1/properties/nearby
func (h *PropertyHandler) Nearby(c *gin.Context) {
	var req model.NearbyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.propertyService.Nearby(c.Request.Context(), req)
	if err != nil {
		propertyError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func propertyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPropertyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Property not found"})
	default:
		// no coordinates, missing target
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
