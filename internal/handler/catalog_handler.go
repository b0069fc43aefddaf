package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/domain/geomap"
	"github.com/daedongje/service-wayfinding/internal/platform/response"
)

// CatalogHandler handles HTTP requests for events and their locations.
type CatalogHandler struct {
	service *application.CatalogService
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// RegisterRoutes registers all catalog routes.
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	events := r.Group("/api/v1/events")
	{
		events.GET("", h.ListEvents)
		events.GET("/:id", h.GetEvent)
		events.GET("/:id/locations", h.ListLocations)
	}

	locations := r.Group("/api/v1/locations")
	{
		locations.GET("/search", h.SearchLocation)
		locations.GET("/nearest", h.NearestLocation)
	}
}

// ListEvents returns every event listing.
func (h *CatalogHandler) ListEvents(c *gin.Context) {
	result, err := h.service.ListEvents(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetEvent returns a single event listing.
func (h *CatalogHandler) GetEvent(c *gin.Context) {
	result, err := h.service.GetEvent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// ListLocations returns an event's locations, optionally by ?category=.
func (h *CatalogHandler) ListLocations(c *gin.Context) {
	result, err := h.service.ListLocations(c.Request.Context(), c.Param("id"), c.Query("category"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// SearchLocationQuery is the query of a keyword search.
type SearchLocationQuery struct {
	EventID string `form:"event_id"`
	Keyword string `form:"keyword" binding:"required"`
}

// SearchLocation finds a location by keyword.
func (h *CatalogHandler) SearchLocation(c *gin.Context) {
	var q SearchLocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.SearchLocation(c.Request.Context(), q.EventID, q.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// NearestLocationQuery is the query of a nearest-location lookup.
type NearestLocationQuery struct {
	EventID string  `form:"event_id"`
	Lat     float64 `form:"lat" binding:"required"`
	Lng     float64 `form:"lng" binding:"required"`
	Keyword string  `form:"keyword"`
}

// NearestLocation finds the location closest to ?lat=&lng=.
func (h *CatalogHandler) NearestLocation(c *gin.Context) {
	var q NearestLocationQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	from := geomap.LatLng{Lat: q.Lat, Lng: q.Lng}
	result, err := h.service.NearestLocation(c.Request.Context(), q.EventID, from, q.Keyword)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
