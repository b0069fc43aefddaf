package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/domain/routing"
	"github.com/daedongje/service-wayfinding/internal/geolocation"
	"github.com/daedongje/service-wayfinding/internal/platform/response"
)

// WidgetHandler handles HTTP requests for widget sessions.
type WidgetHandler struct {
	service *application.WayfindingService
}

// NewWidgetHandler creates a new WidgetHandler.
func NewWidgetHandler(service *application.WayfindingService) *WidgetHandler {
	return &WidgetHandler{service: service}
}

// RegisterRoutes registers all widget routes.
func (h *WidgetHandler) RegisterRoutes(r *gin.RouterGroup) {
	widgets := r.Group("/api/v1/widgets")
	{
		widgets.POST("", h.CreateWidget)
		widgets.GET("/:id", h.GetWidget)
		widgets.DELETE("/:id", h.DeleteWidget)
		widgets.POST("/:id/panel/open", h.OpenPanel)
		widgets.POST("/:id/panel/close", h.ClosePanel)
		widgets.POST("/:id/start", h.StartRouting)
		widgets.POST("/:id/click", h.Click)
		widgets.POST("/:id/reset", h.Reset)
		widgets.POST("/:id/resize", h.Resize)
		widgets.GET("/:id/overlay", h.GetOverlay)
	}

	r.POST("/api/v1/geolocation/resolve", h.ResolveLocation)
}

// CreateWidget mounts a new widget.
func (h *WidgetHandler) CreateWidget(c *gin.Context) {
	var req application.CreateWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.CreateWidget(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// GetWidget returns a widget's selection state.
func (h *WidgetHandler) GetWidget(c *gin.Context) {
	id, ok := widgetID(c)
	if !ok {
		return
	}

	result, err := h.service.GetWidget(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteWidget unmounts a widget.
func (h *WidgetHandler) DeleteWidget(c *gin.Context) {
	id, ok := widgetID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteWidget(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// OpenPanel shows the routing panel.
func (h *WidgetHandler) OpenPanel(c *gin.Context) {
	h.transition(c, h.service.OpenPanel)
}

// ClosePanel hides the routing panel.
func (h *WidgetHandler) ClosePanel(c *gin.Context) {
	h.transition(c, h.service.ClosePanel)
}

// StartRouting begins a new selection.
func (h *WidgetHandler) StartRouting(c *gin.Context) {
	h.transition(c, h.service.StartRouting)
}

// Reset discards the selection.
func (h *WidgetHandler) Reset(c *gin.Context) {
	h.transition(c, h.service.Reset)
}

func (h *WidgetHandler) transition(c *gin.Context, op func(ctx context.Context, id uuid.UUID) (*application.WidgetDTO, error)) {
	id, ok := widgetID(c)
	if !ok {
		return
	}

	result, err := op(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Click forwards a pointer event to the widget.
func (h *WidgetHandler) Click(c *gin.Context) {
	id, ok := widgetID(c)
	if !ok {
		return
	}

	var click routing.Click
	if err := c.ShouldBindJSON(&click); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Click(c.Request.Context(), id, click)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// Resize reports new element dimensions.
func (h *WidgetHandler) Resize(c *gin.Context) {
	id, ok := widgetID(c)
	if !ok {
		return
	}

	var req application.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.Resize(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// GetOverlay returns the draw model for a widget.
func (h *WidgetHandler) GetOverlay(c *gin.Context) {
	id, ok := widgetID(c)
	if !ok {
		return
	}

	result, err := h.service.Overlay(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

// ResolveLocationRequest is a client position report.
type ResolveLocationRequest struct {
	EventID string `json:"event_id"`
	geolocation.Report
}

// ResolveLocation picks a map center from a client position report.
func (h *WidgetHandler) ResolveLocation(c *gin.Context) {
	var req ResolveLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.service.ResolveLocation(c.Request.Context(), req.EventID, req.Report)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, result)
}

func widgetID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid widget ID")
		return uuid.Nil, false
	}
	return id, true
}
