package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/daedongje/service-wayfinding/internal/application"
	"github.com/daedongje/service-wayfinding/internal/platform/response"
)

// ClientHandler serves client integration settings and registration codes.
type ClientHandler struct {
	service     *application.ClientService
	loadTimeout time.Duration
}

// NewClientHandler creates a new ClientHandler. loadTimeout is how long
// clients should wait for the map SDK before showing an inert map.
func NewClientHandler(service *application.ClientService, loadTimeout time.Duration) *ClientHandler {
	return &ClientHandler{service: service, loadTimeout: loadTimeout}
}

// RegisterRoutes registers all client routes.
func (h *ClientHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/api/v1/client-config", h.GetClientConfig)

	registrations := r.Group("/api/v1/registrations")
	{
		registrations.POST("", h.Register)
		registrations.GET("/qr", h.GetQRCode)
	}
}

// GetClientConfig reports which optional integrations are enabled.
func (h *ClientHandler) GetClientConfig(c *gin.Context) {
	response.Success(c, h.service.ClientConfig(h.loadTimeout))
}

// RegisterRequest is the body of a registration.
type RegisterRequest struct {
	EventID string `json:"event_id"`
}

// Register issues a registration ID and its check-in QR code.
func (h *ClientHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, err.Error())
			return
		}
	}
	response.Created(c, h.service.Register(req.EventID))
}

// GetQRCode returns the QR image URL for ?data=.
func (h *ClientHandler) GetQRCode(c *gin.Context) {
	imageURL, err := h.service.QRCode(c.Query("data"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"data": c.Query("data"), "image_url": imageURL})
}
