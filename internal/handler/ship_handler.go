package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// ShipHandler handles HTTP requests for the live fleet view
type ShipHandler struct {
	service *service.ShipService
}

// NewShipHandler creates a new ship handler
func NewShipHandler(service *service.ShipService) *ShipHandler {
	return &ShipHandler{service: service}
}

// ActiveShips lists vessels active in the last hours with their discharge estimate
// GET /api/v1/active-ships
func (h *ShipHandler) ActiveShips(c *gin.Context) {
	ships, err := h.service.ActiveShips(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, ships)
}

// Heatmap returns the size or scrubber heatmap
// GET /api/v1/heatmap?type=size|scrubber
func (h *ShipHandler) Heatmap(c *gin.Context) {
	metric := c.DefaultQuery("type", models.HeatmapMetricSize)
	heatmap, err := h.service.Heatmap(c.Request.Context(), metric)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, heatmap)
}

// ScrubberVessels lists the scrubber registry
// GET /api/v1/scrubber-vessels
func (h *ShipHandler) ScrubberVessels(c *gin.Context) {
	vessels, err := h.service.ScrubberVessels(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, vessels)
}

// NavigationalStatuses lists the AIS status lookup table
// GET /api/v1/navigational-status
func (h *ShipHandler) NavigationalStatuses(c *gin.Context) {
	statuses, err := h.service.NavStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, statuses)
}
