package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// PathHandler handles HTTP requests for vessel paths and trails
type PathHandler struct {
	service *service.PathService
}

// NewPathHandler creates a new path handler
func NewPathHandler(service *service.PathService) *PathHandler {
	return &PathHandler{service: service}
}

// ShipPath returns the segmented 24 h path of a vessel
// GET /api/v1/ship-path/:imo
func (h *PathHandler) ShipPath(c *gin.Context) {
	imo, ok := imoParam(c)
	if !ok {
		return
	}
	path, err := h.service.ShipPath(c.Request.Context(), imo)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, path)
}

// ShipTrail returns the discharge trail of a scrubber vessel
// GET /api/v1/ship-trail/:imo
func (h *PathHandler) ShipTrail(c *gin.Context) {
	imo, ok := imoParam(c)
	if !ok {
		return
	}
	trail, err := h.service.ShipTrail(c.Request.Context(), imo)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, trail)
}
