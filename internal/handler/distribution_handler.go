package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// DistributionHandler handles historical density playback requests
type DistributionHandler struct {
	service *service.DistributionService
	now     func() time.Time
}

// NewDistributionHandler creates a new distribution handler
func NewDistributionHandler(service *service.DistributionService) *DistributionHandler {
	return &DistributionHandler{service: service, now: time.Now}
}

// PastDistribution returns density frames for the last time_value time_units
// GET /api/v1/past-scrubber-distribution?time_value=3&time_unit=Day&user_current_time=2025-03-12T14:00:00Z
func (h *DistributionHandler) PastDistribution(c *gin.Context) {
	value, err := strconv.Atoi(c.Query("time_value"))
	if err != nil {
		response.BadRequest(c, "time_value must be a positive integer")
		return
	}

	now := h.now()
	if raw := c.Query("user_current_time"); raw != "" {
		if now, err = time.Parse(time.RFC3339, raw); err != nil {
			response.BadRequest(c, "user_current_time must be an RFC 3339 timestamp")
			return
		}
	}

	resp, err := h.service.PastDistribution(c.Request.Context(), value, c.Query("time_unit"), now)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, resp)
}
