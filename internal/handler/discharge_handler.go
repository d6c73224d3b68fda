package handler

import (
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/northseawatch/scrubber-backend-go/internal/density"
	"github.com/northseawatch/scrubber-backend-go/internal/discharge"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/service"
	"github.com/northseawatch/scrubber-backend-go/internal/trajectory"
	"github.com/northseawatch/scrubber-backend-go/pkg/response"
)

// DischargeHandler exposes the estimator, trail builder and density aggregator
// over posted data, without touching the database
type DischargeHandler struct {
	metrics service.Metrics
}

// NewDischargeHandler creates a new discharge handler; m may be nil
func NewDischargeHandler(m service.Metrics) *DischargeHandler {
	return &DischargeHandler{metrics: m}
}

// EstimateRequest represents the request body for a discharge estimate
type EstimateRequest struct {
	Vessel                 models.VesselAttributes `json:"vessel"`
	NavigationalStatusCode *int                    `json:"navigational_status_code"`
	OperatingMode          string                  `json:"operating_mode"` // overrides the status code
	Technology             string                  `json:"technology"`     // raw registry value
	ServerRate             *float64                `json:"server_rate"`
}

// Estimate computes the discharge rate of a posted vessel
// POST /api/v1/discharge/estimate
func (h *DischargeHandler) Estimate(c *gin.Context) {
	var req EstimateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	mode := discharge.ClassifyMode(req.NavigationalStatusCode)
	if req.OperatingMode != "" {
		var ok bool
		if mode, ok = parseMode(req.OperatingMode); !ok {
			response.BadRequest(c, "operating_mode must be one of Berth, Anchor, Maneuver, Cruise")
			return
		}
	}

	est := discharge.Estimate(req.Vessel, mode, discharge.ParseScrubberTechnology(req.Technology), req.ServerRate)
	if h.metrics != nil {
		h.metrics.EstimateInc(est.Source)
	}
	response.Success(c, est)
}

// TrailRequest represents the request body for a discharge trail
type TrailRequest struct {
	Samples       []models.PositionSample `json:"samples"`
	DischargeRate float64                 `json:"discharge_rate"`
	Technology    string                  `json:"technology"`
}

// Trail builds a discharge trail over posted samples
// POST /api/v1/discharge/trail
func (h *DischargeHandler) Trail(c *gin.Context) {
	var req TrailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.DischargeRate < 0 {
		response.BadRequest(c, "discharge_rate must not be negative")
		return
	}

	sort.SliceStable(req.Samples, func(i, j int) bool {
		return req.Samples[i].TimestampAIS.Before(req.Samples[j].TimestampAIS)
	})
	trail := trajectory.BuildTrail(req.Samples, req.DischargeRate, discharge.ParseScrubberTechnology(req.Technology))
	if h.metrics != nil {
		h.metrics.TrailInc()
	}
	response.Success(c, trail)
}

// AggregateRequest represents the request body for density aggregation
type AggregateRequest struct {
	IntervalStart time.Time              `json:"interval_start"`
	IntervalEnd   time.Time              `json:"interval_end"`
	Positions     []models.GroupPosition `json:"positions"`
	GridSize      float64                `json:"grid_size"` // degrees, default 0.05
	TimeUnit      string                 `json:"time_unit"`
	VesselCount   int                    `json:"vessel_count"` // 0 counts distinct IMO numbers
}

// Aggregate reduces posted positions to one density frame
// POST /api/v1/density/aggregate
func (h *DischargeHandler) Aggregate(c *gin.Context) {
	var req AggregateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}
	if req.GridSize < 0 {
		response.BadRequest(c, "grid_size must not be negative")
		return
	}
	if req.VesselCount < 0 {
		response.BadRequest(c, "vessel_count must not be negative")
		return
	}

	group := models.TimeGroup{
		IntervalStart: req.IntervalStart,
		IntervalEnd:   req.IntervalEnd,
		Positions:     req.Positions,
		VesselCount:   req.VesselCount,
	}
	frame := density.Frame(group, req.GridSize, req.TimeUnit)
	if h.metrics != nil {
		h.metrics.FramesAdd(1)
	}
	response.Success(c, frame)
}

func parseMode(s string) (models.OperatingMode, bool) {
	for _, m := range models.OperatingModes {
		if string(m) == s {
			return m, true
		}
	}
	return "", false
}
