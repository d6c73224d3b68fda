package service

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/northseawatch/scrubber-backend-go/internal/density"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
	"github.com/northseawatch/scrubber-backend-go/internal/spatial"
)

// DistributionService serves historical scrubber vessel density playback
type DistributionService struct {
	positions *repository.PositionRepository
	scrubbers *repository.ScrubberRepository
	gridSize  float64
	metrics   Metrics
}

// NewDistributionService creates a new distribution service
func NewDistributionService(positions *repository.PositionRepository, scrubbers *repository.ScrubberRepository, m Metrics) *DistributionService {
	return &DistributionService{
		positions: positions,
		scrubbers: scrubbers,
		gridSize:  spatial.DefaultGridSize,
		metrics:   metricsOrNoop(m),
	}
}

// PastDistribution aggregates scrubber vessel positions over the last value units
// before now into one density frame per interval
func (s *DistributionService) PastDistribution(ctx context.Context, value int, unit string, now time.Time) (resp *models.DistributionResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "DistributionService.PastDistribution",
		attribute.Int("time_value", value), attribute.String("time_unit", unit))
	defer func() { observability.EndSpan(span, err) }()

	w, err := density.ResolveWindow(value, unit, now)
	if err != nil {
		return nil, err
	}
	earliest, err := s.positions.EarliestTimestamp(ctx)
	if err != nil {
		return nil, err
	}
	start, adjusted := w.ClampStart(earliest)

	resp = &models.DistributionResponse{
		Frames: []models.DensityFrame{},
		QueryParams: models.DistributionQuery{
			TimeValue:         w.TimeValue,
			TimeUnit:          w.TimeUnit,
			ActualUnit:        w.ActualUnit,
			TargetStartTime:   w.TargetStart,
			AdjustedStartTime: start,
			EndTime:           w.End,
			DataAvailability:  models.DataAvailability{EarliestRecord: earliest, StartAdjusted: adjusted},
		},
	}
	if !start.Before(w.End) {
		log.Printf("[Distribution] No complete %s after earliest record, returning empty result", w.ActualUnit)
		return resp, nil
	}

	imos, err := s.vesselsInWindow(ctx, start, w.End)
	if err != nil {
		return nil, err
	}
	rows, err := s.positions.DistributionRows(ctx, start, w.End, imos)
	if err != nil {
		return nil, err
	}

	for _, group := range density.GroupByInterval(rows, w.IntervalUnit) {
		resp.Frames = append(resp.Frames, density.Frame(group, s.gridSize, w.TimeUnit))
	}
	s.metrics.FramesAdd(len(resp.Frames))
	span.SetAttributes(attribute.Int("frames", len(resp.Frames)), attribute.Int("positions", len(rows)))
	return resp, nil
}

// vesselsInWindow prefers scrubber vessels reporting in the window, then every
// registered scrubber vessel. Without a registry every reporting vessel is used.
func (s *DistributionService) vesselsInWindow(ctx context.Context, start, end time.Time) ([]string, error) {
	registry, err := s.scrubbers.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	if len(registry) == 0 {
		log.Printf("[Distribution] Scrubber registry is empty, using all vessels")
		return s.positions.ActiveIMOs(ctx, start, end, nil)
	}

	all := make([]string, len(registry))
	for i, v := range registry {
		all[i] = v.IMONumber
	}
	active, err := s.positions.ActiveIMOs(ctx, start, end, all)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return all, nil
	}
	return active, nil
}
