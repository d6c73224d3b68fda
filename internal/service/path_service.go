package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/northseawatch/scrubber-backend-go/internal/discharge"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
	"github.com/northseawatch/scrubber-backend-go/internal/trajectory"
)

// DefaultPathWindow is the look-back of the ship path endpoints
const DefaultPathWindow = 24 * time.Hour

// PathService builds segmented paths and discharge trails for single vessels
type PathService struct {
	ships     *repository.ShipRepository
	positions *repository.PositionRepository
	scrubbers *repository.ScrubberRepository
	window    time.Duration
	metrics   Metrics
	now       func() time.Time
}

// NewPathService creates a new path service
func NewPathService(ships *repository.ShipRepository, positions *repository.PositionRepository,
	scrubbers *repository.ScrubberRepository, window time.Duration, m Metrics) *PathService {
	if window <= 0 {
		window = DefaultPathWindow
	}
	return &PathService{
		ships:     ships,
		positions: positions,
		scrubbers: scrubbers,
		window:    window,
		metrics:   metricsOrNoop(m),
		now:       time.Now,
	}
}

// ShipPath returns the vessel's recent track split into reliable and unreliable segments
func (s *PathService) ShipPath(ctx context.Context, imo string) (resp *models.ShipPathResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "PathService.ShipPath", attribute.String("imo", imo))
	defer func() { observability.EndSpan(span, err) }()

	samples, err := s.samples(ctx, imo)
	if err != nil {
		return nil, err
	}
	return pathResponse(imo, samples), nil
}

// ShipTrail returns the discharge trail of a scrubber vessel. Vessels without a
// fitted scrubber get their plain path instead.
func (s *PathService) ShipTrail(ctx context.Context, imo string) (resp *models.ShipTrailResponse, err error) {
	ctx, span := observability.StartSpan(ctx, "PathService.ShipTrail", attribute.String("imo", imo))
	defer func() { observability.EndSpan(span, err) }()

	ship, err := s.ships.GetByIMO(ctx, imo)
	if err != nil {
		return nil, err
	}
	samples, err := s.samples(ctx, imo)
	if err != nil {
		return nil, err
	}

	resp = &models.ShipTrailResponse{IMONumber: imo, PointCount: len(samples)}

	scrubber, err := s.scrubbers.GetInstalled(ctx, imo)
	if errors.Is(err, repository.ErrNotFound) {
		resp.Path = pathResponse(imo, samples)
		return resp, nil
	}
	if err != nil {
		return nil, err
	}

	// The current mode follows the latest report
	var code *int
	if n := len(samples); n > 0 {
		code = samples[n-1].NavigationalStatusCode
	}
	mode := discharge.ClassifyMode(code)
	est := discharge.Estimate(ship.Attributes(), mode, scrubber.Technology, ship.PrecomputedRate(mode))
	trail := trajectory.BuildTrail(samples, est.DischargeRateKgPerHour, scrubber.Technology)

	s.metrics.EstimateInc(est.Source)
	s.metrics.TrailInc()

	resp.Scrubber = true
	resp.Estimate = &est
	resp.Trail = &trail
	span.SetAttributes(attribute.String("technology", string(scrubber.Technology)))
	return resp, nil
}

func (s *PathService) samples(ctx context.Context, imo string) ([]models.PositionSample, error) {
	positions, err := s.positions.Path(ctx, imo, s.now().Add(-s.window))
	if err != nil {
		return nil, err
	}
	samples := make([]models.PositionSample, len(positions))
	for i, p := range positions {
		samples[i] = p.Sample()
	}
	return samples, nil
}

func pathResponse(imo string, samples []models.PositionSample) *models.ShipPathResponse {
	reliable, unreliable := trajectory.Segment(samples)
	return &models.ShipPathResponse{
		IMONumber:  imo,
		PointCount: len(samples),
		Reliable:   reliable,
		Unreliable: unreliable,
	}
}
