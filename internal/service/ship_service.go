package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/northseawatch/scrubber-backend-go/internal/discharge"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

// ErrInvalidHeatmapType is returned for an unknown heatmap metric
var ErrInvalidHeatmapType = errors.New("type must be size or scrubber")

// DefaultActiveWindow is how far back a position report keeps a vessel active
const DefaultActiveWindow = 3 * time.Hour

// ShipService serves the live fleet view
type ShipService struct {
	ships     *repository.ShipRepository
	scrubbers *repository.ScrubberRepository
	navStatus *repository.NavStatusRepository
	window    time.Duration
	metrics   Metrics
	now       func() time.Time
}

// NewShipService creates a new ship service
func NewShipService(ships *repository.ShipRepository, scrubbers *repository.ScrubberRepository,
	navStatus *repository.NavStatusRepository, window time.Duration, m Metrics) *ShipService {
	if window <= 0 {
		window = DefaultActiveWindow
	}
	return &ShipService{
		ships:     ships,
		scrubbers: scrubbers,
		navStatus: navStatus,
		window:    window,
		metrics:   metricsOrNoop(m),
		now:       time.Now,
	}
}

// ActiveShips returns vessels reporting within the active window. Scrubber vessels
// carry the discharge estimate for their current operating mode.
func (s *ShipService) ActiveShips(ctx context.Context) (out []models.ActiveShip, err error) {
	ctx, span := observability.StartSpan(ctx, "ShipService.ActiveShips")
	defer func() { observability.EndSpan(span, err) }()

	ships, err := s.ships.ListActive(ctx, s.now().Add(-s.window))
	if err != nil {
		return nil, err
	}
	registry, err := s.scrubbers.InstalledByIMO(ctx)
	if err != nil {
		return nil, err
	}
	texts, err := s.navStatus.TextMap(ctx)
	if err != nil {
		return nil, err
	}
	classifier := discharge.NewClassifier(nil, texts)

	out = make([]models.ActiveShip, 0, len(ships))
	for _, ship := range ships {
		var code *int
		if ship.LatestPosition != nil {
			code = ship.LatestPosition.NavigationalStatusCode
		}
		active := models.ActiveShip{Ship: *ship, StatusText: classifier.StatusText(code)}
		if v, ok := registry[ship.IMONumber]; ok {
			mode := classifier.Mode(code)
			est := discharge.Estimate(ship.Attributes(), mode, v.Technology, ship.PrecomputedRate(mode))
			s.metrics.EstimateInc(est.Source)
			active.Scrubber = v
			active.Estimate = &est
		}
		out = append(out, active)
	}

	s.metrics.SetActiveVessels(len(out))
	span.SetAttributes(attribute.Int("vessels", len(out)))
	return out, nil
}

// Heatmap returns the heatmap for the given metric
func (s *ShipService) Heatmap(ctx context.Context, metric string) (*models.HeatmapResponse, error) {
	switch metric {
	case models.HeatmapMetricScrubber:
		return s.ScrubberHeatmap(ctx)
	case models.HeatmapMetricSize, "":
		return s.SizeHeatmap(ctx)
	}
	return nil, fmt.Errorf("%w: got %q", ErrInvalidHeatmapType, metric)
}

// ScrubberHeatmap weights each active scrubber vessel by its current discharge rate
func (s *ShipService) ScrubberHeatmap(ctx context.Context) (*models.HeatmapResponse, error) {
	ships, err := s.ActiveShips(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]models.HeatmapPoint, 0, len(ships))
	for _, ship := range ships {
		if ship.Estimate == nil || ship.LatestPosition == nil {
			continue
		}
		points = append(points, heatmapPoint(&ship.Ship, ship.Estimate.DischargeRateKgPerHour))
	}
	return heatmapResponse(points, models.HeatmapMetricScrubber), nil
}

// SizeHeatmap weights each active vessel by twice its draught, 5 m when unknown
func (s *ShipService) SizeHeatmap(ctx context.Context) (*models.HeatmapResponse, error) {
	ships, err := s.ActiveShips(ctx)
	if err != nil {
		return nil, err
	}

	points := make([]models.HeatmapPoint, 0, len(ships))
	for _, ship := range ships {
		if ship.LatestPosition == nil {
			continue
		}
		draught := ship.MaxDraught
		if draught == 0 {
			draught = 5
		}
		points = append(points, heatmapPoint(&ship.Ship, draught*2))
	}
	return heatmapResponse(points, models.HeatmapMetricSize), nil
}

// ScrubberVessels lists registry entries with a fitted scrubber
func (s *ShipService) ScrubberVessels(ctx context.Context) ([]*models.ScrubberVessel, error) {
	return s.scrubbers.ListInstalled(ctx)
}

// NavStatuses lists the navigational status lookup table
func (s *ShipService) NavStatuses(ctx context.Context) ([]models.NavigationalStatus, error) {
	return s.navStatus.List(ctx)
}

func heatmapPoint(ship *models.Ship, intensity float64) models.HeatmapPoint {
	return models.HeatmapPoint{
		Lat:       ship.LatestPosition.Latitude,
		Lng:       ship.LatestPosition.Longitude,
		Intensity: intensity,
		IMONumber: ship.IMONumber,
	}
}

func heatmapResponse(points []models.HeatmapPoint, metric string) *models.HeatmapResponse {
	resp := &models.HeatmapResponse{Points: points, Count: len(points), Metric: metric}
	for i, p := range points {
		if i == 0 || p.Intensity > resp.MaxValue {
			resp.MaxValue = p.Intensity
		}
		if i == 0 || p.Intensity < resp.MinValue {
			resp.MinValue = p.Intensity
		}
	}
	return resp
}
