package service

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/observability"
	"github.com/northseawatch/scrubber-backend-go/internal/repository"
)

// PortService serves ports, their regulation content and the engine data list
type PortService struct {
	ports   *repository.PortRepository
	engines *repository.EngineRepository
}

// NewPortService creates a new port service
func NewPortService(ports *repository.PortRepository, engines *repository.EngineRepository) *PortService {
	return &PortService{ports: ports, engines: engines}
}

// Ports returns every port for the map layer
func (s *PortService) Ports(ctx context.Context) ([]models.Port, error) {
	return s.ports.List(ctx)
}

// Port returns the first port with the given name
func (s *PortService) Port(ctx context.Context, name string) (*models.Port, error) {
	ports, err := s.ports.ListByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("port %s: %w", name, repository.ErrNotFound)
	}
	return &ports[0], nil
}

// PortContent returns the content of a known port. A port without content yet
// gets an empty record rather than an error.
func (s *PortService) PortContent(ctx context.Context, name, country string) (_ *models.PortContent, err error) {
	ctx, span := observability.StartSpan(ctx, "PortService.PortContent",
		attribute.String("port.name", name), attribute.String("port.country", country))
	defer func() { observability.EndSpan(span, err) }()

	if _, err := s.ports.Get(ctx, name, country); err != nil {
		return nil, err
	}

	content, err := s.ports.GetContent(ctx, name, country)
	if errors.Is(err, repository.ErrNotFound) {
		return &models.PortContent{PortName: name, Country: country}, nil
	}
	return content, err
}

// PortContents returns every stored content record
func (s *PortService) PortContents(ctx context.Context) ([]*models.PortContent, error) {
	return s.ports.ListContents(ctx)
}

// EngineData returns the vessels with engine data available
func (s *PortService) EngineData(ctx context.Context) ([]models.EngineRecord, error) {
	return s.engines.List(ctx)
}
