package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/discharge"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// StatusNotInstalled marks registry rows without a fitted scrubber
const StatusNotInstalled = "Not installed"

// ScrubberRepository handles the scrubber vessel registry
type ScrubberRepository struct {
	db *database.DB
}

// NewScrubberRepository creates a new scrubber repository
func NewScrubberRepository(db *database.DB) *ScrubberRepository {
	return &ScrubberRepository{db: db}
}

// Upsert inserts or replaces a registry row
func (r *ScrubberRepository) Upsert(ctx context.Context, v *models.ScrubberVessel) error {
	query := r.db.Rebind(`
		INSERT INTO scrubber_vessels (imo_number, sox_scrubber_status, sox_scrubber_1_technology_type)
		VALUES (?, ?, ?)
		ON CONFLICT (imo_number) DO UPDATE SET
			sox_scrubber_status = excluded.sox_scrubber_status,
			sox_scrubber_1_technology_type = excluded.sox_scrubber_1_technology_type
	`)
	if _, err := r.db.ExecContext(ctx, query, v.IMONumber, v.Status, v.TechnologyType); err != nil {
		return fmt.Errorf("failed to upsert scrubber vessel %s: %w", v.IMONumber, err)
	}
	return nil
}

// ListInstalled returns registry entries with a fitted scrubber, technology parsed
func (r *ScrubberRepository) ListInstalled(ctx context.Context) ([]*models.ScrubberVessel, error) {
	query := r.db.Rebind(`
		SELECT imo_number, sox_scrubber_status, sox_scrubber_1_technology_type
		FROM scrubber_vessels
		WHERE sox_scrubber_status <> '' AND sox_scrubber_status <> ?
		ORDER BY imo_number
	`)

	rows, err := r.db.QueryContext(ctx, query, StatusNotInstalled)
	if err != nil {
		return nil, fmt.Errorf("failed to list scrubber vessels: %w", err)
	}
	defer rows.Close()

	vessels := []*models.ScrubberVessel{}
	for rows.Next() {
		var imo, status, tech string
		if err := rows.Scan(&imo, &status, &tech); err != nil {
			return nil, fmt.Errorf("failed to scan scrubber vessel: %w", err)
		}
		vessels = append(vessels, discharge.NewScrubberVessel(imo, status, tech))
	}
	return vessels, rows.Err()
}

// InstalledByIMO indexes ListInstalled by IMO number
func (r *ScrubberRepository) InstalledByIMO(ctx context.Context) (map[string]*models.ScrubberVessel, error) {
	vessels, err := r.ListInstalled(ctx)
	if err != nil {
		return nil, err
	}
	byIMO := make(map[string]*models.ScrubberVessel, len(vessels))
	for _, v := range vessels {
		byIMO[v.IMONumber] = v
	}
	return byIMO, nil
}

// GetInstalled returns the registry entry for a vessel with a fitted scrubber
func (r *ScrubberRepository) GetInstalled(ctx context.Context, imo string) (*models.ScrubberVessel, error) {
	query := r.db.Rebind(`
		SELECT sox_scrubber_status, sox_scrubber_1_technology_type
		FROM scrubber_vessels
		WHERE imo_number = ? AND sox_scrubber_status <> '' AND sox_scrubber_status <> ?
	`)

	var status, tech string
	err := r.db.QueryRowContext(ctx, query, imo, StatusNotInstalled).Scan(&status, &tech)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scrubber vessel %s: %w", imo, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scrubber vessel: %w", err)
	}
	return discharge.NewScrubberVessel(imo, status, tech), nil
}
