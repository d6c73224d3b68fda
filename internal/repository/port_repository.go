package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

const portContentColumns = `port_name, country, details, policy_status, infrastructure_capacity,
	operational_statistics, additional_features, last_updated`

// PortRepository handles ports and their editorial content
type PortRepository struct {
	db *database.DB
}

// NewPortRepository creates a new port repository
func NewPortRepository(db *database.DB) *PortRepository {
	return &PortRepository{db: db}
}

// Upsert inserts or replaces a port
func (r *PortRepository) Upsert(ctx context.Context, p *models.Port) error {
	query := r.db.Rebind(`
		INSERT INTO ports (port_name, country, latitude, longitude, scrubber_status)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (port_name, country) DO UPDATE SET
			latitude = excluded.latitude,
			longitude = excluded.longitude,
			scrubber_status = excluded.scrubber_status
	`)
	if _, err := r.db.ExecContext(ctx, query, p.PortName, p.Country, p.Latitude, p.Longitude, p.ScrubberStatus); err != nil {
		return fmt.Errorf("failed to upsert port %s (%s): %w", p.PortName, p.Country, err)
	}
	return nil
}

// List returns all ports ordered by country and name
func (r *PortRepository) List(ctx context.Context) ([]models.Port, error) {
	return r.queryPorts(ctx, `
		SELECT port_name, country, latitude, longitude, scrubber_status
		FROM ports
		ORDER BY country, port_name
	`)
}

// ListByName returns the ports with the given name, one per country
func (r *PortRepository) ListByName(ctx context.Context, name string) ([]models.Port, error) {
	return r.queryPorts(ctx, r.db.Rebind(`
		SELECT port_name, country, latitude, longitude, scrubber_status
		FROM ports
		WHERE port_name = ?
		ORDER BY country
	`), name)
}

// Get returns one port by name and country
func (r *PortRepository) Get(ctx context.Context, name, country string) (*models.Port, error) {
	ports, err := r.queryPorts(ctx, r.db.Rebind(`
		SELECT port_name, country, latitude, longitude, scrubber_status
		FROM ports
		WHERE port_name = ? AND country = ?
	`), name, country)
	if err != nil {
		return nil, err
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("port %s (%s): %w", name, country, ErrNotFound)
	}
	return &ports[0], nil
}

func (r *PortRepository) queryPorts(ctx context.Context, query string, args ...interface{}) ([]models.Port, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ports: %w", err)
	}
	defer rows.Close()

	ports := []models.Port{}
	for rows.Next() {
		var p models.Port
		var status sql.NullInt64
		if err := rows.Scan(&p.PortName, &p.Country, &p.Latitude, &p.Longitude, &status); err != nil {
			return nil, fmt.Errorf("failed to scan port: %w", err)
		}
		if status.Valid {
			v := status.Int64
			p.ScrubberStatus = &v
		}
		ports = append(ports, p)
	}
	return ports, rows.Err()
}

// UpsertContent writes the editorial content of a port and stamps last_updated
func (r *PortRepository) UpsertContent(ctx context.Context, c *models.PortContent) error {
	now := time.Now().UTC().Truncate(time.Second)
	query := r.db.Rebind(`
		INSERT INTO port_content (` + portContentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (port_name, country) DO UPDATE SET
			details = excluded.details,
			policy_status = excluded.policy_status,
			infrastructure_capacity = excluded.infrastructure_capacity,
			operational_statistics = excluded.operational_statistics,
			additional_features = excluded.additional_features,
			last_updated = excluded.last_updated
	`)
	_, err := r.db.ExecContext(ctx, query, c.PortName, c.Country, c.Details, c.PolicyStatus,
		c.InfrastructureCapacity, c.OperationalStatistics, c.AdditionalFeatures, now.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert port content %s (%s): %w", c.PortName, c.Country, err)
	}
	c.LastUpdated = &now
	return nil
}

// GetContent returns the content of one port
func (r *PortRepository) GetContent(ctx context.Context, name, country string) (*models.PortContent, error) {
	query := r.db.Rebind(`SELECT ` + portContentColumns + ` FROM port_content WHERE port_name = ? AND country = ?`)

	c, err := scanPortContent(r.db.QueryRowContext(ctx, query, name, country))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("port content %s (%s): %w", name, country, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get port content: %w", err)
	}
	return c, nil
}

// ListContents returns all port content rows
func (r *PortRepository) ListContents(ctx context.Context) ([]*models.PortContent, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+portContentColumns+` FROM port_content ORDER BY country, port_name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list port contents: %w", err)
	}
	defer rows.Close()

	contents := []*models.PortContent{}
	for rows.Next() {
		c, err := scanPortContent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan port content: %w", err)
		}
		contents = append(contents, c)
	}
	return contents, rows.Err()
}

func scanPortContent(row rowScanner) (*models.PortContent, error) {
	c := &models.PortContent{}
	var details, policy, capacity, stats, features sql.NullString
	var updated int64
	if err := row.Scan(&c.PortName, &c.Country, &details, &policy, &capacity, &stats, &features, &updated); err != nil {
		return nil, err
	}
	c.Details = nullString(details)
	c.PolicyStatus = nullString(policy)
	c.InfrastructureCapacity = nullString(capacity)
	c.OperationalStatistics = nullString(stats)
	c.AdditionalFeatures = nullString(features)
	if updated > 0 {
		t := unixTime(updated)
		c.LastUpdated = &t
	}
	return c, nil
}

// EngineRepository reads the list of vessels with engine data
type EngineRepository struct {
	db *database.DB
}

// NewEngineRepository creates a new engine data repository
func NewEngineRepository(db *database.DB) *EngineRepository {
	return &EngineRepository{db: db}
}

// Add records engine data availability for the given vessels
func (r *EngineRepository) Add(ctx context.Context, imos ...string) error {
	query := r.db.Rebind(`INSERT INTO icct_wfr_combined (imo_number) VALUES (?) ON CONFLICT (imo_number) DO NOTHING`)
	for _, imo := range imos {
		if _, err := r.db.ExecContext(ctx, query, imo); err != nil {
			return fmt.Errorf("failed to add engine record %s: %w", imo, err)
		}
	}
	return nil
}

// List returns every vessel with engine data
func (r *EngineRepository) List(ctx context.Context) ([]models.EngineRecord, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT imo_number FROM icct_wfr_combined ORDER BY imo_number`)
	if err != nil {
		return nil, fmt.Errorf("failed to list engine data: %w", err)
	}
	defer rows.Close()

	records := []models.EngineRecord{}
	for rows.Next() {
		var rec models.EngineRecord
		if err := rows.Scan(&rec.IMONumber); err != nil {
			return nil, fmt.Errorf("failed to scan engine record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
