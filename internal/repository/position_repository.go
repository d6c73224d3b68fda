package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// PositionRepository handles database operations for AIS position reports
type PositionRepository struct {
	db *database.DB
}

// NewPositionRepository creates a new position repository
func NewPositionRepository(db *database.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Insert stores a position report and sets its ID
func (r *PositionRepository) Insert(ctx context.Context, p *models.ShipPosition) error {
	query := r.db.Rebind(`
		INSERT INTO ship_data (
			imo_number, timestamp_ais, latitude, longitude, destination,
			navigational_status_code, true_heading, rate_of_turn, cog, sog
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowContext(ctx, query,
		p.IMONumber, p.TimestampAIS.Unix(), p.Latitude, p.Longitude, p.Destination,
		p.NavigationalStatusCode, p.TrueHeading, p.RateOfTurn, p.COG, p.SOG,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to insert position for %s: %w", p.IMONumber, err)
	}
	return nil
}

// Path returns a vessel's reports since the given time in ascending timestamp order
func (r *PositionRepository) Path(ctx context.Context, imo string, since time.Time) ([]models.ShipPosition, error) {
	query := r.db.Rebind(`
		SELECT p.id, p.timestamp_ais, p.latitude, p.longitude, p.destination,
			p.navigational_status_code, p.true_heading, p.rate_of_turn, p.cog, p.sog,
			COALESCE(n.navigational_status, '')
		FROM ship_data p
		LEFT JOIN navigational_status n ON n.navigational_status_code = p.navigational_status_code
		WHERE p.imo_number = ? AND p.timestamp_ais >= ?
		ORDER BY p.timestamp_ais, p.id
	`)

	rows, err := r.db.QueryContext(ctx, query, imo, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query path: %w", err)
	}
	defer rows.Close()

	path := []models.ShipPosition{}
	for rows.Next() {
		var (
			p                      models.ShipPosition
			ts                     int64
			navCode                sql.NullInt64
			heading, rot, cog, sog sql.NullFloat64
		)
		err := rows.Scan(&p.ID, &ts, &p.Latitude, &p.Longitude, &p.Destination,
			&navCode, &heading, &rot, &cog, &sog, &p.NavigationalStatus)
		if err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		p.IMONumber = imo
		p.TimestampAIS = unixTime(ts)
		p.NavigationalStatusCode = nullInt(navCode)
		p.TrueHeading, p.RateOfTurn = nullFloat(heading), nullFloat(rot)
		p.COG, p.SOG = nullFloat(cog), nullFloat(sog)
		path = append(path, p)
	}

	return path, rows.Err()
}

// EarliestTimestamp returns the oldest report time, or nil for an empty table
func (r *PositionRepository) EarliestTimestamp(ctx context.Context) (*time.Time, error) {
	var ts sql.NullInt64
	if err := r.db.QueryRowContext(ctx, "SELECT MIN(timestamp_ais) FROM ship_data").Scan(&ts); err != nil {
		return nil, fmt.Errorf("failed to query earliest record: %w", err)
	}
	if !ts.Valid {
		return nil, nil
	}
	t := unixTime(ts.Int64)
	return &t, nil
}

// ActiveIMOs returns distinct vessels reporting in [start, end), restricted to imos when given
func (r *PositionRepository) ActiveIMOs(ctx context.Context, start, end time.Time, imos []string) ([]string, error) {
	query := `SELECT DISTINCT imo_number FROM ship_data WHERE timestamp_ais >= ? AND timestamp_ais < ?`
	args := []interface{}{start.Unix(), end.Unix()}
	if len(imos) > 0 {
		query += " AND imo_number IN (" + database.Placeholders(len(imos)) + ")"
		args = append(args, stringArgs(imos)...)
	}
	query += " ORDER BY imo_number"

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active vessels: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var imo string
		if err := rows.Scan(&imo); err != nil {
			return nil, fmt.Errorf("failed to scan imo: %w", err)
		}
		out = append(out, imo)
	}
	return out, rows.Err()
}

// DistributionRows returns the reports of the given vessels in [start, end)
func (r *PositionRepository) DistributionRows(ctx context.Context, start, end time.Time, imos []string) ([]models.GroupPosition, error) {
	out := []models.GroupPosition{}
	if len(imos) == 0 {
		return out, nil
	}

	query := r.db.Rebind(`
		SELECT imo_number, latitude, longitude, timestamp_ais
		FROM ship_data
		WHERE timestamp_ais >= ? AND timestamp_ais < ?
		AND imo_number IN (` + database.Placeholders(len(imos)) + `)
		ORDER BY timestamp_ais, imo_number
	`)
	args := append([]interface{}{start.Unix(), end.Unix()}, stringArgs(imos)...)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query distribution rows: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			p  models.GroupPosition
			ts int64
		)
		if err := rows.Scan(&p.IMONumber, &p.Latitude, &p.Longitude, &ts); err != nil {
			return nil, fmt.Errorf("failed to scan distribution row: %w", err)
		}
		p.Timestamp = unixTime(ts)
		out = append(out, p)
	}
	return out, rows.Err()
}
