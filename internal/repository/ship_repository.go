package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/database"
	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

const shipColumns = `s.imo_number, s.mmsi, s.name, s.ship_type, s.length, s.width, s.max_draught,
	s.type_name, s.type_remark, s.emission_berth, s.emission_anchor, s.emission_maneuver, s.emission_cruise`

// ShipRepository handles database operations for vessels
type ShipRepository struct {
	db *database.DB
}

// NewShipRepository creates a new ship repository
func NewShipRepository(db *database.DB) *ShipRepository {
	return &ShipRepository{db: db}
}

// Upsert inserts or replaces a vessel's static attributes and stored rates
func (r *ShipRepository) Upsert(ctx context.Context, ship *models.Ship) error {
	query := r.db.Rebind(`
		INSERT INTO ships (
			imo_number, mmsi, name, ship_type, length, width, max_draught, type_name, type_remark,
			emission_berth, emission_anchor, emission_maneuver, emission_cruise, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (imo_number) DO UPDATE SET
			mmsi = excluded.mmsi,
			name = excluded.name,
			ship_type = excluded.ship_type,
			length = excluded.length,
			width = excluded.width,
			max_draught = excluded.max_draught,
			type_name = excluded.type_name,
			type_remark = excluded.type_remark,
			emission_berth = excluded.emission_berth,
			emission_anchor = excluded.emission_anchor,
			emission_maneuver = excluded.emission_maneuver,
			emission_cruise = excluded.emission_cruise,
			updated_at = excluded.updated_at
	`)

	_, err := r.db.ExecContext(ctx, query,
		ship.IMONumber, ship.MMSI, ship.Name, ship.ShipType,
		ship.Length, ship.Width, ship.MaxDraught, ship.TypeName, ship.TypeRemark,
		ship.EmissionBerth, ship.EmissionAnchor, ship.EmissionManeuver, ship.EmissionCruise,
		time.Now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert ship %s: %w", ship.IMONumber, err)
	}
	return nil
}

// GetByIMO retrieves a vessel by IMO number
func (r *ShipRepository) GetByIMO(ctx context.Context, imo string) (*models.Ship, error) {
	query := r.db.Rebind(`SELECT ` + shipColumns + ` FROM ships s WHERE s.imo_number = ?`)

	ship, err := scanShip(r.db.QueryRowContext(ctx, query, imo))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ship %s: %w", imo, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ship: %w", err)
	}
	return ship, nil
}

// ListActive returns vessels with a position report since the given time, each
// carrying its latest position
func (r *ShipRepository) ListActive(ctx context.Context, since time.Time) ([]*models.Ship, error) {
	query := r.db.Rebind(`
		SELECT ` + shipColumns + `,
			p.id, p.timestamp_ais, p.latitude, p.longitude, p.destination,
			p.navigational_status_code, p.true_heading, p.rate_of_turn, p.cog, p.sog,
			COALESCE(n.navigational_status, '')
		FROM ships s
		JOIN (
			SELECT imo_number, MAX(timestamp_ais) AS latest
			FROM ship_data
			WHERE timestamp_ais >= ?
			GROUP BY imo_number
		) l ON l.imo_number = s.imo_number
		JOIN ship_data p ON p.imo_number = l.imo_number AND p.timestamp_ais = l.latest
		LEFT JOIN navigational_status n ON n.navigational_status_code = p.navigational_status_code
		ORDER BY s.imo_number, p.id DESC
	`)

	rows, err := r.db.QueryContext(ctx, query, since.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to list active ships: %w", err)
	}
	defer rows.Close()

	var ships []*models.Ship
	for rows.Next() {
		var (
			s                         models.Ship
			p                         models.ShipPosition
			shipType, navCode         sql.NullInt64
			berth, anchor, man, cruis sql.NullFloat64
			heading, rot, cog, sog    sql.NullFloat64
			ts                        int64
		)
		err := rows.Scan(
			&s.IMONumber, &s.MMSI, &s.Name, &shipType, &s.Length, &s.Width, &s.MaxDraught,
			&s.TypeName, &s.TypeRemark, &berth, &anchor, &man, &cruis,
			&p.ID, &ts, &p.Latitude, &p.Longitude, &p.Destination,
			&navCode, &heading, &rot, &cog, &sog, &p.NavigationalStatus,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan active ship: %w", err)
		}
		// Duplicate reports at the same timestamp: keep the newest row
		if n := len(ships); n > 0 && ships[n-1].IMONumber == s.IMONumber {
			continue
		}

		s.ShipType = nullInt(shipType)
		s.EmissionBerth, s.EmissionAnchor = nullFloat(berth), nullFloat(anchor)
		s.EmissionManeuver, s.EmissionCruise = nullFloat(man), nullFloat(cruis)
		p.IMONumber = s.IMONumber
		p.TimestampAIS = unixTime(ts)
		p.NavigationalStatusCode = nullInt(navCode)
		p.TrueHeading, p.RateOfTurn = nullFloat(heading), nullFloat(rot)
		p.COG, p.SOG = nullFloat(cog), nullFloat(sog)
		s.LatestPosition = &p

		ships = append(ships, &s)
	}

	return ships, rows.Err()
}

// RecomputeFilter selects vessels for discharge rate recomputation
type RecomputeFilter struct {
	IMONumbers   []string // empty means all
	OnlyMissing  bool     // only vessels with at least one NULL rate
	ScrubberOnly bool     // only vessels in the scrubber registry
}

func (f RecomputeFilter) where() (string, []interface{}) {
	conditions := []string{
		"s.type_name IN ('Cargo', 'Tanker')",
		"s.length > 0", "s.width > 0", "s.max_draught > 0",
	}
	var args []interface{}
	if f.ScrubberOnly {
		conditions = append(conditions, "sv.imo_number IS NOT NULL", "sv.sox_scrubber_status <> 'Not installed'")
	}
	if f.OnlyMissing {
		conditions = append(conditions, `(s.emission_berth IS NULL OR s.emission_anchor IS NULL
			OR s.emission_maneuver IS NULL OR s.emission_cruise IS NULL)`)
	}
	if len(f.IMONumbers) > 0 {
		conditions = append(conditions, "s.imo_number IN ("+database.Placeholders(len(f.IMONumbers))+")")
		args = append(args, stringArgs(f.IMONumbers)...)
	}
	return strings.Join(conditions, " AND "), args
}

// RecomputeCandidate is a vessel joined with its registry technology
type RecomputeCandidate struct {
	Ship           *models.Ship
	TechnologyType string // raw registry value, empty when not registered
}

// CountRecomputeCandidates counts vessels matching the filter
func (r *ShipRepository) CountRecomputeCandidates(ctx context.Context, f RecomputeFilter) (int, error) {
	where, args := f.where()
	query := r.db.Rebind(`
		SELECT COUNT(*)
		FROM ships s
		LEFT JOIN scrubber_vessels sv ON sv.imo_number = s.imo_number
		WHERE ` + where)

	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count recompute candidates: %w", err)
	}
	return n, nil
}

// ListRecomputeCandidates returns the next batch of vessels after the given IMO number
func (r *ShipRepository) ListRecomputeCandidates(ctx context.Context, f RecomputeFilter, afterIMO string, limit int) ([]RecomputeCandidate, error) {
	where, args := f.where()
	query := r.db.Rebind(`
		SELECT ` + shipColumns + `, COALESCE(sv.sox_scrubber_1_technology_type, '')
		FROM ships s
		LEFT JOIN scrubber_vessels sv ON sv.imo_number = s.imo_number
		WHERE ` + where + ` AND s.imo_number > ?
		ORDER BY s.imo_number
		LIMIT ?`)
	args = append(args, afterIMO, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list recompute candidates: %w", err)
	}
	defer rows.Close()

	var out []RecomputeCandidate
	for rows.Next() {
		var tech string
		ship, err := scanShip(rows, &tech)
		if err != nil {
			return nil, fmt.Errorf("failed to scan recompute candidate: %w", err)
		}
		out = append(out, RecomputeCandidate{Ship: ship, TechnologyType: tech})
	}
	return out, rows.Err()
}

// UpdateRates stores per-mode discharge rates for a vessel
func (r *ShipRepository) UpdateRates(ctx context.Context, imo string, rates map[models.OperatingMode]float64) error {
	query := r.db.Rebind(`
		UPDATE ships
		SET emission_berth = ?, emission_anchor = ?, emission_maneuver = ?, emission_cruise = ?, updated_at = ?
		WHERE imo_number = ?
	`)

	res, err := r.db.ExecContext(ctx, query,
		rates[models.ModeBerth], rates[models.ModeAnchor], rates[models.ModeManeuver], rates[models.ModeCruise],
		time.Now().Unix(), imo,
	)
	if err != nil {
		return fmt.Errorf("failed to update rates for %s: %w", imo, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("ship %s: %w", imo, ErrNotFound)
	}
	return nil
}

// UpdateRatesBatch stores rates for several vessels in one transaction
func (r *ShipRepository) UpdateRatesBatch(ctx context.Context, updates map[string]map[models.OperatingMode]float64) error {
	if len(updates) == 0 {
		return nil
	}
	query := r.db.Rebind(`
		UPDATE ships
		SET emission_berth = ?, emission_anchor = ?, emission_maneuver = ?, emission_cruise = ?, updated_at = ?
		WHERE imo_number = ?
	`)
	now := time.Now().Unix()

	return r.db.Transaction(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare rate update: %w", err)
		}
		defer stmt.Close()

		for imo, rates := range updates {
			_, err := stmt.ExecContext(ctx,
				rates[models.ModeBerth], rates[models.ModeAnchor], rates[models.ModeManeuver], rates[models.ModeCruise],
				now, imo,
			)
			if err != nil {
				return fmt.Errorf("failed to update rates for %s: %w", imo, err)
			}
		}
		return nil
	})
}

// ClearRates resets stored rates, for the listed vessels or all when imos is empty
func (r *ShipRepository) ClearRates(ctx context.Context, imos []string) (int64, error) {
	query := `UPDATE ships SET emission_berth = NULL, emission_anchor = NULL,
		emission_maneuver = NULL, emission_cruise = NULL`
	var args []interface{}
	if len(imos) > 0 {
		query += " WHERE imo_number IN (" + database.Placeholders(len(imos)) + ")"
		args = stringArgs(imos)
	}

	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("failed to clear rates: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShip(row rowScanner, extra ...interface{}) (*models.Ship, error) {
	var (
		s                         models.Ship
		shipType                  sql.NullInt64
		berth, anchor, man, cruis sql.NullFloat64
	)
	dest := []interface{}{
		&s.IMONumber, &s.MMSI, &s.Name, &shipType, &s.Length, &s.Width, &s.MaxDraught,
		&s.TypeName, &s.TypeRemark, &berth, &anchor, &man, &cruis,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}
	s.ShipType = nullInt(shipType)
	s.EmissionBerth, s.EmissionAnchor = nullFloat(berth), nullFloat(anchor)
	s.EmissionManeuver, s.EmissionCruise = nullFloat(man), nullFloat(cruis)
	return &s, nil
}
