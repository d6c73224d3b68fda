package models

import "time"

// Ship represents a vessel row from the ships table joined with its latest position
type Ship struct {
	IMONumber  string  `json:"imo_number" db:"imo_number"`
	MMSI       string  `json:"mmsi,omitempty" db:"mmsi"`
	Name       string  `json:"name" db:"name"`
	ShipType   *int    `json:"ship_type,omitempty" db:"ship_type"`
	Length     float64 `json:"length,omitempty" db:"length"`         // Meters, 0 when unknown
	Width      float64 `json:"width,omitempty" db:"width"`           // Meters, 0 when unknown
	MaxDraught float64 `json:"max_draught,omitempty" db:"max_draught"` // Meters, 0 when unknown
	TypeName   string  `json:"type_name,omitempty" db:"type_name"`   // Cargo, Tanker, ...
	TypeRemark string  `json:"type_remark,omitempty" db:"type_remark"`

	// Precomputed discharge rates per operating mode (kg/h), nil for non-scrubber vessels
	EmissionBerth    *float64 `json:"emission_berth" db:"emission_berth"`
	EmissionAnchor   *float64 `json:"emission_anchor" db:"emission_anchor"`
	EmissionManeuver *float64 `json:"emission_maneuver" db:"emission_maneuver"`
	EmissionCruise   *float64 `json:"emission_cruise" db:"emission_cruise"`

	LatestPosition *ShipPosition `json:"latest_position,omitempty"`
}

// Attributes returns the physical attributes used by the discharge estimator
func (s *Ship) Attributes() VesselAttributes {
	return VesselAttributes{
		LengthMeters:     s.Length,
		WidthMeters:      s.Width,
		MaxDraughtMeters: s.MaxDraught,
		TypeName:         s.TypeName,
		IMONumber:        s.IMONumber,
	}
}

// PrecomputedRate returns the stored discharge rate for the given mode, if any
func (s *Ship) PrecomputedRate(mode OperatingMode) *float64 {
	switch mode {
	case ModeBerth:
		return s.EmissionBerth
	case ModeAnchor:
		return s.EmissionAnchor
	case ModeManeuver:
		return s.EmissionManeuver
	case ModeCruise:
		return s.EmissionCruise
	}
	return nil
}

// VesselAttributes holds the vessel characteristics the discharge model needs.
// A zero dimension means the value is missing.
type VesselAttributes struct {
	LengthMeters     float64 `json:"length"`
	WidthMeters      float64 `json:"width"`
	MaxDraughtMeters float64 `json:"max_draught"`
	TypeName         string  `json:"type_name"`
	IMONumber        string  `json:"imo_number"`
}

// HasDimensions reports whether length, width and draught are all present
func (v VesselAttributes) HasDimensions() bool {
	return v.LengthMeters != 0 && v.WidthMeters != 0 && v.MaxDraughtMeters != 0
}

// ShipPosition represents an AIS position report from ship_data
type ShipPosition struct {
	ID                     int64     `json:"id,omitempty" db:"id"`
	IMONumber              string    `json:"imo_number" db:"imo_number"`
	TimestampAIS           time.Time `json:"timestamp_ais" db:"timestamp_ais"`
	Latitude               float64   `json:"latitude" db:"latitude"`
	Longitude              float64   `json:"longitude" db:"longitude"`
	Destination            string    `json:"destination,omitempty" db:"destination"`
	NavigationalStatusCode *int      `json:"navigational_status_code" db:"navigational_status_code"`
	NavigationalStatus     string    `json:"navigational_status,omitempty" db:"navigational_status"`
	TrueHeading            *float64  `json:"true_heading,omitempty" db:"true_heading"`
	RateOfTurn             *float64  `json:"rate_of_turn,omitempty" db:"rate_of_turn"`
	COG                    *float64  `json:"cog,omitempty" db:"cog"`
	SOG                    *float64  `json:"sog,omitempty" db:"sog"`
}

// Sample reduces a position report to the fields the trajectory code reads
func (p ShipPosition) Sample() PositionSample {
	return PositionSample{
		IMONumber:              p.IMONumber,
		Latitude:               p.Latitude,
		Longitude:              p.Longitude,
		TimestampAIS:           p.TimestampAIS,
		NavigationalStatusCode: p.NavigationalStatusCode,
	}
}

// PositionSample is one timestamped vessel position, ordered ascending per vessel
type PositionSample struct {
	IMONumber              string    `json:"imo_number"`
	Latitude               float64   `json:"latitude"`
	Longitude              float64   `json:"longitude"`
	TimestampAIS           time.Time `json:"timestamp_ais"`
	NavigationalStatusCode *int      `json:"navigational_status_code,omitempty"`
}

// ScrubberVessel represents a row of the scrubber vessel registry
type ScrubberVessel struct {
	IMONumber      string             `json:"imo_number" db:"imo_number"`
	Status         string             `json:"sox_scrubber_status" db:"sox_scrubber_status"`
	TechnologyType string             `json:"sox_scrubber_1_technology_type" db:"sox_scrubber_1_technology_type"`
	Technology     ScrubberTechnology `json:"technology"`
	Label          string             `json:"label"` // Display label, "scrubber" for TBC entries
}

// NavigationalStatus maps an AIS status code to its description
type NavigationalStatus struct {
	Code int    `json:"navigational_status_code" db:"navigational_status_code"`
	Text string `json:"navigational_status" db:"navigational_status"`
}

// ActiveShip is a ship enriched with the estimate for its current operating mode
type ActiveShip struct {
	Ship
	StatusText string             `json:"status_text"`
	Scrubber   *ScrubberVessel    `json:"scrubber,omitempty"`
	Estimate   *DischargeEstimate `json:"discharge_estimate,omitempty"`
}
