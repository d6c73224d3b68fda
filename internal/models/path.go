package models

import "time"

// Coordinate is a (longitude, latitude) pair
type Coordinate [2]float64

// PathSegment is a contiguous run of positions sharing one reliability class
type PathSegment struct {
	Coordinates []Coordinate `json:"coordinates"`
	Reliable    bool         `json:"reliable"`
}

// DischargeTrailSegment is a path segment annotated with discharge figures
type DischargeTrailSegment struct {
	PathSegment
	DischargeRateKgPerHour float64 `json:"discharge_rate"`
	SegmentDischargeKg     float64 `json:"segment_discharge"`
	Intensity              float64 `json:"intensity"` // 0~1
	HoursSpan              float64 `json:"time_hours"`
}

// DischargePoint marks a position with significant discharge
type DischargePoint struct {
	Longitude              float64   `json:"longitude"`
	Latitude               float64   `json:"latitude"`
	DischargeRateKgPerHour float64   `json:"discharge_rate"`
	Intensity              float64   `json:"intensity"` // 0~1
	Timestamp              time.Time `json:"timestamp"`
}

// TrailStyle is the visual classification of a discharge trail
type TrailStyle struct {
	Class               string  `json:"class"` // closed, hybrid, open
	Color               string  `json:"color"`
	Opacity             float64 `json:"opacity"`
	Width               float64 `json:"width"`
	NormalizedIntensity float64 `json:"normalized_intensity"`
}

// DischargeTrail is the renderable description of a scrubber vessel's trail
type DischargeTrail struct {
	Reliable        []DischargeTrailSegment `json:"reliable_segments"`
	Unreliable      []DischargeTrailSegment `json:"unreliable_segments"`
	DischargePoints []DischargePoint        `json:"discharge_points"`
	Style           TrailStyle              `json:"style"`
}

// ShipPathResponse is returned by the ship path endpoint
type ShipPathResponse struct {
	IMONumber  string        `json:"imo_number"`
	PointCount int           `json:"point_count"`
	Reliable   []PathSegment `json:"reliable_segments"`
	Unreliable []PathSegment `json:"unreliable_segments"`
}

// ShipTrailResponse is returned by the ship trail endpoint
type ShipTrailResponse struct {
	IMONumber  string             `json:"imo_number"`
	PointCount int                `json:"point_count"`
	Scrubber   bool               `json:"scrubber"`
	Estimate   *DischargeEstimate `json:"discharge_estimate,omitempty"`
	Trail      *DischargeTrail    `json:"trail,omitempty"`
	Path       *ShipPathResponse  `json:"path,omitempty"`
}
