package models

import "time"

// Time units accepted by the historical distribution endpoint
const (
	TimeUnitHour  = "Hour"
	TimeUnitDay   = "Day"
	TimeUnitWeek  = "Week"
	TimeUnitMonth = "Month"
	TimeUnitYear  = "Year"
)

// GroupPosition is one position row inside a time group
type GroupPosition struct {
	IMONumber string    `json:"imo_number" db:"imo_number"`
	Latitude  float64   `json:"latitude" db:"latitude"`
	Longitude float64   `json:"longitude" db:"longitude"`
	Timestamp time.Time `json:"timestamp_ais" db:"timestamp_ais"`
}

// TimeGroup holds the positions observed during one playback interval
type TimeGroup struct {
	IntervalStart time.Time       `json:"interval_start"`
	IntervalEnd   time.Time       `json:"interval_end"`
	Positions     []GroupPosition `json:"positions"`
	VesselCount   int             `json:"vessel_count"` // 0 means not computed
}

// DensityPoint is one aggregated grid-cell representative
type DensityPoint struct {
	Longitude     float64 `json:"longitude"`
	Latitude      float64 `json:"latitude"`
	IMONumber     string  `json:"imo_number"`
	WeightedCount int     `json:"weighted_count"`
}

// DensityFrame is the aggregated form of a TimeGroup served to clients
type DensityFrame struct {
	IntervalStart time.Time      `json:"interval_start"`
	IntervalEnd   time.Time      `json:"interval_end"`
	VesselCount   int            `json:"vessel_count"`
	PositionCount int            `json:"position_count"`
	Points        []DensityPoint `json:"points"`
}

// DataAvailability reports whether the requested window was clamped
type DataAvailability struct {
	EarliestRecord *time.Time `json:"earliest_record"`
	StartAdjusted  bool       `json:"start_adjusted"`
}

// DistributionQuery echoes the resolved query window
type DistributionQuery struct {
	TimeValue         int              `json:"time_value"`
	TimeUnit          string           `json:"time_unit"`
	ActualUnit        string           `json:"actual_unit"`
	TargetStartTime   time.Time        `json:"target_start_time"`
	AdjustedStartTime time.Time        `json:"adjusted_start_time"`
	EndTime           time.Time        `json:"end_time"`
	DataAvailability  DataAvailability `json:"data_availability"`
}

// DistributionResponse is returned by the past scrubber distribution endpoint
type DistributionResponse struct {
	Frames      []DensityFrame    `json:"frames"`
	QueryParams DistributionQuery `json:"query_params"`
}
