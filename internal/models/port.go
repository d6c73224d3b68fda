package models

import "time"

// Port represents a row of the ports table
type Port struct {
	PortName       string  `json:"port_name" db:"port_name"`
	Country        string  `json:"country" db:"country"` // ISO 3166 alpha-3
	Latitude       float64 `json:"latitude" db:"latitude"`
	Longitude      float64 `json:"longitude" db:"longitude"`
	ScrubberStatus *int64  `json:"scrubber_status" db:"scrubber_status"` // washwater regulation status, nil when unknown
}

// PortContent holds the editorial text shown for a port. Fields are nil until written.
type PortContent struct {
	PortName               string     `json:"port_name" db:"port_name"`
	Country                string     `json:"country" db:"country"`
	Details                *string    `json:"details" db:"details"`
	PolicyStatus           *string    `json:"policy_status" db:"policy_status"`
	InfrastructureCapacity *string    `json:"infrastructure_capacity" db:"infrastructure_capacity"`
	OperationalStatistics  *string    `json:"operational_statistics" db:"operational_statistics"`
	AdditionalFeatures     *string    `json:"additional_features" db:"additional_features"`
	LastUpdated            *time.Time `json:"last_updated" db:"last_updated"`
}

// EngineRecord marks a vessel with engine data available
type EngineRecord struct {
	IMONumber string `json:"imo_number" db:"imo_number"`
}
