package models

// OperatingMode is the coarse engine operating mode used by the discharge model
type OperatingMode string

// OperatingMode constants
const (
	ModeBerth    OperatingMode = "Berth"
	ModeAnchor   OperatingMode = "Anchor"
	ModeManeuver OperatingMode = "Maneuver"
	ModeCruise   OperatingMode = "Cruise"
)

// OperatingModes lists all modes in table column order
var OperatingModes = []OperatingMode{ModeBerth, ModeAnchor, ModeManeuver, ModeCruise}

// ScrubberTechnology is the closed set of scrubber technology variants
type ScrubberTechnology string

// ScrubberTechnology constants
const (
	ScrubberOpen    ScrubberTechnology = "open"
	ScrubberClosed  ScrubberTechnology = "closed"
	ScrubberHybrid  ScrubberTechnology = "hybrid"
	ScrubberUnknown ScrubberTechnology = "unknown"
)

// Estimate sources
const (
	EstimateSourceServer     = "server"
	EstimateSourceCalculated = "calculated"
	EstimateSourceDefault    = "default"
)

// PowerSpec holds auxiliary engine and boiler power for one table cell (kW)
type PowerSpec struct {
	AEPowerKW float64 `json:"ae_power_kw"`
	BOPowerKW float64 `json:"bo_power_kw"`
}

// DischargeEstimate is the result of the discharge-rate model for one vessel and mode
type DischargeEstimate struct {
	DischargeRateKgPerHour float64            `json:"discharge_rate_kg_per_hour"`
	OperatingMode          OperatingMode      `json:"operating_mode"`
	Technology             ScrubberTechnology `json:"technology"`
	Source                 string             `json:"source"` // server, calculated, default

	// Intermediate values, zero when dimensions are missing
	DwtCategory         int     `json:"dwt_category,omitempty"`
	AEPowerKW           float64 `json:"ae_power_kw,omitempty"`
	BOPowerKW           float64 `json:"bo_power_kw,omitempty"`
	TotalPowerKW        float64 `json:"total_power_kw,omitempty"`
	DischargeMultiplier float64 `json:"discharge_multiplier,omitempty"` // kg/kWh
	BlockCoef           float64 `json:"block_coef,omitempty"`
	DisplacementVolume  float64 `json:"displacement_volume,omitempty"` // m³, 1 decimal
	DisplacementWeight  float64 `json:"displacement_weight,omitempty"` // t, 1 decimal
	LightweightFactor   float64 `json:"lightweight_factor,omitempty"`
	Dwt                 float64 `json:"dwt,omitempty"` // t, 1 decimal
}

// RateUpdate announces recomputed per-mode rates for one vessel
type RateUpdate struct {
	IMONumber   string                    `json:"imo"`
	Rates       map[OperatingMode]float64 `json:"rates"` // kg/h per mode
	DwtCategory int                       `json:"dwt_category"`
	Technology  ScrubberTechnology        `json:"technology"`
	ComputedAt  int64                     `json:"computed_at"` // Unix timestamp
}
