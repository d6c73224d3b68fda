package models

// HeatmapPoint represents a single point in the heatmap
type HeatmapPoint struct {
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	Intensity float64 `json:"intensity"` // Discharge rate (kg/h) or size weight
	IMONumber string  `json:"imo_number"`
}

// Heatmap metrics
const (
	HeatmapMetricSize     = "size"
	HeatmapMetricScrubber = "scrubber"
)

// HeatmapResponse represents the heatmap API response
type HeatmapResponse struct {
	Points   []HeatmapPoint `json:"points"`
	Count    int            `json:"count"`
	MaxValue float64        `json:"max_value"`
	MinValue float64        `json:"min_value"`
	Metric   string         `json:"metric"` // size, scrubber
}
