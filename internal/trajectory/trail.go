package trajectory

import (
	"math"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// Trail normalisation constants
const (
	SegmentDischargeNormKg = 50.0  // kg per step mapped to full intensity
	RateNormKgPerHour      = 200.0 // kg/h mapped to full intensity
	MinRateIntensity       = 0.1
	DischargePointCutoff   = 0.2
)

// Trail style classes
const (
	StyleClosed = "closed"
	StyleHybrid = "hybrid"
	StyleOpen   = "open"
)

// NormalizedIntensity maps a discharge rate to [0.1, 1]
func NormalizedIntensity(rate float64) float64 {
	return math.Min(math.Max(rate/RateNormKgPerHour, MinRateIntensity), 1.0)
}

// StyleFor classifies the trail into one of three visual weights.
// Closed loop is lightest; Unknown shares the open-loop bucket.
func StyleFor(tech models.ScrubberTechnology, rate float64) models.TrailStyle {
	n := NormalizedIntensity(rate)
	style := models.TrailStyle{
		Class:               StyleOpen,
		Color:               "#FF6B6B",
		Opacity:             0.6 + n*0.4,
		Width:               2 + n*6,
		NormalizedIntensity: n,
	}
	switch tech {
	case models.ScrubberClosed:
		style.Class = StyleClosed
		style.Color = "#FFE66D"
		style.Opacity = 0.4 + n*0.3
	case models.ScrubberHybrid:
		style.Class = StyleHybrid
		style.Color = "#FF8C42"
		style.Opacity = 0.5 + n*0.35
	}
	return style
}

// BuildTrail turns a scrubber vessel's track into per-step trail segments.
//
// Each consecutive pair becomes one segment. Steps longer than the time threshold
// are unreliable; reliable steps whose combined intensity exceeds the cutoff also
// emit a discharge point at the later sample. Distance is not considered.
func BuildTrail(samples []models.PositionSample, rate float64, tech models.ScrubberTechnology) models.DischargeTrail {
	trail := models.DischargeTrail{
		Reliable:        []models.DischargeTrailSegment{},
		Unreliable:      []models.DischargeTrailSegment{},
		DischargePoints: []models.DischargePoint{},
		Style:           StyleFor(tech, rate),
	}
	normalized := trail.Style.NormalizedIntensity

	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]

		hours := float64(cur.TimestampAIS.Sub(prev.TimestampAIS).Milliseconds()) / 3600000
		segmentDischarge := rate * hours
		intensity := math.Min(segmentDischarge/SegmentDischargeNormKg, 1.0)

		unreliable := TrailThresholds.Unreliable(prev, cur)
		seg := models.DischargeTrailSegment{
			PathSegment: models.PathSegment{
				Coordinates: []models.Coordinate{coordinate(prev), coordinate(cur)},
				Reliable:    !unreliable,
			},
			DischargeRateKgPerHour: rate,
			SegmentDischargeKg:     segmentDischarge,
			Intensity:              intensity,
			HoursSpan:              hours,
		}

		if unreliable {
			trail.Unreliable = append(trail.Unreliable, seg)
			continue
		}
		trail.Reliable = append(trail.Reliable, seg)

		if pointIntensity := intensity * normalized; pointIntensity > DischargePointCutoff {
			trail.DischargePoints = append(trail.DischargePoints, models.DischargePoint{
				Longitude:              cur.Longitude,
				Latitude:               cur.Latitude,
				DischargeRateKgPerHour: rate,
				Intensity:              pointIntensity,
				Timestamp:              cur.TimestampAIS,
			})
		}
	}

	return trail
}
