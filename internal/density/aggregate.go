package density

import (
	"math"
	"strings"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/spatial"
)

// CountScaleFactor damps cell counts for coarser playback buckets, which
// aggregate proportionally more samples per frame
func CountScaleFactor(unit string) float64 {
	switch strings.ToLower(unit) {
	case "hour":
		return 1.2
	case "day":
		return 0.6
	case "month", "year":
		return 0.3
	}
	return 1.0
}

// Aggregate assigns every position the scaled count of positions sharing its grid cell.
// Output order follows the input positions.
func Aggregate(group models.TimeGroup, gridSize float64, unit string) []models.DensityPoint {
	if gridSize <= 0 {
		gridSize = spatial.DefaultGridSize
	}

	counts := make(map[spatial.GridKey]int, len(group.Positions))
	keys := make([]spatial.GridKey, len(group.Positions))
	for i, p := range group.Positions {
		k := spatial.GridKeyFor(p.Longitude, p.Latitude, gridSize)
		keys[i] = k
		counts[k]++
	}

	factor := CountScaleFactor(unit)
	points := make([]models.DensityPoint, len(group.Positions))
	for i, p := range group.Positions {
		points[i] = models.DensityPoint{
			Longitude:     p.Longitude,
			Latitude:      p.Latitude,
			IMONumber:     p.IMONumber,
			WeightedCount: int(math.Ceil(float64(counts[keys[i]]) * factor)),
		}
	}
	return points
}

// VesselCount returns the supplied count, or the number of distinct IMO numbers when it is zero
func VesselCount(group models.TimeGroup) int {
	if group.VesselCount > 0 {
		return group.VesselCount
	}
	seen := make(map[string]struct{}, len(group.Positions))
	for _, p := range group.Positions {
		seen[p.IMONumber] = struct{}{}
	}
	return len(seen)
}

// Frame aggregates one time group into its served form
func Frame(group models.TimeGroup, gridSize float64, unit string) models.DensityFrame {
	return models.DensityFrame{
		IntervalStart: group.IntervalStart,
		IntervalEnd:   group.IntervalEnd,
		VesselCount:   VesselCount(group),
		PositionCount: len(group.Positions),
		Points:        Aggregate(group, gridSize, unit),
	}
}
