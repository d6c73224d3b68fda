package trajectory

import (
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
	"github.com/northseawatch/scrubber-backend-go/internal/spatial"
)

// Gap thresholds
const (
	TimeThreshold       = 6 * time.Hour
	DistanceThresholdKm = 100.0
)

// Thresholds selects which gap limits mark a consecutive pair unreliable.
// A zero value disables that limit.
type Thresholds struct {
	MaxGap        time.Duration
	MaxDistanceKm float64
}

// PathThresholds is used for plain vessel paths: time and distance
var PathThresholds = Thresholds{MaxGap: TimeThreshold, MaxDistanceKm: DistanceThresholdKm}

// TrailThresholds is used for discharge trails: time only
var TrailThresholds = Thresholds{MaxGap: TimeThreshold}

// Unreliable reports whether the step from prev to cur exceeds any enabled limit
func (t Thresholds) Unreliable(prev, cur models.PositionSample) bool {
	if t.MaxGap > 0 && cur.TimestampAIS.Sub(prev.TimestampAIS) > t.MaxGap {
		return true
	}
	if t.MaxDistanceKm > 0 {
		d := spatial.DistanceKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		if d > t.MaxDistanceKm {
			return true
		}
	}
	return false
}

// Segment splits a vessel track into reliable and unreliable runs using PathThresholds
func Segment(samples []models.PositionSample) (reliable, unreliable []models.PathSegment) {
	return SegmentWith(samples, PathThresholds)
}

// SegmentWith splits samples into runs of one reliability class.
//
// The running class starts reliable. When a pair disagrees with it, the later
// sample closes the current run under the old class and opens the next run with
// the pair's class, so adjacent runs share that sample. Runs shorter than two
// points are dropped and fewer than two samples yields two empty lists.
func SegmentWith(samples []models.PositionSample, th Thresholds) (reliable, unreliable []models.PathSegment) {
	reliable = []models.PathSegment{}
	unreliable = []models.PathSegment{}
	if len(samples) < 2 {
		return reliable, unreliable
	}

	flush := func(coords []models.Coordinate, ok bool) {
		if len(coords) < 2 {
			return
		}
		seg := models.PathSegment{Coordinates: coords, Reliable: ok}
		if ok {
			reliable = append(reliable, seg)
		} else {
			unreliable = append(unreliable, seg)
		}
	}

	buf := []models.Coordinate{coordinate(samples[0])}
	currentReliable := true
	for i := 1; i < len(samples); i++ {
		prev, cur := samples[i-1], samples[i]
		pairReliable := !th.Unreliable(prev, cur)

		buf = append(buf, coordinate(cur))
		if pairReliable != currentReliable {
			flush(buf, currentReliable)
			buf = []models.Coordinate{coordinate(cur)}
			currentReliable = pairReliable
		}
	}
	flush(buf, currentReliable)

	return reliable, unreliable
}

func coordinate(s models.PositionSample) models.Coordinate {
	return models.Coordinate{s.Longitude, s.Latitude}
}
