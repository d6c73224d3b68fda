package density

import (
	"testing"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

func TestCountScaleFactor(t *testing.T) {
	tests := map[string]float64{
		"hour":  1.2,
		"Hour":  1.2,
		"day":   0.6,
		"month": 0.3,
		"year":  0.3,
		"week":  1.0,
		"":      1.0,
	}
	for unit, want := range tests {
		if got := CountScaleFactor(unit); got != want {
			t.Errorf("CountScaleFactor(%q) = %v, want %v", unit, got, want)
		}
	}
}

func TestAggregateHourWeights(t *testing.T) {
	group := models.TimeGroup{
		Positions: []models.GroupPosition{
			{IMONumber: "9000001", Longitude: 4.21, Latitude: 53.21},
			{IMONumber: "9000002", Longitude: 4.23, Latitude: 53.24},
			{IMONumber: "9000003", Longitude: 5.51, Latitude: 54.02},
		},
	}
	points := Aggregate(group, 0.05, "hour")
	if len(points) != 3 {
		t.Fatalf("got %d points, want 3", len(points))
	}
	want := []int{3, 3, 2}
	for i, p := range points {
		if p.WeightedCount != want[i] {
			t.Errorf("point %d weighted count = %d, want %d", i, p.WeightedCount, want[i])
		}
		if p.IMONumber != group.Positions[i].IMONumber || p.Longitude != group.Positions[i].Longitude {
			t.Errorf("point %d does not mirror its input position: %+v", i, p)
		}
	}
}

func TestAggregateUnits(t *testing.T) {
	positions := make([]models.GroupPosition, 5)
	for i := range positions {
		positions[i] = models.GroupPosition{IMONumber: "9000001", Longitude: 3.01, Latitude: 55.01}
	}
	group := models.TimeGroup{Positions: positions}

	tests := map[string]int{
		"hour":  6, // ceil(5 × 1.2)
		"day":   3, // ceil(5 × 0.6)
		"month": 2, // ceil(5 × 0.3)
		"week":  5,
	}
	for unit, want := range tests {
		points := Aggregate(group, 0, unit)
		if points[0].WeightedCount != want {
			t.Errorf("unit %s: weighted count = %d, want %d", unit, points[0].WeightedCount, want)
		}
	}
}

func TestAggregateEmpty(t *testing.T) {
	if points := Aggregate(models.TimeGroup{}, 0.05, "hour"); len(points) != 0 {
		t.Errorf("expected no points, got %d", len(points))
	}
}

func TestVesselCount(t *testing.T) {
	group := models.TimeGroup{
		Positions: []models.GroupPosition{
			{IMONumber: "1"}, {IMONumber: "2"}, {IMONumber: "1"}, {IMONumber: "3"},
		},
	}
	if got := VesselCount(group); got != 3 {
		t.Errorf("VesselCount = %d, want 3", got)
	}
	group.VesselCount = 7
	if got := VesselCount(group); got != 7 {
		t.Errorf("VesselCount with supplied count = %d, want 7", got)
	}
}

func TestFrame(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	group := models.TimeGroup{
		IntervalStart: start,
		IntervalEnd:   start.Add(time.Hour),
		Positions: []models.GroupPosition{
			{IMONumber: "1", Longitude: 3, Latitude: 55},
			{IMONumber: "1", Longitude: 3.01, Latitude: 55.01},
		},
	}
	frame := Frame(group, 0.05, "day")
	if frame.VesselCount != 1 || frame.PositionCount != 2 || len(frame.Points) != 2 {
		t.Errorf("unexpected frame %+v", frame)
	}
	if frame.Points[0].WeightedCount != 2 {
		t.Errorf("weighted count = %d, want ceil(2 × 0.6) = 2", frame.Points[0].WeightedCount)
	}
}
