package trajectory

import (
	"math"
	"testing"
	"time"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

func TestNormalizedIntensity(t *testing.T) {
	tests := map[float64]float64{
		0:     0.1,
		10:    0.1,
		100:   0.5,
		200:   1,
		35100: 1,
	}
	for rate, want := range tests {
		if got := NormalizedIntensity(rate); math.Abs(got-want) > 1e-9 {
			t.Errorf("NormalizedIntensity(%v) = %v, want %v", rate, got, want)
		}
	}
}

func TestStyleFor(t *testing.T) {
	open := StyleFor(models.ScrubberOpen, 100)
	if open.Class != StyleOpen || open.Color != "#FF6B6B" {
		t.Errorf("open style = %+v", open)
	}
	if math.Abs(open.Opacity-0.8) > 1e-9 || math.Abs(open.Width-5) > 1e-9 {
		t.Errorf("open opacity/width = %v/%v, want 0.8/5", open.Opacity, open.Width)
	}

	closed := StyleFor(models.ScrubberClosed, 100)
	if closed.Class != StyleClosed || math.Abs(closed.Opacity-0.55) > 1e-9 {
		t.Errorf("closed style = %+v", closed)
	}

	hybrid := StyleFor(models.ScrubberHybrid, 200)
	if hybrid.Class != StyleHybrid || math.Abs(hybrid.Opacity-0.85) > 1e-9 || hybrid.Width != 8 {
		t.Errorf("hybrid style = %+v", hybrid)
	}

	if StyleFor(models.ScrubberUnknown, 100).Class != StyleOpen {
		t.Error("unknown technology should share the open bucket")
	}
	if !(closed.Opacity < hybrid.Opacity) {
		t.Error("closed loop should carry the lowest visual weight")
	}
}

func TestBuildTrailEmpty(t *testing.T) {
	trail := BuildTrail(nil, 45, models.ScrubberOpen)
	if len(trail.Reliable) != 0 || len(trail.Unreliable) != 0 || len(trail.DischargePoints) != 0 {
		t.Errorf("expected empty trail, got %+v", trail)
	}
}

func TestBuildTrailPerStep(t *testing.T) {
	in := []models.PositionSample{
		sample(54.0, 3.0, 0),
		sample(54.1, 3.0, 30*time.Minute),
		sample(58.0, 3.0, time.Hour), // large distance, still reliable for trails
		sample(58.1, 3.0, 8*time.Hour),
	}
	rate := 100.0
	trail := BuildTrail(in, rate, models.ScrubberOpen)

	if len(trail.Reliable) != 2 || len(trail.Unreliable) != 1 {
		t.Fatalf("got %d reliable / %d unreliable, want 2/1", len(trail.Reliable), len(trail.Unreliable))
	}

	first := trail.Reliable[0]
	if math.Abs(first.HoursSpan-0.5) > 1e-9 || math.Abs(first.SegmentDischargeKg-50) > 1e-9 {
		t.Errorf("first step = %+v", first)
	}
	if first.Intensity != 1 {
		t.Errorf("first step intensity = %v, want 1", first.Intensity)
	}
	if len(first.Coordinates) != 2 {
		t.Errorf("trail segments must have exactly two coordinates")
	}

	gap := trail.Unreliable[0]
	if math.Abs(gap.HoursSpan-7) > 1e-9 || gap.Reliable {
		t.Errorf("gap step = %+v", gap)
	}

	// intensity 1 × normalized 0.5 > 0.2 for both reliable steps
	if len(trail.DischargePoints) != 2 {
		t.Fatalf("got %d discharge points, want 2", len(trail.DischargePoints))
	}
	p := trail.DischargePoints[0]
	if p.Latitude != 54.1 || !p.Timestamp.Equal(in[1].TimestampAIS) || math.Abs(p.Intensity-0.5) > 1e-9 {
		t.Errorf("discharge point = %+v", p)
	}
}

func TestBuildTrailCutoff(t *testing.T) {
	in := []models.PositionSample{
		sample(54.0, 3.0, 0),
		sample(54.01, 3.0, 10*time.Minute),
	}
	// 45 kg/h × 1/6 h = 7.5 kg → intensity 0.15; × normalized 0.225 is well below the cutoff
	trail := BuildTrail(in, 45, models.ScrubberClosed)
	if len(trail.Reliable) != 1 {
		t.Fatalf("got %d reliable, want 1", len(trail.Reliable))
	}
	if len(trail.DischargePoints) != 0 {
		t.Errorf("expected no discharge points, got %d", len(trail.DischargePoints))
	}
	if trail.Style.Class != StyleClosed {
		t.Errorf("style class = %s, want closed", trail.Style.Class)
	}
}
