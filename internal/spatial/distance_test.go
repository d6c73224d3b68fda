package spatial

import (
	"math"
	"testing"
)

func TestDistanceKmIdentity(t *testing.T) {
	points := [][2]float64{
		{0, 0},
		{53.5, 4.25},
		{-33.9, 151.2},
		{89.9, -179.9},
	}
	for _, p := range points {
		if d := DistanceKm(p[0], p[1], p[0], p[1]); d != 0 {
			t.Errorf("DistanceKm(%v, %v) = %v, want 0", p, p, d)
		}
	}
}

func TestDistanceKmSymmetry(t *testing.T) {
	cases := []struct {
		lat1, lon1, lat2, lon2 float64
	}{
		{51.9, 4.1, 53.5, 8.6},
		{57.0, -2.0, 52.0, 3.0},
		{0, 179.5, 0, -179.5},
	}
	for _, tc := range cases {
		ab := DistanceKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
		ba := DistanceKm(tc.lat2, tc.lon2, tc.lat1, tc.lon1)
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("asymmetric distance: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKmKnownValues(t *testing.T) {
	// One degree of latitude on a 6371 km sphere.
	want := 6371.0 * math.Pi / 180
	got := DistanceKm(54, 3, 55, 3)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("DistanceKm one degree = %v, want %v", got, want)
	}

	// Rotterdam to Hamburg is roughly 410 km.
	got = DistanceKm(51.9225, 4.47917, 53.5511, 9.9937)
	if got < 400 || got > 420 {
		t.Errorf("Rotterdam-Hamburg = %v km, want ~410", got)
	}

	if m := HaversineDistance(54, 3, 55, 3); math.Abs(m-want*1000) > 1e-3 {
		t.Errorf("HaversineDistance = %v m, want %v", m, want*1000)
	}
}

func TestDistanceKmNaN(t *testing.T) {
	if d := DistanceKm(math.NaN(), 0, 1, 1); !math.IsNaN(d) {
		t.Errorf("DistanceKm with NaN input = %v, want NaN", d)
	}
}
