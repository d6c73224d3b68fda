package discharge

import (
	"strconv"
	"testing"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

func intPtr(v int) *int { return &v }

func TestClassifyMode(t *testing.T) {
	tests := []struct {
		code *int
		want models.OperatingMode
	}{
		{intPtr(0), models.ModeCruise},
		{intPtr(1), models.ModeAnchor},
		{intPtr(2), models.ModeAnchor},
		{intPtr(3), models.ModeManeuver},
		{intPtr(4), models.ModeManeuver},
		{intPtr(5), models.ModeBerth},
		{intPtr(6), models.ModeBerth},
		{intPtr(7), models.ModeCruise},
		{intPtr(8), models.ModeCruise},
		{intPtr(15), models.ModeCruise},
		{intPtr(99), models.ModeCruise},
		{intPtr(-1), models.ModeCruise},
		{nil, models.ModeCruise},
	}
	for _, tt := range tests {
		if got := ClassifyMode(tt.code); got != tt.want {
			code := "nil"
			if tt.code != nil {
				code = strconv.Itoa(*tt.code)
			}
			t.Errorf("ClassifyMode(%s) = %s, want %s", code, got, tt.want)
		}
	}
}

func TestClassifierInjectedTables(t *testing.T) {
	c := NewClassifier(
		map[int]models.OperatingMode{0: models.ModeManeuver},
		map[int]string{5: "Moored (loaded)"},
	)
	if got := c.Mode(intPtr(0)); got != models.ModeManeuver {
		t.Errorf("Mode(0) = %s, want Maneuver", got)
	}
	if got := c.Mode(intPtr(5)); got != models.ModeCruise {
		t.Errorf("Mode(5) with custom table = %s, want Cruise", got)
	}
	if got := c.StatusText(intPtr(5)); got != "Moored (loaded)" {
		t.Errorf("StatusText(5) = %q", got)
	}
	if got := c.StatusText(intPtr(1)); got != "At anchor" {
		t.Errorf("StatusText(1) fallback = %q, want built-in", got)
	}
	if got := c.StatusText(intPtr(42)); got != UnknownStatusText {
		t.Errorf("StatusText(42) = %q, want Unknown", got)
	}
	if got := c.StatusText(nil); got != UnknownStatusText {
		t.Errorf("StatusText(nil) = %q, want Unknown", got)
	}
}

func TestClassifierCopiesTables(t *testing.T) {
	modes := map[int]models.OperatingMode{1: models.ModeAnchor}
	c := NewClassifier(modes, nil)
	modes[1] = models.ModeBerth
	if got := c.Mode(intPtr(1)); got != models.ModeAnchor {
		t.Errorf("classifier observed caller mutation: %s", got)
	}
}

func TestStatusTextBuiltIn(t *testing.T) {
	if got := StatusText(intPtr(14)); got != "AIS-SART (Search and Rescue Transmitter)" {
		t.Errorf("StatusText(14) = %q", got)
	}
	if got := StatusText(intPtr(0)); got != "Under way using engine" {
		t.Errorf("StatusText(0) = %q", got)
	}
}
