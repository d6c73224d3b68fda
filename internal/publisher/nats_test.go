package publisher

import "testing"

func TestRatesSubject(t *testing.T) {
	tests := []struct {
		prefix, imo, want string
	}{
		{"discharge", "9000001", "discharge.rates.9000001"},
		{"", "9000001", "discharge.rates.9000001"},
		{"northsea.", "9000001", "northsea.rates.9000001"},
		{"discharge", " 90 00.1* ", "discharge.rates.90_00_1_"},
		{"discharge", "", "discharge.rates._"},
	}
	for _, tt := range tests {
		if got := RatesSubject(tt.prefix, tt.imo); got != tt.want {
			t.Errorf("RatesSubject(%q, %q) = %q, want %q", tt.prefix, tt.imo, got, tt.want)
		}
	}
}
