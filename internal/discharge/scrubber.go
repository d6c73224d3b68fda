package discharge

import (
	"strings"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// ParseScrubberTechnology classifies a registry technology string.
// Matching is case-insensitive; "open" wins over "hybrid", which wins over "closed".
// Anything else, including "TBC", is Unknown.
func ParseScrubberTechnology(raw string) models.ScrubberTechnology {
	s := strings.ToLower(raw)
	switch {
	case strings.Contains(s, "open"):
		return models.ScrubberOpen
	case strings.Contains(s, "hybrid"):
		return models.ScrubberHybrid
	case strings.Contains(s, "closed"):
		return models.ScrubberClosed
	}
	return models.ScrubberUnknown
}

// IsDischargingTechnology reports whether the raw registry value describes a wet scrubber.
// Membrane and dry systems produce no washwater and are excluded from rate computation.
func IsDischargingTechnology(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return false
	}
	return !strings.Contains(s, "membrane") && !strings.Contains(s, "dry")
}

// Multiplier returns the washwater discharge multiplier in kg/kWh.
// Unknown technologies are treated as open loop.
func Multiplier(tech models.ScrubberTechnology) float64 {
	if tech == models.ScrubberClosed {
		return ClosedLoopMultiplier
	}
	return OpenLoopMultiplier
}

// Label returns the display label for a registry technology string
func Label(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || strings.EqualFold(trimmed, "tbc") {
		return "scrubber"
	}
	return trimmed
}

// NewScrubberVessel builds a registry entry with its technology parsed once
func NewScrubberVessel(imo, status, technologyType string) *models.ScrubberVessel {
	return &models.ScrubberVessel{
		IMONumber:      imo,
		Status:         status,
		TechnologyType: technologyType,
		Technology:     ParseScrubberTechnology(technologyType),
		Label:          Label(technologyType),
	}
}
