package discharge

import "github.com/northseawatch/scrubber-backend-go/internal/models"

// UnknownStatusText is returned for codes with no known description
const UnknownStatusText = "Unknown"

// DefaultModeTable maps AIS navigational status codes to operating modes
var DefaultModeTable = map[int]models.OperatingMode{
	0:  models.ModeCruise,
	1:  models.ModeAnchor,
	2:  models.ModeAnchor,
	3:  models.ModeManeuver,
	4:  models.ModeManeuver,
	5:  models.ModeBerth,
	6:  models.ModeBerth,
	7:  models.ModeCruise,
	8:  models.ModeCruise,
	9:  models.ModeCruise,
	10: models.ModeCruise,
	11: models.ModeCruise,
	12: models.ModeCruise,
	13: models.ModeCruise,
	14: models.ModeCruise,
	15: models.ModeCruise,
}

// DefaultStatusText holds the ITU-R M.1371 navigational status descriptions
var DefaultStatusText = map[int]string{
	0:  "Under way using engine",
	1:  "At anchor",
	2:  "Not under command",
	3:  "Restricted manoeuverability",
	4:  "Constrained by her draught",
	5:  "Moored",
	6:  "Aground",
	7:  "Engaged in fishing",
	8:  "Under way sailing",
	9:  "Reserved for future amendment",
	10: "Reserved for future amendment",
	11: "Reserved for future use",
	12: "Reserved for future use",
	13: "Reserved for future use",
	14: "AIS-SART (Search and Rescue Transmitter)",
	15: "Not defined (default)",
}

// Classifier maps navigational status codes to operating modes and descriptions.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	modes map[int]models.OperatingMode
	texts map[int]string
}

// NewClassifier creates a classifier over the given tables.
// A nil modes table uses DefaultModeTable. texts usually comes from the
// navigational_status table and may be nil.
func NewClassifier(modes map[int]models.OperatingMode, texts map[int]string) *Classifier {
	if modes == nil {
		modes = DefaultModeTable
	}
	m := make(map[int]models.OperatingMode, len(modes))
	for k, v := range modes {
		m[k] = v
	}
	t := make(map[int]string, len(texts))
	for k, v := range texts {
		t[k] = v
	}
	return &Classifier{modes: m, texts: t}
}

// Mode returns the operating mode for a status code; nil or unmapped codes are Cruise
func (c *Classifier) Mode(code *int) models.OperatingMode {
	if code == nil {
		return models.ModeCruise
	}
	if mode, ok := c.modes[*code]; ok {
		return mode
	}
	return models.ModeCruise
}

// StatusText returns the loaded description, then the built-in one, then "Unknown"
func (c *Classifier) StatusText(code *int) string {
	if code == nil {
		return UnknownStatusText
	}
	if text, ok := c.texts[*code]; ok && text != "" {
		return text
	}
	if text, ok := DefaultStatusText[*code]; ok {
		return text
	}
	return UnknownStatusText
}

var defaultClassifier = NewClassifier(nil, nil)

// ClassifyMode maps a status code using the built-in table
func ClassifyMode(code *int) models.OperatingMode {
	return defaultClassifier.Mode(code)
}

// StatusText describes a status code using the built-in table
func StatusText(code *int) string {
	return defaultClassifier.StatusText(code)
}
