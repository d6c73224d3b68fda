package discharge

import "github.com/northseawatch/scrubber-backend-go/internal/models"

// Ship type names with their own coefficients
const (
	TypeCargo  = "Cargo"
	TypeTanker = "Tanker"
)

// Model constants (kW, kg/h, kg/kWh, t/m³)
const (
	DefaultAEPowerKW     = 500.0
	DefaultBOPowerKW     = 0.0
	DefaultDischargeRate = 45.0

	OpenLoopMultiplier   = 45.0
	ClosedLoopMultiplier = 0.1

	CargoBlockCoef          = 0.625
	TankerBlockCoef         = 0.825
	CargoLightweightFactor  = 0.32
	TankerLightweightFactor = 0.16
	SeawaterDensity         = 1.025
)

// powerTable is indexed by DWT category, then operating mode
type powerTable map[int]map[models.OperatingMode]float64

func row(berth, anchor, maneuver, cruise float64) map[models.OperatingMode]float64 {
	return map[models.OperatingMode]float64{
		models.ModeBerth:    berth,
		models.ModeAnchor:   anchor,
		models.ModeManeuver: maneuver,
		models.ModeCruise:   cruise,
	}
}

// Auxiliary engine power (kW)
var cargoAE = powerTable{
	1: row(90, 50, 180, 60),
	2: row(240, 130, 490, 180),
	3: row(720, 370, 1450, 520),
	4: row(720, 370, 1450, 520),
}

var tankerAE = powerTable{
	1: row(250, 250, 375, 250),
	2: row(375, 375, 560, 375),
	3: row(690, 500, 580, 490),
	4: row(720, 520, 600, 510),
	5: row(620, 490, 770, 560),
	6: row(800, 640, 910, 690),
	7: row(2500, 770, 1300, 860),
	8: row(2500, 770, 1300, 860),
}

// Boiler power (kW)
var cargoBO = powerTable{
	1: row(0, 0, 0, 0),
	2: row(110, 110, 100, 0),
	3: row(150, 150, 130, 0),
	4: row(150, 150, 130, 0),
}

var tankerBO = powerTable{
	1: row(500, 100, 100, 0),
	2: row(750, 150, 150, 0),
	3: row(1250, 250, 250, 0),
	4: row(2700, 270, 270, 270),
	5: row(3250, 360, 360, 280),
	6: row(4000, 400, 400, 280),
	7: row(6500, 500, 500, 300),
	8: row(7000, 600, 600, 300),
}

// LookupPower returns the reference AE and BO power for a ship type, DWT category and mode.
// Tanker uses the tanker tables, every other type the cargo tables. A missing
// category or mode yields the defaults.
func LookupPower(typeName string, category int, mode models.OperatingMode) models.PowerSpec {
	ae, bo := cargoAE, cargoBO
	if typeName == TypeTanker {
		ae, bo = tankerAE, tankerBO
	}

	spec := models.PowerSpec{AEPowerKW: DefaultAEPowerKW, BOPowerKW: DefaultBOPowerKW}
	if v, ok := ae[category][mode]; ok && v != 0 {
		spec.AEPowerKW = v
	}
	if v, ok := bo[category][mode]; ok && v != 0 {
		spec.BOPowerKW = v
	}
	return spec
}

// DwtCategory buckets a deadweight tonnage into the table row for the ship type.
// Types other than Cargo and Tanker stay in category 1.
func DwtCategory(dwt float64, typeName string) int {
	switch typeName {
	case TypeCargo:
		switch {
		case dwt <= 4999:
			return 1
		case dwt <= 9999:
			return 2
		case dwt <= 19999:
			return 3
		default:
			return 4
		}
	case TypeTanker:
		switch {
		case dwt <= 4999:
			return 1
		case dwt <= 9999:
			return 2
		case dwt <= 19999:
			return 3
		case dwt <= 59999:
			return 4
		case dwt <= 79999:
			return 5
		case dwt <= 119999:
			return 6
		case dwt <= 199999:
			return 7
		default:
			return 8
		}
	}
	return 1
}
