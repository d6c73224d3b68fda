package discharge

import (
	"math"

	"github.com/northseawatch/scrubber-backend-go/internal/models"
)

// Estimate computes the theoretical washwater discharge rate of a vessel in kg/h.
//
// A positive override (the stored per-mode rate) is returned as the rate. When all
// three dimensions are present the intermediate values are always filled in, and
// without an override the rate is (AE + BO) × multiplier rounded to one decimal.
// Otherwise the rate falls back to DefaultDischargeRate.
func Estimate(v models.VesselAttributes, mode models.OperatingMode, tech models.ScrubberTechnology, override *float64) models.DischargeEstimate {
	est := models.DischargeEstimate{
		DischargeRateKgPerHour: DefaultDischargeRate,
		OperatingMode:          mode,
		Technology:             tech,
		Source:                 models.EstimateSourceDefault,
	}

	calculated := -1.0
	if v.HasDimensions() {
		blockCoef, lightweight := CargoBlockCoef, CargoLightweightFactor
		if v.TypeName == TypeTanker {
			blockCoef, lightweight = TankerBlockCoef, TankerLightweightFactor
		}

		volume := v.LengthMeters * v.WidthMeters * v.MaxDraughtMeters * blockCoef
		weight := volume * SeawaterDensity
		dwt := weight - weight*lightweight

		category := DwtCategory(dwt, v.TypeName)
		power := LookupPower(v.TypeName, category, mode)
		total := power.AEPowerKW + power.BOPowerKW
		multiplier := Multiplier(tech)

		est.BlockCoef = blockCoef
		est.DisplacementVolume = Round(volume, 1)
		est.DisplacementWeight = Round(weight, 1)
		est.LightweightFactor = lightweight
		est.Dwt = Round(dwt, 1)
		est.DwtCategory = category
		est.AEPowerKW = power.AEPowerKW
		est.BOPowerKW = power.BOPowerKW
		est.TotalPowerKW = total
		est.DischargeMultiplier = multiplier

		calculated = total * multiplier
	}

	switch {
	case override != nil && *override > 0:
		est.DischargeRateKgPerHour = *override
		est.Source = models.EstimateSourceServer
	case calculated >= 0:
		est.DischargeRateKgPerHour = Round(calculated, 1)
		est.Source = models.EstimateSourceCalculated
	}

	return est
}

// ModeRates computes the calculated rate for every operating mode, rounded to two
// decimals for storage. ok is false when a dimension is missing.
func ModeRates(v models.VesselAttributes, tech models.ScrubberTechnology) (rates map[models.OperatingMode]float64, category int, ok bool) {
	if !v.HasDimensions() {
		return nil, 0, false
	}
	rates = make(map[models.OperatingMode]float64, len(models.OperatingModes))
	for _, mode := range models.OperatingModes {
		est := Estimate(v, mode, tech, nil)
		rates[mode] = Round(est.TotalPowerKW*est.DischargeMultiplier, 2)
		category = est.DwtCategory
	}
	return rates, category, true
}

// Round rounds half away from zero to the given number of decimals
func Round(x float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(x*p) / p
}
