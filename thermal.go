package circuitcheck

import (
	"encoding/json"
	"math"
)

// ThermalRatingC is the insulation column used as base ampacity.
const ThermalRatingC = 75

// thermalTimeConstantMinutes is the base of the I²t overload estimate.
const thermalTimeConstantMinutes = 5.0

// ambientBreakpoint maps an ambient temperature to its correction factor.
type ambientBreakpoint struct {
	TempC  float64
	Factor float64
}

// ambientCorrection is the 75°C-column ambient correction table.
// The nearest breakpoint wins; ties go to the lower temperature.
var ambientCorrection = []ambientBreakpoint{
	{21, 1.08},
	{26, 1.00},
	{31, 0.91},
	{36, 0.82},
	{41, 0.71},
	{46, 0.58},
	{51, 0.41},
	{56, 0.00},
}

// ThermalResult describes the conductor's steady-state heating.
type ThermalResult struct {
	ConductorTempC     float64 `json:"conductor_temperature_c"`
	DeratedAmpacity    float64 `json:"ampacity_derated"`
	DesignCurrent      float64 `json:"design_current"`
	MarginPercent      float64 `json:"thermal_margin_percent"`
	TimeToLimitMinutes float64 `json:"time_to_thermal_limit_minutes"` // +Inf when not overloaded
	CoolingRequired    bool    `json:"cooling_required"`
	AmbientFactor      float64 `json:"ambient_correction_factor"`
	BundlingFactor     float64 `json:"bundling_correction_factor"`
}

// Overloaded reports whether design current exceeds derated ampacity.
func (r ThermalResult) Overloaded() bool {
	return !math.IsInf(r.TimeToLimitMinutes, 1)
}

// MarshalJSON encodes non-finite values (the infinite time-to-limit of a
// healthy conductor) as null.
func (r ThermalResult) MarshalJSON() ([]byte, error) {
	type plain ThermalResult
	return json.Marshal(struct {
		plain
		ConductorTempC     *float64 `json:"conductor_temperature_c"`
		MarginPercent      *float64 `json:"thermal_margin_percent"`
		TimeToLimitMinutes *float64 `json:"time_to_thermal_limit_minutes"`
	}{
		plain:              plain(r),
		ConductorTempC:     finite(r.ConductorTempC),
		MarginPercent:      finite(r.MarginPercent),
		TimeToLimitMinutes: finite(r.TimeToLimitMinutes),
	})
}

// AnalyzeThermal derates the conductor for ambient temperature and bundling
// and compares it with the circuit's design current (diversity applied).
//
// Conductor temperature uses a quadratic heating curve,
// ambient + (75 − ambient)·(I/I_rated)², not a thermal-RC model. When
// overloaded, time to the thermal limit is 5/((I/I_rated)² − 1) minutes.
func AnalyzeThermal(c Circuit, cfg Config) (ThermalResult, error) {
	if _, err := LookupWire(c.WireAWG); err != nil {
		return ThermalResult{}, err
	}

	base := Ampacity(c.WireAWG, ThermalRatingC)
	ambient := AmbientCorrectionFactor(c.AmbientC)
	bundling := BundlingCorrectionFactor(c.Conductors)
	derated := base * ambient * bundling

	design := Aggregate(c.Loads, true).DesignCurrent

	r := ThermalResult{
		DeratedAmpacity:    derated,
		DesignCurrent:      design,
		TimeToLimitMinutes: math.Inf(1),
		CoolingRequired:    design > derated*cfg.ThermalSafetyMargin,
		AmbientFactor:      ambient,
		BundlingFactor:     bundling,
	}

	var ratio float64
	if derated > 0 || design > 0 {
		// A zero rating with load gives +Inf ratio and -Inf margin.
		ratio = design / derated
		r.MarginPercent = (derated - design) / derated * 100
	}
	r.ConductorTempC = c.AmbientC + (ThermalRatingC-c.AmbientC)*ratio*ratio

	if design > derated {
		r.TimeToLimitMinutes = thermalTimeConstantMinutes / (ratio*ratio - 1.0)
	}

	return r, nil
}

// AmbientCorrectionFactor returns the factor of the breakpoint nearest to
// ambientC.
func AmbientCorrectionFactor(ambientC float64) float64 {
	best := ambientCorrection[0]
	for _, bp := range ambientCorrection[1:] {
		if math.Abs(bp.TempC-ambientC) < math.Abs(best.TempC-ambientC) {
			best = bp
		}
	}
	return best.Factor
}

// BundlingCorrectionFactor returns the adjustment for current-carrying
// conductors sharing a raceway.
func BundlingCorrectionFactor(conductors int) float64 {
	switch {
	case conductors <= 3:
		return 1.00
	case conductors <= 6:
		return 0.80
	case conductors <= 9:
		return 0.70
	case conductors <= 20:
		return 0.50
	default:
		return 0.35
	}
}

// finite returns nil for NaN and ±Inf so JSON encodes them as null.
func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
