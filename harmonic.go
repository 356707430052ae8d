package circuitcheck

import "math"

// HarmonicResult summarizes the distortion produced by non-linear loads.
type HarmonicResult struct {
	THDVoltagePercent     float64         `json:"thd_voltage_percent"` // approximation, see Config.VoltageTHDFactor
	THDCurrentPercent     float64         `json:"thd_current_percent"`
	HarmonicCurrents      map[int]float64 `json:"individual_harmonics"`
	KFactor               float64         `json:"k_factor_transformers"`
	NeutralCurrentPercent float64         `json:"neutral_current_percent"`
}

// AnalyzeHarmonics aggregates harmonic currents at nameplate (no diversity)
// into current THD, k-factor and neutral loading.
//
// Triplen orders (3, 9, 15, ...) add arithmetically in a shared neutral
// instead of cancelling, so only they count toward neutral current.
func AnalyzeHarmonics(loads []Load, cfg Config) HarmonicResult {
	var fundamental float64
	for _, l := range loads {
		fundamental += l.NominalCurrent
	}
	currents := Aggregate(loads, false).HarmonicCurrents

	r := HarmonicResult{
		HarmonicCurrents: currents,
		KFactor:          1.0,
	}
	if fundamental <= 0 {
		return r
	}

	var sumSquares, neutral float64
	for _, order := range harmonicOrders(currents) {
		ih := currents[order]
		sumSquares += ih * ih
		r.KFactor += float64(order*order) * (ih / fundamental) * (ih / fundamental)
		if order%3 == 0 {
			neutral += ih
		}
	}

	r.THDCurrentPercent = math.Sqrt(sumSquares) / fundamental * 100
	r.THDVoltagePercent = r.THDCurrentPercent * cfg.VoltageTHDFactor
	r.NeutralCurrentPercent = neutral / fundamental * 100
	return r
}
