package circuitcheck

import (
	"encoding/json"
	"math"
)

const (
	// arcFaultRatio is the empirical arcing-to-bolted fault current ratio.
	arcFaultRatio = 0.38

	// instantaneousZoneMultiple of the device rating above which the device
	// trips instantaneously.
	instantaneousZoneMultiple = 10.0

	instantaneousClearingCycles = 0.5
	timeDelayClearingCycles     = 3.0

	// xrEpsilon keeps X/R finite for a zero-length run.
	xrEpsilon = 1e-6
)

// FaultResult describes the available fault current at the circuit's load
// end and how the protection device copes with it.
type FaultResult struct {
	AvailableFaultCurrent float64 `json:"available_fault_current"`
	XOverR                float64 `json:"x_over_r_ratio"`
	ArcFaultCurrent       float64 `json:"arc_fault_current"`
	CoordinationMargin    float64 `json:"protection_coordination_margin"` // fraction; negative means undersized device
	ClearingTimeCycles    float64 `json:"fault_clearing_time_cycles"`
	UpstreamFaultCurrent  float64 `json:"upstream_fault_current,omitempty"`
}

// DeviceUndersized reports whether the available fault current exceeds the
// device's interrupting rating.
func (r FaultResult) DeviceUndersized() bool {
	return r.CoordinationMargin < 0
}

// MarshalJSON encodes the infinite current of a zero-impedance path as null.
func (r FaultResult) MarshalJSON() ([]byte, error) {
	type plain FaultResult
	return json.Marshal(struct {
		plain
		AvailableFaultCurrent *float64 `json:"available_fault_current"`
		ArcFaultCurrent       *float64 `json:"arc_fault_current"`
		CoordinationMargin    *float64 `json:"protection_coordination_margin"`
	}{
		plain:                 plain(r),
		AvailableFaultCurrent: finite(r.AvailableFaultCurrent),
		ArcFaultCurrent:       finite(r.ArcFaultCurrent),
		CoordinationMargin:    finite(r.CoordinationMargin),
	})
}

// AnalyzeFaultCurrent estimates the three-phase bolted fault current:
//
//	I_f = V / ((Z_xfmr + |R + jX|) · √3)
//
// with R from the wire table and X ≈ cfg.ReactanceOhmPerFt per foot. The
// clearing time is a two-bucket model: instantaneous above ten times the
// device rating, time-delay otherwise.
//
// upstreamHint is recorded in the result but does not enter the estimate.
func AnalyzeFaultCurrent(c Circuit, upstreamHint, transformerZ float64, cfg Config) (FaultResult, error) {
	wire, err := LookupWire(c.WireAWG)
	if err != nil {
		return FaultResult{}, err
	}

	resistance := wire.ResistancePerFoot() * c.LengthFt
	reactance := cfg.ReactanceOhmPerFt * c.LengthFt
	impedance := math.Hypot(resistance, reactance) + transformerZ

	available := c.VoltageRating / (impedance * math.Sqrt(3))
	interrupting := c.Protection.InterruptingRating

	r := FaultResult{
		AvailableFaultCurrent: available,
		XOverR:                reactance / (resistance + xrEpsilon),
		ArcFaultCurrent:       available * arcFaultRatio,
		CoordinationMargin:    (interrupting - available) / interrupting,
		ClearingTimeCycles:    timeDelayClearingCycles,
		UpstreamFaultCurrent:  upstreamHint,
	}
	if available > c.Protection.CurrentRating*instantaneousZoneMultiple {
		r.ClearingTimeCycles = instantaneousClearingCycles
	}
	return r, nil
}
