package circuitcheck

// NeedsEngineerReview is returned as the recommended upgrade when no
// standard conductor size brings the voltage drop within the limit.
const NeedsEngineerReview = "needs engineer review"

// VoltageDropResult describes the round-trip drop at the load end.
type VoltageDropResult struct {
	DropVolts          float64 `json:"voltage_drop_volts"`
	DropPercent        float64 `json:"voltage_drop_percent"`
	VoltageAtLoad      float64 `json:"voltage_at_load"`
	MeetsLimit         bool    `json:"meets_code_requirements"`
	RecommendedUpgrade string  `json:"recommended_wire_upgrade,omitempty"` // size label or NeedsEngineerReview
}

// AnalyzeVoltageDrop computes the drop over the out-and-back conductor run
// at the circuit's design current (diversity applied). When the drop exceeds
// cfg.VoltageDropLimitPercent it recommends the smallest larger standard
// size that meets the limit.
func AnalyzeVoltageDrop(c Circuit, cfg Config) (VoltageDropResult, error) {
	wire, err := LookupWire(c.WireAWG)
	if err != nil {
		return VoltageDropResult{}, err
	}

	design := Aggregate(c.Loads, true).DesignCurrent
	drop := design * roundTripResistance(wire, c.LengthFt)
	pct := drop / c.VoltageRating * 100

	r := VoltageDropResult{
		DropVolts:     drop,
		DropPercent:   pct,
		VoltageAtLoad: c.VoltageRating - drop,
		MeetsLimit:    pct <= cfg.VoltageDropLimitPercent,
	}
	if !r.MeetsLimit {
		r.RecommendedUpgrade, err = recommendUpgrade(c, design, cfg.VoltageDropLimitPercent)
		if err != nil {
			return VoltageDropResult{}, err
		}
	}
	return r, nil
}

// recommendUpgrade walks the ladder above the circuit's size.
func recommendUpgrade(c Circuit, design, limitPercent float64) (string, error) {
	larger, err := LargerWireSizes(c.WireAWG)
	if err != nil {
		return "", err
	}
	for _, size := range larger {
		wire := wireTable[size]
		pct := design * roundTripResistance(wire, c.LengthFt) / c.VoltageRating * 100
		if pct <= limitPercent {
			return size, nil
		}
	}
	return NeedsEngineerReview, nil
}

func roundTripResistance(w WireSpec, lengthFt float64) float64 {
	return w.ResistancePerFoot() * lengthFt * 2
}
