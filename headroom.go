package circuitcheck

import (
	"fmt"
	"math"
)

// Headroom limits.
const (
	LimitThermal       = "thermal"
	LimitVoltageDrop   = "voltage_drop"
	LimitParentLoading = "parent_loading"
)

// Headroom is how much more design current a persisted circuit can take
// before each constraint starts to warn. Negative values mean the limit is
// already exceeded; +Inf means the constraint cannot bind.
type Headroom struct {
	CircuitID     string
	ThermalAmps   float64 // down to the minimum thermal margin
	VoltageAmps   float64 // up to the voltage drop limit
	ParentAmps    float64 // up to the parent loading limit; +Inf without a registered parent
	LimitingAmps  float64
	LimitingCheck string
}

// AnalyzeHeadroom computes the thermal and voltage headroom of a single
// circuit, with diversity applied to its loads.
func AnalyzeHeadroom(c Circuit, cfg Config) (Headroom, error) {
	wire, err := LookupWire(c.WireAWG)
	if err != nil {
		return Headroom{}, err
	}
	t, err := AnalyzeThermal(c, cfg)
	if err != nil {
		return Headroom{}, err
	}

	h := Headroom{
		CircuitID:   c.ID,
		ThermalAmps: t.DeratedAmpacity*(1-cfg.ThermalMarginMinPercent/100) - t.DesignCurrent,
		VoltageAmps: math.Inf(1),
		ParentAmps:  math.Inf(1),
	}
	if r := roundTripResistance(wire, c.LengthFt); r > 0 {
		h.VoltageAmps = cfg.VoltageDropLimitPercent/100*c.VoltageRating/r - t.DesignCurrent
	}
	h.pickLimit()
	return h, nil
}

// Headroom analyzes a persisted circuit, including the room left on its
// parent when the parent is registered.
func (v *Validator) Headroom(id string) (Headroom, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	c, ok := v.circuits[id]
	if !ok {
		return Headroom{}, fmt.Errorf("%w: %q", ErrCircuitNotFound, id)
	}
	h, err := AnalyzeHeadroom(c, v.cfg)
	if err != nil {
		return Headroom{}, err
	}

	if c.ParentID != "" {
		pt, ok, err := v.parentThermal(c.ParentID)
		if err != nil {
			return Headroom{}, err
		}
		if ok {
			h.ParentAmps = pt.DeratedAmpacity*v.cfg.ParentLoadingLimitPercent/100 - pt.DesignCurrent
			h.pickLimit()
		}
	}
	return h, nil
}

func (h *Headroom) pickLimit() {
	h.LimitingAmps, h.LimitingCheck = h.ThermalAmps, LimitThermal
	if h.VoltageAmps < h.LimitingAmps {
		h.LimitingAmps, h.LimitingCheck = h.VoltageAmps, LimitVoltageDrop
	}
	if h.ParentAmps < h.LimitingAmps {
		h.LimitingAmps, h.LimitingCheck = h.ParentAmps, LimitParentLoading
	}
}
