package circuitcheck

import (
	"encoding/json"
	"fmt"
)

// Severity grades a constraint check.
type Severity string

const (
	SeverityInfo     Severity = "info"     // within limits
	SeverityWarning  Severity = "warning"  // limit crossed, circuit still operable
	SeverityCritical Severity = "critical" // must be fixed before installation
)

// rank orders severities for sorting, most severe first.
func (s Severity) rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

// Check names.
const (
	CheckConductorAmpacity = "Conductor Ampacity"
	CheckVoltageDrop       = "Voltage Drop"
	CheckParentLoading     = "Parent Circuit Loading"
	CheckCurrentTHD        = "Current THD"
	CheckFaultInterrupting = "Fault Interrupting Capacity"
)

// ConstraintCheck is one named pass/fail verdict. It is built once per
// evaluation and never mutated.
type ConstraintCheck struct {
	Name           string   `json:"constraint_name"`
	CurrentValue   float64  `json:"current_value"`
	LimitValue     float64  `json:"limit_value"`
	MarginPercent  float64  `json:"margin_percent"`
	Passes         bool     `json:"passes_check"`
	Severity       Severity `json:"severity_level"`
	Recommendation string   `json:"recommendation"`
}

// MarshalJSON encodes non-finite values (loading against a zero rating) as
// null.
func (c ConstraintCheck) MarshalJSON() ([]byte, error) {
	type plain ConstraintCheck
	return json.Marshal(struct {
		plain
		CurrentValue  *float64 `json:"current_value"`
		LimitValue    *float64 `json:"limit_value"`
		MarginPercent *float64 `json:"margin_percent"`
	}{
		plain:         plain(c),
		CurrentValue:  finite(c.CurrentValue),
		LimitValue:    finite(c.LimitValue),
		MarginPercent: finite(c.MarginPercent),
	})
}

// ampacityCheck grades the thermal margin: negative is critical, below the
// configured minimum is a warning.
func ampacityCheck(t ThermalResult, cfg Config) ConstraintCheck {
	c := ConstraintCheck{
		Name:           CheckConductorAmpacity,
		CurrentValue:   t.DeratedAmpacity,
		LimitValue:     t.DesignCurrent,
		MarginPercent:  t.MarginPercent,
		Passes:         t.MarginPercent >= cfg.ThermalMarginMinPercent,
		Severity:       SeverityInfo,
		Recommendation: "Adequate thermal margin",
	}
	switch {
	case t.MarginPercent < 0:
		c.Severity = SeverityCritical
		c.Recommendation = "Increase wire size or reduce load"
	case t.MarginPercent < cfg.ThermalMarginMinPercent:
		c.Severity = SeverityWarning
		c.Recommendation = "Increase wire size or reduce load"
	}
	return c
}

// voltageDropCheck fails critically whenever the drop exceeds the limit.
func voltageDropCheck(v VoltageDropResult, cfg Config) ConstraintCheck {
	limit := cfg.VoltageDropLimitPercent
	c := ConstraintCheck{
		Name:           CheckVoltageDrop,
		CurrentValue:   v.DropPercent,
		LimitValue:     limit,
		MarginPercent:  (limit - v.DropPercent) / limit * 100,
		Passes:         v.MeetsLimit,
		Severity:       SeverityInfo,
		Recommendation: "Voltage drop acceptable",
	}
	if !v.MeetsLimit {
		c.Severity = SeverityCritical
	}
	switch v.RecommendedUpgrade {
	case "":
	case NeedsEngineerReview:
		c.Recommendation = "No standard conductor meets the limit; needs engineer review (consider a higher supply voltage)"
	default:
		c.Recommendation = fmt.Sprintf("Upgrade to %s", v.RecommendedUpgrade)
	}
	return c
}

// parentLoadingCheck grades the parent's loading in percent of its derated
// ampacity. Margin is in percentage points, not relative.
func parentLoadingCheck(loadingPercent float64, cfg Config) ConstraintCheck {
	limit := cfg.ParentLoadingLimitPercent
	c := ConstraintCheck{
		Name:           CheckParentLoading,
		CurrentValue:   loadingPercent,
		LimitValue:     limit,
		MarginPercent:  limit - loadingPercent,
		Passes:         loadingPercent <= limit,
		Severity:       SeverityInfo,
		Recommendation: "Parent circuit adequate",
	}
	switch {
	case loadingPercent > 100:
		c.Severity = SeverityCritical
		c.Recommendation = "Upgrade parent circuit or redistribute loads"
	case loadingPercent > limit:
		c.Severity = SeverityWarning
		c.Recommendation = "Upgrade parent circuit or redistribute loads"
	}
	return c
}

// thdCheck warns above the current-THD limit; distortion alone is never
// critical.
func thdCheck(h HarmonicResult, cfg Config) ConstraintCheck {
	limit := cfg.THDCurrentLimitPercent
	c := ConstraintCheck{
		Name:           CheckCurrentTHD,
		CurrentValue:   h.THDCurrentPercent,
		LimitValue:     limit,
		MarginPercent:  (limit - h.THDCurrentPercent) / limit * 100,
		Passes:         h.THDCurrentPercent <= limit,
		Severity:       SeverityInfo,
		Recommendation: "Harmonic levels acceptable",
	}
	if !c.Passes {
		c.Severity = SeverityWarning
		c.Recommendation = "Consider harmonic filtering"
	}
	return c
}

// faultCheck compares available fault current with the device's
// interrupting rating. A negative coordination margin is critical; a margin
// thinner than 1 − FaultSafetyMargin warns.
func faultCheck(f FaultResult, interrupting float64, cfg Config) ConstraintCheck {
	minMargin := (1 - cfg.FaultSafetyMargin) * 100
	margin := f.CoordinationMargin * 100
	c := ConstraintCheck{
		Name:           CheckFaultInterrupting,
		CurrentValue:   f.AvailableFaultCurrent,
		LimitValue:     interrupting,
		MarginPercent:  margin,
		Passes:         margin >= minMargin,
		Severity:       SeverityInfo,
		Recommendation: "Interrupting rating adequate",
	}
	switch {
	case margin < 0:
		c.Severity = SeverityCritical
		c.Recommendation = "Replace protection device with a higher interrupting rating"
	case margin < minMargin:
		c.Severity = SeverityWarning
		c.Recommendation = "Interrupting rating close to available fault current; review coordination"
	}
	return c
}

// CountSeverity returns the number of checks with severity s.
func CountSeverity(checks []ConstraintCheck, s Severity) int {
	n := 0
	for _, c := range checks {
		if c.Severity == s {
			n++
		}
	}
	return n
}

// FindCheck returns the first check with the given name.
func FindCheck(checks []ConstraintCheck, name string) (ConstraintCheck, bool) {
	for _, c := range checks {
		if c.Name == name {
			return c, true
		}
	}
	return ConstraintCheck{}, false
}
