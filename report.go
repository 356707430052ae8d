package circuitcheck

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// OverallStatus is the integration verdict for a candidate circuit.
type OverallStatus string

const (
	StatusPass             OverallStatus = "PASS"               // no warning or critical check
	StatusPassWithWarnings OverallStatus = "PASS_WITH_WARNINGS" // warnings only
	StatusFail             OverallStatus = "FAIL"               // at least one critical check
)

// RiskTier estimates how risky the installation is as proposed.
type RiskTier string

const (
	RiskLow    RiskTier = "LOW"
	RiskMedium RiskTier = "MEDIUM" // ≥1 critical or >3 warnings
	RiskHigh   RiskTier = "HIGH"   // >2 criticals
)

// Modification is a change required before the circuit can be installed.
type Modification struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
}

// ImpactSummary counts what the candidate does to the system.
type ImpactSummary struct {
	AffectsParentCircuit bool `json:"affects_parent_circuit"`
	CriticalIssues       int  `json:"critical_issues_count"`
	Warnings             int  `json:"warnings_count"`
}

// IntegrationReport is the full result of evaluating one candidate circuit.
// It is a plain value; persisting it is up to the caller.
type IntegrationReport struct {
	ID                    string            `json:"report_id"`
	CircuitID             string            `json:"circuit_id"`
	GeneratedAt           time.Time         `json:"analysis_timestamp"`
	OverallStatus         OverallStatus     `json:"overall_status"`
	ConstraintChecks      []ConstraintCheck `json:"constraint_checks"`
	ThermalAnalysis       ThermalResult     `json:"thermal_analysis"`
	VoltageAnalysis       VoltageDropResult `json:"voltage_analysis"`
	HarmonicAnalysis      HarmonicResult    `json:"harmonic_analysis"`
	FaultAnalysis         FaultResult       `json:"fault_analysis"`
	LoadAnalysis          LoadProfile       `json:"load_analysis"`
	Recommendations       []string          `json:"recommendations"`
	RequiredModifications []Modification    `json:"required_modifications"`
	RiskTier              RiskTier          `json:"estimated_implementation_risk"`
	Impact                ImpactSummary     `json:"system_impact_summary"`
}

// GenerateReport grafts candidate, evaluates it, and folds the checks and
// raw analyses into an IntegrationReport. The candidate is released on every
// return path, exactly as in Validate.
func (v *Validator) GenerateReport(candidate Circuit) (report IntegrationReport, err error) {
	start := time.Now()
	defer func() {
		evaluationDuration.WithLabelValues("report").Observe(time.Since(start).Seconds())
		recordChecks("report", report.ConstraintChecks, err)
	}()

	if err = candidate.Validate(); err != nil {
		return IntegrationReport{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	g := v.graft(candidate.clone())
	defer g.release()

	ev, err := v.evaluate(candidate.ID)
	if err != nil {
		v.logger.Warn("report generation failed", "circuit_id", candidate.ID, "error", err)
		return IntegrationReport{}, err
	}

	report = buildReport(candidate, ev)
	v.logger.Info("integration report generated",
		"circuit_id", candidate.ID,
		"report_id", report.ID,
		"status", report.OverallStatus,
		"risk", report.RiskTier,
	)
	return report, nil
}

func buildReport(candidate Circuit, ev evaluation) IntegrationReport {
	criticals := CountSeverity(ev.checks, SeverityCritical)
	warnings := CountSeverity(ev.checks, SeverityWarning)

	return IntegrationReport{
		ID:                    uuid.NewString(),
		CircuitID:             candidate.ID,
		GeneratedAt:           time.Now().UTC(),
		OverallStatus:         OverallStatusOf(ev.checks),
		ConstraintChecks:      ev.checks,
		ThermalAnalysis:       ev.thermal,
		VoltageAnalysis:       ev.voltage,
		HarmonicAnalysis:      ev.harmonic,
		FaultAnalysis:         ev.fault,
		LoadAnalysis:          ev.load,
		Recommendations:       Recommendations(ev.checks),
		RequiredModifications: RequiredModifications(ev.checks),
		RiskTier:              AssessRisk(ev.checks),
		Impact: ImpactSummary{
			AffectsParentCircuit: candidate.ParentID != "",
			CriticalIssues:       criticals,
			Warnings:             warnings,
		},
	}
}

// OverallStatusOf is FAIL if any check is critical, PASS_WITH_WARNINGS if
// any is a warning, PASS otherwise.
func OverallStatusOf(checks []ConstraintCheck) OverallStatus {
	switch {
	case CountSeverity(checks, SeverityCritical) > 0:
		return StatusFail
	case CountSeverity(checks, SeverityWarning) > 0:
		return StatusPassWithWarnings
	default:
		return StatusPass
	}
}

// AssessRisk classifies implementation risk from the check severities.
func AssessRisk(checks []ConstraintCheck) RiskTier {
	criticals := CountSeverity(checks, SeverityCritical)
	warnings := CountSeverity(checks, SeverityWarning)

	switch {
	case criticals > 2:
		return RiskHigh
	case criticals > 0 || warnings > 3:
		return RiskMedium
	default:
		return RiskLow
	}
}

// Recommendations lists "name: recommendation" for every failing check,
// critical findings first, then warnings, then anything else. Order within
// a tier follows the check order.
func Recommendations(checks []ConstraintCheck) []string {
	failing := make([]ConstraintCheck, 0, len(checks))
	for _, c := range checks {
		if !c.Passes {
			failing = append(failing, c)
		}
	}
	slices.SortStableFunc(failing, func(a, b ConstraintCheck) int {
		return a.Severity.rank() - b.Severity.rank()
	})

	out := make([]string, 0, len(failing))
	for _, c := range failing {
		out = append(out, fmt.Sprintf("%s: %s", c.Name, c.Recommendation))
	}
	return out
}

// modificationFor maps a critical check to the change it demands.
var modificationFor = map[string]Modification{
	CheckConductorAmpacity: {
		Type:        "wire_upgrade",
		Description: "Increase conductor size to handle load",
		Priority:    "high",
	},
	CheckVoltageDrop: {
		Type:        "wire_upgrade_or_voltage_increase",
		Description: "Reduce circuit resistance or increase supply voltage",
		Priority:    "high",
	},
	CheckParentLoading: {
		Type:        "panel_upgrade",
		Description: "Upgrade parent circuit or redistribute loads",
		Priority:    "high",
	},
	CheckFaultInterrupting: {
		Type:        "protection_upgrade",
		Description: "Install a protection device rated for the available fault current",
		Priority:    "high",
	},
}

// RequiredModifications returns one modification per critical check, in
// check order.
func RequiredModifications(checks []ConstraintCheck) []Modification {
	out := []Modification{}
	for _, c := range checks {
		if c.Severity != SeverityCritical {
			continue
		}
		if m, ok := modificationFor[c.Name]; ok {
			out = append(out, m)
		}
	}
	return out
}
