package circuitcheck

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checksWith(severities ...Severity) []ConstraintCheck {
	out := make([]ConstraintCheck, len(severities))
	for i, s := range severities {
		out[i] = ConstraintCheck{
			Name:     string(rune('A' + i)),
			Passes:   s == SeverityInfo,
			Severity: s,
		}
	}
	return out
}

func TestOverallStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		checks []ConstraintCheck
		want   OverallStatus
	}{
		{"no checks", nil, StatusPass},
		{"all info", checksWith(SeverityInfo, SeverityInfo), StatusPass},
		{"one warning", checksWith(SeverityInfo, SeverityWarning), StatusPassWithWarnings},
		{"critical wins", checksWith(SeverityWarning, SeverityCritical, SeverityWarning), StatusFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OverallStatusOf(tt.checks))
		})
	}
}

func TestAssessRisk(t *testing.T) {
	c, w, i := SeverityCritical, SeverityWarning, SeverityInfo

	tests := []struct {
		name   string
		checks []ConstraintCheck
		want   RiskTier
	}{
		{"clean", checksWith(i, i, i), RiskLow},
		{"three warnings", checksWith(w, w, w), RiskLow},
		{"four warnings", checksWith(w, w, w, w), RiskMedium},
		{"one critical", checksWith(c, i), RiskMedium},
		{"two criticals", checksWith(c, c), RiskMedium},
		{"three criticals", checksWith(c, c, c), RiskHigh},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AssessRisk(tt.checks))
		})
	}
}

func TestRecommendations_RankedBySeverity(t *testing.T) {
	checks := []ConstraintCheck{
		{Name: "W1", Severity: SeverityWarning, Recommendation: "first warning"},
		{Name: "C1", Severity: SeverityCritical, Recommendation: "first critical"},
		{Name: "OK", Severity: SeverityInfo, Passes: true, Recommendation: "fine"},
		{Name: "W2", Severity: SeverityWarning, Recommendation: "second warning"},
		{Name: "C2", Severity: SeverityCritical, Recommendation: "second critical"},
	}

	assert.Equal(t, []string{
		"C1: first critical",
		"C2: second critical",
		"W1: first warning",
		"W2: second warning",
	}, Recommendations(checks))
}

func TestRequiredModifications(t *testing.T) {
	checks := []ConstraintCheck{
		{Name: CheckConductorAmpacity, Severity: SeverityCritical},
		{Name: CheckVoltageDrop, Severity: SeverityWarning},
		{Name: CheckCurrentTHD, Severity: SeverityCritical},
		{Name: CheckFaultInterrupting, Severity: SeverityCritical},
	}

	mods := RequiredModifications(checks)
	require.Len(t, mods, 2)
	assert.Equal(t, "wire_upgrade", mods[0].Type)
	assert.Equal(t, "protection_upgrade", mods[1].Type)
	for _, m := range mods {
		assert.Equal(t, "high", m.Priority)
	}

	assert.NotNil(t, RequiredModifications(nil))
}

func TestGenerateReport_FailingCandidate(t *testing.T) {
	v := panelWithChild(t, DefaultConfig())
	candidate := branch("dryer", "10", 50, "panel", load("dryer", LoadResistive, 25))

	var report IntegrationReport
	AssertRegistryUnchanged(t, v, func() {
		var err error
		report, err = v.GenerateReport(candidate)
		require.NoError(t, err)
	})

	_, err := uuid.Parse(report.ID)
	assert.NoError(t, err)
	assert.Equal(t, "dryer", report.CircuitID)
	assert.False(t, report.GeneratedAt.IsZero())

	assert.Equal(t, StatusFail, report.OverallStatus)
	assert.Equal(t, RiskMedium, report.RiskTier)
	assert.Equal(t, ImpactSummary{AffectsParentCircuit: true, CriticalIssues: 1}, report.Impact)
	assert.Equal(t, []string{"Parent Circuit Loading: Upgrade parent circuit or redistribute loads"}, report.Recommendations)
	require.Len(t, report.RequiredModifications, 1)
	assert.Equal(t, "panel_upgrade", report.RequiredModifications[0].Type)

	assert.InDelta(t, 31.85, report.ThermalAnalysis.DeratedAmpacity, 1e-9)
	assert.InDelta(t, 25, report.LoadAnalysis.DesignCurrent, 1e-9)
	assert.True(t, report.VoltageAnalysis.MeetsLimit)
	assert.Equal(t, 1.0, report.HarmonicAnalysis.KFactor)
	assert.Greater(t, report.FaultAnalysis.AvailableFaultCurrent, 0.0)

	// Report checks match Validate for the same candidate.
	checks, err := v.Validate(candidate)
	require.NoError(t, err)
	assert.Equal(t, checks, report.ConstraintChecks)
}

func TestGenerateReport_CleanCandidate(t *testing.T) {
	v := newTestValidator(t, DefaultConfig())

	report, err := v.GenerateReport(branch("office", "12", 50, "", load("pc", LoadElectronic, 12)))
	require.NoError(t, err)

	assert.Equal(t, StatusPass, report.OverallStatus)
	assert.Equal(t, RiskLow, report.RiskTier)
	assert.Empty(t, report.Recommendations)
	assert.Empty(t, report.RequiredModifications)
	assert.False(t, report.Impact.AffectsParentCircuit)
}

func TestGenerateReport_Error(t *testing.T) {
	v := panelWithChild(t, DefaultConfig())

	AssertRegistryUnchanged(t, v, func() {
		_, err := v.GenerateReport(branch("bad", "13", 50, "panel"))
		assert.ErrorIs(t, err, ErrUnknownWireSize)
	})
}

func TestGenerateReport_JSONWithInfiniteValues(t *testing.T) {
	v := newTestValidator(t, DefaultConfig())
	hot := branch("attic", "12", 20, "", load("fan", LoadHVAC, 1))
	hot.AmbientC = 60

	report, err := v.GenerateReport(hot)
	require.NoError(t, err)
	assert.Equal(t, StatusFail, report.OverallStatus)

	data, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	checks := decoded["constraint_checks"].([]any)
	ampacity := checks[0].(map[string]any)
	assert.Equal(t, CheckConductorAmpacity, ampacity["constraint_name"])
	assert.Nil(t, ampacity["margin_percent"])
}
