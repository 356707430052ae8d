package circuitcheck

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"testing"
)

// AssertRegistryUnchanged runs fn and verifies the validator's registry and
// hierarchy are exactly as they were before, including child order.
//
// Use it around Validate and GenerateReport calls to prove the candidate was
// released on every path:
//
//	AssertRegistryUnchanged(t, v, func() { v.Validate(bad) })
func AssertRegistryUnchanged(t *testing.T, v *Validator, fn func()) {
	t.Helper()

	before := v.Clone()
	fn()
	after := v.Clone()

	if !reflect.DeepEqual(before.circuits, after.circuits) {
		t.Errorf("Registry changed:\n  before: %v\n  after:  %v",
			slices.Sorted(maps.Keys(before.circuits)), slices.Sorted(maps.Keys(after.circuits)))
	}
	if !reflect.DeepEqual(before.children, after.children) {
		t.Errorf("Hierarchy changed:\n  before: %v\n  after:  %v", before.children, after.children)
	}
}

// AssertCheck verifies the named check is present with the given verdict.
func AssertCheck(t *testing.T, checks []ConstraintCheck, name string, passes bool, severity Severity) {
	t.Helper()

	c, ok := FindCheck(checks, name)
	if !ok {
		t.Fatalf("Check %q missing from %v", name, checkNames(checks))
	}
	if c.Passes != passes {
		t.Errorf("%s: passes = %v, want %v (value %.3f, limit %.3f)",
			name, c.Passes, passes, c.CurrentValue, c.LimitValue)
	}
	if c.Severity != severity {
		t.Errorf("%s: severity = %s, want %s (margin %.2f%%)",
			name, c.Severity, severity, c.MarginPercent)
	}
}

// AssertNoCheck verifies the named check was not produced.
func AssertNoCheck(t *testing.T, checks []ConstraintCheck, name string) {
	t.Helper()

	if _, ok := FindCheck(checks, name); ok {
		t.Errorf("Unexpected check %q in %v", name, checkNames(checks))
	}
}

// AssertStatus verifies the overall verdict of a set of checks.
func AssertStatus(t *testing.T, checks []ConstraintCheck, want OverallStatus) {
	t.Helper()

	if got := OverallStatusOf(checks); got != want {
		t.Errorf("Overall status = %s, want %s\n%s", got, want, formatChecks(checks))
	}
}

// PrintChecks writes the checks to the test log as a table.
func PrintChecks(t *testing.T, checks []ConstraintCheck) {
	t.Helper()
	t.Logf("\n%s", formatChecks(checks))
}

func checkNames(checks []ConstraintCheck) []string {
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name
	}
	return names
}

func formatChecks(checks []ConstraintCheck) string {
	out := fmt.Sprintf("  %-28s %10s %10s %9s  %-8s %s\n", "Check", "Value", "Limit", "Margin", "Severity", "Pass")
	for _, c := range checks {
		mark := "✓"
		if !c.Passes {
			mark = "✗"
		}
		out += fmt.Sprintf("  %-28s %10.3f %10.3f %8.1f%%  %-8s %s\n",
			c.Name, c.CurrentValue, c.LimitValue, c.MarginPercent, c.Severity, mark)
	}
	return out
}
