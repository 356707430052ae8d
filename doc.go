// Package circuitcheck decides whether a proposed electrical circuit can be
// added to an existing installation.
//
// # Overview
//
// A candidate circuit is evaluated against engineering constraints: conductor
// ampacity after ambient and bundling derating, voltage drop at the load end,
// the loading it adds to its parent circuit, harmonic distortion and,
// optionally, the protection device's interrupting capacity. Each constraint
// yields a ConstraintCheck with a pass/fail verdict and a severity; the checks
// fold into an overall status (PASS, PASS_WITH_WARNINGS, FAIL) and a risk tier.
//
// # Architecture
//
// The package components:
//
//   - wire.go       - Fixed conductor table (14 AWG to 500 kcmil)
//   - load.go       - Load aggregation, 125% continuous rule, daily profile
//   - thermal.go    - Derated ampacity, conductor temperature, time to limit
//   - voltage.go    - Round-trip voltage drop and upgrade recommendation
//   - fault.go      - Bolted and arcing fault current, clearing time
//   - harmonic.go   - Current THD, k-factor, triplen neutral loading
//   - validator.go  - Circuit registry, hierarchy and candidate evaluation
//   - report.go     - Integration report, recommendations, risk tier
//   - headroom.go   - Spare capacity of installed circuits
//   - batch.go      - Concurrent evaluation of independent candidates
//   - system.go     - YAML/JSON installation files
//   - metrics.go    - Prometheus counters and latency histogram
//   - assertions.go - Test helpers for callers' test suites
//
// Persistence lives in the store sub-package; the operator CLI is
// cmd/circuitcheck.
//
// # Quick Start
//
// Register the existing installation, then validate a candidate:
//
//	v, err := circuitcheck.New(circuitcheck.DefaultConfig(), slog.Default())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := v.AddCircuit(panel); err != nil {
//	    log.Fatal(err)
//	}
//
//	checks, err := v.Validate(candidate)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	switch circuitcheck.OverallStatusOf(checks) {
//	case circuitcheck.StatusPass:
//	    // install as proposed
//	case circuitcheck.StatusPassWithWarnings:
//	    // install, review the warnings
//	case circuitcheck.StatusFail:
//	    report, _ := v.GenerateReport(candidate)
//	    for _, m := range report.RequiredModifications {
//	        fmt.Println(m.Type, m.Description)
//	    }
//	}
//
// # Candidate Isolation
//
// Validate and GenerateReport graft the candidate into the registry so that
// parent loading sees it alongside its siblings, then release it before
// returning, on error paths too. A persisted circuit with the candidate's ID
// is displaced for the duration and restored at its original position among
// its siblings. After the call the registry is exactly as before, which makes
// repeated validation of the same candidate return identical checks.
//
// # Design Current
//
// Loads of category lighting or electronic, and any load flagged critical,
// are continuous and count at 125%:
//
//	I_design = 1.25 × I_continuous + I_non-continuous
//
// Diversity factors scale each load's nominal current for thermal and
// voltage analysis. Harmonic analysis uses nameplate currents.
//
// # Approximations
//
// Conductor temperature follows a quadratic heating curve rather than a
// thermal-RC model. Voltage THD is estimated as a fixed fraction of current
// THD and conductor reactance as a fixed Ω/ft; both constants live in Config.
// Results are screening estimates, not a substitute for a stamped design.
package circuitcheck
