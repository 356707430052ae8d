package circuitcheck

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "circuitcheck"

var (
	// validationsTotal counts evaluations by outcome.
	// Labels: operation (validate, report), status (PASS, PASS_WITH_WARNINGS, FAIL, error)
	validationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "validations_total",
		Help:      "Candidate circuit evaluations by operation and outcome",
	}, []string{"operation", "status"})

	// checksTotal counts produced constraint checks.
	// Labels: check (constraint name), severity (info, warning, critical)
	checksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Name:      "checks_total",
		Help:      "Constraint checks produced by name and severity",
	}, []string{"check", "severity"})

	evaluationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Name:      "evaluation_duration_seconds",
		Help:      "Time to graft, evaluate and release a candidate circuit",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	}, []string{"operation"})
)

// recordChecks updates the counters for one finished evaluation.
func recordChecks(operation string, checks []ConstraintCheck, err error) {
	if err != nil {
		validationsTotal.WithLabelValues(operation, "error").Inc()
		return
	}
	validationsTotal.WithLabelValues(operation, string(OverallStatusOf(checks))).Inc()
	for _, c := range checks {
		checksTotal.WithLabelValues(c.Name, string(c.Severity)).Inc()
	}
}
