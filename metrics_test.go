package circuitcheck

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordOutcomes(t *testing.T) {
	v := panelWithChild(t, DefaultConfig())

	failBefore := testutil.ToFloat64(validationsTotal.WithLabelValues("validate", string(StatusFail)))
	errBefore := testutil.ToFloat64(validationsTotal.WithLabelValues("validate", "error"))
	parentBefore := testutil.ToFloat64(checksTotal.WithLabelValues(CheckParentLoading, string(SeverityCritical)))
	reportBefore := testutil.ToFloat64(validationsTotal.WithLabelValues("report", string(StatusFail)))

	dryer := branch("dryer", "10", 50, "panel", load("dryer", LoadResistive, 25))
	_, err := v.Validate(dryer)
	require.NoError(t, err)
	_, err = v.Validate(branch("bad", "13", 50, ""))
	require.Error(t, err)
	_, err = v.GenerateReport(dryer)
	require.NoError(t, err)

	assert.Equal(t, failBefore+1, testutil.ToFloat64(validationsTotal.WithLabelValues("validate", string(StatusFail))))
	assert.Equal(t, errBefore+1, testutil.ToFloat64(validationsTotal.WithLabelValues("validate", "error")))
	assert.Equal(t, parentBefore+2, testutil.ToFloat64(checksTotal.WithLabelValues(CheckParentLoading, string(SeverityCritical))))
	assert.Equal(t, reportBefore+1, testutil.ToFloat64(validationsTotal.WithLabelValues("report", string(StatusFail))))
}
