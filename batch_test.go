package circuitcheck

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBatch_InputOrderAndIsolation(t *testing.T) {
	v := panelWithChild(t, DefaultConfig())

	candidates := []Circuit{
		branch("ok", "12", 50, "panel", load("lamp", LoadResistive, 2)),
		branch("warn", "12", 50, "panel", load("kettle", LoadResistive, 10)),
		branch("bad", "13", 50, "panel"),
		branch("fail", "10", 50, "panel", load("dryer", LoadResistive, 25)),
	}

	results, err := ValidateBatch(context.Background(), v, candidates, BatchConfig{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, len(candidates))

	for i, r := range results {
		assert.Equal(t, candidates[i].ID, r.CircuitID)
	}
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusPassWithWarnings, results[1].Status)
	assert.ErrorIs(t, results[2].Err, ErrUnknownWireSize)
	assert.Empty(t, results[2].Status)
	assert.Equal(t, StatusFail, results[3].Status)

	// Every candidate saw only the base hierarchy, never its batch siblings.
	for _, i := range []int{0, 1, 3} {
		c, ok := FindCheck(results[i].Checks, CheckParentLoading)
		require.True(t, ok)
		design := Aggregate(candidates[i].Loads, true).DesignCurrent
		assert.InDelta(t, (40+design)/59.15*100, c.CurrentValue, 1e-9)
	}

	assert.Equal(t, 2, v.Len())
	assert.Equal(t, []string{"lights"}, v.Children("panel"))
}

func TestValidateBatch_MatchesSequential(t *testing.T) {
	v := panelWithChild(t, DefaultConfig())
	candidates := []Circuit{
		branch("a", "12", 50, "panel", load("a", LoadElectronic, 6)),
		branch("b", "14", 120, "panel", load("b", LoadResistive, 12)),
		branch("c", "10", 80, "panel", load("c", LoadMotor, 15)),
	}

	results, err := ValidateBatch(context.Background(), v, candidates, DefaultBatchConfig())
	require.NoError(t, err)

	for i, c := range candidates {
		want, err := v.Validate(c)
		require.NoError(t, err)
		assert.Equal(t, want, results[i].Checks, c.ID)
	}
}

func TestValidateBatch_Cancelled(t *testing.T) {
	v := newTestValidator(t, DefaultConfig())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	candidates := []Circuit{
		branch("a", "12", 50, ""),
		branch("b", "12", 50, ""),
	}
	results, err := ValidateBatch(ctx, v, candidates, BatchConfig{Workers: 1})
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
		assert.Nil(t, r.Checks)
	}
}

func TestSummarize(t *testing.T) {
	results := []BatchResult{
		{Status: StatusPass, Duration: 1 * time.Millisecond},
		{Status: StatusPass, Duration: 3 * time.Millisecond},
		{Status: StatusPassWithWarnings, Duration: 2 * time.Millisecond},
		{Status: StatusFail, Duration: 4 * time.Millisecond},
		{Err: context.Canceled},
	}

	s := Summarize(results)
	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 2, s.Pass)
	assert.Equal(t, 1, s.Warnings)
	assert.Equal(t, 1, s.Fail)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 2500*time.Microsecond, s.Mean)
	assert.Equal(t, 3*time.Millisecond, s.P50)
	assert.Equal(t, 4*time.Millisecond, s.P95)
	assert.Equal(t, 4*time.Millisecond, s.Max)

	assert.Equal(t, BatchSummary{}, Summarize(nil))
}
