package circuitcheck

import (
	"context"
	"math"
	"runtime"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"
)

// BatchConfig controls ValidateBatch.
type BatchConfig struct {
	Workers int // concurrent evaluations (0 = GOMAXPROCS)
}

// DefaultBatchConfig returns one worker per available processor.
func DefaultBatchConfig() BatchConfig {
	return BatchConfig{Workers: runtime.GOMAXPROCS(0)}
}

// BatchResult is the outcome of one candidate in a batch.
type BatchResult struct {
	CircuitID string
	Checks    []ConstraintCheck
	Status    OverallStatus // empty when Err is set
	Err       error
	Duration  time.Duration
}

// ValidateBatch evaluates independent candidates concurrently. Each candidate
// runs against its own Clone of v, so candidates never see one another and v
// itself is left untouched. Results are returned in input order.
//
// Per-candidate failures are reported in BatchResult.Err. The returned error
// is non-nil only when ctx is cancelled; candidates not yet started are then
// marked with the context's error.
func ValidateBatch(ctx context.Context, v *Validator, candidates []Circuit, cfg BatchConfig) ([]BatchResult, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]BatchResult, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, c := range candidates {
		results[i].CircuitID = c.ID
		if err := gctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].Err = err
				return err
			}

			start := time.Now()
			checks, err := v.Clone().Validate(c)
			results[i].Duration = time.Since(start)
			results[i].Checks = checks
			results[i].Err = err
			if err == nil {
				results[i].Status = OverallStatusOf(checks)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}

// BatchSummary aggregates a finished batch.
type BatchSummary struct {
	Total    int
	Pass     int
	Warnings int
	Fail     int
	Errors   int

	Mean time.Duration
	P50  time.Duration
	P95  time.Duration
	Max  time.Duration
}

// Summarize counts verdicts and computes latency percentiles over the
// candidates that were evaluated.
func Summarize(results []BatchResult) BatchSummary {
	s := BatchSummary{Total: len(results)}

	latencies := make([]time.Duration, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			s.Errors++
		}
		switch r.Status {
		case StatusPass:
			s.Pass++
		case StatusPassWithWarnings:
			s.Warnings++
		case StatusFail:
			s.Fail++
		}
		if r.Duration > 0 {
			latencies = append(latencies, r.Duration)
		}
	}
	if len(latencies) == 0 {
		return s
	}

	slices.Sort(latencies)
	var sum time.Duration
	for _, d := range latencies {
		sum += d
	}
	s.Mean = sum / time.Duration(len(latencies))
	s.P50 = latencies[percentileIndex(len(latencies), 50)]
	s.P95 = latencies[percentileIndex(len(latencies), 95)]
	s.Max = latencies[len(latencies)-1]
	return s
}

func percentileIndex(n, p int) int {
	return min(n-1, int(math.Floor(float64(n*p)/100)))
}
