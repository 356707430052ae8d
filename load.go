package circuitcheck

import (
	"maps"
	"slices"
)

// ContinuousDemandFactor rates continuous loads at 125% of their current.
const ContinuousDemandFactor = 1.25

// LoadProfile is the aggregate demand of a set of loads.
type LoadProfile struct {
	ContinuousCurrent    float64         `json:"continuous_current"`
	NonContinuousCurrent float64         `json:"non_continuous_current"`
	DesignCurrent        float64         `json:"design_current"`      // continuous × 1.25 + non-continuous
	MotorStartingPeak    float64         `json:"motor_starting_peak"` // largest single motor inrush
	HarmonicCurrents     map[int]float64 `json:"harmonic_currents"`   // order → amps
}

// Aggregate converts loads into design current, motor inrush peak and
// per-harmonic-order current. With applyDiversity each load's nominal current
// is scaled by its diversity factor. Schedules are ignored.
func Aggregate(loads []Load, applyDiversity bool) LoadProfile {
	return aggregate(loads, applyDiversity, -1)
}

// AggregateAt is Aggregate with each load further scaled by its schedule
// entry for hour (taken modulo 24). Loads whose schedule has no entry for
// that hour are not scaled.
func AggregateAt(loads []Load, applyDiversity bool, hour int) LoadProfile {
	return aggregate(loads, applyDiversity, ((hour%24)+24)%24)
}

// aggregate is the shared body; hour < 0 disables schedule scaling.
func aggregate(loads []Load, applyDiversity bool, hour int) LoadProfile {
	p := LoadProfile{HarmonicCurrents: map[int]float64{}}

	for _, l := range loads {
		base := l.NominalCurrent
		if applyDiversity {
			base *= l.DiversityFactor
		}
		if hour >= 0 && hour < len(l.Schedule) {
			base *= l.Schedule[hour]
		}

		if l.continuous() {
			p.ContinuousCurrent += base
		} else {
			p.NonContinuousCurrent += base
		}

		// Only the dominant inrush sizes the circuit; starts are not summed.
		if l.Category == LoadMotor {
			p.MotorStartingPeak = max(p.MotorStartingPeak, base*l.StartingCurrentMultiplier)
		}

		for _, order := range harmonicOrders(l.Harmonics) {
			p.HarmonicCurrents[order] += base * l.Harmonics[order]
		}
	}

	p.DesignCurrent = p.ContinuousCurrent*ContinuousDemandFactor + p.NonContinuousCurrent
	return p
}

// DailyProfile returns the design current for each hour of the day, with
// diversity applied.
func DailyProfile(loads []Load) [24]float64 {
	var out [24]float64
	for h := range out {
		out[h] = aggregate(loads, true, h).DesignCurrent
	}
	return out
}

// PeakHour returns the hour with the highest design current and that current.
// Ties resolve to the earliest hour.
func PeakHour(loads []Load) (int, float64) {
	profile := DailyProfile(loads)
	peak := 0
	for h, current := range profile {
		if current > profile[peak] {
			peak = h
		}
	}
	return peak, profile[peak]
}

// harmonicOrders returns the keys of a harmonic map in ascending order so
// that floating-point sums are repeatable.
func harmonicOrders(m map[int]float64) []int {
	return slices.Sorted(maps.Keys(m))
}
