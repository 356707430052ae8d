package circuitcheck

import (
	"io"
	"log/slog"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestValidator(t *testing.T, cfg Config) *Validator {
	t.Helper()
	v, err := New(cfg, quietLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return v
}

func load(id string, category LoadCategory, amps float64) Load {
	return Load{
		ID:              id,
		Category:        category,
		NominalVoltage:  120,
		NominalCurrent:  amps,
		PowerFactor:     1,
		DiversityFactor: 1,
	}
}

func breaker(id string, rating, interrupting float64) ProtectionDevice {
	return ProtectionDevice{
		ID:                 id,
		Type:               ProtectionBreaker,
		CurrentRating:      rating,
		VoltageRating:      240,
		InterruptingRating: interrupting,
		TripCurve:          "C",
	}
}

// branch is a 120 V, three-conductor branch circuit at 30°C ambient.
func branch(id, awg string, lengthFt float64, parent string, loads ...Load) Circuit {
	return Circuit{
		ID:            id,
		Type:          CircuitBranch,
		WireAWG:       awg,
		LengthFt:      lengthFt,
		AmbientC:      30,
		Conductors:    3,
		VoltageRating: 120,
		Loads:         loads,
		Protection:    breaker(id+"-cb", 20, 10000),
		ParentID:      parent,
	}
}

// feeder is a load-free 6 AWG feeder: 65 A at 75°C, 59.15 A derated at 30°C.
func feeder(id string) Circuit {
	c := branch(id, "6", 20, "")
	c.Type = CircuitFeeder
	c.VoltageRating = 240
	c.Protection = breaker(id+"-main", 60, 22000)
	return c
}
