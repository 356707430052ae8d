package circuitcheck

import (
	"fmt"
	"maps"
	"slices"

	"github.com/go-playground/validator/v10"
)

// CircuitType tags a circuit's role in the distribution hierarchy.
type CircuitType string

const (
	CircuitBranch   CircuitType = "branch"
	CircuitFeeder   CircuitType = "feeder"
	CircuitService  CircuitType = "service"
	CircuitSubpanel CircuitType = "subpanel"
)

// LoadCategory classifies a load for demand and inrush rules.
type LoadCategory string

const (
	LoadResistive  LoadCategory = "resistive"
	LoadMotor      LoadCategory = "motor"
	LoadElectronic LoadCategory = "electronic"
	LoadLighting   LoadCategory = "lighting"
	LoadHVAC       LoadCategory = "hvac"
	LoadCritical   LoadCategory = "critical"
)

// ProtectionType is the overcurrent device category.
type ProtectionType string

const (
	ProtectionBreaker ProtectionType = "circuit_breaker"
	ProtectionFuse    ProtectionType = "fuse"
	ProtectionGFCI    ProtectionType = "gfci"
	ProtectionAFCI    ProtectionType = "afci"
)

// Load is a single electrical load specification.
type Load struct {
	ID                        string          `json:"load_id" yaml:"load_id" validate:"required"`
	Category                  LoadCategory    `json:"load_type" yaml:"load_type" validate:"oneof=resistive motor electronic lighting hvac critical"`
	NominalVoltage            float64         `json:"nominal_voltage" yaml:"nominal_voltage" validate:"gte=0"`
	NominalCurrent            float64         `json:"nominal_current" yaml:"nominal_current" validate:"gte=0"`
	NominalPower              float64         `json:"nominal_power" yaml:"nominal_power" validate:"gte=0"`
	PowerFactor               float64         `json:"power_factor" yaml:"power_factor" validate:"gte=0,lte=1"`
	StartingCurrentMultiplier float64         `json:"starting_current_multiplier" yaml:"starting_current_multiplier" validate:"gte=0"`
	DiversityFactor           float64         `json:"diversity_factor" yaml:"diversity_factor" validate:"gte=0,lte=1"`
	Critical                  bool            `json:"critical_load" yaml:"critical_load"`
	Harmonics                 map[int]float64 `json:"harmonic_content,omitempty" yaml:"harmonic_content,omitempty" validate:"dive,keys,gte=2,endkeys,gte=0"`
	Schedule                  []float64       `json:"operating_schedule,omitempty" yaml:"operating_schedule,omitempty" validate:"max=24,dive,gte=0,lte=1"`
}

// continuous reports whether the load is rated at 125% for demand.
func (l Load) continuous() bool {
	return l.Critical || l.Category == LoadLighting || l.Category == LoadElectronic
}

// ProtectionDevice is the overcurrent device feeding a circuit.
type ProtectionDevice struct {
	ID                          string             `json:"device_id" yaml:"device_id" validate:"required"`
	Type                        ProtectionType     `json:"protection_type" yaml:"protection_type" validate:"oneof=circuit_breaker fuse gfci afci"`
	CurrentRating               float64            `json:"current_rating" yaml:"current_rating" validate:"gt=0"`
	VoltageRating               float64            `json:"voltage_rating" yaml:"voltage_rating" validate:"gte=0"`
	InterruptingRating          float64            `json:"interrupting_rating" yaml:"interrupting_rating" validate:"gt=0"`
	TripCurve                   string             `json:"trip_curve_type" yaml:"trip_curve_type"`
	InstantaneousTripMultiplier float64            `json:"instantaneous_trip_multiplier" yaml:"instantaneous_trip_multiplier" validate:"gte=0"`
	TimeDelay                   map[string]float64 `json:"time_delay_characteristics,omitempty" yaml:"time_delay_characteristics,omitempty"`
}

// Circuit is a branch, feeder, service or subpanel circuit.
// WireAWG must resolve in the wire table; analyzers fail with
// ErrUnknownWireSize otherwise.
type Circuit struct {
	ID                 string           `json:"circuit_id" yaml:"circuit_id" validate:"required"`
	Type               CircuitType      `json:"circuit_type" yaml:"circuit_type" validate:"oneof=branch feeder service subpanel"`
	WireAWG            string           `json:"wire_awg" yaml:"wire_awg" validate:"required"`
	LengthFt           float64          `json:"wire_length_ft" yaml:"wire_length_ft" validate:"gte=0"`
	ConduitFillPercent float64          `json:"conduit_fill_percentage" yaml:"conduit_fill_percentage" validate:"gte=0,lte=100"`
	AmbientC           float64          `json:"ambient_temperature_c" yaml:"ambient_temperature_c" validate:"gte=-273.15"`
	Conductors         int              `json:"number_of_conductors" yaml:"number_of_conductors" validate:"gte=1"`
	VoltageRating      float64          `json:"voltage_rating" yaml:"voltage_rating" validate:"gt=0"`
	Loads              []Load           `json:"loads" yaml:"loads" validate:"dive"`
	Protection         ProtectionDevice `json:"protection_device" yaml:"protection_device"`
	ParentID           string           `json:"parent_circuit_id,omitempty" yaml:"parent_circuit_id,omitempty"`
}

var recordValidate = validator.New()

// Validate checks the record ranges: no negative physical quantities,
// diversity and schedule values in [0,1], harmonic orders ≥ 2.
// Failures wrap ErrConfiguration.
func (c Circuit) Validate() error {
	if err := recordValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: circuit %q: %v", ErrConfiguration, c.ID, err)
	}
	if c.ParentID != "" && c.ParentID == c.ID {
		return fmt.Errorf("%w: circuit %q is its own parent", ErrConfiguration, c.ID)
	}
	return nil
}

// clone returns a deep copy so the registry never aliases caller slices
// or maps.
func (c Circuit) clone() Circuit {
	out := c
	out.Loads = make([]Load, len(c.Loads))
	for i, l := range c.Loads {
		l.Harmonics = maps.Clone(l.Harmonics)
		l.Schedule = slices.Clone(l.Schedule)
		out.Loads[i] = l
	}
	out.Protection.TimeDelay = maps.Clone(c.Protection.TimeDelay)
	return out
}
