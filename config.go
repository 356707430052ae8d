package circuitcheck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the analysis thresholds. It is fixed when a Validator is
// built; reconfigure by building a new Validator between runs.
type Config struct {
	// Voltage drop above this percent of the circuit rating fails (default 3.0).
	VoltageDropLimitPercent float64 `yaml:"voltage_drop_limit_percent" json:"voltage_drop_limit_percent" validate:"gt=0,lte=100"`

	// Cooling is flagged when design current exceeds this fraction of
	// derated ampacity (default 0.75).
	ThermalSafetyMargin float64 `yaml:"thermal_safety_margin" json:"thermal_safety_margin" validate:"gt=0,lte=1"`

	// Minimum acceptable thermal margin in percent (default 20.0).
	ThermalMarginMinPercent float64 `yaml:"thermal_margin_min_percent" json:"thermal_margin_min_percent" validate:"gte=0,lt=100"`

	// Parent loading above this percent of its derated ampacity warns (default 80.0).
	ParentLoadingLimitPercent float64 `yaml:"parent_loading_limit_percent" json:"parent_loading_limit_percent" validate:"gt=0"`

	// Current THD above this percent warns (default 20.0).
	THDCurrentLimitPercent float64 `yaml:"thd_current_limit_percent" json:"thd_current_limit_percent" validate:"gt=0"`

	// Approximations. These are rough engineering proxies with no cited
	// derivation; keep them configurable until a measured source exists.
	VoltageTHDFactor     float64 `yaml:"voltage_thd_factor" json:"voltage_thd_factor" validate:"gte=0"`         // THDv ≈ factor × THDi (0.1)
	ReactanceOhmPerFt    float64 `yaml:"reactance_ohm_per_ft" json:"reactance_ohm_per_ft" validate:"gte=0"`     // 0.0001 Ω/ft
	TransformerImpedance float64 `yaml:"transformer_impedance" json:"transformer_impedance" validate:"gte=0"`   // Ω, 0.06
	UpstreamFaultCurrent float64 `yaml:"upstream_fault_current" json:"upstream_fault_current" validate:"gte=0"` // A, reporting hint only

	// Fault interrupting check. Off by default; when on, available fault
	// current above FaultSafetyMargin × interrupting rating warns.
	CheckFaultCurrent bool    `yaml:"check_fault_current" json:"check_fault_current"`
	FaultSafetyMargin float64 `yaml:"fault_safety_margin" json:"fault_safety_margin" validate:"gt=0,lte=1"`
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		VoltageDropLimitPercent:   3.0,
		ThermalSafetyMargin:       0.75,
		ThermalMarginMinPercent:   20.0,
		ParentLoadingLimitPercent: 80.0,
		THDCurrentLimitPercent:    20.0,

		VoltageTHDFactor:     0.1,
		ReactanceOhmPerFt:    0.0001,
		TransformerImpedance: 0.06,

		CheckFaultCurrent: false,
		FaultSafetyMargin: 0.8,
	}
}

// Validate rejects out-of-range thresholds with ErrConfiguration.
func (c Config) Validate() error {
	if err := recordValidate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}

// LoadConfig reads a YAML file over DefaultConfig; keys absent from the file
// keep their defaults. The result is validated.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
