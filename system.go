package circuitcheck

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// System is the on-disk description of an existing installation.
type System struct {
	Circuits []Circuit `yaml:"circuits" json:"circuits"`
}

// LoadSystem reads a YAML (or JSON) file listing the circuits of an existing
// installation. Every circuit is validated.
func LoadSystem(path string) ([]Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read system %s: %w", path, err)
	}

	var sys System
	if err := yaml.Unmarshal(data, &sys); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	for _, c := range sys.Circuits {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return sys.Circuits, nil
}

// LoadCircuit reads a single circuit record from a YAML (or JSON) file.
func LoadCircuit(path string) (Circuit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Circuit{}, fmt.Errorf("read circuit %s: %w", path, err)
	}

	var c Circuit
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Circuit{}, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	if err := c.Validate(); err != nil {
		return Circuit{}, err
	}
	return c, nil
}

// AddCircuits persists circuits in order, stopping at the first invalid one.
// Children may be listed before their parents.
func (v *Validator) AddCircuits(circuits []Circuit) error {
	for _, c := range circuits {
		if err := v.AddCircuit(c); err != nil {
			return err
		}
	}
	return nil
}
