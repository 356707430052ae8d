package circuitcheck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSystem(t *testing.T) {
	path := writeFile(t, "system.yaml", `
circuits:
  - circuit_id: panel
    circuit_type: feeder
    wire_awg: "6"
    wire_length_ft: 20
    ambient_temperature_c: 30
    number_of_conductors: 3
    voltage_rating: 240
    protection_device:
      device_id: main
      protection_type: circuit_breaker
      current_rating: 60
      interrupting_rating: 22000
  - circuit_id: lights
    circuit_type: branch
    wire_awg: "8"
    wire_length_ft: 40
    ambient_temperature_c: 30
    number_of_conductors: 3
    voltage_rating: 120
    parent_circuit_id: panel
    loads:
      - load_id: heat
        load_type: resistive
        nominal_current: 40
        diversity_factor: 1
        harmonic_content: {3: 0.05}
    protection_device:
      device_id: lights-cb
      protection_type: circuit_breaker
      current_rating: 50
      interrupting_rating: 10000
`)

	circuits, err := LoadSystem(path)
	require.NoError(t, err)
	require.Len(t, circuits, 2)
	assert.Equal(t, "6", circuits[0].WireAWG)
	assert.Equal(t, "panel", circuits[1].ParentID)
	assert.Equal(t, 0.05, circuits[1].Loads[0].Harmonics[3])

	v := newTestValidator(t, DefaultConfig())
	require.NoError(t, v.AddCircuits(circuits))
	assert.Equal(t, []string{"lights"}, v.Children("panel"))

	candidate := writeFile(t, "candidate.json", `{
  "circuit_id": "outlet", "circuit_type": "branch", "wire_awg": "12",
  "wire_length_ft": 50, "ambient_temperature_c": 30, "number_of_conductors": 3,
  "voltage_rating": 120, "parent_circuit_id": "panel",
  "loads": [{"load_id": "kettle", "load_type": "resistive", "nominal_current": 10, "diversity_factor": 1}],
  "protection_device": {"device_id": "cb", "protection_type": "circuit_breaker", "current_rating": 20, "interrupting_rating": 10000}
}`)
	c, err := LoadCircuit(candidate)
	require.NoError(t, err)

	checks, err := v.Validate(c)
	require.NoError(t, err)
	AssertCheck(t, checks, CheckParentLoading, false, SeverityWarning)
}

func TestLoadSystem_RejectsInvalidCircuit(t *testing.T) {
	path := writeFile(t, "system.yaml", `
circuits:
  - circuit_id: panel
    circuit_type: nonsense
    wire_awg: "6"
    number_of_conductors: 3
    voltage_rating: 240
`)
	_, err := LoadSystem(path)
	assert.ErrorIs(t, err, ErrConfiguration)
}
