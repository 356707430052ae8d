package circuitcheck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 3.0, cfg.VoltageDropLimitPercent)
	assert.Equal(t, 0.75, cfg.ThermalSafetyMargin)
	assert.Equal(t, 20.0, cfg.ThermalMarginMinPercent)
	assert.Equal(t, 80.0, cfg.ParentLoadingLimitPercent)
	assert.Equal(t, 20.0, cfg.THDCurrentLimitPercent)
	assert.False(t, cfg.CheckFaultCurrent)
}

func TestConfig_ValidateRanges(t *testing.T) {
	tests := map[string]func(c *Config){
		"zero voltage drop limit": func(c *Config) { c.VoltageDropLimitPercent = 0 },
		"safety margin above one": func(c *Config) { c.ThermalSafetyMargin = 1.2 },
		"negative thermal margin": func(c *Config) { c.ThermalMarginMinPercent = -1 },
		"zero parent limit":       func(c *Config) { c.ParentLoadingLimitPercent = 0 },
		"negative reactance":      func(c *Config) { c.ReactanceOhmPerFt = -0.1 },
		"zero fault margin":       func(c *Config) { c.FaultSafetyMargin = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrConfiguration)
		})
	}
}

func TestLoadConfig_OverlaysDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
voltage_drop_limit_percent: 5
check_fault_current: true
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5.0, cfg.VoltageDropLimitPercent)
	assert.True(t, cfg.CheckFaultCurrent)
	assert.Equal(t, DefaultConfig().ThermalSafetyMargin, cfg.ThermalSafetyMargin)
	assert.Equal(t, DefaultConfig().TransformerImpedance, cfg.TransformerImpedance)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadConfig(writeFile(t, "bad.yaml", "thermal_safety_margin: [1, 2]"))
	assert.ErrorIs(t, err, ErrConfiguration)

	_, err = LoadConfig(writeFile(t, "range.yaml", "thermal_safety_margin: 3"))
	assert.ErrorIs(t, err, ErrConfiguration)
}
