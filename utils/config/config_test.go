package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tsinghua-fib-lab/crossing-sim-oss/utils/config"
	"gopkg.in/yaml.v2"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	assert.Equal(t, 1.0, c.Control.Unit)
	assert.Equal(t, config.Window{Base: 1.8, PerVehicle: 2.2, Min: 5, Max: 20}, c.Window)
	assert.Equal(t, 34, c.Population.Cars.Total())
	assert.Equal(t, 7, c.Population.Ambulances.Total())
	assert.Equal(t, [4]int{15, 3, 8, 8}, c.Population.Cars.ByDirection())
}

func TestUnmarshal(t *testing.T) {
	data := `
control:
  unit: 0.1
  total: 600
  seed: 42
window:
  base: 2.0
  per_vehicle: 1.5
  min: 3
  max: 15
delay:
  approach_min: 1
  approach_span: 4
  cross_ordinary: 2
  cross_priority: 1
  reaction_grace: 1
  idle_min: 10
  idle_span: 20
  decision_pause: 1
population:
  cars:
    north: 5
    east: 2
  ambulances:
    south: 1
output:
  journal: events.jsonl
`
	var c config.Config
	require.NoError(t, yaml.UnmarshalStrict([]byte(data), &c))
	assert.Equal(t, 0.1, c.Control.Unit)
	assert.Equal(t, uint64(42), c.Control.Seed)
	assert.Equal(t, 15, c.Window.Max)
	assert.Equal(t, 5, c.Population.Cars.North)
	assert.Equal(t, 1, c.Population.Ambulances.South)
	assert.Equal(t, "events.jsonl", c.Output.Journal)

	// unknown fields must be rejected
	assert.Error(t, yaml.UnmarshalStrict([]byte("controll:\n  unit: 1\n"), &c))
}

func TestNewRuntimeConfig(t *testing.T) {
	// zero config is backfilled with defaults
	rc, err := config.NewRuntimeConfig(config.Config{})
	require.NoError(t, err)
	assert.Equal(t, 1.0, rc.C.Unit)
	assert.Equal(t, config.Default().Window, rc.All.Window)
	assert.Equal(t, config.Default().Delay, rc.All.Delay)

	bad := config.Default()
	bad.Control.Unit = -1
	_, err = config.NewRuntimeConfig(bad)
	assert.ErrorContains(t, err, "control.unit")

	bad = config.Default()
	bad.Window.Min = 10
	bad.Window.Max = 5
	_, err = config.NewRuntimeConfig(bad)
	assert.ErrorContains(t, err, "window bounds")

	bad = config.Default()
	bad.Window.Base = -2
	_, err = config.NewRuntimeConfig(bad)
	assert.ErrorContains(t, err, "window formula")
}
