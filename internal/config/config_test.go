package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const scenarioYaml = `
name: two-fuel-usa
years: [1990, 2005, 2020]
options:
  calibration_active: true
solver:
  max_iterations: 100
regions:
  - name: USA
    gdp: [100, 150, 225]
    sectors:
      - name: electricity
        unit: EJ
        subsectors:
          - name: coal steam
            fuel: coal
            share_weight: 1.0
            logit_exponent: -3
            coefficient: 2.5
            non_energy_cost: 1.2
            co2_coefficient: 0.025
            cal_output:
              1990: 80
          - name: hydro
            non_energy_cost: 2.0
            capacity_limit: 0.4
            fixed_output:
              1990: 20
    demands:
      - good: electricity
        base_service: 100
        price_elasticity: -0.3
        income_elasticity: 1.0
`

func TestParse(t *testing.T) {
	s, err := Parse([]byte(scenarioYaml))
	require.NoError(t, err)

	require.Equal(t, "two-fuel-usa", s.Name)
	require.Equal(t, []int{1990, 2005, 2020}, s.Years)
	require.True(t, s.Options.CalibrationActive)
	require.False(t, s.Options.DebugChecking)

	// Explicit solver settings are kept, missing ones default.
	require.Equal(t, 100, s.Solver.MaxIterations)
	require.Equal(t, 1e-4, s.Solver.Tolerance)
	require.Equal(t, 0.01, s.Solver.CalAccuracy)

	require.Len(t, s.Regions, 1)
	region := s.Regions[0]
	require.Equal(t, "USA", region.Name)
	require.Len(t, region.Sectors, 1)
	require.Len(t, region.Demands, 1)

	subs := region.Sectors[0].Subsectors
	require.Len(t, subs, 2)
	require.Equal(t, "coal", subs[0].Fuel)
	require.Equal(t, 80.0, subs[0].CalOutput[1990])
	require.Nil(t, subs[0].CapacityLimit)
	require.NotNil(t, subs[1].CapacityLimit)
	require.Equal(t, 0.4, *subs[1].CapacityLimit)
	require.Equal(t, 20.0, subs[1].FixedOutput[1990])
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed yaml", "name: [unclosed"},
		{"missing years", "name: x\nregions: [{name: USA, sectors: [{name: s, subsectors: [{name: a}]}]}]"},
		{"missing regions", "name: x\nyears: [1990]"},
		{"unnamed region", "name: x\nyears: [1990]\nregions: [{gdp: [1]}]"},
		{"unnamed sector", "name: x\nyears: [1990]\nregions: [{name: USA, sectors: [{subsectors: [{name: a}]}]}]"},
		{"sector without subsectors", "name: x\nyears: [1990]\nregions: [{name: USA, sectors: [{name: s}]}]"},
		{"unnamed subsector", "name: x\nyears: [1990]\nregions: [{name: USA, sectors: [{name: s, subsectors: [{fuel: coal}]}]}]"},
		{"capacity limit above one", "name: x\nyears: [1990]\nregions: [{name: USA, sectors: [{name: s, subsectors: [{name: a, capacity_limit: 1.5}]}]}]"},
		{"negative coefficient", "name: x\nyears: [1990]\nregions: [{name: USA, sectors: [{name: s, subsectors: [{name: a, coefficient: -1}]}]}]"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			require.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(scenarioYaml), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "two-fuel-usa", s.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
