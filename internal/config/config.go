package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunOptions are the recognized model toggles. They are threaded explicitly
// through constructors instead of living in process-wide state so tests can
// flip them per scenario.
type RunOptions struct {
	DebugChecking     bool `yaml:"debug_checking"`
	CalibrationActive bool `yaml:"calibration_active"`
	PrintPrices       bool `yaml:"print_prices"`
}

type SolverConfig struct {
	MaxIterations int     `yaml:"max_iterations"`
	Tolerance     float64 `yaml:"tolerance"`
	// CalAccuracy is the tolerance for the calibration consistency check.
	CalAccuracy float64 `yaml:"cal_accuracy"`
}

// Scenario is the on-disk scenario shape (YAML). It replaces the original XML
// input tree: modeltime, run options, solver settings, and the full
// region/sector/subsector hierarchy.
type Scenario struct {
	Name    string         `yaml:"name"`
	Years   []int          `yaml:"years"`
	Options RunOptions     `yaml:"options"`
	Solver  SolverConfig   `yaml:"solver"`
	Regions []RegionConfig `yaml:"regions"`
}

type RegionConfig struct {
	Name    string         `yaml:"name"`
	GDP     []float64      `yaml:"gdp"`
	Sectors []SectorConfig `yaml:"sectors"`
	Demands []DemandConfig `yaml:"demands"`
}

type SectorConfig struct {
	Name string `yaml:"name"`
	// Market names the shared market region; empty defaults to the region
	// name with a notice-level log at init.
	Market     string            `yaml:"market"`
	Unit       string            `yaml:"unit"`
	Subsectors []SubsectorConfig `yaml:"subsectors"`
}

type SubsectorConfig struct {
	Name          string  `yaml:"name"`
	ShareWeight   float64 `yaml:"share_weight"`
	LogitExponent float64 `yaml:"logit_exponent"`
	Fuel          string  `yaml:"fuel"`
	// Coefficient is input required per unit of output.
	Coefficient    float64 `yaml:"coefficient"`
	NonEnergyCost  float64 `yaml:"non_energy_cost"`
	CO2Coefficient float64 `yaml:"co2_coefficient"`
	FuelPrefElast  float64 `yaml:"fuel_pref_elasticity"`
	// CapacityLimit is a maximum share fraction; 1 (the default) means no
	// limit. A scalar applies to every period.
	CapacityLimit *float64 `yaml:"capacity_limit"`
	// FixedOutput is exogenous must-run production per period, indexed by
	// year.
	FixedOutput map[int]float64 `yaml:"fixed_output"`
	// CalOutput is the calibration target per year.
	CalOutput map[int]float64 `yaml:"cal_output"`
}

type DemandConfig struct {
	Good             string  `yaml:"good"`
	BaseService      float64 `yaml:"base_service"`
	PriceElasticity  float64 `yaml:"price_elasticity"`
	IncomeElasticity float64 `yaml:"income_elasticity"`
}

func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}
	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Solver.MaxIterations == 0 {
		s.Solver.MaxIterations = 50
	}
	if s.Solver.Tolerance == 0 {
		s.Solver.Tolerance = 1e-4
	}
	if s.Solver.CalAccuracy == 0 {
		s.Solver.CalAccuracy = 0.01
	}
}

func (s *Scenario) Validate() error {
	if s == nil {
		return errors.New("scenario is nil")
	}
	if len(s.Years) == 0 {
		return errors.New("scenario.years is required")
	}
	if len(s.Regions) == 0 {
		return errors.New("scenario requires at least one region")
	}
	for _, r := range s.Regions {
		if r.Name == "" {
			return errors.New("region name is required")
		}
		for _, sec := range r.Sectors {
			if sec.Name == "" {
				return fmt.Errorf("sector in region %s has no name", r.Name)
			}
			if len(sec.Subsectors) == 0 {
				return fmt.Errorf("sector %s in region %s has no subsectors", sec.Name, r.Name)
			}
			for _, sub := range sec.Subsectors {
				if sub.Name == "" {
					return fmt.Errorf("subsector in sector %s has no name", sec.Name)
				}
				if sub.CapacityLimit != nil && (*sub.CapacityLimit <= 0 || *sub.CapacityLimit > 1) {
					return fmt.Errorf("subsector %s capacity_limit must be in (0,1], got %f", sub.Name, *sub.CapacityLimit)
				}
				if sub.Coefficient < 0 {
					return fmt.Errorf("subsector %s coefficient must be >= 0", sub.Name)
				}
			}
		}
	}
	return nil
}
