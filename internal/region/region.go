package region

import (
	"fmt"

	"github.com/jeffnemesis/gcam-core/internal/config"
	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"
	"github.com/jeffnemesis/gcam-core/internal/sector"
	"github.com/jeffnemesis/gcam-core/internal/subsector"

	"go.uber.org/zap"
)

// Region owns an ordered set of supply sectors and the final demands for
// their goods, and runs the per-iteration calculation pass in dependency
// order. Cross-sector links are name-based: a sector depends on the sectors
// whose goods it consumes as fuel.
type Region struct {
	name        string
	gdp         *domain.GDP
	sectors     []*sector.Sector
	sectorIndex map[string]int
	demands     []*FinalDemand

	modeltime *domain.Modeltime
	mkt       *marketplace.Marketplace
	log       *zap.SugaredLogger
}

// NewFromConfig builds the region's sector/subsector tree from the scenario
// and completes sector initialization, including market creation.
func NewFromConfig(cfg config.RegionConfig, modeltime *domain.Modeltime, opts config.RunOptions, mkt *marketplace.Marketplace, log *zap.SugaredLogger) (*Region, error) {
	maxPeriods := modeltime.MaxPeriods()

	r := &Region{
		name:        cfg.Name,
		gdp:         domain.NewGDP(cfg.GDP),
		sectorIndex: map[string]int{},
		modeltime:   modeltime,
		mkt:         mkt,
		log:         log,
	}

	for _, sectorCfg := range cfg.Sectors {
		subsectors := make([]*subsector.Subsector, 0, len(sectorCfg.Subsectors))
		for _, subCfg := range sectorCfg.Subsectors {
			fixedOutput, err := periodSeries(subCfg.FixedOutput, modeltime)
			if err != nil {
				return nil, fmt.Errorf("subsector %s fixed_output: %w", subCfg.Name, err)
			}
			calOutput, err := periodSeries(subCfg.CalOutput, modeltime)
			if err != nil {
				return nil, fmt.Errorf("subsector %s cal_output: %w", subCfg.Name, err)
			}
			capacityLimit := 1.0
			if subCfg.CapacityLimit != nil {
				capacityLimit = *subCfg.CapacityLimit
			}
			subsectors = append(subsectors, subsector.New(subsector.Params{
				Name:               subCfg.Name,
				RegionName:         cfg.Name,
				SectorName:         sectorCfg.Name,
				Fuel:               subCfg.Fuel,
				ShareWeight:        subCfg.ShareWeight,
				LogitExponent:      subCfg.LogitExponent,
				Coefficient:        subCfg.Coefficient,
				NonEnergyCost:      subCfg.NonEnergyCost,
				CO2Coefficient:     subCfg.CO2Coefficient,
				FuelPrefElasticity: subCfg.FuelPrefElast,
				CapacityLimit:      capacityLimit,
				FixedOutput:        fixedOutput,
				CalOutput:          calOutput,
			}, maxPeriods, mkt, log))
		}

		sec := sector.New(sector.Params{
			Name:       sectorCfg.Name,
			RegionName: cfg.Name,
			Market:     sectorCfg.Market,
			Unit:       sectorCfg.Unit,
			Subsectors: subsectors,
		}, modeltime, opts, mkt, log)
		sec.CompleteInit()

		r.sectorIndex[sec.Name()] = len(r.sectors)
		r.sectors = append(r.sectors, sec)
	}

	for _, demandCfg := range cfg.Demands {
		r.demands = append(r.demands, NewFinalDemand(
			demandCfg.Good, cfg.Name,
			demandCfg.BaseService, demandCfg.PriceElasticity, demandCfg.IncomeElasticity,
			maxPeriods, mkt))
	}

	r.sortSectors()
	return r, nil
}

func periodSeries(byYear map[int]float64, modeltime *domain.Modeltime) ([]float64, error) {
	series := make([]float64, modeltime.MaxPeriods())
	for year, value := range byYear {
		period, ok := modeltime.YearToPeriod(year)
		if !ok {
			return nil, fmt.Errorf("year %d is not a model year", year)
		}
		series[period] = value
	}
	return series, nil
}

func (r *Region) Name() string {
	return r.name
}

func (r *Region) GDP() *domain.GDP {
	return r.gdp
}

func (r *Region) Sectors() []*sector.Sector {
	return r.sectors
}

func (r *Region) Demands() []*FinalDemand {
	return r.demands
}

func (r *Region) Sector(name string) (*sector.Sector, bool) {
	i, ok := r.sectorIndex[name]
	if !ok {
		return nil, false
	}
	return r.sectors[i], true
}

// SectorDependencies implements sector.DependencyProvider by name.
func (r *Region) SectorDependencies(name string) []string {
	sec, ok := r.Sector(name)
	if !ok {
		return nil
	}
	return sec.DependsList()
}

// sortSectors orders the supply sectors so each sector's fuel suppliers are
// calculated before it. Sectors in a dependency cycle (simultaneities) keep
// their configured relative order with a warning; the solver's outer
// iteration resolves them.
func (r *Region) sortSectors() {
	// Seed period-0 summaries so the fuel-based dependency lists are
	// populated before anything has been solved.
	for _, sec := range r.sectors {
		sec.UpdateSummary(0)
		sec.SetupForSort(r)
	}

	placed := map[string]bool{}
	var ordered []*sector.Sector

	remaining := make([]*sector.Sector, len(r.sectors))
	copy(remaining, r.sectors)

	for len(remaining) > 0 {
		progress := false
		var deferred []*sector.Sector
		for _, sec := range remaining {
			if r.depsSatisfied(sec, placed) {
				placed[sec.Name()] = true
				ordered = append(ordered, sec)
				progress = true
			} else {
				deferred = append(deferred, sec)
			}
		}
		if !progress {
			// Cycle: record the simultaneities and append in
			// configured order.
			names := make([]string, len(deferred))
			for i, sec := range deferred {
				names[i] = sec.Name()
			}
			r.log.Warnw("dependency cycle among sectors, keeping configured order",
				"region", r.name, "sectors", names)
			for _, sec := range deferred {
				for _, other := range names {
					if other != sec.Name() {
						sec.AddSimul(other)
					}
				}
			}
			// Re-derive the dependency lists now that the simuls are
			// excluded, so DependsList only carries orderable
			// dependencies.
			for _, sec := range deferred {
				sec.SetupForSort(r)
			}
			ordered = append(ordered, deferred...)
			break
		}
		remaining = deferred
	}

	r.sectors = ordered
	r.sectorIndex = map[string]int{}
	for i, sec := range r.sectors {
		r.sectorIndex[sec.Name()] = i
	}
}

// depsSatisfied reports whether every dependency that is produced in this
// region has already been placed.
func (r *Region) depsSatisfied(sec *sector.Sector, placed map[string]bool) bool {
	for _, dep := range sec.DependsList() {
		if _, produced := r.sectorIndex[dep]; !produced {
			continue
		}
		if !placed[dep] {
			return false
		}
	}
	return true
}

// InitCalc runs the once-per-period sector initializations.
func (r *Region) InitCalc(period int) {
	for _, sec := range r.sectors {
		sec.InitCalc(period)
		sec.TabulateFixedDemands(period)
	}
}

// Calc runs one solver iteration for the period: prices in dependency order,
// then final demands, then supplies. The supply pass walks the sectors in
// reverse so each consumer registers its fuel demand before the supplier
// reads it.
func (r *Region) Calc(period int) {
	for _, sec := range r.sectors {
		sec.CalcFinalSupplyPrice(r.gdp, period)
	}
	for _, demand := range r.demands {
		demand.CalcDemand(period, r.gdp)
	}
	for i := len(r.sectors) - 1; i >= 0; i-- {
		r.sectors[i].Supply(period, r.gdp)
		r.sectors[i].SetFinalSupply(period)
	}
}

// CalibrateRegion adjusts subsector share weights toward calibration targets.
func (r *Region) CalibrateRegion(period int) {
	for _, sec := range r.sectors {
		sec.CalibrateSector(period)
	}
}

// IsAllCalibrated checks calibration consistency for every sector.
func (r *Region) IsAllCalibrated(period int, calAccuracy float64, printWarnings bool) bool {
	allOk := true
	for _, sec := range r.sectors {
		if !sec.IsAllCalibrated(period, calAccuracy, printWarnings) {
			allOk = false
		}
	}
	return allOk
}

// UpdateSummaries refreshes the reporting aggregates and emissions after the
// period has been solved.
func (r *Region) UpdateSummaries(period int) {
	for _, sec := range r.sectors {
		sec.UpdateSummary(period)
		sec.Emission(period)
	}
}
