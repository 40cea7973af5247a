package sector

import (
	"math"
	"sort"

	"github.com/jeffnemesis/gcam-core/internal/config"
	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"
	"github.com/jeffnemesis/gcam-core/internal/subsector"
	"github.com/jeffnemesis/gcam-core/internal/util"

	"go.uber.org/zap"
)

// Sector is a market-clearing unit producing one good. It owns an ordered set
// of subsectors, normalizes their shares subject to fixed-output and
// capacity-limit constraints, aggregates price/output/emissions, and pushes
// price and supply into the marketplace. All per-period arrays are sized at
// construction and mutated every solver iteration.
type Sector struct {
	name       string
	regionName string
	market     string
	unit       string

	subsectors []*subsector.Subsector
	nameIndex  map[string]int

	sectorPrice      []float64
	input            []float64
	output           []float64
	fixedOutput      []float64
	capLimitsPresent []bool
	summary          []domain.Summary

	// dependsList names the sectors whose goods feed this one, populated
	// once by SetupForSort. simulList names sectors linked through
	// simultaneities, which are excluded from the dependency ordering.
	dependsList []string
	simulList   []string

	co2EmFactor      float64
	anyFixedCapacity bool

	modeltime     *domain.Modeltime
	opts          config.RunOptions
	debugChecking bool

	mkt *marketplace.Marketplace
	log *zap.SugaredLogger
}

type Params struct {
	Name       string
	RegionName string
	// Market is the shared market region; empty defaults to the region name.
	Market     string
	Unit       string
	Subsectors []*subsector.Subsector
}

func New(params Params, modeltime *domain.Modeltime, opts config.RunOptions, mkt *marketplace.Marketplace, log *zap.SugaredLogger) *Sector {
	maxPeriods := modeltime.MaxPeriods()
	s := &Sector{
		name:       params.Name,
		regionName: params.RegionName,
		market:     params.Market,
		unit:       params.Unit,
		subsectors: params.Subsectors,
		nameIndex:  map[string]int{},

		sectorPrice:      make([]float64, maxPeriods),
		input:            make([]float64, maxPeriods),
		output:           make([]float64, maxPeriods),
		fixedOutput:      make([]float64, maxPeriods),
		capLimitsPresent: make([]bool, maxPeriods),
		summary:          make([]domain.Summary, maxPeriods),

		modeltime:     modeltime,
		opts:          opts,
		debugChecking: opts.DebugChecking,

		mkt: mkt,
		log: log,
	}
	for p := 0; p < maxPeriods; p++ {
		s.summary[p] = domain.NewSummary()
	}
	for i, sub := range s.subsectors {
		s.nameIndex[sub.Name()] = i
	}
	return s
}

func (s *Sector) Name() string {
	return s.name
}

func (s *Sector) Market() string {
	return s.market
}

// CompleteInit runs once per model run: defaults the market name to the
// region and registers the sector's market.
func (s *Sector) CompleteInit() {
	if s.market == "" {
		s.log.Infof("no market name set in %s->%s, defaulting to regional market", s.regionName, s.name)
		s.market = s.regionName
	}
	s.mkt.CreateMarket(s.name, s.regionName, s.market)
}

// InitCalc performs the once-per-period initializations: share weight
// normalization, subsector resets, and the fixed-capacity and capacity-limit
// flags that gate the more expensive share adjustments.
func (s *Sector) InitCalc(period int) {
	// Share weight normalization must precede the subsector resets so
	// weights are scaled before they are used.
	s.NormalizeShareWeights(period)

	for _, sub := range s.subsectors {
		sub.InitCalc(period)
	}

	if s.FixedOutput(period) > 0 {
		s.anyFixedCapacity = true
	}

	s.capLimitsPresent[period] = s.isCapacityLimitsInSector(period)
}

// NormalizeShareWeights rescales subsector share weights so they sum to the
// number of nonzero subsectors after a fully calibrated period. This keeps
// weights interpretable (> 1 means favored) and future weights consistent
// with calibrated years.
func (s *Sector) NormalizeShareWeights(period int) {
	if period == 0 || !s.opts.CalibrationActive {
		return
	}
	if !s.InputsAllFixed(period-1, subsector.AllInputs) || s.CalOutput(period-1) <= 0 {
		return
	}

	shareWeightTotal := 0.0
	nonzeroSubsectors := 0
	for _, sub := range s.subsectors {
		weight := sub.ShareWeight(period - 1)
		shareWeightTotal += weight
		if weight > 0 {
			nonzeroSubsectors++
		}
	}

	if shareWeightTotal < util.TinyNumber {
		s.log.Errorf("share weights sum to zero in sector %s", s.name)
		return
	}
	for _, sub := range s.subsectors {
		sub.ScaleShareWeight(float64(nonzeroSubsectors)/shareWeightTotal, period-1)
	}
}

// CalcShare computes normalized subsector shares for the period. Subsectors
// without fixed output are normalized to fill the non-fixed portion of the
// market; subsectors with fixed output are forced to their fixed share,
// rescaled when fixed shares total above one. Capacity limits are applied
// afterwards when any subsector declares one.
func (s *Sector) CalcShare(period int, gdp *domain.GDP) {
	sum := 0.0
	fixedSum := 0.0

	// First pass accumulates the unnormalized share of non-fixed
	// subsectors and the total fixed share.
	for i, sub := range s.subsectors {
		sub.CalcShare(period, gdp)

		fixedShare := 0.0
		if s.anyFixedCapacity {
			fixedShare = s.fixedShare(i, period)
			fixedSum += fixedShare
		}

		if fixedShare < util.TinyNumber {
			sum += sub.Share(period)
		}

		// Capacity-limit status resets every share calculation; the
		// adjustment pass below re-derives it.
		sub.SetCapLimitStatus(domain.CapUnlimited, period)
	}

	// Fixed demands cannot sum above total demand.
	scaleFixedShare := 1.0
	if fixedSum > 1 {
		scaleFixedShare = 1 / fixedSum
		fixedSum = 1
	}

	for i, sub := range s.subsectors {
		if sub.FixedOutput(period) == 0 {
			if fixedSum < 1 {
				sub.NormalizeShare(sum/(1-fixedSum), period)
			} else {
				// All supply is fixed; drive the remaining shares
				// to zero without dividing by zero.
				sub.NormalizeShare(sum/util.TinyNumber, period)
			}
			continue
		}

		// Force fixed subsectors to their fixed share and rescale the
		// stored fixed output against drift between iterations.
		fixedShare := s.fixedShare(i, period) * scaleFixedShare
		currentShare := sub.FixedShare(period)
		sub.SetShareToFixedValue(period)
		if currentShare > 0 {
			sub.ScaleFixedOutput(fixedShare/currentShare, period)
		}
		sub.SetShareToFixedValue(period)
	}

	// Skipping the adjustment when no limits are declared is a measurable
	// run-time win in full scenarios.
	if s.capLimitsPresent[period] {
		s.adjSharesCapLimit(period)
	}

	if s.debugChecking {
		s.CheckShareSum(period)
	}
}

// adjSharesCapLimit redistributes share in excess of capacity limits to the
// non-limited subsectors. One pass can push another subsector over its limit,
// so it repeats up to len(subsectors) passes, the longest possible knock-on
// chain. The share algebra:
//
//	sumNotLimited + sumLimited + sumSharesOverLimit = 1
//	newShare = multiplier * share, with
//	multiplier = 1 + sumSharesOverLimit/sumNotLimited
//
// Fixed-output shares are never redistributed into.
func (s *Sector) adjSharesCapLimit(period int) {
	capLimited := true

	for pass := 0; pass < len(s.subsectors) && capLimited; pass++ {
		sumSharesOverLimit := 0.0
		sumSharesNotLimited := 0.0
		capLimited = false

		for _, sub := range s.subsectors {
			share := sub.Share(period)

			// Once a subsector has been capped it stays capped at its
			// current share; the transform can only be applied once.
			var limit float64
			if sub.CapLimitStatus(period) == domain.CapLimitApplied {
				limit = share
			} else {
				limit = subsector.CapLimitTransform(sub.CapacityLimit(period), share)
			}

			if share-limit > util.SmallNumber {
				capLimited = true
				sumSharesOverLimit += share - limit
				if sub.CapLimitStatus(period) != domain.CapLimitApplied {
					sub.SetCapLimitStatus(domain.CapLimitPending, period)
				}
			}

			// Sum shares strictly under their limits, excluding those
			// exactly at them.
			if share < limit {
				sumSharesNotLimited += share
			}

			// Fixed-output shares are not adjusted in LimitShares, so
			// they cannot absorb excess.
			if sub.FixedShare(period) > 0 {
				sumSharesNotLimited -= share
			}
		}

		if !capLimited {
			continue
		}

		if sumSharesNotLimited > 0 {
			multiplier := 1 + sumSharesOverLimit/sumSharesNotLimited
			for _, sub := range s.subsectors {
				sub.LimitShares(multiplier, period)
			}
		} else if sumSharesOverLimit > 0 {
			// No room left to redistribute into: the model cannot
			// meet demand within the declared limits.
			s.log.Errorf("%s: insufficient capacity to meet demand in sector %s", s.regionName, s.name)
			break
		}
	}

	if capLimited {
		s.log.Errorf("capacity limit not resolved in sector %s", s.name)
	}
}

// CheckShareSum reports (never aborts) when shares fail to sum to one. Meant
// to run under the debug-checking option.
func (s *Sector) CheckShareSum(period int) {
	sumShares := 0.0
	for _, sub := range s.subsectors {
		if !util.IsValidNumber(sub.Share(period)) {
			s.log.Errorf("invalid share for subsector %s in sector %s, region %s",
				sub.Name(), s.name, s.regionName)
		}
		sumShares += sub.Share(period)
	}
	if math.Abs(sumShares-1) > util.SmallNumber {
		shares := make([]float64, len(s.subsectors))
		for i, sub := range s.subsectors {
			shares[i] = sub.Share(period)
		}
		s.log.Errorw("shares do not sum to 1",
			"sum", sumShares, "sector", s.name, "region", s.regionName, "shares", shares)
	}
}

// CalcPrice sets the sector price to the share-weighted average of subsector
// prices and re-derives the CO2 emission factor, publishing the factor to the
// market info store only when the sector's market already exists.
func (s *Sector) CalcPrice(period int) {
	s.sectorPrice[period] = 0
	s.co2EmFactor = 0
	for _, sub := range s.subsectors {
		s.sectorPrice[period] += sub.Share(period) * sub.Price(period)
		s.co2EmFactor += sub.Share(period) * sub.CO2EmFactor(period)
	}
	if s.mkt.DoesMarketExist(s.name, s.regionName, period) {
		s.mkt.SetMarketInfo(s.name, s.regionName, period, "CO2EmFactor", s.co2EmFactor)
	}
}

// CalcFinalSupplyPrice composes the share calculation with the price
// calculation and publishes the result as the market price of the good.
func (s *Sector) CalcFinalSupplyPrice(gdp *domain.GDP, period int) {
	s.CalcShare(period, gdp)
	s.CalcPrice(period)
	s.mkt.SetPrice(s.name, s.regionName, s.sectorPrice[period], period)
}

// Price recomputes and returns the weighted sector price, so callers always
// see a value consistent with current shares.
func (s *Sector) Price(period int) float64 {
	s.CalcPrice(period)
	return s.sectorPrice[period]
}

// CO2EmFactor returns the emission factor derived by the last price
// calculation.
func (s *Sector) CO2EmFactor() float64 {
	return s.co2EmFactor
}

// OutputsAllFixed reports whether every subsector's output is calibrated,
// fixed, or zeroed by share weight, i.e. the sector has no capacity to
// respond to price.
func (s *Sector) OutputsAllFixed(period int) bool {
	if period < 0 {
		return false
	}
	for _, sub := range s.subsectors {
		if !sub.AllOutputFixed(period) {
			return false
		}
	}
	return true
}

// isCapacityLimitsInSector reports whether any subsector declares a capacity
// limit for the period, to avoid the adjustment pass when none do.
func (s *Sector) isCapacityLimitsInSector(period int) bool {
	if period < 0 {
		return false
	}
	for _, sub := range s.subsectors {
		if sub.CapacityLimit(period) != 1 {
			return true
		}
	}
	return false
}

// IsAllCalibrated is a pure consistency query: whether calibrated plus fixed
// output matches actual output within calAccuracy, absolutely and, when every
// output in the sector is fixed, fractionally. Optionally logs a structured
// warning; never mutates.
func (s *Sector) IsAllCalibrated(period int, calAccuracy float64, printWarnings bool) bool {
	if period <= 0 || !s.opts.CalibrationActive {
		return true
	}

	calOutputs := s.CalOutput(period)
	if calOutputs <= 0 {
		return true
	}

	totalFixed := calOutputs + s.FixedOutput(period)
	calDiff := totalFixed - s.Output(period)
	diffFraction := calDiff / calOutputs

	if calDiff > calAccuracy || (math.Abs(diffFraction) > calAccuracy && s.OutputsAllFixed(period)) {
		if printWarnings {
			s.log.Warnw("sector output does not match calibrated plus fixed values",
				"sector", s.name,
				"region", s.regionName,
				"year", s.modeltime.PeriodToYear(period),
				"target", totalFixed,
				"diff", calDiff,
				"percent", calDiff*100/calOutputs)
		}
		return false
	}
	return true
}

// FixedOutput returns the total fixed supply across subsectors.
func (s *Sector) FixedOutput(period int) float64 {
	total := 0.0
	for _, sub := range s.subsectors {
		total += sub.FixedOutput(period)
	}
	return total
}

// fixedShare returns a subsector's share of fixed supply: the stored share
// lagged from the last iteration, or the share derived from current market
// demand when demand is available.
func (s *Sector) fixedShare(subsectorIndex, period int) float64 {
	if subsectorIndex < 0 || subsectorIndex >= len(s.subsectors) {
		s.log.Errorf("illegal subsector index %d in sector %s", subsectorIndex, s.name)
		return 0
	}
	fixedShare := s.subsectors[subsectorIndex].FixedShare(period)
	if fixedShare > 0 {
		marketDemand := s.mkt.Demand(s.name, s.regionName, period)
		if marketDemand > 0 {
			fixedShare = s.subsectors[subsectorIndex].FixedOutput(period) / marketDemand
		}
	}
	return fixedShare
}

// CalOutput returns total calibrated output across subsectors. Only
// calibration targets count; other fixed values do not.
func (s *Sector) CalOutput(period int) float64 {
	total := 0.0
	for _, sub := range s.subsectors {
		total += sub.TotalCalOutputs(period)
	}
	return total
}

// CalAndFixedInputs totals fixed or calibrated demand for the named good
// across subsectors.
func (s *Sector) CalAndFixedInputs(period int, goodName string, bothVals bool) float64 {
	total := 0.0
	for _, sub := range s.subsectors {
		total += sub.CalAndFixedInputs(period, goodName, bothVals)
	}
	return total
}

// CalAndFixedOutputs totals calibrated (and optionally fixed) outputs across
// subsectors.
func (s *Sector) CalAndFixedOutputs(period int, bothVals bool) float64 {
	total := 0.0
	for _, sub := range s.subsectors {
		total += sub.CalAndFixedOutputs(period, bothVals)
	}
	return total
}

// SetImpliedFixedInput propagates a required input for the named good to the
// first subsector that can calibrate to it, warning if more than one changes.
func (s *Sector) SetImpliedFixedInput(period int, goodName string, requiredOutput float64) {
	inputWasChanged := false
	for _, sub := range s.subsectors {
		changed := sub.SetImpliedFixedInput(period, goodName, requiredOutput)
		if changed && inputWasChanged {
			s.log.Infof("calibrated demands for more than one subsector changed in sector %s, region %s",
				s.name, s.regionName)
		}
		inputWasChanged = inputWasChanged || changed
	}
}

// InputsAllFixed reports whether every subsector's demand for the named good
// is fixed by capacity, calibration, or zero share weight.
func (s *Sector) InputsAllFixed(period int, goodName string) bool {
	for _, sub := range s.subsectors {
		if !sub.InputsAllFixed(period, goodName) {
			return false
		}
	}
	return true
}

// ScaleCalibratedValues scales calibration targets tied to the named good.
func (s *Sector) ScaleCalibratedValues(period int, goodName string, scale float64) {
	for _, sub := range s.subsectors {
		sub.ScaleCalibratedValues(period, goodName, scale)
	}
}

// CalibrateSector passes market demand and the sector's fixed and calibrated
// totals to each calibrating subsector so share weights converge on the
// calibration targets.
func (s *Sector) CalibrateSector(period int) {
	totalFixedOutput := s.FixedOutput(period)
	marketDemand := s.mkt.Demand(s.name, s.regionName, period)
	totalCalOutputs := s.CalOutput(period)

	for _, sub := range s.subsectors {
		if sub.CalibrationStatus(period) {
			sub.AdjustForCalibration(marketDemand, totalFixedOutput, totalCalOutputs, s.OutputsAllFixed(period), period)
		}
	}
}

// TabulateFixedDemands flows down to subsectors so fixed demands are counted
// in the marketplace.
func (s *Sector) TabulateFixedDemands(period int) {
	for _, sub := range s.subsectors {
		sub.TabulateFixedDemands(period)
	}
}

// adjustForFixedOutput reconciles shares with fixed supply. Fixed output
// above market demand is scaled down to match it exactly; the remaining
// variable share mass is then rescaled so the shares sum correctly against
// the shrunk pool.
func (s *Sector) adjustForFixedOutput(marketDemand float64, period int) {
	totalFixedOutput := 0.0
	variableShares := 0.0

	for _, sub := range s.subsectors {
		sub.ResetFixedOutput(period)
		fixedOutput := sub.FixedOutput(period)

		// Reset every time in case the fixed share property changes.
		sub.SetFixedShare(period, 0)

		if fixedOutput == 0 {
			variableShares += sub.Share(period)
		} else if marketDemand != 0 {
			shareValue := fixedOutput / marketDemand
			if shareValue > 1 {
				// Clamped below when total fixed output is scaled to
				// demand.
				shareValue = 1
			}
			sub.SetFixedShare(period, shareValue)
		}
		totalFixedOutput += fixedOutput
	}

	// Scale down fixed output if it exceeds actual demand.
	if totalFixedOutput > marketDemand {
		for _, sub := range s.subsectors {
			sub.ScaleFixedOutput(marketDemand/totalFixedOutput, period)
		}
		totalFixedOutput = marketDemand
	}

	if totalFixedOutput <= 0 {
		return
	}

	variableSharesNew := 0.0
	if totalFixedOutput < marketDemand {
		variableSharesNew = 1 - totalFixedOutput/marketDemand
	}

	// All-fixed sectors have no variable pool; avoid the division rather
	// than computing 0/0.
	shareRatio := 0.0
	if variableShares > 0 {
		shareRatio = variableSharesNew / variableShares
	}

	// shareRatio of 0 is valid and zeroes all non-fixed shares.
	for _, sub := range s.subsectors {
		sub.AdjShares(marketDemand, shareRatio, totalFixedOutput, period)
	}
}

// Supply takes the market demand for the sector's good and propagates it down
// through the subsectors, adjusting shares for fixed output first.
func (s *Sector) Supply(period int, gdp *domain.GDP) {
	marketDemand := s.mkt.Demand(s.name, s.regionName, period)
	if marketDemand < 0 {
		s.log.Errorf("demand value < 0 for good %s in region %s", s.name, s.regionName)
	}

	if s.anyFixedCapacity {
		s.adjustForFixedOutput(marketDemand, period)
	}

	for _, sub := range s.subsectors {
		sub.SetOutput(marketDemand, period)
	}

	if s.debugChecking {
		// Supply summed back up from the subsectors must equal the demand
		// passed in; a demand of exactly 1 marks the initial iteration.
		supply := s.UpdateAndGetOutput(period)
		if period > 0 && math.Abs(supply-marketDemand) > 0.01 && marketDemand != 1 {
			s.log.Warnw("market demand and derived supply are not equal",
				"sector", s.name,
				"region", s.regionName,
				"supply", supply,
				"demand", marketDemand)
		}
	}
}

// SetFinalSupply adds the sector's final supply to the marketplace; supply
// and demand of the intermediate good are set equal.
func (s *Sector) SetFinalSupply(period int) {
	marketSupply := s.UpdateAndGetOutput(period)
	s.mkt.AddToSupply(s.name, s.regionName, marketSupply, period)
}

// SetOutput passes a demand quantity directly to the subsectors, used by
// service-demand sectors where the demand is not read from the marketplace.
func (s *Sector) SetOutput(demand float64, period int) {
	for _, sub := range s.subsectors {
		sub.SetOutput(demand, period)
	}
}

// SumOutput recomputes the sector output total from the subsectors,
// flagging (but still storing) non-finite values.
func (s *Sector) SumOutput(period int) {
	s.output[period] = 0
	for _, sub := range s.subsectors {
		value := sub.Output(period)
		if !util.IsValidNumber(value) {
			s.log.Errorf("output for subsector %s is not valid (%v) in sector %s, region %s",
				sub.Name(), value, s.name, s.regionName)
		}
		s.output[period] += value
	}
}

// UpdateAndGetOutput sums and returns the sector output. Period 0 output may
// be seeded exogenously, in which case it is left alone.
func (s *Sector) UpdateAndGetOutput(period int) float64 {
	if period > 0 || s.output[period] == 0 {
		s.SumOutput(period)
	}
	return s.output[period]
}

func (s *Sector) Output(period int) float64 {
	return s.output[period]
}

// Emission aggregates subsector emissions into the sector summary maps, by
// gas and by fuel.
func (s *Sector) Emission(period int) {
	s.summary[period].ClearEmission()
	s.summary[period].ClearEmissFuel()
	for _, sub := range s.subsectors {
		sub.Emission(period)
		s.summary[period].UpdateEmission(sub.GetEmission(period))
		s.summary[period].UpdateEmissFuel(sub.GetEmFuelMap(period))
	}
}

// IndEmission aggregates indirect emissions using upstream emission
// coefficients keyed by fuel.
func (s *Sector) IndEmission(period int, coefficients map[string]float64) {
	s.summary[period].ClearEmissInd()
	for _, sub := range s.subsectors {
		sub.IndEmission(period, coefficients)
		s.summary[period].UpdateEmissInd(sub.GetEmIndMap(period))
	}
}

// SumInput recomputes total energy input from the subsectors.
func (s *Sector) SumInput(period int) {
	s.input[period] = 0
	for _, sub := range s.subsectors {
		value := sub.Input(period)
		if !util.IsValidNumber(value) {
			s.log.Errorf("input for subsector %s is not valid (%v) in sector %s, region %s",
				sub.Name(), value, s.name, s.regionName)
		}
		s.input[period] += value
	}
}

// Input sums and returns sector energy consumption.
func (s *Sector) Input(period int) float64 {
	s.SumInput(period)
	return s.input[period]
}

func (s *Sector) FuelCons(period int) map[string]float64 {
	return s.summary[period].FuelCons()
}

func (s *Sector) ConsByFuel(period int, fuelName string) float64 {
	return s.summary[period].FuelConsByFuel(fuelName)
}

func (s *Sector) ClearFuelCons(period int) {
	s.summary[period].ClearFuelCons()
}

func (s *Sector) EmissionMap(period int) map[string]float64 {
	return s.summary[period].Emission()
}

func (s *Sector) EmFuelMap(period int) map[string]float64 {
	return s.summary[period].EmissFuel()
}

func (s *Sector) EmIndMap(period int) map[string]float64 {
	return s.summary[period].EmissInd()
}

// UpdateSummary refreshes the fuel consumption aggregates and sets the
// sector input to the total fuel consumed, which feeds reporting only.
func (s *Sector) UpdateSummary(period int) {
	s.summary[period].ClearFuelCons()
	for _, sub := range s.subsectors {
		sub.UpdateSummary(period)
		s.summary[period].UpdateFuelCons(sub.FuelCons(period))
	}
	s.input[period] = s.summary[period].FuelConsByFuel(domain.TotalFuelKey)
}

// AddSimul records a simultaneity with the named sector so the dependency
// ordering can exclude the cycle.
func (s *Sector) AddSimul(sectorName string) {
	for _, existing := range s.simulList {
		if existing == sectorName {
			return
		}
	}
	s.simulList = append(s.simulList, sectorName)
}

// DependencyProvider resolves a sector name to that sector's own dependency
// list, letting SetupForSort expand transitive dependencies by name rather
// than by reference.
type DependencyProvider interface {
	SectorDependencies(name string) []string
}

// SetupForSort populates and sorts the full dependency list, including
// transitive dependencies, for the region's ordering pass.
func (s *Sector) SetupForSort(provider DependencyProvider) {
	s.dependsList = s.InputDependencies(provider)
	sort.Strings(s.dependsList)
}

// InputDependencies derives the sector's input dependencies from its period-0
// fuel consumption, expanding each input's own dependencies through the
// provider. Simultaneities are excluded.
func (s *Sector) InputDependencies(provider DependencyProvider) []string {
	var deps []string
	seen := map[string]bool{}
	for fuelName := range s.FuelCons(0) {
		if fuelName == domain.TotalFuelKey || s.isSimul(fuelName) {
			continue
		}
		if !seen[fuelName] {
			seen[fuelName] = true
			deps = append(deps, fuelName)
		}
		if provider == nil {
			continue
		}
		for _, transitive := range provider.SectorDependencies(fuelName) {
			if !seen[transitive] {
				seen[transitive] = true
				deps = append(deps, transitive)
			}
		}
	}
	return deps
}

func (s *Sector) isSimul(name string) bool {
	for _, simul := range s.simulList {
		if simul == name {
			return true
		}
	}
	return false
}

// DependsList returns the dependency list populated by SetupForSort.
func (s *Sector) DependsList() []string {
	return s.dependsList
}

// Subsector returns the named subsector, for inspection and calibration
// checks.
func (s *Sector) Subsector(name string) (*subsector.Subsector, bool) {
	i, ok := s.nameIndex[name]
	if !ok {
		return nil, false
	}
	return s.subsectors[i], true
}

func (s *Sector) Subsectors() []*subsector.Subsector {
	return s.subsectors
}

func (s *Sector) Unit() string {
	return s.unit
}

func (s *Sector) SectorPrice(period int) float64 {
	return s.sectorPrice[period]
}
