package subsector

import (
	"math"

	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"
	"github.com/jeffnemesis/gcam-core/internal/util"

	"go.uber.org/zap"
)

// Subsector is a technology-aggregation unit within a sector. It produces the
// sector's good from a single fuel, computes its own unnormalized share from
// cost, and carries the fixed-output, calibration, and capacity-limit state
// the sector's share algebra works against.
type Subsector struct {
	name       string
	regionName string
	sectorName string

	fuel               string
	coefficient        float64
	nonEnergyCost      float64
	co2Coefficient     float64
	logitExponent      float64
	fuelPrefElasticity float64

	shareWeight []float64
	share       []float64
	price       []float64
	output      []float64
	input       []float64

	// declaredFixedOutput is the exogenous must-run quantity from the
	// scenario; fixedOutput is the working copy the reconciliation scales,
	// restored from the declared value by ResetFixedOutput.
	declaredFixedOutput []float64
	fixedOutput         []float64
	fixedShare          []float64

	calOutput []float64
	calStatus []bool

	capLimit  []float64
	capStatus []domain.CapLimitStatus

	emission  []map[string]float64
	emissFuel []map[string]float64
	emissInd  []map[string]float64

	mkt *marketplace.Marketplace
	log *zap.SugaredLogger
}

type Params struct {
	Name               string
	RegionName         string
	SectorName         string
	Fuel               string
	ShareWeight        float64
	LogitExponent      float64
	Coefficient        float64
	NonEnergyCost      float64
	CO2Coefficient     float64
	FuelPrefElasticity float64
	// CapacityLimit of 1 means unconstrained.
	CapacityLimit float64
	// FixedOutput and CalOutput are per-period, zero where absent.
	FixedOutput []float64
	CalOutput   []float64
}

func New(params Params, maxPeriods int, mkt *marketplace.Marketplace, log *zap.SugaredLogger) *Subsector {
	s := &Subsector{
		name:               params.Name,
		regionName:         params.RegionName,
		sectorName:         params.SectorName,
		fuel:               params.Fuel,
		coefficient:        params.Coefficient,
		nonEnergyCost:      params.NonEnergyCost,
		co2Coefficient:     params.CO2Coefficient,
		logitExponent:      params.LogitExponent,
		fuelPrefElasticity: params.FuelPrefElasticity,

		shareWeight: make([]float64, maxPeriods),
		share:       make([]float64, maxPeriods),
		price:       make([]float64, maxPeriods),
		output:      make([]float64, maxPeriods),
		input:       make([]float64, maxPeriods),

		declaredFixedOutput: make([]float64, maxPeriods),
		fixedOutput:         make([]float64, maxPeriods),
		fixedShare:          make([]float64, maxPeriods),

		calOutput: make([]float64, maxPeriods),
		calStatus: make([]bool, maxPeriods),

		capLimit:  make([]float64, maxPeriods),
		capStatus: make([]domain.CapLimitStatus, maxPeriods),

		emission:  make([]map[string]float64, maxPeriods),
		emissFuel: make([]map[string]float64, maxPeriods),
		emissInd:  make([]map[string]float64, maxPeriods),

		mkt: mkt,
		log: log,
	}

	capLimit := params.CapacityLimit
	if capLimit == 0 {
		capLimit = 1
	}
	for p := 0; p < maxPeriods; p++ {
		s.shareWeight[p] = params.ShareWeight
		s.capLimit[p] = capLimit
		if p < len(params.FixedOutput) {
			s.declaredFixedOutput[p] = params.FixedOutput[p]
			s.fixedOutput[p] = params.FixedOutput[p]
		}
		if p < len(params.CalOutput) && params.CalOutput[p] > 0 {
			s.calOutput[p] = params.CalOutput[p]
			s.calStatus[p] = true
		}
		s.emission[p] = map[string]float64{}
		s.emissFuel[p] = map[string]float64{}
		s.emissInd[p] = map[string]float64{}
	}
	return s
}

func (s *Subsector) Name() string {
	return s.name
}

func (s *Subsector) Fuel() string {
	return s.fuel
}

// InitCalc restores per-period working state at the start of a period:
// fixed output back to its declared value and the capacity-limit status to
// unlimited.
func (s *Subsector) InitCalc(period int) {
	s.fixedOutput[period] = s.declaredFixedOutput[period]
	s.capStatus[period] = domain.CapUnlimited
}

// CalcPrice computes the cost of production: fuel price times the input
// coefficient plus the non-energy cost.
func (s *Subsector) CalcPrice(period int) float64 {
	fuelPrice := 0.0
	if s.fuel != "" {
		fuelPrice = s.mkt.Price(s.fuel, s.regionName, period)
	}
	s.price[period] = fuelPrice*s.coefficient + s.nonEnergyCost
	return s.price[period]
}

// CalcShare computes the unnormalized logit share from cost and the income
// path. A non-positive cost zeroes the share.
func (s *Subsector) CalcShare(period int, gdp *domain.GDP) {
	price := s.CalcPrice(period)
	if price <= util.SmallNumber {
		s.share[period] = 0
		return
	}
	share := s.shareWeight[period] * math.Pow(price, s.logitExponent)
	if s.fuelPrefElasticity != 0 && gdp != nil {
		share *= math.Pow(gdp.RatioToBase(period), s.fuelPrefElasticity)
	}
	s.share[period] = share
}

func (s *Subsector) Share(period int) float64 {
	return s.share[period]
}

// NormalizeShare divides the share by the given normalization sum. A zero sum
// zeroes the share.
func (s *Subsector) NormalizeShare(sum float64, period int) {
	if sum == 0 {
		s.share[period] = 0
		return
	}
	s.share[period] /= sum
}

func (s *Subsector) ShareWeight(period int) float64 {
	return s.shareWeight[period]
}

func (s *Subsector) ScaleShareWeight(scale float64, period int) {
	if scale > 0 {
		s.shareWeight[period] *= scale
	}
}

func (s *Subsector) FixedOutput(period int) float64 {
	return s.fixedOutput[period]
}

func (s *Subsector) ResetFixedOutput(period int) {
	s.fixedOutput[period] = s.declaredFixedOutput[period]
}

// ScaleFixedOutput multiplies the working fixed output and the stored fixed
// share by the same ratio, used both when total fixed output exceeds demand
// and when the stored fixed share drifts between solver iterations. Scaling
// both keeps share = output/demand consistent, so pinning the share to the
// fixed value afterwards lands on the rescaled share.
func (s *Subsector) ScaleFixedOutput(ratio float64, period int) {
	s.fixedOutput[period] *= ratio
	s.fixedShare[period] *= ratio
}

func (s *Subsector) FixedShare(period int) float64 {
	return s.fixedShare[period]
}

func (s *Subsector) SetFixedShare(period int, share float64) {
	s.fixedShare[period] = share
}

// SetShareToFixedValue pins the share to the stored fixed share.
func (s *Subsector) SetShareToFixedValue(period int) {
	s.share[period] = s.fixedShare[period]
}

func (s *Subsector) CapacityLimit(period int) float64 {
	return s.capLimit[period]
}

func (s *Subsector) CapLimitStatus(period int) domain.CapLimitStatus {
	return s.capStatus[period]
}

func (s *Subsector) SetCapLimitStatus(status domain.CapLimitStatus, period int) {
	s.capStatus[period] = status
}

// CapLimitTransform converts a declared capacity-limit fraction into the
// effective ceiling for the current redistribution pass. A declared limit of
// 1 is unconstrained. Past the declared limit the ceiling tightens
// monotonically with the demand fraction (share/limit) so repeated passes
// approach the cap from below instead of ringing on it.
func CapLimitTransform(capLimit, share float64) float64 {
	if capLimit >= 1 {
		return capLimit
	}
	if capLimit < util.TinyNumber {
		return 0
	}
	demandFraction := share / capLimit
	if demandFraction <= 1 {
		return capLimit
	}
	return capLimit / math.Sqrt(demandFraction)
}

// LimitShares applies the capacity-limit redistribution for one pass: a share
// the sector flagged as over its ceiling is pinned there, everything else
// (except fixed-output shares) is scaled up by the multiplier. Shares pinned
// in an earlier pass stay pinned.
func (s *Subsector) LimitShares(multiplier float64, period int) {
	switch s.capStatus[period] {
	case domain.CapLimitApplied:
		return
	case domain.CapLimitPending:
		s.share[period] = CapLimitTransform(s.capLimit[period], s.share[period])
		s.capStatus[period] = domain.CapLimitApplied
		return
	}
	if multiplier == 0 {
		s.share[period] = 0
		return
	}
	if s.fixedShare[period] == 0 {
		s.share[period] *= multiplier
	}
}

// AdjShares reconciles the share with the sector's fixed-output totals: a
// fixed-output subsector's share becomes its fixed output over demand, a
// variable subsector's share is scaled by the sector-computed ratio.
func (s *Subsector) AdjShares(marketDemand, shareRatio, totalFixedOutput float64, period int) {
	if totalFixedOutput <= 0 {
		return
	}
	if s.fixedOutput[period] > 0 {
		if marketDemand > 0 {
			s.share[period] = s.fixedOutput[period] / marketDemand
		}
		return
	}
	s.share[period] *= shareRatio
}

// SetOutput shares the sector demand down to this subsector, derives fuel
// input, and registers that input as demand for the fuel's market.
func (s *Subsector) SetOutput(demand float64, period int) {
	s.output[period] = s.share[period] * demand
	s.input[period] = s.output[period] * s.coefficient
	if s.fuel != "" && s.input[period] != 0 {
		s.mkt.AddToDemand(s.fuel, s.regionName, s.input[period], period)
	}
}

func (s *Subsector) Output(period int) float64 {
	return s.output[period]
}

func (s *Subsector) Input(period int) float64 {
	return s.input[period]
}

func (s *Subsector) Price(period int) float64 {
	return s.price[period]
}

// CO2EmFactor is emissions per unit of output, derived from the fuel
// intensity.
func (s *Subsector) CO2EmFactor(period int) float64 {
	return s.co2Coefficient * s.coefficient
}

func (s *Subsector) CalibrationStatus(period int) bool {
	return s.calStatus[period]
}

// TotalCalOutputs returns the calibration target, zero when the period is not
// calibrated.
func (s *Subsector) TotalCalOutputs(period int) float64 {
	if !s.calStatus[period] {
		return 0
	}
	return s.calOutput[period]
}

// AllOutputFixed reports whether this subsector has no price response:
// calibrated, fixed output, or zero share weight.
func (s *Subsector) AllOutputFixed(period int) bool {
	return s.calStatus[period] || s.declaredFixedOutput[period] > 0 || s.shareWeight[period] == 0
}

// InputsAllFixed reports whether demand for the named good from this
// subsector is insensitive to price. A subsector that does not consume the
// good trivially qualifies.
func (s *Subsector) InputsAllFixed(period int, goodName string) bool {
	if goodName != AllInputs && s.fuel != goodName {
		return true
	}
	return s.AllOutputFixed(period)
}

// AllInputs selects every fuel in the input-oriented queries.
const AllInputs = "allInputs"

// CalAndFixedOutputs returns calibrated output, plus fixed output when
// bothVals is set.
func (s *Subsector) CalAndFixedOutputs(period int, bothVals bool) float64 {
	total := s.TotalCalOutputs(period)
	if bothVals {
		total += s.declaredFixedOutput[period]
	}
	return total
}

// CalAndFixedInputs converts calibrated (and optionally fixed) outputs into
// demand for the named fuel via the input coefficient.
func (s *Subsector) CalAndFixedInputs(period int, goodName string, bothVals bool) float64 {
	if goodName != AllInputs && s.fuel != goodName {
		return 0
	}
	return s.CalAndFixedOutputs(period, bothVals) * s.coefficient
}

// SetImpliedFixedInput back-computes the calibrated output needed to consume
// requiredOutput of the named fuel. Returns true when a calibration value was
// changed.
func (s *Subsector) SetImpliedFixedInput(period int, goodName string, requiredOutput float64) bool {
	if s.fuel != goodName || !s.calStatus[period] || s.coefficient <= 0 {
		return false
	}
	s.calOutput[period] = requiredOutput / s.coefficient
	return true
}

// ScaleCalibratedValues scales the calibration target for subsectors
// consuming the named fuel.
func (s *Subsector) ScaleCalibratedValues(period int, goodName string, scale float64) {
	if s.fuel != goodName || !s.calStatus[period] {
		return
	}
	s.calOutput[period] *= scale
}

// AdjustForCalibration nudges the share weight so the subsector's next share
// calculation reproduces its calibration target against the demand left after
// fixed output is netted out.
func (s *Subsector) AdjustForCalibration(marketDemand, totalFixedOutput, totalCalOutputs float64, allFixedOutputs bool, period int) {
	calOutput := s.TotalCalOutputs(period)
	if calOutput <= 0 || marketDemand <= util.TinyNumber {
		return
	}

	availableDemand := marketDemand - totalFixedOutput
	if availableDemand < 0 {
		availableDemand = 0
	}

	subsectorDemand := calOutput
	if !allFixedOutputs && totalCalOutputs > 0 {
		subsectorDemand = calOutput / totalCalOutputs * availableDemand
	}

	targetShare := subsectorDemand / marketDemand
	if s.share[period] > util.TinyNumber {
		scale := targetShare / s.share[period]
		if !util.IsValidNumber(scale) {
			s.log.Errorw("invalid calibration share weight scale",
				"subsector", s.name, "sector", s.sectorName, "region", s.regionName, "period", period)
			return
		}
		s.ScaleShareWeight(scale, period)
	}
	s.share[period] = targetShare
}

// Emission computes direct CO2 from fuel input for the period.
func (s *Subsector) Emission(period int) {
	s.emission[period] = map[string]float64{}
	s.emissFuel[period] = map[string]float64{}
	co2 := s.co2Coefficient * s.input[period]
	if co2 != 0 {
		s.emission[period]["CO2"] = co2
		s.emissFuel[period][s.fuel] = co2
	}
}

// IndEmission computes indirect CO2 using upstream emission coefficients
// keyed by fuel.
func (s *Subsector) IndEmission(period int, coefficients map[string]float64) {
	s.emissInd[period] = map[string]float64{}
	coef, ok := coefficients[s.fuel]
	if !ok {
		return
	}
	ind := coef * s.input[period]
	if ind != 0 {
		s.emissInd[period]["CO2"] = ind
	}
}

func (s *Subsector) GetEmission(period int) map[string]float64 {
	return s.emission[period]
}

func (s *Subsector) GetEmFuelMap(period int) map[string]float64 {
	return s.emissFuel[period]
}

func (s *Subsector) GetEmIndMap(period int) map[string]float64 {
	return s.emissInd[period]
}

// UpdateSummary is a hook for per-period bookkeeping before the sector sums
// fuel consumption. Nothing to recompute at this level.
func (s *Subsector) UpdateSummary(period int) {}

// FuelCons returns fuel consumption keyed by fuel name.
func (s *Subsector) FuelCons(period int) map[string]float64 {
	if s.fuel == "" {
		return map[string]float64{}
	}
	return map[string]float64{s.fuel: s.input[period]}
}

// TabulateFixedDemands registers fixed and calibrated fuel demands with the
// marketplace so fully-determined markets can be detected up front.
func (s *Subsector) TabulateFixedDemands(period int) {
	fixedInput := s.CalAndFixedInputs(period, AllInputs, true)
	if fixedInput > 0 && s.fuel != "" {
		s.mkt.SetMarketInfo(s.fuel, s.regionName, period, "fixedDemand", fixedInput)
	}
}
