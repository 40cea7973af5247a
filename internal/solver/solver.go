package solver

import (
	"math"

	"github.com/jeffnemesis/gcam-core/internal/config"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"
	"github.com/jeffnemesis/gcam-core/internal/region"
	"github.com/jeffnemesis/gcam-core/internal/util"

	"github.com/google/uuid"
	"github.com/montanaflynn/stats"
	"go.uber.org/zap"
)

// Solver drives the outer fixed-point loop: each period it repeatedly runs
// the regions' calculation pass until market prices and demands stop moving,
// then freezes the period and updates reporting aggregates. The whole run is
// synchronous; non-convergence is a logged warning and the period keeps its
// best-effort values.
type Solver struct {
	maxIterations int
	tolerance     float64
	calAccuracy   float64

	opts config.RunOptions
	mkt  *marketplace.Marketplace
	log  *zap.SugaredLogger
}

func New(cfg config.SolverConfig, opts config.RunOptions, mkt *marketplace.Marketplace, log *zap.SugaredLogger) *Solver {
	return &Solver{
		maxIterations: cfg.MaxIterations,
		tolerance:     cfg.Tolerance,
		calAccuracy:   cfg.CalAccuracy,
		opts:          opts,
		mkt:           mkt,
		log:           log,
	}
}

// Result captures a run's identity and per-period convergence diagnostics.
type Result struct {
	RunID   uuid.UUID
	Periods []PeriodResult
}

type PeriodResult struct {
	Period        int
	Iterations    int
	Converged     bool
	MaxRelChange  float64
	MeanRelChange float64
	Calibrated    bool
}

// Solve runs every period in sequence across the given regions.
func (s *Solver) Solve(regions []*region.Region, maxPeriods int) *Result {
	result := &Result{RunID: uuid.New()}
	log := s.log.With("run_id", result.RunID.String())

	for period := 0; period < maxPeriods; period++ {
		result.Periods = append(result.Periods, s.solvePeriod(regions, period, log))
	}
	return result
}

func (s *Solver) solvePeriod(regions []*region.Region, period int, log *zap.SugaredLogger) PeriodResult {
	s.mkt.InitPrices(period)
	for _, r := range regions {
		r.InitCalc(period)
	}

	res := PeriodResult{Period: period}
	var prev map[marketplace.MarketID][2]float64

	for iteration := 0; iteration < s.maxIterations; iteration++ {
		s.mkt.NullSuppliesAndDemands(period)
		for _, r := range regions {
			r.Calc(period)
		}
		if s.opts.CalibrationActive {
			for _, r := range regions {
				r.CalibrateRegion(period)
			}
		}

		current := s.snapshot(period)
		res.Iterations = iteration + 1

		if prev != nil {
			maxChange, meanChange := relativeChanges(prev, current)
			res.MaxRelChange = maxChange
			res.MeanRelChange = meanChange
			if maxChange < s.tolerance {
				res.Converged = true
			}
		}
		prev = current

		if res.Converged {
			break
		}
	}

	if !res.Converged {
		log.Warnw("period did not converge, keeping best-effort values",
			"period", period,
			"iterations", res.Iterations,
			"max_rel_change", res.MaxRelChange,
			"tolerance", s.tolerance)
	} else {
		log.Infow("period converged",
			"period", period,
			"iterations", res.Iterations,
			"max_rel_change", res.MaxRelChange,
			"mean_rel_change", res.MeanRelChange)
	}

	if s.opts.CalibrationActive {
		res.Calibrated = true
		for _, r := range regions {
			if !r.IsAllCalibrated(period, s.calAccuracy, true) {
				res.Calibrated = false
			}
		}
	}

	for _, r := range regions {
		r.UpdateSummaries(period)
	}
	return res
}

// snapshot captures each market's (price, demand) pair for the period.
func (s *Solver) snapshot(period int) map[marketplace.MarketID][2]float64 {
	out := map[marketplace.MarketID][2]float64{}
	for _, id := range s.mkt.Goods() {
		out[id] = [2]float64{
			s.mkt.Price(id.Good, id.Region, period),
			s.mkt.Demand(id.Good, id.Region, period),
		}
	}
	return out
}

// relativeChanges compares successive snapshots and returns the max and mean
// relative movement across every market's price and demand.
func relativeChanges(prev, current map[marketplace.MarketID][2]float64) (float64, float64) {
	var changes []float64
	for id, cur := range current {
		before, ok := prev[id]
		if !ok {
			continue
		}
		for i := 0; i < 2; i++ {
			denom := math.Max(math.Abs(before[i]), util.SmallNumber)
			changes = append(changes, math.Abs(cur[i]-before[i])/denom)
		}
	}
	if len(changes) == 0 {
		return 0, 0
	}

	maxChange, err := stats.Max(changes)
	if err != nil {
		return 0, 0
	}
	meanChange, err := stats.Mean(changes)
	if err != nil {
		return maxChange, 0
	}
	return maxChange, meanChange
}
