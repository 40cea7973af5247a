package subsector

import (
	"math"
	"testing"

	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const maxPeriods = 3

func newTestSubsector(t *testing.T, params Params) (*Subsector, *marketplace.Marketplace) {
	t.Helper()
	log := zap.NewNop().Sugar()
	mkt := marketplace.New(maxPeriods, log)
	if params.Fuel != "" {
		mkt.CreateMarket(params.Fuel, params.RegionName, params.RegionName)
	}
	return New(params, maxPeriods, mkt, log), mkt
}

func TestCalcPrice(t *testing.T) {
	sub, mkt := newTestSubsector(t, Params{
		Name:          "coal steam",
		RegionName:    "USA",
		SectorName:    "electricity",
		Fuel:          "coal",
		Coefficient:   2.5,
		NonEnergyCost: 1.2,
	})
	mkt.SetPrice("coal", "USA", 3.0, 0)

	require.InDelta(t, 3.0*2.5+1.2, sub.CalcPrice(0), 1e-9)
	require.InDelta(t, 3.0*2.5+1.2, sub.Price(0), 1e-9)
}

func TestCalcShare(t *testing.T) {
	t.Run("logit share falls with cost", func(t *testing.T) {
		cheap, mktCheap := newTestSubsector(t, Params{
			Name: "gas", RegionName: "USA", Fuel: "gas",
			Coefficient: 1.0, ShareWeight: 1.0, LogitExponent: -3,
		})
		dear, mktDear := newTestSubsector(t, Params{
			Name: "gas", RegionName: "USA", Fuel: "gas",
			Coefficient: 1.0, ShareWeight: 1.0, LogitExponent: -3,
		})
		mktCheap.SetPrice("gas", "USA", 2.0, 0)
		mktDear.SetPrice("gas", "USA", 4.0, 0)

		cheap.CalcShare(0, nil)
		dear.CalcShare(0, nil)
		require.Greater(t, cheap.Share(0), dear.Share(0))
		require.InDelta(t, math.Pow(2.0, -3), cheap.Share(0), 1e-9)
	})

	t.Run("non-positive cost zeroes the share", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "free", RegionName: "USA",
			ShareWeight: 1.0, LogitExponent: -3, NonEnergyCost: 0,
		})
		sub.CalcShare(0, nil)
		require.Zero(t, sub.Share(0))
	})

	t.Run("income path scales the share through the preference elasticity", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "appliances", RegionName: "USA",
			ShareWeight: 1.0, NonEnergyCost: 2.0, FuelPrefElasticity: 0.5,
		})
		gdp := domain.NewGDP([]float64{100, 144, 200})

		sub.CalcShare(1, gdp)
		require.InDelta(t, math.Pow(1.44, 0.5), sub.Share(1), 1e-9)
	})
}

func TestNormalizeShare(t *testing.T) {
	sub, _ := newTestSubsector(t, Params{
		Name: "gas", RegionName: "USA", ShareWeight: 0.6, NonEnergyCost: 2.0,
	})
	sub.CalcShare(0, nil)

	sub.NormalizeShare(1.2, 0)
	require.InDelta(t, 0.5, sub.Share(0), 1e-9)

	sub.NormalizeShare(0, 0)
	require.Zero(t, sub.Share(0))
}

func TestCapLimitTransform(t *testing.T) {
	t.Run("declared limit of one never constrains", func(t *testing.T) {
		require.Equal(t, 1.0, CapLimitTransform(1.0, 0.99))
	})

	t.Run("share under the limit keeps the declared limit", func(t *testing.T) {
		require.Equal(t, 0.4, CapLimitTransform(0.4, 0.3))
	})

	t.Run("ceiling tightens monotonically past the limit", func(t *testing.T) {
		prev := CapLimitTransform(0.4, 0.4)
		for share := 0.5; share <= 1.0; share += 0.1 {
			ceiling := CapLimitTransform(0.4, share)
			require.Less(t, ceiling, 0.4)
			require.LessOrEqual(t, ceiling, prev)
			prev = ceiling
		}
	})

	t.Run("near-zero limit yields zero", func(t *testing.T) {
		require.Zero(t, CapLimitTransform(0, 0.5))
	})
}

func TestLimitShares(t *testing.T) {
	newSub := func(t *testing.T) *Subsector {
		sub, _ := newTestSubsector(t, Params{
			Name: "hydro", RegionName: "USA",
			ShareWeight: 1.0, NonEnergyCost: 2.0, CapacityLimit: 0.4,
		})
		sub.CalcShare(0, nil)
		sub.NormalizeShare(1/0.6, 0) // share = 0.6, over the limit
		return sub
	}

	t.Run("pending share is pinned to its ceiling and marked applied", func(t *testing.T) {
		sub := newSub(t)
		sub.SetCapLimitStatus(domain.CapLimitPending, 0)

		sub.LimitShares(1.5, 0)
		require.InDelta(t, CapLimitTransform(0.4, 0.6), sub.Share(0), 1e-9)
		require.Equal(t, domain.CapLimitApplied, sub.CapLimitStatus(0))
	})

	t.Run("applied share is never touched again", func(t *testing.T) {
		sub := newSub(t)
		sub.SetCapLimitStatus(domain.CapLimitPending, 0)
		sub.LimitShares(1.5, 0)
		pinned := sub.Share(0)

		sub.LimitShares(2.0, 0)
		require.Equal(t, pinned, sub.Share(0))
	})

	t.Run("unlimited share scales by the multiplier", func(t *testing.T) {
		sub := newSub(t)
		sub.LimitShares(1.5, 0)
		require.InDelta(t, 0.9, sub.Share(0), 1e-9)
	})

	t.Run("fixed-output share is not scaled", func(t *testing.T) {
		sub := newSub(t)
		sub.SetFixedShare(0, 0.6)
		sub.LimitShares(1.5, 0)
		require.InDelta(t, 0.6, sub.Share(0), 1e-9)
	})

	t.Run("zero multiplier zeroes the share", func(t *testing.T) {
		sub := newSub(t)
		sub.LimitShares(0, 0)
		require.Zero(t, sub.Share(0))
	})
}

func TestAdjShares(t *testing.T) {
	t.Run("fixed subsector takes fixed output over demand", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "hydro", RegionName: "USA",
			NonEnergyCost: 2.0, FixedOutput: []float64{40},
		})
		sub.AdjShares(80, 0.5, 40, 0)
		require.InDelta(t, 0.5, sub.Share(0), 1e-9)
	})

	t.Run("variable subsector scales by the share ratio", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "gas", RegionName: "USA", ShareWeight: 0.8, NonEnergyCost: 2.0,
		})
		sub.CalcShare(0, nil)
		sub.AdjShares(80, 0.5, 40, 0)
		require.InDelta(t, 0.4, sub.Share(0), 1e-9)
	})

	t.Run("no fixed output anywhere is a no-op", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "gas", RegionName: "USA", ShareWeight: 0.8, NonEnergyCost: 2.0,
		})
		sub.CalcShare(0, nil)
		sub.AdjShares(80, 0.5, 0, 0)
		require.InDelta(t, 0.8, sub.Share(0), 1e-9)
	})
}

func TestFixedOutputScaling(t *testing.T) {
	sub, _ := newTestSubsector(t, Params{
		Name: "hydro", RegionName: "USA", FixedOutput: []float64{60},
	})
	sub.SetFixedShare(0, 0.4)

	// Output and the stored share scale together, so share = output/demand
	// stays consistent.
	sub.ScaleFixedOutput(0.5, 0)
	require.InDelta(t, 30.0, sub.FixedOutput(0), 1e-9)
	require.InDelta(t, 0.2, sub.FixedShare(0), 1e-9)
	sub.SetShareToFixedValue(0)
	require.InDelta(t, 0.2, sub.Share(0), 1e-9)

	// ResetFixedOutput restores the declared quantity for the next iteration.
	sub.ResetFixedOutput(0)
	require.InDelta(t, 60.0, sub.FixedOutput(0), 1e-9)
}

func TestSetOutput_registersFuelDemand(t *testing.T) {
	sub, mkt := newTestSubsector(t, Params{
		Name: "coal steam", RegionName: "USA", Fuel: "coal",
		Coefficient: 2.5, ShareWeight: 1.0, NonEnergyCost: 1.0,
	})
	sub.CalcShare(0, nil)

	sub.SetOutput(10, 0)
	require.InDelta(t, 10.0, sub.Output(0), 1e-9)
	require.InDelta(t, 25.0, sub.Input(0), 1e-9)
	require.InDelta(t, 25.0, mkt.Demand("coal", "USA", 0), 1e-9)
	require.Equal(t, map[string]float64{"coal": 25.0}, sub.FuelCons(0))
}

func TestCalibration(t *testing.T) {
	t.Run("adjust moves the share to the calibration target", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "coal steam", RegionName: "USA",
			ShareWeight: 1.0, NonEnergyCost: 2.0, CalOutput: []float64{80},
		})
		sub.CalcShare(0, nil)
		require.True(t, sub.CalibrationStatus(0))

		// Demand 100, 20 of it fixed elsewhere: target share is 80% of the
		// remaining 80, i.e. 0.64.
		sub.AdjustForCalibration(100, 20, 100, false, 0)
		require.InDelta(t, 0.64, sub.Share(0), 1e-9)
		require.InDelta(t, 0.64, sub.ShareWeight(0), 1e-9)
	})

	t.Run("all-fixed sector targets the raw calibration share", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "coal steam", RegionName: "USA",
			ShareWeight: 1.0, NonEnergyCost: 2.0, CalOutput: []float64{80},
		})
		sub.CalcShare(0, nil)

		sub.AdjustForCalibration(100, 20, 80, true, 0)
		require.InDelta(t, 0.8, sub.Share(0), 1e-9)
	})

	t.Run("implied fixed input back-computes calibrated output", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "coal steam", RegionName: "USA", Fuel: "coal",
			Coefficient: 2.0, ShareWeight: 1.0, CalOutput: []float64{80},
		})
		require.True(t, sub.SetImpliedFixedInput(0, "coal", 50))
		require.InDelta(t, 25.0, sub.TotalCalOutputs(0), 1e-9)

		require.False(t, sub.SetImpliedFixedInput(0, "gas", 50))
	})

	t.Run("scale calibrated values is fuel scoped", func(t *testing.T) {
		sub, _ := newTestSubsector(t, Params{
			Name: "coal steam", RegionName: "USA", Fuel: "coal",
			Coefficient: 2.0, CalOutput: []float64{80},
		})
		sub.ScaleCalibratedValues(0, "gas", 0.5)
		require.InDelta(t, 80.0, sub.TotalCalOutputs(0), 1e-9)

		sub.ScaleCalibratedValues(0, "coal", 0.5)
		require.InDelta(t, 40.0, sub.TotalCalOutputs(0), 1e-9)
	})
}

func TestFixedQueries(t *testing.T) {
	sub, _ := newTestSubsector(t, Params{
		Name: "coal steam", RegionName: "USA", Fuel: "coal",
		Coefficient: 2.0, ShareWeight: 1.0,
		FixedOutput: []float64{0, 30},
		CalOutput:   []float64{80},
	})

	require.True(t, sub.AllOutputFixed(0))  // calibrated
	require.True(t, sub.AllOutputFixed(1))  // fixed output
	require.False(t, sub.AllOutputFixed(2)) // price responsive

	require.True(t, sub.InputsAllFixed(0, "coal"))
	require.True(t, sub.InputsAllFixed(2, "gas")) // does not consume gas
	require.False(t, sub.InputsAllFixed(2, AllInputs))

	require.InDelta(t, 80.0, sub.CalAndFixedOutputs(0, false), 1e-9)
	require.InDelta(t, 30.0, sub.CalAndFixedOutputs(1, true), 1e-9)
	require.InDelta(t, 160.0, sub.CalAndFixedInputs(0, "coal", false), 1e-9)
	require.Zero(t, sub.CalAndFixedInputs(0, "gas", false))
}

func TestEmissions(t *testing.T) {
	sub, _ := newTestSubsector(t, Params{
		Name: "coal steam", RegionName: "USA", Fuel: "coal",
		Coefficient: 2.0, CO2Coefficient: 0.025, ShareWeight: 1.0, NonEnergyCost: 1.0,
	})
	sub.CalcShare(0, nil)
	sub.SetOutput(10, 0)

	sub.Emission(0)
	require.InDelta(t, 0.025*20, sub.GetEmission(0)["CO2"], 1e-9)
	require.InDelta(t, 0.025*20, sub.GetEmFuelMap(0)["coal"], 1e-9)

	sub.IndEmission(0, map[string]float64{"coal": 0.1})
	require.InDelta(t, 0.1*20, sub.GetEmIndMap(0)["CO2"], 1e-9)

	sub.IndEmission(0, map[string]float64{"gas": 0.1})
	require.Empty(t, sub.GetEmIndMap(0))
}

func TestTabulateFixedDemands(t *testing.T) {
	sub, mkt := newTestSubsector(t, Params{
		Name: "coal steam", RegionName: "USA", Fuel: "coal",
		Coefficient: 2.0, CalOutput: []float64{80},
	})
	sub.TabulateFixedDemands(0)

	fixed, err := mkt.MarketInfo("coal", "USA", 0, "fixedDemand")
	require.NoError(t, err)
	require.InDelta(t, 160.0, fixed, 1e-9)
}
