package region

import (
	"math"

	"github.com/jeffnemesis/gcam-core/internal/domain"
	"github.com/jeffnemesis/gcam-core/internal/marketplace"
	"github.com/jeffnemesis/gcam-core/internal/util"
)

// FinalDemand writes constant-elasticity demand for one good into the
// marketplace:
//
//	D = base * (P/P0)^priceElasticity * (GDP/GDP0)^incomeElasticity
//
// P0 is the price observed in the base period, captured on the first calc.
type FinalDemand struct {
	good             string
	regionName       string
	baseService      float64
	priceElasticity  float64
	incomeElasticity float64
	basePrice        float64

	demand []float64

	mkt *marketplace.Marketplace
}

func NewFinalDemand(good, regionName string, baseService, priceElasticity, incomeElasticity float64, maxPeriods int, mkt *marketplace.Marketplace) *FinalDemand {
	return &FinalDemand{
		good:             good,
		regionName:       regionName,
		baseService:      baseService,
		priceElasticity:  priceElasticity,
		incomeElasticity: incomeElasticity,
		demand:           make([]float64, maxPeriods),
		mkt:              mkt,
	}
}

func (d *FinalDemand) Good() string {
	return d.good
}

// CalcDemand computes the period's service demand and adds it to the good's
// market.
func (d *FinalDemand) CalcDemand(period int, gdp *domain.GDP) {
	price := d.mkt.Price(d.good, d.regionName, period)

	if period == 0 || d.basePrice == 0 {
		if price > util.SmallNumber {
			d.basePrice = price
		}
	}

	demand := d.baseService
	if d.basePrice > util.SmallNumber && price > util.SmallNumber && d.priceElasticity != 0 {
		demand *= math.Pow(price/d.basePrice, d.priceElasticity)
	}
	if d.incomeElasticity != 0 && gdp != nil {
		demand *= math.Pow(gdp.RatioToBase(period), d.incomeElasticity)
	}

	d.demand[period] = demand
	d.mkt.AddToDemand(d.good, d.regionName, demand, period)
}

func (d *FinalDemand) Demand(period int) float64 {
	return d.demand[period]
}
