package marketplace

import (
	"fmt"

	"go.uber.org/zap"
)

// Marketplace is the per-good, per-market-region, per-period ledger of price,
// supply, and demand. Sectors write prices and supplies into it and read
// demand back out; final demands write demand. Several model regions may share
// one market region (a multi-region market), bound via CreateMarket.
type Marketplace struct {
	maxPeriods int
	markets    map[marketKey]*market
	// regionToMarket maps (good, model region) to the market region whose
	// ledger that region trades in.
	regionToMarket map[marketKey]string
	log            *zap.SugaredLogger
}

type marketKey struct {
	good   string
	region string
}

type market struct {
	name   string
	price  []float64
	supply []float64
	demand []float64
	info   []map[string]float64
}

func New(maxPeriods int, log *zap.SugaredLogger) *Marketplace {
	return &Marketplace{
		maxPeriods:     maxPeriods,
		markets:        map[marketKey]*market{},
		regionToMarket: map[marketKey]string{},
		log:            log,
	}
}

// CreateMarket registers a market for a good and binds the model region to
// the market region. Creating the same market twice is a no-op bind.
func (m *Marketplace) CreateMarket(good, region, marketRegion string) {
	m.regionToMarket[marketKey{good, region}] = marketRegion
	// The market region resolves to itself so the solver can read the
	// ledger through the same lookup path.
	m.regionToMarket[marketKey{good, marketRegion}] = marketRegion

	key := marketKey{good, marketRegion}
	if _, ok := m.markets[key]; ok {
		return
	}
	mkt := &market{
		name:   marketRegion,
		price:  make([]float64, m.maxPeriods),
		supply: make([]float64, m.maxPeriods),
		demand: make([]float64, m.maxPeriods),
		info:   make([]map[string]float64, m.maxPeriods),
	}
	for i := range mkt.info {
		mkt.info[i] = map[string]float64{}
	}
	m.markets[key] = mkt
}

func (m *Marketplace) lookup(good, region string) *market {
	marketRegion, ok := m.regionToMarket[marketKey{good, region}]
	if !ok {
		return nil
	}
	return m.markets[marketKey{good, marketRegion}]
}

func (m *Marketplace) DoesMarketExist(good, region string, period int) bool {
	return m.lookup(good, region) != nil && period >= 0 && period < m.maxPeriods
}

func (m *Marketplace) SetPrice(good, region string, price float64, period int) {
	mkt := m.lookup(good, region)
	if mkt == nil {
		m.log.Errorf("cannot set price for unknown market %s in %s", good, region)
		return
	}
	mkt.price[period] = price
}

func (m *Marketplace) Price(good, region string, period int) float64 {
	mkt := m.lookup(good, region)
	if mkt == nil {
		return 0
	}
	return mkt.price[period]
}

func (m *Marketplace) AddToSupply(good, region string, amount float64, period int) {
	mkt := m.lookup(good, region)
	if mkt == nil {
		m.log.Errorf("cannot add supply for unknown market %s in %s", good, region)
		return
	}
	mkt.supply[period] += amount
}

func (m *Marketplace) Supply(good, region string, period int) float64 {
	mkt := m.lookup(good, region)
	if mkt == nil {
		return 0
	}
	return mkt.supply[period]
}

func (m *Marketplace) AddToDemand(good, region string, amount float64, period int) {
	mkt := m.lookup(good, region)
	if mkt == nil {
		m.log.Errorf("cannot add demand for unknown market %s in %s", good, region)
		return
	}
	mkt.demand[period] += amount
}

func (m *Marketplace) Demand(good, region string, period int) float64 {
	mkt := m.lookup(good, region)
	if mkt == nil {
		return 0
	}
	return mkt.demand[period]
}

// SetMarketInfo stores a named scalar on the market for the period, e.g. the
// derived CO2 emission factor a sector publishes alongside its price.
func (m *Marketplace) SetMarketInfo(good, region string, period int, name string, value float64) {
	mkt := m.lookup(good, region)
	if mkt == nil {
		m.log.Errorf("cannot set market info %s for unknown market %s in %s", name, good, region)
		return
	}
	mkt.info[period][name] = value
}

func (m *Marketplace) MarketInfo(good, region string, period int, name string) (float64, error) {
	mkt := m.lookup(good, region)
	if mkt == nil {
		return 0, fmt.Errorf("no market for %s in %s", good, region)
	}
	value, ok := mkt.info[period][name]
	if !ok {
		return 0, fmt.Errorf("market %s in %s has no info %s", good, region, name)
	}
	return value, nil
}

// NullSuppliesAndDemands zeroes supply and demand for every market in the
// period. The solver calls this at the top of each iteration so sectors and
// demands accumulate into a clean ledger.
func (m *Marketplace) NullSuppliesAndDemands(period int) {
	for _, mkt := range m.markets {
		mkt.supply[period] = 0
		mkt.demand[period] = 0
	}
}

// InitPrices seeds period prices from the previous period so each period's
// iteration starts from the last solved point.
func (m *Marketplace) InitPrices(period int) {
	if period == 0 {
		for _, mkt := range m.markets {
			if mkt.price[0] == 0 {
				mkt.price[0] = 1
			}
		}
		return
	}
	for _, mkt := range m.markets {
		if mkt.price[period] == 0 {
			mkt.price[period] = mkt.price[period-1]
		}
	}
}

// Goods returns every (good, market region) pair with a ledger, for the
// solver's convergence sweep.
func (m *Marketplace) Goods() []MarketID {
	out := make([]MarketID, 0, len(m.markets))
	for key := range m.markets {
		out = append(out, MarketID{Good: key.good, Region: key.region})
	}
	return out
}

type MarketID struct {
	Good   string
	Region string
}
