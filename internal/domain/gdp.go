package domain

// GDP exposes the regional income path to the share calculation. Subsector
// preferences shift with income through a fuel preference elasticity, so the
// share math only ever needs the ratio against the base period.
type GDP struct {
	values []float64
}

func NewGDP(values []float64) *GDP {
	copied := make([]float64, len(values))
	copy(copied, values)
	return &GDP{values: copied}
}

func (g *GDP) Value(period int) float64 {
	if period < 0 || period >= len(g.values) {
		return 0
	}
	return g.values[period]
}

// RatioToBase returns GDP in the given period relative to period 0. Defaults
// to 1 when the base value is missing so share math stays well defined.
func (g *GDP) RatioToBase(period int) float64 {
	if len(g.values) == 0 || g.values[0] == 0 {
		return 1
	}
	return g.Value(period) / g.values[0]
}
