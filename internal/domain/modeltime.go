package domain

import "fmt"

// Modeltime maps model periods to calendar years. Period arrays everywhere in
// the model are sized by MaxPeriods at construction and never resized.
type Modeltime struct {
	years []int
}

func NewModeltime(years []int) (*Modeltime, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("modeltime requires at least one year")
	}
	for i := 1; i < len(years); i++ {
		if years[i] <= years[i-1] {
			return nil, fmt.Errorf("modeltime years must be strictly increasing, got %d after %d", years[i], years[i-1])
		}
	}
	copied := make([]int, len(years))
	copy(copied, years)
	return &Modeltime{years: copied}, nil
}

func (m *Modeltime) MaxPeriods() int {
	return len(m.years)
}

func (m *Modeltime) PeriodToYear(period int) int {
	if period < 0 || period >= len(m.years) {
		return 0
	}
	return m.years[period]
}

func (m *Modeltime) YearToPeriod(year int) (int, bool) {
	for i, y := range m.years {
		if y == year {
			return i, true
		}
	}
	return 0, false
}
