package domain

// Summary accumulates per-period reporting aggregates for a sector: fuel
// consumption by fuel, emissions by gas, emissions by fuel and gas, and
// indirect emissions by gas. The "zTotal" key carries the total across fuels,
// matching the reporting convention the CSV layer expects.
type Summary struct {
	fuelCons  map[string]float64
	emission  map[string]float64
	emissFuel map[string]float64
	emissInd  map[string]float64
}

const TotalFuelKey = "zTotal"

func NewSummary() Summary {
	return Summary{
		fuelCons:  map[string]float64{},
		emission:  map[string]float64{},
		emissFuel: map[string]float64{},
		emissInd:  map[string]float64{},
	}
}

func (s *Summary) UpdateFuelCons(fuelInfo map[string]float64) {
	for fuel, amount := range fuelInfo {
		s.fuelCons[fuel] += amount
		if fuel != TotalFuelKey {
			s.fuelCons[TotalFuelKey] += amount
		}
	}
}

func (s *Summary) ClearFuelCons() {
	s.fuelCons = map[string]float64{}
}

func (s *Summary) FuelCons() map[string]float64 {
	return copyMap(s.fuelCons)
}

func (s *Summary) FuelConsByFuel(fuel string) float64 {
	return s.fuelCons[fuel]
}

func (s *Summary) UpdateEmission(emissions map[string]float64) {
	for gas, amount := range emissions {
		s.emission[gas] += amount
	}
}

func (s *Summary) ClearEmission() {
	s.emission = map[string]float64{}
}

func (s *Summary) Emission() map[string]float64 {
	return copyMap(s.emission)
}

func (s *Summary) EmissionByGas(gas string) float64 {
	return s.emission[gas]
}

func (s *Summary) UpdateEmissFuel(emissions map[string]float64) {
	for key, amount := range emissions {
		s.emissFuel[key] += amount
	}
}

func (s *Summary) ClearEmissFuel() {
	s.emissFuel = map[string]float64{}
}

func (s *Summary) EmissFuel() map[string]float64 {
	return copyMap(s.emissFuel)
}

func (s *Summary) UpdateEmissInd(emissions map[string]float64) {
	for gas, amount := range emissions {
		s.emissInd[gas] += amount
	}
}

func (s *Summary) ClearEmissInd() {
	s.emissInd = map[string]float64{}
}

func (s *Summary) EmissInd() map[string]float64 {
	return copyMap(s.emissInd)
}

func copyMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
