package chem

// WeightedComponent is one entry of a mixture table: a sub-composition and
// how much of it goes into the mixture.
type WeightedComponent struct {
	Composition Composition
	Amount      float64
}

// ReduceWeightedMixture turns a table of mass fractions into one elemental
// composition. Each component is scaled by Amount / MolarWeight so that the
// result is proportional to moles, then all components are combined.
func ReduceWeightedMixture(entries []WeightedComponent, weights WeightTable) (Composition, error) {
	out := Composition{q: map[string]float64{}}
	for i, e := range entries {
		mw, err := MolarWeight(e.Composition, weights)
		if err != nil {
			return Composition{}, err
		}
		if mw <= 0 {
			return Composition{}, invalidf("component %d (%s) has molar weight %v", i, e.Composition, mw)
		}
		scaled, err := Scale(e.Composition, e.Amount/mw)
		if err != nil {
			return Composition{}, err
		}
		out = Combine(out, scaled)
	}
	return out, nil
}

// ReduceFormula combines components by count, without any weight
// conversion. It is used for mineral formulas written as groups, e.g. three
// PO4 units plus one OH unit.
func ReduceFormula(entries []WeightedComponent) (Composition, error) {
	out := Composition{q: map[string]float64{}}
	for _, e := range entries {
		scaled, err := Scale(e.Composition, e.Amount)
		if err != nil {
			return Composition{}, err
		}
		out = Combine(out, scaled)
	}
	return out, nil
}
