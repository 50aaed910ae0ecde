// Package chem holds the composition arithmetic used by the elementz tools:
// formula parsing and rendering, largest-remainder apportionment and
// weighted mixtures. Everything here is pure; weight tables are passed in by
// the caller and never stored.
package chem

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// WeightTable maps an element symbol to its atomic weight.
type WeightTable map[string]float64

// Composition maps element symbols to quantities. It is a value type: every
// operation returns a new Composition and never touches its inputs.
type Composition struct {
	q map[string]float64
}

// Of builds a Composition from a literal map. The map is copied.
func Of(quantities map[string]float64) Composition {
	q := make(map[string]float64, len(quantities))
	for s, v := range quantities {
		q[s] = v
	}
	return Composition{q: q}
}

// Counts builds a Composition from integer counts.
func Counts(counts map[string]int) Composition {
	q := make(map[string]float64, len(counts))
	for s, v := range counts {
		q[s] = float64(v)
	}
	return Composition{q: q}
}

func (c Composition) Len() int { return len(c.q) }

func (c Composition) IsEmpty() bool { return len(c.q) == 0 }

// Get returns the quantity for symbol and whether it is present.
func (c Composition) Get(symbol string) (float64, bool) {
	v, ok := c.q[symbol]
	return v, ok
}

// Symbols returns the symbols in ascending order.
func (c Composition) Symbols() []string {
	out := make([]string, 0, len(c.q))
	for s := range c.q {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Map returns a copy of the underlying quantities.
func (c Composition) Map() map[string]float64 {
	out := make(map[string]float64, len(c.q))
	for s, v := range c.q {
		out[s] = v
	}
	return out
}

// Equal reports whether both compositions hold the same symbols with the
// same quantities.
func (c Composition) Equal(other Composition) bool {
	return c.ApproxEqual(other, 0)
}

// ApproxEqual is Equal with an absolute tolerance per symbol.
func (c Composition) ApproxEqual(other Composition, tol float64) bool {
	if len(c.q) != len(other.q) {
		return false
	}
	for s, v := range c.q {
		w, ok := other.q[s]
		if !ok || math.Abs(v-w) > tol {
			return false
		}
	}
	return true
}

// String renders c with Render; if c cannot be rendered the raw quantities
// are printed instead.
func (c Composition) String() string {
	s, err := Render(c)
	if err == nil {
		return s
	}
	parts := make([]string, 0, len(c.q))
	for _, sym := range c.Symbols() {
		parts = append(parts, fmt.Sprintf("%s:%g", sym, c.q[sym]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// Scale multiplies every quantity by factor. Negative quantities have no
// physical meaning, so negative and non-finite factors are rejected.
func Scale(c Composition, factor float64) (Composition, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return Composition{}, invalidf("scale factor %v must be a finite non-negative number", factor)
	}
	q := make(map[string]float64, len(c.q))
	for s, v := range c.q {
		q[s] = v * factor
	}
	return Composition{q: q}, nil
}

// Combine sums a and b symbol by symbol.
func Combine(a, b Composition) Composition {
	q := make(map[string]float64, len(a.q)+len(b.q))
	for s, v := range a.q {
		q[s] = v
	}
	for s, v := range b.q {
		q[s] += v
	}
	return Composition{q: q}
}

// MolarWeight returns Σ quantity × weight over c.
func MolarWeight(c Composition, weights WeightTable) (float64, error) {
	total := 0.0
	// sorted so a missing symbol is reported deterministically
	for _, s := range c.Symbols() {
		w, ok := weights[s]
		if !ok {
			return 0, &MissingWeightError{Symbol: s}
		}
		total += c.q[s] * w
	}
	return total, nil
}

// TotalQuantity returns the sum of all quantities in c.
func TotalQuantity(c Composition) float64 {
	total := 0.0
	for _, v := range c.q {
		total += v
	}
	return total
}

// Normalize scales c so that its total quantity equals total.
func Normalize(c Composition, total float64) (Composition, error) {
	sum := TotalQuantity(c)
	if sum <= 0 {
		return Composition{}, invalidf("cannot normalize a composition with total quantity %v", sum)
	}
	return Scale(c, total/sum)
}
