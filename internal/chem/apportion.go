package chem

import (
	"math"
	"sort"
)

// Apportion splits total into integer parts proportional to weights using the
// largest remainder method. The result has the same length and order as
// weights and always sums to total.
//
// Entries with equal fractional remainders are rounded up in input order.
func Apportion(weights []float64, total int) ([]int, error) {
	floors, fracs, leftover, err := apportionBase(weights, total)
	if err != nil {
		return nil, err
	}

	order := make([]int, len(weights))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return fracs[order[i]] > fracs[order[j]]
	})

	for _, i := range order[:leftover] {
		floors[i]++
	}
	return floors, nil
}

// apportionBase returns the floored shares, their fractional remainders and
// the number of units still to hand out.
func apportionBase(weights []float64, total int) ([]int, []float64, int, error) {
	if len(weights) == 0 {
		return nil, nil, 0, invalidf("no weights to apportion")
	}
	if total < 0 {
		return nil, nil, 0, invalidf("negative target total %d", total)
	}

	sum := 0.0
	for i, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return nil, nil, 0, invalidf("weight[%d]=%v must be a finite non-negative number", i, w)
		}
		sum += w
	}
	if sum == 0 {
		return nil, nil, 0, invalidf("weights sum to zero")
	}
	if math.IsInf(sum, 0) {
		weights, sum = rescale(weights)
	}

	n := len(weights)
	floors := make([]int, n)
	fracs := make([]float64, n)
	assigned := 0
	for i, w := range weights {
		share := w * float64(total)
		if math.IsInf(share, 0) {
			share = w / sum * float64(total)
		} else {
			share /= sum
		}
		share = snap(share)
		whole, frac := math.Modf(share)
		floors[i] = int(whole)
		fracs[i] = frac
		assigned += floors[i]
	}

	// Rounding error in the shares can leave the floors a whole unit off in
	// either direction; settle it here so leftover ends up in [0, n).
	leftover := total - assigned
	for leftover >= n {
		for i := range floors {
			floors[i]++
		}
		leftover -= n
	}
	for leftover < 0 {
		j := -1
		for i := range floors {
			if floors[i] > 0 && (j == -1 || fracs[i] <= fracs[j]) {
				j = i
			}
		}
		floors[j]--
		fracs[j] = 0
		leftover++
	}
	return floors, fracs, leftover, nil
}

// rescale divides every weight by the largest one so that their sum is
// finite. It returns a new slice and its sum.
func rescale(weights []float64) ([]float64, float64) {
	largest := 0.0
	for _, w := range weights {
		largest = math.Max(largest, w)
	}
	out := make([]float64, len(weights))
	sum := 0.0
	for i, w := range weights {
		out[i] = w / largest
		sum += out[i]
	}
	return out, sum
}

// snap rounds x to the nearest integer when it is within a few ulps of it,
// so that a share like 49.99999999999999 floors to 50.
func snap(x float64) float64 {
	r := math.Round(x)
	if r == x {
		return x
	}
	ulp := math.Nextafter(math.Abs(r), math.Inf(1)) - math.Abs(r)
	if math.Abs(x-r) <= 8*ulp {
		return r
	}
	return x
}
