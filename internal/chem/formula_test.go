package chem_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/flux/elementz/internal/chem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]int
	}{
		{"Si1O2", map[string]int{"Si": 1, "O": 2}},
		{"Ca5P2O11C1F1", map[string]int{"Ca": 5, "P": 2, "O": 11, "C": 1, "F": 1}},
		{"O2 Si1", map[string]int{"Si": 1, "O": 2}},
		{"  H2O1 ", map[string]int{"H": 2, "O": 1}},
		{"?3Ab1", map[string]int{"?": 3, "Ab": 1}},
		{"O1H1O4", map[string]int{"O": 4, "H": 1}},
		{"Fe10", map[string]int{"Fe": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := chem.Parse(tt.in)
			require.NoError(t, err)
			assert.True(t, got.Equal(chem.Counts(tt.want)), "got %v", got.Map())
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "SiO2", "Si", "Si1-O2", "1Si", "Si1 O", "Si1.5O2", "Abc1"} {
		t.Run(in, func(t *testing.T) {
			_, err := chem.Parse(in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, chem.ErrParse))
			var pe *chem.ParseError
			assert.ErrorAs(t, err, &pe)
		})
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		in   chem.Composition
		want string
	}{
		{"count then symbol", chem.Counts(map[string]int{"Si": 1, "O": 2}), "O2 Si1"},
		{"ties by symbol", chem.Counts(map[string]int{"K": 2, "Na": 2, "O": 3}), "O3 K2 Na2"},
		{"zero dropped", chem.Counts(map[string]int{"Fe": 2, "Mn": 0}), "Fe2"},
		{"fractional tie goes to first symbol", chem.Of(map[string]float64{"Mg": 0.5, "Fe": 0.5, "O": 1}), "Fe1 O1"},
		{"empty", chem.Composition{}, ""},
		{"rounds total half to even", chem.Of(map[string]float64{"O": 2.5}), "O2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := chem.Render(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_SumsToRoundedTotal(t *testing.T) {
	c := chem.Of(map[string]float64{"Si": 13.4, "O": 33.3, "Al": 7.7, "Fe": 1.9, "Na": 0.4})
	counts, err := chem.RoundedCounts(c)
	require.NoError(t, err)

	sum := 0
	for _, e := range counts {
		sum += e.Count
	}
	assert.Equal(t, 57, sum)
}

func TestRender_RejectsNegativeQuantity(t *testing.T) {
	_, err := chem.Render(chem.Of(map[string]float64{"O": 3, "H": -1}))
	assert.True(t, errors.Is(err, chem.ErrInvalidInput))
}

func TestParseRender_RoundTrip(t *testing.T) {
	symbols := []string{"H", "He", "C", "N", "O", "Si", "Fe", "Ca", "Ab", "?"}
	r := rand.New(rand.NewPCG(42, 43))

	for iter := 0; iter < 500; iter++ {
		counts := map[string]int{}
		for _, s := range symbols {
			if r.IntN(3) == 0 {
				counts[s] = 1 + r.IntN(40)
			}
		}
		if len(counts) == 0 {
			counts["O"] = 1
		}
		c := chem.Counts(counts)

		rendered, err := chem.Render(c)
		require.NoError(t, err)
		back, err := chem.Parse(rendered)
		require.NoError(t, err, "rendered %q", rendered)
		require.True(t, back.Equal(c), "rendered %q parsed as %v", rendered, back.Map())
	}
}
