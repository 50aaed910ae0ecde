package report_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/flux/elementz/internal/chem"
	"github.com/flux/elementz/internal/elements"
	"github.com/flux/elementz/internal/recipes"
	"github.com/flux/elementz/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalog(t *testing.T) *elements.Catalog {
	t.Helper()
	tbl, err := elements.Parse(strings.NewReader("index,name,symbol,weight\n" +
		"8,Oxygen,O,15.999\n14,Silicon,Si,28.085\n26,Iron,Fe,55.845\n"))
	require.NoError(t, err)
	return elements.NewCatalog(tbl, nil, nil)
}

func rec(input string, counts ...chem.SymbolCount) recipes.Recipe {
	return recipes.Recipe{Input: input, Outputs: counts}
}

func TestUsage(t *testing.T) {
	cat := catalog(t)
	u := report.NewUsage()
	u.Add(rec("default:stone", chem.SymbolCount{Symbol: "O", Count: 2}, chem.SymbolCount{Symbol: "Si", Count: 1}))
	u.Add(rec("elements:silicon_lump", chem.SymbolCount{Symbol: "Si", Count: 9}))
	u.Add(rec("default:sand", chem.SymbolCount{Symbol: "O", Count: 2}, chem.SymbolCount{Symbol: "Si", Count: 1}))
	u.Add(rec("default:water", chem.SymbolCount{Symbol: "O", Count: 1}))

	got := u.Elements(cat)
	require.Len(t, got, 2)

	assert.Equal(t, "O", got[0].Symbol)
	assert.Equal(t, []report.Entry{
		{Item: "default:sand", Quantity: 2},
		{Item: "default:stone", Quantity: 2},
		{Item: "default:water", Quantity: 1},
	}, got[0].Entries)

	// the silicon lump is named after its own element
	assert.Equal(t, "Si", got[1].Symbol)
	assert.Len(t, got[1].Entries, 2)

	assert.Equal(t, []string{"Fe"}, u.Missing(cat))
}

func TestPrint_Truncates(t *testing.T) {
	entries := make([]report.Entry, 0, 7)
	for i := 7; i > 0; i-- {
		entries = append(entries, report.Entry{Item: fmt.Sprintf("m:i%d", i), Quantity: i})
	}

	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf, []report.ElementUsage{
		{Symbol: "O", Entries: entries},
		{Symbol: "Si", Entries: entries[:5]},
	}, 5))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "O (m:i7:7) (m:i6:6) (m:i5:5) (m:i4:4) (m:i3:3) ...", lines[0])
	assert.Equal(t, "Si (m:i7:7) (m:i6:6) (m:i5:5) (m:i4:4) (m:i3:3)", lines[1])
}

func TestPrintMissing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.PrintMissing(&buf, nil))
	assert.Empty(t, buf.String())

	require.NoError(t, report.PrintMissing(&buf, []string{"Ag", "Au"}))
	assert.Equal(t, "MISSING ELEMENTS: Ag, Au\n", buf.String())
}

func TestUsage_ZeroCountStillSeen(t *testing.T) {
	cat := catalog(t)
	comp, err := chem.Parse("Si1O2Fe0")
	require.NoError(t, err)
	outputs, err := chem.RoundedCounts(comp)
	require.NoError(t, err)

	u := report.NewUsage()
	u.Add(recipes.Recipe{Input: "default:stone", Composition: comp, Outputs: outputs})

	assert.True(t, u.Seen("Fe"))
	assert.Empty(t, u.Missing(cat))

	got := u.Elements(cat)
	require.Len(t, got, 3)
	assert.Equal(t, "Fe", got[0].Symbol)
	assert.Equal(t, []report.Entry{{Item: "default:stone", Quantity: 0}}, got[0].Entries)
}
