// Package recipes turns the rows of the sources workbook into material
// reducer recipes.
package recipes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/flux/elementz/internal/chem"
	"github.com/flux/elementz/internal/elements"
)

type Recipe struct {
	Sheet       string
	Input       string
	Composition chem.Composition
	// Outputs are the element counts in display order.
	Outputs []chem.SymbolCount
	Time    float64
}

// Rules decide which rows become recipes.
type Rules struct {
	Catalog     *elements.Catalog
	MaxElements int
	TimeDivisor float64
}

type DiagnosticKind int

const (
	Skipped DiagnosticKind = iota
	Unparsable
	UnknownElement
	TooManyElements
)

// Diagnostic explains why a row did not become a recipe. None of them stop
// a run.
type Diagnostic struct {
	Kind DiagnosticKind
	Row  Row
	// Symbols holds the offending symbols for UnknownElement.
	Symbols []string
	Err     error
}

func (d Diagnostic) Error() string {
	switch d.Kind {
	case Skipped:
		return fmt.Sprintf("SKIPPING %s", d.Row.Item())
	case Unparsable:
		return fmt.Sprintf("COULD NOT PARSE %s %q", d.Row.Item(), d.Row.Recipe)
	case UnknownElement:
		return fmt.Sprintf("UNKNOWN ELEMENT IN %s %q (%s)", d.Row.Item(), d.Row.Recipe, strings.Join(d.Symbols, ", "))
	case TooManyElements:
		return fmt.Sprintf("TOO MANY ELEMENTS IN RECIPE: %s %q", d.Row.Item(), d.Row.Recipe)
	}
	return fmt.Sprintf("unknown diagnostic for %s", d.Row.Item())
}

func (d Diagnostic) Unwrap() error { return d.Err }

// Convert builds recipes from rows in order. Rows without a recipe (empty
// or "*") are skipped; rows that fail to parse, use elements outside the
// catalog or have too many distinct elements are reported and left out.
func Convert(rows []Row, rules Rules) ([]Recipe, []Diagnostic) {
	recipes := make([]Recipe, 0, len(rows))
	var diags []Diagnostic

	for _, row := range rows {
		r, diag := convertOne(row, rules)
		if diag != nil {
			diags = append(diags, *diag)
			continue
		}
		recipes = append(recipes, r)
	}
	return recipes, diags
}

func convertOne(row Row, rules Rules) (Recipe, *Diagnostic) {
	if row.Recipe == "" || row.Recipe == "*" {
		return Recipe{}, &Diagnostic{Kind: Skipped, Row: row}
	}

	comp, err := chem.Parse(row.Recipe)
	if err != nil {
		return Recipe{}, &Diagnostic{Kind: Unparsable, Row: row, Err: err}
	}

	var unknown []string
	for _, s := range comp.Symbols() {
		if !rules.Catalog.IsAccepted(s) {
			unknown = append(unknown, s)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Recipe{}, &Diagnostic{Kind: UnknownElement, Row: row, Symbols: unknown}
	}
	if rules.MaxElements > 0 && comp.Len() > rules.MaxElements {
		return Recipe{}, &Diagnostic{Kind: TooManyElements, Row: row}
	}

	outputs, err := chem.RoundedCounts(comp)
	if err != nil {
		return Recipe{}, &Diagnostic{Kind: Unparsable, Row: row, Err: err}
	}

	divisor := rules.TimeDivisor
	if divisor <= 0 {
		divisor = 3
	}
	return Recipe{
		Sheet:       row.Sheet,
		Input:       row.Item(),
		Composition: comp,
		Outputs:     outputs,
		Time:        chem.TotalQuantity(comp) / divisor,
	}, nil
}
