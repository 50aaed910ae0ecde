// Package report summarises which items each element is reduced from, so
// the balance of the generated recipes can be checked by eye.
package report

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/flux/elementz/internal/elements"
	"github.com/flux/elementz/internal/recipes"
)

type Entry struct {
	Item     string
	Quantity int
}

type ElementUsage struct {
	Symbol  string
	Entries []Entry
}

// Usage collects element quantities per item across recipes.
type Usage struct {
	bySymbol map[string][]Entry
}

func NewUsage() *Usage {
	return &Usage{bySymbol: map[string][]Entry{}}
}

// Add records the recipe's outputs. Symbols the recipe lists with a zero
// count produce nothing but still count as used, with quantity 0.
func (u *Usage) Add(r recipes.Recipe) {
	listed := make(map[string]struct{}, len(r.Outputs))
	for _, o := range r.Outputs {
		listed[o.Symbol] = struct{}{}
		u.bySymbol[o.Symbol] = append(u.bySymbol[o.Symbol], Entry{Item: r.Input, Quantity: o.Count})
	}
	for _, s := range r.Composition.Symbols() {
		if _, ok := listed[s]; ok {
			continue
		}
		q, _ := r.Composition.Get(s)
		u.bySymbol[s] = append(u.bySymbol[s], Entry{Item: r.Input, Quantity: int(math.Round(q))})
	}
}

// Seen reports whether any recipe produced symbol.
func (u *Usage) Seen(symbol string) bool {
	_, ok := u.bySymbol[symbol]
	return ok
}

// Elements returns one entry per element, sorted by symbol. Entries are
// sorted by quantity descending, then item. Items named after the element
// itself (a lump of the element, say) are left out.
func (u *Usage) Elements(cat *elements.Catalog) []ElementUsage {
	symbols := make([]string, 0, len(u.bySymbol))
	for s := range u.bySymbol {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	out := make([]ElementUsage, 0, len(symbols))
	for _, s := range symbols {
		self := cat.ItemName(s)
		entries := make([]Entry, 0, len(u.bySymbol[s]))
		for _, e := range u.bySymbol[s] {
			if strings.Contains(e.Item, self) {
				continue
			}
			entries = append(entries, e)
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].Quantity != entries[j].Quantity {
				return entries[i].Quantity > entries[j].Quantity
			}
			return entries[i].Item < entries[j].Item
		})
		out = append(out, ElementUsage{Symbol: s, Entries: entries})
	}
	return out
}

// Missing returns the accepted symbols no recipe produces.
func (u *Usage) Missing(cat *elements.Catalog) []string {
	var out []string
	for _, s := range cat.AcceptedSymbols() {
		if !u.Seen(s) {
			out = append(out, s)
		}
	}
	return out
}

// Print writes one line per element with at most top entries, followed by
// "..." when there are more.
func Print(w io.Writer, usage []ElementUsage, top int) error {
	for _, eu := range usage {
		parts := []string{eu.Symbol}
		for i, e := range eu.Entries {
			if top > 0 && i == top {
				parts = append(parts, "...")
				break
			}
			parts = append(parts, fmt.Sprintf("(%s:%d)", e.Item, e.Quantity))
		}
		if _, err := fmt.Fprintln(w, strings.Join(parts, " ")); err != nil {
			return err
		}
	}
	return nil
}

func PrintMissing(w io.Writer, missing []string) error {
	if len(missing) == 0 {
		return nil
	}
	_, err := fmt.Fprintf(w, "MISSING ELEMENTS: %s\n", strings.Join(missing, ", "))
	return err
}
