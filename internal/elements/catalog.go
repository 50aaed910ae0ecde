package elements

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Catalog is the element table plus the mod's own pseudo-elements, minus
// the elements the mod leaves out. It is built once per run and read-only
// afterwards.
type Catalog struct {
	table    *Table
	names    map[string]string
	accepted map[string]struct{}
	lower    cases.Caser
}

// NewCatalog accepts every symbol of t plus extras (symbol -> display name),
// then removes excluded symbols.
func NewCatalog(t *Table, extras map[string]string, excluded []string) *Catalog {
	c := &Catalog{
		table:    t,
		names:    make(map[string]string, len(t.Names)+len(extras)),
		accepted: make(map[string]struct{}, len(t.Symbols)+len(extras)),
		lower:    cases.Lower(language.English),
	}
	for _, s := range t.Symbols {
		c.names[s] = t.Names[s]
		c.accepted[s] = struct{}{}
	}
	for s, name := range extras {
		c.names[s] = name
		c.accepted[s] = struct{}{}
	}
	for _, s := range excluded {
		delete(c.accepted, s)
	}
	return c
}

func (c *Catalog) Table() *Table { return c.table }

func (c *Catalog) IsAccepted(symbol string) bool {
	_, ok := c.accepted[symbol]
	return ok
}

// Name returns the display name for symbol, or the symbol itself if the
// catalog has no name for it.
func (c *Catalog) Name(symbol string) string {
	if n := c.names[symbol]; n != "" {
		return n
	}
	return symbol
}

// ItemName is the lower-case element name used in mod item ids
// ("elements:oxygen").
func (c *Catalog) ItemName(symbol string) string {
	return c.lower.String(c.Name(symbol))
}

// AcceptedSymbols returns the accepted symbols in ascending order.
func (c *Catalog) AcceptedSymbols() []string {
	out := make([]string, 0, len(c.accepted))
	for s := range c.accepted {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
