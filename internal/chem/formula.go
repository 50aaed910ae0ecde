package chem

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Parse reads a formula made of (symbol, count) pairs such as "Ca5P2O11C1F1".
// Pairs may be separated by whitespace, which is what Render produces.
// Symbols are one or two ASCII letters, or "?" for the unknown
// pseudo-element; counts are unsigned integers. If a symbol repeats, the
// last count wins.
func Parse(s string) (Composition, error) {
	q := make(map[string]float64)
	i := skipSpace(s, 0)
	if i == len(s) {
		return Composition{}, &ParseError{Input: s, Offset: i, Reason: "empty formula"}
	}

	for i < len(s) {
		start := i
		switch {
		case s[i] == '?':
			i++
		case isLetter(s[i]):
			i++
			if i < len(s) && isLetter(s[i]) {
				i++
			}
		default:
			return Composition{}, &ParseError{Input: s, Offset: i, Reason: "expected element symbol"}
		}
		symbol := s[start:i]

		digits := i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if digits == i {
			return Composition{}, &ParseError{Input: s, Offset: i, Reason: "expected count after " + strconv.Quote(symbol)}
		}
		n, err := strconv.Atoi(s[digits:i])
		if err != nil {
			return Composition{}, &ParseError{Input: s, Offset: digits, Reason: err.Error()}
		}
		q[symbol] = float64(n)

		i = skipSpace(s, i)
	}
	return Composition{q: q}, nil
}

// Render formats c as space separated symbol/count pairs, largest count
// first and ties by symbol. Fractional quantities are rounded with Apportion
// so that the counts add up to the rounded total quantity; symbols whose
// count rounds to zero are left out.
func Render(c Composition) (string, error) {
	entries, err := RoundedCounts(c)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, e := range entries {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(e.Symbol)
		b.WriteString(strconv.Itoa(e.Count))
	}
	return b.String(), nil
}

// SymbolCount is one rounded entry of a composition.
type SymbolCount struct {
	Symbol string
	Count  int
}

// RoundedCounts returns the non-zero integer counts Render would print, in
// display order.
func RoundedCounts(c Composition) ([]SymbolCount, error) {
	symbols := c.Symbols()
	total := TotalQuantity(c)
	if len(symbols) == 0 || total == 0 {
		return nil, nil
	}

	weights := make([]float64, len(symbols))
	for i, s := range symbols {
		weights[i] = c.q[s]
	}
	// round half to even, e.g. 2.5 -> 2
	counts, err := Apportion(weights, int(math.RoundToEven(total)))
	if err != nil {
		return nil, err
	}

	out := make([]SymbolCount, 0, len(symbols))
	for i, s := range symbols {
		if counts[i] == 0 {
			continue
		}
		out = append(out, SymbolCount{Symbol: s, Count: counts[i]})
	}
	SortCounts(out)
	return out, nil
}

// SortCounts orders entries by count descending, then symbol ascending.
func SortCounts(entries []SymbolCount) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Symbol < entries[j].Symbol
	})
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
