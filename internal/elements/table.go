// Package elements loads the element table (index, name, symbol, atomic
// weight) and derives the set of elements the mod accepts in recipes.
package elements

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/flux/elementz/internal/chem"

	"github.com/spf13/afero"
)

const (
	colName   = 1
	colSymbol = 2
	colWeight = 3
)

type Table struct {
	// Symbols keeps the file order.
	Symbols []string
	Names   map[string]string
	Weights chem.WeightTable
}

func Load(fs afero.Fs, path string) (*Table, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open element table %s: %w", path, err)
	}
	defer f.Close()

	t, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("element table %s: %w", path, err)
	}
	return t, nil
}

// Parse reads the CSV element table. The first row is a header. The weight
// column may be empty (the element can be used in recipes but not in
// mass-based mixtures) and may be written in brackets, as tables do for
// elements without stable isotopes.
func Parse(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty file")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	t := &Table{
		Names:   map[string]string{},
		Weights: chem.WeightTable{},
	}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := cr.FieldPos(0)
		if len(row) <= colSymbol {
			return nil, fmt.Errorf("line %d: expected at least %d columns, got %d", line, colSymbol+1, len(row))
		}

		symbol := strings.TrimSpace(row[colSymbol])
		if symbol == "" {
			return nil, fmt.Errorf("line %d: empty symbol", line)
		}
		if _, dup := t.Names[symbol]; dup {
			return nil, fmt.Errorf("line %d: duplicate symbol %q", line, symbol)
		}
		t.Symbols = append(t.Symbols, symbol)
		t.Names[symbol] = strings.TrimSpace(row[colName])

		if len(row) <= colWeight {
			continue
		}
		raw := strings.Trim(strings.TrimSpace(row[colWeight]), "[]")
		if raw == "" {
			continue
		}
		w, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: weight for %s: %w", line, symbol, err)
		}
		if w <= 0 {
			return nil, fmt.Errorf("line %d: weight for %s must be positive, got %v", line, symbol, w)
		}
		t.Weights[symbol] = w
	}

	if len(t.Symbols) == 0 {
		return nil, errors.New("no elements")
	}
	return t, nil
}
