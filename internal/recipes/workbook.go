package recipes

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/xuri/excelize/v2"
)

// Layout says where a sheet keeps its recipe columns (0-indexed). A recipe
// cell of "-" means "use the fallback column".
type Layout struct {
	Sheet       string
	RecipeCol   int
	FallbackCol int
}

// RedoLayout is the main sources sheet: mod, name, base recipe, override.
func RedoLayout(sheet string) Layout {
	return Layout{Sheet: sheet, RecipeCol: 3, FallbackCol: 2}
}

// UncraftLayout is the uncrafting sheet: mod, name, recipe.
func UncraftLayout(sheet string) Layout {
	return Layout{Sheet: sheet, RecipeCol: 2, FallbackCol: 2}
}

// Row is one raw line of a sources sheet.
type Row struct {
	Sheet  string
	Line   int
	Mod    string
	Name   string
	Recipe string
}

func (r Row) Item() string {
	return r.Mod + ":" + r.Name
}

type Workbook struct {
	path string
	f    *excelize.File
}

// OpenWorkbook opens an XLSX workbook through fs.
func OpenWorkbook(fs afero.Fs, path string) (*Workbook, error) {
	src, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer src.Close()

	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("read workbook %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

// Rows returns every non-blank row of the sheet described by l.
func (w *Workbook) Rows(l Layout) ([]Row, error) {
	if idx, _ := w.f.GetSheetIndex(l.Sheet); idx == -1 {
		return nil, fmt.Errorf("workbook %s: missing sheet %q", w.path, l.Sheet)
	}
	raw, err := w.f.GetRows(l.Sheet)
	if err != nil {
		return nil, fmt.Errorf("workbook %s: read sheet %q: %w", w.path, l.Sheet, err)
	}

	out := make([]Row, 0, len(raw))
	for i, cells := range raw {
		if isBlank(cells) {
			continue
		}
		recipe := cell(cells, l.RecipeCol)
		if recipe == "-" {
			recipe = cell(cells, l.FallbackCol)
		}
		out = append(out, Row{
			Sheet:  l.Sheet,
			Line:   i + 1,
			Mod:    cell(cells, 0),
			Name:   cell(cells, 1),
			Recipe: recipe,
		})
	}
	return out, nil
}

func cell(cells []string, col int) string {
	if col < 0 || col >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[col])
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
