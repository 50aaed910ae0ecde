// Package app runs the elementz commands: generating the reducer recipes
// file and reducing mixtures.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/flux/elementz/internal/chem"
	"github.com/flux/elementz/internal/config"
	"github.com/flux/elementz/internal/elements"
	"github.com/flux/elementz/internal/luagen"
	"github.com/flux/elementz/internal/mixtures"
	"github.com/flux/elementz/internal/output"
	"github.com/flux/elementz/internal/recipes"
	"github.com/flux/elementz/internal/report"
	"github.com/flux/elementz/internal/style"

	"github.com/spf13/afero"
)

type App struct {
	FS     afero.Fs
	Stdout io.Writer
	Stderr io.Writer
}

// New returns an App on the OS filesystem and standard streams.
func New() *App {
	return &App{FS: afero.NewOsFs(), Stdout: os.Stdout, Stderr: os.Stderr}
}

// GenerateResult summarises a generate run.
type GenerateResult struct {
	Reducer     int
	Uncraft     int
	Diagnostics []recipes.Diagnostic
	Missing     []string
}

// Generate reads the element table and the sources workbook, writes the Lua
// recipes file and prints the usage report.
func (a *App) Generate(cfg config.Config) (GenerateResult, error) {
	if cfg.WorkbookPath == "" {
		return GenerateResult{}, ExitWithError(CodeConfig, errors.New("no workbook configured: set workbook in elementz.yaml, ELEMENTZ_WORKBOOK or --workbook"))
	}

	cat, err := a.catalog(cfg)
	if err != nil {
		return GenerateResult{}, err
	}

	wb, err := recipes.OpenWorkbook(a.FS, cfg.WorkbookPath)
	if err != nil {
		return GenerateResult{}, err
	}
	defer wb.Close()

	rules := recipes.Rules{Catalog: cat, MaxElements: cfg.MaxElements, TimeDivisor: cfg.TimeDivisor}

	redoRows, err := wb.Rows(recipes.RedoLayout(cfg.RedoSheet))
	if err != nil {
		return GenerateResult{}, err
	}
	doc := luagen.Document{}
	var diags []recipes.Diagnostic
	doc.Reducer, diags = recipes.Convert(redoRows, rules)

	if cfg.UncraftSheet != "" {
		uncraftRows, err := wb.Rows(recipes.UncraftLayout(cfg.UncraftSheet))
		if err != nil {
			return GenerateResult{}, err
		}
		uncraft, more := recipes.Convert(uncraftRows, rules)
		doc.Uncraft = uncraft
		diags = append(diags, more...)
	}

	for _, d := range diags {
		style.Warn(a.Stderr, "%s", d.Error())
	}

	var buf bytes.Buffer
	if err := (luagen.Writer{Catalog: cat}).Write(&buf, doc); err != nil {
		return GenerateResult{}, err
	}
	if err := output.WriteFile(a.FS, cfg.OutputPath, buf.Bytes()); err != nil {
		return GenerateResult{}, err
	}

	usage := report.NewUsage()
	for _, r := range doc.Reducer {
		usage.Add(r)
	}
	byElement := usage.Elements(cat)
	missing := usage.Missing(cat)
	if err := report.Print(a.Stdout, byElement, cfg.UsageTop); err != nil {
		return GenerateResult{}, err
	}
	if err := report.PrintMissing(a.Stdout, missing); err != nil {
		return GenerateResult{}, err
	}
	if cfg.UsageReportPath != "" {
		if err := output.ExportUsageXLSX(a.FS, cfg.UsageReportPath, byElement, cat.Name, missing); err != nil {
			return GenerateResult{}, err
		}
		style.Step(a.Stdout, "usage report written to %s", cfg.UsageReportPath)
	}

	res := GenerateResult{
		Reducer:     len(doc.Reducer),
		Uncraft:     len(doc.Uncraft),
		Diagnostics: diags,
		Missing:     missing,
	}
	style.Done(a.Stdout, "Wrote %d reducer and %d uncraft recipe(s) to %s", res.Reducer, res.Uncraft, cfg.OutputPath)
	return res, nil
}

func (a *App) catalog(cfg config.Config) (*elements.Catalog, error) {
	tbl, err := elements.Load(a.FS, cfg.ElementsPath)
	if err != nil {
		return nil, err
	}
	return elements.NewCatalog(tbl, cfg.ExtraElements, cfg.ExcludedElements), nil
}

// Reduction is a composition scaled to a target atom count.
type Reduction struct {
	Name        string
	Composition chem.Composition
	Formula     string
	// MolarWeight is the weight of the scaled composition.
	MolarWeight float64
}

func (a *App) library(cfg config.Config) (*mixtures.Library, error) {
	lib, err := mixtures.Defaults()
	if err != nil {
		return nil, err
	}
	if err := lib.Load(a.FS, cfg.MixtureFiles...); err != nil {
		return nil, err
	}
	return lib, nil
}

// Mix reduces the named mixture and prints it normalised to cfg.MixCount
// atoms.
func (a *App) Mix(cfg config.Config, name string) (Reduction, error) {
	lib, err := a.library(cfg)
	if err != nil {
		return Reduction{}, err
	}
	m, err := lib.Get(name)
	if err != nil {
		return Reduction{}, ExitWithError(CodeConfig, err)
	}
	tbl, err := elements.Load(a.FS, cfg.ElementsPath)
	if err != nil {
		return Reduction{}, err
	}

	comp, err := m.Reduce(tbl.Weights)
	if err != nil {
		return Reduction{}, err
	}
	red, err := reduction(name, comp, cfg.MixCount, tbl.Weights)
	if err != nil {
		return Reduction{}, err
	}
	a.printReduction(red)
	return red, nil
}

// Render normalises a formula to count atoms, or leaves it as written when
// count is zero.
func (a *App) Render(cfg config.Config, formula string, count float64) (Reduction, error) {
	comp, err := chem.Parse(formula)
	if err != nil {
		return Reduction{}, ExitWithError(CodeConfig, err)
	}
	tbl, err := elements.Load(a.FS, cfg.ElementsPath)
	if err != nil {
		return Reduction{}, err
	}
	red, err := reduction(formula, comp, count, tbl.Weights)
	if err != nil {
		return Reduction{}, err
	}
	a.printReduction(red)
	return red, nil
}

func reduction(name string, comp chem.Composition, count float64, weights chem.WeightTable) (Reduction, error) {
	if count > 0 {
		var err error
		comp, err = chem.Normalize(comp, count)
		if err != nil {
			return Reduction{}, fmt.Errorf("%s: %w", name, err)
		}
	}
	formula, err := chem.Render(comp)
	if err != nil {
		return Reduction{}, fmt.Errorf("%s: %w", name, err)
	}
	mw, err := chem.MolarWeight(comp, weights)
	if err != nil {
		return Reduction{}, fmt.Errorf("%s: %w", name, err)
	}
	return Reduction{Name: name, Composition: comp, Formula: formula, MolarWeight: mw}, nil
}

func (a *App) printReduction(r Reduction) {
	fmt.Fprintf(a.Stdout, "%s: %s\n", style.Bold.Render(r.Name), r.Formula)
	fmt.Fprintln(a.Stdout, style.Dim.Render(fmt.Sprintf("molar weight %.3f", r.MolarWeight)))
}

// ListMixtures prints every known mixture with its mode and origin.
func (a *App) ListMixtures(cfg config.Config) ([]string, error) {
	lib, err := a.library(cfg)
	if err != nil {
		return nil, err
	}
	names := lib.Names()
	for _, name := range names {
		m, err := lib.Get(name)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(a.Stdout, "%-18s %-8s %s\n", name, m.Mode, style.Dim.Render(lib.Source(name)))
	}
	return names, nil
}
