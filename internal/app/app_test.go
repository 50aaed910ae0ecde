package app

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/flux/elementz/internal/config"
	"github.com/flux/elementz/internal/luagen"
	"github.com/flux/elementz/internal/recipes"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testElements = `index,name,symbol,weight
1,Hydrogen,H,1.008
6,Carbon,C,12.011
8,Oxygen,O,15.999
11,Sodium,Na,22.99
12,Magnesium,Mg,24.305
14,Silicon,Si,28.085
20,Calcium,Ca,40.078
26,Iron,Fe,55.845
43,Technetium,Tc,98
`

type harness struct {
	app    *App
	fs     afero.Fs
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	cfg    config.Config
}

func newHarness(t *testing.T, elementsCSV string) *harness {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/p/elements.csv", []byte(elementsCSV), 0o644))

	cfg := config.Default()
	cfg.Root = "/p"
	cfg.ElementsPath = "/p/elements.csv"
	cfg.OutputPath = "/p/out/output.lua"
	cfg.ExtraElements = map[string]string{"?": "Unknown"}
	cfg.ExcludedElements = []string{"Tc"}

	h := &harness{fs: fs, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}, cfg: cfg}
	h.app = &App{FS: fs, Stdout: h.stdout, Stderr: h.stderr}
	return h
}

func (h *harness) workbook(t *testing.T, path string, sheets map[string][][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cellName, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cellName, &r))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(h.fs, path, buf.Bytes(), 0o644))
	h.cfg.WorkbookPath = path
}

func sources() map[string][][]any {
	return map[string][][]any{
		"sources (redo)": {
			{"default", "stone", "Si1O2", "-"},
			{"default", "dirt", "", "Si2O4C1"},
			{"default", "air", "", "*"},
			{"default", "techno", "", "Tc1"},
		},
		"sources (uncraft)": {
			{"default", "glass", "Si1O2"},
		},
	}
}

func TestGenerate(t *testing.T) {
	h := newHarness(t, testElements)
	h.workbook(t, "/p/sources.xlsx", sources())

	res, err := h.app.Generate(h.cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Reducer)
	assert.Equal(t, 1, res.Uncraft)
	require.Len(t, res.Diagnostics, 2)
	assert.Equal(t, recipes.Skipped, res.Diagnostics[0].Kind)
	assert.Equal(t, recipes.UnknownElement, res.Diagnostics[1].Kind)
	assert.Equal(t, []string{"?", "Ca", "Fe", "H", "Mg", "Na"}, res.Missing)

	lua, err := afero.ReadFile(h.fs, "/p/out/output.lua")
	require.NoError(t, err)
	text := string(lua)
	assert.True(t, strings.HasPrefix(text,
		`technic.register_material_reducer_recipe({input={"default:stone"}, output={"elements:oxygen 2", "elements:silicon 1"}, time=1.0})`+"\n"), text)
	assert.Contains(t, text, `{input={"default:dirt"}, output={"elements:oxygen 4", "elements:silicon 2", "elements:carbon 1"}, time=2.3333333333333335}`)
	assert.Contains(t, text, luagen.UncraftHeader)
	assert.Contains(t, text, `{input={"default:glass"}`)

	stderr := h.stderr.String()
	assert.Contains(t, stderr, "SKIPPING default:air")
	assert.Contains(t, stderr, "UNKNOWN ELEMENT IN default:techno")

	stdout := h.stdout.String()
	assert.Contains(t, stdout, "O (default:dirt:4) (default:stone:2)")
	assert.Contains(t, stdout, "MISSING ELEMENTS: ?, Ca, Fe, H, Mg, Na")
}

func TestGenerate_NoUncraftSheet(t *testing.T) {
	h := newHarness(t, testElements)
	h.workbook(t, "/p/sources.xlsx", sources())
	h.cfg.UncraftSheet = ""

	res, err := h.app.Generate(h.cfg)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Uncraft)

	lua, err := afero.ReadFile(h.fs, "/p/out/output.lua")
	require.NoError(t, err)
	assert.NotContains(t, string(lua), "uncrafting")
}

func TestGenerate_UsageReport(t *testing.T) {
	h := newHarness(t, testElements)
	h.workbook(t, "/p/sources.xlsx", sources())
	h.cfg.UsageReportPath = "/p/out/usage.xlsx"

	_, err := h.app.Generate(h.cfg)
	require.NoError(t, err)

	b, err := afero.ReadFile(h.fs, "/p/out/usage.xlsx")
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Usage")
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "Carbon", "default:dirt", "1"}, rows[1])
}

func TestGenerate_NoWorkbook(t *testing.T) {
	h := newHarness(t, testElements)
	_, err := h.app.Generate(h.cfg)
	require.Error(t, err)
	var ee ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, CodeConfig, ee.Code)
}

func TestGenerate_MissingSheet(t *testing.T) {
	h := newHarness(t, testElements)
	h.workbook(t, "/p/sources.xlsx", map[string][][]any{"other": {{"a"}}})
	_, err := h.app.Generate(h.cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing sheet")
}

const simpleWeights = `index,name,symbol,weight
8,Oxygen,O,16
12,Magnesium,Mg,24
14,Silicon,Si,28
`

func TestMix(t *testing.T) {
	h := newHarness(t, simpleWeights)
	require.NoError(t, afero.WriteFile(h.fs, "/p/rocks.yaml", []byte(`
mixtures:
  two:
    mode: mass
    components:
      - {formula: Si1O2, amount: 60}
      - {formula: Mg1O1, amount: 40}
`), 0o644))
	h.cfg.MixtureFiles = []string{"/p/rocks.yaml"}

	red, err := h.app.Mix(h.cfg, "two")
	require.NoError(t, err)
	assert.Equal(t, "O36 Mg12 Si12", red.Formula)
	assert.InDelta(t, 1200, red.MolarWeight, 1e-9)
	assert.Contains(t, h.stdout.String(), "O36 Mg12 Si12")
	assert.Contains(t, h.stdout.String(), "molar weight 1200.000")
}

func TestMix_Unknown(t *testing.T) {
	h := newHarness(t, simpleWeights)
	_, err := h.app.Mix(h.cfg, "obsidian")
	var ee ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, CodeConfig, ee.Code)
}

func TestRender(t *testing.T) {
	h := newHarness(t, simpleWeights)

	red, err := h.app.Render(h.cfg, "Si1O2", 0)
	require.NoError(t, err)
	assert.Equal(t, "O2 Si1", red.Formula)
	assert.InDelta(t, 60, red.MolarWeight, 1e-9)

	red, err = h.app.Render(h.cfg, "Si1O2", 30)
	require.NoError(t, err)
	assert.Equal(t, "O20 Si10", red.Formula)

	_, err = h.app.Render(h.cfg, "Si-O", 0)
	var ee ExitError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, CodeConfig, ee.Code)
}

func TestListMixtures(t *testing.T) {
	h := newHarness(t, simpleWeights)
	names, err := h.app.ListMixtures(h.cfg)
	require.NoError(t, err)
	assert.Contains(t, names, "basalt")
	assert.Contains(t, h.stdout.String(), "basalt")
	assert.Contains(t, h.stdout.String(), "builtin")
}

func TestExitCode(t *testing.T) {
	var stderr bytes.Buffer
	assert.Equal(t, 0, ExitCode(nil, &stderr))
	assert.Equal(t, CodeRuntime, ExitCode(errors.New("boom"), &stderr))
	assert.Equal(t, CodeConfig, ExitCode(ExitWithError(CodeConfig, errors.New("bad flag")), &stderr))
	lines := strings.Split(strings.TrimSpace(stderr.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "error:")
	assert.True(t, strings.HasSuffix(lines[0], " boom"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], " bad flag"), lines[1])
}
