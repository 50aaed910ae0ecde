// Package luagen writes reducer recipes as technic registration calls.
package luagen

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/template"

	"github.com/flux/elementz/internal/elements"
	"github.com/flux/elementz/internal/recipes"
)

const callTemplate = `technic.register_material_reducer_recipe({input={"{{.Input}}"}, output={ {{- range $i, $o := .Outputs}}{{if $i}}, {{end}}"elements:{{$o.Item}} {{$o.Count}}"{{end -}} }, time={{.Time}}})`

var callTmpl = template.Must(template.New("call").Parse(callTemplate))

// UncraftHeader separates the uncrafting recipes from the reducer recipes.
const UncraftHeader = "\n\n-- uncrafting recipes\n"

type output struct {
	Item  string
	Count int
}

type call struct {
	Input   string
	Outputs []output
	Time    string
}

// Document is everything that goes into the generated file.
type Document struct {
	Reducer []recipes.Recipe
	// Uncraft is nil when the uncraft sheet is disabled.
	Uncraft []recipes.Recipe
}

type Writer struct {
	Catalog *elements.Catalog
}

// Line renders one recipe as a single Lua statement without a newline.
func (w Writer) Line(r recipes.Recipe) (string, error) {
	c := call{Input: r.Input, Time: FormatNumber(r.Time)}
	for _, o := range r.Outputs {
		c.Outputs = append(c.Outputs, output{Item: w.Catalog.ItemName(o.Symbol), Count: o.Count})
	}
	var b strings.Builder
	if err := callTmpl.Execute(&b, c); err != nil {
		return "", fmt.Errorf("render %s: %w", r.Input, err)
	}
	return b.String(), nil
}

func (w Writer) Write(out io.Writer, doc Document) error {
	for _, r := range doc.Reducer {
		line, err := w.Line(r)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	if doc.Uncraft == nil {
		return nil
	}

	if _, err := io.WriteString(out, UncraftHeader+"\n"); err != nil {
		return err
	}
	for _, r := range doc.Uncraft {
		line, err := w.Line(r)
		if err != nil {
			return err
		}
		// uncraft item ids come from hand-edited cells and may use single quotes
		line = strings.ReplaceAll(line, "'", `"`)
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}

// FormatNumber prints v the way the existing Lua files do: shortest
// round-trip digits, always with a decimal point.
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".NI") {
		s += ".0"
	}
	return s
}
