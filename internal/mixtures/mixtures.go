// Package mixtures holds named material mixtures (rocks, soils, minerals)
// and reduces them to a single elemental composition.
//
// A mass mixture lists sub-compositions with their mass fractions; each is
// converted to moles through the element weight table before combining. A
// formula mixture lists groups with unit counts and is combined as-is.
package mixtures

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/flux/elementz/internal/chem"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultsSource names the embedded library in Library.Source.
const DefaultsSource = "builtin"

var ErrUnknownMixture = errors.New("unknown mixture")

type Mode string

const (
	ModeMass    Mode = "mass"
	ModeFormula Mode = "formula"
)

// Component is one line of a mixture definition. Exactly one of Formula or
// Composition is set; Composition allows fractional quantities that the
// formula syntax cannot express.
type Component struct {
	Formula     string             `yaml:"formula"`
	Composition map[string]float64 `yaml:"composition"`
	Amount      float64            `yaml:"amount"`
}

func (c *Component) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "component", "formula", "composition", "amount"); err != nil {
		return err
	}
	type raw Component
	var tmp raw
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	hasFormula := strings.TrimSpace(tmp.Formula) != ""
	hasComposition := len(tmp.Composition) > 0
	if hasFormula == hasComposition {
		return fmt.Errorf("line %d: component needs exactly one of formula or composition", value.Line)
	}
	if math.IsNaN(tmp.Amount) || math.IsInf(tmp.Amount, 0) || tmp.Amount < 0 {
		return fmt.Errorf("line %d: component amount must be a non-negative number, got %v", value.Line, tmp.Amount)
	}
	for sym, q := range tmp.Composition {
		if strings.TrimSpace(sym) == "" {
			return fmt.Errorf("line %d: empty element symbol", value.Line)
		}
		if math.IsNaN(q) || math.IsInf(q, 0) || q < 0 {
			return fmt.Errorf("line %d: quantity of %s must be a non-negative number, got %v", value.Line, sym, q)
		}
	}
	*c = Component(tmp)
	return nil
}

func (c Component) weighted() (chem.WeightedComponent, error) {
	if c.Formula == "" {
		return chem.WeightedComponent{Composition: chem.Of(c.Composition), Amount: c.Amount}, nil
	}
	comp, err := chem.Parse(c.Formula)
	if err != nil {
		return chem.WeightedComponent{}, err
	}
	return chem.WeightedComponent{Composition: comp, Amount: c.Amount}, nil
}

type Definition struct {
	Mode       Mode        `yaml:"mode"`
	Components []Component `yaml:"components"`
}

func (d *Definition) UnmarshalYAML(value *yaml.Node) error {
	if err := checkKeys(value, "mixture", "mode", "components"); err != nil {
		return err
	}
	type raw Definition
	var tmp raw
	if err := value.Decode(&tmp); err != nil {
		return err
	}
	switch tmp.Mode {
	case "":
		tmp.Mode = ModeMass
	case ModeMass, ModeFormula:
	default:
		return fmt.Errorf("line %d: unsupported mode %q (want %q or %q)", value.Line, tmp.Mode, ModeMass, ModeFormula)
	}
	if len(tmp.Components) == 0 {
		return fmt.Errorf("line %d: mixture has no components", value.Line)
	}
	*d = Definition(tmp)
	return nil
}

// File is the on-disk shape of a mixture library.
type File struct {
	Mixtures map[string]Definition `yaml:"mixtures"`
}

type Mixture struct {
	Name       string
	Mode       Mode
	Components []chem.WeightedComponent
}

// Reduce combines the components into one composition. Weights are only
// consulted in mass mode.
func (m Mixture) Reduce(weights chem.WeightTable) (chem.Composition, error) {
	var (
		out chem.Composition
		err error
	)
	switch m.Mode {
	case ModeFormula:
		out, err = chem.ReduceFormula(m.Components)
	default:
		out, err = chem.ReduceWeightedMixture(m.Components, weights)
	}
	if err != nil {
		return chem.Composition{}, fmt.Errorf("mixture %s: %w", m.Name, err)
	}
	return out, nil
}

// Library is a set of named mixtures. Later loads replace earlier entries of
// the same name.
type Library struct {
	byName map[string]Mixture
	source map[string]string
}

func NewLibrary() *Library {
	return &Library{byName: map[string]Mixture{}, source: map[string]string{}}
}

// Defaults returns a library holding the embedded mixtures.
func Defaults() (*Library, error) {
	l := NewLibrary()
	if err := l.add(bytes.NewReader(defaultsYAML), DefaultsSource); err != nil {
		return nil, err
	}
	return l, nil
}

// Load reads mixture files and merges them into the library in order.
func (l *Library) Load(fs afero.Fs, paths ...string) error {
	for _, p := range paths {
		b, err := afero.ReadFile(fs, p)
		if err != nil {
			return fmt.Errorf("read mixtures %s: %w", p, err)
		}
		if err := l.add(bytes.NewReader(b), p); err != nil {
			return err
		}
	}
	return nil
}

func (l *Library) add(r io.Reader, source string) error {
	mixtures, err := Parse(r)
	if err != nil {
		return fmt.Errorf("parse mixtures %s: %w", source, err)
	}
	for _, m := range mixtures {
		l.byName[m.Name] = m
		l.source[m.Name] = source
	}
	return nil
}

// Parse decodes a mixture file. The result is sorted by name.
func Parse(r io.Reader) ([]Mixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	names := make([]string, 0, len(f.Mixtures))
	for name := range f.Mixtures {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Mixture, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, errors.New("mixture with empty name")
		}
		def := f.Mixtures[name]
		m := Mixture{Name: name, Mode: def.Mode, Components: make([]chem.WeightedComponent, 0, len(def.Components))}
		for i, c := range def.Components {
			wc, err := c.weighted()
			if err != nil {
				return nil, fmt.Errorf("mixture %s component %d: %w", name, i+1, err)
			}
			m.Components = append(m.Components, wc)
		}
		out = append(out, m)
	}
	return out, nil
}

func (l *Library) Get(name string) (Mixture, error) {
	m, ok := l.byName[name]
	if !ok {
		return Mixture{}, fmt.Errorf("%w: %q", ErrUnknownMixture, name)
	}
	return m, nil
}

// Source reports where a mixture was defined: a file path or DefaultsSource.
func (l *Library) Source(name string) string {
	return l.source[name]
}

func (l *Library) Names() []string {
	out := make([]string, 0, len(l.byName))
	for name := range l.byName {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func checkKeys(value *yaml.Node, what string, keys ...string) error {
	if value == nil || value.Kind != yaml.MappingNode {
		return nil
	}
	allowed := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		allowed[k] = struct{}{}
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		k := value.Content[i]
		if k.Kind != yaml.ScalarNode {
			continue
		}
		if _, ok := allowed[k.Value]; !ok {
			return fmt.Errorf("line %d: %s: unsupported key %q", k.Line, what, k.Value)
		}
	}
	return nil
}
