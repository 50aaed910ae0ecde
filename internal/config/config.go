package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// FileName is the project config file; its directory is the project root.
const FileName = "elementz.yaml"

type Config struct {
	// Root is the directory relative paths are resolved against.
	Root string `validate:"required"`

	ElementsPath string `validate:"required"`
	WorkbookPath string
	OutputPath   string `validate:"required"`
	// UsageReportPath optionally exports the element usage report as XLSX.
	UsageReportPath string

	RedoSheet    string `validate:"required"`
	UncraftSheet string

	MaxElements int     `validate:"gte=1"`
	UsageTop    int     `validate:"gte=1"`
	TimeDivisor float64 `validate:"gt=0"`

	ExtraElements    map[string]string `validate:"dive,keys,required,endkeys,required"`
	ExcludedElements []string

	MixtureFiles []string
	MixCount     float64 `validate:"gt=0"`
}

type FileConfig struct {
	Elements         *string           `yaml:"elements"`
	Workbook         *string           `yaml:"workbook"`
	Output           *string           `yaml:"output"`
	UsageReport      *string           `yaml:"usage_report"`
	RedoSheet        *string           `yaml:"redo_sheet"`
	UncraftSheet     *string           `yaml:"uncraft_sheet"`
	MaxElements      *int              `yaml:"max_elements"`
	UsageTop         *int              `yaml:"usage_top"`
	TimeDivisor      *float64          `yaml:"time_divisor"`
	ExtraElements    map[string]string `yaml:"extra_elements"`
	ExcludedElements []string          `yaml:"excluded_elements"`
	MixtureFiles     []string          `yaml:"mixture_files"`
	MixCount         *float64          `yaml:"mix_count"`
}

// Overrides are values given on the command line; nil means "not set".
type Overrides struct {
	Elements    *string
	Workbook    *string
	Output      *string
	UsageReport *string
	MaxElements *int
	MixCount    *float64
}

// Env lists the environment variables that override the config file.
var Env = struct {
	Elements, Workbook, Output, UsageReport, MaxElements, MixCount string
}{
	Elements:    "ELEMENTZ_ELEMENTS",
	Workbook:    "ELEMENTZ_WORKBOOK",
	Output:      "ELEMENTZ_OUTPUT",
	UsageReport: "ELEMENTZ_USAGE_REPORT",
	MaxElements: "ELEMENTZ_MAX_ELEMENTS",
	MixCount:    "ELEMENTZ_MIX_COUNT",
}

type Loader struct {
	FS afero.Fs
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// Load builds the config for root: defaults, then root/elementz.yaml (or
// configPath when set), then root/.env and the process environment, then
// the command line overrides. Relative paths end up resolved against root.
func (l Loader) Load(root, configPath string, o Overrides) (Config, error) {
	if l.FS == nil {
		l.FS = afero.NewOsFs()
	}
	if l.LookupEnv == nil {
		l.LookupEnv = os.LookupEnv
	}

	cfg := Default()
	cfg.Root = root

	path := strings.TrimSpace(configPath)
	if path == "" {
		path = FileName
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}
	fc, err := loadFileConfig(l.FS, path, configPath != "")
	if err != nil {
		return Config{}, err
	}
	cfg.applyFile(fc)

	env, err := l.environment(root)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	cfg.applyOverrides(o)
	cfg.resolvePaths()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func loadFileConfig(fs afero.Fs, path string, required bool) (FileConfig, error) {
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("read config yaml %s: %w", path, err)
	}

	var fc FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil {
		if errors.Is(err, io.EOF) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("parse config yaml %s: %w", path, err)
	}
	return fc, nil
}

// environment merges root/.env with the process environment; the process
// environment wins.
func (l Loader) environment(root string) (map[string]string, error) {
	env := map[string]string{}
	f, err := l.FS.Open(filepath.Join(root, ".env"))
	if err == nil {
		parsed, perr := godotenv.Parse(f)
		f.Close()
		if perr != nil {
			return nil, fmt.Errorf("parse %s: %w", filepath.Join(root, ".env"), perr)
		}
		env = parsed
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	for _, key := range []string{Env.Elements, Env.Workbook, Env.Output, Env.UsageReport, Env.MaxElements, Env.MixCount} {
		if v, ok := l.LookupEnv(key); ok {
			env[key] = v
		}
	}
	return env, nil
}

func (c *Config) applyFile(fc FileConfig) {
	setString(&c.ElementsPath, fc.Elements)
	setString(&c.WorkbookPath, fc.Workbook)
	setString(&c.OutputPath, fc.Output)
	setString(&c.UsageReportPath, fc.UsageReport)
	setString(&c.RedoSheet, fc.RedoSheet)
	if fc.UncraftSheet != nil {
		// empty disables the uncraft section
		c.UncraftSheet = strings.TrimSpace(*fc.UncraftSheet)
	}
	if fc.MaxElements != nil {
		c.MaxElements = *fc.MaxElements
	}
	if fc.UsageTop != nil {
		c.UsageTop = *fc.UsageTop
	}
	if fc.TimeDivisor != nil {
		c.TimeDivisor = *fc.TimeDivisor
	}
	if fc.ExtraElements != nil {
		c.ExtraElements = fc.ExtraElements
	}
	if fc.ExcludedElements != nil {
		c.ExcludedElements = fc.ExcludedElements
	}
	if fc.MixtureFiles != nil {
		c.MixtureFiles = fc.MixtureFiles
	}
	if fc.MixCount != nil {
		c.MixCount = *fc.MixCount
	}
}

func (c *Config) applyEnv(env map[string]string) error {
	if v, ok := env[Env.Elements]; ok {
		setString(&c.ElementsPath, &v)
	}
	if v, ok := env[Env.Workbook]; ok {
		setString(&c.WorkbookPath, &v)
	}
	if v, ok := env[Env.Output]; ok {
		setString(&c.OutputPath, &v)
	}
	if v, ok := env[Env.UsageReport]; ok {
		setString(&c.UsageReportPath, &v)
	}
	if v, ok := env[Env.MaxElements]; ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", Env.MaxElements, v)
		}
		c.MaxElements = n
	}
	if v, ok := env[Env.MixCount]; ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", Env.MixCount, v)
		}
		c.MixCount = f
	}
	return nil
}

func (c *Config) applyOverrides(o Overrides) {
	setString(&c.ElementsPath, o.Elements)
	setString(&c.WorkbookPath, o.Workbook)
	setString(&c.OutputPath, o.Output)
	setString(&c.UsageReportPath, o.UsageReport)
	if o.MaxElements != nil {
		c.MaxElements = *o.MaxElements
	}
	if o.MixCount != nil {
		c.MixCount = *o.MixCount
	}
}

func (c *Config) resolvePaths() {
	c.ElementsPath = c.resolve(c.ElementsPath)
	c.WorkbookPath = c.resolve(c.WorkbookPath)
	c.OutputPath = c.resolve(c.OutputPath)
	c.UsageReportPath = c.resolve(c.UsageReportPath)
	for i, p := range c.MixtureFiles {
		c.MixtureFiles[i] = c.resolve(p)
	}
}

func (c *Config) resolve(p string) string {
	p = strings.TrimSpace(p)
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, p)
}

func setString(dst *string, v *string) {
	if v == nil {
		return
	}
	if s := strings.TrimSpace(*v); s != "" {
		*dst = s
	}
}
