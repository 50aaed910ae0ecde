package cmd

import (
	"os"
	"strings"

	"github.com/flux/elementz/internal/app"
	"github.com/flux/elementz/internal/config"

	"github.com/spf13/cobra"
)

var version = "0.1.0" // set at build time with -ldflags

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	app        *app.App
	lookupEnv  func(string) (string, bool)
	root       string
	configPath string
	elements   string
}

// NewRootCmd builds the command tree around a.
func NewRootCmd(a *app.App) *cobra.Command {
	return newRootCmd(a, os.LookupEnv)
}

func newRootCmd(a *app.App, lookupEnv func(string) (string, bool)) *cobra.Command {
	opts := &rootOptions{app: a, lookupEnv: lookupEnv}

	rootCmd := &cobra.Command{
		Use:   "elementz",
		Short: "Generate elementz material reducer recipes and reduce mixtures",
		Long: `elementz turns the sources workbook into technic material reducer recipes and
reduces rock and mineral mixtures to elemental formulas.

Settings come from elementz.yaml in the project root, then .env and ELEMENTZ_*
environment variables, then command line flags.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(a.Stdout)
	rootCmd.SetErr(a.Stderr)
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return app.ExitWithError(app.CodeConfig, err)
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&opts.root, "root", "", "project root (default: nearest directory with elementz.yaml)")
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file (default: <root>/elementz.yaml)")
	pf.StringVar(&opts.elements, "elements", "", "element table CSV")

	rootCmd.AddCommand(
		newGenerateCmd(opts),
		newMixCmd(opts),
		newMixturesCmd(opts),
		newRenderCmd(opts),
	)
	return rootCmd
}

// Execute runs the CLI on the OS filesystem and returns the exit code.
func Execute() int {
	a := app.New()
	return app.ExitCode(execute(NewRootCmd(a)), a.Stderr)
}

// execute runs root and marks an unknown subcommand as a usage error.
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil && strings.HasPrefix(err.Error(), "unknown command ") {
		return app.ExitWithError(app.CodeConfig, err)
	}
	return err
}

// loadConfig resolves the project root and layers the config sources.
// extra fills in the subcommand's own overrides.
func (o *rootOptions) loadConfig(cmd *cobra.Command, extra func(*config.Overrides)) (config.Config, error) {
	root := o.root
	if root == "" {
		found, err := config.FindRoot(o.app.FS, "")
		if err != nil {
			return config.Config{}, app.ExitWithError(app.CodeRuntime, err)
		}
		root = found
	}

	var ov config.Overrides
	if cmd.Flags().Changed("elements") {
		ov.Elements = &o.elements
	}
	if extra != nil {
		extra(&ov)
	}

	cfg, err := config.Loader{FS: o.app.FS, LookupEnv: o.lookupEnv}.Load(root, o.configPath, ov)
	if err != nil {
		return config.Config{}, app.ExitWithError(app.CodeConfig, err)
	}
	return cfg, nil
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return app.ExitWithError(app.CodeConfig, err)
		}
		return nil
	}
}
