package cmd

import (
	"github.com/flux/elementz/internal/config"

	"github.com/spf13/cobra"
)

func newMixCmd(opts *rootOptions) *cobra.Command {
	var count float64

	cmd := &cobra.Command{
		Use:   "mix <name>",
		Short: "Reduce a named mixture to a formula",
		Long: `Reduces a mixture from the built-in library or the configured mixture files
and prints it scaled to --count atoms, followed by its molar weight.

Examples:
  elementz mix basalt
  elementz mix kaolinite --count 30`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd, func(ov *config.Overrides) {
				if cmd.Flags().Changed("count") {
					ov.MixCount = &count
				}
			})
			if err != nil {
				return err
			}
			_, err = opts.app.Mix(cfg, args[0])
			return err
		},
	}
	cmd.Flags().Float64VarP(&count, "count", "n", 0, "total atom count of the printed formula (default from config, 60)")
	return cmd
}

func newMixturesCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mixtures",
		Short: "List the known mixtures",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			_, err = opts.app.ListMixtures(cfg)
			return err
		},
	}
}
