package cmd

import (
	"fmt"

	"github.com/flux/elementz/internal/app"

	"github.com/spf13/cobra"
)

func newRenderCmd(opts *rootOptions) *cobra.Command {
	var count float64

	cmd := &cobra.Command{
		Use:   "render <formula>",
		Short: "Print a formula in canonical order, optionally rescaled",
		Long: `Parses a formula such as "Ca5P2O11C1F1" and prints it largest count first.
With --count the formula is first scaled to that many atoms.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 0 {
				return app.ExitWithError(app.CodeConfig, fmt.Errorf("--count must not be negative, got %v", count))
			}
			cfg, err := opts.loadConfig(cmd, nil)
			if err != nil {
				return err
			}
			_, err = opts.app.Render(cfg, args[0], count)
			return err
		},
	}
	cmd.Flags().Float64VarP(&count, "count", "n", 0, "scale to this many atoms (0 keeps the formula as written)")
	return cmd
}
