package cmd

import (
	"github.com/flux/elementz/internal/config"

	"github.com/spf13/cobra"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		workbook    string
		out         string
		usageReport string
		maxElements int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the material reducer recipes file",
		Long: `Reads the element table and the sources workbook, writes one
technic.register_material_reducer_recipe call per usable row and prints which
items each element comes from.

Rows that are skipped or rejected are reported as warnings on stderr.

Examples:
  elementz generate --workbook elements.xlsx
  elementz generate --output ../elementz/recipes.lua --usage-report usage.xlsx`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.loadConfig(cmd, func(ov *config.Overrides) {
				f := cmd.Flags()
				if f.Changed("workbook") {
					ov.Workbook = &workbook
				}
				if f.Changed("output") {
					ov.Output = &out
				}
				if f.Changed("usage-report") {
					ov.UsageReport = &usageReport
				}
				if f.Changed("max-elements") {
					ov.MaxElements = &maxElements
				}
			})
			if err != nil {
				return err
			}
			_, err = opts.app.Generate(cfg)
			return err
		},
	}

	cmd.Flags().StringVarP(&workbook, "workbook", "w", "", "sources workbook (xlsx)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "generated Lua file")
	cmd.Flags().StringVar(&usageReport, "usage-report", "", "also export the usage report to this xlsx file")
	cmd.Flags().IntVar(&maxElements, "max-elements", 0, "reject recipes with more distinct elements than this")
	return cmd
}
