package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand runs the Loader+Validator pass and reports
// diagnostics plus graph statistics (§6's validate(root), §12's
// supplemental graph-statistics output).
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate model definitions without generating SQL",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			diags, stats, err := c.Validate(cfg.Root)
			if err != nil {
				return err
			}

			for _, d := range diags.Sorted() {
				fmt.Fprintln(cmd.OutOrStdout(), d.String())
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\n%d models, %d dependency edges, %d root models, %d leaf models\n",
				stats.ModelCount, stats.EdgeCount, len(stats.Roots), len(stats.Leaves))

			if diags.HasErrors() {
				return diags.Errors()
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Validation passed")
			return nil
		},
	}
}
