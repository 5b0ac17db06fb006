package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
)

// NewGenerateCommand renders every model's SQL artifact to --out-dir
// (§6's generate(root, out_dir, dialect) operation).
func NewGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate dialect-specific SQL for every model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			artifacts, diags, err := c.Generate(ctx, cfg.Root, cfg.Dialect)
			if err != nil {
				return err
			}
			if diags.HasErrors() {
				fmt.Fprintln(cmd.ErrOrStderr(), diags.Sorted().Error())
				return diags.Errors()
			}

			if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
				return err
			}

			names := make([]string, 0, len(artifacts))
			for name := range artifacts {
				names = append(names, name)
			}
			sort.Strings(names)

			for _, name := range names {
				art := artifacts[name]
				body := art.DDL
				if body == "" {
					body = art.Select
				}
				if err := os.WriteFile(filepath.Join(cfg.OutDir, name+".sql"), []byte(body+"\n"), 0o644); err != nil {
					return err
				}
				for key, sql := range art.Audits {
					if err := os.WriteFile(filepath.Join(cfg.OutDir, key+".audit.sql"), []byte(sql+"\n"), 0o644); err != nil {
						return err
					}
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Generated %d artifacts to %s\n", len(artifacts), cfg.OutDir)
			return nil
		},
	}
}
