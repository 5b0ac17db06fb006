package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/shubham184/fabric-data-transformation/internal/config"
	"github.com/shubham184/fabric-data-transformation/internal/state"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// stateDir derives the per-project base directory snapshot files live
// under (§6: "File path is derived from an externally supplied base
// directory plus <env>.state"). The base directory itself isn't named
// by a config field, so this resolves it as "<root>/.modelc/state" —
// alongside the project rather than mixed into --out-dir, since state
// is tracked input to future runs, not generated output.
func stateDir(cfg *config.Config) string {
	return filepath.Join(cfg.Root, ".modelc", "state")
}

// NewInitStateCommand snapshots the current corpus for --env,
// failing if a snapshot already exists.
func NewInitStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init-state",
		Short: "Create the initial state snapshot for an environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			if err := c.InitState(cfg.Root, stateDir(cfg), cfg.Env); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized state for environment %q\n", cfg.Env)
			return nil
		},
	}
}

// NewShowStateCommand renders the persisted snapshot for --env.
func NewShowStateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show-state",
		Short: "Show the persisted state snapshot for an environment",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			snap, ok, err := c.ShowState(stateDir(cfg), cfg.Env)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No snapshot for environment %q\n", cfg.Env)
				return nil
			}
			state.FormatSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

// NewPlanCommand diffs the current corpus against --env's snapshot
// and renders the resulting plan.
func NewPlanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show pending changes against an environment's state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			plan, diags, err := c.Plan(cfg.Root, stateDir(cfg), cfg.Env)
			if err != nil {
				return err
			}
			if diags.HasErrors() {
				return diags.Errors()
			}
			state.FormatPlan(cmd.OutOrStdout(), plan)
			return nil
		},
	}
}

var applyModeFlag string

// NewApplyCommand computes the plan for --env and persists it
// according to --mode (dry-run|auto|confirm).
func NewApplyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply pending changes, updating an environment's state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			mode := core.ApplyMode(applyModeFlag)
			if mode == "" {
				mode = core.ModeDryRun
			}

			plan, diags, err := c.Plan(cfg.Root, stateDir(cfg), cfg.Env)
			if err != nil {
				return err
			}
			if diags.HasErrors() {
				return diags.Errors()
			}
			state.FormatPlan(cmd.OutOrStdout(), plan)

			if mode == core.ModeConfirm && !plan.IsEmpty() {
				fmt.Fprint(cmd.OutOrStdout(), "Apply these changes? [y/N]: ")
				var ack string
				fmt.Fscanln(cmd.InOrStdin(), &ack)
				if ack != "y" && ack != "Y" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}

			if err := c.Apply(cfg.Root, stateDir(cfg), cfg.Env, mode); err != nil {
				return err
			}
			if mode == core.ModeDryRun {
				fmt.Fprintln(cmd.OutOrStdout(), "Dry run: no changes written")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "State updated")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&applyModeFlag, "mode", string(core.ModeDryRun), "apply mode (dry-run|auto|confirm)")
	return cmd
}

var exportGraphFormatFlag string

// NewExportGraphCommand renders the dependency graph as nodes/edges,
// a hierarchical tree, or Graphviz DOT (§6, §12).
func NewExportGraphCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export-graph",
		Short: "Export the model dependency graph",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := configFrom(ctx)
			c := compilerFrom(ctx)

			g, err := c.ExportGraph(cfg.Root)
			if err != nil {
				return err
			}

			switch exportGraphFormatFlag {
			case "dot":
				return writeDOT(cmd.OutOrStdout(), g)
			case "hierarchical":
				return writeHierarchical(cmd.OutOrStdout(), g)
			default:
				return writeNodesEdges(cmd.OutOrStdout(), g)
			}
		},
	}
	cmd.Flags().StringVar(&exportGraphFormatFlag, "format", "nodes_edges", "output format (nodes_edges|hierarchical|dot)")
	return cmd
}
