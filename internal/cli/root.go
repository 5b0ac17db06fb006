// Package cli assembles the modelc cobra command tree (§13.1): the
// persistent root flags, config loading, logger construction, and the
// seven operation subcommands wired to internal/compiler.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shubham184/fabric-data-transformation/internal/cli/commands"
	"github.com/shubham184/fabric-data-transformation/internal/compiler"
	"github.com/shubham184/fabric-data-transformation/internal/config"
)

var (
	rootFlag      string
	outDirFlag    string
	dialectFlag   string
	envFlag       string
	logFormatFlag string
	verboseFlag   bool
)

// NewRootCmd builds the modelc root command and its subcommand tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "modelc",
		Short:         "Compiles declarative model definitions into dialect-specific SQL",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&rootFlag, "root", "", "project root containing model definition files")
	root.PersistentFlags().StringVar(&outDirFlag, "out-dir", "", "output directory for generated SQL")
	root.PersistentFlags().StringVar(&dialectFlag, "dialect", "", "target SQL dialect (postgres, spark)")
	root.PersistentFlags().StringVar(&envFlag, "env", "", "environment name for state operations")
	root.PersistentFlags().StringVar(&logFormatFlag, "log-format", "text", "log output format (text|json)")
	root.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable debug logging")

	root.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load("", config.Config{
			Root:    rootFlag,
			OutDir:  outDirFlag,
			Dialect: dialectFlag,
			Env:     envFlag,
		})
		if err != nil {
			return err
		}
		logger := newLogger(logFormatFlag, verboseFlag)
		c := compiler.New(logger)
		commands.SetContext(cmd, cfg, c)
		return nil
	}

	root.AddCommand(
		commands.NewGenerateCommand(),
		commands.NewValidateCommand(),
		commands.NewInitStateCommand(),
		commands.NewShowStateCommand(),
		commands.NewPlanCommand(),
		commands.NewApplyCommand(),
		commands.NewExportGraphCommand(),
	)

	return root
}

// Execute runs the root command and maps a returned error to one of
// the §6 documented process exit codes.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return commands.ExitCodeFor(err)
	}
	return 0
}

func newLogger(format string, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
