// Package commands implements the seven modelc subcommands (§13.1),
// each a thin cobra.Command wrapping one internal/compiler operation.
package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/shubham184/fabric-data-transformation/internal/compiler"
	"github.com/shubham184/fabric-data-transformation/internal/config"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

type configKey struct{}
type compilerKey struct{}

// SetContext stores cfg and c on cmd's context so every subcommand's
// RunE can retrieve them without a package-level global.
func SetContext(cmd *cobra.Command, cfg *config.Config, c *compiler.Compiler) {
	ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
	ctx = context.WithValue(ctx, compilerKey{}, c)
	cmd.SetContext(ctx)
}

func configFrom(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	if cfg == nil {
		cfg = &config.Config{OutDir: config.DefaultOutDir, Dialect: config.DefaultDialect, Env: config.DefaultEnv}
	}
	return cfg
}

func compilerFrom(ctx context.Context) *compiler.Compiler {
	c, _ := ctx.Value(compilerKey{}).(*compiler.Compiler)
	if c == nil {
		c = compiler.New(nil)
	}
	return c
}

// ExitCodeFor maps err to one of §6's documented process exit codes
// by checking it against each error-taxonomy type in turn
// (diagnostics, validation, cycle, state, IO, generation, load). A
// diagnostics error (Loader/Validator findings) maps to 1 as a
// validation error, matching §7's "pipeline halts before generation
// if any error-severity diagnostic exists."
func ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var diags core.Diagnostics
	if errors.As(err, &diags) {
		return 1
	}
	var validationErr *core.ValidationError
	if errors.As(err, &validationErr) {
		return 1
	}
	var cycleErr *core.CycleError
	if errors.As(err, &cycleErr) {
		return 2
	}
	var stateErr *core.StateError
	if errors.As(err, &stateErr) {
		return 3
	}
	var ioErr *core.IOError
	if errors.As(err, &ioErr) {
		return 4
	}
	var genErr *core.GenerationError
	if errors.As(err, &genErr) {
		return 5
	}
	var loadErr *core.LoadError
	if errors.As(err, &loadErr) {
		return 1
	}
	return 1
}
