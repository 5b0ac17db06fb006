// Package compiler wires Loader -> Validator -> Resolver -> Generator
// -> Fingerprinter -> Planner behind the plain-function operation set
// §6 specifies: generate, validate, init_state, show_state, plan,
// apply, export_graph. It holds no state of its own beyond what a
// single operation call needs.
package compiler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shubham184/fabric-data-transformation/internal/dag"
	"github.com/shubham184/fabric-data-transformation/internal/fingerprint"
	"github.com/shubham184/fabric-data-transformation/internal/loader"
	"github.com/shubham184/fabric-data-transformation/internal/sqlgen"
	"github.com/shubham184/fabric-data-transformation/internal/state"
	"github.com/shubham184/fabric-data-transformation/internal/validator"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
	"github.com/shubham184/fabric-data-transformation/pkg/dialect"
)

// Compiler is the stateless entry point for every §6 operation,
// parameterized by a logger (Info on stage completion, Debug on
// per-model detail, per §10.1); each operation takes the root
// directory as an argument.
type Compiler struct {
	Logger *slog.Logger
}

// New returns a Compiler; a nil logger defaults to a discard handler.
func New(logger *slog.Logger) *Compiler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Compiler{Logger: logger}
}

// LoadedCorpus is the result of running Loader then Validator: every
// model, the accumulated diagnostics, and whether any diagnostic is
// error-severity (in which case the caller must halt before
// generation, per §7).
type LoadedCorpus struct {
	Models      []*core.Model
	ByName      map[string]*core.Model
	Diagnostics core.Diagnostics
}

// loadAndValidate is the shared Loader->Validator prefix every
// operation below needs.
func (c *Compiler) loadAndValidate(root string) (LoadedCorpus, error) {
	result, err := loader.Load(root, c.Logger)
	if err != nil {
		return LoadedCorpus{}, err
	}
	c.Logger.Info("loaded corpus", "models", len(result.Models), "load_diagnostics", len(result.Diagnostics))

	diags := append(core.Diagnostics{}, result.Diagnostics...)
	diags = append(diags, validator.Validate(result.Models)...)
	c.Logger.Info("validated corpus", "errors", len(diags.Errors()), "warnings", len(diags.Warnings()))

	byName := make(map[string]*core.Model, len(result.Models))
	for _, m := range result.Models {
		byName[m.Name] = m
	}

	return LoadedCorpus{Models: result.Models, ByName: byName, Diagnostics: diags}, nil
}

// Validate runs Loader+Validator and returns the accumulated
// diagnostics plus corpus-wide graph statistics (model count, edge
// count, root/leaf models), per §12's supplemental graph-statistics
// output.
func (c *Compiler) Validate(root string) (core.Diagnostics, GraphStats, error) {
	corpus, err := c.loadAndValidate(root)
	if err != nil {
		return nil, GraphStats{}, err
	}
	g := buildGraph(corpus.Models)
	return corpus.Diagnostics, statsOf(g), nil
}

// GraphStats is validate's supplemental success output (§12).
type GraphStats struct {
	ModelCount int
	EdgeCount  int
	Roots      []string
	Leaves     []string
}

func statsOf(g *dag.Graph) GraphStats {
	return GraphStats{
		ModelCount: g.NodeCount(),
		EdgeCount:  g.EdgeCount(),
		Roots:      g.GetRoots(),
		Leaves:     g.GetLeaves(),
	}
}

// Generate runs the full pipeline through SQL generation: load,
// validate, resolve execution order, and render every model's
// Artifact against dialectName. It halts before generation if any
// diagnostic is error-severity.
func (c *Compiler) Generate(ctx context.Context, root, dialectName string) (map[string]sqlgen.Artifact, core.Diagnostics, error) {
	corpus, err := c.loadAndValidate(root)
	if err != nil {
		return nil, nil, err
	}
	if corpus.Diagnostics.HasErrors() {
		return nil, corpus.Diagnostics, nil
	}

	d, ok := dialect.Get(dialectName)
	if !ok {
		return nil, corpus.Diagnostics, fmt.Errorf("unknown dialect %q: %w", dialectName, &core.GenerationError{Message: "unknown dialect"})
	}

	g := buildGraph(corpus.Models)
	levels, err := g.GetExecutionLevels()
	if err != nil {
		members := cycleMembers(g)
		return nil, corpus.Diagnostics, fmt.Errorf("resolving execution order: %w", &core.CycleError{Members: members})
	}

	gen := sqlgen.New(d, corpus.Models)
	artifacts, err := gen.GenerateAll(ctx, levels)
	if err != nil {
		return nil, corpus.Diagnostics, fmt.Errorf("generating SQL: %w", err)
	}
	c.Logger.Info("generated artifacts", "count", len(artifacts), "dialect", dialectName)
	return artifacts, corpus.Diagnostics, nil
}

// InitState snapshots the current corpus for env; fails if a
// snapshot already exists.
func (c *Compiler) InitState(root, stateDir, env string) error {
	corpus, err := c.loadAndValidate(root)
	if err != nil {
		return err
	}
	if corpus.Diagnostics.HasErrors() {
		return corpus.Diagnostics
	}
	planner := state.NewPlanner(state.NewStore(stateDir))
	return planner.Init(env, corpus.Models)
}

// ShowState returns the persisted snapshot for env.
func (c *Compiler) ShowState(stateDir, env string) (core.Snapshot, bool, error) {
	planner := state.NewPlanner(state.NewStore(stateDir))
	return planner.Show(env)
}

// Plan diffs the current corpus against env's persisted snapshot.
func (c *Compiler) Plan(root, stateDir, env string) (core.Plan, core.Diagnostics, error) {
	corpus, err := c.loadAndValidate(root)
	if err != nil {
		return core.Plan{}, nil, err
	}
	if corpus.Diagnostics.HasErrors() {
		return core.Plan{}, corpus.Diagnostics, nil
	}
	planner := state.NewPlanner(state.NewStore(stateDir))
	plan, err := planner.Plan(env, corpus.Models)
	return plan, corpus.Diagnostics, err
}

// Apply persists env's snapshot per mode, holding the advisory file
// lock for the duration (§5).
func (c *Compiler) Apply(root, stateDir, env string, mode core.ApplyMode) error {
	corpus, err := c.loadAndValidate(root)
	if err != nil {
		return err
	}
	if corpus.Diagnostics.HasErrors() {
		return corpus.Diagnostics
	}

	lock, err := state.AcquireLock(stateDir, env)
	if err != nil {
		return err
	}
	defer lock.Release()

	planner := state.NewPlanner(state.NewStore(stateDir))
	return planner.Apply(env, corpus.Models, mode)
}

// ExportGraph returns the dependency graph's nodes and edges for
// downstream lineage rendering (§6).
func (c *Compiler) ExportGraph(root string) (*dag.Graph, error) {
	corpus, err := c.loadAndValidate(root)
	if err != nil {
		return nil, err
	}
	return buildGraph(corpus.Models), nil
}

// LogicHashOf, SchemaHashOf, MetadataHashOf expose the fingerprint
// package's three hashes for one model, used by the CLI's plan/show
// output and by tests that assert fingerprint stability end to end.
func LogicHashOf(m *core.Model) string    { return fingerprint.LogicHash(m) }
func SchemaHashOf(m *core.Model) string   { return fingerprint.SchemaHash(m) }
func MetadataHashOf(m *core.Model) string { return fingerprint.MetadataHash(m) }

// buildGraph builds the depends_on graph restricted to corpus-internal
// edges, mirroring internal/validator's I4 graph construction
// (external tables and self-loops never become edges).
func buildGraph(models []*core.Model) *dag.Graph {
	g := dag.NewGraph()
	byName := make(map[string]bool, len(models))
	for _, m := range models {
		g.AddNode(m.Name, m)
		byName[m.Name] = true
	}
	for _, m := range models {
		for _, dep := range m.DependsOn {
			if !byName[dep] || dep == m.Name {
				continue
			}
			_ = g.AddEdge(dep, m.Name)
		}
	}
	return g
}

func cycleMembers(g *dag.Graph) []string {
	for _, scc := range g.StronglyConnectedComponents() {
		if len(scc) > 1 {
			return scc
		}
	}
	if cycle, found := g.FindCycle(); found {
		return cycle
	}
	return nil
}
