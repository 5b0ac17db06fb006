package sqlgen

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/shubham184/fabric-data-transformation/internal/dag"
)

// GenerateAll produces the Artifact for every model named in levels,
// a slice of execution levels as returned by
// internal/dag.Graph.GetExecutionLevels: models within one level have
// no dependency on each other and are generated concurrently; a level
// only starts once every prior level has finished, since a model's
// CTE splice (buildCTESection) calls back into Generate for its own
// dependencies regardless of level boundaries.
func (g *Generator) GenerateAll(ctx context.Context, levels [][]string) (map[string]Artifact, error) {
	results := make(map[string]Artifact)

	for _, level := range levels {
		eg, egctx := errgroup.WithContext(ctx)
		names := append([]string(nil), level...)
		sort.Strings(names)

		artifacts := make([]Artifact, len(names))
		for i, name := range names {
			i, name := i, name
			eg.Go(func() error {
				if err := egctx.Err(); err != nil {
					return err
				}
				art, err := g.Generate(name)
				if err != nil {
					return err
				}
				artifacts[i] = art
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
		for _, art := range artifacts {
			results[art.Model] = art
		}
	}

	return results, nil
}

// ExecutionLevels is a convenience wrapper building a dag.Graph from
// depends_on edges and returning GetExecutionLevels, so callers don't
// need to construct the graph themselves just to drive GenerateAll.
func ExecutionLevels(byName map[string][]string) ([][]string, error) {
	g := dag.NewGraph()
	for name := range byName {
		g.AddNode(name, nil)
	}
	for name, deps := range byName {
		for _, dep := range deps {
			if _, ok := byName[dep]; !ok {
				continue // external table, not a graph node
			}
			if dep == name {
				continue
			}
			_ = g.AddEdge(dep, name)
		}
	}
	return g.GetExecutionLevels()
}
