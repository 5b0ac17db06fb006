package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/shubham184/fabric-data-transformation/internal/dag"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// layerFillColor mirrors the original dependency-graph exporter's
// medallion fill palette (bronze/silver/gold/cte), falling back to
// white for anything else.
func layerFillColor(layer core.Layer) string {
	switch layer {
	case core.LayerBronze:
		return "lightblue"
	case core.LayerSilver:
		return "lightgreen"
	case core.LayerGold:
		return "lightyellow"
	case core.LayerCTE:
		return "lightgray"
	default:
		return "white"
	}
}

func layerOf(n *dag.Node) core.Layer {
	if m, ok := n.Data.(*core.Model); ok {
		return m.Layer
	}
	return ""
}

// graphNode and graphDoc are the JSON shape written by writeNodesEdges,
// a lineage document downstream tools can consume without linking
// against internal/dag (§6's "nodes and edges" document).
type graphNode struct {
	ID        string   `json:"id"`
	Layer     string   `json:"layer,omitempty"`
	DependsOn []string `json:"depends_on"`
}

type graphDoc struct {
	Nodes []graphNode `json:"nodes"`
	Edges []graphEdge `json:"edges"`
}

type graphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// writeNodesEdges emits the graph as a nodes+edges JSON document, one
// entry per model plus the depends_on edge list.
func writeNodesEdges(w io.Writer, g *dag.Graph) error {
	doc := graphDoc{}
	for _, n := range g.GetAllNodes() {
		doc.Nodes = append(doc.Nodes, graphNode{
			ID:        n.ID,
			Layer:     string(layerOf(n)),
			DependsOn: g.GetParents(n.ID),
		})
		for _, child := range g.GetChildren(n.ID) {
			doc.Edges = append(doc.Edges, graphEdge{From: n.ID, To: child})
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// writeHierarchical renders the graph top-down by execution level
// (roots first), one indented block per level, matching the
// direction="UD" layout the original tooling fed to its DAG viewer.
func writeHierarchical(w io.Writer, g *dag.Graph) error {
	levels, err := g.GetExecutionLevels()
	if err != nil {
		return err
	}
	for i, level := range levels {
		fmt.Fprintf(w, "Level %d:\n", i)
		for _, id := range level {
			node, _ := g.GetNode(id)
			layer := layerOf(node)
			if layer != "" {
				fmt.Fprintf(w, "  %s (%s)\n", id, layer)
			} else {
				fmt.Fprintf(w, "  %s\n", id)
			}
			for _, dep := range g.GetParents(id) {
				fmt.Fprintf(w, "    <- %s\n", dep)
			}
		}
	}
	return nil
}

// writeDOT renders the graph as Graphviz DOT with medallion-layer fill
// coloring, grounded on the original dependency graph's export_dot.
func writeDOT(w io.Writer, g *dag.Graph) error {
	fmt.Fprintln(w, "digraph dependencies {")
	fmt.Fprintln(w, "  rankdir=LR;")
	fmt.Fprintln(w, "  node [shape=box];")

	for _, n := range g.GetAllNodes() {
		layer := layerOf(n)
		label := n.ID
		if layer != "" {
			label = fmt.Sprintf(`%s\n(%s)`, n.ID, layer)
		}
		fmt.Fprintf(w, "  %q [fillcolor=%s, style=filled, label=%q];\n", n.ID, layerFillColor(layer), label)
	}
	for _, n := range g.GetAllNodes() {
		for _, child := range g.GetChildren(n.ID) {
			fmt.Fprintf(w, "  %q -> %q;\n", n.ID, child)
		}
	}

	fmt.Fprintln(w, "}")
	return nil
}
