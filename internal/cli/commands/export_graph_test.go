package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shubham184/fabric-data-transformation/internal/dag"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

func testGraph() *dag.Graph {
	g := dag.NewGraph()
	g.AddNode("bronze_orders", &core.Model{Name: "bronze_orders", Layer: core.LayerBronze})
	g.AddNode("silver_orders", &core.Model{Name: "silver_orders", Layer: core.LayerSilver})
	g.AddNode("gold_revenue", &core.Model{Name: "gold_revenue", Layer: core.LayerGold})
	_ = g.AddEdge("bronze_orders", "silver_orders")
	_ = g.AddEdge("silver_orders", "gold_revenue")
	return g
}

func TestWriteDOT_ColorsByLayer(t *testing.T) {
	var buf bytes.Buffer
	if err := writeDOT(&buf, testGraph()); err != nil {
		t.Fatalf("writeDOT() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"digraph dependencies {",
		`"bronze_orders" [fillcolor=lightblue`,
		`"silver_orders" [fillcolor=lightgreen`,
		`"gold_revenue" [fillcolor=lightyellow`,
		`"bronze_orders" -> "silver_orders"`,
		`"silver_orders" -> "gold_revenue"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q, got:\n%s", want, out)
		}
	}
}

func TestWriteNodesEdges_ProducesValidJSONShape(t *testing.T) {
	var buf bytes.Buffer
	if err := writeNodesEdges(&buf, testGraph()); err != nil {
		t.Fatalf("writeNodesEdges() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"id": "bronze_orders"`) {
		t.Errorf("expected node entry for bronze_orders, got:\n%s", out)
	}
	if !strings.Contains(out, `"from": "bronze_orders"`) || !strings.Contains(out, `"to": "silver_orders"`) {
		t.Errorf("expected edge bronze_orders->silver_orders, got:\n%s", out)
	}
}

func TestWriteHierarchical_OrdersRootsBeforeDependents(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHierarchical(&buf, testGraph()); err != nil {
		t.Fatalf("writeHierarchical() error = %v", err)
	}
	out := buf.String()

	bronzeIdx := strings.Index(out, "bronze_orders")
	goldIdx := strings.Index(out, "gold_revenue")
	if bronzeIdx < 0 || goldIdx < 0 || bronzeIdx > goldIdx {
		t.Errorf("expected bronze_orders to appear before gold_revenue, got:\n%s", out)
	}
	if !strings.Contains(out, "Level 0:") {
		t.Errorf("expected a Level 0 heading, got:\n%s", out)
	}
}
