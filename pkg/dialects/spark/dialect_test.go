package spark

import (
	"strings"
	"testing"

	"github.com/shubham184/fabric-data-transformation/pkg/dialect"
)

func TestNew(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !d.SupportsMacro("newpk") {
		t.Error("spark should support @newpk")
	}
	if d.SupportsMacro("Feature") {
		t.Error("spark should not support @Feature")
	}
}

func TestRenderCreateTable_Partitioned(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := d.RenderCreateTable(dialect.DDLData{
		Schema:        "gold",
		Table:         "orders",
		Select:        "SELECT * FROM silver.orders",
		PartitionedBy: []string{"order_date"},
	})
	if err != nil {
		t.Fatalf("RenderCreateTable() error = %v", err)
	}
	if !strings.Contains(got, "USING DELTA") {
		t.Errorf("expected USING DELTA in output, got %q", got)
	}
	if !strings.Contains(got, "PARTITIONED BY (order_date)") {
		t.Errorf("expected PARTITIONED BY clause, got %q", got)
	}
}

func TestQuoteIdent_Backtick(t *testing.T) {
	d, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if got := d.QuoteIdent("order-id"); got != "`order-id`" {
		t.Errorf("QuoteIdent() = %q, want backtick-quoted", got)
	}
}
