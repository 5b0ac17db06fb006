package fingerprint

import (
	"testing"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

func baseModel() *core.Model {
	return &core.Model{
		Name:      "customers",
		Layer:     core.LayerSilver,
		Kind:      core.KindTable,
		Owner:     "data-eng",
		BaseTable: "raw.customers",
		Columns: []core.ColumnSpec{
			{Name: "customer_id", ReferenceTable: "raw.customers", DataType: "BIGINT"},
			{Name: "email", ReferenceTable: "raw.customers", Expression: "LOWER(email)", DataType: "VARCHAR"},
		},
	}
}

func TestLogicHash_DeterministicAcrossCalls(t *testing.T) {
	m := baseModel()
	if LogicHash(m) != LogicHash(m) {
		t.Fatal("LogicHash is not deterministic across repeated calls")
	}
}

func TestLogicHash_FixedLength(t *testing.T) {
	h := LogicHash(baseModel())
	if len(h) != 16 {
		t.Errorf("LogicHash length = %d, want 16", len(h))
	}
}

func TestLogicHash_ChangesWithExpression(t *testing.T) {
	m1 := baseModel()
	m2 := baseModel()
	m2.Columns[1].Expression = "UPPER(email)"
	if LogicHash(m1) == LogicHash(m2) {
		t.Error("LogicHash did not change when a column expression changed")
	}
}

func TestLogicHash_UnaffectedByDependsOnReorder(t *testing.T) {
	m1 := baseModel()
	m1.DependsOn = []string{"a", "b"}
	m2 := baseModel()
	m2.DependsOn = []string{"b", "a"}
	if LogicHash(m1) != LogicHash(m2) {
		t.Error("LogicHash changed on a pure depends_on reorder")
	}
}

func TestLogicHash_UnaffectedByMetadataOnlyChange(t *testing.T) {
	m1 := baseModel()
	m2 := baseModel()
	m2.Owner = "someone-else"
	m2.Description = "a different description"
	if LogicHash(m1) != LogicHash(m2) {
		t.Error("LogicHash changed on a metadata-only edit")
	}
}

func TestSchemaHash_ChangesWithDataType(t *testing.T) {
	m1 := baseModel()
	m2 := baseModel()
	m2.Columns[0].DataType = "INTEGER"
	if SchemaHash(m1) == SchemaHash(m2) {
		t.Error("SchemaHash did not change when a column data_type changed")
	}
}

func TestSchemaHash_UnaffectedByExpressionChange(t *testing.T) {
	m1 := baseModel()
	m2 := baseModel()
	m2.Columns[1].Expression = "UPPER(email)"
	if SchemaHash(m1) != SchemaHash(m2) {
		t.Error("SchemaHash changed on an expression-only edit")
	}
}

func TestMetadataHash_ChangesWithOwner(t *testing.T) {
	m1 := baseModel()
	m2 := baseModel()
	m2.Owner = "someone-else"
	if MetadataHash(m1) == MetadataHash(m2) {
		t.Error("MetadataHash did not change when owner changed")
	}
}

func TestMetadataHash_UnaffectedByLogicChange(t *testing.T) {
	m1 := baseModel()
	m2 := baseModel()
	m2.BaseTable = "raw.other_customers"
	if MetadataHash(m1) != MetadataHash(m2) {
		t.Error("MetadataHash changed on a logic-only edit")
	}
}

func TestAllThreeHashes_Independent(t *testing.T) {
	m := baseModel()
	l, s, meta := LogicHash(m), SchemaHash(m), MetadataHash(m)
	if l == s || l == meta || s == meta {
		t.Errorf("expected three distinct hash values, got logic=%s schema=%s metadata=%s", l, s, meta)
	}
}
