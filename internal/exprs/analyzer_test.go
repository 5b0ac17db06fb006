package exprs

import (
	"reflect"
	"testing"
)

func TestAnalyze_Empty(t *testing.T) {
	r := Analyze("   ")
	if len(r.ReferencedColumns) != 0 || r.IsAggregate || len(r.FunctionsUsed) != 0 {
		t.Errorf("expected zero Result for blank expression, got %+v", r)
	}
}

func TestAnalyze_BarewordColumn(t *testing.T) {
	r := Analyze("customer_id")
	if !reflect.DeepEqual(r.ReferencedColumns, []string{"customer_id"}) {
		t.Errorf("ReferencedColumns = %v, want [customer_id]", r.ReferencedColumns)
	}
	if r.IsAggregate {
		t.Error("bare column reference should not be aggregate")
	}
}

func TestAnalyze_AggregateFunction(t *testing.T) {
	r := Analyze("SUM(amount)")
	if r.ReferencedColumns[0] != "amount" {
		t.Errorf("ReferencedColumns = %v, want [amount]", r.ReferencedColumns)
	}
	if !r.IsAggregate {
		t.Error("expected IsAggregate = true for SUM(...)")
	}
	if !reflect.DeepEqual(r.FunctionsUsed, []string{"sum"}) {
		t.Errorf("FunctionsUsed = %v, want [sum]", r.FunctionsUsed)
	}
}

func TestAnalyze_NonAggregateBuiltinExcluded(t *testing.T) {
	r := Analyze("UPPER(status)")
	if !reflect.DeepEqual(r.ReferencedColumns, []string{"status"}) {
		t.Errorf("ReferencedColumns = %v, want [status]", r.ReferencedColumns)
	}
	if r.IsAggregate {
		t.Error("UPPER(...) is not an aggregate")
	}
}

func TestAnalyze_KeywordsIgnored(t *testing.T) {
	r := Analyze("CASE WHEN status IS NULL THEN 0 ELSE amount END")
	want := []string{"amount", "status"}
	if !reflect.DeepEqual(r.ReferencedColumns, want) {
		t.Errorf("ReferencedColumns = %v, want %v", r.ReferencedColumns, want)
	}
}

func TestAnalyze_StringLiteralsAndCommentsStripped(t *testing.T) {
	r := Analyze("status = 'active' -- ignore trailing comment\n AND region <> 'nowhere'")
	want := []string{"region", "status"}
	if !reflect.DeepEqual(r.ReferencedColumns, want) {
		t.Errorf("ReferencedColumns = %v, want %v", r.ReferencedColumns, want)
	}
}

func TestAnalyze_PlaceholderMacroTreatedAsFunction(t *testing.T) {
	r := Analyze("@newpk()")
	if len(r.ReferencedColumns) != 0 {
		t.Errorf("expected no column references for a macro call, got %v", r.ReferencedColumns)
	}
	if !reflect.DeepEqual(r.FunctionsUsed, []string{"@newpk"}) {
		t.Errorf("FunctionsUsed = %v, want [@newpk]", r.FunctionsUsed)
	}
}

func TestAnalyze_NumericLiteralExcluded(t *testing.T) {
	r := Analyze("amount > 100 AND amount < 200.5")
	if !reflect.DeepEqual(r.ReferencedColumns, []string{"amount"}) {
		t.Errorf("ReferencedColumns = %v, want [amount]", r.ReferencedColumns)
	}
}
