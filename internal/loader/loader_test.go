package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("writeFile(%s): %v", name, err)
	}
}

func TestLoad_SingleModel(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "customers.yaml", `
model:
  name: customers
  description: Customer dimension
  layer: silver
  kind: TABLE
  owner: data-eng
  tags: [core]
  domain: sales
  refresh_frequency: daily
source:
  base_table: raw.customers
transformations:
  columns:
    - name: customer_id
      reference_table: raw.customers
      expression: ""
      description: primary key
      data_type: BIGINT
grain: [customer_id]
`)

	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Diagnostics.Errors()) != 0 {
		t.Fatalf("unexpected error diagnostics: %v", result.Diagnostics.Errors())
	}
	if len(result.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(result.Models))
	}
	m := result.Models[0]
	if m.Name != "customers" || m.Layer != core.LayerSilver || m.Kind != core.KindTable {
		t.Errorf("unexpected model: %+v", m)
	}
	if len(m.Columns) != 1 || m.Columns[0].Name != "customer_id" {
		t.Errorf("unexpected columns: %+v", m.Columns)
	}
}

func TestLoad_UnknownTopLevelSectionFailsFileNotCorpus(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bad.yaml", `
model:
  name: bad_model
  layer: bronze
  kind: TABLE
totally_unknown_section:
  foo: bar
`)
	writeFile(t, dir, "good.yaml", `
model:
  name: good_model
  layer: bronze
  kind: TABLE
`)

	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Models) != 1 || result.Models[0].Name != "good_model" {
		t.Fatalf("expected only good_model to load, got %+v", result.Models)
	}
	if len(result.Diagnostics.Errors()) != 1 {
		t.Fatalf("expected 1 error diagnostic, got %d: %v", len(result.Diagnostics.Errors()), result.Diagnostics)
	}
}

func TestLoad_UnknownFieldWarnsNotFails(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "m.yaml", `
model:
  name: m
  layer: bronze
  kind: TABLE
  made_up_field: 1
`)
	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Models) != 1 {
		t.Fatalf("expected model to still load, got %d models", len(result.Models))
	}
	if len(result.Diagnostics.Warnings()) != 1 {
		t.Fatalf("expected 1 warning, got %v", result.Diagnostics)
	}
}

func TestLoad_LegacyAuditShorthand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.yaml", `
model:
  name: orders
  layer: silver
  kind: TABLE
audits:
  not_null: [order_id, customer_id]
  accepted_values:
    status: [open, closed]
`)
	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Models) != 1 {
		t.Fatalf("expected 1 model, got %d", len(result.Models))
	}
	audits := result.Models[0].Audits
	if len(audits) != 2 {
		t.Fatalf("expected 2 coerced audits, got %d: %+v", len(audits), audits)
	}
	if audits[0].Type != core.AuditNotNull || len(audits[0].Columns) != 2 {
		t.Errorf("unexpected not_null audit: %+v", audits[0])
	}
	if audits[1].Type != core.AuditAcceptedValues || audits[1].Values["status"][0] != "open" {
		t.Errorf("unexpected accepted_values audit: %+v", audits[1])
	}
}

func TestLoad_CTEsBareListAndNestedForm(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "bare.yaml", `
model:
  name: bare
  layer: cte
  kind: CTE
ctes: [inner_cte]
`)
	writeFile(t, dir, "nested.yaml", `
model:
  name: nested
  layer: cte
  kind: CTE
ctes:
  ctes: [inner_cte]
`)
	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	byName := map[string]*core.Model{}
	for _, m := range result.Models {
		byName[m.Name] = m
	}
	if len(byName["bare"].CTERefs) != 1 || byName["bare"].CTERefs[0] != "inner_cte" {
		t.Errorf("bare-list ctes not normalized: %+v", byName["bare"].CTERefs)
	}
	if len(byName["nested"].CTERefs) != 1 || byName["nested"].CTERefs[0] != "inner_cte" {
		t.Errorf("nested ctes not normalized: %+v", byName["nested"].CTERefs)
	}
}

func TestLoad_PartialFileMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.yaml", `
model:
  name: orders
  layer: silver
  kind: TABLE
transformations:
  columns:
    - name: order_id
      reference_table: raw.orders
      data_type: BIGINT
`)
	writeFile(t, dir, "orders.part2.yaml", `
model:
  name: orders
transformations:
  columns:
    - name: status
      reference_table: raw.orders
      data_type: VARCHAR
`)

	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Models) != 1 {
		t.Fatalf("expected the two part files to merge into 1 model, got %d", len(result.Models))
	}
	m := result.Models[0]
	if len(m.Columns) != 2 {
		t.Fatalf("expected 2 merged columns, got %d: %+v", len(m.Columns), m.Columns)
	}
	if len(m.SourceFiles) != 2 {
		t.Errorf("expected 2 source files recorded, got %v", m.SourceFiles)
	}
}

func TestLoad_PartialFileMergeRemoveOperator(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "orders.yaml", `
model:
  name: orders
  layer: silver
  kind: TABLE
transformations:
  columns:
    - name: order_id
      reference_table: raw.orders
      data_type: BIGINT
    - name: legacy_col
      reference_table: raw.orders
      data_type: VARCHAR
`)
	writeFile(t, dir, "orders.part2.yaml", `
model:
  name: orders
transformations:
  columns:
    - name: legacy_col
      reference_table: raw.orders
      data_type: VARCHAR
      operator: "-"
`)

	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	m := result.Models[0]
	for _, c := range m.Columns {
		if c.Name == "legacy_col" {
			t.Fatalf("expected legacy_col to be removed by '-' operator, got %+v", m.Columns)
		}
	}
}

func TestLoad_SkipsHiddenAndConfigFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "modelc.yaml", `root: .`)
	if err := os.Mkdir(filepath.Join(dir, ".git"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, dir, ".git/config.yaml", `model: {name: hidden, layer: bronze, kind: TABLE}`)
	writeFile(t, dir, "real.yaml", `
model:
  name: real
  layer: bronze
  kind: TABLE
`)

	result, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(result.Models) != 1 || result.Models[0].Name != "real" {
		t.Fatalf("expected only real model loaded, got %+v", result.Models)
	}
}
