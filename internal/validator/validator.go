// Package validator runs the nine corpus-wide invariants (§4.3) over a
// loaded Model set and accumulates diagnostics rather than
// short-circuiting on the first violation, so a single run surfaces
// every problem in the corpus at once.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shubham184/fabric-data-transformation/internal/dag"
	"github.com/shubham184/fabric-data-transformation/internal/exprs"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// Validate runs I1-I9 across models and returns the accumulated
// diagnostics. An empty Errors() list means the corpus is safe to hand
// to the Resolver and Generator.
func Validate(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics

	byName, dupes := indexByName(models)
	diags = append(diags, dupes...)

	diags = append(diags, validateSelfReference(models)...)
	diags = append(diags, validateReferenceTables(byName)...)
	diags = append(diags, validateCTERefs(byName)...)
	diags = append(diags, validateCycles(byName)...)
	diags = append(diags, validateGrainAndAudits(models)...)
	diags = append(diags, validateGroupBy(models)...)
	diags = append(diags, validateHaving(models)...)
	diags = append(diags, validateOptimization(models)...)
	diags = append(diags, validateAuditDataTypes(models)...)
	diags = append(diags, validateUnverifiableExternalReferences(models)...)

	return diags
}

// incompatibleAuditTypes names the data types a given audit variant
// cannot meaningfully check, per §4.3's example (POSITIVE_VALUES on a
// VARCHAR column). This is advisory only — generation still proceeds.
var incompatibleAuditTypes = map[core.AuditType]map[string]bool{
	core.AuditPositiveValues: {"VARCHAR": true, "TEXT": true, "CHAR": true, "BOOLEAN": true, "DATE": true, "TIMESTAMP": true},
}

// validateAuditDataTypes emits the §4.3 warning for an audit rule
// checking a column whose declared data_type cannot satisfy that
// audit's semantics.
func validateAuditDataTypes(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		dataTypes := make(map[string]string, len(m.Columns))
		for _, col := range m.Columns {
			dataTypes[col.Name] = strings.ToUpper(col.DataType)
		}
		incompatible := incompatibleAuditTypes
		for i, a := range m.Audits {
			bad, ok := incompatible[a.Type]
			if !ok {
				continue
			}
			for _, col := range a.Columns {
				if bad[dataTypes[col]] {
					diags = append(diags, core.Diagnostic{
						Model: m.Name, Path: fmt.Sprintf("audits[%d]", i),
						Message:  fmt.Sprintf("audit %s on column %q of type %s is unlikely to be meaningful", a.Type, col, dataTypes[col]),
						Severity: core.SeverityWarning,
					})
				}
			}
		}
	}
	return diags
}

// validateUnverifiableExternalReferences emits the §4.3 warning when a
// column references an external table: the reference is structurally
// permitted by I2, but since no sibling model exposes that table's
// columns, the reference cannot be cross-checked.
func validateUnverifiableExternalReferences(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		warned := make(map[string]bool)
		for i, col := range m.Columns {
			if col.ReferenceTable == "" || !core.IsExternalTable(col.ReferenceTable) {
				continue
			}
			if warned[col.ReferenceTable] {
				continue
			}
			warned[col.ReferenceTable] = true
			diags = append(diags, core.Diagnostic{
				Model: m.Name, Path: fmt.Sprintf("columns[%d].reference_table", i),
				Message:  fmt.Sprintf("external table %q cannot be cross-checked for column existence", col.ReferenceTable),
				Severity: core.SeverityWarning,
			})
		}
	}
	return diags
}

// indexByName builds the name -> Model lookup used by every other
// invariant and reports I1 (unique name) violations. On a duplicate,
// the last model with that name is kept under the key so the
// remaining invariants still have something to walk,
// but the corpus as a whole is flagged unsafe to generate.
func indexByName(models []*core.Model) (map[string]*core.Model, core.Diagnostics) {
	byName := make(map[string]*core.Model, len(models))
	seen := make(map[string]int)
	var diags core.Diagnostics

	for _, m := range models {
		seen[m.Name]++
		byName[m.Name] = m
	}

	names := make([]string, 0, len(seen))
	for name, count := range seen {
		if count > 1 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		diags = append(diags, core.Diagnostic{
			Model:    name,
			Message:  fmt.Sprintf("duplicate model name: %d definitions found", seen[name]),
			Severity: core.SeverityError,
		})
	}
	return byName, diags
}

// validateSelfReference enforces I9: depends_on must not name the
// model itself.
func validateSelfReference(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		for _, dep := range m.DependsOn {
			if dep == m.Name {
				diags = append(diags, core.Diagnostic{
					Model:    m.Name,
					Path:     "depends_on",
					Message:  fmt.Sprintf("model depends on itself: %q", dep),
					Severity: core.SeverityError,
				})
			}
		}
	}
	return diags
}

// validReferenceTables mirrors the original's _get_valid_reference_tables:
// base_table, every depends_on entry, every cte_refs entry, plus any
// external table already named by one of this model's own columns.
func validReferenceTables(m *core.Model) map[string]bool {
	valid := make(map[string]bool)
	if m.BaseTable != "" {
		valid[m.BaseTable] = true
	}
	for _, dep := range m.DependsOn {
		valid[dep] = true
	}
	for _, cte := range m.CTERefs {
		valid[cte] = true
	}
	for _, col := range m.Columns {
		if core.IsExternalTable(col.ReferenceTable) {
			valid[col.ReferenceTable] = true
		}
	}
	return valid
}

// validateReferenceTables enforces I2: every reference_table used by a
// column, filter, or relationship must be in depends_on, equal
// base_table, or be an external table. When a column's reference
// resolves to a known internal model, it also validates that the referenced/expression columns
// actually exist there, carrying suggestion/available per §12.
func validateReferenceTables(byName map[string]*core.Model) core.Diagnostics {
	var diags core.Diagnostics

	names := sortedKeys(byName)
	for _, name := range names {
		m := byName[name]
		valid := validReferenceTables(m)

		for i, col := range m.Columns {
			if col.ReferenceTable == "" {
				continue
			}
			diags = append(diags, checkReference(byName, m, valid, col.ReferenceTable,
				fmt.Sprintf("columns[%d].reference_table", i))...)
			diags = append(diags, checkColumnExists(byName, m, col,
				fmt.Sprintf("columns[%d]", i))...)
		}
		for i, f := range m.Filters {
			if f.ReferenceTable == "" {
				continue
			}
			diags = append(diags, checkReference(byName, m, valid, f.ReferenceTable,
				fmt.Sprintf("filters[%d].reference_table", i))...)
		}
		for i, fk := range m.Relationships {
			if fk.ReferencesTable == "" {
				continue
			}
			diags = append(diags, checkReference(byName, m, valid, fk.ReferencesTable,
				fmt.Sprintf("relationships[%d].references_table", i))...)
		}
	}
	return diags
}

// checkReference reports I2 when table is neither a declared
// dependency/base-table/cte nor external, with a fuzzy suggestion
// drawn from every known model name.
func checkReference(byName map[string]*core.Model, m *core.Model, valid map[string]bool, table, path string) core.Diagnostics {
	if valid[table] || core.IsExternalTable(table) {
		return nil
	}
	return core.Diagnostics{{
		Model:      m.Name,
		Path:       path,
		Message:    fmt.Sprintf("reference to table %q is not declared in depends_on, base_table, or cte_refs", table),
		Severity:   core.SeverityError,
		Suggestion: suggestTable(table, byName),
	}}
}

// checkColumnExists resolves I2's column-level cross-check: when a
// column's reference_table is an internal model, every column the
// expression (or, for an empty expression, the identity mapping)
// touches must exist on that model. References into an external table
// are not checked here; validateUnverifiableExternalReferences emits
// the §4.3 warning for them.
func checkColumnExists(byName map[string]*core.Model, m *core.Model, col core.ColumnSpec, path string) core.Diagnostics {
	if core.IsExternalTable(col.ReferenceTable) {
		return nil
	}
	ref, ok := byName[col.ReferenceTable]
	if !ok {
		return nil // already reported by checkReference
	}

	var referenced []string
	if col.Expression != "" {
		referenced = exprs.Analyze(col.Expression).ReferencedColumns
	} else {
		referenced = []string{col.Name}
	}

	available := ref.OutputColumnNames()
	availableSet := toSet(available)

	var diags core.Diagnostics
	for _, refCol := range referenced {
		if availableSet[refCol] {
			continue
		}
		diags = append(diags, core.Diagnostic{
			Model:      m.Name,
			Path:       path,
			Message:    fmt.Sprintf("column %q not found in table %q", refCol, col.ReferenceTable),
			Severity:   core.SeverityError,
			Suggestion: suggestColumn(refCol, available),
			Available:  available,
		})
	}
	return diags
}

// validateCTERefs enforces I3: every cte_refs member must name a
// model of kind CTE that is also present in depends_on.
func validateCTERefs(byName map[string]*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, name := range sortedKeys(byName) {
		m := byName[name]
		deps := toSet(m.DependsOn)
		for i, cteName := range m.CTERefs {
			cte, ok := byName[cteName]
			if !ok {
				diags = append(diags, core.Diagnostic{
					Model: m.Name, Path: fmt.Sprintf("ctes[%d]", i),
					Message:  fmt.Sprintf("cte %q not found in corpus", cteName),
					Severity: core.SeverityError,
				})
				continue
			}
			if cte.Kind != core.KindCTE {
				diags = append(diags, core.Diagnostic{
					Model: m.Name, Path: fmt.Sprintf("ctes[%d]", i),
					Message:  fmt.Sprintf("%q is not a CTE-kind model", cteName),
					Severity: core.SeverityError,
				})
			}
			if !deps[cteName] {
				diags = append(diags, core.Diagnostic{
					Model: m.Name, Path: fmt.Sprintf("ctes[%d]", i),
					Message:  fmt.Sprintf("cte %q is used but not declared in depends_on", cteName),
					Severity: core.SeverityError,
				})
			}
		}
	}
	return diags
}

// validateCycles enforces I4 by building the depends_on graph
// restricted to models present in the corpus and running Tarjan SCC
// detection; every member of a cycle is named, in deterministic order.
func validateCycles(byName map[string]*core.Model) core.Diagnostics {
	g := dag.NewGraph()
	for name := range byName {
		g.AddNode(name, nil)
	}
	for _, name := range sortedKeys(byName) {
		m := byName[name]
		for _, dep := range m.DependsOn {
			if dep == name {
				continue // I9 already reports self-loops
			}
			if _, ok := byName[dep]; !ok {
				continue // external table: not a graph node
			}
			_ = g.AddEdge(dep, name)
		}
	}

	var diags core.Diagnostics
	for _, scc := range g.StronglyConnectedComponents() {
		diags = append(diags, core.Diagnostic{
			Model:    scc[0],
			Message:  fmt.Sprintf("dependency cycle: %v", scc),
			Severity: core.SeverityError,
		})
	}
	return diags
}

// validateGrainAndAudits enforces the I5 column-subset checks for
// grain, audit columns, and relationship local_column, plus B3: an
// ACCEPTED_VALUES audit naming zero allowed literals for a column is
// a validation error, not a degenerate "always fails" audit SQL.
func validateGrainAndAudits(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		outputs := toSet(m.OutputColumnNames())

		for _, g := range m.Grain {
			if !outputs[g] {
				diags = append(diags, core.Diagnostic{
					Model: m.Name, Path: "grain",
					Message:  fmt.Sprintf("grain column %q not found in transformations", g),
					Severity: core.SeverityError,
				})
			}
		}
		for i, a := range m.Audits {
			for _, col := range a.Columns {
				if !outputs[col] {
					diags = append(diags, core.Diagnostic{
						Model: m.Name, Path: fmt.Sprintf("audits[%d]", i),
						Message:  fmt.Sprintf("audit rule column %q not found in transformations", col),
						Severity: core.SeverityError,
					})
				}
				if a.Type == core.AuditAcceptedValues && len(a.Values[col]) == 0 {
					diags = append(diags, core.Diagnostic{
						Model: m.Name, Path: fmt.Sprintf("audits[%d]", i),
						Message:  fmt.Sprintf("ACCEPTED_VALUES audit on column %q has zero allowed literals", col),
						Severity: core.SeverityError,
					})
				}
			}
		}
		for i, fk := range m.Relationships {
			if fk.LocalColumn != "" && !outputs[fk.LocalColumn] {
				diags = append(diags, core.Diagnostic{
					Model: m.Name, Path: fmt.Sprintf("relationships[%d].local_column", i),
					Message:  fmt.Sprintf("relationship local_column %q not found in transformations", fk.LocalColumn),
					Severity: core.SeverityError,
				})
			}
		}
	}
	return diags
}

// validateGroupBy enforces I6: any aggregate expression forces
// group_by to be non-empty, and every non-aggregate output column
// must be named in group_by.
func validateGroupBy(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		hasAggregate := false
		nonAggregateCols := make([]string, 0, len(m.Columns))
		for _, col := range m.Columns {
			if exprs.Analyze(col.Expression).IsAggregate {
				hasAggregate = true
			} else {
				nonAggregateCols = append(nonAggregateCols, col.Name)
			}
		}
		if !hasAggregate {
			continue
		}
		if len(m.GroupBy) == 0 {
			diags = append(diags, core.Diagnostic{
				Model: m.Name, Path: "group_by",
				Message:  "model has an aggregate column but group_by is empty",
				Severity: core.SeverityError,
			})
			continue
		}
		groupBySet := toSet(m.GroupBy)
		for _, col := range nonAggregateCols {
			if !groupBySet[col] {
				diags = append(diags, core.Diagnostic{
					Model: m.Name, Path: "group_by",
					Message:  fmt.Sprintf("non-aggregate output column %q must appear in group_by", col),
					Severity: core.SeverityError,
				})
			}
		}
	}
	return diags
}

// validateHaving enforces I7: a having predicate may only reference
// output column names or the exact aggregate expressions declared on
// the model's own columns.
func validateHaving(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		outputs := toSet(m.OutputColumnNames())
		aggregateExprs := make(map[string]bool)
		for _, col := range m.Columns {
			if exprs.Analyze(col.Expression).IsAggregate {
				aggregateExprs[col.Expression] = true
			}
		}

		for i, predicate := range m.Having {
			if aggregateExprs[predicate] {
				continue
			}
			result := exprs.Analyze(predicate)
			for _, col := range result.ReferencedColumns {
				if !outputs[col] {
					diags = append(diags, core.Diagnostic{
						Model: m.Name, Path: fmt.Sprintf("having[%d]", i),
						Message:  fmt.Sprintf("having predicate references %q which is neither an output column nor a declared aggregate expression", col),
						Severity: core.SeverityError,
					})
				}
			}
		}
	}
	return diags
}

// validateOptimization enforces I8: a CTE-kind model must not carry
// an Optimization block.
func validateOptimization(models []*core.Model) core.Diagnostics {
	var diags core.Diagnostics
	for _, m := range models {
		if m.Kind == core.KindCTE && m.Optimization != nil {
			diags = append(diags, core.Diagnostic{
				Model: m.Name, Path: "optimization",
				Message:  "cte-kind models must not declare an optimization block",
				Severity: core.SeverityError,
			})
		}
	}
	return diags
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
