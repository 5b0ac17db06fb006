// Package sqlgen assembles per-model SQL artifacts (§4.6) and their
// companion audit statements (§4.7) against a pkg/dialect capability
// set. It assumes the corpus has already passed internal/validator;
// it does not re-check invariants, only reports the failures codegen
// itself can hit as GenerationErrors: an unknown model or kind, no
// base table (§4.6 "B1"), a placeholder macro the dialect does not
// support, and a DDL template that fails to render.
package sqlgen

import (
	"fmt"
	"strings"

	"github.com/shubham184/fabric-data-transformation/internal/exprs"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
	"github.com/shubham184/fabric-data-transformation/pkg/dialect"
)

// Artifact is one model's generated SQL.
type Artifact struct {
	Model  string
	Select string // bare SELECT body; for CTE-kind models this is the entire artifact
	DDL    string // full CREATE TABLE/VIEW statement; "" for CTE-kind models
	Audits map[string]string
}

// Generator assembles SQL artifacts for a corpus of models against one
// dialect.
type Generator struct {
	dialect *dialect.Dialect
	byName  map[string]*core.Model
}

// New builds a Generator over models, rendering against d.
func New(d *dialect.Dialect, models []*core.Model) *Generator {
	byName := make(map[string]*core.Model, len(models))
	for _, m := range models {
		byName[m.Name] = m
	}
	return &Generator{dialect: d, byName: byName}
}

// Generate produces the Artifact for one named model. Callers
// generating a full corpus should call this in resolver topo order so
// that a model's CTE dependencies are already validated to exist.
func (g *Generator) Generate(name string) (Artifact, error) {
	m, ok := g.byName[name]
	if !ok {
		return Artifact{}, &core.GenerationError{Model: name, Message: "model not found"}
	}

	sel, err := g.buildSelect(m)
	if err != nil {
		return Artifact{}, err
	}
	artifact := Artifact{Model: name, Select: sel, Audits: emitAudits(m)}

	switch m.Kind {
	case core.KindCTE:
		return artifact, nil
	case core.KindView, core.KindTable:
		ddl, err := g.buildDDL(m, sel)
		if err != nil {
			return Artifact{}, err
		}
		artifact.DDL = ddl
		return artifact, nil
	default:
		return Artifact{}, &core.GenerationError{Model: name, Message: fmt.Sprintf("unsupported model kind %q", m.Kind)}
	}
}

func (g *Generator) buildDDL(m *core.Model, sel string) (string, error) {
	cte, err := g.buildCTESection(m)
	if err != nil {
		return "", err
	}

	data := dialect.DDLData{
		Schema: string(m.Layer),
		Table:  m.Name,
		CTE:    cte,
		Select: sel,
	}
	if m.Optimization != nil {
		data.PartitionedBy = m.Optimization.PartitionedBy
		data.ClusteredBy = m.Optimization.ClusteredBy
	}

	var ddl string
	switch m.Kind {
	case core.KindTable:
		ddl, err = g.dialect.RenderCreateTable(data)
	case core.KindView:
		ddl, err = g.dialect.RenderCreateView(data)
	}
	if err != nil {
		return "", &core.GenerationError{Model: m.Name, Message: err.Error()}
	}
	return ddl, nil
}

// buildCTESection renders the comma-joined WITH-list entries for every
// cte_refs member. I3 guarantees each is itself kind CTE; I4
// guarantees the corpus is acyclic, so recursing here always
// terminates.
func (g *Generator) buildCTESection(m *core.Model) (string, error) {
	if len(m.CTERefs) == 0 {
		return "", nil
	}
	entries := make([]string, 0, len(m.CTERefs))
	for _, cteName := range m.CTERefs {
		art, err := g.Generate(cteName)
		if err != nil {
			return "", err
		}
		entries = append(entries, fmt.Sprintf("%s AS (\n%s\n)", cteName, indent(art.Select, 2)))
	}
	return strings.Join(entries, ",\n"), nil
}

func (g *Generator) buildSelect(m *core.Model) (string, error) {
	baseTable, err := resolveBaseTable(m)
	if err != nil {
		return "", err
	}

	aliases := NewAliasMap(aliasOrder(m, baseTable))

	var b strings.Builder
	b.WriteString("SELECT\n")
	for i, col := range m.Columns {
		expr, err := g.renderColumnExpression(m.Name, col, aliases)
		if err != nil {
			return "", err
		}
		sep := ","
		if i == len(m.Columns)-1 {
			sep = ""
		}
		fmt.Fprintf(&b, "  %s AS %s%s\n", expr, g.dialect.QuoteIdent(col.Name), sep)
	}
	fmt.Fprintf(&b, "FROM %s %s\n", baseTable, aliases[baseTable])

	for _, fk := range m.Relationships {
		joinAlias := aliases[fk.ReferencesTable]
		localTable := findTableForColumn(m, fk.LocalColumn, baseTable)
		localAlias := aliases[localTable]
		fmt.Fprintf(&b, "%s JOIN %s %s ON %s.%s = %s.%s\n",
			fk.JoinType, fk.ReferencesTable, joinAlias,
			localAlias, fk.LocalColumn, joinAlias, fk.ReferencesColumn)
	}

	if len(m.Filters) > 0 {
		b.WriteString("WHERE\n")
		for i, f := range m.Filters {
			sep := ""
			if i != len(m.Filters)-1 {
				sep = " AND"
			}
			fmt.Fprintf(&b, "  %s%s\n", qualifyCondition(f, aliases), sep)
		}
	}

	if len(m.GroupBy) > 0 {
		fmt.Fprintf(&b, "GROUP BY %s\n", strings.Join(m.GroupBy, ", "))
	}
	if len(m.Having) > 0 {
		fmt.Fprintf(&b, "HAVING %s\n", strings.Join(m.Having, " AND "))
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// resolveBaseTable mirrors the original's base-table fallback
// (explicit base_table, else the first dependency) and reports the B1
// "no base table" error when a model has neither.
func resolveBaseTable(m *core.Model) (string, error) {
	if m.BaseTable != "" {
		return m.BaseTable, nil
	}
	if len(m.DependsOn) > 0 {
		return m.DependsOn[0], nil
	}
	return "", &core.GenerationError{Model: m.Name, Message: "no base table: base_table is empty and depends_on is empty"}
}

// aliasOrder returns the deduplicated, ordered table list the alias
// map should be built from: the base table first (so it reliably
// becomes "T"), then every other depends_on entry, then any
// additional reference_table named directly by a column that isn't
// already covered (an externally-qualified table used as a plain
// FROM source without being listed in depends_on is still possible
// for an external table, since I2 only requires it be *marked*
// external, not declared as a dependency).
func aliasOrder(m *core.Model, baseTable string) []string {
	order := []string{baseTable}
	seen := map[string]bool{baseTable: true}

	add := func(table string) {
		if table == "" || seen[table] {
			return
		}
		seen[table] = true
		order = append(order, table)
	}

	for _, dep := range m.DependsOn {
		add(dep)
	}
	for _, fk := range m.Relationships {
		add(fk.ReferencesTable)
	}
	for _, col := range m.Columns {
		add(col.ReferenceTable)
	}
	for _, f := range m.Filters {
		add(f.ReferenceTable)
	}
	return order
}

// findTableForColumn locates which reference_table a column belongs
// to, falling back to baseTable when the column isn't declared on
// this model (mirrors the original's _find_table_for_column).
func findTableForColumn(m *core.Model, columnName, baseTable string) string {
	for _, col := range m.Columns {
		if col.Name == columnName {
			if col.ReferenceTable != "" {
				return col.ReferenceTable
			}
			return baseTable
		}
	}
	return baseTable
}

// isBareword matches a column expression that is nothing more
// than a single identifier — the case the Generator qualifies with an
// alias. Anything else (function calls, operators, already
// dot-qualified references) is emitted verbatim per §4.6.
func isBareword(expr string) bool {
	if expr == "" {
		return false
	}
	for i, r := range expr {
		isLetterOrUnderscore := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if i == 0 && !isLetterOrUnderscore {
			return false
		}
		if i > 0 && !isLetterOrUnderscore && !isDigit {
			return false
		}
	}
	return true
}

// renderColumnExpression implements §4.6's expression-rendering rule:
// an empty expression emits "<alias>.<output_name>"; a bareword
// expression emits "<alias>.<word>"; anything else is emitted
// verbatim (the expression author is responsible for already
// qualifying multi-table references) — unless it invokes a
// placeholder macro (§4.6, §9's resolved open question), in which
// case the macro is expanded against g.dialect if supported, or
// raised as a GenerationError if not.
func (g *Generator) renderColumnExpression(modelName string, col core.ColumnSpec, aliases AliasMap) (string, error) {
	if col.Expression == "" {
		return fmt.Sprintf("%s.%s", aliases[col.ReferenceTable], col.Name), nil
	}
	if isBareword(col.Expression) {
		return fmt.Sprintf("%s.%s", aliases[col.ReferenceTable], col.Expression), nil
	}
	if name, found := exprs.DetectMacro(col.Expression); found {
		if !g.dialect.SupportsMacro(name) {
			return "", &core.GenerationError{
				Model:   modelName,
				Message: fmt.Sprintf("column %q: dialect %q does not support macro @%s(...)", col.Name, g.dialect.Config.Name, name),
			}
		}
		expansion, _ := g.dialect.ExpandMacro(name)
		return exprs.MacroPattern.ReplaceAllLiteralString(col.Expression, expansion), nil
	}
	return col.Expression, nil
}

// qualifyCondition mirrors the original's naive textual substitution:
// every occurrence of "<reference_table>." in the raw condition is
// replaced with "<alias>.".
func qualifyCondition(f core.WhereClause, aliases AliasMap) string {
	alias := aliases[f.ReferenceTable]
	if alias == "" {
		return f.Condition
	}
	return strings.ReplaceAll(f.Condition, f.ReferenceTable+".", alias+".")
}

func indent(s string, spaces int) string {
	prefix := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}
