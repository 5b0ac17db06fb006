package loader

import (
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// dedupPreserveOrder returns items with duplicates removed, keeping
// the first occurrence's position (Model IR's "first occurrence wins"
// ordered-set rule for tags/depends_on/cte_refs, §4.1).
func dedupPreserveOrder(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

// coerceAudits expands the legacy shorthand keys into canonical Audit
// entries, appended after any already-canonical `audits` list, per
// §4.2's `not_null: [A,B]` ↔ `{type: NOT_NULL, columns: [A,B]}` rule.
func coerceAudits(raw rawAudits) []core.Audit {
	out := make([]core.Audit, 0, len(raw.Audits))
	for _, a := range raw.Audits {
		out = append(out, core.Audit{
			Type:    core.AuditType(a.Type),
			Columns: a.Columns,
			Values:  acceptedValuesFromList(a.Type, a.Columns, a.Values),
		})
	}

	if len(raw.NotNull) > 0 {
		out = append(out, core.Audit{Type: core.AuditNotNull, Columns: raw.NotNull})
	}
	if len(raw.PositiveValues) > 0 {
		out = append(out, core.Audit{Type: core.AuditPositiveValues, Columns: raw.PositiveValues})
	}
	if len(raw.UniqueCombination) > 0 {
		out = append(out, core.Audit{Type: core.AuditUniqueCombination, Columns: raw.UniqueCombination})
	}
	if len(raw.AcceptedValues) > 0 {
		columns := make([]string, 0, len(raw.AcceptedValues))
		for col := range raw.AcceptedValues {
			columns = append(columns, col)
		}
		out = append(out, core.Audit{
			Type:    core.AuditAcceptedValues,
			Columns: columns,
			Values:  raw.AcceptedValues,
		})
	}

	return out
}

// acceptedValuesFromList folds a canonical ACCEPTED_VALUES rule's flat
// `values` list into the column→allowed-literals map shape, when the
// rule names exactly one column (§3: "or flat literal list associated
// with the single column").
func acceptedValuesFromList(auditType string, columns, values []string) map[string][]string {
	if core.AuditType(auditType) != core.AuditAcceptedValues || len(values) == 0 {
		return nil
	}
	if len(columns) != 1 {
		return nil
	}
	return map[string][]string{columns[0]: values}
}

// buildModel assembles a frozen core.Model from a fully merged
// rawDocument.
func buildModel(doc rawDocument, sourceFiles []string) *core.Model {
	m := &core.Model{
		Name:             doc.Model.Name,
		Description:      doc.Model.Description,
		Layer:            core.Layer(doc.Model.Layer),
		Kind:             core.Kind(doc.Model.Kind),
		Owner:            doc.Model.Owner,
		Tags:             dedupPreserveOrder(doc.Model.Tags),
		Domain:           doc.Model.Domain,
		RefreshFrequency: core.RefreshFrequency(doc.Model.RefreshFrequency),

		BaseTable: doc.Source.BaseTable,
		DependsOn: dedupPreserveOrder(doc.Source.DependsOnTables),

		Grain:       dedupPreserveOrder(doc.Grain),
		GroupBy:     doc.Aggregations.GroupBy,
		Having:      doc.Aggregations.Having,
		CTERefs:     dedupPreserveOrder(doc.CTEs.Names),
		Audits:      coerceAudits(doc.Audits),
		SourceFiles: sourceFiles,
	}

	for _, c := range doc.Transformations.Columns {
		m.Columns = append(m.Columns, core.ColumnSpec{
			Name:           c.Name,
			ReferenceTable: c.ReferenceTable,
			Expression:     c.Expression,
			Description:    c.Description,
			DataType:       c.DataType,
		})
	}

	for _, f := range doc.Filters.WhereConditions {
		m.Filters = append(m.Filters, core.WhereClause{
			ReferenceTable: f.ReferenceTable,
			Condition:      f.Condition,
		})
	}

	for _, fk := range doc.Relationships.ForeignKeys {
		m.Relationships = append(m.Relationships, core.ForeignKey{
			LocalColumn:      fk.LocalColumn,
			ReferencesTable:  fk.ReferencesTable,
			ReferencesColumn: fk.ReferencesColumn,
			RelationshipType: core.RelationshipType(fk.RelationshipType),
			JoinType:         core.JoinType(fk.JoinType),
		})
	}

	opt := doc.Optimization
	if len(opt.PartitionedBy) > 0 || len(opt.ClusteredBy) > 0 || len(opt.Indexes) > 0 {
		o := &core.Optimization{
			PartitionedBy: opt.PartitionedBy,
			ClusteredBy:   opt.ClusteredBy,
		}
		for _, idx := range opt.Indexes {
			o.Indexes = append(o.Indexes, core.IndexSpec{Columns: idx.Columns, Type: idx.Type})
		}
		m.Optimization = o
	}

	return m
}
