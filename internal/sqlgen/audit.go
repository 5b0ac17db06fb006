package sqlgen

import (
	"fmt"
	"strings"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// emitAudits renders one standalone validation SELECT per Audit
// declared on m, keyed "<model>.<audit_index>" by the audit's position
// in the declared list, so keys are deterministic for a given audit
// list; reordering the audits changes which key each audit gets (§4.7).
func emitAudits(m *core.Model) map[string]string {
	if len(m.Audits) == 0 {
		return nil
	}
	table := fmt.Sprintf("%s.%s", m.Layer, m.Name)
	out := make(map[string]string, len(m.Audits))
	for i, a := range m.Audits {
		key := fmt.Sprintf("%s.%d", m.Name, i)
		switch a.Type {
		case core.AuditNotNull:
			out[key] = notNullAudit(m.Name, table, a)
		case core.AuditPositiveValues:
			out[key] = positiveValuesAudit(m.Name, table, a)
		case core.AuditUniqueCombination:
			out[key] = uniqueCombinationAudit(m.Name, table, a)
		case core.AuditAcceptedValues:
			out[key] = acceptedValuesAudit(m.Name, table, a)
		}
	}
	return out
}

func notNullAudit(name, table string, a core.Audit) string {
	conds := make([]string, len(a.Columns))
	for i, col := range a.Columns {
		conds[i] = fmt.Sprintf("%s IS NULL", col)
	}
	return auditSelect(name, "NOT_NULL", a.Columns, table, strings.Join(conds, " OR "))
}

// positiveValuesAudit flags a row as failing when the column is <= 0
// or null, per §4.7 — a superset of the original's <=0-only check,
// since an absent value is not a verified positive one either.
func positiveValuesAudit(name, table string, a core.Audit) string {
	conds := make([]string, len(a.Columns))
	for i, col := range a.Columns {
		conds[i] = fmt.Sprintf("(%s <= 0 OR %s IS NULL)", col, col)
	}
	return auditSelect(name, "POSITIVE_VALUES", a.Columns, table, strings.Join(conds, " OR "))
}

func uniqueCombinationAudit(name, table string, a core.Audit) string {
	cols := strings.Join(a.Columns, ", ")
	return fmt.Sprintf(`SELECT
  '%s' AS model_name,
  'UNIQUE_COMBINATION' AS audit_type,
  '%s' AS columns_checked,
  COUNT(*) - COUNT(DISTINCT %s) AS failed_rows
FROM %s
HAVING COUNT(*) - COUNT(DISTINCT %s) > 0`, name, cols, cols, table, cols)
}

func acceptedValuesAudit(name, table string, a core.Audit) string {
	if len(a.Columns) != 1 {
		return fmt.Sprintf("-- ACCEPTED_VALUES audit on %s requires exactly one column, got %d", name, len(a.Columns))
	}
	col := a.Columns[0]
	values := a.Values[col]
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
	}
	condition := fmt.Sprintf("%s NOT IN (%s)", col, strings.Join(quoted, ", "))
	return auditSelect(name, "ACCEPTED_VALUES", a.Columns, table, condition)
}

func auditSelect(name, auditType string, columns []string, table, whereExpr string) string {
	return fmt.Sprintf(`SELECT
  '%s' AS model_name,
  '%s' AS audit_type,
  '%s' AS columns_checked,
  COUNT(*) AS failed_rows
FROM %s
WHERE %s
HAVING COUNT(*) > 0`, name, auditType, strings.Join(columns, ", "), table, whereExpr)
}
