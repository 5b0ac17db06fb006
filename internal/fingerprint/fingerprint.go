// Package fingerprint computes the three stable hashes the state
// planner uses to classify a model as unchanged, schema-changed,
// logic-changed, or metadata-changed (§4.8). Each hash is taken over a
// canonical JSON projection of the subset of the Model IR relevant to
// it; encoding/json sorts map keys by default, which is the canonical
// serialization §4.8 requires, so no bespoke key-sorting is needed
// here — a direct parallel of the original tool's own reliance on its
// host language's standard JSON module for the same purpose.
package fingerprint

import (
	"encoding/json"
	"fmt"
	"hash/fnv"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// LogicHash covers everything that changes the generated SELECT body:
// base table, columns (name/reference_table/expression), filters,
// cte_refs, group_by, having, and relationships. Audits and Grain are
// deliberately excluded — §4.8 scopes logic_hash to what drives the
// SELECT, and audits/grain affect verification and documentation, not
// the generated query shape. depends_on is also excluded: it's
// set-semantic (§3/§4.1), so a pure reordering of it must not move
// this hash, and a genuine addition/removal of a dependency already
// surfaces through cte_refs, filters, or relationships touching that
// table's columns.
func LogicHash(m *core.Model) string {
	return hashOf(logicProjection{
		BaseTable:     m.BaseTable,
		Columns:       columnLogicList(m.Columns),
		Filters:       m.Filters,
		CTERefs:       m.CTERefs,
		GroupBy:       m.GroupBy,
		Having:        m.Having,
		Relationships: m.Relationships,
	})
}

// SchemaHash covers the output column shape: the name and data_type
// of each declared column, in order. A rename, a
// reorder, or a data_type edit all move this hash; an expression edit
// alone does not.
func SchemaHash(m *core.Model) string {
	return hashOf(schemaProjection{Columns: columnSchemaList(m.Columns)})
}

// MetadataHash covers only descriptive fields with no bearing on
// generated SQL: description, owner, tags, domain, refresh_frequency,
// layer, and kind.
func MetadataHash(m *core.Model) string {
	return hashOf(metadataProjection{
		Description:      m.Description,
		Owner:            m.Owner,
		Tags:             m.Tags,
		Domain:           m.Domain,
		RefreshFrequency: m.RefreshFrequency,
		Layer:            m.Layer,
		Kind:             m.Kind,
	})
}

type logicProjection struct {
	BaseTable     string
	Columns       []columnLogic
	Filters       []core.WhereClause
	CTERefs       []string
	GroupBy       []string
	Having        []string
	Relationships []core.ForeignKey
}

type columnLogic struct {
	Name           string
	ReferenceTable string
	Expression     string
}

func columnLogicList(cols []core.ColumnSpec) []columnLogic {
	out := make([]columnLogic, len(cols))
	for i, c := range cols {
		out[i] = columnLogic{Name: c.Name, ReferenceTable: c.ReferenceTable, Expression: c.Expression}
	}
	return out
}

type schemaProjection struct {
	Columns []columnSchema
}

type columnSchema struct {
	Name     string
	DataType string
}

func columnSchemaList(cols []core.ColumnSpec) []columnSchema {
	out := make([]columnSchema, len(cols))
	for i, c := range cols {
		out[i] = columnSchema{Name: c.Name, DataType: c.DataType}
	}
	return out
}

type metadataProjection struct {
	Description      string
	Owner            string
	Tags             []string
	Domain           string
	RefreshFrequency core.RefreshFrequency
	Layer            core.Layer
	Kind             core.Kind
}

// hashOf canonically serializes v and reduces it to a fixed 64-bit
// FNV-1a digest, rendered as 16 lowercase hex characters. FNV-1a is
// non-cryptographic by design: these hashes gate "did anything I
// generate SQL from change", not a security boundary.
func hashOf(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("fingerprint: unmarshalable projection: %v", err))
	}
	h := fnv.New64a()
	h.Write(b)
	return fmt.Sprintf("%016x", h.Sum64())
}
