// Package core holds the typed in-memory representation of a compiled
// model corpus: the Model IR, its child value types, and the
// cross-cutting types (severity, diagnostics, snapshots) that the
// pipeline stages pass between each other.
package core

// Layer is the medallion architecture tier a model belongs to.
type Layer string

const (
	LayerBronze Layer = "bronze"
	LayerSilver Layer = "silver"
	LayerGold   Layer = "gold"
	LayerCTE    Layer = "cte"
)

// Kind is the SQL artifact shape a model compiles to.
type Kind string

const (
	KindTable Kind = "TABLE"
	KindView  Kind = "VIEW"
	KindCTE   Kind = "CTE"
)

// RefreshFrequency is a descriptive metadata field; it does not affect
// codegen but participates in the metadata fingerprint projection.
type RefreshFrequency string

const (
	RefreshDaily   RefreshFrequency = "daily"
	RefreshHourly  RefreshFrequency = "hourly"
	RefreshWeekly  RefreshFrequency = "weekly"
	RefreshMonthly RefreshFrequency = "monthly"
)

// JoinType is the SQL join keyword a ForeignKey's relationship emits.
type JoinType string

const (
	JoinInner     JoinType = "INNER"
	JoinLeft      JoinType = "LEFT"
	JoinRight     JoinType = "RIGHT"
	JoinFullOuter JoinType = "FULL OUTER"
)

// RelationshipType describes cardinality between a model and a joined
// table; carried for documentation/lineage, not enforced at codegen.
type RelationshipType string

const (
	RelOneToOne   RelationshipType = "one-to-one"
	RelOneToMany  RelationshipType = "one-to-many"
	RelManyToOne  RelationshipType = "many-to-one"
	RelManyToMany RelationshipType = "many-to-many"
)

// AuditType names one of the four recognized data-quality check
// variants. Audit emission dispatches on this tag rather than on a
// runtime method lookup.
type AuditType string

const (
	AuditNotNull           AuditType = "NOT_NULL"
	AuditPositiveValues    AuditType = "POSITIVE_VALUES"
	AuditUniqueCombination AuditType = "UNIQUE_COMBINATION"
	AuditAcceptedValues    AuditType = "ACCEPTED_VALUES"
)

// Model is the central entity: a single validated or in-flight model
// definition. Construction via the loader guarantees structural
// validity (well-formed enum variants, non-empty required fields);
// semantic validity across the corpus is the Validator's job.
//
// Collection fields preserve authored order except where noted.
// DependsOn is an ordered set: first occurrence wins on merge.
type Model struct {
	Name             string
	Description      string
	Layer            Layer
	Kind             Kind
	Owner            string
	Tags             []string // dedup-preserving, authored order
	Domain           string
	RefreshFrequency RefreshFrequency

	BaseTable string // optional; primary source, empty if absent

	DependsOn []string // ordered set, first occurrence wins

	Columns  []ColumnSpec
	Filters  []WhereClause
	CTERefs  []string // ordered set; each member must have Kind == KindCTE
	GroupBy  []string
	Having   []string
	Audits   []Audit
	Grain    []string

	Relationships []ForeignKey
	Optimization  *Optimization // nil means absent; required absent when Kind == KindCTE

	// SourceFiles records the files that contributed to this Model
	// after partial-file merge, in the order they were merged.
	// Diagnostic tooling only; not part of any fingerprint projection.
	SourceFiles []string
}

// ColumnSpec is one output column projection.
type ColumnSpec struct {
	Name           string
	ReferenceTable string // must be in DependsOn or equal BaseTable
	Expression     string // empty => identity mapping of same-named source column
	Description    string
	DataType       string
}

// WhereClause is one raw SQL predicate, qualified by the table it is
// authored against.
type WhereClause struct {
	ReferenceTable string
	Condition      string
}

// Audit is a tagged-variant data-quality check declaration.
// Columns is always populated; Values is only meaningful when Type is
// AuditAcceptedValues, mapping each checked column to its allowed
// literal set (a single-column shorthand maps that one column).
type Audit struct {
	Type    AuditType
	Columns []string
	Values  map[string][]string
}

// ForeignKey describes one join relationship.
type ForeignKey struct {
	LocalColumn      string
	ReferencesTable  string
	ReferencesColumn string
	RelationshipType RelationshipType
	JoinType         JoinType
}

// Optimization carries physical-layout hints for TABLE models.
// Must be nil for CTE-kind models (invariant I8).
type Optimization struct {
	PartitionedBy []string
	ClusteredBy   []string
	Indexes       []IndexSpec
}

// IndexSpec is one secondary index declaration.
type IndexSpec struct {
	Columns []string
	Type    string
}

// OutputColumnNames returns the Name of every ColumnSpec, in authored
// order. This is the set invariants I5-I7 check grain/audit/group-by
// references against.
func (m *Model) OutputColumnNames() []string {
	names := make([]string, len(m.Columns))
	for i, c := range m.Columns {
		names[i] = c.Name
	}
	return names
}

// IsExternalTable reports whether name looks like a qualified
// reference to a table outside the corpus (schema-prefixed, e.g.
// "raw.customers", "source_systems.forecast_cycles"), per I2's
// external-reference carve-out.
func IsExternalTable(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return true
		}
	}
	return false
}
