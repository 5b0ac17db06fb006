package loader

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// rawModel mirrors the YAML `model` section.
type rawModel struct {
	Name             string   `yaml:"name"`
	Description      string   `yaml:"description"`
	Layer            string   `yaml:"layer"`
	Kind             string   `yaml:"kind"`
	Owner            string   `yaml:"owner"`
	Tags             []string `yaml:"tags"`
	Domain           string   `yaml:"domain"`
	RefreshFrequency string   `yaml:"refresh_frequency"`
}

// rawSource mirrors the YAML `source` section.
type rawSource struct {
	BaseTable       string   `yaml:"base_table"`
	DependsOnTables []string `yaml:"depends_on_tables"`
}

// rawColumn is one entry of `transformations.columns`. Operator only
// matters on a `.partN` merge file; the base file's columns are always
// append order.
type rawColumn struct {
	Name           string `yaml:"name"`
	ReferenceTable string `yaml:"reference_table"`
	Expression     string `yaml:"expression"`
	Description    string `yaml:"description"`
	DataType       string `yaml:"data_type"`
	Operator       string `yaml:"operator"`
}

func (c rawColumn) mergeKey() string { return c.Name }
func (c rawColumn) mergeOp() string  { return c.Operator }

type rawTransformations struct {
	Columns []rawColumn `yaml:"columns"`
}

// rawFilter is one entry of `filters.where_conditions`.
type rawFilter struct {
	ReferenceTable string `yaml:"reference_table"`
	Condition      string `yaml:"condition"`
	Operator       string `yaml:"operator"`
}

func (f rawFilter) mergeKey() string { return f.ReferenceTable + "|" + f.Condition }
func (f rawFilter) mergeOp() string  { return f.Operator }

type rawFilters struct {
	WhereConditions []rawFilter `yaml:"where_conditions"`
}

// rawCTEs accepts either a bare list (`ctes: [a, b]`) or the nested
// form (`ctes: {ctes: [a, b]}`), per §9's resolved open question.
type rawCTEs struct {
	Names []string
}

func (r *rawCTEs) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := value.Decode(&names); err != nil {
			return err
		}
		r.Names = names
		return nil
	case yaml.MappingNode:
		var nested struct {
			CTEs []string `yaml:"ctes"`
		}
		if err := value.Decode(&nested); err != nil {
			return err
		}
		r.Names = nested.CTEs
		return nil
	case 0:
		return nil
	default:
		return fmt.Errorf("ctes: expected a list or a mapping with a 'ctes' key")
	}
}

type rawAggregations struct {
	GroupBy []string `yaml:"group_by"`
	Having  []string `yaml:"having"`
}

// rawAuditRule is the canonical (non-shorthand) audit declaration.
type rawAuditRule struct {
	Type     string   `yaml:"type"`
	Columns  []string `yaml:"columns"`
	Values   []string `yaml:"values"`
	Operator string   `yaml:"operator"`
}

func (a rawAuditRule) mergeKey() string { return a.Type + "|" + fmt.Sprint(a.Columns) }
func (a rawAuditRule) mergeOp() string  { return a.Operator }

// rawAudits carries both the canonical `audits` list and the legacy
// shorthand keys §4.2 requires coercing: `not_null`, `positive_values`,
// `unique_combination` (bare column-name lists), and
// `accepted_values` (column → allowed-literal-list mapping).
type rawAudits struct {
	Audits            []rawAuditRule      `yaml:"audits"`
	NotNull           []string            `yaml:"not_null"`
	PositiveValues    []string            `yaml:"positive_values"`
	UniqueCombination []string            `yaml:"unique_combination"`
	AcceptedValues    map[string][]string `yaml:"accepted_values"`
}

// rawForeignKey is one entry of `relationships.foreign_keys`.
type rawForeignKey struct {
	LocalColumn      string `yaml:"local_column"`
	ReferencesTable  string `yaml:"references_table"`
	ReferencesColumn string `yaml:"references_column"`
	RelationshipType string `yaml:"relationship_type"`
	JoinType         string `yaml:"join_type"`
	Operator         string `yaml:"operator"`
}

func (fk rawForeignKey) mergeKey() string { return fk.LocalColumn + "|" + fk.ReferencesTable }
func (fk rawForeignKey) mergeOp() string  { return fk.Operator }

type rawRelationships struct {
	ForeignKeys []rawForeignKey `yaml:"foreign_keys"`
}

type rawIndex struct {
	Columns []string `yaml:"columns"`
	Type    string   `yaml:"type"`
}

type rawOptimization struct {
	PartitionedBy []string   `yaml:"partitioned_by"`
	ClusteredBy   []string   `yaml:"clustered_by"`
	Indexes       []rawIndex `yaml:"indexes"`
}

// rawDocument is one definition file's full decoded shape.
type rawDocument struct {
	Model           rawModel           `yaml:"model"`
	Source          rawSource          `yaml:"source"`
	Transformations rawTransformations `yaml:"transformations"`
	Filters         rawFilters         `yaml:"filters"`
	CTEs            rawCTEs            `yaml:"ctes"`
	Aggregations    rawAggregations    `yaml:"aggregations"`
	Audits          rawAudits          `yaml:"audits"`
	Grain           []string           `yaml:"grain"`
	Relationships   rawRelationships   `yaml:"relationships"`
	Optimization    rawOptimization    `yaml:"optimization"`
}
