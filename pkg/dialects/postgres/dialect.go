// Package postgres provides the PostgreSQL dialect (§4.6). It is pure
// data plus template text — no database driver dependency, matching
// the teacher corpus's separation of dialect metadata from execution.
package postgres

import (
	"github.com/shubham184/fabric-data-transformation/pkg/core"
	"github.com/shubham184/fabric-data-transformation/pkg/dialect"
)

const createTableTemplate = `CREATE TABLE {{ .Schema }}.{{ .Table }} AS
{{- if .CTE }}
WITH
{{ .CTE }}
{{- end }}
{{ .Select }};`

const createViewTemplate = `CREATE OR REPLACE VIEW {{ .Schema }}.{{ .Table }} AS
{{- if .CTE }}
WITH
{{ .CTE }}
{{- end }}
{{ .Select }};`

func init() {
	d, err := New()
	if err != nil {
		panic(err)
	}
	dialect.Register(d)
}

// New builds the PostgreSQL Dialect. Postgres has no native
// CLUSTERED BY/PARTITIONED BY DDL clause reachable from this
// generator's scope, so DDLData.PartitionedBy/ClusteredBy are ignored
// by these templates — per §9's resolved open question, neither
// placeholder macro (@newpk, @Feature) is honored on this dialect.
func New() (*dialect.Dialect, error) {
	return dialect.New("postgres").
		DefaultSchema("public").
		Identifiers(core.IdentifierConfig{
			Quote:    `"`,
			QuoteEnd: `"`,
			Escape:   `""`,
		}).
		Macro("newpk", false, "").
		Macro("Feature", false, "").
		CreateTableTemplate(createTableTemplate).
		CreateViewTemplate(createViewTemplate).
		Build()
}
