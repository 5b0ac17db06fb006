// Package dialect defines the SQL dialect capability set (§4.6): how
// a concrete dialect quotes identifiers, what DDL-prelude shape it
// wants for CREATE TABLE/VIEW, and which placeholder macros it
// honors. Adding a new dialect is adding a new *Dialect value; it
// never requires a change to internal/sqlgen.
package dialect

import (
	"strings"
	"text/template"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// DDLData is the template data passed to a Dialect's DDL templates.
// CTE and Select arrive pre-rendered from internal/sqlgen; the
// template's only job is to wrap them in the dialect's preferred
// CREATE statement shape.
type DDLData struct {
	Schema        string
	Table         string
	CTE           string // rendered WITH clause, or "" if the model has no cte_refs
	Select        string // rendered SELECT body
	PartitionedBy []string
	ClusteredBy   []string
}

// Dialect is a concrete SQL dialect's capability set.
type Dialect struct {
	Config core.DialectConfig

	createTableTmpl *template.Template
	createViewTmpl  *template.Template
}

// QuoteIdent quotes name if it needs quoting (contains a space,
// hyphen, or starts with a digit or underscore); otherwise returns it
// unchanged. Mirrors the teacher corpus's identifier-normalization
// idiom (pkg/core/dialect.go's IdentifierConfig) trimmed to the one
// behavior the Generator actually needs.
func (d *Dialect) QuoteIdent(name string) string {
	if !needsQuoting(name) {
		return name
	}
	escaped := name
	if d.Config.Identifiers.Escape != "" {
		quoteChar := d.Config.Identifiers.Quote
		escaped = strings.ReplaceAll(name, quoteChar, d.Config.Identifiers.Escape)
	}
	return d.Config.Identifiers.Quote + escaped + d.Config.Identifiers.QuoteEnd
}

// templateFuncs is shared by every dialect's DDL templates so a
// PARTITIONED BY (a, b) style clause can be rendered from a
// []string without each dialect re-implementing joining.
var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

func needsQuoting(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if first >= '0' && first <= '9' {
		return true
	}
	if first == '_' {
		return true
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c == ' ' || c == '-' {
			return true
		}
	}
	return false
}

// SupportsMacro reports whether this dialect honors the named
// placeholder macro (e.g. "newpk", "Feature"). Per §9's resolved open
// question, a macro invoked by a model expression against a dialect
// that does not support it is a GenerationError.
func (d *Dialect) SupportsMacro(name string) bool {
	return d.Config.SupportedMacros[name]
}

// ExpandMacro returns the literal SQL text the named macro expands
// to, and whether this dialect declares it supported. Callers must
// check SupportsMacro (or this ok value) before substituting.
func (d *Dialect) ExpandMacro(name string) (string, bool) {
	if !d.Config.SupportedMacros[name] {
		return "", false
	}
	expansion, ok := d.Config.MacroExpansions[name]
	return expansion, ok
}

// RenderCreateTable renders the CREATE TABLE DDL for data using this
// dialect's table template.
func (d *Dialect) RenderCreateTable(data DDLData) (string, error) {
	return render(d.createTableTmpl, data)
}

// RenderCreateView renders the CREATE OR REPLACE VIEW DDL for data
// using this dialect's view template.
func (d *Dialect) RenderCreateView(data DDLData) (string, error) {
	return render(d.createViewTmpl, data)
}

func render(tmpl *template.Template, data DDLData) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", err
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}
