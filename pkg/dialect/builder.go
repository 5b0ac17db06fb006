package dialect

import (
	"fmt"
	"text/template"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// Builder assembles a Dialect via a fluent chain, mirroring the
// teacher corpus's dialect-construction idiom
// (NewDialect(...).Identifiers(...).Build()) trimmed to this spec's
// leaner capability set.
type Builder struct {
	cfg             core.DialectConfig
	createTableText string
	createViewText  string
	err             error
}

// New starts a Builder for a dialect named name.
func New(name string) *Builder {
	return &Builder{
		cfg: core.DialectConfig{
			Name:            name,
			SupportedMacros: map[string]bool{},
			MacroExpansions: map[string]string{},
		},
	}
}

// DefaultSchema sets the schema used when a model does not qualify
// its own name.
func (b *Builder) DefaultSchema(schema string) *Builder {
	b.cfg.DefaultSchema = schema
	return b
}

// Identifiers sets the identifier quoting configuration.
func (b *Builder) Identifiers(cfg core.IdentifierConfig) *Builder {
	b.cfg.Identifiers = cfg
	return b
}

// Macro declares whether this dialect honors the named placeholder
// macro (§9's per-dialect macro-support declaration). When supported,
// expansion is the literal SQL text the macro invocation renders to.
func (b *Builder) Macro(name string, supported bool, expansion string) *Builder {
	b.cfg.SupportedMacros[name] = supported
	if supported {
		b.cfg.MacroExpansions[name] = expansion
	}
	return b
}

// CreateTableTemplate sets the text/template source used to render
// CREATE TABLE DDL (§4.6's DDL-prelude template).
func (b *Builder) CreateTableTemplate(text string) *Builder {
	b.createTableText = text
	return b
}

// CreateViewTemplate sets the text/template source used to render
// CREATE OR REPLACE VIEW DDL.
func (b *Builder) CreateViewTemplate(text string) *Builder {
	b.createViewText = text
	return b
}

// Build parses the configured templates and returns the assembled
// Dialect, or an error if template parsing failed or a template was
// never set.
func (b *Builder) Build() (*Dialect, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.createTableText == "" || b.createViewText == "" {
		return nil, fmt.Errorf("dialect %q: both CreateTableTemplate and CreateViewTemplate are required", b.cfg.Name)
	}

	tableTmpl, err := template.New(b.cfg.Name + "-table").Funcs(templateFuncs).Parse(b.createTableText)
	if err != nil {
		return nil, fmt.Errorf("dialect %q: create table template: %w", b.cfg.Name, err)
	}
	viewTmpl, err := template.New(b.cfg.Name + "-view").Funcs(templateFuncs).Parse(b.createViewText)
	if err != nil {
		return nil, fmt.Errorf("dialect %q: create view template: %w", b.cfg.Name, err)
	}

	return &Dialect{
		Config:          b.cfg,
		createTableTmpl: tableTmpl,
		createViewTmpl:  viewTmpl,
	}, nil
}
