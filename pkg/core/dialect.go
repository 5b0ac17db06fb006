package core

// IdentifierConfig defines how a dialect quotes and escapes
// identifiers that need quoting (contain spaces, hyphens, or start
// with a digit/underscore).
type IdentifierConfig struct {
	Quote    string // opening quote character, e.g. `"` or "`"
	QuoteEnd string // closing quote character (usually same as Quote)
	Escape   string // how an embedded quote character is escaped
}

// DialectConfig is the pure-data capability set a SQL dialect
// declares: identifier quoting, DDL-prelude template selection,
// partition/cluster clause shape, and which placeholder macros it
// honors. This is deliberately data-only — no parsing or formatting
// behavior lives here, unlike a full SQL-dialect system; the
// Generator (internal/sqlgen) is the only consumer.
type DialectConfig struct {
	Name          string
	DefaultSchema string
	Identifiers   IdentifierConfig

	// SupportedMacros declares, per §9's resolved open question,
	// whether each recognized placeholder macro (@newpk, @Feature) is
	// honored by this dialect. A macro absent from this map, or
	// present with value false, causes a GenerationError if a model
	// expression invokes it.
	SupportedMacros map[string]bool

	// MacroExpansions holds the literal SQL text a supported macro
	// expands to (e.g. "newpk" -> "monotonically_increasing_id()" on
	// Spark). Only populated for macros whose SupportedMacros entry
	// is true.
	MacroExpansions map[string]string
}
