package loader

// knownSections is the fixed set of recognised top-level sections
// (§6): any other top-level key fails the file with a LoadError.
var knownSections = map[string]bool{
	"model":           true,
	"source":          true,
	"transformations": true,
	"filters":         true,
	"ctes":            true,
	"aggregations":    true,
	"audits":          true,
	"grain":           true,
	"relationships":   true,
	"optimization":    true,
}

// knownFields maps each section that has an object (not bare-list)
// shape to its recognised field names. A field present in the raw
// document but absent here produces a warning diagnostic, not a
// load failure (§6: "unknown fields within a section ⇒ warning").
// "ctes" and "grain" are intentionally absent: both accept a bare
// list with no field names to check.
var knownFields = map[string]map[string]bool{
	"model": {
		"name": true, "description": true, "layer": true, "kind": true,
		"owner": true, "tags": true, "domain": true, "refresh_frequency": true,
	},
	"source": {
		"base_table": true, "depends_on_tables": true,
	},
	"transformations": {
		"columns": true,
	},
	"filters": {
		"where_conditions": true,
	},
	"aggregations": {
		"group_by": true, "having": true,
	},
	"audits": {
		"audits": true, "not_null": true, "positive_values": true,
		"unique_combination": true, "accepted_values": true,
	},
	"relationships": {
		"foreign_keys": true,
	},
	"optimization": {
		"partitioned_by": true, "clustered_by": true, "indexes": true,
	},
}
