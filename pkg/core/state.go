package core

// ColumnState is the column-level detail recorded in a snapshot, per
// §6's "columns (list of {name, description, nullable, type})".
type ColumnState struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Nullable    bool   `yaml:"nullable"`
	Description string `yaml:"description"`
}

// ModelSnapshot is one model's entry in a persisted environment
// snapshot (§4.9). Field names match §6's fixed canonical layout.
type ModelSnapshot struct {
	Name         string        `yaml:"name"`
	Layer        Layer         `yaml:"layer"`
	Kind         Kind          `yaml:"kind"`
	Dependencies []string      `yaml:"dependencies"`
	Columns      []ColumnState `yaml:"columns"`
	LogicHash    string        `yaml:"logic_hash"`
	SchemaHash   string        `yaml:"schema_hash"`
	MetadataHash string        `yaml:"metadata_hash"`
}

// Snapshot is the full persisted state for one environment: a mapping
// from model name to ModelSnapshot, plus the environment name it was
// taken for (denormalized for readability of the on-disk file).
type Snapshot struct {
	Environment string                   `yaml:"environment"`
	Models      map[string]ModelSnapshot `yaml:"models"`
}

// ChangeKind classifies one entry in a Plan.
type ChangeKind string

const (
	ChangeAdd        ChangeKind = "Add"
	ChangeDropRemove ChangeKind = "DropRemove"
	ChangeReplace    ChangeKind = "Replace"
	ChangeAlterMeta  ChangeKind = "AlterMeta"
)

// Change is one diff entry between current IR and a persisted
// snapshot.
type Change struct {
	Model   string
	Kind    ChangeKind
	Details string // human-readable summary, e.g. "Schema: +col1,-col2"
}

// Plan is an ordered list of Changes for one environment, already
// sequenced per §4.9's cascade ordering (topo order for Add/Replace,
// reverse-topo for DropRemove).
type Plan struct {
	Environment string
	Changes     []Change
}

// IsEmpty reports whether the plan contains no changes (P5's
// plan(S') = ∅ round-trip property).
func (p *Plan) IsEmpty() bool {
	return len(p.Changes) == 0
}

// ApplyMode selects how Planner.Apply persists a computed Plan.
type ApplyMode string

const (
	ModeDryRun ApplyMode = "dry-run"
	ModeAuto   ApplyMode = "auto"
	ModeConfirm ApplyMode = "confirm"
)
