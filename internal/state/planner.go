package state

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shubham184/fabric-data-transformation/internal/dag"
	"github.com/shubham184/fabric-data-transformation/internal/fingerprint"
	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// Planner computes and applies Plans for one Store.
type Planner struct {
	store *Store
}

// NewPlanner returns a Planner persisting through store.
func NewPlanner(store *Store) *Planner {
	return &Planner{store: store}
}

// Init snapshots the current corpus for env. It fails if a snapshot
// already exists, per §4.9 ("succeeds only if no snapshot exists") —
// use Apply to update an existing one.
func (p *Planner) Init(env string, models []*core.Model) error {
	_, ok, err := p.store.Load(env)
	if err != nil {
		return err
	}
	if ok {
		return &core.StateError{Environment: env, Message: "snapshot already exists; use plan/apply to update it"}
	}
	return p.store.Save(env, snapshotFromModels(env, models))
}

// Show returns the persisted snapshot for env, or ok=false if none
// exists yet.
func (p *Planner) Show(env string) (core.Snapshot, bool, error) {
	return p.store.Load(env)
}

// Plan diffs the current corpus against the persisted snapshot for
// env and returns an ordered Plan. A missing snapshot is treated as
// an empty prior state, so every model classifies as Add.
func (p *Planner) Plan(env string, models []*core.Model) (core.Plan, error) {
	prev, _, err := p.store.Load(env)
	if err != nil {
		return core.Plan{}, err
	}
	current := snapshotFromModels(env, models)

	changes := diffSnapshots(prev, current)
	changes = cascadeDownstreamReplaces(current, changes)
	ordered, err := orderChanges(changes, models, prev)
	if err != nil {
		return core.Plan{}, err
	}
	return core.Plan{Environment: env, Changes: ordered}, nil
}

// Apply persists the outcome of plan for env according to mode.
// dry-run computes nothing new (the plan was already computed by the
// caller) and writes nothing; auto and confirm both write the current
// corpus's snapshot unconditionally — confirm's external-ack step
// happens at the CLI layer before Apply is ever called.
func (p *Planner) Apply(env string, models []*core.Model, mode core.ApplyMode) error {
	switch mode {
	case core.ModeDryRun:
		return nil
	case core.ModeAuto, core.ModeConfirm:
		return p.store.Save(env, snapshotFromModels(env, models))
	default:
		return &core.StateError{Environment: env, Message: fmt.Sprintf("unknown apply mode %q", mode)}
	}
}

func snapshotFromModels(env string, models []*core.Model) core.Snapshot {
	snap := core.Snapshot{Environment: env, Models: make(map[string]core.ModelSnapshot, len(models))}
	for _, m := range models {
		snap.Models[m.Name] = core.ModelSnapshot{
			Name:         m.Name,
			Layer:        m.Layer,
			Kind:         m.Kind,
			Dependencies: append([]string(nil), m.DependsOn...),
			Columns:      columnStates(m),
			LogicHash:    fingerprint.LogicHash(m),
			SchemaHash:   fingerprint.SchemaHash(m),
			MetadataHash: fingerprint.MetadataHash(m),
		}
	}
	return snap
}

func columnStates(m *core.Model) []core.ColumnState {
	out := make([]core.ColumnState, len(m.Columns))
	for i, c := range m.Columns {
		out[i] = core.ColumnState{
			Name:        c.Name,
			Type:        c.DataType,
			Description: c.Description,
		}
	}
	return out
}

// diffSnapshots classifies every model present in either snapshot
// per §4.9: Add, DropRemove, Replace (logic or schema differs), or
// AlterMeta (only metadata differs).
func diffSnapshots(prev, current core.Snapshot) []core.Change {
	var changes []core.Change
	names := make(map[string]bool)
	for name := range prev.Models {
		names[name] = true
	}
	for name := range current.Models {
		names[name] = true
	}

	for _, name := range sortedNames(names) {
		before, hadBefore := prev.Models[name]
		after, hasAfter := current.Models[name]

		switch {
		case !hadBefore && hasAfter:
			changes = append(changes, core.Change{Model: name, Kind: core.ChangeAdd, Details: "new model"})
		case hadBefore && !hasAfter:
			changes = append(changes, core.Change{Model: name, Kind: core.ChangeDropRemove, Details: "model removed"})
		case before.LogicHash != after.LogicHash || before.SchemaHash != after.SchemaHash:
			changes = append(changes, core.Change{Model: name, Kind: core.ChangeReplace, Details: schemaDiffSummary(before, after)})
		case before.MetadataHash != after.MetadataHash:
			changes = append(changes, core.Change{Model: name, Kind: core.ChangeAlterMeta, Details: "metadata changed"})
		}
	}
	return changes
}

// cascadeDownstreamReplaces adds a Replace entry for every model that
// directly depends on a model with its own Add or Replace change, so
// a dependent whose own hash is unaffected by an upstream logic edit
// (its projection doesn't embed the upstream's hash) still appears in
// the plan, per P6's monotone-cascade invariant and S5's worked
// example. Grounded on the original PlanGenerator's
// _find_indirectly_affected, which likewise walks only the direct
// downstream of each directly modified model rather than the full
// transitive closure. DropRemove never cascades: a removed model's
// dependents are a validator concern, not a plan concern.
func cascadeDownstreamReplaces(current core.Snapshot, changes []core.Change) []core.Change {
	directlyModified := make(map[string]bool, len(changes))
	for _, c := range changes {
		if c.Kind == core.ChangeAdd || c.Kind == core.ChangeReplace {
			directlyModified[c.Model] = true
		}
	}
	if len(directlyModified) == 0 {
		return changes
	}

	alreadyChanged := make(map[string]bool, len(changes))
	for _, c := range changes {
		alreadyChanged[c.Model] = true
	}

	affected := map[string]bool{}
	for name, snap := range current.Models {
		if alreadyChanged[name] {
			continue
		}
		for _, dep := range snap.Dependencies {
			if directlyModified[dep] {
				affected[name] = true
				break
			}
		}
	}

	for _, name := range sortedNames(affected) {
		changes = append(changes, core.Change{Model: name, Kind: core.ChangeReplace, Details: "downstream of a changed dependency"})
	}
	return changes
}

// schemaDiffSummary renders the "+col1,-col2,~col3:TYPE_A->TYPE_B"
// style detail line the plan formatter surfaces for a Replace.
func schemaDiffSummary(before, after core.ModelSnapshot) string {
	beforeCols := make(map[string]core.ColumnState, len(before.Columns))
	for _, c := range before.Columns {
		beforeCols[c.Name] = c
	}
	afterCols := make(map[string]core.ColumnState, len(after.Columns))
	for _, c := range after.Columns {
		afterCols[c.Name] = c
	}

	var added, removed, retyped []string
	for name, c := range afterCols {
		if prior, ok := beforeCols[name]; !ok {
			added = append(added, name)
		} else if prior.Type != c.Type {
			retyped = append(retyped, fmt.Sprintf("%s:%s->%s", name, prior.Type, c.Type))
		}
	}
	for name := range beforeCols {
		if _, ok := afterCols[name]; !ok {
			removed = append(removed, name)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Strings(retyped)

	var parts []string
	for _, c := range added {
		parts = append(parts, "+"+c)
	}
	for _, c := range removed {
		parts = append(parts, "-"+c)
	}
	for _, c := range retyped {
		parts = append(parts, "~"+c)
	}
	if len(parts) == 0 {
		return "Logic changed"
	}
	return "Schema: " + strings.Join(parts, ",")
}

// orderChanges sequences changes per §4.9: DropRemoves first in
// reverse topo order (a dependent must drop before what it depends
// on), then Adds/Replaces in topo order (a dependency must exist
// before what references it), then AlterMeta in topo order with no
// cascade requirement. This groups by kind rather than interleaving,
// since a single combined ordering has no defined tie-break between
// kinds and grouping keeps the drop-before-create direction
// unambiguous for an applier executing the plan literally.
func orderChanges(changes []core.Change, models []*core.Model, prev core.Snapshot) ([]core.Change, error) {
	topoIndex, err := buildTopoIndex(models, prev)
	if err != nil {
		return nil, err
	}

	var drops, addsReplaces, alters []core.Change
	for _, c := range changes {
		switch c.Kind {
		case core.ChangeDropRemove:
			drops = append(drops, c)
		case core.ChangeAdd, core.ChangeReplace:
			addsReplaces = append(addsReplaces, c)
		case core.ChangeAlterMeta:
			alters = append(alters, c)
		}
	}

	sort.SliceStable(drops, func(i, j int) bool { return topoIndex[drops[i].Model] > topoIndex[drops[j].Model] })
	sort.SliceStable(addsReplaces, func(i, j int) bool { return topoIndex[addsReplaces[i].Model] < topoIndex[addsReplaces[j].Model] })
	sort.SliceStable(alters, func(i, j int) bool { return topoIndex[alters[i].Model] < topoIndex[alters[j].Model] })

	ordered := make([]core.Change, 0, len(changes))
	ordered = append(ordered, drops...)
	ordered = append(ordered, addsReplaces...)
	ordered = append(ordered, alters...)
	return ordered, nil
}

// buildTopoIndex builds a dependency graph over the union of current
// models and models known only from the prior snapshot (already
// dropped from the corpus but still needing a position to order their
// DropRemove against), then returns each model's topological index.
func buildTopoIndex(models []*core.Model, prev core.Snapshot) (map[string]int, error) {
	g := dag.NewGraph()
	deps := make(map[string][]string)

	for _, m := range models {
		g.AddNode(m.Name, nil)
		deps[m.Name] = m.DependsOn
	}
	for name, snap := range prev.Models {
		if _, exists := deps[name]; !exists {
			g.AddNode(name, nil)
			deps[name] = snap.Dependencies
		}
	}
	for name, ds := range deps {
		for _, dep := range ds {
			if _, ok := deps[dep]; !ok {
				continue // external table, not a graph node
			}
			if dep == name {
				continue
			}
			_ = g.AddEdge(dep, name)
		}
	}

	sorted, err := g.TopologicalSort()
	if err != nil {
		members, _ := g.FindCycle()
		return nil, &core.CycleError{Members: members}
	}
	index := make(map[string]int, len(sorted))
	for i, n := range sorted {
		index[n.ID] = i
	}
	return index, nil
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
