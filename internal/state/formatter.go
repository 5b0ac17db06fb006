package state

import (
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// FormatPlan renders plan to w as three sections — New, Modified,
// Deleted — each a go-pretty table of model/detail, mirroring the
// original tool's SQLMesh-style grouped plan output (§12) without its
// hand-rolled box-drawing.
func FormatPlan(w io.Writer, plan core.Plan) {
	if plan.IsEmpty() {
		_, _ = w.Write([]byte("No changes. Snapshot is up to date.\n"))
		return
	}

	sections := []struct {
		title string
		kinds map[core.ChangeKind]bool
	}{
		{"New", map[core.ChangeKind]bool{core.ChangeAdd: true}},
		{"Modified", map[core.ChangeKind]bool{core.ChangeReplace: true, core.ChangeAlterMeta: true}},
		{"Deleted", map[core.ChangeKind]bool{core.ChangeDropRemove: true}},
	}

	for _, section := range sections {
		var rows []core.Change
		for _, c := range plan.Changes {
			if section.kinds[c.Kind] {
				rows = append(rows, c)
			}
		}
		if len(rows) == 0 {
			continue
		}

		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.SetTitle(section.title)
		t.AppendHeader(table.Row{"Model", "Change", "Detail"})
		for _, c := range rows {
			t.AppendRow(table.Row{c.Model, c.Kind, c.Details})
		}
		t.Render()
	}
}

// FormatSnapshot renders snap as a single go-pretty table, one row per
// model, for the show command's human-facing output.
func FormatSnapshot(w io.Writer, snap core.Snapshot) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.SetTitle("Snapshot: " + snap.Environment)
	t.AppendHeader(table.Row{"Model", "Layer", "Kind", "Dependencies", "Logic", "Schema", "Metadata"})

	for _, name := range sortedModelNames(snap) {
		m := snap.Models[name]
		t.AppendRow(table.Row{m.Name, m.Layer, m.Kind, len(m.Dependencies), m.LogicHash, m.SchemaHash, m.MetadataHash})
	}
	t.Render()
}

func sortedModelNames(snap core.Snapshot) []string {
	names := make([]string, 0, len(snap.Models))
	for name := range snap.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
