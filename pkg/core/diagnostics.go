package core

import (
	"fmt"
	"sort"
	"strings"
)

// Diagnostic is one accumulated load or validation finding: a model
// name, the field path within it that is offending
// (e.g. "columns[3].reference_table"), a human message, and a
// severity. Path may be empty for corpus-level or file-level findings.
type Diagnostic struct {
	Model      string
	Path       string
	Message    string
	Severity   Severity
	Suggestion string   // optional; SPEC_FULL §12 rich-diagnostic supplement
	Available  []string // optional; candidate names at the point of failure
}

func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(d.Severity.String())
	b.WriteString(": ")
	if d.Model != "" {
		b.WriteString(d.Model)
		if d.Path != "" {
			b.WriteString(".")
			b.WriteString(d.Path)
		}
		b.WriteString(": ")
	}
	b.WriteString(d.Message)
	if d.Suggestion != "" {
		b.WriteString(" (suggestion: ")
		b.WriteString(d.Suggestion)
		b.WriteString(")")
	}
	if len(d.Available) > 0 {
		b.WriteString(" (available: ")
		b.WriteString(strings.Join(d.Available, ", "))
		b.WriteString(")")
	}
	return b.String()
}

// Diagnostics is an accumulated, sortable collection of Diagnostic.
// Loader and Validator accumulate into this rather than returning on
// the first failure (§7 propagation policy).
type Diagnostics []Diagnostic

// HasErrors reports whether any diagnostic is error-severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Errors returns only the error-severity diagnostics.
func (ds Diagnostics) Errors() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (ds Diagnostics) Warnings() Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// Sorted returns a copy sorted by model name then field path, per
// §7's "deterministic diagnostic list" requirement.
func (ds Diagnostics) Sorted() Diagnostics {
	out := make(Diagnostics, len(ds))
	copy(out, ds)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Model != out[j].Model {
			return out[i].Model < out[j].Model
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Error implements the error interface so a Diagnostics slice can be
// returned/wrapped directly at stage boundaries.
func (ds Diagnostics) Error() string {
	sorted := ds.Sorted()
	lines := make([]string, len(sorted))
	for i, d := range sorted {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n")
}

// LoadError indicates a single definition file was unreadable or
// structurally malformed. The corpus load continues past it; other
// files still load.
type LoadError struct {
	File    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load %s: %s", e.File, e.Message)
}

// ValidationError indicates one invariant I1-I9 was violated.
type ValidationError struct {
	Model   string
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("validation %s.%s: %s", e.Model, e.Path, e.Message)
	}
	return fmt.Sprintf("validation %s: %s", e.Model, e.Message)
}

// CycleError indicates the dependency graph contains a cycle; Members
// names every node in the strongly-connected component, in
// deterministic (alphabetical-starting-point) order.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected: %s", strings.Join(e.Members, ", "))
}

// GenerationError indicates a failure during SQL assembly: an unknown
// dialect or model, a model with no base table, a placeholder macro
// the dialect does not support, or a DDL template that fails to render.
type GenerationError struct {
	Model   string
	Message string
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation %s: %s", e.Model, e.Message)
}

// StateError indicates a snapshot conflict, malformed snapshot file,
// or lock contention during Planner operations.
type StateError struct {
	Environment string
	Message     string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("state[%s]: %s", e.Environment, e.Message)
}

// IOError indicates a filesystem failure unrelated to the semantic
// content of a file (permissions, missing directory, disk full).
type IOError struct {
	Path    string
	Message string
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io %s: %s", e.Path, e.Message)
}
