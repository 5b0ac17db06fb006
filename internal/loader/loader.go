// Package loader discovers model definition files under a project
// root, parses and merges them into the frozen Model IR (§4.1/§4.2).
// It never rejects the whole corpus for one bad file: a malformed or
// unrecognised file is reported as a LoadError and skipped, while the
// rest of the corpus keeps loading.
package loader

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// Result is the Loader's output: every successfully parsed and merged
// model, plus the accumulated load diagnostics (LoadErrors for
// unreadable/malformed files, warnings for unknown in-section
// fields). Models is a slice, not a name-keyed map: I1 (name
// uniqueness across the corpus) is the Validator's invariant to
// enforce, not the Loader's to silently resolve by overwrite.
type Result struct {
	Models      []*core.Model
	Diagnostics core.Diagnostics
}

// Load discovers and parses every definition file under root,
// performs partial-file merge, and returns the resulting Model IR
// mapping. It returns an error (an IOError) only when root itself
// cannot be walked — per-file failures are reported as LoadError
// diagnostics so the rest of the corpus can still load; the caller decides whether accumulated diagnostics
// should halt the pipeline (§7's propagation policy).
func Load(root string, logger *slog.Logger) (Result, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	files, err := discoverFiles(root)
	if err != nil {
		return Result{}, &core.IOError{Path: root, Message: err.Error()}
	}

	groups := groupByStem(files)
	stems := make([]string, 0, len(groups))
	for stem := range groups {
		stems = append(stems, stem)
	}
	sort.Strings(stems)

	result := Result{}

	for _, stem := range stems {
		group := groups[stem]
		// Compare paths without their extension so a base file
		// ("orders.yaml" -> "orders") sorts before its ".partN" files
		// ("orders.part2"), which then overlay it in lexicographic order.
		sort.Slice(group, func(i, j int) bool {
			pi := strings.TrimSuffix(group[i].Path, filepath.Ext(group[i].Path))
			pj := strings.TrimSuffix(group[j].Path, filepath.Ext(group[j].Path))
			if pi != pj {
				return pi < pj
			}
			return group[i].Path < group[j].Path
		})

		var docs []rawDocument
		var sourceFiles []string
		failed := false

		for _, f := range group {
			data, err := os.ReadFile(f.Path)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnosticFor(&core.LoadError{
					File: f.Path, Message: err.Error(),
				}))
				failed = true
				break
			}

			doc, diags, err := decodeFile(f.Path, data)
			if err != nil {
				result.Diagnostics = append(result.Diagnostics, diagnosticFor(&core.LoadError{
					File: f.Path, Message: err.Error(),
				}))
				failed = true
				break
			}
			for i := range diags {
				diags[i].Model = doc.Model.Name
			}
			result.Diagnostics = append(result.Diagnostics, diags...)
			docs = append(docs, doc)
			sourceFiles = append(sourceFiles, f.Path)
		}

		if failed || len(docs) == 0 {
			continue
		}

		merged := mergeDocuments(docs)
		model := buildModel(merged, sourceFiles)
		if model.Name == "" {
			result.Diagnostics = append(result.Diagnostics, diagnosticFor(&core.LoadError{
				File: group[0].Path, Message: "model.name is required",
			}))
			continue
		}

		logger.Debug("loaded model", "name", model.Name, "files", sourceFiles)
		result.Models = append(result.Models, model)
	}

	return result, nil
}

// diagnosticFor converts one of the core error-taxonomy types into a
// load-time Diagnostic so the accumulated list can hold both kinds
// uniformly.
func diagnosticFor(err *core.LoadError) core.Diagnostic {
	return core.Diagnostic{
		Path:     err.File,
		Message:  err.Message,
		Severity: core.SeverityError,
	}
}
