package loader

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
	"gopkg.in/yaml.v3"
)

// decodeFile runs the two-pass strict decode (§4.2): the raw bytes
// are first unmarshalled into a generic map so unknown top-level
// sections can be rejected and unknown in-section fields can be
// collected as warnings, then unmarshalled again into the typed
// rawDocument for the actual data. This mirrors the teacher corpus's
// frontmatter decode idiom (map first, typed struct second) extended
// to per-section field checking.
func decodeFile(path string, data []byte) (rawDocument, core.Diagnostics, error) {
	var generic map[string]any
	if err := yaml.Unmarshal(data, &generic); err != nil {
		return rawDocument{}, nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if generic == nil {
		return rawDocument{}, nil, fmt.Errorf("document is empty or not a mapping")
	}

	var unknown []string
	for key := range generic {
		if !knownSections[key] {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		known := make([]string, 0, len(knownSections))
		for k := range knownSections {
			known = append(known, k)
		}
		sort.Strings(known)
		return rawDocument{}, nil, fmt.Errorf(
			"unknown top-level section(s) %s (recognised: %s)",
			strings.Join(unknown, ", "), strings.Join(known, ", "))
	}

	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rawDocument{}, nil, fmt.Errorf("structurally malformed: %w", err)
	}

	var diags core.Diagnostics
	for section, fields := range knownFields {
		raw, ok := generic[section]
		if !ok {
			continue
		}
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		var extra []string
		for key := range m {
			if !fields[key] {
				extra = append(extra, key)
			}
		}
		sort.Strings(extra)
		for _, key := range extra {
			diags = append(diags, core.Diagnostic{
				Path:     section + "." + key,
				Message:  fmt.Sprintf("unknown field %q in section %q", key, section),
				Severity: core.SeverityWarning,
			})
		}
	}

	return doc, diags, nil
}
