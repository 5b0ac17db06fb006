package dialect

import (
	"fmt"
	"sort"
)

// registry maps dialect name to Dialect, mirroring the teacher
// corpus's dialect.Register/dialect.Get name-keyed lookup so
// internal/config can select a dialect by its string flag value
// without internal/sqlgen importing pkg/dialects/* directly.
var registry = map[string]*Dialect{}

// Register adds d to the registry under d.Config.Name, panicking on a
// duplicate name (a programming error — every built-in dialect
// package registers itself exactly once from an init func).
func Register(d *Dialect) {
	if _, exists := registry[d.Config.Name]; exists {
		panic(fmt.Sprintf("dialect: %q already registered", d.Config.Name))
	}
	registry[d.Config.Name] = d
}

// Get looks up a registered dialect by name.
func Get(name string) (*Dialect, bool) {
	d, ok := registry[name]
	return d, ok
}

// Names returns the sorted list of registered dialect names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
