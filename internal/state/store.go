// Package state implements the per-environment snapshot store and the
// Planner that diffs the current model corpus against it (§4.9):
// init/show/plan/apply, Add/DropRemove/Replace/AlterMeta change
// classification, and cascade-ordered plans.
package state

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// Store persists Snapshot documents under a base directory, one file
// per environment named "<env>.state".
type Store struct {
	baseDir string
}

// NewStore returns a Store rooted at baseDir. baseDir is created on
// first write if absent.
func NewStore(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) path(env string) string {
	return filepath.Join(s.baseDir, env+".state")
}

// Load reads the snapshot for env. A missing file is not an error: it
// reports ok=false so callers can distinguish "no snapshot yet" from
// a read failure, per §4.9's init semantics ("succeeds only if no
// snapshot exists").
func (s *Store) Load(env string) (snap core.Snapshot, ok bool, err error) {
	data, err := os.ReadFile(s.path(env))
	if os.IsNotExist(err) {
		return core.Snapshot{}, false, nil
	}
	if err != nil {
		return core.Snapshot{}, false, &core.IOError{Path: s.path(env), Message: err.Error()}
	}
	if err := yaml.Unmarshal(data, &snap); err != nil {
		// A malformed snapshot must fail fatally rather than be
		// silently treated as absent (§4.9 failure semantics).
		return core.Snapshot{}, false, &core.StateError{Environment: env, Message: fmt.Sprintf("malformed snapshot: %v", err)}
	}
	return snap, true, nil
}

// Save writes snap for env atomically: it is written to a sibling
// temp file first, then renamed into place, so a crash mid-write
// never leaves the on-disk snapshot truncated or half-written.
func (s *Store) Save(env string, snap core.Snapshot) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return &core.IOError{Path: s.baseDir, Message: err.Error()}
	}
	data, err := yaml.Marshal(snap)
	if err != nil {
		return &core.StateError{Environment: env, Message: fmt.Sprintf("encoding snapshot: %v", err)}
	}

	target := s.path(env)
	tmp, err := os.CreateTemp(s.baseDir, filepath.Base(target)+".tmp-*")
	if err != nil {
		return &core.IOError{Path: s.baseDir, Message: err.Error()}
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return &core.IOError{Path: tmpPath, Message: err.Error()}
	}
	if err := tmp.Close(); err != nil {
		return &core.IOError{Path: tmpPath, Message: err.Error()}
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return &core.IOError{Path: target, Message: err.Error()}
	}
	return nil
}
