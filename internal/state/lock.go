package state

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/shubham184/fabric-data-transformation/pkg/core"
)

// Lock is an advisory, file-based mutual-exclusion marker over one
// environment's snapshot, held for the duration of Apply (§5:
// "concurrent invocations against the same snapshot must be prevented
// ... or fail fast with a descriptive error").
type Lock struct {
	path string
}

// AcquireLock creates "<env>.lock" under baseDir, failing fast if it
// already exists rather than blocking — a stuck lock from a crashed
// process is a deliberate operator decision to clear (rm the file),
// not something this package should wait out or steal.
func AcquireLock(baseDir, env string) (*Lock, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, &core.IOError{Path: baseDir, Message: err.Error()}
	}
	lockPath := filepath.Join(baseDir, env+".lock")
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, &core.StateError{Environment: env, Message: "snapshot is locked by another apply in progress (" + lockPath + ")"}
		}
		return nil, &core.IOError{Path: lockPath, Message: err.Error()}
	}
	defer f.Close()
	fmt.Fprintf(f, "token=%s pid=%d\n", uuid.New().String(), os.Getpid())
	return &Lock{path: lockPath}, nil
}

// Release removes the lock file. Safe to call once per successful
// AcquireLock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	return os.Remove(l.path)
}
