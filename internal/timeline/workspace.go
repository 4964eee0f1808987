package timeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Workspace is a per-render scratch directory owned by the caller.
type Workspace struct {
	dir string
}

// NewWorkspace creates a fresh directory under parent (os.TempDir when
// empty).
func NewWorkspace(parent string) (*Workspace, error) {
	if parent != "" {
		if err := os.MkdirAll(parent, 0o755); err != nil {
			return nil, fmt.Errorf("create work dir: %w", err)
		}
	}
	dir, err := os.MkdirTemp(parent, "lecture-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{dir: dir}, nil
}

// Dir is the workspace root.
func (w *Workspace) Dir() string { return w.dir }

// Path joins name onto the workspace root.
func (w *Workspace) Path(name string) string { return filepath.Join(w.dir, name) }

// Close removes the workspace and everything in it. It is safe to call more
// than once.
func (w *Workspace) Close() error {
	if w == nil || w.dir == "" {
		return nil
	}
	err := os.RemoveAll(w.dir)
	w.dir = ""
	return err
}
