package orchestrator

import (
	"sync"

	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// FileTable assigns a stable position.FileID to each discovered path and
// answers the reverse lookup a formatter needs to turn a Span back into a
// file name. One FileTable is shared by every file-level pipeline task in
// a single run.
type FileTable struct {
	mu    sync.RWMutex
	paths []string
	ids   map[string]position.FileID
}

// NewFileTable returns an empty FileTable.
func NewFileTable() *FileTable {
	return &FileTable{ids: make(map[string]position.FileID)}
}

// Add assigns path a FileID, returning its existing one if already added.
func (t *FileTable) Add(path string) position.FileID {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id, ok := t.ids[path]; ok {
		return id
	}
	id := position.FileID(len(t.paths))
	t.paths = append(t.paths, path)
	t.ids[path] = id
	return id
}

// Path returns the path registered for id, or "" if none was.
func (t *FileTable) Path(id position.FileID) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(id) >= len(t.paths) {
		return ""
	}
	return t.paths[id]
}
