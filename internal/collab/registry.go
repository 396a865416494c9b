// Package collab drives the two external collaborator processes a full
// check run depends on: a TypeScript checker run over the staged generated
// sources, and the framework's own compiler run over the originals. Neither
// collaborator's wire format is ours to define; this package only speaks it.
package collab

import (
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// GeneratedFile records where a single staged TypeScript file came from, so
// a type-checker diagnostic against the generated path can be walked back to
// the original component and byte offset.
type GeneratedFile struct {
	// GeneratedPath is the path the checker was handed, relative to the
	// staging directory it was pointed at.
	GeneratedPath string
	// OriginalPath is the component's path relative to the project root.
	OriginalPath string
	// OriginalFile is the FileID the original component's span arithmetic
	// is expressed in.
	OriginalFile position.FileID
	// GeneratedLines indexes the generated TypeScript text so a 1-indexed
	// line/column pair from the checker can be turned into a byte offset.
	GeneratedLines *position.LineIndex
	// SourceMap translates that generated byte offset back to the original.
	SourceMap *position.SourceMap
}

// Registry is the generated-path -> (original-path, source-map) lookup the
// type-checker collaborator's output is remapped through.
type Registry struct {
	files map[string]GeneratedFile
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{files: make(map[string]GeneratedFile)}
}

// Add records a staged file. generatedPath should match whatever path the
// checker is told about it under (the path relative to its project root).
func (r *Registry) Add(f GeneratedFile) {
	r.files[f.GeneratedPath] = f
}

// Lookup finds the staged file a checker-reported path refers to. Checkers
// commonly echo back an absolute or differently-rooted path than the one a
// caller staged the file under, so lookup falls back to a suffix match
// before giving up.
func (r *Registry) Lookup(reportedPath string) (GeneratedFile, bool) {
	reportedPath = strings.ReplaceAll(reportedPath, "\\", "/")
	if f, ok := r.files[reportedPath]; ok {
		return f, true
	}
	var match GeneratedFile
	found := 0
	for key, f := range r.files {
		if strings.HasSuffix(reportedPath, key) {
			match = f
			found++
		}
	}
	if found == 1 {
		return match, true
	}
	return GeneratedFile{}, false
}
