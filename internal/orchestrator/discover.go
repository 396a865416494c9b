package orchestrator

import (
	"os"
	"path/filepath"
	"strings"
)

// componentExtensions are the file suffixes discovery considers: whole
// components plus rune-module files. A route-component match (+page,
// +layout, +error, and their server-file counterparts) is detected by
// basename pattern.
var componentExtensions = []string{".svelte", ".svelte.ts", ".svelte.js"}

// IsComponentPath reports whether path has one of the checked suffixes.
func IsComponentPath(path string) bool {
	for _, ext := range componentExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsModulePath reports whether path is a rune-module file rather than a
// whole component.
func IsModulePath(path string) bool {
	return strings.HasSuffix(path, ".svelte.ts") || strings.HasSuffix(path, ".svelte.js")
}

// DiscoveredFile is one component file found by Discover.
type DiscoveredFile struct {
	Path string
	// IsRoute marks a SvelteKit route file (+page.svelte and friends),
	// which transform.Transform gives a framework-supplied $props() type
	// instead of inferring one from the component's own script.
	IsRoute bool
}

// Discover walks workspaceDir for component files, skipping anything
// matching an ignore glob (matched against both the basename and the
// path relative to workspaceDir) or sitting under node_modules or
// .svelte-kit.
func Discover(workspaceDir string, ignore []string) ([]DiscoveredFile, error) {
	var files []DiscoveredFile

	err := filepath.WalkDir(workspaceDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || d.Name() == ".svelte-kit" {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsComponentPath(path) {
			return nil
		}

		rel, relErr := filepath.Rel(workspaceDir, path)
		if relErr != nil {
			rel = path
		}
		if matchesAny(ignore, rel) || matchesAny(ignore, filepath.Base(path)) {
			return nil
		}

		files = append(files, DiscoveredFile{Path: path, IsRoute: isRouteComponent(path)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func matchesAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// isRouteComponent mirrors the pattern transform.Options.Filename derives its
// $props() default from: SvelteKit's +page/+layout/+error family.
func isRouteComponent(path string) bool {
	base := filepath.Base(path)
	for _, prefix := range []string{"+page", "+layout", "+error"} {
		if strings.HasPrefix(base, prefix) {
			return true
		}
	}
	return false
}
