package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupExactMatch(t *testing.T) {
	r := NewRegistry()
	r.Add(GeneratedFile{GeneratedPath: "src/App.svelte.ts", OriginalPath: "src/App.svelte", OriginalFile: 1})

	f, ok := r.Lookup("src/App.svelte.ts")
	require.True(t, ok)
	assert.Equal(t, "src/App.svelte", f.OriginalPath)
}

func TestRegistryLookupSuffixFallback(t *testing.T) {
	r := NewRegistry()
	r.Add(GeneratedFile{GeneratedPath: "src/App.svelte.ts", OriginalPath: "src/App.svelte", OriginalFile: 1})

	f, ok := r.Lookup("/tmp/staging-1/src/App.svelte.ts")
	require.True(t, ok)
	assert.Equal(t, "src/App.svelte", f.OriginalPath)
}

func TestRegistryLookupAmbiguousSuffixFails(t *testing.T) {
	r := NewRegistry()
	r.Add(GeneratedFile{GeneratedPath: "src/App.svelte.ts", OriginalPath: "src/App.svelte", OriginalFile: 1})
	r.Add(GeneratedFile{GeneratedPath: "lib/src/App.svelte.ts", OriginalPath: "lib/src/App.svelte", OriginalFile: 2})

	_, ok := r.Lookup("/tmp/staging-1/lib/src/App.svelte.ts")
	assert.False(t, ok)
}

func TestRegistryLookupMiss(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Lookup("nothing.ts")
	assert.False(t, ok)
}

func TestRegistryLookupBackslashNormalized(t *testing.T) {
	r := NewRegistry()
	r.Add(GeneratedFile{GeneratedPath: "src/App.svelte.ts", OriginalPath: "src/App.svelte", OriginalFile: 1})

	f, ok := r.Lookup(`C:\staging\src\App.svelte.ts`)
	require.True(t, ok)
	assert.Equal(t, "src/App.svelte", f.OriginalPath)
}
