package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileTableAddAssignsStableIDs(t *testing.T) {
	ft := NewFileTable()

	id1 := ft.Add("src/App.svelte")
	id2 := ft.Add("src/Button.svelte")
	id1Again := ft.Add("src/App.svelte")

	assert.Equal(t, id1, id1Again)
	assert.NotEqual(t, id1, id2)
}

func TestFileTablePathRoundTrips(t *testing.T) {
	ft := NewFileTable()
	id := ft.Add("src/App.svelte")

	assert.Equal(t, "src/App.svelte", ft.Path(id))
}

func TestFileTablePathUnknownIDReturnsEmpty(t *testing.T) {
	ft := NewFileTable()
	assert.Equal(t, "", ft.Path(99))
}
