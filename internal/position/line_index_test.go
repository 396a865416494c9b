package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineIndexSingleLine(t *testing.T) {
	li := NewLineIndex([]byte("hello world"))
	assert.Equal(t, 1, li.LineCount())
	assert.Equal(t, LineCol{Line: 1, Col: 1}, li.ToLineCol(0))
	assert.Equal(t, LineCol{Line: 1, Col: 6}, li.ToLineCol(5))
}

func TestLineIndexMultiLine(t *testing.T) {
	content := []byte("abc\ndef\nghi")
	li := NewLineIndex(content)
	assert.Equal(t, 3, li.LineCount())

	assert.Equal(t, LineCol{Line: 1, Col: 1}, li.ToLineCol(0))
	assert.Equal(t, LineCol{Line: 1, Col: 4}, li.ToLineCol(3)) // the \n itself
	assert.Equal(t, LineCol{Line: 2, Col: 1}, li.ToLineCol(4))
	assert.Equal(t, LineCol{Line: 2, Col: 3}, li.ToLineCol(6))
	assert.Equal(t, LineCol{Line: 3, Col: 1}, li.ToLineCol(8))
	assert.Equal(t, LineCol{Line: 3, Col: 3}, li.ToLineCol(10))
}

func TestLineIndexClampsPastEnd(t *testing.T) {
	li := NewLineIndex([]byte("abc"))
	got := li.ToLineCol(1000)
	want := li.ToLineCol(3)
	assert.Equal(t, want, got)
}

func TestLineIndexEmptyContent(t *testing.T) {
	li := NewLineIndex(nil)
	assert.Equal(t, 1, li.LineCount())
	assert.Equal(t, LineCol{Line: 1, Col: 1}, li.ToLineCol(0))
}

func TestLineIndexLineStart(t *testing.T) {
	content := []byte("abc\ndef\nghi")
	li := NewLineIndex(content)
	assert.Equal(t, uint32(0), li.LineStart(1))
	assert.Equal(t, uint32(4), li.LineStart(2))
	assert.Equal(t, uint32(8), li.LineStart(3))
}

func TestLineIndexLineStartOutOfRangePanics(t *testing.T) {
	li := NewLineIndex([]byte("abc"))
	assert.Panics(t, func() { li.LineStart(5) })
}
