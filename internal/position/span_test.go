package position

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpanEmptyAndLen(t *testing.T) {
	s := Span{File: 1, Start: 4, End: 4}
	assert.True(t, s.Empty())
	assert.Equal(t, uint32(0), s.Len())

	s2 := Span{File: 1, Start: 4, End: 10}
	assert.False(t, s2.Empty())
	assert.Equal(t, uint32(6), s2.Len())
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 10}
	b := Span{File: 1, Start: 2, End: 6}
	assert.Equal(t, Span{File: 1, Start: 2, End: 10}, a.Cover(b))
}

func TestSpanCoverPanicsAcrossFiles(t *testing.T) {
	a := Span{File: 1, Start: 0, End: 1}
	b := Span{File: 2, Start: 0, End: 1}
	assert.Panics(t, func() { a.Cover(b) })
}

func TestSpanShift(t *testing.T) {
	s := Span{File: 1, Start: 5, End: 10}
	assert.Equal(t, Span{File: 1, Start: 2, End: 7}, s.ShiftLeft(3))
	assert.Equal(t, Span{File: 1, Start: 0, End: 3}, s.ShiftLeft(7))
	assert.Equal(t, Span{File: 1, Start: 8, End: 13}, s.ShiftRight(3))
}
