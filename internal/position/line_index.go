package position

import (
	"sort"

	"fortio.org/safecast"
)

// LineIndex maps byte offsets within a single file's content to 1-based
// line/column pairs. It is built once per file and queried many times, so
// construction does the linear scan and lookups are a binary search.
type LineIndex struct {
	// offsets[i] is the byte offset of the newline that ends line i+1
	// (0-based index into offsets, 1-based line number).
	offsets []uint32
	length  uint32
}

// NewLineIndex scans content once and records every newline offset.
func NewLineIndex(content []byte) *LineIndex {
	offsets := make([]uint32, 0, 64)
	for i, b := range content {
		if b == '\n' {
			off, err := safecast.Conv[uint32](i)
			if err != nil {
				break // content longer than 4GiB, stop indexing rather than wrap
			}
			offsets = append(offsets, off)
		}
	}
	length, err := safecast.Conv[uint32](len(content))
	if err != nil {
		length = ^uint32(0)
	}
	return &LineIndex{offsets: offsets, length: length}
}

// LineCount returns the number of lines in the indexed content.
func (li *LineIndex) LineCount() int {
	return len(li.offsets) + 1
}

// ToLineCol converts a byte offset into a 1-based line/column pair. Offsets
// past the end of the content clamp to the last valid position.
func (li *LineIndex) ToLineCol(off uint32) LineCol {
	if off > li.length {
		off = li.length
	}
	if len(li.offsets) == 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	// Find the largest index i such that offsets[i] < off; a newline byte
	// belongs to the line it ends.
	idx := sort.Search(len(li.offsets), func(i int) bool {
		return li.offsets[i] >= off
	}) - 1

	if idx < 0 {
		return LineCol{Line: 1, Col: off + 1}
	}

	lineStart := li.offsets[idx] + 1
	line, err := safecast.Conv[uint32](idx + 2)
	if err != nil {
		line = ^uint32(0)
	}
	return LineCol{Line: line, Col: off - lineStart + 1}
}

// LineStart returns the byte offset where the given 1-based line begins.
// It panics if line is out of range.
func (li *LineIndex) LineStart(line uint32) uint32 {
	if line == 1 {
		return 0
	}
	idx := int(line) - 2
	if idx < 0 || idx >= len(li.offsets) {
		panic("position: line out of range")
	}
	return li.offsets[idx] + 1
}
