package position

import "fmt"

// FileID identifies a source file within a run. IDs are assigned by the
// caller; orchestrator.FileTable numbers files from 0 in registration order.
type FileID uint32

// Span is a half-open byte range [Start, End) within a single file.
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

// Empty reports whether the span covers zero bytes.
func (s Span) Empty() bool {
	return s.Start >= s.End
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() uint32 {
	if s.Empty() {
		return 0
	}
	return s.End - s.Start
}

// Cover returns the smallest span that contains both s and other.
// The two spans must belong to the same file; Cover panics otherwise.
func (s Span) Cover(other Span) Span {
	if s.File != other.File {
		panic("position: Cover across different files")
	}
	start, end := s.Start, s.End
	if other.Start < start {
		start = other.Start
	}
	if other.End > end {
		end = other.End
	}
	return Span{File: s.File, Start: start, End: end}
}

// ShiftLeft returns a copy of s moved backward by n bytes. It clamps at zero.
func (s Span) ShiftLeft(n uint32) Span {
	start, end := s.Start, s.End
	if start < n {
		start = 0
	} else {
		start -= n
	}
	if end < n {
		end = 0
	} else {
		end -= n
	}
	return Span{File: s.File, Start: start, End: end}
}

// ShiftRight returns a copy of s moved forward by n bytes.
func (s Span) ShiftRight(n uint32) Span {
	return Span{File: s.File, Start: s.Start + n, End: s.End + n}
}

func (s Span) String() string {
	return fmt.Sprintf("%d:%d-%d", s.File, s.Start, s.End)
}

// LineCol is a 1-based line/column pair.
type LineCol struct {
	Line uint32
	Col  uint32
}

func (lc LineCol) String() string {
	return fmt.Sprintf("%d:%d", lc.Line, lc.Col)
}
