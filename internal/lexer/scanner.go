package lexer

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// Mode selects which tokenization rules the Scanner applies on its next
// call to Next. Unlike a generated lexer, mode is supplied by the caller
// (internal/svelteparser) because the correct mode is a function of parser
// state, not of the bytes alone — the same '<' byte means something
// different inside an attribute value's text than at template top level.
type Mode int

const (
	// ModeTemplate scans HTML-ish content: text runs, tag opens/closes,
	// and expression/block-open delimiters.
	ModeTemplate Mode = iota
	// ModeTag scans inside an open tag: attribute names, '=', quotes,
	// and the tag's closing '>' or '/>'.
	ModeTag
)

// Scanner is the low-level byte/rune cursor shared by template-mode and
// tag-mode scanning. internal/svelteparser drives it by calling NextTemplate
// or NextTag depending on what the grammar expects next.
type Scanner struct {
	file    position.FileID
	src     []byte
	pos     uint32
	lastPos uint32
}

// New creates a Scanner over a single file's source bytes.
func New(file position.FileID, src []byte) *Scanner {
	return &Scanner{file: file, src: src}
}

// Pos returns the current byte offset.
func (s *Scanner) Pos() uint32 {
	return s.pos
}

// Seek resets the current position, used by the parser to implement
// lookahead: save Pos(), try a tentative scan, and Seek back if it turns
// out not to match what the grammar expected.
func (s *Scanner) Seek(pos uint32) {
	s.pos = pos
}

// File returns the FileID this scanner was constructed with.
func (s *Scanner) File() position.FileID {
	return s.file
}

// Eof reports whether the scanner has consumed all input.
func (s *Scanner) Eof() bool {
	return int(s.pos) >= len(s.src)
}

// Byte returns the byte at the given offset, or 0 past the end.
func (s *Scanner) Byte(off uint32) byte {
	if int(off) >= len(s.src) {
		return 0
	}
	return s.src[off]
}

// Peek returns the byte at the current position without consuming it.
func (s *Scanner) Peek() byte {
	return s.Byte(s.pos)
}

// PeekAt returns the byte n positions ahead of the current position.
func (s *Scanner) PeekAt(n uint32) byte {
	return s.Byte(s.pos + n)
}

// HasPrefix reports whether the unconsumed input starts with prefix.
func (s *Scanner) HasPrefix(prefix string) bool {
	end := int(s.pos) + len(prefix)
	if end > len(s.src) {
		return false
	}
	return string(s.src[s.pos:end]) == prefix
}

// Advance consumes and returns one rune, advancing past it.
func (s *Scanner) Advance() rune {
	if s.Eof() {
		return 0
	}
	r, size := utf8.DecodeRune(s.src[s.pos:])
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		n = 1
	}
	s.pos += n
	return r
}

// AdvanceBytes consumes n raw bytes without interpreting them as runes,
// used when the caller already knows the exact byte width (e.g. a matched
// ASCII literal like "</").
func (s *Scanner) AdvanceBytes(n uint32) {
	s.pos += n
	if max, err := safecast.Conv[uint32](len(s.src)); err == nil && s.pos > max {
		s.pos = max
	}
}

// Slice returns the source text between two byte offsets.
func (s *Scanner) Slice(start, end uint32) string {
	if max, err := safecast.Conv[uint32](len(s.src)); err == nil && end > max {
		end = max
	}
	if start > end {
		return ""
	}
	return string(s.src[start:end])
}

// Span builds a Span in this scanner's file from two byte offsets.
func (s *Scanner) Span(start, end uint32) position.Span {
	return position.Span{File: s.file, Start: start, End: end}
}

// MarkStart records and returns the current position as the start of the
// next token; callers pass it to Span once the token is consumed.
func (s *Scanner) MarkStart() uint32 {
	s.lastPos = s.pos
	return s.lastPos
}

// Eat consumes one byte if it equals want, reporting whether it matched.
// Used by block-syntax parsing for bare delimiter bytes ('}', '|') that
// don't warrant their own tag-mode token kind.
func (s *Scanner) Eat(want byte) bool {
	if s.Peek() == want {
		s.Advance()
		return true
	}
	return false
}

// SkipInlineSpace consumes spaces and tabs (not newlines) at the current
// position, used between a block keyword and its expression.
func (s *Scanner) SkipInlineSpace() {
	for s.Peek() == ' ' || s.Peek() == '\t' {
		s.Advance()
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9') || b == '-'
}
