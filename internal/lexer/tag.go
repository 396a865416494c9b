package lexer

// NextTag scans one token in tag mode: attribute/tag-name identifiers
// (namespaced identifiers like `svelte:window` included), `=`, quotes,
// `>`, `/>`, a bare `/`, or a `{` starting an attribute expression value
// (the parser switches back to expression scanning to consume it).
// Whitespace is skipped and never emitted as a token.
func (s *Scanner) NextTag() Token {
	s.skipTagWhitespace()
	start := s.MarkStart()
	if s.Eof() {
		return Token{Kind: KindEOF, Span: s.Span(start, start)}
	}

	switch s.Peek() {
	case '>':
		s.AdvanceBytes(1)
		return Token{Kind: KindRAngle, Span: s.Span(start, s.pos), Text: ">"}
	case '=':
		s.AdvanceBytes(1)
		return Token{Kind: KindEq, Span: s.Span(start, s.pos), Text: "="}
	case '"':
		s.AdvanceBytes(1)
		return Token{Kind: KindDoubleQuote, Span: s.Span(start, s.pos), Text: "\""}
	case '\'':
		s.AdvanceBytes(1)
		return Token{Kind: KindSingleQuote, Span: s.Span(start, s.pos), Text: "'"}
	case '{':
		s.AdvanceBytes(1)
		return Token{Kind: KindLBrace, Span: s.Span(start, s.pos), Text: "{"}
	case '/':
		if s.PeekAt(1) == '>' {
			s.AdvanceBytes(2)
			return Token{Kind: KindSlashRAngle, Span: s.Span(start, s.pos), Text: "/>"}
		}
		s.AdvanceBytes(1)
		return Token{Kind: KindSlash, Span: s.Span(start, s.pos), Text: "/"}
	}

	if isIdentStart(s.Peek()) {
		for isIdentPart(s.Peek()) {
			s.Advance()
		}
		namespaced := false
		if s.Peek() == ':' {
			namespaced = true
			s.Advance()
			for isIdentPart(s.Peek()) {
				s.Advance()
			}
		}
		kind := KindIdent
		if namespaced {
			kind = KindNamespacedIdent
		}
		return Token{Kind: kind, Span: s.Span(start, s.pos), Text: s.Slice(start, s.pos)}
	}

	// Anything unrecognized (stray punctuation) is consumed as a single
	// error token so the parser can resync rather than looping forever.
	s.Advance()
	return Token{Kind: KindError, Span: s.Span(start, s.pos), Text: s.Slice(start, s.pos)}
}

func (s *Scanner) skipTagWhitespace() {
	for !s.Eof() {
		switch s.Peek() {
		case ' ', '\t', '\r', '\n':
			s.Advance()
		default:
			return
		}
	}
}

// ScanAttributeText scans an unquoted or quoted attribute text value,
// stopping at the given terminator byte (0 means "whitespace, '>' or '/'"). Either
// way it also stops at '{', which starts an embedded expression the caller
// scans separately before resuming text scanning.
func (s *Scanner) ScanAttributeText(terminator byte) Token {
	start := s.MarkStart()
	for !s.Eof() {
		b := s.Peek()
		if b == '{' {
			break
		}
		if terminator != 0 {
			if b == terminator {
				break
			}
		} else if b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '>' || b == '/' {
			break
		}
		s.Advance()
	}
	return Token{Kind: KindText, Span: s.Span(start, s.pos), Text: s.Slice(start, s.pos)}
}

// rawTextElements suspend template-mode tokenization of their contents:
// everything up to the matching close tag is treated as opaque text.
var rawTextElements = map[string]bool{
	"script":   true,
	"style":    true,
	"textarea": true,
	"title":    true,
}

// IsRawTextElement reports whether name's content should be scanned
// verbatim up to its matching closing tag.
func IsRawTextElement(name string) bool {
	return rawTextElements[name]
}

// ScanRawText consumes raw text content until the literal closing tag
// "</name" (case-sensitive, as Svelte tag names are), exclusive, returning
// the content span. The caller is responsible for then scanning the
// closing tag itself via NextTemplate/NextTag.
func (s *Scanner) ScanRawText(name string) Token {
	start := s.MarkStart()
	closer := "</" + name
	for !s.Eof() {
		if s.HasPrefix(closer) {
			break
		}
		s.Advance()
	}
	return Token{Kind: KindText, Span: s.Span(start, s.pos), Text: s.Slice(start, s.pos)}
}
