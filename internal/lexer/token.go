// Package lexer implements the hand-written, context-sensitive scanner
// that feeds internal/svelteparser. It does not tokenize JavaScript/
// TypeScript expressions into individual tokens; script and expression
// content is captured as opaque spans, with only enough structural
// awareness (string/template-literal/regex/comment/brace tracking) to find
// where an expression or script block ends.
package lexer

import "github.com/svelte-tools/svelte-check-go/internal/position"

// Kind identifies a lexical token produced in template or tag mode.
type Kind int

const (
	KindEOF Kind = iota
	KindError

	// Template mode.
	KindText    // a run of literal text/whitespace
	KindLAngle  // '<'
	KindLAngleSlash // '</'
	KindLBrace      // '{' starting an expression tag
	KindLBraceHash  // '{#'
	KindLBraceColon // '{:'
	KindLBraceSlash // '{/'
	KindLBraceAt    // '{@'
	KindComment     // '<!-- ... -->'

	// Tag mode.
	KindIdent           // tag/attribute name
	KindNamespacedIdent // 'svelte:self' etc (identifier containing ':')
	KindEq              // '='
	KindRAngle          // '>'
	KindSlashRAngle     // '/>'
	KindSlash           // '/' alone (bare closing slash before '>')
	KindDoubleQuote
	KindSingleQuote
)

func (k Kind) String() string {
	switch k {
	case KindEOF:
		return "EOF"
	case KindError:
		return "error"
	case KindText:
		return "text"
	case KindLAngle:
		return "'<'"
	case KindLAngleSlash:
		return "'</'"
	case KindLBrace:
		return "'{'"
	case KindLBraceHash:
		return "'{#'"
	case KindLBraceColon:
		return "'{:'"
	case KindLBraceSlash:
		return "'{/'"
	case KindLBraceAt:
		return "'{@'"
	case KindComment:
		return "comment"
	case KindIdent:
		return "identifier"
	case KindNamespacedIdent:
		return "namespaced identifier"
	case KindEq:
		return "'='"
	case KindRAngle:
		return "'>'"
	case KindSlashRAngle:
		return "'/>'"
	case KindSlash:
		return "'/'"
	case KindDoubleQuote:
		return "'\"'"
	case KindSingleQuote:
		return "'''"
	default:
		return "unknown"
	}
}

// Token is a single lexical unit with its source span and literal text.
type Token struct {
	Kind Kind
	Span position.Span
	Text string
}
