package transform

import "strings"

// runeKind identifies which compile-time rune a call site invokes.
type runeKind int

const (
	runeProps runeKind = iota
	runeState
	runeStateRaw
	runeStateSnapshot
	runeDerived
	runeDerivedBy
	runeEffect
	runeEffectPre
	runeEffectRoot
	runeEffectTracking
	runeBindable
	runeInspect
	runeInspectTrace
	runeHost
)

// runeCall is one located `$rune(...)` (or `$rune<T>(...)`) call site within
// a script's source text.
type runeCall struct {
	kind       runeKind
	start, end int // byte range of the full call, "$state<T>(0)"
	generic    string
	hasArgs    bool
	argsStart  int // byte range of the argument list content, exclusive of parens
	argsEnd    int
}

// scanRuneCalls walks script byte-by-byte looking for rune call sites,
// skipping over string/template-literal and comment content so that e.g. a
// string containing the text "$state(" is never mistaken for a call. It
// does not build a full token stream — only enough structural awareness to
// find rune calls, matching the "lightweight tokenizer" the transformer is
// specified to use rather than a full expression parser.
func scanRuneCalls(script string) []runeCall {
	var calls []runeCall
	i := 0
	n := len(script)
	for i < n {
		c := script[i]
		switch {
		case c == '/' && i+1 < n && script[i+1] == '/':
			i = skipLineComment(script, i)
		case c == '/' && i+1 < n && script[i+1] == '*':
			i = skipBlockComment(script, i)
		case c == '\'' || c == '"' || c == '`':
			i = skipStringLiteral(script, i, c)
		case c == '$':
			if call, next, ok := tryParseRuneCall(script, i); ok {
				calls = append(calls, call)
				i = next
				continue
			}
			i++
		default:
			i++
		}
	}
	return calls
}

func skipLineComment(s string, i int) int {
	for i < len(s) && s[i] != '\n' {
		i++
	}
	return i
}

func skipBlockComment(s string, i int) int {
	i += 2
	for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
		i++
	}
	if i+1 < len(s) {
		return i + 2
	}
	return len(s)
}

func skipStringLiteral(s string, i int, quote byte) int {
	i++
	for i < len(s) {
		if s[i] == '\\' {
			i += 2
			continue
		}
		if s[i] == quote {
			return i + 1
		}
		if quote == '`' && s[i] == '$' && i+1 < len(s) && s[i+1] == '{' {
			i = skipTemplateInterpolation(s, i+2)
			continue
		}
		i++
	}
	return i
}

func skipTemplateInterpolation(s string, i int) int {
	depth := 1
	for i < len(s) && depth > 0 {
		switch {
		case s[i] == '{':
			depth++
			i++
		case s[i] == '}':
			depth--
			i++
		case s[i] == '\'' || s[i] == '"' || s[i] == '`':
			i = skipStringLiteral(s, i, s[i])
		case s[i] == '/' && i+1 < len(s) && s[i+1] == '/':
			i = skipLineComment(s, i)
		case s[i] == '/' && i+1 < len(s) && s[i+1] == '*':
			i = skipBlockComment(s, i)
		default:
			i++
		}
	}
	return i
}

var runeNames = map[string]runeKind{
	"props":    runeProps,
	"state":    runeState,
	"derived":  runeDerived,
	"effect":   runeEffect,
	"bindable": runeBindable,
	"inspect":  runeInspect,
	"host":     runeHost,
}

var runeMembers = map[runeKind]map[string]runeKind{
	runeState:   {"raw": runeStateRaw, "snapshot": runeStateSnapshot},
	runeDerived: {"by": runeDerivedBy},
	runeEffect:  {"pre": runeEffectPre, "root": runeEffectRoot, "tracking": runeEffectTracking},
	runeInspect: {"trace": runeInspectTrace},
}

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// tryParseRuneCall attempts to parse a rune call starting at script[start]
// (which must be '$'). It returns the parsed call, the index just past the
// call's closing ')', and whether a call was actually found — a bare `$foo`
// reference with no parens, or an unrecognized name, is not a call.
func tryParseRuneCall(script string, start int) (runeCall, int, bool) {
	i := start + 1
	nameStart := i
	for i < len(script) && isIdentByte(script[i]) && script[i] != '$' {
		i++
	}
	name := script[nameStart:i]
	kind, ok := runeNames[name]
	if !ok {
		return runeCall{}, start, false
	}

	if i < len(script) && script[i] == '.' {
		memberStart := i + 1
		j := memberStart
		for j < len(script) && isIdentByte(script[j]) {
			j++
		}
		member := script[memberStart:j]
		if sub, ok := runeMembers[kind][member]; ok {
			kind = sub
			i = j
		}
	}

	generic := ""
	if i < len(script) && script[i] == '<' {
		genStart := i + 1
		depth := 1
		j := genStart
		for j < len(script) && depth > 0 {
			switch script[j] {
			case '<':
				depth++
			case '>':
				depth--
			case '(', ';', '\n':
				depth = -1
			}
			j++
		}
		if depth == 0 {
			generic = script[genStart : j-1]
			i = j
		}
	}

	for i < len(script) && (script[i] == ' ' || script[i] == '\t') {
		i++
	}
	if i >= len(script) || script[i] != '(' {
		return runeCall{}, start, false
	}

	argsStart := i + 1
	depth := 1
	j := argsStart
	for j < len(script) && depth > 0 {
		switch {
		case script[j] == '(':
			depth++
			j++
		case script[j] == ')':
			depth--
			j++
		case script[j] == '\'' || script[j] == '"' || script[j] == '`':
			j = skipStringLiteral(script, j, script[j])
		case script[j] == '/' && j+1 < len(script) && script[j+1] == '/':
			j = skipLineComment(script, j)
		case script[j] == '/' && j+1 < len(script) && script[j+1] == '*':
			j = skipBlockComment(script, j)
		default:
			j++
		}
	}
	if depth != 0 {
		return runeCall{}, start, false
	}
	argsEnd := j - 1

	return runeCall{
		kind:      kind,
		start:     start,
		end:       j,
		generic:   strings.TrimSpace(generic),
		hasArgs:   strings.TrimSpace(script[argsStart:argsEnd]) != "",
		argsStart: argsStart,
		argsEnd:   argsEnd,
	}, j, true
}

// normalizeArgs recomposes a possibly multi-line, trailing-comma argument
// list into a single-line expression, e.g. "\n  v,\n" -> "v".
// rewriteRuneCall applies it to the argument list of every rune call it
// rewrites.
func normalizeArgs(args string) string {
	trimmed := strings.TrimSpace(args)
	trimmed = strings.TrimSuffix(trimmed, ",")
	return strings.TrimSpace(trimmed)
}
