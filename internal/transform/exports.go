package transform

import (
	"path/filepath"
	"strings"
)

// routeKind identifies which kind of framework route file a filename names,
// used to infer a default props type when a component destructures
// `$props()` with no explicit annotation.
type routeKind int

const (
	routeNone routeKind = iota
	routePage
	routeLayout
	routeError
)

func routeKindFromFilename(filename string) routeKind {
	base := filepath.Base(filename)
	switch {
	case strings.HasPrefix(base, "+page") && strings.HasSuffix(base, ".svelte"):
		return routePage
	case strings.HasPrefix(base, "+layout") && strings.HasSuffix(base, ".svelte"):
		return routeLayout
	case strings.HasPrefix(base, "+error") && strings.HasSuffix(base, ".svelte"):
		return routeError
	default:
		return routeNone
	}
}

func (k routeKind) propsTypeName() string {
	switch k {
	case routePage:
		return "PageProps"
	case routeLayout:
		return "LayoutProps"
	default:
		return ""
	}
}

// propField is one destructured field of a `$props()` binding pattern.
type propField struct {
	name       string // the prop key as seen by callers
	alias      string // the local binding name (equals name unless renamed)
	hasDefault bool
	isRest     bool
}

// propsInfo is what extractPropsInfo recovers about a `let {...} = $props()`
// binding: the field list plus any explicit type annotation already present
// on the declaration (which the transformer must not touch).
type propsInfo struct {
	typeAnnotation string
	fields         []propField
}

func (info *propsInfo) hasRest() bool {
	for _, f := range info.fields {
		if f.isRest {
			return true
		}
	}
	return false
}

// extractPropsInfo looks at the text immediately preceding a `$props()` call
// site (callStart is the index of its leading '$') to recover the
// destructuring pattern and any type annotation on the enclosing
// declaration, e.g. `let { count, label = 'x' }: Props = ` before the call.
// Returns nil when the binding isn't an object-destructuring pattern (e.g.
// `const props = $props()`), since there's then no field list to type.
func extractPropsInfo(script string, callStart int) *propsInfo {
	stmtStart := findStatementStart(script, callStart)
	prefix := strings.TrimSpace(script[stmtStart:callStart])
	prefix = strings.TrimSuffix(prefix, "=")
	prefix = strings.TrimSpace(prefix)

	for _, kw := range []string{"let", "const", "var"} {
		if strings.HasPrefix(prefix, kw+" ") || strings.HasPrefix(prefix, kw+"\t") {
			prefix = strings.TrimSpace(prefix[len(kw):])
			break
		}
	}

	if !strings.HasPrefix(prefix, "{") {
		return nil
	}

	close := matchingBraceIndex(prefix, 0)
	if close == -1 {
		return nil
	}
	inner := prefix[1:close]
	annotation := strings.TrimSpace(prefix[close+1:])
	annotation = strings.TrimPrefix(annotation, ":")
	annotation = strings.TrimSpace(annotation)

	info := &propsInfo{typeAnnotation: annotation}
	for _, raw := range splitTopLevelByte(inner, ',') {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		info.fields = append(info.fields, parseDestructureField(raw))
	}
	return info
}

func parseDestructureField(raw string) propField {
	if strings.HasPrefix(raw, "...") {
		return propField{isRest: true, alias: strings.TrimSpace(raw[3:])}
	}
	hasDefault := false
	left := raw
	if idx := strings.Index(raw, "="); idx != -1 {
		hasDefault = true
		left = raw[:idx]
	}
	left = strings.TrimSpace(left)
	name, alias := left, left
	if idx := strings.Index(left, ":"); idx != -1 {
		name = strings.TrimSpace(left[:idx])
		alias = strings.TrimSpace(left[idx+1:])
	}
	return propField{name: name, alias: alias, hasDefault: hasDefault}
}

func matchingBraceIndex(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func splitTopLevelByte(s string, sep byte) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		default:
			if c == sep && depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

func findStatementStart(script string, pos int) int {
	depth := 0
	i := pos - 1
	for i >= 0 {
		switch script[i] {
		case ')', ']', '}':
			depth++
		case '(', '[', '{':
			if depth == 0 {
				return i + 1
			}
			depth--
		case ';':
			if depth == 0 {
				return i + 1
			}
		case '\n':
			if depth == 0 {
				return i + 1
			}
		}
		i--
	}
	return 0
}

// componentName derives a TypeScript-safe type name from a component's file
// path, e.g. "src/lib/Counter.svelte" -> "Counter". Rune-module names
// ("counter.svelte.ts") and route names ("+page.svelte") carry bytes an
// identifier can't, so anything outside [A-Za-z0-9_$] becomes '_'.
func componentName(filename string) string {
	base := filepath.Base(filename)
	for _, ext := range []string{".ts", ".js", ".svelte"} {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." {
		return "Component"
	}
	var b strings.Builder
	for i := 0; i < len(base); i++ {
		c := base[i]
		switch {
		case c == '_' || c == '$',
			c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9':
			b.WriteByte(c)
		default:
			b.WriteByte('_')
		}
	}
	name := b.String()
	if name == "" {
		return "Component"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

// propsTypeLiteral renders a propsInfo's fields as an inline object type,
// e.g. "{ count: any; label?: any }". Every field is typed any: this
// transformer establishes presence/shape for the type-checker, not precise
// per-field types inferred from usage.
func propsTypeLiteral(info *propsInfo) string {
	if info == nil || len(info.fields) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{ ")
	first := true
	for _, f := range info.fields {
		if f.isRest {
			continue
		}
		if !first {
			b.WriteString("; ")
		}
		first = false
		b.WriteString(f.name)
		if f.hasDefault {
			b.WriteString("?")
		}
		b.WriteString(": any")
	}
	if info.hasRest() {
		if !first {
			b.WriteString("; ")
		}
		b.WriteString("[key: string]: any")
	}
	b.WriteString(" }")
	return b.String()
}
