package diagnostics

import (
	"regexp"
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
)

// reactiveBindingPattern finds a top-level `let`/`const` binding whose
// initializer is a $state/$state.raw/$derived/$derived.by/$bindable rune call, capturing
// the bound name.
var reactiveBindingPattern = regexp.MustCompile(`\b(?:let|const)\s+([A-Za-z_$][\w$]*)\s*(?::[^=]+)?=\s*\$(state(?:\.raw)?|derived(?:\.by)?|bindable)\b`)

// topLevelAssignPattern finds every top-level `let`/`const` declaration's
// right-hand side; callers filter out the ones whose initializer is itself
// a rune call before checking for a captured reactive reference.
var topLevelAssignPattern = regexp.MustCompile(`(?m)^[ \t]*(?:let|const)\s+[A-Za-z_$][\w$]*\s*(?::[^=\n]+)?=\s*([^\n]*);`)

// checkStateReferencedLocally is a deliberately shallow port of the
// original's SWC-based scope analysis: it only catches the common case of a
// top-level, non-rune declaration whose initializer reads a reactive binding
// by value, since bindings declared inside a nested function or reassigned
// before use are already outside what a regex pass can reason about safely.
func checkStateReferencedLocally(script *ast.Script) []Diagnostic {
	if script == nil {
		return nil
	}
	content := script.Content

	reactive := map[string]bool{}
	for _, m := range reactiveBindingPattern.FindAllStringSubmatch(content, -1) {
		reactive[m[1]] = true
	}
	if len(reactive) == 0 {
		return nil
	}

	var diags []Diagnostic
	for _, m := range topLevelAssignPattern.FindAllStringSubmatchIndex(content, -1) {
		rhs := content[m[2]:m[3]]
		if strings.HasPrefix(strings.TrimSpace(rhs), "$") {
			continue
		}
		for name := range reactive {
			if !referencesIdentifier(rhs, name) {
				continue
			}
			diags = append(diags, newDiagnostic("state-referenced-locally", SeverityWarning,
				shiftSpan(script.ContentSpan, m[2], m[3]),
				"This reference only captures the initial value of %q. Did you mean to wrap this in $derived instead?", name))
			break
		}
	}
	return diags
}

func referencesIdentifier(text, name string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], name)
		if i < 0 {
			return false
		}
		at := idx + i
		before := byte(0)
		if at > 0 {
			before = text[at-1]
		}
		after := byte(0)
		if at+len(name) < len(text) {
			after = text[at+len(name)]
		}
		if !isIdentChar(before) && !isIdentChar(after) {
			return true
		}
		idx = at + len(name)
	}
}

func isIdentChar(b byte) bool {
	return b == '_' || b == '$' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
