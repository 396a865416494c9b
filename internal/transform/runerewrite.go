package transform

import (
	"sort"
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// scriptEdit is one in-place replacement inside a script's source text:
// a rewritten rune call or a rewritten .svelte import specifier.
type scriptEdit struct {
	start, end  int
	replacement string
}

// rewriteScript rewrites every rune call site and .svelte import specifier
// found in script.Content into its type-checkable TypeScript equivalent,
// emitting the result through builder so the generated output stays mapped
// back to script's original positions byte-for-byte outside of the
// rewritten spans.
//
// Only the call expression (or specifier) itself is ever replaced; a
// surrounding declaration such as `let { a, b } = $props()` keeps its
// binding pattern untouched, since only the right-hand side needs a type
// the checker can verify against.
func rewriteScript(builder *position.SourceMapBuilder, script *scriptInput, route routeKind) string {
	content := script.content
	file := script.span.File
	base := script.span.Start

	var edits []scriptEdit
	for _, call := range scanRuneCalls(content) {
		edits = append(edits, scriptEdit{
			start:       call.start,
			end:         call.end,
			replacement: rewriteRuneCall(content, call, route),
		})
	}
	for _, spec := range scanSvelteImportSpecifiers(content) {
		edits = append(edits, scriptEdit{
			start:       spec.start,
			end:         spec.end,
			replacement: content[spec.start:spec.end] + ".js",
		})
	}
	sort.Slice(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out strings.Builder
	pos := 0
	for _, edit := range edits {
		if edit.start > pos {
			lit := content[pos:edit.start]
			builder.AddSource(position.Span{File: file, Start: base + uint32(pos), End: base + uint32(edit.start)}, lit)
			out.WriteString(lit)
		}
		builder.AddTransformed(position.Span{File: file, Start: base + uint32(edit.start), End: base + uint32(edit.end)}, edit.replacement)
		out.WriteString(edit.replacement)
		pos = edit.end
	}
	if pos < len(content) {
		tail := content[pos:]
		builder.AddSource(position.Span{File: file, Start: base + uint32(pos), End: base + uint32(len(content))}, tail)
		out.WriteString(tail)
	}
	return out.String()
}

// scriptInput is the minimal view of an ast.Script rewriteScript needs,
// kept separate from ast.Script so this package doesn't need to construct
// one just to call rewriteScript from tests.
type scriptInput struct {
	content string
	span    position.Span // ContentSpan
}

func rewriteRuneCall(script string, call runeCall, route routeKind) string {
	args := normalizeArgs(script[call.argsStart:call.argsEnd])
	switch call.kind {
	case runeProps:
		return rewritePropsCall(script, call, route)
	case runeState, runeStateRaw, runeStateSnapshot, runeBindable:
		return typedValue(args, call.generic)
	case runeDerived:
		return typedValue(args, call.generic)
	case runeDerivedBy:
		return "(" + args + ")()"
	case runeEffect, runeEffectPre:
		return "(" + args + ")()"
	case runeEffectRoot:
		return "(" + args + ")()"
	case runeEffectTracking:
		return "(false as boolean)"
	case runeInspect, runeInspectTrace:
		return "(void 0)"
	case runeHost:
		return "(this)"
	default:
		return "(" + args + ")"
	}
}

// typedValue renders args as an expression of the rune's generic type.
// The generic case routes through a declaration (`let $$v: T = (args)`)
// rather than an `as` assertion, so an object-literal initializer keeps
// assignment-context typing — excess properties are still flagged, which
// an assertion would silence.
func typedValue(args, generic string) string {
	if generic != "" {
		return "(() => { let $$v: " + generic + " = (" + args + "); return $$v; })()"
	}
	return "(" + args + ")"
}

// rewritePropsCall replaces a $props() call with a value of the props
// type; the surrounding destructuring pattern and any annotation stay
// untouched.
func rewritePropsCall(script string, call runeCall, route routeKind) string {
	return "(null as unknown as " + propsTypeFor(script, call, route) + ")"
}

// propsTypeFor resolves the type a $props() call site produces, in the
// same precedence the rewrite uses: explicit generic, then the
// declaration's annotation, then a route-supplied props type, then a
// literal shape recovered from the destructuring pattern. Shared with the
// component export so a parent checking this component's props sees the
// same type the component's own script was checked against.
func propsTypeFor(script string, call runeCall, route routeKind) string {
	info := extractPropsInfo(script, call.start)
	switch {
	case call.generic != "":
		return call.generic
	case info != nil && info.typeAnnotation != "":
		return info.typeAnnotation
	case route.propsTypeName() != "":
		return route.propsTypeName()
	default:
		return propsTypeLiteral(info)
	}
}
