// Package transform converts a parsed Svelte component into type-checkable
// TypeScript, with a source map back to the original .svelte positions.
//
// Every rune call site is rewritten to a plain TypeScript expression with an
// equivalent static type; the template is not reproduced verbatim but
// lowered into a sequence of statements — assignments, calls, for-loops —
// that exercise the same expressions, attribute bindings, and directives a
// real render would, so a type-checker run over the output catches the same
// mistakes it would catch in the original framework's own type-checking
// tool.
package transform

import (
	"fmt"
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// Options configures a single component transformation.
type Options struct {
	// Filename is the component's path relative to the project root, used
	// to derive its exported type name and, for SvelteKit route files
	// (+page.svelte and friends), its default $props() type.
	Filename string
	// GeneratedFile is the FileID the generated TypeScript output is
	// tagged with in the resulting source map.
	GeneratedFile position.FileID
}

// Result is a transformed component.
type Result struct {
	// Code is the generated TypeScript source text.
	Code string
	// SourceMap translates positions in Code back to doc's original file.
	SourceMap *position.SourceMap
}

// Transform lowers a parsed component into a type-checkable TypeScript
// module.
func Transform(doc *ast.Document, opts Options) *Result {
	builder := position.NewSourceMapBuilder(opts.GeneratedFile)
	route := routeKindFromFilename(opts.Filename)
	name := componentName(opts.Filename)

	var out strings.Builder
	writeRaw(&out, builder, doc.Span, helperPreamble)
	if typeName := route.propsTypeName(); typeName != "" {
		// Route pages and layouts type their props off the framework's
		// generated $types module.
		writeRaw(&out, builder, doc.Span, fmt.Sprintf("import type { %s } from %q;\n", typeName, "./$types.js"))
	}

	if doc.ModuleScript != nil {
		writeRaw(&out, builder, doc.ModuleScript.Span, "// module script\n")
		writeScript(&out, builder, doc.ModuleScript, route)
	}
	if doc.InstanceScript != nil {
		writeRaw(&out, builder, doc.InstanceScript.Span, "// instance script\n")
		writeScript(&out, builder, doc.InstanceScript, route)
	}

	// A rune module (.svelte.ts/.svelte.js) is a plain script with its own
	// exports; only whole components get the template-check function and
	// the component class.
	if !isModuleFilename(opts.Filename) {
		fnName := "$$checkTemplate"
		writeRaw(&out, builder, doc.Fragment.Span, fmt.Sprintf("function %s() {\n", fnName))
		emitter := newTemplateEmitter(builder)
		emitter.emitFragment(doc.Fragment)
		// emitter already recorded its own mappings against builder as it
		// built this text; only the output buffer needs the bytes appended.
		out.WriteString(emitter.String())
		writeRaw(&out, builder, doc.Fragment.Span, "}\n")

		props := instancePropsType(doc, route)
		writeRaw(&out, builder, doc.Span, fmt.Sprintf("export default class %s {\n", name))
		writeRaw(&out, builder, doc.Span, fmt.Sprintf("  $$props!: %s;\n", props))
		writeRaw(&out, builder, doc.Span, fmt.Sprintf("  $$render = %s;\n", fnName))
		writeRaw(&out, builder, doc.Span, "}\n")
	}

	return &Result{Code: out.String(), SourceMap: builder.Build()}
}

// isModuleFilename reports whether the transform input is a rune-module
// file rather than a whole component.
func isModuleFilename(filename string) bool {
	return strings.HasSuffix(filename, ".svelte.ts") || strings.HasSuffix(filename, ".svelte.js")
}

// writeRaw appends generated text with no original counterpart, mapped as
// a synthetic span anchored at anchor so every generated byte stays
// covered and a diagnostic landing in the boilerplate still surfaces at
// the enclosing original node.
func writeRaw(out *strings.Builder, builder *position.SourceMapBuilder, anchor position.Span, text string) {
	builder.AddSynthetic(anchor, text)
	out.WriteString(text)
}

func writeScript(out *strings.Builder, builder *position.SourceMapBuilder, script *ast.Script, route routeKind) {
	generated := rewriteScript(builder, &scriptInput{content: script.Content, span: script.ContentSpan}, route)
	out.WriteString(generated)
	out.WriteString("\n")
	builder.AddSynthetic(script.ContentSpan, "\n")
}

// instancePropsType resolves the props type the component exports on its
// $$props field: the type at its $props() call site when one exists,
// otherwise an empty record so consumers may mount it with no props.
func instancePropsType(doc *ast.Document, route routeKind) string {
	if doc.InstanceScript != nil {
		for _, call := range scanRuneCalls(doc.InstanceScript.Content) {
			if call.kind == runeProps {
				return propsTypeFor(doc.InstanceScript.Content, call, route)
			}
		}
	}
	if name := route.propsTypeName(); name != "" {
		return name
	}
	return "Record<string, never>"
}

// helperPreamble declares the ambient types the generated output's rune
// rewrites and template checks reference (HTMLElementTagNameMap and
// Snippet are otherwise only available inside an actual Svelte project's
// generated ambient types), plus the component-check helpers: every
// generated component module exports a class carrying its props type on
// $$props, which these helpers pull back out so a parent's props object
// and bind: targets are checked against the child's declared type.
const helperPreamble = `type Snippet<Args extends unknown[] = []> = (...args: Args) => unknown;
type $$ComponentCtor<P> = new (...args: any[]) => { $$props: P };
declare function $$checkComponent<P>(component: $$ComponentCtor<P>, props: P): void;
declare function $$checkComponent<P>(component: (props: P, ...rest: any[]) => unknown, props: P): void;
declare function $$checkBind<P, K extends keyof P>(component: $$ComponentCtor<P>, key: K, value: P[K]): void;
declare function $$readBind<P, K extends keyof P>(component: $$ComponentCtor<P>, key: K): P[K];
`
