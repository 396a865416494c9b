package diagnostics

import (
	"sort"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/svelteparser"
)

// Options selects which rule groups Check runs, mirroring the original
// DiagnosticOptions switch-per-concern shape.
type Options struct {
	A11y       bool
	Runes      bool
	Identifier bool
}

// All enables every rule group.
func All() Options {
	return Options{A11y: true, Runes: true, Identifier: true}
}

// Check runs every enabled internal diagnostic rule against a parsed
// document and its carryover parse errors, returning diagnostics sorted by
// source position so callers get stable, enumeration-order-independent
// output regardless of which rule produced which finding.
func Check(filePath string, doc *ast.Document, parseErrors []svelteparser.Error, opts Options) []Diagnostic {
	var diags []Diagnostic

	diags = append(diags, checkParseErrors(parseErrors)...)

	if opts.A11y {
		diags = append(diags, checkA11y(doc)...)
	}
	if opts.Runes {
		diags = append(diags, checkRuneHygiene(doc)...)
	}
	if opts.Identifier {
		diags = append(diags, checkMissingDeclaration(doc)...)
		diags = append(diags, checkComponentNameCase(doc)...)
		diags = append(diags, checkStateReferencedLocally(doc.ModuleScript)...)
		diags = append(diags, checkStateReferencedLocally(doc.InstanceScript)...)
	}

	for i := range diags {
		diags[i].FilePath = filePath
	}

	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Span.Start != diags[j].Span.Start {
			return diags[i].Span.Start < diags[j].Span.Start
		}
		return diags[i].Code < diags[j].Code
	})

	return diags
}
