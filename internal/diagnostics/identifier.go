package diagnostics

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/svelteparser"
)

var declarationPattern = regexp.MustCompile(`\b(?:let|const|var|function\*?|class)\s+([A-Za-z_$][\w$]*)`)
var importBindingPattern = regexp.MustCompile(`import\s+([A-Za-z_$][\w$]*)\s+from\s+['"][^'"]*\.svelte['"]`)
var importNamedPattern = regexp.MustCompile(`import\s*\{([^}]*)\}\s*from`)
var bareIdentifierPattern = regexp.MustCompile(`^[A-Za-z_$][\w$]*$`)

var builtinGlobals = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true, "this": true,
	"NaN": true, "Infinity": true, "console": true, "window": true, "document": true,
	"Math": true, "Date": true, "JSON": true, "Array": true, "Object": true,
	"String": true, "Number": true, "Boolean": true, "Promise": true,
}

// declaredNames collects every identifier the instance and module scripts
// bind at the top level: declarations, import defaults, and named imports.
// It is intentionally shallow — a regex scan, not a scope-aware parse — so
// it only ever under-reports, never flags a genuinely declared name.
func declaredNames(doc *ast.Document) map[string]bool {
	names := map[string]bool{}
	addFrom := func(script *ast.Script) {
		if script == nil {
			return
		}
		for _, m := range declarationPattern.FindAllStringSubmatch(script.Content, -1) {
			names[m[1]] = true
		}
		for _, m := range importBindingPattern.FindAllStringSubmatch(script.Content, -1) {
			names[m[1]] = true
		}
		for _, m := range importNamedPattern.FindAllStringSubmatch(script.Content, -1) {
			for _, part := range strings.Split(m[1], ",") {
				part = strings.TrimSpace(part)
				if idx := strings.LastIndex(part, " as "); idx >= 0 {
					part = strings.TrimSpace(part[idx+4:])
				}
				if part != "" {
					names[part] = true
				}
			}
		}
	}
	addFrom(doc.ModuleScript)
	addFrom(doc.InstanceScript)
	return names
}

// checkMissingDeclaration flags a bare `{identifier}` template expression
// that references a name nothing in either script block declares. Anything
// more complex than a single identifier (member access, calls, literals) is
// left to the TypeScript collaborator, which has real type information.
func checkMissingDeclaration(doc *ast.Document) []Diagnostic {
	declared := declaredNames(doc)
	var diags []Diagnostic

	ast.Inspect(doc.Fragment, func(node ast.TemplateNode) bool {
		tag, ok := node.(*ast.ExpressionTag)
		if !ok {
			return true
		}
		name := strings.TrimSpace(tag.Expression)
		if !bareIdentifierPattern.MatchString(name) {
			return true
		}
		if declared[name] || builtinGlobals[name] {
			return true
		}
		diags = append(diags, newDiagnostic("missing-declaration", SeverityError, tag.ExpressionSpan,
			"%q is not declared in this component's script", name))
		return true
	})

	return diags
}

// checkComponentNameCase flags a default import from a .svelte file bound
// to a lowercase identifier: the parser treats a lowercase tag as a plain
// element, so such a component can never be referenced by its intended tag.
func checkComponentNameCase(doc *ast.Document) []Diagnostic {
	var diags []Diagnostic
	check := func(script *ast.Script) {
		if script == nil {
			return
		}
		for _, m := range importBindingPattern.FindAllStringSubmatchIndex(script.Content, -1) {
			name := script.Content[m[2]:m[3]]
			if name == "" {
				continue
			}
			if r := []rune(name)[0]; !unicode.IsUpper(r) {
				diags = append(diags, newDiagnostic("component-name-case", SeverityWarning,
					shiftSpan(script.ContentSpan, m[2], m[3]),
					"Component import %q should start with an uppercase letter so it can be used as <%s .../>", name, name))
			}
		}
	}
	check(doc.ModuleScript)
	check(doc.InstanceScript)
	return diags
}

// checkParseErrors carries forward the parser's own recoverable errors as
// diagnostics, so a malformed file still produces useful output alongside
// whatever structure the parser managed to recover.
func checkParseErrors(errs []svelteparser.Error) []Diagnostic {
	diags := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		d := newDiagnostic("parse-error", SeverityError, e.Span, "%s", e.Message)
		d.Source = SourceParser
		diags = append(diags, d)
	}
	return diags
}
