package diagnostics

import (
	"regexp"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// runeCallPattern matches a bare rune call site: the rune name, an optional
// `.member` or `<generic>`, and an opening paren. It is intentionally
// lighter-weight than internal/transform's byte-level scanner — diagnostics
// only need to know a rune was called somewhere in a span of text, not its
// exact argument boundaries.
var runeCallPattern = regexp.MustCompile(`\$(state|props|derived|effect|bindable|inspect|host)(\.[A-Za-z]+)?\s*(<[^>]*>)?\s*\(`)

// propsCallPattern matches $props( specifically, used to flag the rune in
// script contexts where it can never resolve to a binding.
var propsCallPattern = regexp.MustCompile(`\$props\s*(<[^>]*>)?\s*\(`)

func runeInExpression(expr string) bool {
	return runeCallPattern.MatchString(expr)
}

const runeInTemplateMessage = "Runes can only be used inside a component's <script> block, not in the template"

func checkRuneHygiene(doc *ast.Document) []Diagnostic {
	var diags []Diagnostic

	ast.Inspect(doc.Fragment, func(node ast.TemplateNode) bool {
		switch n := node.(type) {
		case *ast.ExpressionTag:
			if runeInExpression(n.Expression) {
				diags = append(diags, newDiagnostic("rune-in-template-expression", SeverityError,
					n.ExpressionSpan, runeInTemplateMessage))
			}
		case *ast.ConstTag:
			if runeInExpression(n.Declaration) {
				diags = append(diags, newDiagnostic("rune-in-template-expression", SeverityError,
					n.DeclarationSpan, runeInTemplateMessage))
			}
		case *ast.HtmlTag:
			if runeInExpression(n.Expression) {
				diags = append(diags, newDiagnostic("rune-in-template-expression", SeverityError,
					n.ExpressionSpan, runeInTemplateMessage))
			}
		case *ast.Element:
			diags = append(diags, checkAttributeRuneUsage(n.Attributes)...)
		case *ast.Component:
			diags = append(diags, checkAttributeRuneUsage(n.Attributes)...)
		case *ast.SvelteElementNode:
			diags = append(diags, checkAttributeRuneUsage(n.Attributes)...)
		}
		return true
	})

	if doc.ModuleScript != nil {
		if loc := propsCallPattern.FindStringIndex(doc.ModuleScript.Content); loc != nil {
			diags = append(diags, newDiagnostic("rune-disallowed-context", SeverityError,
				shiftSpan(doc.ModuleScript.ContentSpan, loc[0], loc[1]),
				`$props() can only be called in a component's instance script, not in a <script context="module"> block`))
		}
	}

	return diags
}

func checkAttributeRuneUsage(attrs []ast.Attribute) []Diagnostic {
	var diags []Diagnostic
	for _, raw := range attrs {
		switch attr := raw.(type) {
		case *ast.NormalAttribute:
			diags = append(diags, checkValueRuneUsage(attr.Value)...)
		case *ast.Directive:
			if attr.Expression != nil && runeInExpression(attr.Expression.Expression) {
				diags = append(diags, newDiagnostic("rune-in-template-expression", SeverityError,
					attr.Expression.ExpressionSpan, runeInTemplateMessage))
			}
		}
	}
	return diags
}

func checkValueRuneUsage(v ast.AttributeValue) []Diagnostic {
	var diags []Diagnostic
	switch v.Kind {
	case ast.ValueExpression:
		if v.Expr != nil && runeInExpression(v.Expr.Expression) {
			diags = append(diags, newDiagnostic("rune-in-template-expression", SeverityError,
				v.Expr.ExpressionSpan, runeInTemplateMessage))
		}
	case ast.ValueConcat:
		for _, part := range v.Concat {
			if part.Expr != nil && runeInExpression(part.Expr.Expression) {
				diags = append(diags, newDiagnostic("rune-in-template-expression", SeverityError,
					part.Expr.ExpressionSpan, runeInTemplateMessage))
			}
		}
	}
	return diags
}

func shiftSpan(base position.Span, relStart, relEnd int) position.Span {
	return position.Span{
		File:  base.File,
		Start: base.Start + uint32(relStart),
		End:   base.Start + uint32(relEnd),
	}
}
