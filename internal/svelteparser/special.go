package svelteparser

import (
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
)

// parseExpressionTag parses a plain `{expr}` interpolation. tagStart is the
// byte offset of the already-consumed '{'.
func (p *Parser) parseExpressionTag(tagStart uint32) ast.TemplateNode {
	start, end := p.s.ScanExpressionSpan()
	return &ast.ExpressionTag{
		NodeSpan:       p.span(tagStart, p.s.Pos()),
		ExpressionSpan: p.span(start, end),
		Expression:     p.s.Slice(start, end),
	}
}

// parseSpecialTag parses one of `{@html}`, `{@const}`, `{@debug}`,
// `{@render}`, dispatching on the keyword immediately after "{@" (already
// consumed; tagStart is the byte offset of the '{').
func (p *Parser) parseSpecialTag(tagStart uint32) ast.TemplateNode {
	kwTok := p.s.NextTag()
	p.s.SkipInlineSpace()

	switch kwTok.Text {
	case "html":
		start, end := p.s.ScanExpressionSpan()
		return &ast.HtmlTag{
			NodeSpan:       p.span(tagStart, p.s.Pos()),
			ExpressionSpan: p.span(start, end),
			Expression:     p.s.Slice(start, end),
		}
	case "const":
		start, end := p.s.ScanExpressionSpan()
		return &ast.ConstTag{
			NodeSpan:        p.span(tagStart, p.s.Pos()),
			DeclarationSpan: p.span(start, end),
			Declaration:     p.s.Slice(start, end),
		}
	case "debug":
		start, end := p.s.ScanExpressionSpan()
		text := p.s.Slice(start, end)
		var idents []string
		for _, part := range strings.Split(text, ",") {
			if t := strings.TrimSpace(part); t != "" {
				idents = append(idents, t)
			}
		}
		return &ast.DebugTag{NodeSpan: p.span(tagStart, p.s.Pos()), Identifiers: idents}
	case "render":
		start, end := p.s.ScanExpressionSpan()
		return &ast.RenderTag{
			NodeSpan:       p.span(tagStart, p.s.Pos()),
			ExpressionSpan: p.span(start, end),
			Expression:     p.s.Slice(start, end),
		}
	case "attach":
		// {@attach expr} appears in attribute position per the grammar;
		// encountering it as a standalone template node is invalid but
		// recoverable — consume it as an expression so parsing continues.
		start, end := p.s.ScanExpressionSpan()
		p.addError(ErrInvalidExpression, p.span(tagStart, p.s.Pos()), "{@attach} is only valid as an attribute")
		return &ast.ExpressionTag{
			NodeSpan:       p.span(tagStart, p.s.Pos()),
			ExpressionSpan: p.span(start, end),
			Expression:     p.s.Slice(start, end),
		}
	default:
		start, end := p.s.ScanExpressionSpan()
		p.addError(ErrInvalidExpression, kwTok.Span, "unknown special tag @%s", kwTok.Text)
		return &ast.ExpressionTag{
			NodeSpan:       p.span(tagStart, p.s.Pos()),
			ExpressionSpan: p.span(start, end),
			Expression:     p.s.Slice(start, end),
		}
	}
}
