package svelteparser

import (
	"strings"
	"unicode"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/lexer"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

var svelteElementKinds = map[string]ast.SvelteElementKind{
	"svelte:self":      ast.SvelteSelf,
	"svelte:component":  ast.SvelteComponentKind,
	"svelte:element":    ast.SvelteElement_,
	"svelte:window":     ast.SvelteWindow,
	"svelte:document":   ast.SvelteDocument,
	"svelte:body":       ast.SvelteBody,
	"svelte:head":       ast.SvelteHead,
	"svelte:options":    ast.SvelteOptions,
	"svelte:fragment":   ast.SvelteFragment,
	"svelte:boundary":   ast.SvelteBoundary,
}

// parseElementOrComponent parses everything from a tag name through to its
// matching close tag (or self-close), dispatching to Element, Component, or
// SvelteElementNode based on the tag name's shape.
func (p *Parser) parseElementOrComponent(tagStart uint32) ast.TemplateNode {
	nameTok := p.s.NextTag()
	if nameTok.Kind != lexer.KindIdent && nameTok.Kind != lexer.KindNamespacedIdent {
		p.addError(ErrUnexpectedToken, nameTok.Span, "expected tag name, found %s", nameTok.Kind)
		return &ast.Text{NodeSpan: p.span(tagStart, p.s.Pos()), Data: "<"}
	}
	name := nameTok.Text

	attrs, selfClosing := p.parseAttributes()

	if kind, ok := svelteElementKinds[strings.ToLower(name)]; ok {
		var children []ast.TemplateNode
		if !selfClosing {
			children = p.parseChildren(name)
		}
		return &ast.SvelteElementNode{
			NodeSpan:   p.span(tagStart, p.s.Pos()),
			Kind:       kind,
			Attributes: attrs,
			Children:   children,
		}
	}

	isComponent := len(name) > 0 && unicode.IsUpper(rune(name[0])) || strings.Contains(name, ".")

	var children []ast.TemplateNode
	if !selfClosing && !lexer.IsRawTextElement(strings.ToLower(name)) {
		children = p.parseChildren(name)
	} else if !selfClosing {
		contentTok := p.s.ScanRawText(name)
		children = []ast.TemplateNode{&ast.Text{NodeSpan: contentTok.Span, Data: contentTok.Text}}
		p.parseClosingTag(name)
	}

	if isComponent {
		return &ast.Component{
			NodeSpan:    p.span(tagStart, p.s.Pos()),
			Name:        name,
			Attributes:  attrs,
			Children:    children,
			SelfClosing: selfClosing,
		}
	}
	return &ast.Element{
		NodeSpan:    p.span(tagStart, p.s.Pos()),
		Name:        name,
		Attributes:  attrs,
		Children:    children,
		SelfClosing: selfClosing,
	}
}

// parseAttributes consumes attributes until '>' or '/>'. It returns the
// accumulated attributes and whether the tag was self-closing.
func (p *Parser) parseAttributes() (attrs []ast.Attribute, selfClosing bool) {
	for {
		saved := p.s.Pos()
		tok := p.s.NextTag()
		switch tok.Kind {
		case lexer.KindRAngle:
			return attrs, false
		case lexer.KindSlashRAngle:
			return attrs, true
		case lexer.KindEOF:
			p.addError(ErrUnexpectedEOF, tok.Span, "expected '>' or attribute")
			return attrs, true
		case lexer.KindIdent, lexer.KindNamespacedIdent:
			p.s.Seek(saved)
			if a := p.parseAttribute(); a != nil {
				attrs = append(attrs, a)
			}
		case lexer.KindLBrace:
			p.s.Seek(saved)
			if a := p.parseSpreadOrShorthandOrAttach(); a != nil {
				attrs = append(attrs, a)
			}
		default:
			p.addError(ErrInvalidAttribute, tok.Span, "unexpected token %s in tag", tok.Kind)
		}
	}
}

func (p *Parser) parseAttribute() ast.Attribute {
	nameTok := p.s.NextTag()
	start := nameTok.Span.Start

	if strings.Contains(nameTok.Text, ":") {
		return p.parseDirectiveFrom(start, nameTok.Text, nameTok.Span)
	}

	saved := p.s.Pos()
	eqTok := p.s.NextTag()
	if eqTok.Kind != lexer.KindEq {
		p.s.Seek(saved)
		return &ast.NormalAttribute{
			AttrSpan: p.span(start, p.s.Pos()),
			Name:     nameTok.Text,
			Value:    ast.AttributeValue{Kind: ast.ValueTrue},
		}
	}

	value := p.parseAttributeValue()
	return &ast.NormalAttribute{
		AttrSpan: p.span(start, p.s.Pos()),
		Name:     nameTok.Text,
		Value:    value,
	}
}

// parseDirectiveFrom parses a directive's "name:target" head (already
// lexed as a single namespaced identifier token, which stops at '.', so
// member-access targets like "use:actions.enhance" are completed below)
// followed by zero or more "|modifier" suffixes, which
// the identifier scan does not swallow since '|' is not an ident-part
// byte and so arrives as a separate stop point.
func (p *Parser) parseDirectiveFrom(start uint32, head string, headSpan position.Span) ast.Attribute {
	parts := strings.SplitN(head, ":", 2)
	kindName := parts[0]
	target := ""
	if len(parts) > 1 {
		target = parts[1]
	}

	// The identifier scan stops at '.', so a member-access target like
	// "actions.enhance" arrives here as just "actions"; extend it with
	// any immediately-following ".ident" segments.
	for p.s.Peek() == '.' {
		segStart := p.s.Pos()
		p.s.Advance()
		for isIdentPartByte(p.s.Peek()) {
			p.s.Advance()
		}
		target += p.s.Slice(segStart, p.s.Pos())
	}

	var modifiers []string
	for p.s.Peek() == '|' {
		p.s.Advance()
		modStart := p.s.Pos()
		for isModifierPart(p.s.Peek()) {
			p.s.Advance()
		}
		modifiers = append(modifiers, p.s.Slice(modStart, p.s.Pos()))
	}

	kind, ok := directiveKindFromName(kindName)
	if !ok {
		p.addError(ErrInvalidDirective, p.span(start, p.s.Pos()), "unknown directive namespace %q", kindName)
	}

	var expr *ast.ExpressionValue
	saved := p.s.Pos()
	eqTok := p.s.NextTag()
	if eqTok.Kind == lexer.KindEq {
		v := p.parseAttributeValue()
		if v.Kind == ast.ValueExpression {
			expr = v.Expr
		} else if v.Kind == ast.ValueText && v.Text != nil {
			expr = &ast.ExpressionValue{Span: v.Text.Span, ExpressionSpan: v.Text.Span, Expression: v.Text.Value, IsQuoted: true}
		}
	} else {
		p.s.Seek(saved)
	}

	return &ast.Directive{
		AttrSpan:   p.span(start, p.s.Pos()),
		Kind:       kind,
		Name:       target,
		Modifiers:  modifiers,
		Expression: expr,
	}
}

func isModifierPart(b byte) bool {
	return isIdentPartByte(b)
}

func isIdentPartByte(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

func directiveKindFromName(name string) (ast.DirectiveKind, bool) {
	switch name {
	case "on":
		return ast.DirectiveOn, true
	case "bind":
		return ast.DirectiveBind, true
	case "class":
		return ast.DirectiveClass, true
	case "style":
		return ast.DirectiveStyle, true
	case "use":
		return ast.DirectiveUse, true
	case "transition":
		return ast.DirectiveTransition, true
	case "in":
		return ast.DirectiveIn, true
	case "out":
		return ast.DirectiveOut, true
	case "animate":
		return ast.DirectiveAnimate, true
	case "let":
		return ast.DirectiveLet, true
	default:
		return 0, false
	}
}

func (p *Parser) parseAttributeValue() ast.AttributeValue {
	saved := p.s.Pos()
	tok := p.s.NextTag()
	switch tok.Kind {
	case lexer.KindDoubleQuote:
		return p.parseQuotedAttributeValue('"')
	case lexer.KindSingleQuote:
		return p.parseQuotedAttributeValue('\'')
	case lexer.KindLBrace:
		start, end := p.s.ScanExpressionSpan()
		exprSpan := p.span(start, end)
		return ast.AttributeValue{
			Kind: ast.ValueExpression,
			Expr: &ast.ExpressionValue{
				Span:           p.span(tok.Span.Start, p.s.Pos()),
				ExpressionSpan: exprSpan,
				Expression:     p.s.Slice(start, end),
			},
		}
	default:
		p.s.Seek(saved)
		unquoted := p.s.ScanAttributeText(0)
		return ast.AttributeValue{Kind: ast.ValueText, Text: &ast.TextValue{Span: unquoted.Span, Value: unquoted.Text}}
	}
}

// parseQuotedAttributeValue handles name="value", name="{expr}", and
// name="text {expr} more text" concatenation, up to the matching quote.
func (p *Parser) parseQuotedAttributeValue(quote byte) ast.AttributeValue {
	var parts []ast.AttributeValuePart
	for {
		textTok := p.s.ScanAttributeText(quote)
		if textTok.Text != "" {
			parts = append(parts, ast.AttributeValuePart{Text: &ast.TextValue{Span: textTok.Span, Value: textTok.Text}})
		}
		if p.s.Peek() == '{' {
			braceStart := p.s.Pos()
			p.s.Advance() // consume '{'
			start, end := p.s.ScanExpressionSpan()
			parts = append(parts, ast.AttributeValuePart{Expr: &ast.ExpressionValue{
				Span:           p.span(braceStart, p.s.Pos()),
				ExpressionSpan: p.span(start, end),
				Expression:     p.s.Slice(start, end),
			}})
			continue
		}
		break
	}
	// Consume the closing quote.
	closeSaved := p.s.Pos()
	closeTok := p.s.NextTag()
	wantKind := lexer.KindDoubleQuote
	if quote == '\'' {
		wantKind = lexer.KindSingleQuote
	}
	if closeTok.Kind != wantKind {
		p.s.Seek(closeSaved)
		p.addError(ErrInvalidAttribute, p.span(closeSaved, closeSaved), "unterminated quoted attribute value")
	}

	switch len(parts) {
	case 0:
		return ast.AttributeValue{Kind: ast.ValueText, Text: &ast.TextValue{}}
	case 1:
		if parts[0].Text != nil {
			return ast.AttributeValue{Kind: ast.ValueText, Text: parts[0].Text}
		}
		ev := *parts[0].Expr
		ev.IsQuoted = true
		return ast.AttributeValue{Kind: ast.ValueExpression, Expr: &ev}
	default:
		return ast.AttributeValue{Kind: ast.ValueConcat, Concat: parts}
	}
}

func (p *Parser) parseSpreadOrShorthandOrAttach() ast.Attribute {
	braceStart := p.s.Pos()
	p.s.NextTag() // consume '{'

	saved := p.s.Pos()
	if p.s.HasPrefix("...") {
		p.s.AdvanceBytes(3)
		start, end := p.s.ScanExpressionSpan()
		return &ast.SpreadAttribute{
			AttrSpan:       p.span(braceStart, p.s.Pos()),
			ExpressionSpan: p.span(start, end),
			Expression:     p.s.Slice(start, end),
		}
	}
	if p.s.HasPrefix("@attach") {
		p.s.AdvanceBytes(uint32(len("@attach")))
		start, end := p.s.ScanExpressionSpan()
		return &ast.AttachAttribute{
			AttrSpan:       p.span(braceStart, p.s.Pos()),
			ExpressionSpan: p.span(start, end),
			Expression:     strings.TrimSpace(p.s.Slice(start, end)),
		}
	}
	p.s.Seek(saved)
	start, end := p.s.ScanExpressionSpan()
	return &ast.ShorthandAttribute{
		AttrSpan: p.span(braceStart, p.s.Pos()),
		Name:     strings.TrimSpace(p.s.Slice(start, end)),
	}
}

// parseChildren parses child nodes of an element/component until the
// matching "</name>" close tag or EOF.
func (p *Parser) parseChildren(parentTag string) []ast.TemplateNode {
	var nodes []ast.TemplateNode
	for {
		if p.s.Eof() {
			p.addError(ErrUnclosedTag, p.span(p.s.Pos(), p.s.Pos()), "unclosed tag <%s>", parentTag)
			return nodes
		}
		saved := p.s.Pos()
		tok := p.s.NextTemplate()
		if tok.Kind == lexer.KindLAngleSlash {
			nameTok := p.s.NextTag()
			if !strings.EqualFold(nameTok.Text, parentTag) {
				p.addError(ErrMismatchedClosingTag, nameTok.Span, "mismatched closing tag: expected </%s>, found </%s>", parentTag, nameTok.Text)
			}
			p.s.NextTag() // '>'
			return nodes
		}
		p.s.Seek(saved)
		if node := p.parseTemplateNodeFrom(); node != nil {
			nodes = append(nodes, node)
		} else {
			// Avoid infinite loop on unrecoverable input: force progress.
			if p.s.Pos() == saved {
				p.s.Advance()
			}
		}
	}
}
