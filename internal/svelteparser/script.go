package svelteparser

import (
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/lexer"
)

// parseScriptTag parses a <script ...> block. tagStart is the byte offset
// of the already-lexed '<'. lang is js unless an explicit lang="ts"
// attribute says otherwise; context is instance unless context="module"
// or a bare `module` attribute is present.
func (p *Parser) parseScriptTag(tagStart uint32) *ast.Script {
	p.s.NextTag() // consume "script"
	attrs, selfClosing := p.parseAttributes()
	if selfClosing {
		// <script/> with no body is degenerate but not invalid; treat as
		// an empty script rather than erroring.
		return &ast.Script{
			Span:    p.span(tagStart, p.s.Pos()),
			Lang:    scriptLangFromAttrs(attrs),
			Context: scriptContextFromAttrs(attrs),
			Attributes: attrs,
		}
	}

	contentTok := p.s.ScanRawText("script")
	p.parseClosingTag("script")

	return &ast.Script{
		Span:        p.span(tagStart, p.s.Pos()),
		ContentSpan: contentTok.Span,
		Content:     contentTok.Text,
		Lang:        scriptLangFromAttrs(attrs),
		Context:     scriptContextFromAttrs(attrs),
		Attributes:  attrs,
	}
}

func (p *Parser) parseStyleTag(tagStart uint32) *ast.Style {
	p.s.NextTag() // consume "style"
	attrs, selfClosing := p.parseAttributes()
	global := hasBooleanOrTrueAttr(attrs, "global")
	if selfClosing {
		return &ast.Style{Span: p.span(tagStart, p.s.Pos()), Global: global, Attributes: attrs}
	}

	contentTok := p.s.ScanRawText("style")
	p.parseClosingTag("style")

	return &ast.Style{
		Span:        p.span(tagStart, p.s.Pos()),
		ContentSpan: contentTok.Span,
		Content:     contentTok.Text,
		Global:      global,
		Attributes:  attrs,
	}
}

// parseClosingTag consumes "</name>" (or as much of it as is present),
// recording a recoverable error on mismatch.
func (p *Parser) parseClosingTag(expectedName string) {
	saved := p.s.Pos()
	tok := p.s.NextTemplate()
	if tok.Kind != lexer.KindLAngleSlash {
		p.s.Seek(saved)
		p.addError(ErrUnclosedTag, p.span(saved, saved), "unclosed tag <%s>", expectedName)
		return
	}
	nameTok := p.s.NextTag()
	if !strings.EqualFold(nameTok.Text, expectedName) {
		p.addError(ErrMismatchedClosingTag, nameTok.Span, "mismatched closing tag: expected </%s>, found </%s>", expectedName, nameTok.Text)
	}
	closeTok := p.s.NextTag()
	if closeTok.Kind != lexer.KindRAngle {
		p.addError(ErrUnexpectedToken, closeTok.Span, "expected '>' closing </%s>", expectedName)
	}
}

func scriptLangFromAttrs(attrs []ast.Attribute) ast.ScriptLang {
	if v, ok := attrTextValue(attrs, "lang"); ok && strings.EqualFold(v, "ts") {
		return ast.LangTypeScript
	}
	return ast.LangJavaScript
}

func scriptContextFromAttrs(attrs []ast.Attribute) ast.ScriptContext {
	if v, ok := attrTextValue(attrs, "context"); ok && strings.EqualFold(v, "module") {
		return ast.ContextModule
	}
	if hasBooleanOrTrueAttr(attrs, "module") {
		return ast.ContextModule
	}
	return ast.ContextInstance
}

func attrTextValue(attrs []ast.Attribute, name string) (string, bool) {
	for _, a := range attrs {
		na, ok := a.(*ast.NormalAttribute)
		if !ok || !strings.EqualFold(na.Name, name) {
			continue
		}
		if na.Value.Kind == ast.ValueText && na.Value.Text != nil {
			return na.Value.Text.Value, true
		}
	}
	return "", false
}

func hasBooleanOrTrueAttr(attrs []ast.Attribute, name string) bool {
	for _, a := range attrs {
		na, ok := a.(*ast.NormalAttribute)
		if !ok || !strings.EqualFold(na.Name, name) {
			continue
		}
		return na.Value.Kind == ast.ValueTrue
	}
	return false
}
