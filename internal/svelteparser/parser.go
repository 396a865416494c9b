package svelteparser

import (
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/lexer"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// Result is the output of Parse: a fully populated document plus whatever
// recoverable errors were encountered along the way. Document is never nil.
type Result struct {
	Document *ast.Document
	Errors   []Error
}

// Parser holds the mutable state of a single parse: the scanner cursor and
// the accumulated error list. A Parser is single-use.
type Parser struct {
	s      *lexer.Scanner
	errors []Error
	file   position.FileID
}

// Parse parses a single component file's source into a document. It never
// panics: malformed input produces a best-effort document plus errors.
func Parse(file position.FileID, src []byte) Result {
	p := &Parser{s: lexer.New(file, src), file: file}
	doc := p.parseDocument()
	return Result{Document: doc, Errors: p.errors}
}

// ParseModule wraps a whole .svelte.ts / .svelte.js module file as a
// document holding one instance script and no template. Rune modules get
// the same rune rewrites as a component's script, but there is no markup
// to parse.
func ParseModule(file position.FileID, src []byte, lang ast.ScriptLang) Result {
	end := uint32(len(src))
	span := position.Span{File: file, End: end}
	doc := &ast.Document{
		InstanceScript: &ast.Script{
			Span:        span,
			ContentSpan: span,
			Content:     string(src),
			Lang:        lang,
			Context:     ast.ContextInstance,
		},
		Fragment: ast.Fragment{Span: position.Span{File: file, Start: end, End: end}},
		Span:     span,
	}
	return Result{Document: doc}
}

func (p *Parser) addError(kind ErrorKind, span position.Span, format string, args ...any) {
	p.errors = append(p.errors, newError(kind, span, format, args...))
}

func (p *Parser) span(start, end uint32) position.Span {
	return position.Span{File: p.file, Start: start, End: end}
}

func (p *Parser) parseDocument() *ast.Document {
	doc := &ast.Document{}
	start := p.s.Pos()
	var nodes []ast.TemplateNode

	for !p.s.Eof() {
		saved := p.s.Pos()
		tok := p.s.NextTemplate()

		switch tok.Kind {
		case lexer.KindEOF:
			break
		case lexer.KindLAngle:
			name, _ := p.peekTagNameAfterLAngle()
			switch strings.ToLower(name) {
			case "script":
				if script := p.parseScriptTag(tok.Span.Start); script != nil {
					if script.Context == ast.ContextModule {
						doc.ModuleScript = script
					} else {
						doc.InstanceScript = script
					}
				}
				continue
			case "style":
				if style := p.parseStyleTag(tok.Span.Start); style != nil {
					doc.Style = style
				}
				continue
			}
			p.s.Seek(saved)
			if node := p.parseTemplateNodeFrom(); node != nil {
				nodes = append(nodes, node)
			}
		default:
			p.s.Seek(saved)
			if node := p.parseTemplateNodeFrom(); node != nil {
				nodes = append(nodes, node)
			}
		}
	}

	doc.Fragment = ast.Fragment{Nodes: nodes, Span: p.span(start, p.s.Pos())}
	doc.Span = p.span(start, p.s.Pos())
	return doc
}

// peekTagNameAfterLAngle assumes the '<' has just been consumed and peeks
// the following identifier without consuming it, restoring position.
func (p *Parser) peekTagNameAfterLAngle() (name string, isClosing bool) {
	saved := p.s.Pos()
	tok := p.s.NextTag()
	name = tok.Text
	p.s.Seek(saved)
	return name, false
}

// parseTemplateNodeFrom dispatches on the next template-mode token,
// consuming exactly the tokens that belong to the node it returns. Returns
// nil (with an error already recorded) when nothing could be parsed, which
// callers use as a signal to stop rather than loop forever.
func (p *Parser) parseTemplateNodeFrom() ast.TemplateNode {
	saved := p.s.Pos()
	tok := p.s.NextTemplate()

	switch tok.Kind {
	case lexer.KindText:
		return &ast.Text{NodeSpan: tok.Span, Data: tok.Text, IsWhitespace: isAllWhitespace(tok.Text)}
	case lexer.KindComment:
		return &ast.Comment{NodeSpan: tok.Span, Data: strings.TrimSuffix(strings.TrimPrefix(tok.Text, "<!--"), "-->")}
	case lexer.KindLAngle:
		return p.parseElementOrComponent(tok.Span.Start)
	case lexer.KindLBrace:
		return p.parseExpressionTag(tok.Span.Start)
	case lexer.KindLBraceAt:
		return p.parseSpecialTag(tok.Span.Start)
	case lexer.KindLBraceHash:
		return p.parseBlock(tok.Span.Start)
	case lexer.KindLAngleSlash, lexer.KindLBraceSlash, lexer.KindLBraceColon:
		// The caller (parseChildren/parseBlockChildren) is responsible for
		// recognizing these as terminators before calling us; reaching
		// here means an unexpected close with nothing open.
		p.addError(ErrUnexpectedToken, tok.Span, "unexpected %s with no matching open", tok.Kind)
		return nil
	case lexer.KindEOF:
		return nil
	default:
		p.addError(ErrUnexpectedToken, tok.Span, "unexpected token %s", tok.Kind)
		_ = saved
		return nil
	}
}

func isAllWhitespace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}
