package svelteparser

import (
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
)

// parseBlock parses a `{#...}` block after its opening "{#" has already
// been consumed; blockStart is the byte offset of that '{'.
func (p *Parser) parseBlock(blockStart uint32) ast.TemplateNode {
	kwTok := p.s.NextTag()
	switch kwTok.Text {
	case "if":
		return p.parseIfBlockBody(blockStart)
	case "each":
		return p.parseEachBlock(blockStart)
	case "await":
		return p.parseAwaitBlock(blockStart)
	case "key":
		return p.parseKeyBlock(blockStart)
	case "snippet":
		return p.parseSnippetBlock(blockStart)
	default:
		p.addError(ErrUnknownBlock, kwTok.Span, "unknown block type: %s", kwTok.Text)
		return nil
	}
}

// parseIfBlockBody parses everything after "{#if" (or, for a chained
// "{:else if", after that "if" keyword): the condition, consequent, and
// optional else/else-if chain. blockStart anchors the span for THIS level
// of the chain — for a top-level {#if}, that's the opening '{'; for an
// else-if link, it's where its own "if" keyword began.
func (p *Parser) parseIfBlockBody(blockStart uint32) *ast.IfBlock {
	p.s.SkipInlineSpace()
	condStart, condEnd := p.s.ScanExpressionSpan()

	consequent := p.parseBlockChildren("{:else", "{/if")

	var alternate ast.ElseBranch
	if p.s.HasPrefix("{:else") {
		p.s.AdvanceBytes(2) // "{:"
		p.s.NextTag()       // "else"
		saved := p.s.Pos()
		next := p.s.NextTag()
		if next.Text == "if" {
			p.s.SkipInlineSpace()
			inner := p.parseIfBlockBody(next.Span.Start)
			alternate = ast.ElseIf{Block: inner}
		} else {
			p.s.Seek(saved)
			p.s.Eat('}')
			elseBody := p.parseBlockChildren("{/if")
			alternate = ast.ElseFragment{Body: elseBody}
		}
	}

	p.eatBlockClose("if")

	return &ast.IfBlock{
		NodeSpan:      p.span(blockStart, p.s.Pos()),
		ConditionSpan: p.span(condStart, condEnd),
		Condition:     p.s.Slice(condStart, condEnd),
		Consequent:    consequent,
		Alternate:     alternate,
	}
}

// parseEachBlock parses `{#each expr as binding, index (key)}...{/each}`.
func (p *Parser) parseEachBlock(blockStart uint32) ast.TemplateNode {
	p.s.SkipInlineSpace()
	exprStart := p.s.Pos()

	// The iterable expression runs up to " as " (not inside strings/etc);
	// ScanExpressionSpan stops at the block's closing '}', so scan that
	// first and split on " as " within the captured text to recover the
	// expression vs. the binding clause, matching how the grammar reads:
	// everything between "each" and the matching '}' is one balanced run.
	fullStart, fullEnd := p.s.ScanExpressionSpan()
	full := p.s.Slice(fullStart, fullEnd)

	exprText, bindingClause := splitEachClause(full)

	context, contextOffset, index, key := parseEachBindingClause(bindingClause)

	body := p.parseBlockChildren("{:else", "{/each")
	var fallback *ast.Fragment
	if p.s.HasPrefix("{:else") {
		p.s.AdvanceBytes(2)
		p.s.NextTag() // "else"
		p.s.Eat('}')
		fb := p.parseBlockChildren("{/each")
		fallback = &fb
	}
	p.eatBlockClose("each")

	var keyNode *ast.EachKey
	if key != "" {
		keyNode = &ast.EachKey{Expression: key}
	}

	contextStart := exprStart + uint32(len(exprText))
	_ = contextOffset
	return &ast.EachBlock{
		NodeSpan:       p.span(blockStart, p.s.Pos()),
		ExpressionSpan: p.span(exprStart, exprStart+uint32(len(exprText))),
		Expression:     strings.TrimSpace(exprText),
		Context:        context,
		ContextSpan:    p.span(contextStart, fullEnd),
		Index:          index,
		Key:            keyNode,
		Body:           body,
		Fallback:       fallback,
	}
}

// splitEachClause separates "expr as binding, index (key)" on the first
// top-level " as " occurrence (not inside brackets/braces/parens/strings).
func splitEachClause(full string) (expr, bindingClause string) {
	depth := 0
	var quote byte
	for i := 0; i+4 <= len(full); i++ {
		c := full[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
		if depth == 0 && quote == 0 && full[i:i+4] == " as " {
			return full[:i], full[i+4:]
		}
	}
	return full, ""
}

// parseEachBindingClause splits "binding, index (key)" into its parts.
// binding may itself be a destructuring pattern containing commas inside
// brackets, so the top-level split honors bracket/paren/brace depth.
func parseEachBindingClause(clause string) (context string, contextLen int, index string, key string) {
	clause = strings.TrimSpace(clause)
	keyExpr := ""
	if open := strings.LastIndex(clause, "("); open != -1 && strings.HasSuffix(clause, ")") {
		keyExpr = strings.TrimSpace(clause[open+1 : len(clause)-1])
		clause = strings.TrimSpace(clause[:open])
	}
	parts := splitTopLevelComma(clause)
	context = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		index = strings.TrimSpace(parts[1])
	}
	return context, len(context), index, keyExpr
}

func splitTopLevelComma(s string) []string {
	var parts []string
	depth := 0
	var quote byte
	last := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, s[last:])
	return parts
}

// parseAwaitBlock parses `{#await expr}{:then v}...{:catch e}...{/await}`.
func (p *Parser) parseAwaitBlock(blockStart uint32) ast.TemplateNode {
	p.s.SkipInlineSpace()
	exprStart, exprEnd := p.s.ScanExpressionSpan()

	block := &ast.AwaitBlock{
		ExpressionSpan: p.span(exprStart, exprEnd),
		Expression:     p.s.Slice(exprStart, exprEnd),
	}

	pending := p.parseBlockChildren("{:then", "{:catch", "{/await")
	if len(pending.Nodes) > 0 {
		block.Pending = &pending
	}

	if p.s.HasPrefix("{:then") {
		thenStart := p.s.Pos()
		p.s.AdvanceBytes(2)
		p.s.NextTag() // "then"
		p.s.SkipInlineSpace()
		value := p.scanOptionalBindingName()
		p.s.Eat('}')
		body := p.parseBlockChildren("{:catch", "{/await")
		block.Then = &ast.AwaitThen{Span: p.span(thenStart, p.s.Pos()), Value: value, Body: body}
	}
	if p.s.HasPrefix("{:catch") {
		catchStart := p.s.Pos()
		p.s.AdvanceBytes(2)
		p.s.NextTag() // "catch"
		p.s.SkipInlineSpace()
		errName := p.scanOptionalBindingName()
		p.s.Eat('}')
		body := p.parseBlockChildren("{/await")
		block.Catch = &ast.AwaitCatch{Span: p.span(catchStart, p.s.Pos()), Error: errName, Body: body}
	}
	p.eatBlockClose("await")
	block.NodeSpan = p.span(blockStart, p.s.Pos())
	return block
}

func (p *Parser) scanOptionalBindingName() string {
	if p.s.Peek() == '}' {
		return ""
	}
	start, end := p.s.ScanExpressionSpan()
	// ScanExpressionSpan already consumed the closing '}'; undo that since
	// callers expect to Eat('}') themselves for the other branches. To
	// keep this symmetric we instead rewind to just before '}' here.
	p.s.Seek(end)
	return strings.TrimSpace(p.s.Slice(start, end))
}

// parseKeyBlock parses `{#key expr}...{/key}`.
func (p *Parser) parseKeyBlock(blockStart uint32) ast.TemplateNode {
	p.s.SkipInlineSpace()
	exprStart, exprEnd := p.s.ScanExpressionSpan()
	body := p.parseBlockChildren("{/key")
	p.eatBlockClose("key")
	return &ast.KeyBlock{
		NodeSpan:       p.span(blockStart, p.s.Pos()),
		ExpressionSpan: p.span(exprStart, exprEnd),
		Expression:     p.s.Slice(exprStart, exprEnd),
		Body:           body,
	}
}

// parseSnippetBlock parses `{#snippet name(params)}...{/snippet}`.
func (p *Parser) parseSnippetBlock(blockStart uint32) ast.TemplateNode {
	p.s.SkipInlineSpace()
	nameTok := p.s.NextTag()
	var paramsStart, paramsEnd uint32
	if ok := p.s.Peek() == '('; ok {
		start, end, matched := p.s.ScanBalancedParens()
		if matched {
			paramsStart, paramsEnd = start, end
		}
	}
	p.s.Eat('}')
	body := p.parseBlockChildren("{/snippet")
	p.eatBlockClose("snippet")
	return &ast.SnippetBlock{
		NodeSpan:       p.span(blockStart, p.s.Pos()),
		Name:           nameTok.Text,
		ParametersSpan: p.span(paramsStart, paramsEnd),
		Parameters:     p.s.Slice(paramsStart, paramsEnd),
		Body:           body,
	}
}

// parseBlockChildren parses nodes until the current position has one of
// the given literal prefixes (e.g. "{:else", "{/if"), which it does not
// consume.
func (p *Parser) parseBlockChildren(stopPrefixes ...string) ast.Fragment {
	start := p.s.Pos()
	var nodes []ast.TemplateNode
	for {
		if p.s.Eof() {
			p.addError(ErrUnclosedBlock, p.span(start, p.s.Pos()), "unclosed block")
			break
		}
		stopped := false
		for _, pre := range stopPrefixes {
			if p.s.HasPrefix(pre) {
				stopped = true
				break
			}
		}
		if stopped {
			break
		}
		saved := p.s.Pos()
		if node := p.parseTemplateNodeFrom(); node != nil {
			nodes = append(nodes, node)
		} else if p.s.Pos() == saved {
			p.s.Advance()
		}
	}
	return ast.Fragment{Nodes: nodes, Span: p.span(start, p.s.Pos())}
}

// eatBlockClose attempts to consume "{/keyword}" at the current position.
// Like the grammar it's grounded on, a failed match is not itself an
// error here: in an else-if chain, the innermost link already consumed
// the shared "{/if}" and outer links' attempts are expected no-ops.
func (p *Parser) eatBlockClose(keyword string) bool {
	saved := p.s.Pos()
	if !p.s.HasPrefix("{/") {
		return false
	}
	p.s.AdvanceBytes(2)
	kwTok := p.s.NextTag()
	if !strings.EqualFold(kwTok.Text, keyword) {
		p.s.Seek(saved)
		return false
	}
	p.s.Eat('}')
	return true
}
