package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextTemplateText(t *testing.T) {
	s := New(1, []byte("hello world"))
	tok := s.NextTemplate()
	assert.Equal(t, KindText, tok.Kind)
	assert.Equal(t, "hello world", tok.Text)
}

func TestNextTemplateTagOpen(t *testing.T) {
	s := New(1, []byte("<div>"))
	tok := s.NextTemplate()
	assert.Equal(t, KindLAngle, tok.Kind)
	tok = s.NextTag()
	assert.Equal(t, KindIdent, tok.Kind)
	assert.Equal(t, "div", tok.Text)
	tok = s.NextTag()
	assert.Equal(t, KindRAngle, tok.Kind)
}

func TestNextTemplateCloseTag(t *testing.T) {
	s := New(1, []byte("</div>"))
	tok := s.NextTemplate()
	assert.Equal(t, KindLAngleSlash, tok.Kind)
}

func TestNextTemplateSelfClosing(t *testing.T) {
	s := New(1, []byte("<img/>"))
	s.NextTemplate()
	s.NextTag()
	tok := s.NextTag()
	assert.Equal(t, KindSlashRAngle, tok.Kind)
}

func TestNextTemplateExpressionVsBlockOpen(t *testing.T) {
	s := New(1, []byte("{#if x}{y}{:else}{/if}{@html z}"))
	tok := s.NextTemplate()
	assert.Equal(t, KindLBraceHash, tok.Kind)

	s2 := New(1, []byte("{y}"))
	tok2 := s2.NextTemplate()
	assert.Equal(t, KindLBrace, tok2.Kind)
}

func TestNextTemplateComment(t *testing.T) {
	s := New(1, []byte("<!-- svelte-ignore a11y-click-events-have-key-events -->"))
	tok := s.NextTemplate()
	assert.Equal(t, KindComment, tok.Kind)
	assert.Contains(t, tok.Text, "svelte-ignore")
}

func TestNamespacedIdent(t *testing.T) {
	s := New(1, []byte("<svelte:window>"))
	s.NextTemplate()
	tok := s.NextTag()
	assert.Equal(t, KindNamespacedIdent, tok.Kind)
	assert.Equal(t, "svelte:window", tok.Text)
}

func TestScanExpressionSpanSimple(t *testing.T) {
	s := New(1, []byte("a + b}rest"))
	start, end := s.ScanExpressionSpan()
	assert.Equal(t, "a + b", s.Slice(start, end))
	assert.Equal(t, byte('r'), s.Peek())
}

func TestScanExpressionSpanIgnoresBraceInString(t *testing.T) {
	s := New(1, []byte(`"a}b" + c}rest`))
	start, end := s.ScanExpressionSpan()
	assert.Equal(t, `"a}b" + c`, s.Slice(start, end))
}

func TestScanExpressionSpanNestedBraces(t *testing.T) {
	s := New(1, []byte("{ a: 1 }}rest"))
	start, end := s.ScanExpressionSpan()
	assert.Equal(t, "{ a: 1 }", s.Slice(start, end))
	assert.Equal(t, byte('r'), s.Peek())
}

func TestScanExpressionSpanTemplateLiteralWithInterpolation(t *testing.T) {
	s := New(1, []byte("`hi ${ name }!`}rest"))
	start, end := s.ScanExpressionSpan()
	assert.Equal(t, "`hi ${ name }!`", s.Slice(start, end))
}

func TestScanExpressionSpanRegexNotDivision(t *testing.T) {
	s := New(1, []byte("/abc}/.test(x)}rest"))
	start, end := s.ScanExpressionSpan()
	assert.Equal(t, "/abc}/.test(x)", s.Slice(start, end))
}

func TestScanExpressionSpanDivisionAfterIdent(t *testing.T) {
	s := New(1, []byte("a / b}rest"))
	start, end := s.ScanExpressionSpan()
	assert.Equal(t, "a / b", s.Slice(start, end))
}

func TestScanBalancedParens(t *testing.T) {
	s := New(1, []byte("(a, { b: 1 }, \"x)y\")rest"))
	start, end, ok := s.ScanBalancedParens()
	assert.True(t, ok)
	assert.Equal(t, `a, { b: 1 }, "x)y"`, s.Slice(start, end))
	assert.Equal(t, byte('r'), s.Peek())
}

func TestScanRawText(t *testing.T) {
	s := New(1, []byte("console.log(1)</script>"))
	tok := s.ScanRawText("script")
	assert.Equal(t, "console.log(1)", tok.Text)
	assert.True(t, s.HasPrefix("</script>"))
}

func TestIsRawTextElement(t *testing.T) {
	assert.True(t, IsRawTextElement("script"))
	assert.True(t, IsRawTextElement("style"))
	assert.False(t, IsRawTextElement("div"))
}
