package ast

import "github.com/svelte-tools/svelte-check-go/internal/position"

// Attribute is any attribute-position construct on an element or component
// tag: a normal name/value pair, a spread, a directive, shorthand, or an
// {@attach} attachment.
type Attribute interface {
	Span() position.Span
	attribute()
}

// AttributeValueKind distinguishes the four shapes a normal attribute's
// value can take.
type AttributeValueKind int

const (
	// ValueTrue marks a boolean attribute with no value, e.g. <input disabled>.
	ValueTrue AttributeValueKind = iota
	// ValueText marks a plain string literal value.
	ValueText
	// ValueExpression marks a `{expr}` value.
	ValueExpression
	// ValueConcat marks a value built from alternating text and expression
	// parts, e.g. class="a {b} c".
	ValueConcat
)

// TextValue is a literal text fragment inside an attribute value.
type TextValue struct {
	Span  position.Span
	Value string
}

// ExpressionValue is an `{expr}` fragment inside an attribute value.
type ExpressionValue struct {
	Span           position.Span
	ExpressionSpan position.Span
	Expression     string
	// IsQuoted is true for directive values written as quoted strings
	// (e.g. style:color="red"), which the transformer emits as string
	// literals rather than bare identifiers.
	IsQuoted bool
}

// AttributeValuePart is one element of a ValueConcat attribute value.
type AttributeValuePart struct {
	Text *TextValue       // set when this part is literal text
	Expr *ExpressionValue // set when this part is an expression
}

// AttributeValue holds a normal attribute's value, tagged by Kind.
type AttributeValue struct {
	Kind   AttributeValueKind
	Text   *TextValue       // set when Kind == ValueText
	Expr   *ExpressionValue // set when Kind == ValueExpression
	Concat []AttributeValuePart // set when Kind == ValueConcat
}

// NormalAttribute is a plain name="value" or name={expr} attribute.
type NormalAttribute struct {
	AttrSpan position.Span
	Name     string
	Value    AttributeValue
}

func (a *NormalAttribute) Span() position.Span { return a.AttrSpan }
func (*NormalAttribute) attribute()            {}

// SpreadAttribute is a `{...obj}` attribute.
type SpreadAttribute struct {
	AttrSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
}

func (a *SpreadAttribute) Span() position.Span { return a.AttrSpan }
func (*SpreadAttribute) attribute()            {}

// AttachAttribute is an `{@attach expr}` attribute.
type AttachAttribute struct {
	AttrSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
}

func (a *AttachAttribute) Span() position.Span { return a.AttrSpan }
func (*AttachAttribute) attribute()            {}

// ShorthandAttribute is a `{value}` shorthand for value={value}.
type ShorthandAttribute struct {
	AttrSpan position.Span
	Name     string
}

func (a *ShorthandAttribute) Span() position.Span { return a.AttrSpan }
func (*ShorthandAttribute) attribute()            {}

// DirectiveKind identifies which directive namespace (the part before the
// colon) a Directive belongs to.
type DirectiveKind int

const (
	DirectiveOn DirectiveKind = iota
	DirectiveBind
	DirectiveClass
	DirectiveStyle
	DirectiveUse
	DirectiveTransition
	DirectiveIn
	DirectiveOut
	DirectiveAnimate
	DirectiveLet
)

// Directive is a `namespace:name|modifiers={expr}` construct, e.g.
// on:click|once={handleClick} or bind:value.
type Directive struct {
	AttrSpan   position.Span
	Kind       DirectiveKind
	Name       string
	Modifiers  []string
	Expression *ExpressionValue // nil for shorthand directives like bind:value
}

func (a *Directive) Span() position.Span { return a.AttrSpan }
func (*Directive) attribute()            {}
