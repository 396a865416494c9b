package ast

import "github.com/svelte-tools/svelte-check-go/internal/position"

// TemplateNode is any node that can appear inside a Fragment. The interface
// is closed: templateNode() is unexported, so only the concrete types in
// this package satisfy it. Callers exhaustively switch on the concrete type
// via a type switch; adding a new node kind is a compile-time break at every
// such switch, by design.
type TemplateNode interface {
	Span() position.Span
	templateNode()
}

// Element is a plain HTML element, e.g. <div>.
type Element struct {
	NodeSpan    position.Span
	Name        string
	Attributes  []Attribute
	Children    []TemplateNode
	SelfClosing bool
}

func (n *Element) Span() position.Span { return n.NodeSpan }
func (*Element) templateNode()         {}

// Component is a reference to another Svelte component, distinguished from
// Element by a capitalized tag name.
type Component struct {
	NodeSpan    position.Span
	Name        string
	Attributes  []Attribute
	Children    []TemplateNode
	SelfClosing bool
}

func (n *Component) Span() position.Span { return n.NodeSpan }
func (*Component) templateNode()         {}

// SvelteElementKind identifies which svelte:* special element this is.
type SvelteElementKind int

const (
	SvelteSelf SvelteElementKind = iota
	SvelteComponentKind
	SvelteElement_
	SvelteWindow
	SvelteDocument
	SvelteBody
	SvelteHead
	SvelteOptions
	SvelteFragment
	SvelteBoundary
)

// SvelteElementNode is a svelte:* reserved element.
type SvelteElementNode struct {
	NodeSpan   position.Span
	Kind       SvelteElementKind
	Attributes []Attribute
	Children   []TemplateNode
}

func (n *SvelteElementNode) Span() position.Span { return n.NodeSpan }
func (*SvelteElementNode) templateNode()         {}

// Text is literal text content between tags.
type Text struct {
	NodeSpan     position.Span
	Data         string
	IsWhitespace bool
}

func (n *Text) Span() position.Span { return n.NodeSpan }
func (*Text) templateNode()         {}

// Comment is an HTML comment, potentially carrying svelte-ignore directives.
type Comment struct {
	NodeSpan position.Span
	Data     string
}

func (n *Comment) Span() position.Span { return n.NodeSpan }
func (*Comment) templateNode()         {}

// ExpressionTag is a `{expr}` interpolation.
type ExpressionTag struct {
	NodeSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
}

func (n *ExpressionTag) Span() position.Span { return n.NodeSpan }
func (*ExpressionTag) templateNode()         {}

// HtmlTag is an `{@html expr}` tag.
type HtmlTag struct {
	NodeSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
}

func (n *HtmlTag) Span() position.Span { return n.NodeSpan }
func (*HtmlTag) templateNode()         {}

// ConstTag is an `{@const name = expr}` tag.
type ConstTag struct {
	NodeSpan        position.Span
	DeclarationSpan position.Span
	Declaration     string
}

func (n *ConstTag) Span() position.Span { return n.NodeSpan }
func (*ConstTag) templateNode()         {}

// DebugTag is an `{@debug a, b}` tag.
type DebugTag struct {
	NodeSpan    position.Span
	Identifiers []string
}

func (n *DebugTag) Span() position.Span { return n.NodeSpan }
func (*DebugTag) templateNode()         {}

// RenderTag is an `{@render snippet(args)}` tag.
type RenderTag struct {
	NodeSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
}

func (n *RenderTag) Span() position.Span { return n.NodeSpan }
func (*RenderTag) templateNode()         {}

// IfBlock is an `{#if cond}...{/if}` block, with an optional chained
// else/else-if branch.
type IfBlock struct {
	NodeSpan     position.Span
	ConditionSpan position.Span
	Condition    string
	Consequent   Fragment
	Alternate    ElseBranch // nil if there is no else branch
}

func (n *IfBlock) Span() position.Span { return n.NodeSpan }
func (*IfBlock) templateNode()         {}

// ElseBranch is either a plain {:else} fragment or a chained {:else if}.
type ElseBranch interface {
	elseBranch()
}

// ElseFragment is a plain `{:else}` branch.
type ElseFragment struct {
	Body Fragment
}

func (ElseFragment) elseBranch() {}

// ElseIf is a chained `{:else if cond}` branch.
type ElseIf struct {
	Block *IfBlock
}

func (ElseIf) elseBranch() {}

// EachKey is the `(key)` expression in an {#each list as item (key)} block.
type EachKey struct {
	Span       position.Span
	Expression string
}

// EachBlock is an `{#each expr as context, index (key)}...{/each}` block.
type EachBlock struct {
	NodeSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
	Context        string
	ContextSpan    position.Span
	Index          string // empty if absent
	Key            *EachKey
	Body           Fragment
	Fallback       *Fragment // the {:else} branch for an empty list
}

func (n *EachBlock) Span() position.Span { return n.NodeSpan }
func (*EachBlock) templateNode()         {}

// AwaitThen is the `{:then value}` branch of an {#await} block.
type AwaitThen struct {
	Span  position.Span
	Value string // empty if absent
	Body  Fragment
}

// AwaitCatch is the `{:catch error}` branch of an {#await} block.
type AwaitCatch struct {
	Span  position.Span
	Error string // empty if absent
	Body  Fragment
}

// AwaitBlock is an `{#await promise}...{/await}` block.
type AwaitBlock struct {
	NodeSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
	Pending        *Fragment
	Then           *AwaitThen
	Catch          *AwaitCatch
}

func (n *AwaitBlock) Span() position.Span { return n.NodeSpan }
func (*AwaitBlock) templateNode()         {}

// KeyBlock is an `{#key expr}...{/key}` block.
type KeyBlock struct {
	NodeSpan       position.Span
	ExpressionSpan position.Span
	Expression     string
	Body           Fragment
}

func (n *KeyBlock) Span() position.Span { return n.NodeSpan }
func (*KeyBlock) templateNode()         {}

// SnippetBlock is an `{#snippet name(params)}...{/snippet}` block.
type SnippetBlock struct {
	NodeSpan      position.Span
	Name          string
	ParametersSpan position.Span
	Parameters    string
	Body          Fragment
}

func (n *SnippetBlock) Span() position.Span { return n.NodeSpan }
func (*SnippetBlock) templateNode()         {}
