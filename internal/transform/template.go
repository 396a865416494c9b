package transform

import (
	"fmt"
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// templateEmitter walks a parsed template fragment and produces a sequence
// of plain TypeScript statements that exercise every expression, attribute,
// and directive found in it under the type-checker — the template itself
// never survives into the generated output, only checks derived from it do.
type templateEmitter struct {
	builder *position.SourceMapBuilder
	out     strings.Builder
}

func newTemplateEmitter(builder *position.SourceMapBuilder) *templateEmitter {
	return &templateEmitter{builder: builder}
}

func (e *templateEmitter) String() string {
	return e.out.String()
}

// emit appends a synthetic statement anchored to anchor's original
// position: the statement has no byte-for-byte original counterpart (it's
// derived from, not copied from, the template), so a diagnostic raised
// against it is reported at anchor's start.
func (e *templateEmitter) emit(anchor position.Span, stmt string) {
	full := stmt + "\n"
	e.builder.AddSynthetic(anchor, full)
	e.out.WriteString(full)
}

// emitRaw appends block punctuation introduced by the emitter itself (not
// derived from any single template construct), mapped as a synthetic span
// anchored to the enclosing block so the generated range stays gap-free.
func (e *templateEmitter) emitRaw(anchor position.Span, text string) {
	e.builder.AddSynthetic(anchor, text)
	e.out.WriteString(text)
}

func (e *templateEmitter) emitFragment(frag ast.Fragment) {
	for _, node := range frag.Nodes {
		e.emitNode(node)
	}
}

func (e *templateEmitter) emitNode(node ast.TemplateNode) {
	switch n := node.(type) {
	case *ast.Element:
		e.emitHostElement(n.Name, n.Attributes, n.Children)
	case *ast.Component:
		e.emitComponent(n)
	case *ast.SvelteElementNode:
		e.emitSvelteElementNode(n)
	case *ast.Text, *ast.Comment:
		// no type-checkable content.
	case *ast.ExpressionTag:
		e.emit(n.ExpressionSpan, fmt.Sprintf("void (%s);", n.Expression))
	case *ast.HtmlTag:
		e.emit(n.ExpressionSpan, fmt.Sprintf("String(%s);", n.Expression))
	case *ast.ConstTag:
		e.emit(n.DeclarationSpan, fmt.Sprintf("const %s;", n.Declaration))
	case *ast.DebugTag:
		for _, id := range n.Identifiers {
			e.emit(n.NodeSpan, fmt.Sprintf("void (%s);", id))
		}
	case *ast.RenderTag:
		e.emit(n.ExpressionSpan, fmt.Sprintf("(%s);", n.Expression))
	case *ast.IfBlock:
		e.emitIf(n)
	case *ast.EachBlock:
		e.emitEach(n)
	case *ast.AwaitBlock:
		e.emitAwait(n)
	case *ast.KeyBlock:
		e.emit(n.ExpressionSpan, fmt.Sprintf("void (%s);", n.Expression))
		e.emitFragment(n.Body)
	case *ast.SnippetBlock:
		e.emitSnippet(n)
	}
}

func (e *templateEmitter) emitIf(n *ast.IfBlock) {
	e.emit(n.ConditionSpan, fmt.Sprintf("void (%s);", n.Condition))
	e.emitFragment(n.Consequent)
	e.emitElseBranch(n.Alternate)
}

func (e *templateEmitter) emitElseBranch(branch ast.ElseBranch) {
	switch b := branch.(type) {
	case nil:
	case ast.ElseFragment:
		e.emitFragment(b.Body)
	case ast.ElseIf:
		e.emitIf(b.Block)
	}
}

func (e *templateEmitter) emitEach(n *ast.EachBlock) {
	binding := n.Context
	if binding == "" {
		binding = "$$item"
	}
	index := ""
	if n.Index != "" {
		index = ", " + n.Index
	}
	e.emit(n.ExpressionSpan, fmt.Sprintf("for (const %s%s of (%s)) {", binding, index, n.Expression))
	if n.Key != nil {
		e.emit(n.Key.Span, fmt.Sprintf("void (%s);", n.Key.Expression))
	}
	e.emitFragment(n.Body)
	e.emitRaw(n.NodeSpan, "}\n")
	if n.Fallback != nil {
		e.emitFragment(*n.Fallback)
	}
}

func (e *templateEmitter) emitAwait(n *ast.AwaitBlock) {
	e.emit(n.ExpressionSpan, fmt.Sprintf("void (%s);", n.Expression))
	if n.Pending != nil {
		e.emitFragment(*n.Pending)
	}
	if n.Then != nil {
		value := n.Then.Value
		if value == "" {
			value = "$$resolved"
		}
		e.emit(n.NodeSpan, fmt.Sprintf("const %s = await (%s);", value, n.Expression))
		e.emitFragment(n.Then.Body)
	}
	if n.Catch != nil {
		errName := n.Catch.Error
		if errName == "" {
			errName = "$$error"
		}
		e.emit(n.NodeSpan, fmt.Sprintf("const %s: unknown = undefined;", errName))
		e.emitFragment(n.Catch.Body)
	}
}

func (e *templateEmitter) emitSnippet(n *ast.SnippetBlock) {
	e.emit(n.ParametersSpan, fmt.Sprintf("const %s = (%s: Snippet<[%s]>) => {", n.Name, n.Name, "any"))
	e.emitFragment(n.Body)
	e.emitRaw(n.NodeSpan, "};\n")
}

func (e *templateEmitter) emitHostElement(tag string, attrs []ast.Attribute, children []ast.TemplateNode) {
	for _, attr := range attrs {
		e.emitHostAttribute(tag, attr)
	}
	for _, c := range children {
		e.emitNode(c)
	}
}

func (e *templateEmitter) emitHostAttribute(tag string, attr ast.Attribute) {
	switch a := attr.(type) {
	case *ast.NormalAttribute:
		e.emitNormalHostAttribute(tag, a)
	case *ast.SpreadAttribute:
		e.emit(a.AttrSpan, fmt.Sprintf("void (%s as Partial<HTMLElementTagNameMap[%q]>);", a.Expression, tag))
	case *ast.AttachAttribute:
		e.emit(a.AttrSpan, fmt.Sprintf("(%s as (el: Element) => void)(null as unknown as Element);", a.Expression))
	case *ast.ShorthandAttribute:
		e.emit(a.AttrSpan, fmt.Sprintf("(null as HTMLElementTagNameMap[%q])[%q] = (%s);", tag, a.Name, a.Name))
	case *ast.Directive:
		e.emitDirective(tag, a)
	}
}

func (e *templateEmitter) emitNormalHostAttribute(tag string, a *ast.NormalAttribute) {
	expr := attributeValueExpression(a.Value)
	if expr == "" {
		return
	}
	if isEventHandlerName(a.Name) {
		e.emit(a.AttrSpan, fmt.Sprintf("(%s as ((event: Event) => void) | null | undefined);", expr))
		return
	}
	e.emit(a.AttrSpan, fmt.Sprintf("(null as HTMLElementTagNameMap[%q])[%q] = (%s);", tag, a.Name, expr))
}

// emitComponent checks a component reference's props against the
// component's own declared props type, via the $$checkComponent helper:
// the component class exports its props type on $$props, the helper pulls
// it back out, and the props object literal is checked against it in
// assignment context (so a wrong prop type, a missing required prop, and
// an excess prop all surface). Spreads fold into the same object literal,
// matching a props object built via computed keys.
func (e *templateEmitter) emitComponent(n *ast.Component) {
	var props strings.Builder
	props.WriteString("{ ")
	first := true
	add := func(entry string) {
		if !first {
			props.WriteString(", ")
		}
		first = false
		props.WriteString(entry)
	}
	for _, attr := range n.Attributes {
		switch a := attr.(type) {
		case *ast.NormalAttribute:
			expr := attributeValueExpression(a.Value)
			if expr == "" {
				continue
			}
			add(fmt.Sprintf("%s: (%s)", a.Name, expr))
		case *ast.ShorthandAttribute:
			add(fmt.Sprintf("%s: (%s)", a.Name, a.Name))
		case *ast.Directive:
			if a.Kind == ast.DirectiveBind {
				e.emitComponentBind(n.Name, a)
				// a bound prop is also passed as a prop.
				if a.Expression != nil {
					add(fmt.Sprintf("%s: (%s)", a.Name, a.Expression.Expression))
				}
				continue
			}
			e.emitDirective("", a)
		case *ast.SpreadAttribute:
			add(fmt.Sprintf("...(%s)", a.Expression))
		}
	}
	props.WriteString(" }")
	e.emit(n.NodeSpan, fmt.Sprintf("$$checkComponent(%s, %s);", n.Name, props.String()))
	for _, c := range n.Children {
		e.emitNode(c)
	}
}

// emitComponentBind checks a component bind: bidirectionally against the
// component's declared prop: the target must be assignable to the prop's
// type (write direction) and the prop's type back to the target (read
// direction). A component prop has no host element type to look up, so
// HTMLElementTagNameMap plays no part here.
func (e *templateEmitter) emitComponentBind(component string, d *ast.Directive) {
	if d.Expression == nil {
		return
	}
	target := d.Expression.Expression
	e.emit(d.AttrSpan, fmt.Sprintf("$$checkBind(%s, %q, (%s));", component, d.Name, target))
	e.emit(d.AttrSpan, fmt.Sprintf("(%s) = $$readBind(%s, %q);", target, component, d.Name))
}

// emitDirective checks the directive kinds common to both host elements and
// components; bind: needs the host tag name for HTMLElementTagNameMap
// lookups, so components check it separately via emitComponentBind.
func (e *templateEmitter) emitDirective(tag string, d *ast.Directive) {
	switch d.Kind {
	case ast.DirectiveOn:
		e.emitOnDirective(d)
	case ast.DirectiveBind:
		e.emitBindDirective(tag, d)
	case ast.DirectiveUse:
		e.emitActionLikeDirective(d, d.Name)
	case ast.DirectiveTransition, ast.DirectiveIn, ast.DirectiveOut, ast.DirectiveAnimate:
		e.emitActionLikeDirective(d, d.Name)
	case ast.DirectiveClass:
		if d.Expression != nil {
			e.emit(d.AttrSpan, fmt.Sprintf("void (%s as boolean);", d.Expression.Expression))
		}
	case ast.DirectiveStyle:
		if d.Expression != nil {
			e.emit(d.AttrSpan, fmt.Sprintf("void (%s as string | number | null | undefined);", d.Expression.Expression))
		}
	case ast.DirectiveLet:
		// a slot-let binding has no expression to check; it only
		// introduces a name into the child scope.
	}
}

func (e *templateEmitter) emitOnDirective(d *ast.Directive) {
	if d.Expression == nil {
		return
	}
	handler := d.Expression.Expression
	e.emit(d.AttrSpan, fmt.Sprintf("(%s as ((event: Event) => void) | null | undefined);", handler))
}

func (e *templateEmitter) emitBindDirective(tag string, d *ast.Directive) {
	target := d.Name
	if d.Expression != nil {
		target = d.Expression.Expression
	}
	e.emit(d.AttrSpan, fmt.Sprintf("(null as HTMLElementTagNameMap[%q])[%q] = (%s);", tag, d.Name, target))
	e.emit(d.AttrSpan, fmt.Sprintf("void ((%s) = (null as HTMLElementTagNameMap[%q])[%q]);", target, tag, d.Name))
}

func (e *templateEmitter) emitActionLikeDirective(d *ast.Directive, name string) {
	arg := ""
	if d.Expression != nil {
		arg = ", " + d.Expression.Expression
	}
	e.emit(d.AttrSpan, fmt.Sprintf("((%s)(null as unknown as HTMLElement%s));", name, arg))
}

func (e *templateEmitter) emitSvelteElementNode(n *ast.SvelteElementNode) {
	if this := findThisAttr(n.Attributes); this != nil {
		e.emit(this.AttrSpan, fmt.Sprintf("void (%s);", attributeValueExpression(this.Value)))
	}
	tag := "div"
	for _, attr := range n.Attributes {
		if a, ok := attr.(*ast.NormalAttribute); ok && a.Name != "this" {
			e.emitNormalHostAttribute(tag, a)
		}
	}
	for _, c := range n.Children {
		e.emitNode(c)
	}
}

func findThisAttr(attrs []ast.Attribute) *ast.NormalAttribute {
	for _, attr := range attrs {
		if a, ok := attr.(*ast.NormalAttribute); ok && a.Name == "this" {
			return a
		}
	}
	return nil
}

func attributeValueExpression(v ast.AttributeValue) string {
	switch v.Kind {
	case ast.ValueExpression:
		if v.Expr == nil {
			return ""
		}
		return v.Expr.Expression
	case ast.ValueText:
		if v.Text == nil {
			return ""
		}
		return fmt.Sprintf("%q", v.Text.Value)
	case ast.ValueConcat:
		var parts []string
		for _, part := range v.Concat {
			switch {
			case part.Text != nil:
				parts = append(parts, fmt.Sprintf("%q", part.Text.Value))
			case part.Expr != nil:
				parts = append(parts, fmt.Sprintf("String(%s)", part.Expr.Expression))
			}
		}
		return strings.Join(parts, " + ")
	default:
		return ""
	}
}

func isEventHandlerName(name string) bool {
	if !strings.HasPrefix(name, "on") || len(name) <= 2 {
		return false
	}
	c := name[2]
	return c >= 'a' && c <= 'z'
}
