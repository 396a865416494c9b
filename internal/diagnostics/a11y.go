package diagnostics

import (
	"strconv"
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/accessibility"
	"github.com/svelte-tools/svelte-check-go/internal/ast"
)

// headingLevel returns the heading rank of tag, or 0 if tag isn't a heading.
func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	default:
		return 0
	}
}

var nonInteractiveElements = map[string]bool{
	"div": true, "span": true, "p": true, "h1": true, "h2": true, "h3": true,
	"h4": true, "h5": true, "h6": true, "section": true, "article": true,
	"main": true, "aside": true, "header": true, "footer": true, "nav": true,
	"figure": true, "figcaption": true, "ul": true, "ol": true, "li": true,
	"table": true, "img": true, "label": true, "pre": true, "blockquote": true,
}

var interactiveElements = map[string]bool{
	"a": true, "button": true, "input": true, "select": true, "textarea": true,
	"details": true, "embed": true, "iframe": true, "menu": true, "summary": true,
}

var implicitRole = map[string]string{
	"a": "link", "article": "article", "aside": "complementary", "button": "button",
	"dialog": "dialog", "footer": "contentinfo", "form": "form",
	"h1": "heading", "h2": "heading", "h3": "heading", "h4": "heading", "h5": "heading", "h6": "heading",
	"header": "banner", "hr": "separator", "img": "img", "li": "listitem",
	"main": "main", "menu": "list", "nav": "navigation", "ol": "list", "ul": "list",
	"option": "option", "progress": "progressbar", "section": "region",
	"table": "table", "td": "cell", "th": "columnheader", "tr": "row",
}

var distractingElements = map[string]bool{"marquee": true, "blink": true}

var validAriaAttributes = map[string]bool{}

func init() {
	for _, name := range []string{
		"aria-activedescendant", "aria-atomic", "aria-autocomplete", "aria-busy",
		"aria-checked", "aria-colcount", "aria-colindex", "aria-colspan",
		"aria-controls", "aria-current", "aria-describedby", "aria-description",
		"aria-details", "aria-disabled", "aria-dropeffect", "aria-errormessage",
		"aria-expanded", "aria-flowto", "aria-grabbed", "aria-haspopup",
		"aria-hidden", "aria-invalid", "aria-keyshortcuts", "aria-label",
		"aria-labelledby", "aria-level", "aria-live", "aria-modal",
		"aria-multiline", "aria-multiselectable", "aria-orientation", "aria-owns",
		"aria-placeholder", "aria-posinset", "aria-pressed", "aria-readonly",
		"aria-relevant", "aria-required", "aria-roledescription", "aria-rowcount",
		"aria-rowindex", "aria-rowspan", "aria-selected", "aria-setsize",
		"aria-sort", "aria-valuemax", "aria-valuemin", "aria-valuenow", "aria-valuetext",
	} {
		validAriaAttributes[name] = true
	}
}

// a11yWalker threads the heading-progression state and the active
// svelte-ignore scope through a single recursive descent of a document's
// fragment tree, mirroring the original check_fragment/check_if_block split.
type a11yWalker struct {
	diags       []Diagnostic
	lastHeading int
	scope       ignoreScope
}

func checkA11y(doc *ast.Document) []Diagnostic {
	w := &a11yWalker{}
	w.checkFragment(doc.Fragment)
	return w.diags
}

func (w *a11yWalker) report(d Diagnostic) {
	if w.scope.suppresses(d.Code) {
		return
	}
	w.diags = append(w.diags, d)
}

// checkFragment walks sibling nodes in order, tracking whether the node
// immediately preceding the current one was a svelte-ignore comment; if so,
// the codes it names are pushed onto the ignore scope for the duration of
// that single node's subtree (its descendants), per the directive's
// element-scoped suppression rule.
func (w *a11yWalker) checkFragment(frag ast.Fragment) {
	var pending []string
	for _, node := range frag.Nodes {
		if comment, ok := node.(*ast.Comment); ok {
			if codes, ok := parseIgnoreDirective(comment.Data); ok {
				pending = codes
			}
			continue
		}
		if text, ok := node.(*ast.Text); ok && strings.TrimSpace(text.Data) == "" {
			continue
		}
		if pending != nil {
			w.scope.push(pending)
			w.checkNode(node)
			w.scope.pop()
			pending = nil
		} else {
			w.checkNode(node)
		}
	}
}

func (w *a11yWalker) checkNode(node ast.TemplateNode) {
	switch n := node.(type) {
	case *ast.Element:
		w.checkElement(n)
	case *ast.Component:
		w.checkFragment(ast.Fragment{Nodes: n.Children})
	case *ast.SvelteElementNode:
		w.checkSvelteElement(n)
		w.checkFragment(ast.Fragment{Nodes: n.Children})
	case *ast.IfBlock:
		w.checkIfBlock(n)
	case *ast.EachBlock:
		w.checkFragment(n.Body)
		if n.Fallback != nil {
			w.checkFragment(*n.Fallback)
		}
	case *ast.AwaitBlock:
		if n.Pending != nil {
			w.checkFragment(*n.Pending)
		}
		if n.Then != nil {
			w.checkFragment(n.Then.Body)
		}
		if n.Catch != nil {
			w.checkFragment(n.Catch.Body)
		}
	case *ast.KeyBlock:
		w.checkFragment(n.Body)
	case *ast.SnippetBlock:
		w.checkFragment(n.Body)
	}
}

func (w *a11yWalker) checkIfBlock(block *ast.IfBlock) {
	w.checkFragment(block.Consequent)
	switch alt := block.Alternate.(type) {
	case ast.ElseFragment:
		w.checkFragment(alt.Body)
	case ast.ElseIf:
		w.checkIfBlock(alt.Block)
	}
}

func (w *a11yWalker) checkElement(el *ast.Element) {
	tag := strings.ToLower(el.Name)

	if level := headingLevel(tag); level > 0 {
		if w.lastHeading > 0 && level > w.lastHeading+1 {
			w.report(newDiagnostic("a11y-structure", SeverityWarning, el.NodeSpan,
				"Heading levels should not be skipped (h%d followed by h%d)", w.lastHeading, level).
				withWCAG(accessibility.WCAGLevelA, accessibility.Criteria1_3_1))
		}
		w.lastHeading = level
	}

	if distractingElements[tag] {
		w.report(newDiagnostic("a11y-distracting-elements", SeverityWarning, el.NodeSpan,
			"Avoid <%s> elements; they distract users", tag).
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria2_1_2))
	}

	w.checkImgAlt(el, tag)
	w.checkAccesskey(el)
	w.checkAutofocus(el)
	w.checkTabindex(el, tag)
	w.checkAriaAttributes(el)
	w.checkClickEventsHaveKeyEvents(el, tag)
	w.checkRedundantRole(el, tag)

	w.checkFragment(ast.Fragment{Nodes: el.Children})
}

// checkSvelteElement flags <svelte:element> tags whose `this` attribute is
// missing entirely, or bound to a fixed string literal rather than an
// expression — either case means a plain element tag should have been used
// instead of the dynamic form.
func (w *a11yWalker) checkSvelteElement(n *ast.SvelteElementNode) {
	this, ok := findAttr(n.Attributes, "this")
	if !ok {
		w.report(newDiagnostic("dynamic-element-this", SeverityWarning, n.NodeSpan,
			`<svelte:element> requires a "this" attribute naming the tag to render`))
		return
	}
	if text, dynamic := attrLiteralText(this.Value); !dynamic && this.Value.Kind == ast.ValueText {
		w.report(newDiagnostic("dynamic-element-this", SeverityHint, this.Span(),
			`<svelte:element this="%s"> has a fixed tag name; use <%s> directly`, text, text))
	}
}

func (w *a11yWalker) checkImgAlt(el *ast.Element, tag string) {
	if tag != "img" {
		return
	}
	if _, ok := findAttr(el.Attributes, "alt"); !ok {
		w.report(newDiagnostic("a11y-missing-attribute", SeverityWarning, el.NodeSpan,
			`<img> elements must have an "alt" attribute`).
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria1_1_1))
	}
}

func (w *a11yWalker) checkAccesskey(el *ast.Element) {
	if attr, ok := findAttr(el.Attributes, "accesskey"); ok {
		w.report(newDiagnostic("a11y-accesskey", SeverityWarning, attr.Span(),
			"Avoid the accesskey attribute; it conflicts with assistive-technology shortcuts").
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria2_1_1))
	}
}

func (w *a11yWalker) checkAutofocus(el *ast.Element) {
	if attr, ok := findAttr(el.Attributes, "autofocus"); ok {
		w.report(newDiagnostic("a11y-autofocus", SeverityWarning, attr.Span(),
			"Avoid autofocus; it disorients users who rely on screen readers").
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria3_2_1))
	}
}

func (w *a11yWalker) checkTabindex(el *ast.Element, tag string) {
	attr, ok := findAttr(el.Attributes, "tabindex")
	if !ok {
		return
	}
	text, dynamic := attrLiteralText(attr.Value)
	if dynamic {
		return
	}
	if n, err := strconv.Atoi(strings.TrimSpace(text)); err == nil && n > 0 {
		w.report(newDiagnostic("a11y-positive-tabindex", SeverityWarning, attr.Span(),
			"Avoid positive tabindex values; they break the natural tab order").
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria2_4_3))
	}
	if nonInteractiveElements[tag] {
		if role, ok := findAttr(el.Attributes, "role"); !ok || !interactiveRoleValue(role) {
			w.report(newDiagnostic("a11y-no-noninteractive-tabindex", SeverityWarning, attr.Span(),
				"<%s> is not interactive and should not have tabindex without an interactive role", tag).
				withWCAG(accessibility.WCAGLevelA, accessibility.Criteria4_1_2))
		}
	}
}

func (w *a11yWalker) checkAriaAttributes(el *ast.Element) {
	for _, raw := range el.Attributes {
		attr, ok := raw.(*ast.NormalAttribute)
		if !ok {
			continue
		}
		name := strings.ToLower(attr.Name)
		if strings.HasPrefix(name, "aria-") && !validAriaAttributes[name] {
			w.report(newDiagnostic("a11y-aria-attributes", SeverityWarning, attr.Span(),
				"%q is not a valid ARIA attribute", attr.Name).
				withWCAG(accessibility.WCAGLevelA, accessibility.Criteria4_1_2))
		}
	}
}

func (w *a11yWalker) checkClickEventsHaveKeyEvents(el *ast.Element, tag string) {
	if !hasEventAttr(el.Attributes, "click") {
		return
	}
	if interactiveElements[tag] {
		return
	}
	if role, ok := findAttr(el.Attributes, "role"); ok && interactiveRoleValue(role) {
		return
	}
	if !hasEventAttr(el.Attributes, "keydown", "keyup", "keypress") {
		w.report(newDiagnostic("a11y-click-events-have-key-events", SeverityWarning, el.NodeSpan,
			"<%s> with a click handler must also have a keyboard event handler", tag).
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria2_1_1))
	}
	if _, ok := findAttr(el.Attributes, "tabindex"); !ok {
		w.report(newDiagnostic("a11y-no-noninteractive-element-interactions", SeverityWarning, el.NodeSpan,
			"<%s> is not focusable and should not have interactive handlers without tabindex", tag).
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria2_1_1))
	}
}

func (w *a11yWalker) checkRedundantRole(el *ast.Element, tag string) {
	role, ok := findAttr(el.Attributes, "role")
	if !ok {
		return
	}
	text, dynamic := attrLiteralText(role.Value)
	if dynamic {
		return
	}
	if implicitRole[tag] == strings.ToLower(strings.TrimSpace(text)) {
		w.report(newDiagnostic("a11y-no-redundant-roles", SeverityWarning, role.Span(),
			"<%s> already has the implicit role %q", tag, text).
			withWCAG(accessibility.WCAGLevelA, accessibility.Criteria4_1_2))
	}
}

func interactiveRoleValue(attr *ast.NormalAttribute) bool {
	text, dynamic := attrLiteralText(attr.Value)
	if dynamic {
		return true // can't prove statically, don't flag
	}
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "button", "link", "checkbox", "radio", "switch", "tab", "menuitem",
		"option", "textbox", "combobox", "slider", "spinbutton", "searchbox":
		return true
	default:
		return false
	}
}

func findAttr(attrs []ast.Attribute, name string) (*ast.NormalAttribute, bool) {
	for _, raw := range attrs {
		if attr, ok := raw.(*ast.NormalAttribute); ok && strings.EqualFold(attr.Name, name) {
			return attr, true
		}
	}
	return nil, false
}

func hasEventAttr(attrs []ast.Attribute, events ...string) bool {
	for _, raw := range attrs {
		switch attr := raw.(type) {
		case *ast.NormalAttribute:
			name := strings.ToLower(attr.Name)
			for _, e := range events {
				if name == "on"+e {
					return true
				}
			}
		case *ast.Directive:
			if attr.Kind != ast.DirectiveOn {
				continue
			}
			for _, e := range events {
				if attr.Name == e {
					return true
				}
			}
		}
	}
	return false
}

// attrLiteralText returns an attribute value's literal text and whether the
// value is (partly) dynamic, in which case no static rule can evaluate it.
func attrLiteralText(v ast.AttributeValue) (text string, dynamic bool) {
	switch v.Kind {
	case ast.ValueText:
		return v.Text.Value, false
	case ast.ValueTrue:
		return "", false
	default:
		return "", true
	}
}
