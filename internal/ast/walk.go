package ast

// Inspect walks a fragment depth-first, calling visit for every node before
// descending into its children. Traversal stops early into a subtree when
// visit returns false for that node, mirroring go/ast.Inspect.
func Inspect(fragment Fragment, visit func(TemplateNode) bool) {
	for _, node := range fragment.Nodes {
		inspectNode(node, visit)
	}
}

func inspectNode(node TemplateNode, visit func(TemplateNode) bool) {
	if !visit(node) {
		return
	}
	switch n := node.(type) {
	case *Element:
		for _, c := range n.Children {
			inspectNode(c, visit)
		}
	case *Component:
		for _, c := range n.Children {
			inspectNode(c, visit)
		}
	case *SvelteElementNode:
		for _, c := range n.Children {
			inspectNode(c, visit)
		}
	case *IfBlock:
		Inspect(n.Consequent, visit)
		inspectElseBranch(n.Alternate, visit)
	case *EachBlock:
		Inspect(n.Body, visit)
		if n.Fallback != nil {
			Inspect(*n.Fallback, visit)
		}
	case *AwaitBlock:
		if n.Pending != nil {
			Inspect(*n.Pending, visit)
		}
		if n.Then != nil {
			Inspect(n.Then.Body, visit)
		}
		if n.Catch != nil {
			Inspect(n.Catch.Body, visit)
		}
	case *KeyBlock:
		Inspect(n.Body, visit)
	case *SnippetBlock:
		Inspect(n.Body, visit)
	case *Text, *Comment, *ExpressionTag, *HtmlTag, *ConstTag, *DebugTag, *RenderTag:
		// leaf nodes, nothing to descend into.
	}
}

func inspectElseBranch(branch ElseBranch, visit func(TemplateNode) bool) {
	switch b := branch.(type) {
	case nil:
		return
	case ElseFragment:
		Inspect(b.Body, visit)
	case ElseIf:
		inspectNode(b.Block, visit)
	}
}
