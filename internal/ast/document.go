// Package ast defines the node types produced by internal/svelteparser for a
// single .svelte file: a module script, an instance script, an optional
// style block, and a template fragment tree.
package ast

import "github.com/svelte-tools/svelte-check-go/internal/position"

// Document is a fully parsed Svelte component file.
type Document struct {
	ModuleScript   *Script
	InstanceScript *Script
	Style          *Style
	Fragment       Fragment
	Span           position.Span
}

// ScriptLang is the language declared on a <script lang="..."> tag.
type ScriptLang int

const (
	LangJavaScript ScriptLang = iota
	LangTypeScript
)

// ScriptContext distinguishes the module-level script from the per-instance
// script.
type ScriptContext int

const (
	ContextInstance ScriptContext = iota
	ContextModule
)

// Script is a <script> block.
type Script struct {
	Span        position.Span
	ContentSpan position.Span
	Content     string
	Lang        ScriptLang
	Context     ScriptContext
	Attributes  []Attribute
}

// Style is a <style> block.
type Style struct {
	Span        position.Span
	ContentSpan position.Span
	Content     string
	Global      bool
	Attributes  []Attribute
}

// Fragment is an ordered list of sibling template nodes, used for the
// document root, element children, and block bodies alike.
type Fragment struct {
	Nodes []TemplateNode
	Span  position.Span
}
