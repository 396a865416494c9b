//go:build property

package svelteparser

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// componentSourceGen produces strings biased towards the syntax the
// template grammar actually dispatches on, so the generator reaches
// block, tag, and expression code paths instead of only plain text.
func componentSourceGen() gopter.Gen {
	fragments := gen.OneConstOf(
		"<div>", "</div>", "<p class=\"x\">", "<Widget ",
		"{#if ok}", "{:else}", "{/if}",
		"{#each items as item}", "{/each}",
		"{#await p}", "{:then v}", "{/await}",
		"{#snippet s(a)}", "{/snippet}",
		"{@html raw}", "{@const n = 1}", "{@render s(1)}",
		"{value}", "{a + b}", "text ", "\"quoted\" ", "`tick` ",
		"<script>", "</script>", "<style>", "</style>",
		"{", "}", "<", ">", "/>", "<!-- c -->",
	)
	return gen.SliceOf(fragments).Map(func(parts []string) string {
		var out string
		for _, p := range parts {
			out += p
		}
		return out
	})
}

func checkSpans(t *testing.T, src string, fragment ast.Fragment, parent position.Span) bool {
	t.Helper()
	ok := true
	ast.Inspect(fragment, func(node ast.TemplateNode) bool {
		span := node.Span()
		if span.Start > span.End || span.End > uint32(len(src)) {
			t.Logf("span out of bounds: %v (len %d)", span, len(src))
			ok = false
		}
		return true
	})
	return ok
}

func TestParserProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1234) // For reproducible results
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	// Property: the parser never panics and every node span stays inside
	// the source, for arbitrary (including malformed) input.
	properties.Property("spans stay in bounds", prop.ForAll(
		func(src string) bool {
			result := Parse(1, []byte(src))
			if result.Document == nil {
				return false
			}
			return checkSpans(t, src, result.Document.Fragment, result.Document.Span)
		},
		componentSourceGen(),
	))

	// Property: parsing is deterministic; the same source yields the same
	// error count and node count on every parse.
	properties.Property("parsing is deterministic", prop.ForAll(
		func(src string) bool {
			first := Parse(1, []byte(src))
			second := Parse(1, []byte(src))
			if len(first.Errors) != len(second.Errors) {
				return false
			}
			return countNodes(first.Document.Fragment) == countNodes(second.Document.Fragment)
		},
		componentSourceGen(),
	))

	// Property: a valid, well-formed element sequence parses with no
	// errors.
	properties.Property("well-formed elements parse cleanly", prop.ForAll(
		func(src string) bool {
			result := Parse(1, []byte(src))
			return len(result.Errors) == 0
		},
		gen.SliceOf(gen.OneConstOf("div", "p", "span", "section")).Map(func(tags []string) string {
			var out string
			for _, tag := range tags {
				out += "<" + tag + ">x</" + tag + ">"
			}
			return out
		}),
	))

	properties.TestingRun(t)
}

func countNodes(fragment ast.Fragment) int {
	n := 0
	ast.Inspect(fragment, func(ast.TemplateNode) bool {
		n++
		return true
	})
	return n
}
