package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelte-tools/svelte-check-go/internal/svelteparser"
)

func codes(diags []Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Code
	}
	return out
}

func parse(t *testing.T, src string) (res svelteparser.Result) {
	t.Helper()
	res = svelteparser.Parse(1, []byte(src))
	return res
}

func TestCheckA11yFlagsSkippedHeading(t *testing.T) {
	res := parse(t, `<h1>Title</h1><h3>Skipped</h3>`)
	diags := checkA11y(res.Document)
	require.Len(t, diags, 1)
	assert.Equal(t, "a11y-structure", diags[0].Code)
}

func TestCheckA11yAllowsSequentialHeadings(t *testing.T) {
	res := parse(t, `<h1>Title</h1><h2>Section</h2><h3>Sub</h3>`)
	diags := checkA11y(res.Document)
	assert.Empty(t, diags)
}

func TestCheckA11yFlagsMissingAlt(t *testing.T) {
	res := parse(t, `<img src="photo.jpg">`)
	diags := checkA11y(res.Document)
	require.Len(t, diags, 1)
	assert.Equal(t, "a11y-missing-attribute", diags[0].Code)
}

func TestCheckA11yIgnoreDirectiveSuppressesWildcard(t *testing.T) {
	res := parse(t, `<!-- svelte-ignore a11y-* --><div role="button" tabindex="5"></div>`)
	diags := checkA11y(res.Document)
	assert.Empty(t, diags)
}

func TestCheckA11yIgnoreDirectiveIsScopedToFollowingElement(t *testing.T) {
	res := parse(t, `<!-- svelte-ignore a11y-positive-tabindex --><div role="button" tabindex="5"></div><div role="button" tabindex="6"></div>`)
	diags := checkA11y(res.Document)
	require.Len(t, diags, 1)
	assert.Equal(t, "a11y-positive-tabindex", diags[0].Code)
}

func TestCheckA11yFlagsPositiveTabindex(t *testing.T) {
	res := parse(t, `<div tabindex="3">x</div>`)
	diags := checkA11y(res.Document)
	assert.Contains(t, codes(diags), "a11y-positive-tabindex")
}

func TestCheckA11yFlagsInvalidAriaAttribute(t *testing.T) {
	res := parse(t, `<div aria-bogus="true">x</div>`)
	diags := checkA11y(res.Document)
	assert.Contains(t, codes(diags), "a11y-aria-attributes")
}

func TestCheckA11yFlagsClickWithoutKeyHandler(t *testing.T) {
	res := parse(t, `<div onclick={go}>x</div>`)
	diags := checkA11y(res.Document)
	assert.Contains(t, codes(diags), "a11y-click-events-have-key-events")
}

func TestCheckA11yAllowsClickOnButton(t *testing.T) {
	res := parse(t, `<button onclick={go}>x</button>`)
	diags := checkA11y(res.Document)
	assert.NotContains(t, codes(diags), "a11y-click-events-have-key-events")
}

func TestCheckA11yFlagsRedundantRole(t *testing.T) {
	res := parse(t, `<button role="button">x</button>`)
	diags := checkA11y(res.Document)
	assert.Contains(t, codes(diags), "a11y-no-redundant-roles")
}

func TestCheckA11yFlagsSvelteElementMissingThis(t *testing.T) {
	res := parse(t, `<svelte:element>content</svelte:element>`)
	diags := checkA11y(res.Document)
	assert.Contains(t, codes(diags), "dynamic-element-this")
}
