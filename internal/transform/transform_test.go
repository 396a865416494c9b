package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelte-tools/svelte-check-go/internal/svelteparser"
)

func parseComponent(t *testing.T, src string) *Result {
	t.Helper()
	res := svelteparser.Parse(1, []byte(src))
	require.Empty(t, res.Errors)
	return Transform(res.Document, Options{Filename: "src/lib/Counter.svelte", GeneratedFile: 2})
}

func TestTransformRewritesStateRune(t *testing.T) {
	result := parseComponent(t, `<script>
	let count = $state(0);
</script>
<button>{count}</button>`)

	assert.Contains(t, result.Code, "let count = (0);")
	assert.NotContains(t, result.Code, "$state")
}

func TestTransformRewritesMultilineTrailingCommaState(t *testing.T) {
	result := parseComponent(t, "<script>\n\tlet count = $state(\n\t\t0,\n\t);\n</script>")
	assert.Contains(t, result.Code, "let count = (0);")
}

func TestTransformRewritesPropsWithDestructure(t *testing.T) {
	result := parseComponent(t, `<script>
	let { label, count = 0 } = $props();
</script>`)

	assert.Contains(t, result.Code, "let { label, count = 0 } = (null as unknown as { label: any; count?: any })")
}

func TestTransformRewritesPropsForPageRoute(t *testing.T) {
	res := svelteparser.Parse(1, []byte(`<script>
	let { data } = $props();
</script>`))
	require.Empty(t, res.Errors)
	result := Transform(res.Document, Options{Filename: "src/routes/+page.svelte", GeneratedFile: 2})
	assert.Contains(t, result.Code, "null as unknown as PageProps")
}

func TestTransformEmitsExpressionTagCheck(t *testing.T) {
	result := parseComponent(t, `<script>let name = "world";</script>
<p>hello {name}</p>`)
	assert.Contains(t, result.Code, "void (name);")
}

func TestTransformEmitsHostAttributeAssignabilityCheck(t *testing.T) {
	result := parseComponent(t, `<script>let width = 10;</script>
<div class={width}></div>`)
	assert.Contains(t, result.Code, `(null as HTMLElementTagNameMap["div"])["class"] = (width);`)
}

func TestTransformEmitsEventHandlerCallCheck(t *testing.T) {
	result := parseComponent(t, `<script>function onClick() {}</script>
<button onclick={onClick}>go</button>`)
	assert.Contains(t, result.Code, "(onClick as ((event: Event) => void) | null | undefined);")
}

func TestTransformEmitsBindDirectiveBothDirections(t *testing.T) {
	result := parseComponent(t, `<script>let value = "";</script>
<input bind:value={value} />`)
	assert.Contains(t, result.Code, `(null as HTMLElementTagNameMap["input"])["value"] = (value);`)
	assert.Contains(t, result.Code, `(value) = (null as HTMLElementTagNameMap["input"])["value"]`)
}

func TestTransformEmitsUseActionCall(t *testing.T) {
	result := parseComponent(t, `<script>function tooltip(el) {}</script>
<div use:tooltip></div>`)
	assert.Contains(t, result.Code, "((tooltip)(null as unknown as HTMLElement));")
}

func TestTransformEmitsEachBlockLoop(t *testing.T) {
	result := parseComponent(t, `<script>let items = [1, 2, 3];</script>
{#each items as item, i}<p>{item}-{i}</p>{/each}`)
	assert.Contains(t, result.Code, "for (const item, i of (items)) {")
}

func TestTransformEmitsComponentPropsCheck(t *testing.T) {
	result := parseComponent(t, `<script>import Child from "./Child.svelte"; let x = 1;</script>
<Child value={x} />`)
	assert.Contains(t, result.Code, "$$checkComponent(Child, { value: (x) });")
}

func TestTransformRewritesSvelteImportSpecifier(t *testing.T) {
	result := parseComponent(t, `<script>
	import Child from "./Child.svelte";
	import { helper } from "./util";
	const label = "not-an-import.svelte";
</script>
<Child />`)

	assert.Contains(t, result.Code, `import Child from "./Child.svelte.js";`)
	assert.Contains(t, result.Code, `import { helper } from "./util";`)
	// a plain string in expression position is not a specifier.
	assert.Contains(t, result.Code, `const label = "not-an-import.svelte";`)
}

func TestTransformSpreadFoldsIntoComponentProps(t *testing.T) {
	result := parseComponent(t, `<script>import Child from "./Child.svelte"; let rest = {};</script>
<Child a={1} {...rest} />`)
	assert.Contains(t, result.Code, "$$checkComponent(Child, { a: (1), ...(rest) });")
}

func TestTransformEmitsComponentBindChecks(t *testing.T) {
	result := parseComponent(t, `<script>import Child from "./Child.svelte"; let value = "";</script>
<Child bind:value={value} />`)
	assert.Contains(t, result.Code, `$$checkBind(Child, "value", (value));`)
	assert.Contains(t, result.Code, `(value) = $$readBind(Child, "value");`)
}

func TestTransformExportsPropsTypeOnComponentClass(t *testing.T) {
	result := parseComponent(t, `<script>
	let { label, count = 0 } = $props();
</script>`)
	assert.Contains(t, result.Code, "$$props!: { label: any; count?: any };")
}

func TestTransformExportsEmptyPropsWhenNoPropsRune(t *testing.T) {
	result := parseComponent(t, `<p>static</p>`)
	assert.Contains(t, result.Code, "$$props!: Record<string, never>;")
}

func TestTransformRewritesGenericStateInAssignmentContext(t *testing.T) {
	result := parseComponent(t, `<script lang="ts">
	let mode = $state<'a'|'b'>('a');
</script>`)
	assert.Contains(t, result.Code, "let $$v: 'a'|'b' = ('a');")
	assert.NotContains(t, result.Code, "as 'a'|'b'")
}

func TestTransformSourceMapPartitionsGeneratedOutput(t *testing.T) {
	result := parseComponent(t, `<script>
	import Child from "./Child.svelte";
	let count = $state(0);
</script>
{#each [1, 2] as n}<Child value={n} />{/each}
{#snippet row(x)}<p>{x}</p>{/snippet}`)

	mappings := result.SourceMap.Mappings()
	require.NotEmpty(t, mappings)

	var next uint32
	for i, m := range mappings {
		assert.Equal(t, next, m.Generated.Start, "gap or overlap before mapping %d", i)
		next = m.Generated.End
	}
	assert.Equal(t, uint32(len(result.Code)), next, "mappings must cover the full generated output")

	for _, off := range []uint32{0, uint32(len(result.Code) / 2), uint32(len(result.Code) - 1)} {
		_, ok := result.SourceMap.OriginalPosition(off)
		assert.True(t, ok, "generated offset %d has no covering mapping", off)
	}
}

func TestTransformSourceMapResolvesRuneCallRewrite(t *testing.T) {
	src := "<script>\nlet count = $state(0);\n</script>"
	res := svelteparser.Parse(1, []byte(src))
	require.Empty(t, res.Errors)
	result := Transform(res.Document, Options{Filename: "Counter.svelte", GeneratedFile: 2})

	idx := strings.Index(result.Code, "(0)")
	require.GreaterOrEqual(t, idx, 0)

	orig, ok := result.SourceMap.OriginalPosition(uint32(idx))
	require.True(t, ok)
	assert.Equal(t, byte('$'), src[orig])
}
