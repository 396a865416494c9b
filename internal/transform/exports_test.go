package transform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPropsInfoSimpleDestructure(t *testing.T) {
	script := `let { count, label = 'x', ...rest } = $props();`
	callStart := strings.Index(script, "$props")
	info := extractPropsInfo(script, callStart)
	require.NotNil(t, info)
	require.Len(t, info.fields, 3)

	assert.Equal(t, "count", info.fields[0].name)
	assert.False(t, info.fields[0].hasDefault)

	assert.Equal(t, "label", info.fields[1].name)
	assert.True(t, info.fields[1].hasDefault)

	assert.True(t, info.fields[2].isRest)
	assert.Equal(t, "rest", info.fields[2].alias)
	assert.True(t, info.hasRest())
}

func TestExtractPropsInfoRenamedField(t *testing.T) {
	script := `let { count: total } = $props();`
	callStart := strings.Index(script, "$props")
	info := extractPropsInfo(script, callStart)
	require.NotNil(t, info)
	require.Len(t, info.fields, 1)
	assert.Equal(t, "count", info.fields[0].name)
	assert.Equal(t, "total", info.fields[0].alias)
}

func TestExtractPropsInfoExplicitAnnotation(t *testing.T) {
	script := `let { count }: Props = $props();`
	callStart := strings.Index(script, "$props")
	info := extractPropsInfo(script, callStart)
	require.NotNil(t, info)
	assert.Equal(t, "Props", info.typeAnnotation)
}

func TestExtractPropsInfoNilForBareBinding(t *testing.T) {
	script := `const props = $props();`
	callStart := strings.Index(script, "$props")
	info := extractPropsInfo(script, callStart)
	assert.Nil(t, info)
}

func TestPropsTypeLiteralRendersOptionalAndRest(t *testing.T) {
	info := &propsInfo{fields: []propField{
		{name: "count", alias: "count"},
		{name: "label", alias: "label", hasDefault: true},
		{isRest: true, alias: "rest"},
	}}
	got := propsTypeLiteral(info)
	assert.Equal(t, "{ count: any; label?: any; [key: string]: any }", got)
}

func TestPropsTypeLiteralEmptyForNil(t *testing.T) {
	assert.Equal(t, "{}", propsTypeLiteral(nil))
}

func TestRouteKindFromFilename(t *testing.T) {
	assert.Equal(t, routePage, routeKindFromFilename("src/routes/+page.svelte"))
	assert.Equal(t, routeLayout, routeKindFromFilename("src/routes/+layout.svelte"))
	assert.Equal(t, routeError, routeKindFromFilename("src/routes/+error.svelte"))
	assert.Equal(t, routeNone, routeKindFromFilename("src/lib/Counter.svelte"))

	assert.Equal(t, "PageProps", routePage.propsTypeName())
	assert.Equal(t, "LayoutProps", routeLayout.propsTypeName())
	assert.Equal(t, "", routeError.propsTypeName())
}

func TestComponentNameDerivedFromPath(t *testing.T) {
	assert.Equal(t, "Counter", componentName("src/lib/Counter.svelte"))
	assert.Equal(t, "counter", componentName("src/counter.svelte.ts"))
	assert.Equal(t, "_page", componentName("src/routes/+page.svelte"))
	assert.Equal(t, "Component", componentName(""))
}
