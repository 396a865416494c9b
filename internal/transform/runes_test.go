package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanRuneCallsFindsSimpleState(t *testing.T) {
	src := `let count = $state(0);`
	calls := scanRuneCalls(src)
	require.Len(t, calls, 1)
	assert.Equal(t, runeState, calls[0].kind)
	assert.Equal(t, "0", src[calls[0].argsStart:calls[0].argsEnd])
}

func TestScanRuneCallsDistinguishesMembers(t *testing.T) {
	src := `let raw = $state.raw([]); let snap = $state.snapshot(raw); let d = $derived.by(() => raw.length);`
	calls := scanRuneCalls(src)
	require.Len(t, calls, 3)
	assert.Equal(t, runeStateRaw, calls[0].kind)
	assert.Equal(t, runeStateSnapshot, calls[1].kind)
	assert.Equal(t, runeDerivedBy, calls[2].kind)
}

func TestScanRuneCallsSkipsStringAndCommentContent(t *testing.T) {
	src := "// $state(1)\nconst s = \"$state(2)\";\nconst x = $state(3);"
	calls := scanRuneCalls(src)
	require.Len(t, calls, 1)
	assert.Equal(t, "3", src[calls[0].argsStart:calls[0].argsEnd])
}

func TestScanRuneCallsIgnoresBareReferenceWithoutParens(t *testing.T) {
	calls := scanRuneCalls(`const fn = $state;`)
	assert.Empty(t, calls)
}

func TestScanRuneCallsIgnoresUnknownRuneName(t *testing.T) {
	calls := scanRuneCalls(`const v = $notarune(1);`)
	assert.Empty(t, calls)
}

func TestScanRuneCallsCapturesGeneric(t *testing.T) {
	src := `let items = $state<string[]>([]);`
	calls := scanRuneCalls(src)
	require.Len(t, calls, 1)
	assert.Equal(t, "string[]", calls[0].generic)
}

func TestScanRuneCallsHandlesTemplateLiteralInterpolation(t *testing.T) {
	src := "const label = `hi ${name}`; const x = $state(1);"
	calls := scanRuneCalls(src)
	require.Len(t, calls, 1)
	assert.Equal(t, "1", src[calls[0].argsStart:calls[0].argsEnd])
}

func TestNormalizeArgsCollapsesMultilineTrailingComma(t *testing.T) {
	got := normalizeArgs("\n  value,\n")
	assert.Equal(t, "value", got)
}

func TestNormalizeArgsLeavesSingleLineUntouched(t *testing.T) {
	got := normalizeArgs("value")
	assert.Equal(t, "value", got)
}
