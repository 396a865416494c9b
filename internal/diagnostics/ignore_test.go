package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseIgnoreDirectiveSplitsCodes(t *testing.T) {
	codes, ok := parseIgnoreDirective(" svelte-ignore a11y-autofocus, a11y-positive-tabindex ")
	require.True(t, ok)
	assert.Equal(t, []string{"a11y-autofocus", "a11y-positive-tabindex"}, codes)
}

func TestParseIgnoreDirectiveAcceptsSnakeCase(t *testing.T) {
	codes, ok := parseIgnoreDirective("svelte-ignore a11y_autofocus")
	require.True(t, ok)
	assert.Equal(t, []string{"a11y-autofocus"}, codes)
}

func TestParseIgnoreDirectiveRejectsOtherComments(t *testing.T) {
	_, ok := parseIgnoreDirective("just a comment")
	assert.False(t, ok)
}

func TestIgnoreScopeMatchesWildcard(t *testing.T) {
	var s ignoreScope
	s.push([]string{"a11y-*"})
	assert.True(t, s.suppresses("a11y-autofocus"))
	assert.False(t, s.suppresses("missing-declaration"))
}

func TestIgnoreScopePopRemovesFrame(t *testing.T) {
	var s ignoreScope
	s.push([]string{"a11y-autofocus"})
	s.pop()
	assert.False(t, s.suppresses("a11y-autofocus"))
}
