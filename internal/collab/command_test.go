package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommandLineEmptyUsesFallback(t *testing.T) {
	cmd, args, err := splitCommandLine("", "tsgo")
	require.NoError(t, err)
	assert.Equal(t, "tsgo", cmd)
	assert.Nil(t, args)
}

func TestSplitCommandLineSplitsQuotedTokens(t *testing.T) {
	cmd, args, err := splitCommandLine(`"/opt/my tools/tsgo" --pretty`, "tsgo")
	require.NoError(t, err)
	assert.Equal(t, "/opt/my tools/tsgo", cmd)
	assert.Equal(t, []string{"--pretty"}, args)
}

func TestSplitCommandLineRejectsUnterminatedQuote(t *testing.T) {
	_, _, err := splitCommandLine(`tsgo "oops`, "tsgo")
	assert.Error(t, err)
}
