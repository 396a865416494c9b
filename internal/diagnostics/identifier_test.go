package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckMissingDeclarationFlagsUnknownIdentifier(t *testing.T) {
	res := parse(t, `<script>let count = 1;</script><p>{count}</p><p>{bogus}</p>`)
	diags := checkMissingDeclaration(res.Document)
	require.Len(t, diags, 1)
	assert.Equal(t, "missing-declaration", diags[0].Code)
}

func TestCheckMissingDeclarationIgnoresComplexExpressions(t *testing.T) {
	res := parse(t, `<script>let count = 1;</script><p>{count + 1}</p><p>{bogus.field}</p>`)
	diags := checkMissingDeclaration(res.Document)
	assert.Empty(t, diags)
}

func TestCheckMissingDeclarationRecognizesImports(t *testing.T) {
	res := parse(t, `<script>import { helper } from "./util";</script><p>{helper}</p>`)
	diags := checkMissingDeclaration(res.Document)
	assert.Empty(t, diags)
}

func TestCheckComponentNameCaseFlagsLowercaseImport(t *testing.T) {
	res := parse(t, `<script>import child from "./Child.svelte";</script>`)
	diags := checkComponentNameCase(res.Document)
	require.Len(t, diags, 1)
	assert.Equal(t, "component-name-case", diags[0].Code)
}

func TestCheckComponentNameCaseAllowsUppercaseImport(t *testing.T) {
	res := parse(t, `<script>import Child from "./Child.svelte";</script>`)
	diags := checkComponentNameCase(res.Document)
	assert.Empty(t, diags)
}
