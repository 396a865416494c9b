package collab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
)

func newTestCompiler(t *testing.T, commandLine string, scriptArgs ...string) *SvelteCompiler {
	t.Helper()
	c, err := NewSvelteCompiler(commandLine, scriptArgs...)
	require.NoError(t, err)
	return c
}

func TestConvertCompilerDiagnosticErrorSeverity(t *testing.T) {
	input := CompilerInput{FilePath: "src/App.svelte", Source: "line one\nline two\n", File: 3}
	d := convertCompilerDiagnostic(input, compilerDiagnostic{
		Code:     "a11y-structure",
		Message:  "heading levels should only increase by one",
		Severity: "error",
		Start:    compilerOffset{Line: 0, Column: 0},
		End:      compilerOffset{Line: 0, Column: 4},
	})

	assert.Equal(t, "a11y-structure", d.Code)
	assert.Equal(t, diagnostics.SeverityError, d.Severity)
	assert.Equal(t, diagnostics.SourceCompiler, d.Source)
	assert.Equal(t, "src/App.svelte", d.FilePath)
	assert.Equal(t, uint32(3), uint32(d.Span.File))
	assert.Equal(t, uint32(0), d.Span.Start)
	assert.Equal(t, uint32(4), d.Span.End)
}

func TestConvertCompilerDiagnosticDefaultsToWarning(t *testing.T) {
	input := CompilerInput{FilePath: "src/App.svelte", Source: "x\n", File: 1}
	d := convertCompilerDiagnostic(input, compilerDiagnostic{
		Code:     "unused-export",
		Severity: "warning",
		Start:    compilerOffset{Line: 0, Column: 0},
		End:      compilerOffset{Line: 0, Column: 1},
	})
	assert.Equal(t, diagnostics.SeverityWarning, d.Severity)
}

func TestConvertCompilerDiagnosticWidensEmptySpan(t *testing.T) {
	input := CompilerInput{FilePath: "src/App.svelte", Source: "x\n", File: 1}
	d := convertCompilerDiagnostic(input, compilerDiagnostic{
		Code:     "x",
		Severity: "error",
		Start:    compilerOffset{Line: 0, Column: 0},
		End:      compilerOffset{Line: 0, Column: 0},
	})
	assert.Greater(t, d.Span.End, d.Span.Start)
}

func TestOffsetFromLineIndexSecondLine(t *testing.T) {
	source := "abc\ndefgh\n"
	off := offsetFromLineIndex(source, compilerOffset{Line: 1, Column: 2})
	assert.Equal(t, uint32(6), off)
}

func TestOffsetFromLineIndexClampsOutOfRangeLine(t *testing.T) {
	source := "abc\n"
	assert.NotPanics(t, func() {
		offsetFromLineIndex(source, compilerOffset{Line: 50, Column: 0})
	})
}

func TestSvelteCompilerValidateCommandRejectsUnknown(t *testing.T) {
	c := newTestCompiler(t, "rm", "-rf")
	assert.Error(t, c.validateCommand())
}

func TestSvelteCompilerValidateCommandAllowsSveltec(t *testing.T) {
	c := newTestCompiler(t, "sveltec")
	assert.NoError(t, c.validateCommand())
}

func TestSvelteCompilerCheckWithoutStartFails(t *testing.T) {
	c := newTestCompiler(t, "sveltec")
	_, err := c.Check([]CompilerInput{{FilePath: "a.svelte", Source: "x"}})
	assert.Error(t, err)
}
