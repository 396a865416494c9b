package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

func noLineIndex(string) *position.LineIndex { return nil }

func TestAggregateDedupesIdenticalFindings(t *testing.T) {
	d := diagnostics.Diagnostic{
		Code: "a11y-img-alt", Severity: diagnostics.SeverityWarning,
		Message: "missing alt", FilePath: "src/App.svelte",
	}
	d2 := d
	d2.Source = diagnostics.SourceCompiler

	out := Aggregate([]diagnostics.Diagnostic{d, d2}, ThresholdWarning, noLineIndex)
	assert.Len(t, out, 1)
}

func TestAggregateKeepsDistinctCodesAtSamePosition(t *testing.T) {
	d1 := diagnostics.Diagnostic{Code: "a11y-img-alt", Severity: diagnostics.SeverityWarning, FilePath: "src/App.svelte"}
	d2 := diagnostics.Diagnostic{Code: "ts2322", Severity: diagnostics.SeverityError, FilePath: "src/App.svelte"}

	out := Aggregate([]diagnostics.Diagnostic{d1, d2}, ThresholdWarning, noLineIndex)
	assert.Len(t, out, 2)
}

func TestAggregateFiltersByThreshold(t *testing.T) {
	warn := diagnostics.Diagnostic{Code: "w1", Severity: diagnostics.SeverityWarning, FilePath: "src/App.svelte"}
	errD := diagnostics.Diagnostic{Code: "e1", Severity: diagnostics.SeverityError, FilePath: "src/App.svelte"}

	out := Aggregate([]diagnostics.Diagnostic{warn, errD}, ThresholdError, noLineIndex)
	assert.Len(t, out, 1)
	assert.Equal(t, "e1", out[0].Code)
}

func TestAggregateSortsByFilePath(t *testing.T) {
	b := diagnostics.Diagnostic{Code: "x", Severity: diagnostics.SeverityWarning, FilePath: "src/b.svelte"}
	a := diagnostics.Diagnostic{Code: "y", Severity: diagnostics.SeverityWarning, FilePath: "src/a.svelte"}

	out := Aggregate([]diagnostics.Diagnostic{b, a}, ThresholdWarning, noLineIndex)
	assert.Equal(t, "src/a.svelte", out[0].FilePath)
	assert.Equal(t, "src/b.svelte", out[1].FilePath)
}

func TestAggregateSortsBySpanWithinFile(t *testing.T) {
	src := []byte("line one\nline two\nline three\n")
	lines := position.NewLineIndex(src)
	lookup := func(string) *position.LineIndex { return lines }

	late := diagnostics.Diagnostic{
		Code: "late", Severity: diagnostics.SeverityWarning, FilePath: "src/App.svelte",
		Span: position.Span{File: 1, Start: 20, End: 21},
	}
	early := diagnostics.Diagnostic{
		Code: "early", Severity: diagnostics.SeverityWarning, FilePath: "src/App.svelte",
		Span: position.Span{File: 1, Start: 2, End: 3},
	}

	out := Aggregate([]diagnostics.Diagnostic{late, early}, ThresholdWarning, lookup)
	assert.Equal(t, "early", out[0].Code)
	assert.Equal(t, "late", out[1].Code)
}

func TestMeetsThresholdWarningAllowsErrorAndWarning(t *testing.T) {
	assert.True(t, meetsThreshold(diagnostics.SeverityWarning, ThresholdWarning))
	assert.True(t, meetsThreshold(diagnostics.SeverityError, ThresholdWarning))
	assert.False(t, meetsThreshold(diagnostics.SeverityHint, ThresholdWarning))
}

func TestMeetsThresholdErrorExcludesWarning(t *testing.T) {
	assert.False(t, meetsThreshold(diagnostics.SeverityWarning, ThresholdError))
	assert.True(t, meetsThreshold(diagnostics.SeverityError, ThresholdError))
}
