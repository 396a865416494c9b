package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelte-tools/svelte-check-go/internal/cache"
	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/orchestrator"
	"github.com/svelte-tools/svelte-check-go/internal/output"
)

const headingComponent = `<h1>Title</h1>
<h4>Skipped levels</h4>
`

const ignoredComponent = `<!-- svelte-ignore a11y-* -->
<div role="button" tabindex="5"></div>
`

const runeComponent = `<script lang="ts">
  let mode = $state<'a'|'b'>(
    'a',
  );
</script>
<p>{mode}</p>
`

func writeWorkspace(t *testing.T) string {
	t.Helper()
	workspace := t.TempDir()
	src := filepath.Join(workspace, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Heading.svelte"), []byte(headingComponent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Ignored.svelte"), []byte(ignoredComponent), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Mode.svelte"), []byte(runeComponent), 0o644))
	return workspace
}

func executePipeline(t *testing.T, workspace, stagingDir string) ([]diagnostics.Diagnostic, *orchestrator.Run) {
	t.Helper()
	cfg := orchestrator.DefaultConfig(workspace)
	cfg.StagingDir = stagingDir
	cfg.DiagnosticOpts = orchestrator.DiagnosticOptions{Internal: true}

	store, err := cache.Open(t.TempDir(), 1<<20, time.Hour)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	run := orchestrator.NewRun(cfg, store, nil, nil, nil)
	diags, err := run.Execute(context.Background())
	require.NoError(t, err)
	return diags, run
}

func TestIntegration_HeadingProgressionDiagnostic(t *testing.T) {
	workspace := writeWorkspace(t)
	diags, _ := executePipeline(t, workspace, t.TempDir())

	var structure []diagnostics.Diagnostic
	for _, d := range diags {
		if d.Code == "a11y-structure" {
			structure = append(structure, d)
		}
	}
	require.Len(t, structure, 1)
	assert.Equal(t, "src/Heading.svelte", structure[0].FilePath)
}

func TestIntegration_IgnoreWildcardSuppressesA11y(t *testing.T) {
	workspace := writeWorkspace(t)
	diags, _ := executePipeline(t, workspace, t.TempDir())

	for _, d := range diags {
		if d.FilePath == "src/Ignored.svelte" {
			assert.NotContains(t, d.Code, "a11y", "suppressed by the ignore directive: %v", d)
		}
	}
}

func TestIntegration_MultiLineRuneIsStagedAsSingleExpression(t *testing.T) {
	workspace := writeWorkspace(t)
	staging := t.TempDir()
	diags, _ := executePipeline(t, workspace, staging)

	for _, d := range diags {
		assert.NotEqual(t, "src/Mode.svelte", d.FilePath, "unexpected diagnostic: %v", d)
	}

	staged, err := os.ReadFile(filepath.Join(staging, "src", "Mode.svelte.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(staged), "let $$v: 'a'|'b' = ('a');")
	assert.NotContains(t, string(staged), "$state")
}

func TestIntegration_RepeatedRunsEmitIdenticalJSON(t *testing.T) {
	workspace := writeWorkspace(t)

	render := func() []byte {
		diags, run := executePipeline(t, workspace, t.TempDir())
		var buf bytes.Buffer
		require.NoError(t, output.WriteJSON(&buf, diags, run.LineIndexFor))
		return buf.Bytes()
	}

	first := render()
	second := render()
	assert.Equal(t, first, second, "pipeline output must be byte-identical across runs")
}

func TestIntegration_RuneModuleFileIsTransformed(t *testing.T) {
	workspace := t.TempDir()
	src := filepath.Join(workspace, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))
	module := "export const counter = $state<number>(0);\n"
	require.NoError(t, os.WriteFile(filepath.Join(src, "counter.svelte.ts"), []byte(module), 0o644))

	staging := t.TempDir()
	diags, _ := executePipeline(t, workspace, staging)
	for _, d := range diags {
		assert.NotEqual(t, "error", string(d.Severity), "unexpected diagnostic: %v", d)
	}

	staged, err := os.ReadFile(filepath.Join(staging, "src", "counter.svelte.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(staged), "let $$v: number = (0);")
	assert.NotContains(t, string(staged), "$state")
}
