package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/svelte-tools/svelte-check-go/internal/config"
	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
)

func TestShouldFail(t *testing.T) {
	errDiag := diagnostics.Diagnostic{Severity: diagnostics.SeverityError}
	warnDiag := diagnostics.Diagnostic{Severity: diagnostics.SeverityWarning}
	hintDiag := diagnostics.Diagnostic{Severity: diagnostics.SeverityHint}

	assert.False(t, shouldFail(nil, false))
	assert.False(t, shouldFail([]diagnostics.Diagnostic{hintDiag}, true))
	assert.False(t, shouldFail([]diagnostics.Diagnostic{warnDiag}, false))
	assert.True(t, shouldFail([]diagnostics.Diagnostic{warnDiag}, true))
	assert.True(t, shouldFail([]diagnostics.Diagnostic{errDiag}, false))
	assert.True(t, shouldFail([]diagnostics.Diagnostic{hintDiag, errDiag}, false))
}

func TestAcquireCacheLockIsExclusive(t *testing.T) {
	dir := t.TempDir()

	release, err := acquireCacheLock(dir)
	require.NoError(t, err)

	_, err = acquireCacheLock(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by another")

	release()

	release2, err := acquireCacheLock(dir)
	require.NoError(t, err)
	release2()
}

func TestWriteStagingTSConfigDefault(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{}

	require.NoError(t, writeStagingTSConfig(dir, cfg))

	data, err := os.ReadFile(filepath.Join(dir, "tsconfig.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"strict": true`)
	assert.Contains(t, string(data), `"include": ["**/*.ts"]`)
	assert.NotContains(t, string(data), "extends")
}

func TestWriteStagingTSConfigExtendsUserConfig(t *testing.T) {
	dir := t.TempDir()
	userTSConfig := filepath.Join(t.TempDir(), "tsconfig.json")
	require.NoError(t, os.WriteFile(userTSConfig, []byte(`{}`), 0o644))

	cfg := &config.Config{TSConfig: userTSConfig}
	require.NoError(t, writeStagingTSConfig(dir, cfg))

	data, err := os.ReadFile(filepath.Join(dir, "tsconfig.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"extends"`)
	assert.Contains(t, string(data), filepath.ToSlash(userTSConfig))
}

func TestHashManifest(t *testing.T) {
	workspace := t.TempDir()

	_, err := hashManifest(workspace)
	assert.Error(t, err, "no manifest files present")

	require.NoError(t, os.WriteFile(filepath.Join(workspace, "package.json"), []byte(`{"name":"app"}`), 0o644))
	first, err := hashManifest(workspace)
	require.NoError(t, err)

	again, err := hashManifest(workspace)
	require.NoError(t, err)
	assert.Equal(t, first, again, "hash is deterministic")

	require.NoError(t, os.WriteFile(filepath.Join(workspace, "package-lock.json"), []byte(`{}`), 0o644))
	changed, err := hashManifest(workspace)
	require.NoError(t, err)
	assert.NotEqual(t, first, changed, "lockfile change moves the hash")
}

func TestResolveCacheDir(t *testing.T) {
	assert.Equal(t, filepath.Join("ws", ".svelte-check-cache"), resolveCacheDir("ws", ".svelte-check-cache"))

	abs := string(filepath.Separator) + filepath.Join("tmp", "cache")
	assert.Equal(t, abs, resolveCacheDir("ws", abs))
}

func TestRootCommandRejectsBadThreshold(t *testing.T) {
	cmd := rootCmd
	cmd.SetArgs([]string{"--threshold", "bogus", "--workspace", t.TempDir()})
	defer cmd.SetArgs(nil)

	err := cmd.Execute()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "threshold"))
}
