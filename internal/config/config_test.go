package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	old := viper.GetViper()
	t.Cleanup(func() { *viper.GetViper() = *old })
	viper.Reset()
}

func TestLoadAppliesDefaults(t *testing.T) {
	resetViper(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Workspace)
	assert.Equal(t, "warning", cfg.Threshold)
	assert.Equal(t, "human", cfg.Output)
	assert.Equal(t, []string{"internal", "typescript", "compiler"}, cfg.DiagnosticSources)
	assert.Equal(t, ".svelte-check-cache", cfg.CacheDir)
}

func TestLoadHonorsExplicitValues(t *testing.T) {
	resetViper(t)
	viper.Set("workspace", "./app")
	viper.Set("threshold", "error")
	viper.Set("output", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "./app", cfg.Workspace)
	assert.Equal(t, "error", cfg.Threshold)
	assert.Equal(t, "json", cfg.Output)
}

func TestValidateRejectsUnknownThreshold(t *testing.T) {
	cfg := &Config{Workspace: ".", Threshold: "critical", Output: "human"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownOutput(t *testing.T) {
	cfg := &Config{Workspace: ".", Threshold: "warning", Output: "xml"}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownDiagnosticSource(t *testing.T) {
	cfg := &Config{Workspace: ".", Threshold: "warning", Output: "human", DiagnosticSources: []string{"linter"}}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNegativeJobs(t *testing.T) {
	cfg := &Config{Workspace: ".", Threshold: "warning", Output: "human", Jobs: -1}
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	cfg := &Config{
		Workspace:         ".",
		Threshold:         "warning",
		Output:            "human-verbose",
		DiagnosticSources: []string{"internal", "compiler"},
	}
	assert.NoError(t, cfg.Validate())
}

func TestToOrchestratorConfigTranslatesSources(t *testing.T) {
	cfg := &Config{
		Workspace:         "/ws",
		TSConfig:          "/ws/tsconfig.json",
		CacheDir:          "/ws/.cache",
		Threshold:         "error",
		DiagnosticSources: []string{"internal", "typescript"},
		SkipSvelteCheck:   true,
		Jobs:              4,
	}

	oc := cfg.ToOrchestratorConfig("/ws/.staging")
	assert.Equal(t, "/ws", oc.WorkspaceDir)
	assert.Equal(t, "/ws/tsconfig.json", oc.TSConfigPath)
	assert.Equal(t, "/ws/.staging", oc.StagingDir)
	assert.True(t, oc.DiagnosticOpts.Internal)
	assert.True(t, oc.DiagnosticOpts.TypeScript)
	assert.False(t, oc.DiagnosticOpts.Compiler)
	assert.True(t, oc.SkipSvelteCheck)
	assert.Equal(t, 4, oc.Jobs)
	assert.EqualValues(t, "error", oc.Threshold)
}
