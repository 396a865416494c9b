// Package config provides configuration management for the checker using
// Viper for flexible loading from files, environment variables, and
// command-line flags.
//
// The configuration system supports YAML files, environment variable
// overrides with a SVELTE_CHECK_ prefix, and validation. It manages the
// workspace/tsconfig location, the severity threshold, diagnostic source
// selection, and the collaborator subprocess invocations.
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/svelte-tools/svelte-check-go/internal/orchestrator"
)

// Config is the checker's full configuration, loaded with priority
// flags > environment > file > default.
type Config struct {
	Workspace  string   `yaml:"workspace"`
	TSConfig   string   `yaml:"tsconfig"`
	CacheDir   string   `yaml:"cache_dir"`
	Ignore     []string `yaml:"ignore"`
	Threshold  string   `yaml:"threshold"`
	FailOnWarn bool     `yaml:"fail_on_warnings"`
	Output     string   `yaml:"output"`
	Watch      bool     `yaml:"watch"`

	DiagnosticSources []string `yaml:"diagnostic_sources"`
	SkipTsgo          bool     `yaml:"skip_tsgo"`
	SkipSvelteCheck   bool     `yaml:"skip_svelte_compiler"`

	Collaborators CollaboratorConfig `yaml:"collaborators"`

	Jobs int `yaml:"jobs"`
}

// CollaboratorConfig holds the user-configured invocation lines for the
// two subprocess collaborators; empty means let collab pick its default
// ("tsgo", "sveltec").
type CollaboratorConfig struct {
	TypeScriptCommand string `yaml:"typescript_command"`
	CompilerCommand   string `yaml:"compiler_command"`
}

// Load reads configuration from whatever sources initConfig's caller
// already pointed Viper at (see cmd.initConfig), applying the same
// defaults a bare invocation would get.
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if cfg.Workspace == "" {
		cfg.Workspace = "."
	}
	if cfg.Threshold == "" {
		cfg.Threshold = "warning"
	}
	if cfg.Output == "" {
		cfg.Output = "human"
	}
	if len(cfg.DiagnosticSources) == 0 {
		cfg.DiagnosticSources = []string{"internal", "typescript", "compiler"}
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = ".svelte-check-cache"
	}

	return &cfg, nil
}

// Validate checks that the configuration describes a runnable check
// before anything touches the filesystem or spawns a subprocess.
func (c *Config) Validate() error {
	if c.Workspace == "" {
		return fmt.Errorf("workspace must not be empty")
	}
	switch c.Threshold {
	case "error", "warning":
	default:
		return fmt.Errorf("threshold must be %q or %q, got %q", "error", "warning", c.Threshold)
	}
	switch c.Output {
	case "human", "human-verbose", "json", "machine":
	default:
		return fmt.Errorf("output must be one of human, human-verbose, json, machine, got %q", c.Output)
	}
	for _, src := range c.DiagnosticSources {
		switch src {
		case "internal", "typescript", "compiler":
		default:
			return fmt.Errorf("unknown diagnostic source %q", src)
		}
	}
	if c.Jobs < 0 {
		return fmt.Errorf("jobs must not be negative, got %d", c.Jobs)
	}
	return nil
}

// ToOrchestratorConfig builds the orchestrator.Config this configuration
// describes, rooted at a resolved staging directory.
func (c *Config) ToOrchestratorConfig(stagingDir string) orchestrator.Config {
	sources := orchestrator.DiagnosticOptions{}
	for _, src := range c.DiagnosticSources {
		switch src {
		case "internal":
			sources.Internal = true
		case "typescript":
			sources.TypeScript = true
		case "compiler":
			sources.Compiler = true
		}
	}

	threshold := orchestrator.ThresholdWarning
	if c.Threshold == "error" {
		threshold = orchestrator.ThresholdError
	}

	cfg := orchestrator.DefaultConfig(c.Workspace)
	cfg.TSConfigPath = c.TSConfig
	cfg.CacheDir = c.CacheDir
	cfg.StagingDir = stagingDir
	cfg.Ignore = c.Ignore
	cfg.Threshold = threshold
	cfg.FailOnWarnings = c.FailOnWarn
	cfg.DiagnosticOpts = sources
	cfg.SkipTsgo = c.SkipTsgo
	cfg.SkipSvelteCheck = c.SkipSvelteCheck
	cfg.Jobs = c.Jobs
	return cfg
}
