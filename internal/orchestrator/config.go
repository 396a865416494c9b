package orchestrator

import "time"

// Threshold is the minimum severity a diagnostic must carry to count
// towards --fail-on-warnings and the emitted report.
type Threshold string

const (
	ThresholdError   Threshold = "error"
	ThresholdWarning Threshold = "warning"
)

// Config collects everything a Run needs that isn't discovered along the
// way: the CLI-level settings a single invocation fixes for its lifetime.
type Config struct {
	// WorkspaceDir is the project root Discover walks and every path is
	// reported relative to.
	WorkspaceDir string
	// TSConfigPath points at the tsconfig.json the type-checker
	// collaborator's staged project is derived from.
	TSConfigPath string
	// CacheDir holds the two-tier cache's sqlite index and disk mirror.
	CacheDir string
	// StagingDir holds the generated-TypeScript mirror the type-checker
	// collaborator is pointed at.
	StagingDir string

	Ignore []string

	Threshold       Threshold
	FailOnWarnings  bool
	DiagnosticOpts  DiagnosticOptions
	SkipTsgo        bool
	SkipSvelteCheck bool

	// TransformerVersion namespaces the cache so a transform.Transform
	// change invalidates every entry without a manifest change.
	TransformerVersion string

	// Jobs caps per-file parallelism; zero means runtime.NumCPU.
	Jobs int

	// SubprocessStartupGrace bounds how long a collaborator subprocess may
	// take to report ready before the check command gives up on it.
	SubprocessStartupGrace time.Duration
}

// DiagnosticOptions selects which diagnostic sources a Run consults,
// mirroring --diagnostic-sources.
type DiagnosticOptions struct {
	Internal   bool
	TypeScript bool
	Compiler   bool
}

// AllSources enables every diagnostic source.
func AllSources() DiagnosticOptions {
	return DiagnosticOptions{Internal: true, TypeScript: true, Compiler: true}
}

// DefaultConfig returns a Config with the same defaults the CLI falls back
// to when a flag is not supplied.
func DefaultConfig(workspaceDir string) Config {
	return Config{
		WorkspaceDir:           workspaceDir,
		Threshold:              ThresholdWarning,
		DiagnosticOpts:         AllSources(),
		TransformerVersion:     "1",
		SubprocessStartupGrace: 30 * time.Second,
	}
}
