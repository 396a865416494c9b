package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/svelte-tools/svelte-check-go/internal/apperrors"
	"github.com/svelte-tools/svelte-check-go/internal/cache"
	"github.com/svelte-tools/svelte-check-go/internal/collab"
	"github.com/svelte-tools/svelte-check-go/internal/config"
	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/logging"
	"github.com/svelte-tools/svelte-check-go/internal/orchestrator"
	"github.com/svelte-tools/svelte-check-go/internal/output"
	"github.com/svelte-tools/svelte-check-go/internal/version"
)

// manifestFiles are the dependency markers whose combined hash gates the
// wholesale cache invalidation: a lockfile change means the node_modules
// tree the type checker resolves against may have changed underneath
// every cached transform.
var manifestFiles = []string{
	"package.json",
	"package-lock.json",
	"pnpm-lock.yaml",
	"yarn.lock",
	"bun.lockb",
	"bun.lock",
}

// runCheck performs one full check and writes the report. generation
// partitions the staging directory so overlapping watch-mode runs never
// share staged files.
func runCheck(ctx context.Context, out io.Writer, cfg *config.Config, log logging.Logger, generation uint64) error {
	cacheDir := resolveCacheDir(cfg.Workspace, cfg.CacheDir)
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	release, err := acquireCacheLock(cacheDir)
	if err != nil {
		return err
	}
	defer release()

	stagingDir := filepath.Join(cacheDir, "staging", fmt.Sprintf("gen-%d", generation))
	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("create staging directory: %w", err)
	}
	if err := writeStagingTSConfig(stagingDir, cfg); err != nil {
		return err
	}

	store, err := cache.Open(filepath.Join(cacheDir, "transforms"), 64<<20, 24*time.Hour)
	if err != nil {
		return fmt.Errorf("open transform cache: %w", err)
	}
	defer store.Close()

	if hash, err := hashManifest(cfg.Workspace); err == nil {
		if invalidated, err := store.CheckManifest(hash); err != nil {
			log.Warn(ctx, err, "manifest check failed")
		} else if invalidated {
			log.Info(ctx, "dependency manifest changed, cache cleared")
		}
	}

	orchCfg := cfg.ToOrchestratorConfig(stagingDir)
	orchCfg.TransformerVersion = version.GetVersion()

	var compiler *collab.SvelteCompiler
	if orchCfg.DiagnosticOpts.Compiler && !cfg.SkipSvelteCheck {
		compiler, err = collab.NewSvelteCompiler(cfg.Collaborators.CompilerCommand)
		if err != nil {
			return fmt.Errorf("configure compiler collaborator: %w", err)
		}
		startCtx, cancel := context.WithTimeout(ctx, orchCfg.SubprocessStartupGrace)
		err = compiler.Start(startCtx)
		cancel()
		if err != nil {
			return apperrors.FatalSubprocessStart("subprocess-start",
				"framework compiler collaborator failed to start; install it or pass --skip-svelte-compiler", err)
		}
		defer compiler.Close()
	}

	var typeChecker *collab.TypeScriptChecker
	if orchCfg.DiagnosticOpts.TypeScript && !cfg.SkipTsgo {
		typeChecker, err = collab.NewTypeScriptChecker(cfg.Collaborators.TypeScriptCommand, stagingDir)
		if err != nil {
			return fmt.Errorf("configure type checker collaborator: %w", err)
		}
	}

	run := orchestrator.NewRun(orchCfg, store, log, compilerOrNil(compiler), typeCheckerOrNil(typeChecker))
	diags, err := run.Execute(ctx)
	if err != nil {
		return err
	}

	if err := writeReport(out, cfg.Output, diags, run); err != nil {
		return err
	}

	if shouldFail(diags, cfg.FailOnWarn) {
		return ErrFindings
	}
	return nil
}

// compilerOrNil keeps a typed nil *SvelteCompiler from sneaking into
// Run's interface field as a non-nil interface value.
func compilerOrNil(c *collab.SvelteCompiler) orchestrator.CompilerCollaborator {
	if c == nil {
		return nil
	}
	return c
}

func typeCheckerOrNil(c *collab.TypeScriptChecker) orchestrator.TypeCheckCollaborator {
	if c == nil {
		return nil
	}
	return c
}

func writeReport(out io.Writer, format string, diags []diagnostics.Diagnostic, run *orchestrator.Run) error {
	switch output.Format(format) {
	case output.FormatJSON:
		return output.WriteJSON(out, diags, run.LineIndexFor)
	case output.FormatMachine:
		return output.WriteMachine(out, diags, run.LineIndexFor)
	case output.FormatHumanVerbose:
		return output.WriteHumanVerbose(out, diags, run.LineIndexFor, run.Metrics().Summary())
	default:
		return output.WriteHuman(out, diags, run.LineIndexFor)
	}
}

// shouldFail decides the exit-1 condition: any error, or any warning
// when --fail-on-warnings is set.
func shouldFail(diags []diagnostics.Diagnostic, failOnWarnings bool) bool {
	for _, d := range diags {
		if d.Severity == diagnostics.SeverityError {
			return true
		}
		if failOnWarnings && d.Severity == diagnostics.SeverityWarning {
			return true
		}
	}
	return false
}

// acquireCacheLock takes the writer-exclusive process-wide lock on the
// cache directory. A live lock means another checker owns the cache.
func acquireCacheLock(cacheDir string) (func(), error) {
	lockPath := filepath.Join(cacheDir, ".lock")
	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("cache directory %s is locked by another svelte-check process (remove %s if that process is gone)", cacheDir, lockPath)
		}
		return nil, fmt.Errorf("lock cache directory: %w", err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	f.Close()
	return func() { os.Remove(lockPath) }, nil
}

// writeStagingTSConfig writes the tsconfig the type checker is pointed
// at: extending the user's when one was named, otherwise a strict
// default over the staged tree.
func writeStagingTSConfig(stagingDir string, cfg *config.Config) error {
	var content string
	if cfg.TSConfig != "" {
		abs, err := filepath.Abs(cfg.TSConfig)
		if err != nil {
			return fmt.Errorf("resolve tsconfig path: %w", err)
		}
		content = fmt.Sprintf(`{
  "extends": %q,
  "compilerOptions": {
    "noEmit": true
  },
  "include": ["**/*.ts"]
}
`, filepath.ToSlash(abs))
	} else {
		content = `{
  "compilerOptions": {
    "strict": true,
    "noEmit": true,
    "target": "esnext",
    "module": "esnext",
    "moduleResolution": "bundler",
    "skipLibCheck": true
  },
  "include": ["**/*.ts"]
}
`
	}
	if err := os.WriteFile(filepath.Join(stagingDir, "tsconfig.json"), []byte(content), 0o644); err != nil {
		return fmt.Errorf("write staged tsconfig: %w", err)
	}
	return nil
}

// hashManifest combines the workspace's dependency-marker files into one
// hash; missing markers simply don't contribute.
func hashManifest(workspace string) (string, error) {
	h := sha256.New()
	found := false
	for _, name := range manifestFiles {
		data, err := os.ReadFile(filepath.Join(workspace, name))
		if err != nil {
			continue
		}
		found = true
		h.Write([]byte(name))
		h.Write(data)
	}
	if !found {
		return "", fmt.Errorf("no dependency manifest in %s", workspace)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
