// Package orchestrator drives a single check run end to end: discovering
// component files, running the parse/lint/transform stages over them in
// parallel, invoking the two collaborator subprocesses, and aggregating
// everything into one sorted diagnostic list.
package orchestrator

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sync/errgroup"

	"github.com/svelte-tools/svelte-check-go/internal/apperrors"
	"github.com/svelte-tools/svelte-check-go/internal/ast"
	"github.com/svelte-tools/svelte-check-go/internal/cache"
	"github.com/svelte-tools/svelte-check-go/internal/collab"
	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/logging"
	"github.com/svelte-tools/svelte-check-go/internal/position"
	"github.com/svelte-tools/svelte-check-go/internal/svelteparser"
	"github.com/svelte-tools/svelte-check-go/internal/transform"
)

// stagedPath names a file's generated mirror inside the staging tree.
// Components gain a .ts suffix (Child.svelte -> Child.svelte.ts, which a
// rewritten "./Child.svelte.js" import resolves to under TypeScript's
// .js-to-.ts substitution); rune modules swap their own extension for .ts
// so "./counter.svelte.js" imports keep resolving in the staged tree.
func stagedPath(relPath string) string {
	if IsModulePath(relPath) {
		return strings.TrimSuffix(strings.TrimSuffix(relPath, ".ts"), ".js") + ".ts"
	}
	return relPath + ".ts"
}

// CompilerCollaborator is the subset of collab.SvelteCompiler a Run needs,
// narrowed to an interface so tests can stand in a fake subprocess.
type CompilerCollaborator interface {
	Check(inputs []collab.CompilerInput) ([]diagnostics.Diagnostic, error)
}

// TypeCheckCollaborator is the subset of collab.TypeScriptChecker a Run
// needs.
type TypeCheckCollaborator interface {
	Check(ctx context.Context, registry *collab.Registry) ([]diagnostics.Diagnostic, error)
}

// fileResult is one discovered component's output from the parallel
// parse/lint/transform stage.
type fileResult struct {
	path        string
	fileID      position.FileID
	source      []byte
	lines       *position.LineIndex
	diagnostics []diagnostics.Diagnostic
	transformed *transform.Result
}

// Run owns the state of a single check invocation: the file table every
// span is expressed against, the cache store, and the metrics accumulated
// along the way. A Run is single-use.
type Run struct {
	id    string
	cfg   Config
	log   logging.Logger
	files *FileTable
	store *cache.Store

	compiler    CompilerCollaborator
	typeChecker TypeCheckCollaborator

	// lines retains each file's LineIndex past Execute, until every
	// diagnostic referencing the file has been formatted.
	lines map[string]*position.LineIndex

	metrics Metrics
}

// NewRun prepares a Run backed by an already-open cache store. compiler and
// typeChecker may be nil; Run skips the corresponding stage (the same as
// if the matching --skip-* flag or --diagnostic-sources entry had
// disabled it). Each Run gets its own id, so a --watch session's log lines
// can be correlated back to the pipeline generation that produced them.
func NewRun(cfg Config, store *cache.Store, log logging.Logger, compiler CompilerCollaborator, typeChecker TypeCheckCollaborator) *Run {
	if log == nil {
		log = logging.NewLogger(logging.DefaultConfig())
	}
	return &Run{
		id:          uuid.NewString(),
		cfg:         cfg,
		log:         log,
		files:       NewFileTable(),
		store:       store,
		compiler:    compiler,
		typeChecker: typeChecker,
	}
}

// ID identifies this Run, stable for its lifetime.
func (r *Run) ID() string { return r.id }

// jobLimit resolves the per-file concurrency cap: the configured value if
// set, otherwise the CPU count, halved when available memory is under 512
// MiB so a low-memory machine doesn't spawn a parser/transform goroutine
// per core and thrash.
func jobLimit(configured int) int {
	if configured > 0 {
		return configured
	}
	n := runtime.NumCPU()
	if vm, err := mem.VirtualMemory(); err == nil && vm.Available < 512*1024*1024 {
		n = max(1, n/2)
	}
	return n
}

// Metrics returns the run's accumulated counters, valid once Execute
// returns.
func (r *Run) Metrics() *Metrics { return &r.metrics }

// Execute runs the full pipeline and returns the final, aggregated,
// threshold-filtered diagnostic list.
func (r *Run) Execute(ctx context.Context) ([]diagnostics.Diagnostic, error) {
	r.log.Info(ctx, "check run starting", "run_id", r.id, "workspace", r.cfg.WorkspaceDir)

	discovered, err := Discover(r.cfg.WorkspaceDir, r.cfg.Ignore)
	if err != nil {
		return nil, fmt.Errorf("discover component files: %w", err)
	}
	r.metrics.filesDiscovered.Add(int64(len(discovered)))

	results, err := r.parseAndTransform(ctx, discovered)
	if err != nil {
		return nil, err
	}

	if err := r.writeStaging(results); err != nil {
		return nil, err
	}

	registry := r.buildRegistry(results)

	var all []diagnostics.Diagnostic
	for _, res := range results {
		all = append(all, res.diagnostics...)
	}

	if r.cfg.DiagnosticOpts.Compiler && !r.cfg.SkipSvelteCheck && r.compiler != nil {
		inputs := make([]collab.CompilerInput, 0, len(results))
		for _, res := range results {
			if res == nil {
				continue
			}
			inputs = append(inputs, collab.CompilerInput{
				FilePath: res.path,
				Source:   string(res.source),
				File:     res.fileID,
			})
		}
		for _, batch := range splitBatches(inputs, maxBatchBytes) {
			diags, err := r.checkCompilerBatch(ctx, batch)
			if err != nil {
				return nil, err
			}
			r.metrics.compilerDiagnostics.Add(int64(len(diags)))
			all = append(all, diags...)
		}
	}

	if r.cfg.DiagnosticOpts.TypeScript && !r.cfg.SkipTsgo && r.typeChecker != nil {
		diags, err := r.typeChecker.Check(ctx, registry)
		if err != nil {
			// The checker is a fresh exec each time, so a retry is its
			// restart-once.
			r.log.Warn(ctx, err, "type checker batch failed, retrying once")
			diags, err = r.typeChecker.Check(ctx, registry)
		}
		if err != nil {
			if fatal := asFatalSubprocess(err); fatal != nil {
				return nil, fatal
			}
			all = append(all, globalSubprocessDiagnostic("type checker", err))
		} else {
			r.metrics.typeCheckDiagnostics.Add(int64(len(diags)))
			all = append(all, diags...)
		}
	}

	r.lines = make(map[string]*position.LineIndex, len(results))
	for _, res := range results {
		r.lines[res.path] = res.lines
	}

	return Aggregate(all, r.cfg.Threshold, r.LineIndexFor), nil
}

// LineIndexFor resolves the LineIndex for an original file path, valid
// once Execute returns. Output formatters use it to turn byte offsets
// into line/column pairs.
func (r *Run) LineIndexFor(path string) *position.LineIndex {
	return r.lines[path]
}

// parseAndTransform runs stages 2 and 3 (parse + internal diagnostics,
// transform) for every discovered file concurrently, bounded by Jobs.
func (r *Run) parseAndTransform(ctx context.Context, discovered []DiscoveredFile) ([]*fileResult, error) {
	g, ctx := errgroup.WithContext(ctx)
	jobs := jobLimit(r.cfg.Jobs)
	if jobs > len(discovered) {
		jobs = len(discovered)
	}
	if jobs > 0 {
		g.SetLimit(jobs)
	}

	results := make([]*fileResult, len(discovered))
	for i, df := range discovered {
		i, df := i, df
		g.Go(func() error {
			res, err := r.processFile(ctx, df)
			if err != nil {
				r.metrics.filesFailed.Add(1)
				return fmt.Errorf("process %s: %w", df.Path, err)
			}
			results[i] = res
			r.metrics.filesParsed.Add(1)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (r *Run) processFile(ctx context.Context, df DiscoveredFile) (*fileResult, error) {
	relPath, err := filepath.Rel(r.cfg.WorkspaceDir, df.Path)
	if err != nil {
		relPath = df.Path
	}
	relPath = filepath.ToSlash(relPath)

	src, err := os.ReadFile(df.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", relPath, err)
	}

	id := r.files.Add(relPath)
	lines := position.NewLineIndex(src)

	res := &fileResult{path: relPath, fileID: id, source: src, lines: lines}

	contentHash := hashContent(src)
	key := cache.Key(contentHash, r.cfg.TransformerVersion)

	if rec, ok, err := r.store.Get(key); err == nil && ok {
		r.metrics.cacheHits.Add(1)
		res.transformed = &transform.Result{
			Code:      rec.Code,
			SourceMap: position.NewSourceMapFromMappings(rec.Mappings),
		}
	} else {
		r.metrics.cacheMisses.Add(1)
	}

	var parsed svelteparser.Result
	if IsModulePath(relPath) {
		lang := ast.LangTypeScript
		if strings.HasSuffix(relPath, ".js") {
			lang = ast.LangJavaScript
		}
		parsed = svelteparser.ParseModule(id, src, lang)
	} else {
		parsed = svelteparser.Parse(id, src)
	}

	if r.cfg.DiagnosticOpts.Internal {
		res.diagnostics = diagnostics.Check(relPath, parsed.Document, parsed.Errors, diagnostics.All())
	}

	if res.transformed == nil {
		out := transform.Transform(parsed.Document, transform.Options{
			Filename:      relPath,
			GeneratedFile: id,
		})
		res.transformed = out

		if err := r.store.Put(key, relPath, &cache.Record{
			Code:     out.Code,
			Mappings: out.SourceMap.Mappings(),
		}); err != nil {
			r.log.Warn(ctx, err, "cache write failed", "file", relPath)
		}
	}

	return res, nil
}

// maxBatchBytes bounds how much component source a single compiler
// request batch may carry.
const maxBatchBytes = 4 << 20

// restartable is implemented by collaborators that own a long-lived
// subprocess and can replace it after a mid-batch failure.
type restartable interface {
	Restart(ctx context.Context) error
}

// splitBatches chunks inputs so no batch's cumulative source size exceeds
// budget. A single oversized component still gets a batch of its own.
func splitBatches(inputs []collab.CompilerInput, budget int) [][]collab.CompilerInput {
	var batches [][]collab.CompilerInput
	var current []collab.CompilerInput
	size := 0
	for _, input := range inputs {
		if len(current) > 0 && size+len(input.Source) > budget {
			batches = append(batches, current)
			current = nil
			size = 0
		}
		current = append(current, input)
		size += len(input.Source)
	}
	if len(current) > 0 {
		batches = append(batches, current)
	}
	return batches
}

// checkCompilerBatch submits one batch. On failure a restartable
// collaborator has its worker restarted and the batch retried once; one
// that cannot restart is not retried. A failure that remains becomes a
// single global diagnostic instead of aborting the run.
func (r *Run) checkCompilerBatch(ctx context.Context, batch []collab.CompilerInput) ([]diagnostics.Diagnostic, error) {
	diags, err := r.compiler.Check(batch)
	if err == nil {
		return diags, nil
	}
	rs, ok := r.compiler.(restartable)
	if !ok {
		return []diagnostics.Diagnostic{globalSubprocessDiagnostic("compiler", err)}, nil
	}
	r.log.Warn(ctx, err, "compiler batch failed, restarting worker")
	if rerr := rs.Restart(ctx); rerr != nil {
		return nil, apperrors.NewSubprocessError("subprocess-restart",
			"compiler worker could not be restarted", rerr, false)
	}
	diags, err = r.compiler.Check(batch)
	if err != nil {
		return []diagnostics.Diagnostic{globalSubprocessDiagnostic("compiler", err)}, nil
	}
	return diags, nil
}

// globalSubprocessDiagnostic reports a collaborator whose work could not
// be completed: one error-severity diagnostic not bound to any file.
func globalSubprocessDiagnostic(name string, err error) diagnostics.Diagnostic {
	return diagnostics.Diagnostic{
		Code:     "subprocess-error",
		Severity: diagnostics.SeverityError,
		Message:  fmt.Sprintf("%s collaborator failed after retry: %v", name, err),
		Source:   diagnostics.SourceInternal,
	}
}

// asFatalSubprocess surfaces a non-recoverable subprocess error (a
// checker that never started) so the CLI can exit 2 with it.
func asFatalSubprocess(err error) error {
	var appErr *apperrors.Error
	if errors.As(err, &appErr) && !appErr.Recoverable {
		return appErr
	}
	return nil
}

func hashContent(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// writeStaging mirrors every transformed output into the staging
// directory, so the type-checker collaborator sees a real project.
func (r *Run) writeStaging(results []*fileResult) error {
	for _, res := range results {
		if res == nil || res.transformed == nil {
			continue
		}
		dest := filepath.Join(r.cfg.StagingDir, stagedPath(res.path))
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return fmt.Errorf("create staging directory for %s: %w", res.path, err)
		}
		if err := os.WriteFile(dest, []byte(res.transformed.Code), 0o644); err != nil {
			return fmt.Errorf("write staged file for %s: %w", res.path, err)
		}
	}
	return nil
}

// buildRegistry populates the generated-path -> original lookup the
// type-checker collaborator's diagnostics are remapped through.
func (r *Run) buildRegistry(results []*fileResult) *collab.Registry {
	registry := collab.NewRegistry()
	for _, res := range results {
		if res == nil || res.transformed == nil {
			continue
		}
		registry.Add(collab.GeneratedFile{
			GeneratedPath:  filepath.ToSlash(stagedPath(res.path)),
			OriginalPath:   res.path,
			OriginalFile:   res.fileID,
			GeneratedLines: position.NewLineIndex([]byte(res.transformed.Code)),
			SourceMap:      res.transformed.SourceMap,
		})
	}
	return registry
}
