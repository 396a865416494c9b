package collab

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/position"
	"github.com/svelte-tools/svelte-check-go/internal/validation"
)

// CompilerInput is one original component submitted to the framework
// compiler collaborator.
type CompilerInput struct {
	// FilePath is the component's path relative to the project root.
	FilePath string
	// Source is the component's original, untransformed text.
	Source string
	// File is the FileID the returned diagnostics' spans are expressed in.
	File position.FileID
}

type compilerRequest struct {
	ID       uint64 `json:"id"`
	Filename string `json:"filename"`
	Source   string `json:"source"`
}

type compilerResponse struct {
	ID          *uint64              `json:"id"`
	Diagnostics []compilerDiagnostic `json:"diagnostics"`
	Error       *string              `json:"error"`
}

type compilerDiagnostic struct {
	Code     string         `json:"code"`
	Message  string         `json:"message"`
	Severity string         `json:"severity"`
	Start    compilerOffset `json:"start"`
	End      compilerOffset `json:"end"`
}

type compilerOffset struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
}

type compilerReady struct {
	Ready bool `json:"ready"`
}

// SvelteCompiler drives a long-lived framework compiler subprocess over a
// newline-delimited JSON request/response protocol: one request per
// component, one response carrying that component's diagnostics, matched by
// a monotonically increasing id. The process prints a single ready line
// before accepting requests.
type SvelteCompiler struct {
	command string
	args    []string

	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Scanner
	nextID atomic.Uint64
}

// NewSvelteCompiler configures a compiler worker invocation. commandLine is
// the user-configured invocation (e.g. "sveltec" or "bun svelte-worker.js"),
// split the same way a shell would. scriptArgs are appended after it.
func NewSvelteCompiler(commandLine string, scriptArgs ...string) (*SvelteCompiler, error) {
	command, extraArgs, err := splitCommandLine(commandLine, "sveltec")
	if err != nil {
		return nil, err
	}
	return &SvelteCompiler{command: command, args: append(extraArgs, scriptArgs...)}, nil
}

// Start spawns the worker and blocks until it reports ready.
func (c *SvelteCompiler) Start(ctx context.Context) error {
	if err := c.validateCommand(); err != nil {
		return fmt.Errorf("command validation failed: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.command, c.args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open compiler stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("open compiler stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("spawn compiler: %w", err)
	}

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	if !scanner.Scan() {
		_ = cmd.Wait()
		return fmt.Errorf("compiler exited before reporting ready")
	}
	var ready compilerReady
	if err := json.Unmarshal(scanner.Bytes(), &ready); err != nil || !ready.Ready {
		return fmt.Errorf("unexpected compiler ready response: %s", scanner.Text())
	}

	c.cmd = cmd
	c.stdin = stdin
	c.stdout = scanner
	return nil
}

// Restart tears the worker down and spawns a fresh one, used after a
// mid-batch failure before the batch is retried once.
func (c *SvelteCompiler) Restart(ctx context.Context) error {
	_ = c.Close()
	c.mu.Lock()
	c.cmd = nil
	c.stdin = nil
	c.stdout = nil
	c.mu.Unlock()
	return c.Start(ctx)
}

// Close terminates the worker.
func (c *SvelteCompiler) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stdin != nil {
		_ = c.stdin.Close()
	}
	if c.cmd != nil {
		return c.cmd.Wait()
	}
	return nil
}

// Check submits a batch of components and waits for every response,
// matching them back up by id since the worker may not answer in order.
func (c *SvelteCompiler) Check(inputs []CompilerInput) ([]diagnostics.Diagnostic, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.stdin == nil {
		return nil, fmt.Errorf("compiler worker not started")
	}

	pending := make(map[uint64]CompilerInput, len(inputs))
	enc := json.NewEncoder(c.stdin)
	for _, input := range inputs {
		id := c.nextID.Add(1)
		pending[id] = input
		if err := enc.Encode(compilerRequest{ID: id, Filename: input.FilePath, Source: input.Source}); err != nil {
			return nil, fmt.Errorf("write compiler request: %w", err)
		}
	}

	var diags []diagnostics.Diagnostic
	for len(pending) > 0 {
		if !c.stdout.Scan() {
			if err := c.stdout.Err(); err != nil {
				return nil, fmt.Errorf("read compiler response: %w", err)
			}
			return nil, fmt.Errorf("compiler closed its output with %d response(s) outstanding", len(pending))
		}

		var resp compilerResponse
		if err := json.Unmarshal(c.stdout.Bytes(), &resp); err != nil {
			return nil, fmt.Errorf("parse compiler response: %w", err)
		}
		if resp.Error != nil {
			return nil, fmt.Errorf("compiler error: %s", *resp.Error)
		}
		if resp.ID == nil {
			return nil, fmt.Errorf("compiler response missing id")
		}
		input, ok := pending[*resp.ID]
		if !ok {
			return nil, fmt.Errorf("compiler response for unknown id %d", *resp.ID)
		}
		delete(pending, *resp.ID)

		for _, d := range resp.Diagnostics {
			diags = append(diags, convertCompilerDiagnostic(input, d))
		}
	}
	return diags, nil
}

func convertCompilerDiagnostic(input CompilerInput, d compilerDiagnostic) diagnostics.Diagnostic {
	severity := diagnostics.SeverityWarning
	if d.Severity == "error" {
		severity = diagnostics.SeverityError
	}
	start := offsetFromLineIndex(input.Source, d.Start)
	end := offsetFromLineIndex(input.Source, d.End)
	if end <= start {
		end = start + 1
	}
	return diagnostics.Diagnostic{
		Code:     d.Code,
		Severity: severity,
		Message:  d.Message,
		Span:     position.Span{File: input.File, Start: start, End: end},
		Source:   diagnostics.SourceCompiler,
		FilePath: input.FilePath,
	}
}

// offsetFromLineIndex converts the worker's 0-indexed line/column pair into
// a byte offset in source.
func offsetFromLineIndex(source string, pos compilerOffset) uint32 {
	idx := position.NewLineIndex([]byte(source))
	line := pos.Line + 1
	if max := idx.LineCount(); int(line) > max {
		line = uint32(max)
	}
	if line < 1 {
		line = 1
	}
	return idx.LineStart(line) + pos.Column
}

func (c *SvelteCompiler) validateCommand() error {
	allowedCommands := map[string]bool{
		"sveltec": true,
		"bun":     true,
		"node":    true,
	}
	if err := validation.ValidateCommand(c.command, allowedCommands); err != nil {
		return err
	}
	for _, arg := range c.args {
		if err := validation.ValidateArgument(arg); err != nil {
			return fmt.Errorf("invalid argument %q: %w", arg, err)
		}
	}
	return nil
}
