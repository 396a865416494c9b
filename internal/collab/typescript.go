package collab

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"

	"github.com/svelte-tools/svelte-check-go/internal/apperrors"
	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/position"
	"github.com/svelte-tools/svelte-check-go/internal/validation"
)

// tscDiagnosticLine matches a single-line TypeScript checker diagnostic:
// path/to/file.ts(12,5): error TS2322: message text
var tscDiagnosticLine = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\):\s*(error|warning)\s+(TS\d+):\s*(.+)$`)

// TypeScriptChecker runs a TypeScript checker subprocess over a staged
// project of generated sources and remaps its diagnostics back to the
// originals via a Registry. The project is always addressed relative to
// Dir, a staging directory, so the checker never sees an absolute path.
type TypeScriptChecker struct {
	command string
	args    []string
	dir     string
}

// NewTypeScriptChecker configures a checker invocation rooted at stagingDir,
// where tsconfig.json (and the staged *.svelte.ts files it references) were
// already written. commandLine is the user-configured invocation (e.g.
// "tsgo" or "npx tsgo"); a quoted multi-token line is split the same way a
// shell would.
func NewTypeScriptChecker(commandLine, stagingDir string) (*TypeScriptChecker, error) {
	command, extraArgs, err := splitCommandLine(commandLine, "tsgo")
	if err != nil {
		return nil, err
	}
	return &TypeScriptChecker{
		command: command,
		args:    append(extraArgs, "--project", "tsconfig.json"),
		dir:     stagingDir,
	}, nil
}

// Check runs the checker and returns diagnostics remapped onto original
// components.
func (c *TypeScriptChecker) Check(ctx context.Context, registry *Registry) ([]diagnostics.Diagnostic, error) {
	if err := c.validateCommand(); err != nil {
		return nil, fmt.Errorf("command validation failed: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.command, c.args...)
	cmd.Dir = c.dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("type checker timed out: %w", ctx.Err())
		}
		if _, ok := err.(*exec.ExitError); !ok {
			return nil, apperrors.NewSubprocessError("subprocess-start",
				fmt.Sprintf("type checker %q failed to start", c.command), err, false)
		}
		// A non-zero exit from a real run just means diagnostics were
		// found; fall through and parse them.
	}

	var diags []diagnostics.Diagnostic
	for _, line := range strings.Split(string(output), "\n") {
		d, ok := c.parseLine(line, registry)
		if !ok {
			continue
		}
		diags = append(diags, d)
	}
	return diags, nil
}

func (c *TypeScriptChecker) parseLine(line string, registry *Registry) (diagnostics.Diagnostic, bool) {
	m := tscDiagnosticLine.FindStringSubmatch(strings.TrimRight(line, "\r"))
	if m == nil {
		return diagnostics.Diagnostic{}, false
	}
	generatedPath, lineStr, colStr, severityWord, code, message := m[1], m[2], m[3], m[4], m[5], m[6]

	genLine, err := strconv.Atoi(lineStr)
	if err != nil {
		return diagnostics.Diagnostic{}, false
	}
	genCol, err := strconv.Atoi(colStr)
	if err != nil {
		return diagnostics.Diagnostic{}, false
	}

	file, ok := registry.Lookup(generatedPath)
	if !ok {
		return diagnostics.Diagnostic{}, false
	}

	span, ok := remapPosition(file, genLine, genCol)
	if !ok {
		return diagnostics.Diagnostic{}, false
	}

	severity := diagnostics.SeverityWarning
	if severityWord == "error" {
		severity = diagnostics.SeverityError
	}

	return diagnostics.Diagnostic{
		Code:     code,
		Severity: severity,
		Message:  message,
		Span:     span,
		Source:   diagnostics.SourceTypeScript,
		FilePath: file.OriginalPath,
	}, true
}

// remapPosition converts a 1-indexed generated line/column into a byte
// offset in the generated text, maps it through the source map, and widens
// it to a one-byte span since the checker only ever reports a point.
func remapPosition(file GeneratedFile, line, col int) (position.Span, bool) {
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if max := file.GeneratedLines.LineCount(); line > max {
		line = max
	}
	generatedOffset := file.GeneratedLines.LineStart(uint32(line)) + uint32(col-1)
	originalOffset, ok := file.SourceMap.OriginalPosition(generatedOffset)
	if !ok {
		return position.Span{}, false
	}
	return position.Span{File: file.OriginalFile, Start: originalOffset, End: originalOffset + 1}, true
}

func (c *TypeScriptChecker) validateCommand() error {
	allowedCommands := map[string]bool{
		"tsgo": true,
		"tsc":  true,
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
