// Package diagnostics implements the static, AST-based internal diagnostics
// engine: accessibility and component-hygiene rules that run directly over
// the tree internal/svelteparser produced, without invoking the TypeScript
// checker or the Svelte compiler.
package diagnostics

import (
	"fmt"

	"github.com/svelte-tools/svelte-check-go/internal/accessibility"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// Severity mirrors the three levels a diagnostic can carry.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityHint    Severity = "hint"
)

// Source identifies which stage of the pipeline produced a diagnostic.
type Source string

const (
	SourceParser     Source = "parser"
	SourceInternal   Source = "internal"
	SourceTypeScript Source = "typescript"
	SourceCompiler   Source = "compiler"
)

// Suggestion is an optional fix a diagnostic can offer.
type Suggestion struct {
	Message     string
	Replacement string
	Span        position.Span
}

// Diagnostic is the engine's single output shape, aggregated downstream
// alongside the typescript and compiler collaborators' own diagnostics.
type Diagnostic struct {
	Code        string
	Severity    Severity
	Message     string
	Span        position.Span
	Source      Source
	FilePath    string
	WCAG        accessibility.WCAG
	Suggestions []Suggestion
}

func newDiagnostic(code string, severity Severity, span position.Span, format string, args ...any) Diagnostic {
	return Diagnostic{
		Code:     code,
		Severity: severity,
		Message:  fmt.Sprintf(format, args...),
		Span:     span,
		Source:   SourceInternal,
	}
}

func (d Diagnostic) withWCAG(level accessibility.WCAGLevel, criteria accessibility.WCAGCriteria) Diagnostic {
	d.WCAG = accessibility.WCAG{Level: level, Criteria: criteria}
	return d
}
