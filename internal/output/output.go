// Package output renders a final diagnostic list in the four supported
// formats: human, human-verbose, json, and machine. None of them mutate
// the diagnostics; each is a pure projection over diagnostics.Diagnostic
// plus the position.LineIndex needed to turn a byte-offset Span into a
// line/column pair.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/pterm/pterm"

	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// Format selects one of the four renderings --output accepts.
type Format string

const (
	FormatHuman        Format = "human"
	FormatHumanVerbose Format = "human-verbose"
	FormatJSON         Format = "json"
	FormatMachine      Format = "machine"
)

// LineIndexLookup resolves the position.LineIndex for a diagnostic's
// FilePath, the same contract orchestrator.Aggregate consumes.
type LineIndexLookup func(filePath string) *position.LineIndex

// diagnosticJSON is the stable wire shape: one object per diagnostic,
// type capitalized, source drawn from a fixed five-value vocabulary
// distinct from diagnostics.Source's own four internal values.
type diagnosticJSON struct {
	Type     string       `json:"type"`
	Filename string       `json:"filename"`
	Start    positionJSON `json:"start"`
	End      positionJSON `json:"end"`
	Message  string       `json:"message"`
	Code     string       `json:"code"`
	Source   string       `json:"source"`
}

type positionJSON struct {
	Line   uint32 `json:"line"`
	Column uint32 `json:"column"`
	Offset uint32 `json:"offset"`
}

// WriteJSON renders diags as a JSON array in the stable schema.
func WriteJSON(w io.Writer, diags []diagnostics.Diagnostic, lookup LineIndexLookup) error {
	out := make([]diagnosticJSON, len(diags))
	for i, d := range diags {
		out[i] = toJSON(d, lookup(d.FilePath))
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(d diagnostics.Diagnostic, lines *position.LineIndex) diagnosticJSON {
	start := toPositionJSON(lines, d.Span.Start)
	end := toPositionJSON(lines, d.Span.End)
	return diagnosticJSON{
		Type:     severityTypeWord(d.Severity),
		Filename: d.FilePath,
		Start:    start,
		End:      end,
		Message:  d.Message,
		Code:     d.Code,
		Source:   wireSource(d),
	}
}

func toPositionJSON(lines *position.LineIndex, offset uint32) positionJSON {
	if lines == nil {
		return positionJSON{Line: 1, Column: 1, Offset: offset}
	}
	lc := lines.ToLineCol(offset)
	return positionJSON{Line: lc.Line, Column: lc.Col, Offset: offset}
}

// severityTypeWord maps the three internal severities onto the wire
// format's two-valued `type` field. A hint, which has no wire-level representative
// of its own, is reported as a Warning: it is advisory, never fails
// --fail-on-warnings on its own outside the warning threshold, but must
// still surface in the diagnostic list rather than be silently dropped.
func severityTypeWord(s diagnostics.Severity) string {
	if s == diagnostics.SeverityError {
		return "Error"
	}
	return "Warning"
}

// wireSource maps diagnostics.Source (four pipeline stages) onto the
// five-value vocabulary {ts, svelte, css, a11y, parse} §6's JSON schema
// names. The internal source is split in two: an a11y-tagged internal
// diagnostic (WCAG non-empty) is reported as "a11y"; every other internal
// diagnostic (rune hygiene, identifier checks) is reported as "svelte",
// the same bucket the compiler collaborator's own findings use, since
// both describe component-level problems the TypeScript checker can't see.
func wireSource(d diagnostics.Diagnostic) string {
	switch d.Source {
	case diagnostics.SourceTypeScript:
		return "ts"
	case diagnostics.SourceParser:
		return "parse"
	case diagnostics.SourceCompiler:
		return "svelte"
	case diagnostics.SourceInternal:
		if d.WCAG.Level != "" {
			return "a11y"
		}
		return "svelte"
	default:
		return "svelte"
	}
}

// WriteMachine renders one line per diagnostic:
// "SEVERITY file:l:c:l:c message (code)".
func WriteMachine(w io.Writer, diags []diagnostics.Diagnostic, lookup LineIndexLookup) error {
	for _, d := range diags {
		lines := lookup(d.FilePath)
		start := toPositionJSON(lines, d.Span.Start)
		end := toPositionJSON(lines, d.Span.End)
		_, err := fmt.Fprintf(w, "%s %s:%d:%d:%d:%d %s (%s)\n",
			severityWord(d.Severity), d.FilePath,
			start.Line, start.Column, end.Line, end.Column,
			d.Message, d.Code)
		if err != nil {
			return err
		}
	}
	return nil
}

func severityWord(s diagnostics.Severity) string {
	switch s {
	case diagnostics.SeverityError:
		return "ERROR"
	case diagnostics.SeverityWarning:
		return "WARNING"
	default:
		return "HINT"
	}
}

// WriteHuman renders a colorized, one-line-per-diagnostic summary, the
// default --output.
func WriteHuman(w io.Writer, diags []diagnostics.Diagnostic, lookup LineIndexLookup) error {
	if len(diags) == 0 {
		fmt.Fprintln(w, pterm.Green("no diagnostics"))
		return nil
	}
	for _, d := range diags {
		lines := lookup(d.FilePath)
		start := toPositionJSON(lines, d.Span.Start)
		label := severityLabel(d.Severity)
		_, err := fmt.Fprintf(w, "%s %s:%d:%d %s %s\n",
			label, d.FilePath, start.Line, start.Column, d.Message, pterm.Gray(fmt.Sprintf("(%s)", d.Code)))
		if err != nil {
			return err
		}
	}
	fmt.Fprintln(w, Summarize(diags))
	return nil
}

// WriteHumanVerbose renders the same per-diagnostic lines as WriteHuman,
// plus the diagnostic's source and (if present) its suggestions, and ends
// with a metrics summary line when one is supplied.
func WriteHumanVerbose(w io.Writer, diags []diagnostics.Diagnostic, lookup LineIndexLookup, metricsSummary string) error {
	if len(diags) == 0 {
		fmt.Fprintln(w, pterm.Green("no diagnostics"))
	}
	for _, d := range diags {
		lines := lookup(d.FilePath)
		start := toPositionJSON(lines, d.Span.Start)
		end := toPositionJSON(lines, d.Span.End)
		label := severityLabel(d.Severity)
		fmt.Fprintf(w, "%s %s:%d:%d-%d:%d [%s/%s] %s\n",
			label, d.FilePath, start.Line, start.Column, end.Line, end.Column,
			d.Source, d.Code, d.Message)
		for _, s := range d.Suggestions {
			fmt.Fprintf(w, "    suggestion: %s\n", s.Message)
		}
	}
	fmt.Fprintln(w, Summarize(diags))
	if metricsSummary != "" {
		fmt.Fprintln(w, metricsSummary)
	}
	return nil
}

func severityLabel(s diagnostics.Severity) string {
	switch s {
	case diagnostics.SeverityError:
		return pterm.Red("error")
	case diagnostics.SeverityWarning:
		return pterm.Yellow("warning")
	default:
		return pterm.Cyan("hint")
	}
}

// Summarize renders the trailing "N error(s), M warning(s), K hint(s)"
// line both human formats end with.
func Summarize(diags []diagnostics.Diagnostic) string {
	var errs, warns, hints int
	for _, d := range diags {
		switch d.Severity {
		case diagnostics.SeverityError:
			errs++
		case diagnostics.SeverityWarning:
			warns++
		default:
			hints++
		}
	}
	return fmt.Sprintf("%d error(s), %d warning(s), %d hint(s)", errs, warns, hints)
}
