package orchestrator

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"

	"github.com/svelte-tools/svelte-check-go/internal/diagnostics"
	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// severityRank orders severities for the aggregate sort and the
// --threshold filter, lowest-urgency first.
func severityRank(s diagnostics.Severity) int {
	switch s {
	case diagnostics.SeverityError:
		return 2
	case diagnostics.SeverityWarning:
		return 1
	default:
		return 0
	}
}

func meetsThreshold(s diagnostics.Severity, threshold Threshold) bool {
	if threshold == ThresholdError {
		return s == diagnostics.SeverityError
	}
	return severityRank(s) >= severityRank(diagnostics.SeverityWarning)
}

// dedupeKey identifies diagnostics that are the same finding: same file,
// same reported position, same code, same message content.
// Different sources can legitimately agree on all four (e.g. a parser
// error and the compiler both flagging an unclosed tag).
func dedupeKey(d diagnostics.Diagnostic, lines *position.LineIndex) string {
	lc := position.LineCol{}
	if lines != nil {
		lc = lines.ToLineCol(d.Span.Start)
	}
	sum := sha256.Sum256([]byte(d.Message))
	return d.FilePath + "|" +
		strconv.Itoa(int(lc.Line)) + "|" + strconv.Itoa(int(lc.Col)) + "|" +
		d.Code + "|" + hex.EncodeToString(sum[:8])
}

// lineIndexLookup resolves the position.LineIndex for a diagnostic's
// original file, used both to build the dedupe key and to order results.
type lineIndexLookup func(filePath string) *position.LineIndex

// Aggregate merges diagnostics from every source, dedupes, sorts by
// (file path, line, column, severity), and drops anything below threshold.
func Aggregate(diags []diagnostics.Diagnostic, threshold Threshold, lookup lineIndexLookup) []diagnostics.Diagnostic {
	seen := make(map[string]bool, len(diags))
	out := make([]diagnostics.Diagnostic, 0, len(diags))

	for _, d := range diags {
		if !meetsThreshold(d.Severity, threshold) {
			continue
		}
		key := dedupeKey(d, lookup(d.FilePath))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, d)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.FilePath != b.FilePath {
			return a.FilePath < b.FilePath
		}
		la, lb := lookup(a.FilePath), lookup(b.FilePath)
		lcA, lcB := position.LineCol{}, position.LineCol{}
		if la != nil {
			lcA = la.ToLineCol(a.Span.Start)
		}
		if lb != nil {
			lcB = lb.ToLineCol(b.Span.Start)
		}
		if lcA.Line != lcB.Line {
			return lcA.Line < lcB.Line
		}
		if lcA.Col != lcB.Col {
			return lcA.Col < lcB.Col
		}
		return severityRank(a.Severity) > severityRank(b.Severity)
	})

	return out
}
