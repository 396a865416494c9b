package orchestrator

import (
	"fmt"
	"sync/atomic"
)

// Metrics tracks a single Run's parallel-stage performance: file counts,
// cache hit rates, and per-source diagnostic counts, all atomic so every
// errgroup goroutine can update them without a shared lock.
type Metrics struct {
	filesDiscovered atomic.Int64
	filesParsed     atomic.Int64
	filesFailed     atomic.Int64

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64

	compilerDiagnostics  atomic.Int64
	typeCheckDiagnostics atomic.Int64
	internalDiagnostics  atomic.Int64
}

// Summary renders a one-line human-readable digest, shown by --output
// human-verbose.
func (m *Metrics) Summary() string {
	hits := m.cacheHits.Load()
	misses := m.cacheMisses.Load()
	total := hits + misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(hits) / float64(total) * 100
	}

	return fmt.Sprintf(
		"files: %d discovered, %d parsed, %d failed | cache: %d/%d (%.1f%%) | "+
			"diagnostics: %d internal, %d compiler, %d type-check",
		m.filesDiscovered.Load(), m.filesParsed.Load(), m.filesFailed.Load(),
		hits, total, hitRate,
		m.internalDiagnostics.Load(), m.compilerDiagnostics.Load(), m.typeCheckDiagnostics.Load(),
	)
}
