// Package internal contains the core implementation packages for the
// checker.
//
// This package follows Go's internal package convention, making these
// packages unavailable for import by external modules while providing
// all the core functionality for the svelte-check CLI.
//
// # Package Organization
//
// The internal packages are organized by pipeline stage:
//
//   - position: spans, line indexes, and generated-to-original source maps
//   - lexer, svelteparser, ast: component parsing into a spanned tree
//   - transform: Svelte-to-TypeScript emission with source-map recording
//   - diagnostics: the internal accessibility and hygiene rule engine
//   - collab: the TypeScript checker and framework compiler subprocesses
//   - cache: the two-tier (memory + disk mirror) transform cache
//   - orchestrator: discovery, the parallel per-file pipeline, aggregation
//   - watcher, registry: watch-mode change tracking and re-check triggers
//   - config, logging, output, apperrors: the ambient CLI infrastructure
//
// # Design Principles
//
//   - No panics on user input; parse and transform errors become
//     diagnostics and the pipeline continues
//   - Every diagnostic position is remapped before output construction
//   - Concurrent safety with bounded per-file parallelism
//   - Stable output: sorted, deduplicated, byte-identical across runs on
//     unchanged input
package internal
