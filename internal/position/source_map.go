package position

import "sort"

// MappingKind distinguishes how a generated span relates to its original
// counterpart, used by formatters deciding whether a diagnostic raised
// against generated TypeScript should surface at all in Svelte terms.
type MappingKind int

const (
	// MappingIdentity marks verbatim copied source: generated text equals
	// the original byte-for-byte.
	MappingIdentity MappingKind = iota
	// MappingRename marks a renamed/rewritten construct (e.g. a rune call
	// rewritten to its TypeScript equivalent) whose length may differ from
	// the original.
	MappingRename
	// MappingSynthetic marks generated text with no original counterpart
	// (e.g. injected boilerplate); diagnostics inside a synthetic span are
	// reported at the span's anchor point rather than remapped.
	MappingSynthetic
)

// Mapping records a single generated-span to original-span correspondence.
type Mapping struct {
	Generated Span
	Original  Span
	Kind      MappingKind
}

// SourceMap holds mappings accumulated by a SourceMapBuilder, sorted by
// generated-span start for binary-search lookup.
type SourceMap struct {
	mappings []Mapping
}

// NewSourceMapFromMappings rebuilds a SourceMap from a previously-built
// mapping slice, used when a source map is round-tripped through the
// transform cache.
func NewSourceMapFromMappings(mappings []Mapping) *SourceMap {
	return &SourceMap{mappings: mappings}
}

// Len returns the number of mappings.
func (sm *SourceMap) Len() int {
	return len(sm.mappings)
}

// Mappings returns the underlying mapping slice. Callers must not mutate it.
func (sm *SourceMap) Mappings() []Mapping {
	return sm.mappings
}

// OriginalPosition finds the original byte offset corresponding to a
// generated byte offset, or false if no mapping covers it.
func (sm *SourceMap) OriginalPosition(generated uint32) (uint32, bool) {
	m, ok := sm.findMappingForGenerated(generated)
	if !ok {
		return 0, false
	}
	if m.Kind == MappingSynthetic {
		return m.Original.Start, true
	}
	offsetInSpan := generated - m.Generated.Start
	return m.Original.Start + offsetInSpan, true
}

// OriginalSpan remaps a generated span to its original span by remapping
// both endpoints independently. It returns false if either endpoint has no
// covering mapping.
func (sm *SourceMap) OriginalSpan(generated Span) (Span, bool) {
	startMapping, ok := sm.findMappingForGenerated(generated.Start)
	if !ok {
		return Span{}, false
	}
	start := startMapping.Original.Start + (generated.Start - startMapping.Generated.Start)
	end := start
	if !generated.Empty() {
		e, ok := sm.OriginalPosition(generated.End - 1)
		if !ok {
			return Span{}, false
		}
		end = e + 1
	}
	return Span{File: startMapping.Original.File, Start: start, End: end}, true
}

func (sm *SourceMap) findMappingForGenerated(generated uint32) (Mapping, bool) {
	if len(sm.mappings) == 0 {
		return Mapping{}, false
	}
	// Largest index whose Generated.Start <= generated.
	idx := sort.Search(len(sm.mappings), func(i int) bool {
		return sm.mappings[i].Generated.Start > generated
	}) - 1
	if idx < 0 {
		return Mapping{}, false
	}
	m := sm.mappings[idx]
	if generated >= m.Generated.Start && generated < m.Generated.End {
		return m, true
	}
	return Mapping{}, false
}

// SourceMapBuilder accumulates mappings while a transformer emits generated
// text, tracking the current generated-output offset so callers never have
// to compute spans by hand.
type SourceMapBuilder struct {
	mappings        []Mapping
	generatedOffset uint32
	genFile         FileID
}

// NewSourceMapBuilder creates a builder whose generated output is tagged
// with genFile (typically a synthetic FileID minted for the transform's
// TypeScript output).
func NewSourceMapBuilder(genFile FileID) *SourceMapBuilder {
	return &SourceMapBuilder{genFile: genFile}
}

// GeneratedOffset returns the current position in the generated output.
func (b *SourceMapBuilder) GeneratedOffset() uint32 {
	return b.generatedOffset
}

// AddSource records a verbatim copy of original text, advancing the
// generated offset by len(text) and adding an identity mapping.
func (b *SourceMapBuilder) AddSource(original Span, text string) {
	b.addMapping(original, uint32(len(text)), MappingIdentity)
}

// AddTransformed records generated text that differs from its original
// counterpart (e.g. a rewritten rune call), adding a rename mapping.
func (b *SourceMapBuilder) AddTransformed(original Span, generatedText string) {
	b.addMapping(original, uint32(len(generatedText)), MappingRename)
}

// AddSynthetic records generated text anchored to an original position
// (for diagnostic purposes) but not mapped byte-for-byte. Every emitted
// byte must pass through AddSource, AddTransformed, or this — the
// finished map partitions the generated output with no gaps, so a
// diagnostic can never land on an uncovered offset and vanish.
func (b *SourceMapBuilder) AddSynthetic(anchor Span, generatedText string) {
	b.addMapping(anchor, uint32(len(generatedText)), MappingSynthetic)
}

func (b *SourceMapBuilder) addMapping(original Span, generatedLen uint32, kind MappingKind) {
	start := b.generatedOffset
	end := start + generatedLen
	b.mappings = append(b.mappings, Mapping{
		Generated: Span{File: b.genFile, Start: start, End: end},
		Original:  original,
		Kind:      kind,
	})
	b.generatedOffset = end
}

// Build finalizes the source map, sorting mappings by generated-span start.
func (b *SourceMapBuilder) Build() *SourceMap {
	sort.SliceStable(b.mappings, func(i, j int) bool {
		return b.mappings[i].Generated.Start < b.mappings[j].Generated.Start
	})
	return &SourceMap{mappings: b.mappings}
}
