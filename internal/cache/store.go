package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/svelte-tools/svelte-check-go/internal/position"
)

// Record is the transformer output the orchestrator persists: the
// generated TypeScript plus the source map needed to remap type-checker
// diagnostics back to the original component.
type Record struct {
	Code     string
	Mappings []position.Mapping
}

// diskRecord is Record's on-disk encoding. position.Mapping's fields are
// already exported, so msgpack can round-trip it directly; the wrapper
// exists so the schema version travels with the payload.
type diskRecord struct {
	Schema   uint16
	Code     string
	Mappings []position.Mapping
}

const recordSchemaVersion uint16 = 1

// Store is the two-tier transform cache: a MemCache hot tier in front of
// a sqlite hash index and a msgpack-encoded mirror directory written via
// atomic renames.
type Store struct {
	dir   string
	mem   *MemCache
	index *Index
}

// Open opens (creating if needed) a cache store rooted at dir: dir/index.db
// for the sqlite hash index, dir/generated for the msgpack mirror.
func Open(dir string, maxMemBytes int64, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, "generated"), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}

	index, err := OpenIndex(filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, err
	}

	return &Store{
		dir:   dir,
		mem:   NewMemCache(maxMemBytes, ttl),
		index: index,
	}, nil
}

// Close releases the sqlite handle. The mem cache needs no teardown.
func (s *Store) Close() error {
	return s.index.Close()
}

// Key derives a transformed output's cache key from its content hash
// and the transformer version that produced it.
func Key(contentHash, transformerVersion string) string {
	return contentHash + ":" + transformerVersion
}

// Get returns the cached Record for key, checking the mem tier first and
// falling back to the disk mirror (populating the mem tier on a disk hit).
func (s *Store) Get(key string) (*Record, bool, error) {
	if raw, ok := s.mem.Get(key); ok {
		rec, err := decodeRecord(raw)
		if err != nil {
			return nil, false, err
		}
		return rec, true, nil
	}

	generatedPath, ok, err := s.index.Lookup(key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}

	raw, err := os.ReadFile(generatedPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached record %q: %w", generatedPath, err)
	}

	s.mem.Set(key, raw)
	rec, err := decodeRecord(raw)
	if err != nil {
		return nil, false, err
	}
	return rec, true, nil
}

// Put stores rec under key, in both the mem tier and the disk mirror, and
// records the mapping in the sqlite index.
func (s *Store) Put(key, originalPath string, rec *Record) error {
	raw, err := encodeRecord(rec)
	if err != nil {
		return err
	}

	generatedPath := s.mirrorPath(key)
	if err := writeAtomic(generatedPath, raw); err != nil {
		return err
	}

	s.mem.Set(key, raw)
	return s.index.Put(key, originalPath, key, generatedPath, time.Now().Unix())
}

// InvalidateAll clears both tiers wholesale — used when a dependency
// manifest (lockfile hash or similar marker) changes.
func (s *Store) InvalidateAll() error {
	s.mem.Clear()
	if err := s.index.Clear(); err != nil {
		return err
	}
	if err := os.RemoveAll(filepath.Join(s.dir, "generated")); err != nil {
		return err
	}
	return os.MkdirAll(filepath.Join(s.dir, "generated"), 0o755)
}

// CheckManifest compares manifestHash against the previously recorded
// value, invalidating the cache wholesale and recording the new hash if
// they differ. It reports whether an invalidation occurred.
func (s *Store) CheckManifest(manifestHash string) (invalidated bool, err error) {
	prev, ok, err := s.index.ManifestHash()
	if err != nil {
		return false, err
	}
	if ok && prev == manifestHash {
		return false, nil
	}
	if err := s.InvalidateAll(); err != nil {
		return false, err
	}
	if err := s.index.SetManifestHash(manifestHash); err != nil {
		return false, err
	}
	return true, nil
}

// Stats reports the mem tier's entry count, size, hits, misses, evictions.
func (s *Store) Stats() (count int, size, hits, misses, evictions int64) {
	return s.mem.Stats()
}

func (s *Store) mirrorPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.dir, "generated", hex.EncodeToString(sum[:])+".mp")
}

func encodeRecord(rec *Record) ([]byte, error) {
	buf, err := msgpack.Marshal(&diskRecord{
		Schema:   recordSchemaVersion,
		Code:     rec.Code,
		Mappings: rec.Mappings,
	})
	if err != nil {
		return nil, fmt.Errorf("encode cache record: %w", err)
	}
	return buf, nil
}

func decodeRecord(raw []byte) (*Record, error) {
	var disk diskRecord
	if err := msgpack.Unmarshal(raw, &disk); err != nil {
		return nil, fmt.Errorf("decode cache record: %w", err)
	}
	if disk.Schema != recordSchemaVersion {
		return nil, fmt.Errorf("cache record has schema %d, want %d", disk.Schema, recordSchemaVersion)
	}
	return &Record{Code: disk.Code, Mappings: disk.Mappings}, nil
}

// writeAtomic writes data to path via a temp file + rename, so a reader
// never observes a partially-written record.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp cache file into place: %w", err)
	}
	return nil
}
