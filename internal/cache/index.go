package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS transform_cache (
	cache_key      TEXT PRIMARY KEY,
	original_path  TEXT NOT NULL,
	content_hash   TEXT NOT NULL,
	generated_path TEXT NOT NULL,
	updated_at     INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cache_manifest (
	id           INTEGER PRIMARY KEY CHECK (id = 1),
	manifest_hash TEXT NOT NULL
);
`

// Index is the sqlite-backed hash index for the disk tier: it maps a
// cache key (content-hash, transformer-version) to the generated-file
// mirror path, and tracks the dependency-manifest hash (lockfile and
// similar markers) used to invalidate the cache wholesale.
type Index struct {
	db *sql.DB
}

// OpenIndex opens (creating if needed) the sqlite index at path, enabling
// WAL mode the way a concurrent writer/reader workload needs.
func OpenIndex(path string) (*Index, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("configure cache index: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize cache index schema: %w", err)
	}

	return &Index{db: db}, nil
}

// Close closes the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Lookup returns the generated-file mirror path recorded for cacheKey.
func (idx *Index) Lookup(cacheKey string) (generatedPath string, ok bool, err error) {
	row := idx.db.QueryRow(`SELECT generated_path FROM transform_cache WHERE cache_key = ?`, cacheKey)
	err = row.Scan(&generatedPath)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup cache key %q: %w", cacheKey, err)
	}
	return generatedPath, true, nil
}

// Put records (or replaces) the entry for cacheKey.
func (idx *Index) Put(cacheKey, originalPath, contentHash, generatedPath string, updatedAt int64) error {
	_, err := idx.db.Exec(`
		INSERT INTO transform_cache (cache_key, original_path, content_hash, generated_path, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(cache_key) DO UPDATE SET
			original_path = excluded.original_path,
			content_hash = excluded.content_hash,
			generated_path = excluded.generated_path,
			updated_at = excluded.updated_at
	`, cacheKey, originalPath, contentHash, generatedPath, updatedAt)
	if err != nil {
		return fmt.Errorf("put cache key %q: %w", cacheKey, err)
	}
	return nil
}

// Delete removes the entry for cacheKey, if any.
func (idx *Index) Delete(cacheKey string) error {
	_, err := idx.db.Exec(`DELETE FROM transform_cache WHERE cache_key = ?`, cacheKey)
	if err != nil {
		return fmt.Errorf("delete cache key %q: %w", cacheKey, err)
	}
	return nil
}

// Clear removes every entry from the index.
func (idx *Index) Clear() error {
	if _, err := idx.db.Exec(`DELETE FROM transform_cache`); err != nil {
		return fmt.Errorf("clear cache index: %w", err)
	}
	return nil
}

// ManifestHash returns the previously recorded dependency-manifest hash,
// if any.
func (idx *Index) ManifestHash() (hash string, ok bool, err error) {
	row := idx.db.QueryRow(`SELECT manifest_hash FROM cache_manifest WHERE id = 1`)
	err = row.Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read manifest hash: %w", err)
	}
	return hash, true, nil
}

// SetManifestHash records the current dependency-manifest hash.
func (idx *Index) SetManifestHash(hash string) error {
	_, err := idx.db.Exec(`
		INSERT INTO cache_manifest (id, manifest_hash) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET manifest_hash = excluded.manifest_hash
	`, hash)
	if err != nil {
		return fmt.Errorf("set manifest hash: %w", err)
	}
	return nil
}
