// Package cache implements the two-tier cache the orchestrator uses to
// avoid re-transforming and re-type-checking unchanged files: a
// process-local LRU for the hot path, backed by a sqlite hash index and a
// msgpack-encoded disk mirror for the staging tree.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// memEntry is one LRU node.
type memEntry struct {
	key        string
	value      []byte
	createdAt  time.Time
	accessedAt time.Time
	size       int64
	prev       *memEntry
	next       *memEntry
}

// MemCache is an in-memory LRU with a TTL, the hot tier in front of the
// sqlite/disk tier. Generalized from a doubly-linked-list build cache to a
// plain byte-slice store: the orchestrator caches serialized transform
// records here, not build artifacts.
type MemCache struct {
	mu          sync.Mutex
	entries     map[string]*memEntry
	maxSize     int64
	currentSize int64
	ttl         time.Duration
	head        *memEntry
	tail        *memEntry

	hits      int64
	misses    int64
	sets      int64
	evictions int64
}

// NewMemCache creates an empty cache bounded to maxSize bytes. An entry
// stored more than ttl ago is dropped when Get next looks it up.
func NewMemCache(maxSize int64, ttl time.Duration) *MemCache {
	c := &MemCache{
		entries: make(map[string]*memEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
	c.head = &memEntry{}
	c.tail = &memEntry{}
	c.head.next = c.tail
	c.tail.prev = c.head
	return c
}

// Get returns the cached value for key, or (nil, false) on a miss or an
// expired entry.
func (c *MemCache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.createdAt) > c.ttl {
		c.evict(entry)
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}

	c.moveToFront(entry)
	entry.accessedAt = time.Now()
	atomic.AddInt64(&c.hits, 1)
	return entry.value, true
}

// Set stores value under key, evicting least-recently-used entries if the
// cache would otherwise exceed maxSize.
func (c *MemCache) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.entries[key]; ok {
		c.currentSize += int64(len(value)) - existing.size
		existing.value = value
		existing.size = int64(len(value))
		existing.accessedAt = time.Now()
		c.moveToFront(existing)
		atomic.AddInt64(&c.sets, 1)
		return
	}

	c.evictUntilFits(int64(len(value)))

	entry := &memEntry{
		key:        key,
		value:      value,
		createdAt:  time.Now(),
		accessedAt: time.Now(),
		size:       int64(len(value)),
	}
	c.entries[key] = entry
	c.currentSize += entry.size
	c.addToFront(entry)
	atomic.AddInt64(&c.sets, 1)
}

// Delete removes key if present.
func (c *MemCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if entry, ok := c.entries[key]; ok {
		c.evict(entry)
	}
}

// Clear empties the cache and resets its statistics.
func (c *MemCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*memEntry)
	c.currentSize = 0
	c.head.next = c.tail
	c.tail.prev = c.head

	atomic.StoreInt64(&c.hits, 0)
	atomic.StoreInt64(&c.misses, 0)
	atomic.StoreInt64(&c.sets, 0)
	atomic.StoreInt64(&c.evictions, 0)
}

// Stats reports entry count, current size in bytes, hits, misses, and
// evictions.
func (c *MemCache) Stats() (count int, size, hits, misses, evictions int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), c.currentSize, atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses), atomic.LoadInt64(&c.evictions)
}

func (c *MemCache) evict(entry *memEntry) {
	c.removeFromList(entry)
	delete(c.entries, entry.key)
	c.currentSize -= entry.size
}

func (c *MemCache) evictUntilFits(incoming int64) {
	for c.currentSize+incoming > c.maxSize && c.tail.prev != c.head {
		lru := c.tail.prev
		c.evict(lru)
		atomic.AddInt64(&c.evictions, 1)
	}
}

func (c *MemCache) addToFront(entry *memEntry) {
	entry.prev = c.head
	entry.next = c.head.next
	c.head.next.prev = entry
	c.head.next = entry
}

func (c *MemCache) removeFromList(entry *memEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
}

func (c *MemCache) moveToFront(entry *memEntry) {
	c.removeFromList(entry)
	c.addToFront(entry)
}
