package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemCacheSetGetRoundTrips(t *testing.T) {
	c := NewMemCache(1024, time.Hour)
	c.Set("a", []byte("hello"))

	value, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, []byte("hello"), value)
}

func TestMemCacheMissReturnsFalse(t *testing.T) {
	c := NewMemCache(1024, time.Hour)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}

func TestMemCacheExpiresAfterTTL(t *testing.T) {
	c := NewMemCache(1024, time.Millisecond)
	c.Set("a", []byte("hello"))
	time.Sleep(5 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestMemCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewMemCache(10, time.Hour)
	c.Set("a", []byte("12345"))
	c.Set("b", []byte("12345"))
	// touch "a" so "b" becomes the LRU entry
	c.Get("a")
	c.Set("c", []byte("12345"))

	_, aOK := c.Get("a")
	_, bOK := c.Get("b")
	_, cOK := c.Get("c")
	assert.True(t, aOK)
	assert.False(t, bOK)
	assert.True(t, cOK)
}

func TestMemCacheDeleteRemovesEntry(t *testing.T) {
	c := NewMemCache(1024, time.Hour)
	c.Set("a", []byte("hello"))
	c.Delete("a")

	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestMemCacheClearResetsStats(t *testing.T) {
	c := NewMemCache(1024, time.Hour)
	c.Set("a", []byte("hello"))
	c.Get("a")
	c.Get("missing")
	c.Clear()

	count, size, hits, misses, evictions := c.Stats()
	assert.Zero(t, count)
	assert.Zero(t, size)
	assert.Zero(t, hits)
	assert.Zero(t, misses)
	assert.Zero(t, evictions)
}

func TestMemCacheStatsTracksHitsAndMisses(t *testing.T) {
	c := NewMemCache(1024, time.Hour)
	c.Set("a", []byte("hello"))
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	_, _, hits, misses, _ := c.Stats()
	assert.Equal(t, int64(2), hits)
	assert.Equal(t, int64(1), misses)
}
