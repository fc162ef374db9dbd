package resolve

import "github.com/reweave/reweave/internal/metadata"

// Key identifies a parsed dependency by its cleaned file path and
// last-write timestamp. A changed timestamp produces a miss and a fresh
// parse, so entries never need explicit invalidation within a run.
type Key struct {
	Path  string
	MTime int64
}

// Cache maps resolved dependencies to their parsed modules for the
// duration of one run. It guarantees that resolving the same unchanged
// file twice returns the identical *metadata.Module instance; the
// binary-format layer relies on identity when deduplicating cross-module
// references.
type Cache struct {
	entries map[Key]*metadata.Module
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]*metadata.Module)}
}

// Get returns the cached module for the key, if present.
func (c *Cache) Get(key Key) (*metadata.Module, bool) {
	m, ok := c.entries[key]
	return m, ok
}

// Put stores the module under the key.
func (c *Cache) Put(key Key, m *metadata.Module) {
	c.entries[key] = m
}

// Len returns the number of cached modules.
func (c *Cache) Len() int {
	return len(c.entries)
}
