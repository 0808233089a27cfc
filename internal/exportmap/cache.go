package exportmap

import (
	"log/slog"
	"os"
	"time"
)

// CacheEntry records one built map together with the file state observed
// when it was built. Entries are replaced whole on rebuild, never patched.
type CacheEntry struct {
	Map         *ExportMap
	MTime       time.Time // truncated to whole seconds
	Size        int64
	Fingerprint string
}

type cacheKey struct {
	path        string
	fingerprint string
}

// Cache holds built export maps for the lifetime of one Engine. There is
// no capacity-based eviction: entries are only ever overwritten when the
// same (path, fingerprint) key is rebuilt.
//
// A valid hit returns the identical map pointer handed out before; rule
// collaborators memoize against map identity, so reference stability is
// part of the contract, not an optimization.
type Cache struct {
	entries map[cacheKey]*CacheEntry
	logger  *slog.Logger
}

// NewCache creates an empty cache.
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[cacheKey]*CacheEntry),
		logger:  logger,
	}
}

// Lookup returns the entry for (path, fingerprint), or nil.
func (c *Cache) Lookup(path, fingerprint string) *CacheEntry {
	return c.entries[cacheKey{path, fingerprint}]
}

// Valid reports whether the entry still describes the file on disk.
//
// Validity compares modification time at whole-second resolution: a file
// rewritten within the same second as its prior build is not detected by
// mtime alone. That is a documented cost/precision trade-off; the size
// check narrows the window but does not close it.
func (c *Cache) Valid(entry *CacheEntry) bool {
	if entry == nil {
		return false
	}
	info, err := os.Stat(entry.Map.Path)
	if err != nil {
		return false
	}
	if !info.ModTime().Truncate(time.Second).Equal(entry.MTime) {
		return false
	}
	return info.Size() == entry.Size
}

// Store records a freshly built map keyed by (path, fingerprint), with the
// file state observed before the build. Replacement is atomic from the
// caller's perspective: the entry is swapped whole.
func (c *Cache) Store(path, fingerprint string, m *ExportMap, mtime time.Time, size int64) {
	key := cacheKey{path, fingerprint}
	c.entries[key] = &CacheEntry{
		Map:         m,
		MTime:       mtime.Truncate(time.Second),
		Size:        size,
		Fingerprint: fingerprint,
	}
	c.logger.Debug("cached export map", "path", path, "exports", m.Size())
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return len(c.entries)
}
