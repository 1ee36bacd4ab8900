package validate

import (
	"sync"
	"time"
)

// cacheEntry holds a cached validation result and its expiration time.
type cacheEntry struct {
	result    *Result
	expiresAt time.Time
}

// ResultCache is a thread-safe, in-memory TTL cache for validation results
// keyed by file path. Watch mode uses it so that a change to one document
// does not force re-reading every other document; entries are lazily expired
// on access and invalidated per path on file events.
type ResultCache struct {
	mu         sync.RWMutex
	entries    map[string]cacheEntry
	defaultTTL time.Duration
}

// NewResultCache creates a cache with the given default TTL.
func NewResultCache(defaultTTL time.Duration) *ResultCache {
	return &ResultCache{
		entries:    make(map[string]cacheEntry),
		defaultTTL: defaultTTL,
	}
}

// Get retrieves a cached result by file path. Returns the result and true if
// found and not expired. Expired entries are lazily removed on access.
func (resultCache *ResultCache) Get(path string) (*Result, bool) {
	resultCache.mu.RLock()
	entry, exists := resultCache.entries[path]
	resultCache.mu.RUnlock()

	if !exists {
		return nil, false
	}

	if time.Now().After(entry.expiresAt) {
		resultCache.mu.Lock()
		// Re-check in case another goroutine already removed or replaced it.
		if current, stillExists := resultCache.entries[path]; stillExists && time.Now().After(current.expiresAt) {
			delete(resultCache.entries, path)
		}
		resultCache.mu.Unlock()
		return nil, false
	}

	return entry.result, true
}

// Set stores a result in the cache with the default TTL.
func (resultCache *ResultCache) Set(path string, result *Result) {
	resultCache.mu.Lock()
	resultCache.entries[path] = cacheEntry{
		result:    result,
		expiresAt: time.Now().Add(resultCache.defaultTTL),
	}
	resultCache.mu.Unlock()
}

// Invalidate removes a specific path from the cache.
func (resultCache *ResultCache) Invalidate(path string) {
	resultCache.mu.Lock()
	delete(resultCache.entries, path)
	resultCache.mu.Unlock()
}

// Clear removes all entries from the cache.
func (resultCache *ResultCache) Clear() {
	resultCache.mu.Lock()
	resultCache.entries = make(map[string]cacheEntry)
	resultCache.mu.Unlock()
}

// Len returns the number of entries currently in the cache, including
// potentially expired ones.
func (resultCache *ResultCache) Len() int {
	resultCache.mu.RLock()
	count := len(resultCache.entries)
	resultCache.mu.RUnlock()
	return count
}
