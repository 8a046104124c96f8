package friendship

import (
	"fmt"
	"sync"
	"time"
)

// DefaultCacheTTL is the validity window of a cached relation set.
const DefaultCacheTTL = 5 * time.Minute

// CacheEntry is the last fully-loaded relation set for one (user, relation)
// pair, with the freshness timestamp and the pagination cursor to resume
// from.
type CacheEntry struct {
	Data       []Friendship
	Timestamp  time.Time
	LastCursor Cursor
}

// Cache is a pull-based lookup table: it never expires entries itself,
// callers check validity via Valid. Entries are only overwritten by full
// loads or deleted by invalidation.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]CacheEntry
	ttl     time.Duration
	now     func() time.Time
}

func NewCache(ttl time.Duration) *Cache {
	return NewCacheWithClock(ttl, time.Now)
}

// NewCacheWithClock injects the clock so tests control time.
func NewCacheWithClock(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		entries: make(map[string]CacheEntry),
		ttl:     ttl,
		now:     now,
	}
}

func cacheKey(userID string, rel RelationType) string {
	return fmt.Sprintf("%s_%s", userID, rel)
}

// Get returns the entry for (userID, rel) if one exists. Presence does not
// imply freshness; check Valid.
func (c *Cache) Get(userID string, rel RelationType) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[cacheKey(userID, rel)]
	return e, ok
}

// Valid reports whether the entry is still within the TTL window.
func (c *Cache) Valid(e CacheEntry) bool {
	return c.now().Sub(e.Timestamp) < c.ttl
}

// Put stores a freshly loaded relation set with the current timestamp.
func (c *Cache) Put(userID string, rel RelationType, data []Friendship, cursor Cursor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(userID, rel)] = CacheEntry{
		Data:       data,
		Timestamp:  c.now(),
		LastCursor: cursor,
	}
}

// Invalidate deletes the entry, forcing the next full load to hit the store.
func (c *Cache) Invalidate(userID string, rel RelationType) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(userID, rel))
}
