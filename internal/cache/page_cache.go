package cache

import (
	"sort"
	"sync"
	"time"
)

// DefaultMaxEntries bounds how many pages a cache keeps.
const DefaultMaxEntries = 300

// sweepInterval is the longest a Set goes without dropping expired entries.
const sweepInterval = time.Minute

type entry struct {
	body      []byte
	expiresAt time.Time
}

// PageCache keeps rendered pages as opaque blobs until their TTL runs out.
// Writes never invalidate an entry; Delete and Clear do. Set drops expired
// entries at most a sweepInterval apart and whenever the cache is full. If a full
// cache still has no room, a third of the entries, soonest to expire first, go.
type PageCache struct {
	lock       sync.RWMutex
	entries    map[string]entry
	maxEntries int
	nextSweep  time.Time
	now        func() time.Time
}

func NewPageCache() *PageCache {
	return NewBoundedPageCache(DefaultMaxEntries)
}

// NewBoundedPageCache holds at most maxEntries pages. A non-positive bound
// falls back to DefaultMaxEntries.
func NewBoundedPageCache(maxEntries int) *PageCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &PageCache{
		entries:    make(map[string]entry),
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// SetClock replaces the time source.
func (c *PageCache) SetClock(now func() time.Time) {
	c.lock.Lock()
	c.now = now
	c.lock.Unlock()
}

func (c *PageCache) Get(key string) ([]byte, bool) {
	c.lock.RLock()
	e, ok := c.entries[key]
	now := c.now()
	c.lock.RUnlock()

	if !ok {
		return nil, false
	}
	if !now.Before(e.expiresAt) {
		c.lock.Lock()
		if current, ok := c.entries[key]; ok && current.expiresAt.Equal(e.expiresAt) {
			delete(c.entries, key)
		}
		c.lock.Unlock()
		return nil, false
	}
	return e.body, true
}

// Set stores a copy of body. A non-positive ttl stores nothing.
func (c *PageCache) Set(key string, body []byte, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	stored := make([]byte, len(body))
	copy(stored, body)

	c.lock.Lock()
	defer c.lock.Unlock()

	now := c.now()
	_, exists := c.entries[key]
	full := !exists && len(c.entries) >= c.maxEntries
	if full || !now.Before(c.nextSweep) {
		c.sweep(now)
	}
	if full && len(c.entries) >= c.maxEntries {
		c.cull()
	}
	c.entries[key] = entry{body: stored, expiresAt: now.Add(ttl)}
}

// sweep and cull run with the write lock held.
func (c *PageCache) sweep(now time.Time) {
	for key, e := range c.entries {
		if !now.Before(e.expiresAt) {
			delete(c.entries, key)
		}
	}
	c.nextSweep = now.Add(sweepInterval)
}

func (c *PageCache) cull() {
	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		return c.entries[keys[a]].expiresAt.Before(c.entries[keys[b]].expiresAt)
	})
	cull := len(keys)/3 + 1
	for _, key := range keys[:cull] {
		delete(c.entries, key)
	}
}

func (c *PageCache) Delete(key string) {
	c.lock.Lock()
	delete(c.entries, key)
	c.lock.Unlock()
}

func (c *PageCache) Clear() {
	c.lock.Lock()
	clear(c.entries)
	c.lock.Unlock()
}

// Size counts stored entries, expired ones included.
func (c *PageCache) Size() int {
	c.lock.RLock()
	defer c.lock.RUnlock()
	return len(c.entries)
}

// Len counts live entries.
func (c *PageCache) Len() int {
	c.lock.RLock()
	defer c.lock.RUnlock()

	now := c.now()
	n := 0
	for _, e := range c.entries {
		if now.Before(e.expiresAt) {
			n++
		}
	}
	return n
}
