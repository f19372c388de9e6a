package subscription

import (
	"container/list"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// cacheEntry holds one cached lookup. Negative results (no record) are
// cached too, since free-tier users without a billing record dominate the
// hot path.
type cacheEntry struct {
	userID    uuid.UUID
	sub       Subscription
	found     bool
	expiresAt time.Time
}

// CachedSource wraps a Source with a TTL'd LRU cache so eligibility checks
// do not hit the billing store on every request. Staleness is bounded by the
// TTL only; the billing collaborator owns writes and provides no
// invalidation signal.
type CachedSource struct {
	source   Source
	ttl      time.Duration
	capacity int

	mu       sync.Mutex
	items    map[uuid.UUID]*list.Element
	eviction *list.List

	now func() time.Time // injectable clock for tests
}

// CachedSourceOption configures a CachedSource.
type CachedSourceOption func(*CachedSource)

// WithCacheTTL overrides the entry lifetime. Non-positive values are ignored.
func WithCacheTTL(ttl time.Duration) CachedSourceOption {
	return func(c *CachedSource) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithCacheCapacity overrides the maximum number of cached users.
// Values below 1 are ignored.
func WithCacheCapacity(n int) CachedSourceOption {
	return func(c *CachedSource) {
		if n >= 1 {
			c.capacity = n
		}
	}
}

// WithCacheClock injects a clock, used by tests to control expiry.
func WithCacheClock(now func() time.Time) CachedSourceOption {
	return func(c *CachedSource) {
		if now != nil {
			c.now = now
		}
	}
}

// NewCachedSource wraps source with a TTL'd LRU cache. Defaults: 30s TTL,
// 10000 entries. Panics on nil source to fail fast during initialization.
func NewCachedSource(source Source, opts ...CachedSourceOption) *CachedSource {
	if source == nil {
		panic("subscription: Source is required")
	}
	c := &CachedSource{
		source:   source,
		ttl:      30 * time.Second,
		capacity: 10000,
		items:    make(map[uuid.UUID]*list.Element),
		eviction: list.New(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CachedSource) Get(ctx context.Context, userID uuid.UUID) (Subscription, error) {
	if sub, found, ok := c.lookup(userID); ok {
		if !found {
			return Subscription{}, ErrNotFound
		}
		return sub, nil
	}

	sub, err := c.source.Get(ctx, userID)
	switch {
	case err == nil:
		c.store(cacheEntry{userID: userID, sub: sub, found: true})
		return sub, nil
	case errors.Is(err, ErrNotFound):
		c.store(cacheEntry{userID: userID, found: false})
		return Subscription{}, ErrNotFound
	default:
		// Source failures are never cached; the next request retries.
		return Subscription{}, err
	}
}

// lookup returns (sub, found, ok) where ok reports a live cache hit.
func (c *CachedSource) lookup(userID uuid.UUID) (Subscription, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[userID]
	if !ok {
		return Subscription{}, false, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.eviction.Remove(elem)
		delete(c.items, userID)
		return Subscription{}, false, false
	}

	c.eviction.MoveToFront(elem)
	return entry.sub, entry.found, true
}

func (c *CachedSource) store(entry cacheEntry) {
	entry.expiresAt = c.now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[entry.userID]; ok {
		c.eviction.MoveToFront(elem)
		*elem.Value.(*cacheEntry) = entry
		return
	}

	elem := c.eviction.PushFront(&entry)
	c.items[entry.userID] = elem

	if c.eviction.Len() > c.capacity {
		oldest := c.eviction.Back()
		if oldest != nil {
			c.eviction.Remove(oldest)
			delete(c.items, oldest.Value.(*cacheEntry).userID)
		}
	}
}
