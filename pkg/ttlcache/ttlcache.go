// Package ttlcache is a process-local key/value cache with per-entry expiry.
//
// Entries leave the cache only through Delete, Clear or expiry. Expired
// entries are dropped lazily by Get and eagerly by Cleanup, which is meant to
// be driven by RunJanitor in long-lived processes. There is no size bound.
package ttlcache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// NoExpiration keeps an entry until it is deleted or the cache is cleared.
	NoExpiration time.Duration = -1
	// DefaultExpiration applies the TTL the cache was created with.
	DefaultExpiration time.Duration = 0
)

const fallbackTTL = 5 * time.Minute

type entry[V any] struct {
	value  V
	expiry time.Time // zero = never
}

// Cache is safe for concurrent use.
type Cache[V any] struct {
	mu         sync.RWMutex
	items      map[string]entry[V]
	gen        uint64 // bumped by Clear
	defaultTTL time.Duration
	now        func() time.Time
	flight     singleflight.Group
}

// Option customises a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a cache whose DefaultExpiration is defaultTTL. A zero or
// negative defaultTTL falls back to five minutes.
func New[V any](defaultTTL time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if defaultTTL <= 0 {
		defaultTTL = fallbackTTL
	}
	return &Cache[V]{
		items:      make(map[string]entry[V]),
		defaultTTL: defaultTTL,
		now:        o.now,
	}
}

// Set stores value under key. ttl may be DefaultExpiration or NoExpiration.
func (c *Cache[V]) Set(key string, value V, ttl time.Duration) {
	e := c.newEntry(value, ttl)

	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
}

// Get returns the value for key. An entry past its expiry is removed and
// reported as missing.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V

	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return zero, false
	}

	if c.expired(e, c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have replaced it.
		if cur, still := c.items[key]; still && c.expired(cur, c.now()) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Delete removes key if present.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Clear removes every entry. Fetches started by GetOrSet before Clear
// do not store their results.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]entry[V])
	c.gen++
	c.mu.Unlock()
}

// Len returns the number of stored entries, expired or not.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Cleanup removes every expired entry and returns how many were removed.
func (c *Cache[V]) Cleanup() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.items {
		if c.expired(e, now) {
			delete(c.items, k)
			removed++
		}
	}
	return removed
}

// GetOrSet returns the cached value for key, or calls fetch and caches its
// result with ttl. Concurrent callers for the same cold key share a single
// fetch, which is not cancelled when one of them gives up; each caller
// returns early on its own ctx. Fetch errors are returned and nothing is
// cached. A result fetched across a Clear is returned but not cached.
func (c *Cache[V]) GetOrSet(ctx context.Context, key string, fetch func(context.Context) (V, error), ttl time.Duration) (V, error) {
	var zero V
	if v, ok := c.Get(key); ok {
		return v, nil
	}

	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	fetchCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(strconv.FormatUint(gen, 10)+"\x00"+key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := fetch(fetchCtx)
		if err != nil {
			return v, err
		}
		c.setIfGen(key, v, ttl, gen)
		return v, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(V), nil
	}
}

func (c *Cache[V]) setIfGen(key string, value V, ttl time.Duration, gen uint64) {
	e := c.newEntry(value, ttl)

	c.mu.Lock()
	if c.gen == gen {
		c.items[key] = e
	}
	c.mu.Unlock()
}

// RunJanitor calls Cleanup every interval until ctx is done. onSweep, when
// non-nil, receives the number of entries removed by each sweep.
func (c *Cache[V]) RunJanitor(ctx context.Context, interval time.Duration, onSweep func(removed int)) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := c.Cleanup()
			if onSweep != nil {
				onSweep(n)
			}
		}
	}
}

func (c *Cache[V]) newEntry(value V, ttl time.Duration) entry[V] {
	e := entry[V]{value: value}
	switch {
	case ttl == DefaultExpiration:
		e.expiry = c.now().Add(c.defaultTTL)
	case ttl > 0:
		e.expiry = c.now().Add(ttl)
	}
	return e
}

func (c *Cache[V]) expired(e entry[V], now time.Time) bool {
	return !e.expiry.IsZero() && now.After(e.expiry)
}
