package cache

import (
	"hash/fnv"
	"sync"
	"time"
)

// DefaultShards is the shard count used when none is configured.
const DefaultShards = 32

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

type shard[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
}

// Cache is a lock-striped in-memory map with per-entry absolute expiry.
// Keys hash onto independent shards, so operations on keys in different
// shards never wait on each other. Expired entries are treated as absent and
// removed when next read; there is no background sweeper.
type Cache[V any] struct {
	shards []*shard[V]
	now    func() time.Time
}

type options struct {
	shards int
	now    func() time.Time
}

// Option configures a Cache.
type Option func(*options)

// WithShards sets the number of shards. Values below 1 are ignored.
func WithShards(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.shards = n
		}
	}
}

// WithClock replaces time.Now, for tests that need to move time forward.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// New creates an empty Cache.
func New[V any](opts ...Option) *Cache[V] {
	o := options{shards: DefaultShards, now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	shards := make([]*shard[V], o.shards)
	for i := range shards {
		shards[i] = &shard[V]{items: make(map[string]entry[V])}
	}
	return &Cache[V]{shards: shards, now: o.now}
}

func (c *Cache[V]) shardFor(key string) *shard[V] {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return c.shards[h.Sum32()%uint32(len(c.shards))]
}

// Get returns the value stored under key and its expiry. The boolean is false
// when the key was never stored, was deleted, or has expired.
func (c *Cache[V]) Get(key string) (V, time.Time, bool) {
	s := c.shardFor(key)
	now := c.now()

	s.mu.RLock()
	e, ok := s.items[key]
	s.mu.RUnlock()

	if ok && now.Before(e.expiresAt) {
		return e.value, e.expiresAt, true
	}

	var zero V
	if ok {
		s.mu.Lock()
		// A concurrent Put may have replaced the expired entry.
		if cur, still := s.items[key]; still && !now.Before(cur.expiresAt) {
			delete(s.items, key)
		}
		s.mu.Unlock()
	}
	return zero, time.Time{}, false
}

// Put stores value under key until now+ttl, replacing any existing entry.
// It returns the absolute expiry.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) time.Time {
	s := c.shardFor(key)
	expiresAt := c.now().Add(ttl)

	s.mu.Lock()
	s.items[key] = entry[V]{value: value, expiresAt: expiresAt}
	s.mu.Unlock()

	return expiresAt
}

// Delete removes key. Deleting an absent key is a no-op.
func (c *Cache[V]) Delete(key string) {
	s := c.shardFor(key)
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
}

// Update applies fn to the live value under key while holding the shard
// lock. fn returns the replacement and whether to store it; the expiry is
// left unchanged. Update never creates an entry: it reports false when the
// key is absent or expired, or when fn declines the change.
func (c *Cache[V]) Update(key string, fn func(V) (V, bool)) bool {
	s := c.shardFor(key)
	now := c.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return false
	}
	if !now.Before(e.expiresAt) {
		delete(s.items, key)
		return false
	}

	next, apply := fn(e.value)
	if !apply {
		return false
	}
	s.items[key] = entry[V]{value: next, expiresAt: e.expiresAt}
	return true
}

// Len returns the number of unexpired entries.
func (c *Cache[V]) Len() int {
	now := c.now()
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		for _, e := range s.items {
			if now.Before(e.expiresAt) {
				n++
			}
		}
		s.mu.RUnlock()
	}
	return n
}
