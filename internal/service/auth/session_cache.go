package auth

import (
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/cache"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
)

// DefaultLoginCacheTTL is the fixed window a verified credential is served
// from memory.
const DefaultLoginCacheTTL = 30 * time.Minute

// CacheEntry is the verification material cached for one account.
type CacheEntry struct {
	AccountID            string
	VerificationMaterial string
	PublicView           domain.PublicUser
	ExpiresAt            time.Time
}

// SessionCache maps account identifiers to cached verification material.
// The TTL is fixed from insertion and is not extended by reads. One instance
// is created at startup and shared by reference.
type SessionCache struct {
	entries *cache.Cache[CacheEntry]
	ttl     time.Duration
}

// NewSessionCache creates an empty cache whose Put uses ttl when the caller
// passes zero.
func NewSessionCache(ttl time.Duration, opts ...cache.Option) *SessionCache {
	if ttl <= 0 {
		ttl = DefaultLoginCacheTTL
	}
	return &SessionCache{
		entries: cache.New[CacheEntry](opts...),
		ttl:     ttl,
	}
}

// TTL returns the default entry lifetime.
func (c *SessionCache) TTL() time.Duration {
	return c.ttl
}

// Get returns the live entry for accountID.
func (c *SessionCache) Get(accountID string) (CacheEntry, bool) {
	entry, expiresAt, ok := c.entries.Get(accountID)
	if !ok {
		return CacheEntry{}, false
	}
	entry.ExpiresAt = expiresAt
	return entry, true
}

// Put stores entry under accountID, replacing any existing entry. A zero ttl
// means the cache default. The returned entry carries the absolute expiry.
func (c *SessionCache) Put(accountID string, entry CacheEntry, ttl time.Duration) CacheEntry {
	if ttl <= 0 {
		ttl = c.ttl
	}
	entry.AccountID = accountID
	entry.ExpiresAt = c.entries.Put(accountID, entry, ttl)
	return entry
}

// Invalidate removes the entry for accountID.
func (c *SessionCache) Invalidate(accountID string) {
	c.entries.Delete(accountID)
}

// UpdateHash replaces the verification material of a live entry in place.
// It is a no-op, returning false, when the entry expired or was invalidated.
func (c *SessionCache) UpdateHash(accountID, digest string) bool {
	return c.entries.Update(accountID, func(e CacheEntry) (CacheEntry, bool) {
		e.VerificationMaterial = digest
		return e, true
	})
}

// CompareAndUpdateHash is UpdateHash restricted to entries still holding
// previous. An entry repopulated with a different hash since the caller read
// it is left untouched.
func (c *SessionCache) CompareAndUpdateHash(accountID, previous, digest string) bool {
	return c.entries.Update(accountID, func(e CacheEntry) (CacheEntry, bool) {
		if e.VerificationMaterial != previous {
			return e, false
		}
		e.VerificationMaterial = digest
		return e, true
	})
}

// Len returns the number of live entries.
func (c *SessionCache) Len() int {
	return c.entries.Len()
}
