package auth

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/cache"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEntry(digest string) CacheEntry {
	return CacheEntry{
		VerificationMaterial: digest,
		PublicView: domain.PublicUser{
			ID:    uuid.New(),
			Name:  "Ada",
			Email: "ada@example.com",
			Role:  domain.RoleEmployee,
		},
	}
}

func TestSessionCache_PutGet(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := NewSessionCache(30*time.Minute, cache.WithClock(clock.Now))

	stored := c.Put("ada@example.com", newTestEntry("h0"), 0)
	assert.Equal(t, "ada@example.com", stored.AccountID)
	assert.Equal(t, clock.Now().Add(30*time.Minute), stored.ExpiresAt)

	got, ok := c.Get("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, stored, got)

	_, ok = c.Get("bob@example.com")
	assert.False(t, ok)
}

func TestSessionCache_DefaultTTL(t *testing.T) {
	t.Parallel()

	c := NewSessionCache(0)
	assert.Equal(t, DefaultLoginCacheTTL, c.TTL())
}

func TestSessionCache_FixedExpiry(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := NewSessionCache(time.Minute, cache.WithClock(clock.Now))
	first := c.Put("ada@example.com", newTestEntry("h0"), 0)

	clock.Advance(50 * time.Second)
	got, ok := c.Get("ada@example.com")
	require.True(t, ok)
	assert.Equal(t, first.ExpiresAt, got.ExpiresAt, "reads do not slide the window")

	clock.Advance(10 * time.Second)
	_, ok = c.Get("ada@example.com")
	assert.False(t, ok)
}

func TestSessionCache_Invalidate(t *testing.T) {
	t.Parallel()

	c := NewSessionCache(time.Minute)
	c.Put("ada@example.com", newTestEntry("h0"), 0)
	c.Invalidate("ada@example.com")

	_, ok := c.Get("ada@example.com")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestSessionCache_UpdateHash(t *testing.T) {
	t.Parallel()

	clock := newTestClock()
	c := NewSessionCache(time.Minute, cache.WithClock(clock.Now))

	t.Run("live entry is updated in place", func(t *testing.T) {
		stored := c.Put("live@example.com", newTestEntry("h0"), 0)
		require.True(t, c.UpdateHash("live@example.com", "h1"))

		got, ok := c.Get("live@example.com")
		require.True(t, ok)
		assert.Equal(t, "h1", got.VerificationMaterial)
		assert.Equal(t, stored.ExpiresAt, got.ExpiresAt)
		assert.Equal(t, stored.PublicView, got.PublicView)
	})

	t.Run("invalidated entry is not re-inserted", func(t *testing.T) {
		c.Put("gone@example.com", newTestEntry("h0"), 0)
		c.Invalidate("gone@example.com")

		assert.False(t, c.UpdateHash("gone@example.com", "h1"))
		_, ok := c.Get("gone@example.com")
		assert.False(t, ok)
	})

	t.Run("expired entry is not revived", func(t *testing.T) {
		c.Put("stale@example.com", newTestEntry("h0"), time.Second)
		clock.Advance(2 * time.Second)

		assert.False(t, c.UpdateHash("stale@example.com", "h1"))
		_, ok := c.Get("stale@example.com")
		assert.False(t, ok)
	})
}

func TestSessionCache_CompareAndUpdateHash(t *testing.T) {
	t.Parallel()

	c := NewSessionCache(time.Minute)
	c.Put("ada@example.com", newTestEntry("h0"), 0)

	assert.False(t, c.CompareAndUpdateHash("ada@example.com", "other", "h1"))
	got, _ := c.Get("ada@example.com")
	assert.Equal(t, "h0", got.VerificationMaterial)

	assert.True(t, c.CompareAndUpdateHash("ada@example.com", "h0", "h1"))
	got, _ = c.Get("ada@example.com")
	assert.Equal(t, "h1", got.VerificationMaterial)
}

func TestSessionCache_ConcurrentKeys(t *testing.T) {
	t.Parallel()

	c := NewSessionCache(time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("user%d@example.com", i%8)
			for j := 0; j < 100; j++ {
				c.Put(id, newTestEntry(fmt.Sprintf("h%d", j)), 0)
				if e, ok := c.Get(id); ok {
					assert.Equal(t, id, e.AccountID)
				}
				c.UpdateHash(id, "updated")
				if j%25 == 0 {
					c.Invalidate(id)
				}
			}
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 8)
}
