package auth

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBcryptHasher(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cost    int
		wantErr bool
	}{
		{name: "minimum cost", cost: 4},
		{name: "default cost", cost: 10},
		{name: "below minimum", cost: 3, wantErr: true},
		{name: "above maximum", cost: 32, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			h, err := NewBcryptHasher(tt.cost)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCost)
				assert.Nil(t, h)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.cost, h.TargetCost())
		})
	}
}

func TestBcryptHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	h := mustHasher(t, weakCost)

	digest, err := h.Hash(testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, testSecret, digest)

	assert.True(t, h.Verify(testSecret, digest))
	assert.False(t, h.Verify("wrong secret", digest))
	assert.False(t, h.Verify(testSecret, "not-a-bcrypt-digest"))

	cost, err := h.Cost(digest)
	require.NoError(t, err)
	assert.Equal(t, weakCost, cost)

	again, err := h.Hash(testSecret)
	require.NoError(t, err)
	assert.NotEqual(t, digest, again, "digests are salted")
}

func TestBcryptHasher_HashErrors(t *testing.T) {
	t.Parallel()

	h := mustHasher(t, weakCost)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, ErrEmptySecret)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.Error(t, err)
}

func TestBcryptHasher_NeedsRehash(t *testing.T) {
	t.Parallel()

	weak, err := mustHasher(t, weakCost).Hash(testSecret)
	require.NoError(t, err)
	strong, err := mustHasher(t, targetCost+1).Hash(testSecret)
	require.NoError(t, err)

	h := mustHasher(t, targetCost)
	atTarget, err := h.Hash(testSecret)
	require.NoError(t, err)

	assert.True(t, h.NeedsRehash(weak), "below target")
	assert.False(t, h.NeedsRehash(atTarget), "at target")
	assert.False(t, h.NeedsRehash(strong), "above target is never downgraded")
	assert.False(t, h.NeedsRehash("garbage"), "unreadable digest")
}

func TestBcryptHasher_WithCost(t *testing.T) {
	t.Parallel()

	h := mustHasher(t, weakCost)
	higher, err := h.WithCost(targetCost)
	require.NoError(t, err)
	assert.Equal(t, targetCost, higher.TargetCost())
	assert.Equal(t, weakCost, h.TargetCost())

	_, err = h.WithCost(99)
	assert.ErrorIs(t, err, ErrInvalidCost)
}

func TestBcryptHasher_ConcurrentUse(t *testing.T) {
	t.Parallel()

	h := mustHasher(t, weakCost)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			digest, err := h.Hash(testSecret)
			assert.NoError(t, err)
			assert.True(t, h.Verify(testSecret, digest))
		}()
	}
	wg.Wait()
}
