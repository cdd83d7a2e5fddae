package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies secrets with a tunable work factor.
// Implementations must be safe for concurrent use.
type Hasher interface {
	// Hash returns a salted one-way digest of secret at the target cost.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches digest.
	Verify(secret, digest string) bool

	// NeedsRehash reports whether digest was produced below the target cost.
	NeedsRehash(digest string) bool

	// TargetCost returns the work factor new digests are produced at.
	TargetCost() int
}

// BcryptHasher implements Hasher with bcrypt. It holds no mutable state.
type BcryptHasher struct {
	cost int
}

var _ Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher targeting cost.
// Returns ErrInvalidCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d (must be %d-%d)", ErrInvalidCost, cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &BcryptHasher{cost: cost}, nil
}

// WithCost returns a hasher with the same behavior and a different target cost.
func (h *BcryptHasher) WithCost(cost int) (*BcryptHasher, error) {
	return NewBcryptHasher(cost)
}

// Hash implements Hasher.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	if secret == "" {
		return "", ErrEmptySecret
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("secret exceeds 72 bytes: %w", err)
		}
		return "", fmt.Errorf("failed to hash secret: %w", err)
	}
	return string(digest), nil
}

// Verify implements Hasher. A malformed digest never verifies.
func (h *BcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// Cost returns the work factor digest was produced with.
func (h *BcryptHasher) Cost(digest string) (int, error) {
	return bcrypt.Cost([]byte(digest))
}

// NeedsRehash implements Hasher. Digests at or above the target are left
// alone, and a digest whose cost can't be read is never rehashed.
func (h *BcryptHasher) NeedsRehash(digest string) bool {
	cost, err := h.Cost(digest)
	if err != nil {
		return false
	}
	return cost < h.cost
}

// TargetCost implements Hasher.
func (h *BcryptHasher) TargetCost() int {
	return h.cost
}
