package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/redact"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
)

// DefaultStoreTimeout caps a credential store lookup on the login path.
const DefaultStoreTimeout = 3 * time.Second

// CredentialStore looks up an account, including its password hash, by
// login identifier. Not found must be reported as store.ErrUserNotFound.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Credentials is a single login attempt. It is never persisted.
type Credentials struct {
	Identifier string
	Secret     string
}

// LoginResult is returned for a verified identity.
type LoginResult struct {
	User      domain.PublicUser
	Token     string
	ExpiresAt time.Time
}

// VerifierConfig holds the Verifier's tunables.
type VerifierConfig struct {
	// CacheTTL is the lifetime of entries inserted after a store lookup.
	// Zero uses the session cache default.
	CacheTTL time.Duration

	// StoreTimeout caps each credential store lookup.
	StoreTimeout time.Duration
}

// Verifier authenticates logins. It serves repeat logins from the session
// cache, falls back to the credential store on a miss or a stale entry, and
// schedules a background rehash when the verified hash is below target.
type Verifier struct {
	cache   *SessionCache
	store   CredentialStore
	hasher  Hasher
	tokens  JWTService
	rehash  Rehasher
	config  VerifierConfig
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewVerifier creates a Verifier. The cache must be the process-wide instance
// shared with the rehash scheduler and the cache-clear hook.
func NewVerifier(
	cache *SessionCache,
	credentials CredentialStore,
	hasher Hasher,
	tokens JWTService,
	rehash Rehasher,
	cfg VerifierConfig,
	logger *slog.Logger,
) *Verifier {
	if cfg.StoreTimeout <= 0 {
		cfg.StoreTimeout = DefaultStoreTimeout
	}
	return &Verifier{
		cache:   cache,
		store:   credentials,
		hasher:  hasher,
		tokens:  tokens,
		rehash:  rehash,
		config:  cfg,
		logger:  logger.With("component", "credential_verifier"),
		nowFunc: time.Now,
	}
}

// Login verifies creds and issues a token.
//
// A cached entry that verifies skips the store entirely. A cached entry that
// fails verification is invalidated and the store is consulted once. Unknown
// identifiers and wrong secrets both yield ErrInvalidCredentials; store
// failures yield ErrStoreUnavailable.
func (v *Verifier) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, v.logger)
	id := domain.NormalizeEmail(creds.Identifier)
	if id == "" || creds.Secret == "" {
		return nil, ErrInvalidCredentials
	}

	if entry, ok := v.cache.Get(id); ok {
		if v.hasher.Verify(creds.Secret, entry.VerificationMaterial) {
			log.Debug("login served from cache", "user_id", entry.PublicView.ID)
			return v.issue(ctx, id, creds.Secret, entry.VerificationMaterial, entry.PublicView)
		}
		// Possibly stale after an out-of-band change; the store decides.
		v.cache.Invalidate(id)
		log.Debug("cached credential mismatch, entry invalidated", "account", redact.Email(id))
	}

	lookupCtx, cancel := context.WithTimeout(ctx, v.config.StoreTimeout)
	user, err := v.store.GetByEmail(lookupCtx, id)
	cancel()
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		log.Error("credential store lookup failed",
			"error", redact.Error(err),
			"account", redact.Email(id))
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}

	if !v.hasher.Verify(creds.Secret, user.HashedPassword) {
		return nil, ErrInvalidCredentials
	}

	public := user.Public()
	v.cache.Put(id, CacheEntry{
		VerificationMaterial: user.HashedPassword,
		PublicView:           public,
	}, v.config.CacheTTL)

	return v.issue(ctx, id, creds.Secret, user.HashedPassword, public)
}

// issue signs the token and builds the result before any rehash is scheduled,
// so scheduling never delays the response.
func (v *Verifier) issue(
	ctx context.Context,
	id, secret, digest string,
	public domain.PublicUser,
) (*LoginResult, error) {
	token, err := v.tokens.GenerateToken(ctx, public.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	result := &LoginResult{
		User:      public,
		Token:     token,
		ExpiresAt: v.nowFunc().Add(v.tokens.TokenLifetime()),
	}

	if v.rehash != nil && v.hasher.NeedsRehash(digest) {
		v.rehash.Schedule(id, secret, digest)
	}

	return result, nil
}

// ClearCache drops any cached credential for identifier. It is called when
// the account's password or role changes.
func (v *Verifier) ClearCache(identifier string) {
	v.cache.Invalidate(domain.NormalizeEmail(identifier))
}
