package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/cache"
	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/Shreytangani17/Task-Mangement-System/internal/task"
	"github.com/stretchr/testify/require"
)

const (
	testSecret    = "correct horse battery staple"
	testJWTSecret = "test-jwt-secret-that-is-32-chars-long"
	weakCost      = 4
	targetCost    = 5
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testClock is a manually advanced clock safe for concurrent use.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// fakeCredentialStore is an in-memory CredentialStore and PasswordHashUpdater
// that counts calls.
type fakeCredentialStore struct {
	mu    sync.Mutex
	users map[string]*domain.User

	GetByEmailFn           func(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHashIfFn func(ctx context.Context, email, previous, hash string) error

	lookups atomic.Int32
	updates atomic.Int32

	updatedMu sync.Mutex
	updated   []string
}

func newFakeCredentialStore(users ...*domain.User) *fakeCredentialStore {
	s := &fakeCredentialStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		s.users[u.Email] = u
	}
	return s
}

func (s *fakeCredentialStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.lookups.Add(1)
	if s.GetByEmailFn != nil {
		return s.GetByEmailFn(ctx, email)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

// UpdatePasswordHash changes a password out of band. It is not counted.
func (s *fakeCredentialStore) UpdatePasswordHash(ctx context.Context, email, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hash
	return nil
}

func (s *fakeCredentialStore) UpdatePasswordHashIf(ctx context.Context, email, previous, hash string) error {
	s.updates.Add(1)

	if s.UpdatePasswordHashIfFn != nil {
		if err := s.UpdatePasswordHashIfFn(ctx, email, previous, hash); err != nil {
			return err
		}
		s.record(hash)
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return store.ErrUserNotFound
	}
	if u.HashedPassword != previous {
		return store.ErrPasswordHashChanged
	}
	u.HashedPassword = hash
	s.record(hash)
	return nil
}

func (s *fakeCredentialStore) record(hash string) {
	s.updatedMu.Lock()
	s.updated = append(s.updated, hash)
	s.updatedMu.Unlock()
}

func (s *fakeCredentialStore) HashOf(email string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[email]; ok {
		return u.HashedPassword
	}
	return ""
}

func (s *fakeCredentialStore) Lookups() int { return int(s.lookups.Load()) }
func (s *fakeCredentialStore) Updates() int { return int(s.updates.Load()) }

func (s *fakeCredentialStore) UpdatedHashes() []string {
	s.updatedMu.Lock()
	defer s.updatedMu.Unlock()
	return append([]string(nil), s.updated...)
}

// recordingRehasher records Schedule calls without running anything.
type recordingRehasher struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRehasher) Schedule(identifier, secret, previousDigest string) {
	r.mu.Lock()
	r.calls = append(r.calls, identifier)
	r.mu.Unlock()
}

func (r *recordingRehasher) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            testJWTSecret,
		TokenLifetimeMinutes: 60,
		BcryptCost:           targetCost,
	}
}

func mustHasher(t *testing.T, cost int) *BcryptHasher {
	t.Helper()
	h, err := NewBcryptHasher(cost)
	require.NoError(t, err)
	return h
}

func mustUser(t *testing.T, email string, cost int) *domain.User {
	t.Helper()
	digest, err := mustHasher(t, cost).Hash(testSecret)
	require.NoError(t, err)
	u, err := domain.NewUser("Test User", email, domain.RoleEmployee, digest)
	require.NoError(t, err)
	return u
}

func mustJWTService(t *testing.T) JWTService {
	t.Helper()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	return svc
}

// verifierFixture bundles a Verifier with its collaborators.
type verifierFixture struct {
	verifier *Verifier
	cache    *SessionCache
	store    *fakeCredentialStore
	hasher   *BcryptHasher
	clock    *testClock
	rehasher *recordingRehasher
}

func newVerifierFixture(t *testing.T, users ...*domain.User) *verifierFixture {
	t.Helper()
	clock := newTestClock()
	sessionCache := NewSessionCache(30*time.Minute, cache.WithClock(clock.Now))
	credStore := newFakeCredentialStore(users...)
	hasher := mustHasher(t, targetCost)
	rehasher := &recordingRehasher{}

	v := NewVerifier(sessionCache, credStore, hasher, mustJWTService(t), rehasher,
		VerifierConfig{StoreTimeout: time.Second}, discardLogger())
	v.nowFunc = clock.Now

	return &verifierFixture{
		verifier: v,
		cache:    sessionCache,
		store:    credStore,
		hasher:   hasher,
		clock:    clock,
		rehasher: rehasher,
	}
}

// startPool runs a real queue and worker pool for the duration of the test.
func startPool(t *testing.T, queueSize int) *task.TaskQueue {
	t.Helper()
	logger := discardLogger()
	queue := task.NewTaskQueue(queueSize, logger)
	pool := task.NewWorkerPool(queue, task.WorkerPoolConfig{WorkerCount: 2, TaskTimeout: 5 * time.Second}, logger)
	pool.Start()
	t.Cleanup(func() {
		pool.Stop()
		queue.Close()
	})
	return queue
}
