package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/redact"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/Shreytangani17/Task-Mangement-System/internal/task"
)

// DefaultRehashTimeout bounds a single background rehash.
const DefaultRehashTimeout = 10 * time.Second

// Rehasher schedules a background upgrade of a verified account's hash.
type Rehasher interface {
	// Schedule returns immediately. previousDigest is the hash the secret was
	// just verified against.
	Schedule(identifier, secret, previousDigest string)
}

// PasswordHashUpdater persists a replacement password hash, but only over
// the hash it was computed to replace.
type PasswordHashUpdater interface {
	// UpdatePasswordHashIf returns store.ErrPasswordHashChanged when the stored
	// hash is no longer previousHash.
	UpdatePasswordHashIf(ctx context.Context, email, previousHash, hashedPassword string) error
}

// RehashScheduler upgrades weak hashes on the background worker pool.
// Jobs are best effort: a job that can't be queued, or that fails, is
// logged and dropped. Nothing is retried.
type RehashScheduler struct {
	hasher  Hasher
	store   PasswordHashUpdater
	cache   *SessionCache
	queue   task.TaskQueueWriter
	timeout time.Duration
	logger  *slog.Logger
}

var _ Rehasher = (*RehashScheduler)(nil)

// NewRehashScheduler creates a scheduler submitting jobs to queue.
func NewRehashScheduler(
	hasher Hasher,
	store PasswordHashUpdater,
	cache *SessionCache,
	queue task.TaskQueueWriter,
	timeout time.Duration,
	logger *slog.Logger,
) *RehashScheduler {
	if timeout <= 0 {
		timeout = DefaultRehashTimeout
	}
	return &RehashScheduler{
		hasher:  hasher,
		store:   store,
		cache:   cache,
		queue:   queue,
		timeout: timeout,
		logger:  logger.With("component", "rehash_scheduler"),
	}
}

// Schedule implements Rehasher.
func (s *RehashScheduler) Schedule(identifier, secret, previousDigest string) {
	job := task.NewFuncTask(task.TaskTypeCredentialRehash, s.timeout, func(ctx context.Context) error {
		return s.rehash(ctx, identifier, secret, previousDigest)
	})

	if err := s.queue.Enqueue(job); err != nil {
		s.logger.Warn("password rehash not scheduled",
			"error", err,
			"account", redact.Email(identifier))
		return
	}

	s.logger.Debug("password rehash scheduled",
		"task_id", job.ID(),
		"account", redact.Email(identifier),
		"target_cost", s.hasher.TargetCost())
}

// rehash computes the new digest and writes it over previousDigest. When the
// cached entry still holds previousDigest it is refreshed in place. A password
// changed since the login wins: the upgrade is skipped.
func (s *RehashScheduler) rehash(ctx context.Context, identifier, secret, previousDigest string) error {
	digest, err := s.hasher.Hash(secret)
	if err != nil {
		return fmt.Errorf("%w: hashing for %s: %v", ErrRehashFailed, redact.Email(identifier), err)
	}

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRehashFailed, err)
	}

	if err := s.store.UpdatePasswordHashIf(ctx, identifier, previousDigest, digest); err != nil {
		if errors.Is(err, store.ErrPasswordHashChanged) {
			s.logger.Info("password rehash superseded by a newer password",
				"account", redact.Email(identifier))
			return nil
		}
		return fmt.Errorf("%w: storing hash for %s: %v", ErrRehashFailed, redact.Email(identifier), redact.Error(err))
	}

	cacheUpdated := s.cache.CompareAndUpdateHash(identifier, previousDigest, digest)

	s.logger.Info("password hash upgraded",
		"account", redact.Email(identifier),
		"target_cost", s.hasher.TargetCost(),
		"cache_updated", cacheUpdated)
	return nil
}
