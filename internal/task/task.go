package task

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeCredentialRehash upgrades a stored password hash to the target cost.
	TaskTypeCredentialRehash = "credential_rehash"

	// TaskTypeNotificationDelivery sends a persisted notification over the mail transport.
	TaskTypeNotificationDelivery = "notification_delivery"
)

// Task represents a unit of best-effort background work. Tasks live only in
// memory: they are never persisted, retried, or recovered after a restart.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic. ctx carries the task's deadline.
	Execute(ctx context.Context) error
}

// TimeoutTask is a Task that carries its own execution budget. The worker
// pool uses it instead of the pool-wide default.
type TimeoutTask interface {
	Task

	// Timeout returns the maximum time Execute may run.
	Timeout() time.Duration
}

// TaskQueueReader provides read-only access to the task channel
// allowing workers to consume tasks without the ability to enqueue
type TaskQueueReader interface {
	// GetChannel returns a read-only channel for consuming tasks
	GetChannel() <-chan Task
}

// TaskQueueWriter provides write access to the task queue
// allowing services to enqueue tasks for processing
type TaskQueueWriter interface {
	// Enqueue adds a task to the queue for processing without blocking.
	// Returns ErrQueueFull or ErrQueueClosed when the task is not accepted.
	Enqueue(task Task) error
}

// FuncTask adapts a function to the TimeoutTask interface.
type FuncTask struct {
	id       uuid.UUID
	taskType string
	timeout  time.Duration
	fn       func(ctx context.Context) error
}

// NewFuncTask creates a task of the given type that runs fn within timeout.
// A zero timeout defers to the worker pool default.
func NewFuncTask(taskType string, timeout time.Duration, fn func(ctx context.Context) error) *FuncTask {
	return &FuncTask{
		id:       uuid.New(),
		taskType: taskType,
		timeout:  timeout,
		fn:       fn,
	}
}

// ID returns the task's unique identifier
func (t *FuncTask) ID() uuid.UUID { return t.id }

// Type returns the task type identifier
func (t *FuncTask) Type() string { return t.taskType }

// Timeout returns the task's execution budget
func (t *FuncTask) Timeout() time.Duration { return t.timeout }

// Execute runs the wrapped function
func (t *FuncTask) Execute(ctx context.Context) error { return t.fn(ctx) }
