package task

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// MockTask is a configurable Task for tests in this and other packages.
type MockTask struct {
	TaskID      uuid.UUID
	TaskType    string
	TaskTimeout time.Duration
	ExecuteFn   func(ctx context.Context) error

	calls atomic.Int32
}

// NewMockTask creates a MockTask whose Execute succeeds immediately
func NewMockTask(taskType string) *MockTask {
	return &MockTask{
		TaskID:    uuid.New(),
		TaskType:  taskType,
		ExecuteFn: func(ctx context.Context) error { return nil },
	}
}

// ID returns the task's unique identifier
func (t *MockTask) ID() uuid.UUID {
	return t.TaskID
}

// Type returns the task type identifier
func (t *MockTask) Type() string {
	return t.TaskType
}

// Timeout returns the configured budget; zero defers to the pool
func (t *MockTask) Timeout() time.Duration {
	return t.TaskTimeout
}

// Execute runs ExecuteFn and counts the call
func (t *MockTask) Execute(ctx context.Context) error {
	t.calls.Add(1)
	return t.ExecuteFn(ctx)
}

// Calls reports how many times Execute ran
func (t *MockTask) Calls() int {
	return int(t.calls.Load())
}
