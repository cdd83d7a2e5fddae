package task

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockTaskQueue implements TaskQueueReader for testing
type mockTaskQueue struct {
	ch chan Task
}

func newMockTaskQueue() *mockTaskQueue {
	return &mockTaskQueue{
		ch: make(chan Task, 10),
	}
}

func (m *mockTaskQueue) GetChannel() <-chan Task {
	return m.ch
}

func TestNewWorkerPool(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 5, TaskTimeout: time.Second}, logger)
	assert.Equal(t, 5, pool.workerCount)
	assert.Equal(t, time.Second, pool.taskTimeout)
	assert.Nil(t, pool.errorHandler)

	// Invalid values fall back to defaults
	pool = NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 0}, logger)
	assert.Equal(t, 1, pool.workerCount)
	assert.Equal(t, DefaultTaskTimeout, pool.taskTimeout)

	pool = NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: -5}, logger)
	assert.Equal(t, 1, pool.workerCount)
}

func TestWorkerPool_Start_Stop(t *testing.T) {
	logger := setupTestLogger()
	pool := NewWorkerPool(newMockTaskQueue(), DefaultWorkerPoolConfig(), logger)

	pool.Start()
	pool.Start()
	pool.Stop()
	pool.Stop()
}

func TestWorkerPool_ProcessTask_Success(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	completed := make(chan struct{})
	task := NewMockTask(TaskTypeCredentialRehash)
	task.ExecuteFn = func(ctx context.Context) error {
		close(completed)
		return nil
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case <-completed:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to complete")
	}
	assert.Equal(t, 1, task.Calls())
}

func TestWorkerPool_ProcessTask_Error(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	errorHandled := make(chan error, 1)
	expectedErr := errors.New("test error")
	task := NewMockTask(TaskTypeNotificationDelivery)
	task.ExecuteFn = func(ctx context.Context) error {
		return expectedErr
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.SetErrorHandler(func(task Task, err error) {
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case err := <-errorHandled:
		assert.Equal(t, expectedErr, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for error handler")
	}
}

func TestWorkerPool_ProcessTask_Panic(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	errorHandled := make(chan error, 1)
	task := NewMockTask(TaskTypeCredentialRehash)
	task.ExecuteFn = func(ctx context.Context) error {
		panic("test panic")
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.SetErrorHandler(func(task Task, err error) {
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- task

	select {
	case err := <-errorHandled:
		assert.Contains(t, err.Error(), "panic")
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for error handler after panic")
	}

	// The worker survives the panic and keeps processing
	done := make(chan struct{})
	next := NewMockTask(TaskTypeCredentialRehash)
	next.ExecuteFn = func(ctx context.Context) error {
		close(done)
		return nil
	}
	taskQueue.ch <- next

	select {
	case <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("worker did not recover after panic")
	}
}

func TestWorkerPool_TaskTimeout(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	errorHandled := make(chan error, 1)
	hung := NewMockTask(TaskTypeNotificationDelivery)
	hung.TaskTimeout = 50 * time.Millisecond
	hung.ExecuteFn = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1, TaskTimeout: time.Hour}, logger)
	pool.SetErrorHandler(func(task Task, err error) {
		errorHandled <- err
	})
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- hung

	select {
	case err := <-errorHandled:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task budget was not enforced")
	}
}

func TestWorkerPool_HungTaskDoesNotBlockOthers(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	release := make(chan struct{})
	defer close(release)

	hung := NewMockTask(TaskTypeNotificationDelivery)
	hung.ExecuteFn = func(ctx context.Context) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}

	var done atomic.Int32
	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 2}, logger)
	pool.Start()
	defer pool.Stop()

	taskQueue.ch <- hung
	for i := 0; i < 3; i++ {
		quick := NewMockTask(TaskTypeCredentialRehash)
		quick.ExecuteFn = func(ctx context.Context) error {
			done.Add(1)
			return nil
		}
		taskQueue.ch <- quick
	}

	assert.Eventually(t, func() bool { return done.Load() == 3 }, time.Second, 10*time.Millisecond)
}

func TestWorkerPool_Shutdown_DuringTask(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	taskStarted := make(chan struct{})
	taskCanceled := make(chan struct{})

	task := NewMockTask(TaskTypeCredentialRehash)
	task.ExecuteFn = func(ctx context.Context) error {
		close(taskStarted)
		<-ctx.Done()
		close(taskCanceled)
		return ctx.Err()
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1}, logger)
	pool.Start()

	taskQueue.ch <- task

	select {
	case <-taskStarted:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to start")
	}

	stopDone := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopDone)
	}()

	select {
	case <-taskCanceled:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to be canceled")
	}

	select {
	case <-stopDone:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for worker pool to stop")
	}
}

func TestWorkerPool_WithTaskQueue(t *testing.T) {
	logger := setupTestLogger()
	queue := NewTaskQueue(8, logger)

	var done atomic.Int32
	pool := NewWorkerPool(queue, WorkerPoolConfig{WorkerCount: 3}, logger)
	pool.Start()
	defer pool.Stop()

	for i := 0; i < 8; i++ {
		require.NoError(t, queue.Enqueue(NewFuncTask(TaskTypeCredentialRehash, time.Second, func(ctx context.Context) error {
			done.Add(1)
			return nil
		})))
	}

	assert.Eventually(t, func() bool { return done.Load() == 8 }, time.Second, 10*time.Millisecond)

	queue.Close()
}

func TestWorkerPool_ContextIgnoringTaskReleasesWorker(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	release := make(chan struct{})
	defer close(release)

	errorHandled := make(chan error, 1)
	stuck := NewMockTask(TaskTypeNotificationDelivery)
	stuck.TaskTimeout = 50 * time.Millisecond
	stuck.ExecuteFn = func(ctx context.Context) error {
		<-release
		return nil
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{WorkerCount: 1, StopTimeout: 100 * time.Millisecond}, logger)
	pool.SetErrorHandler(func(task Task, err error) {
		if task.ID() == stuck.ID() {
			errorHandled <- err
		}
	})
	pool.Start()
	defer pool.Stop()

	ran := make(chan struct{})
	rehash := NewMockTask(TaskTypeCredentialRehash)
	rehash.ExecuteFn = func(ctx context.Context) error {
		close(ran)
		return nil
	}

	taskQueue.ch <- stuck
	taskQueue.ch <- rehash

	select {
	case err := <-errorHandled:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(time.Second):
		t.Fatal("task budget was not enforced")
	}

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("queued task never ran on the only worker")
	}
}

func TestWorkerPool_StopDoesNotWaitForStuckTask(t *testing.T) {
	logger := setupTestLogger()
	taskQueue := newMockTaskQueue()

	release := make(chan struct{})
	defer close(release)

	started := make(chan struct{})
	stuck := NewMockTask(TaskTypeNotificationDelivery)
	stuck.ExecuteFn = func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	}

	pool := NewWorkerPool(taskQueue, WorkerPoolConfig{
		WorkerCount: 1,
		TaskTimeout: time.Hour,
		StopTimeout: 100 * time.Millisecond,
	}, logger)
	pool.Start()

	taskQueue.ch <- stuck
	select {
	case <-started:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("Timed out waiting for task to start")
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop blocked on a task that ignores cancellation")
	}
}

func TestNewWorkerPool_StopTimeoutDefault(t *testing.T) {
	pool := NewWorkerPool(newMockTaskQueue(), WorkerPoolConfig{WorkerCount: 1}, setupTestLogger())
	assert.Equal(t, DefaultStopTimeout, pool.stopTimeout)
}
