package task

import (
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func TestNewTaskQueue(t *testing.T) {
	logger := setupTestLogger()
	queue := NewTaskQueue(10, logger)

	assert.NotNil(t, queue)
	assert.Equal(t, 10, cap(queue.tasks))
	assert.False(t, queue.closed)

	// Non-positive sizes still yield a usable queue
	queue = NewTaskQueue(0, logger)
	assert.Equal(t, 1, cap(queue.tasks))
}

func TestEnqueue(t *testing.T) {
	logger := setupTestLogger()
	queue := NewTaskQueue(2, logger)

	require.NoError(t, queue.Enqueue(NewMockTask(TaskTypeCredentialRehash)))
	require.NoError(t, queue.Enqueue(NewMockTask(TaskTypeNotificationDelivery)))
	assert.Equal(t, 2, queue.Len())

	// Third enqueue is rejected without blocking
	err := queue.Enqueue(NewMockTask(TaskTypeCredentialRehash))
	assert.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, 2, queue.Len())
}

func TestClose(t *testing.T) {
	logger := setupTestLogger()
	queue := NewTaskQueue(5, logger)

	task := NewMockTask(TaskTypeCredentialRehash)
	require.NoError(t, queue.Enqueue(task))

	queue.Close()
	queue.Close() // idempotent

	err := queue.Enqueue(NewMockTask(TaskTypeCredentialRehash))
	assert.ErrorIs(t, err, ErrQueueClosed)

	// Buffered tasks remain readable after close
	got, ok := <-queue.GetChannel()
	require.True(t, ok)
	assert.Equal(t, task.ID(), got.ID())

	_, ok = <-queue.GetChannel()
	assert.False(t, ok)
}

func TestEnqueue_ConcurrentWithClose(t *testing.T) {
	logger := setupTestLogger()
	queue := NewTaskQueue(4, logger)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := queue.Enqueue(NewMockTask(TaskTypeNotificationDelivery))
			if err != nil {
				assert.True(t, errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed),
					"unexpected error: %v", err)
			}
		}()
	}
	queue.Close()
	wg.Wait()
}
