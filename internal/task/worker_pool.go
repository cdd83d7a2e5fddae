package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// WorkerPool manages a fixed set of worker goroutines that process tasks
// from a task queue. Each task runs under its own deadline. When the budget
// elapses the worker moves on, even if the task ignores its context; the
// task's goroutine is abandoned.
type WorkerPool struct {
	// taskQueue provides read access to the tasks to be processed
	taskQueue TaskQueueReader

	// workerCount is the number of concurrent workers to start
	workerCount int

	// taskTimeout bounds tasks that don't carry their own budget
	taskTimeout time.Duration

	// stopTimeout bounds how long Stop waits for workers to exit
	stopTimeout time.Duration

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	// ctx is the parent of every task context; Stop cancels it
	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once

	logger *slog.Logger

	// errorHandler is called when a task execution fails
	// If nil, errors are only logged
	errorHandler func(task Task, err error)
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int

	// TaskTimeout is the default per-task budget. Zero means DefaultTaskTimeout.
	TaskTimeout time.Duration

	// StopTimeout bounds Stop. Zero means DefaultStopTimeout.
	StopTimeout time.Duration
}

// DefaultTaskTimeout bounds a task that neither the pool config nor the task
// itself gives a budget.
const DefaultTaskTimeout = 15 * time.Second

// DefaultStopTimeout is how long Stop waits for workers before giving up.
const DefaultStopTimeout = 5 * time.Second

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount: 2,
		TaskTimeout: DefaultTaskTimeout,
		StopTimeout: DefaultStopTimeout,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(taskQueue TaskQueueReader, config WorkerPoolConfig, logger *slog.Logger) *WorkerPool {
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		logger.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}

	taskTimeout := config.TaskTimeout
	if taskTimeout <= 0 {
		taskTimeout = DefaultTaskTimeout
	}

	stopTimeout := config.StopTimeout
	if stopTimeout <= 0 {
		stopTimeout = DefaultStopTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		taskQueue:   taskQueue,
		workerCount: workerCount,
		taskTimeout: taskTimeout,
		stopTimeout: stopTimeout,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.With("component", "worker_pool"),
	}
}

// SetErrorHandler allows setting a custom error handler for task execution failures.
// It must be called before Start.
func (p *WorkerPool) SetErrorHandler(handler func(task Task, err error)) {
	p.errorHandler = handler
}

// Start launches the worker goroutines. Calling Start more than once has no effect.
func (p *WorkerPool) Start() {
	p.startOnce.Do(func() {
		p.logger.Info("starting worker pool",
			"worker_count", p.workerCount,
			"task_timeout", p.taskTimeout)

		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.worker(i)
		}
	})
}

// Stop cancels in-flight tasks and waits up to the stop timeout for every
// worker to exit. Tasks still buffered in the queue are abandoned.
func (p *WorkerPool) Stop() {
	p.stopOnce.Do(func() {
		p.logger.Info("stopping worker pool")
		p.cancel()

		exited := make(chan struct{})
		go func() {
			p.wg.Wait()
			close(exited)
		}()

		select {
		case <-exited:
			p.logger.Info("worker pool stopped")
		case <-time.After(p.stopTimeout):
			p.logger.Warn("worker pool stop timed out, abandoning workers",
				"stop_timeout", p.stopTimeout)
		}
	})
}

func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	log.Debug("worker started")

	tasks := p.taskQueue.GetChannel()
	for {
		select {
		case <-p.ctx.Done():
			log.Debug("worker shutting down")
			return
		case t, ok := <-tasks:
			if !ok {
				log.Debug("task queue closed, worker exiting")
				return
			}
			p.process(log, t)
		}
	}
}

func (p *WorkerPool) process(log *slog.Logger, t Task) {
	timeout := p.taskTimeout
	if tt, ok := t.(TimeoutTask); ok && tt.Timeout() > 0 {
		timeout = tt.Timeout()
	}

	ctx, cancel := context.WithTimeout(p.ctx, timeout)
	defer cancel()

	log = log.With("task_id", t.ID(), "task_type", t.Type())
	start := time.Now()

	err := p.execute(ctx, t)
	duration := time.Since(start)

	if err != nil {
		log.Error("task failed",
			"error", err,
			"duration_ms", duration.Milliseconds())
		if p.errorHandler != nil {
			p.errorHandler(t, err)
		}
		return
	}

	log.Debug("task completed", "duration_ms", duration.Milliseconds())
}

// execute runs the task on its own goroutine and returns when it finishes
// or ctx is done, whichever comes first. A panic becomes an error.
func (p *WorkerPool) execute(ctx context.Context, t Task) error {
	result := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				result <- fmt.Errorf("task panic: %v", r)
			}
		}()
		result <- t.Execute(ctx)
	}()

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return fmt.Errorf("task abandoned: %w", ctx.Err())
	}
}
