// Package task runs best-effort background work on a bounded in-memory queue
// drained by a fixed worker pool. Request handlers enqueue credential rehashes
// and notification deliveries here so they never wait on them.
//
// Delivery is at-most-once: a task rejected by a full queue is dropped, a
// failed task is not retried, and buffered tasks are lost on shutdown.
package task
