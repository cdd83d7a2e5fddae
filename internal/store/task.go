package store

import (
	"context"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/google/uuid"
)

// TaskStore defines the interface for task persistence.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task. Returns ErrTaskNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Assign sets the assignee of a task and returns the updated task.
	// Returns ErrTaskNotFound if it does not exist.
	Assign(ctx context.Context, id, assigneeID uuid.UUID) (*domain.Task, error)

	// UpdateStatus changes the status of a task and returns the updated task.
	// Returns ErrTaskNotFound if it does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// ListByAssignee returns the tasks assigned to a user, newest first.
	ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error)

	// List returns every task, newest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// Delete removes a task. Returns ErrTaskNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// Stats counts tasks by status. A task is overdue when it is not
	// completed and its due date is before now.
	Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error)

	// EmployeeStats counts tasks by status for every user with at least one
	// assigned task, ordered by name.
	EmployeeStats(ctx context.Context) ([]*domain.EmployeeTaskStats, error)
}
