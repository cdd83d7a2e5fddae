package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/notify"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

// Notifier records a notification and schedules its delivery.
type Notifier interface {
	Notify(ctx context.Context, req notify.NotifyRequest) (*domain.Notification, error)
}

// CreateTaskInput is the data needed to create a task.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    domain.TaskPriority
	DueDate     time.Time
	AssignedTo  *uuid.UUID
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role domain.Role
}

// TaskService provides task operations. Notifications are a side effect:
// once the task change is stored the operation succeeds, whatever happens
// to the notification.
type TaskService interface {
	// CreateTask stores a task and notifies the assignee, if any.
	CreateTask(ctx context.Context, actor Actor, input CreateTaskInput) (*domain.Task, error)

	// GetTask retrieves a task. Employees may only read their own tasks.
	GetTask(ctx context.Context, actor Actor, taskID uuid.UUID) (*domain.Task, error)

	// AssignTask sets the assignee and notifies them.
	AssignTask(ctx context.Context, taskID, assigneeID uuid.UUID) (*domain.Task, error)

	// UpdateStatus changes a task's status and notifies its creator.
	// Employees may only update tasks assigned to them.
	UpdateStatus(ctx context.Context, actor Actor, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// ListMine returns the tasks assigned to the actor.
	ListMine(ctx context.Context, actor Actor) ([]*domain.Task, error)

	// ListAll returns every task, newest first.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// DeleteTask removes a task.
	DeleteTask(ctx context.Context, taskID uuid.UUID) error

	// Stats counts every task by status, including overdue ones.
	Stats(ctx context.Context) (*domain.TaskStats, error)

	// EmployeeStats counts assigned tasks by status per user.
	EmployeeStats(ctx context.Context) ([]*domain.EmployeeTaskStats, error)
}

// TaskServiceImpl implements TaskService.
type TaskServiceImpl struct {
	tasks    store.TaskStore
	users    store.UserStore
	notifier Notifier
	now      func() time.Time
	logger   *slog.Logger
}

var _ TaskService = (*TaskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
func NewTaskService(
	tasks store.TaskStore,
	users store.UserStore,
	notifier Notifier,
	logger *slog.Logger,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
		now:      time.Now,
		logger:   logger.With("component", "task_service"),
	}
}

// CreateTask implements TaskService.
func (s *TaskServiceImpl) CreateTask(ctx context.Context, actor Actor, input CreateTaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if input.AssignedTo != nil {
		if err := s.requireUser(ctx, *input.AssignedTo); err != nil {
			return nil, err
		}
	}

	task, err := domain.NewTask(input.Title, input.Description, input.Priority, input.DueDate, actor.ID, input.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	log.Info("task created", "task_id", task.ID, "assigned", task.AssignedTo != nil)

	if task.AssignedTo != nil {
		s.notify(ctx, notify.NotifyRequest{
			RecipientID: *task.AssignedTo,
			TaskID:      &task.ID,
			Kind:        domain.NotificationAssignment,
			Message:     "New task assigned: " + task.Title,
			Body:        dueLine(task),
		})
	}
	return task, nil
}

// GetTask implements TaskService.
func (s *TaskServiceImpl) GetTask(ctx context.Context, actor Actor, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if !canTouch(actor, task) {
		return nil, ErrNotOwned
	}
	return task, nil
}

// AssignTask implements TaskService.
func (s *TaskServiceImpl) AssignTask(ctx context.Context, taskID, assigneeID uuid.UUID) (*domain.Task, error) {
	if err := s.requireUser(ctx, assigneeID); err != nil {
		return nil, err
	}

	task, err := s.tasks.Assign(ctx, taskID, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("failed to assign task: %w", err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("task assigned",
		"task_id", task.ID,
		"assignee_id", assigneeID)

	s.notify(ctx, notify.NotifyRequest{
		RecipientID: assigneeID,
		TaskID:      &task.ID,
		Kind:        domain.NotificationAssignment,
		Message:     "New task assigned: " + task.Title,
		Body:        dueLine(task),
	})
	return task, nil
}

// UpdateStatus implements TaskService.
func (s *TaskServiceImpl) UpdateStatus(
	ctx context.Context,
	actor Actor,
	taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "must be Pending, In-Progress or Completed", domain.ErrInvalidStatus)
	}

	current, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve task: %w", err)
	}
	if !canTouch(actor, current) {
		return nil, ErrNotOwned
	}

	task, err := s.tasks.UpdateStatus(ctx, taskID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update task status: %w", err)
	}

	if task.CreatedBy != actor.ID && current.Status != status {
		s.notify(ctx, notify.NotifyRequest{
			RecipientID: task.CreatedBy,
			TaskID:      &task.ID,
			Kind:        domain.NotificationStatusChange,
			Message:     fmt.Sprintf("Task %q is now %s", task.Title, task.Status),
		})
	}
	return task, nil
}

// ListMine implements TaskService.
func (s *TaskServiceImpl) ListMine(ctx context.Context, actor Actor) ([]*domain.Task, error) {
	tasks, err := s.tasks.ListByAssignee(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// ListAll implements TaskService.
func (s *TaskServiceImpl) ListAll(ctx context.Context) ([]*domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// DeleteTask implements TaskService.
func (s *TaskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("task deleted", "task_id", taskID)
	return nil
}

// Stats implements TaskService.
func (s *TaskServiceImpl) Stats(ctx context.Context) (*domain.TaskStats, error) {
	stats, err := s.tasks.Stats(ctx, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks: %w", err)
	}
	return stats, nil
}

// EmployeeStats implements TaskService.
func (s *TaskServiceImpl) EmployeeStats(ctx context.Context) ([]*domain.EmployeeTaskStats, error) {
	stats, err := s.tasks.EmployeeStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count tasks per employee: %w", err)
	}
	return stats, nil
}

func (s *TaskServiceImpl) requireUser(ctx context.Context, id uuid.UUID) error {
	if _, err := s.users.GetByID(ctx, id); err != nil {
		if store.IsNotFoundError(err) {
			return domain.NewValidationError("assigned_to", "does not refer to an existing user", nil)
		}
		return fmt.Errorf("failed to look up assignee: %w", err)
	}
	return nil
}

// notify records a notification without letting its failure reach the
// caller: the task change has already been stored.
func (s *TaskServiceImpl) notify(ctx context.Context, req notify.NotifyRequest) {
	if _, err := s.notifier.Notify(ctx, req); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to record notification",
			"error", err,
			"recipient_id", req.RecipientID,
			"kind", req.Kind)
	}
}

func canTouch(actor Actor, task *domain.Task) bool {
	if actor.Role == domain.RoleAdmin {
		return true
	}
	return task.AssignedTo != nil && *task.AssignedTo == actor.ID
}

func dueLine(task *domain.Task) string {
	return fmt.Sprintf("Priority: %s. Due: %s.", task.Priority, task.DueDate.Format("Jan 2, 2006"))
}
