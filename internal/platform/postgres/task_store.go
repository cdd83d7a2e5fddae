package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

const taskColumns = `id, title, description, priority, status, due_date, assigned_to, created_by, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface using PostgreSQL
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgresTaskStore
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	return &PostgresTaskStore{
		db:     db,
		logger: logger.With("component", "task_store"),
	}
}

var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority),
		string(task.Status),
		task.DueDate,
		nullableID(task.AssignedTo),
		task.CreatedBy,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert task",
			"error", err,
			"task_id", task.ID)
		return store.NewStoreError("task", "create", "insert failed", MapError(err))
	}
	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// Assign implements store.TaskStore.Assign
func (s *PostgresTaskStore) Assign(ctx context.Context, id, assigneeID uuid.UUID) (*domain.Task, error) {
	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET assigned_to = $1, updated_at = $2 WHERE id = $3 RETURNING `+taskColumns,
		assigneeID, time.Now().UTC(), id)
	return scanTask(row)
}

// UpdateStatus implements store.TaskStore.UpdateStatus
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %w", store.ErrInvalidEntity, domain.ErrInvalidStatus)
	}

	row := s.db.QueryRowContext(ctx,
		`UPDATE tasks SET status = $1, updated_at = $2 WHERE id = $3 RETURNING `+taskColumns,
		string(status), time.Now().UTC(), id)
	return scanTask(row)
}

// ListByAssignee implements store.TaskStore.ListByAssignee
func (s *PostgresTaskStore) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE assigned_to = $1 ORDER BY created_at DESC, id`,
		assigneeID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// List implements store.TaskStore.List
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return tasks, nil
}

// Delete implements store.TaskStore.Delete. Notifications about the task
// keep their text; their task reference is cleared by the foreign key.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to delete task",
			"error", err,
			"task_id", id)
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// Stats implements store.TaskStore.Stats
func (s *PostgresTaskStore) Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error) {
	var stats domain.TaskStats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3),
			COUNT(*) FILTER (WHERE status <> $3 AND due_date < $4)
		FROM tasks`,
		string(domain.TaskStatusPending),
		string(domain.TaskStatusInProgress),
		string(domain.TaskStatusCompleted),
		now.UTC(),
	).Scan(&stats.Total, &stats.Pending, &stats.InProgress, &stats.Completed, &stats.Overdue)
	if err != nil {
		return nil, MapError(err)
	}
	return &stats, nil
}

// EmployeeStats implements store.TaskStore.EmployeeStats
func (s *PostgresTaskStore) EmployeeStats(ctx context.Context) ([]*domain.EmployeeTaskStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			u.id,
			u.name,
			u.email,
			COUNT(*),
			COUNT(*) FILTER (WHERE t.status = $1),
			COUNT(*) FILTER (WHERE t.status = $2),
			COUNT(*) FILTER (WHERE t.status = $3)
		FROM tasks t
		JOIN users u ON u.id = t.assigned_to
		GROUP BY u.id, u.name, u.email
		ORDER BY u.name, u.id`,
		string(domain.TaskStatusPending),
		string(domain.TaskStatusInProgress),
		string(domain.TaskStatusCompleted),
	)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	stats := make([]*domain.EmployeeTaskStats, 0)
	for rows.Next() {
		var e domain.EmployeeTaskStats
		if err := rows.Scan(&e.UserID, &e.Name, &e.Email, &e.Total, &e.Pending, &e.InProgress, &e.Completed); err != nil {
			return nil, MapError(err)
		}
		stats = append(stats, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return stats, nil
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task     domain.Task
		priority string
		status   string
		assignee uuid.NullUUID
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&priority,
		&status,
		&task.DueDate,
		&assignee,
		&task.CreatedBy,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrTaskNotFound
		}
		return nil, MapError(err)
	}

	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)
	if assignee.Valid {
		id := assignee.UUID
		task.AssignedTo = &id
	}
	return &task, nil
}

func nullableID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}
