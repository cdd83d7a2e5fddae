package mocks

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

// MockTaskStore implements store.TaskStore for testing
type MockTaskStore struct {
	CreateFn         func(ctx context.Context, task *domain.Task) error
	GetByIDFn        func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	AssignFn         func(ctx context.Context, id, assigneeID uuid.UUID) (*domain.Task, error)
	UpdateStatusFn   func(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	ListByAssigneeFn func(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error)
	ListFn           func(ctx context.Context) ([]*domain.Task, error)
	DeleteFn         func(ctx context.Context, id uuid.UUID) error
	StatsFn          func(ctx context.Context, now time.Time) (*domain.TaskStats, error)
	EmployeeStatsFn  func(ctx context.Context) ([]*domain.EmployeeTaskStats, error)

	// Users resolves names for EmployeeStats. Assignees it doesn't know are skipped.
	Users *MockUserStore

	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

var _ store.TaskStore = (*MockTaskStore)(nil)

// NewMockTaskStore creates a mock store seeded with tasks.
func NewMockTaskStore(tasks ...*domain.Task) *MockTaskStore {
	m := &MockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
	for _, t := range tasks {
		m.tasks[t.ID] = t
	}
	return m
}

// Create implements the TaskStore interface
func (m *MockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, task)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tasks[task.ID]; exists {
		return store.ErrDuplicate
	}
	m.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetByID implements the TaskStore interface
func (m *MockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(t), nil
}

// Assign implements the TaskStore interface
func (m *MockTaskStore) Assign(ctx context.Context, id, assigneeID uuid.UUID) (*domain.Task, error) {
	if m.AssignFn != nil {
		return m.AssignFn(ctx, id, assigneeID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	assignee := assigneeID
	t.AssignedTo = &assignee
	t.UpdatedAt = time.Now().UTC()
	return cloneTask(t), nil
}

// UpdateStatus implements the TaskStore interface
func (m *MockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, id, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	t.Status = status
	t.UpdatedAt = time.Now().UTC()
	return cloneTask(t), nil
}

// ListByAssignee implements the TaskStore interface
func (m *MockTaskStore) ListByAssignee(ctx context.Context, assigneeID uuid.UUID) ([]*domain.Task, error) {
	if m.ListByAssigneeFn != nil {
		return m.ListByAssigneeFn(ctx, assigneeID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Task, 0)
	for _, t := range m.tasks {
		if t.AssignedTo != nil && *t.AssignedTo == assigneeID {
			result = append(result, cloneTask(t))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// List implements the TaskStore interface
func (m *MockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		result = append(result, cloneTask(t))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

// Delete implements the TaskStore interface
func (m *MockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// Stats implements the TaskStore interface
func (m *MockTaskStore) Stats(ctx context.Context, now time.Time) (*domain.TaskStats, error) {
	if m.StatsFn != nil {
		return m.StatsFn(ctx, now)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	var stats domain.TaskStats
	for _, t := range m.tasks {
		stats.Add(t, now)
	}
	return &stats, nil
}

// EmployeeStats implements the TaskStore interface
func (m *MockTaskStore) EmployeeStats(ctx context.Context) ([]*domain.EmployeeTaskStats, error) {
	if m.EmployeeStatsFn != nil {
		return m.EmployeeStatsFn(ctx)
	}

	m.mu.Lock()
	byUser := make(map[uuid.UUID]*domain.EmployeeTaskStats)
	for _, t := range m.tasks {
		if t.AssignedTo == nil {
			continue
		}
		s, ok := byUser[*t.AssignedTo]
		if !ok {
			s = &domain.EmployeeTaskStats{UserID: *t.AssignedTo}
			byUser[*t.AssignedTo] = s
		}
		s.Total++
		switch t.Status {
		case domain.TaskStatusPending:
			s.Pending++
		case domain.TaskStatusInProgress:
			s.InProgress++
		case domain.TaskStatusCompleted:
			s.Completed++
		}
	}
	m.mu.Unlock()

	result := make([]*domain.EmployeeTaskStats, 0, len(byUser))
	for id, s := range byUser {
		if m.Users == nil {
			continue
		}
		u, err := m.Users.GetByID(ctx, id)
		if err != nil {
			continue
		}
		s.Name, s.Email = u.Name, u.Email
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func cloneTask(t *domain.Task) *domain.Task {
	c := *t
	if t.AssignedTo != nil {
		assignee := *t.AssignedTo
		c.AssignedTo = &assignee
	}
	return &c
}
