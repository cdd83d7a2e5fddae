package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	CreateFn             func(ctx context.Context, user *domain.User) error
	GetByIDFn            func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFn         func(ctx context.Context, email string) (*domain.User, error)
	UpdatePasswordHashFn func(ctx context.Context, email, hashedPassword string) error
	UpdateRoleFn         func(ctx context.Context, id uuid.UUID, role domain.Role) error
	ListByRoleFn         func(ctx context.Context, role domain.Role) ([]*domain.User, error)
	ListFn               func(ctx context.Context) ([]*domain.User, error)

	UpdatePasswordHashIfFn func(ctx context.Context, email, previousHash, hashedPassword string) error

	mu    sync.Mutex
	users map[string]*domain.User
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a mock store seeded with users.
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{users: make(map[string]*domain.User)}
	for _, u := range users {
		m.users[u.Email] = u
	}
	return m
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.Email]; exists {
		return store.ErrEmailExists
	}
	m.users[user.Email] = cloneUser(user)
	return nil
}

// GetByID implements the UserStore interface
func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, store.ErrUserNotFound
}

// GetByEmail implements the UserStore interface
func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return cloneUser(u), nil
}

// UpdatePasswordHash implements the UserStore interface
func (m *MockUserStore) UpdatePasswordHash(ctx context.Context, email, hashedPassword string) error {
	if m.UpdatePasswordHashFn != nil {
		return m.UpdatePasswordHashFn(ctx, email, hashedPassword)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

// UpdatePasswordHashIf implements the UserStore interface
func (m *MockUserStore) UpdatePasswordHashIf(ctx context.Context, email, previousHash, hashedPassword string) error {
	if m.UpdatePasswordHashIfFn != nil {
		return m.UpdatePasswordHashIfFn(ctx, email, previousHash, hashedPassword)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return store.ErrUserNotFound
	}
	if u.HashedPassword != previousHash {
		return store.ErrPasswordHashChanged
	}
	u.HashedPassword = hashedPassword
	return nil
}

// UpdateRole implements the UserStore interface
func (m *MockUserStore) UpdateRole(ctx context.Context, id uuid.UUID, role domain.Role) error {
	if m.UpdateRoleFn != nil {
		return m.UpdateRoleFn(ctx, id, role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			u.Role = role
			return nil
		}
	}
	return store.ErrUserNotFound
}

// ListByRole implements the UserStore interface
func (m *MockUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.ListByRoleFn != nil {
		return m.ListByRoleFn(ctx, role)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.User, 0)
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, cloneUser(u))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// List implements the UserStore interface
func (m *MockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.User, 0, len(m.users))
	for _, u := range m.users {
		result = append(result, cloneUser(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

// User returns the stored copy of a user, for assertions.
func (m *MockUserStore) User(email string) (*domain.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, false
	}
	return cloneUser(u), true
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	return &c
}
