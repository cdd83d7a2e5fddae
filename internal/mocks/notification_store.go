package mocks

import (
	"context"
	"sort"
	"sync"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

// MockNotificationStore implements store.NotificationStore for testing
type MockNotificationStore struct {
	CreateFn                func(ctx context.Context, n *domain.Notification) error
	ListByRecipientFn       func(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error)
	MarkReadFn              func(ctx context.Context, id, recipientID uuid.UUID) error
	MarkDeliveryAttemptedFn func(ctx context.Context, id uuid.UUID) error

	mu            sync.Mutex
	notifications []*domain.Notification
}

var _ store.NotificationStore = (*MockNotificationStore)(nil)

// NewMockNotificationStore creates an empty mock store.
func NewMockNotificationStore(notifications ...*domain.Notification) *MockNotificationStore {
	return &MockNotificationStore{notifications: notifications}
}

// Create implements the NotificationStore interface
func (m *MockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	c := *n
	m.notifications = append(m.notifications, &c)
	return nil
}

// ListByRecipient implements the NotificationStore interface
func (m *MockNotificationStore) ListByRecipient(
	ctx context.Context,
	recipientID uuid.UUID,
	limit int,
) ([]*domain.Notification, error) {
	if m.ListByRecipientFn != nil {
		return m.ListByRecipientFn(ctx, recipientID, limit)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*domain.Notification, 0)
	for _, n := range m.notifications {
		if n.RecipientID == recipientID {
			c := *n
			result = append(result, &c)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

// MarkRead implements the NotificationStore interface
func (m *MockNotificationStore) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id, recipientID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			n.Read = true
			return nil
		}
	}
	return store.ErrNotificationNotFound
}

// MarkDeliveryAttempted implements the NotificationStore interface
func (m *MockNotificationStore) MarkDeliveryAttempted(ctx context.Context, id uuid.UUID) error {
	if m.MarkDeliveryAttemptedFn != nil {
		return m.MarkDeliveryAttemptedFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, n := range m.notifications {
		if n.ID == id {
			n.DeliveryAttempted = true
			return nil
		}
	}
	return store.ErrNotificationNotFound
}

// All returns copies of every stored notification in insertion order.
func (m *MockNotificationStore) All() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]domain.Notification, len(m.notifications))
	for i, n := range m.notifications {
		result[i] = *n
	}
	return result
}
