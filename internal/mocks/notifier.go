package mocks

import (
	"context"
	"sync"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/notify"
)

// MockNotifier records notification requests instead of dispatching them.
type MockNotifier struct {
	// Err, when set, is returned from every Notify call.
	Err error

	mu       sync.Mutex
	requests []notify.NotifyRequest
}

// Notify records req and returns a notification built from it.
func (m *MockNotifier) Notify(ctx context.Context, req notify.NotifyRequest) (*domain.Notification, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return domain.NewNotification(req.RecipientID, req.TaskID, req.Kind, req.Message)
}

// Requests returns every request received so far.
func (m *MockNotifier) Requests() []notify.NotifyRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.NotifyRequest(nil), m.requests...)
}
