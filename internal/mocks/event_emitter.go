package mocks

import (
	"context"
	"sync"

	"github.com/Shreytangani17/Task-Mangement-System/internal/events"
)

// MockEventEmitter records emitted events.
type MockEventEmitter struct {
	// Err, when set, is returned from EmitEvent after recording.
	Err error

	mu     sync.Mutex
	events []*events.Event
}

var _ events.EventEmitter = (*MockEventEmitter)(nil)

// EmitEvent implements events.EventEmitter.
func (m *MockEventEmitter) EmitEvent(ctx context.Context, event *events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return m.Err
}

// Events returns the recorded events in emission order.
func (m *MockEventEmitter) Events() []*events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*events.Event(nil), m.events...)
}
