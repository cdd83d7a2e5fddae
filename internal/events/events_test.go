package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	type testPayload struct {
		ID     uuid.UUID `json:"id"`
		Action string    `json:"action"`
	}

	payload := testPayload{
		ID:     uuid.New(),
		Action: "test_action",
	}

	event, err := NewEvent("test_event", payload)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, "test_event", event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded testPayload
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	assert.Equal(t, payload, decoded)

	_, err = NewEvent("bad", make(chan int))
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	LastEvent    *Event
	HandlerError error
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (h *MockEventHandler) HandleEvent(ctx context.Context, event *Event) error {
	h.LastEvent = event
	h.HandledCount++
	return h.HandlerError
}

func TestUserChangedHandler(t *testing.T) {
	userID := uuid.New()
	var got []UserChanged
	handler := UserChangedHandler(func(ctx context.Context, change UserChanged) {
		got = append(got, change)
	})

	for _, eventType := range []string{TypePasswordChanged, TypeRoleChanged} {
		event, err := NewUserChangedEvent(eventType, userID, "ada@example.com")
		require.NoError(t, err)
		require.NoError(t, handler.HandleEvent(context.Background(), event))
	}

	other, err := NewEvent("task.created", map[string]string{"id": "1"})
	require.NoError(t, err)
	require.NoError(t, handler.HandleEvent(context.Background(), other))

	require.Len(t, got, 2)
	assert.Equal(t, UserChanged{UserID: userID, Email: "ada@example.com"}, got[0])

	broken := &Event{ID: uuid.New(), Type: TypeRoleChanged, Payload: json.RawMessage(`{`)}
	assert.Error(t, handler.HandleEvent(context.Background(), broken))
	assert.Len(t, got, 2)
}

func TestHandlerFunc(t *testing.T) {
	expectedErr := errors.New("handler error")
	calls := 0
	h := HandlerFunc(func(ctx context.Context, event *Event) error {
		calls++
		return expectedErr
	})

	event, err := NewEvent("test_type", nil)
	require.NoError(t, err)
	assert.Equal(t, expectedErr, h.HandleEvent(context.Background(), event))
	assert.Equal(t, 1, calls)
}
