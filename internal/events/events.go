package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Event types emitted when account data that the caches depend on changes.
const (
	TypePasswordChanged = "user.password_changed"
	TypeRoleChanged     = "user.role_changed"
)

// Event is a notification that something happened, carrying a JSON payload
// so emitters and handlers share no types beyond this package.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type names what happened, e.g. TypePasswordChanged
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload interface{}) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s payload: %w", eventType, err)
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// UserChanged is the payload of TypePasswordChanged and TypeRoleChanged.
type UserChanged struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
}

// NewUserChangedEvent creates a user change event of the given type.
func NewUserChangedEvent(eventType string, userID uuid.UUID, email string) (*Event, error) {
	return NewEvent(eventType, UserChanged{UserID: userID, Email: email})
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}

// HandlerFunc adapts a function to EventHandler.
type HandlerFunc func(ctx context.Context, event *Event) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *Event) error {
	return f(ctx, event)
}

// UserChangedHandler returns a handler that decodes user change events and
// passes them to fn. Events of other types are ignored.
func UserChangedHandler(fn func(ctx context.Context, change UserChanged)) EventHandler {
	return HandlerFunc(func(ctx context.Context, event *Event) error {
		if event.Type != TypePasswordChanged && event.Type != TypeRoleChanged {
			return nil
		}
		var change UserChanged
		if err := event.UnmarshalPayload(&change); err != nil {
			return fmt.Errorf("failed to decode %s payload: %w", event.Type, err)
		}
		fn(ctx, change)
		return nil
	})
}
