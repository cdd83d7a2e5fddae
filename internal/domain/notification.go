package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Notification validation errors
var (
	ErrEmptyRecipient          = fmt.Errorf("%w: notification recipient cannot be empty", ErrValidation)
	ErrInvalidNotificationKind = fmt.Errorf("%w: invalid notification kind", ErrValidation)
	ErrEmptyMessage            = fmt.Errorf("%w: notification message cannot be empty", ErrValidation)
)

// NotificationKind classifies why a user is being notified.
type NotificationKind string

const (
	NotificationAssignment   NotificationKind = "assignment"
	NotificationDeadline     NotificationKind = "deadline"
	NotificationOverdue      NotificationKind = "overdue"
	NotificationStatusChange NotificationKind = "status_change"
)

// Valid reports whether k is a known kind.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationAssignment, NotificationDeadline, NotificationOverdue, NotificationStatusChange:
		return true
	}
	return false
}

// Notification is an in-app notice about a task. The record exists as soon as
// it is created; DeliveryAttempted only records whether the external
// delivery step ran.
type Notification struct {
	ID                uuid.UUID        `json:"id"`
	RecipientID       uuid.UUID        `json:"recipient_id"`
	TaskID            *uuid.UUID       `json:"task_id,omitempty"`
	Kind              NotificationKind `json:"kind"`
	Message           string           `json:"message"`
	Read              bool             `json:"read"`
	DeliveryAttempted bool             `json:"delivery_attempted"`
	CreatedAt         time.Time        `json:"created_at"`
}

// NewNotification creates an unread notification.
func NewNotification(
	recipientID uuid.UUID,
	taskID *uuid.UUID,
	kind NotificationKind,
	message string,
) (*Notification, error) {
	n := &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		TaskID:      taskID,
		Kind:        kind,
		Message:     strings.TrimSpace(message),
		CreatedAt:   time.Now().UTC(),
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrInvalidID
	}
	if n.RecipientID == uuid.Nil {
		return ErrEmptyRecipient
	}
	if !n.Kind.Valid() {
		return ErrInvalidNotificationKind
	}
	if n.Message == "" {
		return ErrEmptyMessage
	}
	return nil
}
