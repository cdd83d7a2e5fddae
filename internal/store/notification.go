package store

import (
	"context"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/google/uuid"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification. Once it returns nil the record is
	// visible to ListByRecipient.
	Create(ctx context.Context, n *domain.Notification) error

	// ListByRecipient returns at most limit notifications for a user, newest first.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error)

	// MarkRead flags a notification owned by recipientID as read.
	// Returns ErrNotificationNotFound if no such notification exists for that user.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error

	// MarkDeliveryAttempted records that external delivery was attempted.
	MarkDeliveryAttempted(ctx context.Context, id uuid.UUID) error
}
