package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/store"
	"github.com/google/uuid"
)

const notificationColumns = `id, recipient_id, task_id, kind, message, read, delivery_attempted, created_at`

// PostgresNotificationStore implements store.NotificationStore using PostgreSQL.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With("component", "notification_store"),
	}
}

var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
func (s *PostgresNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	if err := n.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (`+notificationColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		n.ID, n.RecipientID, nullableID(n.TaskID), string(n.Kind), n.Message, n.Read, n.DeliveryAttempted, n.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to insert notification",
			"error", err,
			"notification_id", n.ID)
		return store.NewStoreError("notification", "create", "insert failed", MapError(err))
	}
	return nil
}

// ListByRecipient implements store.NotificationStore.ListByRecipient
func (s *PostgresNotificationStore) ListByRecipient(
	ctx context.Context,
	recipientID uuid.UUID,
	limit int,
) ([]*domain.Notification, error) {
	if limit <= 0 {
		return []*domain.Notification{}, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+notificationColumns+` FROM notifications
		 WHERE recipient_id = $1
		 ORDER BY created_at DESC, id
		 LIMIT $2`,
		recipientID, limit)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		var (
			n    domain.Notification
			task uuid.NullUUID
			kind string
		)
		if err := rows.Scan(&n.ID, &n.RecipientID, &task, &kind, &n.Message, &n.Read, &n.DeliveryAttempted, &n.CreatedAt); err != nil {
			return nil, MapError(err)
		}
		n.Kind = domain.NotificationKind(kind)
		if task.Valid {
			id := task.UUID
			n.TaskID = &id
		}
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return notifications, nil
}

// MarkRead implements store.NotificationStore.MarkRead
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET read = TRUE WHERE id = $1 AND recipient_id = $2`,
		id, recipientID)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrNotificationNotFound)
}

// MarkDeliveryAttempted implements store.NotificationStore.MarkDeliveryAttempted
func (s *PostgresNotificationStore) MarkDeliveryAttempted(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET delivery_attempted = TRUE WHERE id = $1`,
		id)
	if err != nil {
		return MapError(err)
	}
	return CheckRowsAffected(result, store.ErrNotificationNotFound)
}
