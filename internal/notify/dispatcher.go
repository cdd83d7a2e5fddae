package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/domain"
	"github.com/Shreytangani17/Task-Mangement-System/internal/platform/logger"
	"github.com/Shreytangani17/Task-Mangement-System/internal/redact"
	"github.com/Shreytangani17/Task-Mangement-System/internal/task"
	"github.com/google/uuid"
)

// DefaultDeliveryTimeout is the overall budget for one delivery attempt.
const DefaultDeliveryTimeout = 8 * time.Second

// markTimeout bounds the bookkeeping write after a delivery attempt.
const markTimeout = 2 * time.Second

// ErrDeliveryFailed wraps every failure of the asynchronous delivery step.
// It only ever reaches the logs.
var ErrDeliveryFailed = errors.New("notification delivery failed")

// NotificationStore is the persistence the dispatcher needs.
type NotificationStore interface {
	Create(ctx context.Context, n *domain.Notification) error
	MarkDeliveryAttempted(ctx context.Context, id uuid.UUID) error
}

// RecipientLookup resolves a recipient's address at delivery time.
type RecipientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// NotifyRequest describes one notification.
type NotifyRequest struct {
	RecipientID uuid.UUID
	TaskID      *uuid.UUID
	Kind        domain.NotificationKind
	Message     string

	// Subject overrides the per-kind default e-mail subject.
	Subject string
	// Body is optional extra text appended to the e-mail.
	Body string
}

// Config holds the Dispatcher's tunables.
type Config struct {
	DeliveryTimeout time.Duration
}

// Dispatcher records notifications synchronously and delivers them in the
// background.
type Dispatcher struct {
	store     NotificationStore
	users     RecipientLookup
	transport Transport
	queue     task.TaskQueueWriter
	timeout   time.Duration
	logger    *slog.Logger
}

// NewDispatcher creates a Dispatcher submitting delivery work to queue.
func NewDispatcher(
	store NotificationStore,
	users RecipientLookup,
	transport Transport,
	queue task.TaskQueueWriter,
	cfg Config,
	logger *slog.Logger,
) *Dispatcher {
	timeout := cfg.DeliveryTimeout
	if timeout <= 0 {
		timeout = DefaultDeliveryTimeout
	}
	return &Dispatcher{
		store:     store,
		users:     users,
		transport: transport,
		queue:     queue,
		timeout:   timeout,
		logger:    logger.With("component", "notification_dispatcher"),
	}
}

// Notify persists the notification and schedules its delivery. It returns
// once the record is stored; delivery never affects the result. An error
// means nothing was recorded.
func (d *Dispatcher) Notify(ctx context.Context, req NotifyRequest) (*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, d.logger)

	n, err := domain.NewNotification(req.RecipientID, req.TaskID, req.Kind, req.Message)
	if err != nil {
		return nil, fmt.Errorf("invalid notification: %w", err)
	}

	if err := d.store.Create(ctx, n); err != nil {
		return nil, fmt.Errorf("failed to record notification: %w", err)
	}

	job := task.NewFuncTask(task.TaskTypeNotificationDelivery, d.timeout+markTimeout, func(ctx context.Context) error {
		return d.deliver(ctx, n, req.Subject, req.Body)
	})
	if err := d.queue.Enqueue(job); err != nil {
		log.Warn("notification delivery dropped",
			"error", err,
			"notification_id", n.ID,
			"kind", n.Kind)
		return n, nil
	}

	log.Debug("notification recorded, delivery scheduled",
		"notification_id", n.ID,
		"task_id", job.ID(),
		"kind", n.Kind)
	return n, nil
}

// deliver runs on a worker. Whatever happens to the send, the record is
// marked as attempted.
func (d *Dispatcher) deliver(ctx context.Context, n *domain.Notification, subject, details string) error {
	sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	sendErr := d.send(sendCtx, n, subject, details)

	markCtx, markCancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer markCancel()
	if err := d.store.MarkDeliveryAttempted(markCtx, n.ID); err != nil {
		d.logger.Warn("failed to mark delivery attempted",
			"error", redact.Error(err),
			"notification_id", n.ID)
	}

	if sendErr != nil {
		return fmt.Errorf("%w: notification %s: %v", ErrDeliveryFailed, n.ID, sendErr)
	}

	d.logger.Info("notification delivered",
		"notification_id", n.ID,
		"kind", n.Kind)
	return nil
}

func (d *Dispatcher) send(ctx context.Context, n *domain.Notification, subject, details string) error {
	recipient, err := d.users.GetByID(ctx, n.RecipientID)
	if err != nil {
		return fmt.Errorf("recipient lookup: %s", redact.Error(err))
	}

	msg, err := render(recipient, n, subject, details)
	if err != nil {
		return err
	}

	if err := d.transport.Send(ctx, msg); err != nil {
		return fmt.Errorf("transport to %s: %s", redact.Email(msg.To), redact.Error(err))
	}
	return nil
}
