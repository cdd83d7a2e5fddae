package notify

import (
	"context"
	"log/slog"

	"github.com/Shreytangani17/Task-Mangement-System/internal/redact"
)

// Message is a rendered e-mail ready for a Transport.
type Message struct {
	To       string
	Subject  string
	HTMLBody string
}

// Transport delivers a message to an external system. Implementations must
// honor ctx cancellation so a hung peer can't hold a worker past its budget.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

// TransportFunc adapts a function to Transport.
type TransportFunc func(ctx context.Context, msg Message) error

// Send implements Transport.
func (f TransportFunc) Send(ctx context.Context, msg Message) error {
	return f(ctx, msg)
}

// LogTransport writes messages to the log instead of sending them. It is used
// when no mail server is configured.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport creates a LogTransport.
func NewLogTransport(logger *slog.Logger) *LogTransport {
	return &LogTransport{logger: logger.With("component", "log_transport")}
}

// Send implements Transport.
func (t *LogTransport) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t.logger.Info("mail delivery disabled, message logged",
		"to", redact.Email(msg.To),
		"subject", msg.Subject)
	return nil
}
