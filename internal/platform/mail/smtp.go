package mail

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/notify"
	gomail "github.com/wneessen/go-mail"
)

// Default SMTP timeouts.
const (
	DefaultConnectTimeout = 3 * time.Second
	DefaultSocketTimeout  = 5 * time.Second
)

// ErrNotConfigured is returned when no SMTP host or sender is set.
var ErrNotConfigured = errors.New("smtp transport not configured")

// SMTPTransport sends messages through an SMTP relay. A client is built per
// message so concurrent workers never share a connection.
type SMTPTransport struct {
	cfg    config.MailConfig
	logger *slog.Logger
}

var _ notify.Transport = (*SMTPTransport)(nil)

// NewSMTPTransport validates cfg and creates a transport.
func NewSMTPTransport(cfg config.MailConfig, logger *slog.Logger) (*SMTPTransport, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, ErrNotConfigured
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = DefaultSocketTimeout
	}
	return &SMTPTransport{
		cfg:    cfg,
		logger: logger.With("component", "smtp_transport"),
	}, nil
}

// Send implements notify.Transport. The attempt is bounded by the connect and
// socket timeouts as well as by ctx.
func (t *SMTPTransport) Send(ctx context.Context, msg notify.Message) error {
	m, err := t.buildMessage(msg)
	if err != nil {
		return err
	}

	client, err := gomail.NewClient(t.cfg.Host, t.clientOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create smtp client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.cfg.ConnectTimeout+t.cfg.SocketTimeout)
	defer cancel()

	// The client honors ctx while dialing only; a peer that stalls later is
	// abandoned here and left to its socket deadline.
	done := make(chan error, 1)
	go func() {
		done <- client.DialAndSendWithContext(ctx, m)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to send mail: %w", err)
		}
		return nil
	case <-ctx.Done():
		t.logger.Warn("smtp send abandoned", "error", ctx.Err(), "host", t.cfg.Host)
		return fmt.Errorf("failed to send mail: %w", ctx.Err())
	}
}

func (t *SMTPTransport) clientOptions() []gomail.Option {
	opts := []gomail.Option{
		gomail.WithTimeout(t.cfg.ConnectTimeout),
	}
	if t.cfg.UseSSL {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if t.cfg.Port > 0 {
		opts = append(opts, gomail.WithPort(t.cfg.Port))
	}
	if t.cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(t.cfg.Username),
			gomail.WithPassword(t.cfg.Password),
		)
	}
	return opts
}

func (t *SMTPTransport) buildMessage(msg notify.Message) (*gomail.Msg, error) {
	m := gomail.NewMsg()
	if err := m.From(t.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTMLBody)
	return m, nil
}
