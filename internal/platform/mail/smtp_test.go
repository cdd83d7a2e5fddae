package mail

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/Shreytangani17/Task-Mangement-System/internal/config"
	"github.com/Shreytangani17/Task-Mangement-System/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gomail "github.com/wneessen/go-mail"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewSMTPTransport(t *testing.T) {
	t.Parallel()

	_, err := NewSMTPTransport(config.MailConfig{From: "tasks@example.com"}, discardLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = NewSMTPTransport(config.MailConfig{Host: "smtp.example.com"}, discardLogger())
	assert.ErrorIs(t, err, ErrNotConfigured)

	tr, err := NewSMTPTransport(config.MailConfig{Host: "smtp.example.com", From: "tasks@example.com"}, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultConnectTimeout, tr.cfg.ConnectTimeout)
	assert.Equal(t, DefaultSocketTimeout, tr.cfg.SocketTimeout)
}

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	tr, err := NewSMTPTransport(config.MailConfig{Host: "smtp.example.com", From: "tasks@example.com"}, discardLogger())
	require.NoError(t, err)

	m, err := tr.buildMessage(notify.Message{
		To:       "ada@example.com",
		Subject:  "New task assigned",
		HTMLBody: "<p>hello</p>",
	})
	require.NoError(t, err)
	to := m.GetToString()
	require.Len(t, to, 1)
	assert.Contains(t, to[0], "ada@example.com")
	assert.Equal(t, []string{"New task assigned"}, m.GetGenHeader(gomail.HeaderSubject))

	_, err = tr.buildMessage(notify.Message{To: "not an address"})
	assert.Error(t, err)
}

func TestSend_UnreachableServer(t *testing.T) {
	t.Parallel()

	// Reserve a port, then close it so nothing is listening.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	tr, err := NewSMTPTransport(config.MailConfig{
		Host:           "127.0.0.1",
		Port:           port,
		From:           "tasks@example.com",
		ConnectTimeout: 200 * time.Millisecond,
		SocketTimeout:  200 * time.Millisecond,
	}, discardLogger())
	require.NoError(t, err)

	start := time.Now()
	err = tr.Send(context.Background(), notify.Message{To: "ada@example.com", Subject: "s", HTMLBody: "b"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestSend_SilentServerRespectsBudget(t *testing.T) {
	t.Parallel()

	// Accepts connections but never sends a greeting.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	go func() {
		var conns []net.Conn
		defer func() {
			for _, c := range conns {
				_ = c.Close()
			}
		}()
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conns = append(conns, conn)
		}
	}()

	tr, err := NewSMTPTransport(config.MailConfig{
		Host:           "127.0.0.1",
		Port:           ln.Addr().(*net.TCPAddr).Port,
		From:           "tasks@example.com",
		ConnectTimeout: 100 * time.Millisecond,
		SocketTimeout:  100 * time.Millisecond,
	}, discardLogger())
	require.NoError(t, err)

	start := time.Now()
	err = tr.Send(context.Background(), notify.Message{To: "ada@example.com", Subject: "s", HTMLBody: "b"})
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
