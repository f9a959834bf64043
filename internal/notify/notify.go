// Package notify announces published documentation over NATS so other
// services (preview hosts, chat bots) can react without polling.
package notify

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/logfields"
)

// Published is the message body sent after a successful publish.
type Published struct {
	RunID     string    `json:"run_id"`
	Revision  string    `json:"revision,omitempty"`
	Pages     int       `json:"pages"`
	PagesHash string    `json:"pages_hash,omitempty"`
	Targets   []string  `json:"targets"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier delivers publish announcements.
type Notifier interface {
	Notify(ctx context.Context, msg Published) error
	Close()
}

// NoopNotifier drops every message.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Published) error { return nil }
func (NoopNotifier) Close()                                  {}

// NATSNotifier publishes on a core NATS subject.
type NATSNotifier struct {
	conn    *nats.Conn
	subject string
}

// NewNATSNotifier connects to url. Connection failures are warnings: a run
// never fails because nobody is listening.
func NewNATSNotifier(url, subject string) (*NATSNotifier, error) {
	conn, err := nats.Connect(url, nats.Name("featuredocs"), nats.Timeout(5*time.Second))
	if err != nil {
		return nil, errors.NotifyError("failed to connect to NATS").
			WithCause(err).
			WithContext("url", url).
			Build()
	}
	slog.Debug("NATS notifier connected", slog.String("url", url), slog.String("subject", subject))
	return &NATSNotifier{conn: conn, subject: subject}, nil
}

// Notify publishes msg and waits for the server to acknowledge the flush.
func (n *NATSNotifier) Notify(ctx context.Context, msg Published) error {
	if msg.Timestamp.IsZero() {
		msg.Timestamp = time.Now().UTC()
	}
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	if err := n.conn.Publish(n.subject, data); err != nil {
		return errors.NotifyError("failed to publish notification").WithCause(err).Build()
	}

	flushCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := n.conn.FlushWithContext(flushCtx); err != nil {
		return errors.NotifyError("failed to flush notification").WithCause(err).Build()
	}
	slog.Info("Sent publish notification", slog.String("subject", n.subject), logfields.RunID(msg.RunID))
	return nil
}

// Close drains and closes the connection.
func (n *NATSNotifier) Close() {
	if n == nil || n.conn == nil {
		return
	}
	if err := n.conn.Drain(); err != nil {
		n.conn.Close()
	}
}

// Encode marshals a message body.
func Encode(msg Published) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, errors.NotifyError("failed to marshal notification").WithCause(err).Build()
	}
	return data, nil
}
