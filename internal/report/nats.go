package report

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/linkrouter/internal/config"
	"git.home.luguber.info/inful/linkrouter/internal/rewrite"
)

// DocumentEvent is the link-record event published per processed document.
// The downstream page-existence checker subscribes to these instead of
// re-reading the report file.
type DocumentEvent struct {
	BuildID   string               `json:"build_id"`
	Document  string               `json:"document"`
	Route     string               `json:"route"`
	Base      string               `json:"base"`
	Links     []rewrite.LinkRecord `json:"links"`
	Timestamp time.Time            `json:"timestamp"`
}

// Publisher emits per-document link-record events.
type Publisher interface {
	PublishDocumentLinks(ctx context.Context, event *DocumentEvent) error
	Close() error
}

// NATSPublisher publishes document events to a JetStream subject.
type NATSPublisher struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSPublisher connects to NATS and prepares the JetStream context.
func NewNATSPublisher(cfg *config.NATSConfig) (*NATSPublisher, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, fmt.Errorf("link record publishing is disabled")
	}

	conn, err := nats.Connect(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("NATS publisher initialized for link records",
		"url", cfg.URL,
		"subject", cfg.Subject)

	return &NATSPublisher{
		conn:    conn,
		js:      js,
		subject: cfg.Subject,
	}, nil
}

// PublishDocumentLinks publishes one document's link records.
func (p *NATSPublisher) PublishDocumentLinks(ctx context.Context, event *DocumentEvent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	slog.Debug("Published link record event",
		"document", event.Document,
		"links", len(event.Links))

	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	if p.conn != nil {
		p.conn.Close()
	}
	return nil
}
