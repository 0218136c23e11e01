// Package telemetry forwards error summaries to an external analytics
// backend over NATS. It is the production counterpart of the development
// console sink; absence or failure of the backend never surfaces to callers.
package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/greenlane/errwatch/internal/analytics"
)

const publishTimeout = 5 * time.Second

// Summary is the wire payload: only the aggregate-relevant fields of a
// record, never message text or context values.
type Summary struct {
	ErrorCategory  string    `json:"error_category"`
	ErrorSeverity  string    `json:"error_severity"`
	ErrorComponent string    `json:"error_component,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// NATSSink publishes error summaries to a JetStream subject.
type NATSSink struct {
	conn    *nats.Conn
	js      jetstream.JetStream
	subject string
}

// NewNATSSink connects to NATS and prepares a JetStream publisher.
func NewNATSSink(url, subject string) (*NATSSink, error) {
	if subject == "" {
		return nil, fmt.Errorf("telemetry subject is required")
	}

	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	slog.Info("Telemetry sink initialized", "url", url, "subject", subject)

	return &NATSSink{conn: conn, js: js, subject: subject}, nil
}

// Record publishes the record's summary. Errors are returned for logging by
// the caller but the analytics recorder absorbs them.
func (s *NATSSink) Record(rec analytics.Record) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	summary := Summary{
		ErrorCategory: string(rec.Category),
		ErrorSeverity: string(rec.Severity),
		Timestamp:     time.Now(),
	}
	if component, ok := rec.Context["component"].(string); ok {
		summary.ErrorComponent = component
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if _, err := s.js.Publish(ctx, s.subject, data); err != nil {
		slog.Debug("Telemetry publish failed", "subject", s.subject, "error", err)
		return fmt.Errorf("failed to publish summary: %w", err)
	}
	return nil
}

// PublishStatistics forwards an aggregate snapshot, used by the periodic reporter.
func (s *NATSSink) PublishStatistics(stats analytics.Statistics) error {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to marshal statistics: %w", err)
	}
	if _, err := s.js.Publish(ctx, s.subject+".stats", data); err != nil {
		return fmt.Errorf("failed to publish statistics: %w", err)
	}
	return nil
}

// Close closes the NATS connection.
func (s *NATSSink) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
