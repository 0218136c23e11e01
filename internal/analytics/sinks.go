package analytics

import (
	"log/slog"

	"github.com/greenlane/errwatch/internal/logfields"
)

// SlogSink writes tracked records to a structured logger. This is the
// development sink; production deployments wire a telemetry sink instead.
type SlogSink struct {
	logger *slog.Logger
}

// NewSlogSink creates a sink over the given logger (nil uses the default).
func NewSlogSink(logger *slog.Logger) *SlogSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogSink{logger: logger}
}

// Record logs the tracked error at the level matching its severity.
func (s *SlogSink) Record(rec Record) error {
	attrs := []slog.Attr{
		logfields.ErrorID(rec.ID),
		logfields.Category(rec.Category),
		logfields.Severity(rec.Severity),
	}
	if component, ok := rec.Context["component"].(string); ok && component != "" {
		attrs = append(attrs, logfields.Component(component))
	}
	if endpoint, ok := rec.Context["endpoint"].(string); ok && endpoint != "" {
		attrs = append(attrs, logfields.Endpoint(endpoint))
	}
	attrs = append(attrs, slog.String("original_error", rec.OriginalError))

	s.logger.LogAttrs(nil, logfields.LevelFor(rec.Severity), rec.Title, attrs...)
	return nil
}

// NoopSink discards records. Useful as a default when no sink is configured.
type NoopSink struct{}

func (NoopSink) Record(Record) error { return nil }
