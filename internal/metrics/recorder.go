package metrics

import (
	"time"

	"github.com/greenlane/errwatch/internal/classify"
)

// Recorder defines observability hooks for the error pipeline. Implementations
// may forward to Prometheus, OpenTelemetry, etc. All methods must be safe for
// nil receivers when using the NoopRecorder (allowing optional injection).
type Recorder interface {
	IncError(category classify.ErrorCategory, severity classify.ErrorSeverity)
	IncEvictions(n int)
	SetTracked(n int)
	ObserveIngestDuration(d time.Duration)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncError(classify.ErrorCategory, classify.ErrorSeverity) {}
func (NoopRecorder) IncEvictions(int)                                        {}
func (NoopRecorder) SetTracked(int)                                          {}
func (NoopRecorder) ObserveIngestDuration(time.Duration)                     {}
