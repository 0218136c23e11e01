// Package analytics keeps a bounded, session-scoped log of formatted errors
// and exposes aggregate counts over the retained records. The buffer is
// deliberately not durable: it exists for in-session diagnostics only.
package analytics

import (
	"math/rand"
	"strconv"
	"sync"
	"time"

	"github.com/greenlane/errwatch/internal/classify"
	"github.com/greenlane/errwatch/internal/message"
	"github.com/greenlane/errwatch/internal/metrics"
)

// DefaultCapacity bounds the buffer when no capacity is configured.
const DefaultCapacity = 100

// Record is a formatted error plus its generated id. Uniqueness of the id is
// best-effort (timestamp plus random suffix), not guaranteed.
type Record struct {
	ID string `json:"id"`
	message.FormattedError
}

// Statistics aggregates the records currently retained (post-eviction),
// not all-time totals.
type Statistics struct {
	Total      int                            `json:"total"`
	ByCategory map[classify.ErrorCategory]int `json:"byCategory"`
	BySeverity map[classify.ErrorSeverity]int `json:"bySeverity"`
}

// Sink receives every tracked record. Implementations must not block for
// long; failures are absorbed by the recorder and never propagate.
type Sink interface {
	Record(Record) error
}

// Recorder is an injectable bounded FIFO buffer of error records. All
// operations are safe for concurrent use.
type Recorder struct {
	mu       sync.Mutex
	buffer   []Record
	capacity int
	sinks    []Sink
	metrics  metrics.Recorder
	now      func() time.Time
}

// Option configures a Recorder.
type Option func(*Recorder)

// WithSinks attaches sinks that receive every tracked record.
func WithSinks(sinks ...Sink) Option {
	return func(r *Recorder) { r.sinks = append(r.sinks, sinks...) }
}

// WithMetrics attaches a metrics recorder for per-track counters.
func WithMetrics(m metrics.Recorder) Option {
	return func(r *Recorder) { r.metrics = m }
}

// New creates a Recorder bounded at capacity; non-positive capacities fall
// back to DefaultCapacity.
func New(capacity int, opts ...Option) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	r := &Recorder{
		capacity: capacity,
		metrics:  metrics.NoopRecorder{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.NoopRecorder{}
	}
	return r
}

// Track appends a record for the formatted error, evicting the oldest record
// first when the buffer is at capacity, and returns the generated id. Sink
// failures are absorbed.
func (r *Recorder) Track(fe message.FormattedError) string {
	rec := Record{ID: r.newID(), FormattedError: fe}

	r.mu.Lock()
	if len(r.buffer) >= r.capacity {
		drop := len(r.buffer) - r.capacity + 1
		r.buffer = append(r.buffer[:0], r.buffer[drop:]...)
		r.metrics.IncEvictions(drop)
	}
	r.buffer = append(r.buffer, rec)
	size := len(r.buffer)
	sinks := r.sinks
	r.mu.Unlock()

	r.metrics.IncError(fe.Category, fe.Severity)
	r.metrics.SetTracked(size)

	for _, s := range sinks {
		_ = s.Record(rec) // diagnostics must never fail the pipeline
	}
	return rec.ID
}

// Statistics returns aggregate counts over the retained records. Records
// with a missing category or severity are counted in Total but contribute
// to neither breakdown.
func (r *Recorder) Statistics() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()

	stats := Statistics{
		Total:      len(r.buffer),
		ByCategory: make(map[classify.ErrorCategory]int),
		BySeverity: make(map[classify.ErrorSeverity]int),
	}
	for _, rec := range r.buffer {
		if rec.Category != "" {
			stats.ByCategory[rec.Category]++
		}
		if rec.Severity != "" {
			stats.BySeverity[rec.Severity]++
		}
	}
	return stats
}

// Records returns a copy of the retained records, oldest first.
func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.buffer))
	copy(out, r.buffer)
	return out
}

// Len reports the number of retained records.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffer)
}

// Clear empties the buffer. Idempotent.
func (r *Recorder) Clear() {
	r.mu.Lock()
	r.buffer = r.buffer[:0]
	r.mu.Unlock()
	r.metrics.SetTracked(0)
}

// newID builds ids of the form error_<epoch-millis>_<random-base36>.
func (r *Recorder) newID() string {
	suffix := strconv.FormatUint(rand.Uint64()%(36*36*36*36*36*36*36), 36)
	return "error_" + strconv.FormatInt(r.now().UnixMilli(), 10) + "_" + suffix
}
