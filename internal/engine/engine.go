// Package engine threads a raw failure through the four-stage pipeline:
// classify, map severity, format, record. Entry points never return errors;
// every internal failure mode degrades to a valid formatted record.
package engine

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/greenlane/errwatch/internal/analytics"
	"github.com/greenlane/errwatch/internal/classify"
	"github.com/greenlane/errwatch/internal/logfields"
	"github.com/greenlane/errwatch/internal/message"
	"github.com/greenlane/errwatch/internal/metrics"
)

// maxBodyBytes caps how much of an error response body is read. Error
// payloads are small; anything larger is treated as unparseable.
const maxBodyBytes = 1 << 20

// Engine owns the pipeline dependencies. Construct with New and share; all
// methods are safe for concurrent use.
type Engine struct {
	mu         sync.RWMutex
	classifier *classify.Classifier
	formatter  *message.Formatter
	recorder   *analytics.Recorder
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithClassifier replaces the default classifier (built-in phrase lists).
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithMetrics attaches a metrics recorder for pipeline timing.
func WithMetrics(m metrics.Recorder) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithLogger replaces the default logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// New builds an engine around a formatter and recorder.
func New(formatter *message.Formatter, recorder *analytics.Recorder, opts ...Option) *Engine {
	e := &Engine{
		classifier: classify.New(nil, nil),
		formatter:  formatter,
		recorder:   recorder,
		metrics:    metrics.NoopRecorder{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// apiErrorBody is the structured shape backend error responses use. Either
// key may carry the message.
type apiErrorBody struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// HandleAPIError consumes a failed HTTP response: it reads and parses the
// body (parse failures degrade to the fallback raw error), classifies by
// status code, formats, and tracks. The body read honors ctx and is the only
// suspension point. The response body is consumed and closed.
func (e *Engine) HandleAPIError(ctx context.Context, resp *http.Response, callerCtx map[string]any) message.FormattedError {
	raw := classify.RawError{}
	statusCode := 0

	if resp != nil {
		statusCode = resp.StatusCode
		if !ok(statusCode) && resp.Body != nil {
			raw = readErrorBody(ctx, resp.Body)
		}
	}

	merged := mergeContext(callerCtx, statusCode)
	return e.handle(raw, statusCode, merged)
}

// HandleGenericError consumes a plain Go error: same pipeline without the
// status code or body step.
func (e *Engine) HandleGenericError(err error, callerCtx map[string]any) message.FormattedError {
	raw := classify.RawError{}
	if err != nil {
		raw.Message = err.Error()
	}
	return e.handle(raw, 0, mergeContext(callerCtx, 0))
}

// HandleReported consumes a failure the frontend already captured and
// serialized (the ingestion API path).
func (e *Engine) HandleReported(raw classify.RawError, statusCode int, callerCtx map[string]any) message.FormattedError {
	return e.handle(raw, statusCode, mergeContext(callerCtx, statusCode))
}

// SetClassifier swaps the classifier; used by configuration hot reload when
// phrase lists change.
func (e *Engine) SetClassifier(c *classify.Classifier) {
	if c == nil {
		return
	}
	e.mu.Lock()
	e.classifier = c
	e.mu.Unlock()
}

// SetFormatter swaps the formatter; used by configuration hot reload when
// the locale changes.
func (e *Engine) SetFormatter(f *message.Formatter) {
	if f == nil {
		return
	}
	e.mu.Lock()
	e.formatter = f
	e.mu.Unlock()
}

func (e *Engine) handle(raw classify.RawError, statusCode int, callerCtx map[string]any) message.FormattedError {
	start := time.Now()

	e.mu.RLock()
	classifier, formatter := e.classifier, e.formatter
	e.mu.RUnlock()

	category := classifier.Categorize(raw, statusCode)
	formatted := formatter.Format(category, raw, callerCtx)
	id := e.recorder.Track(formatted)

	e.metrics.ObserveIngestDuration(time.Since(start))
	e.logger.Debug("Error handled",
		logfields.ErrorID(id),
		logfields.Category(formatted.Category),
		logfields.Severity(formatted.Severity))

	return formatted
}

// readErrorBody parses a JSON error payload. Any read or decode failure
// yields an empty RawError, which the formatter records as
// "Invalid response format"; the failure is never propagated. Cancellation
// of the response's own context aborts the read through the body itself.
func readErrorBody(ctx context.Context, body io.ReadCloser) classify.RawError {
	defer body.Close()

	if ctx.Err() != nil {
		return classify.RawError{}
	}
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return classify.RawError{}
	}
	var parsed apiErrorBody
	if err := json.Unmarshal(data, &parsed); err != nil {
		return classify.RawError{}
	}
	msg := parsed.Message
	if msg == "" {
		msg = parsed.Error
	}
	return classify.RawError{Name: parsed.Name, Message: msg}
}

func ok(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}

func mergeContext(callerCtx map[string]any, statusCode int) map[string]any {
	merged := make(map[string]any, len(callerCtx)+1)
	for k, v := range callerCtx {
		merged[k] = v
	}
	if statusCode != 0 {
		merged[message.ContextStatusCode] = statusCode
	}
	return merged
}
