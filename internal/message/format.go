package message

import (
	"fmt"
	"time"

	"golang.org/x/text/language"

	"github.com/greenlane/errwatch/internal/classify"
)

// InvalidResponseFallback is recorded as the original error when a response
// body could not be parsed as structured data.
const InvalidResponseFallback = "Invalid response format"

// Recognized context keys. Any other key passes through opaquely.
const (
	ContextComponent  = "component"
	ContextAction     = "action"
	ContextEndpoint   = "endpoint"
	ContextStatusCode = "statusCode"
)

// FormattedError is the immutable user-facing bundle returned to callers.
// Category and severity are always derived together here, so the
// category↔severity mapping cannot be violated by construction.
type FormattedError struct {
	Title         string                 `json:"title"`
	Message       string                 `json:"message"`
	Suggestions   []string               `json:"suggestions"`
	Category      classify.ErrorCategory `json:"category"`
	Severity      classify.ErrorSeverity `json:"severity"`
	Retryable     bool                   `json:"retryable"`
	Context       map[string]any         `json:"context"`
	Timestamp     string                 `json:"timestamp"`
	OriginalError string                 `json:"originalError"`
}

// Formatter produces FormattedError records for one resolved locale.
type Formatter struct {
	catalog Catalog
	tag     language.Tag
	now     func() time.Time
}

// NewFormatter resolves the locale and returns a formatter for it.
func NewFormatter(locale string) *Formatter {
	catalog, tag := ResolveCatalog(locale)
	return &Formatter{catalog: catalog, tag: tag, now: time.Now}
}

// Locale returns the resolved locale tag.
func (f *Formatter) Locale() language.Tag { return f.tag }

// Format builds the user-facing record for a classified failure. Total: an
// unrecognized category fails closed to the UNKNOWN template (and is
// reported as UNKNOWN so the severity mapping holds), a missing template
// never panics, and the caller's context map is never mutated.
func (f *Formatter) Format(category classify.ErrorCategory, raw classify.RawError, context map[string]any) FormattedError {
	if !category.Valid() {
		category = classify.CategoryUnknown
	}
	tpl, ok := f.catalog[category]
	if !ok {
		tpl = f.catalog[classify.CategoryUnknown]
	}

	msg := tpl.Message
	suggestions := append([]string{}, tpl.Suggestions...)

	if component, ok := contextString(context, ContextComponent); ok {
		msg = fmt.Sprintf("%s (%s)", msg, component)
	}
	if action, ok := contextString(context, ContextAction); ok && len(suggestions) > 0 {
		suggestions[0] = fmt.Sprintf("%s (bij actie: %s)", suggestions[0], action)
	}

	retryable := classify.Retryable(category)
	if retryable {
		msg = fmt.Sprintf("%s [Opnieuw proberen is mogelijk]", msg)
	}

	original := raw.Message
	if original == "" {
		original = InvalidResponseFallback
	}

	ctxCopy := make(map[string]any, len(context))
	for k, v := range context {
		ctxCopy[k] = v
	}

	return FormattedError{
		Title:         tpl.Title,
		Message:       msg,
		Suggestions:   suggestions,
		Category:      category,
		Severity:      classify.SeverityFor(category),
		Retryable:     retryable,
		Context:       ctxCopy,
		Timestamp:     f.now().UTC().Format(time.RFC3339),
		OriginalError: original,
	}
}

func contextString(context map[string]any, key string) (string, bool) {
	if context == nil {
		return "", false
	}
	if v, ok := context[key]; ok {
		if s, ok := v.(string); ok && s != "" {
			return s, true
		}
	}
	return "", false
}
