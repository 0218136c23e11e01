package server

import (
	"encoding/json"
	"net/http"

	"github.com/greenlane/errwatch/internal/classify"
	"github.com/greenlane/errwatch/internal/message"
)

// reportRequest is the ingestion payload the admin frontend sends for a
// failure it captured. StatusCode 0 means the failure was not an HTTP
// response (a thrown error).
type reportRequest struct {
	StatusCode int            `json:"status_code,omitempty"`
	Name       string         `json:"name,omitempty"`
	Message    string         `json:"message,omitempty"`
	Stack      string         `json:"stack,omitempty"`
	Context    map[string]any `json:"context,omitempty"`
}

// retryAdvice tells the frontend when to retry a transient failure. Retries
// re-submit the original request; nothing is retried server-side.
type retryAdvice struct {
	DelayMS    int64 `json:"delay_ms"`
	MaxRetries int   `json:"max_retries"`
}

// reportResponse is a formatted record plus backoff advice for retryable
// categories.
type reportResponse struct {
	message.FormattedError
	RetryAdvice *retryAdvice `json:"retry_advice,omitempty"`
}

func (s *Server) respond(w http.ResponseWriter, formatted message.FormattedError) {
	resp := reportResponse{FormattedError: formatted}
	if s.policy.EligibleFor(formatted.Category) {
		resp.RetryAdvice = &retryAdvice{
			DelayMS:    s.policy.Delay(1).Milliseconds(),
			MaxRetries: s.policy.MaxRetries,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleErrors routes POST (report) and DELETE (clear) on /api/v1/errors.
func (s *Server) handleErrors(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.handleReport(w, r)
	case http.MethodDelete:
		s.handleClear(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleReport runs the full pipeline for a reported API failure and returns
// the formatted record. The pipeline itself never fails; only an unreadable
// request body is rejected.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := classify.RawError{Name: req.Name, Message: req.Message, Stack: req.Stack}
	s.respond(w, s.engine.HandleReported(raw, req.StatusCode, req.Context))
}

// handleGeneric runs the pipeline for a thrown error (no status code).
func (s *Server) handleGeneric(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	raw := classify.RawError{Name: req.Name, Message: req.Message, Stack: req.Stack}
	s.respond(w, s.engine.HandleReported(raw, 0, req.Context))
}

// handleStats returns aggregate counts over the retained records.
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, s.recorder.Statistics())
}

// handleClear empties the analytics buffer.
func (s *Server) handleClear(w http.ResponseWriter, _ *http.Request) {
	s.recorder.Clear()
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
