// Package logfields centralizes canonical log field names so attribute keys
// do not drift across packages.
package logfields

import (
	"log/slog"

	"github.com/greenlane/errwatch/internal/classify"
)

const (
	KeyErrorID    = "error_id"
	KeyCategory   = "error_category"
	KeySeverity   = "error_severity"
	KeyComponent  = "error_component"
	KeyEndpoint   = "endpoint"
	KeyRequestID  = "request_id"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeyRemoteAddr = "remote_addr"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func ErrorID(id string) slog.Attr                 { return slog.String(KeyErrorID, id) }
func Category(c classify.ErrorCategory) slog.Attr { return slog.String(KeyCategory, string(c)) }
func Severity(s classify.ErrorSeverity) slog.Attr { return slog.String(KeySeverity, string(s)) }
func Component(name string) slog.Attr             { return slog.String(KeyComponent, name) }
func Endpoint(e string) slog.Attr                 { return slog.String(KeyEndpoint, e) }
func RequestID(id string) slog.Attr               { return slog.String(KeyRequestID, id) }
func Method(m string) slog.Attr                   { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr                     { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr                   { return slog.Int(KeyStatus, code) }
func RemoteAddr(a string) slog.Attr               { return slog.String(KeyRemoteAddr, a) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}

// LevelFor maps an error severity onto a slog level for diagnostic output.
func LevelFor(s classify.ErrorSeverity) slog.Level {
	switch s {
	case classify.SeverityLow:
		return slog.LevelInfo
	case classify.SeverityMedium:
		return slog.LevelWarn
	case classify.SeverityHigh, classify.SeverityCritical:
		return slog.LevelError
	default:
		return slog.LevelError
	}
}
