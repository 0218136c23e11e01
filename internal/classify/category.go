// Package classify maps raw failures (HTTP status codes or error values)
// onto a fixed category taxonomy and derives severity and retry semantics
// from the category.
package classify

// ErrorCategory represents the broad category of a failure for classification
// and routing. The set is closed; every failure coerces into exactly one.
type ErrorCategory string

const (
	CategoryNetwork        ErrorCategory = "NETWORK"
	CategoryAuthentication ErrorCategory = "AUTHENTICATION"
	CategoryAuthorization  ErrorCategory = "AUTHORIZATION"
	CategoryValidation     ErrorCategory = "VALIDATION"
	CategoryServer         ErrorCategory = "SERVER"
	CategoryClient         ErrorCategory = "CLIENT"
	CategoryUnknown        ErrorCategory = "UNKNOWN"
)

// Categories lists every member of the taxonomy. Callers iterate this for
// totality checks and statistics initialization; do not reorder.
var Categories = []ErrorCategory{
	CategoryNetwork,
	CategoryAuthentication,
	CategoryAuthorization,
	CategoryValidation,
	CategoryServer,
	CategoryClient,
	CategoryUnknown,
}

// Valid reports whether c is a member of the closed taxonomy.
func (c ErrorCategory) Valid() bool {
	switch c {
	case CategoryNetwork, CategoryAuthentication, CategoryAuthorization,
		CategoryValidation, CategoryServer, CategoryClient, CategoryUnknown:
		return true
	}
	return false
}

// ErrorSeverity indicates the urgency of an error, used for UI emphasis and
// log level selection. Severities are totally ordered via Rank.
type ErrorSeverity string

const (
	SeverityLow      ErrorSeverity = "LOW"
	SeverityMedium   ErrorSeverity = "MEDIUM"
	SeverityHigh     ErrorSeverity = "HIGH"
	SeverityCritical ErrorSeverity = "CRITICAL"
)

// Rank returns the ordinal position of the severity (LOW=0 .. CRITICAL=3).
// Unrecognized values rank below LOW.
func (s ErrorSeverity) Rank() int {
	switch s {
	case SeverityLow:
		return 0
	case SeverityMedium:
		return 1
	case SeverityHigh:
		return 2
	case SeverityCritical:
		return 3
	default:
		return -1
	}
}

// severityByCategory is the single source of truth for the category→severity
// mapping. SERVER must stay the most severe and UNKNOWN the least; the
// AUTHORIZATION and CLIENT placements follow the observed admin-frontend
// behavior and are pinned by tests.
var severityByCategory = map[ErrorCategory]ErrorSeverity{
	CategoryServer:         SeverityCritical,
	CategoryNetwork:        SeverityHigh,
	CategoryAuthentication: SeverityHigh,
	CategoryAuthorization:  SeverityMedium,
	CategoryValidation:     SeverityMedium,
	CategoryClient:         SeverityMedium,
	CategoryUnknown:        SeverityLow,
}

// SeverityFor returns the severity for a category. Total: unrecognized
// categories fall back to the UNKNOWN severity.
func SeverityFor(category ErrorCategory) ErrorSeverity {
	if s, ok := severityByCategory[category]; ok {
		return s
	}
	return SeverityLow
}

// RetryStrategy indicates how a failure in a category should be handled by
// a caller that offers a retry affordance.
type RetryStrategy string

const (
	RetryNever      RetryStrategy = "never"   // permanent failure, don't retry
	RetryBackoff    RetryStrategy = "backoff" // retry with backoff
	RetryUserAction RetryStrategy = "user"    // requires user intervention first
)

var retryByCategory = map[ErrorCategory]RetryStrategy{
	CategoryNetwork:        RetryBackoff,
	CategoryServer:         RetryBackoff,
	CategoryAuthentication: RetryUserAction,
	CategoryAuthorization:  RetryUserAction,
	CategoryValidation:     RetryNever,
	CategoryClient:         RetryNever,
	CategoryUnknown:        RetryNever,
}

// StrategyFor returns the recommended retry strategy for a category.
func StrategyFor(category ErrorCategory) RetryStrategy {
	if s, ok := retryByCategory[category]; ok {
		return s
	}
	return RetryNever
}

// Retryable reports whether an automatic retry can ever succeed for the
// category without user intervention.
func Retryable(category ErrorCategory) bool {
	return StrategyFor(category) == RetryBackoff
}
