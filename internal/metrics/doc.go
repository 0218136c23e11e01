// Package metrics provides observability hooks for the error pipeline.
//
// It implements the Null Object pattern: components receive a Recorder
// through dependency injection and default to NoopRecorder, so metrics can
// be enabled by swapping in NewPrometheusRecorder without touching callers
// and without nil checks in the hot path.
package metrics
