package metrics

import (
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/greenlane/errwatch/internal/classify"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncError(classify.CategoryNetwork, classify.SeverityHigh)
	pr.IncEvictions(3)
	pr.SetTracked(42)
	pr.ObserveIngestDuration(150 * time.Microsecond)
	// Basic scrape to ensure metrics encode without panic
	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) == 0 {
		t.Fatalf("expected metrics, got none")
	}
}

func TestNilSafety(t *testing.T) {
	var pr *PrometheusRecorder
	pr.IncError(classify.CategoryServer, classify.SeverityCritical)
	pr.IncEvictions(1)
	pr.SetTracked(0)
	pr.ObserveIngestDuration(time.Millisecond)
}
