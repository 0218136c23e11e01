package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/greenlane/errwatch/internal/classify"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	errors         *prom.CounterVec
	evictions      prom.Counter
	tracked        prom.Gauge
	ingestDuration prom.Histogram
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.errors = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "errwatch",
			Name:      "errors_total",
			Help:      "Tracked errors by category and severity",
		}, []string{"category", "severity"})
		pr.evictions = prom.NewCounter(prom.CounterOpts{
			Namespace: "errwatch",
			Name:      "evictions_total",
			Help:      "Records evicted from the analytics buffer",
		})
		pr.tracked = prom.NewGauge(prom.GaugeOpts{
			Namespace: "errwatch",
			Name:      "tracked_records",
			Help:      "Records currently retained in the analytics buffer",
		})
		pr.ingestDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "errwatch",
			Name:      "ingest_duration_seconds",
			Help:      "Duration of the classify/format/track pipeline",
			Buckets:   prom.DefBuckets,
		})
		reg.MustRegister(pr.errors, pr.evictions, pr.tracked, pr.ingestDuration)
	})
	return pr
}

func (p *PrometheusRecorder) IncError(category classify.ErrorCategory, severity classify.ErrorSeverity) {
	if p == nil || p.errors == nil {
		return
	}
	p.errors.WithLabelValues(string(category), string(severity)).Inc()
}

func (p *PrometheusRecorder) IncEvictions(n int) {
	if p == nil || p.evictions == nil || n <= 0 {
		return
	}
	p.evictions.Add(float64(n))
}

func (p *PrometheusRecorder) SetTracked(n int) {
	if p == nil || p.tracked == nil {
		return
	}
	p.tracked.Set(float64(n))
}

func (p *PrometheusRecorder) ObserveIngestDuration(d time.Duration) {
	if p == nil || p.ingestDuration == nil {
		return
	}
	p.ingestDuration.Observe(d.Seconds())
}
