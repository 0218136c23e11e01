// Package report periodically summarizes the analytics buffer to the log
// and, when configured, to the telemetry backend.
package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/greenlane/errwatch/internal/analytics"
)

// StatisticsPublisher forwards an aggregate snapshot to an external backend.
type StatisticsPublisher interface {
	PublishStatistics(analytics.Statistics) error
}

// Reporter wraps a gocron scheduler that emits stats snapshots at a fixed interval.
type Reporter struct {
	scheduler gocron.Scheduler
	recorder  *analytics.Recorder
	publisher StatisticsPublisher
	interval  time.Duration
}

// New creates a reporter. publisher may be nil to only log snapshots.
func New(recorder *analytics.Recorder, publisher StatisticsPublisher, interval time.Duration) (*Reporter, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Reporter{
		scheduler: s,
		recorder:  recorder,
		publisher: publisher,
		interval:  interval,
	}, nil
}

// Start schedules the periodic snapshot job and begins the scheduler.
func (r *Reporter) Start(ctx context.Context) error {
	_, err := r.scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(r.emit),
		gocron.WithName("stats-report"),
	)
	if err != nil {
		return fmt.Errorf("failed to create stats report job: %w", err)
	}

	slog.Info("Starting stats reporter", slog.Duration("interval", r.interval))
	r.scheduler.Start()
	return nil
}

// Stop gracefully shuts down the scheduler.
func (r *Reporter) Stop(ctx context.Context) error {
	slog.Info("Stopping stats reporter")
	return r.scheduler.Shutdown()
}

// emit is called by gocron on every tick.
func (r *Reporter) emit() {
	stats := r.recorder.Statistics()
	slog.Info("Error statistics snapshot",
		slog.Int("total", stats.Total),
		slog.Any("by_category", stats.ByCategory),
		slog.Any("by_severity", stats.BySeverity))

	if r.publisher != nil {
		if err := r.publisher.PublishStatistics(stats); err != nil {
			slog.Warn("Failed to publish statistics snapshot", "error", err)
		}
	}
}
