package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	prom "github.com/prometheus/client_golang/prometheus"

	"github.com/greenlane/errwatch/internal/analytics"
	"github.com/greenlane/errwatch/internal/classify"
	"github.com/greenlane/errwatch/internal/config"
	"github.com/greenlane/errwatch/internal/engine"
	"github.com/greenlane/errwatch/internal/message"
	"github.com/greenlane/errwatch/internal/metrics"
	"github.com/greenlane/errwatch/internal/report"
	"github.com/greenlane/errwatch/internal/retry"
	"github.com/greenlane/errwatch/internal/server"
	"github.com/greenlane/errwatch/internal/telemetry"
)

var CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"config.yaml"`
	Verbose bool   `short:"v" help:"Enable verbose logging"`

	Serve struct {
	} `cmd:"" help:"Run the error ingestion service"`

	Classify struct {
		Status  int    `short:"s" help:"HTTP status code of the failure (0 if none)"`
		Message string `arg:"" optional:"" help:"Error message to classify"`
		Name    string `short:"n" help:"Error name (e.g. NetworkError)"`
	} `cmd:"" help:"Classify a single failure and print the formatted record"`

	Init struct {
		Force bool `help:"Overwrite existing configuration file"`
	} `cmd:"" help:"Initialize a new configuration file"`
}

func main() {
	ctx := kong.Parse(&CLI)

	// Set up logging
	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	switch ctx.Command() {
	case "serve":
		cfg, err := config.Load(CLI.Config)
		if err != nil {
			slog.Error("Failed to load configuration", "error", err)
			os.Exit(1)
		}
		if err := runServe(cfg); err != nil {
			slog.Error("Serve failed", "error", err)
			os.Exit(1)
		}
	case "classify <message>", "classify":
		if err := runClassify(CLI.Classify.Name, CLI.Classify.Message, CLI.Classify.Status); err != nil {
			slog.Error("Classify failed", "error", err)
			os.Exit(1)
		}
	case "init":
		if err := config.Init(CLI.Config, CLI.Init.Force); err != nil {
			slog.Error("Init failed", "error", err)
			os.Exit(1)
		}
		slog.Info("Configuration initialized", "path", CLI.Config)
	}
}

func runServe(cfg *config.Config) error {
	setupLogging(cfg)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	registry := prom.NewRegistry()
	recorderMetrics := metrics.NewPrometheusRecorder(registry)

	// Sinks: console in development (telemetry disabled), NATS in production.
	var sinks []analytics.Sink
	var natsSink *telemetry.NATSSink
	if cfg.Telemetry.Enabled {
		sink, err := telemetry.NewNATSSink(cfg.Telemetry.NATSURL, cfg.Telemetry.Subject)
		if err != nil {
			return fmt.Errorf("failed to initialize telemetry sink: %w", err)
		}
		natsSink = sink
		defer natsSink.Close()
		sinks = append(sinks, natsSink)
	} else {
		sinks = append(sinks, analytics.NewSlogSink(nil))
	}

	recorder := analytics.New(cfg.Analytics.Capacity,
		analytics.WithSinks(sinks...),
		analytics.WithMetrics(recorderMetrics))

	eng := engine.New(
		message.NewFormatter(cfg.Locale),
		recorder,
		engine.WithClassifier(classify.New(cfg.Classifier.NetworkPhrases, cfg.Classifier.ValidationPhrases)),
		engine.WithMetrics(recorderMetrics),
	)

	// Hot-reload classifier phrases and locale on config changes.
	watcher, err := config.NewWatcher(CLI.Config, func(newCfg *config.Config) error {
		eng.SetClassifier(classify.New(newCfg.Classifier.NetworkPhrases, newCfg.Classifier.ValidationPhrases))
		eng.SetFormatter(message.NewFormatter(newCfg.Locale))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := watcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start config watcher: %w", err)
	}
	defer func() {
		if err := watcher.Stop(); err != nil {
			slog.Warn("Failed to stop config watcher", "error", err)
		}
	}()

	if cfg.Report.Enabled {
		var publisher report.StatisticsPublisher
		if natsSink != nil {
			publisher = natsSink
		}
		reporter, err := report.New(recorder, publisher, cfg.Report.Interval)
		if err != nil {
			return fmt.Errorf("failed to create stats reporter: %w", err)
		}
		if err := reporter.Start(ctx); err != nil {
			return fmt.Errorf("failed to start stats reporter: %w", err)
		}
		defer func() {
			if err := reporter.Stop(ctx); err != nil {
				slog.Warn("Failed to stop stats reporter", "error", err)
			}
		}()
	}

	policy := retry.NewPolicy(retry.BackoffMode(cfg.Retry.Mode), cfg.Retry.Initial, cfg.Retry.Max, cfg.Retry.MaxRetries)
	srv := server.New(cfg.Server, eng, recorder, policy, registry, slog.Default())
	if err := srv.Start(ctx); err != nil {
		return err
	}

	slog.Info("Service started, waiting for shutdown signal...")
	<-ctx.Done()
	slog.Info("Shutdown signal received, stopping...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer stopCancel()

	if err := srv.Stop(stopCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	slog.Info("Service stopped successfully")
	return nil
}

func runClassify(name, msg string, status int) error {
	recorder := analytics.New(analytics.DefaultCapacity)
	eng := engine.New(message.NewFormatter("nl"), recorder)

	formatted := eng.HandleReported(classify.RawError{Name: name, Message: msg}, status, nil)

	out, err := json.MarshalIndent(formatted, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Println(string(out))
	return nil
}

// setupLogging reconfigures the default logger from the loaded config,
// keeping -v as a debug override.
func setupLogging(cfg *config.Config) {
	level := slog.LevelInfo
	switch config.LogLevel(cfg.Logging.Level) {
	case config.LogLevelDebug:
		level = slog.LevelDebug
	case config.LogLevelWarn:
		level = slog.LevelWarn
	case config.LogLevelError:
		level = slog.LevelError
	}
	if CLI.Verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if config.LogFormat(cfg.Logging.Format) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
