// Package config loads and validates the errwatch service configuration
// from YAML with environment expansion and optional .env files.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Retry      RetryConfig      `yaml:"retry"`
	Report     ReportConfig     `yaml:"report"`
	Locale     string           `yaml:"locale"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig configures the HTTP ingestion server.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// AnalyticsConfig configures the in-memory error buffer.
type AnalyticsConfig struct {
	Capacity int `yaml:"capacity"`
}

// TelemetryConfig configures the NATS analytics sink. When disabled, tracked
// errors only reach the structured log.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// ClassifierConfig extends the built-in phrase lists. Entries are
// case-insensitive substrings matched against error messages.
type ClassifierConfig struct {
	NetworkPhrases    []string `yaml:"network_phrases"`
	ValidationPhrases []string `yaml:"validation_phrases"`
}

// RetryConfig configures the backoff advice exposed to callers.
type RetryConfig struct {
	Mode       string        `yaml:"mode"` // fixed|linear|exponential
	Initial    time.Duration `yaml:"initial"`
	Max        time.Duration `yaml:"max"`
	MaxRetries int           `yaml:"max_retries"`
}

// ReportConfig configures the periodic statistics reporter.
type ReportConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Interval time.Duration `yaml:"interval"`
}

// LoggingConfig configures slog output.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug|info|warn|error
	Format string `yaml:"format"` // text|json
}

// Load loads configuration from the specified file.
func Load(configPath string) (*Config, error) {
	// Load .env file if it exists
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist, just note it
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expandedData), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8710
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 30 * time.Second
	}
	if c.Analytics.Capacity == 0 {
		c.Analytics.Capacity = 100
	}
	if c.Telemetry.Subject == "" {
		c.Telemetry.Subject = "errwatch.errors"
	}
	if c.Retry.Mode == "" {
		c.Retry.Mode = "linear"
	}
	if c.Retry.Initial == 0 {
		c.Retry.Initial = time.Second
	}
	if c.Retry.Max == 0 {
		c.Retry.Max = 30 * time.Second
	}
	if c.Retry.MaxRetries == 0 {
		c.Retry.MaxRetries = 2
	}
	if c.Report.Interval == 0 {
		c.Report.Interval = 15 * time.Minute
	}
	if c.Locale == "" {
		c.Locale = "nl"
	}
	c.Logging.Level = string(NormalizeLogLevel(c.Logging.Level))
	c.Logging.Format = string(NormalizeLogFormat(c.Logging.Format))
}

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Analytics.Capacity < 1 {
		return fmt.Errorf("analytics.capacity must be positive, got %d", c.Analytics.Capacity)
	}
	if c.Telemetry.Enabled && c.Telemetry.NATSURL == "" {
		return fmt.Errorf("telemetry.nats_url is required when telemetry is enabled")
	}
	if c.Report.Enabled && c.Report.Interval < time.Second {
		return fmt.Errorf("report.interval must be at least 1s, got %v", c.Report.Interval)
	}
	return nil
}

const exampleConfig = `# errwatch configuration
server:
  port: 8710
  shutdown_timeout: 30s

analytics:
  capacity: 100

# Forward error summaries to the analytics backend. Disabled by default;
# tracked errors then only reach the structured log.
telemetry:
  enabled: false
  nats_url: nats://localhost:4222
  subject: errwatch.errors

# Extra case-insensitive substrings for the message-content heuristics.
classifier:
  network_phrases: []
  validation_phrases: []

retry:
  mode: linear
  initial: 1s
  max: 30s
  max_retries: 2

report:
  enabled: true
  interval: 15m

locale: nl

logging:
  level: info
  format: text
`

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
