package telemetry

import (
	"fmt"
	"slices"
	"time"
)

// Config holds logging, tracing, metrics and event settings for a process
// that runs searches.
type Config struct {
	ServiceName    string
	ServiceVersion string

	// Environment is recorded on spans (development, test, production).
	Environment string

	Logging LoggingConfig
	Tracing TracingConfig
	Metrics MetricsConfig
	Events  EventsConfig
}

// LoggingConfig configures the zerolog logger.
type LoggingConfig struct {
	// Level is one of trace, debug, info, warn, error, fatal.
	Level string

	// Format is console or json.
	Format string

	// Output is stdout, stderr, discard or a file path.
	Output string

	EnableCaller bool

	// Sampling thins high-volume logs such as per-node traces: the first
	// SamplingInitial messages per second pass, then one in
	// SamplingThereafter.
	EnableSampling     bool
	SamplingInitial    int
	SamplingThereafter int

	// TimeFormat is unix, unixms or rfc3339.
	TimeFormat string
}

// TracingConfig configures the span exporter for runs and searches.
type TracingConfig struct {
	Enabled bool

	// Exporter is otlp, stdout or none.
	Exporter string

	// Endpoint is the OTLP gRPC collector, e.g. "localhost:4317".
	Endpoint string
	Headers  map[string]string
	Insecure bool

	SamplingRate       float64
	MaxExportBatchSize int
	ExportTimeout      time.Duration
}

// MetricsConfig configures the Prometheus collectors.
type MetricsConfig struct {
	Enabled bool

	// Namespace prefixes every metric name.
	Namespace string

	// Path is where Handler is mounted by StartMetricsServer.
	Path string

	// DurationBuckets are the search duration histogram buckets in seconds.
	DurationBuckets []float64
}

// EventsConfig configures the search event publisher.
type EventsConfig struct {
	Enabled     bool
	BufferSize  int
	EnableAsync bool

	// NodeEventInterval publishes a progress event every N explored nodes.
	// Zero disables progress events.
	NodeEventInterval int
}

var (
	logFormats     = []string{"console", "json"}
	traceExporters = []string{"otlp", "stdout", "none"}
)

// DefaultConfig returns the configuration used by the CLI.
func DefaultConfig() *Config {
	return &Config{
		ServiceName:    "statesearch",
		ServiceVersion: "dev",
		Environment:    "development",
		Logging: LoggingConfig{
			Level:              "info",
			Format:             "console",
			Output:             "stderr",
			SamplingInitial:    100,
			SamplingThereafter: 100,
			TimeFormat:         "rfc3339",
		},
		Tracing: TracingConfig{
			Exporter:           "none",
			Headers:            map[string]string{},
			Insecure:           true,
			SamplingRate:       1.0,
			MaxExportBatchSize: 512,
			ExportTimeout:      30 * time.Second,
		},
		Metrics: MetricsConfig{
			Enabled:         true,
			Namespace:       "statesearch",
			Path:            "/metrics",
			DurationBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		Events: EventsConfig{
			Enabled:           true,
			BufferSize:        1000,
			EnableAsync:       true,
			NodeEventInterval: 10000,
		},
	}
}

// ProductionConfig logs JSON with sampling and exports a tenth of the runs
// over OTLP.
func ProductionConfig() *Config {
	cfg := DefaultConfig()
	cfg.Environment = "production"
	cfg.Logging.Format = "json"
	cfg.Logging.EnableSampling = true
	cfg.Logging.TimeFormat = "unix"
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "otlp"
	cfg.Tracing.SamplingRate = 0.1
	cfg.Tracing.Insecure = false
	return cfg
}

// DevelopmentConfig logs at debug with callers and prints spans to stdout.
func DevelopmentConfig() *Config {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.EnableCaller = true
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "stdout"
	cfg.Events.NodeEventInterval = 1000
	return cfg
}

// TestConfig writes and exports nothing, and delivers events synchronously.
func TestConfig() *Config {
	cfg := DefaultConfig()
	cfg.Environment = "test"
	cfg.Logging.Output = "discard"
	cfg.Events.EnableAsync = false
	return cfg
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service name is required")
	}
	if c.ServiceVersion == "" {
		return fmt.Errorf("service version is required")
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	if err := c.Tracing.validate(); err != nil {
		return err
	}
	return c.Events.validate()
}

func (c LoggingConfig) validate() error {
	if _, ok := logLevels[c.Level]; !ok {
		return fmt.Errorf("invalid log level: %s", c.Level)
	}
	if !slices.Contains(logFormats, c.Format) {
		return fmt.Errorf("invalid log format: %s (must be 'console' or 'json')", c.Format)
	}
	return nil
}

func (c TracingConfig) validate() error {
	if c.Enabled && !slices.Contains(traceExporters, c.Exporter) {
		return fmt.Errorf("invalid trace exporter: %s", c.Exporter)
	}
	if c.SamplingRate < 0 || c.SamplingRate > 1 {
		return fmt.Errorf("trace sampling rate must be between 0 and 1, got: %f", c.SamplingRate)
	}
	return nil
}

func (c EventsConfig) validate() error {
	if c.Enabled && c.BufferSize <= 0 {
		return fmt.Errorf("event buffer size must be positive, got: %d", c.BufferSize)
	}
	if c.NodeEventInterval < 0 {
		return fmt.Errorf("node event interval must not be negative, got: %d", c.NodeEventInterval)
	}
	return nil
}
