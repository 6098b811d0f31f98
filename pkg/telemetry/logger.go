package telemetry

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog.Logger with search-specific fields.
type Logger struct {
	zlog   zerolog.Logger
	config LoggingConfig
	closer io.Closer
}

type loggerContextKey struct{}

var logLevels = map[string]zerolog.Level{
	"trace": zerolog.TraceLevel,
	"debug": zerolog.DebugLevel,
	"info":  zerolog.InfoLevel,
	"warn":  zerolog.WarnLevel,
	"error": zerolog.ErrorLevel,
	"fatal": zerolog.FatalLevel,
}

// NewLogger creates a new logger with the given configuration.
func NewLogger(cfg LoggingConfig) (*Logger, error) {
	var writer io.Writer
	var closer io.Closer
	switch cfg.Output {
	case "stdout":
		writer = os.Stdout
	case "", "stderr":
		writer = os.Stderr
	case "discard":
		writer = io.Discard
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, err
		}
		writer = file
		closer = file
	}

	return newLogger(writer, cfg, closer), nil
}

// NewLoggerWithWriter creates a logger that writes to w, ignoring cfg.Output.
func NewLoggerWithWriter(w io.Writer, cfg LoggingConfig) *Logger {
	return newLogger(w, cfg, nil)
}

func newLogger(writer io.Writer, cfg LoggingConfig, closer io.Closer) *Logger {
	if cfg.Format == "console" {
		writer = zerolog.ConsoleWriter{
			Out:        writer,
			TimeFormat: getTimeFormat(cfg.TimeFormat),
		}
	}

	switch cfg.TimeFormat {
	case "unix":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	case "unixms":
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	default:
		zerolog.TimeFieldFormat = time.RFC3339
	}

	zlog := zerolog.New(writer).With().Timestamp().Logger()
	zlog = zlog.Level(ParseLogLevel(cfg.Level))

	if cfg.EnableCaller {
		zlog = zlog.With().Caller().Logger()
	}

	if cfg.EnableSampling {
		zlog = zlog.Sample(&zerolog.BurstSampler{
			Burst:       uint32(cfg.SamplingInitial),
			Period:      1 * time.Second,
			NextSampler: &zerolog.BasicSampler{N: uint32(cfg.SamplingThereafter)},
		})
	}

	return &Logger{
		zlog:   zlog,
		config: cfg,
		closer: closer,
	}
}

// NopLogger returns a logger that discards everything.
func NopLogger() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Zerolog returns the underlying zerolog logger, for packages that take one
// directly.
func (l *Logger) Zerolog() zerolog.Logger {
	return l.zlog
}

// Close closes the log file, if the logger opened one.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// NewComponentLogger creates a child logger for a specific component.
func (l *Logger) NewComponentLogger(component string) *Logger {
	return l.with(l.zlog.With().Str("component", component).Logger())
}

// WithContext adds the logger to the context.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, l)
}

// FromContext retrieves the logger from the context, or a no-op logger.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*Logger); ok {
		return l
	}
	return NopLogger()
}

// WithFields returns a logger with additional fields.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	ctx := l.zlog.With()
	for k, v := range fields {
		ctx = ctx.Interface(k, v)
	}
	return l.with(ctx.Logger())
}

// WithField returns a logger with a single additional field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.with(l.zlog.With().Interface(key, value).Logger())
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(runID string) *Logger {
	return l.with(l.zlog.With().Str("run_id", runID).Logger())
}

// WithProblem adds the problem name and domain to the logger.
func (l *Logger) WithProblem(name, domain string) *Logger {
	return l.with(l.zlog.With().
		Str("problem", name).
		Str("domain", domain).
		Logger())
}

// WithStrategy adds a strategy field to the logger.
func (l *Logger) WithStrategy(strategy string) *Logger {
	return l.with(l.zlog.With().Str("strategy", strategy).Logger())
}

// WithError adds error information to the logger.
func (l *Logger) WithError(err error) *Logger {
	return l.with(l.zlog.With().Err(err).Logger())
}

func (l *Logger) with(zlog zerolog.Logger) *Logger {
	return &Logger{zlog: zlog, config: l.config}
}

// Trace logs a trace-level message.
func (l *Logger) Trace(msg string) {
	l.zlog.Trace().Msg(msg)
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg string) {
	l.zlog.Debug().Msg(msg)
}

// Debugf logs a formatted debug-level message.
func (l *Logger) Debugf(format string, args ...interface{}) {
	l.zlog.Debug().Msgf(format, args...)
}

// Info logs an info-level message.
func (l *Logger) Info(msg string) {
	l.zlog.Info().Msg(msg)
}

// Infof logs a formatted info-level message.
func (l *Logger) Infof(format string, args ...interface{}) {
	l.zlog.Info().Msgf(format, args...)
}

// Warn logs a warning-level message.
func (l *Logger) Warn(msg string) {
	l.zlog.Warn().Msg(msg)
}

// Error logs an error-level message.
func (l *Logger) Error(msg string) {
	l.zlog.Error().Msg(msg)
}

// Errorf logs a formatted error-level message.
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.zlog.Error().Msgf(format, args...)
}

// ParseLogLevel converts a level name to a zerolog.Level, defaulting to info.
func ParseLogLevel(level string) zerolog.Level {
	if lvl, ok := logLevels[level]; ok {
		return lvl
	}
	return zerolog.InfoLevel
}

func getTimeFormat(format string) string {
	switch format {
	case "unix":
		return "unix"
	case "unixms":
		return time.StampMilli
	default:
		return time.RFC3339
	}
}
