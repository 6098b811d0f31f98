package telemetry

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfroyo/statesearch/pkg/search"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "default", mutate: func(*Config) {}},
		{name: "missing service name", mutate: func(c *Config) { c.ServiceName = "" }, wantErr: "service name"},
		{name: "bad level", mutate: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "log level"},
		{name: "bad format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "log format"},
		{name: "bad exporter", mutate: func(c *Config) {
			c.Tracing.Enabled = true
			c.Tracing.Exporter = "jaeger"
		}, wantErr: "trace exporter"},
		{name: "bad sampling", mutate: func(c *Config) { c.Tracing.SamplingRate = 2 }, wantErr: "sampling rate"},
		{name: "empty buffer", mutate: func(c *Config) { c.Events.BufferSize = 0 }, wantErr: "buffer size"},
		{name: "negative interval", mutate: func(c *Config) { c.Events.NodeEventInterval = -1 }, wantErr: "node event interval"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	for _, cfg := range []*Config{ProductionConfig(), DevelopmentConfig(), TestConfig()} {
		assert.NoError(t, cfg.Validate(), cfg.Environment)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, LoggingConfig{Level: "debug", Format: "json"})

	logger.NewComponentLogger("runner").
		WithRunID("run-7").
		WithProblem("countdown", "numbers").
		WithStrategy("best_first").
		Info("hello")

	out := buf.String()
	assert.Contains(t, out, `"component":"runner"`)
	assert.Contains(t, out, `"run_id":"run-7"`)
	assert.Contains(t, out, `"problem":"countdown"`)
	assert.Contains(t, out, `"domain":"numbers"`)
	assert.Contains(t, out, `"strategy":"best_first"`)
	assert.Contains(t, out, `"message":"hello"`)
}

func TestLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, LoggingConfig{Level: "warn", Format: "json"})

	logger.Info("quiet")
	logger.WithError(errors.New("boom")).Error("loud")

	assert.NotContains(t, buf.String(), "quiet")
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.TraceLevel, ParseLogLevel("trace"))
	assert.Equal(t, zerolog.ErrorLevel, ParseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, ParseLogLevel("bogus"))
}

func TestFromContext_Default(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	logger.Info("goes nowhere")

	custom := NopLogger().WithField("k", "v")
	assert.Same(t, custom, FromContext(custom.WithContext(context.Background())))
}

func TestMetrics_Disabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	require.NoError(t, err)

	m.RecordSearchStarted("depth_first")
	m.RecordNodeExplored("depth_first", 3)
	m.RecordSearchCompleted("depth_first", OutcomeSolved, time.Second)
	m.RecordError("permanent", "SCRIPT_ERROR")
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMetrics_Handler(t *testing.T) {
	m, err := NewMetrics(DefaultConfig().Metrics)
	require.NoError(t, err)

	m.RecordSearchStarted("breadth_first")
	m.RecordSearchCompleted("breadth_first", OutcomeUnsolved, 10*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `statesearch_searches_completed_total{outcome="unsolved",strategy="breadth_first"} 1`)
}

func TestMetrics_Server(t *testing.T) {
	m, err := NewMetrics(DefaultConfig().Metrics)
	require.NoError(t, err)

	server, err := m.StartMetricsServer("127.0.0.1:0", NopLogger())
	require.NoError(t, err)
	defer server.Shutdown(context.Background())

	resp, err := http.Get("http://" + server.Addr + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEventPublisher_Async(t *testing.T) {
	cfg := DefaultConfig().Events
	ep, err := NewEventPublisher(cfg)
	require.NoError(t, err)

	var mu sync.Mutex
	var got []string
	ep.Subscribe(func(e Event) {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e.Type)
	}, nil)

	require.NoError(t, ep.PublishSearchStarted("r", "p", "depth_first"))
	require.NoError(t, ep.PublishDeepened("r", "depth_first", 2))
	require.NoError(t, ep.PublishSolutionFound("r", "depth_first", 2, 2))
	require.NoError(t, ep.Shutdown(context.Background()))

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{EventTypeSearchStarted, EventTypeDeepened, EventTypeSolutionFound}, got)

	assert.Error(t, ep.PublishSearchFailed("r", "depth_first", "late"))
}

func TestEventPublisher_Filters(t *testing.T) {
	ep, err := NewEventPublisher(TestConfig().Events)
	require.NoError(t, err)

	var got []Event
	ep.AddFilter(FilterByLevel(EventLevelWarning))
	ep.Subscribe(func(e Event) { got = append(got, e) }, FilterByType(EventTypeSearchCompleted))

	require.NoError(t, ep.PublishSearchCompleted("r", "breadth_first", 0, search.Statistics{}, time.Second))
	require.NoError(t, ep.PublishSearchCompleted("r", "breadth_first", 2, search.Statistics{}, time.Second))
	require.NoError(t, ep.PublishSearchFailed("r", "breadth_first", "boom"))

	require.Len(t, got, 1)
	assert.Equal(t, EventLevelWarning, got[0].Level)
	assert.NotEmpty(t, got[0].ID)
	assert.False(t, got[0].Timestamp.IsZero())
	assert.Equal(t, 0, got[0].Data["found"])
}

func TestValidEventLevel(t *testing.T) {
	for _, level := range []string{EventLevelInfo, EventLevelWarning, EventLevelError} {
		assert.True(t, ValidEventLevel(level), level)
	}
	assert.False(t, ValidEventLevel("debug"))
	assert.False(t, ValidEventLevel(""))
}

func TestEventPublisher_Disabled(t *testing.T) {
	ep, err := NewEventPublisher(EventsConfig{Enabled: false})
	require.NoError(t, err)
	assert.NoError(t, ep.PublishSearchStarted("r", "p", "s"))
	assert.NoError(t, ep.Shutdown(context.Background()))
}

type codedError struct{}

func (codedError) Error() string      { return "script exploded" }
func (codedError) ErrorClass() string { return "permanent" }
func (codedError) ErrorCode() string  { return "SCRIPT_ERROR" }

func TestSearchObserver(t *testing.T) {
	cfg := TestConfig()
	cfg.Events.NodeEventInterval = 2

	var buf bytes.Buffer
	tel, err := NewTelemetryWithLogger(cfg, NewLoggerWithWriter(&buf, LoggingConfig{Level: "debug", Format: "json"}))
	require.NoError(t, err)
	defer tel.Shutdown(context.Background())

	var types []string
	tel.Events.Subscribe(func(e Event) { types = append(types, e.Type) }, nil)

	ctx := tel.WithContext(context.Background())
	_, obs := tel.StartSearch(ctx, "run-9", "demo", "iterative_deepening")

	strategy := search.StrategyIterativeDeepening
	obs.OnSearchStart(strategy)
	obs.OnDeepening(1)
	obs.OnNodeExplored(0, 2)
	obs.OnNodeExplored(1, 1)
	obs.OnSolution(1, 1)
	obs.OnSearchEnd(strategy, search.Statistics{NodesExplored: 2, MaxDepth: 1, Solutions: 1}, 1)
	obs.Finish(fmt.Errorf("wrapped: %w", codedError{}))

	assert.Equal(t, 1, obs.Found())
	assert.Equal(t, []string{
		EventTypeSearchStarted,
		EventTypeDeepened,
		EventTypeSearchProgress,
		EventTypeSolutionFound,
		EventTypeSearchCompleted,
		EventTypeSearchFailed,
	}, types)

	reg := tel.Metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(reg.nodesExplored.WithLabelValues("iterative_deepening")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.solutionsFound.WithLabelValues("iterative_deepening")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.deepenings.WithLabelValues("iterative_deepening")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.maxDepth.WithLabelValues("iterative_deepening")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.searchesCompleted.WithLabelValues("iterative_deepening", OutcomeSolved)))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.errorsByCode.WithLabelValues("SCRIPT_ERROR")))
	assert.Equal(t, 0.0, testutil.ToFloat64(reg.activeSearches))

	logs := buf.String()
	assert.Contains(t, logs, `"run_id":"run-9"`)
	assert.Contains(t, logs, "Search failed")
	assert.True(t, strings.Contains(logs, `"nodes_explored":2`))
}

func TestStartOperation_WithoutTelemetry(t *testing.T) {
	op := StartOperation(context.Background(), "problem.load")
	require.NotNil(t, op.Span)
	op.End(errors.New("ignored"))
}

func TestStartOperation_WithTelemetry(t *testing.T) {
	tel := Nop()
	defer tel.Shutdown(context.Background())

	op := StartOperation(tel.WithContext(context.Background()), "problem.load", AttrProblem.String("x"))
	assert.Same(t, tel, FromTelemetryContext(op.Ctx))
	op.End(nil)
	assert.GreaterOrEqual(t, op.Timer.Duration(), time.Duration(0))
}

func TestTracer_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	cfg := TracingConfig{
		Enabled:            true,
		Exporter:           "stdout",
		SamplingRate:       1,
		MaxExportBatchSize: 16,
		ExportTimeout:      time.Second,
	}
	tracer, err := newTracer(cfg, "statesearch", "test", "test", &buf)
	require.NoError(t, err)

	ctx, span := tracer.StartSearchSpan(context.Background(), "run-3", "demo", "best_first")
	assert.NotEmpty(t, TraceID(ctx))
	RecordSuccess(span)
	span.End()

	require.NoError(t, tracer.Shutdown(context.Background()))
	assert.Contains(t, buf.String(), "search.run")
	assert.Contains(t, buf.String(), "run-3")
}

func TestTracer_Disabled(t *testing.T) {
	tracer, err := NewTracer(TracingConfig{Enabled: false}, "statesearch", "test", "test")
	require.NoError(t, err)

	ctx, span := tracer.StartSearchSpan(context.Background(), "run-4", "demo", "depth_first")
	span.End()
	assert.Empty(t, TraceID(ctx))
	assert.NoError(t, tracer.ForceFlush(context.Background()))
	assert.NoError(t, tracer.Shutdown(context.Background()))

	_, err = NewTracer(TracingConfig{Enabled: true, Exporter: "zipkin"}, "statesearch", "test", "test")
	assert.Error(t, err)
}
