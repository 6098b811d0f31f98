package telemetry

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Search outcomes used as metric label values.
const (
	OutcomeSolved   = "solved"
	OutcomeUnsolved = "unsolved"
)

// Metrics provides Prometheus metrics for search runs.
type Metrics struct {
	config MetricsConfig

	// Search metrics
	searchesStarted   *prometheus.CounterVec
	searchesCompleted *prometheus.CounterVec
	searchDuration    *prometheus.HistogramVec

	// Engine counters
	nodesExplored  *prometheus.CounterVec
	solutionsFound *prometheus.CounterVec
	deepenings     *prometheus.CounterVec
	maxDepth       *prometheus.GaugeVec
	frontierSize   prometheus.Gauge

	// Error metrics
	errorsByClass *prometheus.CounterVec
	errorsByCode  *prometheus.CounterVec

	activeSearches prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DurationBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		searchesStarted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_started_total",
				Help:      "Total number of searches started",
			},
			[]string{"strategy"},
		),
		searchesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "searches_completed_total",
				Help:      "Total number of searches completed",
			},
			[]string{"strategy", "outcome"},
		),
		searchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "search_duration_seconds",
				Help:      "Duration of searches in seconds",
				Buckets:   buckets,
			},
			[]string{"strategy"},
		),

		nodesExplored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "nodes_explored_total",
				Help:      "Total number of states explored",
			},
			[]string{"strategy"},
		),
		solutionsFound: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "solutions_found_total",
				Help:      "Total number of goal states found",
			},
			[]string{"strategy"},
		),
		deepenings: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deepening_rounds_total",
				Help:      "Total number of iterative deepening rounds",
			},
			[]string{"strategy"},
		),
		maxDepth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "search_max_depth",
				Help:      "Deepest state level reached by the last search",
			},
			[]string{"strategy"},
		),
		frontierSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "frontier_size",
				Help:      "Current number of pending states in the frontier",
			},
		),

		errorsByClass: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_class_total",
				Help:      "Total number of errors by error class",
			},
			[]string{"class"},
		),
		errorsByCode: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "errors_by_code_total",
				Help:      "Total number of errors by error code",
			},
			[]string{"code"},
		),

		activeSearches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "active_searches",
				Help:      "Current number of running searches",
			},
		),
	}

	registry.MustRegister(
		m.searchesStarted,
		m.searchesCompleted,
		m.searchDuration,
		m.nodesExplored,
		m.solutionsFound,
		m.deepenings,
		m.maxDepth,
		m.frontierSize,
		m.errorsByClass,
		m.errorsByCode,
		m.activeSearches,
	)

	return m, nil
}

// Registry returns the private registry, or nil when metrics are disabled.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSearchStarted increments the counter for started searches.
func (m *Metrics) RecordSearchStarted(strategy string) {
	if m.searchesStarted == nil {
		return
	}
	m.searchesStarted.WithLabelValues(strategy).Inc()
	m.activeSearches.Inc()
}

// RecordSearchCompleted records a finished search with its outcome and duration.
func (m *Metrics) RecordSearchCompleted(strategy, outcome string, duration time.Duration) {
	if m.searchesCompleted == nil {
		return
	}
	m.searchesCompleted.WithLabelValues(strategy, outcome).Inc()
	m.searchDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	m.activeSearches.Dec()
	m.frontierSize.Set(0)
}

// RecordNodeExplored counts one explored state and samples the frontier size.
func (m *Metrics) RecordNodeExplored(strategy string, frontierLen int) {
	if m.nodesExplored == nil {
		return
	}
	m.nodesExplored.WithLabelValues(strategy).Inc()
	m.frontierSize.Set(float64(frontierLen))
}

// RecordSolution counts one goal state.
func (m *Metrics) RecordSolution(strategy string) {
	if m.solutionsFound == nil {
		return
	}
	m.solutionsFound.WithLabelValues(strategy).Inc()
}

// RecordDeepening counts one iterative deepening round.
func (m *Metrics) RecordDeepening(strategy string) {
	if m.deepenings == nil {
		return
	}
	m.deepenings.WithLabelValues(strategy).Inc()
}

// SetMaxDepth records the deepest level reached by a search.
func (m *Metrics) SetMaxDepth(strategy string, depth int) {
	if m.maxDepth == nil {
		return
	}
	m.maxDepth.WithLabelValues(strategy).Set(float64(depth))
}

// RecordError records an error by class and optionally by code.
func (m *Metrics) RecordError(errorClass, errorCode string) {
	if m.errorsByClass == nil {
		return
	}
	m.errorsByClass.WithLabelValues(errorClass).Inc()
	if errorCode != "" {
		m.errorsByCode.WithLabelValues(errorCode).Inc()
	}
}

// Timer provides a convenient way to time operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Duration returns the elapsed time since the timer was created.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Handler returns an HTTP handler for the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if m.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// StartMetricsServer serves the metrics endpoint on addr in the background.
// The caller shuts the returned server down.
func (m *Metrics) StartMetricsServer(addr string, logger *Logger) (*http.Server, error) {
	path := m.config.Path
	if path == "" {
		path = "/metrics"
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	mux.Handle(path, m.Handler())

	server := &http.Server{
		Addr:              listener.Addr().String(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Error("Metrics server stopped")
		}
	}()

	logger.Infof("Serving metrics on http://%s%s", server.Addr, path)
	return server, nil
}
