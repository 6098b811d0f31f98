// Package telemetry provides observability for search runs.
//
// The package integrates structured logging (zerolog), tracing
// (OpenTelemetry), metrics (Prometheus) and an in-process event publisher
// behind a single Telemetry value.
//
// # Usage
//
// Initialize telemetry at startup and attach it to the context:
//
//	tel, err := telemetry.NewTelemetry(telemetry.DefaultConfig())
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx = tel.WithContext(ctx)
//
// # Search Runs
//
// StartSearch opens a span for one run and returns a SearchObserver that
// can be registered with the engine:
//
//	ctx, obs := tel.StartSearch(ctx, runID, "countdown", "best_first")
//	engine := search.New[*numbers.State, numbers.Action](
//	    search.WithLogger(obs.Logger().Zerolog()),
//	    search.WithObserver(obs),
//	)
//	path, ok := search.SearchBestFirst(engine, initial)
//	obs.Finish(nil)
//
// The observer counts explored nodes, solutions and deepening rounds in
// Prometheus, publishes events (one progress event every
// Events.NodeEventInterval nodes) and annotates the span.
//
// # Metrics
//
// Metrics live in a private registry exposed through Metrics.Handler or
// Metrics.StartMetricsServer:
//
//	statesearch_searches_started_total{strategy}
//	statesearch_searches_completed_total{strategy,outcome}
//	statesearch_search_duration_seconds{strategy}
//	statesearch_nodes_explored_total{strategy}
//	statesearch_solutions_found_total{strategy}
//	statesearch_deepening_rounds_total{strategy}
//	statesearch_search_max_depth{strategy}
//	statesearch_frontier_size
//	statesearch_errors_by_class_total{class}
//	statesearch_errors_by_code_total{code}
//	statesearch_active_searches
//
// # Events
//
// Subscribers receive events in publication order:
//
//	tel.Events.Subscribe(func(e telemetry.Event) {
//	    fmt.Println(e.Type, e.Message)
//	}, telemetry.FilterByType(telemetry.EventTypeSolutionFound))
//
// # Configuration
//
// DefaultConfig logs to stderr in console format with tracing off.
// ProductionConfig switches to JSON logs, sampling and OTLP export.
// DevelopmentConfig enables debug logs and the stdout span exporter.
// TestConfig discards everything.
package telemetry
