package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/openfroyo/statesearch/pkg/runner"
	"github.com/openfroyo/statesearch/pkg/stores"
	"github.com/openfroyo/statesearch/pkg/telemetry"
)

const shutdownTimeout = 5 * time.Second

// app holds what a command needs: telemetry and, if enabled, the history store.
type app struct {
	tel   *telemetry.Telemetry
	store *stores.SQLiteStore
}

func openApp(cmd *cobra.Command, withHistory bool) (*app, error) {
	cfg := telemetry.DefaultConfig()
	cfg.ServiceVersion = serviceVersion
	cfg.Logging.Level = logLevel
	cfg.Logging.Format = logFormat
	switch {
	case otlpEndpoint != "":
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = "otlp"
		cfg.Tracing.Endpoint = otlpEndpoint
	case traceRuns:
		cfg.Tracing.Enabled = true
		cfg.Tracing.Exporter = "stdout"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if !telemetry.ValidEventLevel(eventsLevel) {
		return nil, fmt.Errorf("invalid events level: %s (must be info, warning or error)", eventsLevel)
	}

	logger := telemetry.NewLoggerWithWriter(cmd.ErrOrStderr(), cfg.Logging)
	tel, err := telemetry.NewTelemetryWithLogger(cfg, logger)
	if err != nil {
		return nil, err
	}

	tel.Events.AddFilter(telemetry.FilterByLevel(eventsLevel))
	tel.Events.Subscribe(func(event telemetry.Event) {
		logger.WithFields(map[string]interface{}{
			"event":       event.Type,
			"event_level": event.Level,
			"run_id":      event.RunID,
		}).Debug(event.Message)
	}, telemetry.FilterByType(
		telemetry.EventTypeSolutionFound,
		telemetry.EventTypeDeepened,
		telemetry.EventTypeSearchCompleted,
		telemetry.EventTypeSearchFailed,
	))

	a := &app{tel: tel}
	if !withHistory || dbPath == "" {
		return a, nil
	}

	store, err := stores.NewSQLiteStore(stores.Config{Path: dbPath})
	if err != nil {
		return nil, errors.Join(err, a.Close())
	}
	if err := store.Init(cmd.Context()); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	a.store = store
	if err := store.Migrate(cmd.Context()); err != nil {
		return nil, errors.Join(err, a.Close())
	}
	if err := store.HealthCheck(cmd.Context()); err != nil {
		return nil, errors.Join(fmt.Errorf("run history %s is unusable: %w", dbPath, err), a.Close())
	}

	return a, nil
}

func (a *app) runner() *runner.Runner {
	opts := []runner.Option{runner.WithTelemetry(a.tel)}
	if a.store != nil {
		opts = append(opts, runner.WithStore(a.store))
	}
	return runner.New(opts...)
}

func (a *app) requireStore() (*stores.SQLiteStore, error) {
	if a.store == nil {
		return nil, errors.New("run history is disabled (--db is empty)")
	}
	return a.store, nil
}

// Close flushes telemetry and closes the store.
func (a *app) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if a.store != nil {
		errs = append(errs, a.store.Close())
	}
	errs = append(errs, a.tel.Shutdown(ctx))
	return errors.Join(errs...)
}
