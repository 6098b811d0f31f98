package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/openfroyo/statesearch/pkg/search"
)

// SearchObserver forwards engine callbacks to metrics, events, tracing and
// logs for one run.
type SearchObserver struct {
	runID    string
	problem  string
	strategy string
	interval int

	logger  *Logger
	metrics *Metrics
	events  *EventPublisher
	span    trace.Span

	started  time.Time
	explored int
	found    int
}

var _ search.Observer = (*SearchObserver)(nil)

// StartSearch opens the span for a run and returns an observer for its
// engine. The returned context carries the span and a run-scoped logger.
func (t *Telemetry) StartSearch(ctx context.Context, runID, problem, strategy string) (context.Context, *SearchObserver) {
	spanCtx, span := t.Tracer.StartSearchSpan(ctx, runID, problem, strategy)
	logger := FromContext(ctx).WithRunID(runID).WithStrategy(strategy)

	o := &SearchObserver{
		runID:    runID,
		problem:  problem,
		strategy: strategy,
		interval: t.Config.Events.NodeEventInterval,
		logger:   logger,
		metrics:  t.Metrics,
		events:   t.Events,
		span:     span,
	}
	return logger.WithContext(spanCtx), o
}

// Logger returns the run-scoped logger.
func (o *SearchObserver) Logger() *Logger {
	return o.logger
}

// Found returns the number of solutions reported so far.
func (o *SearchObserver) Found() int {
	return o.found
}

func (o *SearchObserver) OnSearchStart(strategy search.Strategy) {
	o.started = time.Now()
	o.metrics.RecordSearchStarted(string(strategy))
	_ = o.events.PublishSearchStarted(o.runID, o.problem, string(strategy))
	o.logger.Debug("Search started")
}

func (o *SearchObserver) OnNodeExplored(level, frontierLen int) {
	o.explored++
	o.metrics.RecordNodeExplored(o.strategy, frontierLen)
	if o.interval > 0 && o.explored%o.interval == 0 {
		_ = o.events.PublishSearchProgress(o.runID, o.strategy, o.explored, frontierLen)
		o.logger.zlog.Debug().
			Int("nodes_explored", o.explored).
			Int("level", level).
			Int("frontier", frontierLen).
			Msg("Search progress")
	}
}

func (o *SearchObserver) OnSolution(level int, cost float64) {
	o.found++
	o.metrics.RecordSolution(o.strategy)
	_ = o.events.PublishSolutionFound(o.runID, o.strategy, level, cost)
	AddEvent(o.span, "solution", AttrLevel.Int(level), AttrCost.Float64(cost))
}

func (o *SearchObserver) OnDeepening(limit int) {
	o.metrics.RecordDeepening(o.strategy)
	_ = o.events.PublishDeepened(o.runID, o.strategy, limit)
	AddEvent(o.span, "deepen", AttrDepthLimit.Int(limit))
	o.logger.zlog.Debug().Int("limit", limit).Msg("Deepening")
}

func (o *SearchObserver) OnSearchEnd(strategy search.Strategy, stats search.Statistics, found int) {
	duration := time.Since(o.started)
	outcome := OutcomeUnsolved
	if found > 0 {
		outcome = OutcomeSolved
	}

	o.metrics.SetMaxDepth(string(strategy), stats.MaxDepth)
	o.metrics.RecordSearchCompleted(string(strategy), outcome, duration)
	_ = o.events.PublishSearchCompleted(o.runID, string(strategy), found, stats, duration)

	o.span.SetAttributes(
		AttrNodesExplored.Int(stats.NodesExplored),
		AttrMaxDepth.Int(stats.MaxDepth),
		AttrSolutions.Int(stats.Solutions),
		AttrFound.Int(found),
	)

	o.logger.zlog.Info().
		Int("found", found).
		Int("nodes_explored", stats.NodesExplored).
		Int("max_depth", stats.MaxDepth).
		Dur("duration", duration).
		Msg("Search finished")
}

// Finish ends the run span. A non-nil err marks the run failed.
func (o *SearchObserver) Finish(err error) {
	if err != nil {
		RecordError(o.span, err)
		o.metrics.RecordError(errorClass(err), errorCode(err))
		_ = o.events.PublishSearchFailed(o.runID, o.strategy, err.Error())
		o.logger.WithError(err).Error("Search failed")
	} else {
		RecordSuccess(o.span)
	}
	o.span.End()
}

// classifiedError is implemented by errors that carry a class and code.
type classifiedError interface {
	ErrorClass() string
	ErrorCode() string
}

func errorClass(err error) string {
	var ce classifiedError
	if errors.As(err, &ce) {
		return ce.ErrorClass()
	}
	return "unknown"
}

func errorCode(err error) string {
	var ce classifiedError
	if errors.As(err, &ce) {
		return ce.ErrorCode()
	}
	return ""
}
