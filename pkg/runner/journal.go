package runner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/openfroyo/statesearch/pkg/search"
	"github.com/openfroyo/statesearch/pkg/stores"
)

// journal collects the notable moments of a run for the store. Per-node
// callbacks are not journaled.
type journal struct {
	search.NopObserver

	runID  string
	events []*stores.Event
}

func newJournal(runID string) *journal {
	return &journal{runID: runID}
}

func (j *journal) record(eventType EventType, message string, details map[string]interface{}) {
	event := &stores.Event{
		RunID:     j.runID,
		Level:     eventType.Level(),
		Type:      string(eventType),
		Message:   message,
		Timestamp: time.Now(),
	}
	if len(details) > 0 {
		if data, err := json.Marshal(details); err == nil {
			s := string(data)
			event.Details = &s
		}
	}
	j.events = append(j.events, event)
}

func (j *journal) OnSearchStart(strategy search.Strategy) {
	j.record(EventTypeSearchStarted, fmt.Sprintf("Search started with %s", strategy), nil)
}

func (j *journal) OnSolution(level int, cost float64) {
	j.record(EventTypeSolutionFound, "Solution found", map[string]interface{}{
		"level": level,
		"cost":  cost,
	})
}

func (j *journal) OnDeepening(limit int) {
	j.record(EventTypeDeepened, fmt.Sprintf("Depth limit %d", limit), map[string]interface{}{
		"limit": limit,
	})
}

func (j *journal) OnSearchEnd(strategy search.Strategy, stats search.Statistics, found int) {
	j.record(EventTypeSearchFinished, fmt.Sprintf("Search finished with %d solution(s)", found), map[string]interface{}{
		"nodes_explored": stats.NodesExplored,
		"max_depth":      stats.MaxDepth,
		"solutions":      stats.Solutions,
	})
}

func (j *journal) fail(err error) {
	j.record(EventTypeRunFailed, err.Error(), map[string]interface{}{
		"code": Code(err),
	})
}

// fanout forwards every callback to each observer in order.
type fanout []search.Observer

func (f fanout) OnSearchStart(strategy search.Strategy) {
	for _, o := range f {
		o.OnSearchStart(strategy)
	}
}

func (f fanout) OnNodeExplored(level, frontierLen int) {
	for _, o := range f {
		o.OnNodeExplored(level, frontierLen)
	}
}

func (f fanout) OnSolution(level int, cost float64) {
	for _, o := range f {
		o.OnSolution(level, cost)
	}
}

func (f fanout) OnDeepening(limit int) {
	for _, o := range f {
		o.OnDeepening(limit)
	}
}

func (f fanout) OnSearchEnd(strategy search.Strategy, stats search.Statistics, found int) {
	for _, o := range f {
		o.OnSearchEnd(strategy, stats, found)
	}
}
