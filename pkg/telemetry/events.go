package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event is a notable moment in a search run.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// RunID is the associated run ID, if applicable.
	RunID string `json:"run_id,omitempty"`

	// Strategy is the search strategy in use, if applicable.
	Strategy string `json:"strategy,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// Event types.
const (
	EventTypeSearchStarted   = "search.started"
	EventTypeSearchProgress  = "search.progress"
	EventTypeSolutionFound   = "search.solution_found"
	EventTypeDeepened        = "search.deepened"
	EventTypeSearchCompleted = "search.completed"
	EventTypeSearchFailed    = "search.failed"
)

// Event levels.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher delivers events to subscribers. In async mode events are
// buffered and delivered in order by a single goroutine; Shutdown drains the
// buffer first.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	closeOnce   sync.Once
	done        chan struct{}
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ep := &EventPublisher{
		config: cfg,
		done:   make(chan struct{}),
	}

	if cfg.EnableAsync {
		ep.buffer = make(chan Event, cfg.BufferSize)
		ep.wg.Add(1)
		go ep.processEvents()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil
		}
	}
	ep.mu.RUnlock()

	if !ep.config.EnableAsync {
		ep.deliverEvent(event)
		return nil
	}

	select {
	case <-ep.done:
		return fmt.Errorf("event publisher stopped")
	default:
	}

	select {
	case ep.buffer <- event:
		return nil
	default:
		return fmt.Errorf("event buffer full, event dropped")
	}
}

// PublishSearchStarted publishes a search started event.
func (ep *EventPublisher) PublishSearchStarted(runID, problem, strategy string) error {
	return ep.Publish(Event{
		Type:     EventTypeSearchStarted,
		Source:   "runner",
		RunID:    runID,
		Strategy: strategy,
		Message:  fmt.Sprintf("Search %s started on %s", strategy, problem),
		Level:    EventLevelInfo,
		Data: map[string]interface{}{
			"problem": problem,
		},
	})
}

// PublishSearchProgress publishes a periodic progress event.
func (ep *EventPublisher) PublishSearchProgress(runID, strategy string, explored, frontierLen int) error {
	return ep.Publish(Event{
		Type:     EventTypeSearchProgress,
		Source:   "engine",
		RunID:    runID,
		Strategy: strategy,
		Message:  fmt.Sprintf("%d states explored, %d pending", explored, frontierLen),
		Level:    EventLevelInfo,
		Data: map[string]interface{}{
			"nodes_explored": explored,
			"frontier":       frontierLen,
		},
	})
}

// PublishSolutionFound publishes a solution found event.
func (ep *EventPublisher) PublishSolutionFound(runID, strategy string, level int, cost float64) error {
	return ep.Publish(Event{
		Type:     EventTypeSolutionFound,
		Source:   "engine",
		RunID:    runID,
		Strategy: strategy,
		Message:  fmt.Sprintf("Solution found at level %d with cost %g", level, cost),
		Level:    EventLevelInfo,
		Data: map[string]interface{}{
			"level": level,
			"cost":  cost,
		},
	})
}

// PublishDeepened publishes an iterative deepening round event.
func (ep *EventPublisher) PublishDeepened(runID, strategy string, limit int) error {
	return ep.Publish(Event{
		Type:     EventTypeDeepened,
		Source:   "engine",
		RunID:    runID,
		Strategy: strategy,
		Message:  fmt.Sprintf("Depth limit set to %d", limit),
		Level:    EventLevelInfo,
		Data: map[string]interface{}{
			"limit": limit,
		},
	})
}

// PublishSearchCompleted publishes a search completed event.
func (ep *EventPublisher) PublishSearchCompleted(runID, strategy string, found int, stats fmt.Stringer, duration time.Duration) error {
	level := EventLevelInfo
	if found == 0 {
		level = EventLevelWarning
	}
	return ep.Publish(Event{
		Type:     EventTypeSearchCompleted,
		Source:   "engine",
		RunID:    runID,
		Strategy: strategy,
		Message:  fmt.Sprintf("Search finished with %d solution(s) %s", found, stats),
		Level:    level,
		Data: map[string]interface{}{
			"found":    found,
			"duration": duration.Seconds(),
		},
	})
}

// PublishSearchFailed publishes a search failed event.
func (ep *EventPublisher) PublishSearchFailed(runID, strategy, reason string) error {
	return ep.Publish(Event{
		Type:     EventTypeSearchFailed,
		Source:   "runner",
		RunID:    runID,
		Strategy: strategy,
		Message:  fmt.Sprintf("Search failed: %s", reason),
		Level:    EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// Subscribe adds a new event subscriber. A nil filter accepts every event.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	for {
		select {
		case event := <-ep.buffer:
			ep.deliverEvent(event)
		case <-ep.done:
			for {
				select {
				case event := <-ep.buffer:
					ep.deliverEvent(event)
				default:
					return
				}
			}
		}
	}
}

func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		if entry.filter != nil && !entry.filter(event) {
			continue
		}
		entry.subscriber(event)
	}
}

// Shutdown stops the publisher after delivering buffered events.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	ep.closeOnce.Do(func() { close(ep.done) })

	finished := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// eventLevels orders event levels by severity.
var eventLevels = map[string]int{
	EventLevelInfo:    0,
	EventLevelWarning: 1,
	EventLevelError:   2,
}

// ValidEventLevel reports whether level is info, warning or error.
func ValidEventLevel(level string) bool {
	_, ok := eventLevels[level]
	return ok
}

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	minLevelValue := eventLevels[minLevel]

	return func(event Event) bool {
		return eventLevels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}
