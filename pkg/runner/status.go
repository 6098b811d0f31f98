package runner

import (
	"encoding/json"
	"fmt"

	"github.com/openfroyo/statesearch/pkg/stores"
)

// Status represents the outcome of a run.
type Status string

const (
	// StatusSolved indicates at least one solution was found.
	StatusSolved Status = "solved"

	// StatusUnsolved indicates the search space was exhausted without a solution.
	StatusUnsolved Status = "unsolved"

	// StatusFailed indicates the run failed with an error.
	StatusFailed Status = "failed"

	// StatusCancelled indicates the run was stopped by its context.
	StatusCancelled Status = "cancelled"
)

// Validate checks if the status is valid.
func (s Status) Validate() error {
	switch s {
	case StatusSolved, StatusUnsolved, StatusFailed, StatusCancelled:
		return nil
	default:
		return fmt.Errorf("invalid run status: %s", s)
	}
}

// Succeeded reports whether the search ran to completion.
func (s Status) Succeeded() bool {
	return s == StatusSolved || s == StatusUnsolved
}

func (s Status) storeStatus() stores.RunStatus {
	switch s {
	case StatusSolved:
		return stores.RunStatusSolved
	case StatusUnsolved:
		return stores.RunStatusUnsolved
	case StatusCancelled:
		return stores.RunStatusCancelled
	default:
		return stores.RunStatusFailed
	}
}

// MarshalJSON implements custom JSON marshaling for type-safe enum serialization.
func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements custom JSON unmarshaling with validation.
func (s *Status) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*s = Status(str)
	return s.Validate()
}

// EventType is the type of a journal entry recorded with a run.
type EventType string

const (
	EventTypeSearchStarted  EventType = "search.started"
	EventTypeSolutionFound  EventType = "search.solution_found"
	EventTypeDeepened       EventType = "search.deepened"
	EventTypeSearchFinished EventType = "search.completed"
	EventTypeRunFailed      EventType = "run.failed"
)

// Level returns the journal level of the event type.
func (e EventType) Level() stores.EventLevel {
	switch e {
	case EventTypeRunFailed:
		return stores.EventLevelError
	case EventTypeDeepened:
		return stores.EventLevelDebug
	default:
		return stores.EventLevelInfo
	}
}
