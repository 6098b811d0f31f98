package stores

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a run does not exist.
var ErrNotFound = errors.New("not found")

// RunStatus represents the status of a search run
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSolved    RunStatus = "solved"
	RunStatusUnsolved  RunStatus = "unsolved"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// IsTerminal reports whether the status ends a run.
func (s RunStatus) IsTerminal() bool {
	return s != RunStatusRunning
}

// EventLevel represents the severity level of an event
type EventLevel string

const (
	EventLevelDebug   EventLevel = "debug"
	EventLevelInfo    EventLevel = "info"
	EventLevelWarning EventLevel = "warning"
	EventLevelError   EventLevel = "error"
)

// Run represents one search run
type Run struct {
	ID            string     `json:"id" yaml:"id"`
	Problem       string     `json:"problem" yaml:"problem"`
	Domain        string     `json:"domain" yaml:"domain"`
	Strategy      string     `json:"strategy" yaml:"strategy"`
	Step          int        `json:"step" yaml:"step"`
	Source        string     `json:"source" yaml:"source"`
	Status        RunStatus  `json:"status" yaml:"status"`
	NodesExplored int        `json:"nodes_explored" yaml:"nodes_explored"`
	MaxDepth      int        `json:"max_depth" yaml:"max_depth"`
	Solutions     int        `json:"solutions" yaml:"solutions"`
	DurationMS    int64      `json:"duration_ms" yaml:"duration_ms"`
	Error         *string    `json:"error,omitempty" yaml:"error,omitempty"`
	StartedAt     time.Time  `json:"started_at" yaml:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" yaml:"updated_at"`
}

// RunStats are the engine counters recorded when a run finishes.
type RunStats struct {
	NodesExplored int
	MaxDepth      int
	Solutions     int
	Duration      time.Duration
}

// Solution is one solution path found by a run
type Solution struct {
	RunID   string   `json:"run_id" yaml:"run_id"`
	Index   int      `json:"index" yaml:"index"`
	Actions []string `json:"actions" yaml:"actions"`
	Cost    float64  `json:"cost" yaml:"cost"`
	Length  int      `json:"length" yaml:"length"`
}

// Event represents an append-only run event
type Event struct {
	ID        int64      `json:"id" yaml:"id"`
	RunID     string     `json:"run_id" yaml:"run_id"`
	Level     EventLevel `json:"level" yaml:"level"`
	Type      string     `json:"type" yaml:"type"`
	Message   string     `json:"message" yaml:"message"`
	Details   *string    `json:"details,omitempty" yaml:"details,omitempty"` // JSON blob
	Timestamp time.Time  `json:"timestamp" yaml:"timestamp"`
}

// RunFilter narrows ListRuns. Zero fields match everything.
type RunFilter struct {
	Problem  string
	Strategy string
	Status   RunStatus
	Limit    int
	Offset   int
}

// Store defines the interface for the run history
type Store interface {
	// Lifecycle
	Init(ctx context.Context) error
	Close() error
	Migrate(ctx context.Context) error

	// Transaction support
	BeginTx(ctx context.Context) (*sql.Tx, error)

	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, id string) (*Run, error)
	FinishRun(ctx context.Context, id string, status RunStatus, stats RunStats, errMsg *string) error
	ListRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
	DeleteRun(ctx context.Context, id string) error

	// Solution operations
	AddSolutions(ctx context.Context, runID string, solutions []Solution) error
	ListSolutions(ctx context.Context, runID string) ([]Solution, error)

	// Event operations
	AppendEvents(ctx context.Context, events []*Event) error
	GetEvents(ctx context.Context, runID string, level *EventLevel, limit, offset int) ([]*Event, error)

	// Utility
	HealthCheck(ctx context.Context) error
}
