package search

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Action is a caller-defined transition between two states.
type Action interface {
	// Cost returns the non-negative cost of taking this action.
	Cost() float64
}

// State is a caller-defined node of the search graph.
//
// States must be immutable once built: the engine shares the same value
// between the frontier and the visited set.
type State[S any, A Action] interface {
	// ApplyAction returns the successor reached by taking action. It must
	// not modify the receiver.
	ApplyAction(action A) S

	// ApplicableActions lists the actions legal from this state. Their
	// order is the expansion order.
	ApplicableActions() []A

	// PartialSolution returns the actions taken from the initial state.
	PartialSolution() []A

	// SolutionCost returns the accumulated cost of PartialSolution.
	SolutionCost() float64

	// IsSolution reports whether this state satisfies the goal.
	IsSolution() bool

	// StateLevel returns the number of actions taken to reach this state.
	StateLevel() int

	// Equal reports whether two states have the same content. It is the
	// only deduplication key.
	Equal(other S) bool
}

// StateHeuristic is the optional capability required by best-first search.
type StateHeuristic interface {
	// Heuristic estimates the remaining cost to a goal.
	Heuristic() float64
}

// HeuristicState is a State that also provides a heuristic estimate.
type HeuristicState[S any, A Action] interface {
	State[S, A]
	StateHeuristic
}

// Hasher is an optional capability that lets the visited set index states.
// Equal states must return equal hashes.
type Hasher interface {
	Hash() uint64
}

// Strategy names a search strategy.
type Strategy string

const (
	StrategyBreadthFirst       Strategy = "breadth_first"
	StrategyBreadthAll         Strategy = "breadth_all"
	StrategyDepthFirst         Strategy = "depth_first"
	StrategyDepthAll           Strategy = "depth_all"
	StrategyIterativeDeepening Strategy = "iterative_deepening"
	StrategyBestFirst          Strategy = "best_first"
	StrategyBestAll            Strategy = "best_all"
)

// Strategies returns every known strategy.
func Strategies() []Strategy {
	return []Strategy{
		StrategyBreadthFirst,
		StrategyBreadthAll,
		StrategyDepthFirst,
		StrategyDepthAll,
		StrategyIterativeDeepening,
		StrategyBestFirst,
		StrategyBestAll,
	}
}

// Validate checks if the strategy is known.
func (s Strategy) Validate() error {
	switch s {
	case StrategyBreadthFirst, StrategyBreadthAll, StrategyDepthFirst, StrategyDepthAll,
		StrategyIterativeDeepening, StrategyBestFirst, StrategyBestAll:
		return nil
	default:
		return fmt.Errorf("invalid search strategy: %s", s)
	}
}

// CollectsAll reports whether the strategy keeps searching after the first goal.
func (s Strategy) CollectsAll() bool {
	return s == StrategyBreadthAll || s == StrategyDepthAll || s == StrategyBestAll
}

// NeedsHeuristic reports whether the strategy ranks states by a heuristic.
func (s Strategy) NeedsHeuristic() bool {
	return s == StrategyBestFirst || s == StrategyBestAll
}

// Search is a state-space search engine over states S and actions A.
type Search[S State[S, A], A Action] struct {
	stats    Statistics
	visited  *visitedSet[S]
	logger   zerolog.Logger
	observer Observer
}

// Option configures a Search.
type Option func(*options)

type options struct {
	logger   zerolog.Logger
	observer Observer
}

// WithLogger sets the logger used for strategy lifecycle messages.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver registers an observer for engine callbacks.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// New creates an engine with zeroed statistics and an empty visited set.
func New[S State[S, A], A Action](opts ...Option) *Search[S, A] {
	o := options{
		logger:   zerolog.Nop(),
		observer: NopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Search[S, A]{
		visited:  newVisitedSet[S](),
		logger:   o.logger.With().Str("component", "search").Logger(),
		observer: o.observer,
	}
}

// Statistics returns a snapshot of the running statistics.
func (s *Search[S, A]) Statistics() Statistics {
	return s.stats
}

// begin and end bracket a public strategy call.
func (s *Search[S, A]) begin(strategy Strategy) time.Time {
	s.logger.Debug().
		Str("strategy", string(strategy)).
		Int("visited", s.visited.len()).
		Msg("Search started")
	s.observer.OnSearchStart(strategy)
	return time.Now()
}

func (s *Search[S, A]) end(strategy Strategy, started time.Time, found int) {
	s.logger.Debug().
		Str("strategy", string(strategy)).
		Int("found", found).
		Int("nodes_explored", s.stats.NodesExplored).
		Int("max_depth", s.stats.MaxDepth).
		Int("solutions", s.stats.Solutions).
		Dur("elapsed", time.Since(started)).
		Msg("Search finished")
	s.observer.OnSearchEnd(strategy, s.stats, found)
}
