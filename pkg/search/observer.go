package search

// Observer receives callbacks from the engine while it searches. All calls
// happen synchronously on the searching goroutine.
type Observer interface {
	// OnSearchStart is called once when a strategy entry point begins.
	OnSearchStart(strategy Strategy)

	// OnNodeExplored is called for every state that passes deduplication.
	OnNodeExplored(level, frontierLen int)

	// OnSolution is called for every goal state found.
	OnSolution(level int, cost float64)

	// OnDeepening is called before each iterative-deepening round.
	OnDeepening(limit int)

	// OnSearchEnd is called once when a strategy entry point returns.
	OnSearchEnd(strategy Strategy, stats Statistics, found int)
}

// NopObserver ignores every callback.
type NopObserver struct{}

func (NopObserver) OnSearchStart(Strategy)                {}
func (NopObserver) OnNodeExplored(int, int)               {}
func (NopObserver) OnSolution(int, float64)               {}
func (NopObserver) OnDeepening(int)                       {}
func (NopObserver) OnSearchEnd(Strategy, Statistics, int) {}
