package search

// SearchBreadthFirst returns a solution of minimal level, if any is reachable.
func (s *Search[S, A]) SearchBreadthFirst(initial S) ([]A, bool) {
	started := s.begin(StrategyBreadthFirst)
	path, ok := lastSolution(s.findSolutions(initial, newQueueFrontier[S](), false, 0))
	s.end(StrategyBreadthFirst, started, count(ok))
	return path, ok
}

// SearchBreadthAll returns every solution found by exhaustive breadth-first
// search, in non-decreasing level order.
func (s *Search[S, A]) SearchBreadthAll(initial S) [][]A {
	started := s.begin(StrategyBreadthAll)
	solutions := s.findSolutions(initial, newQueueFrontier[S](), true, 0)
	s.end(StrategyBreadthAll, started, len(solutions))
	return solutions
}

// SearchDepthFirst returns the first solution found depth-first. It is not
// necessarily the shortest.
func (s *Search[S, A]) SearchDepthFirst(initial S) ([]A, bool) {
	started := s.begin(StrategyDepthFirst)
	path, ok := lastSolution(s.findSolutions(initial, newStackFrontier[S](), false, 0))
	s.end(StrategyDepthFirst, started, count(ok))
	return path, ok
}

// SearchDepthAll returns every solution found by exhaustive depth-first search.
func (s *Search[S, A]) SearchDepthAll(initial S) [][]A {
	started := s.begin(StrategyDepthAll)
	solutions := s.findSolutions(initial, newStackFrontier[S](), true, 0)
	s.end(StrategyDepthAll, started, len(solutions))
	return solutions
}

// SearchIterativeDeepeningFirst runs depth-limited depth-first rounds with
// limits step, 2*step, 3*step, ... and returns the first solution found.
//
// The visited set is cleared between rounds. The search gives up when a
// round finds nothing and the limit already exceeds the deepest level ever
// processed by this engine. A step of zero or less runs a single unlimited
// round.
func (s *Search[S, A]) SearchIterativeDeepeningFirst(initial S, step int) ([]A, bool) {
	started := s.begin(StrategyIterativeDeepening)

	limit := max(step, 0)
	for {
		s.observer.OnDeepening(limit)
		s.logger.Trace().Int("limit", limit).Msg("Deepening round")

		path, ok := lastSolution(s.findSolutions(initial, newStackFrontier[S](), false, limit))
		if ok {
			s.end(StrategyIterativeDeepening, started, 1)
			return path, true
		}
		if limit < 1 || limit > s.stats.MaxDepth {
			s.end(StrategyIterativeDeepening, started, 0)
			return nil, false
		}

		limit += step
		s.visited.clear()
	}
}

// SearchBestFirst runs best-first (A*) search ranked by
// SolutionCost() + Heuristic() and returns the first solution found. With a
// consistent heuristic it is a minimum-cost solution.
func SearchBestFirst[S HeuristicState[S, A], A Action](s *Search[S, A], initial S) ([]A, bool) {
	started := s.begin(StrategyBestFirst)
	path, ok := lastSolution(s.findSolutions(initial, newBestFrontier[S, A](), false, 0))
	s.end(StrategyBestFirst, started, count(ok))
	return path, ok
}

// SearchBestAll is the exhaustive variant of SearchBestFirst. Solutions come
// back in the order they were popped from the frontier.
func SearchBestAll[S HeuristicState[S, A], A Action](s *Search[S, A], initial S) [][]A {
	started := s.begin(StrategyBestAll)
	solutions := s.findSolutions(initial, newBestFrontier[S, A](), true, 0)
	s.end(StrategyBestAll, started, len(solutions))
	return solutions
}

func count(found bool) int {
	if found {
		return 1
	}
	return 0
}
