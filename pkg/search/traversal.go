package search

// findSolutions runs the shared traversal from initial over open.
//
// A state taken from the frontier is skipped if it was already visited.
// Otherwise it is recorded as visited and counted. Goal states are collected
// and never expanded. Non-goal states are expanded unless limit > 0 and their
// level has reached limit; successors that are already visited are not
// pushed. With all unset the loop returns after the first goal.
func (s *Search[S, A]) findSolutions(initial S, open frontier[S], all bool, limit int) [][]A {
	var solutions [][]A

	open.clear()
	open.push(initial)

	for {
		current, ok := open.pop()
		if !ok {
			break
		}
		if s.visited.contains(current) {
			continue
		}
		s.visited.add(current)

		level := current.StateLevel()
		s.stats.NodesExplored++
		s.stats.MaxDepth = max(s.stats.MaxDepth, level)
		s.observer.OnNodeExplored(level, open.len())

		if current.IsSolution() {
			s.stats.Solutions++
			solutions = append(solutions, current.PartialSolution())
			s.observer.OnSolution(level, current.SolutionCost())
			s.logger.Trace().
				Int("level", level).
				Float64("cost", current.SolutionCost()).
				Msg("Solution found")
			if !all {
				return solutions
			}
			continue
		}

		if limit > 0 && level >= limit {
			continue
		}

		for _, action := range current.ApplicableActions() {
			next := current.ApplyAction(action)
			if !s.visited.contains(next) {
				open.push(next)
			}
		}
	}

	return solutions
}

// lastSolution returns the most recently found solution.
func lastSolution[A any](solutions [][]A) ([]A, bool) {
	if len(solutions) == 0 {
		return nil, false
	}
	return solutions[len(solutions)-1], true
}
