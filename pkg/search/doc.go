// Package search provides a generic state-space search engine.
//
// # Overview
//
// A caller describes a problem through two capabilities: an Action with a
// cost, and a State that can list its applicable actions, apply one to produce
// a successor, report the action path that reached it, and test itself for
// the goal. The engine explores the reachable state graph and returns one or
// all action sequences that reach a goal.
//
// All strategies share a single traversal loop. They differ only in the
// frontier plugged into it:
//
//   - Breadth-first: FIFO queue, shallowest goals first.
//   - Depth-first: LIFO stack, most recently generated state first.
//   - Iterative deepening: repeated depth-limited depth-first rounds.
//   - Best-first (A*): weighted list ranked by SolutionCost() + Heuristic().
//
// # Deduplication
//
// The engine keeps a visited set of every state it has processed. A state
// equal to a visited one (per State.Equal) is never expanded again, even when
// it is reached later through a cheaper path. If the state type also
// implements Hasher the visited set is bucketed by hash; otherwise membership
// is a linear scan. Both give the same answers.
//
// # Statistics
//
// Each engine keeps running Statistics for its whole lifetime. They are not
// reset between calls, and neither is the visited set, so a fresh engine
// should be used per problem.
//
// # Basic Usage
//
//	engine := search.New[*numbers.State, numbers.Action]()
//	path, ok := engine.SearchBreadthFirst(numbers.NewState([]int{2, 4}, 6))
//	if ok {
//	    fmt.Println(path)
//	}
//	fmt.Println(engine.Statistics())
//
// Best-first search is a package-level function because it needs the extra
// StateHeuristic capability:
//
//	path, ok := search.SearchBestFirst(engine, initial)
//
// # Thread Safety
//
// An engine is not safe for concurrent use. Run independent engines for
// independent problems.
package search
