package search

import "github.com/openfroyo/statesearch/pkg/openlist"

// frontier is the pending-state store the traversal loop pulls from.
type frontier[S any] interface {
	push(state S)
	pop() (S, bool)
	len() int
	clear()
}

// plainFrontier adapts an unweighted open list (queue or stack).
type plainFrontier[S any] struct {
	list openlist.OpenList[S]
}

func (f plainFrontier[S]) push(state S)   { f.list.Add(state) }
func (f plainFrontier[S]) pop() (S, bool) { return f.list.Get() }
func (f plainFrontier[S]) len() int       { return f.list.Len() }
func (f plainFrontier[S]) clear()         { f.list.Clear() }

// weightedFrontier adapts a priority open list, computing each state's weight
// on insertion.
type weightedFrontier[S any] struct {
	list   openlist.PriorityOpenList[S]
	weight func(S) float64
}

func (f weightedFrontier[S]) push(state S)   { f.list.Add(state, f.weight(state)) }
func (f weightedFrontier[S]) pop() (S, bool) { return f.list.Get() }
func (f weightedFrontier[S]) len() int       { return f.list.Len() }
func (f weightedFrontier[S]) clear()         { f.list.Clear() }

func newQueueFrontier[S any]() frontier[S] {
	return plainFrontier[S]{list: openlist.NewQueue[S]()}
}

func newStackFrontier[S any]() frontier[S] {
	return plainFrontier[S]{list: openlist.NewStack[S]()}
}

func newBestFrontier[S HeuristicState[S, A], A Action]() frontier[S] {
	return weightedFrontier[S]{
		list: openlist.NewPrioList[S](),
		weight: func(state S) float64 {
			return state.SolutionCost() + state.Heuristic()
		},
	}
}
