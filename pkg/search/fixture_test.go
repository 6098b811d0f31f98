package search_test

import (
	"slices"

	"github.com/openfroyo/statesearch/pkg/search"
)

// edge is a weighted arc of a test graph.
type edge struct {
	from, to string
	cost     float64
}

func (e edge) Cost() float64 { return e.cost }

type graph struct {
	adj   map[string][]edge
	goals map[string]bool
	h     map[string]float64
}

func newGraph(goals ...string) *graph {
	g := &graph{
		adj:   make(map[string][]edge),
		goals: make(map[string]bool),
		h:     make(map[string]float64),
	}
	for _, goal := range goals {
		g.goals[goal] = true
	}
	return g
}

func (g *graph) link(from, to string, cost float64) *graph {
	g.adj[from] = append(g.adj[from], edge{from: from, to: to, cost: cost})
	return g
}

func (g *graph) start(at string) node {
	return node{g: g, at: at}
}

// node is a position in a graph plus the path that reached it. Two nodes are
// equal when they sit on the same vertex.
type node struct {
	g    *graph
	at   string
	path []edge
	cost float64
}

var _ search.HeuristicState[node, edge] = node{}

func (n node) ApplyAction(e edge) node {
	path := append(slices.Clone(n.path), e)
	return node{g: n.g, at: e.to, path: path, cost: n.cost + e.cost}
}

func (n node) ApplicableActions() []edge { return n.g.adj[n.at] }
func (n node) PartialSolution() []edge   { return n.path }
func (n node) SolutionCost() float64     { return n.cost }
func (n node) IsSolution() bool          { return n.g.goals[n.at] }
func (n node) StateLevel() int           { return len(n.path) }
func (n node) Equal(other node) bool     { return n.at == other.at }
func (n node) Heuristic() float64        { return n.g.h[n.at] }

// vertices lists the vertices a path walks through after the start.
func vertices(path []edge) []string {
	out := make([]string, len(path))
	for i, e := range path {
		out[i] = e.to
	}
	return out
}

// twoRoutes has a short route S-A-G and a long route S-B-C-G. Depth-first
// search takes the long one because B is pushed last.
func twoRoutes() *graph {
	return newGraph("G").
		link("S", "A", 1).
		link("S", "B", 1).
		link("A", "G", 1).
		link("B", "C", 1).
		link("C", "G", 1)
}

// costTrap has a direct expensive edge to the goal and a cheaper detour.
func costTrap() *graph {
	return newGraph("G").
		link("S", "G", 10).
		link("S", "A", 1).
		link("A", "G", 2)
}

type recordingObserver struct {
	starts    []search.Strategy
	explored  int
	solutions int
	limits    []int
	ends      []int
	last      search.Statistics
}

func (r *recordingObserver) OnSearchStart(strategy search.Strategy) {
	r.starts = append(r.starts, strategy)
}

func (r *recordingObserver) OnNodeExplored(int, int) { r.explored++ }
func (r *recordingObserver) OnSolution(int, float64) { r.solutions++ }
func (r *recordingObserver) OnDeepening(limit int)   { r.limits = append(r.limits, limit) }

func (r *recordingObserver) OnSearchEnd(_ search.Strategy, stats search.Statistics, found int) {
	r.ends = append(r.ends, found)
	r.last = stats
}
