package search

import "fmt"

// Statistics are the running counters of one engine.
type Statistics struct {
	// NodesExplored counts distinct states taken from the frontier and
	// processed.
	NodesExplored int `json:"nodes_explored" yaml:"nodes_explored"`

	// MaxDepth is the highest state level processed so far.
	MaxDepth int `json:"max_depth" yaml:"max_depth"`

	// Solutions counts goal states found, including those found while only
	// the first solution was wanted.
	Solutions int `json:"solutions" yaml:"solutions"`
}

func (s Statistics) String() string {
	return fmt.Sprintf("[ nodes_explored: %d, max_depth: %d, solutions: %d ]",
		s.NodesExplored, s.MaxDepth, s.Solutions)
}
