package scripted

import (
	"slices"
	"strings"

	"go.starlark.net/starlark"

	"github.com/openfroyo/statesearch/pkg/search"
)

// Action is a script-defined action value with its cost.
type Action struct {
	value starlark.Value
	cost  float64
}

// NewAction wraps a Starlark value as an action.
func NewAction(value starlark.Value, cost float64) Action {
	return Action{value: value, cost: cost}
}

func (a Action) Cost() float64 {
	return a.cost
}

// Value returns the underlying Starlark value.
func (a Action) Value() starlark.Value {
	return a.value
}

// Interface converts the action value to plain Go values.
func (a Action) Interface() (interface{}, error) {
	return fromStarlarkValue(a.value)
}

func (a Action) String() string {
	if a.value == nil {
		return "None"
	}
	return a.value.String()
}

// State is a script-defined state value plus the path that reached it.
type State struct {
	model *Model
	value starlark.Value
	path  []Action
	cost  float64
}

var _ search.HeuristicState[*State, Action] = (*State)(nil)
var _ search.Hasher = (*State)(nil)

// Value returns the underlying Starlark value.
func (s *State) Value() starlark.Value {
	return s.value
}

func (s *State) ApplyAction(action Action) *State {
	path := make([]Action, 0, len(s.path)+1)
	path = append(path, s.path...)
	path = append(path, action)

	next := &State{model: s.model, value: starlark.None, path: path, cost: s.cost + action.cost}
	if v, ok := s.model.call(s.model.apply, s.value, action.value); ok {
		next.value = v
	}
	return next
}

func (s *State) ApplicableActions() []Action {
	return s.model.actionsOf(s.value)
}

func (s *State) PartialSolution() []Action {
	return slices.Clone(s.path)
}

func (s *State) SolutionCost() float64 {
	return s.cost
}

func (s *State) IsSolution() bool {
	v, ok := s.model.call(s.model.isGoal, s.value)
	return ok && bool(v.Truth())
}

func (s *State) StateLevel() int {
	return len(s.path)
}

// Heuristic calls heuristic(state), or returns 0 when the script has none.
func (s *State) Heuristic() float64 {
	if s.model.heuristic == nil {
		return 0
	}
	h, _ := s.model.callNumber(s.model.heuristic, s.value)
	return h
}

func (s *State) Equal(other *State) bool {
	if other == nil {
		return false
	}
	eq, err := starlark.Equal(s.value, other.value)
	if err != nil {
		s.model.fail(err)
		return false
	}
	return eq
}

// Hash returns the Starlark hash of the value. Unhashable values, such as
// lists, all hash to zero.
func (s *State) Hash() uint64 {
	h, err := s.value.Hash()
	if err != nil {
		return 0
	}
	return uint64(h)
}

func (s *State) String() string {
	return s.value.String()
}

// FormatPath renders an action sequence on one line.
func FormatPath(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}
