// Package numbers implements the numbers game as a search domain.
//
// A state holds a multiset of positive integers and a goal. Each action
// combines two of the numbers with +, -, * or / into a single new number.
// The goal is reached when the goal value appears among the numbers.
package numbers

import (
	"encoding/binary"
	"fmt"
	"slices"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/openfroyo/statesearch/pkg/search"
)

// Operation is an arithmetic operator.
type Operation int

const (
	Sum Operation = iota
	Sub
	Mul
	Div
)

func (o Operation) String() string {
	switch o {
	case Sum:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

// Action combines N1 and N2 with Op.
type Action struct {
	N1 int
	N2 int
	Op Operation
}

// NewAction builds an action. Operands of the commutative operators are
// ordered so that N1 <= N2.
func NewAction(n1, n2 int, op Operation) Action {
	if n2 < n1 && (op == Sum || op == Mul) {
		n1, n2 = n2, n1
	}
	return Action{N1: n1, N2: n2, Op: op}
}

// Cost is 1 for every action.
func (a Action) Cost() float64 {
	return 1
}

// Result computes the action's value. ok is false for an inexact division or
// a division by zero.
func (a Action) Result() (int, bool) {
	switch a.Op {
	case Sum:
		return a.N1 + a.N2, true
	case Sub:
		return a.N1 - a.N2, true
	case Mul:
		return a.N1 * a.N2, true
	case Div:
		if a.N2 != 0 && a.N1%a.N2 == 0 {
			return a.N1 / a.N2, true
		}
	}
	return 0, false
}

func (a Action) String() string {
	return fmt.Sprintf("[ %d %s %d ]", a.N1, a.Op, a.N2)
}

// compareResults orders actions by result, with invalid results first.
func compareResults(a, b Action) int {
	ra, oka := a.Result()
	rb, okb := b.Result()
	switch {
	case !oka && !okb:
		return 0
	case !oka:
		return -1
	case !okb:
		return 1
	}
	return ra - rb
}

// State is an immutable numbers game position.
type State struct {
	numbers []int
	goal    int
	actions []Action
}

var _ search.HeuristicState[*State, Action] = (*State)(nil)
var _ search.Hasher = (*State)(nil)

// NewState creates an initial state. The numbers are copied and sorted.
func NewState(numbers []int, goal int) *State {
	ns := slices.Clone(numbers)
	slices.Sort(ns)
	return &State{numbers: ns, goal: goal}
}

// Numbers returns a copy of the current numbers, sorted ascending.
func (s *State) Numbers() []int {
	return slices.Clone(s.numbers)
}

// Goal returns the target value.
func (s *State) Goal() int {
	return s.goal
}

// ApplyAction removes both operands, adds the result and records the action.
// The action must be one of ApplicableActions.
func (s *State) ApplyAction(action Action) *State {
	i1, i2 := -1, -1
	for i, n := range s.numbers {
		if n == action.N1 && i1 < 0 {
			i1 = i
			continue
		}
		if n == action.N2 && i2 < 0 {
			i2 = i
		}
	}
	if i1 < 0 || i2 < 0 {
		panic(fmt.Sprintf("numbers: action %s does not apply to %v", action, s.numbers))
	}
	result, ok := action.Result()
	if !ok {
		panic(fmt.Sprintf("numbers: action %s has no result", action))
	}

	numbers := make([]int, 0, len(s.numbers)-1)
	for i, n := range s.numbers {
		if i != i1 && i != i2 {
			numbers = append(numbers, n)
		}
	}
	numbers = append(numbers, result)
	slices.Sort(numbers)

	actions := make([]Action, 0, len(s.actions)+1)
	actions = append(actions, s.actions...)
	actions = append(actions, action)
	slices.SortStableFunc(actions, compareResults)

	return &State{numbers: numbers, goal: s.goal, actions: actions}
}

// ApplicableActions lists, for every pair of numbers in order, the
// operations with a positive integer result.
func (s *State) ApplicableActions() []Action {
	var actions []Action
	for i1 := 0; i1 < len(s.numbers)-1; i1++ {
		n1 := s.numbers[i1]
		for i2 := i1 + 1; i2 < len(s.numbers); i2++ {
			n2 := s.numbers[i2]
			for _, a := range [...]Action{
				NewAction(n1, n2, Sum),
				NewAction(n1, n2, Sub),
				NewAction(n2, n1, Sub),
				NewAction(n1, n2, Mul),
				NewAction(n1, n2, Div),
				NewAction(n2, n1, Div),
			} {
				if r, ok := a.Result(); ok && r > 0 {
					actions = append(actions, a)
				}
			}
		}
	}
	return actions
}

func (s *State) PartialSolution() []Action {
	return slices.Clone(s.actions)
}

func (s *State) SolutionCost() float64 {
	var cost float64
	for _, a := range s.actions {
		cost += a.Cost()
	}
	return cost
}

func (s *State) IsSolution() bool {
	return slices.Contains(s.numbers, s.goal)
}

func (s *State) StateLevel() int {
	return len(s.actions)
}

// Heuristic is the distance from the closest number to the goal, relative
// to the goal.
func (s *State) Heuristic() float64 {
	if s.goal == 0 {
		return 0
	}
	minDiff := abs(s.goal)
	if len(s.numbers) > 0 {
		minDiff = abs(s.goal - s.numbers[0])
		for _, n := range s.numbers[1:] {
			minDiff = min(minDiff, abs(s.goal-n))
		}
	}
	return float64(minDiff) / float64(abs(s.goal))
}

func (s *State) Equal(other *State) bool {
	if other == nil {
		return false
	}
	return s.goal == other.goal &&
		slices.Equal(s.numbers, other.numbers) &&
		slices.Equal(s.actions, other.actions)
}

// Hash digests the numbers, the goal and the action path.
func (s *State) Hash() uint64 {
	buf := make([]byte, 0, 8*(2+len(s.numbers)+3*len(s.actions)))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(s.goal))
	buf = binary.LittleEndian.AppendUint64(buf, uint64(len(s.numbers)))
	for _, n := range s.numbers {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(n))
	}
	for _, a := range s.actions {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(a.N1))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(a.N2))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(a.Op))
	}
	return xxhash.Sum64(buf)
}

func (s *State) String() string {
	return fmt.Sprintf("numbers=%v goal=%d path=%s", s.numbers, s.goal, FormatPath(s.actions))
}

// FormatPath renders an action sequence on one line.
func FormatPath(actions []Action) string {
	parts := make([]string, len(actions))
	for i, a := range actions {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
