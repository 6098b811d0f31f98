package search

// visitedSet is the ordered sequence of processed states.
//
// When S implements Hasher the states are also indexed by hash, and only the
// matching bucket is scanned with Equal. Without it every lookup is a linear
// scan over all processed states.
type visitedSet[S interface{ Equal(S) bool }] struct {
	states  []S
	buckets map[uint64][]int
}

func newVisitedSet[S interface{ Equal(S) bool }]() *visitedSet[S] {
	v := &visitedSet[S]{}
	var zero S
	if _, ok := any(zero).(Hasher); ok {
		v.buckets = make(map[uint64][]int)
	}
	return v
}

func (v *visitedSet[S]) contains(state S) bool {
	if v.buckets != nil {
		for _, i := range v.buckets[any(state).(Hasher).Hash()] {
			if v.states[i].Equal(state) {
				return true
			}
		}
		return false
	}

	for _, seen := range v.states {
		if seen.Equal(state) {
			return true
		}
	}
	return false
}

func (v *visitedSet[S]) add(state S) {
	if v.buckets != nil {
		h := any(state).(Hasher).Hash()
		v.buckets[h] = append(v.buckets[h], len(v.states))
	}
	v.states = append(v.states, state)
}

func (v *visitedSet[S]) len() int {
	return len(v.states)
}

// clear forgets every state. Only iterative deepening does this, between rounds.
func (v *visitedSet[S]) clear() {
	clear(v.states)
	v.states = v.states[:0]
	if v.buckets != nil {
		clear(v.buckets)
	}
}
