package openlist

// Stack is a last-in-first-out open list.
type Stack[T any] struct {
	items []T
}

// NewStack creates an empty stack.
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// Add pushes an element on top of the stack.
func (s *Stack[T]) Add(element T) {
	s.items = append(s.items, element)
}

// Get pops the most recently added element.
func (s *Stack[T]) Get() (T, bool) {
	var zero T
	if len(s.items) == 0 {
		return zero, false
	}

	last := len(s.items) - 1
	element := s.items[last]
	s.items[last] = zero
	s.items = s.items[:last]

	return element, true
}

// Peek returns the most recently added element without removing it.
func (s *Stack[T]) Peek() (T, bool) {
	if len(s.items) == 0 {
		var zero T
		return zero, false
	}
	return s.items[len(s.items)-1], true
}

func (s *Stack[T]) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *Stack[T]) Len() int {
	return len(s.items)
}

func (s *Stack[T]) Clear() {
	clear(s.items)
	s.items = s.items[:0]
}
