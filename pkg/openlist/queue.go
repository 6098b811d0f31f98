package openlist

// Queue is a first-in-first-out open list.
type Queue[T any] struct {
	items []T
	head  int
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Add appends an element to the tail.
func (q *Queue[T]) Add(element T) {
	q.items = append(q.items, element)
}

// Get removes the element at the head.
func (q *Queue[T]) Get() (T, bool) {
	var zero T
	if q.IsEmpty() {
		return zero, false
	}

	element := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// Reclaim the consumed prefix once it dominates the backing array.
	if q.head > len(q.items)/2 {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return element, true
}

// Peek returns the element at the head without removing it.
func (q *Queue[T]) Peek() (T, bool) {
	if q.IsEmpty() {
		var zero T
		return zero, false
	}
	return q.items[q.head], true
}

// IsEmpty reports whether the queue is empty.
func (q *Queue[T]) IsEmpty() bool {
	return q.Len() == 0
}

// Len returns the number of queued elements.
func (q *Queue[T]) Len() int {
	return len(q.items) - q.head
}

// Clear empties the queue.
func (q *Queue[T]) Clear() {
	clear(q.items)
	q.items = q.items[:0]
	q.head = 0
}
