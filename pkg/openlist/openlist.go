package openlist

// OpenList is a frontier whose removal order is fixed by the container.
type OpenList[T any] interface {
	// Add inserts an element.
	Add(element T)

	// Get removes and returns the next element. The boolean is false when
	// the list is empty.
	Get() (T, bool)

	// Peek returns the next element without removing it.
	Peek() (T, bool)

	// IsEmpty reports whether the list holds no elements.
	IsEmpty() bool

	// Len returns the number of elements.
	Len() int

	// Clear removes all elements.
	Clear()
}

// PriorityOpenList is a frontier ordered by a weight supplied on insertion.
type PriorityOpenList[T any] interface {
	// Add inserts an element with the given weight. Lower weights leave first.
	Add(element T, weight float64)

	Get() (T, bool)
	Peek() (T, bool)
	IsEmpty() bool
	Len() int
	Clear()
}

var (
	_ OpenList[int]         = (*Queue[int])(nil)
	_ OpenList[int]         = (*Stack[int])(nil)
	_ PriorityOpenList[int] = (*PrioList[int])(nil)
)
