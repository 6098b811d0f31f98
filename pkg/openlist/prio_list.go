package openlist

import "slices"

// PrioList is a sorted-insertion priority open list.
//
// Elements and their weights are stored in two parallel slices kept in
// ascending weight order. Insertion is a linear scan, which keeps ties in
// insertion order: among equal weights the earliest added is removed first.
type PrioList[T any] struct {
	elements []T
	weights  []float64
}

// NewPrioList creates an empty priority list.
func NewPrioList[T any]() *PrioList[T] {
	return &PrioList[T]{}
}

// Add inserts element immediately before the first stored element that is
// strictly heavier, or at the end if there is none. Elements already stored
// with the same weight stay ahead of the new one.
func (p *PrioList[T]) Add(element T, weight float64) {
	pos := len(p.elements)
	for i, w := range p.weights {
		if w > weight {
			pos = i
			break
		}
	}

	p.elements = slices.Insert(p.elements, pos, element)
	p.weights = slices.Insert(p.weights, pos, weight)
}

// Get removes the element with the lowest weight.
func (p *PrioList[T]) Get() (T, bool) {
	var zero T
	if len(p.elements) == 0 {
		return zero, false
	}

	element := p.elements[0]
	p.elements[0] = zero
	p.elements = p.elements[1:]
	p.weights = p.weights[1:]

	return element, true
}

// Peek returns the element with the lowest weight without removing it.
func (p *PrioList[T]) Peek() (T, bool) {
	if len(p.elements) == 0 {
		var zero T
		return zero, false
	}
	return p.elements[0], true
}

func (p *PrioList[T]) IsEmpty() bool {
	return len(p.elements) == 0
}

func (p *PrioList[T]) Len() int {
	return len(p.elements)
}

func (p *PrioList[T]) Clear() {
	clear(p.elements)
	p.elements = p.elements[:0]
	p.weights = p.weights[:0]
}
