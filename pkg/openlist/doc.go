// Package openlist provides the frontier ("open list") containers used by the
// search engine.
//
// # Disciplines
//
// Two contracts are defined:
//
//   - OpenList: unweighted insertion; the container decides the removal order.
//     Queue removes in insertion order (FIFO) and backs breadth-first search.
//     Stack removes in reverse insertion order (LIFO) and backs depth-first and
//     iterative-deepening search.
//   - PriorityOpenList: weighted insertion. PrioList keeps elements sorted by
//     ascending weight and removes the lightest first. Elements with equal
//     weight leave in the order they were added.
//
// # Thread Safety
//
// None of the containers are safe for concurrent use. Each search owns its
// frontier exclusively.
package openlist
