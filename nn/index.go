// Package nn implements the dynamic metric-space nearest-neighbor index
// consumed by the planner core: online insertion, single-nearest,
// k-nearest, and radius queries over an arbitrary comparable element
// type, keyed by a caller-supplied distance function. It is grounded on
// OMPL's NearestNeighbors<T> contract (see
// _examples/original_source/tests/datastructures/nearestneighbors.cpp)
// and the teacher's ad hoc linear/parallel scan in
// motionplan/nearestNeighbor.go, generalized into a pluggable interface
// with two additional concrete backends.
package nn

import "github.com/pkg/errors"

// ErrNotFound is returned by Nearest when the index is empty.
var ErrNotFound = errors.New("nn: no elements in index")

// DistanceFunc computes the distance between two elements. Implementations
// of Index rely on it being a proper metric (see space.Space.Distance).
type DistanceFunc[T any] func(a, b T) float64

// Index is a dynamic metric index over T, parameterized by a distance
// function supplied at construction. T is required to be comparable so
// Remove and membership checks can use equality directly, matching every
// concrete Index in this package.
type Index[T comparable] interface {
	// Add inserts x.
	Add(x T)

	// Remove deletes x if present, reporting whether it was found.
	Remove(x T) bool

	// Nearest returns the stored element minimizing distance to x. It
	// returns ErrNotFound if the index is empty.
	Nearest(x T) (T, error)

	// NearestK returns up to k closest elements, sorted ascending by
	// distance to x. If x itself is stored, it is returned first.
	NearestK(x T, k int) []T

	// NearestR returns every stored element within the closed ball of
	// radius r around x, sorted ascending by distance.
	NearestR(x T, r float64) []T

	// Size returns the number of live elements.
	Size() int

	// List returns every live element in unspecified order.
	List() []T

	// Clear removes every element.
	Clear()
}
