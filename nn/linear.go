package nn

import "sort"

// Linear is the reference nearest-neighbor index: an exhaustive scan over
// every stored element. It is always correct and is the baseline the
// hierarchical index is checked against; it is preferable for small
// trees or exotic distance functions where building a metric tree isn't
// worth it, mirroring the teacher's own un-indexed map scan in
// motionplan/nearestNeighbor.go before parallelization kicks in.
type Linear[T comparable] struct {
	dist  DistanceFunc[T]
	elems []T
}

// NewLinear builds a Linear index using dist as the metric.
func NewLinear[T comparable](dist DistanceFunc[T]) *Linear[T] {
	return &Linear[T]{dist: dist}
}

// Add implements Index.
func (l *Linear[T]) Add(x T) {
	l.elems = append(l.elems, x)
}

// Remove implements Index.
func (l *Linear[T]) Remove(x T) bool {
	for i, e := range l.elems {
		if e == x {
			l.elems = append(l.elems[:i], l.elems[i+1:]...)
			return true
		}
	}
	return false
}

// Nearest implements Index.
func (l *Linear[T]) Nearest(x T) (T, error) {
	var zero T
	if len(l.elems) == 0 {
		return zero, ErrNotFound
	}
	best := l.elems[0]
	bestDist := l.dist(x, best)
	for _, e := range l.elems[1:] {
		if d := l.dist(x, e); d < bestDist {
			bestDist = d
			best = e
		}
	}
	return best, nil
}

// NearestK implements Index.
func (l *Linear[T]) NearestK(x T, k int) []T {
	sorted := l.sortedByDistance(x)
	if k > len(sorted) {
		k = len(sorted)
	}
	out := make([]T, k)
	for i := 0; i < k; i++ {
		out[i] = sorted[i].elem
	}
	return out
}

// NearestR implements Index.
func (l *Linear[T]) NearestR(x T, r float64) []T {
	var out []T
	for _, sd := range l.sortedByDistance(x) {
		if sd.dist <= r {
			out = append(out, sd.elem)
		}
	}
	return out
}

// Size implements Index.
func (l *Linear[T]) Size() int { return len(l.elems) }

// List implements Index.
func (l *Linear[T]) List() []T {
	out := make([]T, len(l.elems))
	copy(out, l.elems)
	return out
}

// Clear implements Index.
func (l *Linear[T]) Clear() { l.elems = nil }

type scoredElem[T any] struct {
	elem T
	dist float64
}

func (l *Linear[T]) sortedByDistance(x T) []scoredElem[T] {
	scored := make([]scoredElem[T], len(l.elems))
	for i, e := range l.elems {
		scored[i] = scoredElem[T]{elem: e, dist: l.dist(x, e)}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].dist < scored[j].dist })
	return scored
}
