package nn

import (
	"math"
	"sort"
)

// Tuning constants for the GNAT tree. gnatDegree bounds how many pivot
// children a node splits into; gnatBucketSize is how many elements a
// leaf accumulates before it splits. Both are the Go-sized analogues of
// OMPL's NearestNeighborsGNAT degree/size parameters, picked small since
// this index targets a single planning run's tree rather than
// OMPL's general-purpose corpus sizes.
const (
	gnatDegree     = 8
	gnatBucketSize = 16
)

type gnatNode[T comparable] struct {
	pivot    T
	radius   float64 // max distance from pivot to any element ever inserted into this subtree, tombstoned ones included
	children []*gnatNode[T]
	bucket   []T // unsplit elements owned directly by this node, when it has no children
}

// GNAT is a simplified Geometric Near-neighbor Access Tree: a hierarchy
// of pivot-clustered subtrees, pruned during search using the triangle
// inequality (a subtree rooted at a pivot with recorded radius r cannot
// contain any element closer to the query than dist(query, pivot) - r).
// It trades OMPL's per-pivot range trees and exact multi-way partition
// for a single nearest-pivot descent, which is simpler to implement
// correctly in Go while preserving the same asymptotic idea: distance
// computations against a query are amortized against the tree's
// branching factor instead of against every stored element, which is
// what motionplan/nearestNeighbor.go's linear scan has to do.
//
// Removal is lazy: deleted elements are tombstoned and skipped by
// queries; the tree is rebuilt from its live elements once tombstones
// exceed half the live set, since GNAT pivots cannot be removed in
// place without invalidating the radius invariants of their ancestors.
type GNAT[T comparable] struct {
	dist DistanceFunc[T]

	root         *gnatNode[T]
	size         int
	deleted      map[T]struct{}
	deletedCount int
}

// NewGNAT builds a GNAT index using dist as the metric.
func NewGNAT[T comparable](dist DistanceFunc[T]) *GNAT[T] {
	return &GNAT[T]{dist: dist, deleted: map[T]struct{}{}}
}

// Add implements Index.
func (g *GNAT[T]) Add(x T) {
	g.size++
	if g.root == nil {
		g.root = &gnatNode[T]{pivot: x}
		return
	}
	g.root.insert(x, g.dist)
}

func (n *gnatNode[T]) insert(x T, dist DistanceFunc[T]) {
	if d := dist(n.pivot, x); d > n.radius {
		n.radius = d
	}
	if len(n.children) == 0 {
		n.bucket = append(n.bucket, x)
		if len(n.bucket) >= gnatBucketSize {
			n.split(dist)
		}
		return
	}
	best := n.children[0]
	bestDist := dist(best.pivot, x)
	for _, c := range n.children[1:] {
		if d := dist(c.pivot, x); d < bestDist {
			bestDist = d
			best = c
		}
	}
	best.insert(x, dist)
}

// split converts an over-full leaf into an internal node with freshly
// chosen pivot children, picked by farthest-point sampling so pivots are
// spread across the bucket rather than clustered together, then
// redistributes the remaining elements to the nearest new pivot.
func (n *gnatNode[T]) split(dist DistanceFunc[T]) {
	bucket := n.bucket
	n.bucket = nil

	degree := gnatDegree
	if degree > len(bucket) {
		degree = len(bucket)
	}

	used := make([]bool, len(bucket))
	pivots := make([]T, 0, degree)

	farIdx, farDist := 0, -1.0
	for i, e := range bucket {
		if d := dist(n.pivot, e); d > farDist {
			farDist, farIdx = d, i
		}
	}
	pivots = append(pivots, bucket[farIdx])
	used[farIdx] = true

	for len(pivots) < degree {
		bestIdx, bestMinDist := -1, -1.0
		for i, e := range bucket {
			if used[i] {
				continue
			}
			minDist := math.Inf(1)
			for _, p := range pivots {
				if d := dist(p, e); d < minDist {
					minDist = d
				}
			}
			if minDist > bestMinDist {
				bestMinDist, bestIdx = minDist, i
			}
		}
		if bestIdx == -1 {
			break
		}
		pivots = append(pivots, bucket[bestIdx])
		used[bestIdx] = true
	}

	for _, p := range pivots {
		n.children = append(n.children, &gnatNode[T]{pivot: p})
	}

	for i, e := range bucket {
		if used[i] {
			continue // already installed as a child pivot
		}
		best := n.children[0]
		bestDist := dist(best.pivot, e)
		for _, c := range n.children[1:] {
			if d := dist(c.pivot, e); d < bestDist {
				bestDist, best = d, c
			}
		}
		best.insert(e, dist)
	}
}

type gnatCandidate[T any] struct {
	elem T
	dist float64
}

// search performs a best-first, triangle-inequality-pruned traversal.
// When byRadius is true, r is a fixed inclusion radius and every match
// is returned. Otherwise k bounds the result count and the search
// tightens its pruning bound once k candidates have been found.
func (g *GNAT[T]) search(x T, k int, r float64, byRadius bool) []gnatCandidate[T] {
	var results []gnatCandidate[T]
	bound := math.Inf(1)
	if byRadius {
		bound = r
	}

	consider := func(e T, d float64) {
		if _, dead := g.deleted[e]; dead {
			return
		}
		if d > bound {
			return
		}
		results = append(results, gnatCandidate[T]{elem: e, dist: d})
		if !byRadius && k > 0 && len(results) > k {
			sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
			results = results[:k]
			bound = results[len(results)-1].dist
		}
	}

	var visit func(n *gnatNode[T])
	visit = func(n *gnatNode[T]) {
		if n == nil {
			return
		}
		consider(n.pivot, g.dist(n.pivot, x))
		for _, e := range n.bucket {
			consider(e, g.dist(e, x))
		}

		type scoredChild struct {
			c *gnatNode[T]
			d float64
		}
		scored := make([]scoredChild, len(n.children))
		for i, c := range n.children {
			scored[i] = scoredChild{c: c, d: g.dist(c.pivot, x)}
		}
		sort.Slice(scored, func(i, j int) bool { return scored[i].d < scored[j].d })
		for _, sc := range scored {
			if sc.d-sc.c.radius > bound {
				continue // triangle-inequality prune: subtree can't beat the current bound
			}
			visit(sc.c)
		}
	}
	visit(g.root)

	sort.Slice(results, func(i, j int) bool { return results[i].dist < results[j].dist })
	if !byRadius && k > 0 && len(results) > k {
		results = results[:k]
	}
	return results
}

// Nearest implements Index.
func (g *GNAT[T]) Nearest(x T) (T, error) {
	var zero T
	if g.size == 0 {
		return zero, ErrNotFound
	}
	res := g.search(x, 1, 0, false)
	if len(res) == 0 {
		return zero, ErrNotFound
	}
	return res[0].elem, nil
}

// NearestK implements Index.
func (g *GNAT[T]) NearestK(x T, k int) []T {
	res := g.search(x, k, 0, false)
	out := make([]T, len(res))
	for i, c := range res {
		out[i] = c.elem
	}
	return out
}

// NearestR implements Index.
func (g *GNAT[T]) NearestR(x T, r float64) []T {
	res := g.search(x, 0, r, true)
	out := make([]T, len(res))
	for i, c := range res {
		out[i] = c.elem
	}
	return out
}

// Remove implements Index.
func (g *GNAT[T]) Remove(x T) bool {
	if _, dead := g.deleted[x]; dead {
		return false
	}
	if !g.contains(x) {
		return false
	}
	g.deleted[x] = struct{}{}
	g.deletedCount++
	g.size--
	if g.size == 0 {
		g.Clear()
		return true
	}
	if g.deletedCount*2 > g.size {
		g.rebuild()
	}
	return true
}

func (g *GNAT[T]) contains(x T) bool {
	for _, e := range g.List() {
		if e == x {
			return true
		}
	}
	return false
}

func (g *GNAT[T]) rebuild() {
	remaining := g.List()
	g.root = nil
	g.deleted = map[T]struct{}{}
	g.deletedCount = 0
	g.size = 0
	for _, e := range remaining {
		g.Add(e)
	}
}

// Size implements Index.
func (g *GNAT[T]) Size() int { return g.size }

// List implements Index.
func (g *GNAT[T]) List() []T {
	var out []T
	var visit func(n *gnatNode[T])
	visit = func(n *gnatNode[T]) {
		if n == nil {
			return
		}
		if _, dead := g.deleted[n.pivot]; !dead {
			out = append(out, n.pivot)
		}
		for _, e := range n.bucket {
			if _, dead := g.deleted[e]; !dead {
				out = append(out, e)
			}
		}
		for _, c := range n.children {
			visit(c)
		}
	}
	visit(g.root)
	return out
}

// Clear implements Index.
func (g *GNAT[T]) Clear() {
	g.root = nil
	g.size = 0
	g.deleted = map[T]struct{}{}
	g.deletedCount = 0
}
