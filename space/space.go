// Package space defines the state-space adaptor consumed by the planner
// core. Concrete configuration spaces (arm joint spaces, mobile-base
// poses, the toy Euclidean space in the euclidean subpackage) implement
// this interface; the planner never knows their concrete geometry.
package space

// Space is the state-space adaptor of the planner core. S is the
// caller-owned state representation, typically a pointer type so that
// Alloc/Copy/Free can reuse storage the way a C++ implementation would
// reuse a scoped buffer.
//
// Copy is not part of the distilled specification but is required by
// any Go rendition of it: the core needs to snapshot a scratch state
// (e.g. the result of Interpolate) into a newly allocated, permanently
// owned state without knowing S's internal layout.
type Space[S any] interface {
	// Alloc returns a new, zero-valued state.
	Alloc() S

	// Free releases a state obtained from Alloc. The core calls this on
	// every exit path, including iteration abort, so states never
	// outlive the arena.
	Free(s S)

	// Copy overwrites dst with src's value. dst and src must not alias.
	Copy(dst, src S)

	// SampleUniform draws a state from the space's sampler into out.
	SampleUniform(out S)

	// SampleGoal writes a known goal state into out and returns true, or
	// returns false if no goal state is known (e.g. only a goal region
	// predicate is available).
	SampleGoal(out S) bool

	// Distance is a proper metric: non-negative, zero iff a == b,
	// symmetric, and triangle-inequality-respecting. The nearest-
	// neighbor index relies on the triangle inequality for pruning.
	Distance(a, b S) float64

	// Interpolate places out on the geodesic from `from` to `to` at
	// parameter t, t=0 yielding `from` and t=1 yielding `to`.
	Interpolate(from, to S, t float64, out S)

	// CheckMotion validates the straight-line motion from `from` to
	// `to`. This is the expensive operation; the planner counts every
	// call. A deterministic implementation may also serve as a
	// state-validity check via CheckMotion(s, s).
	CheckMotion(from, to S) bool

	// IsGoal reports whether s lies in the goal region.
	IsGoal(s S) bool

	// GoalDistance is used to rank the best-effort node when no exact
	// solution is found.
	GoalDistance(s S) float64

	// Dimension is the reported dimensionality of the space, used by
	// the convergence-radius schedule.
	Dimension() int
}
