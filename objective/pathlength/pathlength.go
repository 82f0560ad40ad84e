// Package pathlength provides the default additive-cost objective: the
// scalar path length under an L2 norm over a state's coordinate
// projection. It mirrors defaultDistanceFunc from the teacher's
// plannerOptions.go, which scores an edge by the two-norm of the
// per-input difference vector.
package pathlength

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Objective is a path-length cost over any state type S, given a
// projection from S onto a coordinate vector. Cost is plain float64,
// matching the vast majority of motion-planning cost functions while
// keeping the planner core's generic Objective contract intact.
type Objective[S any] struct {
	coords func(S) []float64
}

// New builds a path-length objective. coords must return a fresh slice
// (or one safe to read without mutation by the caller) representing s
// as a coordinate vector; MotionCost takes the L2 norm of the
// coordinate-wise difference between two states.
func New[S any](coords func(S) []float64) *Objective[S] {
	return &Objective[S]{coords: coords}
}

// Identity implements objective.Objective.
func (o *Objective[S]) Identity() float64 { return 0 }

// MotionCost implements objective.Objective.
func (o *Objective[S]) MotionCost(from, to S) float64 {
	a := o.coords(from)
	b := o.coords(to)
	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = b[i] - a[i]
	}
	return floats.Norm(diff, 2)
}

// Combine implements objective.Objective.
func (o *Objective[S]) Combine(a, b float64) float64 { return a + b }

// IsLess implements objective.Objective.
func (o *Objective[S]) IsLess(a, b float64) bool { return a < b }

// Infinite implements objective.Objective.
func (o *Objective[S]) Infinite() float64 { return math.Inf(1) }
