// Package rrtstar implements RRT*, an asymptotically-optimal
// sampling-based motion planner, over an opaque configuration space
// described entirely through the space.Space and objective.Objective
// adaptor interfaces. Callers supply a space, an objective, and an
// Options value to New, call Setup with a start state, then Solve with
// a context and a TerminationCondition; Result extracts the best path
// found so far at any point after Solve returns.
package rrtstar
