package rrtstar

import "math"

// Result is the outcome of result extraction (§4.F): an ordered
// sequence of states from the root to the best node found, its
// cumulative cost, and whether that node actually lies in the goal
// region (Exact) or is merely the tree's closest approach (Approximate).
type Result[S any, C any] struct {
	Status Status
	Path   []S
	Cost   C
}

// Result performs result extraction. If Solve recorded a goal node,
// backtrack it to the root and report Exact. Otherwise fall back to
// whatever node in the tree is closest to the goal region and report
// Approximate. A tree that never grew beyond the root reports None with
// an empty path, per §4.F: a lone root is not an approximate solution,
// it is no solution at all.
func (p *Planner[S, C]) Result() Result[S, C] {
	if p.arena == nil || p.arena.size() <= 1 {
		return Result[S, C]{Status: StatusNone}
	}

	goalNode := p.best
	status := StatusExact
	if goalNode == nil {
		status = StatusApproximate
		goalNode = p.closestToGoal()
	}
	if goalNode == nil {
		return Result[S, C]{Status: StatusNone}
	}

	path := p.arena.pathToRoot(goalNode)
	states := make([]S, len(path))
	for i, n := range path {
		states[i] = n.state
	}
	return Result[S, C]{Status: status, Path: states, Cost: goalNode.cost}
}

// closestToGoal scans every node in the tree for the smallest
// GoalDistance, used only when Solve never recorded an exact goal node.
func (p *Planner[S, C]) closestToGoal() *motionNode[S, C] {
	var best *motionNode[S, C]
	bestDist := math.Inf(1)
	for _, n := range p.arena.nodes {
		d := p.space.GoalDistance(n.state)
		if d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}
