package rrtstar

import "github.com/vela-robotics/rrtstar/space"

// nodeID indexes into arena.nodes. noParent marks the root or an
// unassigned parent, avoiding the raw-pointer parent/child cycle a
// naive translation of the teacher's *node graph would otherwise need;
// see DESIGN.md for the arena-by-index rationale, grounded on
// motionplan/node.go's basicNode generalized from a single concrete
// referenceframe.FrameSystemInputs payload to an opaque state S.
type nodeID int

const noParent nodeID = -1

// motionNode is the tree node of §3: a state, a parent link, the
// incremental and cumulative cost, and the exact inverse of parent as a
// children set.
type motionNode[S any, C any] struct {
	id       nodeID
	state    S
	parent   nodeID
	incCost  C
	cost     C
	children map[nodeID]struct{}
}

// Q exposes the node's state, mirroring the teacher's node.Q() accessor.
func (n *motionNode[S, C]) Q() S { return n.state }

// Cost exposes the node's cumulative cost, mirroring node.Cost().
func (n *motionNode[S, C]) Cost() C { return n.cost }

// arena owns every motion node for a planner's lifetime; parent and
// children references are indices, never pointers, so clear() can drop
// the whole tree by truncating a slice instead of walking a cyclic
// pointer graph.
type arena[S any, C any] struct {
	space space.Space[S]
	nodes []*motionNode[S, C]
	root  nodeID
}

func newArena[S any, C any](sp space.Space[S]) *arena[S, C] {
	return &arena[S, C]{space: sp, root: noParent}
}

func (a *arena[S, C]) addRoot(state S, identity C) *motionNode[S, C] {
	n := &motionNode[S, C]{
		id:       nodeID(len(a.nodes)),
		state:    state,
		parent:   noParent,
		cost:     identity,
		children: map[nodeID]struct{}{},
	}
	a.nodes = append(a.nodes, n)
	a.root = n.id
	return n
}

func (a *arena[S, C]) addChild(parent *motionNode[S, C], state S, incCost, cost C) *motionNode[S, C] {
	n := &motionNode[S, C]{
		id:       nodeID(len(a.nodes)),
		state:    state,
		parent:   parent.id,
		incCost:  incCost,
		cost:     cost,
		children: map[nodeID]struct{}{},
	}
	a.nodes = append(a.nodes, n)
	parent.children[n.id] = struct{}{}
	return n
}

func (a *arena[S, C]) node(id nodeID) *motionNode[S, C] { return a.nodes[id] }

func (a *arena[S, C]) isRoot(n *motionNode[S, C]) bool { return n.id == a.root }

// removeFromParent is step 1 of the re-parent protocol (§4.D): detach n
// from its current parent's children set. Named separately, as OMPL's
// RRTstar keeps it a distinct method (removeFromParent) rather than
// inlining it into reparent, so the invariant it maintains — children is
// the exact inverse of parent — has one place it's asserted.
func (a *arena[S, C]) removeFromParent(n *motionNode[S, C]) {
	if n.parent == noParent {
		return
	}
	delete(a.node(n.parent).children, n.id)
}

// reparent implements §4.D steps 1-2-3-4-5: detach, reassign, install
// the caller-computed incCost/cost (steps 3-4 are pure cost arithmetic
// the planner performs via the Objective adaptor, so the arena only
// stores the result), and attach to the new parent's children. Step 6,
// propagating the cost delta to descendants, is updateChildCosts below.
func (a *arena[S, C]) reparent(n, newParent *motionNode[S, C], incCost, cost C) {
	a.removeFromParent(n)
	n.parent = newParent.id
	n.incCost = incCost
	n.cost = cost
	newParent.children[n.id] = struct{}{}
}

// updateChildCosts is the update_child_costs traversal of §4.E: a
// depth-first walk recomputing each descendant's cumulative cost from
// its stored incCost, without any further calls to motion_cost.
func (a *arena[S, C]) updateChildCosts(n *motionNode[S, C], combine func(C, C) C) {
	for cid := range n.children {
		c := a.node(cid)
		c.cost = combine(n.cost, c.incCost)
		a.updateChildCosts(c, combine)
	}
}

// pathToRoot walks parent links from n back to the root and returns
// them in root-to-leaf order.
func (a *arena[S, C]) pathToRoot(n *motionNode[S, C]) []*motionNode[S, C] {
	path := []*motionNode[S, C]{n}
	cur := n
	for cur.parent != noParent {
		cur = a.node(cur.parent)
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// clear releases every node's state via the space adaptor and empties
// the arena; configuration (held by the planner, not the arena) is
// preserved.
func (a *arena[S, C]) clear() {
	for _, n := range a.nodes {
		a.space.Free(n.state)
	}
	a.nodes = nil
	a.root = noParent
}

func (a *arena[S, C]) size() int { return len(a.nodes) }
