// Package rrtstar implements the core of an asymptotically-optimal
// sampling-based motion planner (RRT*): the tree growth and rewiring
// loop, decoupled from any concrete configuration-space geometry via
// the space and objective adaptor interfaces. It is grounded on the
// teacher's motionplan package (rrtStarConnect.go's choose-parent/
// rewire extend(), nearestNeighbor.go's neighbor manager, node.go's
// arena-style motion node) generalized from a fixed
// referenceframe.FrameSystemInputs payload and a hardcoded k-nearest
// search to the opaque, radius-query-driven algorithm of
// _examples/original_source/src/ompl/contrib/rrt_star/RRTstar.h.
package rrtstar

import (
	"context"
	"math"
	"math/rand"
	"reflect"
	"sort"
	"sync"
	"sync/atomic"

	"go.viam.com/utils"

	"github.com/vela-robotics/rrtstar/internal/planlog"
	"github.com/vela-robotics/rrtstar/nn"
	"github.com/vela-robotics/rrtstar/objective"
	"github.com/vela-robotics/rrtstar/space"
)

// parallelValidityCheckThreshold is the candidate-set size at or above which
// ParallelValidityChecks fans CheckMotion calls out across goroutines,
// mirroring the teacher's own neighborsBeforeParallelization gate in
// motionplan/nearestNeighbor.go: below it, per-goroutine overhead isn't
// worth paying.
const parallelValidityCheckThreshold = 8

// Status is the outcome of a Solve call (§6) or of a Result call
// (§4.F).
type Status int

// Solve returns StatusInvalidStart, StatusInvalidGoal, StatusExact or
// StatusTimeout. StatusApproximate and StatusNone are returned only by
// Result, which also returns StatusExact.
const (
	StatusInvalidStart Status = iota
	StatusInvalidGoal
	StatusExact
	StatusApproximate
	StatusTimeout
	StatusNone
)

func (s Status) String() string {
	switch s {
	case StatusInvalidStart:
		return "InvalidStart"
	case StatusInvalidGoal:
		return "InvalidGoal"
	case StatusExact:
		return "Exact"
	case StatusApproximate:
		return "Approximate"
	case StatusTimeout:
		return "Timeout"
	case StatusNone:
		return "None"
	default:
		return "Unknown"
	}
}

// TerminationCondition is polled once per iteration, before the
// iteration starts; it is not polled inside an iteration (after the
// radius query or the rewire step). It returns true when the caller
// wants solve to stop.
type TerminationCondition func() bool

// IndexKind selects among the nearest-neighbor backends in the nn
// package (§9's "NN index polymorphism"). The zero value is IndexGNAT.
type IndexKind int

const (
	IndexGNAT IndexKind = iota
	IndexLinear
	IndexSqrtApprox
)

// Option configures a Planner at construction time.
type Option[S any, C any] func(*Planner[S, C])

// WithLogger overrides the default no-op logger.
func WithLogger[S any, C any](logger planlog.Logger) Option[S, C] {
	return func(p *Planner[S, C]) { p.logger = logger }
}

// WithIndexKind selects the nearest-neighbor backend, mirroring OMPL's
// setNearestNeighbors<NN>() template method.
func WithIndexKind[S any, C any](kind IndexKind) Option[S, C] {
	return func(p *Planner[S, C]) { p.indexKind = kind }
}

// Planner is the RRT* core (component E of the system overview): a
// single-threaded, cooperative main loop over a state-space adaptor and
// an objective adaptor, growing and rewiring a tree via a pluggable
// nearest-neighbor index (component C) backed by a node arena
// (component D).
type Planner[S any, C any] struct {
	space     space.Space[S]
	objective objective.Objective[S, C]
	opts      Options
	logger    planlog.Logger
	indexKind IndexKind
	rng       *rand.Rand

	startState S
	haveStart  bool

	arena *arena[S, C]
	index nn.Index[*motionNode[S, C]]
	best  *motionNode[S, C]

	iterations      int
	collisionChecks int
	isSetup         bool
}

// New constructs a Planner over the given state-space and objective
// adaptors, storing borrowed references exactly as spec.md's
// new(space_info, objective) requires.
func New[S any, C any](
	sp space.Space[S],
	obj objective.Objective[S, C],
	opts Options,
	optFns ...Option[S, C],
) (*Planner[S, C], error) {
	if sp == nil {
		return nil, errNilSpace
	}
	if obj == nil {
		return nil, errNilObjective
	}
	p := &Planner[S, C]{
		space:     sp,
		objective: obj,
		opts:      opts,
		logger:    planlog.NewNop(),
		indexKind: IndexGNAT,
	}
	for _, fn := range optFns {
		fn(p)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	//nolint:gosec
	p.rng = rand.New(rand.NewSource(seed))
	p.logger = p.logger.With("seed", seed)
	return p, nil
}

// IterationLimit returns a TerminationCondition that fires after n
// iterations, the ready-made stand-in for a caller-authored
// TerminationCondition that spec.md §6 leaves as a bare function type.
func IterationLimit(n int) TerminationCondition {
	i := 0
	return func() bool {
		i++
		return i > n
	}
}

// isNilState reports whether s, a value of the caller-owned state type S,
// is nil. S is typically a pointer type, but since it's declared `any` the
// compiler doesn't let us write `s == nil` directly, so we fall back to
// reflection for the same check.
func isNilState[S any](s S) bool {
	v := reflect.ValueOf(s)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

// Options returns the planner's current configuration.
func (p *Planner[S, C]) Options() Options { return p.opts }

// SetOptions replaces the planner's configuration; illegal values are
// rejected on the next Setup call, matching §6 ("settable before
// setup() and between solve calls").
func (p *Planner[S, C]) SetOptions(opts Options) { p.opts = opts }

// Setup validates configuration, allocates the nearest-neighbor index,
// and inserts start as the root of the tree (§6). It must be called
// before the first Solve. Options set later with SetOptions are read
// directly by the next Solve; only Setup validates them, and the
// nearest-neighbor backend is chosen only here.
func (p *Planner[S, C]) Setup(start S) error {
	if cfgErr := p.opts.validate(); cfgErr != nil {
		p.logger.Errorf("rrtstar: setup rejected invalid configuration: %v", cfgErr)
		return cfgErr
	}
	root := p.space.Alloc()
	if isNilState(root) {
		return errAllocateStart
	}
	p.space.Copy(root, start)

	p.startState = p.space.Alloc()
	p.space.Copy(p.startState, start)
	p.haveStart = true

	p.arena = newArena[S, C](p.space)
	p.index = p.buildIndex()
	rootNode := p.arena.addRoot(root, p.objective.Identity())
	p.index.Add(rootNode)

	p.best = nil
	p.iterations = 0
	p.collisionChecks = 0
	p.isSetup = true
	p.logger.Debugf("rrtstar: setup complete")
	return nil
}

func (p *Planner[S, C]) buildIndex() nn.Index[*motionNode[S, C]] {
	dist := func(a, b *motionNode[S, C]) float64 { return p.space.Distance(a.state, b.state) }
	switch p.indexKind {
	case IndexLinear:
		return nn.NewLinear(dist)
	case IndexSqrtApprox:
		return nn.NewSqrtApprox(dist)
	default:
		return nn.NewGNAT(dist)
	}
}

// Clear releases every node's state, empties the nearest-neighbor
// index, and resets the iteration counters; configuration (including
// the start state passed to Setup) is preserved. It then reinserts a
// fresh root built from that start state, so afterwards the tree and
// the index each hold exactly one node, and a subsequent Solve behaves
// as a fresh run without requiring another Setup call.
func (p *Planner[S, C]) Clear() {
	if !p.isSetup {
		return
	}
	p.arena.clear()
	p.index.Clear()
	p.best = nil
	p.iterations = 0
	p.collisionChecks = 0

	root := p.space.Alloc()
	p.space.Copy(root, p.startState)
	rootNode := p.arena.addRoot(root, p.objective.Identity())
	p.index.Add(rootNode)
}

// NumCollisionChecks is the monotone-per-solve collision-check counter
// of §6, incremented once per call to CheckMotion regardless of whether
// results are memoized elsewhere.
func (p *Planner[S, C]) NumCollisionChecks() int { return p.collisionChecks }

// Iterations is the number of main-loop iterations executed since the
// last Setup or Clear.
func (p *Planner[S, C]) Iterations() int { return p.iterations }

// Solve runs the main loop (§4.E) until termination fires, either via
// ctx or via tc, then returns StatusExact if a goal node has been
// recorded and StatusTimeout otherwise. The path itself is extracted
// by Result.
func (p *Planner[S, C]) Solve(ctx context.Context, tc TerminationCondition) (Status, error) {
	if !p.isSetup {
		return StatusInvalidStart, errNotSetup
	}
	root := p.arena.node(p.arena.root)
	p.collisionChecks++
	if !p.space.CheckMotion(root.state, root.state) {
		p.logger.Warnf("rrtstar: start state failed validity check")
		return StatusInvalidStart, nil
	}
	if p.opts.GoalBias > 0 {
		probe := p.space.Alloc()
		known := p.space.SampleGoal(probe)
		p.space.Free(probe)
		if !known {
			p.logger.Warnf("rrtstar: goal_bias > 0 but no goal state is known")
			return StatusInvalidGoal, nil
		}
	}

	xRand := p.space.Alloc()
	defer p.space.Free(xRand)
	xNew := p.space.Alloc()
	defer p.space.Free(xNew)

	interval := p.opts.loggingInterval()
	for {
		select {
		case <-ctx.Done():
			return p.terminate(), nil
		default:
		}
		if tc() {
			return p.terminate(), nil
		}
		p.iterations++
		p.iterate(xRand, xNew)
		if p.iterations%interval == 0 {
			p.logger.Infof("rrtstar: progress: iterations=%d nodes=%d has_solution=%v",
				p.iterations, p.arena.size(), p.best != nil)
		}
	}
}

// iterate runs one pass of §4.E steps 1-9, reusing the two scratch
// states xRand/xNew across calls so a full solve() allocates exactly
// one permanent state per accepted node.
func (p *Planner[S, C]) iterate(xRand, xNew S) {
	// 1. sample
	if p.rng.Float64() < p.opts.GoalBias {
		if !p.space.SampleGoal(xRand) {
			p.space.SampleUniform(xRand)
		}
	} else {
		p.space.SampleUniform(xRand)
	}

	// 2. nearest
	near, err := p.index.Nearest(&motionNode[S, C]{state: xRand})
	if err != nil {
		return // empty index cannot happen in steady state, but sampling misses are a no-op iteration
	}

	// 3. steer
	d := p.space.Distance(near.state, xRand)
	if d > p.opts.MaxDistance && d > 0 {
		p.space.Interpolate(near.state, xRand, p.opts.MaxDistance/d, xNew)
	} else {
		p.space.Copy(xNew, xRand)
	}

	// 4. validate prefix
	p.collisionChecks++
	if !p.space.CheckMotion(near.state, xNew) {
		return
	}

	// 5. compute radius, query neighbors within it
	radius := p.convergenceRadius(p.index.Size())
	probe := &motionNode[S, C]{state: xNew}
	neighbors := p.index.NearestR(probe, radius)

	// 6. choose parent
	parent, parentCost := p.chooseParent(near, xNew, neighbors)

	// 7. insert
	newState := p.space.Alloc()
	p.space.Copy(newState, xNew)
	incCost := p.objective.MotionCost(parent.state, newState)
	newNode := p.arena.addChild(parent, newState, incCost, parentCost)
	p.index.Add(newNode)

	// 8. rewire
	p.rewire(newNode, parent, neighbors)

	// 9. goal tracking
	if p.space.IsGoal(newNode.state) {
		if p.best == nil || p.objective.IsLess(newNode.cost, p.best.cost) {
			p.best = newNode
			p.logger.Debugf("rrtstar: improved solution at iteration %d", p.iterations)
		}
	}
}

// convergenceRadius implements §4.E step 5's closed-form radius
// schedule, r = min(ballRadiusMax, gamma * (log(N+1)/(N+1))^(1/d)). A
// BallRadiusMax of zero applies no cap.
func (p *Planner[S, C]) convergenceRadius(n int) float64 {
	dim := p.space.Dimension()
	if dim <= 0 {
		dim = 1
	}
	r := p.opts.BallRadiusConst * math.Pow(math.Log(float64(n+1))/float64(n+1), 1.0/float64(dim))
	if p.opts.BallRadiusMax > 0 && r > p.opts.BallRadiusMax {
		r = p.opts.BallRadiusMax
	}
	return r
}

type parentCandidate[S any, C any] struct {
	node *motionNode[S, C]
	cost C
}

// chooseParent implements §4.E step 6, including the delay_cc
// cost-ordered lazy validity checking optimization. It picks the
// cheapest neighbor whose motion to xNew is valid, and falls back to
// near (already validated in step 4) if S is empty or no neighbor
// yields a valid motion.
func (p *Planner[S, C]) chooseParent(near *motionNode[S, C], xNew S, neighbors []*motionNode[S, C]) (*motionNode[S, C], C) {
	fallbackCost := p.objective.Combine(near.cost, p.objective.MotionCost(near.state, xNew))
	if len(neighbors) == 0 {
		return near, fallbackCost
	}

	cands := make([]parentCandidate[S, C], len(neighbors))
	for i, nb := range neighbors {
		cands[i] = parentCandidate[S, C]{
			node: nb,
			cost: p.objective.Combine(nb.cost, p.objective.MotionCost(nb.state, xNew)),
		}
	}
	sort.SliceStable(cands, func(i, j int) bool { return p.objective.IsLess(cands[i].cost, cands[j].cost) })

	if p.opts.DelayCC {
		for _, cand := range cands {
			p.collisionChecks++
			if p.space.CheckMotion(cand.node.state, xNew) {
				return cand.node, cand.cost
			}
		}
		return near, fallbackCost
	}

	if p.opts.ParallelValidityChecks && len(cands) >= parallelValidityCheckThreshold {
		return p.chooseParentParallel(near, xNew, cands, fallbackCost)
	}

	bestIdx := -1
	for i, cand := range cands {
		p.collisionChecks++
		if !p.space.CheckMotion(cand.node.state, xNew) {
			continue
		}
		if bestIdx == -1 || p.objective.IsLess(cand.cost, cands[bestIdx].cost) {
			bestIdx = i
		}
	}
	if bestIdx == -1 {
		return near, fallbackCost
	}
	return cands[bestIdx].node, cands[bestIdx].cost
}

// chooseParentParallel fans the eager scan's CheckMotion calls out
// across goroutines, one per candidate, the way motionplan/
// nearestNeighbor.go's neighborManager fans distance computations out
// via utils.PanicCapturingGo. Only the validity checks run
// concurrently: every candidate's cost was already computed on the
// calling goroutine, cands is read-only here, and the parent decision
// plus every subsequent arena/index mutation happen back on the
// caller, so the observable order of tree mutations §5 requires is
// unaffected by which goroutine happened to finish its check first.
func (p *Planner[S, C]) chooseParentParallel(
	near *motionNode[S, C],
	xNew S,
	cands []parentCandidate[S, C],
	fallbackCost C,
) (*motionNode[S, C], C) {
	valid := make([]bool, len(cands))
	var checked int32
	var wg sync.WaitGroup
	for i := range cands {
		i := i
		wg.Add(1)
		utils.PanicCapturingGo(func() {
			defer wg.Done()
			if p.space.CheckMotion(cands[i].node.state, xNew) {
				valid[i] = true
			}
			atomic.AddInt32(&checked, 1)
		})
	}
	wg.Wait()
	p.collisionChecks += int(checked)

	for i, cand := range cands {
		if valid[i] {
			return cand.node, cand.cost
		}
	}
	return near, fallbackCost
}

// rewire implements §4.E step 8: for every neighbor other than the
// chosen parent and the root, re-parent it to the newly inserted node
// on strict cost improvement confirmed by a validity check.
func (p *Planner[S, C]) rewire(newNode, parent *motionNode[S, C], neighbors []*motionNode[S, C]) {
	for _, nb := range neighbors {
		if nb == parent || p.arena.isRoot(nb) {
			continue
		}
		incCost := p.objective.MotionCost(newNode.state, nb.state)
		candCost := p.objective.Combine(newNode.cost, incCost)
		if !p.objective.IsLess(candCost, nb.cost) {
			continue
		}
		p.collisionChecks++
		if !p.space.CheckMotion(newNode.state, nb.state) {
			continue
		}
		p.arena.reparent(nb, newNode, incCost, candCost)
		p.arena.updateChildCosts(nb, p.objective.Combine)
	}
}

func (p *Planner[S, C]) terminate() Status {
	status := StatusTimeout
	if p.best != nil {
		status = StatusExact
	}
	p.logger.Infof("rrtstar: solve terminated: status=%s iterations=%d nodes=%d collision_checks=%d",
		status, p.iterations, p.arena.size(), p.collisionChecks)
	return status
}

// PlannerNode is one row of a GetPlannerData snapshot: a state and the
// index of its parent within the same snapshot, or -1 for the root.
type PlannerNode[S any] struct {
	State       S
	ParentIndex int
}

// PlannerData is a snapshot of the tree as a graph, for inspection or
// visualization (§6's get_planner_data).
type PlannerData[S any] struct {
	Nodes []PlannerNode[S]
}

// GetPlannerData snapshots the current tree.
func (p *Planner[S, C]) GetPlannerData() PlannerData[S] {
	if p.arena == nil {
		return PlannerData[S]{}
	}
	nodes := make([]PlannerNode[S], len(p.arena.nodes))
	for i, n := range p.arena.nodes {
		parentIdx := -1
		if n.parent != noParent {
			parentIdx = int(n.parent)
		}
		nodes[i] = PlannerNode[S]{State: n.state, ParentIndex: parentIdx}
	}
	return PlannerData[S]{Nodes: nodes}
}
