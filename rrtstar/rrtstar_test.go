package rrtstar_test

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"

	"github.com/vela-robotics/rrtstar/internal/planlog"
	"github.com/vela-robotics/rrtstar/objective/pathlength"
	"github.com/vela-robotics/rrtstar/rrtstar"
	"github.com/vela-robotics/rrtstar/space/euclidean"
)

func coords(p *r2.Point) []float64 { return []float64{p.X, p.Y} }

func newUnitSquarePlanner(t *testing.T, seed int64) (*rrtstar.Planner[*r2.Point, float64], *euclidean.Space) {
	t.Helper()
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
	obj := pathlength.New(coords)

	opts := rrtstar.DefaultOptions()
	opts.MaxDistance = 0.2
	opts.BallRadiusConst = 1.0
	opts.BallRadiusMax = 0.5
	opts.Seed = seed

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Setup(&r2.Point{X: 0.1, Y: 0.1}), test.ShouldBeNil)
	return p, sp
}

func iterationLimit(n int) rrtstar.TerminationCondition {
	i := 0
	return func() bool {
		i++
		return i > n
	}
}

// Scenario 1: trivial unit-square solve, per §8.
func TestSolveTrivialUnitSquare(t *testing.T) {
	p, _ := newUnitSquarePlanner(t, 1)

	status, err := p.Solve(context.Background(), iterationLimit(1000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, rrtstar.StatusExact)

	res := p.Result()
	test.That(t, res.Status, test.ShouldEqual, rrtstar.StatusExact)
	test.That(t, len(res.Path), test.ShouldBeGreaterThan, 1)
	test.That(t, res.Cost, test.ShouldBeLessThanOrEqualTo, 1.15*1.1313708498984759)
}

// Scenario 5: an enclosing obstacle makes the goal unreachable; solve must
// report Timeout with an approximate path whose endpoint has the smallest
// goal_distance of any tree node.
func TestSolveNoSolutionReportsTimeoutWithApproximatePath(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(7))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
	// A box fully enclosing the goal region, cutting it off from the start.
	sp.AddObstacle(r2.Point{X: 0.75, Y: 0.75}, r2.Point{X: 1.05, Y: 0.75})
	sp.AddObstacle(r2.Point{X: 0.75, Y: 0.75}, r2.Point{X: 0.75, Y: 1.05})
	sp.AddObstacle(r2.Point{X: 0.75, Y: 1.05}, r2.Point{X: 1.05, Y: 1.05})
	sp.AddObstacle(r2.Point{X: 1.05, Y: 0.75}, r2.Point{X: 1.05, Y: 1.05})

	obj := pathlength.New(coords)
	opts := rrtstar.DefaultOptions()
	opts.MaxDistance = 0.2
	opts.BallRadiusConst = 1.0
	opts.BallRadiusMax = 0.5
	opts.Seed = 7

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Setup(&r2.Point{X: 0.1, Y: 0.1}), test.ShouldBeNil)

	status, err := p.Solve(context.Background(), iterationLimit(2000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, rrtstar.StatusTimeout)

	res := p.Result()
	test.That(t, res.Status, test.ShouldEqual, rrtstar.StatusApproximate)
	test.That(t, len(res.Path), test.ShouldBeGreaterThan, 0)

	endpoint := res.Path[len(res.Path)-1]
	best := sp.GoalDistance(endpoint)
	for _, n := range p.GetPlannerData().Nodes {
		test.That(t, sp.GoalDistance(n.State), test.ShouldBeGreaterThanOrEqualTo, best)
	}
}

// Scenario 6: clear() resets tree size, NN index, and counters; a
// subsequent solve behaves as a fresh run.
func TestClearIsIdempotentAndAllowsFreshSolve(t *testing.T) {
	p, _ := newUnitSquarePlanner(t, 3)

	_, err := p.Solve(context.Background(), iterationLimit(1000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.GetPlannerData().Nodes, test.ShouldNotBeEmpty)
	test.That(t, p.Iterations(), test.ShouldBeGreaterThan, 0)

	p.Clear()
	test.That(t, len(p.GetPlannerData().Nodes), test.ShouldEqual, 1)
	test.That(t, p.Iterations(), test.ShouldEqual, 0)
	test.That(t, p.NumCollisionChecks(), test.ShouldEqual, 0)

	status, err := p.Solve(context.Background(), iterationLimit(1000))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, rrtstar.StatusExact)
}

// Scenario 3: with a deterministic validity oracle and a fixed seed,
// delay_cc=true and delay_cc=false choose the same parent at every step
// (choose-parent scans candidates in ascending cost order either way), but
// the delayed variant records strictly fewer collision checks in an
// obstacle-rich scene.
func TestDelayedCollisionCheckingMatchesPathButChecksFewer(t *testing.T) {
	build := func(delayCC bool) (rrtstar.Result[*r2.Point, float64], int) {
		//nolint:gosec
		rng := rand.New(rand.NewSource(11))
		sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
		sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
		for i := 0; i < 6; i++ {
			y := 0.15 + float64(i)*0.15
			sp.AddObstacle(r2.Point{X: 0.2, Y: y}, r2.Point{X: 0.8, Y: y})
		}
		obj := pathlength.New(coords)
		opts := rrtstar.DefaultOptions()
		opts.MaxDistance = 0.2
		opts.BallRadiusConst = 1.0
		opts.BallRadiusMax = 0.5
		opts.Seed = 11
		opts.DelayCC = delayCC

		p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.Setup(&r2.Point{X: 0.1, Y: 0.1}), test.ShouldBeNil)
		_, err = p.Solve(context.Background(), iterationLimit(1500))
		test.That(t, err, test.ShouldBeNil)
		return p.Result(), p.NumCollisionChecks()
	}

	delayedResult, delayedChecks := build(true)
	eagerResult, eagerChecks := build(false)

	test.That(t, delayedResult.Cost, test.ShouldEqual, eagerResult.Cost)
	test.That(t, len(delayedResult.Path), test.ShouldEqual, len(eagerResult.Path))
	test.That(t, delayedChecks, test.ShouldBeLessThan, eagerChecks)
}

// Invariant 1 (tree property): every node reaches the root in at most
// N parent steps, checked against a snapshot after a full solve.
func TestTreeInvariantHoldsAfterSolve(t *testing.T) {
	p, _ := newUnitSquarePlanner(t, 5)
	_, err := p.Solve(context.Background(), iterationLimit(1000))
	test.That(t, err, test.ShouldBeNil)

	data := p.GetPlannerData()
	n := len(data.Nodes)
	test.That(t, n, test.ShouldBeGreaterThan, 1)

	for i := range data.Nodes {
		steps := 0
		cur := i
		for data.Nodes[cur].ParentIndex != -1 {
			cur = data.Nodes[cur].ParentIndex
			steps++
			test.That(t, steps, test.ShouldBeLessThanOrEqualTo, n)
		}
	}
}

// Invalid-start detection: a start state on which the deterministic
// validity oracle CheckMotion(s, s) fails must return StatusInvalidStart.
func TestSolveDetectsInvalidStart(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(2))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
	obj := pathlength.New(coords)
	opts := rrtstar.DefaultOptions()
	opts.MaxDistance = 0.2
	opts.BallRadiusConst = 1.0
	opts.BallRadiusMax = 0.5

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts)
	test.That(t, err, test.ShouldBeNil)
	// Outside the space's bounds: CheckMotion(s, s) is false.
	test.That(t, p.Setup(&r2.Point{X: 5, Y: 5}), test.ShouldBeNil)

	status, err := p.Solve(context.Background(), iterationLimit(10))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, rrtstar.StatusInvalidStart)
}

// Setup rejects illegal configuration with an aggregate ConfigurationError.
func TestSetupRejectsInvalidOptions(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(4))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	obj := pathlength.New(coords)

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, rrtstar.Options{GoalBias: 2, MaxDistance: -1})
	test.That(t, err, test.ShouldBeNil)

	err = p.Setup(&r2.Point{X: 0.1, Y: 0.1})
	test.That(t, err, test.ShouldNotBeNil)
	var cfgErr *rrtstar.ConfigurationError
	test.That(t, errors.As(err, &cfgErr), test.ShouldBeTrue)
	test.That(t, len(cfgErr.Problems()), test.ShouldEqual, 2)
}

func TestSolveBeforeSetupFails(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(9))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	obj := pathlength.New(coords)
	p, err := rrtstar.New[*r2.Point, float64](sp, obj, rrtstar.DefaultOptions())
	test.That(t, err, test.ShouldBeNil)

	status, err := p.Solve(context.Background(), iterationLimit(10))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, status, test.ShouldEqual, rrtstar.StatusInvalidStart)
}

// §5 permits parallelizing validity checks within one iteration as long
// as observable tree mutations stay in order; ParallelValidityChecks
// must produce the same result as the sequential eager scan it
// replaces.
func TestParallelValidityChecksMatchSequentialEagerScan(t *testing.T) {
	build := func(parallel bool) rrtstar.Result[*r2.Point, float64] {
		//nolint:gosec
		rng := rand.New(rand.NewSource(17))
		sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
		sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
		obj := pathlength.New(coords)
		opts := rrtstar.DefaultOptions()
		opts.MaxDistance = 0.2
		opts.BallRadiusConst = 1.0
		opts.BallRadiusMax = 0.5
		opts.Seed = 17
		opts.DelayCC = false
		opts.ParallelValidityChecks = parallel

		p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, p.Setup(&r2.Point{X: 0.1, Y: 0.1}), test.ShouldBeNil)
		_, err = p.Solve(context.Background(), iterationLimit(1500))
		test.That(t, err, test.ShouldBeNil)
		return p.Result()
	}

	sequential := build(false)
	parallel := build(true)
	test.That(t, parallel.Cost, test.ShouldEqual, sequential.Cost)
	test.That(t, len(parallel.Path), test.ShouldEqual, len(sequential.Path))
}

// Scenario 4: the rewire radius schedule (§4.E step 5's closed form) is
// monotonically non-increasing in the number of tree nodes and never
// exceeds ball_radius_max. This mirrors convergenceRadius's unexported
// formula directly since the planner does not expose per-iteration radius
// samples.
func TestConvergenceRadiusFormulaIsMonotoneAndCapped(t *testing.T) {
	const (
		gamma  = 1.0
		radMax = 0.5
		dim    = 2
	)
	radius := func(n int) float64 {
		r := gamma * math.Pow(math.Log(float64(n+1))/float64(n+1), 1.0/float64(dim))
		if r > radMax {
			r = radMax
		}
		return r
	}

	prev := radius(1)
	test.That(t, prev, test.ShouldBeLessThanOrEqualTo, radMax)
	for n := 2; n <= 5000; n++ {
		r := radius(n)
		test.That(t, r, test.ShouldBeLessThanOrEqualTo, radMax)
		test.That(t, r, test.ShouldBeLessThanOrEqualTo, prev+1e-12)
		prev = r
	}
}

// The logger records successful setup at Debug, periodic progress at
// Info (cadence set by PlanIter*loggingFraction), and the termination
// reason at Info, per the ambient logging stack.
func TestLoggerRecordsSetupProgressAndTermination(t *testing.T) {
	logger, logs := planlog.NewTestLogger()

	//nolint:gosec
	rng := rand.New(rand.NewSource(21))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
	obj := pathlength.New(coords)
	opts := rrtstar.DefaultOptions()
	opts.MaxDistance = 0.2
	opts.BallRadiusConst = 1.0
	opts.BallRadiusMax = 0.5
	opts.Seed = 21
	opts.PlanIter = 400

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts, rrtstar.WithLogger[*r2.Point, float64](logger))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Setup(&r2.Point{X: 0.1, Y: 0.1}), test.ShouldBeNil)

	_, err = p.Solve(context.Background(), rrtstar.IterationLimit(500))
	test.That(t, err, test.ShouldBeNil)

	test.That(t, logs.FilterMessageSnippet("setup complete").Len(), test.ShouldBeGreaterThan, 0)
	test.That(t, logs.FilterMessageSnippet("progress").Len(), test.ShouldBeGreaterThan, 0)
	test.That(t, logs.FilterMessageSnippet("solve terminated").Len(), test.ShouldBeGreaterThan, 0)
}

// Invalid configuration is logged at Error and an invalid start state
// is logged at Warn, exercising the rest of the Logger interface.
func TestLoggerRecordsConfigurationAndValidityWarnings(t *testing.T) {
	logger, logs := planlog.NewTestLogger()

	//nolint:gosec
	rng := rand.New(rand.NewSource(23))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	obj := pathlength.New(coords)

	badOpts := rrtstar.Options{GoalBias: 2, MaxDistance: -1}
	p, err := rrtstar.New[*r2.Point, float64](sp, obj, badOpts, rrtstar.WithLogger[*r2.Point, float64](logger))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p.Setup(&r2.Point{X: 0.1, Y: 0.1}), test.ShouldNotBeNil)
	test.That(t, logs.FilterMessageSnippet("rejected invalid configuration").Len(), test.ShouldBeGreaterThan, 0)

	goodOpts := rrtstar.DefaultOptions()
	goodOpts.MaxDistance = 0.2
	goodOpts.BallRadiusConst = 1.0
	goodOpts.BallRadiusMax = 0.5

	p2, err := rrtstar.New[*r2.Point, float64](sp, obj, goodOpts, rrtstar.WithLogger[*r2.Point, float64](logger))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p2.Setup(&r2.Point{X: 5, Y: 5}), test.ShouldBeNil)

	status, err := p2.Solve(context.Background(), rrtstar.IterationLimit(10))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, status, test.ShouldEqual, rrtstar.StatusInvalidStart)
	test.That(t, logs.FilterMessageSnippet("failed validity check").Len(), test.ShouldBeGreaterThan, 0)
}
