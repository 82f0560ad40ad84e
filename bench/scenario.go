// Package bench runs repeated-seed convergence trials over the planner
// core and reduces them with gonum's stat package, the way the teacher
// reduces benchmark runs elsewhere in the repository rather than
// hand-rolling mean/stddev.
package bench

import (
	"context"
	"math"
	"math/rand"

	"github.com/golang/geo/r2"

	"github.com/vela-robotics/rrtstar/objective/pathlength"
	"github.com/vela-robotics/rrtstar/rrtstar"
	"github.com/vela-robotics/rrtstar/space/euclidean"
)

func coords(p *r2.Point) []float64 { return []float64{p.X, p.Y} }

// NarrowSlitScenario builds the unit-square space, pierced wall, and
// planner used by the "rewiring matters" scenario: a near-full-width
// wall at x=0.5 with a narrow slit around y=0.5 forces the tree to
// detour, so which neighbor choose-parent and rewire settle on actually
// matters to the final cost.
func NarrowSlitScenario(seed int64) (*rrtstar.Planner[*r2.Point, float64], error) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
	sp.AddObstacle(r2.Point{X: 0.5, Y: 0}, r2.Point{X: 0.5, Y: 0.45})
	sp.AddObstacle(r2.Point{X: 0.5, Y: 0.55}, r2.Point{X: 0.5, Y: 1})

	obj := pathlength.New(coords)
	opts := rrtstar.DefaultOptions()
	opts.MaxDistance = 0.15
	opts.BallRadiusConst = 1.0
	opts.BallRadiusMax = 0.4
	opts.Seed = seed

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts)
	if err != nil {
		return nil, err
	}
	if err := p.Setup(&r2.Point{X: 0.1, Y: 0.1}); err != nil {
		return nil, err
	}
	return p, nil
}

// CostsAtCheckpoints runs p incrementally, without ever clearing it, and
// records the best cost found so far at each cumulative iteration count
// in checkpoints, which must be strictly ascending. A checkpoint reached
// before any solution has been found records +Inf.
func CostsAtCheckpoints(ctx context.Context, p *rrtstar.Planner[*r2.Point, float64], checkpoints []int) ([]float64, error) {
	costs := make([]float64, len(checkpoints))
	done := 0
	for idx, target := range checkpoints {
		want := target - done
		iterCount := 0
		_, err := p.Solve(ctx, func() bool {
			iterCount++
			return iterCount > want
		})
		if err != nil {
			return nil, err
		}
		done = target

		res := p.Result()
		if res.Status == rrtstar.StatusNone {
			costs[idx] = math.Inf(1)
			continue
		}
		costs[idx] = res.Cost
	}
	return costs, nil
}
