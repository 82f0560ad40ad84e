// Command rrtstarbench runs the unit-square end-to-end scenarios over
// the rrtstar planner core and prints solution cost, iteration count,
// and collision-check count, the way the teacher ships small CLI
// entrypoints alongside its library packages rather than only tests.
package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"

	"github.com/golang/geo/r2"
	"github.com/urfave/cli/v2"

	"github.com/vela-robotics/rrtstar/bench"
	"github.com/vela-robotics/rrtstar/internal/planlog"
	"github.com/vela-robotics/rrtstar/objective/pathlength"
	"github.com/vela-robotics/rrtstar/rrtstar"
	"github.com/vela-robotics/rrtstar/space/euclidean"
)

const (
	flagSeed       = "seed"
	flagIterations = "iterations"
	flagDelayCC    = "delay-cc"
	flagVerbose    = "verbose"
	flagJSONLogs   = "json-logs"
)

func main() {
	app := &cli.App{
		Name:  "rrtstarbench",
		Usage: "run RRT* end-to-end scenarios over a unit-square configuration space",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: flagSeed, Value: 1, Usage: "random seed"},
			&cli.IntFlag{Name: flagIterations, Value: 1000, Usage: "planner iteration budget"},
			&cli.BoolFlag{Name: flagDelayCC, Value: true, Usage: "enable delayed collision checking"},
			&cli.BoolFlag{Name: flagVerbose, Usage: "enable debug logging"},
			&cli.BoolFlag{Name: flagJSONLogs, Usage: "emit structured JSON logs instead of human-readable development logs"},
		},
		Commands: []*cli.Command{
			{
				Name:   "trivial",
				Usage:  "solve the trivial unit-square scenario (no obstacles)",
				Action: runTrivial,
			},
			{
				Name:  "narrow-slit",
				Usage: "solve the narrow-slit scenario used to check rewiring convergence",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "early", Value: 100, Usage: "early iteration checkpoint"},
					&cli.IntFlag{Name: "late", Value: 500, Usage: "late iteration checkpoint"},
					&cli.IntFlag{Name: "seeds", Value: 40, Usage: "number of random seeds to sample"},
				},
				Action: runNarrowSlit,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runTrivial(c *cli.Context) error {
	seed := c.Int64(flagSeed)
	//nolint:gosec
	rng := rand.New(rand.NewSource(seed))
	sp := euclidean.New(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1}, rng)
	sp.SetGoal(r2.Point{X: 0.9, Y: 0.9}, 0.05)
	obj := pathlength.New(func(p *r2.Point) []float64 { return []float64{p.X, p.Y} })

	opts := rrtstar.DefaultOptions()
	opts.MaxDistance = 0.2
	opts.BallRadiusConst = 1.0
	opts.BallRadiusMax = 0.5
	opts.Seed = seed
	opts.DelayCC = c.Bool(flagDelayCC)

	var logger planlog.Logger = planlog.NewNop()
	switch {
	case c.Bool(flagJSONLogs):
		logger = planlog.NewProduction()
	case c.Bool(flagVerbose):
		logger = planlog.NewDevelopment()
	}

	p, err := rrtstar.New[*r2.Point, float64](sp, obj, opts, rrtstar.WithLogger[*r2.Point, float64](logger))
	if err != nil {
		return err
	}
	if err := p.Setup(&r2.Point{X: 0.1, Y: 0.1}); err != nil {
		return err
	}

	iterations := c.Int(flagIterations)
	status, err := p.Solve(context.Background(), rrtstar.IterationLimit(iterations))
	if err != nil {
		return err
	}

	res := p.Result()
	fmt.Fprintf(c.App.Writer, "status: %s\n", status)
	fmt.Fprintf(c.App.Writer, "iterations: %d\n", p.Iterations())
	fmt.Fprintf(c.App.Writer, "collision checks: %d\n", p.NumCollisionChecks())
	fmt.Fprintf(c.App.Writer, "path length: %d states\n", len(res.Path))
	fmt.Fprintf(c.App.Writer, "cost: %f\n", res.Cost)
	return nil
}

func runNarrowSlit(c *cli.Context) error {
	early := c.Int("early")
	late := c.Int("late")
	n := c.Int("seeds")

	seeds := make([]int64, n)
	base := c.Int64(flagSeed)
	for i := range seeds {
		seeds[i] = base + int64(i)
	}

	summary, err := bench.SummarizeNarrowSlitConvergence(context.Background(), seeds, early, late)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "seeds: %d\n", summary.Seeds)
	fmt.Fprintf(c.App.Writer, "strict improvements %d -> %d iterations: %d (%.1f%%)\n",
		early, late, summary.StrictImprovements, summary.ImprovementRate*100)
	fmt.Fprintf(c.App.Writer, "mean final cost: %f\n", summary.MeanFinalCost)
	fmt.Fprintf(c.App.Writer, "stddev final cost: %f\n", summary.StdDevFinalCost)
	return nil
}
