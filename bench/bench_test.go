package bench_test

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/vela-robotics/rrtstar/bench"
)

// Scenario 2: with a narrow-slit obstacle forcing a detour, the cost to
// the goal must strictly decrease from iteration 100 to iteration 500 in
// at least 95% of random seeds.
func TestNarrowSlitConvergenceImprovesAcrossSeeds(t *testing.T) {
	seeds := make([]int64, 40)
	for i := range seeds {
		seeds[i] = int64(100 + i)
	}

	summary, err := bench.SummarizeNarrowSlitConvergence(context.Background(), seeds, 100, 500)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, summary.Seeds, test.ShouldEqual, len(seeds))
	test.That(t, summary.ImprovementRate, test.ShouldBeGreaterThanOrEqualTo, 0.95)
}
