package bench

import (
	"context"

	"gonum.org/v1/gonum/stat"
)

// ConvergenceSummary aggregates per-seed convergence trials into the
// statistics scenario 2 of the testable-properties section checks: the
// fraction of seeds whose cost strictly decreased between an early and
// a late checkpoint, plus descriptive statistics over the final costs.
type ConvergenceSummary struct {
	Seeds              int
	StrictImprovements int
	ImprovementRate    float64
	MeanFinalCost      float64
	StdDevFinalCost    float64
}

// SummarizeNarrowSlitConvergence runs the narrow-slit scenario once per
// seed, samples cost at the early and late iteration checkpoints, and
// reduces the results to a ConvergenceSummary. Per scenario 2, a healthy
// planner should show ImprovementRate >= 0.95.
func SummarizeNarrowSlitConvergence(ctx context.Context, seeds []int64, early, late int) (ConvergenceSummary, error) {
	finals := make([]float64, 0, len(seeds))
	improved := 0
	for _, seed := range seeds {
		p, err := NarrowSlitScenario(seed)
		if err != nil {
			return ConvergenceSummary{}, err
		}
		costs, err := CostsAtCheckpoints(ctx, p, []int{early, late})
		if err != nil {
			return ConvergenceSummary{}, err
		}
		if costs[1] < costs[0] {
			improved++
		}
		finals = append(finals, costs[1])
	}
	mean, std := stat.MeanStdDev(finals, nil)
	return ConvergenceSummary{
		Seeds:              len(seeds),
		StrictImprovements: improved,
		ImprovementRate:    float64(improved) / float64(len(seeds)),
		MeanFinalCost:      mean,
		StdDevFinalCost:    std,
	}, nil
}
