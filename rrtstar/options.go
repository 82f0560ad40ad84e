package rrtstar

import "go.uber.org/multierr"

// Default option values, per spec.md §4.E and OMPL's RRTstar.h
// (goalBias_, maxDistance_, ballRadiusConst_, ballRadiusMax_,
// delayCC_). Space-dependent defaults (MaxDistance, BallRadiusConst,
// BallRadiusMax) are left at zero here; callers must set them from
// their space's scale, exactly as OMPL requires setRange /
// setBallRadiusConstant / setMaxBallRadius to be called for anything
// other than a unit space.
const (
	defaultGoalBias = 0.05
	defaultDelayCC  = true
	defaultPlanIter = 20000
	// loggingFraction is the cadence, as a fraction of PlanIter, at which
	// Solve logs periodic progress: every PlanIter*loggingFraction
	// iterations.
	loggingFraction = 0.1
)

// Options configures a single Planner. All fields are settable before
// Setup and between successive Solve calls; Setup rejects illegal
// values via ConfigurationError, matching §6's "illegal values...are
// rejected at setup()". Options round-trips through encoding/json the
// way the teacher's plannerOptions does, so it can be loaded from a
// config file or robot-fleet attribute map.
type Options struct {
	// GoalBias is the probability that a sample is replaced by the
	// known goal state. Must be in [0,1].
	GoalBias float64 `json:"goal_bias"`

	// MaxDistance upper-bounds any edge length; longer steer targets are
	// interpolated down to this length. Must be positive.
	MaxDistance float64 `json:"max_distance"`

	// BallRadiusConst (gamma) is the multiplicative constant in the
	// convergence-radius formula. Must be non-negative.
	BallRadiusConst float64 `json:"ball_radius_const"`

	// BallRadiusMax is a hard ceiling on the convergence radius. Must be
	// non-negative; zero applies no ceiling.
	BallRadiusMax float64 `json:"ball_radius_max"`

	// DelayCC enables cost-ordered lazy validity checking during
	// choose-parent (§4.E step 6).
	DelayCC bool `json:"delay_cc"`

	// Seed seeds the planner's random number generator. Zero uses an
	// arbitrary but deterministic default so runs are reproducible
	// unless a caller explicitly asks for entropy.
	Seed int64 `json:"seed,omitempty"`

	// PlanIter is the nominal iteration budget. It sets the cadence of
	// Solve's periodic progress logging (every PlanIter*loggingFraction
	// iterations); it does not limit the number of iterations, which is
	// up to the TerminationCondition (IterationLimit takes its own
	// count). Zero uses defaultPlanIter.
	PlanIter int `json:"plan_iter,omitempty"`

	// ParallelValidityChecks enables the eager choose-parent scan (used
	// when DelayCC is false) to fan its CheckMotion calls for a single
	// iteration's candidate set out across goroutines, per §5's note
	// that validity checks within one iteration may be parallelized as
	// long as tree mutations are still applied in the observable order.
	// Only the CheckMotion calls run concurrently; the parent decision
	// itself and every tree/index mutation stay on the calling
	// goroutine. Off by default, matching the teacher's own
	// neighborsBeforeParallelization gate being an opt-in scale
	// threshold rather than always-on concurrency.
	ParallelValidityChecks bool `json:"parallel_validity_checks,omitempty"`

	// Extra carries free-form planner tuning that has no dedicated
	// field, round-tripped through JSON without changing this struct,
	// mirroring plannerOptions' unexported extra bag.
	Extra map[string]interface{} `json:"extra,omitempty"`
}

// DefaultOptions returns Options with every teacher-documented default
// applied except the three space-dependent radius/distance parameters,
// which have no sensible universal default and are left at zero.
func DefaultOptions() Options {
	return Options{
		GoalBias: defaultGoalBias,
		DelayCC:  defaultDelayCC,
		PlanIter: defaultPlanIter,
	}
}

// loggingInterval is the iteration count between Solve's periodic
// progress log entries.
func (o Options) loggingInterval() int {
	budget := o.PlanIter
	if budget <= 0 {
		budget = defaultPlanIter
	}
	n := int(float64(budget) * loggingFraction)
	if n <= 0 {
		n = 1
	}
	return n
}

func (o Options) validate() *ConfigurationError {
	var err error
	if o.GoalBias < 0 || o.GoalBias > 1 {
		err = multierr.Append(err, errGoalBiasRange)
	}
	if o.MaxDistance <= 0 {
		err = multierr.Append(err, errMaxDistanceInvalid)
	}
	if o.BallRadiusConst < 0 {
		err = multierr.Append(err, errBallRadiusConstNeg)
	}
	if o.BallRadiusMax < 0 {
		err = multierr.Append(err, errBallRadiusMaxNeg)
	}
	if err == nil {
		return nil
	}
	return &ConfigurationError{cause: err}
}
