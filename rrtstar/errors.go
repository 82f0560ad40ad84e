package rrtstar

import (
	"errors"

	"go.uber.org/multierr"
)

// Sentinel errors, grounded on the flat errors.New style of the
// teacher's motionplan/errors.go. New and Solve return them unwrapped;
// the field errors are returned inside a ConfigurationError.
var (
	errNotSetup      = errors.New("rrtstar: planner has not been set up")
	errAllocateStart = errors.New("rrtstar: failed to allocate start state")
	errNilSpace      = errors.New("rrtstar: nil state-space adaptor")
	errNilObjective  = errors.New("rrtstar: nil objective adaptor")

	errGoalBiasRange      = errors.New("goal_bias must be in [0,1]")
	errMaxDistanceInvalid = errors.New("max_distance must be positive")
	errBallRadiusConstNeg = errors.New("ball_radius_const must be non-negative")
	errBallRadiusMaxNeg   = errors.New("ball_radius_max must be non-negative")
)

// ConfigurationError reports every rejected configuration field found
// during Setup, so a caller sees all problems at once rather than
// iterating one setup() call per fix. The individual field errors are
// accumulated with go.uber.org/multierr, the same aggregate-failure
// pattern the teacher uses to collect independent Close() failures
// across a set of sub-resources (board/fake_board.go's
// multierr.Combine chain) rather than the flat single-message style of
// armplanning's IK-constraint failures.
type ConfigurationError struct {
	cause error
}

func (e *ConfigurationError) Error() string {
	return "rrtstar: invalid configuration: " + e.cause.Error()
}

// Unwrap exposes the underlying multierr chain to errors.Is/errors.As.
func (e *ConfigurationError) Unwrap() error { return e.cause }

// Problems returns the individual rejected-field errors, in the order
// they were detected.
func (e *ConfigurationError) Problems() []error {
	return multierr.Errors(e.cause)
}
