// Package euclidean is a reference Euclidean R^2 configuration space used
// by this module's own end-to-end tests and by cmd/rrtstarbench. It is
// not part of the planner core's contract; it exists the way the
// teacher ships example referenceframe.Frame implementations only in
// its own tests, never as part of motionplan's public surface.
package euclidean

import (
	"math/rand"

	"github.com/golang/geo/r2"
)

// Segment is a line obstacle. Motions that cross a Segment are invalid.
type Segment struct {
	A, B r2.Point
}

// Space is a Euclidean plane bounded by the rectangle given to New, with
// optional segment obstacles and a disc-shaped goal region.
type Space struct {
	rng *rand.Rand

	min, max   r2.Point
	obstacles  []Segment
	goal       *r2.Point
	goalRadius float64
}

// New builds a Space bounded by [min,max] with the given random source.
func New(min, max r2.Point, rng *rand.Rand) *Space {
	return &Space{rng: rng, min: min, max: max}
}

// SetGoal configures a disc goal region of the given radius centered at
// center. Until SetGoal is called, SampleGoal reports no known goal,
// IsGoal is false for every state, and GoalDistance is zero.
func (s *Space) SetGoal(center r2.Point, radius float64) {
	g := center
	s.goal = &g
	s.goalRadius = radius
}

// AddObstacle registers a line-segment obstacle. Any motion whose
// straight-line path crosses the segment is invalid.
func (s *Space) AddObstacle(a, b r2.Point) {
	s.obstacles = append(s.obstacles, Segment{A: a, B: b})
}

// Alloc implements space.Space.
func (s *Space) Alloc() *r2.Point { return &r2.Point{} }

// Free implements space.Space.
func (s *Space) Free(*r2.Point) {}

// Copy implements space.Space.
func (s *Space) Copy(dst, src *r2.Point) { *dst = *src }

// SampleUniform implements space.Space.
func (s *Space) SampleUniform(out *r2.Point) {
	out.X = s.min.X + s.rng.Float64()*(s.max.X-s.min.X)
	out.Y = s.min.Y + s.rng.Float64()*(s.max.Y-s.min.Y)
}

// SampleGoal implements space.Space.
func (s *Space) SampleGoal(out *r2.Point) bool {
	if s.goal == nil {
		return false
	}
	*out = *s.goal
	return true
}

// Distance implements space.Space.
func (s *Space) Distance(a, b *r2.Point) float64 {
	return a.Sub(*b).Norm()
}

// Interpolate implements space.Space.
func (s *Space) Interpolate(from, to *r2.Point, t float64, out *r2.Point) {
	*out = from.Add(to.Sub(*from).Mul(t))
}

// CheckMotion implements space.Space. The zero-length case, from == to,
// is used elsewhere in this module as a state-validity probe.
func (s *Space) CheckMotion(from, to *r2.Point) bool {
	if !s.inBounds(*from) || !s.inBounds(*to) {
		return false
	}
	for _, obs := range s.obstacles {
		if segmentsIntersect(*from, *to, obs.A, obs.B) {
			return false
		}
	}
	return true
}

// IsGoal implements space.Space.
func (s *Space) IsGoal(p *r2.Point) bool {
	if s.goal == nil {
		return false
	}
	return p.Sub(*s.goal).Norm() <= s.goalRadius
}

// GoalDistance implements space.Space.
func (s *Space) GoalDistance(p *r2.Point) float64 {
	if s.goal == nil {
		return 0
	}
	d := p.Sub(*s.goal).Norm() - s.goalRadius
	if d < 0 {
		return 0
	}
	return d
}

// Dimension implements space.Space.
func (s *Space) Dimension() int { return 2 }

func (s *Space) inBounds(p r2.Point) bool {
	return p.X >= s.min.X && p.X <= s.max.X && p.Y >= s.min.Y && p.Y <= s.max.Y
}

// segmentsIntersect reports whether segment p1p2 crosses segment p3p4.
func segmentsIntersect(p1, p2, p3, p4 r2.Point) bool {
	d1 := direction(p3, p4, p1)
	d2 := direction(p3, p4, p2)
	d3 := direction(p1, p2, p3)
	d4 := direction(p1, p2, p4)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(p3, p4, p1) {
		return true
	}
	if d2 == 0 && onSegment(p3, p4, p2) {
		return true
	}
	if d3 == 0 && onSegment(p1, p2, p3) {
		return true
	}
	if d4 == 0 && onSegment(p1, p2, p4) {
		return true
	}
	return false
}

func direction(a, b, c r2.Point) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func onSegment(a, b, p r2.Point) bool {
	return p.X >= minf(a.X, b.X) && p.X <= maxf(a.X, b.X) &&
		p.Y >= minf(a.Y, b.Y) && p.Y <= maxf(a.Y, b.Y)
}

func minf(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
