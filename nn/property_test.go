package nn_test

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"go.viam.com/test"

	"github.com/vela-robotics/rrtstar/nn"
)

func intDistance(a, b int) float64 {
	return math.Abs(float64(a - b))
}

// runExactIndexProperties mirrors the intTest fixture from
// _examples/original_source/tests/datastructures/nearestneighbors.cpp:
// insert N unique elements, check that every element is its own nearest
// neighbor, that nearest_k/nearest_r behave as documented, and that
// removing in reverse insertion order drains the index down to
// NotFound. It is run against every exact (non-approximate) backend.
func runExactIndexProperties(t *testing.T, newIndex func() nn.Index[int]) {
	t.Helper()
	idx := newIndex()

	//nolint:gosec
	rng := rand.New(rand.NewSource(42))
	n := 200
	values := rng.Perm(2000)[:n] // unique values, avoids distance ties masking bugs

	for _, v := range values {
		idx.Add(v)
	}
	test.That(t, idx.Size(), test.ShouldEqual, n)

	all := idx.List()
	test.That(t, len(all), test.ShouldEqual, n)

	for _, v := range values {
		got, err := idx.Nearest(v)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, got, test.ShouldEqual, v)

		k1 := idx.NearestK(v, 1)
		test.That(t, len(k1), test.ShouldEqual, 1)
		test.That(t, k1[0], test.ShouldEqual, v)

		kAll := idx.NearestK(v, 2*n)
		test.That(t, len(kAll), test.ShouldEqual, n)
		test.That(t, kAll[0], test.ShouldEqual, v)
		test.That(t, sort.SliceIsSorted(kAll, func(i, j int) bool {
			return intDistance(v, kAll[i]) < intDistance(v, kAll[j])
		}), test.ShouldBeTrue)

		rAll := idx.NearestR(v, math.Inf(1))
		test.That(t, len(rAll), test.ShouldEqual, n)
		test.That(t, rAll[0], test.ShouldEqual, v)
	}

	for i := n - 1; i >= 0; i-- {
		removed := idx.Remove(values[i])
		test.That(t, removed, test.ShouldBeTrue)
		test.That(t, idx.Size(), test.ShouldEqual, i)
	}

	_, err := idx.Nearest(values[0])
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err, test.ShouldEqual, nn.ErrNotFound)
}

func TestLinearProperties(t *testing.T) {
	runExactIndexProperties(t, func() nn.Index[int] { return nn.NewLinear[int](intDistance) })
}

func TestGNATProperties(t *testing.T) {
	runExactIndexProperties(t, func() nn.Index[int] { return nn.NewGNAT[int](intDistance) })
}

func TestGNATRadiusQueryMatchesLinearReference(t *testing.T) {
	//nolint:gosec
	rng := rand.New(rand.NewSource(7))
	values := rng.Perm(500)[:300]

	lin := nn.NewLinear[int](intDistance)
	gnat := nn.NewGNAT[int](intDistance)
	for _, v := range values {
		lin.Add(v)
		gnat.Add(v)
	}

	for _, q := range []int{0, 50, 250, 499} {
		want := lin.NearestR(q, 12)
		got := gnat.NearestR(q, 12)
		test.That(t, len(got), test.ShouldEqual, len(want))
		sort.Ints(want)
		sort.Ints(got)
		test.That(t, got, test.ShouldResemble, want)
	}
}

func TestSqrtApproxSizeAndListAreExact(t *testing.T) {
	// SqrtApprox is documented as approximate for nearest-neighbor
	// queries but must still track membership exactly.
	idx := nn.NewSqrtApprox[int](intDistance)
	for i := 0; i < 50; i++ {
		idx.Add(i)
	}
	test.That(t, idx.Size(), test.ShouldEqual, 50)
	test.That(t, len(idx.List()), test.ShouldEqual, 50)

	got, err := idx.Nearest(25)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldBeBetweenOrEqual, 0, 49)

	test.That(t, idx.Remove(10), test.ShouldBeTrue)
	test.That(t, idx.Size(), test.ShouldEqual, 49)
	test.That(t, idx.Remove(10), test.ShouldBeFalse)
}

func TestGNATClearIsIdempotentWithFreshInsert(t *testing.T) {
	idx := nn.NewGNAT[int](intDistance)
	for i := 0; i < 40; i++ {
		idx.Add(i)
	}
	idx.Clear()
	test.That(t, idx.Size(), test.ShouldEqual, 0)
	_, err := idx.Nearest(1)
	test.That(t, err, test.ShouldEqual, nn.ErrNotFound)

	idx.Add(7)
	got, err := idx.Nearest(7)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, got, test.ShouldEqual, 7)
}
