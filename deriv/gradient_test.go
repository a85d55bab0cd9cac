package deriv

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/scifield/localderiv/field"
)

// The gradient test field is separable, f(x,y,z) = fx(x)*fy(y)*fz(z) with
// fx = 1/(x+1), fy = 100 (constant) and fz = z, so every component of the
// analytic gradient is known: slowly varying along x, zero along y, constant
// slope along z.
const gradAmplitude = 100.0

var (
	gradFieldOnce sync.Once
	gradField     *field.Grid
)

func gradientTestField() *field.Grid {
	gradFieldOnce.Do(func() {
		gradField = field.NewGrid(128, 128, 64)
		gradField.Fill(func(pos []int) float64 {
			x, z := float64(pos[0]), float64(pos[2])
			return 1.0 / (x + 1.0) * gradAmplitude * z
		})
	})
	return gradField
}

func gradientTestRegion() field.Interval {
	return field.MinMax(50, 50, 20, 70, 70, 30)
}

// checkGradient sweeps the test region, asserting at every lattice point
// that the evaluator's position survives Evaluate and that each gradient
// component is within tol of the analytic value. It returns the largest
// error seen on the x component, the only one with a nontrivial truncation
// error on this field.
func checkGradient(t *testing.T, ev *GradientEvaluator, tol float64) (maxErrX float64) {
	t.Helper()
	region := gradientTestRegion()

	var errX, errY, errZ []float64
	pos := make([]int, 3)
	after := make([]int, 3)

	for x := region.Min[0]; x <= region.Max[0]; x++ {
		for y := region.Min[1]; y <= region.Max[1]; y++ {
			for z := region.Min[2]; z <= region.Max[2]; z++ {
				pos[0], pos[1], pos[2] = x, y, z
				ev.SetPosition(pos)
				m := ev.Evaluate()

				ev.Localize(after)
				if after[0] != x || after[1] != y || after[2] != z {
					t.Fatalf("position changed by Evaluate: set %v, now %v", pos, after)
				}

				fx := 1.0 / (float64(x) + 1.0)
				expX := gradAmplitude * float64(z) * (-fx * fx)
				expY := 0.0
				expZ := fx * gradAmplitude

				dx := math.Abs(m.At(0, 0) - expX)
				dy := math.Abs(m.At(1, 0) - expY)
				dz := math.Abs(m.At(2, 0) - expZ)
				if dx >= tol || dy >= tol || dz >= tol {
					t.Fatalf("gradient error (%.3e, %.3e, %.3e) exceeds tolerance %.1e at %v",
						dx, dy, dz, tol, pos)
				}

				errX = append(errX, dx)
				errY = append(errY, dy)
				errZ = append(errZ, dz)
				if dx > maxErrX {
					maxErrX = dx
				}
			}
		}
	}

	t.Logf("error on x (~1/x): %.2e ± %.2e (n=%d)", stat.Mean(errX, nil), stat.StdDev(errX, nil), len(errX))
	t.Logf("error on y (cst):  %.2e ± %.2e (n=%d)", stat.Mean(errY, nil), stat.StdDev(errY, nil), len(errY))
	t.Logf("error on z (~z):   %.2e ± %.2e (n=%d)", stat.Mean(errZ, nil), stat.StdDev(errZ, nil), len(errZ))
	return maxErrX
}

func TestGradientCentral(t *testing.T) {
	cases := []struct {
		order int
		tol   float64
	}{
		// Tolerances only make sense for a field varying slowly from one
		// sample to the next, which the 1/(x+1) factor guarantees here.
		{2, 1e-3},
		{4, 1e-6},
		{6, 1e-8},
		{8, 1e-10},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("order%d", tc.order), func(t *testing.T) {
			ev, err := GradientCentral(gradientTestField(), gradientTestRegion(), tc.order)
			require.NoError(t, err)
			checkGradient(t, ev, tc.tol)
		})
	}
}

func TestGradientForward(t *testing.T) {
	for order := 1; order <= 6; order++ {
		t.Run(fmt.Sprintf("order%d", order), func(t *testing.T) {
			ev, err := GradientForward(gradientTestField(), gradientTestRegion(), order)
			require.NoError(t, err)
			checkGradient(t, ev, math.Pow(10, -float64(order)))
		})
	}
}

func TestGradientBackward(t *testing.T) {
	for order := 1; order <= 6; order++ {
		t.Run(fmt.Sprintf("order%d", order), func(t *testing.T) {
			ev, err := GradientBackward(gradientTestField(), gradientTestRegion(), order)
			require.NoError(t, err)
			checkGradient(t, ev, math.Pow(10, -float64(order)))
		})
	}
}

// Raising the accuracy order must shrink the worst-case error, and a central
// stencil must beat the one-sided stencil of the same order.
func TestGradientConvergenceByOrder(t *testing.T) {
	noTol := math.Inf(1)

	central := make(map[int]float64)
	for _, order := range []int{2, 4, 6, 8} {
		ev, err := GradientCentral(gradientTestField(), gradientTestRegion(), order)
		require.NoError(t, err)
		central[order] = checkGradient(t, ev, noTol)
	}
	assert.Less(t, central[4], central[2])
	assert.Less(t, central[6], central[4])
	assert.Less(t, central[8], central[6])

	forward := make(map[int]float64)
	for order := 1; order <= 6; order++ {
		ev, err := GradientForward(gradientTestField(), gradientTestRegion(), order)
		require.NoError(t, err)
		forward[order] = checkGradient(t, ev, noTol)
	}
	for order := 2; order <= 6; order++ {
		assert.Less(t, forward[order], forward[order-1], "forward order %d vs %d", order, order-1)
	}

	for _, order := range []int{2, 4, 6} {
		assert.Less(t, central[order], forward[order], "central vs forward, order %d", order)
	}
}

func TestGradientUnsupportedOrder(t *testing.T) {
	src := gradientTestField()
	region := gradientTestRegion()

	for _, order := range []int{1, 3, 5, 7, -1} {
		ev, err := GradientCentral(src, region, order)
		assert.ErrorIs(t, err, ErrUnsupportedOrder, "central order %d", order)
		assert.Nil(t, ev)
	}
	for _, order := range []int{7, -3} {
		ev, err := GradientForward(src, region, order)
		assert.ErrorIs(t, err, ErrUnsupportedOrder, "forward order %d", order)
		assert.Nil(t, ev)

		ev, err = GradientBackward(src, region, order)
		assert.ErrorIs(t, err, ErrUnsupportedOrder, "backward order %d", order)
		assert.Nil(t, ev)
	}
}

func TestGradientDefaultOrder(t *testing.T) {
	src := gradientTestField()
	region := gradientTestRegion()

	def, err := GradientCentral(src, region, 0)
	require.NoError(t, err)
	explicit, err := GradientCentral(src, region, 2)
	require.NoError(t, err)

	pos := []int{55, 60, 25}
	def.SetPosition(pos)
	explicit.SetPosition(pos)
	assert.True(t, mat.Equal(def.Evaluate(), explicit.Evaluate()))
}

func TestGradientOutputAliasing(t *testing.T) {
	ev, err := GradientCentral(gradientTestField(), gradientTestRegion(), 2)
	require.NoError(t, err)

	ev.SetPosition([]int{55, 55, 25})
	m1 := ev.Evaluate()
	ev.SetPosition([]int{60, 60, 28})
	m2 := ev.Evaluate()

	// One owned buffer, overwritten on every call.
	assert.Same(t, m1, m2)
}

func TestGradientCopyIndependent(t *testing.T) {
	ev, err := GradientCentral(gradientTestField(), gradientTestRegion(), 4)
	require.NoError(t, err)

	pos := []int{55, 60, 25}
	ev.SetPosition(pos)
	m := ev.Evaluate()
	snapshot := mat.DenseCopyOf(m)

	cp := ev.Copy()
	cp.SetPosition(pos)
	assert.True(t, mat.Equal(m, cp.Evaluate()), "copy disagrees at the same position")

	// Moving and evaluating the copy must not disturb the original.
	cp.SetPosition([]int{65, 52, 29})
	cp.Evaluate()
	assert.Equal(t, pos, ev.Position())
	assert.True(t, mat.Equal(snapshot, m), "original output buffer was mutated through the copy")
}

// A read outside the source must propagate as a panic while still leaving
// the evaluator at its entry position.
func TestGradientOutOfBoundsRestoresPosition(t *testing.T) {
	g := field.NewGrid(8, 8)
	ev, err := GradientCentral(g, g.Extent(), 2)
	require.NoError(t, err)

	pos := []int{0, 4}
	ev.SetPosition(pos)
	require.Panics(t, func() { ev.Evaluate() })
	assert.Equal(t, pos, ev.Position())
}
