package deriv

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/scifield/localderiv/field"
	"github.com/scifield/localderiv/stencil"
)

// GradientEvaluator estimates the local gradient of a scalar field. It owns
// one cursor over the padded access region and one n×1 output matrix, both
// reused across calls. Not safe for concurrent use; see Copy.
type GradientEvaluator struct {
	positioned
	src    field.Source
	region field.Interval
	kind   stencil.Kind
	order  int
	st     stencil.Stencil
	n      int
	grad   *mat.Dense
}

// GradientCentral builds a central-difference gradient evaluator over the
// given region. Supported orders are 2, 4, 6 and 8; order 0 selects
// DefaultOrder. The source must serve reads over the region expanded by
// order/2 on every side of every axis.
func GradientCentral(src field.Source, region field.Interval, order int) (*GradientEvaluator, error) {
	return newGradient(src, region, stencil.Central, order)
}

// GradientForward builds a forward-difference gradient evaluator. Supported
// orders are 1 through 6; order 0 selects DefaultOrder. The source must
// serve reads over the region expanded by order on the high side of every
// axis.
func GradientForward(src field.Source, region field.Interval, order int) (*GradientEvaluator, error) {
	return newGradient(src, region, stencil.Forward, order)
}

// GradientBackward is GradientForward mirrored: orders 1 through 6, padding
// on the low side of every axis.
func GradientBackward(src field.Source, region field.Interval, order int) (*GradientEvaluator, error) {
	return newGradient(src, region, stencil.Backward, order)
}

func newGradient(src field.Source, region field.Interval, kind stencil.Kind, order int) (*GradientEvaluator, error) {
	if order == 0 {
		order = DefaultOrder
	}
	st, err := stencil.FirstDerivative(kind, order)
	if err != nil {
		return nil, fmt.Errorf("deriv: %s gradient: %w", kind, err)
	}
	lo, hi := st.Reach()
	n := src.NumDimensions()
	return &GradientEvaluator{
		positioned: positioned{cursor: src.Access(region.Expand(lo, hi))},
		src:        src,
		region:     region,
		kind:       kind,
		order:      order,
		st:         st,
		n:          n,
		grad:       mat.NewDense(n, 1, nil),
	}, nil
}

// Evaluate computes the gradient at the current position: row d of the
// returned n×1 matrix holds the stencil estimate of ∂f/∂x_d per unit grid
// spacing. The matrix is the evaluator's owned buffer and is overwritten by
// the next call. The cursor position is unchanged on return.
func (g *GradientEvaluator) Evaluate() *mat.Dense {
	for d := 0; d < g.n; d++ {
		var acc float64
		for i, off := range g.st.Offsets {
			acc += g.st.Weights[i] * sampleAt(g.cursor, off, d)
		}
		g.grad.Set(d, 0, acc/g.st.Div)
	}
	return g.grad
}

// Copy returns an independent evaluator with the same source, region and
// configuration but a freshly allocated cursor and output buffer. The copy
// starts at the zero position.
func (g *GradientEvaluator) Copy() *GradientEvaluator {
	ev, err := newGradient(g.src, g.region, g.kind, g.order)
	if err != nil {
		// The configuration was validated when g was constructed.
		panic(err)
	}
	return ev
}
