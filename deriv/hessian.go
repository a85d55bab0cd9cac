package deriv

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/scifield/localderiv/field"
	"github.com/scifield/localderiv/stencil"
)

// HessianEvaluator estimates the local Hessian of a scalar field. Diagonal
// entries come from a second-derivative stencil along one axis; off-diagonal
// entries from first-derivative stencils nested along two axes, written
// symmetrically. It owns one cursor and one n×n output matrix, both reused
// across calls. Not safe for concurrent use; see Copy.
type HessianEvaluator struct {
	positioned
	src    field.Source
	region field.Interval
	order  int
	second stencil.Stencil
	first  stencil.Stencil
	n      int
	hess   *mat.Dense
}

// HessianCentral builds a central-difference Hessian evaluator over the
// given region. Supported orders are 2 and 4; order 0 selects DefaultOrder.
// The source must serve reads over the region expanded by order/2 on every
// side of every axis.
func HessianCentral(src field.Source, region field.Interval, order int) (*HessianEvaluator, error) {
	if order == 0 {
		order = DefaultOrder
	}
	second, err := stencil.SecondDerivative(stencil.Central, order)
	if err != nil {
		return nil, fmt.Errorf("deriv: central hessian: %w", err)
	}
	first, err := stencil.FirstDerivative(stencil.Central, order)
	if err != nil {
		return nil, fmt.Errorf("deriv: central hessian: %w", err)
	}
	lo, hi := second.Reach()
	if l, h := first.Reach(); l > lo || h > hi {
		lo, hi = l, h
	}
	n := src.NumDimensions()
	return &HessianEvaluator{
		positioned: positioned{cursor: src.Access(region.Expand(lo, hi))},
		src:        src,
		region:     region,
		order:      order,
		second:     second,
		first:      first,
		n:          n,
		hess:       mat.NewDense(n, n, nil),
	}, nil
}

// Evaluate computes the Hessian at the current position. Entry (d, d) of
// the returned n×n matrix is the second-derivative stencil estimate of
// ∂²f/∂x_d² per unit grid spacing; entry (d, e) for d ≠ e is the mixed
// partial ∂²f/∂x_d∂x_e, computed once and written to both (d, e) and
// (e, d). The matrix is the evaluator's owned buffer and is overwritten by
// the next call. The cursor position is unchanged on return.
func (h *HessianEvaluator) Evaluate() *mat.Dense {
	for d := 0; d < h.n; d++ {
		var acc float64
		for i, off := range h.second.Offsets {
			acc += h.second.Weights[i] * sampleAt(h.cursor, off, d)
		}
		h.hess.Set(d, d, acc/h.second.Div)

		// Mixed partials: the first-derivative stencil along axis e,
		// evaluated at each offset the first-derivative stencil along
		// axis d visits.
		for e := d + 1; e < h.n; e++ {
			var acc float64
			for i, offD := range h.first.Offsets {
				for j, offE := range h.first.Offsets {
					acc += h.first.Weights[i] * h.first.Weights[j] * sampleAt2(h.cursor, offD, d, offE, e)
				}
			}
			v := acc / (h.first.Div * h.first.Div)
			h.hess.Set(d, e, v)
			h.hess.Set(e, d, v)
		}
	}
	return h.hess
}

// Copy returns an independent evaluator with the same source, region and
// configuration but a freshly allocated cursor and output buffer. The copy
// starts at the zero position.
func (h *HessianEvaluator) Copy() *HessianEvaluator {
	ev, err := HessianCentral(h.src, h.region, h.order)
	if err != nil {
		// The configuration was validated when h was constructed.
		panic(err)
	}
	return ev
}
