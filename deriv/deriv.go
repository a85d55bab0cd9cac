// Package deriv estimates local gradient vectors and Hessian matrices of
// n-dimensional scalar fields by finite-difference sampling.
//
// An evaluator wraps one positioned cursor over a source field. It is
// positioned like any cursor and, on Evaluate, applies a 1-D stencil along
// each axis by temporarily displacing the cursor and restoring it, so the
// reported position is identical before and after every call. The result is
// a dense gonum matrix, n×1 for the gradient and n×n for the Hessian.
//
// The output matrix is owned by the evaluator and overwritten on every
// Evaluate call; callers that need to retain a result must copy it first.
// Evaluators are not safe for concurrent use. For parallel work, give each
// goroutine its own instance via Copy: independently constructed evaluators
// share no mutable state.
package deriv

import (
	"github.com/scifield/localderiv/field"
	"github.com/scifield/localderiv/stencil"
)

// DefaultOrder is the accuracy order selected when a factory is called with
// order 0. An unsupported non-zero order is never coerced to it.
const DefaultOrder = 2

// ErrUnsupportedOrder reports an accuracy order outside the enumerated set
// for the requested evaluator. Match it with errors.Is.
var ErrUnsupportedOrder = stencil.ErrUnsupportedOrder

// positioned forwards the cursor surface of an evaluator to its single
// owned cursor, keeping the two in lock-step by construction.
type positioned struct {
	cursor field.Cursor
}

// NumDimensions returns the number of axes of the underlying field.
func (p *positioned) NumDimensions() int { return p.cursor.NumDimensions() }

// Position returns a copy of the current coordinate.
func (p *positioned) Position() []int { return p.cursor.Position() }

// Localize writes the current coordinate into dst.
func (p *positioned) Localize(dst []int) { p.cursor.Localize(dst) }

// SetPosition places the evaluator at pos.
func (p *positioned) SetPosition(pos []int) { p.cursor.SetPosition(pos) }

// Move displaces the evaluator by delta along the given axis.
func (p *positioned) Move(delta, axis int) { p.cursor.Move(delta, axis) }

// sampleAt reads the field value displaced by delta along one axis. The
// inverse move is deferred so the cursor returns to its entry coordinate
// even when the read panics on a bounds violation.
func sampleAt(c field.Cursor, delta, axis int) float64 {
	c.Move(delta, axis)
	defer c.Move(-delta, axis)
	return c.Get()
}

// sampleAt2 reads the field value displaced along two distinct axes, with
// the same restore guarantee as sampleAt.
func sampleAt2(c field.Cursor, delta1, axis1, delta2, axis2 int) float64 {
	c.Move(delta1, axis1)
	defer c.Move(-delta1, axis1)
	c.Move(delta2, axis2)
	defer c.Move(-delta2, axis2)
	return c.Get()
}
