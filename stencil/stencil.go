// Package stencil holds the finite-difference coefficient tables used by the
// derivative evaluators. A stencil is an ordered set of integer sample
// offsets with rational weights and a common divisor; applying it along one
// lattice axis approximates a first or second derivative per unit grid
// spacing. No division by a physical step is performed here; rescaling to
// physical units is the caller's concern.
package stencil

import (
	"errors"
	"fmt"
)

// Kind selects which side of the evaluation point a stencil samples.
type Kind uint8

const (
	// Central samples symmetrically around the evaluation point.
	Central Kind = iota
	// Forward samples the evaluation point and points ahead of it.
	Forward
	// Backward samples the evaluation point and points behind it.
	Backward
)

func (k Kind) String() string {
	switch k {
	case Central:
		return "central"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrUnsupportedOrder is returned when an accuracy order outside the
// enumerated set for a difference kind is requested. It is a configuration
// error: construction fails and is never coerced to a default order.
var ErrUnsupportedOrder = errors.New("unsupported accuracy order")

// Stencil is one 1-D finite-difference formula: Weights[i] applies to the
// sample at Offsets[i] relative to the evaluation point, and the weighted
// sum is normalized by Div. Stencils returned by this package alias shared
// table storage and must be treated as read-only.
type Stencil struct {
	Offsets []int
	Weights []float64
	Div     float64
}

// Reach returns how far the stencil extends below and above the evaluation
// point, as non-negative margins.
func (s Stencil) Reach() (lo, hi int) {
	for _, off := range s.Offsets {
		if -off > lo {
			lo = -off
		}
		if off > hi {
			hi = off
		}
	}
	return lo, hi
}

// First-derivative central tables. Weights are antisymmetric; order o has
// half-width o/2.
var central1st = map[int]Stencil{
	2: {Offsets: []int{-1, 1}, Weights: []float64{-1, 1}, Div: 2},
	4: {Offsets: []int{-2, -1, 1, 2}, Weights: []float64{1, -8, 8, -1}, Div: 12},
	6: {Offsets: []int{-3, -2, -1, 1, 2, 3}, Weights: []float64{-1, 9, -45, 45, -9, 1}, Div: 60},
	8: {Offsets: []int{-4, -3, -2, -1, 1, 2, 3, 4}, Weights: []float64{3, -32, 168, -672, 672, -168, 32, -3}, Div: 840},
}

// First-derivative forward tables, orders 1-6. Backward tables are these
// mirrored.
var forward1st = map[int]Stencil{
	1: {Offsets: []int{0, 1}, Weights: []float64{-1, 1}, Div: 1},
	2: {Offsets: []int{0, 1, 2}, Weights: []float64{-3, 4, -1}, Div: 2},
	3: {Offsets: []int{0, 1, 2, 3}, Weights: []float64{-11, 18, -9, 2}, Div: 6},
	4: {Offsets: []int{0, 1, 2, 3, 4}, Weights: []float64{-25, 48, -36, 16, -3}, Div: 12},
	5: {Offsets: []int{0, 1, 2, 3, 4, 5}, Weights: []float64{-137, 300, -300, 200, -75, 12}, Div: 60},
	6: {Offsets: []int{0, 1, 2, 3, 4, 5, 6}, Weights: []float64{-147, 360, -450, 400, -225, 72, -10}, Div: 60},
}

// Second-derivative central tables.
var central2nd = map[int]Stencil{
	2: {Offsets: []int{-1, 0, 1}, Weights: []float64{1, -2, 1}, Div: 1},
	4: {Offsets: []int{-2, -1, 0, 1, 2}, Weights: []float64{-1, 16, -30, 16, -1}, Div: 12},
}

var backward1st = func() map[int]Stencil {
	out := make(map[int]Stencil, len(forward1st))
	for order, s := range forward1st {
		out[order] = mirror(s)
	}
	return out
}()

// mirror reflects a first-derivative stencil about the evaluation point.
// First derivatives are odd, so both offsets and weights negate.
func mirror(s Stencil) Stencil {
	n := len(s.Offsets)
	out := Stencil{Offsets: make([]int, n), Weights: make([]float64, n), Div: s.Div}
	for i := 0; i < n; i++ {
		out.Offsets[i] = -s.Offsets[n-1-i]
		out.Weights[i] = -s.Weights[n-1-i]
	}
	return out
}

func supported(table map[int]Stencil) []int {
	orders := make([]int, 0, len(table))
	for o := 1; o <= 8; o++ {
		if _, ok := table[o]; ok {
			orders = append(orders, o)
		}
	}
	return orders
}

// FirstDerivative returns the first-derivative stencil for the given kind
// and accuracy order. Central supports orders 2, 4, 6 and 8; forward and
// backward support orders 1 through 6.
func FirstDerivative(kind Kind, order int) (Stencil, error) {
	var table map[int]Stencil
	switch kind {
	case Central:
		table = central1st
	case Forward:
		table = forward1st
	case Backward:
		table = backward1st
	default:
		return Stencil{}, fmt.Errorf("stencil: unknown difference kind %d", kind)
	}
	s, ok := table[order]
	if !ok {
		return Stencil{}, fmt.Errorf("stencil: first derivative, %s: %w: order %d (supported: %v)",
			kind, ErrUnsupportedOrder, order, supported(table))
	}
	return s, nil
}

// SecondDerivative returns the second-derivative stencil for the given kind
// and accuracy order. Only central differences of order 2 and 4 exist.
func SecondDerivative(kind Kind, order int) (Stencil, error) {
	if kind != Central {
		return Stencil{}, fmt.Errorf("stencil: second derivative: %w: only central differences are supported, got %s",
			ErrUnsupportedOrder, kind)
	}
	s, ok := central2nd[order]
	if !ok {
		return Stencil{}, fmt.Errorf("stencil: second derivative, %s: %w: order %d (supported: %v)",
			kind, ErrUnsupportedOrder, order, supported(central2nd))
	}
	return s, nil
}

// Margin reports the padding a first-derivative stencil of the given kind
// and order requires of its source: central differences reach order/2 on
// both sides, forward differences reach order above only, backward
// differences mirror that. The source must serve reads over the requested
// region expanded by (lo, hi) on every axis.
func Margin(kind Kind, order int) (lo, hi int, err error) {
	s, err := FirstDerivative(kind, order)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = s.Reach()
	return lo, hi, nil
}
