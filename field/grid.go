// Package field provides dense n-dimensional scalar fields on integer
// lattices, together with the positioned read cursor the derivative
// evaluators consume.
package field

import "fmt"

// Grid is a dense scalar field sampled on an n-dimensional integer lattice.
// Storage is flat with the first axis varying fastest.
type Grid struct {
	dims    []int
	strides []int
	data    []float64
}

// NewGrid allocates a zero-filled grid with the given per-axis sizes.
func NewGrid(dims ...int) *Grid {
	if len(dims) == 0 {
		panic("field: NewGrid needs at least one dimension")
	}
	g := &Grid{
		dims:    make([]int, len(dims)),
		strides: make([]int, len(dims)),
	}
	size := 1
	for d, dim := range dims {
		if dim <= 0 {
			panic(fmt.Sprintf("field: NewGrid dimension %d is %d, must be positive", d, dim))
		}
		g.dims[d] = dim
		g.strides[d] = size
		size *= dim
	}
	g.data = make([]float64, size)
	return g
}

// NumDimensions returns the number of lattice axes.
func (g *Grid) NumDimensions() int { return len(g.dims) }

// Dims returns a copy of the per-axis sizes.
func (g *Grid) Dims() []int {
	out := make([]int, len(g.dims))
	copy(out, g.dims)
	return out
}

// Extent returns the interval covered by the grid, [0, dim-1] on every axis.
func (g *Grid) Extent() Interval {
	iv := Interval{Min: make([]int, len(g.dims)), Max: make([]int, len(g.dims))}
	for d, dim := range g.dims {
		iv.Max[d] = dim - 1
	}
	return iv
}

// index flattens pos, panicking when it falls outside the grid extent.
func (g *Grid) index(pos []int) int {
	if len(pos) != len(g.dims) {
		panic(fmt.Sprintf("field: position has %d axes, grid has %d", len(pos), len(g.dims)))
	}
	idx := 0
	for d, p := range pos {
		if p < 0 || p >= g.dims[d] {
			panic(fmt.Sprintf("field: position %v outside grid extent %v on axis %d", pos, g.dims, d))
		}
		idx += p * g.strides[d]
	}
	return idx
}

// At returns the value stored at pos.
func (g *Grid) At(pos ...int) float64 { return g.data[g.index(pos)] }

// Set stores v at pos.
func (g *Grid) Set(v float64, pos ...int) { g.data[g.index(pos)] = v }

// Fill evaluates f at every lattice point and stores the result. The pos
// slice passed to f is reused between calls and must not be retained.
func (g *Grid) Fill(f func(pos []int) float64) {
	pos := make([]int, len(g.dims))
	for i := range g.data {
		g.data[i] = f(pos)
		for d := 0; d < len(g.dims); d++ {
			pos[d]++
			if pos[d] < g.dims[d] {
				break
			}
			pos[d] = 0
		}
	}
}

// Access returns a fresh cursor over the grid. The bounds interval documents
// the region the caller intends to visit; reads are validated against the
// grid extent, and a read outside it panics. Cursors over the same grid are
// independent of one another.
func (g *Grid) Access(bounds Interval) Cursor {
	return &accessor{grid: g, bounds: bounds, pos: make([]int, len(g.dims))}
}
