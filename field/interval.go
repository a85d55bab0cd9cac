package field

import "fmt"

// Interval is an axis-aligned box on the integer lattice. Min and Max bound
// every axis inclusively.
type Interval struct {
	Min []int
	Max []int
}

// MinMax builds an Interval from interleaved bounds: the first half of vals
// holds the per-axis minima, the second half the per-axis maxima.
//
//	MinMax(50, 50, 20, 70, 70, 30) // spans [50,70] x [50,70] x [20,30]
func MinMax(vals ...int) Interval {
	if len(vals)%2 != 0 {
		panic(fmt.Sprintf("field: MinMax needs an even number of bounds, got %d", len(vals)))
	}
	n := len(vals) / 2
	iv := Interval{Min: make([]int, n), Max: make([]int, n)}
	copy(iv.Min, vals[:n])
	copy(iv.Max, vals[n:])
	return iv
}

// NumDimensions returns the number of axes of the interval.
func (iv Interval) NumDimensions() int { return len(iv.Min) }

// Expand grows the interval by lo below and hi above on every axis. This is
// the padding primitive: the region a stencil of reach (lo, hi) can be
// applied over without reading outside the expanded box.
func (iv Interval) Expand(lo, hi int) Interval {
	out := Interval{Min: make([]int, len(iv.Min)), Max: make([]int, len(iv.Max))}
	for d := range iv.Min {
		out.Min[d] = iv.Min[d] - lo
		out.Max[d] = iv.Max[d] + hi
	}
	return out
}

// Contains reports whether pos lies inside the interval on every axis.
func (iv Interval) Contains(pos []int) bool {
	if len(pos) != len(iv.Min) {
		return false
	}
	for d := range iv.Min {
		if pos[d] < iv.Min[d] || pos[d] > iv.Max[d] {
			return false
		}
	}
	return true
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%v, %v]", iv.Min, iv.Max)
}
