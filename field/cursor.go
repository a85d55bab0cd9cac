package field

// Cursor is a positioned, movable read head over a scalar field. It can be
// placed at any integer coordinate and displaced by relative offsets along
// single axes; only Get touches the underlying storage. A Cursor is not safe
// for concurrent use.
type Cursor interface {
	// NumDimensions returns the number of axes of the underlying field.
	NumDimensions() int
	// Position returns a copy of the current coordinate.
	Position() []int
	// Localize writes the current coordinate into dst.
	Localize(dst []int)
	// SetPosition places the cursor at pos.
	SetPosition(pos []int)
	// Move displaces the cursor by delta along the given axis.
	Move(delta, axis int)
	// Get reads the scalar at the current position. Implementations panic
	// when the position is outside the readable extent.
	Get() float64
}

// Source is anything that can report its dimensionality and hand out
// cursors bounded to a region. *Grid is the reference implementation.
type Source interface {
	NumDimensions() int
	Access(bounds Interval) Cursor
}

type accessor struct {
	grid   *Grid
	bounds Interval
	pos    []int
}

var _ Cursor = (*accessor)(nil)
var _ Source = (*Grid)(nil)

func (a *accessor) NumDimensions() int { return len(a.pos) }

func (a *accessor) Position() []int {
	out := make([]int, len(a.pos))
	copy(out, a.pos)
	return out
}

func (a *accessor) Localize(dst []int) { copy(dst, a.pos) }

func (a *accessor) SetPosition(pos []int) { copy(a.pos, pos) }

func (a *accessor) Move(delta, axis int) { a.pos[axis] += delta }

func (a *accessor) Get() float64 { return a.grid.data[a.grid.index(a.pos)] }
