package render

import "math"

// DepthBuffer holds, per column, the fisheye-corrected distance of the
// nearest wall, or +Inf where the ray hit nothing. Only the rasterizer
// produces one; it stays valid until the frame is rendered again.
type DepthBuffer struct {
	values []float64
}

// Len is the number of columns.
func (d DepthBuffer) Len() int {
	return len(d.values)
}

// At returns the depth of column i, or +Inf outside the buffer.
func (d DepthBuffer) At(i int) float64 {
	if i < 0 || i >= len(d.values) {
		return math.Inf(1)
	}
	return d.values[i]
}

// AtScreen returns the depth of the column painted at screen x of a frame
// width pixels wide.
func (d DepthBuffer) AtScreen(x, width int) float64 {
	if len(d.values) == 0 || width <= 0 {
		return math.Inf(1)
	}
	return d.At(columnOf(x, width, len(d.values)))
}

// Values returns a copy of every column depth.
func (d DepthBuffer) Values() []float64 {
	out := make([]float64, len(d.values))
	copy(out, d.values)
	return out
}
