package geometry

// Side tags which face of a footprint a segment is; used for shading.
type Side uint8

const (
	SideNone Side = iota
	SideFront
	SideRight
	SideBack
	SideLeft
)

func (s Side) String() string {
	switch s {
	case SideFront:
		return "front"
	case SideRight:
		return "right"
	case SideBack:
		return "back"
	case SideLeft:
		return "left"
	default:
		return "none"
	}
}

// IsLateral reports whether the side is a left or right face. Lateral faces
// are drawn darker.
func (s Side) IsLateral() bool {
	return s == SideLeft || s == SideRight
}

// Axis is the coordinate that varies along a segment.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Segment is an immutable wall line from (X1,Y1) to (X2,Y2).
type Segment struct {
	X1, Y1 float64
	X2, Y2 float64
	Side   Side
	Axis   Axis
}

// NewSegment builds a segment and derives its texture axis: vertical
// segments (X1 == X2) are textured along y, everything else along x.
func NewSegment(x1, y1, x2, y2 float64, side Side) Segment {
	axis := AxisX
	if x1 == x2 {
		axis = AxisY
	}
	return Segment{X1: x1, Y1: y1, X2: x2, Y2: y2, Side: side, Axis: axis}
}

// TexCoord returns where (x, y) lies along the segment, 0 at the first
// endpoint and 1 at the second, measured on the segment's axis.
func (s Segment) TexCoord(x, y float64) float64 {
	if s.Axis == AxisY {
		if s.Y2 == s.Y1 {
			return 0
		}
		return (y - s.Y1) / (s.Y2 - s.Y1)
	}
	if s.X2 == s.X1 {
		return 0
	}
	return (x - s.X1) / (s.X2 - s.X1)
}
