package geometry

import (
	"math"

	"github.com/aukilabs/go-tooling/pkg/errors"
)

const (
	ErrTypeInvalidStructure = "invalid-structure"
	ErrTypeInvalidBoundary  = "invalid-boundary"
	ErrTypeUnknownCategory  = "unknown-category"
)

// Structure is an authored rectangular footprint. X, Y is the minimum
// corner; Width runs along +x and Depth along +y.
type Structure struct {
	X, Y     float64
	Width    float64
	Depth    float64
	Category Category
}

// Bounds returns the footprint's bounding box.
func (s Structure) Bounds() BoundingBox {
	return BoundingBox{MinX: s.X, MaxX: s.X + s.Width, MinY: s.Y, MaxY: s.Y + s.Depth}
}

// Walls returns the four footprint segments in front, right, back, left
// order.
func (s Structure) Walls() [4]Segment {
	x0, y0 := s.X, s.Y
	x1, y1 := s.X+s.Width, s.Y+s.Depth
	return [4]Segment{
		NewSegment(x0, y0, x1, y0, SideFront),
		NewSegment(x1, y0, x1, y1, SideRight),
		NewSegment(x0, y1, x1, y1, SideBack),
		NewSegment(x0, y0, x0, y1, SideLeft),
	}
}

func (s Structure) validate() error {
	for _, v := range []float64{s.X, s.Y, s.Width, s.Depth} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errors.New("structure has a non-finite coordinate").
				WithType(ErrTypeInvalidStructure)
		}
	}
	if s.Width <= 0 || s.Depth <= 0 {
		return errors.New("structure must have a positive width and depth").
			WithType(ErrTypeInvalidStructure).
			WithTag("width", s.Width).
			WithTag("depth", s.Depth)
	}
	if !s.Category.Valid() || s.Category == Boundary {
		return errors.New("structure category is not placeable").
			WithType(ErrTypeInvalidStructure).
			WithTag("category", s.Category.String())
	}
	return nil
}

// Compiled is the derived geometry of one Structure.
type Compiled struct {
	Structure
	Profile Profile
	Walls   [4]Segment
	Box     BoundingBox
}

// Model owns every compiled structure and the world boundary for the life
// of the process. It is read-only after Compile.
type Model struct {
	structures []Compiled
	boundaries []Segment
}

// Compile validates and precomputes walls and bounding boxes for every
// structure. Boundary segments are copied as given and tagged SideNone.
func Compile(structures []Structure, boundaries []Segment) (*Model, error) {
	m := &Model{
		structures: make([]Compiled, 0, len(structures)),
		boundaries: make([]Segment, 0, len(boundaries)),
	}

	for i, s := range structures {
		if err := s.validate(); err != nil {
			return nil, errors.New("compiling structures failed").
				WithType(ErrTypeInvalidStructure).
				WithTag("index", i).
				Wrap(err)
		}
		m.structures = append(m.structures, Compiled{
			Structure: s,
			Profile:   s.Category.Profile(),
			Walls:     s.Walls(),
			Box:       s.Bounds(),
		})
	}

	for i, b := range boundaries {
		if b.X1 == b.X2 && b.Y1 == b.Y2 {
			return nil, errors.New("boundary segment has zero length").
				WithType(ErrTypeInvalidBoundary).
				WithTag("index", i)
		}
		m.boundaries = append(m.boundaries, NewSegment(b.X1, b.Y1, b.X2, b.Y2, SideNone))
	}

	return m, nil
}

// Len is the number of structures.
func (m *Model) Len() int {
	return len(m.structures)
}

// Structure returns the compiled structure at index i.
func (m *Model) Structure(i int) *Compiled {
	return &m.structures[i]
}

// Structures exposes the compiled structures for iteration. Callers must
// not modify the slice.
func (m *Model) Structures() []Compiled {
	return m.structures
}

// Boundaries exposes the world boundary segments. Callers must not modify
// the slice.
func (m *Model) Boundaries() []Segment {
	return m.boundaries
}

// StructureAt returns the index of the first structure whose footprint
// contains (x, y), or -1.
func (m *Model) StructureAt(x, y float64) int {
	for i := range m.structures {
		if m.structures[i].Box.Contains(x, y) {
			return i
		}
	}
	return -1
}
