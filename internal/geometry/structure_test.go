package geometry

import (
	"math"
	"testing"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWallsTraceFootprint(t *testing.T) {
	s := Structure{X: 20, Y: -5, Width: 10, Depth: 10, Category: House}
	walls := s.Walls()
	box := s.Bounds()

	require.Equal(t, SideFront, walls[0].Side)
	require.Equal(t, SideRight, walls[1].Side)
	require.Equal(t, SideBack, walls[2].Side)
	require.Equal(t, SideLeft, walls[3].Side)

	// Every box corner is an endpoint of exactly two walls.
	for _, c := range box.Corners() {
		count := 0
		for _, w := range walls {
			if w.X1 == c[0] && w.Y1 == c[1] {
				count++
			}
			if w.X2 == c[0] && w.Y2 == c[1] {
				count++
			}
		}
		require.Equal(t, 2, count, "corner %v", c)
	}

	// The walls cover the perimeter with no gaps or overlaps.
	perimeter := 0.0
	for _, w := range walls {
		perimeter += math.Hypot(w.X2-w.X1, w.Y2-w.Y1)
	}
	require.InDelta(t, 2*(s.Width+s.Depth), perimeter, 1e-12)

	require.Equal(t, BoundingBox{MinX: 20, MaxX: 30, MinY: -5, MaxY: 5}, box)
}

func TestCompile(t *testing.T) {
	structures := []Structure{
		{X: 0, Y: 0, Width: 50, Depth: 40, Category: Church},
		{X: 100, Y: 100, Width: 8, Depth: 300, Category: Fence},
	}
	boundaries := []Segment{{X1: 0, Y1: 0, X2: 900, Y2: 0}}

	model, err := Compile(structures, boundaries)
	require.NoError(t, err)
	require.Equal(t, 2, model.Len())
	require.Equal(t, Church.Profile(), model.Structure(0).Profile)
	require.Equal(t, 0, model.StructureAt(10, 10))
	require.Equal(t, 1, model.StructureAt(104, 200))
	require.Equal(t, -1, model.StructureAt(60, 60))

	require.Len(t, model.Boundaries(), 1)
	require.Equal(t, SideNone, model.Boundaries()[0].Side)
	require.Equal(t, AxisX, model.Boundaries()[0].Axis)
}

func TestCompileRejectsDegenerateStructures(t *testing.T) {
	testCases := []struct {
		name      string
		structure Structure
	}{
		{"zero width", Structure{Width: 0, Depth: 10}},
		{"negative depth", Structure{Width: 10, Depth: -1}},
		{"nan", Structure{X: math.NaN(), Width: 10, Depth: 10}},
		{"boundary category", Structure{Width: 10, Depth: 10, Category: Boundary}},
		{"unknown category", Structure{Width: 10, Depth: 10, Category: Category(42)}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile([]Structure{tc.structure}, nil)
			require.Error(t, err)
			require.Equal(t, ErrTypeInvalidStructure, errors.Type(err))
		})
	}

	_, err := Compile(nil, []Segment{{X1: 5, Y1: 5, X2: 5, Y2: 5}})
	require.Error(t, err)
	require.Equal(t, ErrTypeInvalidBoundary, errors.Type(err))
}

func TestCategoryProfiles(t *testing.T) {
	require.Equal(t, 60.0, House.Profile().WallHeight)
	require.True(t, House.Profile().HasRoof())
	require.Equal(t, RoofFlat, Well.Profile().Roof)
	require.False(t, Fence.Profile().HasRoof())
	require.Equal(t, 20.0, Fence.Profile().TotalHeight())
	require.Equal(t, 160.0, Tower.Profile().TotalHeight())
	require.Equal(t, 100.0, Boundary.Profile().WallHeight)
	require.Equal(t, House.Profile(), Category(99).Profile())

	for _, c := range Categories() {
		parsed, err := ParseCategory(c.String())
		require.NoError(t, err)
		require.Equal(t, c, parsed)
	}

	_, err := ParseCategory("castle")
	require.Error(t, err)
	require.Equal(t, ErrTypeUnknownCategory, errors.Type(err))
}

func TestBoundingBoxRayMayHit(t *testing.T) {
	box := BoundingBox{MinX: 20, MaxX: 30, MinY: -5, MaxY: 5}

	require.True(t, box.RayMayHit(0, 0, 1, 0))
	require.False(t, box.RayMayHit(0, 0, -1, 0))
	require.False(t, box.RayMayHit(0, 0, 0, 1))
	require.True(t, box.RayMayHit(25, -100, 0, 1))
	require.True(t, box.RayMayHit(25, 0, 1, 0), "origin inside still sees the far wall")
	require.True(t, box.RayMayHit(0, 0, math.Cos(math.Atan2(4.9, 20)), math.Sin(math.Atan2(4.9, 20))), "near corner")
}
