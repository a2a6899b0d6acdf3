package raycast

import (
	"math"
	"math/rand"
	"testing"

	"hamlet/internal/geometry"

	"github.com/stretchr/testify/require"
)

func mustCompile(t *testing.T, structures []geometry.Structure, boundaries []geometry.Segment) *geometry.Model {
	t.Helper()
	model, err := geometry.Compile(structures, boundaries)
	require.NoError(t, err)
	return model
}

func TestCastSingleStructure(t *testing.T) {
	model := mustCompile(t, []geometry.Structure{
		{X: 20, Y: -5, Width: 10, Depth: 10, Category: geometry.House},
	}, nil)
	caster := NewCaster(model)

	hits := caster.Cast(0, 0, 0, nil)
	require.Len(t, hits, 2)

	near := hits[0]
	require.InDelta(t, 20, near.X, 1e-9)
	require.InDelta(t, 0, near.Y, 1e-9)
	require.InDelta(t, 20, near.Distance, 1e-9)
	require.InDelta(t, 0.5, near.TexCoord, 1e-9)
	require.Equal(t, geometry.SideLeft, near.Side)
	require.Equal(t, geometry.House, near.Category)
	require.Equal(t, 0, near.Structure)
	require.False(t, near.Boundary)

	far := hits[1]
	require.InDelta(t, 30, far.Distance, 1e-9)
	require.Equal(t, geometry.SideRight, far.Side)
}

func TestCastSortsOverlappingStructures(t *testing.T) {
	model := mustCompile(t, []geometry.Structure{
		{X: 600, Y: -50, Width: 40, Depth: 100, Category: geometry.Tower},
		{X: 300, Y: -50, Width: 8, Depth: 100, Category: geometry.Fence},
	}, nil)
	caster := NewCaster(model)

	hits := caster.Cast(0, 0, 0, nil)
	require.Len(t, hits, 4)
	for i := 1; i < len(hits); i++ {
		require.LessOrEqual(t, hits[i-1].Distance, hits[i].Distance)
	}
	require.Equal(t, geometry.Fence, hits[0].Category)
	require.Equal(t, 1, hits[0].Structure)
	require.Equal(t, geometry.Tower, hits[2].Category)
	require.Equal(t, 0, hits[2].Structure)
}

func TestCastBoundary(t *testing.T) {
	model := mustCompile(t, nil, []geometry.Segment{
		{X1: 0, Y1: 100, X2: 200, Y2: 100},
	})
	caster := NewCaster(model)

	hits := caster.Cast(50, 0, math.Pi/2, nil)
	require.Len(t, hits, 1)
	require.True(t, hits[0].Boundary)
	require.Equal(t, -1, hits[0].Structure)
	require.Equal(t, geometry.Boundary, hits[0].Category)
	require.InDelta(t, 100, hits[0].Distance, 1e-9)
	require.InDelta(t, 0.25, hits[0].TexCoord, 1e-9)
}

func TestCastEmptyModel(t *testing.T) {
	caster := NewCaster(mustCompile(t, nil, nil))
	require.Empty(t, caster.Cast(0, 0, 1.3, nil))

	var nilCaster *Caster
	require.Empty(t, nilCaster.Cast(0, 0, 0, nil))
}

func TestCastReusesScratch(t *testing.T) {
	model := mustCompile(t, []geometry.Structure{
		{X: 20, Y: -5, Width: 10, Depth: 10, Category: geometry.Barn},
	}, nil)
	caster := NewCaster(model)

	scratch := make([]Hit, 0, 16)
	hits := caster.Cast(0, 0, 0, scratch)
	require.Len(t, hits, 2)
	require.Same(t, &scratch[:1][0], &hits[0])

	hits = caster.Cast(0, 0, math.Pi, hits)
	require.Empty(t, hits)
}

func TestCastMatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var structures []geometry.Structure
	for i := 0; i < 40; i++ {
		structures = append(structures, geometry.Structure{
			X:        rng.Float64()*1800 + 100,
			Y:        rng.Float64()*1800 + 100,
			Width:    rng.Float64()*80 + 5,
			Depth:    rng.Float64()*80 + 5,
			Category: geometry.Category(rng.Intn(6)),
		})
	}
	model := mustCompile(t, structures, []geometry.Segment{
		{X1: 0, Y1: 0, X2: 2000, Y2: 0},
		{X1: 2000, Y1: 0, X2: 2000, Y2: 2000},
		{X1: 0, Y1: 2000, X2: 2000, Y2: 2000},
		{X1: 0, Y1: 0, X2: 0, Y2: 2000},
	})
	caster := NewCaster(model)

	for i := 0; i < 500; i++ {
		x := rng.Float64() * 2000
		y := rng.Float64() * 2000
		angle := rng.Float64() * 2 * math.Pi
		dx, dy := math.Cos(angle), math.Sin(angle)

		got := caster.CastDir(x, y, dx, dy, nil)

		want := 0
		for _, s := range model.Structures() {
			for _, w := range s.Walls {
				if _, ok := geometry.Intersect(x, y, dx, dy, w); ok {
					want++
				}
			}
		}
		for _, b := range model.Boundaries() {
			if _, ok := geometry.Intersect(x, y, dx, dy, b); ok {
				want++
			}
		}
		require.Len(t, got, want, "ray %d from (%.1f, %.1f) at %.3f", i, x, y, angle)
	}
}
