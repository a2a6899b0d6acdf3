package main

import (
	"testing"

	"hamlet/internal/geometry"

	"github.com/stretchr/testify/require"
)

func TestHoverLabel(t *testing.T) {
	model, err := geometry.Compile([]geometry.Structure{
		{X: 0, Y: 0, Width: 50, Depth: 40, Category: geometry.Church},
	}, nil)
	require.NoError(t, err)

	i := model.StructureAt(10, 10)
	require.Equal(t, 0, i)
	require.Contains(t, hoverLabel(model, i), geometry.Church.String())
	require.Contains(t, hoverLabel(model, i), "50 x 40")

	require.Equal(t, -1, model.StructureAt(60, 60))
	require.Equal(t, "Cursor: open ground", hoverLabel(model, -1))
}

func TestOutlineClosesFootprint(t *testing.T) {
	box := geometry.BoundingBox{MinX: 10, MaxX: 20, MinY: 30, MaxY: 50}
	at := func(x, y float64) (float32, float32) { return float32(x * 2), float32(y * 2) }

	pts := outline(box, at)
	require.Equal(t, [2]float32{20, 60}, pts[0])
	require.Equal(t, [2]float32{40, 60}, pts[1])
	require.Equal(t, [2]float32{40, 100}, pts[2])
	require.Equal(t, [2]float32{20, 100}, pts[3])
	require.Equal(t, pts[0], pts[4])
}
