package world

import (
	"image/color"
	"math"
	"math/rand"
	"path/filepath"
	"testing"

	"hamlet/internal/geometry"
	"hamlet/internal/raycast"
	"hamlet/internal/render"
	"hamlet/internal/texture"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

var villagePath = filepath.Join("..", "..", "assets", "village.yaml")

func TestLoadVillageMap(t *testing.T) {
	md, err := LoadMap(villagePath)
	require.NoError(t, err)
	require.Equal(t, 2000.0, md.Size)
	require.Len(t, md.Boundaries, 5)
	require.Len(t, md.Structures, 61)

	model, err := md.Model()
	require.NoError(t, err)
	require.Equal(t, 61, model.Len())

	i := model.StructureAt(980, 980)
	require.GreaterOrEqual(t, i, 0)
	require.Equal(t, geometry.Tower, model.Structure(i).Category)
}

func TestVillageGate(t *testing.T) {
	md, err := LoadMap(villagePath)
	require.NoError(t, err)
	model, err := md.Model()
	require.NoError(t, err)
	caster := raycast.NewCaster(model)

	// Looking north through the gate reaches the forest.
	require.Empty(t, caster.Cast(1000, 10, -math.Pi/2, nil))

	hits := caster.Cast(500, 10, -math.Pi/2, nil)
	require.Len(t, hits, 1)
	require.True(t, hits[0].Boundary)
	require.InDelta(t, 10, hits[0].Distance, 1e-9)
}

func TestParseMapErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "malformed", yaml: "size: [1, 2"},
		{name: "no size", yaml: "structures: []"},
		{name: "negative size", yaml: "size: -5"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ParseMap([]byte(test.yaml))
			require.Error(t, err)
			require.Equal(t, ErrTypeMapLoad, errors.Type(err))
		})
	}

	_, err := LoadMap(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Equal(t, ErrTypeMapLoad, errors.Type(err))
}

func TestMapModelErrors(t *testing.T) {
	md, err := ParseMap([]byte(`
size: 100
structures:
  - {category: castle, x: 10, y: 10, width: 5, depth: 5}
`))
	require.NoError(t, err)
	_, err = md.Model()
	require.Equal(t, ErrTypeMapLoad, errors.Type(err))

	md, err = ParseMap([]byte(`
size: 100
structures:
  - {category: house, x: 10, y: 10, width: 0, depth: 5}
`))
	require.NoError(t, err)
	_, err = md.Model()
	require.Equal(t, ErrTypeMapLoad, errors.Type(err))
}

func testLayout() ForestLayout {
	return ForestLayout{
		MinX: 100, MaxX: 1900, MinY: -800, MaxY: -280,
		Gate: GateLayout{LeftX: 820, RightX: 1120, Spread: 60, TopY: -300, Rows: 10, Spacing: 40},
	}
}

func TestPlantForest(t *testing.T) {
	layout := testLayout()
	trees := PlantForest(layout, rand.New(rand.NewSource(1)))
	require.Greater(t, len(trees), 20)

	grid := trees[:len(trees)-2*layout.Gate.Rows]
	for _, tree := range grid {
		require.GreaterOrEqual(t, tree.X, layout.MinX-10)
		require.Less(t, tree.X, layout.MaxX+10)
		require.GreaterOrEqual(t, tree.Y, layout.MinY-7.5)
		require.Less(t, tree.Y, layout.MaxY+7.5)
		require.GreaterOrEqual(t, tree.Scale, 0.9)
		require.Less(t, tree.Scale, 1.3)
		require.GreaterOrEqual(t, tree.Variation, 0)
		require.Less(t, tree.Variation, texture.TreeVariations)
	}

	gate := trees[len(grid):]
	for i, tree := range gate {
		left := layout.Gate.LeftX
		if i >= layout.Gate.Rows {
			left = layout.Gate.RightX
		}
		require.GreaterOrEqual(t, tree.X, left)
		require.Less(t, tree.X, left+layout.Gate.Spread)
		require.Less(t, tree.Y, layout.Gate.TopY+20)
	}

	again := PlantForest(layout, rand.New(rand.NewSource(1)))
	require.Equal(t, trees, again)
}

func TestForestBillboards(t *testing.T) {
	trees := []Tree{
		{X: 1, Y: 2, Variation: 3, Scale: 1.5},
		{X: 4, Y: 5, Variation: 8, Scale: 1},
	}
	forest := NewForest(trees, nil)

	billboards := forest.AppendBillboards(nil)
	require.Len(t, billboards, 2)
	require.Nil(t, billboards[0].Texture)
	require.Equal(t, 60.0, billboards[0].Width)
	require.Equal(t, 90.0, billboards[0].Height)

	textures := texture.Trees(rand.New(rand.NewSource(2)))
	forest.SetTextures(textures)

	billboards = forest.AppendBillboards(billboards[:0])
	require.Same(t, textures[3], billboards[0].Texture)
	require.Same(t, textures[8%len(textures)], billboards[1].Texture)

	var _ render.BillboardProvider = forest
}

func TestLoadVillage(t *testing.T) {
	v, err := LoadVillage(villagePath, 42, 20)
	require.NoError(t, err)
	require.Len(t, v.Crowd.Villagers(), 20)
	require.NotEmpty(t, v.Forest.Trees())
	require.Len(t, v.Providers(), 2)

	for _, villager := range v.Crowd.Villagers() {
		require.True(t, v.Collision.CanMoveTo(villager.X, villager.Y, spawnBody))
	}

	_, err = LoadVillage("missing.yaml", 1, 1)
	require.Equal(t, ErrTypeMapLoad, errors.Type(err))
}

func TestVillagersAvoidBuildings(t *testing.T) {
	v, err := LoadVillage(villagePath, 7, 20)
	require.NoError(t, err)

	for tick := 0; tick < 1000; tick++ {
		v.Update()
		for _, villager := range v.Crowd.Villagers() {
			require.False(t, v.Collision.Blocked(villager.X, villager.Y, walkingBody.Radius), "tick %d", tick)
			require.True(t, v.Collision.InWorld(villager.X, villager.Y, villagerMargin), "tick %d", tick)
		}
	}
}

func TestVillagersAreDeterministic(t *testing.T) {
	a, err := LoadVillage(villagePath, 3, 20)
	require.NoError(t, err)
	b, err := LoadVillage(villagePath, 3, 20)
	require.NoError(t, err)

	for tick := 0; tick < 200; tick++ {
		a.Update()
		b.Update()
	}

	for i, va := range a.Crowd.Villagers() {
		vb := b.Crowd.Villagers()[i]
		require.Equal(t, va.X, vb.X)
		require.Equal(t, va.Y, vb.Y)
	}
}

func TestCrowdBillboards(t *testing.T) {
	v, err := LoadVillage(villagePath, 5, 3)
	require.NoError(t, err)

	tex := texture.Villager(color.RGBA{120, 40, 40, 255})
	v.Crowd.SetTexture(tex)

	billboards := v.Crowd.AppendBillboards(nil)
	require.Len(t, billboards, 3)
	for i, b := range billboards {
		require.Equal(t, v.Crowd.Villagers()[i].X, b.X)
		require.Equal(t, float64(VillagerWidth), b.Width)
		require.Equal(t, float64(VillagerHeight), b.Height)
		require.Same(t, tex, b.Texture)
	}
}

func TestSpawnCrowdWithoutRoom(t *testing.T) {
	md := &MapData{
		Size: 400,
		Structures: []StructureData{
			{Category: "barn", X: 0, Y: 0, Width: 400, Depth: 400},
		},
	}
	v, err := NewVillage(md, 1, 5)
	require.NoError(t, err)
	require.Empty(t, v.Crowd.Villagers())
}
