package world

import (
	"math/rand"

	"hamlet/internal/render"
	"hamlet/internal/texture"
)

const (
	TreeWidth  = 40
	TreeHeight = 60
)

// Tree is a static billboard. Scale multiplies TreeWidth and TreeHeight.
type Tree struct {
	X, Y      float64
	Variation int
	Scale     float64
}

// PlantForest scatters trees over the layout. The same rng sequence
// always yields the same forest.
func PlantForest(layout ForestLayout, rng *rand.Rand) []Tree {
	var trees []Tree

	for x := layout.MinX; x < layout.MaxX; x += 30 + rng.Float64()*25 {
		for y := layout.MinY; y < layout.MaxY; y += 25 + rng.Float64()*20 {
			trees = append(trees, Tree{
				X:         x + (rng.Float64()-0.5)*20,
				Y:         y + (rng.Float64()-0.5)*15,
				Variation: rng.Intn(texture.TreeVariations),
				Scale:     0.9 + rng.Float64()*0.4,
			})
		}
	}

	gate := layout.Gate
	for _, left := range []float64{gate.LeftX, gate.RightX} {
		for i := 0; i < gate.Rows; i++ {
			trees = append(trees, Tree{
				X:         left + rng.Float64()*gate.Spread,
				Y:         gate.TopY - float64(i)*gate.Spacing + rng.Float64()*20,
				Variation: rng.Intn(texture.TreeVariations),
				Scale:     1 + rng.Float64()*0.3,
			})
		}
	}
	return trees
}

// Forest provides tree billboards.
type Forest struct {
	trees    []Tree
	textures []*texture.Texture
}

// NewForest creates a forest; textures are indexed by tree variation.
func NewForest(trees []Tree, textures []*texture.Texture) *Forest {
	return &Forest{trees: trees, textures: textures}
}

func (f *Forest) Trees() []Tree {
	return f.trees
}

// SetTextures replaces the variation textures.
func (f *Forest) SetTextures(textures []*texture.Texture) {
	f.textures = textures
}

// AppendBillboards implements render.BillboardProvider. Trees without a
// texture are appended with a nil texture, which the compositor skips.
func (f *Forest) AppendBillboards(dst []render.Billboard) []render.Billboard {
	for _, t := range f.trees {
		var tex *texture.Texture
		if n := len(f.textures); n > 0 {
			tex = f.textures[t.Variation%n]
		}
		dst = append(dst, render.Billboard{
			X:       t.X,
			Y:       t.Y,
			Width:   TreeWidth * t.Scale,
			Height:  TreeHeight * t.Scale,
			Texture: tex,
		})
	}
	return dst
}
