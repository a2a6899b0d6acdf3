package texture

import (
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"hamlet/internal/geometry"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestTextureSampling(t *testing.T) {
	tex := New(4, 2)
	red := color.RGBA{255, 0, 0, 255}
	tex.Set(3, 1, red)
	tex.Set(9, 9, red)

	require.Equal(t, red, tex.At(3, 1))
	require.Equal(t, red, tex.At(50, 50), "clamped")
	require.Equal(t, red, tex.Wrap(-1, -1), "wrapped")
	require.Equal(t, red, tex.Wrap(7, 3))
	require.Equal(t, color.RGBA{}, tex.At(0, 0))
}

func TestFromImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(10, 10, 12, 12))
	img.Set(11, 11, color.RGBA{0, 0, 255, 255})

	tex := FromImage(img)
	require.Equal(t, 2, tex.Width)
	require.Equal(t, 2, tex.Height)
	require.Equal(t, color.RGBA{0, 0, 255, 255}, tex.At(1, 1))
	require.Equal(t, uint8(0), tex.At(0, 0).A)
}

func TestMirrorWide(t *testing.T) {
	tex := New(3, 1)
	tex.Set(0, 0, color.RGBA{1, 2, 3, 255})

	wide := tex.MirrorWide()
	require.Equal(t, 6, wide.Width)
	require.Equal(t, tex.At(0, 0), wide.At(0, 0))
	require.Equal(t, tex.At(0, 0), wide.At(5, 0))
}

func TestAtlasFallsBackToHouse(t *testing.T) {
	a := NewAtlas()
	house := Solid(1, 1, color.RGBA{1, 1, 1, 255})
	a.SetWall(geometry.House, house)
	a.SetRoof(geometry.House, house)

	require.Same(t, house, a.Wall(geometry.Church))
	require.Same(t, house, a.Roof(geometry.Tower))
	require.Nil(t, a.Ground())

	var empty *Atlas
	require.Nil(t, empty.Wall(geometry.House))
}

func TestVillageAtlas(t *testing.T) {
	a := VillageAtlas(1)
	for _, c := range geometry.Categories() {
		wall := a.Wall(c)
		require.NotNil(t, wall, c.String())
		require.Equal(t, Size, wall.Width)
	}
	require.NotNil(t, a.Roof(geometry.Church))
	require.NotNil(t, a.Ground())

	// Same seed, same textures.
	require.Equal(t, a.Wall(geometry.Barn).Pix, VillageAtlas(1).Wall(geometry.Barn).Pix)
}

func TestTreesHaveTransparentBackground(t *testing.T) {
	trees := Trees(rand.New(rand.NewSource(3)))
	require.Len(t, trees, TreeVariations)

	for i, tree := range trees {
		require.Equal(t, 64, tree.Width)
		require.Equal(t, 96, tree.Height)
		require.Equal(t, uint8(0), tree.At(0, 0).A, "variation %d corner", i)
		require.Greater(t, tree.At(32, 94).A, uint8(128), "variation %d trunk", i)
	}
}

func TestVillagerPlaceholder(t *testing.T) {
	v := Villager(color.RGBA{40, 80, 160, 255})
	require.Equal(t, 30, v.Width)
	require.Equal(t, 45, v.Height)
	require.Equal(t, uint8(0), v.At(0, 0).A)
	require.Equal(t, uint8(255), v.At(15, 25).A)
}

func TestLibrary(t *testing.T) {
	dir := t.TempDir()
	img := image.NewNRGBA(image.Rect(0, 0, 2, 3))
	img.Set(0, 0, color.NRGBA{9, 8, 7, 255})

	f, err := os.Create(filepath.Join(dir, "worker.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	lib := NewLibrary(filepath.Join(dir, "missing"), dir)

	worker, ok := lib.Lookup("worker")
	require.True(t, ok)
	require.Equal(t, 3, worker.Height)
	require.Equal(t, color.RGBA{9, 8, 7, 255}, worker.At(0, 0))

	_, ok = lib.Lookup("ghost")
	require.False(t, ok)

	placeholder := lib.Get("ghost", nil)
	require.Equal(t, 16, placeholder.Width)
	require.Same(t, placeholder, lib.Get("ghost", nil))

	custom := lib.Get("phantom", func() *Texture { return Solid(2, 2, color.RGBA{A: 255}) })
	require.Equal(t, 2, custom.Width)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"))
	require.Error(t, err)
	require.Equal(t, ErrTypeTextureLoad, errors.Type(err))

	bad := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("not a png"), 0o644))
	_, err = LoadSky(bad)
	require.Error(t, err)
	require.Equal(t, ErrTypeTextureLoad, errors.Type(err))
}
