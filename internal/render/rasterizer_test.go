package render

import (
	"image/color"
	"math"
	"math/rand"
	"testing"

	"hamlet/internal/geometry"
	"hamlet/internal/raycast"
	"hamlet/internal/texture"

	"github.com/stretchr/testify/require"
)

var (
	red   = color.RGBA{200, 0, 0, 255}
	green = color.RGBA{0, 200, 0, 255}
	blue  = color.RGBA{0, 0, 200, 255}
	white = color.RGBA{200, 200, 200, 255}
)

func newCaster(t *testing.T, structures ...geometry.Structure) *raycast.Caster {
	t.Helper()
	model, err := geometry.Compile(structures, nil)
	require.NoError(t, err)
	return raycast.NewCaster(model)
}

func solidAtlas() *texture.Atlas {
	atlas := texture.NewAtlas()
	atlas.SetWall(geometry.Fence, texture.Solid(8, 8, green))
	atlas.SetWall(geometry.Tower, texture.Solid(8, 8, blue))
	atlas.SetRoof(geometry.Tower, texture.Solid(8, 8, white))
	return atlas
}

func pixel(f *Frame, x, y int) color.RGBA {
	return f.Image.RGBAAt(x, y)
}

func forwardPose(rays int) Pose {
	return Pose{Z: 30, FOV: math.Pi / 3, RayCount: rays}
}

func TestRenderEmptyWorld(t *testing.T) {
	r := NewRasterizer(DefaultSettings(), newCaster(t), texture.NewAtlas(), DefaultSky())
	f := NewFrame(120, 80)

	depth := r.Render(f, forwardPose(60))
	require.Equal(t, 60, depth.Len())
	for i := 0; i < depth.Len(); i++ {
		require.True(t, math.IsInf(depth.At(i), 1))
	}

	for i := 3; i < len(f.Image.Pix); i += 4 {
		require.Equal(t, uint8(255), f.Image.Pix[i])
	}

	top := pixel(f, 10, 0)
	require.Equal(t, color.RGBA{10, 10, 30, 255}, top)

	horizon := pixel(f, 10, 40)
	require.Equal(t, color.RGBA{10, 10, 26, 255}, horizon)

	// Ground rows use the flat ground colour when the atlas has none.
	ground := pixel(f, 10, 79)
	require.Greater(t, ground.G, ground.R)
	require.Greater(t, ground.G, ground.B)
}

func TestRenderWallRows(t *testing.T) {
	caster := newCaster(t, geometry.Structure{X: 600, Y: -500, Width: 8, Depth: 1000, Category: geometry.Fence})
	r := NewRasterizer(DefaultSettings(), caster, solidAtlas(), DefaultSky())
	f := NewFrame(400, 600)

	depth := r.Render(f, forwardPose(400))

	// Scale is 600/600 = 1: the fence spans horizon+10 to horizon+30.
	for y := 310; y < 330; y++ {
		// brightness 0.5 for the distance, 0.8 for a lateral face
		require.Equal(t, color.RGBA{0, 80, 0, 255}, pixel(f, 200, y), "row %d", y)
	}
	// Ground shows just below the fence and, looking down over it, just
	// above the top edge of its far face.
	require.Greater(t, pixel(f, 200, 330).R, uint8(0))
	require.Greater(t, pixel(f, 200, 308).R, uint8(0))

	for c := 0; c < depth.Len(); c++ {
		require.InDelta(t, 600, depth.At(c), 1e-6, "column %d", c)
	}
}

func TestRenderNearWallOccludesFarWall(t *testing.T) {
	caster := newCaster(t,
		geometry.Structure{X: 600, Y: -50, Width: 40, Depth: 100, Category: geometry.Tower},
		geometry.Structure{X: 300, Y: -50, Width: 8, Depth: 100, Category: geometry.Fence},
	)
	r := NewRasterizer(DefaultSettings(), caster, solidAtlas(), DefaultSky())
	f := NewFrame(400, 600)

	depth := r.Render(f, forwardPose(400))
	require.InDelta(t, 300, depth.At(200), 1e-9)

	isFence := func(c color.RGBA) bool { return c.G > 0 && c.R == 0 && c.B == 0 }
	isTower := func(c color.RGBA) bool { return c.B > 0 && c.R == 0 && c.G == 0 }
	isRoof := func(c color.RGBA) bool { return c.R > 0 && c.R == c.G && c.G == c.B }

	for y := 320; y < 360; y++ {
		require.True(t, isFence(pixel(f, 200, y)), "fence row %d: %v", y, pixel(f, 200, y))
	}
	// The far face of the fence peeks above the near one.
	require.True(t, isFence(pixel(f, 200, 319)))
	for y := 211; y < 319; y++ {
		require.True(t, isTower(pixel(f, 200, y)), "tower row %d: %v", y, pixel(f, 200, y))
	}
	for y := 171; y < 209; y++ {
		require.True(t, isRoof(pixel(f, 200, y)), "roof row %d: %v", y, pixel(f, 200, y))
	}
	require.False(t, isRoof(pixel(f, 200, 168)))
	require.False(t, isFence(pixel(f, 200, 360)))

	// Peaked roofs are brighter towards the top.
	require.Greater(t, pixel(f, 200, 171).R, pixel(f, 200, 208).R)
}

func TestRenderMissingCategoryFallsBack(t *testing.T) {
	caster := newCaster(t, geometry.Structure{X: 100, Y: -500, Width: 10, Depth: 1000, Category: geometry.Barn})
	atlas := texture.NewAtlas()
	atlas.SetWall(geometry.House, texture.Solid(4, 4, red))

	r := NewRasterizer(DefaultSettings(), caster, atlas, DefaultSky())
	f := NewFrame(100, 300)
	r.Render(f, forwardPose(100))

	c := pixel(f, 50, 150)
	require.Greater(t, c.R, uint8(0))
	require.Zero(t, c.G)
	require.Zero(t, c.B)
}

func TestRenderNilTexturesUseProfileColours(t *testing.T) {
	caster := newCaster(t, geometry.Structure{X: 100, Y: -500, Width: 10, Depth: 1000, Category: geometry.Church})
	r := NewRasterizer(DefaultSettings(), caster, nil, DefaultSky())
	f := NewFrame(100, 300)
	r.Render(f, forwardPose(100))

	wall := geometry.Church.Profile().WallColor
	cr, cg, cb := shade(wall, fade(100, 1200, 0.25)*0.8)
	require.Equal(t, color.RGBA{cr, cg, cb, 255}, pixel(f, 50, 150))
}

func TestRenderStraightAheadHouse(t *testing.T) {
	caster := newCaster(t, geometry.Structure{X: 20, Y: -5, Width: 10, Depth: 10, Category: geometry.House})
	r := NewRasterizer(DefaultSettings(), caster, nil, DefaultSky())
	f := NewFrame(2, 2000)

	// Column 1 of 2 looks straight along +x.
	depth := r.Render(f, Pose{Z: 30, FOV: math.Pi / 3, RayCount: 2})
	require.InDelta(t, 20, depth.At(1), 1e-9)

	// Scale 600/20 = 30 around a horizon at 1000: the 60 high wall spans
	// 1000+(30-60)*30 = 100 to 1000+30*30 = 1900.
	profile := geometry.House.Profile()
	cr, cg, cb := shade(profile.WallColor, fade(20, 1200, 0.25)*0.8)
	wall := color.RGBA{cr, cg, cb, 255}
	require.Equal(t, wall, pixel(f, 1, 100))
	require.Equal(t, wall, pixel(f, 1, 1899))
	require.NotEqual(t, wall, pixel(f, 1, 99), "roof above the wall top")
	require.NotEqual(t, wall, pixel(f, 1, 1900), "ground below the wall")
}

func TestRenderRoofReachesTotalHeight(t *testing.T) {
	caster := newCaster(t, geometry.Structure{X: 60, Y: -5, Width: 10, Depth: 10, Category: geometry.House})
	r := NewRasterizer(DefaultSettings(), caster, nil, DefaultSky())
	empty := NewRasterizer(DefaultSettings(), newCaster(t), nil, DefaultSky())
	pose := Pose{Z: 30, FOV: math.Pi / 3, RayCount: 2}

	f := NewFrame(2, 2000)
	sky := NewFrame(2, 2000)
	r.Render(f, pose)
	empty.Render(sky, pose)

	// Scale 600/60 = 10: the roof of the 60+30 high house starts at
	// 1000+(30-90)*10 = 400 and the wall at 1000+(30-60)*10 = 700.
	require.Equal(t, pixel(sky, 1, 399), pixel(f, 1, 399))
	require.NotEqual(t, pixel(sky, 1, 400), pixel(f, 1, 400))
	require.NotEqual(t, pixel(f, 1, 400), pixel(f, 1, 700), "roof and wall differ")
}

func TestRenderResizeBetweenFrames(t *testing.T) {
	r := NewRasterizer(DefaultSettings(), newCaster(t), solidAtlas(), DefaultSky())
	f := NewFrame(100, 50)
	require.Equal(t, 80, r.Render(f, forwardPose(80)).Len())

	f.Resize(200, 100)
	require.Equal(t, 200, f.Width())
	require.Equal(t, 100, f.Height())

	depth := r.Render(f, forwardPose(50))
	require.Equal(t, 50, depth.Len())
	for i := 3; i < len(f.Image.Pix); i += 4 {
		require.Equal(t, uint8(255), f.Image.Pix[i])
	}
}

func TestRenderReusedFrameForgetsPreviousWalls(t *testing.T) {
	caster := newCaster(t, geometry.Structure{X: 100, Y: -500, Width: 8, Depth: 1000, Category: geometry.Fence})
	r := NewRasterizer(DefaultSettings(), caster, solidAtlas(), DefaultSky())

	walled := forwardPose(120)
	open := forwardPose(120)
	open.Heading = math.Pi

	f := NewFrame(240, 160)
	depth := r.Render(f, walled)
	for i := 0; i < depth.Len(); i++ {
		require.False(t, math.IsInf(depth.At(i), 1), "column %d sees the fence", i)
	}

	depth = r.Render(f, open)
	require.Equal(t, 120, depth.Len())
	for i := 0; i < depth.Len(); i++ {
		require.True(t, math.IsInf(depth.At(i), 1), "column %d", i)
	}

	fresh := NewFrame(240, 160)
	r.Render(fresh, open)
	require.Equal(t, fresh.Image.Pix, f.Image.Pix)
}

func TestRenderPitchMovesHorizon(t *testing.T) {
	r := NewRasterizer(DefaultSettings(), newCaster(t), solidAtlas(), DefaultSky())
	f := NewFrame(100, 600)

	pose := forwardPose(100)
	pose.Pitch = 0.25
	r.Render(f, pose)

	// horizon = 300 + 0.25*300
	require.Equal(t, DefaultSky().Background, pixel(f, 50, 375))
	require.NotEqual(t, DefaultSky().Background, pixel(f, 50, 374))
}

func randomStructures(rng *rand.Rand, n int) []geometry.Structure {
	categories := []geometry.Category{geometry.House, geometry.Tower, geometry.Barn, geometry.Well, geometry.Church, geometry.Fence}
	structures := make([]geometry.Structure, n)
	for i := range structures {
		structures[i] = geometry.Structure{
			X:        rng.Float64()*800 - 400,
			Y:        rng.Float64()*800 - 400,
			Width:    10 + rng.Float64()*60,
			Depth:    10 + rng.Float64()*60,
			Category: categories[rng.Intn(len(categories))],
		}
	}
	return structures
}

func TestRenderIsDeterministic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	caster := newCaster(t, randomStructures(rng, 30)...)
	atlas := texture.VillageAtlas(3)

	r := NewRasterizer(DefaultSettings(), caster, atlas, DefaultSky())
	a := NewFrame(160, 120)
	b := NewFrame(160, 120)

	pose := Pose{X: 5, Y: -3, Z: 30, Heading: 0.7, Pitch: -0.05, FOV: math.Pi / 3, RayCount: 160}
	da := r.Render(a, pose).Values()
	db := r.Render(b, pose).Values()
	require.Equal(t, a.Image.Pix, b.Image.Pix)
	require.Equal(t, da, db)
}

func TestRenderParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	caster := newCaster(t, randomStructures(rng, 40)...)
	atlas := texture.VillageAtlas(5)

	sequential := NewRenderer(DefaultSettings(), caster, atlas, DefaultSky())
	defer sequential.Close()

	settings := DefaultSettings()
	settings.Workers = 4
	parallel := NewRenderer(settings, caster, atlas, DefaultSky())
	defer parallel.Close()

	a := NewFrame(203, 97)
	b := NewFrame(203, 97)
	for _, heading := range []float64{0, 1.3, -2.2, math.Pi} {
		pose := Pose{Z: 30, Heading: heading, FOV: math.Pi / 3, RayCount: 150}
		da, _ := sequential.RenderFrame(a, pose)
		db, _ := parallel.RenderFrame(b, pose)
		require.Equal(t, a.Image.Pix, b.Image.Pix, "heading %v", heading)
		require.Equal(t, da.Values(), db.Values())
	}
}

func TestColumnAngle(t *testing.T) {
	pose := Pose{Heading: 1, FOV: 0.8, RayCount: 4}
	require.InDelta(t, 0.6, pose.ColumnAngle(0), 1e-12)
	require.InDelta(t, 1.0, pose.ColumnAngle(2), 1e-12)
	require.InDelta(t, 1.2, pose.ColumnAngle(3), 1e-12)

	require.Equal(t, 1, Pose{}.rays())
}

func TestDepthBufferBounds(t *testing.T) {
	d := DepthBuffer{values: []float64{1, 2}}
	require.True(t, math.IsInf(d.At(-1), 1))
	require.True(t, math.IsInf(d.At(2), 1))

	values := d.Values()
	values[0] = 9
	require.Equal(t, 1.0, d.At(0))

	// Ten pixels over two columns: 0..4 then 5..9.
	require.Equal(t, 1.0, d.AtScreen(4, 10))
	require.Equal(t, 2.0, d.AtScreen(5, 10))
	require.True(t, math.IsInf(DepthBuffer{}.AtScreen(0, 10), 1))
}
