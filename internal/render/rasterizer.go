package render

import (
	"image/color"
	"math"

	"hamlet/internal/geometry"
	"hamlet/internal/raycast"
	"hamlet/internal/texture"
	"hamlet/internal/threading/core"
)

var groundColor = color.RGBA{0x4a, 0x7c, 0x3f, 255}

// columnScratch is the per-task working memory of the column pass.
type columnScratch struct {
	hits   []raycast.Hit
	filled []bool
}

func (s *columnScratch) reset(height int) {
	if cap(s.filled) < height {
		s.filled = make([]bool, height)
	}
	s.filled = s.filled[:height]
	clear(s.filled)
}

// Rasterizer casts one ray per column and paints walls, roofs, ground and
// sky into a frame, producing the frame's depth buffer.
type Rasterizer struct {
	settings Settings
	caster   *raycast.Caster
	atlas    *texture.Atlas
	sky      Sky
	pool     *core.WorkerPool
	scratch  []columnScratch
}

// NewRasterizer creates a sequential rasterizer.
func NewRasterizer(settings Settings, caster *raycast.Caster, atlas *texture.Atlas, sky Sky) *Rasterizer {
	return &Rasterizer{
		settings: settings.withFallbacks(),
		caster:   caster,
		atlas:    atlas,
		sky:      sky,
		scratch:  make([]columnScratch, 1),
	}
}

// useWorkerPool switches to the parallel column pass.
func (r *Rasterizer) useWorkerPool(pool *core.WorkerPool) {
	r.pool = pool
	if pool != nil {
		r.scratch = make([]columnScratch, pool.GetNumWorkers())
	}
}

// frameView holds the constants shared by every column of one frame.
type frameView struct {
	frame   *Frame
	pose    Pose
	rays    int
	width   int
	height  int
	horizon float64
	depth   []float64
	sky     skyView
}

// Render draws the column pass of one frame and returns its depth buffer.
// Every pixel of the frame is overwritten.
func (r *Rasterizer) Render(f *Frame, pose Pose) DepthBuffer {
	rays := pose.rays()
	v := frameView{
		frame:   f,
		pose:    pose,
		rays:    rays,
		width:   f.Width(),
		height:  f.Height(),
		horizon: pose.horizon(f.Height(), r.settings.PitchScale),
		depth:   f.resetDepth(rays),
	}
	v.sky = newSkyView(r.sky, v.width, v.height, v.horizon, pose.Heading, r.settings.SkyHeightFraction)
	f.clearAlpha()

	if r.pool == nil {
		s := &r.scratch[0]
		for c := 0; c < rays; c++ {
			r.renderColumn(&v, c, s)
		}
	} else {
		r.pool.ParallelChunks(0, rays, func(chunk, lo, hi int) {
			s := &r.scratch[chunk]
			for c := lo; c < hi; c++ {
				r.renderColumn(&v, c, s)
			}
		})
	}

	return DepthBuffer{values: v.depth}
}

func (r *Rasterizer) renderColumn(v *frameView, c int, s *columnScratch) {
	angle := v.pose.ColumnAngle(c)
	dx, dy := math.Cos(angle), math.Sin(angle)
	cosRel := math.Cos(angle - v.pose.Heading)

	x0, x1 := columnSpan(c, v.width, v.rays)

	s.reset(v.height)
	s.hits = r.caster.CastDir(v.pose.X, v.pose.Y, dx, dy, s.hits)

	filled := 0
	first := true
	for i := range s.hits {
		hit := &s.hits[i]
		corrected := hit.Distance * cosRel
		if corrected <= 0 {
			continue
		}
		if first {
			v.depth[c] = corrected
			first = false
		}
		if x1 <= x0 || filled == v.height {
			break
		}
		filled += r.drawHit(v, s.filled, x0, x1, hit, corrected)
	}

	if x1 <= x0 || filled == v.height {
		return
	}
	r.drawGroundAndSky(v, s.filled, x0, x1, dx, dy)
}

// drawHit projects one wall hit and paints its wall and roof spans into
// rows not yet claimed by a nearer hit. It returns the rows it painted.
func (r *Rasterizer) drawHit(v *frameView, filled []bool, x0, x1 int, hit *raycast.Hit, corrected float64) int {
	profile := hit.Category.Profile()
	wallTex := r.atlas.Wall(hit.Category)
	roofTex := r.atlas.Roof(hit.Category)
	if hit.Boundary {
		wallTex = r.atlas.Wall(r.settings.BoundaryTexture)
	}

	scale := r.settings.ProjectionScale / corrected
	z := v.pose.Z
	bottom := v.horizon + z*scale
	wallTop := v.horizon + (z-profile.WallHeight)*scale

	brightness := fade(corrected, r.settings.WallFadeDistance, r.settings.BrightnessMin)
	if hit.Side.IsLateral() {
		brightness *= r.settings.SideShade
	}

	painted := 0
	start, end := rowSpan(wallTop, bottom, v.height)
	for y := start; y < end; y++ {
		if filled[y] {
			continue
		}
		progress := (float64(y) - wallTop) / (bottom - wallTop)
		cr, cg, cb := r.texel(wallTex, profile.WallColor, hit.TexCoord, progress, brightness)
		v.frame.fillSpan(x0, x1, y, cr, cg, cb)
		filled[y] = true
		painted++
	}

	if !profile.HasRoof() {
		return painted
	}

	roofTop := v.horizon + (z-profile.TotalHeight())*scale
	start, end = rowSpan(roofTop, wallTop, v.height)
	for y := start; y < end; y++ {
		if filled[y] {
			continue
		}
		progress := (float64(y) - roofTop) / (wallTop - roofTop)
		b := brightness
		if profile.Roof == geometry.RoofPeaked {
			b *= r.settings.RoofShadeBase + r.settings.RoofShadeRange*(1-progress)
		}
		cr, cg, cb := r.texel(roofTex, profile.RoofColor, hit.TexCoord, progress, b)
		v.frame.fillSpan(x0, x1, y, cr, cg, cb)
		filled[y] = true
		painted++
	}
	return painted
}

// rowSpan clips the screen interval [floor(top), ceil(bottom)) to the frame.
func rowSpan(top, bottom float64, height int) (int, int) {
	start := math.Max(0, math.Floor(top))
	end := math.Min(float64(height), math.Ceil(bottom))
	if end <= start {
		return 0, 0
	}
	return int(start), int(end)
}

func (r *Rasterizer) texel(t *texture.Texture, fallback color.RGBA, texCoord, progress, brightness float64) (uint8, uint8, uint8) {
	if t == nil {
		return shade(fallback, brightness)
	}
	tx := texIndex(texCoord*r.settings.TextureRepeat, t.Width)
	ty := texIndex(progress, t.Height)
	return shade(t.At(tx, ty), brightness)
}

// drawGroundAndSky fills every row the walls left empty: ground below the
// horizon, sky above it.
func (r *Rasterizer) drawGroundAndSky(v *frameView, filled []bool, x0, x1 int, dx, dy float64) {
	ground := r.atlas.Ground()

	for y := 0; y < v.height; y++ {
		if filled[y] {
			continue
		}

		screenDist := float64(y) - v.horizon
		if screenDist <= 0 {
			for x := x0; x < x1; x++ {
				cr, cg, cb := v.sky.color(x, y)
				v.frame.setPixel(x, y, cr, cg, cb)
			}
			continue
		}

		dist := v.pose.Z * r.settings.ProjectionScale / screenDist
		brightness := fade(dist, r.settings.GroundFadeDistance, r.settings.BrightnessMin)

		var cr, cg, cb uint8
		if ground == nil {
			cr, cg, cb = shade(groundColor, brightness)
		} else {
			gx := v.pose.X + dx*dist
			gy := v.pose.Y + dy*dist
			tx := int(math.Abs(gx)/r.settings.GroundTexelSize) % ground.Width
			ty := int(math.Abs(gy)/r.settings.GroundTexelSize) % ground.Height
			cr, cg, cb = shade(ground.At(tx, ty), brightness)
		}
		v.frame.fillSpan(x0, x1, y, cr, cg, cb)
	}
}
