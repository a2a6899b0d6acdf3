package texture

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	"hamlet/internal/geometry"

	"golang.org/x/image/vector"
)

// Size is the edge length of generated wall, roof and ground textures.
const Size = 32

// TreeVariations is the number of distinct tree shapes Tree can draw.
const TreeVariations = 7

func scaleColor(c color.RGBA, f float64) color.RGBA {
	return color.RGBA{
		R: uint8(math.Min(255, float64(c.R)*f)),
		G: uint8(math.Min(255, float64(c.G)*f)),
		B: uint8(math.Min(255, float64(c.B)*f)),
		A: c.A,
	}
}

func offsetColor(c color.RGBA, d float64) color.RGBA {
	shift := func(v uint8) uint8 {
		return uint8(math.Max(0, math.Min(255, float64(v)+d)))
	}
	return color.RGBA{R: shift(c.R), G: shift(c.G), B: shift(c.B), A: c.A}
}

// blend mixes c over the existing texel with coverage alpha in [0, 1].
func (t *Texture) blend(x, y int, c color.RGBA, alpha float64) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	dst := t.At(x, y)
	mix := func(s, d uint8) uint8 {
		return uint8(float64(s)*alpha + float64(d)*(1-alpha))
	}
	t.Set(x, y, color.RGBA{mix(c.R, dst.R), mix(c.G, dst.G), mix(c.B, dst.B), dst.A})
}

func (t *Texture) fillRect(x, y, w, h int, c color.RGBA) {
	for yy := y; yy < y+h; yy++ {
		for xx := x; xx < x+w; xx++ {
			t.Set(xx, yy, c)
		}
	}
}

// Brick draws mortar lines every 8 rows and staggered joints every 16
// columns over base, then speckles it.
func Brick(base color.RGBA, rng *rand.Rand) *Texture {
	t := Solid(Size, Size, base)
	mortar := scaleColor(base, 0.7)

	for y := 0; y < Size; y += 8 {
		t.fillRect(0, y, Size, 1, mortar)
	}
	for row := 0; row < Size/8; row++ {
		offset := 0
		if row%2 == 1 {
			offset = 8
		}
		for x := offset; x < Size; x += 16 {
			t.fillRect(x, row*8, 1, 8, mortar)
		}
	}

	for i := 0; i < 50; i++ {
		x := rng.Intn(Size)
		y := rng.Intn(Size)
		c := offsetColor(base, (rng.Float64()-0.5)*30)
		for dy := 0; dy < 2; dy++ {
			for dx := 0; dx < 2; dx++ {
				t.blend(x+dx, y+dy, c, 0.3)
			}
		}
	}
	return t
}

// Shingle draws staggered 7x3 tiles with a shadow line under each row.
func Shingle(base color.RGBA, rng *rand.Rand) *Texture {
	t := Solid(Size, Size, base)
	shadow := color.RGBA{A: 255}

	for row := 0; row < Size/4; row++ {
		offset := 0
		if row%2 == 1 {
			offset = 4
		}
		for x := offset; x < Size; x += 8 {
			t.fillRect(x, row*4, 7, 3, offsetColor(base, (rng.Float64()-0.5)*20))
			for dx := 0; dx < 8; dx++ {
				t.blend(x+dx, row*4+3, shadow, 0.2)
			}
		}
	}
	return t
}

// Grass draws the ground texture: a green base with short blades.
func Grass(rng *rand.Rand) *Texture {
	t := Solid(Size, Size, color.RGBA{0x4a, 0x7c, 0x3f, 255})
	for i := 0; i < 100; i++ {
		x := rng.Intn(Size)
		y := rng.Intn(Size)
		c := color.RGBA{
			R: uint8(40 + rng.Float64()*30),
			G: uint8(60 + rng.Float64()*60),
			B: uint8(30 + rng.Float64()*20),
			A: 255,
		}
		t.fillRect(x, y, 1, 2, c)
	}
	return t
}

// VillageAtlas generates brick walls and shingle roofs coloured by every
// category profile plus the grass ground.
func VillageAtlas(seed int64) *Atlas {
	rng := rand.New(rand.NewSource(seed))
	a := NewAtlas()
	for _, c := range geometry.Categories() {
		p := c.Profile()
		a.SetWall(c, Brick(p.WallColor, rng))
		if p.HasRoof() {
			a.SetRoof(c, Shingle(p.RoofColor, rng))
		}
	}
	a.SetGround(Grass(rng))
	return a
}

// canvas rasterizes filled paths onto a texture.
type canvas struct {
	img *image.NRGBA
	z   *vector.Rasterizer
}

func newCanvas(w, h int) *canvas {
	return &canvas{
		img: image.NewNRGBA(image.Rect(0, 0, w, h)),
		z:   vector.NewRasterizer(w, h),
	}
}

func (c *canvas) fill(col color.RGBA) {
	b := c.img.Bounds()
	c.z.ClosePath()
	c.z.Draw(c.img, b, image.NewUniform(col), image.Point{})
	c.z.Reset(b.Dx(), b.Dy())
}

func (c *canvas) polygon(col color.RGBA, pts ...[2]float32) {
	if len(pts) < 3 {
		return
	}
	c.z.MoveTo(pts[0][0], pts[0][1])
	for _, p := range pts[1:] {
		c.z.LineTo(p[0], p[1])
	}
	c.fill(col)
}

func (c *canvas) rect(col color.RGBA, x, y, w, h float32) {
	c.polygon(col, [2]float32{x, y}, [2]float32{x + w, y}, [2]float32{x + w, y + h}, [2]float32{x, y + h})
}

func (c *canvas) ellipse(col color.RGBA, cx, cy, rx, ry float32) {
	const steps = 24
	c.z.MoveTo(cx+rx, cy)
	for i := 1; i < steps; i++ {
		a := float64(i) / steps * 2 * math.Pi
		c.z.LineTo(cx+rx*float32(math.Cos(a)), cy+ry*float32(math.Sin(a)))
	}
	c.fill(col)
}

// disc approximates a radial gradient with concentric ellipses.
func (c *canvas) disc(inner, outer color.RGBA, cx, cy, r float32) {
	const rings = 4
	for i := 0; i < rings; i++ {
		f := float64(i) / (rings - 1)
		col := color.RGBA{
			R: uint8(float64(outer.R) + (float64(inner.R)-float64(outer.R))*f),
			G: uint8(float64(outer.G) + (float64(inner.G)-float64(outer.G))*f),
			B: uint8(float64(outer.B) + (float64(inner.B)-float64(outer.B))*f),
			A: 255,
		}
		rr := r * float32(1-0.6*f)
		c.ellipse(col, cx, cy, rr, rr)
	}
}

func (c *canvas) stroke(col color.RGBA, x1, y1, x2, y2, width float32) {
	dx, dy := x2-x1, y2-y1
	l := float32(math.Hypot(float64(dx), float64(dy)))
	if l == 0 {
		return
	}
	nx, ny := -dy/l*width/2, dx/l*width/2
	c.polygon(col,
		[2]float32{x1 + nx, y1 + ny},
		[2]float32{x2 + nx, y2 + ny},
		[2]float32{x2 - nx, y2 - ny},
		[2]float32{x1 - nx, y1 - ny})
}

func (c *canvas) texture() *Texture {
	return fromNRGBA(c.img)
}

type barkColors struct {
	dark, mid color.RGBA
}

func (c *canvas) trunk(x, y, w, h float32, bark barkColors) {
	c.rect(bark.dark, x, y, w, h)
	c.rect(bark.mid, x+w*0.3, y, w*0.4, h)
	for i := float32(0); i < h; i += 6 {
		c.stroke(scaleColor(bark.dark, 0.8), x+2, y+i, x+w-2, y+i+3, 1)
	}
}

var (
	oakBark   = barkColors{dark: color.RGBA{0x3d, 0x28, 0x17, 255}, mid: color.RGBA{0x5c, 0x40, 0x33, 255}}
	pineBark  = barkColors{dark: color.RGBA{0x2d, 0x18, 0x10, 255}, mid: color.RGBA{0x4a, 0x35, 0x25, 255}}
	pale      = barkColors{dark: color.RGBA{0x4a, 0x3a, 0x2a, 255}, mid: color.RGBA{0x6a, 0x5a, 0x4a, 255}}
	birchBark = barkColors{dark: color.RGBA{0x50, 0x50, 0x48, 255}, mid: color.RGBA{0x7a, 0x7a, 0x70, 255}}
	deadBark  = barkColors{dark: color.RGBA{0x3a, 0x35, 0x30, 255}, mid: color.RGBA{0x5a, 0x55, 0x50, 255}}
)

// Tree draws one of TreeVariations tree billboards (pine, oak, tall pine,
// willow, cypress, birch, dead) on a transparent 64x96 texture.
func Tree(variation int, rng *rand.Rand) *Texture {
	const w, h = 64, 96
	const cx = w / 2
	c := newCanvas(w, h)

	switch ((variation % TreeVariations) + TreeVariations) % TreeVariations {
	case 0:
		trunkY := float32(h - 28)
		c.trunk(cx-5, trunkY, 10, 28, oakBark)
		layerH := (trunkY + 5 - 8) / 4
		for i := 0; i < 4; i++ {
			y := 8 + float32(i)*layerH*0.7
			lw := float32(18 + i*10)
			c.polygon(color.RGBA{25, 65, 20, 255}, [2]float32{cx, y}, [2]float32{cx - lw/2, y + layerH + 8}, [2]float32{cx + lw/2, y + layerH + 8})
			c.polygon(color.RGBA{40, 85, 32, 255}, [2]float32{cx, y - 3}, [2]float32{cx - lw/2 + 3, y + layerH + 5}, [2]float32{cx + lw/2 - 3, y + layerH + 5})
		}
	case 1:
		c.trunk(cx-7, h-30, 14, 30, oakBark)
		for _, b := range [][3]float32{{0, 0, 28}, {-12, 5, 19.6}, {12, 5, 19.6}, {0, -10, 16.8}, {-8, 12, 14}, {10, 10, 14}} {
			c.disc(color.RGBA{60, 110, 45, 255}, color.RGBA{35, 70, 28, 255}, cx+b[0], 30+b[1], b[2])
		}
	case 2:
		trunkY := float32(h - 35)
		c.trunk(cx-4, trunkY, 8, 35, pineBark)
		layerH := (trunkY + 8 - 5) / 6
		for i := 0; i < 6; i++ {
			y := 5 + float32(i)*layerH*0.75
			lw := float32(10 + i*6)
			c.polygon(color.RGBA{28, 68, 24, 255}, [2]float32{cx, y - 2}, [2]float32{cx - lw/2, y + layerH + 4}, [2]float32{cx + lw/2, y + layerH + 4})
		}
	case 3:
		c.trunk(cx-6, h-32, 12, 32, pale)
		c.disc(color.RGBA{70, 120, 50, 255}, color.RGBA{50, 90, 40, 255}, cx, 25, 22)
		for i := 0; i < 12; i++ {
			sx := cx + float32((rng.Float64()-0.5)*30)
			sy := 30 + float32(rng.Float64()*15)
			ex := sx + float32((rng.Float64()-0.5)*20)
			ey := sy + 20 + float32(rng.Float64()*25)
			c.stroke(color.RGBA{55, 95, 40, 255}, sx, sy, ex, ey, 2)
		}
		for i := 0; i < 40; i++ {
			x := cx + float32((rng.Float64()-0.5)*40)
			y := 35 + float32(rng.Float64()*40)
			c.ellipse(color.RGBA{65, 110, 45, 255}, x, y, 2, 4)
		}
	case 4:
		trunkY := float32(h - 20)
		c.trunk(cx-3, trunkY, 6, 20, oakBark)
		c.z.MoveTo(cx, 3)
		c.z.QuadTo(cx+14, 20, cx+12, trunkY+5)
		c.z.LineTo(cx-12, trunkY+5)
		c.z.QuadTo(cx-14, 20, cx, 3)
		c.fill(color.RGBA{35, 75, 30, 255})
		for y := float32(10); y < trunkY; y += 8 {
			r := 8 + y/trunkY*6
			c.ellipse(color.RGBA{28, 62, 25, 255}, cx, y, r*0.6, r*0.4)
		}
	case 5:
		trunkY := float32(h - 32)
		c.trunk(cx-4, trunkY, 8, 32, birchBark)
		for y := trunkY + 5; y < h-5; y += 8 + float32(rng.Float64()*6) {
			mw := 3 + float32(rng.Float64()*4)
			c.rect(color.RGBA{0x2a, 0x2a, 0x25, 255}, cx-4+float32(rng.Float64())*(8-mw), y, mw, 2)
		}
		for _, b := range [][3]float32{{0, 0, 24}, {-10, 8, 16.8}, {10, 6, 16.8}, {0, -10, 13.2}, {0, 15, 12}} {
			c.disc(color.RGBA{80, 130, 55, 255}, color.RGBA{45, 85, 35, 255}, cx+b[0], 38+b[1], b[2])
		}
	case 6:
		trunkY := float32(h - 45)
		c.trunk(cx-5, trunkY, 10, 45, deadBark)
		branch := color.RGBA{0x4a, 0x45, 0x40, 255}
		c.stroke(branch, cx, trunkY+10, cx-20, trunkY-5, 3)
		c.stroke(branch, cx, trunkY+15, cx+22, trunkY, 3)
		c.stroke(branch, cx, trunkY+25, cx-18, trunkY+12, 3)
		c.stroke(branch, cx, trunkY+8, cx+15, trunkY-10, 3)
		for i := 0; i < 8; i++ {
			sx := cx + float32((rng.Float64()-0.5)*25)
			sy := trunkY + float32(rng.Float64()*20)
			c.stroke(color.RGBA{0x55, 0x55, 0x50, 255}, sx, sy, sx+float32((rng.Float64()-0.5)*15), sy-5-float32(rng.Float64()*10), 1.5)
		}
	}

	return c.texture()
}

// Trees draws every tree variation in order.
func Trees(rng *rand.Rand) []*Texture {
	out := make([]*Texture, TreeVariations)
	for i := range out {
		out[i] = Tree(i, rng)
	}
	return out
}

// Villager draws a small standing figure on a transparent 30x45 texture,
// used when no villager sprite is found on disk.
func Villager(tunic color.RGBA) *Texture {
	c := newCanvas(30, 45)
	skin := color.RGBA{224, 172, 105, 255}
	c.rect(color.RGBA{60, 45, 30, 255}, 9, 34, 5, 11)
	c.rect(color.RGBA{60, 45, 30, 255}, 16, 34, 5, 11)
	c.polygon(tunic, [2]float32{8, 14}, [2]float32{22, 14}, [2]float32{25, 36}, [2]float32{5, 36})
	c.rect(scaleColor(tunic, 0.8), 4, 15, 4, 14)
	c.rect(scaleColor(tunic, 0.8), 22, 15, 4, 14)
	c.ellipse(skin, 15, 8, 6, 7)
	return c.texture()
}
