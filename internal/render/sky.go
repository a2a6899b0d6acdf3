package render

import (
	"image/color"
	"math"

	"hamlet/internal/mathutil"
	"hamlet/internal/texture"
)

// Sky paints whatever the rasterizer leaves empty. With a Texture the
// panorama scrolls with the heading; without one a vertical Top to Bottom
// gradient runs from the top row to the horizon. Background fills the
// remaining rows.
type Sky struct {
	Texture    *texture.Texture
	Top        color.RGBA
	Bottom     color.RGBA
	Background color.RGBA
}

// DefaultSky is the gradient night sky.
func DefaultSky() Sky {
	return Sky{
		Top:        color.RGBA{10, 10, 30, 255},
		Bottom:     color.RGBA{30, 30, 60, 255},
		Background: color.RGBA{10, 10, 26, 255},
	}
}

// skyView holds the per-frame sky constants.
type skyView struct {
	sky        Sky
	width      int
	horizon    float64
	bandHeight float64 // rows covered by the panorama
	panorama   float64 // full panorama height in rows
	offset     float64 // texture x at screen column 0
}

func newSkyView(sky Sky, width, height int, horizon, heading, heightFraction float64) skyView {
	v := skyView{
		sky:      sky,
		width:    width,
		horizon:  horizon,
		panorama: float64(height) * heightFraction,
	}
	v.bandHeight = math.Max(0, math.Min(v.panorama, horizon))
	if sky.Texture != nil {
		w := float64(sky.Texture.Width)
		v.offset = math.Mod(heading/(2*math.Pi)*w, w)
		if v.offset < 0 {
			v.offset += w
		}
	}
	return v
}

// color returns the sky colour at screen (x, y).
func (v *skyView) color(x, y int) (uint8, uint8, uint8) {
	fy := float64(y)
	if fy >= v.horizon {
		return v.sky.Background.R, v.sky.Background.G, v.sky.Background.B
	}

	if t := v.sky.Texture; t != nil {
		if fy >= v.bandHeight {
			return v.sky.Background.R, v.sky.Background.G, v.sky.Background.B
		}
		tx := mathutil.IntMod(int(math.Floor(v.offset+float64(x)*float64(t.Width)/float64(v.width))), t.Width)
		ty := int(fy * float64(t.Height) / v.panorama)
		c := t.At(tx, ty)
		return c.R, c.G, c.B
	}

	f := 0.0
	if v.horizon > 0 {
		f = fy / v.horizon
	}
	lerp := func(a, b uint8) uint8 {
		return uint8(mathutil.Lerp(float64(a), float64(b), f) + 0.5)
	}
	return lerp(v.sky.Top.R, v.sky.Bottom.R), lerp(v.sky.Top.G, v.sky.Bottom.G), lerp(v.sky.Top.B, v.sky.Bottom.B)
}
