package texture

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Texture is a read-only RGBA texel grid. Pix holds non-premultiplied
// R, G, B, A bytes in row-major order.
type Texture struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a fully transparent texture.
func New(width, height int) *Texture {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	return &Texture{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}
}

// Solid returns a texture filled with a single colour.
func Solid(width, height int, c color.RGBA) *Texture {
	t := New(width, height)
	t.Fill(c)
	return t
}

// FromImage copies any image into a texture.
func FromImage(img image.Image) *Texture {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	return fromNRGBA(nrgba)
}

func fromNRGBA(img *image.NRGBA) *Texture {
	b := img.Bounds()
	t := New(b.Dx(), b.Dy())
	for y := 0; y < t.Height; y++ {
		copy(t.Pix[y*t.Width*4:(y+1)*t.Width*4], img.Pix[y*img.Stride:y*img.Stride+t.Width*4])
	}
	return t
}

// At returns the texel at (x, y). Coordinates are clamped to the edges.
func (t *Texture) At(x, y int) color.RGBA {
	x = min(max(x, 0), t.Width-1)
	y = min(max(y, 0), t.Height-1)
	i := (y*t.Width + x) * 4
	return color.RGBA{t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3]}
}

// Wrap returns the texel at (x, y) with both coordinates wrapped into range.
func (t *Texture) Wrap(x, y int) color.RGBA {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y %= t.Height
	if y < 0 {
		y += t.Height
	}
	i := (y*t.Width + x) * 4
	return color.RGBA{t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3]}
}

// Set writes a texel; out-of-range writes are ignored.
func (t *Texture) Set(x, y int, c color.RGBA) {
	if x < 0 || y < 0 || x >= t.Width || y >= t.Height {
		return
	}
	i := (y*t.Width + x) * 4
	t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3] = c.R, c.G, c.B, c.A
}

// Fill sets every texel to c.
func (t *Texture) Fill(c color.RGBA) {
	for i := 0; i < len(t.Pix); i += 4 {
		t.Pix[i], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3] = c.R, c.G, c.B, c.A
	}
}

// Image exposes the texture as an image for encoding and previews.
func (t *Texture) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    t.Pix,
		Stride: t.Width * 4,
		Rect:   image.Rect(0, 0, t.Width, t.Height),
	}
}

// MirrorWide returns a texture twice as wide: the original followed by its
// horizontal mirror, so a panorama wraps without a seam.
func (t *Texture) MirrorWide() *Texture {
	out := New(t.Width*2, t.Height)
	for y := 0; y < t.Height; y++ {
		for x := 0; x < t.Width; x++ {
			c := t.At(x, y)
			out.Set(x, y, c)
			out.Set(out.Width-1-x, y, c)
		}
	}
	return out
}
