package render

import (
	"image"
	"math"
)

// Frame is the reusable render target: an RGBA image plus the storage of
// its depth buffer.
type Frame struct {
	Image *image.RGBA
	depth []float64
}

// NewFrame allocates a width x height frame.
func NewFrame(width, height int) *Frame {
	return &Frame{
		Image: image.NewRGBA(image.Rect(0, 0, max(1, width), max(1, height))),
	}
}

func (f *Frame) Width() int {
	return f.Image.Rect.Dx()
}

func (f *Frame) Height() int {
	return f.Image.Rect.Dy()
}

// Resize reallocates the image when the size changed.
func (f *Frame) Resize(width, height int) {
	width, height = max(1, width), max(1, height)
	if f.Width() == width && f.Height() == height {
		return
	}
	f.Image = image.NewRGBA(image.Rect(0, 0, width, height))
}

// resetDepth sizes the depth storage to n entries, all +Inf.
func (f *Frame) resetDepth(n int) []float64 {
	if cap(f.depth) < n {
		f.depth = make([]float64, n)
	}
	f.depth = f.depth[:n]
	inf := math.Inf(1)
	for i := range f.depth {
		f.depth[i] = inf
	}
	return f.depth
}

// clearAlpha zeroes the alpha of every pixel; the rasterizer sets it back
// to opaque on every pixel it paints.
func (f *Frame) clearAlpha() {
	pix := f.Image.Pix
	for i := 3; i < len(pix); i += 4 {
		pix[i] = 0
	}
}

func (f *Frame) setPixel(x, y int, r, g, b uint8) {
	i := y*f.Image.Stride + x*4
	p := f.Image.Pix[i : i+4 : i+4]
	p[0], p[1], p[2], p[3] = r, g, b, 255
}

// fillSpan paints row y from x0 (inclusive) to x1 (exclusive).
func (f *Frame) fillSpan(x0, x1, y int, r, g, b uint8) {
	i := y*f.Image.Stride + x0*4
	for x := x0; x < x1; x++ {
		p := f.Image.Pix[i : i+4 : i+4]
		p[0], p[1], p[2], p[3] = r, g, b, 255
		i += 4
	}
}
