package game

import (
	"image"
	"math"

	"hamlet/internal/render"
)

// depthStripRows is the height of the depth strip at the bottom of the view.
func depthStripRows(height int) int {
	return min(height, max(4, height/16))
}

// depthShade maps a wall distance to a grey level: white up close, black
// at maxDist and beyond, black for columns that hit nothing.
func depthShade(d, maxDist float64) uint8 {
	if math.IsInf(d, 1) || maxDist <= 0 || d >= maxDist {
		return 0
	}
	return uint8(255*(1-math.Max(d, 0)/maxDist) + 0.5)
}

// paintDepthStrip overwrites the bottom rows of img with the per-column
// depth, each screen column taking the depth of the ray that painted it.
func paintDepthStrip(img *image.RGBA, depth render.DepthBuffer, maxDist float64) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	rows := depthStripRows(height)
	for x := 0; x < width; x++ {
		v := depthShade(depth.AtScreen(x, width), maxDist)
		for y := height - rows; y < height; y++ {
			i := img.PixOffset(img.Rect.Min.X+x, img.Rect.Min.Y+y)
			p := img.Pix[i : i+4 : i+4]
			p[0], p[1], p[2], p[3] = v, v, v, 255
		}
	}
}
