package render

import (
	"image/color"
	"math"

	"hamlet/internal/mathutil"
)

// fade is the distance falloff max(floor, 1 - d/fadeDistance).
func fade(d, fadeDistance, floor float64) float64 {
	return math.Max(floor, 1-d/fadeDistance)
}

func shadeChannel(v uint8, brightness float64) uint8 {
	s := float64(v)*brightness + 0.5
	if s >= 255 {
		return 255
	}
	if s <= 0 {
		return 0
	}
	return uint8(s)
}

func shade(c color.RGBA, brightness float64) (uint8, uint8, uint8) {
	return shadeChannel(c.R, brightness), shadeChannel(c.G, brightness), shadeChannel(c.B, brightness)
}

// texIndex maps a non-negative coordinate scaled by size to a texel
// index, wrapping like floor(v * size) mod size.
func texIndex(v float64, size int) int {
	return mathutil.IntMod(int(math.Floor(v*float64(size))), size)
}
