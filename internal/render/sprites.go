package render

import (
	"math"
	"slices"

	"hamlet/internal/mathutil"
	"hamlet/internal/texture"
)

// Billboard is an upright, camera-facing textured quad standing on the
// ground at (X, Y). Width and Height are world units.
type Billboard struct {
	X, Y    float64
	Width   float64
	Height  float64
	Texture *texture.Texture
}

// BillboardProvider contributes billboards to a frame. Implementations
// append to dst and return it so the compositor can reuse its buffer.
type BillboardProvider interface {
	AppendBillboards(dst []Billboard) []Billboard
}

// SpriteStats counts what happened to the billboards of one frame.
type SpriteStats struct {
	Considered      int // Billboards gathered from providers
	Visible         int // Survived distance and angle culling
	Drawn           int // Painted at least one pixel
	Pixels          int
	OccludedColumns int // Screen columns skipped because a wall was nearer
}

type spriteCandidate struct {
	billboard *Billboard
	distSq    float64
	rel       float64
}

// Compositor draws billboards far to near over a rasterized frame,
// hiding columns where the depth buffer holds a nearer wall.
type Compositor struct {
	settings   Settings
	billboards []Billboard
	candidates []spriteCandidate
	visible    []bool
}

// NewCompositor creates a compositor.
func NewCompositor(settings Settings) *Compositor {
	return &Compositor{settings: settings.withFallbacks()}
}

// Composite gathers billboards from every provider and blends them into
// the frame. depth must be the buffer the rasterizer returned for this
// frame.
func (c *Compositor) Composite(f *Frame, pose Pose, depth DepthBuffer, providers ...BillboardProvider) SpriteStats {
	var stats SpriteStats

	c.billboards = c.billboards[:0]
	for _, p := range providers {
		if p != nil {
			c.billboards = p.AppendBillboards(c.billboards)
		}
	}
	stats.Considered = len(c.billboards)

	s := c.settings.Sprites
	maxSq := s.MaxDistance * s.MaxDistance
	minSq := s.MinDistance * s.MinDistance
	halfFOV := pose.FOV / 2

	c.candidates = c.candidates[:0]
	for i := range c.billboards {
		b := &c.billboards[i]
		if b.Texture == nil {
			continue
		}
		dx := b.X - pose.X
		dy := b.Y - pose.Y
		distSq := dx*dx + dy*dy
		if distSq > maxSq || distSq < minSq {
			continue
		}
		rel := mathutil.NormalizeAngle(math.Atan2(dy, dx) - pose.Heading)
		if math.Abs(rel) > halfFOV+s.FOVMargin {
			continue
		}
		c.candidates = append(c.candidates, spriteCandidate{billboard: b, distSq: distSq, rel: rel})
	}
	stats.Visible = len(c.candidates)

	slices.SortStableFunc(c.candidates, func(a, b spriteCandidate) int {
		switch {
		case a.distSq > b.distSq:
			return -1
		case a.distSq < b.distSq:
			return 1
		}
		return 0
	})

	horizon := pose.horizon(f.Height(), c.settings.PitchScale)
	for i := range c.candidates {
		pixels, occluded := c.draw(f, pose, depth, horizon, &c.candidates[i])
		if pixels > 0 {
			stats.Drawn++
		}
		stats.Pixels += pixels
		stats.OccludedColumns += occluded
	}
	return stats
}

func (c *Compositor) draw(f *Frame, pose Pose, depth DepthBuffer, horizon float64, sc *spriteCandidate) (int, int) {
	b := sc.billboard
	corrected := math.Sqrt(sc.distSq) * math.Cos(sc.rel)
	if corrected <= 0 || pose.FOV <= 0 {
		return 0, 0
	}

	width := float64(f.Width())
	height := float64(f.Height())
	rays := pose.rays()

	scale := c.settings.ProjectionScale / corrected
	spriteH := b.Height * scale
	spriteW := b.Width * scale
	if spriteW <= 0 || spriteH <= 0 {
		return 0, 0
	}

	centerX := width/2 + sc.rel/(pose.FOV/2)*width/2
	groundY := horizon + pose.Z*scale
	top := groundY - spriteH
	left := centerX - spriteW/2
	right := centerX + spriteW/2
	if right < 0 || left > width {
		return 0, 0
	}

	x0 := int(math.Max(0, math.Floor(left)))
	x1 := int(math.Min(width, math.Ceil(right)))
	y0 := int(math.Max(0, math.Floor(top)))
	y1 := int(math.Min(height, math.Ceil(groundY)))
	if x1 <= x0 || y1 <= y0 {
		return 0, 0
	}

	s := c.settings.Sprites
	strideX := max(1, (x1-x0)/s.SampleTarget)
	strideY := max(1, (y1-y0)/s.SampleTarget)
	brightness := fade(corrected, s.FadeDistance, s.BrightnessMin)

	if cap(c.visible) < strideX {
		c.visible = make([]bool, strideX)
	}
	visible := c.visible[:strideX]

	tex := b.Texture
	pixels, occluded := 0, 0
	for sx := x0; sx < x1; sx += strideX {
		bx1 := min(sx+strideX, x1)

		shown := false
		for px := sx; px < bx1; px++ {
			vis := !(depth.At(columnOf(px, f.Width(), rays)) < corrected)
			visible[px-sx] = vis
			if vis {
				shown = true
			} else {
				occluded++
			}
		}
		if !shown {
			continue
		}

		texX := int(math.Floor((float64(sx) - left) / spriteW * float64(tex.Width)))
		for sy := y0; sy < y1; sy += strideY {
			texY := int(math.Floor((float64(sy) - top) / spriteH * float64(tex.Height)))
			src := tex.At(texX, texY)
			if src.A <= s.AlphaThreshold {
				continue
			}

			alpha := float64(src.A) / 255
			by1 := min(sy+strideY, y1)
			for py := sy; py < by1; py++ {
				for px := sx; px < bx1; px++ {
					if !visible[px-sx] {
						continue
					}
					blend(f, px, py, src.R, src.G, src.B, brightness, alpha)
					pixels++
				}
			}
		}
	}
	return pixels, occluded
}

// blend mixes a shaded source colour over the frame pixel:
// src*brightness*alpha + dst*(1-alpha).
func blend(f *Frame, x, y int, r, g, b uint8, brightness, alpha float64) {
	i := y*f.Image.Stride + x*4
	p := f.Image.Pix[i : i+4 : i+4]
	mix := func(s, d uint8) uint8 {
		v := float64(s)*brightness*alpha + float64(d)*(1-alpha) + 0.5
		if v >= 255 {
			return 255
		}
		return uint8(v)
	}
	p[0] = mix(r, p[0])
	p[1] = mix(g, p[1])
	p[2] = mix(b, p[2])
	p[3] = 255
}
