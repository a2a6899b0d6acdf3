package raycast

import (
	"math"
	"slices"

	"hamlet/internal/geometry"
)

// Hit is one ray/segment crossing.
type Hit struct {
	X, Y     float64
	Distance float64 // Raw distance along the ray; not fisheye corrected
	TexCoord float64 // 0..1 along the wall's varying axis
	// Structure is the index into the geometry model, or -1 for the world
	// boundary.
	Structure int
	Category  geometry.Category
	Side      geometry.Side
	Boundary  bool
}

// Caster returns every wall a ray crosses, not just the nearest one, so
// taller structures behind shorter ones stay visible.
type Caster struct {
	model *geometry.Model
}

// NewCaster creates a caster over a compiled model. The model must not be
// modified while the caster is in use.
func NewCaster(model *geometry.Model) *Caster {
	return &Caster{model: model}
}

// Model returns the geometry the caster reads.
func (c *Caster) Model() *geometry.Model {
	return c.model
}

// Cast casts a ray from (x, y) at the given world angle. Hits are appended
// to dst[:0] and returned sorted by ascending distance; equal distances
// keep structure-then-wall order, with boundary hits last.
func (c *Caster) Cast(x, y, angle float64, dst []Hit) []Hit {
	return c.CastDir(x, y, math.Cos(angle), math.Sin(angle), dst)
}

// CastDir is Cast with a precomputed unit direction.
func (c *Caster) CastDir(x, y, dx, dy float64, dst []Hit) []Hit {
	hits := dst[:0]
	if c == nil || c.model == nil {
		return hits
	}

	structures := c.model.Structures()
	for i := range structures {
		s := &structures[i]
		if !s.Box.RayMayHit(x, y, dx, dy) {
			continue
		}
		for _, wall := range s.Walls {
			in, ok := geometry.Intersect(x, y, dx, dy, wall)
			if !ok {
				continue
			}
			hits = append(hits, Hit{
				X:         in.X,
				Y:         in.Y,
				Distance:  in.T,
				TexCoord:  wall.TexCoord(in.X, in.Y),
				Structure: i,
				Category:  s.Category,
				Side:      wall.Side,
			})
		}
	}

	for _, b := range c.model.Boundaries() {
		in, ok := geometry.Intersect(x, y, dx, dy, b)
		if !ok {
			continue
		}
		hits = append(hits, Hit{
			X:         in.X,
			Y:         in.Y,
			Distance:  in.T,
			TexCoord:  b.TexCoord(in.X, in.Y),
			Structure: -1,
			Category:  geometry.Boundary,
			Side:      geometry.SideNone,
			Boundary:  true,
		})
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		switch {
		case a.Distance < b.Distance:
			return -1
		case a.Distance > b.Distance:
			return 1
		}
		return 0
	})
	return hits
}
